package cart

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/imrishuroy/go-pizza-cartflow/internal/menu"
	"github.com/imrishuroy/go-pizza-cartflow/internal/store"
	"github.com/imrishuroy/go-pizza-cartflow/internal/validation"
	"github.com/stretchr/testify/require"
)

type fakeAuthority struct {
	valid map[string]string // token -> email
	calls int
}

func (f *fakeAuthority) Verify(ctx context.Context, token, email string) bool {
	f.calls++
	return f.valid[token] == email
}

type fakeMenu struct {
	menu  menu.Menu
	err   error
	calls int
}

func (f *fakeMenu) Read(ctx context.Context) (menu.Menu, error) {
	f.calls++
	return f.menu, f.err
}

type fakeStore struct {
	created map[string]interface{}
	err     error
	calls   int
}

func (f *fakeStore) Create(ctx context.Context, collection, id string, record interface{}) error {
	f.calls++
	if f.err != nil {
		return f.err
	}
	key := collection + "/" + id
	if _, ok := f.created[key]; ok {
		return store.ErrExists
	}
	f.created[key] = record
	return nil
}

func (f *fakeStore) Read(ctx context.Context, collection, id string, out interface{}) error {
	return store.ErrNotFound
}

type fixture struct {
	auth  *fakeAuthority
	menu  *fakeMenu
	store *fakeStore
	svc   *Service
}

func newFixture(opts ...Option) *fixture {
	f := &fixture{
		auth: &fakeAuthority{valid: map[string]string{"tok-1": "ana@example.com"}},
		menu: &fakeMenu{menu: menu.Menu{
			"margherita": {Type: "margherita", Price: map[string]float64{"small": 10, "large": 15}},
		}},
		store: &fakeStore{created: map[string]interface{}{}},
	}
	f.svc = NewService(validation.New(), f.auth, f.menu, f.store, opts...)
	return f
}

func TestCreateCart_Success(t *testing.T) {
	f := newFixture(WithIDFunc(func() string { return "cart-1" }))
	req := CreateRequest{
		Email: "  ana@example.com ",
		Items: []ItemRequest{{Type: "margherita", Size: "large", Qty: 2}},
	}

	c, err := f.svc.CreateCart(context.Background(), req, "tok-1")
	require.NoError(t, err)

	require.Equal(t, "cart-1", c.ID)
	require.Equal(t, "ana@example.com", c.Email)
	require.Equal(t, []LineItem{{Type: "margherita", Size: "large", Qty: 2, Subtotal: 30}}, c.Items)
	require.Equal(t, 30.0, c.Total)

	require.Equal(t, 1, f.store.calls)
	require.Same(t, c, f.store.created["carts/cart-1"])
}

func TestCreateCart_InvalidItemsPersistNothing(t *testing.T) {
	f := newFixture()
	req := CreateRequest{
		Email: "ana@example.com",
		Items: []ItemRequest{
			{Type: "margherita", Size: "small"},
			{Type: "pepperoni", Size: "large"},
		},
	}

	_, err := f.svc.CreateCart(context.Background(), req, "tok-1")

	var invalid *InvalidItemsError
	require.ErrorAs(t, err, &invalid)
	require.Equal(t, []ItemRequest{{Type: "pepperoni", Size: "large"}}, invalid.Items)
	require.Zero(t, f.store.calls)
}

func TestCreateCart_MissingFieldsShortCircuit(t *testing.T) {
	items := []ItemRequest{{Type: "margherita", Size: "small"}}
	cases := map[string]CreateRequest{
		"empty email":     {Email: "   ", Items: items},
		"malformed email": {Email: "ana.example.com", Items: items},
		"no items":        {Email: "ana@example.com"},
		"empty items":     {Email: "ana@example.com", Items: []ItemRequest{}},
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			f := newFixture()
			_, err := f.svc.CreateCart(context.Background(), req, "tok-1")
			require.ErrorIs(t, err, ErrMissingFields)
			require.Zero(t, f.auth.calls)
			require.Zero(t, f.menu.calls)
			require.Zero(t, f.store.calls)
		})
	}
}

func TestCreateCart_UnauthorizedNeverReadsMenu(t *testing.T) {
	req := CreateRequest{Email: "ana@example.com", Items: []ItemRequest{{Type: "margherita", Size: "small"}}}

	for _, token := range []string{"", "tok-unknown"} {
		f := newFixture()
		_, err := f.svc.CreateCart(context.Background(), req, token)
		require.ErrorIs(t, err, ErrUnauthorized)
		require.Zero(t, f.menu.calls)
		require.Zero(t, f.store.calls)
	}

	// token valid but bound to another email
	f := newFixture()
	req.Email = "bob@example.com"
	_, err := f.svc.CreateCart(context.Background(), req, "tok-1")
	require.ErrorIs(t, err, ErrUnauthorized)
	require.Equal(t, 1, f.auth.calls)
	require.Zero(t, f.menu.calls)
}

func TestCreateCart_MenuUnavailable(t *testing.T) {
	f := newFixture()
	f.menu.err = errors.New("menu missing")
	req := CreateRequest{Email: "ana@example.com", Items: []ItemRequest{{Type: "margherita", Size: "small"}}}

	_, err := f.svc.CreateCart(context.Background(), req, "tok-1")
	require.ErrorIs(t, err, ErrMenuUnavailable)
	require.Zero(t, f.store.calls)
}

func TestCreateCart_StoreFailure(t *testing.T) {
	f := newFixture()
	f.store.err = errors.New("dynamodb unavailable")
	req := CreateRequest{Email: "ana@example.com", Items: []ItemRequest{{Type: "margherita", Size: "small"}}}

	_, err := f.svc.CreateCart(context.Background(), req, "tok-1")
	require.ErrorIs(t, err, ErrStoreFailure)
	require.Equal(t, 1, f.store.calls)
}

func TestCreateCart_IDCollisionIsStoreFailure(t *testing.T) {
	f := newFixture(WithIDFunc(func() string { return "same" }))
	req := CreateRequest{Email: "ana@example.com", Items: []ItemRequest{{Type: "margherita", Size: "small"}}}

	_, err := f.svc.CreateCart(context.Background(), req, "tok-1")
	require.NoError(t, err)
	_, err = f.svc.CreateCart(context.Background(), req, "tok-1")
	require.ErrorIs(t, err, ErrStoreFailure)
	require.ErrorIs(t, err, store.ErrExists)
}

func TestCreateCart_IdenticalRequestsGetDistinctIDs(t *testing.T) {
	f := newFixture()
	req := CreateRequest{Email: "ana@example.com", Items: []ItemRequest{{Type: "margherita", Size: "small", Qty: 3}}}

	first, err := f.svc.CreateCart(context.Background(), req, "tok-1")
	require.NoError(t, err)
	second, err := f.svc.CreateCart(context.Background(), req, "tok-1")
	require.NoError(t, err)

	require.NotEqual(t, first.ID, second.ID)
	require.Equal(t, first.Total, second.Total)
	require.Len(t, f.store.created, 2)
}

func TestCreateCart_StrictQuantity(t *testing.T) {
	f := newFixture(WithQuantityPolicy(QuantityStrict))
	req := CreateRequest{Email: "ana@example.com", Items: []ItemRequest{{Type: "margherita", Size: "small", Qty: 0.5}}}

	_, err := f.svc.CreateCart(context.Background(), req, "tok-1")
	var invalid *InvalidItemsError
	require.ErrorAs(t, err, &invalid)
	require.Len(t, invalid.Items, 1)
	require.Zero(t, f.store.calls)
}

func TestNewEvent(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.FixedZone("x", 3600))
	c := &Cart{ID: "c1", Email: "ana@example.com", Total: 45, Items: []LineItem{
		{Type: "margherita", Size: "large", Qty: 2, Subtotal: 30},
		{Type: "margherita", Size: "large", Qty: 1, Subtotal: 15},
	}}

	ev := NewEvent(c, now)
	require.Equal(t, 3, ev.ItemCount)
	require.Equal(t, 45.0, ev.Total)
	require.Equal(t, time.UTC, ev.CreatedAt.Location())
	require.Contains(t, fmt.Sprint(ev), "c1")
}
