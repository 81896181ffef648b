// Package cart validates, prices and persists pizza carts.
package cart

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	validatorv10 "github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/imrishuroy/go-pizza-cartflow/internal/menu"
	"github.com/imrishuroy/go-pizza-cartflow/internal/store"
	"github.com/imrishuroy/go-pizza-cartflow/internal/tokens"
)

// Service runs the cart creation pipeline:
// input check -> token check -> menu read -> validate/price -> persist.
type Service struct {
	validate *validatorv10.Validate
	tokens   tokens.Authority
	menu     menu.Source
	store    store.Store
	policy   QuantityPolicy
	idFunc   func() string
}

// Option configures a Service.
type Option func(*Service)

// WithQuantityPolicy sets how unusable qty values are treated.
func WithQuantityPolicy(p QuantityPolicy) Option {
	return func(s *Service) { s.policy = p }
}

// WithIDFunc replaces the cart id generator.
func WithIDFunc(f func() string) Option {
	return func(s *Service) { s.idFunc = f }
}

// NewService wires the collaborators. v must be able to validate CreateRequest.
func NewService(v *validatorv10.Validate, auth tokens.Authority, src menu.Source, st store.Store, opts ...Option) *Service {
	s := &Service{
		validate: v,
		tokens:   auth,
		menu:     src,
		store:    st,
		policy:   QuantityLenient,
		idFunc:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateCart builds and stores a cart for req.Email. Nothing is stored unless
// every item in req.Items is on the menu.
func (s *Service) CreateCart(ctx context.Context, req CreateRequest, token string) (*Cart, error) {
	req.Email = strings.TrimSpace(req.Email)
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMissingFields, err)
	}

	if token == "" || !s.tokens.Verify(ctx, token, req.Email) {
		return nil, ErrUnauthorized
	}

	c := &Cart{
		ID:    s.idFunc(),
		Email: req.Email,
		Items: []LineItem{},
	}

	m, err := s.menu.Read(ctx)
	if err != nil {
		log.Printf("[cart] menu read failed cart=%s: %v", c.ID, err)
		return nil, fmt.Errorf("%w: %w", ErrMenuUnavailable, err)
	}

	lines, invalid, total := ValidateAndPrice(req.Items, m, s.policy)
	if len(invalid) > 0 {
		return nil, &InvalidItemsError{Items: invalid}
	}
	c.Items = lines
	c.Total = total

	if err := s.store.Create(ctx, store.CollectionCarts, c.ID, c); err != nil {
		if errors.Is(err, store.ErrExists) {
			log.Printf("[cart] id collision cart=%s", c.ID)
		}
		log.Printf("[cart] persist failed cart=%s: %v", c.ID, err)
		return nil, fmt.Errorf("%w: %w", ErrStoreFailure, err)
	}

	log.Printf("[cart] created cart=%s email=%s items=%d total=%v", c.ID, c.Email, len(c.Items), c.Total)
	return c, nil
}
