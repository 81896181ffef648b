package cart

import (
	"errors"
	"fmt"
)

var (
	ErrMissingFields   = errors.New("missing required fields")
	ErrUnauthorized    = errors.New("missing required token in header or token is invalid")
	ErrMenuUnavailable = errors.New("could not load menu")
	ErrStoreFailure    = errors.New("could not save the cart")
)

// InvalidItemsError reports the requested entries that did not match the menu.
type InvalidItemsError struct {
	Items []ItemRequest
}

func (e *InvalidItemsError) Error() string {
	return fmt.Sprintf("invalid items in item list: %d rejected", len(e.Items))
}
