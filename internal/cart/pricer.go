package cart

import (
	"math"

	"github.com/imrishuroy/go-pizza-cartflow/internal/menu"
)

// QuantityPolicy decides what happens to an item whose qty is present but unusable.
type QuantityPolicy int

const (
	// QuantityLenient prices the item as qty 1.
	QuantityLenient QuantityPolicy = iota
	// QuantityStrict rejects the item.
	QuantityStrict
)

// maxQuantity bounds qty so the int conversion is exact.
const maxQuantity = 1 << 31

// ValidateAndPrice partitions items into priced line items and rejected
// entries, preserving input order in both. It never fails.
func ValidateAndPrice(items []ItemRequest, m menu.Menu, policy QuantityPolicy) ([]LineItem, []ItemRequest, float64) {
	lines := make([]LineItem, 0, len(items))
	var invalid []ItemRequest
	var total float64

	for _, item := range items {
		if item.Type == "" || item.Size == "" {
			invalid = append(invalid, item)
			continue
		}
		price, ok := m.Lookup(item.Type, item.Size)
		if !ok {
			invalid = append(invalid, item)
			continue
		}
		qty, ok := quantity(item.Qty)
		if !ok && policy == QuantityStrict {
			invalid = append(invalid, item)
			continue
		}

		subtotal := float64(qty) * price
		lines = append(lines, LineItem{
			Type:     item.Type,
			Size:     item.Size,
			Qty:      qty,
			Subtotal: subtotal,
		})
		total += subtotal
	}

	return lines, invalid, total
}

// quantity returns the requested quantity, or 1 with ok=false when qty is
// present but not a whole number >= 1. An absent qty is 1 and ok.
func quantity(v interface{}) (int, bool) {
	var f float64
	switch q := v.(type) {
	case nil:
		return 1, true
	case float64:
		f = q
	case int:
		f = float64(q)
	case int64:
		f = float64(q)
	default:
		return 1, false
	}
	if math.IsNaN(f) || f < 1 || f > maxQuantity || f != math.Trunc(f) {
		return 1, false
	}
	return int(f), true
}
