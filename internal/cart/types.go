package cart

import (
	"encoding/json"
	"time"
)

// ItemRequest is one requested cart entry as sent by the client.
//
// The raw JSON is kept so a rejected entry can be echoed back verbatim,
// including entries that are not objects or carry non-string fields.
type ItemRequest struct {
	Type string      `json:"type"`
	Size string      `json:"size"`
	Qty  interface{} `json:"qty,omitempty"` // absent, or whatever JSON value the client sent

	raw json.RawMessage
}

// UnmarshalJSON accepts any JSON value. Fields of the wrong type are left
// zero so the entry fails validation instead of failing the whole body.
func (r *ItemRequest) UnmarshalJSON(b []byte) error {
	*r = ItemRequest{raw: append(json.RawMessage(nil), b...)}

	var fields map[string]interface{}
	if err := json.Unmarshal(b, &fields); err != nil {
		return nil
	}
	r.Type, _ = fields["type"].(string)
	r.Size, _ = fields["size"].(string)
	r.Qty = fields["qty"]
	return nil
}

// MarshalJSON returns the entry exactly as received when it came from JSON.
func (r ItemRequest) MarshalJSON() ([]byte, error) {
	if len(r.raw) > 0 {
		return r.raw, nil
	}
	type plain ItemRequest
	return json.Marshal(plain(r))
}

// LineItem is a priced cart entry.
type LineItem struct {
	Type     string  `json:"type" dynamodbav:"type"`
	Size     string  `json:"size" dynamodbav:"size"`
	Qty      int     `json:"qty" dynamodbav:"qty"`
	Subtotal float64 `json:"subtotal" dynamodbav:"subtotal"`
}

// Cart is the persisted record.
type Cart struct {
	ID    string     `json:"id" dynamodbav:"id"`
	Email string     `json:"email" dynamodbav:"email"`
	Items []LineItem `json:"items" dynamodbav:"items"`
	Total float64    `json:"total" dynamodbav:"total"`
}

// CreateRequest is the payload for POST /cart.
type CreateRequest struct {
	Email string        `json:"email" validate:"required,email"`
	Items []ItemRequest `json:"items" validate:"required,min=1"`
}

// Event is published after a cart has been persisted.
type Event struct {
	CartID    string    `json:"cart_id"`
	Email     string    `json:"email"`
	Total     float64   `json:"total"`
	ItemCount int       `json:"item_count"`
	CreatedAt time.Time `json:"created_at"`
}

// EventType is the message attribute value for cart creation events.
const EventType = "cart.created"

// NewEvent summarizes c for publishing.
func NewEvent(c *Cart, now time.Time) Event {
	count := 0
	for _, it := range c.Items {
		count += it.Qty
	}
	return Event{
		CartID:    c.ID,
		Email:     c.Email,
		Total:     c.Total,
		ItemCount: count,
		CreatedAt: now.UTC(),
	}
}
