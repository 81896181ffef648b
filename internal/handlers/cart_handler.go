package handlers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/imrishuroy/go-pizza-cartflow/internal/cart"
	"github.com/imrishuroy/go-pizza-cartflow/internal/validation"
)

// TokenHeader carries the session token.
const TokenHeader = "token"

// CartHandler serves POST /cart.
type CartHandler struct {
	service   *cart.Service
	publisher EventPublisher
	nowFunc   func() time.Time
}

func NewCartHandler(s *cart.Service, p EventPublisher) *CartHandler {
	return &CartHandler{service: s, publisher: p, nowFunc: time.Now}
}

// Create binds the payload, runs the cart pipeline and publishes a cart.created event.
func (h *CartHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var req cart.CreateRequest
	if err := validation.BindJSON(c, &req); err != nil {
		// BindJSON already wrote a 400
		return
	}

	created, err := h.service.CreateCart(ctx, req, c.GetHeader(TokenHeader))
	if err != nil {
		writeCartError(c, err)
		return
	}

	if h.publisher != nil && h.publisher.Enabled() {
		attrs := map[string]string{
			"event_type":     cart.EventType,
			"cart_id":        created.ID,
			"correlation_id": c.GetHeader("X-Request-Id"),
		}
		if err := h.publisher.PublishJSON(ctx, cart.NewEvent(created, h.nowFunc()), attrs); err != nil {
			// the cart is already stored; the event is best effort
			log.Printf("[cart] publish failed cart=%s: %v", created.ID, err)
		}
	}

	c.JSON(http.StatusOK, created)
}

func writeCartError(c *gin.Context, err error) {
	var invalid *cart.InvalidItemsError
	switch {
	case errors.Is(err, cart.ErrMissingFields):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":  validation.ErrorMissingFields,
			"fields": validation.FieldErrors(err),
		})
	case errors.Is(err, cart.ErrUnauthorized):
		c.JSON(http.StatusForbidden, gin.H{"error": "missing_or_invalid_token"})
	case errors.As(err, &invalid):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":        "invalid_items",
			"invalidItems": invalid.Items,
		})
	case errors.Is(err, cart.ErrMenuUnavailable):
		c.JSON(http.StatusInternalServerError, gin.H{"error": "menu_unavailable"})
	case errors.Is(err, cart.ErrStoreFailure):
		c.JSON(http.StatusInternalServerError, gin.H{"error": "store_failure"})
	default:
		log.Printf("[cart] unexpected error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
	}
}
