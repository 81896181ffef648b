package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	validatorv10 "github.com/go-playground/validator/v10"
	"github.com/imrishuroy/go-pizza-cartflow/internal/cart"
	"github.com/imrishuroy/go-pizza-cartflow/internal/dispatch"
	"github.com/imrishuroy/go-pizza-cartflow/internal/menu"
	"github.com/imrishuroy/go-pizza-cartflow/internal/tokens"
)

// EventPublisher sends cart events downstream. *aws.Publisher satisfies it.
type EventPublisher interface {
	Enabled() bool
	PublishJSON(ctx context.Context, payload interface{}, attributes map[string]string) error
}

// Deps groups dependencies for the HTTP handlers.
type Deps struct {
	Validator *validatorv10.Validate
	Carts     *cart.Service
	Menu      menu.Source
	Tokens    tokens.Authority
	Publisher EventPublisher // optional
}

// Resources returns the declared resource families and their method handlers.
func Resources(deps Deps) []dispatch.Resource {
	carts := NewCartHandler(deps.Carts, deps.Publisher)
	menus := NewMenuHandler(deps.Validator, deps.Tokens, deps.Menu)

	return []dispatch.Resource{
		{Name: "cart", Methods: map[string]gin.HandlerFunc{"post": carts.Create}},
		{Name: "menu", Methods: map[string]gin.HandlerFunc{"get": menus.Get}},
	}
}

// RegisterRoutes mounts health, the dispatched resources and the not-found handler.
func RegisterRoutes(r *gin.Engine, deps Deps) *dispatch.Dispatcher {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	d := dispatch.New(Resources(deps)...)
	d.Register(r)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found"})
	})
	return d
}
