package handlers

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	validatorv10 "github.com/go-playground/validator/v10"
	"github.com/imrishuroy/go-pizza-cartflow/internal/menu"
	"github.com/imrishuroy/go-pizza-cartflow/internal/tokens"
	"github.com/imrishuroy/go-pizza-cartflow/internal/validation"
)

// MenuHandler serves GET /menu?email=... to holders of a valid token.
type MenuHandler struct {
	validate *validatorv10.Validate
	tokens   tokens.Authority
	source   menu.Source
}

func NewMenuHandler(v *validatorv10.Validate, t tokens.Authority, s menu.Source) *MenuHandler {
	return &MenuHandler{validate: v, tokens: t, source: s}
}

func (h *MenuHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()

	email := strings.TrimSpace(c.Query("email"))
	if err := h.validate.Var(email, "required,email"); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validation.ErrorMissingFields})
		return
	}

	token := c.GetHeader(TokenHeader)
	if token == "" || !h.tokens.Verify(ctx, token, email) {
		c.JSON(http.StatusForbidden, gin.H{"error": "missing_or_invalid_token"})
		return
	}

	m, err := h.source.Read(ctx)
	if err != nil {
		log.Printf("[menu] read failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "menu_unavailable"})
		return
	}

	c.JSON(http.StatusOK, menu.Document{Pizzas: m})
}
