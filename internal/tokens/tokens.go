// Package tokens verifies that a request token is valid for an email.
package tokens

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/imrishuroy/go-pizza-cartflow/internal/store"
)

// Authority decides whether token is currently valid and bound to email.
type Authority interface {
	Verify(ctx context.Context, token, email string) bool
}

// Record is a stored session token.
type Record struct {
	ID      string `json:"id" dynamodbav:"id"`
	Email   string `json:"email" dynamodbav:"email"`
	Expires int64  `json:"expires" dynamodbav:"expires"` // unix millis
}

// ExpiresAt returns the expiry as a time.
func (r Record) ExpiresAt() time.Time {
	return time.UnixMilli(r.Expires)
}

// StoreAuthority looks tokens up in the record store's tokens collection.
type StoreAuthority struct {
	store   store.Store
	nowFunc func() time.Time
}

func NewStoreAuthority(s store.Store) *StoreAuthority {
	return &StoreAuthority{
		store:   s,
		nowFunc: time.Now,
	}
}

func (a *StoreAuthority) Verify(ctx context.Context, token, email string) bool {
	if token == "" || email == "" {
		return false
	}
	var rec Record
	if err := a.store.Read(ctx, store.CollectionTokens, token, &rec); err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			log.Printf("[tokens] lookup failed: %v", err)
		}
		return false
	}
	return strings.EqualFold(rec.Email, email) && rec.ExpiresAt().After(a.nowFunc())
}

// JWTAuthority accepts HS256 tokens whose "email" claim matches.
type JWTAuthority struct {
	secret []byte
}

func NewJWTAuthority(secret string) *JWTAuthority {
	return &JWTAuthority{secret: []byte(secret)}
}

func (a *JWTAuthority) Verify(ctx context.Context, token, email string) bool {
	if token == "" || email == "" || len(a.secret) == 0 {
		return false
	}
	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return a.secret, nil
	})
	if err != nil || !parsed.Valid {
		return false
	}
	// exp is optional in jwt.MapClaims.Valid; these tokens must carry one.
	if !claims.VerifyExpiresAt(time.Now().Unix(), true) {
		return false
	}
	claimed, _ := claims["email"].(string)
	return claimed != "" && strings.EqualFold(claimed, email)
}

// SignJWT issues a token for email; used by tooling and tests.
func SignJWT(secret, email string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"email": email,
		"exp":   time.Now().Add(ttl).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}
