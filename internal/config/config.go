// Package config loads service settings from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/imrishuroy/go-pizza-cartflow/internal/store"
)

// Store backends.
const (
	BackendDynamoDB = "dynamodb"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

// Token authorities.
const (
	AuthorityStore = "store"
	AuthorityJWT   = "jwt"
)

type Config struct {
	Addr     string
	RunLocal bool

	StoreBackend string
	CartsTable   string
	MenuTable    string
	TokensTable  string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	PostgresDSN string

	TokenAuthority string
	JWTSecret      string

	// MenuFile, when set, is read instead of the menu record in the store.
	MenuFile       string
	StrictQuantity bool

	QueueURL         string
	IdempotencyTable string
	MetricsNamespace string
	TTLWindow        time.Duration
}

// Load reads the environment. Unset values fall back to local-development defaults.
func Load() (Config, error) {
	cfg := Config{
		Addr:             getenv("CART_ADDR", ":8080"),
		RunLocal:         os.Getenv("RUN_LOCAL") == "true",
		StoreBackend:     strings.ToLower(getenv("STORE_BACKEND", BackendDynamoDB)),
		CartsTable:       getenv("CARTS_TABLE", "carts"),
		MenuTable:        getenv("MENU_TABLE", "menu"),
		TokensTable:      getenv("TOKENS_TABLE", "tokens"),
		RedisAddr:        getenv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:    os.Getenv("REDIS_PASSWORD"),
		PostgresDSN:      os.Getenv("POSTGRES_DSN"),
		TokenAuthority:   strings.ToLower(getenv("TOKEN_AUTHORITY", AuthorityStore)),
		JWTSecret:        os.Getenv("JWT_SECRET"),
		MenuFile:         os.Getenv("MENU_FILE"),
		QueueURL:         os.Getenv("CARTS_QUEUE_URL"),
		IdempotencyTable: getenv("IDEMPOTENCY_TABLE", "cart-events-idempotency"),
		MetricsNamespace: getenv("METRICS_NAMESPACE", "PizzaCart"),
		TTLWindow:        48 * time.Hour,
	}

	var err error
	if cfg.RedisDB, err = strconv.Atoi(getenv("REDIS_DB", "0")); err != nil {
		return Config{}, fmt.Errorf("REDIS_DB: %w", err)
	}
	if cfg.StrictQuantity, err = strconv.ParseBool(getenv("CART_STRICT_QTY", "false")); err != nil {
		return Config{}, fmt.Errorf("CART_STRICT_QTY: %w", err)
	}
	if v := os.Getenv("IDEMPOTENCY_TTL"); v != "" {
		if cfg.TTLWindow, err = time.ParseDuration(v); err != nil {
			return Config{}, fmt.Errorf("IDEMPOTENCY_TTL: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks backend selections and their required settings.
func (c Config) Validate() error {
	switch c.StoreBackend {
	case BackendDynamoDB, BackendRedis:
	case BackendPostgres:
		if c.PostgresDSN == "" {
			return fmt.Errorf("POSTGRES_DSN is required for the %s backend", BackendPostgres)
		}
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.StoreBackend)
	}

	switch c.TokenAuthority {
	case AuthorityStore:
	case AuthorityJWT:
		if c.JWTSecret == "" {
			return fmt.Errorf("JWT_SECRET is required for the %s token authority", AuthorityJWT)
		}
	default:
		return fmt.Errorf("unknown TOKEN_AUTHORITY %q", c.TokenAuthority)
	}
	return nil
}

// Tables maps store collections to DynamoDB table names.
func (c Config) Tables() map[string]string {
	return map[string]string{
		store.CollectionCarts:  c.CartsTable,
		store.CollectionMenu:   c.MenuTable,
		store.CollectionTokens: c.TokensTable,
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
