// Package app builds the service collaborators selected by config.
package app

import (
	"context"
	"fmt"
	"io"

	"github.com/go-redis/redis/v8"
	"github.com/imrishuroy/go-pizza-cartflow/internal/aws"
	"github.com/imrishuroy/go-pizza-cartflow/internal/cart"
	"github.com/imrishuroy/go-pizza-cartflow/internal/config"
	"github.com/imrishuroy/go-pizza-cartflow/internal/menu"
	"github.com/imrishuroy/go-pizza-cartflow/internal/store"
	"github.com/imrishuroy/go-pizza-cartflow/internal/tokens"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// NewStore opens the configured record store. clients is only used by the DynamoDB backend.
// The returned closer releases the backend connection.
func NewStore(ctx context.Context, cfg config.Config, clients *aws.AWSClients) (store.Store, io.Closer, error) {
	switch cfg.StoreBackend {
	case config.BackendDynamoDB:
		if clients == nil {
			return nil, nil, fmt.Errorf("dynamodb backend needs aws clients")
		}
		return store.NewDynamoStore(clients.DynamoDB, cfg.Tables()), nopCloser{}, nil
	case config.BackendRedis:
		client, err := store.NewRedisClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			return nil, nil, err
		}
		return store.NewRedisStore(client), client, nil
	case config.BackendPostgres:
		db, err := store.OpenPostgres(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, nil, err
		}
		return store.NewPostgresStore(db), db, nil
	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}

// NewAuthority returns the configured token authority.
func NewAuthority(cfg config.Config, st store.Store) tokens.Authority {
	if cfg.TokenAuthority == config.AuthorityJWT {
		return tokens.NewJWTAuthority(cfg.JWTSecret)
	}
	return tokens.NewStoreAuthority(st)
}

// NewMenuSource returns the file source when MENU_FILE is set, else the store source.
func NewMenuSource(cfg config.Config, st store.Store) menu.Source {
	if cfg.MenuFile != "" {
		return menu.NewFileSource(cfg.MenuFile)
	}
	return menu.NewStoreSource(st)
}

// QuantityPolicy maps the strict flag to a cart policy.
func QuantityPolicy(cfg config.Config) cart.QuantityPolicy {
	if cfg.StrictQuantity {
		return cart.QuantityStrict
	}
	return cart.QuantityLenient
}
