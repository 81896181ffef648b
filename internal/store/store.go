// Package store is the record persistence layer: records are addressed by a
// collection name and an id, created once and read back.
package store

import (
	"context"
	"errors"
)

// Collections used by the service.
const (
	CollectionCarts  = "carts"
	CollectionMenu   = "menu"
	CollectionTokens = "tokens"
)

var (
	// ErrExists is returned by Create when the id is already taken in the collection.
	ErrExists = errors.New("record already exists")
	// ErrNotFound is returned by Read when no record has the id.
	ErrNotFound = errors.New("record not found")
)

// Store creates and reads records.
//
// Create must never overwrite: if id already exists in collection it returns ErrExists.
// Read decodes the record into out, which must be a pointer.
type Store interface {
	Create(ctx context.Context, collection, id string, record interface{}) error
	Read(ctx context.Context, collection, id string, out interface{}) error
}
