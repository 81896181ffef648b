// Package menu provides read access to the pizza menu.
package menu

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/imrishuroy/go-pizza-cartflow/internal/store"
	"gopkg.in/yaml.v3"
)

// RecordID is the id of the menu document inside the menu collection.
const RecordID = "menu"

// ErrEmpty is returned when a menu document has no pizzas.
var ErrEmpty = errors.New("menu has no entries")

// Entry is one pizza type and its price per size.
type Entry struct {
	Type  string             `json:"type,omitempty" dynamodbav:"type,omitempty" yaml:"type,omitempty"`
	Price map[string]float64 `json:"price" dynamodbav:"price" yaml:"price"`
}

// UnitPrice returns the price of size, if the entry sells it.
func (e Entry) UnitPrice(size string) (float64, bool) {
	p, ok := e.Price[size]
	return p, ok
}

// Menu maps pizza type to its entry.
type Menu map[string]Entry

// Lookup returns the unit price for a type/size pair.
func (m Menu) Lookup(pizzaType, size string) (float64, bool) {
	entry, ok := m[pizzaType]
	if !ok {
		return 0, false
	}
	return entry.UnitPrice(size)
}

// Document is the persisted menu record.
type Document struct {
	Pizzas Menu `json:"pizzas" dynamodbav:"pizzas" yaml:"pizzas"`
}

// Normalize fills in each entry's Type from its key and checks the document is usable.
func (d *Document) Normalize() (Menu, error) {
	if len(d.Pizzas) == 0 {
		return nil, ErrEmpty
	}
	out := make(Menu, len(d.Pizzas))
	for name, entry := range d.Pizzas {
		entry.Type = name
		for size, price := range entry.Price {
			if price <= 0 {
				return nil, fmt.Errorf("menu entry %s/%s: price must be positive, got %v", name, size, price)
			}
		}
		out[name] = entry
	}
	return out, nil
}

// Source supplies the current menu.
type Source interface {
	Read(ctx context.Context) (Menu, error)
}

// StoreSource reads the menu document from the record store.
type StoreSource struct {
	store store.Store
}

func NewStoreSource(s store.Store) *StoreSource {
	return &StoreSource{store: s}
}

func (s *StoreSource) Read(ctx context.Context) (Menu, error) {
	var doc Document
	if err := s.store.Read(ctx, store.CollectionMenu, RecordID, &doc); err != nil {
		return nil, fmt.Errorf("read menu: %w", err)
	}
	return doc.Normalize()
}

// FileSource reads the menu from a YAML file on every call.
type FileSource struct {
	path string
}

func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

func (s *FileSource) Read(ctx context.Context) (Menu, error) {
	doc, err := LoadFile(s.path)
	if err != nil {
		return nil, err
	}
	return doc.Normalize()
}

// LoadFile parses a YAML (or JSON) menu document.
func LoadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading menu file: %w", err)
	}
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &doc, nil
}
