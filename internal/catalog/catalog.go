package catalog

import (
	"context"

	"storefront-checkout/internal/model"
)

// Loader defines the interface for loading the read-only product catalogue.
type Loader interface {
	// Load reads the catalogue found at location. The meaning of location
	// depends on the implementation: a file path, an S3 key or a category.
	Load(ctx context.Context, location string) (*Catalog, error)
}

// Catalog is an immutable, ordered set of products indexed by ID.
type Catalog struct {
	products []model.Product
	index    map[string]int
}

// New builds a catalogue. Later duplicates of an ID are ignored.
func New(products []model.Product) *Catalog {
	c := &Catalog{
		products: make([]model.Product, 0, len(products)),
		index:    make(map[string]int, len(products)),
	}
	for _, p := range products {
		if _, exists := c.index[p.ID]; exists {
			continue
		}
		c.index[p.ID] = len(c.products)
		c.products = append(c.products, p)
	}
	return c
}

// Lookup returns the product with the given ID.
func (c *Catalog) Lookup(id string) (model.Product, bool) {
	if c == nil {
		return model.Product{}, false
	}
	i, ok := c.index[id]
	if !ok {
		return model.Product{}, false
	}
	return c.products[i], true
}

// Position returns the catalogue position of the product with the given ID.
func (c *Catalog) Position(id string) (int, bool) {
	if c == nil {
		return 0, false
	}
	i, ok := c.index[id]
	return i, ok
}

// Products returns a copy of all products in catalogue order.
func (c *Catalog) Products() []model.Product {
	if c == nil {
		return []model.Product{}
	}
	out := make([]model.Product, len(c.products))
	copy(out, c.products)
	return out
}

// Len returns the number of products.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.products)
}
