package catalog

import (
	"testing"

	"storefront-checkout/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestNew_KeepsFirstDuplicateAndOrder(t *testing.T) {
	c := New([]model.Product{
		{ID: "b", Name: "Bread", Price: 3},
		{ID: "a", Name: "Apple pie", Price: 5},
		{ID: "b", Name: "Duplicate", Price: 99},
	})

	assert.Equal(t, 2, c.Len())

	p, ok := c.Lookup("b")
	assert.True(t, ok)
	assert.Equal(t, "Bread", p.Name)

	pos, ok := c.Position("a")
	assert.True(t, ok)
	assert.Equal(t, 1, pos)

	_, ok = c.Lookup("missing")
	assert.False(t, ok)

	products := c.Products()
	products[0].Name = "mutated"
	p, _ = c.Lookup("b")
	assert.Equal(t, "Bread", p.Name, "Products returns a copy")
}

func TestCatalog_NilIsEmpty(t *testing.T) {
	var c *Catalog

	assert.Equal(t, 0, c.Len())
	assert.Empty(t, c.Products())
	_, ok := c.Lookup("x")
	assert.False(t, ok)
	_, ok = c.Position("x")
	assert.False(t, ok)
}
