package catalog

import (
	"context"
	"sort"

	"veggie-kart/internal/model"
)

// mapCatalog implements Catalog using a map for O(1) lookups.
type mapCatalog struct {
	products map[int64]model.Product
	ordered  []model.Product
	// No mutex needed - the catalogue is read-only after construction
}

// New builds an in-memory catalogue. Later duplicates of an id replace earlier ones.
func New(products []model.Product) Catalog {
	c := &mapCatalog{
		products: make(map[int64]model.Product, len(products)),
	}
	for _, p := range products {
		c.products[p.ID] = p
	}

	c.ordered = make([]model.Product, 0, len(c.products))
	for _, p := range c.products {
		c.ordered = append(c.ordered, p)
	}
	sort.Slice(c.ordered, func(i, j int) bool {
		return c.ordered[i].ID < c.ordered[j].ID
	})

	return c
}

// Get returns the product with id.
func (c *mapCatalog) Get(_ context.Context, id int64) (*model.Product, error) {
	p, ok := c.products[id]
	if !ok {
		return nil, model.ErrProductNotFound
	}
	return &p, nil
}

// All returns a copy of every product ordered by id.
func (c *mapCatalog) All(_ context.Context) ([]model.Product, error) {
	out := make([]model.Product, len(c.ordered))
	copy(out, c.ordered)
	return out, nil
}

// ByCategory returns the products whose category matches exactly.
func (c *mapCatalog) ByCategory(_ context.Context, category string) ([]model.Product, error) {
	out := make([]model.Product, 0)
	for _, p := range c.ordered {
		if p.Category == category {
			out = append(out, p)
		}
	}
	return out, nil
}

// Size returns the number of products.
func (c *mapCatalog) Size() int {
	return len(c.products)
}
