// Package catalog provides the read-only product catalogue. The catalogue is
// loaded once from a JSON snapshot (local file or S3) and never mutated.
package catalog

import (
	"context"

	"veggie-kart/internal/model"
)

// Catalog is a read-only lookup of products by id.
type Catalog interface {
	// Get returns the product with id or model.ErrProductNotFound.
	Get(ctx context.Context, id int64) (*model.Product, error)

	// All returns every product ordered by id.
	All(ctx context.Context) ([]model.Product, error)

	// ByCategory returns the products in category ordered by id.
	ByCategory(ctx context.Context, category string) ([]model.Product, error)

	// Size returns the number of products in the catalogue.
	Size() int
}

// Loader defines the interface for loading catalogue snapshots.
type Loader interface {
	// Load reads a JSON snapshot (gzipped when the name ends in .gz) and returns a Catalog.
	Load(ctx context.Context, path string) (Catalog, error)
}
