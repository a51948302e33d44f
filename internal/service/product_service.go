package service

import (
	"context"
	"fmt"

	"veggie-kart/internal/catalog"
	"veggie-kart/internal/model"

	"github.com/rs/zerolog"
)

// productService implements ProductService.
type productService struct {
	products catalog.Catalog
	logger   zerolog.Logger
}

// NewProductService creates a new product service.
func NewProductService(products catalog.Catalog, logger zerolog.Logger) ProductService {
	return &productService{
		products: products,
		logger:   logger.With().Str("service", "product").Logger(),
	}
}

// List returns products, optionally filtered by category, with pagination.
func (s *productService) List(ctx context.Context, category string, limit, offset int) ([]model.Product, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	var (
		products []model.Product
		err      error
	)
	if category != "" {
		products, err = s.products.ByCategory(ctx, category)
	} else {
		products, err = s.products.All(ctx)
	}
	if err != nil {
		s.logger.Error().Err(err).Str("category", category).Msg("failed to list products")
		return nil, fmt.Errorf("failed to get products: %w", err)
	}

	if offset >= len(products) {
		return []model.Product{}, nil
	}
	end := offset + limit
	if end > len(products) {
		end = len(products)
	}

	s.logger.Debug().
		Int("count", end-offset).
		Int("limit", limit).
		Int("offset", offset).
		Msg("retrieved products")

	return products[offset:end], nil
}

// GetByID retrieves a single product by ID.
func (s *productService) GetByID(ctx context.Context, id int64) (*model.Product, error) {
	if id <= 0 {
		s.logger.Warn().Int64("product_id", id).Msg("invalid product ID")
		return nil, model.ErrProductNotFound
	}

	product, err := s.products.Get(ctx, id)
	if err != nil {
		s.logger.Debug().Int64("product_id", id).Msg("product not found")
		return nil, err
	}

	return product, nil
}
