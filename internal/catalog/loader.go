package catalog

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"veggie-kart/internal/model"

	"github.com/rs/zerolog"
)

// fileLoader implements Loader for reading catalogue snapshots from disk.
type fileLoader struct {
	logger zerolog.Logger
}

// NewFileLoader creates a new file-based catalogue loader.
func NewFileLoader(logger zerolog.Logger) Loader {
	return &fileLoader{
		logger: logger.With().Str("component", "catalog-loader").Logger(),
	}
}

// Load reads a snapshot file containing a JSON array of products.
func (l *fileLoader) Load(ctx context.Context, filePath string) (Catalog, error) {
	l.logger.Info().Str("file", filePath).Msg("loading catalog snapshot")

	file, err := os.Open(filePath)
	if err != nil {
		l.logger.Error().Err(err).Str("file", filePath).Msg("failed to open catalog file")
		return nil, fmt.Errorf("failed to open catalog file %s: %w", filePath, err)
	}
	defer file.Close()

	products, err := decodeSnapshot(ctx, file, strings.HasSuffix(filePath, ".gz"))
	if err != nil {
		l.logger.Error().Err(err).Str("file", filePath).Msg("failed to decode catalog file")
		return nil, fmt.Errorf("failed to decode catalog file %s: %w", filePath, err)
	}

	c := New(products)

	l.logger.Info().
		Str("file", filePath).
		Int("products_loaded", c.Size()).
		Msg("catalog snapshot loaded successfully")

	return c, nil
}

// decodeSnapshot parses a JSON product array and validates each entry.
func decodeSnapshot(ctx context.Context, r io.Reader, gzipped bool) ([]model.Product, error) {
	if gzipped {
		gzipReader, err := gzip.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("failed to create gzip reader: %w", err)
		}
		defer gzipReader.Close()
		r = gzipReader
	}

	var products []model.Product
	if err := json.NewDecoder(r).Decode(&products); err != nil {
		return nil, fmt.Errorf("invalid catalog JSON: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for i, p := range products {
		if p.ID <= 0 {
			return nil, fmt.Errorf("product %d: id must be positive", i)
		}
		if p.Name == "" {
			return nil, fmt.Errorf("product %d: name is required", p.ID)
		}
		if p.Price.IsNegative() {
			return nil, fmt.Errorf("product %d: price cannot be negative", p.ID)
		}
		if p.Stock < 0 {
			return nil, fmt.Errorf("product %d: stock cannot be negative", p.ID)
		}
	}

	return products, nil
}
