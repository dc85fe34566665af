package catalog

import (
	"bufio"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"storefront-checkout/internal/model"

	"github.com/rs/zerolog"
)

// fileLoader implements Loader for reading gzipped catalogue snapshots.
type fileLoader struct {
	logger zerolog.Logger
}

// NewFileLoader creates a new file-based catalogue loader.
func NewFileLoader(logger zerolog.Logger) Loader {
	return &fileLoader{
		logger: logger.With().Str("component", "catalog-loader").Logger(),
	}
}

// Load reads a gzipped snapshot containing one JSON product per line.
func (l *fileLoader) Load(ctx context.Context, filePath string) (*Catalog, error) {
	l.logger.Info().Str("file", filePath).Msg("loading catalog snapshot")

	file, err := os.Open(filePath)
	if err != nil {
		l.logger.Error().Err(err).Str("file", filePath).Msg("failed to open catalog snapshot")
		return nil, fmt.Errorf("failed to open catalog snapshot %s: %w", filePath, err)
	}
	defer file.Close()

	c, err := decodeSnapshot(ctx, file, l.logger.With().Str("file", filePath).Logger())
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog snapshot %s: %w", filePath, err)
	}

	l.logger.Info().
		Str("file", filePath).
		Int("products_loaded", c.Len()).
		Msg("catalog snapshot loaded successfully")

	return c, nil
}

// decodeSnapshot reads gzipped JSON lines into a Catalog. Products with an
// empty ID or a negative price are skipped.
func decodeSnapshot(ctx context.Context, r io.Reader, logger zerolog.Logger) (*Catalog, error) {
	if err := ctx.Err(); err != nil {
		logger.Warn().Msg("catalog loading cancelled")
		return nil, err
	}

	gzipReader, err := gzip.NewReader(r)
	if err != nil {
		logger.Error().Err(err).Msg("failed to create gzip reader")
		return nil, fmt.Errorf("failed to create gzip reader: %w", err)
	}
	defer gzipReader.Close()

	scanner := bufio.NewScanner(gzipReader)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	var products []model.Product
	lineNo := 0
	for scanner.Scan() {
		lineNo++

		// Check context cancellation periodically
		if lineNo%10_000 == 0 {
			select {
			case <-ctx.Done():
				logger.Warn().Msg("catalog loading cancelled")
				return nil, ctx.Err()
			default:
			}
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var p model.Product
		if err := json.Unmarshal([]byte(line), &p); err != nil {
			logger.Error().Err(err).Int("line", lineNo).Msg("malformed catalog entry")
			return nil, fmt.Errorf("malformed catalog entry on line %d: %w", lineNo, err)
		}

		if p.ID == "" || p.Price < 0 {
			logger.Warn().
				Int("line", lineNo).
				Str("product_id", p.ID).
				Float64("price", p.Price).
				Msg("skipping invalid catalog entry")
			continue
		}

		products = append(products, p)
	}

	if err := scanner.Err(); err != nil {
		logger.Error().Err(err).Msg("error reading catalog snapshot")
		return nil, fmt.Errorf("error reading catalog snapshot: %w", err)
	}

	return New(products), nil
}
