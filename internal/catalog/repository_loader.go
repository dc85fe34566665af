package catalog

import (
	"context"
	"fmt"

	"storefront-checkout/internal/model"
	"storefront-checkout/internal/repository"

	"github.com/rs/zerolog"
)

// repositoryLoader pages the whole products table into a Catalog.
type repositoryLoader struct {
	repo     repository.ProductRepository
	pageSize int
	logger   zerolog.Logger
}

// NewRepositoryLoader creates a loader backed by the catalogue database.
// A non-empty location restricts the catalogue to that category.
func NewRepositoryLoader(repo repository.ProductRepository, pageSize int, logger zerolog.Logger) Loader {
	if pageSize <= 0 {
		pageSize = 100
	}
	return &repositoryLoader{
		repo:     repo,
		pageSize: pageSize,
		logger:   logger.With().Str("component", "repository-catalog-loader").Logger(),
	}
}

// Load reads every product page by page.
func (l *repositoryLoader) Load(ctx context.Context, category string) (*Catalog, error) {
	var products []model.Product

	for offset := 0; ; offset += l.pageSize {
		var (
			page []model.Product
			err  error
		)
		if category == "" {
			page, err = l.repo.GetAll(ctx, l.pageSize, offset)
		} else {
			page, err = l.repo.GetByCategory(ctx, category, l.pageSize, offset)
		}
		if err != nil {
			l.logger.Error().
				Err(err).
				Str("category", category).
				Int("offset", offset).
				Msg("failed to load catalog page")
			return nil, fmt.Errorf("failed to load catalog page at offset %d: %w", offset, err)
		}

		for _, p := range page {
			if p.Price < 0 {
				l.logger.Warn().Str("product_id", p.ID).Msg("skipping product with negative price")
				continue
			}
			products = append(products, p)
		}

		if len(page) < l.pageSize {
			break
		}
	}

	c := New(products)

	l.logger.Info().
		Str("category", category).
		Int("products_loaded", c.Len()).
		Msg("catalog loaded from database")

	return c, nil
}

// MissingProducts returns the ids the products table does not hold, in the
// order given.
func MissingProducts(ctx context.Context, repo repository.ProductRepository, ids []string) ([]string, error) {
	found, err := repo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to look up products: %w", err)
	}

	present := make(map[string]struct{}, len(found))
	for _, p := range found {
		present[p.ID] = struct{}{}
	}

	var missing []string
	for _, id := range ids {
		if _, ok := present[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing, nil
}
