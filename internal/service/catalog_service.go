package service

import (
	"context"

	"storefront-checkout/internal/catalog"
	"storefront-checkout/internal/model"

	"github.com/rs/zerolog"
)

// catalogService implements CatalogService over the in-memory catalogue.
type catalogService struct {
	catalog *catalog.Catalog
	logger  zerolog.Logger
}

// NewCatalogService creates a new catalogue service.
func NewCatalogService(cat *catalog.Catalog, logger zerolog.Logger) CatalogService {
	return &catalogService{
		catalog: cat,
		logger:  logger.With().Str("service", "catalog").Logger(),
	}
}

// GetAll retrieves products with pagination.
func (s *catalogService) GetAll(ctx context.Context, limit, offset int) ([]model.Product, error) {
	products := page(s.catalog.Products(), limit, offset)

	s.logger.Debug().
		Int("count", len(products)).
		Int("limit", limit).
		Int("offset", offset).
		Msg("retrieved products")

	return products, nil
}

// GetByCategory retrieves the products of one category with pagination.
func (s *catalogService) GetByCategory(ctx context.Context, category string, limit, offset int) ([]model.Product, error) {
	var matching []model.Product
	for _, p := range s.catalog.Products() {
		if p.Category == category {
			matching = append(matching, p)
		}
	}
	return page(matching, limit, offset), nil
}

// GetByID retrieves a single product by ID.
func (s *catalogService) GetByID(ctx context.Context, id string) (*model.Product, error) {
	if id == "" {
		s.logger.Warn().Msg("product ID is empty")
		return nil, model.ErrProductNotFound
	}

	p, ok := s.catalog.Lookup(id)
	if !ok {
		s.logger.Debug().Str("product_id", id).Msg("product not found")
		return nil, model.ErrProductNotFound
	}
	return &p, nil
}

// page applies limit (1-100, default 10) and offset (>= 0) to products.
func page(products []model.Product, limit, offset int) []model.Product {
	if limit <= 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	if offset >= len(products) {
		return []model.Product{}
	}
	end := offset + limit
	if end > len(products) {
		end = len(products)
	}
	return products[offset:end]
}
