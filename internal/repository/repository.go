package repository

import (
	"context"

	"storefront-checkout/internal/model"
)

// ProductRepository defines read-only access to the catalogue owner's products table.
type ProductRepository interface {
	// GetAll retrieves all products with pagination support.
	GetAll(ctx context.Context, limit, offset int) ([]model.Product, error)

	// GetByCategory retrieves the products of one category with pagination support.
	GetByCategory(ctx context.Context, category string, limit, offset int) ([]model.Product, error)

	// GetByIDs retrieves multiple products by their IDs.
	GetByIDs(ctx context.Context, ids []string) ([]model.Product, error)
}
