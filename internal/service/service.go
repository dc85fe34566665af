package service

import (
	"context"

	"storefront-checkout/internal/auth"
	"storefront-checkout/internal/model"
)

// CatalogService defines read access to the loaded catalogue.
type CatalogService interface {
	// GetAll retrieves products in catalogue order with pagination.
	GetAll(ctx context.Context, limit, offset int) ([]model.Product, error)

	// GetByCategory retrieves the products of one category with pagination.
	GetByCategory(ctx context.Context, category string, limit, offset int) ([]model.Product, error)

	// GetByID retrieves a single product by ID.
	GetByID(ctx context.Context, id string) (*model.Product, error)
}

// CartService defines the cart mutations offered to browsing views.
type CartService interface {
	Add(ctx context.Context, productID string) error
	Remove(ctx context.Context, productID string) error
	SetQuantity(ctx context.Context, productID string, quantity int) error
	Clear(ctx context.Context)

	// Summary returns the cart lines and totals.
	Summary(ctx context.Context) *CartSummary
}

// SessionService defines the shopper's sign-in operations.
type SessionService interface {
	Login(ctx context.Context, creds model.Credentials) error
	Register(ctx context.Context, creds model.Credentials) error
	Logout(ctx context.Context) error
	State(ctx context.Context) auth.State
}

// OrderService defines the checkout operations.
type OrderService interface {
	// SetAddressFields updates live address fields.
	SetAddressFields(ctx context.Context, fields map[string]string) error

	// SetPaymentMethod selects the payment path of the next submission.
	SetPaymentMethod(ctx context.Context, method model.PaymentMethod)

	// View returns the checkout view state.
	View(ctx context.Context) *CheckoutView

	// Submit places an order with the given phone number. Guard and
	// validation blocks are returned as errors; a placed order that fails
	// remotely is reported in the Outcome.
	Submit(ctx context.Context, phone string) (*Outcome, error)
}
