package service

import (
	"context"

	"storefront-checkout/internal/cart"
	"storefront-checkout/internal/model"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Totals is the money summary shown next to the cart.
type Totals struct {
	Subtotal    float64 `json:"subtotal"`
	DeliveryFee float64 `json:"deliveryFee"`
	Total       float64 `json:"total"`
	Currency    string  `json:"currency"`
}

// CartSummary is the cart view: lines in catalogue order plus totals.
type CartSummary struct {
	Items  []model.OrderItem `json:"items"`
	Totals Totals            `json:"totals"`
}

// cartService implements CartService.
type cartService struct {
	cart           *cart.Store
	deliveryCharge decimal.Decimal
	currency       string
	logger         zerolog.Logger
}

// NewCartService creates a new cart service.
func NewCartService(store *cart.Store, deliveryCharge decimal.Decimal, currency string, logger zerolog.Logger) CartService {
	return &cartService{
		cart:           store,
		deliveryCharge: deliveryCharge,
		currency:       currency,
		logger:         logger.With().Str("service", "cart").Logger(),
	}
}

func (s *cartService) Add(ctx context.Context, productID string) error {
	if err := s.cart.Add(ctx, productID); err != nil {
		s.logger.Warn().Err(err).Str("product_id", productID).Msg("failed to add item")
		return err
	}
	return nil
}

func (s *cartService) Remove(ctx context.Context, productID string) error {
	if _, ok := s.cart.Catalog().Lookup(productID); !ok && s.cart.Quantity(productID) == 0 {
		return model.ErrProductNotFound
	}
	s.cart.Remove(ctx, productID)
	return nil
}

func (s *cartService) SetQuantity(ctx context.Context, productID string, quantity int) error {
	if err := s.cart.SetQuantity(ctx, productID, quantity); err != nil {
		s.logger.Warn().
			Err(err).
			Str("product_id", productID).
			Int("quantity", quantity).
			Msg("failed to set quantity")
		return err
	}
	return nil
}

func (s *cartService) Clear(ctx context.Context) {
	s.cart.Clear(ctx)
}

// Summary returns the cart lines and totals. The delivery fee reads zero
// for an empty cart; Total always includes the delivery charge.
func (s *cartService) Summary(ctx context.Context) *CartSummary {
	return summarise(s.cart, s.deliveryCharge, s.currency)
}

func summarise(store *cart.Store, deliveryCharge decimal.Decimal, currency string) *CartSummary {
	quantities := store.Quantities()
	subtotal := cart.Subtotal(quantities, store.Catalog())

	return &CartSummary{
		Items: cart.OrderItems(quantities, store.Catalog()),
		Totals: Totals{
			Subtotal:    subtotal.InexactFloat64(),
			DeliveryFee: cart.DeliveryFee(subtotal, deliveryCharge).InexactFloat64(),
			Total:       subtotal.Add(deliveryCharge).InexactFloat64(),
			Currency:    currency,
		},
	}
}
