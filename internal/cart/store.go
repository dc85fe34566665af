// Package cart holds the shopper's per-product quantities against a
// read-only catalogue.
package cart

import (
	"context"
	"sync"

	"storefront-checkout/internal/catalog"
	"storefront-checkout/internal/model"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Store is the shopper's cart. Quantity 0 is stored as an absent entry.
type Store struct {
	mu         sync.RWMutex
	catalog    *catalog.Catalog
	quantities map[string]int
	subs       map[int]func(context.Context, map[string]int)
	nextSub    int
	logger     zerolog.Logger
}

// NewStore creates an empty cart over cat.
func NewStore(cat *catalog.Catalog, logger zerolog.Logger) *Store {
	return &Store{
		catalog:    cat,
		quantities: make(map[string]int),
		subs:       make(map[int]func(context.Context, map[string]int)),
		logger:     logger.With().Str("component", "cart-store").Logger(),
	}
}

// Catalog returns the read-only catalogue the cart prices against.
func (s *Store) Catalog() *catalog.Catalog {
	return s.catalog
}

// Add increments the quantity of id by one.
func (s *Store) Add(ctx context.Context, id string) error {
	if _, ok := s.catalog.Lookup(id); !ok {
		return model.ErrProductNotFound
	}

	s.mu.Lock()
	s.quantities[id]++
	s.mu.Unlock()

	s.logger.Debug().Str("product_id", id).Msg("item added")
	s.notify(ctx)
	return nil
}

// Remove decrements the quantity of id by one, never below zero.
func (s *Store) Remove(ctx context.Context, id string) {
	s.mu.Lock()
	qty, ok := s.quantities[id]
	if !ok {
		s.mu.Unlock()
		return
	}
	if qty <= 1 {
		delete(s.quantities, id)
	} else {
		s.quantities[id] = qty - 1
	}
	s.mu.Unlock()

	s.logger.Debug().Str("product_id", id).Msg("item removed")
	s.notify(ctx)
}

// SetQuantity replaces the quantity of id. Negative quantities are rejected.
func (s *Store) SetQuantity(ctx context.Context, id string, qty int) error {
	if qty < 0 {
		return model.ErrInvalidQuantity
	}
	if qty > 0 {
		if _, ok := s.catalog.Lookup(id); !ok {
			return model.ErrProductNotFound
		}
	}

	s.mu.Lock()
	if qty == 0 {
		delete(s.quantities, id)
	} else {
		s.quantities[id] = qty
	}
	s.mu.Unlock()

	s.notify(ctx)
	return nil
}

// Clear empties the cart.
func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	s.quantities = make(map[string]int)
	s.mu.Unlock()

	s.logger.Info().Msg("cart cleared")
	s.notify(ctx)
}

// Quantities returns a snapshot of the non-zero quantities.
func (s *Store) Quantities() map[string]int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// Quantity returns the quantity of id.
func (s *Store) Quantity(id string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.quantities[id]
}

// Subtotal is the current cart value without delivery.
func (s *Store) Subtotal() decimal.Decimal {
	return Subtotal(s.Quantities(), s.catalog)
}

// Order returns the order lines and the amount due, both computed from one
// snapshot so the amount always covers exactly the returned lines.
func (s *Store) Order(deliveryCharge decimal.Decimal) ([]model.OrderItem, decimal.Decimal) {
	q := s.Quantities()
	return OrderItems(q, s.catalog), Total(q, s.catalog, deliveryCharge)
}

// Subscribe registers fn to receive a snapshot after every change, outside
// the store lock, with the context of the mutating call. The returned function removes the subscription.
func (s *Store) Subscribe(fn func(ctx context.Context, quantities map[string]int)) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

func (s *Store) notify(ctx context.Context) {
	s.mu.RLock()
	snapshot := s.snapshotLocked()
	subs := make([]func(context.Context, map[string]int), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.RUnlock()

	for _, fn := range subs {
		fn(ctx, snapshot)
	}
}

func (s *Store) snapshotLocked() map[string]int {
	out := make(map[string]int, len(s.quantities))
	for id, qty := range s.quantities {
		out[id] = qty
	}
	return out
}
