package cart

import (
	"sort"

	"storefront-checkout/internal/catalog"
	"storefront-checkout/internal/model"

	"github.com/shopspring/decimal"
)

// Subtotal sums price × quantity over every positive quantity whose product
// is in the catalogue. Unknown IDs contribute zero.
func Subtotal(quantities map[string]int, cat *catalog.Catalog) decimal.Decimal {
	sum := decimal.Zero
	for id, qty := range quantities {
		if qty <= 0 {
			continue
		}
		p, ok := cat.Lookup(id)
		if !ok {
			continue
		}
		sum = sum.Add(decimal.NewFromFloat(p.Price).Mul(decimal.NewFromInt(int64(qty))))
	}
	return sum
}

// Total is the subtotal plus the delivery charge.
func Total(quantities map[string]int, cat *catalog.Catalog, deliveryCharge decimal.Decimal) decimal.Decimal {
	return Subtotal(quantities, cat).Add(deliveryCharge)
}

// DeliveryFee is the charge shown to the shopper: zero for an empty cart.
func DeliveryFee(subtotal, deliveryCharge decimal.Decimal) decimal.Decimal {
	if subtotal.IsZero() {
		return decimal.Zero
	}
	return deliveryCharge
}

// OrderItems returns the catalogue products with a positive quantity, in
// catalogue order. Unknown IDs are skipped.
func OrderItems(quantities map[string]int, cat *catalog.Catalog) []model.OrderItem {
	type positioned struct {
		pos  int
		item model.OrderItem
	}

	found := make([]positioned, 0, len(quantities))
	for id, qty := range quantities {
		if qty <= 0 {
			continue
		}
		p, ok := cat.Lookup(id)
		if !ok {
			continue
		}
		pos, _ := cat.Position(id)
		found = append(found, positioned{pos: pos, item: model.OrderItem{Product: p, Quantity: qty}})
	}

	sort.Slice(found, func(i, j int) bool { return found[i].pos < found[j].pos })

	items := make([]model.OrderItem, len(found))
	for i, f := range found {
		items[i] = f.item
	}
	return items
}
