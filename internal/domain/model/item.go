// Package model defines the core domain entities for the stock service.
package model

import "fmt"

// FixedDiscount is the discount, in percent, locked onto discounted items.
const FixedDiscount = 70.0

// DiscountPolicy controls whether an item's discount may change after creation.
type DiscountPolicy int

const (
	// DiscountMutable allows SetDiscount to change the discount within [0,100].
	DiscountMutable DiscountPolicy = iota
	// DiscountFixed locks the discount set at construction.
	DiscountFixed
)

// String returns the persisted name of the policy.
func (p DiscountPolicy) String() string {
	switch p {
	case DiscountMutable:
		return "mutable"
	case DiscountFixed:
		return "fixed"
	default:
		return "unknown"
	}
}

// ParseDiscountPolicy parses a persisted policy name. An empty string is mutable.
func ParseDiscountPolicy(s string) (DiscountPolicy, error) {
	switch s {
	case "", "mutable":
		return DiscountMutable, nil
	case "fixed":
		return DiscountFixed, nil
	default:
		return DiscountMutable, fmt.Errorf("discount policy %q: %w", s, ErrValidation)
	}
}

// Item is a single stock-keeping unit.
// It owns its own price, discount and quantity arithmetic.
type Item struct {
	code     int64
	name     string
	price    float64
	discount float64
	quantity int
	policy   DiscountPolicy
}

// NewItem creates an item with no discount.
// Price and quantity are expected to be non-negative.
func NewItem(name string, code int64, price float64, quantity int) *Item {
	return &Item{
		code:     code,
		name:     name,
		price:    price,
		quantity: quantity,
		policy:   DiscountMutable,
	}
}

// NewDiscountedItem creates an item whose discount is locked at FixedDiscount.
func NewDiscountedItem(name string, code int64, price float64, quantity int) *Item {
	item := NewItem(name, code, price, quantity)
	item.SetDiscount(FixedDiscount)
	item.policy = DiscountFixed
	return item
}

// Code returns the item's unique identifier.
func (i *Item) Code() int64 { return i.code }

// Name returns the display name.
func (i *Item) Name() string { return i.name }

// Price returns the raw unit price.
func (i *Item) Price() float64 { return i.price }

// Discount returns the discount in percent.
func (i *Item) Discount() float64 { return i.discount }

// Quantity returns the quantity on hand.
func (i *Item) Quantity() int { return i.quantity }

// Policy returns the discount policy.
func (i *Item) Policy() DiscountPolicy { return i.policy }

// ChangePrice replaces the unit price. Negative prices are not rejected.
func (i *Item) ChangePrice(newPrice float64) {
	i.price = newPrice
}

// SetDiscount sets the discount and reports whether the call was accepted.
// Values outside [0,100], NaN included, are rejected without touching state.
// Items with a fixed policy accept every call and keep their discount.
func (i *Item) SetDiscount(value float64) bool {
	if i.policy == DiscountFixed {
		return true
	}
	if !(value >= 0 && value <= 100) {
		return false
	}
	i.discount = value
	return true
}

// EffectivePrice returns the unit price after discount.
func (i *Item) EffectivePrice() float64 {
	return i.price * (100 - i.discount) / 100
}

// Sell removes count units from stock and returns the sale proceeds,
// priced at the effective price.
func (i *Item) Sell(count int) (float64, error) {
	if count < 0 {
		return 0, fmt.Errorf("item %d: negative sell count %d: %w", i.code, count, ErrValidation)
	}
	if count > i.quantity {
		return 0, fmt.Errorf("item %d: requested %d, on hand %d: %w", i.code, count, i.quantity, ErrInsufficientStock)
	}

	proceeds := float64(count) * i.EffectivePrice()
	i.quantity -= count
	return proceeds, nil
}

// CurrentStockValue returns quantity times the raw, undiscounted price.
func (i *Item) CurrentStockValue() float64 {
	return float64(i.quantity) * i.price
}

// Restock adds count units to stock.
func (i *Item) Restock(count int) error {
	if count < 0 {
		return fmt.Errorf("item %d: negative restock %d: %w", i.code, count, ErrValidation)
	}
	i.quantity += count
	return nil
}
