package model

import "errors"

var (
	// ErrNotFound is returned when an item code is not in the catalog.
	ErrNotFound = errors.New("item not found")
	// ErrValidation is returned for invalid numeric input such as a negative restock.
	ErrValidation = errors.New("invalid input")
	// ErrInsufficientStock is returned when a sale exceeds the quantity on hand.
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrDuplicateItem is returned when an item code is already in the catalog.
	ErrDuplicateItem = errors.New("duplicate item code")
	// ErrNoActiveCart is returned when a cart operation runs before StartCart.
	ErrNoActiveCart = errors.New("no active cart")
)
