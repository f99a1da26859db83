// Package service implements the catalog, its persistence and dummy data generation.
package service

import (
	"fmt"
	"sync"

	"github.com/guttosm/stock-service/internal/domain/model"
	"github.com/guttosm/stock-service/internal/metrics"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// Catalog owns the items of one store, keyed by code, and an optional
// shopping cart. All methods are safe for concurrent use.
type Catalog struct {
	mu    sync.Mutex
	items map[int64]*model.Item
	codes []int64

	// cart is nil when no cart is open.
	cart      map[int64]int
	cartOrder []int64
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		items: make(map[int64]*model.Item),
	}
}

// AddItem adds item to the catalog. A code already present is rejected with
// ErrDuplicateItem and the existing entry is kept.
func (c *Catalog) AddItem(item *model.Item) error {
	if item == nil {
		return fmt.Errorf("nil item: %w", model.ErrValidation)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.items[item.Code()]; exists {
		return fmt.Errorf("item %d: %w", item.Code(), model.ErrDuplicateItem)
	}

	c.items[item.Code()] = item
	c.codes = append(c.codes, item.Code())

	log.Debug().Int64("code", item.Code()).Str("name", item.Name()).Msg("Item added to catalog")
	return nil
}

// Item returns the item with the given code.
func (c *Catalog) Item(code int64) (*model.Item, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lookup(code)
}

func (c *Catalog) lookup(code int64) (*model.Item, error) {
	item, ok := c.items[code]
	if !ok {
		return nil, fmt.Errorf("item %d: %w", code, model.ErrNotFound)
	}
	return item, nil
}

// Items returns the catalog items in insertion order.
func (c *Catalog) Items() []*model.Item {
	c.mu.Lock()
	defer c.mu.Unlock()

	items := make([]*model.Item, 0, len(c.codes))
	for _, code := range c.codes {
		items = append(items, c.items[code])
	}
	return items
}

// Len returns the number of items.
func (c *Catalog) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.codes)
}

// Restock adds count units to the item with the given code.
func (c *Catalog) Restock(code int64, count int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	item, err := c.lookup(code)
	if err != nil {
		metrics.RecordRestock("not_found")
		return err
	}
	if count < 0 {
		metrics.RecordRestock("rejected")
		return fmt.Errorf("item %d: negative restock %d: %w", code, count, model.ErrValidation)
	}
	if err := item.Restock(count); err != nil {
		metrics.RecordRestock("rejected")
		return err
	}

	metrics.RecordRestock("success")
	log.Debug().Int64("code", code).Int("count", count).Int("quantity", item.Quantity()).Msg("Item restocked")
	return nil
}

// Sell sells count units of a single item outside of a cart and returns the proceeds.
func (c *Catalog) Sell(code int64, count int) (float64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	item, err := c.lookup(code)
	if err != nil {
		return 0, err
	}
	proceeds, err := item.Sell(count)
	if err != nil {
		return 0, err
	}

	metrics.RecordSale(count, proceeds)
	return proceeds, nil
}

// TotalStockValue sums the stock value of every item, at raw price, in
// insertion order.
func (c *Catalog) TotalStockValue() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	total := decimal.Zero
	for _, code := range c.codes {
		total = total.Add(decimal.NewFromFloat(c.items[code].CurrentStockValue()))
	}

	value := total.InexactFloat64()
	metrics.UpdateCatalogMetrics(len(c.codes), value)
	return value
}

// StartCart opens an empty cart, discarding any cart already open.
func (c *Catalog) StartCart() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cart != nil {
		log.Debug().Int("lines", len(c.cart)).Msg("Discarding open cart")
	}
	c.cart = make(map[int64]int)
	c.cartOrder = nil
}

// CartOpen reports whether a cart is open.
func (c *Catalog) CartOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cart != nil
}

// AddToCart sets the requested quantity for code in the open cart. Adding a
// code twice replaces the earlier quantity. Codes are checked at checkout.
func (c *Catalog) AddToCart(code int64, count int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cart == nil {
		return model.ErrNoActiveCart
	}
	if count < 0 {
		return fmt.Errorf("item %d: negative cart quantity %d: %w", code, count, model.ErrValidation)
	}

	if _, exists := c.cart[code]; !exists {
		c.cartOrder = append(c.cartOrder, code)
	}
	c.cart[code] = count
	return nil
}

// Checkout sells every cart line and returns the receipt. It returns a nil
// receipt when no cart is open. Every line is validated before any item is
// touched: on error nothing is sold and the cart stays open.
func (c *Catalog) Checkout() (*model.Receipt, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cart == nil {
		return nil, nil
	}

	for _, code := range c.cartOrder {
		item, err := c.lookup(code)
		if err != nil {
			metrics.RecordCheckout("failed")
			return nil, fmt.Errorf("checkout: %w", err)
		}
		if count := c.cart[code]; count > item.Quantity() {
			metrics.RecordCheckout("failed")
			return nil, fmt.Errorf("checkout: item %d: requested %d, on hand %d: %w",
				code, count, item.Quantity(), model.ErrInsufficientStock)
		}
	}

	receipt := model.NewReceipt()
	for _, code := range c.cartOrder {
		item := c.items[code]
		count := c.cart[code]
		unitPrice := item.EffectivePrice()

		proceeds, err := item.Sell(count)
		if err != nil {
			// unreachable after validation while the lock is held
			return nil, fmt.Errorf("checkout: %w", err)
		}
		metrics.RecordSale(count, proceeds)

		receipt.Add(model.ReceiptLine{
			Code:      code,
			Name:      item.Name(),
			Quantity:  count,
			UnitPrice: unitPrice,
			Proceeds:  proceeds,
		})
	}

	c.cart = nil
	c.cartOrder = nil

	metrics.RecordCheckout("success")
	log.Info().
		Str("receipt_id", receipt.ID.String()).
		Int("lines", len(receipt.Lines)).
		Float64("total", receipt.Total()).
		Msg("Checkout completed")

	return receipt, nil
}
