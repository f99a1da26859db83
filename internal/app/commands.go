package app

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/guttosm/stock-service/internal/domain/model"
	"github.com/shopspring/decimal"
	"github.com/urfave/cli/v2"
)

// CartLine is one parsed --line argument.
type CartLine struct {
	Code  int64
	Count int
}

// ParseCartLine parses "code=count".
func ParseCartLine(s string) (CartLine, error) {
	codeText, countText, ok := strings.Cut(strings.TrimSpace(s), "=")
	if !ok {
		return CartLine{}, fmt.Errorf("cart line %q: want code=count: %w", s, model.ErrValidation)
	}
	code, err := strconv.ParseInt(strings.TrimSpace(codeText), 10, 64)
	if err != nil {
		return CartLine{}, fmt.Errorf("cart line %q: code: %w", s, model.ErrValidation)
	}
	count, err := strconv.Atoi(strings.TrimSpace(countText))
	if err != nil || count < 0 {
		return CartLine{}, fmt.Errorf("cart line %q: count: %w", s, model.ErrValidation)
	}
	return CartLine{Code: code, Count: count}, nil
}

func formatMoney(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

func (r *runner) demo(c *cli.Context) error {
	records := r.cfg.Generator.Records
	if c.IsSet(flagRecords) {
		records = c.Int(flagRecords)
	}
	if err := r.setup(c.Context); err != nil {
		return err
	}

	if err := r.services.Generator.WriteDummyData(c.Context, r.stores.Store, records); err != nil {
		return err
	}
	n, err := r.services.Persister.Load(c.Context, r.services.Catalog)
	if err != nil {
		return err
	}

	w := c.App.Writer
	fmt.Fprintf(w, "Generated %d random items, saved them to the %s store and reloaded them.\n", n, r.stores.Backend)
	fmt.Fprintf(w, "Current Stock Value: %s\n", formatMoney(r.services.Catalog.TotalStockValue()))
	return nil
}

func (r *runner) generate(c *cli.Context) error {
	records := c.Int(flagRecords)
	if err := r.setup(c.Context); err != nil {
		return err
	}
	if err := r.services.Generator.WriteDummyData(c.Context, r.stores.Store, records); err != nil {
		return err
	}

	fmt.Fprintf(c.App.Writer, "Wrote %d items to the %s store.\n", records, r.stores.Backend)
	return nil
}

func (r *runner) value(c *cli.Context) error {
	if err := r.setup(c.Context); err != nil {
		return err
	}
	n, err := r.services.Persister.Load(c.Context, r.services.Catalog)
	if err != nil {
		return err
	}

	w := c.App.Writer
	fmt.Fprintf(w, "Items: %d\n", n)
	fmt.Fprintf(w, "Current Stock Value: %s\n", formatMoney(r.services.Catalog.TotalStockValue()))
	return nil
}

func (r *runner) checkout(c *cli.Context) error {
	var lines []CartLine
	for _, arg := range c.StringSlice(flagLine) {
		line, err := ParseCartLine(arg)
		if err != nil {
			return err
		}
		lines = append(lines, line)
	}

	if err := r.setup(c.Context); err != nil {
		return err
	}
	catalog := r.services.Catalog
	if _, err := r.services.Persister.Load(c.Context, catalog); err != nil {
		return err
	}

	catalog.StartCart()
	for _, line := range lines {
		if err := catalog.AddToCart(line.Code, line.Count); err != nil {
			return err
		}
	}
	receipt, err := catalog.Checkout()
	if err != nil {
		return err
	}
	if err := r.services.Persister.Save(c.Context, catalog); err != nil {
		return err
	}

	w := c.App.Writer
	fmt.Fprintf(w, "Receipt %s\n", receipt.ID)
	for _, l := range receipt.Lines {
		fmt.Fprintf(w, "%-12s %5d x %10s = %10s\n", l.Name, l.Quantity, formatMoney(l.UnitPrice), formatMoney(l.Proceeds))
	}
	fmt.Fprintf(w, "Total: %s\n", formatMoney(model.ReceiptTotal(receipt)))
	return nil
}

func (r *runner) restock(c *cli.Context) error {
	code := c.Int64(flagCode)
	count := c.Int(flagCount)

	if err := r.setup(c.Context); err != nil {
		return err
	}
	catalog := r.services.Catalog
	if _, err := r.services.Persister.Load(c.Context, catalog); err != nil {
		return err
	}
	if err := catalog.Restock(code, count); err != nil {
		return err
	}
	if err := r.services.Persister.Save(c.Context, catalog); err != nil {
		return err
	}

	item, err := catalog.Item(code)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "Item %d (%s) now has %d units.\n", item.Code(), item.Name(), item.Quantity())
	return nil
}
