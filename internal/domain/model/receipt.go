package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ReceiptLine records the sale of one catalog item during checkout.
type ReceiptLine struct {
	Code      int64
	Name      string
	Quantity  int
	UnitPrice float64
	Proceeds  float64
}

// Receipt is the result of a checkout. Lines are keyed by item code and kept
// in the order the codes were first added to the cart.
type Receipt struct {
	ID        uuid.UUID
	CreatedAt time.Time
	Lines     []ReceiptLine
}

// NewReceipt creates an empty receipt with a fresh ID.
func NewReceipt() *Receipt {
	return &Receipt{
		ID:        uuid.New(),
		CreatedAt: time.Now().UTC(),
		Lines:     []ReceiptLine{},
	}
}

// Add appends a line to the receipt.
func (r *Receipt) Add(line ReceiptLine) {
	r.Lines = append(r.Lines, line)
}

// Line returns the line for the given code.
func (r *Receipt) Line(code int64) (ReceiptLine, bool) {
	for _, l := range r.Lines {
		if l.Code == code {
			return l, true
		}
	}
	return ReceiptLine{}, false
}

// ByName returns proceeds keyed by display name.
// Lines that share a name are summed.
func (r *Receipt) ByName() map[string]float64 {
	sums := make(map[string]decimal.Decimal, len(r.Lines))
	for _, l := range r.Lines {
		sums[l.Name] = sums[l.Name].Add(decimal.NewFromFloat(l.Proceeds))
	}

	out := make(map[string]float64, len(sums))
	for name, v := range sums {
		out[name] = v.InexactFloat64()
	}
	return out
}

// Total returns the sum of all line proceeds.
func (r *Receipt) Total() float64 {
	return ReceiptTotal(r)
}

// ReceiptTotal sums the proceeds of a receipt. A nil receipt totals zero.
func ReceiptTotal(r *Receipt) float64 {
	if r == nil {
		return 0
	}
	total := decimal.Zero
	for _, l := range r.Lines {
		total = total.Add(decimal.NewFromFloat(l.Proceeds))
	}
	return total.InexactFloat64()
}
