// Package dto defines the row shapes used to move catalog state in and out of stores.
package dto

import (
	"fmt"
	"math"

	"github.com/guttosm/stock-service/internal/domain/model"
)

// ItemRecord is the persisted form of a catalog item.
type ItemRecord struct {
	Code     int64   `bson:"code" json:"code"`
	Name     string  `bson:"name" json:"name"`
	Quantity int     `bson:"quantity" json:"quantity"`
	Price    float64 `bson:"price" json:"price"`
	Discount float64 `bson:"discount" json:"discount"`
	// Policy is "mutable" or "fixed"; empty means mutable.
	Policy string `bson:"policy,omitempty" json:"policy,omitempty"`
}

// FromItem snapshots an item.
func FromItem(item *model.Item) ItemRecord {
	return ItemRecord{
		Code:     item.Code(),
		Name:     item.Name(),
		Quantity: item.Quantity(),
		Price:    item.Price(),
		Discount: item.Discount(),
		Policy:   item.Policy().String(),
	}
}

// FromItems snapshots items, preserving order.
func FromItems(items []*model.Item) []ItemRecord {
	records := make([]ItemRecord, 0, len(items))
	for _, item := range items {
		records = append(records, FromItem(item))
	}
	return records
}

// ToItem rebuilds an item from the record. A fixed record must carry
// model.FixedDiscount.
func (r ItemRecord) ToItem() (*model.Item, error) {
	policy, err := model.ParseDiscountPolicy(r.Policy)
	if err != nil {
		return nil, fmt.Errorf("item %d: %w", r.Code, err)
	}
	if math.IsNaN(r.Price) || math.IsInf(r.Price, 0) {
		return nil, fmt.Errorf("item %d: price %v: %w", r.Code, r.Price, model.ErrValidation)
	}
	if r.Quantity < 0 {
		return nil, fmt.Errorf("item %d: negative quantity %d: %w", r.Code, r.Quantity, model.ErrValidation)
	}

	if policy == model.DiscountFixed {
		if r.Discount != model.FixedDiscount {
			return nil, fmt.Errorf("item %d: fixed discount %v, want %v: %w", r.Code, r.Discount, model.FixedDiscount, model.ErrValidation)
		}
		return model.NewDiscountedItem(r.Name, r.Code, r.Price, r.Quantity), nil
	}

	item := model.NewItem(r.Name, r.Code, r.Price, r.Quantity)
	if !item.SetDiscount(r.Discount) {
		return nil, fmt.Errorf("item %d: discount %v out of range: %w", r.Code, r.Discount, model.ErrValidation)
	}
	return item, nil
}
