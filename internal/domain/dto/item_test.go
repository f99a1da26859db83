package dto

import (
	"math"
	"testing"

	"github.com/guttosm/stock-service/internal/domain/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromItem(t *testing.T) {
	item := model.NewItem("CI12345", 1234567, 42, 7)
	require.True(t, item.SetDiscount(12))

	rec := FromItem(item)

	assert.Equal(t, ItemRecord{
		Code:     1234567,
		Name:     "CI12345",
		Quantity: 7,
		Price:    42,
		Discount: 12,
		Policy:   "mutable",
	}, rec)
}

func TestFromItems_PreservesOrder(t *testing.T) {
	items := []*model.Item{
		model.NewItem("b", 2, 1, 1),
		model.NewItem("a", 1, 1, 1),
		model.NewDiscountedItem("c", 3, 1, 1),
	}

	records := FromItems(items)

	require.Len(t, records, 3)
	assert.Equal(t, int64(2), records[0].Code)
	assert.Equal(t, int64(1), records[1].Code)
	assert.Equal(t, int64(3), records[2].Code)
	assert.Equal(t, "fixed", records[2].Policy)
}

func TestItemRecord_ToItem(t *testing.T) {
	tests := []struct {
		name    string
		record  ItemRecord
		wantErr error
		check   func(*testing.T, *model.Item)
	}{
		{
			name:   "mutable record",
			record: ItemRecord{Code: 1000001, Name: "CI10000", Quantity: 5, Price: 20, Discount: 10},
			check: func(t *testing.T, item *model.Item) {
				assert.Equal(t, model.DiscountMutable, item.Policy())
				assert.Equal(t, 10.0, item.Discount())
				assert.Equal(t, 18.0, item.EffectivePrice())
			},
		},
		{
			name:   "fixed record",
			record: ItemRecord{Code: 1000002, Name: "CI20000", Quantity: 5, Price: 100, Discount: 70, Policy: "fixed"},
			check: func(t *testing.T, item *model.Item) {
				assert.Equal(t, model.DiscountFixed, item.Policy())
				assert.Equal(t, model.FixedDiscount, item.Discount())
			},
		},
		{
			name:    "discount out of range",
			record:  ItemRecord{Code: 1000003, Discount: 101},
			wantErr: model.ErrValidation,
		},
		{
			name:    "fixed record with another discount",
			record:  ItemRecord{Code: 1000006, Quantity: 5, Price: 100, Discount: 40, Policy: "fixed"},
			wantErr: model.ErrValidation,
		},
		{
			name:    "infinite price",
			record:  ItemRecord{Code: 1000007, Quantity: 1, Price: math.Inf(1)},
			wantErr: model.ErrValidation,
		},
		{
			name:    "NaN price",
			record:  ItemRecord{Code: 1000008, Quantity: 1, Price: math.NaN()},
			wantErr: model.ErrValidation,
		},
		{
			name:    "NaN discount",
			record:  ItemRecord{Code: 1000009, Quantity: 1, Price: 10, Discount: math.NaN()},
			wantErr: model.ErrValidation,
		},
		{
			name:    "negative quantity",
			record:  ItemRecord{Code: 1000004, Quantity: -1},
			wantErr: model.ErrValidation,
		},
		{
			name:    "unknown policy",
			record:  ItemRecord{Code: 1000005, Policy: "sometimes"},
			wantErr: model.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item, err := tt.record.ToItem()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, item)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.record.Code, item.Code())
			assert.Equal(t, tt.record.Name, item.Name())
			assert.Equal(t, tt.record.Quantity, item.Quantity())
			tt.check(t, item)
		})
	}
}
