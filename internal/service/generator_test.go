package service

import (
	"context"
	"errors"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/guttosm/stock-service/internal/domain/dto"
	"github.com/guttosm/stock-service/internal/domain/model"
	"github.com/guttosm/stock-service/internal/mocks"
	"github.com/guttosm/stock-service/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestGenerator_RandomItem_Ranges(t *testing.T) {
	g := NewGenerator(42)

	for i := 0; i < 500; i++ {
		item := g.RandomItem()

		require.True(t, strings.HasPrefix(item.Name(), namePrefix), item.Name())
		suffix, err := strconv.Atoi(strings.TrimPrefix(item.Name(), namePrefix))
		require.NoError(t, err)
		assert.GreaterOrEqual(t, suffix, nameMin)
		assert.Less(t, suffix, nameMax)

		assert.GreaterOrEqual(t, item.Code(), int64(codeMin))
		assert.Less(t, item.Code(), int64(codeMax))
		assert.GreaterOrEqual(t, item.Price(), float64(priceMin))
		assert.Less(t, item.Price(), float64(priceMax))
		assert.GreaterOrEqual(t, item.Quantity(), 0)
		assert.Less(t, item.Quantity(), quantityMax)
		assert.GreaterOrEqual(t, item.Discount(), 0.0)
		assert.Less(t, item.Discount(), float64(discountMax))
		assert.Equal(t, model.DiscountMutable, item.Policy())
	}
}

func TestGenerator_SeedIsDeterministic(t *testing.T) {
	a, err := NewGenerator(7).Items(20)
	require.NoError(t, err)
	b, err := NewGenerator(7).Items(20)
	require.NoError(t, err)

	assert.Equal(t, dto.FromItems(a), dto.FromItems(b))
}

func TestGenerator_Items(t *testing.T) {
	tests := []struct {
		name    string
		n       int
		wantErr bool
	}{
		{name: "zero", n: 0},
		{name: "many", n: 1000},
		{name: "negative", n: -1, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, err := NewGenerator(1).Items(tt.n)

			if tt.wantErr {
				assert.ErrorIs(t, err, model.ErrValidation)
				return
			}
			require.NoError(t, err)
			assert.Len(t, items, tt.n)

			catalog := NewCatalog()
			for _, item := range items {
				require.NoError(t, catalog.AddItem(item), "codes must be unique")
			}
		})
	}
}

func TestGenerator_WriteDummyData(t *testing.T) {
	ctx := context.Background()

	t.Run("csv file loads back", func(t *testing.T) {
		store := repository.NewCSVStore(filepath.Join(t.TempDir(), "dummy.csv"))

		require.NoError(t, NewGenerator(3).WriteDummyData(ctx, store, 25))

		catalog := NewCatalog()
		n, err := NewPersister(store).Load(ctx, catalog)
		require.NoError(t, err)
		assert.Equal(t, 25, n)
	})

	t.Run("store failure", func(t *testing.T) {
		storeErr := errors.New("read-only file system")
		store := new(mocks.MockItemStore)
		store.On("SaveItems", mock.Anything, mock.Anything).Return(storeErr)

		err := NewGenerator(3).WriteDummyData(ctx, store, 5)

		assert.ErrorIs(t, err, storeErr)
	})

	t.Run("invalid count never reaches the store", func(t *testing.T) {
		store := new(mocks.MockItemStore)

		err := NewGenerator(3).WriteDummyData(ctx, store, -5)

		assert.ErrorIs(t, err, model.ErrValidation)
		store.AssertNotCalled(t, "SaveItems", mock.Anything, mock.Anything)
	})
}
