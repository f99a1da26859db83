//go:build !integration

package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/guttosm/stock-service/internal/circuitbreaker"
	"github.com/guttosm/stock-service/internal/domain/dto"
	"github.com/guttosm/stock-service/internal/metrics"
	"github.com/guttosm/stock-service/internal/mocks"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestItemStoreWithCircuitBreaker(t *testing.T) {
	ctx := context.Background()
	records := []dto.ItemRecord{{Code: 1000001, Name: "CI10000", Quantity: 1, Price: 10}}

	t.Run("delegates when closed", func(t *testing.T) {
		store := new(mocks.MockItemStore)
		store.On("SaveItems", mock.Anything, records).Return(nil).Once()
		store.On("LoadItems", mock.Anything).Return(records, nil).Once()

		wrapped := NewItemStoreWithCircuitBreaker(store, circuitbreaker.New(circuitbreaker.DefaultConfig()))

		require.NoError(t, wrapped.SaveItems(ctx, records))
		loaded, err := wrapped.LoadItems(ctx)
		require.NoError(t, err)
		assert.Equal(t, records, loaded)
		store.AssertExpectations(t)
	})

	t.Run("rejects calls once open", func(t *testing.T) {
		storeErr := errors.New("connection refused")
		store := new(mocks.MockItemStore)
		store.On("LoadItems", mock.Anything).Return(nil, storeErr).Times(2)

		cb := circuitbreaker.New(circuitbreaker.Config{
			FailureThreshold: 2,
			SuccessThreshold: 1,
			Timeout:          time.Hour,
			Name:             "test-store",
		})
		wrapped := NewItemStoreWithCircuitBreaker(store, cb)

		for i := 0; i < 2; i++ {
			_, err := wrapped.LoadItems(ctx)
			assert.ErrorIs(t, err, storeErr)
		}

		_, err := wrapped.LoadItems(ctx)
		assert.ErrorIs(t, err, circuitbreaker.ErrCircuitOpen)
		assert.ErrorIs(t, wrapped.SaveItems(ctx, records), circuitbreaker.ErrCircuitOpen)
		assert.Equal(t, circuitbreaker.StateOpen, wrapped.GetCircuitBreaker().State())
		store.AssertExpectations(t)
	})
}

func TestInstrumentedItemStore(t *testing.T) {
	ctx := context.Background()
	store := new(mocks.MockItemStore)
	store.On("SaveItems", mock.Anything, mock.Anything).Return(errors.New("disk full")).Once()
	store.On("LoadItems", mock.Anything).Return([]dto.ItemRecord{}, nil).Once()

	saveErrors := metrics.StoreOperationsTotal.WithLabelValues("instrumented-test", "save", "error")
	loads := metrics.StoreOperationsTotal.WithLabelValues("instrumented-test", "load", "success")
	saveBefore := testutil.ToFloat64(saveErrors)
	loadBefore := testutil.ToFloat64(loads)

	wrapped := NewInstrumentedItemStore(store, "instrumented-test")

	assert.Error(t, wrapped.SaveItems(ctx, nil))
	_, err := wrapped.LoadItems(ctx)
	require.NoError(t, err)

	assert.Equal(t, saveBefore+1, testutil.ToFloat64(saveErrors))
	assert.Equal(t, loadBefore+1, testutil.ToFloat64(loads))
	store.AssertExpectations(t)
}
