// Code generated manually. DO NOT EDIT.

package mocks

import (
	"context"

	"github.com/guttosm/stock-service/internal/domain/dto"
	"github.com/stretchr/testify/mock"
)

type MockItemStore struct {
	mock.Mock
}

func (m *MockItemStore) SaveItems(ctx context.Context, records []dto.ItemRecord) error {
	args := m.Called(ctx, records)
	return args.Error(0)
}

func (m *MockItemStore) LoadItems(ctx context.Context) ([]dto.ItemRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]dto.ItemRecord), args.Error(1)
}
