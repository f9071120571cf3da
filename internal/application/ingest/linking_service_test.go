package ingestapp

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/gwak2837/shabangnet-sub001/internal/domain/catalog"
	"github.com/gwak2837/shabangnet-sub001/internal/domain/order"
	"github.com/gwak2837/shabangnet-sub001/internal/domain/partner"
	"github.com/gwak2837/shabangnet-sub001/internal/domain/shared"
)

// MockOrderRepository is a mock implementation of order.Repository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByPlatformOrderNo(ctx context.Context, orderNo string) (*order.Order, error) {
	args := m.Called(ctx, orderNo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByUploadID(ctx context.Context, uploadID uuid.UUID) ([]order.Order, error) {
	args := m.Called(ctx, uploadID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]order.Order), args.Error(1)
}

func (m *MockOrderRepository) CountByUploadID(ctx context.Context, uploadID uuid.UUID) (int64, error) {
	args := m.Called(ctx, uploadID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOrderRepository) Save(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) LinkManufacturer(ctx context.Context, codeKey, optionKey string, manufacturerID uuid.UUID) (int64, error) {
	args := m.Called(ctx, codeKey, optionKey, manufacturerID)
	return args.Get(0).(int64), args.Error(1)
}

func TestLinkingServiceAssign(t *testing.T) {
	ctx := context.Background()

	mapping, err := catalog.NewOptionMappingCandidate("스마트몰::SKU-1", "블랙")
	require.NoError(t, err)
	manufacturer, err := partner.NewManufacturer("한빛산업")
	require.NoError(t, err)

	t.Run("assigns and back-fills pending orders", func(t *testing.T) {
		m := *mapping
		mappings := new(MockOptionMappingRepository)
		mfrs := new(MockManufacturerRepository)
		orders := new(MockOrderRepository)

		mappings.On("FindByID", mock.Anything, m.ID).Return(&m, nil)
		mfrs.On("FindByID", mock.Anything, manufacturer.ID).Return(manufacturer, nil)
		mappings.On("Save", mock.Anything, &m).Return(nil)
		orders.On("LinkManufacturer", mock.Anything, m.CodeKey, m.OptionKey, manufacturer.ID).
			Return(int64(7), nil)

		svc := NewLinkingService(mappings, mfrs, orders, nil)
		result, err := svc.Assign(ctx, m.ID, manufacturer.ID)
		require.NoError(t, err)

		assert.Equal(t, int64(7), result.LinkedOrders)
		assert.True(t, result.Mapping.IsResolved())
	})

	t.Run("unknown manufacturer aborts before save", func(t *testing.T) {
		m := *mapping
		mappings := new(MockOptionMappingRepository)
		mfrs := new(MockManufacturerRepository)
		orders := new(MockOrderRepository)

		missing := uuid.New()
		mappings.On("FindByID", mock.Anything, m.ID).Return(&m, nil)
		mfrs.On("FindByID", mock.Anything, missing).Return(nil, shared.ErrNotFound)

		svc := NewLinkingService(mappings, mfrs, orders, nil)
		_, err := svc.Assign(ctx, m.ID, missing)
		assert.ErrorIs(t, err, shared.ErrNotFound)
		mappings.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		orders.AssertNotCalled(t, "LinkManufacturer", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}
