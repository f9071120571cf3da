package ingestapp

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/gwak2837/shabangnet-sub001/internal/domain/mall"
	"github.com/gwak2837/shabangnet-sub001/internal/domain/shared"
)

// MockTemplateRepository is a mock implementation of mall.TemplateRepository
type MockTemplateRepository struct {
	mock.Mock
}

func (m *MockTemplateRepository) FindByID(ctx context.Context, id uuid.UUID) (*mall.Template, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*mall.Template), args.Error(1)
}

func (m *MockTemplateRepository) FindByMallName(ctx context.Context, mallName string) (*mall.Template, error) {
	args := m.Called(ctx, mallName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*mall.Template), args.Error(1)
}

func (m *MockTemplateRepository) FindAll(ctx context.Context) ([]mall.Template, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]mall.Template), args.Error(1)
}

func (m *MockTemplateRepository) Save(ctx context.Context, t *mall.Template) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *MockTemplateRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockTemplateCache is a mock implementation of TemplateCache
type MockTemplateCache struct {
	mock.Mock
}

func (m *MockTemplateCache) Get(ctx context.Context, mallName string) (*mall.Template, error) {
	args := m.Called(ctx, mallName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*mall.Template), args.Error(1)
}

func (m *MockTemplateCache) Set(ctx context.Context, t *mall.Template) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *MockTemplateCache) Invalidate(ctx context.Context, mallName string) error {
	args := m.Called(ctx, mallName)
	return args.Error(0)
}

func TestTemplateServiceResolve(t *testing.T) {
	ctx := context.Background()
	stored := transformTemplate(t)

	t.Run("cache hit skips storage", func(t *testing.T) {
		repo := new(MockTemplateRepository)
		cache := new(MockTemplateCache)
		cache.On("Get", mock.Anything, "스마트몰").Return(stored, nil)

		svc := NewTemplateService(repo, cache, nil)
		got, err := svc.Resolve(ctx, "스마트몰")
		require.NoError(t, err)
		assert.Equal(t, stored, got)
		repo.AssertNotCalled(t, "FindByMallName", mock.Anything, mock.Anything)
	})

	t.Run("cache miss reads through and fills", func(t *testing.T) {
		repo := new(MockTemplateRepository)
		cache := new(MockTemplateCache)
		cache.On("Get", mock.Anything, "스마트몰").Return(nil, nil)
		cache.On("Set", mock.Anything, stored).Return(nil)
		repo.On("FindByMallName", mock.Anything, "스마트몰").Return(stored, nil)

		svc := NewTemplateService(repo, cache, nil)
		got, err := svc.Resolve(ctx, "스마트몰")
		require.NoError(t, err)
		assert.Equal(t, stored, got)
		cache.AssertCalled(t, "Set", mock.Anything, stored)
	})

	t.Run("cache failure falls back to storage", func(t *testing.T) {
		repo := new(MockTemplateRepository)
		cache := new(MockTemplateCache)
		cache.On("Get", mock.Anything, "스마트몰").Return(nil, errors.New("connection refused"))
		cache.On("Set", mock.Anything, stored).Return(errors.New("connection refused"))
		repo.On("FindByMallName", mock.Anything, "스마트몰").Return(stored, nil)

		svc := NewTemplateService(repo, cache, nil)
		got, err := svc.Resolve(ctx, "스마트몰")
		require.NoError(t, err)
		assert.Equal(t, stored, got)
	})

	t.Run("unknown mall propagates not found", func(t *testing.T) {
		repo := new(MockTemplateRepository)
		repo.On("FindByMallName", mock.Anything, "없는몰").Return(nil, shared.ErrNotFound)

		svc := NewTemplateService(repo, nil, nil)
		_, err := svc.Resolve(ctx, "없는몰")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestTemplateServiceCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects duplicate mall name", func(t *testing.T) {
		existing := transformTemplate(t)
		repo := new(MockTemplateRepository)
		repo.On("FindByMallName", mock.Anything, "스마트몰").Return(existing, nil)

		svc := NewTemplateService(repo, nil, nil)
		err := svc.Create(ctx, transformTemplate(t))
		require.Error(t, err)

		var de *shared.DomainError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, "TEMPLATE_EXISTS", de.Code)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("stores and invalidates", func(t *testing.T) {
		tmpl := transformTemplate(t)
		repo := new(MockTemplateRepository)
		cache := new(MockTemplateCache)
		repo.On("FindByMallName", mock.Anything, "스마트몰").Return(nil, shared.ErrNotFound)
		repo.On("Save", mock.Anything, tmpl).Return(nil)
		cache.On("Invalidate", mock.Anything, "스마트몰").Return(nil)

		svc := NewTemplateService(repo, cache, nil)
		require.NoError(t, svc.Create(ctx, tmpl))
		cache.AssertCalled(t, "Invalidate", mock.Anything, "스마트몰")
	})
}

func TestTemplateServiceUpdate(t *testing.T) {
	ctx := context.Background()
	current := transformTemplate(t)
	id := current.ID

	update := transformTemplate(t)
	update.MallName = "새이름몰"

	repo := new(MockTemplateRepository)
	cache := new(MockTemplateCache)
	repo.On("FindByID", mock.Anything, id).Return(current, nil)
	repo.On("Save", mock.Anything, current).Return(nil)
	cache.On("Invalidate", mock.Anything, "스마트몰").Return(nil)
	cache.On("Invalidate", mock.Anything, "새이름몰").Return(nil)

	svc := NewTemplateService(repo, cache, nil)
	got, err := svc.Update(ctx, id, update)
	require.NoError(t, err)
	assert.Equal(t, "새이름몰", got.MallName)

	// A rename drops both the old and the new cache entries
	cache.AssertCalled(t, "Invalidate", mock.Anything, "스마트몰")
	cache.AssertCalled(t, "Invalidate", mock.Anything, "새이름몰")
}

func TestTemplateServiceDelete(t *testing.T) {
	current := transformTemplate(t)
	repo := new(MockTemplateRepository)
	cache := new(MockTemplateCache)
	repo.On("FindByID", mock.Anything, current.ID).Return(current, nil)
	repo.On("Delete", mock.Anything, current.ID).Return(nil)
	cache.On("Invalidate", mock.Anything, "스마트몰").Return(nil)

	svc := NewTemplateService(repo, cache, nil)
	require.NoError(t, svc.Delete(context.Background(), current.ID))
	cache.AssertCalled(t, "Invalidate", mock.Anything, "스마트몰")
}
