package app

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/hiperzap/waba-platform/internal/waba_service/adapters/metagraph"
	"github.com/hiperzap/waba-platform/internal/waba_service/domain"
)

type MockBusinessManagerRepository struct {
	mock.Mock
}

func (m *MockBusinessManagerRepository) Create(ctx context.Context, bm *domain.BusinessManager) error {
	args := m.Called(ctx, bm)
	return args.Error(0)
}

func (m *MockBusinessManagerRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.BusinessManager, error) {
	args := m.Called(ctx, id)
	if bm, ok := args.Get(0).(*domain.BusinessManager); ok {
		return bm, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockBusinessManagerRepository) List(ctx context.Context) ([]*domain.BusinessManager, error) {
	args := m.Called(ctx)
	if managers, ok := args.Get(0).([]*domain.BusinessManager); ok {
		return managers, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockBusinessManagerRepository) ListWithAccessToken(ctx context.Context) ([]*domain.BusinessManager, error) {
	args := m.Called(ctx)
	if managers, ok := args.Get(0).([]*domain.BusinessManager); ok {
		return managers, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockBusinessManagerRepository) Update(ctx context.Context, bm *domain.BusinessManager) error {
	args := m.Called(ctx, bm)
	return args.Error(0)
}

type MockWABARepository struct {
	mock.Mock
}

func (m *MockWABARepository) Create(ctx context.Context, w *domain.WABA) error {
	args := m.Called(ctx, w)
	return args.Error(0)
}

func (m *MockWABARepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.WABA, error) {
	args := m.Called(ctx, id)
	if w, ok := args.Get(0).(*domain.WABA); ok {
		return w, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockWABARepository) FindByMetaWABAID(ctx context.Context, metaWABAID string) (*domain.WABA, error) {
	args := m.Called(ctx, metaWABAID)
	if w, ok := args.Get(0).(*domain.WABA); ok {
		return w, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockWABARepository) ListByBusinessManagerID(ctx context.Context, businessManagerID uuid.UUID) ([]*domain.WABA, error) {
	args := m.Called(ctx, businessManagerID)
	if wabas, ok := args.Get(0).([]*domain.WABA); ok {
		return wabas, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockWABARepository) Update(ctx context.Context, w *domain.WABA) error {
	args := m.Called(ctx, w)
	return args.Error(0)
}

type MockPhoneNumberRepository struct {
	mock.Mock
}

func (m *MockPhoneNumberRepository) Create(ctx context.Context, pn *domain.PhoneNumber) error {
	args := m.Called(ctx, pn)
	return args.Error(0)
}

func (m *MockPhoneNumberRepository) FindByMetaPhoneNumberID(ctx context.Context, metaPhoneNumberID string) (*domain.PhoneNumber, error) {
	args := m.Called(ctx, metaPhoneNumberID)
	if pn, ok := args.Get(0).(*domain.PhoneNumber); ok {
		return pn, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockPhoneNumberRepository) ListByWABAID(ctx context.Context, wabaID uuid.UUID) ([]*domain.PhoneNumber, error) {
	args := m.Called(ctx, wabaID)
	if numbers, ok := args.Get(0).([]*domain.PhoneNumber); ok {
		return numbers, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockPhoneNumberRepository) Update(ctx context.Context, pn *domain.PhoneNumber) error {
	args := m.Called(ctx, pn)
	return args.Error(0)
}

type MockDirectoryClient struct {
	mock.Mock
}

func (m *MockDirectoryClient) GetBusinesses(ctx context.Context) (*metagraph.BusinessesResponse, error) {
	args := m.Called(ctx)
	if resp, ok := args.Get(0).(*metagraph.BusinessesResponse); ok {
		return resp, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockDirectoryClient) GetOwnedWABAs(ctx context.Context, businessID string) (*metagraph.WABAsResponse, error) {
	args := m.Called(ctx, businessID)
	if resp, ok := args.Get(0).(*metagraph.WABAsResponse); ok {
		return resp, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockDirectoryClient) GetClientWABAs(ctx context.Context, businessID string) (*metagraph.WABAsResponse, error) {
	args := m.Called(ctx, businessID)
	if resp, ok := args.Get(0).(*metagraph.WABAsResponse); ok {
		return resp, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockDirectoryClient) GetPhoneNumbers(ctx context.Context, wabaID string) (*metagraph.PhoneNumbersResponse, error) {
	args := m.Called(ctx, wabaID)
	if resp, ok := args.Get(0).(*metagraph.PhoneNumbersResponse); ok {
		return resp, args.Error(1)
	}
	return nil, args.Error(1)
}

type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, subject string, data []byte) error {
	args := m.Called(ctx, subject, data)
	return args.Error(0)
}

type MockReconciler struct {
	mock.Mock
}

func (m *MockReconciler) Reconcile(ctx context.Context, businessManagerID uuid.UUID) SyncResult {
	args := m.Called(ctx, businessManagerID)
	return args.Get(0).(SyncResult)
}
