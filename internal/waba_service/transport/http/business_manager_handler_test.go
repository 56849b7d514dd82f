package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/hiperzap/waba-platform/internal/waba_service/app"
	"github.com/hiperzap/waba-platform/internal/waba_service/domain"
)

type mockBusinessManagerRepo struct {
	mock.Mock
}

func (m *mockBusinessManagerRepo) Create(ctx context.Context, bm *domain.BusinessManager) error {
	return m.Called(ctx, bm).Error(0)
}

func (m *mockBusinessManagerRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.BusinessManager, error) {
	args := m.Called(ctx, id)
	if bm, ok := args.Get(0).(*domain.BusinessManager); ok {
		return bm, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockBusinessManagerRepo) List(ctx context.Context) ([]*domain.BusinessManager, error) {
	args := m.Called(ctx)
	if managers, ok := args.Get(0).([]*domain.BusinessManager); ok {
		return managers, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockBusinessManagerRepo) ListWithAccessToken(ctx context.Context) ([]*domain.BusinessManager, error) {
	args := m.Called(ctx)
	if managers, ok := args.Get(0).([]*domain.BusinessManager); ok {
		return managers, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockBusinessManagerRepo) Update(ctx context.Context, bm *domain.BusinessManager) error {
	return m.Called(ctx, bm).Error(0)
}

type mockWABARepo struct {
	mock.Mock
}

func (m *mockWABARepo) Create(ctx context.Context, w *domain.WABA) error {
	return m.Called(ctx, w).Error(0)
}

func (m *mockWABARepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.WABA, error) {
	args := m.Called(ctx, id)
	if w, ok := args.Get(0).(*domain.WABA); ok {
		return w, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockWABARepo) FindByMetaWABAID(ctx context.Context, metaWABAID string) (*domain.WABA, error) {
	args := m.Called(ctx, metaWABAID)
	if w, ok := args.Get(0).(*domain.WABA); ok {
		return w, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockWABARepo) ListByBusinessManagerID(ctx context.Context, businessManagerID uuid.UUID) ([]*domain.WABA, error) {
	args := m.Called(ctx, businessManagerID)
	if wabas, ok := args.Get(0).([]*domain.WABA); ok {
		return wabas, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockWABARepo) Update(ctx context.Context, w *domain.WABA) error {
	return m.Called(ctx, w).Error(0)
}

type mockPhoneNumberRepo struct {
	mock.Mock
}

func (m *mockPhoneNumberRepo) Create(ctx context.Context, pn *domain.PhoneNumber) error {
	return m.Called(ctx, pn).Error(0)
}

func (m *mockPhoneNumberRepo) FindByMetaPhoneNumberID(ctx context.Context, metaPhoneNumberID string) (*domain.PhoneNumber, error) {
	args := m.Called(ctx, metaPhoneNumberID)
	if pn, ok := args.Get(0).(*domain.PhoneNumber); ok {
		return pn, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockPhoneNumberRepo) ListByWABAID(ctx context.Context, wabaID uuid.UUID) ([]*domain.PhoneNumber, error) {
	args := m.Called(ctx, wabaID)
	if numbers, ok := args.Get(0).([]*domain.PhoneNumber); ok {
		return numbers, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockPhoneNumberRepo) Update(ctx context.Context, pn *domain.PhoneNumber) error {
	return m.Called(ctx, pn).Error(0)
}

type mockReconciler struct {
	mock.Mock
}

func (m *mockReconciler) Reconcile(ctx context.Context, businessManagerID uuid.UUID) app.SyncResult {
	return m.Called(ctx, businessManagerID).Get(0).(app.SyncResult)
}

type handlerFixture struct {
	businessManagers *mockBusinessManagerRepo
	wabas            *mockWABARepo
	phoneNumbers     *mockPhoneNumberRepo
	reconciler       *mockReconciler
	router           chi.Router
}

func newHandlerFixture(t *testing.T) *handlerFixture {
	t.Helper()
	f := &handlerFixture{
		businessManagers: new(mockBusinessManagerRepo),
		wabas:            new(mockWABARepo),
		phoneNumbers:     new(mockPhoneNumberRepo),
		reconciler:       new(mockReconciler),
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := NewBusinessManagerHandler(
		f.businessManagers, f.wabas, f.phoneNumbers, f.reconciler, logger, validator.New())
	f.router = chi.NewRouter()
	f.router.Route("/api/v1", func(r chi.Router) {
		handler.RegisterRoutes(r)
	})
	return f
}

func (f *handlerFixture) do(t *testing.T, method, path string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func TestOnboardBusinessManager(t *testing.T) {
	f := newHandlerFixture(t)

	f.businessManagers.On("Create", mock.Anything, mock.AnythingOfType("*domain.BusinessManager")).Return(nil)

	body := []byte(`{"access_token":"EAAG-long-lived-system-user-token"}`)
	rec := f.do(t, http.MethodPost, "/api/v1/business-managers", body)

	require.Equal(t, http.StatusCreated, rec.Code)

	var resp BusinessManagerResponseDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.ID)
	assert.True(t, resp.IsActive)
	assert.Nil(t, resp.MetaBusinessID)

	// The access token never appears in responses.
	assert.NotContains(t, rec.Body.String(), "EAAG-long-lived-system-user-token")
	assert.NotContains(t, rec.Body.String(), "access_token")
}

func TestOnboardBusinessManagerRejectsShortToken(t *testing.T) {
	f := newHandlerFixture(t)

	rec := f.do(t, http.MethodPost, "/api/v1/business-managers", []byte(`{"access_token":"short"}`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	f.businessManagers.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestOnboardBusinessManagerDuplicate(t *testing.T) {
	f := newHandlerFixture(t)

	f.businessManagers.On("Create", mock.Anything, mock.Anything).Return(domain.ErrDuplicateEntry)

	body := []byte(`{"access_token":"EAAG-long-lived-system-user-token"}`)
	rec := f.do(t, http.MethodPost, "/api/v1/business-managers", body)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestGetBusinessManager(t *testing.T) {
	f := newHandlerFixture(t)

	bm, err := domain.NewBusinessManager("token-token-token")
	require.NoError(t, err)
	f.businessManagers.On("GetByID", mock.Anything, bm.ID).Return(bm, nil)

	rec := f.do(t, http.MethodGet, "/api/v1/business-managers/"+bm.ID.String(), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp BusinessManagerResponseDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, bm.ID.String(), resp.ID)
}

func TestGetBusinessManagerNotFound(t *testing.T) {
	f := newHandlerFixture(t)
	id := uuid.New()

	f.businessManagers.On("GetByID", mock.Anything, id).Return(nil, domain.ErrNotFound)

	rec := f.do(t, http.MethodGet, "/api/v1/business-managers/"+id.String(), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetBusinessManagerInvalidID(t *testing.T) {
	f := newHandlerFixture(t)

	rec := f.do(t, http.MethodGet, "/api/v1/business-managers/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	f.businessManagers.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestSyncBusinessManager(t *testing.T) {
	f := newHandlerFixture(t)
	id := uuid.New()

	f.reconciler.On("Reconcile", mock.Anything, id).Return(app.SyncResult{
		Succeeded: true, BusinessManagerID: id, WABACount: 2, PhoneNumberCount: 3,
	})

	rec := f.do(t, http.MethodPost, "/api/v1/business-managers/"+id.String()+"/sync", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var result app.SyncResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.True(t, result.Succeeded)
	assert.Equal(t, 2, result.WABACount)
}

func TestSyncBusinessManagerFailure(t *testing.T) {
	f := newHandlerFixture(t)
	id := uuid.New()

	f.reconciler.On("Reconcile", mock.Anything, id).Return(app.SyncResult{
		Succeeded: false, BusinessManagerID: id,
		Errors: []string{"no businesses found for this access token"},
	})

	rec := f.do(t, http.MethodPost, "/api/v1/business-managers/"+id.String()+"/sync", nil)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var result app.SyncResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.False(t, result.Succeeded)
	require.Len(t, result.Errors, 1)
}

func TestListWABAs(t *testing.T) {
	f := newHandlerFixture(t)

	bm, err := domain.NewBusinessManager("token-token-token")
	require.NoError(t, err)
	waba, err := domain.NewWABA(bm.ID, "waba-1", domain.WABAAttributes{Name: "Acme Messaging"}, domain.OwnershipOwned)
	require.NoError(t, err)

	f.businessManagers.On("GetByID", mock.Anything, bm.ID).Return(bm, nil)
	f.wabas.On("ListByBusinessManagerID", mock.Anything, bm.ID).Return([]*domain.WABA{waba}, nil)

	rec := f.do(t, http.MethodGet, "/api/v1/business-managers/"+bm.ID.String()+"/wabas", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp []WABAResponseDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp, 1)
	assert.Equal(t, "waba-1", resp[0].MetaWABAID)
	assert.Equal(t, "OWNED", resp[0].OwnershipType)
}

func TestListPhoneNumbers(t *testing.T) {
	f := newHandlerFixture(t)

	waba, err := domain.NewWABA(uuid.New(), "waba-1", domain.WABAAttributes{Name: "Acme Messaging"}, domain.OwnershipOwned)
	require.NoError(t, err)
	pn, err := domain.NewPhoneNumber(waba.ID, "phone-1", domain.PhoneNumberAttributes{
		PhoneNumber:        domain.PhoneNumberE164Unchecked("+5511999999999"),
		DisplayPhoneNumber: "+55 11 99999-9999",
	})
	require.NoError(t, err)

	f.wabas.On("GetByID", mock.Anything, waba.ID).Return(waba, nil)
	f.phoneNumbers.On("ListByWABAID", mock.Anything, waba.ID).Return([]*domain.PhoneNumber{pn}, nil)

	rec := f.do(t, http.MethodGet, "/api/v1/wabas/"+waba.ID.String()+"/phone-numbers", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp []PhoneNumberResponseDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp, 1)
	assert.Equal(t, "+5511999999999", resp[0].PhoneNumber)
	assert.Equal(t, "CONNECTED", resp[0].Status)
}

func TestListPhoneNumbersUnknownWABA(t *testing.T) {
	f := newHandlerFixture(t)
	id := uuid.New()

	f.wabas.On("GetByID", mock.Anything, id).Return(nil, domain.ErrNotFound)

	rec := f.do(t, http.MethodGet, "/api/v1/wabas/"+id.String()+"/phone-numbers", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	f.phoneNumbers.AssertNotCalled(t, "ListByWABAID", mock.Anything, mock.Anything)
}
