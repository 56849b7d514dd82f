package postgres

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hiperzap/waba-platform/internal/waba_service/domain"
)

func newWABARepo(t *testing.T) (pgxmock.PgxPoolIface, *PgWABARepository) {
	t.Helper()
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mockPool.Close)
	return mockPool, NewPgWABARepository(mockPool, testLogger())
}

func wabaRow(id, ownerID uuid.UUID, metaWABAID string) *pgxmock.Rows {
	now := time.Now().UTC()
	return pgxmock.NewRows([]string{
		"id", "business_manager_id", "meta_waba_id", "name", "currency", "timezone_id",
		"message_template_namespace", "account_review_status", "business_verification_status",
		"ownership_type", "is_active", "created_at", "updated_at",
	}).AddRow(
		id, ownerID, metaWABAID, "Acme Messaging", "BRL",
		sql.NullString{String: "America/Sao_Paulo", Valid: true},
		sql.NullString{},
		sql.NullString{String: "APPROVED", Valid: true},
		sql.NullString{String: "VERIFIED", Valid: true},
		"OWNED", true,
		sql.NullTime{Time: now, Valid: true},
		sql.NullTime{Time: now, Valid: true},
	)
}

func TestWABAFindByMetaWABAID(t *testing.T) {
	mockPool, repo := newWABARepo(t)
	id := uuid.New()
	ownerID := uuid.New()

	mockPool.ExpectQuery(regexp.QuoteMeta(`SELECT `+wabaColumns+` FROM wabas WHERE meta_waba_id = $1`)).
		WithArgs("waba-1").
		WillReturnRows(wabaRow(id, ownerID, "waba-1"))

	w, err := repo.FindByMetaWABAID(context.Background(), "waba-1")
	require.NoError(t, err)
	require.NotNil(t, w)
	assert.Equal(t, id, w.ID)
	assert.Equal(t, ownerID, w.BusinessManagerID)
	assert.Equal(t, domain.OwnershipOwned, w.OwnershipType)
	assert.Equal(t, domain.WABAReviewApproved, w.AccountReviewStatus)
	require.NoError(t, mockPool.ExpectationsWereMet())
}

func TestWABAFindByMetaWABAIDMissReturnsNilNil(t *testing.T) {
	mockPool, repo := newWABARepo(t)

	mockPool.ExpectQuery(regexp.QuoteMeta(`SELECT `+wabaColumns+` FROM wabas WHERE meta_waba_id = $1`)).
		WithArgs("missing").
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "business_manager_id", "meta_waba_id", "name", "currency", "timezone_id",
			"message_template_namespace", "account_review_status", "business_verification_status",
			"ownership_type", "is_active", "created_at", "updated_at",
		}))

	w, err := repo.FindByMetaWABAID(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, w)
	require.NoError(t, mockPool.ExpectationsWereMet())
}

func TestWABACreate(t *testing.T) {
	mockPool, repo := newWABARepo(t)

	w, err := domain.NewWABA(uuid.New(), "waba-1", domain.WABAAttributes{
		Name: "Acme Messaging", Currency: "BRL",
	}, domain.OwnershipOwned)
	require.NoError(t, err)

	mockPool.ExpectExec(regexp.QuoteMeta(`INSERT INTO wabas`)).
		WithArgs(w.ID, w.BusinessManagerID, w.MetaWABAID, w.Name, w.Currency, w.TimezoneID,
			w.MessageTemplateNamespace, nullString(string(w.AccountReviewStatus)),
			nullString(string(w.BusinessVerificationStatus)), string(w.OwnershipType),
			w.IsActive, w.CreatedAt, w.UpdatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, repo.Create(context.Background(), w))
	require.NoError(t, mockPool.ExpectationsWereMet())
}

func TestWABAListByBusinessManagerID(t *testing.T) {
	mockPool, repo := newWABARepo(t)
	ownerID := uuid.New()

	mockPool.ExpectQuery(regexp.QuoteMeta(`SELECT `+wabaColumns+` FROM wabas WHERE business_manager_id = $1 ORDER BY created_at ASC`)).
		WithArgs(ownerID).
		WillReturnRows(wabaRow(uuid.New(), ownerID, "waba-1"))

	wabas, err := repo.ListByBusinessManagerID(context.Background(), ownerID)
	require.NoError(t, err)
	require.Len(t, wabas, 1)
	assert.Equal(t, "waba-1", wabas[0].MetaWABAID)
	require.NoError(t, mockPool.ExpectationsWereMet())
}
