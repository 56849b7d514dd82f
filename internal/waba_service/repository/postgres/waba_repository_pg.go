package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/hiperzap/waba-platform/internal/platform/database"
	"github.com/hiperzap/waba-platform/internal/waba_service/domain"
)

type PgWABARepository struct {
	db     database.Querier
	logger *slog.Logger
}

func NewPgWABARepository(db database.Querier, logger *slog.Logger) *PgWABARepository {
	return &PgWABARepository{db: db, logger: logger.With("component", "waba_repository_pg")}
}

const wabaColumns = `id, business_manager_id, meta_waba_id, name, currency, timezone_id, message_template_namespace, account_review_status, business_verification_status, ownership_type, is_active, created_at, updated_at`

func scanWABA(row pgx.Row) (*domain.WABA, error) {
	var (
		id                         uuid.UUID
		businessManagerID          uuid.UUID
		metaWABAID                 string
		name                       string
		currency                   string
		timezoneID                 sql.NullString
		messageTemplateNamespace   sql.NullString
		accountReviewStatus        sql.NullString
		businessVerificationStatus sql.NullString
		ownershipType              string
		isActive                   bool
		createdAt                  sql.NullTime
		updatedAt                  sql.NullTime
	)
	if err := row.Scan(&id, &businessManagerID, &metaWABAID, &name, &currency, &timezoneID,
		&messageTemplateNamespace, &accountReviewStatus, &businessVerificationStatus,
		&ownershipType, &isActive, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	return domain.ReconstituteWABA(
		id, businessManagerID, metaWABAID, name, currency, timezoneID, messageTemplateNamespace,
		domain.WABAReviewStatusUnchecked(accountReviewStatus.String),
		domain.WABAVerificationStatusUnchecked(businessVerificationStatus.String),
		domain.OwnershipTypeUnchecked(ownershipType),
		isActive, createdAt.Time, updatedAt.Time,
	), nil
}

func (r *PgWABARepository) Create(ctx context.Context, w *domain.WABA) error {
	query := `
		INSERT INTO wabas (id, business_manager_id, meta_waba_id, name, currency, timezone_id, message_template_namespace, account_review_status, business_verification_status, ownership_type, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	_, err := r.db.Exec(ctx, query,
		w.ID, w.BusinessManagerID, w.MetaWABAID, w.Name, w.Currency, w.TimezoneID,
		w.MessageTemplateNamespace, nullString(string(w.AccountReviewStatus)),
		nullString(string(w.BusinessVerificationStatus)), string(w.OwnershipType),
		w.IsActive, w.CreatedAt, w.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			r.logger.WarnContext(ctx, "Duplicate WABA remote id", "meta_waba_id", w.MetaWABAID, "error", err)
			return domain.ErrDuplicateEntry
		}
		r.logger.ErrorContext(ctx, "Error creating WABA", "meta_waba_id", w.MetaWABAID, "error", err)
		return err
	}
	return nil
}

func (r *PgWABARepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.WABA, error) {
	query := `SELECT ` + wabaColumns + ` FROM wabas WHERE id = $1`
	w, err := scanWABA(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.ErrorContext(ctx, "Error getting WABA by ID", "waba_id", id, "error", err)
		return nil, err
	}
	return w, nil
}

// FindByMetaWABAID returns (nil, nil) when no row carries the remote id.
func (r *PgWABARepository) FindByMetaWABAID(ctx context.Context, metaWABAID string) (*domain.WABA, error) {
	query := `SELECT ` + wabaColumns + ` FROM wabas WHERE meta_waba_id = $1`
	w, err := scanWABA(r.db.QueryRow(ctx, query, metaWABAID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.ErrorContext(ctx, "Error finding WABA by remote id", "meta_waba_id", metaWABAID, "error", err)
		return nil, err
	}
	return w, nil
}

func (r *PgWABARepository) ListByBusinessManagerID(ctx context.Context, businessManagerID uuid.UUID) ([]*domain.WABA, error) {
	query := `SELECT ` + wabaColumns + ` FROM wabas WHERE business_manager_id = $1 ORDER BY created_at ASC`
	rows, err := r.db.Query(ctx, query, businessManagerID)
	if err != nil {
		r.logger.ErrorContext(ctx, "Error listing WABAs", "business_manager_id", businessManagerID, "error", err)
		return nil, err
	}
	defer rows.Close()

	var wabas []*domain.WABA
	for rows.Next() {
		w, err := scanWABA(rows)
		if err != nil {
			r.logger.ErrorContext(ctx, "Error scanning WABA row", "error", err)
			return nil, err
		}
		wabas = append(wabas, w)
	}
	if err := rows.Err(); err != nil {
		r.logger.ErrorContext(ctx, "Error iterating WABA rows", "error", err)
		return nil, err
	}
	return wabas, nil
}

// Update writes the mutable fields; the remote id and the owner relationship
// are deliberately absent from the SET list.
func (r *PgWABARepository) Update(ctx context.Context, w *domain.WABA) error {
	query := `
		UPDATE wabas
		SET name = $1, currency = $2, timezone_id = $3, message_template_namespace = $4,
		    account_review_status = $5, business_verification_status = $6, ownership_type = $7,
		    is_active = $8, updated_at = $9
		WHERE id = $10
	`
	tag, err := r.db.Exec(ctx, query,
		w.Name, w.Currency, w.TimezoneID, w.MessageTemplateNamespace,
		nullString(string(w.AccountReviewStatus)), nullString(string(w.BusinessVerificationStatus)),
		string(w.OwnershipType), w.IsActive, w.UpdatedAt, w.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateEntry
		}
		r.logger.ErrorContext(ctx, "Error updating WABA", "waba_id", w.ID, "error", err)
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
