package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/hiperzap/waba-platform/internal/platform/database"
	"github.com/hiperzap/waba-platform/internal/waba_service/domain"
)

const uniqueViolationCode = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}

// nullString maps the domain convention "empty string means unset" to SQL NULL.
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

type PgBusinessManagerRepository struct {
	db     database.Querier
	logger *slog.Logger
}

func NewPgBusinessManagerRepository(db database.Querier, logger *slog.Logger) *PgBusinessManagerRepository {
	return &PgBusinessManagerRepository{db: db, logger: logger.With("component", "business_manager_repository_pg")}
}

const businessManagerColumns = `id, meta_business_id, name, verification_status, access_token, last_synced_at, is_active, created_at, updated_at`

// scanBusinessManager is a helper to scan a single business manager row.
func scanBusinessManager(row pgx.Row) (*domain.BusinessManager, error) {
	var (
		id                 uuid.UUID
		metaBusinessID     sql.NullString
		name               sql.NullString
		verificationStatus sql.NullString
		accessToken        string
		lastSyncedAt       sql.NullTime
		isActive           bool
		createdAt          sql.NullTime
		updatedAt          sql.NullTime
	)
	if err := row.Scan(&id, &metaBusinessID, &name, &verificationStatus, &accessToken, &lastSyncedAt, &isActive, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	return domain.ReconstituteBusinessManager(
		id, metaBusinessID, name,
		domain.BusinessVerificationStatusUnchecked(verificationStatus.String),
		accessToken, lastSyncedAt, isActive,
		createdAt.Time, updatedAt.Time,
	), nil
}

func (r *PgBusinessManagerRepository) Create(ctx context.Context, bm *domain.BusinessManager) error {
	query := `
		INSERT INTO business_managers (id, meta_business_id, name, verification_status, access_token, last_synced_at, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.db.Exec(ctx, query,
		bm.ID, bm.MetaBusinessID, bm.Name, nullString(string(bm.VerificationStatus)),
		bm.AccessToken, bm.LastSyncedAt, bm.IsActive, bm.CreatedAt, bm.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			r.logger.WarnContext(ctx, "Duplicate business manager", "business_manager_id", bm.ID, "error", err)
			return domain.ErrDuplicateEntry
		}
		r.logger.ErrorContext(ctx, "Error creating business manager", "business_manager_id", bm.ID, "error", err)
		return err
	}
	return nil
}

func (r *PgBusinessManagerRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.BusinessManager, error) {
	query := `SELECT ` + businessManagerColumns + ` FROM business_managers WHERE id = $1`
	bm, err := scanBusinessManager(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.ErrorContext(ctx, "Error getting business manager by ID", "business_manager_id", id, "error", err)
		return nil, err
	}
	return bm, nil
}

func (r *PgBusinessManagerRepository) List(ctx context.Context) ([]*domain.BusinessManager, error) {
	query := `SELECT ` + businessManagerColumns + ` FROM business_managers ORDER BY created_at ASC`
	return r.queryMany(ctx, query)
}

func (r *PgBusinessManagerRepository) ListWithAccessToken(ctx context.Context) ([]*domain.BusinessManager, error) {
	query := `SELECT ` + businessManagerColumns + ` FROM business_managers WHERE access_token <> '' ORDER BY created_at ASC`
	return r.queryMany(ctx, query)
}

func (r *PgBusinessManagerRepository) queryMany(ctx context.Context, query string, args ...any) ([]*domain.BusinessManager, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.logger.ErrorContext(ctx, "Error listing business managers", "error", err)
		return nil, err
	}
	defer rows.Close()

	var managers []*domain.BusinessManager
	for rows.Next() {
		bm, err := scanBusinessManager(rows)
		if err != nil {
			r.logger.ErrorContext(ctx, "Error scanning business manager row", "error", err)
			return nil, err
		}
		managers = append(managers, bm)
	}
	if err := rows.Err(); err != nil {
		r.logger.ErrorContext(ctx, "Error iterating business manager rows", "error", err)
		return nil, err
	}
	return managers, nil
}

func (r *PgBusinessManagerRepository) Update(ctx context.Context, bm *domain.BusinessManager) error {
	query := `
		UPDATE business_managers
		SET meta_business_id = $1, name = $2, verification_status = $3, access_token = $4,
		    last_synced_at = $5, is_active = $6, updated_at = $7
		WHERE id = $8
	`
	tag, err := r.db.Exec(ctx, query,
		bm.MetaBusinessID, bm.Name, nullString(string(bm.VerificationStatus)), bm.AccessToken,
		bm.LastSyncedAt, bm.IsActive, bm.UpdatedAt, bm.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			r.logger.WarnContext(ctx, "Duplicate meta business id on update", "business_manager_id", bm.ID, "error", err)
			return domain.ErrDuplicateEntry
		}
		r.logger.ErrorContext(ctx, "Error updating business manager", "business_manager_id", bm.ID, "error", err)
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
