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

type PgPhoneNumberRepository struct {
	db     database.Querier
	logger *slog.Logger
}

func NewPgPhoneNumberRepository(db database.Querier, logger *slog.Logger) *PgPhoneNumberRepository {
	return &PgPhoneNumberRepository{db: db, logger: logger.With("component", "phone_number_repository_pg")}
}

const phoneNumberColumns = `id, waba_id, meta_phone_number_id, phone_number, display_phone_number, verified_name, name_status, quality_rating, status, platform_type, messaging_limit_tier, throughput_level, code_verification_status, is_official_business_account, certificate, is_active, last_status_check, created_at, updated_at`

func scanPhoneNumber(row pgx.Row) (*domain.PhoneNumber, error) {
	var (
		id                        uuid.UUID
		wabaID                    uuid.UUID
		metaPhoneNumberID         string
		phoneNumber               string
		displayPhoneNumber        sql.NullString
		verifiedName              sql.NullString
		nameStatus                sql.NullString
		qualityRating             sql.NullString
		status                    string
		platformType              sql.NullString
		messagingLimitTier        sql.NullString
		throughputLevel           sql.NullString
		codeVerificationStatus    sql.NullString
		isOfficialBusinessAccount bool
		certificate               sql.NullString
		isActive                  bool
		lastStatusCheck           sql.NullTime
		createdAt                 sql.NullTime
		updatedAt                 sql.NullTime
	)
	if err := row.Scan(&id, &wabaID, &metaPhoneNumberID, &phoneNumber, &displayPhoneNumber,
		&verifiedName, &nameStatus, &qualityRating, &status, &platformType, &messagingLimitTier,
		&throughputLevel, &codeVerificationStatus, &isOfficialBusinessAccount, &certificate,
		&isActive, &lastStatusCheck, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	return domain.ReconstitutePhoneNumber(
		id, wabaID, metaPhoneNumberID,
		domain.PhoneNumberE164Unchecked(phoneNumber),
		displayPhoneNumber.String,
		verifiedName.String,
		domain.PhoneNameStatusUnchecked(nameStatus.String),
		domain.QualityRatingUnchecked(qualityRating.String),
		domain.PhoneNumberStatusUnchecked(status),
		domain.PlatformTypeUnchecked(platformType.String),
		domain.MessagingLimitTierUnchecked(messagingLimitTier.String),
		domain.ThroughputLevelUnchecked(throughputLevel.String),
		domain.CodeVerificationStatusUnchecked(codeVerificationStatus.String),
		isOfficialBusinessAccount, certificate, isActive, lastStatusCheck,
		createdAt.Time, updatedAt.Time,
	), nil
}

func (r *PgPhoneNumberRepository) Create(ctx context.Context, pn *domain.PhoneNumber) error {
	query := `
		INSERT INTO phone_numbers (id, waba_id, meta_phone_number_id, phone_number, display_phone_number, verified_name, name_status, quality_rating, status, platform_type, messaging_limit_tier, throughput_level, code_verification_status, is_official_business_account, certificate, is_active, last_status_check, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
	`
	_, err := r.db.Exec(ctx, query,
		pn.ID, pn.WABAID, pn.MetaPhoneNumberID, pn.PhoneNumber.String(),
		nullString(pn.DisplayPhoneNumber), nullString(pn.VerifiedName),
		nullString(string(pn.NameStatus)), nullString(string(pn.QualityRating)), string(pn.Status),
		nullString(string(pn.PlatformType)), nullString(string(pn.MessagingLimitTier)),
		nullString(string(pn.ThroughputLevel)), nullString(string(pn.CodeVerificationStatus)),
		pn.IsOfficialBusinessAccount, pn.Certificate, pn.IsActive, pn.LastStatusCheck,
		pn.CreatedAt, pn.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			r.logger.WarnContext(ctx, "Duplicate phone number", "meta_phone_number_id", pn.MetaPhoneNumberID, "error", err)
			return domain.ErrDuplicateEntry
		}
		r.logger.ErrorContext(ctx, "Error creating phone number", "meta_phone_number_id", pn.MetaPhoneNumberID, "error", err)
		return err
	}
	return nil
}

// FindByMetaPhoneNumberID returns (nil, nil) when no row carries the remote id.
func (r *PgPhoneNumberRepository) FindByMetaPhoneNumberID(ctx context.Context, metaPhoneNumberID string) (*domain.PhoneNumber, error) {
	query := `SELECT ` + phoneNumberColumns + ` FROM phone_numbers WHERE meta_phone_number_id = $1`
	pn, err := scanPhoneNumber(r.db.QueryRow(ctx, query, metaPhoneNumberID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.ErrorContext(ctx, "Error finding phone number by remote id", "meta_phone_number_id", metaPhoneNumberID, "error", err)
		return nil, err
	}
	return pn, nil
}

func (r *PgPhoneNumberRepository) ListByWABAID(ctx context.Context, wabaID uuid.UUID) ([]*domain.PhoneNumber, error) {
	query := `SELECT ` + phoneNumberColumns + ` FROM phone_numbers WHERE waba_id = $1 ORDER BY created_at ASC`
	rows, err := r.db.Query(ctx, query, wabaID)
	if err != nil {
		r.logger.ErrorContext(ctx, "Error listing phone numbers", "waba_id", wabaID, "error", err)
		return nil, err
	}
	defer rows.Close()

	var numbers []*domain.PhoneNumber
	for rows.Next() {
		pn, err := scanPhoneNumber(rows)
		if err != nil {
			r.logger.ErrorContext(ctx, "Error scanning phone number row", "error", err)
			return nil, err
		}
		numbers = append(numbers, pn)
	}
	if err := rows.Err(); err != nil {
		r.logger.ErrorContext(ctx, "Error iterating phone number rows", "error", err)
		return nil, err
	}
	return numbers, nil
}

// Update writes the mutable fields; the remote id and the owning WABA are
// deliberately absent from the SET list.
func (r *PgPhoneNumberRepository) Update(ctx context.Context, pn *domain.PhoneNumber) error {
	query := `
		UPDATE phone_numbers
		SET phone_number = $1, display_phone_number = $2, verified_name = $3, name_status = $4,
		    quality_rating = $5, status = $6, platform_type = $7, messaging_limit_tier = $8,
		    throughput_level = $9, code_verification_status = $10, is_official_business_account = $11,
		    certificate = $12, is_active = $13, last_status_check = $14, updated_at = $15
		WHERE id = $16
	`
	tag, err := r.db.Exec(ctx, query,
		pn.PhoneNumber.String(), nullString(pn.DisplayPhoneNumber), nullString(pn.VerifiedName),
		nullString(string(pn.NameStatus)), nullString(string(pn.QualityRating)), string(pn.Status),
		nullString(string(pn.PlatformType)), nullString(string(pn.MessagingLimitTier)),
		nullString(string(pn.ThroughputLevel)), nullString(string(pn.CodeVerificationStatus)),
		pn.IsOfficialBusinessAccount, pn.Certificate, pn.IsActive, pn.LastStatusCheck,
		pn.UpdatedAt, pn.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateEntry
		}
		r.logger.ErrorContext(ctx, "Error updating phone number", "phone_number_id", pn.ID, "error", err)
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
