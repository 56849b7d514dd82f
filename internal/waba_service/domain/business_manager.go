package domain

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// BusinessManager is the local record of a business entity holding a
// long-lived Meta access token. Rows are created by onboarding with only the
// token populated; the identity fields (MetaBusinessID, Name,
// VerificationStatus) are filled in by the first successful sync and are
// mutated exclusively by the sync engine afterwards. Rows are never deleted
// by the sync core.
type BusinessManager struct {
	ID                 uuid.UUID
	MetaBusinessID     sql.NullString
	Name               sql.NullString
	VerificationStatus BusinessVerificationStatus // "" until first sync
	AccessToken        string
	LastSyncedAt       sql.NullTime
	IsActive           bool
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// NewBusinessManager creates a fresh BusinessManager for onboarding.
// Only the access token is populated; identity fields stay empty until the
// first reconciliation pass.
func NewBusinessManager(accessToken string) (*BusinessManager, error) {
	if strings.TrimSpace(accessToken) == "" {
		return nil, fmt.Errorf("%w: access token is required", ErrInvalidEntity)
	}

	now := time.Now().UTC()
	return &BusinessManager{
		ID:          uuid.New(),
		AccessToken: accessToken,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// ReconstituteBusinessManager rehydrates a BusinessManager from storage.
// It trusts its input; validation happened when the row was written.
func ReconstituteBusinessManager(
	id uuid.UUID,
	metaBusinessID sql.NullString,
	name sql.NullString,
	verificationStatus BusinessVerificationStatus,
	accessToken string,
	lastSyncedAt sql.NullTime,
	isActive bool,
	createdAt time.Time,
	updatedAt time.Time,
) *BusinessManager {
	return &BusinessManager{
		ID:                 id,
		MetaBusinessID:     metaBusinessID,
		Name:               name,
		VerificationStatus: verificationStatus,
		AccessToken:        accessToken,
		LastSyncedAt:       lastSyncedAt,
		IsActive:           isActive,
		CreatedAt:          createdAt,
		UpdatedAt:          updatedAt,
	}
}

// HasAccessToken reports whether the manager can be synced at all.
func (bm *BusinessManager) HasAccessToken() bool {
	return strings.TrimSpace(bm.AccessToken) != ""
}

// ApplySyncIdentity stamps the identity fetched from the remote platform and
// the synchronization timestamp. The engine calls this before group
// reconciliation so the row always carries the last known remote identity.
func (bm *BusinessManager) ApplySyncIdentity(metaBusinessID, name string, status BusinessVerificationStatus, syncedAt time.Time) {
	bm.MetaBusinessID = sql.NullString{String: metaBusinessID, Valid: metaBusinessID != ""}
	bm.Name = sql.NullString{String: name, Valid: name != ""}
	bm.VerificationStatus = status
	bm.LastSyncedAt = sql.NullTime{Time: syncedAt, Valid: true}
	bm.UpdatedAt = syncedAt
}
