package domain

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// WABA is a WhatsApp Business Account belonging to a BusinessManager.
// MetaWABAID and BusinessManagerID are immutable once set; reconciliation
// only touches the mutable fields and the ownership type.
type WABA struct {
	ID                         uuid.UUID
	BusinessManagerID          uuid.UUID
	MetaWABAID                 string
	Name                       string
	Currency                   string
	TimezoneID                 sql.NullString
	MessageTemplateNamespace   sql.NullString
	AccountReviewStatus        WABAReviewStatus       // "" when not reported
	BusinessVerificationStatus WABAVerificationStatus // "" when not reported
	OwnershipType              OwnershipType
	IsActive                   bool
	CreatedAt                  time.Time
	UpdatedAt                  time.Time
}

// WABAAttributes carries the mutable fields reported by the remote platform.
type WABAAttributes struct {
	Name                       string
	Currency                   string
	TimezoneID                 string
	MessageTemplateNamespace   string
	AccountReviewStatus        WABAReviewStatus
	BusinessVerificationStatus WABAVerificationStatus
}

// NewWABA creates a WABA on first sighting from the remote platform.
func NewWABA(businessManagerID uuid.UUID, metaWABAID string, attrs WABAAttributes, ownership OwnershipType) (*WABA, error) {
	if businessManagerID == uuid.Nil {
		return nil, fmt.Errorf("%w: business manager id is required", ErrInvalidEntity)
	}
	if strings.TrimSpace(metaWABAID) == "" {
		return nil, fmt.Errorf("%w: meta waba id is required", ErrInvalidEntity)
	}
	if strings.TrimSpace(attrs.Name) == "" {
		return nil, fmt.Errorf("%w: waba name is required", ErrInvalidEntity)
	}
	if _, err := ParseOwnershipType(string(ownership)); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	w := &WABA{
		ID:                uuid.New(),
		BusinessManagerID: businessManagerID,
		MetaWABAID:        metaWABAID,
		OwnershipType:     ownership,
		IsActive:          true,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	w.applyAttributes(attrs, now)
	return w, nil
}

// ReconstituteWABA rehydrates a WABA from storage, trusting its input.
func ReconstituteWABA(
	id uuid.UUID,
	businessManagerID uuid.UUID,
	metaWABAID string,
	name string,
	currency string,
	timezoneID sql.NullString,
	messageTemplateNamespace sql.NullString,
	accountReviewStatus WABAReviewStatus,
	businessVerificationStatus WABAVerificationStatus,
	ownershipType OwnershipType,
	isActive bool,
	createdAt time.Time,
	updatedAt time.Time,
) *WABA {
	return &WABA{
		ID:                         id,
		BusinessManagerID:          businessManagerID,
		MetaWABAID:                 metaWABAID,
		Name:                       name,
		Currency:                   currency,
		TimezoneID:                 timezoneID,
		MessageTemplateNamespace:   messageTemplateNamespace,
		AccountReviewStatus:        accountReviewStatus,
		BusinessVerificationStatus: businessVerificationStatus,
		OwnershipType:              ownershipType,
		IsActive:                   isActive,
		CreatedAt:                  createdAt,
		UpdatedAt:                  updatedAt,
	}
}

// UpdateFromRemote applies the latest remote attributes and ownership type.
// The remote identifier and the owner relationship are never touched.
func (w *WABA) UpdateFromRemote(attrs WABAAttributes, ownership OwnershipType) {
	w.OwnershipType = ownership
	w.applyAttributes(attrs, time.Now().UTC())
}

func (w *WABA) applyAttributes(attrs WABAAttributes, now time.Time) {
	w.Name = attrs.Name
	w.Currency = attrs.Currency
	w.TimezoneID = sql.NullString{String: attrs.TimezoneID, Valid: attrs.TimezoneID != ""}
	w.MessageTemplateNamespace = sql.NullString{String: attrs.MessageTemplateNamespace, Valid: attrs.MessageTemplateNamespace != ""}
	w.AccountReviewStatus = attrs.AccountReviewStatus
	w.BusinessVerificationStatus = attrs.BusinessVerificationStatus
	w.UpdatedAt = now
}
