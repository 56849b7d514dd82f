package domain

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// PhoneNumber is a messaging endpoint registered under a WABA.
// MetaPhoneNumberID and WABAID are immutable once set. PhoneNumber holds the
// canonical separator-free form of the display number and is unique.
type PhoneNumber struct {
	ID                        uuid.UUID
	WABAID                    uuid.UUID
	MetaPhoneNumberID         string
	PhoneNumber               PhoneNumberE164
	DisplayPhoneNumber        string
	VerifiedName              string
	NameStatus                PhoneNameStatus        // "" when not reported
	QualityRating             QualityRating          // "" when not reported
	Status                    PhoneNumberStatus      // defaults to CONNECTED
	PlatformType              PlatformType           // "" when not reported
	MessagingLimitTier        MessagingLimitTier     // "" when not reported
	ThroughputLevel           ThroughputLevel        // "" when not reported
	CodeVerificationStatus    CodeVerificationStatus // "" when not reported
	IsOfficialBusinessAccount bool
	Certificate               sql.NullString
	IsActive                  bool
	LastStatusCheck           sql.NullTime
	CreatedAt                 time.Time
	UpdatedAt                 time.Time
}

// PhoneNumberAttributes carries the mutable fields reported by the remote
// platform for a phone number.
type PhoneNumberAttributes struct {
	PhoneNumber               PhoneNumberE164
	DisplayPhoneNumber        string
	VerifiedName              string
	NameStatus                PhoneNameStatus
	QualityRating             QualityRating
	Status                    PhoneNumberStatus
	PlatformType              PlatformType
	MessagingLimitTier        MessagingLimitTier
	ThroughputLevel           ThroughputLevel
	CodeVerificationStatus    CodeVerificationStatus
	IsOfficialBusinessAccount bool
	Certificate               string
}

// NewPhoneNumber creates a PhoneNumber on first sighting from the remote
// platform. An unreported status defaults to CONNECTED.
func NewPhoneNumber(wabaID uuid.UUID, metaPhoneNumberID string, attrs PhoneNumberAttributes) (*PhoneNumber, error) {
	if wabaID == uuid.Nil {
		return nil, fmt.Errorf("%w: waba id is required", ErrInvalidEntity)
	}
	if strings.TrimSpace(metaPhoneNumberID) == "" {
		return nil, fmt.Errorf("%w: meta phone number id is required", ErrInvalidEntity)
	}
	if attrs.PhoneNumber.IsZero() {
		return nil, fmt.Errorf("%w: phone number is required", ErrInvalidEntity)
	}

	now := time.Now().UTC()
	pn := &PhoneNumber{
		ID:                uuid.New(),
		WABAID:            wabaID,
		MetaPhoneNumberID: metaPhoneNumberID,
		IsActive:          true,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	pn.applyAttributes(attrs, now)
	return pn, nil
}

// ReconstitutePhoneNumber rehydrates a PhoneNumber from storage, trusting
// its input.
func ReconstitutePhoneNumber(
	id uuid.UUID,
	wabaID uuid.UUID,
	metaPhoneNumberID string,
	phoneNumber PhoneNumberE164,
	displayPhoneNumber string,
	verifiedName string,
	nameStatus PhoneNameStatus,
	qualityRating QualityRating,
	status PhoneNumberStatus,
	platformType PlatformType,
	messagingLimitTier MessagingLimitTier,
	throughputLevel ThroughputLevel,
	codeVerificationStatus CodeVerificationStatus,
	isOfficialBusinessAccount bool,
	certificate sql.NullString,
	isActive bool,
	lastStatusCheck sql.NullTime,
	createdAt time.Time,
	updatedAt time.Time,
) *PhoneNumber {
	return &PhoneNumber{
		ID:                        id,
		WABAID:                    wabaID,
		MetaPhoneNumberID:         metaPhoneNumberID,
		PhoneNumber:               phoneNumber,
		DisplayPhoneNumber:        displayPhoneNumber,
		VerifiedName:              verifiedName,
		NameStatus:                nameStatus,
		QualityRating:             qualityRating,
		Status:                    status,
		PlatformType:              platformType,
		MessagingLimitTier:        messagingLimitTier,
		ThroughputLevel:           throughputLevel,
		CodeVerificationStatus:    codeVerificationStatus,
		IsOfficialBusinessAccount: isOfficialBusinessAccount,
		Certificate:               certificate,
		IsActive:                  isActive,
		LastStatusCheck:           lastStatusCheck,
		CreatedAt:                 createdAt,
		UpdatedAt:                 updatedAt,
	}
}

// UpdateFromRemote applies the latest remote attributes and stamps the
// status-check timestamp. Remote identifier and owning WABA never change.
func (pn *PhoneNumber) UpdateFromRemote(attrs PhoneNumberAttributes) {
	pn.applyAttributes(attrs, time.Now().UTC())
}

func (pn *PhoneNumber) applyAttributes(attrs PhoneNumberAttributes, now time.Time) {
	pn.PhoneNumber = attrs.PhoneNumber
	pn.DisplayPhoneNumber = attrs.DisplayPhoneNumber
	pn.VerifiedName = attrs.VerifiedName
	pn.NameStatus = attrs.NameStatus
	pn.QualityRating = attrs.QualityRating
	if attrs.Status == "" {
		pn.Status = PhoneConnected
	} else {
		pn.Status = attrs.Status
	}
	pn.PlatformType = attrs.PlatformType
	pn.MessagingLimitTier = attrs.MessagingLimitTier
	pn.ThroughputLevel = attrs.ThroughputLevel
	pn.CodeVerificationStatus = attrs.CodeVerificationStatus
	pn.IsOfficialBusinessAccount = attrs.IsOfficialBusinessAccount
	pn.Certificate = sql.NullString{String: attrs.Certificate, Valid: attrs.Certificate != ""}
	pn.LastStatusCheck = sql.NullTime{Time: now, Valid: true}
	pn.UpdatedAt = now
}
