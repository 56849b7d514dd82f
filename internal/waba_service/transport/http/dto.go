package http

import (
	"database/sql"
	"time"

	"github.com/hiperzap/waba-platform/internal/waba_service/domain"
)

// OnboardBusinessManagerRequestDTO carries the single field onboarding needs.
// The access token is write-only: no response DTO ever echoes it.
type OnboardBusinessManagerRequestDTO struct {
	AccessToken string `json:"access_token" validate:"required,min=16"`
}

type BusinessManagerResponseDTO struct {
	ID                 string     `json:"id"`
	MetaBusinessID     *string    `json:"meta_business_id,omitempty"`
	Name               *string    `json:"name,omitempty"`
	VerificationStatus string     `json:"verification_status,omitempty"`
	LastSyncedAt       *time.Time `json:"last_synced_at,omitempty"`
	IsActive           bool       `json:"is_active"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

type WABAResponseDTO struct {
	ID                         string    `json:"id"`
	BusinessManagerID          string    `json:"business_manager_id"`
	MetaWABAID                 string    `json:"meta_waba_id"`
	Name                       string    `json:"name"`
	Currency                   string    `json:"currency"`
	TimezoneID                 *string   `json:"timezone_id,omitempty"`
	MessageTemplateNamespace   *string   `json:"message_template_namespace,omitempty"`
	AccountReviewStatus        string    `json:"account_review_status,omitempty"`
	BusinessVerificationStatus string    `json:"business_verification_status,omitempty"`
	OwnershipType              string    `json:"ownership_type"`
	IsActive                   bool      `json:"is_active"`
	CreatedAt                  time.Time `json:"created_at"`
	UpdatedAt                  time.Time `json:"updated_at"`
}

type PhoneNumberResponseDTO struct {
	ID                        string     `json:"id"`
	WABAID                    string     `json:"waba_id"`
	MetaPhoneNumberID         string     `json:"meta_phone_number_id"`
	PhoneNumber               string     `json:"phone_number"`
	DisplayPhoneNumber        string     `json:"display_phone_number,omitempty"`
	VerifiedName              string     `json:"verified_name,omitempty"`
	NameStatus                string     `json:"name_status,omitempty"`
	QualityRating             string     `json:"quality_rating,omitempty"`
	Status                    string     `json:"status"`
	PlatformType              string     `json:"platform_type,omitempty"`
	MessagingLimitTier        string     `json:"messaging_limit_tier,omitempty"`
	ThroughputLevel           string     `json:"throughput_level,omitempty"`
	CodeVerificationStatus    string     `json:"code_verification_status,omitempty"`
	IsOfficialBusinessAccount bool       `json:"is_official_business_account"`
	IsActive                  bool       `json:"is_active"`
	LastStatusCheck           *time.Time `json:"last_status_check,omitempty"`
	CreatedAt                 time.Time  `json:"created_at"`
	UpdatedAt                 time.Time  `json:"updated_at"`
}

func nullStringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	return &ns.String
}

func nullTimePtr(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	return &nt.Time
}

func toBusinessManagerDTO(bm *domain.BusinessManager) BusinessManagerResponseDTO {
	return BusinessManagerResponseDTO{
		ID:                 bm.ID.String(),
		MetaBusinessID:     nullStringPtr(bm.MetaBusinessID),
		Name:               nullStringPtr(bm.Name),
		VerificationStatus: string(bm.VerificationStatus),
		LastSyncedAt:       nullTimePtr(bm.LastSyncedAt),
		IsActive:           bm.IsActive,
		CreatedAt:          bm.CreatedAt,
		UpdatedAt:          bm.UpdatedAt,
	}
}

func toWABADTO(w *domain.WABA) WABAResponseDTO {
	return WABAResponseDTO{
		ID:                         w.ID.String(),
		BusinessManagerID:          w.BusinessManagerID.String(),
		MetaWABAID:                 w.MetaWABAID,
		Name:                       w.Name,
		Currency:                   w.Currency,
		TimezoneID:                 nullStringPtr(w.TimezoneID),
		MessageTemplateNamespace:   nullStringPtr(w.MessageTemplateNamespace),
		AccountReviewStatus:        string(w.AccountReviewStatus),
		BusinessVerificationStatus: string(w.BusinessVerificationStatus),
		OwnershipType:              string(w.OwnershipType),
		IsActive:                   w.IsActive,
		CreatedAt:                  w.CreatedAt,
		UpdatedAt:                  w.UpdatedAt,
	}
}

func toPhoneNumberDTO(pn *domain.PhoneNumber) PhoneNumberResponseDTO {
	return PhoneNumberResponseDTO{
		ID:                        pn.ID.String(),
		WABAID:                    pn.WABAID.String(),
		MetaPhoneNumberID:         pn.MetaPhoneNumberID,
		PhoneNumber:               pn.PhoneNumber.String(),
		DisplayPhoneNumber:        pn.DisplayPhoneNumber,
		VerifiedName:              pn.VerifiedName,
		NameStatus:                string(pn.NameStatus),
		QualityRating:             string(pn.QualityRating),
		Status:                    string(pn.Status),
		PlatformType:              string(pn.PlatformType),
		MessagingLimitTier:        string(pn.MessagingLimitTier),
		ThroughputLevel:           string(pn.ThroughputLevel),
		CodeVerificationStatus:    string(pn.CodeVerificationStatus),
		IsOfficialBusinessAccount: pn.IsOfficialBusinessAccount,
		IsActive:                  pn.IsActive,
		LastStatusCheck:           nullTimePtr(pn.LastStatusCheck),
		CreatedAt:                 pn.CreatedAt,
		UpdatedAt:                 pn.UpdatedAt,
	}
}
