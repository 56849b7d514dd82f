package domain

import "fmt"

// Enumerations mirror the values the Meta Graph API reports. Each has a
// validating Parse constructor and an unchecked constructor reserved for the
// storage-rehydration path. The empty string represents "not reported" and
// maps to SQL NULL in the repositories.

func parseEnum[T ~string](kind, value string, allowed ...T) (T, error) {
	for _, a := range allowed {
		if string(a) == value {
			return a, nil
		}
	}
	var zero T
	return zero, fmt.Errorf("%w: %q is not a valid %s", ErrInvalidEnumValue, value, kind)
}

// BusinessVerificationStatus is the verification state of a Business Manager.
type BusinessVerificationStatus string

const (
	BusinessVerified   BusinessVerificationStatus = "VERIFIED"
	BusinessUnverified BusinessVerificationStatus = "UNVERIFIED"
	BusinessPending    BusinessVerificationStatus = "PENDING"
	BusinessRejected   BusinessVerificationStatus = "REJECTED"
)

func ParseBusinessVerificationStatus(s string) (BusinessVerificationStatus, error) {
	return parseEnum("business verification status", s,
		BusinessVerified, BusinessUnverified, BusinessPending, BusinessRejected)
}

func BusinessVerificationStatusUnchecked(s string) BusinessVerificationStatus {
	return BusinessVerificationStatus(s)
}

// OwnershipType records under which relationship a WABA was discovered.
type OwnershipType string

const (
	OwnershipOwned  OwnershipType = "OWNED"
	OwnershipClient OwnershipType = "CLIENT"
	OwnershipShared OwnershipType = "SHARED"
)

func ParseOwnershipType(s string) (OwnershipType, error) {
	return parseEnum("ownership type", s, OwnershipOwned, OwnershipClient, OwnershipShared)
}

func OwnershipTypeUnchecked(s string) OwnershipType { return OwnershipType(s) }

// WABAReviewStatus is the account review state of a WABA.
type WABAReviewStatus string

const (
	WABAReviewApproved   WABAReviewStatus = "APPROVED"
	WABAReviewPending    WABAReviewStatus = "PENDING"
	WABAReviewRejected   WABAReviewStatus = "REJECTED"
	WABAReviewRestricted WABAReviewStatus = "RESTRICTED"
)

func ParseWABAReviewStatus(s string) (WABAReviewStatus, error) {
	return parseEnum("waba review status", s,
		WABAReviewApproved, WABAReviewPending, WABAReviewRejected, WABAReviewRestricted)
}

func WABAReviewStatusUnchecked(s string) WABAReviewStatus { return WABAReviewStatus(s) }

// WABAVerificationStatus is the business verification state of a WABA.
type WABAVerificationStatus string

const (
	WABAVerified      WABAVerificationStatus = "VERIFIED"
	WABAUnverified    WABAVerificationStatus = "UNVERIFIED"
	WABAVerifyPending WABAVerificationStatus = "PENDING"
	WABAVerifyFailed  WABAVerificationStatus = "FAILED"
)

func ParseWABAVerificationStatus(s string) (WABAVerificationStatus, error) {
	return parseEnum("waba verification status", s,
		WABAVerified, WABAUnverified, WABAVerifyPending, WABAVerifyFailed)
}

func WABAVerificationStatusUnchecked(s string) WABAVerificationStatus {
	return WABAVerificationStatus(s)
}

// QualityRating is Meta's quality signal for a phone number.
type QualityRating string

const (
	QualityGreen  QualityRating = "GREEN"
	QualityYellow QualityRating = "YELLOW"
	QualityRed    QualityRating = "RED"
	QualityNA     QualityRating = "NA"
)

func ParseQualityRating(s string) (QualityRating, error) {
	return parseEnum("quality rating", s, QualityGreen, QualityYellow, QualityRed, QualityNA)
}

func QualityRatingUnchecked(s string) QualityRating { return QualityRating(s) }

// PhoneNumberStatus is the connection state of a phone number.
type PhoneNumberStatus string

const (
	PhoneConnected    PhoneNumberStatus = "CONNECTED"
	PhoneDisconnected PhoneNumberStatus = "DISCONNECTED"
	PhoneMigrated     PhoneNumberStatus = "MIGRATED"
	PhonePending      PhoneNumberStatus = "PENDING"
	PhoneDeleted      PhoneNumberStatus = "DELETED"
	PhoneFlagged      PhoneNumberStatus = "FLAGGED"
	PhoneRestricted   PhoneNumberStatus = "RESTRICTED"
)

func ParsePhoneNumberStatus(s string) (PhoneNumberStatus, error) {
	return parseEnum("phone number status", s,
		PhoneConnected, PhoneDisconnected, PhoneMigrated, PhonePending,
		PhoneDeleted, PhoneFlagged, PhoneRestricted)
}

func PhoneNumberStatusUnchecked(s string) PhoneNumberStatus { return PhoneNumberStatus(s) }

// PhoneNameStatus is the review state of a phone number's verified name.
type PhoneNameStatus string

const (
	NameApproved PhoneNameStatus = "APPROVED"
	NamePending  PhoneNameStatus = "PENDING"
	NameRejected PhoneNameStatus = "REJECTED"
	NameNone     PhoneNameStatus = "NONE"
	NameExpired  PhoneNameStatus = "EXPIRED"
)

func ParsePhoneNameStatus(s string) (PhoneNameStatus, error) {
	return parseEnum("phone name status", s,
		NameApproved, NamePending, NameRejected, NameNone, NameExpired)
}

func PhoneNameStatusUnchecked(s string) PhoneNameStatus { return PhoneNameStatus(s) }

// PlatformType distinguishes Cloud API numbers from on-premise ones.
type PlatformType string

const (
	PlatformCloudAPI      PlatformType = "CLOUD_API"
	PlatformNotApplicable PlatformType = "NOT_APPLICABLE"
)

func ParsePlatformType(s string) (PlatformType, error) {
	return parseEnum("platform type", s, PlatformCloudAPI, PlatformNotApplicable)
}

func PlatformTypeUnchecked(s string) PlatformType { return PlatformType(s) }

// MessagingLimitTier is the daily messaging ceiling granted to a number.
type MessagingLimitTier string

const (
	Tier50        MessagingLimitTier = "TIER_50"
	Tier250       MessagingLimitTier = "TIER_250"
	Tier1K        MessagingLimitTier = "TIER_1K"
	Tier10K       MessagingLimitTier = "TIER_10K"
	Tier100K      MessagingLimitTier = "TIER_100K"
	TierUnlimited MessagingLimitTier = "TIER_UNLIMITED"
)

func ParseMessagingLimitTier(s string) (MessagingLimitTier, error) {
	return parseEnum("messaging limit tier", s,
		Tier50, Tier250, Tier1K, Tier10K, Tier100K, TierUnlimited)
}

func MessagingLimitTierUnchecked(s string) MessagingLimitTier { return MessagingLimitTier(s) }

// ThroughputLevel is the messages-per-second class of a number.
type ThroughputLevel string

const (
	ThroughputStandard ThroughputLevel = "STANDARD"
	ThroughputHigh     ThroughputLevel = "HIGH"
)

func ParseThroughputLevel(s string) (ThroughputLevel, error) {
	return parseEnum("throughput level", s, ThroughputStandard, ThroughputHigh)
}

func ThroughputLevelUnchecked(s string) ThroughputLevel { return ThroughputLevel(s) }

// CodeVerificationStatus is the OTP verification state of a number.
type CodeVerificationStatus string

const (
	CodeVerified    CodeVerificationStatus = "VERIFIED"
	CodeNotVerified CodeVerificationStatus = "NOT_VERIFIED"
	CodeRevoked     CodeVerificationStatus = "REVOKED"
)

func ParseCodeVerificationStatus(s string) (CodeVerificationStatus, error) {
	return parseEnum("code verification status", s, CodeVerified, CodeNotVerified, CodeRevoked)
}

func CodeVerificationStatusUnchecked(s string) CodeVerificationStatus {
	return CodeVerificationStatus(s)
}
