package metagraph

// Response shapes for the Graph API read endpoints this service consumes.
// Field names follow Meta's wire format.

// Paging is the cursor block Graph attaches to list responses. The sync
// engine currently consumes single-page responses; cursors are decoded so
// callers can detect truncation.
type Paging struct {
	Cursors *struct {
		Before string `json:"before"`
		After  string `json:"after"`
	} `json:"cursors,omitempty"`
}

// Me is the system-user identity behind an access token.
type Me struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Business is a Meta Business Manager record.
type Business struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	VerificationStatus string `json:"verification_status,omitempty"`
}

type BusinessesResponse struct {
	Data   []Business `json:"data"`
	Paging *Paging    `json:"paging,omitempty"`
}

// WABA is a WhatsApp Business Account as reported by Graph.
type WABA struct {
	ID                         string `json:"id"`
	Name                       string `json:"name"`
	Currency                   string `json:"currency"`
	TimezoneID                 string `json:"timezone_id"`
	MessageTemplateNamespace   string `json:"message_template_namespace"`
	AccountReviewStatus        string `json:"account_review_status,omitempty"`
	BusinessVerificationStatus string `json:"business_verification_status,omitempty"`
}

type WABAsResponse struct {
	Data   []WABA  `json:"data"`
	Paging *Paging `json:"paging,omitempty"`
}

// PhoneNumber is a WABA phone number as reported by Graph.
type PhoneNumber struct {
	ID                     string `json:"id"`
	VerifiedName           string `json:"verified_name"`
	DisplayPhoneNumber     string `json:"display_phone_number"`
	QualityRating          string `json:"quality_rating"`
	NameStatus             string `json:"name_status,omitempty"`
	Status                 string `json:"status,omitempty"`
	PlatformType           string `json:"platform_type,omitempty"`
	MessagingLimitTier     string `json:"messaging_limit_tier,omitempty"`
	IsOfficialBusiness     bool   `json:"is_official_business_account,omitempty"`
	CodeVerificationStatus string `json:"code_verification_status,omitempty"`
	Certificate            string `json:"certificate,omitempty"`
	Throughput             *struct {
		Level string `json:"level"`
	} `json:"throughput,omitempty"`
}

type PhoneNumbersResponse struct {
	Data   []PhoneNumber `json:"data"`
	Paging *Paging       `json:"paging,omitempty"`
}

// DebugTokenResponse is the envelope of the debug_token endpoint.
type DebugTokenResponse struct {
	Data struct {
		AppID     string   `json:"app_id"`
		Type      string   `json:"type"`
		IsValid   bool     `json:"is_valid"`
		ExpiresAt int64    `json:"expires_at"`
		Scopes    []string `json:"scopes"`
	} `json:"data"`
}

type errorEnvelope struct {
	Error struct {
		Message   string `json:"message"`
		Type      string `json:"type"`
		Code      int    `json:"code"`
		Subcode   int    `json:"error_subcode,omitempty"`
		FBTraceID string `json:"fbtrace_id"`
	} `json:"error"`
}
