// Package metagraph is a thin typed caller against the Meta Graph API read
// endpoints. It surfaces Graph failures as *APIError and performs no retries,
// backoff or rate limiting; the caller decides whether and when to retry.
package metagraph

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

const (
	DefaultBaseURL    = "https://graph.facebook.com"
	DefaultAPIVersion = "v21.0"
)

// APIError is a Graph API failure: either the decoded error envelope of a
// non-2xx response, or a transport failure mapped to code 500 / NetworkError.
type APIError struct {
	Message   string
	Type      string
	Code      int
	Subcode   int
	FBTraceID string
}

func (e *APIError) Error() string {
	if e.FBTraceID != "" {
		return fmt.Sprintf("graph api error (code %d, type %s, trace %s): %s", e.Code, e.Type, e.FBTraceID, e.Message)
	}
	return fmt.Sprintf("graph api error (code %d, type %s): %s", e.Code, e.Type, e.Message)
}

// IsAuthError reports whether the error looks like an invalid or expired
// access token. Graph signals this as an OAuthException.
func (e *APIError) IsAuthError() bool {
	return e.Type == "OAuthException"
}

// Client calls Graph read endpoints on behalf of one access token.
type Client struct {
	baseURL     string
	apiVersion  string
	accessToken string
	httpClient  *http.Client
	logger      *slog.Logger
}

// NewClient builds a Client for the given access token. Pass empty baseURL /
// apiVersion for the production defaults; pass nil httpClient for a 15s
// timeout default.
func NewClient(baseURL, apiVersion, accessToken string, httpClient *http.Client, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if apiVersion == "" {
		apiVersion = DefaultAPIVersion
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{
		baseURL:     baseURL,
		apiVersion:  apiVersion,
		accessToken: accessToken,
		httpClient:  httpClient,
		logger:      logger.With("adapter", "metagraph"),
	}
}

// GetMe returns the identity record behind the access token.
func (c *Client) GetMe(ctx context.Context) (*Me, error) {
	var out Me
	if err := c.get(ctx, "me", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetBusinesses lists the businesses associated with the access token.
func (c *Client) GetBusinesses(ctx context.Context) (*BusinessesResponse, error) {
	var out BusinessesResponse
	if err := c.get(ctx, "me/businesses", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetOwnedWABAs lists the WABAs a business owns.
func (c *Client) GetOwnedWABAs(ctx context.Context, businessID string) (*WABAsResponse, error) {
	var out WABAsResponse
	if err := c.get(ctx, businessID+"/owned_whatsapp_business_accounts", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetClientWABAs lists the WABAs shared with a business by its clients.
// Graph may legitimately deny this call depending on token permissions.
func (c *Client) GetClientWABAs(ctx context.Context, businessID string) (*WABAsResponse, error) {
	var out WABAsResponse
	if err := c.get(ctx, businessID+"/client_whatsapp_business_accounts", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetPhoneNumbers lists the phone numbers registered under a WABA.
func (c *Client) GetPhoneNumbers(ctx context.Context, wabaID string) (*PhoneNumbersResponse, error) {
	var out PhoneNumbersResponse
	if err := c.get(ctx, wabaID+"/phone_numbers", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DebugToken inspects the client's own access token.
func (c *Client) DebugToken(ctx context.Context) (*DebugTokenResponse, error) {
	var out DebugTokenResponse
	params := url.Values{"input_token": {c.accessToken}}
	if err := c.get(ctx, "debug_token", params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	if params == nil {
		params = url.Values{}
	}
	params.Set("access_token", c.accessToken)

	fullURL := fmt.Sprintf("%s/%s/%s?%s", c.baseURL, c.apiVersion, path, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return &APIError{Message: fmt.Sprintf("failed to build request: %v", err), Code: 500, Type: "NetworkError"}
	}
	req.Header.Set("Content-Type", "application/json")

	c.logger.DebugContext(ctx, "Calling Graph API", "path", path)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &APIError{Message: fmt.Sprintf("failed to call Graph API: %v", err), Code: 500, Type: "NetworkError"}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &APIError{Message: fmt.Sprintf("failed to read Graph API response (status %d): %v", resp.StatusCode, err), Code: 500, Type: "NetworkError"}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var envelope errorEnvelope
		if err := json.Unmarshal(body, &envelope); err != nil || envelope.Error.Message == "" {
			c.logger.WarnContext(ctx, "Graph API returned undecodable error body", "status_code", resp.StatusCode, "path", path)
			return &APIError{
				Message: fmt.Sprintf("graph api request failed with status %d", resp.StatusCode),
				Code:    resp.StatusCode,
				Type:    "UnknownError",
			}
		}
		apiErr := &APIError{
			Message:   envelope.Error.Message,
			Type:      envelope.Error.Type,
			Code:      envelope.Error.Code,
			Subcode:   envelope.Error.Subcode,
			FBTraceID: envelope.Error.FBTraceID,
		}
		c.logger.WarnContext(ctx, "Graph API call failed", "path", path, "status_code", resp.StatusCode,
			"error_code", apiErr.Code, "error_type", apiErr.Type, "fbtrace_id", apiErr.FBTraceID)
		return apiErr
	}

	if err := json.Unmarshal(body, out); err != nil {
		return &APIError{Message: fmt.Sprintf("failed to decode Graph API response: %v", err), Code: 500, Type: "NetworkError"}
	}
	return nil
}
