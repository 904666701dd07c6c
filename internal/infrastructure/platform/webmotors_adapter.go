package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/dealerhub/backend/internal/domain/dealership"
	"github.com/dealerhub/backend/internal/domain/marketplace"
)

// Credential keys the Webmotors adapter requires
const (
	credentialClientID     = "client_id"
	credentialClientSecret = "client_secret"
	credentialSellerID     = "seller_id"
)

// WebmotorsAdapter implements the marketplace.Platform interface for
// Webmotors. Authentication is two-legged OAuth2: a client-credentials token
// exchange runs before every validate and publish call, so a connection is
// only as healthy as its client id/secret pair.
type WebmotorsAdapter struct {
	config     *WebmotorsConfig
	httpClient *http.Client
}

// NewWebmotorsAdapter creates a new Webmotors adapter with the given configuration
func NewWebmotorsAdapter(config *WebmotorsConfig) (*WebmotorsAdapter, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &WebmotorsAdapter{
		config: config,
		httpClient: &http.Client{
			Timeout: time.Duration(config.TimeoutSeconds) * time.Second,
		},
	}, nil
}

// Code returns the platform code this adapter handles
func (a *WebmotorsAdapter) Code() marketplace.PlatformCode {
	return marketplace.PlatformCodeWebmotors
}

// Validate proves the client id/secret pair works by performing the token
// exchange. No inventory call is made; a granted token is the success signal.
func (a *WebmotorsAdapter) Validate(ctx context.Context, creds marketplace.Credentials) (*marketplace.ValidationResult, error) {
	if _, err := a.exchangeToken(ctx, creds); err != nil {
		return nil, err
	}

	return &marketplace.ValidationResult{
		AccountID:   creds.Get(credentialSellerID),
		Credentials: creds,
	}, nil
}

// Publish exchanges a fresh token and creates an inventory ad. The seller id
// credential is mandatory for publishing.
func (a *WebmotorsAdapter) Publish(ctx context.Context, vehicle *dealership.Vehicle, creds marketplace.Credentials) (*marketplace.PublishResult, error) {
	sellerID := creds.Get(credentialSellerID)
	if sellerID == "" {
		return nil, fmt.Errorf("%w: seller_id", marketplace.ErrMissingCredentials)
	}

	token, err := a.exchangeToken(ctx, creds)
	if err != nil {
		return nil, err
	}

	payload := a.buildAdRequest(vehicle, sellerID)
	reqBody, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("webmotors: failed to encode ad request: %w", err)
	}

	body, err := a.doRequest(ctx, http.MethodPost, a.config.APIBaseURL+"/api/v1/inventory/ads", token, reqBody)
	if err != nil {
		return nil, err
	}

	var ad WebmotorsAdResponse
	if err := json.Unmarshal(body, &ad); err != nil {
		return nil, fmt.Errorf("%w: failed to parse ad response: %v", marketplace.ErrPlatformInvalidResponse, err)
	}
	if ad.ID == "" {
		return nil, fmt.Errorf("%w: ad response has no id", marketplace.ErrPlatformInvalidResponse)
	}

	adURL := ad.AdURL
	if adURL == "" {
		adURL = fmt.Sprintf("%s/%s", a.config.AdBaseURL, ad.ID)
	}

	return &marketplace.PublishResult{
		ExternalID:  ad.ID,
		ExternalURL: adURL,
	}, nil
}

// exchangeToken performs the OAuth2 client-credentials exchange
func (a *WebmotorsAdapter) exchangeToken(ctx context.Context, creds marketplace.Credentials) (*oauth2.Token, error) {
	clientID := creds.Get(credentialClientID)
	clientSecret := creds.Get(credentialClientSecret)
	if clientID == "" {
		return nil, fmt.Errorf("%w: client_id", marketplace.ErrMissingCredentials)
	}
	if clientSecret == "" {
		return nil, fmt.Errorf("%w: client_secret", marketplace.ErrMissingCredentials)
	}

	cfg := &clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     a.config.TokenURL,
	}

	// Route the exchange through the adapter's client so the configured
	// timeout applies to the token call too.
	ctx = context.WithValue(ctx, oauth2.HTTPClient, a.httpClient)

	token, err := cfg.Token(ctx)
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) {
			return nil, marketplace.NewPlatformAuthError(a.Code(), retrieveErr.Error())
		}
		return nil, marketplace.NewPlatformUnavailableError(a.Code(), err.Error())
	}
	return token, nil
}

// buildAdRequest maps a vehicle onto the Webmotors ad payload
func (a *WebmotorsAdapter) buildAdRequest(vehicle *dealership.Vehicle, sellerID string) *WebmotorsAdRequest {
	photos := make([]WebmotorsAdPhoto, 0, a.config.MaxImages)
	for _, url := range marketplace.ListingImages(vehicle, a.config.MaxImages) {
		photos = append(photos, WebmotorsAdPhoto{URL: url})
	}

	return &WebmotorsAdRequest{
		SellerID:     sellerID,
		Title:        vehicle.ListingTitle(),
		Description:  vehicle.Description,
		Price:        vehicle.Price.InexactFloat64(),
		Make:         vehicle.Make,
		Model:        vehicle.Model,
		Year:         vehicle.Year,
		Mileage:      vehicle.Mileage,
		Condition:    marketplace.ConditionFromCategory(vehicle.Category),
		FuelType:     vehicle.FuelType,
		Transmission: vehicle.Transmission,
		Color:        vehicle.Color,
		Photos:       photos,
	}
}

// doRequest performs an authenticated HTTP request against the Webmotors API
func (a *WebmotorsAdapter) doRequest(ctx context.Context, method, url string, token *oauth2.Token, body []byte) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("webmotors: failed to create request: %w", err)
	}
	token.SetAuthHeader(req)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, marketplace.NewPlatformUnavailableError(a.Code(), err.Error())
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("webmotors: failed to read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, a.mapErrorResponse(resp.StatusCode, respBody)
	}

	return respBody, nil
}

// mapErrorResponse converts a non-2xx API response into a PlatformError
func (a *WebmotorsAdapter) mapErrorResponse(statusCode int, body []byte) error {
	message := http.StatusText(statusCode)
	var errResp WebmotorsErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Message != "" {
		message = errResp.Message
	}

	if statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden {
		return marketplace.NewPlatformAuthError(a.Code(), message)
	}
	return marketplace.NewPlatformError(a.Code(), message)
}

// Ensure WebmotorsAdapter implements the Platform interface
var _ marketplace.Platform = (*WebmotorsAdapter)(nil)
