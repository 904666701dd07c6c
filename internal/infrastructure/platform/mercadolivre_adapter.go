package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/dealerhub/backend/internal/domain/dealership"
	"github.com/dealerhub/backend/internal/domain/marketplace"
)

// maxResponseSize is the maximum allowed response size from a marketplace API (10MB)
const maxResponseSize = 10 * 1024 * 1024

// credentialAccessToken is the credential key every bearer-token platform requires
const credentialAccessToken = "access_token"

// MercadoLivreAdapter implements the marketplace.Platform interface for
// MercadoLivre. Authentication is a bearer access token stored on the
// connection; validation resolves the account through /users/me and publish
// creates an item through /items.
type MercadoLivreAdapter struct {
	config     *MercadoLivreConfig
	httpClient *http.Client
}

// NewMercadoLivreAdapter creates a new MercadoLivre adapter with the given configuration
func NewMercadoLivreAdapter(config *MercadoLivreConfig) (*MercadoLivreAdapter, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &MercadoLivreAdapter{
		config: config,
		httpClient: &http.Client{
			Timeout: time.Duration(config.TimeoutSeconds) * time.Second,
		},
	}, nil
}

// Code returns the platform code this adapter handles
func (a *MercadoLivreAdapter) Code() marketplace.PlatformCode {
	return marketplace.PlatformCodeMercadoLivre
}

// Validate confirms the access token works by fetching the token owner's
// identity. The resolved user id becomes the connection's account id.
func (a *MercadoLivreAdapter) Validate(ctx context.Context, creds marketplace.Credentials) (*marketplace.ValidationResult, error) {
	token := creds.Get(credentialAccessToken)
	if token == "" {
		return nil, fmt.Errorf("%w: access_token", marketplace.ErrMissingCredentials)
	}

	body, err := a.doRequest(ctx, http.MethodGet, a.config.APIBaseURL+"/users/me", token, nil)
	if err != nil {
		return nil, err
	}

	var user MercadoLivreUserResponse
	if err := json.Unmarshal(body, &user); err != nil {
		return nil, fmt.Errorf("%w: failed to parse user response: %v", marketplace.ErrPlatformInvalidResponse, err)
	}
	if user.ID == 0 {
		return nil, fmt.Errorf("%w: user response has no id", marketplace.ErrPlatformInvalidResponse)
	}

	accountID := strconv.FormatInt(user.ID, 10)
	return &marketplace.ValidationResult{
		AccountID:   accountID,
		Credentials: creds.With("user_id", accountID),
	}, nil
}

// Publish creates a listing item for the vehicle. When the response carries
// no permalink the public URL is constructed from the returned item id.
func (a *MercadoLivreAdapter) Publish(ctx context.Context, vehicle *dealership.Vehicle, creds marketplace.Credentials) (*marketplace.PublishResult, error) {
	token := creds.Get(credentialAccessToken)
	if token == "" {
		return nil, fmt.Errorf("%w: access_token", marketplace.ErrMissingCredentials)
	}

	payload := a.buildItemRequest(vehicle)
	reqBody, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("mercadolivre: failed to encode item request: %w", err)
	}

	body, err := a.doRequest(ctx, http.MethodPost, a.config.APIBaseURL+"/items", token, reqBody)
	if err != nil {
		return nil, err
	}

	var item MercadoLivreItemResponse
	if err := json.Unmarshal(body, &item); err != nil {
		return nil, fmt.Errorf("%w: failed to parse item response: %v", marketplace.ErrPlatformInvalidResponse, err)
	}
	if item.ID == "" {
		return nil, fmt.Errorf("%w: item response has no id", marketplace.ErrPlatformInvalidResponse)
	}

	permalink := item.Permalink
	if permalink == "" {
		permalink = fmt.Sprintf("%s/%s", a.config.PermalinkBaseURL, item.ID)
	}

	return &marketplace.PublishResult{
		ExternalID:  item.ID,
		ExternalURL: permalink,
	}, nil
}

// buildItemRequest maps a vehicle onto the MercadoLivre item payload
func (a *MercadoLivreAdapter) buildItemRequest(vehicle *dealership.Vehicle) *MercadoLivreItemRequest {
	pictures := make([]MercadoLivrePicture, 0, a.config.MaxImages)
	for _, url := range marketplace.ListingImages(vehicle, a.config.MaxImages) {
		pictures = append(pictures, MercadoLivrePicture{Source: url})
	}

	return &MercadoLivreItemRequest{
		Title:       vehicle.ListingTitle(),
		CategoryID:  a.config.CategoryID,
		Price:       vehicle.Price.InexactFloat64(),
		CurrencyID:  a.config.CurrencyID,
		Condition:   marketplace.ConditionFromCategory(vehicle.Category),
		SiteID:      a.config.SiteID,
		Description: vehicle.Description,
		Pictures:    pictures,
		Attributes: []MercadoLivreAttribute{
			{ID: "BRAND", ValueName: vehicle.Make},
			{ID: "MODEL", ValueName: vehicle.Model},
			{ID: "VEHICLE_YEAR", ValueName: strconv.Itoa(vehicle.Year)},
			{ID: "KILOMETERS", ValueName: strconv.Itoa(vehicle.Mileage) + " km"},
			{ID: "FUEL_TYPE", ValueName: vehicle.FuelType},
			{ID: "TRANSMISSION", ValueName: vehicle.Transmission},
			{ID: "COLOR", ValueName: vehicle.Color},
		},
	}
}

// doRequest performs an authenticated HTTP request against the MercadoLivre API
func (a *MercadoLivreAdapter) doRequest(ctx context.Context, method, url, token string, body []byte) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("mercadolivre: failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
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
		return nil, fmt.Errorf("mercadolivre: failed to read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, a.mapErrorResponse(resp.StatusCode, respBody)
	}

	return respBody, nil
}

// mapErrorResponse converts a non-2xx API response into a PlatformError
func (a *MercadoLivreAdapter) mapErrorResponse(statusCode int, body []byte) error {
	message := http.StatusText(statusCode)
	var errResp MercadoLivreErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Message != "" {
		message = errResp.Message
	}

	if statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden {
		return marketplace.NewPlatformAuthError(a.Code(), message)
	}
	return marketplace.NewPlatformError(a.Code(), message)
}

// Ensure MercadoLivreAdapter implements the Platform interface
var _ marketplace.Platform = (*MercadoLivreAdapter)(nil)
