package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dealerhub/backend/internal/domain/dealership"
	"github.com/dealerhub/backend/internal/domain/marketplace"
)

// credentialCatalogID is the credential key holding the vehicle catalog id
const credentialCatalogID = "catalog_id"

// MetaAdapter implements the marketplace.Platform interface for the Meta
// (Facebook Marketplace) vehicle catalog. Authentication is a bearer access
// token plus a catalog id; listings are structured catalog items rather than
// free-text ads.
type MetaAdapter struct {
	config     *MetaConfig
	httpClient *http.Client
}

// NewMetaAdapter creates a new Meta adapter with the given configuration
func NewMetaAdapter(config *MetaConfig) (*MetaAdapter, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &MetaAdapter{
		config: config,
		httpClient: &http.Client{
			Timeout: time.Duration(config.TimeoutSeconds) * time.Second,
		},
	}, nil
}

// Code returns the platform code this adapter handles
func (a *MetaAdapter) Code() marketplace.PlatformCode {
	return marketplace.PlatformCodeMeta
}

// Validate confirms the access token works. With a catalog id it reads the
// catalog node, proving both the token and the catalog are usable; without
// one it falls back to the generic identity node. A catalog id equal to the
// documentation placeholder is normalized away before anything is stored.
func (a *MetaAdapter) Validate(ctx context.Context, creds marketplace.Credentials) (*marketplace.ValidationResult, error) {
	token := creds.Get(credentialAccessToken)
	if token == "" {
		return nil, fmt.Errorf("%w: access_token", marketplace.ErrMissingCredentials)
	}

	normalized := creds
	catalogID := creds.Get(credentialCatalogID)
	if catalogID == MetaCatalogIDPlaceholder {
		normalized = creds.Without(credentialCatalogID)
		catalogID = ""
	}

	node := "me"
	if catalogID != "" {
		node = catalogID
	}

	body, err := a.doRequest(ctx, http.MethodGet, a.nodeURL(node)+"?fields=id,name", token, nil)
	if err != nil {
		return nil, err
	}

	var resp MetaNodeResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: failed to parse node response: %v", marketplace.ErrPlatformInvalidResponse, err)
	}
	if resp.ID == "" {
		return nil, fmt.Errorf("%w: node response has no id", marketplace.ErrPlatformInvalidResponse)
	}

	return &marketplace.ValidationResult{
		AccountID:   resp.ID,
		Credentials: normalized,
	}, nil
}

// Publish creates a vehicle catalog item. A catalog id is mandatory here;
// connections validated without one can read but never publish.
func (a *MetaAdapter) Publish(ctx context.Context, vehicle *dealership.Vehicle, creds marketplace.Credentials) (*marketplace.PublishResult, error) {
	token := creds.Get(credentialAccessToken)
	if token == "" {
		return nil, fmt.Errorf("%w: access_token", marketplace.ErrMissingCredentials)
	}
	catalogID := creds.Get(credentialCatalogID)
	if catalogID == "" || catalogID == MetaCatalogIDPlaceholder {
		return nil, fmt.Errorf("%w: catalog_id", marketplace.ErrMissingCredentials)
	}

	payload := a.buildVehicleRequest(vehicle)
	reqBody, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("meta: failed to encode vehicle request: %w", err)
	}

	body, err := a.doRequest(ctx, http.MethodPost, a.nodeURL(catalogID)+"/vehicles", token, reqBody)
	if err != nil {
		return nil, err
	}

	var resp MetaVehicleResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: failed to parse vehicle response: %v", marketplace.ErrPlatformInvalidResponse, err)
	}
	if resp.ID == "" {
		return nil, fmt.Errorf("%w: vehicle response has no id", marketplace.ErrPlatformInvalidResponse)
	}

	// Catalog items have no public permalink until Meta reviews them, so
	// only the external id is recorded.
	return &marketplace.PublishResult{ExternalID: resp.ID}, nil
}

// buildVehicleRequest maps a vehicle onto the Meta catalog item payload.
// Meta wants structured attributes; the free-text description is separate.
func (a *MetaAdapter) buildVehicleRequest(vehicle *dealership.Vehicle) *MetaVehicleRequest {
	images := make([]MetaImage, 0, a.config.MaxImages)
	for _, url := range marketplace.ListingImages(vehicle, a.config.MaxImages) {
		images = append(images, MetaImage{URL: url})
	}

	return &MetaVehicleRequest{
		VehicleID:     vehicle.ID.String(),
		Title:         vehicle.ListingTitle(),
		Description:   vehicle.Description,
		Price:         vehicle.Price.StringFixed(2),
		Currency:      "BRL",
		Make:          vehicle.Make,
		Model:         vehicle.Model,
		Year:          vehicle.Year,
		Mileage:       MetaMileage{Value: vehicle.Mileage, Unit: "KM"},
		Condition:     marketplace.ConditionFromCategory(vehicle.Category),
		Availability:  "available",
		ExteriorColor: vehicle.Color,
		FuelType:      vehicle.FuelType,
		Transmission:  vehicle.Transmission,
		Images:        images,
	}
}

// nodeURL builds the versioned URL for a Graph API node
func (a *MetaAdapter) nodeURL(node string) string {
	return fmt.Sprintf("%s/%s/%s", a.config.GraphAPIBaseURL, a.config.APIVersion, node)
}

// doRequest performs an authenticated HTTP request against the Graph API
func (a *MetaAdapter) doRequest(ctx context.Context, method, url, token string, body []byte) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("meta: failed to create request: %w", err)
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
		return nil, fmt.Errorf("meta: failed to read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, a.mapErrorResponse(resp.StatusCode, respBody)
	}

	return respBody, nil
}

// mapErrorResponse converts a Graph API error envelope into a PlatformError
func (a *MetaAdapter) mapErrorResponse(statusCode int, body []byte) error {
	message := http.StatusText(statusCode)
	var errResp MetaErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error.Message != "" {
		message = errResp.Error.Message
	}

	// The Graph API reports expired tokens as OAuthException with HTTP 400
	if statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden || errResp.Error.Type == "OAuthException" {
		return marketplace.NewPlatformAuthError(a.Code(), message)
	}
	return marketplace.NewPlatformError(a.Code(), message)
}

// Ensure MetaAdapter implements the Platform interface
var _ marketplace.Platform = (*MetaAdapter)(nil)
