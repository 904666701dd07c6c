package platform

import "errors"

// MercadoLivreConfig holds endpoint configuration for the MercadoLivre API.
// Credentials are not part of the config: they arrive per connection.
type MercadoLivreConfig struct {
	// APIBaseURL is the base URL for the MercadoLivre REST API
	APIBaseURL string
	// PermalinkBaseURL is used to build a listing URL when the API response
	// omits the permalink
	PermalinkBaseURL string
	// SiteID is the MercadoLivre site (MLB = Brazil)
	SiteID string
	// CategoryID is the vehicle category listings are created under
	CategoryID string
	// CurrencyID is the listing currency
	CurrencyID string
	// MaxImages caps how many photos are sent per listing
	MaxImages int
	// TimeoutSeconds is the HTTP request timeout
	TimeoutSeconds int
}

const (
	// MercadoLivreProductionAPIURL is the production API endpoint
	MercadoLivreProductionAPIURL = "https://api.mercadolibre.com"
	// MercadoLivrePermalinkBaseURL is the public listing URL prefix
	MercadoLivrePermalinkBaseURL = "https://produto.mercadolivre.com.br"
	// MercadoLivreDefaultSiteID is the Brazilian site
	MercadoLivreDefaultSiteID = "MLB"
	// MercadoLivreVehicleCategoryID is the cars and trucks category on MLB
	MercadoLivreVehicleCategoryID = "MLB1744"
)

// ErrMercadoLivreConfigMissingBaseURL indicates the API base URL could not be resolved
var ErrMercadoLivreConfigMissingBaseURL = errors.New("mercadolivre: api base url is required")

// NewMercadoLivreConfig creates a MercadoLivre configuration with defaults
func NewMercadoLivreConfig() *MercadoLivreConfig {
	return &MercadoLivreConfig{
		APIBaseURL:       MercadoLivreProductionAPIURL,
		PermalinkBaseURL: MercadoLivrePermalinkBaseURL,
		SiteID:           MercadoLivreDefaultSiteID,
		CategoryID:       MercadoLivreVehicleCategoryID,
		CurrencyID:       "BRL",
		MaxImages:        6,
		TimeoutSeconds:   30,
	}
}

// Validate validates the configuration and fills defaults
func (c *MercadoLivreConfig) Validate() error {
	if c.APIBaseURL == "" {
		c.APIBaseURL = MercadoLivreProductionAPIURL
	}
	if c.PermalinkBaseURL == "" {
		c.PermalinkBaseURL = MercadoLivrePermalinkBaseURL
	}
	if c.SiteID == "" {
		c.SiteID = MercadoLivreDefaultSiteID
	}
	if c.CategoryID == "" {
		c.CategoryID = MercadoLivreVehicleCategoryID
	}
	if c.CurrencyID == "" {
		c.CurrencyID = "BRL"
	}
	if c.MaxImages <= 0 {
		c.MaxImages = 6
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = 30
	}
	return nil
}
