package platform

// MetaConfig holds endpoint configuration for the Meta Graph API
type MetaConfig struct {
	// GraphAPIBaseURL is the base URL for the Graph API
	GraphAPIBaseURL string
	// APIVersion is the Graph API version segment (e.g. "v19.0")
	APIVersion string
	// MaxImages caps how many photos are sent per catalog item
	MaxImages int
	// TimeoutSeconds is the HTTP request timeout
	TimeoutSeconds int
}

const (
	// MetaProductionGraphURL is the production Graph API endpoint
	MetaProductionGraphURL = "https://graph.facebook.com"
	// MetaDefaultAPIVersion is the Graph API version used by default
	MetaDefaultAPIVersion = "v19.0"

	// MetaCatalogIDPlaceholder is the sample value from the setup
	// documentation. Users paste it verbatim often enough that it must be
	// treated as "no catalog id supplied".
	MetaCatalogIDPlaceholder = "SEU_CATALOGO_ID"
)

// NewMetaConfig creates a Meta configuration with defaults
func NewMetaConfig() *MetaConfig {
	return &MetaConfig{
		GraphAPIBaseURL: MetaProductionGraphURL,
		APIVersion:      MetaDefaultAPIVersion,
		MaxImages:       10,
		TimeoutSeconds:  30,
	}
}

// Validate validates the configuration and fills defaults
func (c *MetaConfig) Validate() error {
	if c.GraphAPIBaseURL == "" {
		c.GraphAPIBaseURL = MetaProductionGraphURL
	}
	if c.APIVersion == "" {
		c.APIVersion = MetaDefaultAPIVersion
	}
	if c.MaxImages <= 0 {
		c.MaxImages = 10
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = 30
	}
	return nil
}
