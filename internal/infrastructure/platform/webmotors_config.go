package platform

// WebmotorsConfig holds endpoint configuration for the Webmotors API
type WebmotorsConfig struct {
	// APIBaseURL is the base URL for the Webmotors REST API
	APIBaseURL string
	// TokenURL is the OAuth2 client-credentials token endpoint
	TokenURL string
	// AdBaseURL is used to build a public ad URL when the API response
	// omits one
	AdBaseURL string
	// MaxImages caps how many photos are sent per ad
	MaxImages int
	// TimeoutSeconds is the HTTP request timeout, covering the token
	// exchange as well as the API call itself
	TimeoutSeconds int
}

const (
	// WebmotorsProductionAPIURL is the production API endpoint
	WebmotorsProductionAPIURL = "https://api.webmotors.com.br"
	// WebmotorsProductionTokenURL is the production OAuth2 token endpoint
	WebmotorsProductionTokenURL = "https://api.webmotors.com.br/oauth/v1/token"
	// WebmotorsAdBaseURL is the public ad URL prefix
	WebmotorsAdBaseURL = "https://www.webmotors.com.br/comprar"
)

// NewWebmotorsConfig creates a Webmotors configuration with defaults
func NewWebmotorsConfig() *WebmotorsConfig {
	return &WebmotorsConfig{
		APIBaseURL:     WebmotorsProductionAPIURL,
		TokenURL:       WebmotorsProductionTokenURL,
		AdBaseURL:      WebmotorsAdBaseURL,
		MaxImages:      8,
		TimeoutSeconds: 30,
	}
}

// Validate validates the configuration and fills defaults
func (c *WebmotorsConfig) Validate() error {
	if c.APIBaseURL == "" {
		c.APIBaseURL = WebmotorsProductionAPIURL
	}
	if c.TokenURL == "" {
		c.TokenURL = WebmotorsProductionTokenURL
	}
	if c.AdBaseURL == "" {
		c.AdBaseURL = WebmotorsAdBaseURL
	}
	if c.MaxImages <= 0 {
		c.MaxImages = 8
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = 30
	}
	return nil
}
