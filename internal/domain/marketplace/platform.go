package marketplace

import (
	"context"
	"errors"
	"fmt"

	"github.com/dealerhub/backend/internal/domain/dealership"
)

// ---------------------------------------------------------------------------
// Platform Errors
// ---------------------------------------------------------------------------

var (
	// ErrUnknownPlatform is returned when no adapter is registered for a code
	ErrUnknownPlatform = errors.New("marketplace: unknown platform")
	// ErrMissingCredentials is returned when a required credential key is absent
	ErrMissingCredentials = errors.New("marketplace: missing credentials")
	// ErrPlatformUnavailable is returned when the platform cannot be reached
	ErrPlatformUnavailable = errors.New("marketplace: platform temporarily unavailable")
	// ErrPlatformRequestFailed is returned when the platform rejected a request
	ErrPlatformRequestFailed = errors.New("marketplace: platform request failed")
	// ErrPlatformInvalidResponse is returned when the platform response cannot be parsed
	ErrPlatformInvalidResponse = errors.New("marketplace: invalid platform response")
	// ErrPlatformAuthFailed is returned when platform authentication fails
	ErrPlatformAuthFailed = errors.New("marketplace: platform authentication failed")
)

// PlatformError carries the remote platform's own error message. Adapter
// failures never escalate past this type; callers treat them as recoverable
// and record the message on the Listing or Connection row.
type PlatformError struct {
	// Platform identifies which marketplace produced the error
	Platform PlatformCode
	// Message is the platform's error message, or the HTTP status text when
	// the body was not parseable
	Message string
	// kind is the sentinel this error unwraps to
	kind error
}

// Error implements the error interface
func (e *PlatformError) Error() string {
	return fmt.Sprintf("%s: %s", e.Platform, e.Message)
}

// Unwrap returns the underlying sentinel error
func (e *PlatformError) Unwrap() error {
	return e.kind
}

// NewPlatformError creates a PlatformError wrapping ErrPlatformRequestFailed
func NewPlatformError(platform PlatformCode, message string) *PlatformError {
	return &PlatformError{Platform: platform, Message: message, kind: ErrPlatformRequestFailed}
}

// NewPlatformAuthError creates a PlatformError wrapping ErrPlatformAuthFailed
func NewPlatformAuthError(platform PlatformCode, message string) *PlatformError {
	return &PlatformError{Platform: platform, Message: message, kind: ErrPlatformAuthFailed}
}

// NewPlatformUnavailableError creates a PlatformError wrapping ErrPlatformUnavailable
func NewPlatformUnavailableError(platform PlatformCode, message string) *PlatformError {
	return &PlatformError{Platform: platform, Message: message, kind: ErrPlatformUnavailable}
}

// ---------------------------------------------------------------------------
// PlatformCode
// ---------------------------------------------------------------------------

// PlatformCode identifies an external vehicle marketplace
type PlatformCode string

const (
	// PlatformCodeMercadoLivre represents MercadoLivre vehicle listings
	PlatformCodeMercadoLivre PlatformCode = "MERCADO_LIVRE"
	// PlatformCodeMeta represents the Meta (Facebook Marketplace) vehicle catalog
	PlatformCodeMeta PlatformCode = "META"
	// PlatformCodeWebmotors represents Webmotors
	PlatformCodeWebmotors PlatformCode = "WEBMOTORS"
)

// IsValid returns true if the platform code is valid
func (c PlatformCode) IsValid() bool {
	switch c {
	case PlatformCodeMercadoLivre, PlatformCodeMeta, PlatformCodeWebmotors:
		return true
	default:
		return false
	}
}

// String returns the string representation of PlatformCode
func (c PlatformCode) String() string {
	return string(c)
}

// DisplayName returns a human-readable name for the platform
func (c PlatformCode) DisplayName() string {
	switch c {
	case PlatformCodeMercadoLivre:
		return "Mercado Livre"
	case PlatformCodeMeta:
		return "Facebook Marketplace"
	case PlatformCodeWebmotors:
		return "Webmotors"
	default:
		return string(c)
	}
}

// ---------------------------------------------------------------------------
// Credentials
// ---------------------------------------------------------------------------

// Credentials is the opaque credential bundle stored per connection. The
// key set varies per platform; each adapter extracts and validates its own
// required keys before doing anything with the bundle.
type Credentials map[string]string

// Get returns the value for a key, or "" if absent
func (c Credentials) Get(key string) string {
	return c[key]
}

// Has returns true if the key is present and non-empty
func (c Credentials) Has(key string) bool {
	return c[key] != ""
}

// Clone returns a copy of the bundle
func (c Credentials) Clone() Credentials {
	out := make(Credentials, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}

// With returns a copy of the bundle with the given key set
func (c Credentials) With(key, value string) Credentials {
	out := c.Clone()
	out[key] = value
	return out
}

// Without returns a copy of the bundle with the given key removed
func (c Credentials) Without(key string) Credentials {
	out := c.Clone()
	delete(out, key)
	return out
}

// Redacted returns a copy with every value masked, for API responses and logs
func (c Credentials) Redacted() Credentials {
	out := make(Credentials, len(c))
	for k := range c {
		out[k] = "********"
	}
	return out
}

// ---------------------------------------------------------------------------
// Listing payload helpers
// ---------------------------------------------------------------------------

// PlaceholderImageURL is published when a vehicle has no photos; the
// marketplaces reject image-less listings.
const PlaceholderImageURL = "https://cdn.dealerhub.app/assets/vehicle-placeholder.jpg"

// ListingImages returns the vehicle's photo URLs capped at max, or the
// placeholder image when the vehicle has none.
func ListingImages(v *dealership.Vehicle, max int) []string {
	if len(v.Images) == 0 {
		return []string{PlaceholderImageURL}
	}
	if max > 0 && len(v.Images) > max {
		return v.Images[:max]
	}
	return v.Images
}

// ConditionFromCategory maps the internal stock category to the condition
// value the marketplaces expect: "new" stays new, everything else is used.
func ConditionFromCategory(category string) string {
	if category == "new" {
		return "new"
	}
	return "used"
}

// ---------------------------------------------------------------------------
// Platform Port Interface
// ---------------------------------------------------------------------------

// ValidationResult is the outcome of a successful credential validation
type ValidationResult struct {
	// AccountID is the platform account identifier the adapter resolved
	// during validation (empty if the platform exposes none)
	AccountID string
	// Credentials is the normalized bundle to persist: placeholder values
	// stripped, resolved identifiers added
	Credentials Credentials
}

// PublishResult is the outcome of a successful listing publication
type PublishResult struct {
	// ExternalID is the listing's identifier on the platform
	ExternalID string
	// ExternalURL is the public URL of the listing (constructed from the
	// external ID when the platform omits it)
	ExternalURL string
}

// Platform defines the port interface for external vehicle marketplaces.
// Concrete adapters (MercadoLivre, Meta, Webmotors) live in the
// infrastructure layer; new platforms are added by implementing this
// interface, never by branching inside the publisher.
type Platform interface {
	// Code returns the platform code this adapter handles
	Code() PlatformCode

	// Validate performs one read-only authenticated call to confirm the
	// credentials work. It must not mutate remote state.
	Validate(ctx context.Context, creds Credentials) (*ValidationResult, error)

	// Publish builds the platform-specific payload from the vehicle and
	// performs the create-listing call.
	Publish(ctx context.Context, vehicle *dealership.Vehicle, creds Credentials) (*PublishResult, error)
}

// PlatformRegistry provides access to the configured platform adapters
type PlatformRegistry interface {
	// GetPlatform returns the adapter for the given code
	GetPlatform(code PlatformCode) (Platform, error)

	// ListPlatforms returns all registered adapters
	ListPlatforms() []Platform
}
