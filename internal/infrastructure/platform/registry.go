package platform

import (
	"fmt"
	"sort"

	"github.com/dealerhub/backend/internal/domain/marketplace"
)

// Registry holds the configured platform adapters keyed by platform code
type Registry struct {
	adapters map[marketplace.PlatformCode]marketplace.Platform
}

// NewRegistry creates a registry from the given adapters. Registering two
// adapters with the same code is a wiring mistake and fails fast.
func NewRegistry(adapters ...marketplace.Platform) (*Registry, error) {
	r := &Registry{
		adapters: make(map[marketplace.PlatformCode]marketplace.Platform, len(adapters)),
	}
	for _, adapter := range adapters {
		code := adapter.Code()
		if _, exists := r.adapters[code]; exists {
			return nil, fmt.Errorf("platform: duplicate adapter for %s", code)
		}
		r.adapters[code] = adapter
	}
	return r, nil
}

// GetPlatform returns the adapter for the given code
func (r *Registry) GetPlatform(code marketplace.PlatformCode) (marketplace.Platform, error) {
	adapter, ok := r.adapters[code]
	if !ok {
		return nil, fmt.Errorf("%w: %s", marketplace.ErrUnknownPlatform, code)
	}
	return adapter, nil
}

// ListPlatforms returns all registered adapters ordered by code
func (r *Registry) ListPlatforms() []marketplace.Platform {
	codes := make([]string, 0, len(r.adapters))
	for code := range r.adapters {
		codes = append(codes, string(code))
	}
	sort.Strings(codes)

	out := make([]marketplace.Platform, 0, len(codes))
	for _, code := range codes {
		out = append(out, r.adapters[marketplace.PlatformCode(code)])
	}
	return out
}

// Ensure Registry implements the PlatformRegistry interface
var _ marketplace.PlatformRegistry = (*Registry)(nil)
