package platform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dealerhub/backend/internal/domain/marketplace"
)

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()

	ml, err := NewMercadoLivreAdapter(NewMercadoLivreConfig())
	require.NoError(t, err)
	meta, err := NewMetaAdapter(NewMetaConfig())
	require.NoError(t, err)
	wm, err := NewWebmotorsAdapter(NewWebmotorsConfig())
	require.NoError(t, err)

	registry, err := NewRegistry(ml, meta, wm)
	require.NoError(t, err)
	return registry
}

func TestRegistry_GetPlatform(t *testing.T) {
	registry := newTestRegistry(t)

	adapter, err := registry.GetPlatform(marketplace.PlatformCodeMeta)

	require.NoError(t, err)
	assert.Equal(t, marketplace.PlatformCodeMeta, adapter.Code())
}

func TestRegistry_GetPlatform_Unknown(t *testing.T) {
	registry := newTestRegistry(t)

	_, err := registry.GetPlatform(marketplace.PlatformCode("OLX"))

	assert.ErrorIs(t, err, marketplace.ErrUnknownPlatform)
}

func TestRegistry_ListPlatforms(t *testing.T) {
	registry := newTestRegistry(t)

	platforms := registry.ListPlatforms()

	require.Len(t, platforms, 3)
	codes := make([]marketplace.PlatformCode, 0, len(platforms))
	for _, p := range platforms {
		codes = append(codes, p.Code())
	}
	assert.Equal(t, []marketplace.PlatformCode{
		marketplace.PlatformCodeMercadoLivre,
		marketplace.PlatformCodeMeta,
		marketplace.PlatformCodeWebmotors,
	}, codes)
}

func TestRegistry_DuplicateAdapter(t *testing.T) {
	ml, err := NewMercadoLivreAdapter(NewMercadoLivreConfig())
	require.NoError(t, err)
	other, err := NewMercadoLivreAdapter(NewMercadoLivreConfig())
	require.NoError(t, err)

	_, err = NewRegistry(ml, other)

	assert.Error(t, err)
}
