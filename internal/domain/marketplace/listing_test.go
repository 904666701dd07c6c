package marketplace

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListing_RecordSuccess(t *testing.T) {
	listing := NewListing(uuid.New(), PlatformCodeMercadoLivre)
	at := time.Now()
	payload := &PayloadSnapshot{Title: "Toyota Corolla 2022", Price: decimal.NewFromInt(98000), SentAt: at}

	listing.RecordSuccess(&PublishResult{
		ExternalID:  "MLB123",
		ExternalURL: "https://produto.mercadolivre.com.br/MLB123",
	}, payload, at)

	assert.Equal(t, ListingStatusPublished, listing.Status)
	assert.True(t, listing.IsPublished())
	assert.Equal(t, "MLB123", listing.ExternalID)
	assert.Equal(t, "https://produto.mercadolivre.com.br/MLB123", listing.ExternalURL)
	assert.Empty(t, listing.LastError)
	require.NotNil(t, listing.LastSyncedAt)
	require.NotNil(t, listing.Payload)
	assert.Equal(t, "Toyota Corolla 2022", listing.Payload.Title)
}

func TestListing_RecordFailurePreservesExternalIDs(t *testing.T) {
	listing := NewListing(uuid.New(), PlatformCodeMeta)
	first := time.Now().Add(-time.Hour)
	listing.RecordSuccess(&PublishResult{ExternalID: "fb-1", ExternalURL: "https://facebook.com/fb-1"},
		&PayloadSnapshot{Title: "Honda Civic 2021", Price: decimal.NewFromInt(112000), SentAt: first}, first)

	at := time.Now()
	retry := &PayloadSnapshot{Title: "Honda Civic 2021", Price: decimal.NewFromInt(109000), SentAt: at}
	listing.RecordFailure("catalog unavailable", retry)

	assert.Equal(t, ListingStatusError, listing.Status)
	assert.False(t, listing.IsPublished())
	assert.Equal(t, "catalog unavailable", listing.LastError)
	assert.Equal(t, "fb-1", listing.ExternalID, "failure keeps the earlier external id")
	assert.Equal(t, "https://facebook.com/fb-1", listing.ExternalURL)
	require.NotNil(t, listing.Payload)
	assert.True(t, decimal.NewFromInt(109000).Equal(listing.Payload.Price), "snapshot reflects the failed attempt")
	require.NotNil(t, listing.LastSyncedAt)
	assert.Equal(t, first, *listing.LastSyncedAt, "failure does not advance the success timestamp")
}

func TestListing_FirstAttemptFailure(t *testing.T) {
	listing := NewListing(uuid.New(), PlatformCodeWebmotors)
	at := time.Now()

	listing.RecordFailure("seller_id is required", &PayloadSnapshot{Title: "Fiat Argo 2023", Price: decimal.NewFromInt(72000), SentAt: at})

	assert.Equal(t, ListingStatusError, listing.Status)
	assert.Empty(t, listing.ExternalID)
	assert.Empty(t, listing.ExternalURL)
	assert.Nil(t, listing.LastSyncedAt, "never-published listings have no success timestamp")
}
