package api_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/geflip-go/internal/adapters/api"
)

func TestGuidePriceClient_ParsesPublishedPrices(t *testing.T) {
	// Arrange
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("item") {
		case "4151":
			_, _ = w.Write([]byte(`{"item": {"id": 4151, "current": {"trend": "neutral", "price": "1.6m"}}}`))
		case "2":
			_, _ = w.Write([]byte(`{"item": {"id": 2, "current": {"price": 187}}}`))
		case "560":
			_, _ = w.Write([]byte(`{"item": {"current": {"price": "unknown"}}}`))
		case "11832":
			_, _ = w.Write([]byte(`{"item": {"current": {"price": "12,345"}}}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()
	client := api.NewGuidePriceClientWithURL(server.URL, time.Second)
	ctx := context.Background()

	// Act
	whip, err := client.GuidePrice(ctx, 4151)
	require.NoError(t, err)
	cannonball, err := client.GuidePrice(ctx, 2)
	require.NoError(t, err)
	unknown, err := client.GuidePrice(ctx, 560)
	require.NoError(t, err)
	grouped, err := client.GuidePrice(ctx, 11832)
	require.NoError(t, err)
	missing, err := client.GuidePrice(ctx, 999999)
	require.NoError(t, err)

	// Assert
	require.NotNil(t, whip)
	assert.Equal(t, int64(1_600_000), *whip)
	assert.Equal(t, int64(187), *cannonball)
	assert.Nil(t, unknown)
	assert.Equal(t, int64(12_345), *grouped)
	assert.Nil(t, missing)
}

func TestGuidePriceClient_ServerErrorIsReturned(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	price, err := api.NewGuidePriceClientWithURL(server.URL, time.Second).GuidePrice(context.Background(), 2)

	assert.Nil(t, price)
	assert.Error(t, err)
}
