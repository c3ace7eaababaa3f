package app

import (
	"context"
	"testing"
	"time"

	"shipment-tracker/internal/core/config"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.AppConfig {
	return &config.AppConfig{
		Portal: config.PortalConfig{BaseURL: "https://portal.test", LoginPath: "/login"},
		Customs: config.CustomsConfig{
			SearchURL: "https://customs.test/search",
			APIURL:    "https://customs.test/api/search",
		},
		Lookup: config.LookupConfig{
			MaxConcurrency: 3,
			Timeout:        time.Second,
			Retries:        1,
		},
		Browser: config.BrowserConfig{Headless: true},
		Cache:   config.CacheConfig{LookupTTL: time.Minute},
	}
}

func TestBuild(t *testing.T) {
	a, err := Build(testConfig())
	require.NoError(t, err)

	assert.NotNil(t, a.Shipments)
	assert.NotNil(t, a.Lookups)
	assert.Equal(t, 3, a.Pool.Stats().MaxConcurrency)
	assert.Nil(t, a.cache)

	// No browser has been launched, so closing is immediate.
	require.NoError(t, a.Close(context.Background()))
}

func TestBuild_InvalidPool(t *testing.T) {
	cfg := testConfig()
	cfg.Lookup.MaxConcurrency = 0

	_, err := Build(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create lookup pool")
}

func TestBuild_WithCache(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := testConfig()
	cfg.Cache.RedisURL = "redis://" + mr.Addr()

	a, err := Build(cfg)
	require.NoError(t, err)
	assert.NotNil(t, a.cache)

	require.NoError(t, a.Close(context.Background()))
}

func TestBuild_UnreachableCache(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	cfg := testConfig()
	cfg.Cache.RedisURL = "redis://" + addr

	a, err := Build(cfg)
	require.NoError(t, err)
	assert.Nil(t, a.cache)

	require.NoError(t, a.Close(context.Background()))
}
