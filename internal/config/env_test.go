package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnv_AllFields(t *testing.T) {
	t.Setenv("CROPBOARD_SUPABASE_URL", "https://demo.supabase.co")
	t.Setenv("CROPBOARD_SUPABASE_ANON_KEY", "anon-123")
	t.Setenv("CROPBOARD_SUPABASE_REQUEST_TIMEOUT", "20s")
	t.Setenv("CROPBOARD_APP_MARKETING_URL", "https://example.com")
	t.Setenv("CROPBOARD_CACHE_PATH", "/tmp/snap.db")

	cfg := &Config{}
	require.NoError(t, parseEnv(cfg))

	assert.Equal(t, "https://demo.supabase.co", cfg.Supabase.URL)
	assert.Equal(t, "anon-123", cfg.Supabase.AnonKey)
	assert.Equal(t, 20*time.Second, cfg.Supabase.RequestTimeout)
	assert.Equal(t, "https://example.com", cfg.App.MarketingURL)
	assert.Equal(t, "/tmp/snap.db", cfg.Cache.Path)
}

func TestParseEnv_EmptyEnvironment(t *testing.T) {
	cfg := &Config{}
	require.NoError(t, parseEnv(cfg))
	assert.Empty(t, cfg.Supabase.URL)
	assert.Empty(t, cfg.Supabase.AnonKey)
}
