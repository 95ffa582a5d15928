package config

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// flags are skipped in builder tests: flag.Parse interacts with the test
// binary's own flag set, and the merge semantics are identical for every
// source.

func TestBuilder_EnvOnly(t *testing.T) {
	t.Setenv("CROPBOARD_SUPABASE_URL", "https://env.supabase.co")
	t.Setenv("CROPBOARD_SUPABASE_ANON_KEY", "env-key")

	cfg, err := newConfigBuilder().withEnv().withJSON().build()
	require.NoError(t, err)

	assert.Equal(t, "https://env.supabase.co", cfg.Supabase.URL)
	assert.Equal(t, "env-key", cfg.Supabase.AnonKey)
}

// TestBuilder_EnvWinsOverJSON verifies the documented priority: a value set in
// the environment is not overwritten by the JSON file, while fields the
// environment leaves empty are filled from JSON.
func TestBuilder_EnvWinsOverJSON(t *testing.T) {
	path := writeTempJSON(t, `{
		"supabase": {"url": "https://json.supabase.co", "anon_key": "json-key"},
		"app": {"marketing_url": "https://json.example.com"}
	}`)
	t.Setenv("CROPBOARD_SUPABASE_URL", "https://env.supabase.co")
	t.Setenv("CROPBOARD_CONFIG", path)

	cfg, err := newConfigBuilder().withEnv().withJSON().build()
	require.NoError(t, err)

	assert.Equal(t, "https://env.supabase.co", cfg.Supabase.URL)
	assert.Equal(t, "json-key", cfg.Supabase.AnonKey)
	assert.Equal(t, "https://json.example.com", cfg.App.MarketingURL)
}

func TestBuilder_BrokenJSONSurfacesError(t *testing.T) {
	path := writeTempJSON(t, `{broken`)
	t.Setenv("CROPBOARD_CONFIG", path)

	_, err := newConfigBuilder().withEnv().withJSON().build()
	require.Error(t, err)
}

func TestGetLike_ValidationFailure(t *testing.T) {
	// No URL or key anywhere: the merged config must fail validation with the
	// dedicated sentinel.
	cfg, err := newConfigBuilder().withEnv().withJSON().build()
	require.NoError(t, err)
	cfg.applyDefaults()

	assert.True(t, errors.Is(cfg.validate(), ErrMissingSupabaseURL))
}
