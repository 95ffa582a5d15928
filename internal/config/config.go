package config

import "time"

// Config is the top-level configuration for the cropboard client. It is
// populated by merging environment variables, command-line flags, and an
// optional JSON file (later sources fill fields the earlier ones left empty).
//
// Struct tags:
//   - envPrefix: prefix applied to nested env tag lookups (caarlos0/env);
//     the global CROPBOARD_ prefix is applied at parse time.
//   - env: environment variable name for scalar fields.
type Config struct {
	// Supabase holds the two required backend endpoint/credential values and
	// the outbound request timeout. URL and AnonKey have no defaults: their
	// absence is a fatal configuration error with no degraded mode.
	Supabase Supabase `envPrefix:"SUPABASE_" json:"supabase,omitempty"`

	// App holds application-level settings.
	App App `envPrefix:"APP_" json:"app,omitempty"`

	// Cache holds settings for the local snapshot database.
	Cache Cache `envPrefix:"CACHE_" json:"cache,omitempty"`

	// JSONFilePath is the optional path to a JSON configuration file, merged
	// on top of values already loaded from environment and flags.
	// Populated via CROPBOARD_CONFIG or the -c / -config flag.
	JSONFilePath string `env:"CONFIG" json:"-"`
}

// Supabase holds connection settings for the external backend.
type Supabase struct {
	// URL is the project base URL (e.g. "https://xyz.supabase.co").
	// Env: CROPBOARD_SUPABASE_URL
	URL string `env:"URL" json:"url"`

	// AnonKey is the public API key sent in the apikey header of every
	// request.
	// Env: CROPBOARD_SUPABASE_ANON_KEY
	AnonKey string `env:"ANON_KEY" json:"anon_key"`

	// RequestTimeout is the per-request timeout for backend calls
	// (e.g. "15s"). Defaults to 15 seconds when unset.
	// Env: CROPBOARD_SUPABASE_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" json:"request_timeout"`
}

// App holds application-level client settings.
type App struct {
	// MarketingURL is the external site opened by the "visit store" action.
	// Env: CROPBOARD_APP_MARKETING_URL
	MarketingURL string `env:"MARKETING_URL" json:"marketing_url"`

	// Version is the semantic version of the running client.
	// Env: CROPBOARD_APP_VERSION
	Version string `env:"VERSION" json:"version"`

	// RefreshInterval defines how often the background refresh job reloads
	// the feed and batch lists (e.g. "5m"). Defaults to 5 minutes when unset.
	// Env: CROPBOARD_APP_REFRESH_INTERVAL
	RefreshInterval time.Duration `env:"REFRESH_INTERVAL" json:"refresh_interval"`
}

// Cache holds settings for the local sqlite snapshot store.
type Cache struct {
	// Path is the sqlite file holding the last good feed/batch snapshot.
	// Empty disables the snapshot cache.
	// Env: CROPBOARD_CACHE_PATH
	Path string `env:"PATH" json:"path"`
}

const (
	defaultRequestTimeout  = 15 * time.Second
	defaultMarketingURL    = "https://www.walmart.com"
	defaultRefreshInterval = 5 * time.Minute
)

// Get loads, merges, and validates the client configuration from all sources
// in priority order (earlier sources win for non-zero fields):
//  1. Environment variables
//  2. Command-line flags
//  3. JSON file (path resolved from sources 1 and 2)
//
// Returns a fully populated *Config or an error if any source fails to load
// or the merged config fails validation.
func Get() (*Config, error) {
	cfg, err := newConfigBuilder().
		withEnv().
		withFlags().
		withJSON().
		build()
	if err != nil {
		return nil, err
	}

	cfg.applyDefaults()
	return cfg, cfg.validate()
}

func (cfg *Config) applyDefaults() {
	if cfg.Supabase.RequestTimeout <= 0 {
		cfg.Supabase.RequestTimeout = defaultRequestTimeout
	}
	if cfg.App.MarketingURL == "" {
		cfg.App.MarketingURL = defaultMarketingURL
	}
	if cfg.App.RefreshInterval <= 0 {
		cfg.App.RefreshInterval = defaultRefreshInterval
	}
}
