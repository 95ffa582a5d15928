package config

import (
	"flag"
	"time"
)

// ParseFlags parses all configuration flags.
//
// Flags:
//
//	-url Supabase project base URL
//	-anon-key Supabase anon (public) API key
//	-request-timeout backend request timeout (e.g., "15s", "1m")
//	-marketing-url external marketing site URL
//	-refresh-interval background refresh period (e.g., "5m")
//	-cache local snapshot database path
//	-c/-config json file path with configs
func ParseFlags() *Config {
	var supabaseURL string
	var anonKey string
	var requestTimeout time.Duration
	var marketingURL string
	var refreshInterval time.Duration
	var cachePath string
	var jsonConfigPath string

	flag.StringVar(&supabaseURL, "url", "", "Supabase project base URL")
	flag.StringVar(&anonKey, "anon-key", "", "Supabase anon API key")
	flag.DurationVar(&requestTimeout, "request-timeout", 0, "Backend request timeout (e.g., 15s, 1m)")
	flag.StringVar(&marketingURL, "marketing-url", "", "Marketing site URL")
	flag.DurationVar(&refreshInterval, "refresh-interval", 0, "Background refresh period (e.g., 5m)")
	flag.StringVar(&cachePath, "cache", "", "Snapshot database path")
	flag.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	flag.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")

	flag.Parse()

	return &Config{
		Supabase: Supabase{
			URL:            supabaseURL,
			AnonKey:        anonKey,
			RequestTimeout: requestTimeout,
		},
		App: App{
			MarketingURL:    marketingURL,
			RefreshInterval: refreshInterval,
		},
		Cache: Cache{
			Path: cachePath,
		},
		JSONFilePath: jsonConfigPath,
	}
}
