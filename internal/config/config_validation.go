package config

import (
	"fmt"
	"net/url"
	"strings"
)

// validate checks that the merged [Config] carries the two required external
// values. Their absence is the only fatal, startup-only error class the client
// has; nothing is attempted past it.
func (cfg *Config) validate() error {
	if strings.TrimSpace(cfg.Supabase.URL) == "" {
		return ErrMissingSupabaseURL
	}
	if strings.TrimSpace(cfg.Supabase.AnonKey) == "" {
		return ErrMissingAnonKey
	}

	raw := strings.TrimSpace(cfg.Supabase.URL)
	if !strings.Contains(raw, "://") {
		// The backend client defaults the scheme to https; validate the same
		// value it will see.
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%w: %q", ErrInvalidSupabaseURL, cfg.Supabase.URL)
	}

	return nil
}
