package config

import "errors"

var (
	// ErrMissingSupabaseURL reports the absent backend endpoint. Fatal at
	// startup; the application renders a configuration-error state and stops.
	ErrMissingSupabaseURL = errors.New("missing Supabase URL (set CROPBOARD_SUPABASE_URL)")

	// ErrMissingAnonKey reports the absent backend API key. Fatal at startup.
	ErrMissingAnonKey = errors.New("missing Supabase anon key (set CROPBOARD_SUPABASE_ANON_KEY)")

	// ErrInvalidSupabaseURL reports a URL that cannot be parsed.
	ErrInvalidSupabaseURL = errors.New("invalid Supabase URL")
)
