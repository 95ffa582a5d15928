// Package config loads the cropboard client configuration from environment
// variables, command-line flags, and an optional JSON file, merged in that
// order. The two Supabase values (project URL and anon key) are required;
// their absence is a startup-only error class: the application renders a
// configuration help panel and nothing else is attempted.
package config
