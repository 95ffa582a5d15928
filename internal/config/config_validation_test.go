package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr error
	}{
		{
			name: "valid",
			cfg: Config{Supabase: Supabase{
				URL:     "https://demo.supabase.co",
				AnonKey: "anon-123",
			}},
		},
		{
			name:    "missing url",
			cfg:     Config{Supabase: Supabase{AnonKey: "anon-123"}},
			wantErr: ErrMissingSupabaseURL,
		},
		{
			name:    "missing anon key",
			cfg:     Config{Supabase: Supabase{URL: "https://demo.supabase.co"}},
			wantErr: ErrMissingAnonKey,
		},
		{
			name: "url without scheme gets https",
			cfg: Config{Supabase: Supabase{
				URL:     "demo.supabase.co",
				AnonKey: "anon-123",
			}},
		},
		{
			name: "unparseable url",
			cfg: Config{Supabase: Supabase{
				URL:     "http://[::1",
				AnonKey: "anon-123",
			}},
			wantErr: ErrInvalidSupabaseURL,
		},
		{
			name:    "whitespace only url",
			cfg:     Config{Supabase: Supabase{URL: "   ", AnonKey: "anon-123"}},
			wantErr: ErrMissingSupabaseURL,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.validate()
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.applyDefaults()

	assert.Equal(t, defaultRequestTimeout, cfg.Supabase.RequestTimeout)
	assert.Equal(t, defaultMarketingURL, cfg.App.MarketingURL)
	assert.Equal(t, defaultRefreshInterval, cfg.App.RefreshInterval)
}
