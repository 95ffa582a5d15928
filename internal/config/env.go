package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// envPrefix is the global prefix for every environment variable the client
// reads, applied on top of the nested envPrefix struct tags.
const envPrefix = "CROPBOARD_"

// parseEnv populates cfg from environment variables using the caarlos0/env
// library. Struct fields are mapped via their `env` and `envPrefix` tags
// defined on [Config] and its nested types.
func parseEnv(cfg *Config) error {
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: envPrefix}); err != nil {
		return fmt.Errorf("error getting env configs: %w", err)
	}

	return nil
}
