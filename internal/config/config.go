// Package config loads client configuration from the environment.
package config

import (
	"fmt"
	"strings"

	"github.com/kelseyhightower/envconfig"
)

// Config holds everything needed to talk to the CI platform. The token is
// the platform's own scoped token; the generation API key lives in the CI
// secret store and never passes through this client.
type Config struct {
	Token   string `envconfig:"GEMINI_WORKER_TOKEN" required:"true"`
	Owner   string `envconfig:"GEMINI_WORKER_OWNER" required:"true"`
	Repo    string `envconfig:"GEMINI_WORKER_REPO" required:"true"`
	Ref     string `envconfig:"GEMINI_WORKER_REF" default:"main"`
	BaseURL string `envconfig:"GEMINI_WORKER_API_URL" default:"https://api.github.com"`
}

// Load reads the configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Token == "" {
		return fmt.Errorf("token is required")
	}
	if c.Owner == "" || c.Repo == "" {
		return fmt.Errorf("owner and repo are required")
	}
	if strings.Contains(c.Owner, "/") {
		return fmt.Errorf("owner must not contain a slash, use separate owner and repo values")
	}
	return nil
}
