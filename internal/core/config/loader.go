package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v2"
)

// Load reads configuration from a YAML file. An empty path yields the defaults.
func Load(path string) (*AppConfig, error) {
	var cfg AppConfig

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		// Expand environment variables in the YAML content
		expandedData := os.ExpandEnv(string(data))
		if err := yaml.Unmarshal([]byte(expandedData), &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	applyDefaults(&cfg)
	return &cfg, nil
}

func applyDefaults(cfg *AppConfig) {
	if cfg.Role == "" {
		cfg.Role = RoleAll
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}

	if cfg.Clients.MoviesInfoURL == "" {
		cfg.Clients.MoviesInfoURL = fmt.Sprintf("http://localhost:%d/v1/movies-info", cfg.Server.Port)
	}
	if cfg.Clients.ReviewsURL == "" {
		cfg.Clients.ReviewsURL = fmt.Sprintf("http://localhost:%d/v1/reviews", cfg.Server.Port)
	}
	if cfg.Clients.Timeout == 0 {
		cfg.Clients.Timeout = 10 * time.Second
	}

	if cfg.Retry.MaxAttempts == 0 {
		cfg.Retry.MaxAttempts = 3
	}
	if cfg.Retry.Delay == 0 {
		cfg.Retry.Delay = time.Second
	}

	if cfg.Stream.BufferSize == 0 {
		cfg.Stream.BufferSize = 16
	}
	if cfg.Stream.ChannelPrefix == "" {
		cfg.Stream.ChannelPrefix = "movies"
	}

	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "pgx"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
}
