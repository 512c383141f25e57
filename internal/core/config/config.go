package config

import (
	"fmt"
	"time"

	redisclient "github.com/vietddude/movies/internal/infra/redis"
	"github.com/vietddude/movies/internal/infra/storage/postgres"
)

// Role selects which services a process runs.
type Role string

const (
	RoleMovieInfo Role = "movie-info"
	RoleReview    Role = "review"
	RoleMovies    Role = "movies"
	RoleAll       Role = "all"
)

// Serves reports whether a process with role r hosts the service named by other.
func (r Role) Serves(other Role) bool {
	return r == RoleAll || r == other
}

// AppConfig represents the top-level configuration.
type AppConfig struct {
	Role     Role               `yaml:"role"`
	Server   ServerConfig       `yaml:"server"`
	Clients  ClientsConfig      `yaml:"clients"`
	Retry    RetryConfig        `yaml:"retry"`
	Stream   StreamConfig       `yaml:"stream"`
	Redis    redisclient.Config `yaml:"redis"`
	Logging  LoggingConfig      `yaml:"logging"`
	Database postgres.Config    `yaml:"database"`
}

// ServerConfig holds HTTP and gRPC server settings.
type ServerConfig struct {
	Port     int `yaml:"port"`
	GRPCPort int `yaml:"grpc_port"` // 0 disables the gRPC health service
}

// ClientsConfig locates the upstream services used by the movies role.
type ClientsConfig struct {
	MoviesInfoURL string        `yaml:"movies_info_url"`
	ReviewsURL    string        `yaml:"reviews_url"`
	Timeout       time.Duration `yaml:"timeout"`
}

// RetryConfig is the fixed-delay retry policy applied to upstream lookups.
type RetryConfig struct {
	MaxAttempts int           `yaml:"max_attempts"`
	Delay       time.Duration `yaml:"delay"`
	MovieInfo   *bool         `yaml:"movie_info"` // also retry catalog lookups; default true
}

// RetryMovieInfo reports whether catalog lookups are retried.
func (c RetryConfig) RetryMovieInfo() bool {
	return c.MovieInfo == nil || *c.MovieInfo
}

// StreamConfig tunes the live record streams.
type StreamConfig struct {
	BufferSize    int    `yaml:"buffer_size"`
	ChannelPrefix string `yaml:"channel_prefix"`
}

// Channel returns the relay channel of a stream.
func (c StreamConfig) Channel(name string) string {
	return c.ChannelPrefix + ":" + name
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// Validate checks values that have no sensible default.
func (c *AppConfig) Validate() error {
	switch c.Role {
	case RoleMovieInfo, RoleReview, RoleMovies, RoleAll:
	default:
		return fmt.Errorf("unknown role %q", c.Role)
	}
	if c.Retry.MaxAttempts < 1 {
		return fmt.Errorf("retry.max_attempts must be at least 1, got %d", c.Retry.MaxAttempts)
	}
	if c.Retry.Delay < 0 {
		return fmt.Errorf("retry.delay must not be negative, got %s", c.Retry.Delay)
	}
	if c.Server.Port <= 0 {
		return fmt.Errorf("server.port must be positive, got %d", c.Server.Port)
	}
	return nil
}
