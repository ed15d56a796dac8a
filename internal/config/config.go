package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// Token TTL bounds. Credentials are short-lived by design; a TTL outside
// this window is clamped at load time.
const (
	MinTokenTTL = 10 * time.Minute
	MaxTokenTTL = 15 * time.Minute
)

// Config holds all configuration for the session-api service.
type Config struct {
	// Service settings
	ServiceName     string        `env:"SERVICE_NAME" envDefault:"session-api"`
	Environment     string        `env:"ENVIRONMENT" envDefault:"development"`
	HTTPPort        int           `env:"SESSION_API_PORT" envDefault:"8187"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat       string        `env:"LOG_FORMAT" envDefault:"json"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	// OpenTelemetry
	EnableTracing bool   `env:"OTEL_ENABLED" envDefault:"false"`
	OTLPEndpoint  string `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:""`

	// Auth (optional bearer JWT validated against a JWKS endpoint)
	AuthEnabled  bool   `env:"AUTH_ENABLED" envDefault:"false"`
	AuthIssuer   string `env:"ISSUER"`
	AuthAudience string `env:"AUDIENCE"`
	AuthJWKSURL  string `env:"JWKS_URL"`

	// LiveKit
	LiveKitWsURL     string        `env:"LIVEKIT_URL" envDefault:"ws://localhost:7880"`
	LiveKitAPIKey    string        `env:"LIVEKIT_API_KEY"`
	LiveKitAPISecret string        `env:"LIVEKIT_API_SECRET"`
	TokenTTL         time.Duration `env:"SESSION_TOKEN_TTL" envDefault:"15m"`

	// Lesson rooms
	RoomEmptyTimeoutFloor  time.Duration `env:"ROOM_EMPTY_TIMEOUT_FLOOR" envDefault:"15m"`
	RoomEmptyTimeoutBuffer time.Duration `env:"ROOM_EMPTY_TIMEOUT_BUFFER" envDefault:"10m"`

	// Session record maintenance
	SessionCleanupInterval time.Duration `env:"SESSION_CLEANUP_INTERVAL" envDefault:"15s"`
	SessionStaleTTL        time.Duration `env:"SESSION_STALE_TTL" envDefault:"10m"` // How long before a "created" session is considered stale
}

// Load parses environment variables into Config.
// Missing LiveKit credentials are a deployment defect: the service refuses to
// start rather than failing every request at runtime.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env config: %w", err)
	}

	// Validate auth configuration
	if cfg.AuthEnabled {
		if strings.TrimSpace(cfg.AuthIssuer) == "" {
			return nil, fmt.Errorf("ISSUER is required when AUTH_ENABLED is true")
		}
		if strings.TrimSpace(cfg.AuthAudience) == "" {
			return nil, fmt.Errorf("AUDIENCE is required when AUTH_ENABLED is true")
		}
		if strings.TrimSpace(cfg.AuthJWKSURL) == "" {
			return nil, fmt.Errorf("JWKS_URL is required when AUTH_ENABLED is true")
		}
	}

	// Validate LiveKit configuration
	if strings.TrimSpace(cfg.LiveKitWsURL) == "" {
		return nil, fmt.Errorf("LIVEKIT_URL is required")
	}
	if strings.TrimSpace(cfg.LiveKitAPIKey) == "" {
		return nil, fmt.Errorf("LIVEKIT_API_KEY is required")
	}
	if strings.TrimSpace(cfg.LiveKitAPISecret) == "" {
		return nil, fmt.Errorf("LIVEKIT_API_SECRET is required")
	}

	cfg.TokenTTL = ClampTokenTTL(cfg.TokenTTL)

	return cfg, nil
}

// ClampTokenTTL bounds a credential TTL to the allowed window.
func ClampTokenTTL(ttl time.Duration) time.Duration {
	if ttl < MinTokenTTL {
		return MinTokenTTL
	}
	if ttl > MaxTokenTTL {
		return MaxTokenTTL
	}
	return ttl
}

// Addr returns the HTTP server address.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}
