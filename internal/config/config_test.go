package config

import (
	"testing"
	"time"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("LIVEKIT_URL", "ws://localhost:7880")
	t.Setenv("LIVEKIT_API_KEY", "devkey")
	t.Setenv("LIVEKIT_API_SECRET", "devsecret")
}

func TestLoad(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.ServiceName != "session-api" {
		t.Errorf("ServiceName = %q", cfg.ServiceName)
	}
	if cfg.HTTPPort != 8187 {
		t.Errorf("HTTPPort = %d", cfg.HTTPPort)
	}
	if cfg.TokenTTL != 15*time.Minute {
		t.Errorf("TokenTTL = %v, want 15m", cfg.TokenTTL)
	}
}

func TestLoad_FailsFastOnMissingCredentials(t *testing.T) {
	tests := []struct {
		name  string
		unset string
	}{
		{name: "missing API key", unset: "LIVEKIT_API_KEY"},
		{name: "missing API secret", unset: "LIVEKIT_API_SECRET"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequiredEnv(t)
			t.Setenv(tt.unset, "")

			if _, err := Load(); err == nil {
				t.Fatal("Load() succeeded with missing credentials, want error")
			}
		})
	}
}

func TestLoad_FailsFastOnIncompleteAuth(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("AUTH_ENABLED", "true")
	t.Setenv("ISSUER", "https://idp.example.com/realms/lingua")
	// AUDIENCE and JWKS_URL missing

	if _, err := Load(); err == nil {
		t.Fatal("Load() succeeded with incomplete auth config, want error")
	}
}

func TestLoad_ClampsTokenTTL(t *testing.T) {
	tests := []struct {
		name string
		ttl  string
		want time.Duration
	}{
		{name: "below floor", ttl: "1m", want: MinTokenTTL},
		{name: "above ceiling", ttl: "2h", want: MaxTokenTTL},
		{name: "in range", ttl: "12m", want: 12 * time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequiredEnv(t)
			t.Setenv("SESSION_TOKEN_TTL", tt.ttl)

			cfg, err := Load()
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if cfg.TokenTTL != tt.want {
				t.Errorf("TokenTTL = %v, want %v", cfg.TokenTTL, tt.want)
			}
		})
	}
}
