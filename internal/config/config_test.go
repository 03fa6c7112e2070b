package config

import (
	"testing"
	"time"
)

func TestValidateRequiresSecretOutsideDev(t *testing.T) {
	cfg := &Config{Env: "production", JWTTTLHours: 12, DBMaxConns: 20, DBMinConns: 5}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for missing JWT_SECRET in production")
	}
}

func TestValidateDevWithoutSecret(t *testing.T) {
	cfg := &Config{Env: "development", JWTTTLHours: 12, DBMaxConns: 20, DBMinConns: 5}
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestValidateRejectsBadPoolBounds(t *testing.T) {
	cfg := &Config{Env: "development", JWTTTLHours: 12, DBMaxConns: 2, DBMinConns: 5}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for max conns below min conns")
	}
}

func TestValidateRejectsNonPositiveTTL(t *testing.T) {
	cfg := &Config{Env: "development", JWTTTLHours: 0, DBMaxConns: 20, DBMinConns: 5}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for zero token TTL")
	}
}

func TestJWTTTL(t *testing.T) {
	cfg := &Config{JWTTTLHours: 8}
	if cfg.JWTTTL() != 8*time.Hour {
		t.Errorf("expected 8h, got %v", cfg.JWTTTL())
	}
}
