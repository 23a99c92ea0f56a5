package config

import (
	"os"
	"testing"
	"time"
)

func setRequired(t *testing.T) {
	t.Helper()
	os.Setenv("JWT_ACCESS_SECRET", "access-secret")
	os.Setenv("JWT_REFRESH_SECRET", "refresh-secret")
}

func TestLoad_Defaults(t *testing.T) {
	os.Clearenv()
	setRequired(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Errorf("HTTPAddr = %q, want %q", cfg.HTTPAddr, ":8080")
	}
	if cfg.JWTIssuer != "session-gate" {
		t.Errorf("JWTIssuer = %q, want %q", cfg.JWTIssuer, "session-gate")
	}
	if cfg.JWTAudience != "session-gate-api" {
		t.Errorf("JWTAudience = %q, want %q", cfg.JWTAudience, "session-gate-api")
	}
	if cfg.JWTAccessTTL != "15m" {
		t.Errorf("JWTAccessTTL = %q, want %q", cfg.JWTAccessTTL, "15m")
	}
	if cfg.JWTRefreshTTL != "168h" {
		t.Errorf("JWTRefreshTTL = %q, want %q", cfg.JWTRefreshTTL, "168h")
	}
	if cfg.BcryptCost != 12 {
		t.Errorf("BcryptCost = %d, want 12", cfg.BcryptCost)
	}
	if !cfg.CookieSecure {
		t.Error("CookieSecure should default to true")
	}
	if cfg.RateLimitPerMinute != 30 || cfg.RateLimitBurst != 10 {
		t.Errorf("rate limit defaults: %d/%d", cfg.RateLimitPerMinute, cfg.RateLimitBurst)
	}
}

func TestLoad_MissingSecrets(t *testing.T) {
	os.Clearenv()
	if _, err := Load(); err == nil {
		t.Error("Load without secrets should fail")
	}
}

func TestLoad_EqualSecrets(t *testing.T) {
	os.Clearenv()
	os.Setenv("JWT_ACCESS_SECRET", "same")
	os.Setenv("JWT_REFRESH_SECRET", "same")
	if _, err := Load(); err == nil {
		t.Error("Load with identical secrets should fail")
	}
}

func TestLoad_EnvVarOverride(t *testing.T) {
	os.Clearenv()
	setRequired(t)
	os.Setenv("HTTP_ADDR", ":9090")
	os.Setenv("BCRYPT_COST", "14")
	os.Setenv("KAFKA_BROKERS", "b1:9092, b2:9092")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTPAddr != ":9090" {
		t.Errorf("HTTPAddr = %q, want :9090", cfg.HTTPAddr)
	}
	if cfg.BcryptCost != 14 {
		t.Errorf("BcryptCost = %d, want 14", cfg.BcryptCost)
	}
	brokers := cfg.KafkaBrokersList()
	if len(brokers) != 2 || brokers[0] != "b1:9092" || brokers[1] != "b2:9092" {
		t.Errorf("KafkaBrokersList = %v", brokers)
	}
}

func TestLoad_InvalidBcryptCost(t *testing.T) {
	os.Clearenv()
	setRequired(t)
	os.Setenv("BCRYPT_COST", "99")
	if _, err := Load(); err == nil {
		t.Error("Load with cost 99 should fail")
	}
}

func TestConfig_TTLFallbacks(t *testing.T) {
	c := &Config{JWTAccessTTL: "bogus", JWTRefreshTTL: ""}
	if got := c.AccessTTL(); got != 15*time.Minute {
		t.Errorf("AccessTTL fallback = %v", got)
	}
	if got := c.RefreshTTL(); got != 168*time.Hour {
		t.Errorf("RefreshTTL fallback = %v", got)
	}

	c = &Config{JWTAccessTTL: "5m", JWTRefreshTTL: "24h"}
	if got := c.AccessTTL(); got != 5*time.Minute {
		t.Errorf("AccessTTL = %v", got)
	}
	if got := c.RefreshTTL(); got != 24*time.Hour {
		t.Errorf("RefreshTTL = %v", got)
	}
}
