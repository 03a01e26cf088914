package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("Server.Addr = %q, want :8080", cfg.Server.Addr)
	}
	if cfg.Rate.Driver != "memory" {
		t.Errorf("Rate.Driver = %q, want memory", cfg.Rate.Driver)
	}
	if cfg.RateWindow() != time.Minute {
		t.Errorf("RateWindow = %v, want 1m", cfg.RateWindow())
	}
	if cfg.Identity.Driver != "stub" {
		t.Errorf("Identity.Driver = %q, want stub", cfg.Identity.Driver)
	}
}

func TestLoad_InvalidWindow(t *testing.T) {
	path := writeConfig(t, "rate:\n  window: nope\n")
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for unparseable rate.window")
	}
}

func TestLoad_RedisDriverRequiresAddr(t *testing.T) {
	path := writeConfig(t, "rate:\n  driver: redis\n")
	if _, err := Load(path); err == nil {
		t.Fatal("expected error: redis driver without cache.redis.addr")
	}
}

func TestLoad_PostgresDriverRequiresDSN(t *testing.T) {
	path := writeConfig(t, "rate:\n  driver: postgres\n")
	if _, err := Load(path); err == nil {
		t.Fatal("expected error: postgres driver without dsn")
	}
}

func TestLoad_ProdRequiresJWTSecret(t *testing.T) {
	path := writeConfig(t, "app:\n  env: prod\n")
	if _, err := Load(path); err == nil {
		t.Fatal("expected error: prod without identity.jwt_secret")
	}
}

func TestLoad_ProdForcesRemoteIdentity(t *testing.T) {
	path := writeConfig(t, `
app:
  env: prod
identity:
  driver: stub
  base_url: "https://id.example.test"
  jwt_secret: "s3cret"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Identity.Driver != "remote" {
		t.Errorf("Identity.Driver = %q, want remote in prod", cfg.Identity.Driver)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SERVER_ADDR", ":9999")
	t.Setenv("RATE_WINDOW", "90s")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Addr != ":9999" {
		t.Errorf("Server.Addr = %q, want :9999", cfg.Server.Addr)
	}
	if cfg.RateWindow() != 90*time.Second {
		t.Errorf("RateWindow = %v, want 90s", cfg.RateWindow())
	}
}
