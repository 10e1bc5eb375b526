package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.App.HTTP.Port != 8000 {
		t.Fatalf("default port = %d", c.App.HTTP.Port)
	}
	if c.DB.Driver != "sqlite" || c.Storage.Driver != "local" {
		t.Fatalf("unexpected defaults: db=%q storage=%q", c.DB.Driver, c.Storage.Driver)
	}
	if c.JWT.RefreshTokenTTLHrs != 24 {
		t.Fatalf("refresh ttl = %d", c.JWT.RefreshTokenTTLHrs)
	}
	if c.App.Admin.ReadTimeoutSec != 120 || c.App.Admin.WriteTimeoutSec != 120 {
		t.Fatalf("admin timeouts = %d/%d", c.App.Admin.ReadTimeoutSec, c.App.Admin.WriteTimeoutSec)
	}
	if c.App.Limits.PerIPRPS != 200 || c.App.Limits.GlobalRPS != 0 {
		t.Fatalf("limits = %+v", c.App.Limits)
	}
}

func TestLoadFileAndEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := []byte(`
app:
  http:
    port: 9090
  limits:
    global_rps: 50
    global_burst: 100
db:
  driver: postgres
  dsn: postgres://u:p@localhost/estate
redis:
  addr: 127.0.0.1:6379
`)
	if err := os.WriteFile(path, body, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("APP_JWT_SECRET", "from-env")

	c, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.App.HTTP.Port != 9090 {
		t.Fatalf("port = %d", c.App.HTTP.Port)
	}
	if c.App.Limits.GlobalRPS != 50 || c.App.Limits.GlobalBurst != 100 {
		t.Fatalf("limits = %+v", c.App.Limits)
	}
	if c.DB.Driver != "postgres" || c.Redis.Addr != "127.0.0.1:6379" {
		t.Fatalf("file values not applied: %+v %+v", c.DB, c.Redis)
	}
	if c.JWT.Secret != "from-env" {
		t.Fatalf("env override not applied: %q", c.JWT.Secret)
	}
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("app: [unclosed"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for malformed yaml")
	}
}
