package config

import (
	"database/sql"
	"strings"
	"testing"
	"time"
)

func TestLoadRequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	if _, err := Load(); err == nil {
		t.Fatal("expected error without JWT_SECRET")
	}
}

func TestLoadShortSecretOutsideDev(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "short")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for short secret in production")
	}
}

func TestLoadDefaultsAndOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "dev")
	t.Setenv("JWT_SECRET", "dev-secret")
	t.Setenv("HTTP_PORT", "8090")
	t.Setenv("JWT_TOKEN_TTL", "2h")
	t.Setenv("DB_MAX_OPEN_CONNS", "not-a-number")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("DB_NAME", "pricing_test")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.HTTPPort != "8090" {
		t.Fatalf("port = %s", cfg.Server.HTTPPort)
	}
	if cfg.JWT.TokenTTL != 2*time.Hour {
		t.Fatalf("ttl = %s", cfg.JWT.TokenTTL)
	}
	if cfg.Postgres.MaxOpenConns != 50 {
		t.Fatalf("max open conns = %d, want default 50", cfg.Postgres.MaxOpenConns)
	}
	if dsn := cfg.PostgresDSN(); !strings.Contains(dsn, "dbname=pricing_test") {
		t.Fatalf("dsn = %s", dsn)
	}
	if lvl, _ := cfg.Pricing.Isolation(); lvl != sql.LevelRepeatableRead {
		t.Fatalf("isolation = %v, want repeatable read", lvl)
	}
}

func TestIsolation(t *testing.T) {
	cases := map[string]sql.IsolationLevel{
		"":                sql.LevelDefault,
		"default":         sql.LevelDefault,
		"READ_COMMITTED":  sql.LevelReadCommitted,
		"repeatable_read": sql.LevelRepeatableRead,
		"serializable":    sql.LevelSerializable,
	}
	for in, want := range cases {
		got, err := PricingConfig{ReadIsolation: in}.Isolation()
		if err != nil || got != want {
			t.Fatalf("%q: got %v %v, want %v", in, got, err, want)
		}
	}
	if _, err := (PricingConfig{ReadIsolation: "snapshot"}).Isolation(); err == nil {
		t.Fatal("expected error for unknown level")
	}
}
