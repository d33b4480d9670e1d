package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadEnvDefaults(t *testing.T) {
	t.Setenv("APP_ADDR", "")
	t.Setenv("SESSION_TTL", "not-a-duration")
	t.Setenv("SMTP_PORT", "abc")
	t.Setenv("CORS_ALLOWED_ORIGINS", " http://a.test ,, http://b.test ")

	env := LoadEnv()
	if env.AppAddr != ":8080" {
		t.Fatalf("AppAddr = %q, want :8080", env.AppAddr)
	}
	if env.SessionTTL != 24*time.Hour {
		t.Fatalf("SessionTTL = %v, want 24h", env.SessionTTL)
	}
	if env.SMTP.Port != 587 {
		t.Fatalf("SMTP.Port = %d, want 587", env.SMTP.Port)
	}
	if len(env.CORSOrigins) != 2 || env.CORSOrigins[1] != "http://b.test" {
		t.Fatalf("unexpected CORS origins: %v", env.CORSOrigins)
	}
}

func TestEnvDSNAndProduction(t *testing.T) {
	env := Env{AppEnv: "Production", DB: DBConfig{User: "u", Password: "p", Host: "db:3306", Name: "resort"}}
	if !env.IsProduction() {
		t.Fatalf("expected production env")
	}
	dsn := env.DSN()
	if !strings.HasPrefix(dsn, "u:p@tcp(db:3306)/resort?") || !strings.Contains(dsn, "parseTime=true") {
		t.Fatalf("unexpected dsn: %s", dsn)
	}
}
