package config

import (
	"net/url"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalizeEnvKey(t *testing.T) {
	existing := map[string]any{
		"postgres": map[string]any{"sslMode": "disable", "host": "db"},
		"auth":     map[string]any{"jwtSecret": ""},
		"queue":    map[string]any{"maxAttempts": 3},
	}

	tests := []struct {
		envKey string
		want   string
	}{
		{"POSTGRES_SSLMODE", "postgres.sslMode"},
		{"POSTGRES_HOST", "postgres.host"},
		{"AUTH_JWTSECRET", "auth.jwtSecret"},
		{"QUEUE_MAXATTEMPTS", "queue.maxAttempts"},
		{"BRAND_NEW_KEY", "brand.new.key"},
	}

	for _, tt := range tests {
		t.Run(tt.envKey, func(t *testing.T) {
			assert.Equal(t, tt.want, canonicalizeEnvKey(tt.envKey, existing))
		})
	}
}

func TestLoadWithEnv_FileAndEnvOverride(t *testing.T) {
	dir := t.TempDir()
	yaml := `
env:
  name: test
postgres:
  host: localhost
  port: 5432
auth:
  jwtSecret: from-file
  tokenTtl: 2h
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "belaytest.yaml"), []byte(yaml), 0o600))

	t.Setenv("AUTH_JWTSECRET", "from-env")
	t.Chdir(dir)

	cfg, err := LoadWithEnv[Config]("belaytest")
	require.NoError(t, err)

	assert.Equal(t, "test", cfg.Env.Name)
	assert.Equal(t, "localhost", cfg.Postgres.Host)
	assert.Equal(t, 5432, cfg.Postgres.Port)
	assert.Equal(t, "from-env", cfg.Auth.JWTSecret)
	assert.Equal(t, 2*time.Hour, cfg.Auth.TokenTTL)
}

func TestLoadWithEnv_MissingFile(t *testing.T) {
	t.Chdir(t.TempDir())
	_, err := LoadWithEnv[Config]("does-not-exist")
	assert.Error(t, err)
}

func TestValidateAndDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.applyDefaults()
	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.Equal(t, 3, cfg.Queue.MaxAttempts)
	assert.Error(t, cfg.Validate())

	cfg.Auth.JWTSecret = "s"
	cfg.Postgres.Host = "h"
	assert.NoError(t, cfg.Validate())
}

func TestPostgresDSN(t *testing.T) {
	p := PostgresConfig{Host: "h", Port: 5432, User: "u", Password: "p", DB: "belay"}
	assert.Equal(t, "postgres://u:p@h:5432/belay?sslmode=disable", p.DSN())
}

func TestPostgresDSN_EscapesCredentials(t *testing.T) {
	p := PostgresConfig{Host: "db.internal", Port: 6432, User: "belay@ops", Password: "p@ss:w/rd?#1", DB: "belay", SSLMode: "require"}

	parsed, err := url.Parse(p.DSN())
	require.NoError(t, err)
	assert.Equal(t, "db.internal:6432", parsed.Host)
	assert.Equal(t, "belay@ops", parsed.User.Username())
	password, ok := parsed.User.Password()
	require.True(t, ok)
	assert.Equal(t, "p@ss:w/rd?#1", password)
	assert.Equal(t, "/belay", parsed.Path)
	assert.Equal(t, "require", parsed.Query().Get("sslmode"))
}
