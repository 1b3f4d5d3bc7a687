package config

import (
	"testing"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseMap(m map[string]string) (*Config, error) {
	return parse(env.Options{Environment: m})
}

func TestParse_Defaults(t *testing.T) {
	cfg, err := parseMap(map[string]string{})
	require.NoError(t, err)

	assert.Equal(t, "dev", cfg.AppEnv)
	assert.Equal(t, ":8000", cfg.HTTPAddr)
	assert.Equal(t, "tokenrelay.db", cfg.DatabaseURL)
	assert.Equal(t, 15*time.Minute, cfg.AccessTTL)
	assert.Equal(t, 168*time.Hour, cfg.RenewalTTL)
	assert.Equal(t, "plain", cfg.SecretScheme)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.False(t, cfg.IsProdLike())
}

func TestParse_Overrides(t *testing.T) {
	cfg, err := parseMap(map[string]string{
		"APP_ENV":            "Staging",
		"HTTP_ADDR":          "127.0.0.1:9000",
		"DATABASE_URL":       "postgres://u:p@localhost/db",
		"JWT_ACCESS_SECRET":  " a ",
		"JWT_RENEWAL_SECRET": "r",
		"JWT_ACCESS_TTL":     "10s",
		"RENEWAL_TTL":        "24h",
		"SECRET_SCHEME":      "bcrypt",
	})
	require.NoError(t, err)

	assert.Equal(t, "staging", cfg.AppEnv)
	assert.Equal(t, "127.0.0.1:9000", cfg.HTTPAddr)
	assert.Equal(t, "a", cfg.AccessSecret)
	assert.Equal(t, 10*time.Second, cfg.AccessTTL)
	assert.Equal(t, 24*time.Hour, cfg.RenewalTTL)
	assert.Equal(t, "bcrypt", cfg.SecretScheme)
}

func TestParse_ValidationFailures(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"bad duration", map[string]string{"JWT_ACCESS_TTL": "soon"}},
		{"zero access ttl", map[string]string{"JWT_ACCESS_TTL": "0s"}},
		{"access not shorter than renewal", map[string]string{"JWT_ACCESS_TTL": "2h", "RENEWAL_TTL": "1h"}},
		{"shared secret", map[string]string{"JWT_ACCESS_SECRET": "x", "JWT_RENEWAL_SECRET": "x"}},
		{"unknown scheme", map[string]string{"SECRET_SCHEME": "md5"}},
		{"prod default secrets", map[string]string{"APP_ENV": "production"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseMap(tt.env)
			assert.Error(t, err)
		})
	}
}

func TestParse_ProdWithRealSecrets(t *testing.T) {
	cfg, err := parseMap(map[string]string{
		"APP_ENV":            "release",
		"JWT_ACCESS_SECRET":  "prod-access",
		"JWT_RENEWAL_SECRET": "prod-renewal",
	})
	require.NoError(t, err)
	assert.True(t, cfg.IsProdLike())
}

func TestParseClient(t *testing.T) {
	cfg, err := parseClient(env.Options{Environment: map[string]string{
		"SERVER_URL": "http://example.test:8000/",
	}})
	require.NoError(t, err)
	assert.Equal(t, "http://example.test:8000", cfg.ServerURL)
	assert.Equal(t, 10*time.Second, cfg.Timeout)

	_, err = parseClient(env.Options{Environment: map[string]string{"CLIENT_TIMEOUT": "0s"}})
	assert.Error(t, err)
}
