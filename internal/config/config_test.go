package config

import (
	"testing"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, vars map[string]string) (*Config, error) {
	t.Helper()
	return Parse(env.Options{Environment: vars})
}

func TestParse_Defaults(t *testing.T) {
	cfg, err := parse(t, map[string]string{})
	require.NoError(t, err)

	assert.Equal(t, "dev", cfg.App.Env)
	assert.Equal(t, ":8080", cfg.App.Addr)
	assert.Equal(t, 220*time.Millisecond, cfg.Funnel.Transition)
	assert.Equal(t, "X-Vercel-IP-Country", cfg.Locale.GeoHeader)
	assert.Equal(t, 365*24*time.Hour, cfg.Locale.CookieMaxAge)
	assert.Equal(t, StorageLocal, cfg.Storage.Driver)
	assert.Equal(t, []string{"http://localhost:3000", "http://localhost:5173"}, cfg.CORS.AllowedOrigins)
	assert.False(t, cfg.SMTP.Enabled())
	assert.False(t, cfg.IsProd())
	assert.Empty(t, cfg.App.TrustedProxies)
}

func TestParse_TrustedProxies(t *testing.T) {
	cfg, err := parse(t, map[string]string{"APP_TRUSTED_PROXIES": "10.0.0.0/8,192.0.2.1"})
	require.NoError(t, err)
	assert.Equal(t, []string{"10.0.0.0/8", "192.0.2.1"}, cfg.App.TrustedProxies)
}

func TestParse_Overrides(t *testing.T) {
	cfg, err := parse(t, map[string]string{
		"APP_ENV":              "Staging",
		"APP_BASE_URL":         "https://diez.agency/",
		"FUNNEL_TRANSITION":    "0s",
		"CORS_ALLOWED_ORIGINS": "https://a.test,https://b.test",
		"SMTP_HOST":            "smtp.test",
		"SMTP_NOTIFY_TO":       "hello@diez.agency",
	})
	require.NoError(t, err)

	assert.Equal(t, "staging", cfg.App.Env)
	assert.Equal(t, "https://diez.agency", cfg.App.BaseURL)
	assert.Zero(t, cfg.Funnel.Transition)
	assert.Equal(t, []string{"https://a.test", "https://b.test"}, cfg.CORS.AllowedOrigins)
	assert.True(t, cfg.SMTP.Enabled())
}

func TestParse_Validation(t *testing.T) {
	cases := map[string]map[string]string{
		"negative transition":  {"FUNNEL_TRANSITION": "-1s"},
		"zero session ttl":     {"FUNNEL_SESSION_TTL": "0s"},
		"zero rate limit":      {"RATE_LIMIT_REQUESTS": "0"},
		"unknown storage":      {"STORAGE_DRIVER": "ftp"},
		"s3 without bucket":    {"STORAGE_DRIVER": "s3"},
		"bad duration":         {"JWT_TTL": "soon"},
		"prod default secret":  {"APP_ENV": "production", "LOCALE_COOKIE_SECURE": "true"},
		"prod insecure cookie": {"APP_ENV": "prod", "JWT_SECRET": "a-real-secret"},
	}
	for name, vars := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := parse(t, vars)
			assert.Error(t, err)
		})
	}
}

func TestParse_ProdAccepted(t *testing.T) {
	cfg, err := parse(t, map[string]string{
		"APP_ENV":              "release",
		"JWT_SECRET":           "a-real-secret",
		"LOCALE_COOKIE_SECURE": "true",
		"STORAGE_DRIVER":       "S3",
		"S3_BUCKET":            "diez-media",
	})
	require.NoError(t, err)
	assert.True(t, cfg.IsProd())
	assert.Equal(t, StorageS3, cfg.Storage.Driver)
}
