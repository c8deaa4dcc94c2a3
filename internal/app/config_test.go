package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "APP_ENV", "DB_DRIVER", "DB_DSN", "JWT_SECRET", "JWT_TTL", "CORS_ALLOWED_ORIGINS", "RATE_LIMIT_RPM", "SHIPPING_FEE", "TAX_RATE", "FREE_SHIPPING_THRESHOLD", "SEED_SAMPLE_DATA", "DB_NAME", "POSTGRES_DB"} {
		t.Setenv(k, "")
	}
	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Contains(t, cfg.DBDSN, "dbname=exactmatch")
	assert.Equal(t, devJWTSecret, cfg.JWTSecret)
	assert.Equal(t, 24*time.Hour, cfg.JWTTTL)
	assert.Equal(t, 120, cfg.RateLimitRPM)
	assert.Equal(t, "50", cfg.Pricing.ShippingFee.String())
	assert.Equal(t, "500", cfg.Pricing.FreeShippingThreshold.String())
	assert.Equal(t, "0.1", cfg.Pricing.TaxRate.String())
	assert.False(t, cfg.SeedData)
	assert.Empty(t, cfg.AllowedOrigins)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("JWT_TTL", "2h")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com,")
	t.Setenv("SHIPPING_FEE", "7.50")
	t.Setenv("TAX_RATE", "0.21")
	t.Setenv("SEED_SAMPLE_DATA", "true")
	t.Setenv("BASE_URL", "https://api.example.com/")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, 2*time.Hour, cfg.JWTTTL)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.AllowedOrigins)
	assert.Equal(t, "7.5", cfg.Pricing.ShippingFee.String())
	assert.Equal(t, "0.21", cfg.Pricing.TaxRate.String())
	assert.True(t, cfg.SeedData)
	assert.Equal(t, "https://api.example.com", cfg.BaseURL)
}

func TestLoadConfigErrors(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("DB_DRIVER", "mongo")
	t.Setenv("TAX_RATE", "-1")
	t.Setenv("RATE_LIMIT_RPM", "fast")

	_, err := LoadConfig()
	require.Error(t, err)
	for _, want := range []string{"JWT_SECRET", "DB_DRIVER", "TAX_RATE", "RATE_LIMIT_RPM"} {
		assert.Contains(t, err.Error(), want)
	}
}
