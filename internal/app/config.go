package app

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/phenrril/exactmatch/internal/domain"
)

const devJWTSecret = "dev-insecure-jwt-secret"

type Config struct {
	Port     string
	Env      string
	LogLevel string

	DBDriver   string
	DBDSN      string
	SQLitePath string

	JWTSecret string
	JWTTTL    time.Duration

	AllowedOrigins []string
	RateLimitRPM   int

	StorageDir    string
	MediaBaseURL  string
	CloudinaryURL string

	GoogleClientID     string
	GoogleClientSecret string
	BaseURL            string

	Pricing  domain.PricingPolicy
	SeedData bool
}

func (c Config) Production() bool {
	return c.Env == "production" || c.Env == "prod"
}

func env(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

// LoadConfig reads .env when present and then the process environment,
// which wins over the file.
func LoadConfig() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Port:               env("PORT", "8080"),
		Env:                strings.ToLower(env("APP_ENV", "development")),
		LogLevel:           strings.ToLower(env("LOG_LEVEL", "info")),
		DBDriver:           strings.ToLower(env("DB_DRIVER", "postgres")),
		DBDSN:              env("DB_DSN", ""),
		SQLitePath:         env("SQLITE_PATH", "exactmatch.db"),
		JWTSecret:          env("JWT_SECRET", ""),
		StorageDir:         env("STORAGE_DIR", "uploads"),
		MediaBaseURL:       env("MEDIA_BASE_URL", ""),
		CloudinaryURL:      env("CLOUDINARY_URL", ""),
		GoogleClientID:     env("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: env("GOOGLE_CLIENT_SECRET", ""),
		BaseURL:            strings.TrimRight(env("BASE_URL", "http://localhost:8080"), "/"),
		Pricing:            domain.DefaultPricing(),
	}
	var errs []error

	if cfg.DBDriver != "postgres" && cfg.DBDriver != "sqlite" {
		errs = append(errs, fmt.Errorf("DB_DRIVER must be postgres or sqlite, got %q", cfg.DBDriver))
	}
	if cfg.DBDSN == "" && cfg.DBDriver == "postgres" {
		cfg.DBDSN = postgresDSN()
	}

	if cfg.JWTSecret == "" {
		if cfg.Production() {
			errs = append(errs, errors.New("JWT_SECRET is required in production"))
		}
		cfg.JWTSecret = devJWTSecret
	}
	ttl, err := time.ParseDuration(env("JWT_TTL", "24h"))
	if err != nil || ttl <= 0 {
		errs = append(errs, fmt.Errorf("JWT_TTL: invalid duration %q", os.Getenv("JWT_TTL")))
	}
	cfg.JWTTTL = ttl

	for _, o := range strings.Split(env("CORS_ALLOWED_ORIGINS", ""), ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.AllowedOrigins = append(cfg.AllowedOrigins, o)
		}
	}
	if cfg.RateLimitRPM, err = strconv.Atoi(env("RATE_LIMIT_RPM", "120")); err != nil {
		errs = append(errs, fmt.Errorf("RATE_LIMIT_RPM: %w", err))
	}
	if cfg.SeedData, err = strconv.ParseBool(env("SEED_SAMPLE_DATA", "false")); err != nil {
		errs = append(errs, fmt.Errorf("SEED_SAMPLE_DATA: %w", err))
	}

	money := []struct {
		key string
		dst *decimal.Decimal
	}{
		{"SHIPPING_FEE", &cfg.Pricing.ShippingFee},
		{"FREE_SHIPPING_THRESHOLD", &cfg.Pricing.FreeShippingThreshold},
		{"TAX_RATE", &cfg.Pricing.TaxRate},
	}
	for _, m := range money {
		raw := env(m.key, "")
		if raw == "" {
			continue
		}
		d, err := decimal.NewFromString(raw)
		if err != nil || d.IsNegative() {
			errs = append(errs, fmt.Errorf("%s: invalid amount %q", m.key, raw))
			continue
		}
		*m.dst = d
	}
	return cfg, errors.Join(errs...)
}

// postgresDSN assembles a DSN from the DB_* variables, falling back to the
// POSTGRES_* names used by the official image.
func postgresDSN() string {
	host := env("DB_HOST", "localhost")
	port := env("DB_PORT", "5432")
	user := env("DB_USER", env("POSTGRES_USER", "postgres"))
	pass := env("DB_PASSWORD", env("POSTGRES_PASSWORD", "postgres"))
	name := env("DB_NAME", env("POSTGRES_DB", "exactmatch"))
	ssl := env("DB_SSLMODE", "disable")
	return "host=" + host + " user=" + user + " password=" + pass + " dbname=" + name + " port=" + port + " sslmode=" + ssl
}
