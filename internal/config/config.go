package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	defaultJWTSecret = "change-me-jwt-secret"

	StorageLocal = "local"
	StorageS3    = "s3"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Auth      AuthConfig
	Locale    LocaleConfig
	Funnel    FunnelConfig
	RateLimit RateLimitConfig
	Storage   StorageConfig
	SMTP      SMTPConfig
	Redis     RedisConfig
	CORS      CORSConfig
}

type AppConfig struct {
	Env             string        `env:"APP_ENV" envDefault:"dev"`
	Addr            string        `env:"APP_ADDR" envDefault:":8080"`
	BaseURL         string        `env:"APP_BASE_URL" envDefault:"http://localhost:8080"`
	SiteName        string        `env:"APP_SITE_NAME" envDefault:"Diez Agency"`
	ShutdownTimeout time.Duration `env:"APP_SHUTDOWN_TIMEOUT" envDefault:"10s"`
	// TrustedProxies may set X-Forwarded-For. Empty trusts no proxy.
	TrustedProxies  []string      `env:"APP_TRUSTED_PROXIES" envSeparator:","`
}

type DatabaseConfig struct {
	DSN string `env:"DATABASE_URL" envDefault:"file:diez.db?_pragma=foreign_keys(1)"`
}

type AuthConfig struct {
	JWTSecret string        `env:"JWT_SECRET" envDefault:"change-me-jwt-secret"`
	JWTTTL    time.Duration `env:"JWT_TTL" envDefault:"12h"`
}

type LocaleConfig struct {
	GeoHeader    string        `env:"LOCALE_GEO_HEADER" envDefault:"X-Vercel-IP-Country"`
	CookieMaxAge time.Duration `env:"LOCALE_COOKIE_MAX_AGE" envDefault:"8760h"`
	CookieSecure bool          `env:"LOCALE_COOKIE_SECURE" envDefault:"false"`
}

type FunnelConfig struct {
	Transition time.Duration `env:"FUNNEL_TRANSITION" envDefault:"220ms"`
	SessionTTL time.Duration `env:"FUNNEL_SESSION_TTL" envDefault:"2h"`
	SweepEvery time.Duration `env:"FUNNEL_SWEEP_INTERVAL" envDefault:"5m"`
}

type RateLimitConfig struct {
	Requests int           `env:"RATE_LIMIT_REQUESTS" envDefault:"60"`
	Window   time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"1m"`
}

type StorageConfig struct {
	Driver       string `env:"STORAGE_DRIVER" envDefault:"local"`
	LocalDir     string `env:"STORAGE_LOCAL_DIR" envDefault:"./uploads"`
	PublicBase   string `env:"STORAGE_PUBLIC_BASE" envDefault:"/static/uploads"`
	S3Bucket     string `env:"S3_BUCKET"`
	S3Region     string `env:"S3_REGION" envDefault:"us-east-1"`
	S3Endpoint   string `env:"S3_ENDPOINT"`
	S3AccessKey  string `env:"S3_ACCESS_KEY"`
	S3SecretKey  string `env:"S3_SECRET_KEY"`
	S3PathStyle  bool   `env:"S3_PATH_STYLE" envDefault:"false"`
	S3PublicBase string `env:"S3_PUBLIC_BASE"`
}

type SMTPConfig struct {
	Host     string `env:"SMTP_HOST"`
	Port     int    `env:"SMTP_PORT" envDefault:"587"`
	User     string `env:"SMTP_USER"`
	Password string `env:"SMTP_PASSWORD"`
	From     string `env:"SMTP_FROM" envDefault:"noreply@diez.agency"`
	NotifyTo string `env:"SMTP_NOTIFY_TO"`
}

// Enabled reports whether lead notification mail should be sent.
func (c SMTPConfig) Enabled() bool {
	return c.Host != "" && c.NotifyTo != ""
}

type RedisConfig struct {
	URL            string        `env:"REDIS_URL"`
	RetryAttempts  int           `env:"REDIS_RETRY_ATTEMPTS" envDefault:"3"`
	RetryInterval  time.Duration `env:"REDIS_RETRY_INTERVAL" envDefault:"2s"`
	ConnectTimeout time.Duration `env:"REDIS_CONNECT_TIMEOUT" envDefault:"10s"`
}

type CORSConfig struct {
	AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000,http://localhost:5173"`
}

// Load reads .env when present, then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return Parse(env.Options{})
}

// Parse builds the configuration from opts. Tests pass Environment directly.
func Parse(opts env.Options) (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.App.Env = strings.ToLower(strings.TrimSpace(cfg.App.Env))
	cfg.Storage.Driver = strings.ToLower(strings.TrimSpace(cfg.Storage.Driver))
	cfg.App.BaseURL = strings.TrimRight(cfg.App.BaseURL, "/")

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// IsProd reports whether the app runs in a production-like environment.
func (c *Config) IsProd() bool {
	return isProdLike(c.App.Env)
}

func validateConfig(cfg *Config) error {
	var errs []error
	if cfg.Auth.JWTTTL <= 0 {
		errs = append(errs, fmt.Errorf("JWT_TTL must be > 0"))
	}
	if cfg.Funnel.Transition < 0 {
		errs = append(errs, fmt.Errorf("FUNNEL_TRANSITION must be >= 0"))
	}
	if cfg.Funnel.SessionTTL <= 0 {
		errs = append(errs, fmt.Errorf("FUNNEL_SESSION_TTL must be > 0"))
	}
	if cfg.Funnel.SweepEvery <= 0 {
		errs = append(errs, fmt.Errorf("FUNNEL_SWEEP_INTERVAL must be > 0"))
	}
	if cfg.RateLimit.Requests <= 0 || cfg.RateLimit.Window <= 0 {
		errs = append(errs, fmt.Errorf("RATE_LIMIT_REQUESTS and RATE_LIMIT_WINDOW must be > 0"))
	}
	if cfg.Locale.GeoHeader == "" {
		errs = append(errs, fmt.Errorf("LOCALE_GEO_HEADER must not be empty"))
	}
	if strings.TrimSpace(cfg.Database.DSN) == "" {
		errs = append(errs, fmt.Errorf("DATABASE_URL must not be empty"))
	}

	switch cfg.Storage.Driver {
	case StorageLocal:
	case StorageS3:
		if cfg.Storage.S3Bucket == "" {
			errs = append(errs, fmt.Errorf("S3_BUCKET is required when STORAGE_DRIVER=s3"))
		}
	default:
		errs = append(errs, fmt.Errorf("STORAGE_DRIVER must be one of: local, s3"))
	}

	if isProdLike(cfg.App.Env) {
		if isEmptyOrDefault(cfg.Auth.JWTSecret, defaultJWTSecret) {
			errs = append(errs, fmt.Errorf("in prod/release JWT_SECRET must be set and not default"))
		}
		if !cfg.Locale.CookieSecure {
			errs = append(errs, fmt.Errorf("in prod/release LOCALE_COOKIE_SECURE must be true"))
		}
	}

	return errors.Join(errs...)
}

func isProdLike(env string) bool {
	env = strings.ToLower(strings.TrimSpace(env))
	return env == "prod" || env == "production" || env == "release"
}

func isEmptyOrDefault(v, def string) bool {
	trimmed := strings.TrimSpace(v)
	return trimmed == "" || trimmed == def
}
