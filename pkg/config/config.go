package config

import (
	"time"
)

// Config is the process configuration of a Strata binary.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	App       AppConfig       `yaml:"app"`
	Log       LogConfig       `yaml:"log"`
	Sentry    SentryConfig    `yaml:"sentry"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	Auth      AuthConfig      `yaml:"auth"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Redis     RedisConfig     `yaml:"redis"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Address         string        `yaml:"address"          env:"SERVER_ADDRESS"          env-default:":8080"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"30s"`
	RequestTimeout  time.Duration `yaml:"request_timeout"  env:"SERVER_REQUEST_TIMEOUT"  env-default:"30s"`
}

// AppConfig holds the application options.
type AppConfig struct {
	Env             string   `yaml:"env"              env:"STRATA_ENV"             env-default:"development"`
	Silent          bool     `yaml:"silent"           env:"APP_SILENT"`
	Proxy           bool     `yaml:"proxy"            env:"APP_PROXY"`
	SubdomainOffset int      `yaml:"subdomain_offset" env:"APP_SUBDOMAIN_OFFSET" env-default:"2"`
	Keys            []string `yaml:"keys"             env:"APP_KEYS"             env-separator:","`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// SentryConfig holds Sentry settings. An empty DSN disables Sentry.
type SentryConfig struct {
	DSN string `yaml:"dsn" env:"SENTRY_DSN"`
}

// MetricsConfig holds Prometheus settings. An empty path disables the endpoint.
type MetricsConfig struct {
	Path      string `yaml:"path"      env:"METRICS_PATH"      env-default:"/metrics"`
	Namespace string `yaml:"namespace" env:"METRICS_NAMESPACE" env-default:"strata"`
}

// AuthConfig holds bearer token settings. An empty secret disables JWT auth.
type AuthConfig struct {
	JWTSecret string `yaml:"jwt_secret" env:"AUTH_JWT_SECRET"`
	JWTIssuer string `yaml:"jwt_issuer" env:"AUTH_JWT_ISSUER"`
}

// RateLimitConfig holds rate limit settings. A zero limit disables it.
type RateLimitConfig struct {
	Limit    int           `yaml:"limit"     env:"RATE_LIMIT"`
	Window   time.Duration `yaml:"window"    env:"RATE_LIMIT_WINDOW"    env-default:"1m"`
	FailOpen bool          `yaml:"fail_open" env:"RATE_LIMIT_FAIL_OPEN"`
}

// RedisConfig holds the Redis connection. An empty URL keeps rate limit
// counters in memory.
type RedisConfig struct {
	URL string `yaml:"url" env:"REDIS_URL"`
}
