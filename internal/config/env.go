package config

import (
	"fmt"
	"strings"

	"github.com/kelseyhightower/envconfig"
)

// EnvConfig holds all environment-based configuration.
type EnvConfig struct {
	// Host is the server host to bind to.
	// Env: HOST (default: 0.0.0.0)
	Host string `envconfig:"HOST" default:"0.0.0.0"`

	// Port is the API server port to listen on.
	// Env: PORT (default: 8080)
	Port int `envconfig:"PORT" default:"8080"`

	// SitePort is the static site server port.
	// Env: SITE_PORT (default: 3000)
	SitePort int `envconfig:"SITE_PORT" default:"3000"`

	// DataDir is the data directory path.
	// Env: DATA_DIR
	// Default: ~/.handbook
	DataDir string `envconfig:"DATA_DIR"`

	// DBURL is the database connection URL.
	// Env: DB_URL
	// Default: sqlite:///{data_dir}/handbook.db
	DBURL string `envconfig:"DB_URL"`

	// LogLevel is the log verbosity level.
	// Env: LOG_LEVEL (default: INFO)
	LogLevel string `envconfig:"LOG_LEVEL" default:"INFO"`

	// LogFormat is the log output format (pretty or json).
	// Env: LOG_FORMAT (default: pretty)
	LogFormat string `envconfig:"LOG_FORMAT" default:"pretty"`

	// APIKeys is a comma-separated list of valid API keys.
	// Env: API_KEYS
	APIKeys string `envconfig:"API_KEYS"`

	// PublicDir is the directory served by the static site server.
	// Env: PUBLIC_DIR (default: public)
	PublicDir string `envconfig:"PUBLIC_DIR" default:"public"`

	// CORSAllowedOrigins is a comma-separated list of allowed origins.
	// Env: CORS_ALLOWED_ORIGINS (default: *)
	CORSAllowedOrigins string `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`

	// ReorderAllowPrune lets reorder requests opt into dropping omitted nodes.
	// Env: REORDER_ALLOW_PRUNE (default: false)
	ReorderAllowPrune bool `envconfig:"REORDER_ALLOW_PRUNE" default:"false"`

	// DisableSite turns the static site server off.
	// Env: DISABLE_SITE (default: false)
	DisableSite bool `envconfig:"DISABLE_SITE" default:"false"`

	// EnableMetrics exposes Prometheus metrics on /metrics.
	// Env: ENABLE_METRICS (default: true)
	EnableMetrics bool `envconfig:"ENABLE_METRICS" default:"true"`
}

// LoadFromEnv loads configuration from unprefixed environment variables.
func LoadFromEnv() (EnvConfig, error) {
	return LoadFromEnvWithPrefix("")
}

// LoadFromEnvWithPrefix loads configuration with a variable prefix, so
// "HANDBOOK" reads HANDBOOK_DATA_DIR instead of DATA_DIR.
func LoadFromEnvWithPrefix(prefix string) (EnvConfig, error) {
	var cfg EnvConfig
	if err := envconfig.Process(prefix, &cfg); err != nil {
		return EnvConfig{}, fmt.Errorf("process environment: %w", err)
	}
	return cfg, nil
}

// ToAppConfig converts EnvConfig to AppConfig. Empty values keep the
// AppConfig defaults; boolean switches always apply.
func (e EnvConfig) ToAppConfig() AppConfig {
	opts := []AppConfigOption{
		WithAllowPrune(e.ReorderAllowPrune),
		WithSiteDisabled(e.DisableSite),
		WithMetricsEnabled(e.EnableMetrics),
	}
	set := func(ok bool, opt AppConfigOption) {
		if ok {
			opts = append(opts, opt)
		}
	}
	set(e.Host != "", WithHost(e.Host))
	set(e.Port != 0, WithPort(e.Port))
	set(e.SitePort != 0, WithSitePort(e.SitePort))
	set(e.DataDir != "", WithDataDir(e.DataDir))
	set(e.DBURL != "", WithDBURL(e.DBURL))
	set(e.LogLevel != "", WithLogLevel(e.LogLevel))
	set(e.LogFormat != "", WithLogFormat(parseLogFormat(e.LogFormat)))
	set(e.APIKeys != "", WithAPIKeys(ParseAPIKeys(e.APIKeys)))
	set(e.PublicDir != "", WithPublicDir(e.PublicDir))
	set(e.CORSAllowedOrigins != "", WithCORSAllowedOrigins(ParseList(e.CORSAllowedOrigins)))

	return NewAppConfig().Apply(opts...)
}

// parseLogFormat parses a log format string.
func parseLogFormat(s string) LogFormat {
	switch strings.ToLower(s) {
	case "json":
		return LogFormatJSON
	default:
		return LogFormatPretty
	}
}
