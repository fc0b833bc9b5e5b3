// Package config provides application configuration.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Default configuration values.
const (
	DefaultHost     = "0.0.0.0"
	DefaultPort     = 8080
	DefaultSitePort = 3000
	DefaultLogLevel = "INFO"
	DefaultDBName   = "handbook.db"
	DefaultPublic   = "public"
)

// LogFormat represents the log output format.
type LogFormat string

// LogFormat values.
const (
	LogFormatPretty LogFormat = "pretty"
	LogFormatJSON   LogFormat = "json"
)

// AppConfig holds the main application configuration.
type AppConfig struct {
	host          string
	port          int
	sitePort      int
	dataDir       string
	dbURL         string
	logLevel      string
	logFormat     LogFormat
	apiKeys       []string
	publicDir     string
	corsOrigins   []string
	allowPrune    bool
	disableSite   bool
	enableMetrics bool
}

// DefaultDataDir returns the default data directory.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".handbook"
	}
	return filepath.Join(home, ".handbook")
}

// NewAppConfig creates a new AppConfig with defaults.
func NewAppConfig() AppConfig {
	dataDir := DefaultDataDir()
	return AppConfig{
		host:          DefaultHost,
		port:          DefaultPort,
		sitePort:      DefaultSitePort,
		dataDir:       dataDir,
		dbURL:         "sqlite:///" + filepath.Join(dataDir, DefaultDBName),
		logLevel:      DefaultLogLevel,
		logFormat:     LogFormatPretty,
		apiKeys:       []string{},
		publicDir:     DefaultPublic,
		corsOrigins:   []string{"*"},
		enableMetrics: true,
	}
}

// Host returns the server host to bind to.
func (c AppConfig) Host() string { return c.host }

// Port returns the API server port to listen on.
func (c AppConfig) Port() int { return c.port }

// Addr returns the combined host:port address of the API server.
func (c AppConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.host, c.port)
}

// SitePort returns the static site server port.
func (c AppConfig) SitePort() int { return c.sitePort }

// SiteAddr returns the combined host:port address of the static site server.
func (c AppConfig) SiteAddr() string {
	return fmt.Sprintf("%s:%d", c.host, c.sitePort)
}

// DataDir returns the data directory path.
func (c AppConfig) DataDir() string { return c.dataDir }

// DBURL returns the database connection URL.
func (c AppConfig) DBURL() string { return c.dbURL }

// LogLevel returns the log level.
func (c AppConfig) LogLevel() string { return c.logLevel }

// LogFormat returns the log format.
func (c AppConfig) LogFormat() LogFormat { return c.logFormat }

// APIKeys returns the configured API keys.
func (c AppConfig) APIKeys() []string {
	keys := make([]string, len(c.apiKeys))
	copy(keys, c.apiKeys)
	return keys
}

// PublicDir returns the directory served by the static site server.
func (c AppConfig) PublicDir() string { return c.publicDir }

// UploadsDir returns the directory holding uploaded media.
func (c AppConfig) UploadsDir() string {
	return filepath.Join(c.publicDir, "uploads")
}

// ExportDir returns the directory served under /data.
func (c AppConfig) ExportDir() string {
	return filepath.Join(c.dataDir, "data")
}

// CORSAllowedOrigins returns the origins allowed to call the API.
func (c AppConfig) CORSAllowedOrigins() []string {
	origins := make([]string, len(c.corsOrigins))
	copy(origins, c.corsOrigins)
	return origins
}

// AllowPrune returns whether reorder requests may drop omitted nodes.
func (c AppConfig) AllowPrune() bool { return c.allowPrune }

// SiteDisabled returns whether the static site server is turned off.
func (c AppConfig) SiteDisabled() bool { return c.disableSite }

// MetricsEnabled returns whether /metrics is exposed.
func (c AppConfig) MetricsEnabled() bool { return c.enableMetrics }

// EnsureDataDir creates the data directory if it doesn't exist.
func (c AppConfig) EnsureDataDir() error {
	return os.MkdirAll(c.dataDir, 0o755)
}

// AppConfigOption is a functional option for AppConfig.
type AppConfigOption func(*AppConfig)

// WithHost sets the server host.
func WithHost(host string) AppConfigOption {
	return func(c *AppConfig) { c.host = host }
}

// WithPort sets the API server port.
func WithPort(port int) AppConfigOption {
	return func(c *AppConfig) { c.port = port }
}

// WithSitePort sets the static site server port.
func WithSitePort(port int) AppConfigOption {
	return func(c *AppConfig) { c.sitePort = port }
}

// WithDataDir sets the data directory.
func WithDataDir(dir string) AppConfigOption {
	return func(c *AppConfig) {
		c.dataDir = dir
		// Update default DB URL when data dir changes
		if c.dbURL == "" || strings.HasSuffix(c.dbURL, DefaultDBName) {
			c.dbURL = "sqlite:///" + filepath.Join(dir, DefaultDBName)
		}
	}
}

// WithDBURL sets the database URL.
func WithDBURL(url string) AppConfigOption {
	return func(c *AppConfig) { c.dbURL = url }
}

// WithLogLevel sets the log level.
func WithLogLevel(level string) AppConfigOption {
	return func(c *AppConfig) { c.logLevel = level }
}

// WithLogFormat sets the log format.
func WithLogFormat(format LogFormat) AppConfigOption {
	return func(c *AppConfig) { c.logFormat = format }
}

// WithAPIKeys sets the API keys.
func WithAPIKeys(keys []string) AppConfigOption {
	return func(c *AppConfig) {
		c.apiKeys = make([]string, len(keys))
		copy(c.apiKeys, keys)
	}
}

// WithPublicDir sets the static site directory.
func WithPublicDir(dir string) AppConfigOption {
	return func(c *AppConfig) { c.publicDir = dir }
}

// WithCORSAllowedOrigins sets the allowed CORS origins.
func WithCORSAllowedOrigins(origins []string) AppConfigOption {
	return func(c *AppConfig) {
		if len(origins) > 0 {
			c.corsOrigins = make([]string, len(origins))
			copy(c.corsOrigins, origins)
		}
	}
}

// WithAllowPrune sets whether reorder requests may drop omitted nodes.
func WithAllowPrune(allow bool) AppConfigOption {
	return func(c *AppConfig) { c.allowPrune = allow }
}

// WithSiteDisabled turns the static site server off.
func WithSiteDisabled(disabled bool) AppConfigOption {
	return func(c *AppConfig) { c.disableSite = disabled }
}

// WithMetricsEnabled sets whether /metrics is exposed.
func WithMetricsEnabled(enabled bool) AppConfigOption {
	return func(c *AppConfig) { c.enableMetrics = enabled }
}

// NewAppConfigWithOptions creates an AppConfig with functional options.
func NewAppConfigWithOptions(opts ...AppConfigOption) AppConfig {
	return NewAppConfig().Apply(opts...)
}

// Apply returns a new AppConfig with the given options applied.
func (c AppConfig) Apply(opts ...AppConfigOption) AppConfig {
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// LogAttrs returns slog attributes for logging the configuration.
// Sensitive values like API keys are masked or shown as counts.
func (c AppConfig) LogAttrs() []slog.Attr {
	return []slog.Attr{
		slog.String("addr", c.Addr()),
		slog.String("site_addr", c.SiteAddr()),
		slog.String("data_dir", c.dataDir),
		slog.String("public_dir", c.publicDir),
		slog.String("log_level", c.logLevel),
		slog.String("db_url", c.maskedDBURL()),
		slog.Int("api_keys_count", len(c.apiKeys)),
		slog.Any("cors_allowed_origins", c.corsOrigins),
		slog.Bool("reorder_allow_prune", c.allowPrune),
		slog.Bool("site_disabled", c.disableSite),
		slog.Bool("metrics_enabled", c.enableMetrics),
	}
}

func (c AppConfig) maskedDBURL() string {
	if c.dbURL == "" {
		return "(default)"
	}
	if strings.HasPrefix(c.dbURL, "sqlite:") {
		return c.dbURL
	}
	return "postgres://***@***"
}

// ParseList parses a comma-separated string into trimmed, non-empty values.
func ParseList(s string) []string {
	if s == "" {
		return []string{}
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// ParseAPIKeys parses a comma-separated string of API keys.
func ParseAPIKeys(s string) []string {
	return ParseList(s)
}
