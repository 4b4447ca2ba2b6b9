package app

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/yungbote/vonida-storefront/internal/checkout"
	"github.com/yungbote/vonida-storefront/internal/observability"
	"github.com/yungbote/vonida-storefront/internal/platform/envutil"
)

type Duration struct {
	time.Duration
}

// UnmarshalYAML accepts "90s"-style strings or an integer number of seconds.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	s := strings.TrimSpace(value.Value)
	if s == "" || s == "null" {
		d.Duration = 0
		return nil
	}
	if dd, err := time.ParseDuration(s); err == nil {
		d.Duration = dd
		return nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("duration must be a string like \"5s\" or integer seconds, got %q", s)
	}
	d.Duration = time.Duration(n) * time.Second
	return nil
}

type HTTPConfig struct {
	Addr              string   `yaml:"addr"`
	ReadHeaderTimeout Duration `yaml:"read_header_timeout"`
	IdleTimeout       Duration `yaml:"idle_timeout"`
	ShutdownTimeout   Duration `yaml:"shutdown_timeout"`
	MaxRequestBytes   int64    `yaml:"max_request_bytes"`
	AllowedOrigins    []string `yaml:"allowed_origins"`
}

type SessionConfig struct {
	Secret       string   `yaml:"secret"`
	CookieName   string   `yaml:"cookie_name"`
	CookieSecure bool     `yaml:"cookie_secure"`
	CookieDomain string   `yaml:"cookie_domain"`
	IdleTTL      Duration `yaml:"idle_ttl"`
	MaxAge       Duration `yaml:"max_age"`
	MaxSessions  int      `yaml:"max_sessions"`
	SweepEvery   Duration `yaml:"sweep_every"`

	// GeneratedSecret is set when no secret was configured outside production
	// and a random one was generated for this process.
	GeneratedSecret bool `yaml:"-"`
}

type CheckoutConfig struct {
	Scheme      string `yaml:"scheme"`
	Domain      string `yaml:"domain"`
	Destination string `yaml:"destination"`
}

type StoreConfig struct {
	Name         string `yaml:"name"`
	Tagline      string `yaml:"tagline"`
	PhoneDisplay string `yaml:"phone_display"`
	City         string `yaml:"city"`
	Instagram    string `yaml:"instagram"`
}

type ArtworkConfig struct {
	Palette      []string `yaml:"palette"`
	LogoInitials string   `yaml:"logo_initials"`
}

type TracingConfig struct {
	Enabled     bool              `yaml:"enabled"`
	Endpoint    string            `yaml:"endpoint"`
	Headers     map[string]string `yaml:"headers"`
	Insecure    bool              `yaml:"insecure"`
	SampleRatio float64           `yaml:"sample_ratio"`
}

type ObservabilityConfig struct {
	ServiceName    string        `yaml:"service_name"`
	Version        string        `yaml:"version"`
	MetricsEnabled bool          `yaml:"metrics_enabled"`
	Tracing        TracingConfig `yaml:"tracing"`
}

type Config struct {
	Env           string              `yaml:"env"`
	LogLevel      string              `yaml:"log_level"`
	HTTP          HTTPConfig          `yaml:"http"`
	Session       SessionConfig       `yaml:"session"`
	Checkout      CheckoutConfig      `yaml:"checkout"`
	Store         StoreConfig         `yaml:"store"`
	Artwork       ArtworkConfig       `yaml:"artwork"`
	Observability ObservabilityConfig `yaml:"observability"`
}

func (c *Config) IsProduction() bool {
	switch strings.ToLower(c.Env) {
	case "prod", "production":
		return true
	default:
		return false
	}
}

func (c *Config) OtelConfig() observability.OtelConfig {
	return observability.OtelConfig{
		Enabled:      c.Observability.Tracing.Enabled,
		ServiceName:  c.Observability.ServiceName,
		Environment:  c.Env,
		Version:      c.Observability.Version,
		Endpoint:     c.Observability.Tracing.Endpoint,
		Headers:      c.Observability.Tracing.Headers,
		Insecure:     c.Observability.Tracing.Insecure,
		SampleRatio:  c.Observability.Tracing.SampleRatio,
		StdoutPretty: !c.IsProduction(),
	}
}

func defaultConfig() *Config {
	return &Config{
		Env: "development",
		HTTP: HTTPConfig{
			Addr:              ":8080",
			ReadHeaderTimeout: Duration{5 * time.Second},
			IdleTimeout:       Duration{2 * time.Minute},
			ShutdownTimeout:   Duration{15 * time.Second},
			MaxRequestBytes:   64 << 10,
		},
		Session: SessionConfig{
			CookieName:  "vn_session",
			IdleTTL:     Duration{2 * time.Hour},
			MaxAge:      Duration{7 * 24 * time.Hour},
			MaxSessions: 50000,
			SweepEvery:  Duration{time.Minute},
		},
		Checkout: CheckoutConfig{
			Scheme:      checkout.DefaultScheme,
			Domain:      checkout.DefaultDomain,
			Destination: checkout.DefaultDestination,
		},
		Store: StoreConfig{
			Name:         "Vó Nida",
			Tagline:      "Confeitaria Artesanal",
			PhoneDisplay: "(14) 99674-6904",
			City:         "Tupã - SP",
			Instagram:    "@vonidaconfeitaria",
		},
		Artwork: ArtworkConfig{
			LogoInitials: "VN",
		},
		Observability: ObservabilityConfig{
			ServiceName: "vonida-storefront",
			Tracing: TracingConfig{
				SampleRatio: 0.1,
			},
		},
	}
}

// LoadConfig layers defaults, an optional YAML file and environment overrides,
// then validates the result.
func LoadConfig() (*Config, error) {
	cfg := defaultConfig()

	cfgPath := strings.TrimSpace(os.Getenv("STOREFRONT_CONFIG_PATH"))
	if cfgPath == "" {
		if wd, err := os.Getwd(); err == nil {
			p := filepath.Join(wd, "config", "config.yaml")
			if _, err := os.Stat(p); err == nil {
				cfgPath = p
			}
		}
	}
	if cfgPath != "" {
		b, err := os.ReadFile(cfgPath)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", cfgPath, err)
		}
		if err := yaml.Unmarshal(b, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", cfgPath, err)
		}
	}

	applyEnv(cfg)

	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	cfg.Env = envutil.String("LOG_MODE", cfg.Env)
	cfg.LogLevel = envutil.String("LOG_LEVEL", cfg.LogLevel)

	cfg.HTTP.Addr = envutil.String("HTTP_ADDR", cfg.HTTP.Addr)
	cfg.HTTP.MaxRequestBytes = int64(envutil.Int("HTTP_MAX_REQUEST_BYTES", int(cfg.HTTP.MaxRequestBytes)))
	cfg.HTTP.ShutdownTimeout.Duration = envutil.Duration("HTTP_SHUTDOWN_TIMEOUT", cfg.HTTP.ShutdownTimeout.Duration)
	cfg.HTTP.AllowedOrigins = envutil.Strings("CORS_ALLOWED_ORIGINS", cfg.HTTP.AllowedOrigins)

	cfg.Session.Secret = envutil.String("SESSION_SECRET", cfg.Session.Secret)
	cfg.Session.IdleTTL.Duration = envutil.Duration("SESSION_IDLE_TTL", cfg.Session.IdleTTL.Duration)
	cfg.Session.MaxAge.Duration = envutil.Duration("SESSION_MAX_AGE", cfg.Session.MaxAge.Duration)
	cfg.Session.MaxSessions = envutil.Int("SESSION_MAX", cfg.Session.MaxSessions)
	cfg.Session.CookieSecure = envutil.Bool("SESSION_COOKIE_SECURE", cfg.Session.CookieSecure)

	cfg.Checkout.Domain = envutil.String("CHECKOUT_DOMAIN", cfg.Checkout.Domain)
	cfg.Checkout.Destination = envutil.String("CHECKOUT_DESTINATION", cfg.Checkout.Destination)

	obs := &cfg.Observability
	obs.Version = envutil.String("SERVICE_VERSION", obs.Version)
	obs.MetricsEnabled = envutil.Bool("METRICS_ENABLED", obs.MetricsEnabled)
	obs.Tracing.Enabled = envutil.Bool("OTEL_ENABLED", obs.Tracing.Enabled)
	obs.Tracing.Endpoint = envutil.String("OTEL_EXPORTER_OTLP_ENDPOINT", obs.Tracing.Endpoint)
	obs.Tracing.Insecure = envutil.Bool("OTEL_EXPORTER_OTLP_INSECURE", obs.Tracing.Insecure)
	obs.Tracing.SampleRatio = envutil.Float("OTEL_SAMPLER_RATIO", obs.Tracing.SampleRatio)
	if h := observability.ParseHeaders(os.Getenv("OTEL_EXPORTER_OTLP_HEADERS")); h != nil {
		obs.Tracing.Headers = h
	}
}

func (cfg *Config) normalize() error {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "development"
	}
	if strings.TrimSpace(cfg.HTTP.Addr) == "" {
		return &ConfigError{Code: ConfigErrorMissingAddr}
	}
	if cfg.HTTP.MaxRequestBytes <= 0 {
		cfg.HTTP.MaxRequestBytes = 64 << 10
	}
	if cfg.HTTP.ShutdownTimeout.Duration <= 0 {
		cfg.HTTP.ShutdownTimeout = Duration{15 * time.Second}
	}

	if cfg.Session.Secret == "" {
		if cfg.IsProduction() {
			return &ConfigError{Code: ConfigErrorMissingSecret}
		}
		var b [32]byte
		if _, err := rand.Read(b[:]); err != nil {
			return &ConfigError{Code: ConfigErrorMissingSecret, Cause: err}
		}
		cfg.Session.Secret = hex.EncodeToString(b[:])
		cfg.Session.GeneratedSecret = true
	}
	if len(cfg.Session.Secret) < 16 {
		return &ConfigError{Code: ConfigErrorShortSecret}
	}
	if cfg.Session.IdleTTL.Duration <= 0 || cfg.Session.MaxAge.Duration <= 0 {
		return &ConfigError{Code: ConfigErrorInvalidSessionTTL, Value: fmt.Sprintf("idle=%s max_age=%s", cfg.Session.IdleTTL.Duration, cfg.Session.MaxAge.Duration)}
	}

	if _, err := checkout.New(checkout.Config(cfg.Checkout)); err != nil {
		return &ConfigError{Code: ConfigErrorInvalidCheckout, Value: cfg.Checkout.Destination, Cause: err}
	}
	return nil
}

type ConfigErrorCode string

const (
	ConfigErrorMissingAddr       ConfigErrorCode = "missing_addr"
	ConfigErrorMissingSecret     ConfigErrorCode = "missing_session_secret"
	ConfigErrorShortSecret       ConfigErrorCode = "short_session_secret"
	ConfigErrorInvalidSessionTTL ConfigErrorCode = "invalid_session_ttl"
	ConfigErrorInvalidCheckout   ConfigErrorCode = "invalid_checkout_target"
)

type ConfigError struct {
	Code  ConfigErrorCode
	Value string
	Cause error
}

func (e *ConfigError) Error() string {
	if e == nil {
		return "invalid storefront config"
	}
	switch e.Code {
	case ConfigErrorMissingAddr:
		return "http.addr is required"
	case ConfigErrorMissingSecret:
		return "SESSION_SECRET is required in production"
	case ConfigErrorShortSecret:
		return "SESSION_SECRET must be at least 16 characters"
	case ConfigErrorInvalidSessionTTL:
		return fmt.Sprintf("session ttl must be positive (%s)", e.Value)
	case ConfigErrorInvalidCheckout:
		return fmt.Sprintf("invalid checkout target %q: %v", e.Value, e.Cause)
	default:
		return "invalid storefront config"
	}
}

func (e *ConfigError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}
