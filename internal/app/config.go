package app

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/yungbote/pgscatalog-etl/internal/clients/pgscatalog"
	"github.com/yungbote/pgscatalog-etl/internal/data/db"
	"github.com/yungbote/pgscatalog-etl/internal/etl/transform"
	"github.com/yungbote/pgscatalog-etl/internal/observability"
	"github.com/yungbote/pgscatalog-etl/internal/platform/envutil"
)

// ConfigFileEnv names the optional YAML file layered under the environment.
const ConfigFileEnv = "PGS_ETL_CONFIG"

type Config struct {
	CatalogBaseURL    string        `yaml:"catalog_base_url"`
	ScoreURLBase      string        `yaml:"score_url_base"`
	AuditDir          string        `yaml:"audit_dir"`
	DBDriver          string        `yaml:"db_driver"`
	DBDSN             string        `yaml:"db_dsn"`
	LogMode           string        `yaml:"log_mode"`
	HTTPAddr          string        `yaml:"http_addr"`
	CORSOrigins       []string      `yaml:"cors_origins"`
	RateLimitBackoff  time.Duration `yaml:"rate_limit_backoff"`
	RequestsPerSecond float64       `yaml:"requests_per_second"`
	MetricsEnabled    bool          `yaml:"metrics_enabled"`

	OTel observability.OtelConfig `yaml:"otel"`
}

func DefaultConfig() Config {
	return Config{
		CatalogBaseURL:   pgscatalog.DefaultBaseURL,
		ScoreURLBase:     transform.DefaultScoreURLBase,
		AuditDir:         "./data",
		DBDriver:         db.DriverSQLite,
		LogMode:          "development",
		HTTPAddr:         ":8080",
		RateLimitBackoff: pgscatalog.DefaultRateLimitBackoff,
		MetricsEnabled:   true,
		OTel: observability.OtelConfig{
			ServiceName: "pgscatalog-etl",
			SampleRatio: 0.1,
		},
	}
}

// LoadConfig layers defaults, the YAML file named by PGS_ETL_CONFIG and the
// environment. Flags are applied afterwards with ApplyFlags.
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()
	if path := strings.TrimSpace(os.Getenv(ConfigFileEnv)); path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return cfg, err
		}
	}
	cfg.mergeEnv()
	return cfg, cfg.Validate()
}

func (c *Config) mergeFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) mergeEnv() {
	c.CatalogBaseURL = envutil.String("PGS_CATALOG_BASE_URL", c.CatalogBaseURL)
	c.ScoreURLBase = envutil.String("PGS_SCORE_URL_BASE", c.ScoreURLBase)
	c.AuditDir = envutil.String("PGS_AUDIT_DIR", c.AuditDir)
	c.DBDriver = envutil.String("DB_DRIVER", c.DBDriver)
	c.DBDSN = envutil.String("DB_DSN", c.DBDSN)
	c.LogMode = envutil.String("LOG_MODE", c.LogMode)
	c.HTTPAddr = envutil.String("HTTP_ADDR", c.HTTPAddr)
	if origins := envutil.String("CORS_ORIGINS", ""); origins != "" {
		c.CORSOrigins = splitList(origins)
	}
	c.RateLimitBackoff = envutil.Duration("PGS_RATE_LIMIT_BACKOFF", c.RateLimitBackoff)
	c.RequestsPerSecond = envutil.Float("PGS_REQUESTS_PER_SECOND", c.RequestsPerSecond)
	c.MetricsEnabled = envutil.Bool("METRICS_ENABLED", c.MetricsEnabled)

	c.OTel.Enabled = envutil.Bool("OTEL_ENABLED", c.OTel.Enabled)
	c.OTel.ServiceName = envutil.String("OTEL_SERVICE_NAME", c.OTel.ServiceName)
	c.OTel.Environment = envutil.String("APP_ENV", c.OTel.Environment)
	c.OTel.Endpoint = envutil.String("OTEL_EXPORTER_OTLP_ENDPOINT", c.OTel.Endpoint)
	if raw := envutil.String("OTEL_EXPORTER_OTLP_HEADERS", ""); raw != "" {
		c.OTel.Headers = observability.ParseHeaders(raw)
	}
	c.OTel.Insecure = envutil.Bool("OTEL_EXPORTER_OTLP_INSECURE", c.OTel.Insecure)
	c.OTel.SampleRatio = envutil.Float("OTEL_SAMPLER_RATIO", c.OTel.SampleRatio)
}

// BindFlags registers the persistent flags that override file and
// environment settings.
func BindFlags(fs *pflag.FlagSet) {
	fs.String("catalog-url", "", "PGS Catalog REST base URL")
	fs.String("audit-dir", "", "directory for <entity>_log.txt audit trails")
	fs.String("db-driver", "", "database driver (postgres|sqlite)")
	fs.String("db-dsn", "", "database DSN")
	fs.String("log-mode", "", "log mode (development|production|test)")
	fs.String("http-addr", "", "listen address for serve")
	fs.Duration("rate-limit-backoff", 0, "wait after an HTTP 429 before retrying")
	fs.Float64("requests-per-second", 0, "client-side pacing of catalog requests (0 = unlimited)")
	fs.Bool("metrics", true, "expose prometheus metrics at /metrics")
}

// ApplyFlags copies every flag the user actually set onto c.
func (c *Config) ApplyFlags(fs *pflag.FlagSet) error {
	var err error
	fs.Visit(func(f *pflag.Flag) {
		if err != nil {
			return
		}
		switch f.Name {
		case "catalog-url":
			c.CatalogBaseURL = f.Value.String()
		case "audit-dir":
			c.AuditDir = f.Value.String()
		case "db-driver":
			c.DBDriver = f.Value.String()
		case "db-dsn":
			c.DBDSN = f.Value.String()
		case "log-mode":
			c.LogMode = f.Value.String()
		case "http-addr":
			c.HTTPAddr = f.Value.String()
		case "rate-limit-backoff":
			c.RateLimitBackoff, err = fs.GetDuration(f.Name)
		case "requests-per-second":
			c.RequestsPerSecond, err = fs.GetFloat64(f.Name)
		case "metrics":
			c.MetricsEnabled, err = fs.GetBool(f.Name)
		}
	})
	if err != nil {
		return err
	}
	return c.Validate()
}

func (c Config) Validate() error {
	switch strings.ToLower(strings.TrimSpace(c.DBDriver)) {
	case db.DriverSQLite, "":
	case db.DriverPostgres:
		if strings.TrimSpace(c.DBDSN) == "" {
			return fmt.Errorf("DB_DSN is required for the postgres driver")
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	if c.RateLimitBackoff < 0 {
		return fmt.Errorf("rate limit backoff must not be negative")
	}
	if c.RequestsPerSecond < 0 {
		return fmt.Errorf("requests per second must not be negative")
	}
	return nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
