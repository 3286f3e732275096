package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/pgscatalog-etl/internal/clients/pgscatalog"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv(ConfigFileEnv, "")
	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, pgscatalog.DefaultBaseURL, cfg.CatalogBaseURL)
	assert.Equal(t, "./data", cfg.AuditDir)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, 60*time.Second, cfg.RateLimitBackoff)
	assert.Zero(t, cfg.RequestsPerSecond)
}

func TestLoadConfigLayersFileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "etl.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
catalog_base_url: https://mirror.example.org/rest
audit_dir: /var/log/pgs
rate_limit_backoff: 5s
requests_per_second: 2
otel:
  enabled: true
  endpoint: collector:4318
`), 0o644))
	t.Setenv(ConfigFileEnv, path)
	t.Setenv("PGS_AUDIT_DIR", "/tmp/audit")
	t.Setenv("PGS_RATE_LIMIT_BACKOFF", "90")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "https://mirror.example.org/rest", cfg.CatalogBaseURL)
	assert.Equal(t, "/tmp/audit", cfg.AuditDir, "env overrides file")
	assert.Equal(t, 90*time.Second, cfg.RateLimitBackoff, "bare seconds accepted")
	assert.Equal(t, 2.0, cfg.RequestsPerSecond)
	assert.True(t, cfg.OTel.Enabled)
	assert.Equal(t, "collector:4318", cfg.OTel.Endpoint)
}

func TestLoadConfigRejectsBadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("audit_dir: [unterminated"), 0o644))
	t.Setenv(ConfigFileEnv, path)
	_, err := LoadConfig()
	require.Error(t, err)

	t.Setenv(ConfigFileEnv, filepath.Join(t.TempDir(), "missing.yaml"))
	_, err = LoadConfig()
	require.Error(t, err)
}

func TestApplyFlagsOnlyChanged(t *testing.T) {
	cfg := DefaultConfig()
	cfg.AuditDir = "/from/env"

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	BindFlags(fs)
	require.NoError(t, fs.Parse([]string{"--db-driver=postgres", "--db-dsn=postgres://etl@localhost/pgs", "--requests-per-second=1.5"}))
	require.NoError(t, cfg.ApplyFlags(fs))

	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, "postgres://etl@localhost/pgs", cfg.DBDSN)
	assert.Equal(t, 1.5, cfg.RequestsPerSecond)
	assert.Equal(t, "/from/env", cfg.AuditDir, "unset flags leave earlier layers alone")
	assert.True(t, cfg.MetricsEnabled)
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	cfg.DBDriver = "postgres"
	assert.Error(t, cfg.Validate(), "postgres needs a DSN")

	cfg = DefaultConfig()
	cfg.DBDriver = "mysql"
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.RequestsPerSecond = -1
	assert.Error(t, cfg.Validate())
}
