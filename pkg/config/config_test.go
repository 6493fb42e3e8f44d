package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chainsafe/dao-governance/pkg/dao"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, "auth:\n  jwt_secret: "+testSecret+"\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, DriverPostgres, cfg.Database.Driver)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.True(t, cfg.Monitoring.Enabled)
	assert.Equal(t, "/metrics", cfg.Monitoring.MetricsPath)

	assert.Equal(t, dao.DefaultLimits(), cfg.DAO.Limits())
	pallet, err := cfg.DAO.Pallet()
	require.NoError(t, err)
	assert.Equal(t, dao.DefaultPalletID, pallet)
	assert.Equal(t, dao.DefaultPolicyDefaults(), cfg.DAO.PolicyDefaults())
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9000
  request_timeout: 5s
database:
  driver: memory
dao:
  max_string_length: 32
  max_metadata_length: 0
  pallet_id: "acme/dao"
  default_approve_origin: {num: 2, den: 3}
auth:
  jwt_secret: `+testSecret+`
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, 5*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, DriverMemory, cfg.Database.Driver)
	assert.Equal(t, dao.Limits{MaxStringLength: 32, MaxMetadataLength: 0}, cfg.DAO.Limits())
	assert.Equal(t, dao.Ratio{Num: 2, Den: 3}, cfg.DAO.PolicyDefaults().ApproveOrigin)
	assert.Equal(t, dao.Ratio{Num: 1, Den: 2}, cfg.DAO.PolicyDefaults().RejectOrigin)
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeConfig(t, "server:\n  port: 9000\nauth:\n  jwt_secret: "+testSecret+"\n")
	t.Setenv("DAO_SERVER_PORT", "9100")
	t.Setenv("DAO_DATABASE_PASSWORD", "s3cret")
	t.Setenv("DAO_LOG_LEVEL", "debug")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9100, cfg.Server.Port)
	assert.Equal(t, "s3cret", cfg.Database.Password)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "localhost", cfg.Database.Host)
}

func TestLoad_WithoutFile(t *testing.T) {
	t.Setenv("DAO_AUTH_JWT_SECRET", testSecret)
	t.Setenv("DAO_DATABASE_DRIVER", DriverMemory)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DriverMemory, cfg.Database.Driver)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"missing secret", "server:\n  port: 80\n", "auth.jwt_secret"},
		{"short pallet", "dao:\n  pallet_id: abc\nauth:\n  jwt_secret: " + testSecret + "\n", "dao.pallet_id"},
		{"zero denominator", "dao:\n  default_reject_origin: {num: 0, den: 0}\nauth:\n  jwt_secret: " + testSecret + "\n", "dao.default_reject_origin.den"},
		{"ratio above one", "dao:\n  default_approve_origin: {num: 3, den: 2}\nauth:\n  jwt_secret: " + testSecret + "\n", "dao.default_approve_origin.den"},
		{"unknown driver", "database:\n  driver: sqlite\nauth:\n  jwt_secret: " + testSecret + "\n", "database.driver"},
		{"bad log level", "logging:\n  level: loud\nauth:\n  jwt_secret: " + testSecret + "\n", "logging.level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	logger, err := NewLogger(LoggingConfig{Level: "debug", Format: "console"})
	require.NoError(t, err)
	assert.NotNil(t, logger)

	_, err = NewLogger(LoggingConfig{Level: "loud", Format: "json"})
	assert.Error(t, err)
}
