package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// isolate runs the test in an empty directory so no .env or steelfist.yaml
// from the repository leaks in.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, DriverSQLite, cfg.Database.Driver)
	require.Equal(t, "steelfist.db", cfg.Database.SQLitePath)
	require.Equal(t, "8080", cfg.Server.Port)
	require.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	require.Equal(t, int32(20), cfg.Database.MaxConns)
	require.False(t, cfg.Tracing.Enabled)
	require.Equal(t, "steelfist", cfg.Tracing.ServiceName)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	isolate(t)
	t.Setenv("STEELFIST_DATABASE_DRIVER", "postgres")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("STEELFIST_DATABASE_NAME", "gym")
	t.Setenv("PORT", "9090")
	t.Setenv("STEELFIST_TRACING_ENABLED", "true")

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, DriverPostgres, cfg.Database.Driver)
	require.Equal(t, "db.internal", cfg.Database.Host)
	require.Equal(t, "gym", cfg.Database.Name)
	require.Equal(t, "9090", cfg.Server.Port)
	require.True(t, cfg.Tracing.Enabled)
	require.Equal(t,
		"host=db.internal port=5432 user=postgres password=postgres dbname=gym sslmode=disable",
		cfg.Database.PostgresDSN())
}

func TestLoad_DotEnv(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("STEELFIST_LOG_FORMAT=json\n"), 0o600))
	t.Cleanup(func() { _ = os.Unsetenv("STEELFIST_LOG_FORMAT") })

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: "7000"
database:
  driver: sqlite
  sqlite_path: ":memory:"
log:
  level: debug
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "7000", cfg.Server.Port)
	require.Equal(t, ":memory:", cfg.Database.SQLitePath)
	require.Equal(t, "debug", cfg.Log.Level)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	isolate(t)
	cfg, err := Load("")
	require.NoError(t, err)

	bad := *cfg
	bad.Database.Driver = "mysql"
	require.ErrorContains(t, bad.Validate(), "database.driver")

	bad = *cfg
	bad.Database.SQLitePath = ""
	require.Error(t, bad.Validate())

	bad = *cfg
	bad.Log.Format = "xml"
	require.ErrorContains(t, bad.Validate(), "log.format")
}

func TestDatabaseConfig_DSNOverride(t *testing.T) {
	d := DatabaseConfig{DSN: "postgres://u:p@h/db", Host: "ignored"}
	require.Equal(t, "postgres://u:p@h/db", d.PostgresDSN())
}

func TestLogConfig_Handler(t *testing.T) {
	var buf bytes.Buffer
	h := LogConfig{Level: "warn", Format: "json"}.Handler(&buf)
	require.False(t, h.Enabled(t.Context(), -4))
	require.True(t, h.Enabled(t.Context(), 4))

	require.Equal(t, parseLevel("nonsense"), parseLevel("info"))
}
