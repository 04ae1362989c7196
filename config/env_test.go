package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFromFilesPrecedence(t *testing.T) {
	dir := t.TempDir()
	jsonPath := writeFile(t, dir, "app.json", `{"app_port": "9000", "db_driver": "postgres", "auto_migrate": false}`)
	envPath := writeFile(t, dir, ".env", "# comment\nAPP_PORT=9100\nSESSION_TTL=\"30m\"\n")

	// Consume the one-shot Load so it cannot overwrite the values below.
	require.NoError(t, Load())
	require.NoError(t, loadFromFiles(jsonPath, envPath))
	t.Cleanup(func() { _ = loadFromFiles("", "") })

	assert.Equal(t, "9100", get("APP_PORT", ""), ".env overrides app.json")
	assert.Equal(t, "postgres", get("DB_DRIVER", ""))
	assert.Equal(t, "false", get("AUTO_MIGRATE", ""))
	assert.Equal(t, 30*time.Minute, Duration("SESSION_TTL", time.Hour))

	t.Setenv("APP_PORT", "9200")
	assert.Equal(t, "9200", AppPort(), "environment overrides files")
}

func TestMissingFilesAreIgnored(t *testing.T) {
	dir := t.TempDir()
	err := loadFromFiles(filepath.Join(dir, "nope.json"), filepath.Join(dir, "nope.env"))
	require.NoError(t, err)
	assert.Equal(t, defaultDatabaseDriver, get("DB_DRIVER", ""))
}

func TestMalformedJSONFails(t *testing.T) {
	dir := t.TempDir()
	jsonPath := writeFile(t, dir, "app.json", `{not json`)
	err := loadFromFiles(jsonPath, filepath.Join(dir, ".env"))
	require.Error(t, err)
}

func TestTypedGetters(t *testing.T) {
	t.Setenv("AUTH_RATE_LIMIT", "5")
	t.Setenv("AUTO_MIGRATE", "0")
	t.Setenv("SESSION_SWEEP_INTERVAL", "garbage")
	t.Setenv("SESSION_DRIVER", "etcd")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example ,")

	assert.Equal(t, 5, AuthRateLimit())
	assert.False(t, AutoMigrate())
	assert.Equal(t, time.Minute, SessionSweepInterval())
	assert.Equal(t, "memory", SessionDriver())
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, CORSOrigins())
}

func TestPortFallsBackToPORT(t *testing.T) {
	t.Setenv("APP_PORT", "")
	t.Setenv("PORT", "3000")
	assert.Equal(t, "3000", AppPort())
}

func TestDatabaseDSNDefaultsPerDriver(t *testing.T) {
	t.Setenv("DATABASE_DSN", "")
	t.Setenv("DB_DRIVER", "mysql")
	assert.Equal(t, defaultMySQLDSN, DatabaseDSN())

	t.Setenv("DB_DRIVER", "oracle")
	assert.Equal(t, "sqlite", DatabaseDriver())
	assert.Equal(t, defaultSQLiteDSN, DatabaseDSN())
}
