package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadFromMissingFilesUsesDefaults(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, LoadFrom(filepath.Join(dir, "app.json"), filepath.Join(dir, ".env")))

	assert.Equal(t, "sqlite", DatabaseDriver())
	assert.Equal(t, "recipes.db", DatabaseDSN())
	assert.Equal(t, "local", AppEnv())
	assert.Empty(t, RedisAddr())
	assert.Empty(t, PushgatewayURL())
	assert.Equal(t, "seed_logs", LogMongoCollection())
}

func TestDotEnvOverridesJSON(t *testing.T) {
	dir := t.TempDir()
	jsonPath := writeFile(t, dir, "app.json", `{"db_driver": "mysql", "app_env": "staging", "ignored": 3}`)
	envPath := writeFile(t, dir, ".env", "# comment\nDB_DRIVER=postgres\nREDIS_ADDR=\"localhost:6379\"\n")

	require.NoError(t, LoadFrom(jsonPath, envPath))

	assert.Equal(t, "postgres", DatabaseDriver())
	assert.Contains(t, DatabaseDSN(), "dbname=recipes")
	assert.Equal(t, "staging", AppEnv())
	assert.Equal(t, "localhost:6379", RedisAddr())
}

func TestProcessEnvironmentWins(t *testing.T) {
	dir := t.TempDir()
	envPath := writeFile(t, dir, ".env", "DB_DRIVER=postgres\n")
	t.Setenv("DB_DRIVER", "sqlserver")
	t.Setenv("DATABASE_DSN", "sqlserver://example")

	require.NoError(t, LoadFrom(filepath.Join(dir, "missing.json"), envPath))

	assert.Equal(t, "sqlserver", DatabaseDriver())
	assert.Equal(t, "sqlserver://example", DatabaseDSN())
}

func TestUnknownDriverFallsBackToSQLite(t *testing.T) {
	dir := t.TempDir()
	envPath := writeFile(t, dir, ".env", "DB_DRIVER=oracle\n")

	require.NoError(t, LoadFrom(filepath.Join(dir, "missing.json"), envPath))

	assert.Equal(t, "sqlite", DatabaseDriver())
}

func TestMalformedJSONIsAnError(t *testing.T) {
	dir := t.TempDir()
	jsonPath := writeFile(t, dir, "app.json", `{not json`)

	err := LoadFrom(jsonPath, filepath.Join(dir, ".env"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode")
}
