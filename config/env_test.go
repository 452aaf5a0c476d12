package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromFilesPrecedence(t *testing.T) {
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "app.json")
	envPath := filepath.Join(dir, ".env")

	require.NoError(t, os.WriteFile(jsonPath, []byte(`{
		"app_port": 8081,
		"mongo_database": "from-json",
		"jwt_ttl": "2h"
	}`), 0o644))
	require.NoError(t, os.WriteFile(envPath, []byte("MONGO_DATABASE=\"from-env-file\"\n# comment\nREDIS_ADDR=localhost:6379\n"), 0o644))

	t.Cleanup(func() { _ = loadFromFiles("", "") })
	t.Setenv("REDIS_ADDR", "redis:6380")

	require.NoError(t, loadFromFiles(jsonPath, envPath))

	assert.Equal(t, "8081", get("APP_PORT", ""))
	assert.Equal(t, "from-env-file", get("MONGO_DATABASE", ""))
	assert.Equal(t, "redis:6380", get("REDIS_ADDR", ""))
	assert.Equal(t, 2*time.Hour, duration("JWT_TTL", time.Minute))
}

func TestLoadFromFilesMissingIsNotAnError(t *testing.T) {
	dir := t.TempDir()
	t.Cleanup(func() { _ = loadFromFiles("", "") })

	require.NoError(t, loadFromFiles(filepath.Join(dir, "nope.json"), filepath.Join(dir, ".env")))
	assert.Equal(t, defaultMongoURI, get("MONGO_URI", ""))
	assert.Equal(t, defaultAppPort, get("APP_PORT", ""))
}

func TestLoadFromFilesBadJSON(t *testing.T) {
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "app.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`{not json`), 0o644))

	err := loadFromFiles(jsonPath, filepath.Join(dir, ".env"))
	assert.ErrorContains(t, err, "decode")
}

func TestDurationFallback(t *testing.T) {
	t.Cleanup(func() { _ = loadFromFiles("", "") })
	t.Setenv("SHUTDOWN_TIMEOUT", "soon")
	require.NoError(t, loadFromFiles("", ""))

	assert.Equal(t, time.Second, duration("SHUTDOWN_TIMEOUT", time.Second))
}

func TestUsingDefaultJWTSecret(t *testing.T) {
	t.Cleanup(func() { _ = loadFromFiles("", "") })
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "")
	require.NoError(t, loadFromFiles("", ""))

	assert.True(t, IsProduction())
	assert.True(t, UsingDefaultJWTSecret())

	t.Setenv("JWT_SECRET", "s3cret")
	require.NoError(t, loadFromFiles("", ""))
	assert.False(t, UsingDefaultJWTSecret())
}
