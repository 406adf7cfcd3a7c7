package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SESSION_SECRET", testSecret)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.Server.Port)
	assert.Equal(t, 1500*time.Millisecond, cfg.Server.ApplyRedirectDelay)
	assert.Equal(t, 500*time.Millisecond, cfg.Server.SaveRedirectDelay)
	assert.Equal(t, BackendMemory, cfg.Session.Backend)
	assert.Equal(t, "http://localhost:8080/api/v1", cfg.API.BaseURL)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "pt-BR", cfg.Display.Locale)
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	content := "SESSION_SECRET=" + testSecret + "\nSESSION_BACKEND=Redis\nALLOWED_ORIGINS=https://a.io, https://b.io\nAPI_TIMEOUT=3s\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Setenv("SESSION_SECRET", "")
	t.Setenv("SESSION_BACKEND", "")
	t.Setenv("ALLOWED_ORIGINS", "")
	t.Setenv("API_TIMEOUT", "")
	// godotenv does not override variables that are already set, even empty ones.
	os.Unsetenv("SESSION_SECRET")
	os.Unsetenv("SESSION_BACKEND")
	os.Unsetenv("ALLOWED_ORIGINS")
	os.Unsetenv("API_TIMEOUT")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, BackendRedis, cfg.Session.Backend)
	assert.Equal(t, []string{"https://a.io", "https://b.io"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, 3*time.Second, cfg.API.Timeout)
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Run("should require a long secret", func(t *testing.T) {
		t.Setenv("SESSION_SECRET", "short")
		_, err := Load("")
		assert.ErrorContains(t, err, "SESSION_SECRET")
	})

	t.Run("should report every bad duration", func(t *testing.T) {
		t.Setenv("SESSION_SECRET", testSecret)
		t.Setenv("API_TIMEOUT", "soon")
		t.Setenv("SESSION_IDLE_TTL", "forever")
		_, err := Load("")
		require.Error(t, err)
		assert.ErrorContains(t, err, "API_TIMEOUT")
		assert.ErrorContains(t, err, "SESSION_IDLE_TTL")
	})

	t.Run("should reject origins without a scheme", func(t *testing.T) {
		t.Setenv("SESSION_SECRET", testSecret)
		t.Setenv("ALLOWED_ORIGINS", "localhost:3000")
		_, err := Load("")
		assert.ErrorContains(t, err, "ALLOWED_ORIGINS")
	})

	t.Run("should reject non-positive session intervals", func(t *testing.T) {
		for _, key := range []string{"SESSION_SWEEP_INTERVAL", "SESSION_IDLE_TTL", "SESSION_MAX_AGE"} {
			t.Setenv("SESSION_SECRET", testSecret)
			t.Setenv(key, "0s")
			_, err := Load("")
			assert.ErrorContains(t, err, key)
			t.Setenv(key, "-1m")
			_, err = Load("")
			assert.ErrorContains(t, err, key)
			t.Setenv(key, "")
		}
	})

	t.Run("should reject unknown backends", func(t *testing.T) {
		t.Setenv("SESSION_SECRET", testSecret)
		t.Setenv("SESSION_BACKEND", "etcd")
		_, err := Load("")
		assert.ErrorContains(t, err, "etcd")
	})
}

func TestDSN(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: "5432", User: "u", Password: "p", DBName: "n"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=n sslmode=disable", d.DSN())
}
