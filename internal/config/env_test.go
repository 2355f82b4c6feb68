package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.App.Addr)
	assert.Equal(t, "uk", cfg.App.DefaultLocale)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 25, cfg.DB.MaxOpenConns)
	assert.Equal(t, DefaultPaymentDelay, cfg.Payment.Delay)
	assert.Equal(t, 2*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, "https://t.me/UkrBus_ua", cfg.Payment.SupportURL)
	assert.NotEmpty(t, cfg.CORS.AllowedOrigins)
	assert.Empty(t, cfg.DB.DSN)
}

func TestLoadGeneratesTokenSecret(t *testing.T) {
	first, err := Load("")
	require.NoError(t, err)
	second, err := Load("")
	require.NoError(t, err)

	assert.True(t, first.Auth.SecretGenerated)
	assert.NotEqual(t, "dev-preorder-secret-change-me", first.Auth.TokenSecret)
	assert.GreaterOrEqual(t, len(first.Auth.TokenSecret), 16)
	assert.NotEqual(t, first.Auth.TokenSecret, second.Auth.TokenSecret)
}

func TestLoadKeepsConfiguredTokenSecret(t *testing.T) {
	t.Setenv("UKRBUS_AUTH__TOKEN_SECRET", "configured-secret-0123")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "configured-secret-0123", cfg.Auth.TokenSecret)
	assert.False(t, cfg.Auth.SecretGenerated)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("UKRBUS_APP__DEFAULT_LOCALE", "en")
	t.Setenv("UKRBUS_APP__ADDR", ":9000")
	t.Setenv("UKRBUS_DB__MAX_OPEN_CONNS", "10")
	t.Setenv("UKRBUS_PAYMENT__DELAY", "0s")
	t.Setenv("UKRBUS_AUTH__TOKEN_TTL", "30m")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "en", cfg.App.DefaultLocale)
	assert.Equal(t, ":9000", cfg.App.Addr)
	assert.Equal(t, 10, cfg.DB.MaxOpenConns)
	assert.Equal(t, time.Duration(0), cfg.Payment.Delay, "explicit zero is kept")
	assert.Equal(t, 30*time.Minute, cfg.Auth.TokenTTL)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ukrbus.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
app:
  addr: ":7070"
  timezone: UTC
log:
  level: debug
  format: console
payment:
  delay: 1s
`), 0o600))

	t.Setenv("UKRBUS_LOG__LEVEL", "warn")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":7070", cfg.App.Addr)
	assert.Equal(t, "warn", cfg.Log.Level, "env wins over file")
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, time.Second, cfg.Payment.Delay)
	assert.Equal(t, time.UTC, cfg.Location())

	jsonPath := filepath.Join(dir, "ukrbus.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`{"app":{"default_locale":"en"}}`), 0o600))
	cfg, err = Load(jsonPath)
	require.NoError(t, err)
	assert.Equal(t, "en", cfg.App.DefaultLocale)
}

func TestLoadInvalid(t *testing.T) {
	t.Run("unsupported locale", func(t *testing.T) {
		t.Setenv("UKRBUS_APP__DEFAULT_LOCALE", "pl")
		_, err := Load("")
		assert.Error(t, err)
	})
	t.Run("short secret", func(t *testing.T) {
		t.Setenv("UKRBUS_AUTH__TOKEN_SECRET", "short")
		_, err := Load("")
		assert.Error(t, err)
	})
	t.Run("unknown timezone", func(t *testing.T) {
		t.Setenv("UKRBUS_APP__TIMEZONE", "Mars/Olympus")
		_, err := Load("")
		assert.Error(t, err)
	})
	t.Run("unsupported format", func(t *testing.T) {
		_, err := Load("config.toml")
		assert.Error(t, err)
	})
	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})
}

func TestConnectDBBadDSN(t *testing.T) {
	_, err := ConnectDB(t.Context(), DBConfig{DSN: "::not a dsn::"})
	assert.Error(t, err)
}
