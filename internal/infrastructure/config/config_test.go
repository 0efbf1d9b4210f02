package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	// Save original env vars and restore after tests
	originalEnv := map[string]string{
		"FULFILLSYNC_APP_NAME":             os.Getenv("FULFILLSYNC_APP_NAME"),
		"FULFILLSYNC_APP_ENV":              os.Getenv("FULFILLSYNC_APP_ENV"),
		"FULFILLSYNC_APP_PORT":             os.Getenv("FULFILLSYNC_APP_PORT"),
		"FULFILLSYNC_SFTP_HOST":            os.Getenv("FULFILLSYNC_SFTP_HOST"),
		"FULFILLSYNC_SFTP_PORT":            os.Getenv("FULFILLSYNC_SFTP_PORT"),
		"FULFILLSYNC_SFTP_USER":            os.Getenv("FULFILLSYNC_SFTP_USER"),
		"FULFILLSYNC_SFTP_PASSWORD":        os.Getenv("FULFILLSYNC_SFTP_PASSWORD"),
		"FULFILLSYNC_API_KEY":              os.Getenv("FULFILLSYNC_API_KEY"),
		"FULFILLSYNC_LEDGER_BACKEND":       os.Getenv("FULFILLSYNC_LEDGER_BACKEND"),
		"FULFILLSYNC_SYNC_EXPORT_INTERVAL": os.Getenv("FULFILLSYNC_SYNC_EXPORT_INTERVAL"),
	}

	defer func() {
		for k, v := range originalEnv {
			if v == "" {
				os.Unsetenv(k)
			} else {
				os.Setenv(k, v)
			}
		}
	}()

	clearEnv := func() {
		for k := range originalEnv {
			os.Unsetenv(k)
		}
	}

	t.Run("loads default values when env vars not set", func(t *testing.T) {
		clearEnv()

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "fulfillsync-backend", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, 22, cfg.SFTP.Port)
		assert.Equal(t, "/IN", cfg.SFTP.InboxDir)
		assert.Equal(t, "/OUT", cfg.SFTP.OutboxDir)
		assert.Equal(t, "/OUT/ARCHIVES", cfg.SFTP.ArchiveDir)
		assert.Equal(t, 3, cfg.SFTP.RetryAttempts)
		assert.Equal(t, "data/outgoing", cfg.Paths.OutgoingDir)
		assert.Equal(t, "data/incoming", cfg.Paths.IncomingDir)
		assert.Equal(t, "data/backups", cfg.Paths.BackupsDir)
		assert.Equal(t, time.Hour, cfg.Sync.ExportInterval)
		assert.Equal(t, 30*time.Minute, cfg.Sync.ImportInterval)
		assert.Equal(t, "memory", cfg.Ledger.Backend)
		assert.False(t, cfg.Ledger.Enabled)
	})

	t.Run("loads values from environment variables with FULFILLSYNC prefix", func(t *testing.T) {
		clearEnv()
		os.Setenv("FULFILLSYNC_APP_NAME", "test-app")
		os.Setenv("FULFILLSYNC_APP_ENV", "testing")
		os.Setenv("FULFILLSYNC_APP_PORT", "9000")
		os.Setenv("FULFILLSYNC_SFTP_HOST", "sftp.example.com")
		os.Setenv("FULFILLSYNC_SFTP_PORT", "2222")
		os.Setenv("FULFILLSYNC_SFTP_USER", "warehouse")
		os.Setenv("FULFILLSYNC_SFTP_PASSWORD", "secret")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "test-app", cfg.App.Name)
		assert.Equal(t, "testing", cfg.App.Env)
		assert.Equal(t, "9000", cfg.App.Port)
		assert.Equal(t, "sftp.example.com", cfg.SFTP.Host)
		assert.Equal(t, 2222, cfg.SFTP.Port)
		assert.Equal(t, "warehouse", cfg.SFTP.User)
		assert.Equal(t, "secret", cfg.SFTP.Password)
	})

	t.Run("rejects unknown ledger backend", func(t *testing.T) {
		clearEnv()
		os.Setenv("FULFILLSYNC_LEDGER_BACKEND", "dynamodb")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "ledger.backend")
	})

	t.Run("rejects sub-minute sync intervals", func(t *testing.T) {
		clearEnv()
		os.Setenv("FULFILLSYNC_SYNC_EXPORT_INTERVAL", "10s")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "sync.export_interval")
	})
}

func TestLoad_ProductionValidation(t *testing.T) {
	originalEnv := map[string]string{
		"FULFILLSYNC_APP_ENV":       os.Getenv("FULFILLSYNC_APP_ENV"),
		"FULFILLSYNC_API_KEY":       os.Getenv("FULFILLSYNC_API_KEY"),
		"FULFILLSYNC_SFTP_HOST":     os.Getenv("FULFILLSYNC_SFTP_HOST"),
		"FULFILLSYNC_SFTP_USER":     os.Getenv("FULFILLSYNC_SFTP_USER"),
		"FULFILLSYNC_SFTP_PASSWORD": os.Getenv("FULFILLSYNC_SFTP_PASSWORD"),
	}

	defer func() {
		for k, v := range originalEnv {
			if v == "" {
				os.Unsetenv(k)
			} else {
				os.Setenv(k, v)
			}
		}
	}()

	clearEnv := func() {
		for k := range originalEnv {
			os.Unsetenv(k)
		}
	}

	t.Run("requires api.key in production", func(t *testing.T) {
		clearEnv()
		os.Setenv("FULFILLSYNC_APP_ENV", "production")
		os.Setenv("FULFILLSYNC_SFTP_HOST", "sftp.example.com")
		os.Setenv("FULFILLSYNC_SFTP_USER", "warehouse")
		os.Setenv("FULFILLSYNC_SFTP_PASSWORD", "secret")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "api.key is required in production")
	})

	t.Run("requires sftp credentials in production", func(t *testing.T) {
		clearEnv()
		os.Setenv("FULFILLSYNC_APP_ENV", "production")
		os.Setenv("FULFILLSYNC_API_KEY", "management-key")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "sftp.host is required in production")
	})

	t.Run("requires at least one tenant in production", func(t *testing.T) {
		clearEnv()
		os.Setenv("FULFILLSYNC_APP_ENV", "production")
		os.Setenv("FULFILLSYNC_API_KEY", "management-key")
		os.Setenv("FULFILLSYNC_SFTP_HOST", "sftp.example.com")
		os.Setenv("FULFILLSYNC_SFTP_USER", "warehouse")
		os.Setenv("FULFILLSYNC_SFTP_PASSWORD", "secret")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "at least one tenant")
	})
}

func TestSFTPConfig_Addr(t *testing.T) {
	cfg := SFTPConfig{Host: "sftp.example.com", Port: 2222}
	assert.Equal(t, "sftp.example.com:2222", cfg.Addr())
}

func TestRedisConfig_Addr(t *testing.T) {
	cfg := RedisConfig{Host: "localhost", Port: 6379}
	assert.Equal(t, "localhost:6379", cfg.Addr())
}
