package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("SESSION_SECRET", "s3cret")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.Server.Port)
	assert.Equal(t, "hivetool", cfg.MongoDB.DBName)
	assert.Equal(t, 336*time.Hour, cfg.Session.TTL)
	assert.Equal(t, 24*time.Hour, cfg.Session.TouchAfter)
	assert.Equal(t, "0 20 * * 5", cfg.Reporting.CronSchedule)
	assert.Equal(t, "UTC", cfg.Reporting.Timezone)
	assert.False(t, cfg.Google.Enabled())
	assert.False(t, cfg.Sheets.Enabled())
	assert.False(t, cfg.WhatsApp.Enabled())
}

func TestLoad_FromEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	content := "SESSION_SECRET=from-file\nPORT=9090\nMONGODB_URI=mongodb://localhost:27017\nGOOGLE_CLIENT_ID=id\nGOOGLE_CLIENT_SECRET=secret\nGOOGLE_CALLBACK_URL=http://localhost:9090/auth/google/callback\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Cleanup(func() {
		for _, k := range []string{"SESSION_SECRET", "PORT", "MONGODB_URI", "GOOGLE_CLIENT_ID", "GOOGLE_CLIENT_SECRET", "GOOGLE_CALLBACK_URL"} {
			_ = os.Unsetenv(k)
		}
	})

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "from-file", cfg.Session.Secret)
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "mongodb://localhost:27017", cfg.MongoDB.URI)
	assert.True(t, cfg.Google.Enabled())
}

func TestLoad_MissingSecret(t *testing.T) {
	t.Setenv("SESSION_SECRET", "")

	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SESSION_SECRET")
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server:    ServerConfig{Port: "3000"},
			Session:   SessionConfig{Secret: "x", TTL: time.Hour},
			MongoDB:   MongoDBConfig{DBName: "hivetool"},
			Reporting: ReportingConfig{CronSchedule: "0 20 * * 5", Timezone: "UTC"},
		}
	}

	t.Run("ok", func(t *testing.T) {
		assert.NoError(t, valid().Validate())
	})

	t.Run("nil", func(t *testing.T) {
		var c *Config
		assert.Error(t, c.Validate())
	})

	t.Run("partial google config", func(t *testing.T) {
		c := valid()
		c.Google.ClientID = "only-id"
		assert.ErrorContains(t, c.Validate(), "GOOGLE_CLIENT_ID")
	})

	t.Run("bad timezone", func(t *testing.T) {
		c := valid()
		c.Reporting.Timezone = "Mars/Olympus"
		assert.ErrorContains(t, c.Validate(), "TIMEZONE")
	})

	t.Run("non positive ttl", func(t *testing.T) {
		c := valid()
		c.Session.TTL = 0
		assert.Error(t, c.Validate())
	})
}
