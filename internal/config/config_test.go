package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	tmpDir := t.TempDir()
	configFile := filepath.Join(tmpDir, "config.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte(content), 0600))
	return configFile
}

func TestLoadLiveTrackerConfig(t *testing.T) {
	tests := []struct {
		name        string
		configFile  string
		env         map[string]string
		expectError bool
		validate    func(*testing.T, *LiveTrackerConfig)
	}{
		{
			name: "valid config file",
			configFile: `
debug: true
environment: staging
sentry_dsn: "https://sentry.example.com"
server:
  host: 127.0.0.1
  port: 9090
auth:
  jwt_public_key: "pem"
database:
  host: localhost
  port: 5433
  user: testuser
  password: testpass
  dbname: toklytics
  sslmode: require
nats:
  url: "nats://localhost:4222"
  stream_name: "TEST_STREAM"
  publish_retries: 5
live:
  relay_url: "http://relay:5000/webcast"
  connect_timeout: "20s"
  event_queue_size: 64
`,
			validate: func(t *testing.T, cfg *LiveTrackerConfig) {
				assert.True(t, cfg.Debug)
				assert.Equal(t, "staging", cfg.Environment)
				assert.Equal(t, "https://sentry.example.com", cfg.SentryDSN)
				assert.Equal(t, "127.0.0.1", cfg.Server.Host)
				assert.Equal(t, 9090, cfg.Server.Port)
				assert.Equal(t, "pem", cfg.Auth.JWTPublicKey)
				assert.Equal(t, "localhost", cfg.Database.Host)
				assert.Equal(t, 5433, cfg.Database.Port)
				assert.Equal(t, "require", cfg.Database.SSLMode)
				assert.Equal(t, "nats://localhost:4222", cfg.NATS.URL)
				assert.Equal(t, "TEST_STREAM", cfg.NATS.StreamName)
				assert.Equal(t, uint64(5), cfg.NATS.PublishRetries)
				assert.Equal(t, "http://relay:5000/webcast", cfg.Live.RelayURL)
				assert.Equal(t, 20*time.Second, cfg.Live.ConnectTimeout)
				assert.Equal(t, 64, cfg.Live.EventQueueSize)
			},
		},
		{
			name: "config with defaults",
			configFile: `
database:
  host: localhost
  dbname: toklytics
`,
			validate: func(t *testing.T, cfg *LiveTrackerConfig) {
				assert.False(t, cfg.Debug)
				assert.Equal(t, 5432, cfg.Database.Port)
				assert.Equal(t, "disable", cfg.Database.SSLMode)
				assert.Equal(t, time.Hour, cfg.Database.ConnMaxLifetime)
				assert.Equal(t, "0.0.0.0", cfg.Server.Host)
				assert.Equal(t, 8080, cfg.Server.Port)
				assert.Equal(t, 15*time.Second, cfg.Live.ConnectTimeout)
				assert.Equal(t, 1024, cfg.Live.EventQueueSize)
				assert.Equal(t, "POWERUP_EVENTS", cfg.NATS.StreamName)
				assert.Equal(t, 10, cfg.NATS.MaxReconnects)
				assert.Equal(t, 2*time.Second, cfg.NATS.ReconnectWait)
				assert.Empty(t, cfg.Live.RelayURL)
			},
		},
		{
			name: "environment overrides file",
			configFile: `
database:
  host: localhost
  dbname: toklytics
`,
			env: map[string]string{
				"TOKLYTICS_DATABASE_HOST":  "db.internal",
				"TOKLYTICS_LIVE_RELAY_URL": "http://relay.internal/webcast",
			},
			validate: func(t *testing.T, cfg *LiveTrackerConfig) {
				assert.Equal(t, "db.internal", cfg.Database.Host)
				assert.Equal(t, "http://relay.internal/webcast", cfg.Live.RelayURL)
			},
		},
		{
			name: "missing database host",
			configFile: `
database:
  dbname: toklytics
`,
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			configFile := writeConfigFile(t, tt.configFile)

			cfg, err := LoadLiveTrackerConfig(configFile, t.TempDir())
			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, cfg)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, cfg)
			if tt.validate != nil {
				tt.validate(t, cfg)
			}
		})
	}
}

func TestLoadSweeperConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		configFile := writeConfigFile(t, `
database:
  host: localhost
  dbname: toklytics
`)
		cfg, err := LoadSweeperConfig(configFile, t.TempDir())
		require.NoError(t, err)

		assert.Equal(t, 5*time.Minute, cfg.ExpirySweeper.Interval)
		assert.Equal(t, 24*time.Hour, cfg.ExpirySweeper.NotificationWindow)
		assert.Equal(t, 4*time.Hour, cfg.ExpirySweeper.DedupeWindow)
		assert.Equal(t, 5, cfg.Database.MaxOpenConns)
		assert.Equal(t, 2, cfg.Database.MaxIdleConns)
	})

	t.Run("custom interval", func(t *testing.T) {
		configFile := writeConfigFile(t, `
database:
  host: localhost
  dbname: toklytics
expiry_sweeper:
  interval: "1m"
  dedupe_window: "2h"
`)
		cfg, err := LoadSweeperConfig(configFile, t.TempDir())
		require.NoError(t, err)

		assert.Equal(t, time.Minute, cfg.ExpirySweeper.Interval)
		assert.Equal(t, 2*time.Hour, cfg.ExpirySweeper.DedupeWindow)
	})

	t.Run("invalid interval", func(t *testing.T) {
		configFile := writeConfigFile(t, `
database:
  host: localhost
  dbname: toklytics
expiry_sweeper:
  interval: "0s"
`)
		cfg, err := LoadSweeperConfig(configFile, t.TempDir())
		assert.Error(t, err)
		assert.Nil(t, cfg)
	})

	t.Run("missing dbname", func(t *testing.T) {
		configFile := writeConfigFile(t, `
database:
  host: localhost
`)
		_, err := LoadSweeperConfig(configFile, t.TempDir())
		assert.EqualError(t, err, "database.dbname is required")
	})
}

func TestDatabaseConfigDSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "postgres",
		Password: "secret",
		DBName:   "toklytics",
		SSLMode:  "disable",
	}

	assert.Equal(t, "host=localhost port=5432 user=postgres password=secret dbname=toklytics sslmode=disable", cfg.DSN())
}
