package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://u:p@localhost:5432/shop?sslmode=disable")
	t.Setenv("API_KEY", "abcdefghijklmnop")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load("")

	require.NoError(t, err)
	assert.Equal(t, EnvLocal, cfg.Env)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, 10*time.Second, cfg.HTTP.RequestTimeout)
	assert.Equal(t, 5*time.Second, cfg.HTTP.ShutdownTimeout)
	assert.Equal(t, "analytics-usage", cfg.Kafka.Topic)
	assert.Empty(t, cfg.Kafka.Brokers)
	assert.Equal(t, uint32(5), cfg.Breaker.MaxFailures)
	assert.Equal(t, 30*time.Second, cfg.Breaker.OpenTimeout)
}

func TestLoad_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("ENV", "prod")
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("REQUEST_TIMEOUT", "250ms")
	t.Setenv("KAFKA_BROKERS", "a:9092,b:9092")
	t.Setenv("BREAKER_MAX_FAILURES", "2")

	cfg, err := Load("")

	require.NoError(t, err)
	assert.Equal(t, EnvProd, cfg.Env)
	assert.Equal(t, ":9090", cfg.HTTP.Addr)
	assert.Equal(t, 250*time.Millisecond, cfg.HTTP.RequestTimeout)
	assert.Equal(t, "a:9092,b:9092", cfg.Kafka.Brokers)
	assert.Equal(t, uint32(2), cfg.Breaker.MaxFailures)
}

func TestLoad_MissingDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	_, err := Load("")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL is required")
}

func TestLoad_APIKeyNotNeededOutsideAPI(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/shop")
	t.Setenv("API_KEY", "")
	t.Setenv("API_KEY_HASH", "")

	cfg, err := Load("")

	require.NoError(t, err)
	assert.EqualError(t, cfg.ValidateAPI(), "API_KEY or API_KEY_HASH is required")
}

func TestValidateAPI(t *testing.T) {
	tests := []struct {
		name    string
		auth    Auth
		wantErr bool
	}{
		{"plain key", Auth{APIKey: "abcdefghijklmnop"}, false},
		{"hash only", Auth{APIKeyHash: "$2a$12$abcdefghijklmnopqrstuuabcdefghijklmnopqrstuvwxyz01234"}, false},
		{"neither", Auth{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Config{Auth: tt.auth}
			err := cfg.ValidateAPI()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	setRequired(t)
	t.Setenv("ENV", "staging")
	t.Setenv("LOG_LEVEL", "loud")

	_, err := Load("")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "ENV must be")
	assert.Contains(t, err.Error(), "LOG_LEVEL")
}

func TestLoad_DotenvFile(t *testing.T) {
	t.Setenv("API_KEY", "abcdefghijklmnop")
	// registered so t restores the variable after godotenv sets it
	t.Setenv("DATABASE_URL", "")
	os.Unsetenv("DATABASE_URL")
	t.Setenv("HTTP_ADDR", "")
	os.Unsetenv("HTTP_ADDR")

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("DATABASE_URL=postgres://from-file/shop\nHTTP_ADDR=:7070\nAPI_KEY=ignored-because-set\n"), 0o600))

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "postgres://from-file/shop", cfg.Postgres.URL)
	assert.Equal(t, ":7070", cfg.HTTP.Addr)
	assert.Equal(t, "abcdefghijklmnop", cfg.Auth.APIKey)
}

func TestLoad_MissingDotenvIsIgnored(t *testing.T) {
	setRequired(t)

	_, err := Load(filepath.Join(t.TempDir(), "absent.env"))

	assert.NoError(t, err)
}

func TestNewLogger(t *testing.T) {
	logger, err := NewLogger(EnvProd, "warn")
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(-1))
	assert.True(t, logger.Core().Enabled(1))

	_, err = NewLogger(EnvLocal, "nope")
	assert.Error(t, err)
}
