package database

import (
	"context"
	"net/url"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stwalsh4118/rentscope/internal/config"
)

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// integrationConfig returns a config for a live database, skipping the test
// unless DB_PASSWORD is set in the environment.
func integrationConfig(t *testing.T) config.DatabaseConfig {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	password := os.Getenv("DB_PASSWORD")
	if password == "" {
		t.Skip("DB_PASSWORD not set; skipping Postgres integration test")
	}
	return config.DatabaseConfig{
		Host:     getEnvOrDefault("DB_HOST", "localhost"),
		Port:     getEnvOrDefault("DB_PORT", "5432"),
		Name:     getEnvOrDefault("DB_NAME", "rentscope"),
		User:     getEnvOrDefault("DB_USER", "postgres"),
		Password: password,
		PoolMin:  1,
		PoolMax:  2,
	}
}

func TestDSN(t *testing.T) {
	cfg := config.DatabaseConfig{
		Host:     "db.internal",
		Port:     "5433",
		Name:     "rentscope",
		User:     "reader",
		Password: "p@ss:word/1",
	}

	dsn := DSN(cfg)

	parsed, err := url.Parse(dsn)
	require.NoError(t, err)
	assert.Equal(t, "postgres", parsed.Scheme)
	assert.Equal(t, "db.internal:5433", parsed.Host)
	assert.Equal(t, "/rentscope", parsed.Path)
	assert.Equal(t, "reader", parsed.User.Username())
	password, ok := parsed.User.Password()
	require.True(t, ok)
	assert.Equal(t, "p@ss:word/1", password)
	assert.Equal(t, "disable", parsed.Query().Get("sslmode"))
	assert.Equal(t, "rentscope", parsed.Query().Get("application_name"))
}

func TestDSN_IPv6Host(t *testing.T) {
	dsn := DSN(config.DatabaseConfig{Host: "::1", Port: "5432", Name: "rentscope", User: "u", Password: "p"})

	parsed, err := url.Parse(dsn)
	require.NoError(t, err)
	assert.Equal(t, "[::1]:5432", parsed.Host)
}

func TestNewPostgresPool_Success(t *testing.T) {
	cfg := integrationConfig(t)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := NewPostgresPool(ctx, cfg)
	require.NoError(t, err)
	defer db.Close()

	require.NotNil(t, db.Pool)
	assert.NoError(t, db.Ping(ctx))
	stats := db.Stats()
	require.NotNil(t, stats)
	assert.Equal(t, int32(cfg.PoolMax), stats.MaxConns())
}

func TestNewPostgresPool_Unreachable(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping network test in short mode")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	db, err := NewPostgresPool(ctx, config.DatabaseConfig{
		Host:     "127.0.0.1",
		Port:     "1",
		Name:     "rentscope",
		User:     "postgres",
		Password: "postgres",
		PoolMin:  0,
		PoolMax:  1,
	})
	assert.Error(t, err)
	assert.Nil(t, db)
}

func TestDatabase_CloseAndStatsWithoutPool(t *testing.T) {
	db := &Database{}

	assert.NotPanics(t, db.Close)
	assert.Nil(t, db.Stats())
}
