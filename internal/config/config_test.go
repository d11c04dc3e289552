package config_test

import (
	"testing"
	"time"

	"github.com/blockconnect/backend/internal/config"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg := config.Load()

	require.Equal(t, "localhost", cfg.DBHost)
	require.Equal(t, "5432", cfg.DBPort)
	require.Equal(t, "blockconnect", cfg.DBName)
	require.Equal(t, "8080", cfg.Port)
	require.Equal(t, 15*time.Minute, cfg.JWTAccessExpiry)
	require.Equal(t, 168*time.Hour, cfg.JWTRefreshExpiry)
	require.Equal(t, "uploads", cfg.UploadDir)
	require.Equal(t, int64(10*1024*1024), cfg.MaxUploadSize)
	require.Equal(t, "categories.json", cfg.CatalogPath)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PASSWORD", "s3cret")
	t.Setenv("JWT_ACCESS_EXPIRY", "30m")
	t.Setenv("PORT", "9090")

	cfg := config.Load()

	require.Equal(t, "db.internal", cfg.DBHost)
	require.Equal(t, "s3cret", cfg.DBPassword)
	require.Equal(t, 30*time.Minute, cfg.JWTAccessExpiry)
	require.Equal(t, "9090", cfg.Port)
}

func TestInvalidDurationFallsBack(t *testing.T) {
	t.Setenv("JWT_ACCESS_EXPIRY", "not-a-duration")
	cfg := config.Load()
	require.Equal(t, 15*time.Minute, cfg.JWTAccessExpiry)
}

func TestDSN(t *testing.T) {
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_USER", "app")
	t.Setenv("DB_PASSWORD", "s3cret")
	t.Setenv("DB_NAME", "blockconnect")

	dsn := config.Load().DSN()
	require.Contains(t, dsn, "host=db.internal")
	require.Contains(t, dsn, "user=app")
	require.Contains(t, dsn, "password=s3cret")
	require.Contains(t, dsn, "dbname=blockconnect")
	require.Contains(t, dsn, "sslmode=disable")
}
