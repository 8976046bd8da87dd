package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "yoestudio", cfg.Database.Name)
	assert.Equal(t, 12*time.Hour, cfg.JWT.Expiration)
	assert.Equal(t, "./proofs", cfg.Storage.ProofDir)
	assert.Equal(t, int64(5*1024*1024), cfg.Storage.MaxFileSizeBytes)
	assert.False(t, cfg.Catalog.CacheEnabled)
	assert.Equal(t, time.Minute, cfg.Catalog.CacheTTL)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("ENV", EnvProduction)
	t.Setenv("PORT", "9090")
	t.Setenv("JWT_EXPIRATION", "30m")
	t.Setenv("ALLOWED_ORIGINS", "https://yoestudio.cr, https://admin.yoestudio.cr")
	t.Setenv("ENABLE_CATALOG_CACHE", "true")
	t.Setenv("PROOF_MAX_FILE_SIZE", "1024")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, EnvProduction, cfg.Env)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, 30*time.Minute, cfg.JWT.Expiration)
	assert.Equal(t, []string{"https://yoestudio.cr", "https://admin.yoestudio.cr"}, cfg.CORS.AllowedOrigins)
	assert.True(t, cfg.Catalog.CacheEnabled)
	assert.Equal(t, int64(1024), cfg.Storage.MaxFileSizeBytes)
}

func TestParseDurationFallback(t *testing.T) {
	assert.Equal(t, time.Minute, parseDuration("", time.Minute))
	assert.Equal(t, time.Minute, parseDuration("bogus", time.Minute))
	assert.Equal(t, 5*time.Second, parseDuration("5s", time.Minute))
}
