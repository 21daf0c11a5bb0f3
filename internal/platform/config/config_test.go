package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envMap(m map[string]string) func(string) string {
	return func(key string) string { return m[key] }
}

func TestFromEnv_RequiresSigningSecret(t *testing.T) {
	_, err := FromEnv(envMap(map[string]string{}))
	require.ErrorIs(t, err, ErrMissingJWTSecret)
}

func TestFromEnv_Defaults(t *testing.T) {
	cfg, err := FromEnv(envMap(map[string]string{"JWT_SECRET": "test-secret"}))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "test-secret", cfg.JWTSigningKey)
	assert.Equal(t, 8*time.Hour, cfg.TokenTTL)
	assert.Empty(t, cfg.Redis.URL)
	assert.Positive(t, cfg.AuditQueueSize)
	assert.False(t, cfg.TrustProxyHeaders)
}

func TestFromEnv_Overrides(t *testing.T) {
	cfg, err := FromEnv(envMap(map[string]string{
		"JWT_SECRET":          "s",
		"MUNIADMIN_ADDR":      ":9999",
		"TOKEN_TTL":           "15m",
		"REDIS_URL":           "redis://localhost:6379/0",
		"TRUST_PROXY_HEADERS": "true",
	}))
	require.NoError(t, err)

	assert.Equal(t, ":9999", cfg.Addr)
	assert.Equal(t, 15*time.Minute, cfg.TokenTTL)
	assert.Equal(t, "redis://localhost:6379/0", cfg.Redis.URL)
	assert.True(t, cfg.TrustProxyHeaders)
}

func TestFromEnv_BadDurationFallsBack(t *testing.T) {
	cfg, err := FromEnv(envMap(map[string]string{
		"JWT_SECRET": "s",
		"TOKEN_TTL":  "not-a-duration",
	}))
	require.NoError(t, err)
	assert.Equal(t, 8*time.Hour, cfg.TokenTTL)
}
