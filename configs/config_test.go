package configs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Zero(t, cfg.RateLimit.SweepInterval)
	assert.Empty(t, cfg.Server.TrustedProxies)
	assert.Equal(t, BackendMemory, cfg.RateLimit.Backend)
	assert.Equal(t, int64(2001), cfg.Sequence.Floor)
	assert.Equal(t, "SF", cfg.Sequence.Prefix)
	assert.False(t, cfg.UsesRedis())
}

func TestLoad_RequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "s")
	t.Setenv("RATE_LIMIT_BACKEND", "redis")
	t.Setenv("RATE_LIMIT_SWEEP_INTERVAL", "30s")
	t.Setenv("SEQUENCE_FLOOR", "0")
	t.Setenv("SERVER_TRUSTED_PROXIES", "10.0.0.0/8,192.168.1.0/24")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, cfg.RateLimit.SweepInterval)
	assert.Equal(t, []string{"10.0.0.0/8", "192.168.1.0/24"}, cfg.Server.TrustedProxies)
	assert.Equal(t, int64(0), cfg.Sequence.Floor)
	assert.True(t, cfg.UsesRedis())
}

func TestValidate_RejectsBadBackends(t *testing.T) {
	cfg := &Config{
		JWT:       JWTConfig{Secret: "s"},
		RateLimit: RateLimitConfig{Backend: "etcd"},
		Sequence:  SequenceConfig{Backend: BackendPostgres, Width: 4},
	}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "RATE_LIMIT_BACKEND")
	assert.Contains(t, err.Error(), "DB_DSN")
}

func TestValidate_RejectsBadTrustedProxy(t *testing.T) {
	cfg := &Config{
		Server:    ServerConfig{TrustedProxies: []string{"10.0.0.1"}},
		JWT:       JWTConfig{Secret: "s"},
		RateLimit: RateLimitConfig{Backend: BackendMemory},
		Sequence:  SequenceConfig{Backend: BackendMemory, Width: 4},
	}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SERVER_TRUSTED_PROXIES")
}
