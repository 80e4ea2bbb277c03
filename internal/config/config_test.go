package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "REDIS_URI", "SESSION_TTL_MIN", "SESSION_LOCK_TTL_SEC", "RATE_LIMIT_RPS", "RATE_LIMIT_BURST", "TRUST_PROXY"} {
		t.Setenv(k, "")
	}

	cfg := Load()
	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, 2*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 2*time.Minute, cfg.LockTTL)
	assert.Equal(t, 2.0, cfg.RateRPS)
	assert.Equal(t, 5, cfg.RateBurst)
	assert.False(t, cfg.TrustProxy)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("REDIS_URI", "redis://cache:6380")
	t.Setenv("SESSION_TTL_MIN", "30")
	t.Setenv("RATE_LIMIT_BURST", "not-a-number")
	t.Setenv("TRUST_PROXY", "true")

	cfg := Load()
	assert.Equal(t, "cache:6380", cfg.RedisAddr)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
	assert.Equal(t, 5, cfg.RateBurst)
	assert.True(t, cfg.TrustProxy)
}

func TestAIConfig(t *testing.T) {
	t.Setenv("LLM_API_KEY", "")
	t.Setenv("GROQ_API_KEY", "gsk-test")
	t.Setenv("LLM_MODEL", "base-model")
	t.Setenv("LLM_MODEL_VALIDATION", "grader")
	t.Setenv("LLM_TEMPERATURE", "")

	cfg := DefaultAIConfig()
	assert.True(t, cfg.IsEnabled())
	assert.Equal(t, "gsk-test", cfg.APIKey)
	assert.Equal(t, "base-model", cfg.Models.Summary)
	assert.Equal(t, "grader", cfg.Models.Validation)
	assert.InDelta(t, 0.2, cfg.Temperature, 1e-6)

	t.Setenv("GROQ_API_KEY", "")
	assert.False(t, DefaultAIConfig().IsEnabled())
}
