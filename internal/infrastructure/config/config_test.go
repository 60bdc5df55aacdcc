package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	// Save original env vars and restore after tests
	originalEnv := map[string]string{
		"CHECKOUT_APP_NAME":            os.Getenv("CHECKOUT_APP_NAME"),
		"CHECKOUT_APP_ENV":             os.Getenv("CHECKOUT_APP_ENV"),
		"CHECKOUT_APP_PORT":            os.Getenv("CHECKOUT_APP_PORT"),
		"CHECKOUT_REDIS_ENABLED":       os.Getenv("CHECKOUT_REDIS_ENABLED"),
		"CHECKOUT_REDIS_HOST":          os.Getenv("CHECKOUT_REDIS_HOST"),
		"CHECKOUT_REDIS_PORT":          os.Getenv("CHECKOUT_REDIS_PORT"),
		"CHECKOUT_SESSION_TTL":         os.Getenv("CHECKOUT_SESSION_TTL"),
		"CHECKOUT_AUTH_JWT_SECRET":     os.Getenv("CHECKOUT_AUTH_JWT_SECRET"),
		"CHECKOUT_PRINTFUL_API_KEY":    os.Getenv("CHECKOUT_PRINTFUL_API_KEY"),
		"CHECKOUT_PRINTFUL_BASE_URL":   os.Getenv("CHECKOUT_PRINTFUL_BASE_URL"),
		"CHECKOUT_STOREFRONT_BASE_URL": os.Getenv("CHECKOUT_STOREFRONT_BASE_URL"),
		"CHECKOUT_STRIPE_SECRET_KEY":   os.Getenv("CHECKOUT_STRIPE_SECRET_KEY"),
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

		assert.Equal(t, "checkout-backend", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, "localhost", cfg.Redis.Host)
		assert.Equal(t, 6379, cfg.Redis.Port)
		assert.False(t, cfg.Redis.Enabled)
		assert.Equal(t, "https://api.printful.com", cfg.Printful.BaseURL)
		assert.Equal(t, "json", cfg.Log.Format)
	})

	t.Run("loads values from environment variables with CHECKOUT prefix", func(t *testing.T) {
		clearEnv()
		os.Setenv("CHECKOUT_APP_NAME", "test-app")
		os.Setenv("CHECKOUT_APP_ENV", "testing")
		os.Setenv("CHECKOUT_APP_PORT", "9000")
		os.Setenv("CHECKOUT_REDIS_ENABLED", "true")
		os.Setenv("CHECKOUT_REDIS_HOST", "cache.local")
		os.Setenv("CHECKOUT_REDIS_PORT", "6380")
		os.Setenv("CHECKOUT_PRINTFUL_BASE_URL", "https://printful.test")
		os.Setenv("CHECKOUT_STOREFRONT_BASE_URL", "https://store.test")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "test-app", cfg.App.Name)
		assert.Equal(t, "testing", cfg.App.Env)
		assert.Equal(t, "9000", cfg.App.Port)
		assert.True(t, cfg.Redis.Enabled)
		assert.Equal(t, "cache.local", cfg.Redis.Host)
		assert.Equal(t, 6380, cfg.Redis.Port)
		assert.Equal(t, "https://printful.test", cfg.Printful.BaseURL)
		assert.Equal(t, "https://store.test", cfg.Storefront.BaseURL)
	})

	t.Run("rejects session TTL below one minute", func(t *testing.T) {
		clearEnv()
		os.Setenv("CHECKOUT_SESSION_TTL", "10s")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "session.ttl")
	})

	t.Run("production requires secrets", func(t *testing.T) {
		clearEnv()
		os.Setenv("CHECKOUT_APP_ENV", "production")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "auth.jwt_secret")
	})

	t.Run("production accepts complete configuration", func(t *testing.T) {
		clearEnv()
		os.Setenv("CHECKOUT_APP_ENV", "production")
		os.Setenv("CHECKOUT_AUTH_JWT_SECRET", "a-production-secret-of-sufficient-length")
		os.Setenv("CHECKOUT_PRINTFUL_API_KEY", "pf-key")
		os.Setenv("CHECKOUT_STOREFRONT_BASE_URL", "https://store.example.com")
		os.Setenv("CHECKOUT_STRIPE_SECRET_KEY", "sk_live_abc")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "production", cfg.App.Env)
	})
}

func TestRedisConfig_Addr(t *testing.T) {
	cfg := RedisConfig{Host: "cache.local", Port: 6380}
	assert.Equal(t, "cache.local:6380", cfg.Addr())
}
