package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unset clears keys for the duration of the test.
func unset(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

func TestLoadDefaults(t *testing.T) {
	unset(t, "APP_ENV", "STORE_BACKEND", "HTTP_ADDR", "PAYMENT_DELAY", "PAYMENT_LIMIT", "CHECKOUT_PRICE_FROM_CATALOG", "KAFKA_ADDR")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, BackendFile, cfg.StoreBackend)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, 2*time.Second, cfg.PaymentDelay)
	assert.True(t, cfg.PaymentLimit.IsZero())
	assert.True(t, cfg.PriceFromCatalog)
	assert.False(t, cfg.KafkaEnabled())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("STORE_BACKEND", " Redis ")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("KAFKA_ADDR", "k1:9092,k2:9092")
	t.Setenv("PAYMENT_DELAY", "150ms")
	t.Setenv("PAYMENT_LIMIT", "500.50")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, BackendRedis, cfg.StoreBackend)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.True(t, cfg.KafkaEnabled())
	assert.Equal(t, 150*time.Millisecond, cfg.PaymentDelay)
	assert.Equal(t, "500.5", cfg.PaymentLimit.String())
}

func TestLoadRejectsIncompleteBackend(t *testing.T) {
	t.Setenv("STORE_BACKEND", "postgres")
	t.Setenv("PG_URL", "")

	_, err := Load()
	assert.ErrorContains(t, err, "PG_URL")

	t.Setenv("STORE_BACKEND", "cassandra")
	_, err = Load()
	assert.ErrorContains(t, err, "unknown STORE_BACKEND")
}

func TestLoadLocalEnvFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env.local"), []byte("HTTP_ADDR=:7070\n"), 0o600))
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	t.Setenv("APP_ENV", "local")
	t.Setenv("STORE_BACKEND", "memory")
	unset(t, "HTTP_ADDR")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":7070", cfg.HTTPAddr)
}
