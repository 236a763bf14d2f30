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
	t.Helper()
	for k, v := range map[string]string{
		"APP_ENV":                "test",
		"APP_PORT":               "8080",
		"DB_USER":                "pitch",
		"DB_HOST":                "127.0.0.1",
		"DB_PORT":                "3306",
		"DB_NAME":                "pitch_booking",
		"JWT_SECRET":             "0123456789abcdef0123",
		"ACCESS_TOKEN_TTL_MIN":   "15",
		"REFRESH_TOKEN_TTL_DAYS": "7",
		"BCRYPT_COST":            "4",
	} {
		t.Setenv(k, v)
	}
}

func TestLoad(t *testing.T) {
	setRequired(t)
	t.Setenv("APP_TIMEZONE", "Europe/London")
	t.Setenv("RABBITMQ_URL", "amqp://u:p@mq:5672/")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "test", cfg.Env)
	assert.Equal(t, 15, cfg.AccessTTLMin)
	assert.Equal(t, "amqp://u:p@mq:5672/", cfg.AMQPURL)
	assert.Equal(t, "logs/roster.log", cfg.AuditLogPath)
	assert.Equal(t, "Europe/London", cfg.Location().String())
}

func TestLoad_ReportsAllMissing(t *testing.T) {
	setRequired(t)
	t.Setenv("DB_HOST", "")
	t.Setenv("BCRYPT_COST", "ten")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_HOST")
	assert.Contains(t, err.Error(), `BCRYPT_COST (invalid int "ten")`)
}

func TestLoad_Validation(t *testing.T) {
	tests := []struct {
		name, key, value string
	}{
		{"short secret", "JWT_SECRET", "short"},
		{"port not numeric", "APP_PORT", "http"},
		{"bcrypt cost too low", "BCRYPT_COST", "2"},
		{"unknown zone", "APP_TIMEZONE", "Mars/Olympus"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequired(t)
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoadDotEnv_DoesNotOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("PITCH_TEST_A=file\nPITCH_TEST_B=file\n"), 0o600))
	t.Setenv("PITCH_TEST_A", "process")
	t.Cleanup(func() { os.Unsetenv("PITCH_TEST_B") })

	require.NoError(t, LoadDotEnv(path, filepath.Join(dir, "missing.env")))
	assert.Equal(t, "process", os.Getenv("PITCH_TEST_A"))
	assert.Equal(t, "file", os.Getenv("PITCH_TEST_B"))
}

func TestRateLimitNormalize(t *testing.T) {
	c := RateLimitConfig{RefillInterval: 2 * time.Second, TTL: time.Second}.normalize()
	assert.Equal(t, 1, c.Capacity)
	assert.Equal(t, 1, c.RefillTokens)
	assert.Equal(t, 10*time.Second, c.TTL)
}

func TestLoadRedisConfig(t *testing.T) {
	t.Setenv("REDIS_ADDR", "ignored:1")
	t.Setenv("REDIS_HOST", "cache")
	t.Setenv("REDIS_PORT", "6380")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("REDIS_TLS", "yes")

	c := LoadRedisConfig()
	assert.Equal(t, RedisConfig{Addr: "cache:6380", DB: 2, TLS: true}, c)
}

func TestLoadCacheConfig_Methods(t *testing.T) {
	t.Setenv("CACHE_METHODS", "get, head")
	c := LoadCacheConfig()
	assert.True(t, c.Methods["GET"])
	assert.True(t, c.Methods["HEAD"])
	assert.False(t, c.Methods["POST"])
	assert.Equal(t, "pitch:cache", c.Prefix)
}
