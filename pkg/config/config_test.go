package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("HTTP_PORT", "")
	t.Setenv("KAFKA_BROKERS", "")
	t.Setenv("KAFKA_GROUP_ID", "")
	t.Setenv("WORKER_HTTP_PORT", "")
	t.Setenv("REDIS_ADDR", "")
	t.Setenv("CORS_ALLOWED_ORIGINS", "")
	t.Setenv("AUTH_TRUST_CALLER_HEADER", "")
	t.Setenv("APP_ENV", "")
	t.Setenv("RATE_LIMIT_TRUST_PROXY", "")

	cfg := Load()

	assert.Equal(t, "8080", cfg.HTTP.Port)
	assert.Equal(t, 24*time.Hour, cfg.JWT.Expiration)
	assert.True(t, cfg.Auth.TrustCallerHeader)
	assert.False(t, cfg.RateLimit.TrustProxy)
	assert.False(t, cfg.Kafka.Enabled())
	assert.False(t, cfg.Redis.Enabled())
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, "property-favorites", cfg.Kafka.Topic)
	assert.Equal(t, "property-favorites-worker", cfg.Kafka.GroupID)
	assert.Equal(t, "8081", cfg.Worker.HTTPPort)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("HTTP_PORT", "9000")
	t.Setenv("JWT_EXPIRY_HOURS", "2")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092,")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://localhost:5173,http://172.20.10.5:5173")
	t.Setenv("AUTH_TRUST_CALLER_HEADER", "false")
	t.Setenv("RATE_LIMIT_WINDOW", "30s")

	cfg := Load()

	assert.Equal(t, "9000", cfg.HTTP.Port)
	assert.Equal(t, 2*time.Hour, cfg.JWT.Expiration)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Kafka.Brokers)
	assert.True(t, cfg.Kafka.Enabled())
	assert.Len(t, cfg.CORS.AllowedOrigins, 2)
	assert.False(t, cfg.Auth.TrustCallerHeader)
	assert.Equal(t, 30*time.Second, cfg.RateLimit.Window)
}

func TestLoad_ProductionDistrustsCallerHeader(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("AUTH_TRUST_CALLER_HEADER", "")

	cfg := Load()

	assert.False(t, cfg.App.IsDevelopment())
	assert.False(t, cfg.Auth.TrustCallerHeader)

	t.Setenv("AUTH_TRUST_CALLER_HEADER", "true")
	assert.True(t, Load().Auth.TrustCallerHeader)
}

func TestGetEnvFallsBackOnMalformedValues(t *testing.T) {
	t.Setenv("DB_MAX_OPEN_CONNS", "lots")
	t.Setenv("TRACING_ENABLED", "maybe")
	t.Setenv("HTTP_READ_TIMEOUT", "soon")

	assert.Equal(t, 25, getEnvInt("DB_MAX_OPEN_CONNS", 25))
	assert.True(t, getEnvBool("TRACING_ENABLED", true))
	assert.Equal(t, 15*time.Second, getEnvDuration("HTTP_READ_TIMEOUT", 15*time.Second))
}
