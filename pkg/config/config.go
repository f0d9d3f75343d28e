package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the full runtime configuration of the backend
type Config struct {
	App       AppConfig
	HTTP      HTTPConfig
	GRPC      GRPCConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	Auth      AuthConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
	Kafka     KafkaConfig
	CORS      CORSConfig
	Tracing   TracingConfig
	Worker    WorkerConfig
}

type AppConfig struct {
	Name        string
	Environment string
	LogLevel    string
}

// IsDevelopment reports whether pretty console logging should be used
func (c AppConfig) IsDevelopment() bool {
	return c.Environment == "development"
}

type HTTPConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

type GRPCConfig struct {
	Port                string
	HealthCheckInterval time.Duration
}

type DatabaseConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type JWTConfig struct {
	Secret     string
	Expiration time.Duration
	Issuer     string
}

// AuthConfig controls how the caller identity is resolved on protected routes
type AuthConfig struct {
	// TrustCallerHeader accepts a bare User-Id header when no bearer token is sent
	TrustCallerHeader bool
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// Enabled reports whether a Redis address was configured
func (c RedisConfig) Enabled() bool {
	return c.Addr != ""
}

type RateLimitConfig struct {
	Requests int
	Window   time.Duration
	// TrustProxy keys clients on X-Forwarded-For. Enable only behind a proxy that overwrites it.
	TrustProxy bool
}

type KafkaConfig struct {
	Brokers []string
	Topic   string
	// GroupID is the consumer group of the favorite events worker
	GroupID string
}

// Enabled reports whether any Kafka broker was configured
func (c KafkaConfig) Enabled() bool {
	return len(c.Brokers) > 0
}

type CORSConfig struct {
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowCredentials bool
}

// WorkerConfig configures the favorite events worker
type WorkerConfig struct {
	HTTPPort      string
	PopularityKey string
}

type TracingConfig struct {
	Enabled        bool
	JaegerEndpoint string
	ServiceVersion string
}

// Load reads configuration from the environment, after loading a .env file if one exists
func Load() *Config {
	// A missing .env is normal outside local development
	_ = godotenv.Load()

	app := AppConfig{
		Name:        getEnv("APP_NAME", "property-backend"),
		Environment: getEnv("APP_ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
	}

	return &Config{
		App: app,
		HTTP: HTTPConfig{
			Port:            getEnv("HTTP_PORT", "8080"),
			ReadTimeout:     getEnvDuration("HTTP_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    getEnvDuration("HTTP_WRITE_TIMEOUT", 15*time.Second),
			IdleTimeout:     getEnvDuration("HTTP_IDLE_TIMEOUT", 60*time.Second),
			ShutdownTimeout: getEnvDuration("HTTP_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		GRPC: GRPCConfig{
			Port:                getEnv("GRPC_PORT", "9090"),
			HealthCheckInterval: getEnvDuration("GRPC_HEALTH_INTERVAL", 10*time.Second),
		},
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", "postgres"),
			DBName:          getEnv("DB_NAME", "propertydb"),
			SSLMode:         getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
		},
		JWT: JWTConfig{
			Secret:     getEnv("JWT_SECRET", "change-me-in-production"),
			Expiration: time.Duration(getEnvInt("JWT_EXPIRY_HOURS", 24)) * time.Hour,
			Issuer:     getEnv("JWT_ISSUER", "property-backend"),
		},
		Auth: AuthConfig{
			TrustCallerHeader: getEnvBool("AUTH_TRUST_CALLER_HEADER", app.IsDevelopment()),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		RateLimit: RateLimitConfig{
			Requests:   getEnvInt("RATE_LIMIT_REQUESTS", 100),
			Window:     getEnvDuration("RATE_LIMIT_WINDOW", time.Minute),
			TrustProxy: getEnvBool("RATE_LIMIT_TRUST_PROXY", false),
		},
		Kafka: KafkaConfig{
			Brokers: getEnvList("KAFKA_BROKERS", nil),
			Topic:   getEnv("KAFKA_FAVORITES_TOPIC", "property-favorites"),
			GroupID: getEnv("KAFKA_GROUP_ID", "property-favorites-worker"),
		},
		CORS: CORSConfig{
			AllowedOrigins:   getEnvList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:5173"}),
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowCredentials: true,
		},
		Tracing: TracingConfig{
			Enabled:        getEnvBool("TRACING_ENABLED", true),
			JaegerEndpoint: getEnv("JAEGER_ENDPOINT", "http://localhost:14268/api/traces"),
			ServiceVersion: getEnv("SERVICE_VERSION", "1.0.0"),
		},
		Worker: WorkerConfig{
			HTTPPort:      getEnv("WORKER_HTTP_PORT", "8081"),
			PopularityKey: getEnv("POPULARITY_KEY", "property:favorites:popularity"),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

// getEnvList splits a comma separated value, dropping empty entries
func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	if len(items) == 0 {
		return defaultValue
	}
	return items
}
