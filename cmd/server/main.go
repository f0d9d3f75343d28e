package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"gorm.io/gorm"

	_ "github.com/propmanagement/backend/docs"
	"github.com/propmanagement/backend/internal/favorite"
	favoritehttp "github.com/propmanagement/backend/internal/favorite/delivery/http"
	favoriterepo "github.com/propmanagement/backend/internal/favorite/repository"
	"github.com/propmanagement/backend/internal/favorite/usecase"
	"github.com/propmanagement/backend/internal/popularity"
	propertyhttp "github.com/propmanagement/backend/internal/property/delivery/http"
	propertyrepo "github.com/propmanagement/backend/internal/property/repository"
	userhttp "github.com/propmanagement/backend/internal/user/delivery/http"
	userrepo "github.com/propmanagement/backend/internal/user/repository"
	"github.com/propmanagement/backend/kafka"
	"github.com/propmanagement/backend/pkg/auth"
	"github.com/propmanagement/backend/pkg/config"
	"github.com/propmanagement/backend/pkg/database"
	"github.com/propmanagement/backend/pkg/grpcserver"
	"github.com/propmanagement/backend/pkg/logger"
	"github.com/propmanagement/backend/pkg/middleware"
	"github.com/propmanagement/backend/pkg/tracing"
)

// eventPublisher is a favorite event publisher that must be closed on shutdown
type eventPublisher interface {
	usecase.EventPublisher
	Close() error
}

func main() {
	cfg := config.Load()

	logger.Init(cfg.App.Name, cfg.App.IsDevelopment())
	logger.SetLevel(cfg.App.LogLevel)

	logger.Logger.Info().
		Str("environment", cfg.App.Environment).
		Str("log_level", cfg.App.LogLevel).
		Msg("Starting property backend")

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer(cfg.App.Name, cfg.Tracing)
		if err != nil {
			logger.Logger.Warn().Err(err).Msg("Failed to initialize tracer, continuing without tracing")
		} else {
			defer func() {
				if err := tracing.Shutdown(context.Background(), tp); err != nil {
					logger.Logger.Error().Err(err).Msg("Failed to shutdown tracer")
				}
			}()
		}
	}

	db, err := database.NewGormConnection(cfg.Database)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer database.Close(db)

	if err := migrate(db); err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to run migrations")
	}
	logger.Logger.Info().Msg("Database initialized successfully")

	sqlDB, err := db.DB()
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to get database instance")
	}

	redisClient := connectRedis(cfg.Redis)
	if redisClient != nil {
		defer redisClient.Close()
	}

	events := newEventPublisher(cfg.Kafka)
	defer events.Close()

	tokens := auth.NewTokenService(cfg.JWT)
	authn := middleware.NewAuthenticator(tokens, cfg.Auth.TrustCallerHeader)
	metrics := middleware.NewMetrics(prometheus.DefaultRegisterer, "property_backend")

	router := mux.NewRouter()

	users := userrepo.NewGormUserRepository(db)
	userhttp.NewUserHandler(users, tokens, authn, metrics, prometheus.DefaultRegisterer).RegisterRoutes(router)

	if redisClient != nil {
		store := popularity.NewRedisStore(redisClient, cfg.Worker.PopularityKey)
		popularity.NewHandler(store, metrics).RegisterRoutes(router)
	}

	properties := propertyrepo.NewGormPropertyRepository(db)
	propertyhttp.NewPropertyHandler(properties, users, authn, metrics, prometheus.DefaultRegisterer).RegisterRoutes(router)

	favoriteHandler, err := favorite.InitializeHTTPHandler(db, events, authn, metrics, prometheus.DefaultRegisterer)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize favorite handler")
	}
	favoriteHandler.RegisterRoutes(router)

	favoritehttp.RegisterHealthCheck(router, sqlDB)
	router.Handle("/metrics", promhttp.Handler())
	router.PathPrefix("/swagger/").Handler(httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	limiter := middleware.NewRateLimiter(redisClient, cfg.RateLimit.Requests, cfg.RateLimit.Window, cfg.RateLimit.TrustProxy)
	var handler http.Handler = limiter.Middleware(router)
	handler = middleware.Logging(handler)
	handler = middleware.Tracing(cfg.App.Name)(handler)
	handler = middleware.NewCORS(cfg.CORS).Handler(handler)

	httpServer := &http.Server{
		Addr:         ":" + cfg.HTTP.Port,
		Handler:      handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	go func() {
		logger.Logger.Info().
			Str("port", cfg.HTTP.Port).
			Str("metrics_endpoint", "/metrics").
			Str("swagger", "/swagger/index.html").
			Msg("HTTP server started")

		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Logger.Fatal().Err(err).Msg("Failed to start HTTP server")
		}
	}()

	grpcServer := grpcserver.New()
	lis, err := net.Listen("tcp", ":"+cfg.GRPC.Port)
	if err != nil {
		logger.Logger.Fatal().Err(err).Str("port", cfg.GRPC.Port).Msg("Failed to listen for gRPC")
	}
	go func() {
		if err := grpcServer.Serve(lis); err != nil {
			logger.Logger.Error().Err(err).Msg("gRPC server stopped")
		}
	}()

	monitorCtx, stopMonitor := context.WithCancel(context.Background())
	go grpcServer.MonitorDatabase(monitorCtx, sqlDB, cfg.GRPC.HealthCheckInterval)

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Logger.Info().Msg("Shutting down servers...")
	stopMonitor()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Logger.Error().Err(err).Msg("HTTP server forced to shutdown")
	}
	grpcServer.GracefulStop()

	logger.Logger.Info().Msg("Server exited")
}

// migrate creates the tables in dependency order
func migrate(db *gorm.DB) error {
	if err := userrepo.NewGormUserRepository(db).AutoMigrate(); err != nil {
		return err
	}
	if err := propertyrepo.NewGormPropertyRepository(db).AutoMigrate(); err != nil {
		return err
	}
	return favoriterepo.NewGormFavoriteRepository(db).AutoMigrate()
}

// connectRedis returns nil when Redis is not configured or unreachable, which disables rate limiting
func connectRedis(cfg config.RedisConfig) *redis.Client {
	if !cfg.Enabled() {
		logger.Logger.Info().Msg("Redis not configured - rate limiting disabled")
		return nil
	}

	client, err := database.NewRedisClient(cfg)
	if err != nil {
		logger.Logger.Warn().
			Err(err).
			Str("redis_addr", cfg.Addr).
			Msg("Failed to connect to Redis - rate limiting will be disabled")
		return nil
	}

	logger.Logger.Info().Str("redis_addr", cfg.Addr).Msg("Connected to Redis")
	return client
}

func newEventPublisher(cfg config.KafkaConfig) eventPublisher {
	if !cfg.Enabled() {
		logger.Logger.Info().Msg("Kafka not configured - favorite events disabled")
		return kafka.NoopPublisher{}
	}

	publisher, err := kafka.NewPublisher(cfg.Brokers, cfg.Topic)
	if err != nil {
		logger.Logger.Warn().Err(err).Msg("Failed to create Kafka publisher - favorite events disabled")
		return kafka.NoopPublisher{}
	}
	return publisher
}
