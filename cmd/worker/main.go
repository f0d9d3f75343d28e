package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/propmanagement/backend/internal/popularity"
	"github.com/propmanagement/backend/kafka"
	"github.com/propmanagement/backend/pkg/config"
	"github.com/propmanagement/backend/pkg/database"
	"github.com/propmanagement/backend/pkg/logger"
	"github.com/propmanagement/backend/pkg/response"
	"github.com/propmanagement/backend/pkg/tracing"
)

func main() {
	cfg := config.Load()

	serviceName := cfg.App.Name + "-worker"
	logger.Init(serviceName, cfg.App.IsDevelopment())
	logger.SetLevel(cfg.App.LogLevel)

	if !cfg.Kafka.Enabled() {
		logger.Logger.Fatal().Msg("KAFKA_BROKERS is required for the favorite events worker")
	}
	if !cfg.Redis.Enabled() {
		logger.Logger.Fatal().Msg("REDIS_ADDR is required for the favorite events worker")
	}

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer(serviceName, cfg.Tracing)
		if err != nil {
			logger.Logger.Warn().Err(err).Msg("Failed to initialize tracer, continuing without tracing")
		} else {
			defer tracing.Shutdown(context.Background(), tp)
		}
	}

	redisClient, err := database.NewRedisClient(cfg.Redis)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer redisClient.Close()

	consumer, err := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, []string{cfg.Kafka.Topic})
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to create Kafka consumer")
	}
	defer consumer.Close()

	store := popularity.NewRedisStore(redisClient, cfg.Worker.PopularityKey)
	popularity.NewProjector(store, prometheus.DefaultRegisterer).Register(consumer)

	router := mux.NewRouter()
	router.Handle("/metrics", promhttp.Handler())
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			response.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unhealthy"})
			return
		}
		response.JSON(w, http.StatusOK, map[string]string{"status": "healthy"})
	}).Methods("GET")

	httpServer := &http.Server{
		Addr:              ":" + cfg.Worker.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logger.Logger.Info().Str("port", cfg.Worker.HTTPPort).Msg("Worker HTTP server started")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Logger.Error().Err(err).Msg("Worker HTTP server failed")
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		consumer.Run(ctx)
	}()

	logger.Logger.Info().
		Str("topic", cfg.Kafka.Topic).
		Str("group_id", cfg.Kafka.GroupID).
		Msg("Favorite events worker started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Logger.Info().Msg("Shutting down worker...")
	cancel()
	<-done

	shutdownCtx, stop := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer stop()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Logger.Error().Err(err).Msg("Worker HTTP server forced to shutdown")
	}
}
