// Package grpcserver runs the gRPC endpoint that exposes the standard
// grpc.health.v1 service, reporting NOT_SERVING while the database is unreachable.
package grpcserver

import (
	"context"
	"net"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/propmanagement/backend/pkg/logger"
)

// Pinger is satisfied by *sql.DB
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Server struct {
	server *grpc.Server
	health *health.Server
}

func New() *Server {
	grpcServer := grpc.NewServer(
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.ChainUnaryInterceptor(
			RecoveryInterceptor,
			LoggingInterceptor,
		),
	)

	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthServer)

	// Register reflection service (for grpcurl and grpc tools)
	reflection.Register(grpcServer)

	return &Server{server: grpcServer, health: healthServer}
}

// Serve blocks serving on lis until the server stops
func (s *Server) Serve(lis net.Listener) error {
	logger.Info(context.Background()).Str("addr", lis.Addr().String()).Msg("gRPC server listening")
	return s.server.Serve(lis)
}

// SetServing updates the overall health status
func (s *Server) SetServing(serving bool) {
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if serving {
		status = healthpb.HealthCheckResponse_SERVING
	}
	s.health.SetServingStatus("", status)
}

// MonitorDatabase pings db every interval and mirrors the result into the
// health status until ctx is cancelled.
func (s *Server) MonitorDatabase(ctx context.Context, db Pinger, interval time.Duration) {
	check := func() {
		pingCtx, cancel := context.WithTimeout(ctx, interval)
		defer cancel()
		err := db.PingContext(pingCtx)
		if err != nil {
			logger.Warn(ctx).Err(err).Msg("Database health check failed")
		}
		s.SetServing(err == nil)
	}

	check()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			check()
		}
	}
}

// GracefulStop marks the server as not serving and drains in-flight calls
func (s *Server) GracefulStop() {
	s.health.Shutdown()
	s.server.GracefulStop()
}
