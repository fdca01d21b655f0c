// Package app wires the rpc service: a gRPC process that answers the standard
// health protocol.
package app

import (
	"context"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	grpc_health_v1 "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/louisbranch/portico/internal/bootstrap"
	"github.com/louisbranch/portico/internal/platform/discovery"
	"github.com/louisbranch/portico/internal/platform/telemetry/metrics"
)

// HealthServiceName is the health status key reported alongside the overall
// server status.
const HealthServiceName = "portico.rpc"

// Config holds the rpc server listen settings.
type Config struct {
	BindAddr       string
	Port           int
	ShutdownGrace  time.Duration
	MaxConnections int
}

// Server hosts the rpc gRPC process.
type Server struct {
	service    *bootstrap.Service
	grpcServer *grpc.Server
	health     *health.Server
	metrics    *metrics.Listener
}

// NewServer builds an rpc server that has not yet bound its port.
func NewServer(config Config) *Server {
	grpcServer := grpc.NewServer(grpc.StatsHandler(otelgrpc.NewServerHandler()))
	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus(HealthServiceName, grpc_health_v1.HealthCheckResponse_SERVING)

	m := metrics.NewListener(discovery.ServiceRPC)
	service := bootstrap.New(
		bootstrap.Config{
			BindAddr:       config.BindAddr,
			Port:           config.Port,
			ShutdownGrace:  config.ShutdownGrace,
			MaxConnections: config.MaxConnections,
		},
		bootstrap.NewGRPCServer(grpcServer, healthServer),
		bootstrap.WithName("rpc server"),
		bootstrap.WithMetrics(m),
	)
	return &Server{service: service, grpcServer: grpcServer, health: healthServer, metrics: m}
}

// Run creates and serves an rpc server until context cancellation.
func Run(ctx context.Context, config Config) error {
	return NewServer(config).Serve(ctx)
}

// Serve binds the port and serves gRPC until ctx ends, then stops gracefully.
func (s *Server) Serve(ctx context.Context) error {
	return s.service.Run(ctx)
}

// State reports the lifecycle state of the server.
func (s *Server) State() bootstrap.State {
	return s.service.State()
}

// Metrics returns the listener metrics of the server.
func (s *Server) Metrics() *metrics.Listener {
	return s.metrics
}
