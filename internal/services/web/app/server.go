// Package app hosts the web service: an HTTP process that exposes its own
// liveness probe and listener metrics.
package app

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/louisbranch/portico/internal/bootstrap"
	"github.com/louisbranch/portico/internal/platform/discovery"
	"github.com/louisbranch/portico/internal/platform/telemetry/metrics"
)

// Config holds the web server listen settings.
type Config struct {
	BindAddr       string
	Port           int
	ShutdownGrace  time.Duration
	MaxConnections int
}

// Server hosts the web HTTP process.
type Server struct {
	service *bootstrap.Service
	metrics *metrics.Listener
}

// NewHandler returns the web router. The metrics handler is mounted on
// /metrics when m is non-nil.
func NewHandler(m *metrics.Listener) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/up", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("OK"))
	})
	if m != nil {
		r.Method(http.MethodGet, "/metrics", m.Handler())
	}
	return r
}

// NewServer builds a web server that has not yet bound its port.
func NewServer(config Config) *Server {
	m := metrics.NewListener(discovery.ServiceWeb)
	service := bootstrap.New(
		bootstrap.Config{
			BindAddr:       config.BindAddr,
			Port:           config.Port,
			ShutdownGrace:  config.ShutdownGrace,
			MaxConnections: config.MaxConnections,
		},
		bootstrap.NewHTTPServer(NewHandler(m), bootstrap.HTTPOptions{}),
		bootstrap.WithName("web server"),
		bootstrap.WithMetrics(m),
	)
	return &Server{service: service, metrics: m}
}

// Run builds the web server and serves until ctx ends.
func Run(ctx context.Context, config Config) error {
	return NewServer(config).ListenAndServe(ctx)
}

// ListenAndServe binds the port and serves until ctx ends, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	return s.service.Run(ctx)
}

// State reports the lifecycle state of the server.
func (s *Server) State() bootstrap.State {
	return s.service.State()
}
