package bootstrap

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"

	"github.com/louisbranch/portico/internal/platform/timeouts"
)

// Server is the transport a Service drives over its listener. Serve runs the
// accept loop and must hand each connection to its own goroutine. Shutdown
// stops accepting and waits for in-flight work until ctx ends. Close drops
// every open connection at once.
type Server interface {
	Serve(net.Listener) error
	Shutdown(ctx context.Context) error
	Close() error
}

// HTTPOptions tunes the HTTP transport. Zero values use the shared timeouts.
type HTTPOptions struct {
	ReadHeaderTimeout time.Duration
	IdleTimeout       time.Duration
}

// HTTPServer adapts net/http to Server.
type HTTPServer struct {
	srv *http.Server
}

// NewHTTPServer wraps handler in an HTTP transport.
func NewHTTPServer(handler http.Handler, opts HTTPOptions) *HTTPServer {
	if handler == nil {
		handler = http.NotFoundHandler()
	}
	if opts.ReadHeaderTimeout <= 0 {
		opts.ReadHeaderTimeout = timeouts.ReadHeader
	}
	if opts.IdleTimeout <= 0 {
		opts.IdleTimeout = timeouts.Idle
	}
	return &HTTPServer{srv: &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: opts.ReadHeaderTimeout,
		IdleTimeout:       opts.IdleTimeout,
	}}
}

// Serve accepts HTTP connections until Shutdown or Close.
func (s *HTTPServer) Serve(ln net.Listener) error {
	if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown closes the listener and waits for active requests to finish.
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

// Close force-closes the listener and every connection.
func (s *HTTPServer) Close() error {
	return s.srv.Close()
}

// GRPCServer adapts a grpc.Server to Server.
type GRPCServer struct {
	srv    *grpc.Server
	health *health.Server
}

// NewGRPCServer wraps srv in a gRPC transport. When healthSrv is non-nil it
// is flipped to NOT_SERVING as soon as shutdown begins.
func NewGRPCServer(srv *grpc.Server, healthSrv *health.Server) *GRPCServer {
	return &GRPCServer{srv: srv, health: healthSrv}
}

// Serve accepts gRPC connections until Shutdown or Close.
func (s *GRPCServer) Serve(ln net.Listener) error {
	if err := s.srv.Serve(ln); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return err
	}
	return nil
}

// Shutdown stops accepting and waits for pending RPCs until ctx ends. The
// graceful stop keeps running after ctx ends; Close cuts it short.
func (s *GRPCServer) Shutdown(ctx context.Context) error {
	if s.health != nil {
		s.health.Shutdown()
	}
	done := make(chan struct{})
	go func() {
		s.srv.GracefulStop()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops the server and closes every connection.
func (s *GRPCServer) Close() error {
	if s.health != nil {
		s.health.Shutdown()
	}
	s.srv.Stop()
	return nil
}
