package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"os"
	"strconv"
	"sync"
	"syscall"

	"golang.org/x/net/netutil"

	platformerrors "github.com/louisbranch/portico/internal/platform/errors"
	"github.com/louisbranch/portico/internal/platform/telemetry/metrics"
)

// Option customizes a Service.
type Option func(*Service)

// WithName sets the service name used in log lines and errors.
func WithName(name string) Option {
	return func(s *Service) {
		if name != "" {
			s.name = name
		}
	}
}

// WithLogger routes lifecycle log lines to logf instead of log.Printf.
func WithLogger(logf func(string, ...any)) Option {
	return func(s *Service) {
		if logf != nil {
			s.logf = logf
		}
	}
}

// WithMetrics records connection and lifecycle metrics on m.
func WithMetrics(m *metrics.Listener) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// Service binds one listener and drives one Server over it.
type Service struct {
	name    string
	cfg     Config
	server  Server
	logf    func(string, ...any)
	metrics *metrics.Listener
	state   stateMachine
}

// New returns an unstarted Service.
func New(cfg Config, server Server, opts ...Option) *Service {
	s := &Service{
		name:   "service",
		cfg:    cfg,
		server: server,
		logf:   log.Printf,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.state.observe = func(state State) {
		s.metrics.SetState(int(state))
	}
	return s
}

// State returns the current lifecycle state.
func (s *Service) State() State {
	return s.state.load()
}

// Config returns the listen configuration.
func (s *Service) Config() Config {
	return s.cfg
}

// Start binds the listener and begins serving in the background.
//
// The startup line is logged only after the bind succeeds. A Service starts at
// most once; later calls fail with CodeAlreadyStarted. Bind failures leave the
// Service Stopped and are never retried.
func (s *Service) Start(ctx context.Context) (*Running, error) {
	if s == nil {
		return nil, errors.New("service is nil")
	}
	if ctx == nil {
		return nil, errors.New("context is required")
	}
	if !s.state.transition(StateNotStarted, StateStarting) {
		return nil, platformerrors.New(
			platformerrors.CodeAlreadyStarted,
			fmt.Sprintf("%s already started (state %s)", s.name, s.state.load()),
		)
	}

	if s.server == nil {
		s.state.transition(StateStarting, StateStopped)
		return nil, platformerrors.New(platformerrors.CodeInvalidConfiguration, s.name+": server is required")
	}
	if err := s.cfg.Validate(); err != nil {
		s.state.transition(StateStarting, StateStopped)
		return nil, err
	}

	addr := s.cfg.Addr()
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		s.state.transition(StateStarting, StateStopped)
		return nil, classifyBindError(addr, s.cfg.Port, err)
	}
	if s.cfg.MaxConnections > 0 {
		ln = netutil.LimitListener(ln, s.cfg.MaxConnections)
	}
	tracked := newTrackingListener(ln, s.metrics)

	r := &Running{
		svc:      s,
		listener: tracked,
		done:     make(chan struct{}),
	}
	s.state.transition(StateStarting, StateListening)
	s.logf("%s listening on %s (port %d)", s.name, tracked.Addr(), r.Port())

	go r.serve()
	return r, nil
}

// Run starts the Service and blocks until ctx ends or the transport fails.
// Cancelling ctx triggers a graceful stop and returns nil once it completes.
func (s *Service) Run(ctx context.Context) error {
	running, err := s.Start(ctx)
	if err != nil {
		return err
	}

	select {
	case <-ctx.Done():
		s.logf("%s shutdown signal received", s.name)
		return running.Stop(context.Background())
	case <-running.Done():
		if err := running.Err(); err != nil {
			return fmt.Errorf("serve %s: %w", s.name, err)
		}
		return nil
	}
}

func classifyBindError(addr string, port int, err error) error {
	metadata := map[string]string{"addr": addr, "port": strconv.Itoa(port)}
	switch {
	case errors.Is(err, syscall.EADDRINUSE):
		return platformerrors.WrapWithMetadata(platformerrors.CodePortInUse, "port in use: "+addr, metadata, err)
	case errors.Is(err, syscall.EACCES), errors.Is(err, os.ErrPermission):
		return platformerrors.WrapWithMetadata(platformerrors.CodePortPermissionDenied, "permission denied binding "+addr, metadata, err)
	default:
		return platformerrors.WrapWithMetadata(platformerrors.CodeBindFailed, "bind "+addr, metadata, err)
	}
}

// Running is the handle to a started Service.
type Running struct {
	svc      *Service
	listener *trackingListener
	done     chan struct{}

	mu  sync.Mutex
	err error

	stopOnce sync.Once
	stopErr  error
}

// Addr returns the bound listener address.
func (r *Running) Addr() net.Addr {
	return r.listener.Addr()
}

// Port returns the bound TCP port.
func (r *Running) Port() int {
	if tcp, ok := r.listener.Addr().(*net.TCPAddr); ok {
		return tcp.Port
	}
	return r.svc.cfg.Port
}

// State returns the lifecycle state of the underlying Service.
func (r *Running) State() State {
	return r.svc.State()
}

// ActiveConnections returns the number of accepted connections not yet closed.
func (r *Running) ActiveConnections() int64 {
	return r.listener.active.Load()
}

// AcceptedConnections returns the number of connections accepted so far.
func (r *Running) AcceptedConnections() int64 {
	return r.listener.accepted.Load()
}

// Done is closed once the accept loop has returned.
func (r *Running) Done() <-chan struct{} {
	return r.done
}

// Err returns the error the accept loop exited with, if any.
func (r *Running) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

func (r *Running) serve() {
	err := r.svc.server.Serve(r.listener)
	r.mu.Lock()
	r.err = err
	r.mu.Unlock()
	close(r.done)

	if r.svc.state.transition(StateListening, StateStopped) {
		_ = r.listener.Close()
		r.svc.logf("%s accept loop exited: %v", r.svc.name, err)
	}
}

// Stop refuses new connections immediately, waits up to the grace period for
// in-flight connections, then force-closes the rest. Running past the grace
// period is logged, not returned. Later calls return the first result.
func (r *Running) Stop(ctx context.Context) error {
	r.stopOnce.Do(func() {
		r.stopErr = r.stop(ctx)
	})
	return r.stopErr
}

func (r *Running) stop(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	s := r.svc
	if !s.state.transition(StateListening, StateStopping) {
		<-r.done
		return nil
	}

	grace := s.cfg.grace()
	s.logf("%s stopping: grace period %s, %d active connection(s)", s.name, grace, r.ActiveConnections())

	graceCtx, cancel := context.WithTimeout(ctx, grace)
	defer cancel()

	var result error
	if err := s.server.Shutdown(graceCtx); err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			timeout := platformerrors.WithMetadata(
				platformerrors.CodeShutdownTimeout,
				fmt.Sprintf("%s: grace period %s exceeded, force-closing %d connection(s)", s.name, grace, r.ActiveConnections()),
				map[string]string{"grace": grace.String()},
			)
			s.metrics.ForcedClose()
			s.logf("%s [%s]", timeout.Error(), timeout.Code)
		} else {
			result = fmt.Errorf("shutdown %s: %w", s.name, err)
		}
		if err := s.server.Close(); err != nil {
			s.logf("%s force close: %v", s.name, err)
		}
	}

	<-r.done
	_ = r.listener.Close()
	s.state.transition(StateStopping, StateStopped)
	s.logf("%s stopped", s.name)
	return result
}
