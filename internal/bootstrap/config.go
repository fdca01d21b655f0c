package bootstrap

import (
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	platformerrors "github.com/louisbranch/portico/internal/platform/errors"
	"github.com/louisbranch/portico/internal/platform/timeouts"
)

// Config is the listen configuration resolved once per process.
type Config struct {
	// BindAddr is the host to bind; empty binds all interfaces.
	BindAddr string
	// Port is the TCP port to bind.
	Port int
	// ShutdownGrace bounds how long Stop waits for in-flight connections.
	// Zero or negative uses timeouts.Shutdown.
	ShutdownGrace time.Duration
	// MaxConnections caps concurrently open connections; zero is unlimited.
	MaxConnections int
}

// Validate reports whether the configuration can be bound.
func (c Config) Validate() error {
	if !validPort(c.Port) {
		return platformerrors.WithMetadata(
			platformerrors.CodeInvalidConfiguration,
			fmt.Sprintf("invalid port value %d: must be in [%d, %d]", c.Port, MinPort, MaxPort),
			map[string]string{"port": strconv.Itoa(c.Port)},
		)
	}
	if c.MaxConnections < 0 {
		return platformerrors.New(
			platformerrors.CodeInvalidConfiguration,
			fmt.Sprintf("invalid max connections %d: must not be negative", c.MaxConnections),
		)
	}
	if strings.ContainsAny(c.BindAddr, " \t") {
		return platformerrors.New(
			platformerrors.CodeInvalidConfiguration,
			fmt.Sprintf("invalid bind address %q", c.BindAddr),
		)
	}
	return nil
}

// Addr returns the host:port the listener binds.
func (c Config) Addr() string {
	return net.JoinHostPort(strings.TrimSpace(c.BindAddr), strconv.Itoa(c.Port))
}

func (c Config) grace() time.Duration {
	if c.ShutdownGrace <= 0 {
		return timeouts.Shutdown
	}
	return c.ShutdownGrace
}
