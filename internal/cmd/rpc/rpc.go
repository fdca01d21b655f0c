// Package rpc parses rpc command flags and composes the gRPC entrypoint.
package rpc

import (
	"context"
	"flag"
	"fmt"
	"time"

	entrypoint "github.com/louisbranch/portico/internal/platform/cmd"
	server "github.com/louisbranch/portico/internal/services/rpc/app"
)

// Config holds rpc command configuration.
type Config struct {
	PortOverride   string        `env:"PORT"`
	BindAddr       string        `env:"PORTICO_BIND_ADDR"`
	ShutdownGrace  time.Duration `env:"PORTICO_SHUTDOWN_GRACE"  envDefault:"5s"`
	MaxConnections int           `env:"PORTICO_MAX_CONNECTIONS" envDefault:"0"`
	CatalogPath    string        `env:"PORTICO_CATALOG_PATH"`

	// Port is the resolved listen port.
	Port int
}

// ParseConfig parses environment and flags into a Config. An unusable PORT
// is logged and replaced by the service default.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	port, err := entrypoint.ResolveServicePort(entrypoint.ServiceRPC, cfg.PortOverride, cfg.CatalogPath, nil)
	if err != nil {
		return Config{}, err
	}
	cfg.Port = port

	fs.IntVar(&cfg.Port, "port", cfg.Port, "rpc gRPC listen port")
	fs.StringVar(&cfg.BindAddr, "bind-addr", cfg.BindAddr, "rpc bind host (empty for all interfaces)")
	fs.DurationVar(&cfg.ShutdownGrace, "shutdown-grace", cfg.ShutdownGrace, "time allowed for in-flight RPCs on shutdown")
	fs.IntVar(&cfg.MaxConnections, "max-connections", cfg.MaxConnections, "maximum concurrent connections (0 for unlimited)")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run serves the rpc app until ctx ends.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceRPC, func(ctx context.Context) error {
		if err := server.Run(ctx, server.Config{
			BindAddr:       cfg.BindAddr,
			Port:           cfg.Port,
			ShutdownGrace:  cfg.ShutdownGrace,
			MaxConnections: cfg.MaxConnections,
		}); err != nil {
			return fmt.Errorf("serve rpc: %w", err)
		}
		return nil
	})
}
