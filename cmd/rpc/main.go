// Package main starts the rpc gRPC service and handles termination.
//
// The process binds exactly one port, serves until SIGINT or SIGTERM, and
// exits 0 after a graceful stop or 1 when it cannot start.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	rpccmd "github.com/louisbranch/portico/internal/cmd/rpc"
	"github.com/louisbranch/portico/internal/platform/config"
)

func main() {
	log.SetPrefix("[RPC] ")
	if err := config.LoadDotEnv(); err != nil {
		config.Exitf("load .env: %v", err)
	}
	cfg, err := rpccmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exitf("parse flags: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rpccmd.Run(ctx, cfg); err != nil {
		stop()
		config.ExitOnError("rpc", err)
	}
}
