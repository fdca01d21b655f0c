// Package main starts the web HTTP service and handles termination.
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

	webcmd "github.com/louisbranch/portico/internal/cmd/web"
	"github.com/louisbranch/portico/internal/platform/config"
)

func main() {
	log.SetPrefix("[WEB] ")
	if err := config.LoadDotEnv(); err != nil {
		config.Exitf("load .env: %v", err)
	}
	cfg, err := webcmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exitf("parse flags: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := webcmd.Run(ctx, cfg); err != nil {
		stop()
		config.ExitOnError("web", err)
	}
}
