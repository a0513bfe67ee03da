// Command m3u8relay serves the playlist relay API.
// Usage: go run ./cmd/m3u8relay [-c relay.yaml] [-l :8080] [--swagger]
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"

	"github.com/raysh454/m3u8relay/internal/app"
	"github.com/raysh454/m3u8relay/internal/cli"
	"github.com/raysh454/m3u8relay/internal/logging"
)

func main() {
	args, err := cli.ParseServeArgs(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	cfg, err := app.LoadConfig(args.ConfigPath)
	if err != nil {
		color.Red("config: %v", err)
		os.Exit(1)
	}
	cfg.ApplyArgs(args)

	logger := logging.NewLogger(os.Stdout, "m3u8relay", logging.ParseLevel(cfg.Log.Level))

	application, err := app.NewApplication(cfg, logger)
	if err != nil {
		color.Red("startup: %v", err)
		os.Exit(1)
	}

	banner(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := application.Run(ctx); err != nil {
		logger.Error("application exited", logging.Field{Key: "error", Value: err.Error()})
		os.Exit(1)
	}
}

func banner(cfg *app.Config) {
	cyan := color.New(color.FgCyan, color.Bold)
	cyan.Fprintln(os.Stderr, "===========================================")
	cyan.Fprintln(os.Stderr, "   m3u8relay - playlist relay")
	cyan.Fprintln(os.Stderr, "===========================================")
	fmt.Fprintf(os.Stderr, "  listen     %s\n", cfg.Server.ListenAddr)
	fmt.Fprintf(os.Stderr, "  endpoint   POST /api/fetch-m3u8\n")
	if cfg.Server.WebSocket {
		fmt.Fprintf(os.Stderr, "  websocket  /ws/fetch-m3u8\n")
	}
	if cfg.Server.Swagger {
		fmt.Fprintf(os.Stderr, "  docs       /swagger/index.html\n")
	}
	fmt.Fprintln(os.Stderr)
}
