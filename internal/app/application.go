package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/raysh454/m3u8relay/internal/logging"
	"github.com/raysh454/m3u8relay/internal/relay"
	"github.com/raysh454/m3u8relay/internal/server"
	"github.com/raysh454/m3u8relay/internal/webclient"
)

// shutdownTimeout bounds how long in-flight relays get to finish.
const shutdownTimeout = 15 * time.Second

// Application holds the config and the components shared by the relay
// process: the outbound web client, the relay service and the API server.
type Application struct {
	Config *Config
	Logger logging.Logger

	web        webclient.WebClient
	server     *server.Server
	httpServer *http.Server
}

// NewApplication wires the components described by cfg.
func NewApplication(cfg *Config, logger logging.Logger) (*Application, error) {
	if cfg == nil {
		return nil, errors.New("application: nil config")
	}
	if logger == nil {
		return nil, errors.New("application: nil logger")
	}

	web, err := webclient.NewWebClient(cfg.WebClient, logger)
	if err != nil {
		return nil, fmt.Errorf("creating webclient: %w", err)
	}

	svc, err := relay.NewService(cfg.Relay, web, logger)
	if err != nil {
		_ = web.Close()
		return nil, fmt.Errorf("creating relay: %w", err)
	}

	srvCfg := cfg.Server
	srvCfg.Logger = logger.With(logging.Field{Key: "component", Value: "Server"})
	srv, err := server.NewServer(srvCfg, svc)
	if err != nil {
		_ = web.Close()
		return nil, fmt.Errorf("creating server: %w", err)
	}

	return &Application{
		Config:     cfg,
		Logger:     logger,
		web:        web,
		server:     srv,
		httpServer: srv.HTTPServer(),
	}, nil
}

// Handler exposes the API handler, mainly for tests.
func (a *Application) Handler() http.Handler {
	return a.server
}

// Run listens on the configured address and serves until ctx is done.
func (a *Application) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", a.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", a.httpServer.Addr, err)
	}
	return a.Serve(ctx, ln)
}

// Serve serves on ln until ctx is done, then shuts down gracefully.
func (a *Application) Serve(ctx context.Context, ln net.Listener) error {
	a.Logger.Info("application starting",
		logging.Field{Key: "addr", Value: ln.Addr().String()},
		logging.Field{Key: "swagger", Value: a.Config.Server.Swagger},
		logging.Field{Key: "websocket", Value: a.Config.Server.WebSocket})

	errCh := make(chan error, 1)
	go func() {
		errCh <- a.httpServer.Serve(ln)
	}()

	select {
	case err := <-errCh:
		_ = a.web.Close()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		return a.Shutdown(context.Background())
	}
}

// Shutdown stops accepting requests, waits for in-flight relays within a
// bounded timeout, and releases the web client.
func (a *Application) Shutdown(ctx context.Context) error {
	a.Logger.Info("application shutdown initiated")

	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	err := a.httpServer.Shutdown(shutdownCtx)
	if cerr := a.web.Close(); cerr != nil && err == nil {
		err = cerr
	}
	if err != nil {
		a.Logger.Warn("shutdown returned error", logging.Field{Key: "error", Value: err.Error()})
		return err
	}
	return nil
}
