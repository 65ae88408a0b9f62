package main

//
//  @title           fxpulse API
//  @version         1.0
//  @description     BRL currency quote ingestion and dashboard feed.
//  @termsOfService  https://github.com/guttosm/fxpulse
//  @contact.name    API Support
//  @contact.url     https://github.com/guttosm/fxpulse
//  @contact.email   support@example.com
//  @license.name    MIT
//  @license.url     https://opensource.org/licenses/MIT
//  @host            localhost:8080
//  @BasePath        /
//  @schemes         http
//
//  @tag.name        quotes
//  @tag.description Dashboard, stored records, converter and manual refresh
//
//  @tag.name        health
//  @tag.description Liveness and readiness probes

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/guttosm/fxpulse/config"
	_ "github.com/guttosm/fxpulse/docs" // swagger docs
	"github.com/guttosm/fxpulse/internal/app"
	"github.com/guttosm/fxpulse/internal/logger"
)

// options are the command-line overrides applied on top of config.AppConfig.
type options struct {
	mode  string
	port  string
	store string
}

func parseFlags(args []string, cfg config.Config) (options, error) {
	fs := flag.NewFlagSet("fxpulse", flag.ContinueOnError)
	var o options
	fs.StringVar(&o.mode, "mode", "ingest", "Mode: ingest (one cycle) or api")
	fs.StringVar(&o.port, "port", cfg.Server.Port, "Port for API mode")
	fs.StringVar(&o.store, "store", cfg.Store.Path, "Workbook path, overrides STORE_PATH")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	if o.mode != "ingest" && o.mode != "api" {
		return options{}, fmt.Errorf("unknown mode %q", o.mode)
	}
	return o, nil
}

// startServer starts the HTTP server in a separate goroutine.
func startServer(router http.Handler, port string) *http.Server {
	server := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.L().Info().Str("port", port).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.L().Fatal().Err(err).Msg("server failed to start")
		}
	}()

	return server
}

// gracefulShutdown waits for SIGINT or SIGTERM, shuts the server down and
// runs cleanup.
func gracefulShutdown(ctx context.Context, server *http.Server, cleanup func()) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(quit)

	<-quit
	logger.L().Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.L().Error().Err(err).Msg("server forced to shutdown")
	}

	cleanup()
	logger.L().Info().Msg("server exited gracefully")
}

// main is the entry point of fxpulse.
//
// Modes (selected via --mode flag):
//   - ingest: runs one fetch/merge/persist cycle and exits.
//   - api:    serves the dashboard feed; every dashboard load runs a cycle.
func main() {
	ctx := context.Background()

	app.Setup()

	opts, err := parseFlags(os.Args[1:], config.AppConfig)
	if err != nil {
		logger.L().Fatal().Err(err).Msg("invalid flags")
	}
	config.AppConfig.Store.Path = opts.store

	switch opts.mode {
	case "ingest":
		res, err := app.RunIngest(ctx)
		if err != nil {
			logger.L().Fatal().Err(err).Msg("app init error")
		}
		if res.Waiting() {
			logger.L().Warn().Str("status", string(res.Status)).Msg("no market data available yet")
		}

	case "api":
		router, cleanup, err := app.InitializeApp()
		if err != nil {
			logger.L().Fatal().Err(err).Msg("app init error")
		}

		server := startServer(router, opts.port)
		gracefulShutdown(ctx, server, cleanup)
	}
}
