package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/randomtoy/dicegame/internal/adapters/clock"
	httpadapter "github.com/randomtoy/dicegame/internal/adapters/http"
	"github.com/randomtoy/dicegame/internal/adapters/metrics"
	"github.com/randomtoy/dicegame/internal/adapters/pages"
	"github.com/randomtoy/dicegame/internal/app"
	"github.com/randomtoy/dicegame/internal/config"
	"github.com/randomtoy/dicegame/internal/logging"
)

func newServeCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the dice game over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.HTTPAddr = addr
			}
			return serve(cmd.Context(), cfg)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides HTTP_ADDR)")
	return cmd
}

func serve(ctx context.Context, cfg config.Config) error {
	logger, err := logging.New(os.Stdout, cfg.LogFormat, cfg.LogLevel)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	gameMetrics, err := metrics.New(reg)
	if err != nil {
		return fmt.Errorf("register metrics: %w", err)
	}

	streams := httpadapter.NewStreamHub(logger)
	svc := app.NewGameService(newRNG(cfg), clock.Real{}, cfg.RollDelay,
		app.WithPublisher(streams),
		app.WithMetrics(gameMetrics),
		app.WithLogger(logger),
		app.WithViewTTL(cfg.ViewTTL),
	)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(httpadapter.RequestIDMiddleware())
	e.Use(httpadapter.LoggingMiddleware(logger))

	handler := httpadapter.NewHandler(svc, pages.NewEmbeddedStore(), streams, logger)
	handler.Register(e)
	if cfg.MetricsEnabled {
		httpadapter.RegisterMetrics(e, reg)
	}

	sweepDone := make(chan struct{})
	go func() {
		defer close(sweepDone)
		svc.Run(ctx, cfg.SweepInterval)
	}()

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("starting server", "addr", cfg.HTTPAddr, "roll_delay", cfg.RollDelay)
		if err := e.Start(cfg.HTTPAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-serveErr:
		logger.Error("server error", "error", err)
		return err
	}
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
	<-sweepDone
	return nil
}
