package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/homechart/homechart/internal/config"
	"github.com/homechart/homechart/internal/domain/assessment"
	"github.com/homechart/homechart/internal/domain/careplan"
	"github.com/homechart/homechart/internal/domain/medication"
	"github.com/homechart/homechart/internal/domain/orders"
	"github.com/homechart/homechart/internal/domain/patient"
	"github.com/homechart/homechart/internal/domain/visit"
	"github.com/homechart/homechart/internal/domain/wound"
	"github.com/homechart/homechart/internal/platform/metrics"
	"github.com/homechart/homechart/internal/platform/middleware"
	"github.com/homechart/homechart/internal/platform/session"
	"github.com/homechart/homechart/internal/platform/store"
	"github.com/homechart/homechart/internal/platform/validate"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "homechart-server",
		Short: "Home health point-of-care documentation server",
	}

	rootCmd.AddCommand(serveCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the documentation API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func runServer() error {
	// Logger
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	// Config
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if cfg.IsDev() {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}

	// Patient record store (flat-file datasets)
	st, err := store.Open(cfg.DataDir)
	if err != nil {
		var dle *store.DataLoadError
		if errors.As(err, &dle) {
			logger.Fatal().Err(dle.Err).Str("file", dle.File).Msg("failed to load dataset")
		}
		logger.Fatal().Err(err).Str("data_dir", cfg.DataDir).Msg("failed to open data store")
	}
	logger.Info().Str("data_dir", cfg.DataDir).Int("patients", len(st.Patients())).Msg("datasets loaded")

	// In-memory visit session registry
	registry := session.NewRegistry()

	// Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = validate.New()

	// Global middleware
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(metrics.Middleware())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
	}))

	// Health check
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"status":          "ok",
			"version":         "0.1.0",
			"patients_loaded": len(st.Patients()),
			"active_sessions": registry.Len(),
		})
	})

	// Prometheus metrics
	e.GET("/metrics", metrics.Handler())

	// API group
	api := e.Group("/api/v1")

	// -- Register domain handlers --

	patientSvc := patient.NewService(st)
	patient.NewHandler(patientSvc).RegisterRoutes(api)

	visitSvc := visit.NewService(st, registry, cfg.ClinicianID, cfg.ClinicianName)
	visit.NewHandler(visitSvc).RegisterRoutes(api)

	medSvc := medication.NewService(st, registry)
	medication.NewHandler(medSvc).RegisterRoutes(api)

	woundSvc := wound.NewService(st, registry)
	wound.NewHandler(woundSvc).RegisterRoutes(api)

	assessSvc := assessment.NewService(st, registry)
	assessment.NewHandler(assessSvc).RegisterRoutes(api)

	cpSvc := careplan.NewService(st, registry)
	careplan.NewHandler(cpSvc).RegisterRoutes(api)

	ordersSvc := orders.NewService(st, cfg.ClinicianName)
	orders.NewHandler(ordersSvc).RegisterRoutes(api)

	// Graceful shutdown
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Str("env", cfg.Env).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logger.Fatal().Err(err).Msg("server shutdown failed")
	}
	logger.Info().Msg("server stopped")
	return nil
}
