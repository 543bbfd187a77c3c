// Package main is the leafscan HTTP server. It serves plant disease
// predictions from an ONNX image classifier with bilingual labels.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Brownie44l1/leafscan-api/internal/config"
	"github.com/Brownie44l1/leafscan-api/internal/diagnosis"
	"github.com/Brownie44l1/leafscan-api/internal/handlers"
	"github.com/Brownie44l1/leafscan-api/internal/logging"
	"github.com/Brownie44l1/leafscan-api/internal/metrics"
	"github.com/Brownie44l1/leafscan-api/internal/model"
)

const (
	Version = "0.1.0"
	appName = "leafscan"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var (
		configPath string
		logLevel   string
		port       string
	)

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Plant disease prediction API",
		Long: `leafscan serves plant disease predictions over HTTP.

Upload a leaf photo to POST /predict and get the disease in English and
Arabic together with a low/medium/high severity.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if logLevel != "" {
				cfg.Log.Level = logLevel
			}
			if port != "" {
				cfg.Server.Port = port
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return serve(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Config file path (YAML)")
	cmd.Flags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	cmd.Flags().StringVarP(&port, "port", "p", "", "Listen port (overrides config and PORT)")

	cmd.AddCommand(resolveCmd(), classesCmd(), versionCmd())
	return cmd
}

func serve(ctx context.Context, cfg *config.Config) error {
	logger := logging.Init(cfg.Log.Format, logging.ParseLevel(cfg.Log.Level))

	svc := diagnosis.New(diagnosis.Options{
		LoadModel: diagnosis.ONNXLoader(cfg.Model.Path, cfg.Model.MetadataPath, model.Options{
			LibraryPath:    cfg.Model.LibraryPath,
			IntraOpThreads: cfg.Model.IntraOpThreads,
		}),
		LoadClasses:  diagnosis.FileClassLoader(cfg.Model.ClassIndexPath),
		Logger:       logger,
		Alternatives: cfg.Server.Alternatives,
	})
	defer func() {
		if err := model.DestroyEnvironment(); err != nil {
			logger.Warn("onnx runtime teardown failed", "error", err)
		}
	}()
	defer func() {
		if err := svc.Close(); err != nil {
			logger.Warn("model close failed", "error", err)
		}
	}()

	logger.Info("loading model", "path", cfg.Model.Path, "metadata", cfg.Model.MetadataPath)
	if err := svc.Ensure(ctx); err != nil {
		// Keep serving: /health answers 503 and loading is retried on demand.
		logger.Warn("model not loaded at startup", "error", err)
	}

	m := metrics.New()
	m.SetReady(svc.Status().Ready())

	h := handlers.NewHandler(svc, handlers.Options{
		Logger:         logger,
		Metrics:        m,
		MaxUploadBytes: cfg.Server.MaxUploadBytes,
		CORSOrigin:     cfg.Server.CORSOrigin,
	})

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      h.Routes(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	logger.Info("server starting",
		"addr", srv.Addr,
		"version", Version,
		"ready", svc.Status().Ready())
	logger.Info("endpoints",
		"health", "GET /health",
		"predict", "POST /predict",
		"predict_tensor", "POST /predict/tensor",
		"classes", "GET /classes",
		"resolve", "GET /resolve?class=",
		"metrics", "GET /metrics")

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down", "timeout", cfg.Server.ShutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
