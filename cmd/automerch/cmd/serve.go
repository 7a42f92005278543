package cmd

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/donaldgifford/automerch/internal/telemetry"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server and scheduler",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := telemetry.Setup(ctx, telemetry.Config{
		Endpoint:    cfg.Telemetry.Endpoint,
		ServiceName: cfg.Telemetry.ServiceName,
		Version:     Version,
		Insecure:    cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		return fmt.Errorf("setting up telemetry: %w", err)
	}

	a, err := newApp(ctx, cfg, log)
	if err != nil {
		return err
	}
	if cfg.IsDryRun() {
		log.Warn("dry run enabled: provider calls are simulated")
	}

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	a.echo.Server.ReadTimeout = cfg.Server.ReadTimeout
	a.echo.Server.WriteTimeout = cfg.Server.WriteTimeout
	runErr := a.start(ctx, addr, log)

	log.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	err = errors.Join(runErr, a.shutdown(shutdownCtx), shutdownTelemetry(shutdownCtx))
	if err == nil {
		log.Info("server stopped")
	}
	return err
}
