package cli

import (
	"context"
	"fmt"
	"log/slog"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/spf13/cobra"

	"taskflow/internal/config"
)

func newServeCommand(r *RootCommand) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the REST API",
		Long: `Open the task store and serve the REST API until SIGINT or SIGTERM.

On shutdown the HTTP server stops accepting requests and waits for in-flight
ones, then the revocation store and the database are closed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := r.setup(cmd)
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg, logger)
		},
	}
}

func serve(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	app, err := NewApp(ctx, cfg, logger)
	if err != nil {
		return err
	}

	listenErr := make(chan error, 1)
	go func() {
		listenErr <- app.Serve()
	}()

	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		cfg.Application.ShutdownTimeout,
		map[string]gfshutdown.Operation{
			"taskflow": func(ctx context.Context) error {
				logger.Info("Graceful shutdown initiated")
				return app.Shutdown(ctx)
			},
		},
	)

	select {
	case err := <-listenErr:
		if err == nil {
			// Listen returns nil once the shutdown operation has stopped it
			return exitCodeError(<-wait)
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Application.ShutdownTimeout)
		defer cancel()
		if closeErr := app.Shutdown(shutdownCtx); closeErr != nil {
			logger.Error("Cleanup after listener failure", slog.Any("error", closeErr))
		}
		return fmt.Errorf("listen on %s: %w", cfg.Server.Addr, err)
	case code := <-wait:
		return exitCodeError(code)
	}
}

func exitCodeError(code int) error {
	if code != 0 {
		return fmt.Errorf("shutdown finished with exit code %d", code)
	}
	return nil
}
