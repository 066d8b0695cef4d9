package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/leap-app/leap/internal/fakeapi"
	"github.com/leap-app/leap/internal/logging"
)

func newDevServerCmd() *cobra.Command {
	var (
		addr        string
		latency     time.Duration
		requireAuth bool
		logLevel    string
	)

	cmd := &cobra.Command{
		Use:   "dev-server",
		Short: "Run an in-memory Leap API with seeded data",
		Long: `Run an in-memory Leap API for local development. Data is seeded on
start and lost on exit. The demo account is demo/demo.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logging.New(cmd.ErrOrStderr(), logLevel)
			server := fakeapi.NewServer(fakeapi.Options{
				RequireAuth: requireAuth,
				Latency:     latency,
				Logger:      logger,
			})

			httpServer := &http.Server{
				Addr:         addr,
				Handler:      server.Router(),
				ReadTimeout:  15 * time.Second,
				WriteTimeout: 45 * time.Second,
				IdleTimeout:  60 * time.Second,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				logger.Info("HTTP server starting", "addr", httpServer.Addr)
				if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			select {
			case err, ok := <-errCh:
				if ok {
					return fmt.Errorf("serve: %w", err)
				}
				return nil
			case <-ctx.Done():
			}

			logger.Info("shutting down gracefully...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := httpServer.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("shutdown: %w", err)
			}
			logger.Info("dev server stopped")
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "localhost:5000", "Listen address")
	cmd.Flags().DurationVar(&latency, "latency", 0, "Delay every API response by this much")
	cmd.Flags().BoolVar(&requireAuth, "require-auth", false, "Reject anonymous writes and /users/me reads")
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn or error")
	return cmd
}
