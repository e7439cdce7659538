package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/lucentlab/lucent/pkg/server"
	"github.com/lucentlab/lucent/pkg/session"
	"github.com/lucentlab/lucent/pkg/usecase/intake"
	"github.com/lucentlab/lucent/pkg/usecase/product"
	"github.com/lucentlab/lucent/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func serveCommand() *cli.Command {
	var (
		cfg           config
		addr          string
		allowedOrigin string
		sessionTTL    time.Duration
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "Listen address",
			Value:       ":8080",
			Sources:     cli.EnvVars("LUCENT_ADDR"),
			Destination: &addr,
		},
		&cli.StringFlag{
			Name:        "allowed-origin",
			Usage:       "Client origin allowed by CORS",
			Value:       "*",
			Sources:     cli.EnvVars("FRONTEND_URL"),
			Destination: &allowedOrigin,
		},
		&cli.DurationFlag{
			Name:        "session-ttl",
			Usage:       "Idle session lifetime before eviction",
			Value:       30 * time.Minute,
			Sources:     cli.EnvVars("LUCENT_SESSION_TTL"),
			Destination: &sessionTTL,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)
	flags = append(flags, geminiFlags(&cfg)...)
	flags = append(flags, archiveFlags(&cfg)...)

	return &cli.Command{
		Name:  "serve",
		Usage: "Run the intake HTTP API",
		Flags: flags,
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			// .env is a local development convenience; absence is fine.
			_ = godotenv.Load()
			return ctx, nil
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := logging.New(cfg.logLevel, os.Stdout)
			logging.SetDefault(logger)
			ctx = logging.With(ctx, logger)

			repo, err := cfg.newRepository(ctx)
			if err != nil {
				return err
			}
			defer func() {
				if closeErr := repo.Close(); closeErr != nil {
					logger.Error("failed to close repository", "error", closeErr)
				}
			}()

			gemini, err := cfg.newGemini(ctx)
			if err != nil {
				return err
			}

			archive, err := cfg.newArchive(ctx)
			if err != nil {
				return err
			}

			sessions := session.New(sessionTTL)

			var opts []intake.Option
			if archive != nil {
				opts = append(opts, intake.WithArchive(archive))
			}
			intakeUC := intake.New(repo, gemini, sessions, opts...)
			productUC := product.New(repo)

			srv := server.New(intakeUC, productUC, server.Config{
				Addr:           addr,
				AllowedOrigins: []string{allowedOrigin},
				Logger:         logger,
			})

			ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()

			sessions.Start(ctx)
			logger.Info("session eviction started", "ttl", sessionTTL)

			errCh := make(chan error, 1)
			go func() {
				logger.Info("server listening", "addr", srv.Addr)
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
			}()

			select {
			case err := <-errCh:
				return goerr.Wrap(err, "server failed")
			case <-ctx.Done():
			}

			logger.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			if err := srv.Shutdown(shutdownCtx); err != nil {
				return goerr.Wrap(err, "failed to shut down server")
			}

			logger.Info("server stopped")
			return nil
		},
	}
}
