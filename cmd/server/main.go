package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/vsinha/prodplan/pkg/config"
	"github.com/vsinha/prodplan/pkg/infrastructure/repositories/csv"
	"github.com/vsinha/prodplan/pkg/interfaces/bootstrap"
	"github.com/vsinha/prodplan/pkg/interfaces/handlers"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLogger := zerolog.New(os.Stderr).With().Timestamp().Logger()
		bootLogger.Fatal().Err(err).Msg("failed to load configuration")
	}
	logger := config.NewLogger(cfg.Log, os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}

func run(ctx context.Context, cfg *config.Config, logger zerolog.Logger) error {
	repos, err := bootstrap.OpenRepositories(cfg.Database)
	if err != nil {
		return err
	}
	app := bootstrap.NewApp(repos, cfg.Netting, logger)
	defer app.Close()

	// SCENARIO_DIR seeds the store at startup; required for memory storage to hold any data
	if dir := os.Getenv("SCENARIO_DIR"); dir != "" {
		scenario, err := csv.NewLoader().LoadScenario(dir)
		if err != nil {
			return err
		}
		if err := bootstrap.ValidateScenario(scenario, logger); err != nil {
			return err
		}
		if err := bootstrap.Seed(ctx, repos, scenario); err != nil {
			return err
		}
		logger.Info().Str("dir", dir).Int("plans", len(scenario.Plans)).Msg("scenario loaded")
	}

	router := handlers.NewRouter(handlers.Services{
		Netting:      app.Netting,
		Planning:     app.Planning,
		Reservations: app.Reservations,
		Stock:        app.Stock,
		Events:       app.Events,
	}, logger)

	server := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", cfg.Server.Addr).Str("driver", cfg.Database.Driver).Msg("listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	logger.Info().Msg("shutting down")
	return server.Shutdown(shutdownCtx)
}
