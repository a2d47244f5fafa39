package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/retailscan/retailscan/internal/config"
	"github.com/retailscan/retailscan/internal/engine"
	httpapi "github.com/retailscan/retailscan/internal/interfaces/http"
	"github.com/retailscan/retailscan/internal/store"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the assessment HTTP API",
		Long: `Serves the JSON API with Prometheus metrics and a websocket alert stream.
Postgres and Redis are attached when configured; without them the watchlist
and cached-assessment endpoints report 501.`,
		RunE: runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	eng, err := engine.New(&cfg.Engine)
	if err != nil {
		return err
	}

	var opts []httpapi.Option

	if cfg.Store.PostgresDSN != "" {
		db, err := store.Open(cfg.Store.PostgresDSN)
		if err != nil {
			return err
		}
		defer db.Close()
		if err := db.Migrate(cmd.Context()); err != nil {
			return err
		}
		opts = append(opts, httpapi.WithWatchlist(db))
		log.Info().Msg("watchlist store attached")
	}

	if cfg.Store.RedisAddr != "" {
		cache := store.NewCache(cfg.Store.RedisAddr, cfg.Store.RedisDB, cfg.Store.CacheTTL)
		defer cache.Close()
		opts = append(opts, httpapi.WithCache(cache))
		log.Info().Str("addr", cfg.Store.RedisAddr).Msg("assessment cache attached")
	}

	api := httpapi.NewServer(eng, opts...)
	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      api.Router(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Server.Addr).Msg("API listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-ctx.Done():
		log.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
	}
	return nil
}
