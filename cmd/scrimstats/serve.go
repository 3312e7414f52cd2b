package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/scrimlab/scrim-stats/internal/handlers"
	"github.com/scrimlab/scrim-stats/internal/worker"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Serve the win-rate API, the SVG charts and the ingest endpoint.
Ingested matches are written to the store by a background worker pool.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	defer logger.Sync()
	log := logger.Sugar()

	if cfg.Teams.Len() == 0 {
		return errNoTeams
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := openStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close(context.Background())

	rdb := openRedis(ctx, cfg, log)
	if rdb != nil {
		defer rdb.Close()
	}

	winrate := newWinrateService(cfg, st, rdb, logger)

	pool := worker.NewPool(worker.PoolConfig{
		WorkerCount:   cfg.WorkerCount,
		QueueSize:     cfg.QueueSize,
		BatchSize:     cfg.BatchSize,
		FlushInterval: cfg.FlushInterval,
		Store:         st,
		OnFlush: func(ctx context.Context, stored int) {
			if err := winrate.Invalidate(ctx); err != nil {
				log.Warnw("Failed to invalidate result cache", "error", err)
			}
		},
		Logger: logger,
	})
	pool.Start(ctx)

	h := handlers.New(handlers.Config{
		WorkerPool:  pool,
		Store:       st,
		Redis:       rdb,
		Logger:      logger,
		APITokens:   cfg.APITokens,
		BucketWidth: cfg.BucketWidth(),
		Winrate:     winrate,
	})

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.Port),
		Handler:           h.Routes(cfg.AllowedOrigins),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Infow("HTTP server listening",
			"addr", srv.Addr,
			"store", cfg.StoreDriver,
			"teams", cfg.Teams.Names(),
			"cache", rdb != nil,
			"auth", len(cfg.APITokens) > 0,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		err := srv.Shutdown(shutdownCtx)
		pool.Stop()
		return err
	})

	return g.Wait()
}
