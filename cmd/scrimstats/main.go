// Command scrimstats serves and reports side win rates for tracked scrim teams.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/scrimlab/scrim-stats/internal/config"
	"github.com/scrimlab/scrim-stats/internal/logic"
	"github.com/scrimlab/scrim-stats/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "scrimstats",
	Short: "Scrim side win-rate service",
	Long: `Load League of Legends scrim match exports into a document store and
report how the tracked teams perform on the BLUE and RED sides.`,
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(loadCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(chartCmd)
	rootCmd.AddCommand(teamsCmd)
}

var errNoTeams = errors.New("no tracked teams configured: set TEAMS_FILE or TRACKED_TEAMS")

// setup loads configuration and builds the process logger.
func setup() (*config.Config, *zap.Logger, error) {
	envFile := config.LoadDotEnv()
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	var logger *zap.Logger
	if cfg.Env == "production" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		return nil, nil, fmt.Errorf("init logger: %w", err)
	}
	if envFile != "" {
		logger.Sugar().Debugw("Loaded .env", "path", envFile)
	}
	return cfg, logger, nil
}

func openStore(ctx context.Context, cfg *config.Config) (store.MatchStore, error) {
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	return store.Open(ctx, store.Options{
		Driver:          cfg.StoreDriver,
		MongoURL:        cfg.MongoURL,
		MongoDatabase:   cfg.MongoDatabase,
		MongoCollection: cfg.MongoCollection,
		PostgresURL:     cfg.PostgresURL,
		SQLitePath:      cfg.SQLitePath,
	})
}

// openRedis connects the optional result cache. A nil client means caching
// is off.
func openRedis(ctx context.Context, cfg *config.Config, logger *zap.SugaredLogger) *redis.Client {
	if cfg.RedisURL == "" {
		return nil
	}
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logger.Warnw("Invalid REDIS_URL, result cache disabled", "error", err)
		return nil
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warnw("Redis unreachable, result cache disabled", "error", err)
		client.Close()
		return nil
	}
	return client
}

func newWinrateService(cfg *config.Config, st logic.MatchSource, rdb *redis.Client, logger *zap.Logger) logic.WinrateService {
	var cache *logic.ResultCache
	if rdb != nil {
		cache = logic.NewResultCache(rdb, cfg.CacheTTL)
	}
	return logic.NewWinrateService(logic.WinrateServiceConfig{
		Store:        st,
		Teams:        cfg.Teams,
		Cache:        cache,
		QueryTimeout: cfg.QueryTimeout,
		Logger:       logger,
	})
}
