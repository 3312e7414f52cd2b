package logic

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/scrimlab/scrim-stats/internal/models"
)

// MatchSource is the read side of the match document store
type MatchSource interface {
	ListMatches(ctx context.Context) ([]models.RawMatch, error)
}

// RedisClient defines the subset of the Redis client used for result caching
type RedisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Incr(ctx context.Context, key string) *redis.IntCmd
}

// WinrateService answers side win-rate questions for the tracked teams
type WinrateService interface {
	GetSideSummary(ctx context.Context, team string) (*models.SideReport, error)
	GetSideTimeline(ctx context.Context, team string, bucketWidth time.Duration) (*models.TimelineReport, error)
	TrackedTeams() models.TrackedTeams
	Invalidate(ctx context.Context) error
}
