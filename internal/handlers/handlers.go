package handlers

import (
	"context"
	"crypto/sha256"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/scrimlab/scrim-stats/internal/logic"
	"github.com/scrimlab/scrim-stats/internal/models"
)

// MaxBodySize limits the size of ingest bodies to 8MB
const MaxBodySize = 8 << 20

// IngestQueue defines the interface for the match ingestion worker pool
type IngestQueue interface {
	Enqueue(match models.RawMatch, batchID uuid.UUID) bool
	QueueDepth() int
}

// Pinger is anything the readiness check can ping
type Pinger interface {
	Ping(ctx context.Context) error
}

type Config struct {
	WorkerPool IngestQueue
	Store      Pinger
	Redis      *redis.Client
	Logger     *zap.Logger
	// APITokens enables bearer auth on /api/v1 when non-empty.
	APITokens []string
	// BucketWidth is the timeline default when a request does not set bucketDays.
	BucketWidth time.Duration
	// Services
	Winrate logic.WinrateService
}

type Handler struct {
	pool        IngestQueue
	store       Pinger
	redis       *redis.Client
	logger      *zap.SugaredLogger
	validator   *validator.Validate
	tokenHashes [][sha256.Size]byte
	bucketWidth time.Duration
	winrate     logic.WinrateService
}

func New(cfg Config) *Handler {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.BucketWidth <= 0 {
		cfg.BucketWidth = models.DefaultBucketWidth
	}
	h := &Handler{
		pool:        cfg.WorkerPool,
		store:       cfg.Store,
		redis:       cfg.Redis,
		logger:      cfg.Logger.Sugar(),
		validator:   validator.New(),
		bucketWidth: cfg.BucketWidth,
		winrate:     cfg.Winrate,
	}
	for _, token := range cfg.APITokens {
		h.tokenHashes = append(h.tokenHashes, hashToken(token))
	}
	return h
}
