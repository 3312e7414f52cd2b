package logic

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"github.com/scrimlab/scrim-stats/internal/models"
)

var (
	documentsMalformed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "scrimstats_documents_malformed_total",
		Help: "Match documents skipped by the record filter",
	})

	recordsSkipped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "scrimstats_records_skipped_total",
		Help: "Normalized records skipped by the aggregator",
	})

	aggregationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "scrimstats_aggregation_duration_seconds",
		Help:    "Time to load, filter and aggregate matches",
		Buckets: prometheus.DefBuckets,
	}, []string{"kind"})

	cacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "scrimstats_cache_lookups_total",
		Help: "Report cache lookups by result",
	}, []string{"result"})
)

const (
	kindSide     = "side"
	kindTimeline = "timeline"
)

// WinrateServiceConfig wires the win-rate service
type WinrateServiceConfig struct {
	Store        MatchSource
	Teams        models.TrackedTeams
	Cache        *ResultCache
	QueryTimeout time.Duration
	Logger       *zap.Logger
}

type winrateService struct {
	store   MatchSource
	teams   models.TrackedTeams
	cache   *ResultCache
	timeout time.Duration
	logger  *zap.SugaredLogger
	now     func() time.Time
}

func NewWinrateService(cfg WinrateServiceConfig) WinrateService {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &winrateService{
		store:   cfg.Store,
		teams:   cfg.Teams,
		cache:   cfg.Cache,
		timeout: cfg.QueryTimeout,
		logger:  logger.Sugar(),
		now:     time.Now,
	}
}

func (s *winrateService) TrackedTeams() models.TrackedTeams {
	return s.teams
}

func (s *winrateService) Invalidate(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Invalidate(ctx)
}

// loadRecords reads every stored match and normalizes it for the tracked
// teams, optionally keeping a single team.
func (s *winrateService) loadRecords(ctx context.Context, team string) ([]models.NormalizedGameRecord, models.FilterResult, int, error) {
	if team != "" && !s.teams.Has(team) {
		return nil, models.FilterResult{}, 0, fmt.Errorf("%w: %s", models.ErrUnknownTeam, team)
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	docs, err := s.store.ListMatches(ctx)
	if err != nil {
		return nil, models.FilterResult{}, 0, fmt.Errorf("list matches: %w", err)
	}

	filtered := FilterMatches(docs, s.teams)
	if filtered.Skipped > 0 {
		documentsMalformed.Add(float64(filtered.Skipped))
		for _, e := range filtered.Errors {
			s.logger.Warnw("Skipping malformed match document", "index", e.Index, "matchId", e.MatchID, "reason", e.Reason)
		}
	}

	return RecordsForTeam(filtered.Records, team), filtered, len(docs), nil
}

func (s *winrateService) GetSideSummary(ctx context.Context, team string) (*models.SideReport, error) {
	start := time.Now()
	defer func() { aggregationDuration.WithLabelValues(kindSide).Observe(time.Since(start).Seconds()) }()

	var report models.SideReport
	key, hit := s.lookup(ctx, kindSide, team, 0, &report)
	if hit {
		return &report, nil
	}

	records, filtered, docCount, err := s.loadRecords(ctx, team)
	if err != nil {
		return nil, err
	}

	summary := BySide(records)
	recordsSkipped.Add(float64(summary.Skipped))

	report = models.SideReport{
		Team:               team,
		Teams:              s.teams.Names(),
		Summary:            summary,
		Documents:          docCount,
		MalformedDocuments: filtered.Skipped,
		GeneratedAt:        s.now().UTC(),
	}
	s.save(ctx, key, &report)
	return &report, nil
}

func (s *winrateService) GetSideTimeline(ctx context.Context, team string, bucketWidth time.Duration) (*models.TimelineReport, error) {
	start := time.Now()
	defer func() { aggregationDuration.WithLabelValues(kindTimeline).Observe(time.Since(start).Seconds()) }()

	if bucketWidth <= 0 {
		bucketWidth = models.DefaultBucketWidth
	}

	var report models.TimelineReport
	key, hit := s.lookup(ctx, kindTimeline, team, bucketWidth, &report)
	if hit {
		return &report, nil
	}

	records, filtered, docCount, err := s.loadRecords(ctx, team)
	if err != nil {
		return nil, err
	}

	timeline := BySideOverTime(records, bucketWidth)
	recordsSkipped.Add(float64(timeline.Skipped))

	report = models.TimelineReport{
		Team:               team,
		Teams:              s.teams.Names(),
		Timeline:           timeline,
		Documents:          docCount,
		MalformedDocuments: filtered.Skipped,
		GeneratedAt:        s.now().UTC(),
	}
	s.save(ctx, key, &report)
	return &report, nil
}

// lookup reads a cached report and returns the key it used, which is empty
// when there is nothing to cache under. Cache failures count as misses.
func (s *winrateService) lookup(ctx context.Context, kind, team string, width time.Duration, dest interface{}) (string, bool) {
	if s.cache == nil {
		return "", false
	}
	if team != "" && !s.teams.Has(team) {
		return "", false
	}
	key, err := s.cache.Key(ctx, kind, team, width)
	if err != nil {
		s.logger.Warnw("Report cache read failed", "kind", kind, "error", err)
		cacheLookups.WithLabelValues("error").Inc()
		return "", false
	}
	hit, err := s.cache.Load(ctx, key, dest)
	if err != nil {
		s.logger.Warnw("Report cache read failed", "kind", kind, "error", err)
		cacheLookups.WithLabelValues("error").Inc()
		return key, false
	}
	if hit {
		cacheLookups.WithLabelValues("hit").Inc()
	} else {
		cacheLookups.WithLabelValues("miss").Inc()
	}
	return key, hit
}

func (s *winrateService) save(ctx context.Context, key string, value interface{}) {
	if s.cache == nil || key == "" {
		return
	}
	if err := s.cache.Store(ctx, key, value); err != nil {
		s.logger.Warnw("Report cache write failed", "key", key, "error", err)
	}
}
