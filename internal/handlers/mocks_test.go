package handlers

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/scrimlab/scrim-stats/internal/models"
)

// MockIngestQueue implements IngestQueue for testing
type MockIngestQueue struct {
	mu          sync.Mutex
	EnqueueFunc func(match models.RawMatch, batchID uuid.UUID) bool
	Enqueued    []models.RawMatch
}

func (m *MockIngestQueue) Enqueue(match models.RawMatch, batchID uuid.UUID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.EnqueueFunc != nil && !m.EnqueueFunc(match, batchID) {
		return false
	}
	m.Enqueued = append(m.Enqueued, match)
	return true
}

func (m *MockIngestQueue) QueueDepth() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Enqueued)
}

// MockPinger implements Pinger for testing
type MockPinger struct {
	Err error
}

func (m *MockPinger) Ping(ctx context.Context) error { return m.Err }

// MockWinrateService implements logic.WinrateService for testing
type MockWinrateService struct {
	Teams               models.TrackedTeams
	GetSideSummaryFunc  func(ctx context.Context, team string) (*models.SideReport, error)
	GetSideTimelineFunc func(ctx context.Context, team string, bucketWidth time.Duration) (*models.TimelineReport, error)
	InvalidateCalls     int
}

func (m *MockWinrateService) GetSideSummary(ctx context.Context, team string) (*models.SideReport, error) {
	if m.GetSideSummaryFunc != nil {
		return m.GetSideSummaryFunc(ctx, team)
	}
	return &models.SideReport{Team: team}, nil
}

func (m *MockWinrateService) GetSideTimeline(ctx context.Context, team string, bucketWidth time.Duration) (*models.TimelineReport, error) {
	if m.GetSideTimelineFunc != nil {
		return m.GetSideTimelineFunc(ctx, team, bucketWidth)
	}
	return &models.TimelineReport{Team: team, Timeline: models.Timeline{BucketWidth: bucketWidth, Buckets: []models.WinrateBucket{}}}, nil
}

func (m *MockWinrateService) TrackedTeams() models.TrackedTeams { return m.Teams }

func (m *MockWinrateService) Invalidate(ctx context.Context) error {
	m.InvalidateCalls++
	return nil
}
