package worker

import (
	"context"
	"sync"

	"github.com/scrimlab/scrim-stats/internal/models"
)

// MockMatchWriter records every batch it receives
type MockMatchWriter struct {
	mu      sync.Mutex
	Batches [][]models.RawMatch
	Err     error
}

func (m *MockMatchWriter) InsertMatches(ctx context.Context, docs []models.RawMatch) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return 0, m.Err
	}
	batch := make([]models.RawMatch, len(docs))
	copy(batch, docs)
	m.Batches = append(m.Batches, batch)
	return len(docs), nil
}

func (m *MockMatchWriter) Total() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, b := range m.Batches {
		n += len(b)
	}
	return n
}
