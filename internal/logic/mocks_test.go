package logic

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/scrimlab/scrim-stats/internal/models"
)

// MockMatchSource implements MatchSource for testing
type MockMatchSource struct {
	ListMatchesFunc func(ctx context.Context) ([]models.RawMatch, error)
	Calls           int
}

func (m *MockMatchSource) ListMatches(ctx context.Context) ([]models.RawMatch, error) {
	m.Calls++
	if m.ListMatchesFunc != nil {
		return m.ListMatchesFunc(ctx)
	}
	return nil, nil
}

// MockRedisClient is an in-memory RedisClient
type MockRedisClient struct {
	mu   sync.Mutex
	data map[string]string
	Err  error
}

func NewMockRedisClient() *MockRedisClient {
	return &MockRedisClient{data: make(map[string]string)}
}

func (m *MockRedisClient) Get(ctx context.Context, key string) *redis.StringCmd {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return redis.NewStringResult("", m.Err)
	}
	val, ok := m.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(val, nil)
}

func (m *MockRedisClient) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return redis.NewStatusResult("", m.Err)
	}
	switch v := value.(type) {
	case []byte:
		m.data[key] = string(v)
	case string:
		m.data[key] = v
	}
	return redis.NewStatusResult("OK", nil)
}

func (m *MockRedisClient) Incr(ctx context.Context, key string) *redis.IntCmd {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return redis.NewIntResult(0, m.Err)
	}
	n, _ := strconv.ParseInt(m.data[key], 10, 64)
	n++
	m.data[key] = strconv.FormatInt(n, 10)
	return redis.NewIntResult(n, nil)
}
