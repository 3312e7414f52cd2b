package store

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/scrimlab/scrim-stats/internal/models"
)

//go:embed schema_postgres.sql
var postgresSchema string

// PostgresStore keeps match documents in a JSONB column
type PostgresStore struct {
	pool *pgxpool.Pool
}

// OpenPostgres connects, pings and applies the schema.
func OpenPostgres(ctx context.Context, url string) (*PostgresStore, error) {
	if url == "" {
		return nil, fmt.Errorf("postgres: missing connection url")
	}
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("postgres connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres ping: %w", err)
	}
	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) InsertMatches(ctx context.Context, docs []models.RawMatch) (int, error) {
	if len(docs) == 0 {
		return 0, nil
	}
	batch := &pgx.Batch{}
	for i, doc := range docs {
		body, err := json.Marshal(doc)
		if err != nil {
			return 0, fmt.Errorf("encode document %d: %w", i, err)
		}
		batch.Queue(`INSERT INTO scrim_matches (match_id, doc) VALUES ($1, $2::jsonb)`, doc.MatchID(), string(body))
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	inserted := 0
	for i := range docs {
		if _, err := br.Exec(); err != nil {
			return inserted, fmt.Errorf("insert document %d: %w", i, err)
		}
		inserted++
	}
	return inserted, nil
}

func (s *PostgresStore) ListMatches(ctx context.Context) ([]models.RawMatch, error) {
	rows, err := s.pool.Query(ctx, `SELECT doc::text FROM scrim_matches ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query matches: %w", err)
	}
	defer rows.Close()

	var out []models.RawMatch
	for rows.Next() {
		var body []byte
		if err := rows.Scan(&body); err != nil {
			return nil, fmt.Errorf("scan match: %w", err)
		}
		var doc models.RawMatch
		if err := json.Unmarshal(body, &doc); err != nil {
			return nil, fmt.Errorf("decode match: %w", err)
		}
		out = append(out, doc)
	}
	return out, rows.Err()
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *PostgresStore) Close(ctx context.Context) error {
	s.pool.Close()
	return nil
}
