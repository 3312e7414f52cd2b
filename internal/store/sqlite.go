package store

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"

	"github.com/goccy/go-json"
	_ "modernc.org/sqlite"

	"github.com/scrimlab/scrim-stats/internal/models"
)

//go:embed schema_sqlite.sql
var sqliteSchema string

// SQLiteStore keeps match documents as JSON text in a local SQLite file
type SQLiteStore struct {
	conn *sql.DB
}

// OpenSQLite opens (or creates) the database at path and applies the schema.
// ":memory:" gives a private in-memory database.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite: missing database path")
	}
	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL", path)
	if path == ":memory:" {
		dsn = ":memory:"
	}
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// every pooled connection to :memory: would get its own database
	conn.SetMaxOpenConns(1)

	if _, err := conn.Exec(sqliteSchema); err != nil {
		conn.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &SQLiteStore{conn: conn}, nil
}

func (s *SQLiteStore) InsertMatches(ctx context.Context, docs []models.RawMatch) (int, error) {
	if len(docs) == 0 {
		return 0, nil
	}
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO scrim_matches (match_id, doc) VALUES (?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, doc := range docs {
		body, err := json.Marshal(doc)
		if err != nil {
			return 0, fmt.Errorf("encode document %d: %w", i, err)
		}
		if _, err := stmt.ExecContext(ctx, doc.MatchID(), string(body)); err != nil {
			return 0, fmt.Errorf("insert document %d: %w", i, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return len(docs), nil
}

func (s *SQLiteStore) ListMatches(ctx context.Context) ([]models.RawMatch, error) {
	rows, err := s.conn.QueryContext(ctx, `SELECT doc FROM scrim_matches ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query matches: %w", err)
	}
	defer rows.Close()

	var out []models.RawMatch
	for rows.Next() {
		var body string
		if err := rows.Scan(&body); err != nil {
			return nil, fmt.Errorf("scan match: %w", err)
		}
		var doc models.RawMatch
		if err := json.Unmarshal([]byte(body), &doc); err != nil {
			return nil, fmt.Errorf("decode match: %w", err)
		}
		out = append(out, doc)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.conn.PingContext(ctx)
}

func (s *SQLiteStore) Close(ctx context.Context) error {
	return s.conn.Close()
}
