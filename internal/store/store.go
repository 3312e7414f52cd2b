// Package store persists raw scrim match documents. Three backends share one
// interface: MongoDB (the production document store), PostgreSQL JSONB and an
// embedded SQLite file for local use and tests.
package store

import (
	"context"
	"fmt"

	"github.com/scrimlab/scrim-stats/internal/models"
)

const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// MatchStore stores match documents as-is. Inserts append; de-duplication is
// left to the caller.
type MatchStore interface {
	InsertMatches(ctx context.Context, docs []models.RawMatch) (int, error)
	ListMatches(ctx context.Context) ([]models.RawMatch, error)
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// Options selects and configures a backend
type Options struct {
	Driver          string
	MongoURL        string
	MongoDatabase   string
	MongoCollection string
	PostgresURL     string
	SQLitePath      string
}

// Open connects to the backend named by opts.Driver.
func Open(ctx context.Context, opts Options) (MatchStore, error) {
	switch opts.Driver {
	case DriverMongo, "":
		return OpenMongo(ctx, opts.MongoURL, opts.MongoDatabase, opts.MongoCollection)
	case DriverPostgres:
		return OpenPostgres(ctx, opts.PostgresURL)
	case DriverSQLite:
		return OpenSQLite(opts.SQLitePath)
	default:
		return nil, fmt.Errorf("unknown store driver %q", opts.Driver)
	}
}
