package store

import (
	"context"
	"testing"
	"time"

	"github.com/scrimlab/scrim-stats/internal/models"
)

func openMemDB(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := OpenSQLite(":memory:")
	if err != nil {
		t.Fatalf("open in-memory db: %v", err)
	}
	t.Cleanup(func() { s.Close(context.Background()) })
	return s
}

func TestSQLiteInsertAndList(t *testing.T) {
	s := openMemDB(t)
	ctx := context.Background()

	docs := []models.RawMatch{
		{
			"matchId":   "m1",
			"timestamp": float64(1704110400000),
			"teams": []any{
				map[string]any{"teamId": "A1", "side": "BLUE", "win": true},
				map[string]any{"teamId": "Z", "side": "RED", "win": false},
			},
		},
		{"gameId": "m2", "teams": "not a list"},
	}

	n, err := s.InsertMatches(ctx, docs)
	if err != nil {
		t.Fatalf("InsertMatches: %v", err)
	}
	if n != 2 {
		t.Errorf("inserted %d, want 2", n)
	}

	got, err := s.ListMatches(ctx)
	if err != nil {
		t.Fatalf("ListMatches: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("listed %d documents, want 2", len(got))
	}
	if got[0].MatchID() != "m1" || got[1].MatchID() != "m2" {
		t.Errorf("insertion order lost: %q, %q", got[0].MatchID(), got[1].MatchID())
	}

	// malformed documents are stored as-is; the filter decides later
	doc, err := models.ParseMatchDocument(got[0])
	if err != nil {
		t.Fatalf("ParseMatchDocument on round-tripped document: %v", err)
	}
	if !doc.Timestamp.Equal(time.UnixMilli(1704110400000)) {
		t.Errorf("Timestamp = %v", doc.Timestamp)
	}
	if _, err := models.ParseMatchDocument(got[1]); err == nil {
		t.Error("expected the malformed document to stay malformed")
	}
}

func TestSQLiteInsertAppends(t *testing.T) {
	s := openMemDB(t)
	ctx := context.Background()
	doc := models.RawMatch{"matchId": "dup"}

	for i := 0; i < 2; i++ {
		if _, err := s.InsertMatches(ctx, []models.RawMatch{doc}); err != nil {
			t.Fatalf("InsertMatches #%d: %v", i, err)
		}
	}
	got, err := s.ListMatches(ctx)
	if err != nil {
		t.Fatalf("ListMatches: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("listed %d documents, want 2 (store does not de-duplicate)", len(got))
	}
}

func TestSQLiteInsertEmpty(t *testing.T) {
	s := openMemDB(t)
	n, err := s.InsertMatches(context.Background(), nil)
	if err != nil || n != 0 {
		t.Errorf("InsertMatches(nil) = %d, %v", n, err)
	}
	if err := s.Ping(context.Background()); err != nil {
		t.Errorf("Ping: %v", err)
	}
}

func TestOpenUnknownDriver(t *testing.T) {
	if _, err := Open(context.Background(), Options{Driver: "cassandra"}); err == nil {
		t.Error("expected error for unknown driver")
	}
}

func TestOpenSQLiteViaOptions(t *testing.T) {
	s, err := Open(context.Background(), Options{Driver: DriverSQLite, SQLitePath: ":memory:"})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close(context.Background())
	if _, ok := s.(*SQLiteStore); !ok {
		t.Errorf("Open returned %T, want *SQLiteStore", s)
	}
}
