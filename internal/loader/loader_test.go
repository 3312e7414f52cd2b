package loader

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/scrimlab/scrim-stats/internal/models"
)

type mockWriter struct {
	calls [][]models.RawMatch
	err   error
}

func (m *mockWriter) InsertMatches(ctx context.Context, docs []models.RawMatch) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	m.calls = append(m.calls, docs)
	return len(docs), nil
}

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, body := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return dir
}

func TestLoad(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"01_list.json":   `[{"matchId":"m1"},{"matchId":"m2"}]`,
		"02_single.json": `{"matchId":"m3"}`,
		"03_empty.json":  `[]`,
		"04_scalar.json": `42`,
		"05_null.json":   `null`,
		"06_broken.json": `{"matchId":`,
		"07_dup.json":    `[{"matchId":"m1"},{"matchId":"m4"},{"note":"no id"}]`,
		"notes.txt":      `[{"matchId":"ignored"}]`,
	})
	if err := os.Mkdir(filepath.Join(dir, "nested.json"), 0o755); err != nil {
		t.Fatal(err)
	}

	store := &mockWriter{}
	l := New(Config{Store: store, Workers: 2, Logger: zap.NewNop()})

	result, err := l.Load(context.Background(), dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if result.FilesRead != 7 {
		t.Errorf("FilesRead = %d, want 7", result.FilesRead)
	}
	if len(result.FilesSkipped) != 4 {
		t.Errorf("FilesSkipped = %+v, want 4 entries", result.FilesSkipped)
	}
	if result.Inserted != 5 {
		t.Errorf("Inserted = %d, want 5", result.Inserted)
	}
	if result.Duplicates != 1 {
		t.Errorf("Duplicates = %d, want 1", result.Duplicates)
	}

	// one insert per loaded file, in file-name order
	if len(store.calls) != 3 {
		t.Fatalf("InsertMatches called %d times, want 3", len(store.calls))
	}
	wantFirst := []string{"m1", "m3", "m4"}
	for i, call := range store.calls {
		if call[0].MatchID() != wantFirst[i] {
			t.Errorf("call %d starts with %q, want %q", i, call[0].MatchID(), wantFirst[i])
		}
	}

	for _, f := range result.FilesSkipped {
		if !strings.Contains(f.Reason, "not a valid list of documents") && f.Name != "06_broken.json" {
			t.Errorf("unexpected skip reason for %s: %s", f.Name, f.Reason)
		}
	}
	if _, err := os.Stat(filepath.Join(dir, "01_list.json")); err != nil {
		t.Errorf("file removed without cleanup: %v", err)
	}
}

func TestLoad_Cleanup(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"a.json": `[{"matchId":"m1"}]`,
		"b.json": `"just a string"`,
	})
	l := New(Config{Store: &mockWriter{}, Cleanup: true, Logger: zap.NewNop()})

	result, err := l.Load(context.Background(), dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if result.Removed != 1 {
		t.Errorf("Removed = %d, want 1", result.Removed)
	}
	if _, err := os.Stat(filepath.Join(dir, "a.json")); !os.IsNotExist(err) {
		t.Errorf("a.json still present after cleanup")
	}
	if _, err := os.Stat(filepath.Join(dir, "b.json")); err != nil {
		t.Errorf("skipped file must be kept: %v", err)
	}
}

func TestLoad_StoreError(t *testing.T) {
	dir := writeFiles(t, map[string]string{"a.json": `[{"matchId":"m1"}]`})
	l := New(Config{Store: &mockWriter{err: errors.New("connection reset")}, Logger: zap.NewNop()})

	if _, err := l.Load(context.Background(), dir); err == nil {
		t.Error("expected store error to abort the run")
	}
}

func TestLoad_MissingDir(t *testing.T) {
	l := New(Config{Store: &mockWriter{}})
	if _, err := l.Load(context.Background(), filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Error("expected error for missing directory")
	}
}
