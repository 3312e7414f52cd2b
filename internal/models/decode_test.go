package models

import (
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	json "github.com/goccy/go-json"
)

func TestDecodeMatches(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantCount int
		wantShape bool
		wantIndex int
	}{
		{name: "Empty", body: "  ", wantCount: 0},
		{name: "Array", body: `[{"matchId":"1"},{"matchId":"2"}]`, wantCount: 2},
		{name: "Empty array", body: `[]`, wantCount: 0},
		{name: "Single object", body: `{"matchId":"1"}`, wantCount: 1},
		{name: "NDJSON", body: "{\"matchId\":\"1\"}\n\n{\"matchId\":\"2\"}\n", wantCount: 2},
		{name: "Null", body: `null`, wantShape: true, wantIndex: -1},
		{name: "Scalar", body: `42`, wantShape: true, wantIndex: -1},
		{name: "Array of scalars", body: `[{"matchId":"1"}, "oops"]`, wantShape: true, wantIndex: 1},
		{name: "Broken JSON", body: `[{"matchId":`, wantShape: true, wantIndex: -1},
		{name: "Broken NDJSON line", body: "{\"matchId\":\"1\"}\n[1]", wantShape: true, wantIndex: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeMatches([]byte(tt.body))
			if tt.wantShape {
				var shapeErr *DataShapeError
				if !errors.As(err, &shapeErr) {
					t.Fatalf("error = %v, want *DataShapeError", err)
				}
				if shapeErr.Index != tt.wantIndex {
					t.Errorf("Index = %d, want %d", shapeErr.Index, tt.wantIndex)
				}
				return
			}
			if err != nil {
				t.Fatalf("DecodeMatches: %v", err)
			}
			if got == nil {
				t.Fatal("DecodeMatches returned nil, want an empty slice")
			}
			if len(got) != tt.wantCount {
				t.Errorf("len = %d, want %d", len(got), tt.wantCount)
			}
		})
	}
}

func TestWinrateBucketJSON(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	empty := NewWinrateBucket(start, start.Add(DefaultBucketWidth), SideRed, 0, 0)

	data, err := json.Marshal(empty)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if v, ok := fields["winrate"]; !ok || v != nil {
		t.Errorf("winrate = %v, want null", v)
	}

	var back WinrateBucket
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal bucket: %v", err)
	}
	if !math.IsNaN(back.Winrate) || back.HasData() {
		t.Errorf("round-tripped empty bucket = %+v, want no data", back)
	}
	if !back.PeriodStart.Equal(start) {
		t.Errorf("PeriodStart = %v, want %v", back.PeriodStart, start)
	}

	full := NewWinrateBucket(time.Time{}, time.Time{}, SideBlue, 4, 3)
	data, _ = json.Marshal(full)
	fields = nil
	if err := json.Unmarshal(data, &fields); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if fields["winrate"] != 0.75 {
		t.Errorf("winrate = %v, want 0.75", fields["winrate"])
	}
	if _, ok := fields["period_start"]; ok {
		t.Error("unbounded bucket should omit period_start")
	}
}

func TestNewTrackedTeams(t *testing.T) {
	teams, err := NewTrackedTeams(map[string][]string{
		"Alpha": {"A1", "A2"},
		"Beta":  {"B1"},
	})
	if err != nil {
		t.Fatalf("NewTrackedTeams: %v", err)
	}
	if name, ok := teams.TeamFor("A2"); !ok || name != "Alpha" {
		t.Errorf("TeamFor(A2) = %q, %v", name, ok)
	}
	if _, ok := teams.TeamFor("Z9"); ok {
		t.Error("TeamFor(Z9) should not match")
	}
	if names := teams.Names(); len(names) != 2 || names[0] != "Alpha" || names[1] != "Beta" {
		t.Errorf("Names() = %v", names)
	}

	if _, err := NewTrackedTeams(map[string][]string{"Alpha": {"X"}, "Beta": {"X"}}); err == nil {
		t.Error("expected an error for a roster shared by two teams")
	}
	if _, err := NewTrackedTeams(map[string][]string{"Alpha": {}}); err == nil {
		t.Error("expected an error for a team without rosters")
	}
	_, err = NewTrackedTeams(map[string][]string{"Alpha": {"A1"}, " Alpha ": {"A2"}})
	if err == nil || !strings.Contains(err.Error(), "listed twice") {
		t.Errorf("names equal after trimming: err = %v, want a listed-twice error", err)
	}
}
