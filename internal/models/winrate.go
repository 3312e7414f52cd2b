package models

import (
	"math"
	"time"

	json "github.com/goccy/go-json"
)

// DefaultBucketWidth is the window used for side win-rate trends.
const DefaultBucketWidth = 14 * 24 * time.Hour

// WinrateBucket holds the result for one side over one period. A zero
// PeriodStart and PeriodEnd means the bucket covers all input.
type WinrateBucket struct {
	PeriodStart time.Time
	PeriodEnd   time.Time
	Side        Side
	GamesPlayed int
	Wins        int
	// Winrate is Wins/GamesPlayed, NaN when no games were played.
	Winrate float64
}

// NewWinrateBucket computes the win rate for the given counts.
func NewWinrateBucket(start, end time.Time, side Side, games, wins int) WinrateBucket {
	rate := math.NaN()
	if games > 0 {
		rate = float64(wins) / float64(games)
	}
	return WinrateBucket{
		PeriodStart: start,
		PeriodEnd:   end,
		Side:        side,
		GamesPlayed: games,
		Wins:        wins,
		Winrate:     rate,
	}
}

// HasData is false for a bucket with no games ("no data").
func (b WinrateBucket) HasData() bool {
	return b.GamesPlayed > 0
}

type winrateBucketJSON struct {
	PeriodStart *time.Time `json:"period_start,omitempty"`
	PeriodEnd   *time.Time `json:"period_end,omitempty"`
	Side        Side       `json:"side"`
	GamesPlayed int        `json:"games_played"`
	Wins        int        `json:"wins"`
	Winrate     *float64   `json:"winrate"`
}

// MarshalJSON writes winrate as null for a bucket without games.
func (b WinrateBucket) MarshalJSON() ([]byte, error) {
	out := winrateBucketJSON{
		Side:        b.Side,
		GamesPlayed: b.GamesPlayed,
		Wins:        b.Wins,
	}
	if !b.PeriodStart.IsZero() {
		start := b.PeriodStart
		out.PeriodStart = &start
	}
	if !b.PeriodEnd.IsZero() {
		end := b.PeriodEnd
		out.PeriodEnd = &end
	}
	if b.HasData() {
		rate := b.Winrate
		out.Winrate = &rate
	}
	return json.Marshal(out)
}

func (b *WinrateBucket) UnmarshalJSON(data []byte) error {
	var in winrateBucketJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*b = WinrateBucket{
		Side:        in.Side,
		GamesPlayed: in.GamesPlayed,
		Wins:        in.Wins,
		Winrate:     math.NaN(),
	}
	if in.PeriodStart != nil {
		b.PeriodStart = *in.PeriodStart
	}
	if in.PeriodEnd != nil {
		b.PeriodEnd = *in.PeriodEnd
	}
	if in.Winrate != nil {
		b.Winrate = *in.Winrate
	}
	return nil
}

// FilterResult is the output of normalizing a batch of match documents.
type FilterResult struct {
	Records []NormalizedGameRecord
	Skipped int
	Errors  []*MalformedRecordError
}

// SideSummary is the overall win rate per side.
type SideSummary struct {
	Buckets  map[Side]WinrateBucket `json:"buckets"`
	Skipped  int                    `json:"skipped"`
	Problems []*DataShapeError      `json:"problems,omitempty"`
}

// Get returns the bucket for a side, or an empty "no data" bucket.
func (s SideSummary) Get(side Side) WinrateBucket {
	if b, ok := s.Buckets[side]; ok {
		return b
	}
	return NewWinrateBucket(time.Time{}, time.Time{}, side, 0, 0)
}

// Timeline is the win rate per side per period, ordered by period start and
// then BLUE before RED.
type Timeline struct {
	BucketWidth time.Duration     `json:"bucket_width"`
	Buckets     []WinrateBucket   `json:"buckets"`
	Skipped     int               `json:"skipped"`
	Problems    []*DataShapeError `json:"problems,omitempty"`
}

// SideReport is a SideSummary with the context it was computed in.
type SideReport struct {
	Team               string      `json:"team,omitempty"`
	Teams              []string    `json:"teams"`
	Summary            SideSummary `json:"summary"`
	Documents          int         `json:"documents"`
	MalformedDocuments int         `json:"malformed_documents"`
	GeneratedAt        time.Time   `json:"generated_at"`
}

// TimelineReport is a Timeline with the context it was computed in.
type TimelineReport struct {
	Team               string    `json:"team,omitempty"`
	Teams              []string  `json:"teams"`
	Timeline           Timeline  `json:"timeline"`
	Documents          int       `json:"documents"`
	MalformedDocuments int       `json:"malformed_documents"`
	GeneratedAt        time.Time `json:"generated_at"`
}
