package logic

import (
	"time"

	"github.com/scrimlab/scrim-stats/internal/models"
)

// sideCount accumulates games and wins for one side
type sideCount struct {
	games int
	wins  int
}

func (c *sideCount) add(won bool) {
	c.games++
	if won {
		c.wins++
	}
}

// checkRecord returns a reason when a record cannot be aggregated.
func checkRecord(r models.NormalizedGameRecord) string {
	if !r.Side.Valid() {
		return "unrecognized side " + string(r.Side)
	}
	if r.Timestamp.IsZero() {
		return "zero timestamp"
	}
	if !models.InMatchTimeRange(r.Timestamp) {
		return "timestamp " + r.Timestamp.UTC().Format(time.RFC3339) + " outside the match time range"
	}
	return ""
}

// BySide computes the overall win rate per side. Both sides are always
// present; a side without games reports no data.
func BySide(records []models.NormalizedGameRecord) models.SideSummary {
	var summary models.SideSummary
	counts := map[models.Side]*sideCount{
		models.SideBlue: {},
		models.SideRed:  {},
	}

	for i, r := range records {
		if reason := checkRecord(r); reason != "" {
			summary.Skipped++
			summary.Problems = append(summary.Problems, &models.DataShapeError{Index: i, Reason: reason})
			continue
		}
		counts[r.Side].add(r.Won)
	}

	summary.Buckets = make(map[models.Side]models.WinrateBucket, len(models.Sides))
	for _, side := range models.Sides {
		c := counts[side]
		summary.Buckets[side] = models.NewWinrateBucket(time.Time{}, time.Time{}, side, c.games, c.wins)
	}
	return summary
}

// BySideOverTime computes the win rate per side in contiguous windows of
// bucketWidth, the first starting at the earliest record. Windows are
// half-open, so a record on a boundary belongs to the window starting there.
// Records outside the match time range are skipped, which keeps the span
// between the earliest and latest record well inside a time.Duration.
// Every window reports both sides, including windows without games.
func BySideOverTime(records []models.NormalizedGameRecord, bucketWidth time.Duration) models.Timeline {
	if bucketWidth <= 0 {
		bucketWidth = models.DefaultBucketWidth
	}
	timeline := models.Timeline{
		BucketWidth: bucketWidth,
		Buckets:     []models.WinrateBucket{},
	}

	valid := make([]models.NormalizedGameRecord, 0, len(records))
	for i, r := range records {
		if reason := checkRecord(r); reason != "" {
			timeline.Skipped++
			timeline.Problems = append(timeline.Problems, &models.DataShapeError{Index: i, Reason: reason})
			continue
		}
		valid = append(valid, r)
	}
	if len(valid) == 0 {
		return timeline
	}

	minTS, maxTS := valid[0].Timestamp, valid[0].Timestamp
	for _, r := range valid[1:] {
		if r.Timestamp.Before(minTS) {
			minTS = r.Timestamp
		}
		if r.Timestamp.After(maxTS) {
			maxTS = r.Timestamp
		}
	}

	n := int(maxTS.Sub(minTS)/bucketWidth) + 1
	counts := make([][2]sideCount, n)
	for _, r := range valid {
		idx := int(r.Timestamp.Sub(minTS) / bucketWidth)
		slot := 0
		if r.Side == models.SideRed {
			slot = 1
		}
		counts[idx][slot].add(r.Won)
	}

	timeline.Buckets = make([]models.WinrateBucket, 0, 2*n)
	for i := 0; i < n; i++ {
		start := minTS.Add(time.Duration(i) * bucketWidth)
		end := start.Add(bucketWidth)
		for slot, side := range models.Sides {
			c := counts[i][slot]
			timeline.Buckets = append(timeline.Buckets, models.NewWinrateBucket(start, end, side, c.games, c.wins))
		}
	}
	return timeline
}
