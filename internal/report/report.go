// Package report prints side win-rate results as terminal tables.
package report

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/scrimlab/scrim-stats/internal/models"
)

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignRight},
		},
		Header: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignCenter},
		},
	}))
}

func teamLabel(team string) string {
	if team == "" {
		return "all tracked teams"
	}
	return team
}

func rate(b models.WinrateBucket) string {
	if !b.HasData() {
		return "n/a"
	}
	return fmt.Sprintf("%.1f%%", b.Winrate*100)
}

// PrintSideSummary writes the overall BLUE/RED table for one report.
func PrintSideSummary(w io.Writer, r *models.SideReport) {
	fmt.Fprintf(w, "\nSide win rate: %s  |  Documents: %d  |  Malformed: %d  |  Generated: %s\n\n",
		teamLabel(r.Team), r.Documents, r.MalformedDocuments, r.GeneratedAt.Format(time.RFC3339))

	table := newTable(w)
	table.Header("SIDE", "GAMES", "WINS", "LOSSES", "WINRATE")
	for _, side := range models.Sides {
		b := r.Summary.Get(side)
		table.Append(
			side.String(),
			strconv.Itoa(b.GamesPlayed),
			strconv.Itoa(b.Wins),
			strconv.Itoa(b.GamesPlayed-b.Wins),
			rate(b),
		)
	}
	table.Render()

	if r.Summary.Skipped > 0 {
		fmt.Fprintf(w, "%d record(s) skipped as invalid\n", r.Summary.Skipped)
	}
}

// PrintTimeline writes one row per period with both sides side by side.
func PrintTimeline(w io.Writer, r *models.TimelineReport) {
	days := int(r.Timeline.BucketWidth / (24 * time.Hour))
	fmt.Fprintf(w, "\nSide win rate over time: %s  |  Period: %d days  |  Documents: %d  |  Malformed: %d\n\n",
		teamLabel(r.Team), days, r.Documents, r.MalformedDocuments)

	if len(r.Timeline.Buckets) == 0 {
		fmt.Fprintln(w, "No games recorded.")
		return
	}

	table := newTable(w)
	table.Header("PERIOD START", "PERIOD END", "BLUE GAMES", "BLUE WINRATE", "RED GAMES", "RED WINRATE")

	// buckets come in period order, BLUE then RED
	for i := 0; i+1 < len(r.Timeline.Buckets); i += 2 {
		blue, red := r.Timeline.Buckets[i], r.Timeline.Buckets[i+1]
		table.Append(
			blue.PeriodStart.Format("2006-01-02"),
			blue.PeriodEnd.Format("2006-01-02"),
			strconv.Itoa(blue.GamesPlayed),
			rate(blue),
			strconv.Itoa(red.GamesPlayed),
			rate(red),
		)
	}
	table.Render()
}
