// Package charts renders side win-rate results as standalone SVG documents.
package charts

import (
	"fmt"
	"html"
	"math"
	"strings"

	"github.com/scrimlab/scrim-stats/internal/models"
)

const (
	width   = 800
	height  = 420
	padding = 60

	background = "#1a1a1a"
	foreground = "white"
	gridColor  = "#444"
)

var sideColors = map[models.Side]string{
	models.SideBlue: "#4a90e2",
	models.SideRed:  "#e74c3c",
}

// SideWinrate draws one bar per side, scaled 0-100%.
func SideWinrate(title string, summary models.SideSummary) string {
	var sb strings.Builder
	openSVG(&sb, title)
	drawPercentAxis(&sb)

	plotWidth := width - 2*padding
	barWidth := plotWidth / len(models.Sides)

	for i, side := range models.Sides {
		b := summary.Get(side)
		x := padding + i*barWidth
		cx := x + barWidth/2

		label := "no games"
		if b.HasData() {
			barHeight := barHeightFor(b.Winrate)
			y := height - padding - barHeight
			fmt.Fprintf(&sb, `<rect x="%d" y="%d" width="%d" height="%d" fill="%s" rx="4" />`,
				x+barWidth/4, y, barWidth/2, barHeight, sideColors[side])
			label = percentLabel(b)
			fmt.Fprintf(&sb, `<text x="%d" y="%d" fill="%s" font-family="Arial" font-size="13" text-anchor="middle">%s</text>`,
				cx, y-8, foreground, label)
		} else {
			fmt.Fprintf(&sb, `<text x="%d" y="%d" fill="%s" font-family="Arial" font-size="13" text-anchor="middle">%s</text>`,
				cx, height-padding-8, gridColor, label)
		}

		fmt.Fprintf(&sb, `<text x="%d" y="%d" fill="%s" font-family="Arial" font-size="14" text-anchor="middle">%s</text>`,
			cx, height-padding+22, foreground, side)
	}

	drawXAxis(&sb)
	sb.WriteString(`</svg>`)
	return sb.String()
}

// Timeline draws one line per side across the timeline's periods. Periods
// without games break the line instead of dropping it to zero.
func Timeline(title string, tl models.Timeline) string {
	var sb strings.Builder
	openSVG(&sb, title)
	drawPercentAxis(&sb)

	periods := periodStarts(tl)
	if len(periods) == 0 {
		fmt.Fprintf(&sb, `<text x="%d" y="%d" fill="%s" font-family="Arial" font-size="16" text-anchor="middle">No games recorded</text>`,
			width/2, height/2, foreground)
		drawXAxis(&sb)
		sb.WriteString(`</svg>`)
		return sb.String()
	}

	plotWidth := width - 2*padding
	step := plotWidth / len(periods)
	xFor := func(i int) int { return padding + i*step + step/2 }
	yFor := func(rate float64) int { return height - padding - barHeightFor(rate) }

	for _, side := range models.Sides {
		color := sideColors[side]
		var segment []string
		flushSegment := func() {
			if len(segment) > 1 {
				fmt.Fprintf(&sb, `<polyline points="%s" fill="none" stroke="%s" stroke-width="2" />`,
					strings.Join(segment, " "), color)
			}
			segment = segment[:0]
		}

		for i, b := range bucketsFor(tl, side) {
			if !b.HasData() {
				flushSegment()
				continue
			}
			x, y := xFor(i), yFor(b.Winrate)
			segment = append(segment, fmt.Sprintf("%d,%d", x, y))
			fmt.Fprintf(&sb, `<circle cx="%d" cy="%d" r="4" fill="%s"><title>%s %s: %s</title></circle>`,
				x, y, color, side, b.PeriodStart.Format("2006-01-02"), percentLabel(b))
		}
		flushSegment()
	}

	for i, start := range periods {
		x := xFor(i)
		fmt.Fprintf(&sb, `<text x="%d" y="%d" fill="%s" font-family="Arial" font-size="11" text-anchor="end" transform="rotate(-45 %d %d)">%s</text>`,
			x, height-padding+16, foreground, x, height-padding+16, start)
	}

	// legend
	for i, side := range models.Sides {
		x := width - padding - 140 + i*70
		fmt.Fprintf(&sb, `<rect x="%d" y="42" width="12" height="12" fill="%s" />`, x, sideColors[side])
		fmt.Fprintf(&sb, `<text x="%d" y="53" fill="%s" font-family="Arial" font-size="12">%s</text>`, x+16, foreground, side)
	}

	drawXAxis(&sb)
	sb.WriteString(`</svg>`)
	return sb.String()
}

// barHeightFor maps a 0-1 win rate onto the plot height.
func barHeightFor(rate float64) int {
	return int(math.Round(rate * float64(height-2*padding)))
}

func percentLabel(b models.WinrateBucket) string {
	return fmt.Sprintf("%.1f%% (%d/%d)", b.Winrate*100, b.Wins, b.GamesPlayed)
}

func openSVG(sb *strings.Builder, title string) {
	fmt.Fprintf(sb, `<svg width="%d" height="%d" viewBox="0 0 %d %d" xmlns="http://www.w3.org/2000/svg">`, width, height, width, height)
	fmt.Fprintf(sb, `<rect width="100%%" height="100%%" fill="%s" />`, background)
	fmt.Fprintf(sb, `<text x="%d" y="30" fill="%s" font-family="Arial" font-size="20" text-anchor="middle">%s</text>`,
		width/2, foreground, html.EscapeString(title))
}

func drawPercentAxis(sb *strings.Builder) {
	plotHeight := height - 2*padding
	for pct := 0; pct <= 100; pct += 25 {
		y := height - padding - pct*plotHeight/100
		fmt.Fprintf(sb, `<line x1="%d" y1="%d" x2="%d" y2="%d" stroke="%s" stroke-width="1" />`,
			padding, y, width-padding, y, gridColor)
		fmt.Fprintf(sb, `<text x="%d" y="%d" fill="%s" font-family="Arial" font-size="11" text-anchor="end">%d%%</text>`,
			padding-6, y+4, foreground, pct)
	}
}

func drawXAxis(sb *strings.Builder) {
	fmt.Fprintf(sb, `<line x1="%d" y1="%d" x2="%d" y2="%d" stroke="%s" stroke-width="2" />`,
		padding, height-padding, width-padding, height-padding, foreground)
}

// periodStarts lists the distinct period labels in timeline order.
func periodStarts(tl models.Timeline) []string {
	var out []string
	seen := make(map[int64]bool)
	for _, b := range tl.Buckets {
		key := b.PeriodStart.Unix()
		if !seen[key] {
			seen[key] = true
			out = append(out, b.PeriodStart.Format("Jan 02 2006"))
		}
	}
	return out
}

func bucketsFor(tl models.Timeline, side models.Side) []models.WinrateBucket {
	var out []models.WinrateBucket
	for _, b := range tl.Buckets {
		if b.Side == side {
			out = append(out, b)
		}
	}
	return out
}
