package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/scrimlab/scrim-stats/internal/charts"
)

func chartTitle(base, team string) string {
	if team == "" {
		return base
	}
	return fmt.Sprintf("%s: %s", base, team)
}

func writeSVG(w http.ResponseWriter, svg string) {
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(svg))
}

// GetSideChart handles GET /api/v1/charts/side.svg
// @Summary Side Win Rate Chart
// @Tags Charts
// @Produce image/svg+xml
// @Security BearerToken
// @Param team query string false "Tracked team name"
// @Router /charts/side.svg [get]
func (h *Handler) GetSideChart(w http.ResponseWriter, r *http.Request) {
	q, err := h.parseWinrateQuery(r, false)
	if err != nil {
		h.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	report, err := h.winrate.GetSideSummary(r.Context(), q.Team)
	if err != nil {
		h.serviceError(w, err, q.Team)
		return
	}
	writeSVG(w, charts.SideWinrate(chartTitle("Win rate by side", q.Team), report.Summary))
}

// GetTimelineChart handles GET /api/v1/charts/timeline.svg
// @Summary Side Win Rate Over Time Chart
// @Tags Charts
// @Produce image/svg+xml
// @Security BearerToken
// @Param team query string false "Tracked team name"
// @Param bucketDays query int false "Period length in days (default 14)"
// @Router /charts/timeline.svg [get]
func (h *Handler) GetTimelineChart(w http.ResponseWriter, r *http.Request) {
	q, err := h.parseWinrateQuery(r, true)
	if err != nil {
		h.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	report, err := h.winrate.GetSideTimeline(r.Context(), q.Team, time.Duration(q.BucketDays)*24*time.Hour)
	if err != nil {
		h.serviceError(w, err, q.Team)
		return
	}
	writeSVG(w, charts.Timeline(chartTitle("Win rate by side through time", q.Team), report.Timeline))
}
