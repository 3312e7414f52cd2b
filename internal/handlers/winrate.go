package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/scrimlab/scrim-stats/internal/models"
)

type winrateQuery struct {
	Team       string `validate:"max=128"`
	BucketDays int    `validate:"gte=1,lte=3650"`
}

// parseWinrateQuery reads ?team= and, for timeline routes, ?bucketDays=.
// A missing bucketDays falls back to the configured period.
func (h *Handler) parseWinrateQuery(r *http.Request, timeline bool) (winrateQuery, error) {
	q := winrateQuery{
		Team:       r.URL.Query().Get("team"),
		BucketDays: int(h.bucketWidth / (24 * time.Hour)),
	}
	if q.BucketDays < 1 {
		q.BucketDays = 1
	}
	if raw := r.URL.Query().Get("bucketDays"); timeline && raw != "" {
		days, err := strconv.Atoi(raw)
		if err != nil {
			return q, errors.New("bucketDays must be a positive integer")
		}
		q.BucketDays = days
	}
	if err := h.validator.Struct(q); err != nil {
		return q, errors.New("bucketDays must be a positive integer of at most 3650")
	}
	return q, nil
}

func (h *Handler) serviceError(w http.ResponseWriter, err error, team string) {
	switch {
	case errors.Is(err, models.ErrUnknownTeam):
		h.errorResponse(w, http.StatusNotFound, "Unknown team: "+team)
	case errors.Is(err, context.DeadlineExceeded):
		h.logger.Errorw("Win rate query timed out", "team", team, "error", err)
		h.errorResponse(w, http.StatusServiceUnavailable, "Match store timed out")
	default:
		h.logger.Errorw("Win rate query failed", "team", team, "error", err)
		h.errorResponse(w, http.StatusInternalServerError, "Failed to compute win rate")
	}
}

// ListTeams handles GET /api/v1/teams
// @Summary List Tracked Teams
// @Description Tracked team names with their roster ids
// @Tags Winrate
// @Produce json
// @Security BearerToken
// @Success 200 {object} map[string]interface{}
// @Router /teams [get]
func (h *Handler) ListTeams(w http.ResponseWriter, r *http.Request) {
	teams := h.winrate.TrackedTeams()
	out := make([]map[string]interface{}, 0, teams.Len())
	for _, name := range teams.Names() {
		out = append(out, map[string]interface{}{
			"name":    name,
			"rosters": teams.Rosters(name),
		})
	}
	h.jsonResponse(w, http.StatusOK, map[string]interface{}{"teams": out})
}

// GetSideWinrate handles GET /api/v1/winrate/side
// @Summary Win Rate by Side
// @Description Games, wins and win rate on BLUE and RED for one tracked team, or all of them
// @Tags Winrate
// @Produce json
// @Security BearerToken
// @Param team query string false "Tracked team name"
// @Success 200 {object} models.SideReport
// @Failure 404 {object} map[string]string "Unknown team"
// @Router /winrate/side [get]
func (h *Handler) GetSideWinrate(w http.ResponseWriter, r *http.Request) {
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
	h.jsonResponse(w, http.StatusOK, report)
}

// GetSideTimeline handles GET /api/v1/winrate/side/timeline
// @Summary Win Rate by Side Over Time
// @Description Per-period BLUE and RED win rates. Periods start at the earliest game.
// @Tags Winrate
// @Produce json
// @Security BearerToken
// @Param team query string false "Tracked team name"
// @Param bucketDays query int false "Period length in days (default 14)"
// @Success 200 {object} models.TimelineReport
// @Failure 400 {object} map[string]string "Bad bucketDays"
// @Failure 404 {object} map[string]string "Unknown team"
// @Router /winrate/side/timeline [get]
func (h *Handler) GetSideTimeline(w http.ResponseWriter, r *http.Request) {
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
	h.jsonResponse(w, http.StatusOK, report)
}
