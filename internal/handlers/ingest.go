package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/google/uuid"

	"github.com/scrimlab/scrim-stats/internal/models"
)

// IngestResponse reports what happened to an ingest batch
type IngestResponse struct {
	Status    string    `json:"status"`
	Accepted  int       `json:"accepted"`
	Dropped   int       `json:"dropped"`
	Malformed int       `json:"malformed"`
	BatchID   uuid.UUID `json:"batchId"`
}

// IngestMatches handles POST /api/v1/ingest/matches
// @Summary Ingest Match Documents
// @Description Accepts a JSON array, a single object or newline-delimited match documents. Documents are stored as-is; malformed ones are counted but kept.
// @Tags Ingestion
// @Accept json
// @Produce json
// @Security BearerToken
// @Param body body []object true "Match documents"
// @Success 202 {object} IngestResponse
// @Failure 400 {object} map[string]interface{} "Bad Request"
// @Failure 413 {object} map[string]string "Payload Too Large"
// @Router /ingest/matches [post]
func (h *Handler) IngestMatches(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodySize)
	defer r.Body.Close()
	body, err := io.ReadAll(r.Body)
	if err != nil {
		h.errorResponse(w, http.StatusRequestEntityTooLarge, "Request body too large")
		return
	}

	docs, err := models.DecodeMatches(body)
	if err != nil {
		var shapeErr *models.DataShapeError
		if errors.As(err, &shapeErr) {
			h.logger.Warnw("Rejected ingest payload", "index", shapeErr.Index, "reason", shapeErr.Reason)
			h.jsonResponse(w, http.StatusBadRequest, map[string]interface{}{
				"error": shapeErr.Error(),
				"index": shapeErr.Index,
			})
			return
		}
		h.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(docs) == 0 {
		h.errorResponse(w, http.StatusBadRequest, "No match documents in request body")
		return
	}

	resp := IngestResponse{Status: "accepted", BatchID: uuid.New()}
	for i, doc := range docs {
		if !h.pool.Enqueue(doc, resp.BatchID) {
			resp.Dropped = len(docs) - i
			h.logger.Warnw("Worker pool queue full, dropping remaining matches in batch",
				"batchId", resp.BatchID, "dropped", resp.Dropped)
			break
		}
		resp.Accepted++
		if _, err := models.ParseMatchDocument(doc); err != nil {
			resp.Malformed++
			h.logger.Debugw("Ingested malformed match", "batchId", resp.BatchID, "index", i, "matchId", doc.MatchID(), "reason", err)
		}
	}
	if resp.Dropped > 0 {
		resp.Status = "partial"
	}

	h.logger.Infow("Ingest batch queued",
		"batchId", resp.BatchID,
		"accepted", resp.Accepted,
		"dropped", resp.Dropped,
		"malformed", resp.Malformed,
	)
	h.jsonResponse(w, http.StatusAccepted, resp)
}
