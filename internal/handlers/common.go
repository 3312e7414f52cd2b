package handlers

import (
	"crypto/sha256"
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	json "github.com/goccy/go-json"
)

// hashToken hashes a token so comparisons run on fixed-length values
func hashToken(token string) [sha256.Size]byte {
	return sha256.Sum256([]byte(token))
}

// Health check endpoint
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.jsonResponse(w, http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().UTC(),
	})
}

// Ready check endpoint
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	checks := map[string]bool{
		"store": h.store != nil && h.store.Ping(ctx) == nil,
	}
	if h.redis != nil {
		checks["redis"] = h.redis.Ping(ctx).Err() == nil
	}

	allHealthy := true
	for _, ok := range checks {
		if !ok {
			allHealthy = false
			break
		}
	}

	status := http.StatusOK
	if !allHealthy {
		status = http.StatusServiceUnavailable
	}
	queueDepth := 0
	if h.pool != nil {
		queueDepth = h.pool.QueueDepth()
	}
	h.jsonResponse(w, status, map[string]interface{}{
		"ready":      allHealthy,
		"checks":     checks,
		"queueDepth": queueDepth,
	})
}

// bearerToken extracts the credentials of a "Bearer" Authorization header.
// Any other scheme, or a bare token, yields "".
func bearerToken(header string) string {
	const scheme = "Bearer "
	if len(header) < len(scheme) || !strings.EqualFold(header[:len(scheme)], scheme) {
		return ""
	}
	return strings.TrimSpace(header[len(scheme):])
}

// TokenAuthMiddleware checks the bearer token when API tokens are configured
func (h *Handler) TokenAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if len(h.tokenHashes) == 0 {
			next.ServeHTTP(w, r)
			return
		}

		token := bearerToken(r.Header.Get("Authorization"))
		if token == "" {
			h.errorResponse(w, http.StatusUnauthorized, "Missing API token")
			return
		}

		sum := hashToken(token)
		valid := 0
		for _, known := range h.tokenHashes {
			valid |= subtle.ConstantTimeCompare(sum[:], known[:])
		}
		if valid != 1 {
			h.logger.Warnw("Rejected API token", "remote", r.RemoteAddr, "path", r.URL.Path)
			h.errorResponse(w, http.StatusUnauthorized, "Invalid API token")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (h *Handler) jsonResponse(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Errorw("Failed to encode response", "error", err)
	}
}

func (h *Handler) errorResponse(w http.ResponseWriter, status int, message string) {
	h.jsonResponse(w, status, map[string]string{"error": message})
}
