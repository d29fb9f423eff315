package handlers

import (
	"net/http"
	"strconv"
)

const (
	defaultCacheLogLimit = 20
	maxCacheLogLimit     = 200
)

// CacheLog serves the most recent listing-cache purges for the dashboard.
type CacheLog struct {
	log CacheLogger
}

// NewCacheLog creates a new CacheLog handler.
func NewCacheLog(log CacheLogger) *CacheLog {
	return &CacheLog{log: log}
}

// Recent handles GET /api/dashboard/cache-log?limit=N.
func (h *CacheLog) Recent(w http.ResponseWriter, r *http.Request) {
	limit := defaultCacheLogLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxCacheLogLimit {
			writeValidation(w, map[string]string{"limit": "must be an integer between 1 and 200"})
			return
		}
		limit = n
	}

	entries, err := h.log.RecentEntries(r.Context(), limit)
	if err != nil {
		writeStoreError(w, r, err, "cache log")
		return
	}
	writeJSON(w, http.StatusOK, entries)
}
