package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/mind-engage/mindengage-insights/internal/history"
)

func ListHistoryHandler(store history.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := strings.TrimSpace(r.URL.Query().Get("q"))
		limit := parseIntDefault(r.URL.Query().Get("limit"), 50)
		offset := parseIntDefault(r.URL.Query().Get("offset"), 0)

		recs, err := store.List(r.Context(), history.ListOpts{
			Q:      q,
			Limit:  limit,
			Offset: offset,
		})
		if err != nil {
			httpError(w, 500, "internal error")
			return
		}
		if recs == nil {
			recs = []history.Record{}
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(recs)
	}
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil && v >= 0 {
		return v
	}
	return def
}
