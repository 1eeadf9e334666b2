package http

import (
	"bytes"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/mind-engage/mindengage-insights/internal/history"
	"github.com/mind-engage/mindengage-insights/internal/metrics"
	"github.com/mind-engage/mindengage-insights/internal/storage"
)

// ExportCSVHandler downloads the whole history as CSV. With an archive
// configured the same bytes also land there under a timestamped key; an
// archive failure is logged, not surfaced, the download still succeeds.
func ExportCSVHandler(store history.Store, archive storage.Archive, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		recs, err := store.List(r.Context(), history.ListOpts{})
		if err != nil {
			httpError(w, 500, "internal error")
			return
		}

		var buf bytes.Buffer
		if err := history.WriteCSV(&buf, recs); err != nil {
			httpError(w, 500, "internal error")
			return
		}

		now := time.Now().UTC()
		if archive != nil {
			key := "student-predictions-" + now.Format("20060102T150405Z") + ".csv"
			if _, err := archive.Put(key, bytes.NewReader(buf.Bytes())); err != nil {
				log.Warn("archive export failed", zap.String("key", key), zap.Error(err))
			}
		}
		metrics.HistoryExports.Inc()

		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition",
			`attachment; filename="student-predictions-`+now.Format("2006-01-02")+`.csv"`)
		_, _ = io.Copy(w, &buf)
	}
}

// MountExports serves archived CSV snapshots at GET /*.
func MountExports(r chi.Router, archive storage.Archive) {
	r.Get("/*", func(w http.ResponseWriter, r *http.Request) {
		key := strings.TrimPrefix(chi.URLParam(r, "*"), "/")
		rc, err := archive.Get(key)
		if err != nil {
			httpError(w, 404, "export not found")
			return
		}
		defer rc.Close()
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		_, _ = io.Copy(w, rc)
	})
}
