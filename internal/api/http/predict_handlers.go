package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mind-engage/mindengage-insights/internal/insight"
	"github.com/mind-engage/mindengage-insights/pkg/predict"
)

// httpError writes a JSON error body. The shape matches what remote
// predictor failures carry in their message field, so callers read one
// format everywhere.
func httpError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"message": msg})
}

// SubmitPredictionHandler runs one submission. The response body is the
// stored history record: metrics, result, and record id together.
func SubmitPredictionHandler(svc *insight.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var m predict.StudentMetrics
		if err := json.NewDecoder(r.Body).Decode(&m); err != nil {
			httpError(w, 400, "bad json")
			return
		}
		rec, err := svc.Submit(r.Context(), m)
		if err != nil {
			status := statusFor(err)
			if status == 500 {
				httpError(w, status, "internal error")
				return
			}
			httpError(w, status, err.Error())
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(rec)
	}
}

// statusFor maps submission failures onto statuses: busy 409, validation
// 400, timeout 504, other remote failures 502.
func statusFor(err error) int {
	switch {
	case errors.Is(err, insight.ErrInFlight):
		return 409
	case insight.IsValidation(err):
		return 400
	case insight.IsTimeout(err):
		return 504
	case insight.IsNetwork(err):
		return 502
	default:
		return 500
	}
}
