// Package history holds the session's prediction records. The sequence is
// append-only: records are never mutated or removed once written, only
// filtered for display and export.
package history

import (
	"context"

	"github.com/mind-engage/mindengage-insights/pkg/predict"
)

// Record joins one submission with the prediction it produced.
type Record struct {
	ID      string                   `json:"id"`
	Metrics predict.StudentMetrics   `json:"metrics"`
	Result  predict.PredictionResult `json:"result"`
}

// ListOpts narrows a listing. Q matches case-insensitively against student
// name, id, and subject. Limit <= 0 means no limit.
type ListOpts struct {
	Q      string
	Limit  int
	Offset int
}

// Store is the session history, ordered by insertion.
type Store interface {
	Append(ctx context.Context, rec Record) error
	List(ctx context.Context, opts ListOpts) ([]Record, error)
	Count(ctx context.Context) (int, error)
}
