package insight

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mind-engage/mindengage-insights/internal/history"
	"github.com/mind-engage/mindengage-insights/internal/metrics"
	"github.com/mind-engage/mindengage-insights/pkg/predict"
)

// Scoring modes, also used as metric label values.
const (
	ModeLocal  = "local"
	ModeRemote = "remote"
)

// Predictor is the scoring seam. The local engine and the remote client both
// satisfy it, so the pipeline does not care which one is configured.
type Predictor interface {
	Predict(ctx context.Context, m predict.StudentMetrics) (*predict.PredictionResult, error)
}

// Service runs the submission pipeline: claim the gate, validate, predict,
// map failures into the user-facing taxonomy, append to history.
type Service struct {
	mode      string
	predictor Predictor
	store     history.Store
	gate      *Gate
	log       *zap.Logger
}

func NewService(mode string, p Predictor, store history.Store, log *zap.Logger) *Service {
	return &Service{
		mode:      mode,
		predictor: p,
		store:     store,
		gate:      NewGate(),
		log:       log,
	}
}

// Gate exposes submission state for surfaces that report it.
func (s *Service) Gate() *Gate { return s.gate }

func (s *Service) Mode() string { return s.mode }

// Submit runs one submission end to end. A second call while one is pending
// fails with ErrInFlight; any outcome re-arms the gate for the next attempt.
func (s *Service) Submit(ctx context.Context, m predict.StudentMetrics) (*history.Record, error) {
	if err := s.gate.Begin(); err != nil {
		metrics.PredictionsTotal.WithLabelValues(s.mode, "busy").Inc()
		return nil, err
	}

	rec, err := s.run(ctx, m)
	s.gate.Finish(err)
	metrics.PredictionsTotal.WithLabelValues(s.mode, outcomeLabel(err)).Inc()
	if err != nil {
		s.log.Warn("prediction failed",
			zap.String("mode", s.mode),
			zap.String("student_id", m.StudentID),
			zap.Error(err))
		return nil, err
	}

	s.log.Info("prediction recorded",
		zap.String("mode", s.mode),
		zap.String("record_id", rec.ID),
		zap.String("student_id", m.StudentID),
		zap.String("grade", rec.Result.Grade),
		zap.Int("overall_score", rec.Result.OverallScore))
	return rec, nil
}

func (s *Service) run(ctx context.Context, m predict.StudentMetrics) (*history.Record, error) {
	if err := ValidateSubmission(m); err != nil {
		return nil, err
	}

	start := time.Now()
	res, err := s.predictor.Predict(ctx, m)
	metrics.PredictionDuration.WithLabelValues(s.mode).Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, mapPredictError(err)
	}

	rec := history.Record{ID: uuid.NewString(), Metrics: m, Result: *res}
	if err := s.store.Append(ctx, rec); err != nil {
		return nil, fmt.Errorf("append history: %w", err)
	}
	metrics.HistoryRecords.Inc()
	return &rec, nil
}

// mapPredictError folds transport failures into the error taxonomy. A timeout
// is reported distinctly; a status response with a message surfaces that
// message verbatim; anything else is a generic network failure.
func mapPredictError(err error) error {
	var stErr *predict.StatusError
	if errors.As(err, &stErr) {
		if stErr.Message != "" {
			return NewNetworkError(stErr.Message)
		}
		return NewNetworkError(stErr.Error())
	}
	if errors.Is(err, predict.ErrTimeout) {
		return NewTimeoutError("the prediction service did not respond in time")
	}
	return NewNetworkError(err.Error())
}

func outcomeLabel(err error) string {
	if err == nil {
		return "ok"
	}
	if ie, ok := AsError(err); ok {
		return strings.ToLower(string(ie.Code))
	}
	return "internal"
}
