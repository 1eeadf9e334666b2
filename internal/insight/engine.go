package insight

import (
	"context"
	"math/rand"
	"time"

	"github.com/mind-engage/mindengage-insights/pkg/predict"
)

// Composite weights and adjustment caps. Fixed contract values; the weights
// sum to 1.0 before the penalty/bonus adjustment.
const (
	weightAttendance = 0.25
	weightTest       = 0.35
	weightAssignment = 0.25
	weightEngagement = 0.15

	deadlinePenaltyStep = 4.0
	deadlinePenaltyCap  = 25.0
	studyBonusRate      = 0.8
	studyBonusCap       = 10.0

	confidenceMin = 72
	confidenceMax = 93
)

// DefaultModelVersion identifies the local heuristic path in results.
const DefaultModelVersion = "heuristic-2.1"

// Advice messages, appended in rule order. Each rule fires at most once per
// submission; the strong-performance message appears only when none fire.
const (
	adviceAttendance = "Attendance is below 70%. Schedule a counselling session to address barriers to regular attendance."
	adviceTutoring   = "Test scores are below 50%. Arrange targeted tutoring sessions to close knowledge gaps."
	adviceHomework   = "Assignment scores are below 60%. Set up a homework accountability plan with regular check-ins."
	adviceEngagement = "Classroom engagement is low. Try interactive activities and one-on-one check-ins to re-engage the student."
	adviceDeadlines  = "Four or more deadlines have been missed. Book a meeting with the school counsellor to review workload and planning."
	adviceStudyTime  = "Weekly study time is under 5 hours. Help the student build a structured study timetable with short daily blocks."
	adviceStrong     = "Overall performance is strong. Maintain current study habits and keep up the regular progress checks."
)

type Option func(*engineConfig)

type engineConfig struct {
	rand         *rand.Rand
	now          func() time.Time
	modelVersion string
}

// WithRandom pins the confidence draw, keeping scoring deterministic in tests.
func WithRandom(r *rand.Rand) Option { return func(c *engineConfig) { c.rand = r } }

// WithClock pins the result timestamp.
func WithClock(now func() time.Time) Option { return func(c *engineConfig) { c.now = now } }

func WithModelVersion(v string) Option {
	return func(c *engineConfig) {
		if v != "" {
			c.modelVersion = v
		}
	}
}

// Engine is the local heuristic scoring path, used when no remote predictor
// is configured. Not safe for concurrent use; the submit gate serializes
// calls in the service, and scorectl scores sequentially.
type Engine struct {
	rand         *rand.Rand
	now          func() time.Time
	modelVersion string
}

func NewEngine(opts ...Option) *Engine {
	cfg := &engineConfig{
		rand:         rand.New(rand.NewSource(time.Now().UnixNano())),
		now:          time.Now,
		modelVersion: DefaultModelVersion,
	}
	for _, o := range opts {
		o(cfg)
	}
	return &Engine{rand: cfg.rand, now: cfg.now, modelVersion: cfg.modelVersion}
}

// Score maps one metrics record to a prediction. Total over the declared
// input domain and deterministic except for the confidence draw. Inputs are
// not validated here; out-of-range values are the collector's problem.
func (e *Engine) Score(m predict.StudentMetrics) predict.PredictionResult {
	engagementNorm := float64(m.Engagement) / 4.0 * 100.0
	penalty := deadlinePenalty(m.MissedDeadlines)
	bonus := studyBonus(m.StudyHours)

	composite := m.Attendance*weightAttendance +
		m.TestScore*weightTest +
		m.AssignmentScore*weightAssignment +
		engagementNorm*weightEngagement -
		penalty + bonus
	composite = clamp(composite, 0, 100)

	grade, prediction, risk := classify(composite)

	return predict.PredictionResult{
		Prediction:   prediction,
		Grade:        grade,
		RiskLevel:    risk,
		Confidence:   confidenceMin + e.rand.Intn(confidenceMax-confidenceMin+1),
		OverallScore: round(composite),
		Scores: predict.Scores{
			Attendance:      round(m.Attendance),
			TestScore:       round(m.TestScore),
			AssignmentScore: round(m.AssignmentScore),
			Engagement:      round(engagementNorm),
		},
		Recommendations: recommendations(m),
		ModelVersion:    e.modelVersion,
		Timestamp:       e.now().UTC().Format(time.RFC3339),
	}
}

// Predict adapts the engine to the predictor seam so the local path and a
// remote client interchange behind one interface.
func (e *Engine) Predict(_ context.Context, m predict.StudentMetrics) (*predict.PredictionResult, error) {
	res := e.Score(m)
	return &res, nil
}

func deadlinePenalty(missed int) float64 {
	p := float64(missed) * deadlinePenaltyStep
	if p > deadlinePenaltyCap {
		return deadlinePenaltyCap
	}
	return p
}

func studyBonus(hours float64) float64 {
	b := hours * studyBonusRate
	if b > studyBonusCap {
		return studyBonusCap
	}
	return b
}

// classify maps a clamped composite to its band. Highest threshold wins; the
// bands partition [0,100] exactly.
func classify(score float64) (grade, prediction, risk string) {
	switch {
	case score >= 85:
		return "A", predict.PredictionPass, predict.RiskLow
	case score >= 70:
		return "B", predict.PredictionPass, predict.RiskLow
	case score >= 58:
		return "C", predict.PredictionPass, predict.RiskMedium
	case score >= 45:
		return "D", predict.PredictionAtRisk, predict.RiskHigh
	default:
		return "F", predict.PredictionFail, predict.RiskHigh
	}
}

// recommendations evaluates the advice rules against the raw inputs, in
// fixed order.
func recommendations(m predict.StudentMetrics) []string {
	var out []string
	if m.Attendance < 70 {
		out = append(out, adviceAttendance)
	}
	if m.TestScore < 50 {
		out = append(out, adviceTutoring)
	}
	if m.AssignmentScore < 60 {
		out = append(out, adviceHomework)
	}
	if m.Engagement <= 2 {
		out = append(out, adviceEngagement)
	}
	if m.MissedDeadlines >= 4 {
		out = append(out, adviceDeadlines)
	}
	if m.StudyHours < 5 {
		out = append(out, adviceStudyTime)
	}
	if len(out) == 0 {
		out = append(out, adviceStrong)
	}
	return out
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// round to nearest integer; fine for the non-negative values scoring emits.
func round(v float64) int { return int(v + 0.5) }
