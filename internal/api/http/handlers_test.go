package http

import (
	"bytes"
	"context"
	"encoding/json"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mind-engage/mindengage-insights/internal/history"
	"github.com/mind-engage/mindengage-insights/internal/insight"
	"github.com/mind-engage/mindengage-insights/internal/storage"
	"github.com/mind-engage/mindengage-insights/pkg/predict"
)

type stubPredictor struct {
	res     *predict.PredictionResult
	err     error
	release chan struct{}
}

func (p *stubPredictor) Predict(ctx context.Context, _ predict.StudentMetrics) (*predict.PredictionResult, error) {
	if p.release != nil {
		select {
		case <-p.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if p.err != nil {
		return nil, p.err
	}
	res := *p.res
	return &res, nil
}

func newLocalService() (*insight.Service, *history.MemStore) {
	engine := insight.NewEngine(
		insight.WithRandom(rand.New(rand.NewSource(1))),
		insight.WithClock(func() time.Time { return time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC) }),
	)
	store := history.NewMemStore()
	return insight.NewService(insight.ModeLocal, engine, store, zap.NewNop()), store
}

func metricsBody(t *testing.T, mutate func(*predict.StudentMetrics)) *bytes.Reader {
	t.Helper()
	m := predict.StudentMetrics{
		StudentName:     "Priya Nair",
		StudentID:       "S-1042",
		GradeLevel:      "10",
		Subject:         "Mathematics",
		Attendance:      90,
		TestScore:       92,
		AssignmentScore: 88,
		Engagement:      4,
		MissedDeadlines: 0,
		StudyHours:      10,
	}
	if mutate != nil {
		mutate(&m)
	}
	body, err := json.Marshal(m)
	require.NoError(t, err)
	return bytes.NewReader(body)
}

func decodeMessage(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	return body.Message
}

func TestSubmitPredictionOK(t *testing.T) {
	svc, store := newLocalService()
	handler := SubmitPredictionHandler(svc)

	rr := httptest.NewRecorder()
	handler(rr, httptest.NewRequest(http.MethodPost, "/api/predictions", metricsBody(t, nil)))

	require.Equal(t, 200, rr.Code, rr.Body.String())
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var rec history.Record
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &rec))
	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, "Priya Nair", rec.Metrics.StudentName)
	assert.Equal(t, "A", rec.Result.Grade)
	assert.Equal(t, 100, rec.Result.OverallScore)

	n, err := store.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestSubmitPredictionValidation(t *testing.T) {
	svc, _ := newLocalService()
	handler := SubmitPredictionHandler(svc)

	rr := httptest.NewRecorder()
	handler(rr, httptest.NewRequest(http.MethodPost, "/api/predictions",
		metricsBody(t, func(m *predict.StudentMetrics) { m.StudentID = "" })))

	require.Equal(t, 400, rr.Code)
	assert.Equal(t, "student id is required", decodeMessage(t, rr))
}

func TestSubmitPredictionRangeCheck(t *testing.T) {
	svc, _ := newLocalService()
	handler := SubmitPredictionHandler(svc)

	rr := httptest.NewRecorder()
	handler(rr, httptest.NewRequest(http.MethodPost, "/api/predictions",
		metricsBody(t, func(m *predict.StudentMetrics) { m.Attendance = 120 })))

	require.Equal(t, 400, rr.Code)
	assert.Equal(t, "attendance must be between 0 and 100", decodeMessage(t, rr))
}

func TestSubmitPredictionBadJSON(t *testing.T) {
	svc, _ := newLocalService()
	handler := SubmitPredictionHandler(svc)

	rr := httptest.NewRecorder()
	handler(rr, httptest.NewRequest(http.MethodPost, "/api/predictions", strings.NewReader("{")))

	require.Equal(t, 400, rr.Code)
	assert.Equal(t, "bad json", decodeMessage(t, rr))
}

func TestSubmitPredictionBusy(t *testing.T) {
	release := make(chan struct{})
	stub := &stubPredictor{
		res: &predict.PredictionResult{
			Prediction: predict.PredictionPass, Grade: "B", RiskLevel: predict.RiskLow,
			Confidence: 80, OverallScore: 75,
			Recommendations: []string{"keep going"},
			ModelVersion:    "remote-1", Timestamp: "2026-03-14T09:30:00Z",
		},
		release: release,
	}
	svc := insight.NewService(insight.ModeRemote, stub, history.NewMemStore(), zap.NewNop())
	handler := SubmitPredictionHandler(svc)

	firstDone := make(chan int, 1)
	go func() {
		rr := httptest.NewRecorder()
		handler(rr, httptest.NewRequest(http.MethodPost, "/api/predictions", metricsBody(t, nil)))
		firstDone <- rr.Code
	}()

	require.Eventually(t, func() bool {
		return svc.Gate().State() == insight.StatePending
	}, time.Second, time.Millisecond)

	rr := httptest.NewRecorder()
	handler(rr, httptest.NewRequest(http.MethodPost, "/api/predictions", metricsBody(t, nil)))
	require.Equal(t, 409, rr.Code)
	assert.Equal(t, "a prediction is already in progress", decodeMessage(t, rr))

	close(release)
	assert.Equal(t, 200, <-firstDone)
}

func TestSubmitPredictionRemoteFailures(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{
			name:       "status error surfaces message verbatim",
			err:        &predict.StatusError{StatusCode: 503, Message: "model down"},
			wantStatus: 502,
			wantMsg:    "model down",
		},
		{
			name:       "timeout gets its own status",
			err:        predict.ErrTimeout,
			wantStatus: 504,
			wantMsg:    "the prediction service did not respond in time",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := insight.NewService(insight.ModeRemote,
				&stubPredictor{err: tc.err}, history.NewMemStore(), zap.NewNop())
			rr := httptest.NewRecorder()
			SubmitPredictionHandler(svc)(rr, httptest.NewRequest(http.MethodPost, "/api/predictions", metricsBody(t, nil)))

			require.Equal(t, tc.wantStatus, rr.Code)
			assert.Equal(t, tc.wantMsg, decodeMessage(t, rr))
		})
	}
}

func TestListHistory(t *testing.T) {
	svc, store := newLocalService()
	submit := SubmitPredictionHandler(svc)

	for _, mutate := range []func(*predict.StudentMetrics){
		nil,
		func(m *predict.StudentMetrics) { m.StudentName = "Ben Ortiz"; m.StudentID = "S-2201"; m.Subject = "History" },
	} {
		rr := httptest.NewRecorder()
		submit(rr, httptest.NewRequest(http.MethodPost, "/api/predictions", metricsBody(t, mutate)))
		require.Equal(t, 200, rr.Code, rr.Body.String())
	}

	rr := httptest.NewRecorder()
	ListHistoryHandler(store)(rr, httptest.NewRequest(http.MethodGet, "/api/history?q=ortiz", nil))
	require.Equal(t, 200, rr.Code)

	var recs []history.Record
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &recs))
	require.Len(t, recs, 1)
	assert.Equal(t, "Ben Ortiz", recs[0].Metrics.StudentName)
}

func TestListHistoryEmptyIsArray(t *testing.T) {
	rr := httptest.NewRecorder()
	ListHistoryHandler(history.NewMemStore())(rr, httptest.NewRequest(http.MethodGet, "/api/history", nil))

	require.Equal(t, 200, rr.Code)
	assert.Equal(t, "[]", strings.TrimSpace(rr.Body.String()))
}

func TestExportCSV(t *testing.T) {
	svc, store := newLocalService()
	rr := httptest.NewRecorder()
	SubmitPredictionHandler(svc)(rr, httptest.NewRequest(http.MethodPost, "/api/predictions", metricsBody(t, nil)))
	require.Equal(t, 200, rr.Code)

	rr = httptest.NewRecorder()
	ExportCSVHandler(store, nil, zap.NewNop())(rr, httptest.NewRequest(http.MethodGet, "/api/history/export.csv", nil))

	require.Equal(t, 200, rr.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rr.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(rr.Header().Get("Content-Disposition"),
		`attachment; filename="student-predictions-`), rr.Header().Get("Content-Disposition"))

	lines := strings.Split(strings.TrimRight(rr.Body.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], `"Name","ID","Subject","Year"`), lines[0])
	assert.Contains(t, lines[1], `"Priya Nair"`)
}

func TestExportCSVArchives(t *testing.T) {
	dir := t.TempDir()
	archive, err := storage.NewFSArchive(dir)
	require.NoError(t, err)

	svc, store := newLocalService()
	rr := httptest.NewRecorder()
	SubmitPredictionHandler(svc)(rr, httptest.NewRequest(http.MethodPost, "/api/predictions", metricsBody(t, nil)))
	require.Equal(t, 200, rr.Code)

	rr = httptest.NewRecorder()
	ExportCSVHandler(store, archive, zap.NewNop())(rr, httptest.NewRequest(http.MethodGet, "/api/history/export.csv", nil))
	require.Equal(t, 200, rr.Code)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	archived, err := os.ReadFile(filepath.Join(dir, entries[0].Name()))
	require.NoError(t, err)
	assert.Equal(t, rr.Body.String(), string(archived))
}

func TestMountExports(t *testing.T) {
	dir := t.TempDir()
	archive, err := storage.NewFSArchive(dir)
	require.NoError(t, err)
	_, err = archive.Put("student-predictions-20260314T093000Z.csv",
		strings.NewReader("\"Name\"\n"))
	require.NoError(t, err)

	r := chi.NewRouter()
	r.Route("/api/exports", func(r chi.Router) { MountExports(r, archive) })

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/exports/student-predictions-20260314T093000Z.csv", nil))
	require.Equal(t, 200, rr.Code)
	assert.Equal(t, "\"Name\"\n", rr.Body.String())

	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/exports/missing.csv", nil))
	assert.Equal(t, 404, rr.Code)
}
