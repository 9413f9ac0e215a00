package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/argus-grade/argus/internal/config"
	"github.com/argus-grade/argus/internal/index"
	"github.com/argus-grade/argus/internal/ingest"
	"github.com/argus-grade/argus/internal/models"
	"github.com/argus-grade/argus/internal/plagiarism"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	router *gin.Engine
	store  *index.MemoryStore
	ingest *ingest.Service
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		KGramSize:          5,
		WinnowWindow:       4,
		JaccardWeight:      0.6,
		LCSWeight:          0.4,
		PartialThreshold:   0.3,
		FlagThreshold:      0.7,
		MaxConcurrentBatch: 1,
		BatchTimeout:       time.Minute,
	}

	store := index.NewMemoryStore()
	ingestSvc := ingest.NewService(store, cfg.KGramSize, cfg.WinnowWindow)

	ctx, cancel := context.WithCancel(context.Background())
	pool := plagiarism.NewWorkerPool(ctx)
	t.Cleanup(func() {
		pool.Close()
		cancel()
	})
	engine := plagiarism.NewEngine(plagiarism.NewComparator(), pool)

	// Auth and rate limiting are covered by middleware tests; handlers are
	// exercised directly here.
	handler := NewHandler(cfg, store, store, ingestSvc, engine, nil)
	router := gin.New()
	router.GET("/health", handler.Health)
	router.POST("/api/v1/check", handler.Check)
	router.GET("/api/v1/reports/:assignmentID", handler.GetReport)

	return &testEnv{router: router, store: store, ingest: ingestSvc}
}

func (e *testEnv) do(method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)
	w := env.do(http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCheckRejectsUnsupportedLanguage(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodPost, "/api/v1/check", models.CheckRequest{
		StudentID:    "stu-1",
		AssignmentID: "hw-1",
		Language:     "ruby",
		Code:         "puts 'hi'",
	})

	require.Equal(t, http.StatusBadRequest, w.Code)
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "UNSUPPORTED_LANGUAGE", resp.Code)
}

func TestCheckRejectsMissingFields(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodPost, "/api/v1/check", map[string]string{"language": "python"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCheckFirstSubmissionNotFlagged(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodPost, "/api/v1/check", models.CheckRequest{
		SubmissionID: "s1",
		StudentID:    "stu-1",
		AssignmentID: "hw-1",
		Language:     "python",
		Code:         "def f(a):\n    return a\n",
	})

	require.Equal(t, http.StatusOK, w.Code)
	var report models.PlagiarismReport
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))

	assert.Equal(t, "s1", report.SubmissionID)
	assert.False(t, report.IsFlagged)
	assert.Empty(t, report.Comparisons)
	assert.NotNil(t, report.Complexity)
}

func TestCheckFlagsCopiedSubmission(t *testing.T) {
	env := newTestEnv(t)
	src := "def total(values):\n    acc = 0\n    for v in values:\n        acc = acc + v\n    return acc\n"

	// Seed the index synchronously with a prior submission.
	_, err := env.ingest.ProcessSubmission(context.Background(), &models.Submission{
		SubmissionID: "prior",
		StudentID:    "stu-1",
		AssignmentID: "hw-1",
		Language:     "python",
		SourceCode:   src,
	})
	require.NoError(t, err)

	w := env.do(http.MethodPost, "/api/v1/check", models.CheckRequest{
		SubmissionID: "candidate",
		StudentID:    "stu-2",
		AssignmentID: "hw-1",
		Language:     "python",
		Code:         src,
	})

	require.Equal(t, http.StatusOK, w.Code)
	var report models.PlagiarismReport
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))

	assert.True(t, report.IsFlagged)
	assert.Equal(t, "prior", report.TopMatchID)
	assert.Equal(t, 100.0, report.SimilarityPercentage)
	assert.Equal(t, models.LevelVeryHigh, report.Level)
}

func TestCheckHonorsRequestThreshold(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.ingest.ProcessSubmission(context.Background(), &models.Submission{
		SubmissionID: "prior",
		StudentID:    "stu-1",
		AssignmentID: "hw-1",
		Language:     "python",
		SourceCode:   "def f(a):\n    b = a * 2\n    return b\n",
	})
	require.NoError(t, err)

	lenient := 0.01
	w := env.do(http.MethodPost, "/api/v1/check", models.CheckRequest{
		SubmissionID: "candidate",
		StudentID:    "stu-2",
		AssignmentID: "hw-1",
		Language:     "python",
		Code:         "def g(x):\n    return x * 2\n",
		Threshold:    &lenient,
	})

	require.Equal(t, http.StatusOK, w.Code)
	var report models.PlagiarismReport
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
	assert.Equal(t, lenient, report.Threshold)
	assert.True(t, report.IsFlagged, "any overlap clears a near-zero threshold")
}

func TestGetReportNotFound(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodGet, "/api/v1/reports/hw-404", nil)

	require.Equal(t, http.StatusNotFound, w.Code)
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "REPORT_NOT_FOUND", resp.Code)
}

func TestGetReportReturnsLatest(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, env.store.InsertBatchReport(context.Background(), &models.BatchPlagiarismReport{
		AssignmentID: "hw-1",
		FlaggedPairs: 3,
		GeneratedAt:  time.Now().UTC(),
	}))

	w := env.do(http.MethodGet, "/api/v1/reports/hw-1", nil)

	require.Equal(t, http.StatusOK, w.Code)
	var report models.BatchPlagiarismReport
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
	assert.Equal(t, 3, report.FlaggedPairs)
}
