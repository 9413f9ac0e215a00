package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/argus-grade/argus/internal/config"
	"github.com/argus-grade/argus/internal/index"
	"github.com/argus-grade/argus/internal/infra/redis"
	"github.com/argus-grade/argus/internal/ingest"
	"github.com/argus-grade/argus/internal/metrics"
	"github.com/argus-grade/argus/internal/models"
	"github.com/argus-grade/argus/internal/plagiarism"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// Handler holds dependencies for handlers
type Handler struct {
	cfg          *config.Config
	store        index.SubmissionStore
	reports      index.ReportStore
	ingestSvc    *ingest.Service
	engine       *plagiarism.Engine
	redisClient  *redis.Client
	batchSem     chan struct{} // Semaphore for bounded concurrency
	batchTimeout time.Duration
}

// NewHandler creates a new handler
func NewHandler(
	cfg *config.Config,
	store index.SubmissionStore,
	reports index.ReportStore,
	ingestSvc *ingest.Service,
	engine *plagiarism.Engine,
	redisClient *redis.Client,
) *Handler {
	sem := make(chan struct{}, cfg.MaxConcurrentBatch)

	return &Handler{
		cfg:          cfg,
		store:        store,
		reports:      reports,
		ingestSvc:    ingestSvc,
		engine:       engine,
		redisClient:  redisClient,
		batchSem:     sem,
		batchTimeout: cfg.BatchTimeout,
	}
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
	})
}

// Check analyzes a single submission against the indexed history of its
// assignment and returns the report synchronously. The new submission joins
// the index afterwards.
func (h *Handler) Check(c *gin.Context) {
	var req models.CheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Invalid request body",
			Code:  "INVALID_REQUEST",
		})
		return
	}

	lang, err := models.ParseLanguage(req.Language)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: err.Error(),
			Code:  "UNSUPPORTED_LANGUAGE",
		})
		return
	}

	sub := &models.Submission{
		SubmissionID: req.SubmissionID,
		StudentID:    req.StudentID,
		AssignmentID: req.AssignmentID,
		Language:     req.Language,
		SourceCode:   req.Code,
	}

	rec, res, err := h.ingestSvc.Analyze(sub, lang)
	if err != nil {
		log.Error().Err(err).Str("submissionId", req.SubmissionID).Msg("Failed to analyze submission")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "Failed to analyze submission",
			Code:  "INTERNAL_ERROR",
		})
		return
	}

	ctx := c.Request.Context()
	history, err := h.store.ListByAssignment(ctx, req.AssignmentID)
	if err != nil {
		log.Error().Err(err).Str("assignmentId", req.AssignmentID).Msg("Failed to load submission history")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "Failed to load submission history",
			Code:  "INTERNAL_ERROR",
		})
		return
	}

	start := time.Now()
	comps := h.engine.CompareAgainstHistory(ctx, rec, history)
	metrics.ComparisonsTotal.Add(float64(len(comps)))
	metrics.ComparisonDuration.Observe(time.Since(start).Seconds())

	threshold := h.cfg.FlagThreshold
	if req.Threshold != nil {
		threshold = *req.Threshold
	}

	complexity := plagiarism.Complexity(res.AST, res.Stream)
	report := plagiarism.BuildReport(rec.SubmissionID, comps, threshold, complexity)
	if report.IsFlagged {
		metrics.FlaggedPairs.Inc()
	}

	// Index the new submission off the request path. A failed insert loses
	// one history entry, not the response.
	go func() {
		insertCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := h.store.Insert(insertCtx, rec); err != nil {
			log.Error().Err(err).Str("submissionId", rec.SubmissionID).Msg("Failed to index submission")
		}
	}()

	c.JSON(http.StatusOK, report)
}

// Batch kicks off a pool-wide cross comparison for an assignment and
// returns 202 immediately.
func (h *Handler) Batch(c *gin.Context) {
	var req models.BatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Invalid request body",
			Code:  "INVALID_REQUEST",
		})
		return
	}

	ctx := c.Request.Context()
	count, err := h.store.CountByAssignment(ctx, req.AssignmentID)
	if err != nil {
		log.Error().Err(err).Str("assignmentId", req.AssignmentID).Msg("Failed to count submissions")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "Failed to check submissions",
			Code:  "INTERNAL_ERROR",
		})
		return
	}

	if count == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "No submissions found for assignmentId",
			Code:  "ASSIGNMENT_NOT_FOUND",
		})
		return
	}

	// Acquire semaphore (bounded concurrency)
	select {
	case h.batchSem <- struct{}{}:
	case <-ctx.Done():
		c.JSON(http.StatusRequestTimeout, ErrorResponse{
			Error: "Request cancelled",
			Code:  "REQUEST_TIMEOUT",
		})
		return
	}

	if err := plagiarism.UpdateStatus(ctx, h.redisClient, req.AssignmentID, models.StepReceived); err != nil {
		log.Warn().Err(err).Str("assignmentId", req.AssignmentID).Msg("Failed to update received status")
	}

	threshold := h.cfg.FlagThreshold
	if req.Threshold != nil {
		threshold = *req.Threshold
	}
	crossCompare := true
	if req.CrossCompare != nil {
		crossCompare = *req.CrossCompare
	}

	// Return 202 Accepted immediately
	c.JSON(http.StatusAccepted, models.BatchAccepted{
		Step:         models.StepReceived,
		AssignmentID: req.AssignmentID,
	})

	// Process asynchronously
	go h.processBatch(req.AssignmentID, threshold, crossCompare)
}

// processBatch runs a batch comparison in the background.
func (h *Handler) processBatch(assignmentID string, threshold float64, crossCompare bool) {
	defer func() { <-h.batchSem }() // Release semaphore

	ctx, cancel := context.WithTimeout(context.Background(), h.batchTimeout)
	defer cancel()

	if err := plagiarism.UpdateStatus(ctx, h.redisClient, assignmentID, models.StepIndexing); err != nil {
		log.Warn().Err(err).Str("assignmentId", assignmentID).Msg("Failed to update indexing status")
	}

	subs, err := h.store.ListByAssignment(ctx, assignmentID)
	if err != nil {
		log.Error().Err(err).Str("assignmentId", assignmentID).Msg("Failed to load submissions for batch")
		h.failBatch(ctx, assignmentID)
		return
	}

	if err := plagiarism.UpdateStatus(ctx, h.redisClient, assignmentID, models.StepComparing); err != nil {
		log.Warn().Err(err).Str("assignmentId", assignmentID).Msg("Failed to update comparing status")
	}

	report, err := h.engine.BatchCompare(ctx, assignmentID, subs, threshold, crossCompare)
	if errors.Is(err, models.ErrBatchCancelled) {
		log.Warn().Err(err).Str("assignmentId", assignmentID).Msg("Batch comparison cancelled, persisting partial report")
	}

	if err := plagiarism.UpdateStatus(ctx, h.redisClient, assignmentID, models.StepAggregating); err != nil {
		log.Warn().Err(err).Str("assignmentId", assignmentID).Msg("Failed to update aggregating status")
	}

	// Timeout may fire after BatchCompare returns a partial report. Persist
	// what we have with a fresh context.
	persistCtx, persistCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer persistCancel()

	if err := h.reports.InsertBatchReport(persistCtx, report); err != nil {
		log.Error().Err(err).Str("assignmentId", assignmentID).Msg("Failed to persist batch report")
		h.failBatch(persistCtx, assignmentID)
		return
	}

	metrics.ComparisonsTotal.Add(float64(report.ComparedPairs))
	metrics.FlaggedPairs.Add(float64(report.FlaggedPairs))
	if report.Partial {
		metrics.BatchRuns.WithLabelValues("partial").Inc()
	} else {
		metrics.BatchRuns.WithLabelValues("completed").Inc()
	}

	if err := plagiarism.UpdateStatus(persistCtx, h.redisClient, assignmentID, models.StepCompleted); err != nil {
		log.Warn().Err(err).Str("assignmentId", assignmentID).Msg("Failed to update completed status")
	}

	log.Debug().
		Str("assignmentId", assignmentID).
		Int("comparedPairs", report.ComparedPairs).
		Int("flaggedPairs", report.FlaggedPairs).
		Bool("partial", report.Partial).
		Msg("Batch comparison completed")
}

func (h *Handler) failBatch(ctx context.Context, assignmentID string) {
	metrics.BatchRuns.WithLabelValues("failed").Inc()
	if err := plagiarism.UpdateStatus(ctx, h.redisClient, assignmentID, models.StepFailed); err != nil {
		log.Warn().Err(err).Str("assignmentId", assignmentID).Msg("Failed to update failed status")
	}
}

// GetReport returns the most recent batch report for an assignment.
func (h *Handler) GetReport(c *gin.Context) {
	assignmentID := c.Param("assignmentID")
	if assignmentID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "assignmentID is required",
			Code:  "INVALID_REQUEST",
		})
		return
	}

	report, err := h.reports.LatestBatchReport(c.Request.Context(), assignmentID)
	if err != nil {
		log.Error().Err(err).Str("assignmentId", assignmentID).Msg("Failed to load batch report")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "Failed to load batch report",
			Code:  "INTERNAL_ERROR",
		})
		return
	}

	if report == nil {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error: "No report found for assignmentId",
			Code:  "REPORT_NOT_FOUND",
		})
		return
	}

	c.JSON(http.StatusOK, report)
}

// GetStatus returns the current batch pipeline stage for an assignment.
func (h *Handler) GetStatus(c *gin.Context) {
	assignmentID := c.Param("assignmentID")

	step, err := plagiarism.ReadStatus(c.Request.Context(), h.redisClient, assignmentID)
	if err != nil {
		if errors.Is(err, plagiarism.ErrStatusNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{
				Error: "No status found for assignmentId",
				Code:  "STATUS_NOT_FOUND",
			})
			return
		}
		log.Error().Err(err).Str("assignmentId", assignmentID).Msg("Failed to read status")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "Failed to read status",
			Code:  "INTERNAL_ERROR",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"assignmentId": assignmentID,
		"step":         step,
	})
}
