// Package index persists submission fingerprints and batch reports, and
// serves the history a new submission is compared against.
package index

import (
	"context"

	"github.com/argus-grade/argus/internal/models"
)

// SubmissionStore is the fingerprint index keyed by assignment.
type SubmissionStore interface {
	Insert(ctx context.Context, rec *models.SubmissionRecord) error
	ListByAssignment(ctx context.Context, assignmentID string) ([]*models.SubmissionRecord, error)
	FindByContentHash(ctx context.Context, assignmentID, contentHash string) (*models.SubmissionRecord, error)
	CountByAssignment(ctx context.Context, assignmentID string) (int64, error)
}

// ReportStore persists the output of batch runs.
type ReportStore interface {
	InsertBatchReport(ctx context.Context, report *models.BatchPlagiarismReport) error
	LatestBatchReport(ctx context.Context, assignmentID string) (*models.BatchPlagiarismReport, error)
}
