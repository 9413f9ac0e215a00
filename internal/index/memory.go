package index

import (
	"context"
	"sync"
	"time"

	"github.com/argus-grade/argus/internal/models"
)

// MemoryStore is an in-process SubmissionStore and ReportStore. It backs
// tests and single-node deployments that run without MongoDB.
type MemoryStore struct {
	mu          sync.RWMutex
	submissions map[string][]*models.SubmissionRecord
	reports     map[string][]*models.BatchPlagiarismReport
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		submissions: make(map[string][]*models.SubmissionRecord),
		reports:     make(map[string][]*models.BatchPlagiarismReport),
	}
}

func (s *MemoryStore) Insert(_ context.Context, rec *models.SubmissionRecord) error {
	if rec.SubmittedAt.IsZero() {
		rec.SubmittedAt = time.Now().UTC()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.submissions[rec.AssignmentID] = append(s.submissions[rec.AssignmentID], rec)
	return nil
}

func (s *MemoryStore) ListByAssignment(_ context.Context, assignmentID string) ([]*models.SubmissionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	recs := s.submissions[assignmentID]
	out := make([]*models.SubmissionRecord, len(recs))
	copy(out, recs)
	return out, nil
}

func (s *MemoryStore) FindByContentHash(_ context.Context, assignmentID, contentHash string) (*models.SubmissionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, rec := range s.submissions[assignmentID] {
		if rec.Fingerprint.ContentHash == contentHash {
			return rec, nil
		}
	}
	return nil, nil
}

func (s *MemoryStore) CountByAssignment(_ context.Context, assignmentID string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.submissions[assignmentID])), nil
}

func (s *MemoryStore) InsertBatchReport(_ context.Context, report *models.BatchPlagiarismReport) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports[report.AssignmentID] = append(s.reports[report.AssignmentID], report)
	return nil
}

func (s *MemoryStore) LatestBatchReport(_ context.Context, assignmentID string) (*models.BatchPlagiarismReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	reports := s.reports[assignmentID]
	if len(reports) == 0 {
		return nil, nil
	}

	latest := reports[0]
	for _, r := range reports[1:] {
		if r.GeneratedAt.After(latest.GeneratedAt) {
			latest = r
		}
	}
	return latest, nil
}
