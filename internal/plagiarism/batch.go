// Package plagiarism implements the similarity core: structural
// fingerprinting, pairwise matching, pool-wide batch comparison, and report
// aggregation. Everything here is pure computation over already-materialized
// submission records; persistence and transport belong to the callers.
package plagiarism

import (
	"context"

	"github.com/argus-grade/argus/internal/models"
	"github.com/rs/zerolog/log"
)

// Engine runs pool-wide comparisons. Candidate pairs are pruned through an
// inverted fingerprint index before any full comparison happens, so pairs
// sharing no winnowed fingerprint are never scored; a pair with zero shared
// k-grams under the configured k and window is never reported.
type Engine struct {
	comparator *Comparator
	pool       *WorkerPool
}

// NewEngine wires a comparator to a worker pool.
func NewEngine(comparator *Comparator, pool *WorkerPool) *Engine {
	return &Engine{comparator: comparator, pool: pool}
}

// Comparator exposes the engine's pairwise comparator.
func (e *Engine) Comparator() *Comparator {
	return e.comparator
}

// pairJob compares one submission pair on a pool worker.
type pairJob struct {
	a, b       *models.SubmissionRecord
	comparator *Comparator
	results    chan<- models.SubmissionComparison
}

func (j *pairJob) Execute(ctx context.Context) error {
	cmp := j.comparator.Compare(j.a, j.b)
	select {
	case <-ctx.Done():
		return ctx.Err()
	case j.results <- cmp:
		return nil
	}
}

// CompareAgainstHistory scores one candidate against every record in its
// historical pool. The pool is small per assignment, so this runs inline on
// the calling goroutine.
func (e *Engine) CompareAgainstHistory(ctx context.Context, candidate *models.SubmissionRecord, history []*models.SubmissionRecord) []models.SubmissionComparison {
	comps := make([]models.SubmissionComparison, 0, len(history))
	for _, prior := range history {
		if ctx.Err() != nil {
			break
		}
		if prior.SubmissionID == candidate.SubmissionID {
			continue
		}
		comps = append(comps, e.comparator.Compare(candidate, prior))
	}
	return comps
}

// BatchCompare compares a pool of submissions pairwise. With crossCompare
// set every candidate pair is scored, including two submissions from the
// same student; without it a student's own resubmissions are never scored
// against each other. Unparseable submissions are excluded and listed
// rather than aborting the batch. On context cancellation the comparisons
// already computed are returned in a report marked partial, alongside
// models.ErrBatchCancelled.
func (e *Engine) BatchCompare(ctx context.Context, assignmentID string, subs []*models.SubmissionRecord, threshold float64, crossCompare bool) (*models.BatchPlagiarismReport, error) {
	valid := make([]*models.SubmissionRecord, 0, len(subs))
	var unparseable []models.UnparseableSubmission
	for _, sub := range subs {
		if sub.Fingerprint.TokenCount == 0 {
			unparseable = append(unparseable, models.UnparseableSubmission{
				SubmissionID: sub.SubmissionID,
				Reason:       "no tokens after normalization",
			})
			continue
		}
		valid = append(valid, sub)
	}

	pairs := candidatePairs(valid, crossCompare)
	totalPairs := 0
	for i := 0; i < len(valid); i++ {
		for j := i + 1; j < len(valid); j++ {
			if crossCompare || valid[i].StudentID != valid[j].StudentID {
				totalPairs++
			}
		}
	}
	skipped := totalPairs - len(pairs)

	log.Debug().
		Str("assignmentId", assignmentID).
		Int("submissions", len(subs)).
		Int("candidatePairs", len(pairs)).
		Int("skippedPairs", skipped).
		Msg("Fingerprint index built")

	comps, partial := e.comparePairs(ctx, valid, pairs)
	report := BuildBatchReport(assignmentID, len(subs), comps, unparseable, threshold, skipped, partial)
	if partial {
		return report, models.ErrBatchCancelled
	}
	return report, nil
}

// candidatePairs builds the inverted fingerprint index (hash to submission
// indices) and returns every pair sharing at least one bucket. Hashes seen
// in a single submission carry no pairing information and are dropped.
// Without crossCompare, pairs from the same student are dropped too.
func candidatePairs(subs []*models.SubmissionRecord, crossCompare bool) [][2]int {
	index := make(map[uint64][]int)
	for i, sub := range subs {
		seen := make(map[uint64]bool, len(sub.Fingerprint.KGrams))
		for _, g := range sub.Fingerprint.KGrams {
			if seen[g.Hash] {
				continue
			}
			seen[g.Hash] = true
			index[g.Hash] = append(index[g.Hash], i)
		}
	}

	pairSet := make(map[[2]int]bool)
	for _, ids := range index {
		if len(ids) < 2 {
			continue
		}
		for i := 0; i < len(ids); i++ {
			for j := i + 1; j < len(ids); j++ {
				if !crossCompare && subs[ids[i]].StudentID == subs[ids[j]].StudentID {
					continue
				}
				pairSet[[2]int{ids[i], ids[j]}] = true
			}
		}
	}

	pairs := make([][2]int, 0, len(pairSet))
	for p := range pairSet {
		pairs = append(pairs, p)
	}
	return pairs
}

// comparePairs fans the candidate pairs out to the worker pool and collects
// results until done or cancelled.
func (e *Engine) comparePairs(ctx context.Context, subs []*models.SubmissionRecord, pairs [][2]int) ([]models.SubmissionComparison, bool) {
	if len(pairs) == 0 {
		return nil, false
	}

	results := make(chan models.SubmissionComparison, len(pairs))
	submitted := 0
	for _, p := range pairs {
		job := &pairJob{
			a:          subs[p[0]],
			b:          subs[p[1]],
			comparator: e.comparator,
			results:    results,
		}
		if err := e.pool.Submit(job); err != nil {
			log.Error().Err(err).Msg("Failed to submit comparison job")
			continue
		}
		submitted++
	}

	comps := make([]models.SubmissionComparison, 0, submitted)
	for len(comps) < submitted {
		select {
		case <-ctx.Done():
			log.Warn().
				Int("completed", len(comps)).
				Int("expected", submitted).
				Msg("Batch comparison cancelled, returning partial results")
			return comps, true
		case cmp := <-results:
			comps = append(comps, cmp)
		}
	}
	return comps, submitted < len(pairs)
}
