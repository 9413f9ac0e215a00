package plagiarism

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/argus-grade/argus/internal/models"
)

// DefaultThreshold flags a submission when its best match reaches this
// overall similarity.
const DefaultThreshold = 0.7

// LevelFor maps a similarity score to its presentation band. Bands have
// inclusive lower bounds; 1.0 stays VERY_HIGH.
func LevelFor(sim float64) models.SimilarityLevel {
	switch {
	case sim < 0.2:
		return models.LevelNone
	case sim < 0.4:
		return models.LevelLow
	case sim < 0.6:
		return models.LevelMedium
	case sim < 0.8:
		return models.LevelHigh
	default:
		return models.LevelVeryHigh
	}
}

// Percentage converts a [0,1] similarity to the user-facing percentage,
// rounded to one decimal.
func Percentage(sim float64) float64 {
	return math.Round(sim*1000) / 10
}

// BuildReport aggregates one submission's comparisons against its
// historical pool. Same inputs always produce the same report.
func BuildReport(submissionID string, comps []models.SubmissionComparison, threshold float64, complexity *models.ComplexityReport) *models.PlagiarismReport {
	sorted := sortedBySimilarity(comps)

	report := &models.PlagiarismReport{
		SubmissionID: submissionID,
		Threshold:    threshold,
		Comparisons:  sorted,
		Complexity:   complexity,
	}

	if len(sorted) > 0 {
		best := sorted[0]
		report.MaxSimilarity = best.OverallSimilarity
		report.TopMatchID = counterpart(best, submissionID)
	}

	report.SimilarityPercentage = Percentage(report.MaxSimilarity)
	report.Level = LevelFor(report.MaxSimilarity)
	report.IsFlagged = report.MaxSimilarity >= threshold
	report.Summary = singleSummary(report)
	return report
}

func singleSummary(r *models.PlagiarismReport) string {
	if len(r.Comparisons) == 0 {
		return fmt.Sprintf("similarity level %s: no prior submissions to compare against", r.Level)
	}
	if r.IsFlagged {
		return fmt.Sprintf("similarity level %s: flagged, most similar to submission %s at %.1f%%",
			r.Level, r.TopMatchID, r.SimilarityPercentage)
	}
	return fmt.Sprintf("similarity level %s: below threshold %.2f, closest match %.1f%%",
		r.Level, r.Threshold, r.SimilarityPercentage)
}

// BuildBatchReport aggregates a pool-wide comparison. All computed
// comparisons are included for transparency; flagged pairs are counted
// separately.
func BuildBatchReport(
	assignmentID string,
	totalSubmissions int,
	comps []models.SubmissionComparison,
	unparseable []models.UnparseableSubmission,
	threshold float64,
	skippedPairs int,
	partial bool,
) *models.BatchPlagiarismReport {
	sorted := sortedBySimilarity(comps)

	flagged := 0
	maxSim := 0.0
	for _, c := range sorted {
		if c.OverallSimilarity >= threshold {
			flagged++
		}
		if c.OverallSimilarity > maxSim {
			maxSim = c.OverallSimilarity
		}
	}

	if unparseable == nil {
		unparseable = []models.UnparseableSubmission{}
	}

	report := &models.BatchPlagiarismReport{
		AssignmentID:     assignmentID,
		TotalSubmissions: totalSubmissions,
		ComparedPairs:    len(sorted),
		SkippedPairs:     skippedPairs,
		FlaggedPairs:     flagged,
		Level:            LevelFor(maxSim),
		Threshold:        threshold,
		Partial:          partial,
		Comparisons:      sorted,
		Unparseable:      unparseable,
		GeneratedAt:      time.Now().UTC(),
	}

	summary := fmt.Sprintf("%d submissions, %d pairs compared, %d flagged at threshold %.2f, level %s",
		totalSubmissions, report.ComparedPairs, flagged, threshold, report.Level)
	if len(unparseable) > 0 {
		summary += fmt.Sprintf(", %d unparseable", len(unparseable))
	}
	if partial {
		summary += " (partial: batch cancelled before completion)"
	}
	report.Summary = summary
	return report
}

func sortedBySimilarity(comps []models.SubmissionComparison) []models.SubmissionComparison {
	sorted := make([]models.SubmissionComparison, len(comps))
	copy(sorted, comps)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].OverallSimilarity > sorted[j].OverallSimilarity
	})
	return sorted
}

func counterpart(c models.SubmissionComparison, submissionID string) string {
	if c.SubmissionA == submissionID {
		return c.SubmissionB
	}
	return c.SubmissionA
}
