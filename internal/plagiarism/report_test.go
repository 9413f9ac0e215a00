package plagiarism

import (
	"testing"

	"github.com/argus-grade/argus/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevelFor(t *testing.T) {
	tests := []struct {
		sim  float64
		want models.SimilarityLevel
	}{
		{0.0, models.LevelNone},
		{0.19, models.LevelNone},
		{0.2, models.LevelLow},
		{0.39, models.LevelLow},
		{0.4, models.LevelMedium},
		{0.6, models.LevelHigh},
		{0.79, models.LevelHigh},
		{0.8, models.LevelVeryHigh},
		{1.0, models.LevelVeryHigh},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, LevelFor(tt.sim), "sim=%v", tt.sim)
	}
}

func TestPercentageRounding(t *testing.T) {
	assert.Equal(t, 87.7, Percentage(0.876543))
	assert.Equal(t, 100.0, Percentage(1.0))
	assert.Equal(t, 0.0, Percentage(0.0))
	assert.Equal(t, 0.1, Percentage(0.00051))
}

func comps(sims map[string]float64) []models.SubmissionComparison {
	out := make([]models.SubmissionComparison, 0, len(sims))
	for id, sim := range sims {
		out = append(out, models.SubmissionComparison{
			SubmissionA:       "me",
			SubmissionB:       id,
			OverallSimilarity: sim,
		})
	}
	return out
}

func TestBuildReportFlagging(t *testing.T) {
	cs := comps(map[string]float64{"s2": 0.45, "s3": 0.82, "s4": 0.1})

	report := BuildReport("me", cs, DefaultThreshold, nil)

	assert.True(t, report.IsFlagged)
	assert.Equal(t, 0.82, report.MaxSimilarity)
	assert.Equal(t, 82.0, report.SimilarityPercentage)
	assert.Equal(t, "s3", report.TopMatchID)
	assert.Equal(t, models.LevelVeryHigh, report.Level)
	assert.Contains(t, report.Summary, "flagged")

	// Same comparisons under a stricter threshold are not flagged.
	strict := BuildReport("me", cs, 0.9, nil)
	assert.False(t, strict.IsFlagged)
	assert.Equal(t, 0.82, strict.MaxSimilarity)
}

func TestBuildReportNoHistory(t *testing.T) {
	report := BuildReport("me", nil, DefaultThreshold, nil)

	assert.False(t, report.IsFlagged)
	assert.Zero(t, report.MaxSimilarity)
	assert.Equal(t, models.LevelNone, report.Level)
	assert.Empty(t, report.TopMatchID)
	assert.Contains(t, report.Summary, "no prior submissions")
}

func TestBuildReportSortsDescending(t *testing.T) {
	cs := comps(map[string]float64{"a": 0.3, "b": 0.9, "c": 0.6})

	report := BuildReport("me", cs, DefaultThreshold, nil)

	require.Len(t, report.Comparisons, 3)
	assert.Equal(t, 0.9, report.Comparisons[0].OverallSimilarity)
	assert.Equal(t, 0.6, report.Comparisons[1].OverallSimilarity)
	assert.Equal(t, 0.3, report.Comparisons[2].OverallSimilarity)
}

func TestBuildBatchReport(t *testing.T) {
	cs := []models.SubmissionComparison{
		{SubmissionA: "s1", SubmissionB: "s2", OverallSimilarity: 0.95},
		{SubmissionA: "s1", SubmissionB: "s3", OverallSimilarity: 0.2},
		{SubmissionA: "s2", SubmissionB: "s3", OverallSimilarity: 0.71},
	}
	unparseable := []models.UnparseableSubmission{{SubmissionID: "s4", Reason: "no tokens after normalization"}}

	report := BuildBatchReport("hw-9", 4, cs, unparseable, DefaultThreshold, 2, false)

	assert.Equal(t, 4, report.TotalSubmissions)
	assert.Equal(t, 3, report.ComparedPairs)
	assert.Equal(t, 2, report.SkippedPairs)
	assert.Equal(t, 2, report.FlaggedPairs)
	assert.Equal(t, models.LevelVeryHigh, report.Level)
	assert.False(t, report.Partial)
	assert.False(t, report.GeneratedAt.IsZero())
	assert.Contains(t, report.Summary, "unparseable")
}

func TestBuildBatchReportPartialSummary(t *testing.T) {
	report := BuildBatchReport("hw-9", 2, nil, nil, DefaultThreshold, 0, true)

	assert.True(t, report.Partial)
	assert.Contains(t, report.Summary, "partial")
	assert.NotNil(t, report.Unparseable, "serializes as an empty list, not null")
}
