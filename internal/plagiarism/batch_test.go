package plagiarism

import (
	"context"
	"testing"

	"github.com/argus-grade/argus/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	pool := NewWorkerPool(ctx)
	t.Cleanup(func() {
		pool.Close()
		cancel()
	})
	return NewEngine(NewComparator(), pool)
}

func TestBatchCompareFlagsCopiedPair(t *testing.T) {
	subs := []*models.SubmissionRecord{
		record(t, "s1", models.LangPython,
			"def total(values):\n    acc = 0\n    for v in values:\n        acc = acc + v\n    return acc\n"),
		// Renamed copy of s1.
		record(t, "s2", models.LangPython,
			"def summed(nums):\n    out = 0\n    for n in nums:\n        out = out + n\n    return out\n"),
		record(t, "s3", models.LangPython,
			"def fib(n):\n    if n < 2:\n        return n\n    return fib(n - 1) + fib(n - 2)\n"),
		record(t, "s4", models.LangPython,
			"class Node:\n    def __init__(self, value):\n        self.value = value\n        self.next = None\n"),
	}

	report, err := newTestEngine(t).BatchCompare(context.Background(), "hw-1", subs, DefaultThreshold, true)

	require.NoError(t, err)
	assert.Equal(t, "hw-1", report.AssignmentID)
	assert.Equal(t, 4, report.TotalSubmissions)
	assert.Equal(t, 1, report.FlaggedPairs)
	assert.False(t, report.Partial)
	assert.Empty(t, report.Unparseable)

	require.NotEmpty(t, report.Comparisons)
	best := report.Comparisons[0]
	pair := []string{best.SubmissionA, best.SubmissionB}
	assert.ElementsMatch(t, []string{"s1", "s2"}, pair)
	assert.GreaterOrEqual(t, best.OverallSimilarity, DefaultThreshold)

	// Descending order.
	for i := 1; i < len(report.Comparisons); i++ {
		assert.GreaterOrEqual(t,
			report.Comparisons[i-1].OverallSimilarity,
			report.Comparisons[i].OverallSimilarity)
	}
}

func TestBatchCompareSkipsDisjointPairs(t *testing.T) {
	subs := []*models.SubmissionRecord{
		record(t, "s1", models.LangPython,
			"def fib(n):\n    if n < 2:\n        return n\n    return fib(n - 1) + fib(n - 2)\n"),
		record(t, "s2", models.LangJavaScript,
			"const routes = { home: '/', about: '/about' };\nexport default routes;\n"),
	}

	report, err := newTestEngine(t).BatchCompare(context.Background(), "hw-2", subs, DefaultThreshold, true)

	require.NoError(t, err)
	total := report.ComparedPairs + report.SkippedPairs
	assert.Equal(t, 1, total, "one possible pair in a pool of two")
	assert.Zero(t, report.FlaggedPairs)
}

func TestBatchCompareListsUnparseable(t *testing.T) {
	subs := []*models.SubmissionRecord{
		record(t, "s1", models.LangPython, "def f(a):\n    return a\n"),
		record(t, "s2", models.LangPython, "def g(b):\n    return b\n"),
		record(t, "empty", models.LangPython, "   \n"),
	}

	report, err := newTestEngine(t).BatchCompare(context.Background(), "hw-3", subs, DefaultThreshold, true)

	require.NoError(t, err)
	assert.Equal(t, 3, report.TotalSubmissions)
	require.Len(t, report.Unparseable, 1)
	assert.Equal(t, "empty", report.Unparseable[0].SubmissionID)
	assert.Contains(t, report.Unparseable[0].Reason, "no tokens")

	for _, cmp := range report.Comparisons {
		assert.NotEqual(t, "empty", cmp.SubmissionA)
		assert.NotEqual(t, "empty", cmp.SubmissionB)
	}
}

func TestBatchCompareCancelledIsPartial(t *testing.T) {
	subs := []*models.SubmissionRecord{
		record(t, "s1", models.LangPython, "def f(a):\n    return a + 1\n"),
		record(t, "s2", models.LangPython, "def f(a):\n    return a + 1\n"),
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// The pool shares the cancelled context, so no pair can be scored.
	pool := NewWorkerPool(ctx)
	t.Cleanup(pool.Close)
	engine := NewEngine(NewComparator(), pool)

	report, err := engine.BatchCompare(ctx, "hw-4", subs, DefaultThreshold, true)

	assert.ErrorIs(t, err, models.ErrBatchCancelled)
	assert.True(t, report.Partial)
	assert.Contains(t, report.Summary, "partial")
}

func TestBatchCompareWithoutCrossCompare(t *testing.T) {
	src := "def total(values):\n    acc = 0\n    for v in values:\n        acc = acc + v\n    return acc\n"
	renamed := "def summed(nums):\n    out = 0\n    for n in nums:\n        out = out + n\n    return out\n"

	first := record(t, "s1", models.LangPython, src)
	first.StudentID = "resubmitter"
	second := record(t, "s2", models.LangPython, renamed)
	second.StudentID = "resubmitter"

	other := record(t, "s3", models.LangPython, renamed)
	other.StudentID = "other-student"

	subs := []*models.SubmissionRecord{first, second, other}
	engine := newTestEngine(t)

	full, err := engine.BatchCompare(context.Background(), "hw-5", subs, DefaultThreshold, true)
	require.NoError(t, err)
	assert.Equal(t, 3, full.ComparedPairs+full.SkippedPairs)

	report, err := engine.BatchCompare(context.Background(), "hw-5", subs, DefaultThreshold, false)
	require.NoError(t, err)

	// The s1/s2 resubmission pair is never scored; both still compare
	// against the other student's copy.
	assert.Equal(t, 2, report.ComparedPairs+report.SkippedPairs)
	for _, cmp := range report.Comparisons {
		pair := []string{cmp.SubmissionA, cmp.SubmissionB}
		assert.NotElementsMatch(t, []string{"s1", "s2"}, pair)
	}
	assert.Equal(t, 2, report.FlaggedPairs)
}

func TestCompareAgainstHistorySkipsSelf(t *testing.T) {
	candidate := record(t, "s1", models.LangPython, "def f(a):\n    return a\n")
	history := []*models.SubmissionRecord{
		record(t, "s1", models.LangPython, "def f(a):\n    return a\n"),
		record(t, "s2", models.LangPython, "def g(b):\n    return b * 2\n"),
	}

	comps := newTestEngine(t).CompareAgainstHistory(context.Background(), candidate, history)

	require.Len(t, comps, 1)
	assert.Equal(t, "s2", comps[0].SubmissionB)
}
