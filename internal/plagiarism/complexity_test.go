package plagiarism

import (
	"testing"

	"github.com/argus-grade/argus/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComplexityStraightLine(t *testing.T) {
	res := analyze(t, "def f(a):\n    return a\n", models.LangPython)
	require.NotNil(t, res.AST)

	report := Complexity(res.AST, res.Stream)
	require.NotNil(t, report)

	assert.Equal(t, 1, report.Cyclomatic, "no decision points")
	assert.Zero(t, report.Cognitive)
	require.Len(t, report.Functions, 1)
	assert.Equal(t, 1, report.Functions[0].Cyclomatic)
}

func TestComplexityBranching(t *testing.T) {
	src := `def classify(items):
    hits = 0
    for item in items:
        if item > 0:
            hits = hits + 1
    while hits > 10:
        hits = hits - 1
    return hits
`
	res := analyze(t, src, models.LangPython)
	require.NotNil(t, res.AST)

	report := Complexity(res.AST, res.Stream)
	require.NotNil(t, report)

	// for + if + while = 3 decision points.
	assert.Equal(t, 4, report.Cyclomatic)
	// for(1) + nested if(2) + while(1) = 4 with nesting weights.
	assert.Equal(t, 4, report.Cognitive)
	assert.Greater(t, report.MaintainabilityIndex, 0.0)
	assert.LessOrEqual(t, report.MaintainabilityIndex, 100.0)
}

func TestComplexityPerFunction(t *testing.T) {
	src := `def simple(a):
    return a

def branchy(a):
    if a > 0:
        return a
    return -a
`
	res := analyze(t, src, models.LangPython)
	require.NotNil(t, res.AST)

	report := Complexity(res.AST, res.Stream)
	require.NotNil(t, report)
	require.Len(t, report.Functions, 2)

	assert.Equal(t, 1, report.Functions[0].Cyclomatic)
	assert.Equal(t, 2, report.Functions[1].Cyclomatic)
	assert.Less(t, report.Functions[0].StartLine, report.Functions[1].StartLine)
}

func TestComplexityDegradedIsNil(t *testing.T) {
	res := analyze(t, "class Broken {\n    void f() {\n", models.LangJava)
	require.Nil(t, res.AST)

	assert.Nil(t, Complexity(res.AST, res.Stream))
}
