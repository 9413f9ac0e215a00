package plagiarism

import (
	"math"

	"github.com/argus-grade/argus/internal/models"
)

// Complexity derives per-function and whole-submission complexity metrics
// from the same parse tree used for fingerprinting. Degraded submissions
// have no tree and no complexity report.
func Complexity(ast *models.ASTNode, stream models.TokenStream) *models.ComplexityReport {
	if ast == nil {
		return nil
	}

	report := &models.ComplexityReport{
		Cyclomatic: cyclomatic(ast),
		Cognitive:  cognitive(ast, 0),
	}

	ast.Walk(func(n *models.ASTNode) {
		if n.Kind != models.NodeFunctionDef {
			return
		}
		report.Functions = append(report.Functions, models.FunctionComplexity{
			StartLine:  n.Line,
			Cyclomatic: cyclomatic(n),
			Cognitive:  cognitive(n, 0),
		})
	})

	report.MaintainabilityIndex = maintainabilityIndex(stream, report.Cyclomatic)
	return report
}

// cyclomatic counts decision points plus one over a subtree.
func cyclomatic(n *models.ASTNode) int {
	count := 1
	n.Walk(func(node *models.ASTNode) {
		switch node.Kind {
		case models.NodeIf, models.NodeFor, models.NodeWhile, models.NodeCase,
			models.NodeCatch, models.NodeBoolOp:
			count++
		}
	})
	return count
}

// cognitive weights control structures by nesting depth: each nested branch
// costs one more than the same branch at the top level.
func cognitive(n *models.ASTNode, depth int) int {
	if n == nil {
		return 0
	}
	total := 0
	childDepth := depth
	switch n.Kind {
	case models.NodeIf, models.NodeFor, models.NodeWhile, models.NodeSwitch,
		models.NodeTry:
		total += 1 + depth
		childDepth++
	case models.NodeCatch:
		total++
		childDepth++
	case models.NodeBoolOp:
		total++
	}
	for _, child := range n.Children {
		total += cognitive(child, childDepth)
	}
	return total
}

// maintainabilityIndex computes the classic MI from Halstead volume,
// cyclomatic complexity, and line count, normalized to [0,100]. Keywords,
// operators and punctuation count as Halstead operators; identifiers and
// literals as operands.
func maintainabilityIndex(stream models.TokenStream, cc int) float64 {
	n := len(stream.Tokens)
	if n == 0 {
		return 0
	}

	distinct := make(map[string]bool, n)
	lines := 1
	for _, tok := range stream.Tokens {
		distinct[string(tok.Kind)+":"+tok.Text] = true
		if tok.Line > lines {
			lines = tok.Line
		}
	}

	volume := float64(n) * math.Log2(float64(len(distinct))+1)
	mi := 171 - 5.2*math.Log(volume+1) - 0.23*float64(cc) - 16.2*math.Log(float64(lines)+1)
	mi = mi * 100 / 171
	if mi < 0 {
		return 0
	}
	if mi > 100 {
		return 100
	}
	return math.Round(mi*10) / 10
}
