// Package language turns raw source text into canonical token streams and
// identifier-erased structural trees, independent of formatting, identifier
// naming, and literal values. One lexer profile exists per supported
// language; the dispatch table lives in profile.go.
package language

import (
	"github.com/argus-grade/argus/internal/models"
)

// Result is the full analysis of one source text: the canonical token
// stream plus the structural tree. AST is nil when the source failed
// structural parsing and the stream was produced in degraded lexical-only
// mode.
type Result struct {
	Stream models.TokenStream
	AST    *models.ASTNode
}

// Analyze tokenizes and parses source for the declared language. An
// unsupported language fails fast. A structural parse failure does not: the
// result degrades to a lexical-only stream, flagged so downstream scores
// are read as lower-confidence.
func Analyze(source string, lang models.ProgrammingLanguage) (*Result, error) {
	prof := profileFor(lang)
	if prof == nil {
		_, err := models.ParseLanguage(string(lang))
		return nil, err
	}

	raw := lex(source, prof)
	stream := models.TokenStream{
		Language: lang,
		Tokens:   canonicalize(raw, prof),
	}

	ast, err := parse(raw, prof)
	if err != nil {
		stream.Degraded = true
		stream.DegradedReason = err.Error()
		return &Result{Stream: stream}, nil
	}

	return &Result{Stream: stream, AST: ast}, nil
}
