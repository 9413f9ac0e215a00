package models

import (
	"errors"
	"fmt"
)

// ErrUnsupportedLanguage is returned when a submission declares a language
// outside the supported set. It is fatal; no fallback tokenization happens.
var ErrUnsupportedLanguage = errors.New("unsupported language")

// ErrEmptySubmission is returned when a submission normalizes to zero tokens.
var ErrEmptySubmission = errors.New("empty submission")

// ErrBatchCancelled signals that a batch comparison was cancelled before all
// pairs were computed. Comparisons finished before cancellation remain valid.
var ErrBatchCancelled = errors.New("batch comparison cancelled")

// ParseError reports that a source file failed structural parsing for its
// declared language. Callers may degrade to lexical-only tokenization; the
// degradation is flagged on the resulting token stream.
type ParseError struct {
	Language ProgrammingLanguage
	Line     int
	Reason   string
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("parse %s source: line %d: %s", e.Language, e.Line, e.Reason)
	}
	return fmt.Sprintf("parse %s source: %s", e.Language, e.Reason)
}
