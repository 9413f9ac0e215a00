package language

import (
	"fmt"

	"github.com/argus-grade/argus/internal/models"
)

// identRole is the syntactic role an identifier plays at its declaration
// site; the canonical placeholder is derived from it.
type identRole int

const (
	roleVar identRole = iota
	roleFunc
	roleClass
)

type scope struct {
	names  map[string]string
	varN   int
	fnN    int
	clsN   int
	indent int // python only: column of the owning def/class header
}

func newScope(indent int) *scope {
	return &scope{names: make(map[string]string), indent: indent}
}

func (s *scope) canonical(name string, role identRole) string {
	if c, ok := s.names[name]; ok {
		return c
	}
	var c string
	switch role {
	case roleFunc:
		s.fnN++
		c = fmt.Sprintf("FN%d", s.fnN)
	case roleClass:
		s.clsN++
		c = fmt.Sprintf("CLS%d", s.clsN)
	default:
		s.varN++
		c = fmt.Sprintf("VAR%d", s.varN)
	}
	s.names[name] = c
	return c
}

// canonicalize maps raw identifiers to role-based placeholders assigned in
// first-occurrence order. The mapping resets for every function and class
// scope, so differently named but identically shaped functions canonicalize
// to the same token sequence. Lookups are confined to the current scope for
// the same reason.
func canonicalize(tokens []rawToken, prof *profile) []models.CanonicalToken {
	if prof.indentBlocks {
		return canonicalizeIndent(tokens)
	}
	return canonicalizeBraces(tokens, prof)
}

func canonicalizeBraces(tokens []rawToken, prof *profile) []models.CanonicalToken {
	out := make([]models.CanonicalToken, 0, len(tokens))
	scopes := []*scope{newScope(0)}
	top := func() *scope { return scopes[len(scopes)-1] }

	// braceOwnsScope records, per open brace, whether it carries a function
	// or class scope that must be popped with it.
	var braceOwnsScope []bool
	headerOpen := false
	nextRole := roleVar
	parenDepth := 0

	for i, tok := range tokens {
		switch tok.text {
		case "(":
			parenDepth++
		case ")":
			if parenDepth > 0 {
				parenDepth--
			}
		}

		switch tok.kind {
		case models.TokenIdentifier:
			role := nextRole
			nextRole = roleVar

			// Keyword-less definitions (Java/C methods): the name belongs
			// to the enclosing scope, the parameters to the new one.
			if role == roleVar && i+1 < len(tokens) && tokens[i+1].text == "(" {
				if after := matchingParen(tokens, i+1); after >= 0 && after < len(tokens) && tokens[after].text == "{" && !headerOpen {
					out = append(out, models.CanonicalToken{Kind: tok.kind, Text: top().canonical(tok.text, roleFunc), Line: tok.line})
					scopes = append(scopes, newScope(0))
					headerOpen = true
					continue
				}
			}

			if role != roleVar {
				// Function and class names live in the enclosing scope;
				// the body gets a fresh one.
				name := top().canonical(tok.text, role)
				out = append(out, models.CanonicalToken{Kind: tok.kind, Text: name, Line: tok.line})
				scopes = append(scopes, newScope(0))
				headerOpen = true
				continue
			}

			out = append(out, models.CanonicalToken{Kind: tok.kind, Text: top().canonical(tok.text, roleVar), Line: tok.line})
			continue

		case models.TokenKeyword:
			if prof.funcKeywords[tok.text] {
				nextRole = roleFunc
			} else if prof.classKeywords[tok.text] {
				nextRole = roleClass
			}

		case models.TokenOperator:
			// Arrow function bodies open a scope with no name token.
			if tok.text == "=>" && i+1 < len(tokens) && tokens[i+1].text == "{" && !headerOpen {
				scopes = append(scopes, newScope(0))
				headerOpen = true
			}

		case models.TokenPunct:
			switch tok.text {
			case "{":
				braceOwnsScope = append(braceOwnsScope, headerOpen)
				headerOpen = false
			case "}":
				if n := len(braceOwnsScope); n > 0 {
					if braceOwnsScope[n-1] && len(scopes) > 1 {
						scopes = scopes[:len(scopes)-1]
					}
					braceOwnsScope = braceOwnsScope[:n-1]
				}
			case ";":
				// A header that never opened a body (prototype, abstract
				// method) releases its scope at the statement end.
				if headerOpen && parenDepth == 0 && len(scopes) > 1 {
					scopes = scopes[:len(scopes)-1]
					headerOpen = false
				}
			}
		}

		out = append(out, models.CanonicalToken{Kind: tok.kind, Text: tok.text, Line: tok.line})
	}

	return out
}

func canonicalizeIndent(tokens []rawToken) []models.CanonicalToken {
	out := make([]models.CanonicalToken, 0, len(tokens))
	scopes := []*scope{newScope(-1)}
	top := func() *scope { return scopes[len(scopes)-1] }

	nextRole := roleVar
	pendingScope := false
	pendingIndent := 0
	depth := 0 // open (), [], {}; continuation lines keep the scope
	curLine := 0

	for _, tok := range tokens {
		if tok.line != curLine && depth == 0 {
			curLine = tok.line
			for len(scopes) > 1 && tok.col <= top().indent {
				scopes = scopes[:len(scopes)-1]
			}
		}

		switch tok.text {
		case "(", "[", "{":
			depth++
		case ")", "]", "}":
			if depth > 0 {
				depth--
			}
		}

		switch tok.kind {
		case models.TokenKeyword:
			switch tok.text {
			case "def":
				nextRole = roleFunc
				pendingScope = true
				pendingIndent = tok.col
			case "class":
				nextRole = roleClass
				pendingScope = true
				pendingIndent = tok.col
			case "lambda":
				scopes = append(scopes, newScope(tok.col))
			}

		case models.TokenIdentifier:
			role := nextRole
			nextRole = roleVar
			name := top().canonical(tok.text, role)
			out = append(out, models.CanonicalToken{Kind: tok.kind, Text: name, Line: tok.line})
			if pendingScope {
				scopes = append(scopes, newScope(pendingIndent))
				pendingScope = false
			}
			continue
		}

		out = append(out, models.CanonicalToken{Kind: tok.kind, Text: tok.text, Line: tok.line})
	}

	return out
}
