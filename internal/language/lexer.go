package language

import (
	"strings"
	"unicode"

	"github.com/argus-grade/argus/internal/models"
)

// rawToken is a lexical unit before identifier canonicalization. Literal
// texts are already collapsed to their kind (STR, NUM, BOOL, NULL);
// identifiers still carry their original name.
type rawToken struct {
	kind models.TokenKind
	text string
	line int
	col  int
}

// multi-character operators, longest first so maximal munch works.
var multiOps = []string{
	">>>=", "===", "!==", "<<=", ">>=", "**=", "//=", "...", ">>>",
	"&&", "||", "==", "!=", "<=", ">=", "->", "=>", "++", "--", "+=",
	"-=", "*=", "/=", "%=", "&=", "|=", "^=", "<<", ">>", "**", "//",
	"::", "?.", "??",
}

const punctChars = "()[]{},;:"

type lexer struct {
	src  []rune
	pos  int
	line int
	col  int
	prof *profile
	out  []rawToken
}

// lex scans source into raw tokens. Comments and whitespace are discarded
// here and never reach the canonical stream. Lexing is tolerant: malformed
// input yields tokens, never an error; structural problems surface later in
// the parser.
func lex(source string, prof *profile) []rawToken {
	lx := &lexer{src: []rune(source), line: 1, col: 0, prof: prof}
	for lx.pos < len(lx.src) {
		lx.next()
	}
	return lx.out
}

func (lx *lexer) peek(offset int) rune {
	if lx.pos+offset >= len(lx.src) {
		return 0
	}
	return lx.src[lx.pos+offset]
}

func (lx *lexer) advance() rune {
	r := lx.src[lx.pos]
	lx.pos++
	if r == '\n' {
		lx.line++
		lx.col = 0
	} else {
		lx.col++
	}
	return r
}

func (lx *lexer) emit(kind models.TokenKind, text string, line, col int) {
	lx.out = append(lx.out, rawToken{kind: kind, text: text, line: line, col: col})
}

func (lx *lexer) next() {
	r := lx.peek(0)

	if r == ' ' || r == '\t' || r == '\r' || r == '\n' {
		lx.advance()
		return
	}

	if lx.skipComment() {
		return
	}

	line, col := lx.line, lx.col

	switch {
	case r == '"' || r == '\'' || r == '`':
		lx.scanString()
		lx.emit(models.TokenLiteral, "STR", line, col)
	case unicode.IsDigit(r):
		lx.scanNumber()
		lx.emit(models.TokenLiteral, "NUM", line, col)
	case isIdentStart(r):
		word := lx.scanIdentifier()
		switch {
		case lx.prof.boolLiterals[word]:
			lx.emit(models.TokenLiteral, "BOOL", line, col)
		case lx.prof.nullLiterals[word]:
			lx.emit(models.TokenLiteral, "NULL", line, col)
		case lx.prof.keywords[word]:
			lx.emit(models.TokenKeyword, word, line, col)
		default:
			lx.emit(models.TokenIdentifier, word, line, col)
		}
	case strings.ContainsRune(punctChars, r):
		lx.advance()
		lx.emit(models.TokenPunct, string(r), line, col)
	default:
		lx.emit(models.TokenOperator, lx.scanOperator(), line, col)
	}
}

func (lx *lexer) skipComment() bool {
	rest := lx.src[lx.pos:]
	for _, prefix := range lx.prof.lineComments {
		if hasRunePrefix(rest, prefix) {
			for lx.pos < len(lx.src) && lx.peek(0) != '\n' {
				lx.advance()
			}
			return true
		}
	}
	for _, delims := range lx.prof.blockComments {
		if hasRunePrefix(rest, delims[0]) {
			for i := 0; i < len(delims[0]); i++ {
				lx.advance()
			}
			for lx.pos < len(lx.src) && !hasRunePrefix(lx.src[lx.pos:], delims[1]) {
				lx.advance()
			}
			for i := 0; i < len(delims[1]) && lx.pos < len(lx.src); i++ {
				lx.advance()
			}
			return true
		}
	}
	return false
}

func (lx *lexer) scanString() {
	quote := lx.advance()

	// Python triple-quoted strings span lines.
	if lx.prof.tripleQuotes && lx.peek(0) == quote && lx.peek(1) == quote {
		lx.advance()
		lx.advance()
		for lx.pos < len(lx.src) {
			if lx.peek(0) == quote && lx.peek(1) == quote && lx.peek(2) == quote {
				lx.advance()
				lx.advance()
				lx.advance()
				return
			}
			lx.advance()
		}
		return
	}

	for lx.pos < len(lx.src) {
		r := lx.peek(0)
		if r == '\\' {
			lx.advance()
			if lx.pos < len(lx.src) {
				lx.advance()
			}
			continue
		}
		if r == quote {
			lx.advance()
			return
		}
		// Backtick template strings span lines; ordinary strings do not.
		if r == '\n' && quote != '`' {
			return
		}
		lx.advance()
	}
}

func (lx *lexer) scanNumber() {
	for lx.pos < len(lx.src) {
		r := lx.peek(0)
		if unicode.IsDigit(r) || unicode.IsLetter(r) || r == '_' || r == '.' {
			lx.advance()
			continue
		}
		// Exponent sign, as in 1e-9.
		if (r == '+' || r == '-') && lx.pos > 0 {
			prev := lx.src[lx.pos-1]
			if prev == 'e' || prev == 'E' {
				lx.advance()
				continue
			}
		}
		break
	}
}

func (lx *lexer) scanIdentifier() string {
	var b strings.Builder
	for lx.pos < len(lx.src) && isIdentPart(lx.peek(0)) {
		b.WriteRune(lx.advance())
	}
	return b.String()
}

func (lx *lexer) scanOperator() string {
	rest := lx.src[lx.pos:]
	for _, op := range multiOps {
		if hasRunePrefix(rest, op) {
			for i := 0; i < len(op); i++ {
				lx.advance()
			}
			return op
		}
	}
	return string(lx.advance())
}

func isIdentStart(r rune) bool {
	return unicode.IsLetter(r) || r == '_' || r == '$'
}

func isIdentPart(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '$'
}

func hasRunePrefix(rs []rune, prefix string) bool {
	pr := []rune(prefix)
	if len(rs) < len(pr) {
		return false
	}
	for i, r := range pr {
		if rs[i] != r {
			return false
		}
	}
	return true
}
