package models

// TokenKind classifies a canonical token.
type TokenKind string

const (
	TokenKeyword    TokenKind = "KEYWORD"
	TokenIdentifier TokenKind = "IDENTIFIER"
	TokenLiteral    TokenKind = "LITERAL"
	TokenOperator   TokenKind = "OPERATOR"
	TokenPunct      TokenKind = "PUNCT"
)

// CanonicalToken is a single normalized lexical unit. Identifiers are
// replaced by role-based placeholders (VAR1, FN1, ...) scoped to their
// enclosing function or class, and literals are collapsed per literal kind,
// so renaming and constant tweaks do not change the token text. Immutable
// once produced.
type CanonicalToken struct {
	Kind TokenKind `bson:"kind" json:"kind"`
	Text string    `bson:"text" json:"text"`
	Line int       `bson:"line" json:"line"`
}

// TokenStream is the canonical token sequence of one submission.
// Degraded marks streams produced by the lexical-only fallback after a parse
// failure; such streams carry no AST shape signal and downstream similarity
// scores are lower-confidence.
type TokenStream struct {
	Language       ProgrammingLanguage `bson:"language" json:"language"`
	Tokens         []CanonicalToken    `bson:"tokens" json:"tokens"`
	Degraded       bool                `bson:"degraded" json:"degraded"`
	DegradedReason string              `bson:"degradedReason,omitempty" json:"degradedReason,omitempty"`
}
