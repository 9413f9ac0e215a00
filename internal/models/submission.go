package models

import "time"

// KGramHash is one winnowed fingerprint: a rolling hash over a window of k
// canonical tokens together with the token index where the window starts.
type KGramHash struct {
	Hash     uint64 `bson:"hash" json:"hash"`
	Position int    `bson:"position" json:"position"`
}

// StructuralFingerprint is the comparable digest set derived from one
// submission. Recomputing it from the same source always yields the same
// fingerprint.
type StructuralFingerprint struct {
	// ContentHash is a sha256 over the original raw bytes; equality means
	// the submissions are byte-identical.
	ContentHash string `bson:"contentHash" json:"contentHash"`
	// ASTShapeHash digests the node-kind tree with identifiers and literals
	// erased. Empty for degraded (lexical-only) submissions.
	ASTShapeHash string      `bson:"astShapeHash,omitempty" json:"astShapeHash,omitempty"`
	KGramSize    int         `bson:"kGramSize" json:"kGramSize"`
	WinnowWindow int         `bson:"winnowWindow" json:"winnowWindow"`
	KGrams       []KGramHash `bson:"kGrams" json:"kGrams"`
	TokenCount   int         `bson:"tokenCount" json:"tokenCount"`
}

// SubmissionRecord is one analyzed submission as held by the submission
// index. Created once at submission time and immutable thereafter; the
// matcher and batch engine only ever read it.
type SubmissionRecord struct {
	SubmissionID string                `bson:"submissionId" json:"submissionId"`
	StudentID    string                `bson:"studentId" json:"studentId"`
	AssignmentID string                `bson:"assignmentId" json:"assignmentId"`
	Language     ProgrammingLanguage   `bson:"language" json:"language"`
	Fingerprint  StructuralFingerprint `bson:"fingerprint" json:"fingerprint"`
	Tokens       []CanonicalToken      `bson:"tokens" json:"tokens"`
	Degraded     bool                  `bson:"degraded" json:"degraded"`
	SubmittedAt  time.Time             `bson:"submittedAt" json:"submittedAt"`
}
