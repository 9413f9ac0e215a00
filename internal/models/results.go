package models

import "time"

// MatchType classifies one detected overlap between two submissions.
type MatchType string

const (
	MatchExact         MatchType = "EXACT"
	MatchStructural    MatchType = "STRUCTURAL"
	MatchTokenSequence MatchType = "TOKEN_SEQUENCE"
	MatchRenamed       MatchType = "RENAMED"
	MatchPartial       MatchType = "PARTIAL"
)

// LineRange is an inclusive range of 1-indexed source lines.
type LineRange struct {
	Start int `bson:"start" json:"start"`
	End   int `bson:"end" json:"end"`
}

// CodeMatch is one detected overlapping segment between two submissions.
// Matches belong exclusively to their parent comparison.
type CodeMatch struct {
	Type        MatchType `bson:"type" json:"type"`
	Similarity  float64   `bson:"similarity" json:"similarity"`
	LinesA      LineRange `bson:"linesA" json:"linesA"`
	LinesB      LineRange `bson:"linesB" json:"linesB"`
	Explanation string    `bson:"explanation" json:"explanation"`
}

// SubmissionComparison aggregates every CodeMatch between exactly two
// submissions, plus the blended overall score.
type SubmissionComparison struct {
	SubmissionA          string      `bson:"submissionA" json:"submissionA"`
	SubmissionB          string      `bson:"submissionB" json:"submissionB"`
	OverallSimilarity    float64     `bson:"overallSimilarity" json:"overallSimilarity"`
	StructuralSimilarity float64     `bson:"structuralSimilarity" json:"structuralSimilarity"`
	LCSRatio             float64     `bson:"lcsRatio" json:"lcsRatio"`
	Matches              []CodeMatch `bson:"matches" json:"matches"`
	// Degraded is set when either side was analyzed in lexical-only mode,
	// so the score carries lower confidence.
	Degraded bool `bson:"degraded" json:"degraded"`
}

// SimilarityLevel is the presentation band for a similarity score.
type SimilarityLevel string

const (
	LevelNone     SimilarityLevel = "NONE"
	LevelLow      SimilarityLevel = "LOW"
	LevelMedium   SimilarityLevel = "MEDIUM"
	LevelHigh     SimilarityLevel = "HIGH"
	LevelVeryHigh SimilarityLevel = "VERY_HIGH"
)

// UnparseableSubmission records a submission excluded from comparison.
type UnparseableSubmission struct {
	SubmissionID string `bson:"submissionId" json:"submissionId"`
	Reason       string `bson:"reason" json:"reason"`
}

// PlagiarismReport is the single-submission report: one submission checked
// against a historical pool. Created fresh per request and never persisted
// by the core.
type PlagiarismReport struct {
	SubmissionID         string                 `json:"submissionId"`
	Level                SimilarityLevel        `json:"level"`
	IsFlagged            bool                   `json:"isFlagged"`
	MaxSimilarity        float64                `json:"maxSimilarity"`
	SimilarityPercentage float64                `json:"similarityPercentage"`
	TopMatchID           string                 `json:"topMatchId,omitempty"`
	Threshold            float64                `json:"threshold"`
	Summary              string                 `json:"summary"`
	Comparisons          []SubmissionComparison `json:"comparisons"`
	Complexity           *ComplexityReport      `json:"complexity,omitempty"`
}

// BatchPlagiarismReport is the pool-wide report over one assignment.
type BatchPlagiarismReport struct {
	AssignmentID     string                 `bson:"assignmentId" json:"assignmentId"`
	TotalSubmissions int                    `bson:"totalSubmissions" json:"totalSubmissions"`
	ComparedPairs    int                    `bson:"comparedPairs" json:"comparedPairs"`
	SkippedPairs     int                    `bson:"skippedPairs" json:"skippedPairs"`
	FlaggedPairs     int                    `bson:"flaggedPairs" json:"flaggedPairs"`
	Level            SimilarityLevel        `bson:"level" json:"level"`
	Threshold        float64                `bson:"threshold" json:"threshold"`
	// Partial is set when the batch was cancelled; comparisons computed
	// before cancellation are still valid.
	Partial     bool                    `bson:"partial" json:"partial"`
	Summary     string                  `bson:"summary" json:"summary"`
	Comparisons []SubmissionComparison  `bson:"comparisons" json:"comparisons"`
	Unparseable []UnparseableSubmission `bson:"unparseable" json:"unparseable"`
	GeneratedAt time.Time               `bson:"generatedAt" json:"generatedAt"`
}

// FunctionComplexity holds per-function complexity metrics.
type FunctionComplexity struct {
	StartLine  int `json:"startLine"`
	Cyclomatic int `json:"cyclomatic"`
	Cognitive  int `json:"cognitive"`
}

// ComplexityReport holds whole-submission complexity metrics derived from
// the same parse tree used for fingerprinting.
type ComplexityReport struct {
	Functions            []FunctionComplexity `json:"functions"`
	Cyclomatic           int                  `json:"cyclomatic"`
	Cognitive            int                  `json:"cognitive"`
	MaintainabilityIndex float64              `json:"maintainabilityIndex"`
}

// Step is a batch pipeline stage, tracked in Redis per assignment.
type Step string

const (
	StepIdle        Step = "idle"
	StepReceived    Step = "received"
	StepIndexing    Step = "indexing"
	StepComparing   Step = "comparing"
	StepAggregating Step = "aggregating"
	StepCompleted   Step = "completed"
	StepFailed      Step = "failed"
)
