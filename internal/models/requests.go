package models

// CheckRequest asks for a single submission to be checked against the
// historical pool of its assignment.
type CheckRequest struct {
	SubmissionID string   `json:"submissionId"`
	StudentID    string   `json:"studentId" binding:"required"`
	AssignmentID string   `json:"assignmentId" binding:"required"`
	Language     string   `json:"language" binding:"required"`
	Code         string   `json:"code" binding:"required"`
	Threshold    *float64 `json:"threshold,omitempty"`
}

// BatchRequest asks for a pool-wide cross comparison of one assignment.
// CrossCompare defaults to true; when false a student's own resubmissions
// are not scored against each other.
type BatchRequest struct {
	AssignmentID string   `json:"assignmentId" binding:"required"`
	CrossCompare *bool    `json:"crossCompare,omitempty"`
	Threshold    *float64 `json:"threshold,omitempty"`
}

// BatchAccepted is the immediate response to an accepted batch request.
type BatchAccepted struct {
	Step         Step   `json:"step"`
	AssignmentID string `json:"assignmentId"`
}

// Submission is a raw submission as it arrives on the ingest stream, before
// any analysis.
type Submission struct {
	SubmissionID string `json:"submissionId"`
	StudentID    string `json:"studentId"`
	AssignmentID string `json:"assignmentId"`
	Language     string `json:"language"`
	SourceCode   string `json:"sourceCode"`
}
