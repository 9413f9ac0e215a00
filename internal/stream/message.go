package stream

import (
	"fmt"

	"github.com/argus-grade/argus/internal/models"
)

// StreamMessage is a raw entry read from the submission stream.
type StreamMessage struct {
	ID     string
	Fields map[string]string
}

// ParseSubmission validates the required stream fields and builds the
// submission DTO. Missing fields make the message permanently bad.
func ParseSubmission(msg *StreamMessage) (*models.Submission, error) {
	required := []string{"studentId", "assignmentId", "language", "sourceCode"}
	for _, field := range required {
		if msg.Fields[field] == "" {
			return nil, fmt.Errorf("message %s: missing field %q", msg.ID, field)
		}
	}

	return &models.Submission{
		SubmissionID: msg.Fields["submissionId"],
		StudentID:    msg.Fields["studentId"],
		AssignmentID: msg.Fields["assignmentId"],
		Language:     msg.Fields["language"],
		SourceCode:   msg.Fields["sourceCode"],
	}, nil
}
