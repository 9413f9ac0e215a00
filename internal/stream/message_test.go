package stream

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSubmission(t *testing.T) {
	msg := &StreamMessage{
		ID: "1700000000000-0",
		Fields: map[string]string{
			"submissionId": "s1",
			"studentId":    "stu-9",
			"assignmentId": "hw-1",
			"language":     "python",
			"sourceCode":   "def f(a):\n    return a\n",
		},
	}

	sub, err := ParseSubmission(msg)
	require.NoError(t, err)
	assert.Equal(t, "s1", sub.SubmissionID)
	assert.Equal(t, "stu-9", sub.StudentID)
	assert.Equal(t, "hw-1", sub.AssignmentID)
	assert.Equal(t, "python", sub.Language)
	assert.NotEmpty(t, sub.SourceCode)
}

func TestParseSubmissionMissingField(t *testing.T) {
	msg := &StreamMessage{
		ID: "1700000000000-1",
		Fields: map[string]string{
			"studentId":    "stu-9",
			"assignmentId": "hw-1",
			"language":     "python",
		},
	}

	_, err := ParseSubmission(msg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sourceCode")
}

func TestParseSubmissionOptionalID(t *testing.T) {
	msg := &StreamMessage{
		ID: "1700000000000-2",
		Fields: map[string]string{
			"studentId":    "stu-9",
			"assignmentId": "hw-1",
			"language":     "python",
			"sourceCode":   "x = 1\n",
		},
	}

	sub, err := ParseSubmission(msg)
	require.NoError(t, err)
	assert.Empty(t, sub.SubmissionID, "submissionId is assigned downstream when absent")
}
