// Package ingest turns raw submissions into indexed fingerprint records.
package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/argus-grade/argus/internal/index"
	"github.com/argus-grade/argus/internal/language"
	"github.com/argus-grade/argus/internal/models"
	"github.com/argus-grade/argus/internal/plagiarism"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type Service struct {
	store        index.SubmissionStore
	kgramSize    int
	winnowWindow int
}

func NewService(store index.SubmissionStore, kgramSize, winnowWindow int) *Service {
	return &Service{
		store:        store,
		kgramSize:    kgramSize,
		winnowWindow: winnowWindow,
	}
}

// ProcessSubmission analyzes a raw submission and stores its fingerprint
// record. A parse failure is not an error: the record is indexed in degraded
// lexical-only form so it still participates in comparisons.
func (s *Service) ProcessSubmission(ctx context.Context, sub *models.Submission) (*models.SubmissionRecord, error) {
	lang, err := models.ParseLanguage(sub.Language)
	if err != nil {
		return nil, err
	}
	if sub.SourceCode == "" {
		return nil, fmt.Errorf("submission %s: %w", sub.SubmissionID, models.ErrEmptySubmission)
	}

	rec, _, err := s.Analyze(sub, lang)
	if err != nil {
		return nil, err
	}

	if err := s.store.Insert(ctx, rec); err != nil {
		return nil, fmt.Errorf("failed to index submission: %w", err)
	}

	return rec, nil
}

// Analyze builds the fingerprint record without persisting it. The parse
// result is returned alongside so callers can derive complexity metrics from
// the same tree.
func (s *Service) Analyze(sub *models.Submission, lang models.ProgrammingLanguage) (*models.SubmissionRecord, *language.Result, error) {
	res, err := language.Analyze(sub.SourceCode, lang)
	if err != nil {
		return nil, nil, err
	}

	if res.Stream.Degraded {
		log.Warn().
			Str("submissionId", sub.SubmissionID).
			Str("language", string(lang)).
			Str("reason", res.Stream.DegradedReason).
			Msg("Parse failed, indexing in lexical-only mode")
	}

	fp := plagiarism.Fingerprint([]byte(sub.SourceCode), res, s.kgramSize, s.winnowWindow)

	id := sub.SubmissionID
	if id == "" {
		id = uuid.NewString()
	}

	rec := &models.SubmissionRecord{
		SubmissionID: id,
		StudentID:    sub.StudentID,
		AssignmentID: sub.AssignmentID,
		Language:     lang,
		Fingerprint:  fp,
		Tokens:       res.Stream.Tokens,
		Degraded:     res.Stream.Degraded,
		SubmittedAt:  time.Now().UTC(),
	}
	return rec, res, nil
}
