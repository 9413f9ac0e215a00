package plagiarism

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/argus-grade/argus/internal/infra/redis"
	"github.com/argus-grade/argus/internal/models"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const statusTTL = 12 * time.Hour

// ErrStatusNotFound reports that no pipeline status is recorded for an
// assignment.
var ErrStatusNotFound = errors.New("status not found")

// UpdateStatus records the current batch pipeline stage for an assignment
// in Redis so the API layer can answer progress queries.
func UpdateStatus(ctx context.Context, redisClient *redis.Client, assignmentID string, step models.Step) error {
	validSteps := map[models.Step]bool{
		models.StepIdle:        true,
		models.StepReceived:    true,
		models.StepIndexing:    true,
		models.StepComparing:   true,
		models.StepAggregating: true,
		models.StepCompleted:   true,
		models.StepFailed:      true,
	}
	if !validSteps[step] {
		return fmt.Errorf("unknown step: %s", step)
	}

	rkey := "plagiarism_status:" + assignmentID

	if err := redisClient.Set(ctx, rkey, string(step), statusTTL).Err(); err != nil {
		log.Error().Err(err).
			Str("step", string(step)).
			Str("assignmentId", assignmentID).
			Msg("Failed to update status in Redis")
		return fmt.Errorf("failed to update status in Redis: %w", err)
	}

	log.Trace().
		Str("step", string(step)).
		Str("assignmentId", assignmentID).
		Msg("Status updated")

	return nil
}

// ReadStatus returns the recorded pipeline stage for an assignment.
func ReadStatus(ctx context.Context, redisClient *redis.Client, assignmentID string) (models.Step, error) {
	rkey := "plagiarism_status:" + assignmentID

	val, err := redisClient.Get(ctx, rkey).Result()
	if err == goredis.Nil {
		return "", ErrStatusNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to read status from Redis: %w", err)
	}

	return models.Step(val), nil
}
