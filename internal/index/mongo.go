package index

import (
	"context"
	"fmt"
	"time"

	mongoInfra "github.com/argus-grade/argus/internal/infra/mongo"
	"github.com/argus-grade/argus/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	submissionsCollection = "submissions"
	reportsCollection     = "batch_reports"
)

// MongoStore implements SubmissionStore and ReportStore on MongoDB.
type MongoStore struct {
	db *mongo.Database
}

func NewMongoStore(client *mongoInfra.Client) *MongoStore {
	return &MongoStore{db: client.Database}
}

func (s *MongoStore) Insert(ctx context.Context, rec *models.SubmissionRecord) error {
	if rec.SubmittedAt.IsZero() {
		rec.SubmittedAt = time.Now().UTC()
	}

	_, err := s.db.Collection(submissionsCollection).InsertOne(ctx, rec)
	if err != nil {
		return fmt.Errorf("failed to insert submission: %w", err)
	}

	return nil
}

func (s *MongoStore) ListByAssignment(ctx context.Context, assignmentID string) ([]*models.SubmissionRecord, error) {
	filter := bson.M{"assignmentId": assignmentID}

	cursor, err := s.db.Collection(submissionsCollection).Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to find submissions: %w", err)
	}
	defer cursor.Close(ctx)

	var recs []*models.SubmissionRecord
	if err := cursor.All(ctx, &recs); err != nil {
		return nil, fmt.Errorf("failed to decode submissions: %w", err)
	}

	return recs, nil
}

func (s *MongoStore) FindByContentHash(ctx context.Context, assignmentID, contentHash string) (*models.SubmissionRecord, error) {
	filter := bson.M{"assignmentId": assignmentID, "fingerprint.contentHash": contentHash}

	var rec models.SubmissionRecord
	err := s.db.Collection(submissionsCollection).FindOne(ctx, filter).Decode(&rec)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find submission: %w", err)
	}

	return &rec, nil
}

func (s *MongoStore) CountByAssignment(ctx context.Context, assignmentID string) (int64, error) {
	filter := bson.M{"assignmentId": assignmentID}

	count, err := s.db.Collection(submissionsCollection).CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to count submissions: %w", err)
	}

	return count, nil
}

func (s *MongoStore) InsertBatchReport(ctx context.Context, report *models.BatchPlagiarismReport) error {
	_, err := s.db.Collection(reportsCollection).InsertOne(ctx, report)
	if err != nil {
		return fmt.Errorf("failed to insert batch report: %w", err)
	}

	return nil
}

func (s *MongoStore) LatestBatchReport(ctx context.Context, assignmentID string) (*models.BatchPlagiarismReport, error) {
	filter := bson.M{"assignmentId": assignmentID}
	opts := options.FindOne().SetSort(bson.D{{Key: "generatedAt", Value: -1}})

	var report models.BatchPlagiarismReport
	err := s.db.Collection(reportsCollection).FindOne(ctx, filter, opts).Decode(&report)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find batch report: %w", err)
	}

	return &report, nil
}
