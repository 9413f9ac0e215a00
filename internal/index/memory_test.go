package index

import (
	"context"
	"testing"
	"time"

	"github.com/argus-grade/argus/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rec(id, assignment, contentHash string) *models.SubmissionRecord {
	return &models.SubmissionRecord{
		SubmissionID: id,
		AssignmentID: assignment,
		Language:     models.LangPython,
		Fingerprint:  models.StructuralFingerprint{ContentHash: contentHash},
	}
}

func TestMemoryStoreSubmissions(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.Insert(ctx, rec("s1", "hw-1", "aaa")))
	require.NoError(t, store.Insert(ctx, rec("s2", "hw-1", "bbb")))
	require.NoError(t, store.Insert(ctx, rec("s3", "hw-2", "ccc")))

	recs, err := store.ListByAssignment(ctx, "hw-1")
	require.NoError(t, err)
	assert.Len(t, recs, 2)

	count, err := store.CountByAssignment(ctx, "hw-1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	count, err = store.CountByAssignment(ctx, "hw-9")
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestMemoryStoreFindByContentHash(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.Insert(ctx, rec("s1", "hw-1", "aaa")))

	found, err := store.FindByContentHash(ctx, "hw-1", "aaa")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "s1", found.SubmissionID)

	missing, err := store.FindByContentHash(ctx, "hw-1", "zzz")
	require.NoError(t, err)
	assert.Nil(t, missing)

	wrongAssignment, err := store.FindByContentHash(ctx, "hw-2", "aaa")
	require.NoError(t, err)
	assert.Nil(t, wrongAssignment)
}

func TestMemoryStoreInsertStampsTime(t *testing.T) {
	store := NewMemoryStore()
	r := rec("s1", "hw-1", "aaa")
	require.NoError(t, store.Insert(context.Background(), r))
	assert.False(t, r.SubmittedAt.IsZero())
}

func TestMemoryStoreLatestBatchReport(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	older := &models.BatchPlagiarismReport{AssignmentID: "hw-1", FlaggedPairs: 1, GeneratedAt: time.Now().Add(-time.Hour)}
	newer := &models.BatchPlagiarismReport{AssignmentID: "hw-1", FlaggedPairs: 2, GeneratedAt: time.Now()}
	require.NoError(t, store.InsertBatchReport(ctx, older))
	require.NoError(t, store.InsertBatchReport(ctx, newer))

	latest, err := store.LatestBatchReport(ctx, "hw-1")
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, 2, latest.FlaggedPairs)

	none, err := store.LatestBatchReport(ctx, "hw-2")
	require.NoError(t, err)
	assert.Nil(t, none)
}
