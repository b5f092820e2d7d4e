package jobstore

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/singularsity/synthd/internal/types"
)

// setupPostgresStore connects to the database named by TEST_DATABASE_URL.
// Tests using it are skipped in short mode and when no database is
// configured.
func setupPostgresStore(t *testing.T) *PostgresStore {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping test that requires database")
	}
	databaseURL := os.Getenv("TEST_DATABASE_URL")
	if databaseURL == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	store, err := NewPostgresStore(ctx, databaseURL)
	require.NoError(t, err)
	t.Cleanup(store.Close)
	require.NoError(t, store.EnsureSchema(ctx))
	return store
}

func TestPostgresStoreRoundTrip(t *testing.T) {
	store := setupPostgresStore(t)
	ctx := context.Background()
	jobID := uuid.New()

	now := time.Now().UTC().Truncate(time.Microsecond)
	rec := &types.JobRecord{
		JobID:       jobID,
		RequesterID: "req-pg-1",
		Status:      types.StatusCompleted,
		CreatedAt:   now,
		CompletedAt: now,
		ExpiresAt:   now.Add(30 * 24 * time.Hour),
		Request: &types.GenerationRequest{
			DataDomain:    "retail",
			RecordCount:   10,
			TargetColumns: []string{"order_id", "amount"},
			RequesterID:   "req-pg-1",
		},
		Response: types.JobResponseSummary{
			RecordCount:     10,
			StorageLocation: "ns/req-pg-1/" + jobID.String() + ".json",
			GenerationTime:  0.42,
			InnovationScore: 98.7,
		},
	}
	require.NoError(t, store.Put(ctx, rec))

	got, err := store.Get(ctx, jobID, "req-pg-1")
	require.NoError(t, err)
	assert.Equal(t, rec.JobID, got.JobID)
	assert.Equal(t, rec.Status, got.Status)
	assert.Equal(t, rec.Response, got.Response)
	require.NotNil(t, got.Request)
	assert.Equal(t, "retail", got.Request.DataDomain)
}

func TestPostgresStoreUpsert(t *testing.T) {
	store := setupPostgresStore(t)
	ctx := context.Background()
	jobID := uuid.New()

	now := time.Now().UTC()
	rec := &types.JobRecord{
		JobID:       jobID,
		RequesterID: "req-pg-1",
		Status:      types.StatusCompleted,
		CreatedAt:   now,
		CompletedAt: now,
		ExpiresAt:   now.Add(time.Hour),
		Request:     &types.GenerationRequest{DataDomain: "retail", RecordCount: 1, TargetColumns: []string{"a"}, RequesterID: "req-pg-1"},
		Response:    types.JobResponseSummary{RecordCount: 1},
	}
	require.NoError(t, store.Put(ctx, rec))

	rec.Response.RecordCount = 77
	require.NoError(t, store.Put(ctx, rec))

	got, err := store.Get(ctx, jobID, "req-pg-1")
	require.NoError(t, err)
	assert.Equal(t, 77, got.Response.RecordCount)
}

func TestPostgresStoreMisses(t *testing.T) {
	store := setupPostgresStore(t)
	ctx := context.Background()
	jobID := uuid.New()

	_, err := store.Get(ctx, jobID, "req-pg-1")
	assert.ErrorIs(t, err, ErrNotFound)

	// Expired rows read as missing.
	now := time.Now().UTC()
	rec := &types.JobRecord{
		JobID:       jobID,
		RequesterID: "req-pg-1",
		Status:      types.StatusCompleted,
		CreatedAt:   now.Add(-31 * 24 * time.Hour),
		CompletedAt: now.Add(-31 * 24 * time.Hour),
		ExpiresAt:   now.Add(-24 * time.Hour),
		Request:     &types.GenerationRequest{DataDomain: "retail", RecordCount: 1, TargetColumns: []string{"a"}, RequesterID: "req-pg-1"},
		Response:    types.JobResponseSummary{RecordCount: 1},
	}
	require.NoError(t, store.Put(ctx, rec))

	_, err = store.Get(ctx, jobID, "req-pg-1")
	assert.ErrorIs(t, err, ErrNotFound)

	// Requester scoping applies on live rows too.
	rec.JobID = uuid.New()
	rec.ExpiresAt = now.Add(time.Hour)
	require.NoError(t, store.Put(ctx, rec))
	_, err = store.Get(ctx, rec.JobID, "someone-else")
	assert.ErrorIs(t, err, ErrNotFound)
}
