// Package jobstore keeps per-job metadata so requesters can look up jobs
// after the fact. Records carry an expiry; expired jobs read as missing.
package jobstore

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/singularsity/synthd/internal/types"
)

// ErrNotFound is returned when no live record exists for the requested job.
var ErrNotFound = errors.New("job not found")

// JobStore persists and retrieves job metadata keyed by job and requester.
type JobStore interface {
	// Put writes or replaces the record for (rec.JobID, rec.RequesterID).
	Put(ctx context.Context, rec *types.JobRecord) error

	// Get returns the record for the pair, or ErrNotFound if it does not
	// exist or has expired.
	Get(ctx context.Context, jobID uuid.UUID, requesterID string) (*types.JobRecord, error)
}
