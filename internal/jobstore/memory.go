package jobstore

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/singularsity/synthd/internal/types"
)

type memoryKey struct {
	jobID       uuid.UUID
	requesterID string
}

// MemoryStore is an in-process JobStore used in tests and when no database
// is configured.
type MemoryStore struct {
	mu   sync.RWMutex
	recs map[memoryKey]*types.JobRecord
	now  func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		recs: make(map[memoryKey]*types.JobRecord),
		now:  time.Now,
	}
}

func (s *MemoryStore) Put(_ context.Context, rec *types.JobRecord) error {
	stored := *rec

	s.mu.Lock()
	defer s.mu.Unlock()
	s.recs[memoryKey{jobID: rec.JobID, requesterID: rec.RequesterID}] = &stored
	return nil
}

func (s *MemoryStore) Get(_ context.Context, jobID uuid.UUID, requesterID string) (*types.JobRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.recs[memoryKey{jobID: jobID, requesterID: requesterID}]
	if !ok || !rec.ExpiresAt.After(s.now()) {
		return nil, ErrNotFound
	}
	out := *rec
	return &out, nil
}
