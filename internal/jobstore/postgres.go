package jobstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/singularsity/synthd/internal/types"
)

// PostgresStore keeps job records in a single generation_jobs table.
// Expiry is enforced on read rather than by a background sweeper.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore connects to databaseURL and verifies the connection.
func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

// EnsureSchema creates the generation_jobs table if it is missing.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS generation_jobs (
			job_id       UUID        NOT NULL,
			requester_id TEXT        NOT NULL,
			status       TEXT        NOT NULL,
			created_at   TIMESTAMPTZ NOT NULL,
			completed_at TIMESTAMPTZ NOT NULL,
			expires_at   TIMESTAMPTZ NOT NULL,
			request      JSONB       NOT NULL,
			response     JSONB       NOT NULL,
			PRIMARY KEY (job_id, requester_id)
		)`)
	if err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) Put(ctx context.Context, rec *types.JobRecord) error {
	reqJSON, err := json.Marshal(rec.Request)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	respJSON, err := json.Marshal(rec.Response)
	if err != nil {
		return fmt.Errorf("marshal response: %w", err)
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO generation_jobs
			(job_id, requester_id, status, created_at, completed_at, expires_at, request, response)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (job_id, requester_id) DO UPDATE SET
			status       = EXCLUDED.status,
			completed_at = EXCLUDED.completed_at,
			expires_at   = EXCLUDED.expires_at,
			request      = EXCLUDED.request,
			response     = EXCLUDED.response`,
		rec.JobID, rec.RequesterID, rec.Status,
		rec.CreatedAt, rec.CompletedAt, rec.ExpiresAt,
		reqJSON, respJSON)
	if err != nil {
		return fmt.Errorf("insert job %s: %w", rec.JobID, err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, jobID uuid.UUID, requesterID string) (*types.JobRecord, error) {
	var (
		rec      types.JobRecord
		reqJSON  []byte
		respJSON []byte
	)
	err := s.pool.QueryRow(ctx, `
		SELECT job_id, requester_id, status, created_at, completed_at, expires_at, request, response
		FROM generation_jobs
		WHERE job_id = $1 AND requester_id = $2 AND expires_at > NOW()`,
		jobID, requesterID).Scan(
		&rec.JobID, &rec.RequesterID, &rec.Status,
		&rec.CreatedAt, &rec.CompletedAt, &rec.ExpiresAt,
		&reqJSON, &respJSON)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("query job %s: %w", jobID, err)
	}

	if err := json.Unmarshal(reqJSON, &rec.Request); err != nil {
		return nil, fmt.Errorf("unmarshal request: %w", err)
	}
	if err := json.Unmarshal(respJSON, &rec.Response); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}
	return &rec, nil
}

// Close releases the underlying pool.
func (s *PostgresStore) Close() {
	s.pool.Close()
}
