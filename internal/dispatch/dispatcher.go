// Package dispatch routes generation requests to a provider, rescues
// failures with a one-shot fallback, and persists the outcome best-effort.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/singularsity/synthd/internal/export"
	"github.com/singularsity/synthd/internal/generator"
	"github.com/singularsity/synthd/internal/jobstore"
	"github.com/singularsity/synthd/internal/storage"
	"github.com/singularsity/synthd/internal/types"
)

const (
	// jobRetention is how long persisted job metadata stays readable.
	jobRetention = 30 * 24 * time.Hour

	// downloadTTL bounds the lifetime of minted download links.
	downloadTTL = time.Hour

	// persistTimeout caps how long a request waits on persistence before
	// responding anyway.
	persistTimeout = 15 * time.Second
)

// Dispatcher coordinates one generation job end to end: provider selection,
// generation with at-most-once fallback, and best-effort persistence.
type Dispatcher struct {
	registry  *generator.Registry
	fallback  generator.Provider
	objects   storage.ObjectStore
	jobs      jobstore.JobStore
	namespace string
	logger    zerolog.Logger

	now   func() time.Time
	newID func() uuid.UUID
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithObjectStore enables dataset persistence and download links.
func WithObjectStore(s storage.ObjectStore, namespace string) Option {
	return func(d *Dispatcher) {
		d.objects = s
		d.namespace = namespace
	}
}

// WithJobStore enables job metadata persistence and status lookups.
func WithJobStore(s jobstore.JobStore) Option {
	return func(d *Dispatcher) { d.jobs = s }
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(d *Dispatcher) { d.now = now }
}

// WithIDSource overrides job id generation, for tests.
func WithIDSource(newID func() uuid.UUID) Option {
	return func(d *Dispatcher) { d.newID = newID }
}

// New builds a Dispatcher around a provider registry and a fallback
// provider. Stores are optional; without them jobs still complete but leave
// no trace.
func New(registry *generator.Registry, fallback generator.Provider, logger zerolog.Logger, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		registry: registry,
		fallback: fallback,
		logger:   logger.With().Str("component", "dispatcher").Logger(),
		now:      time.Now,
		newID:    uuid.New,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Submit runs one generation job and returns its result. Provider failures
// trigger exactly one fallback attempt; persistence failures are logged and
// never surface to the caller.
func (d *Dispatcher) Submit(ctx context.Context, req *types.GenerationRequest) (*types.GenerationResult, error) {
	if err := validateSubmit(req); err != nil {
		return nil, err
	}
	req.Normalize()

	provider, err := d.resolveProvider(req)
	if err != nil {
		return nil, err
	}

	start := d.now()
	result, err := provider.Generate(ctx, req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		result, err = d.rescue(ctx, req, provider, err)
		if err != nil {
			return nil, err
		}
	}

	result.JobID = d.newID()
	jobsTotal.WithLabelValues(result.Provider).Inc()
	generationDuration.WithLabelValues(result.Provider).Observe(result.GenerationDurationSeconds)

	d.persist(ctx, req, result, start)

	d.logger.Info().
		Str("job_id", result.JobID.String()).
		Str("provider", result.Provider).
		Int("records", len(result.Rows)).
		Float64("duration_s", result.GenerationDurationSeconds).
		Msg("generation job completed")
	return result, nil
}

func validateSubmit(req *types.GenerationRequest) error {
	switch {
	case req.RequesterID == "":
		return &generator.ValidationError{Field: "requesterId", Message: "is required"}
	case req.DataDomain == "":
		return &generator.ValidationError{Field: "dataDomain", Message: "is required"}
	case req.RecordCount < 1:
		return &generator.ValidationError{Field: "recordCount", Message: "must be at least 1"}
	case len(req.TargetColumns) == 0:
		return &generator.ValidationError{Field: "targetColumns", Message: "must not be empty"}
	}
	if err := req.Validate(); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			// Report the first violation only.
			ve := verrs[0]
			return &generator.ValidationError{Field: ve.Field(), Message: fmt.Sprintf("failed %s validation", ve.Tag())}
		}
		return &generator.ValidationError{Message: err.Error()}
	}
	return nil
}

func (d *Dispatcher) resolveProvider(req *types.GenerationRequest) (generator.Provider, error) {
	if req.ProviderName != "" {
		return d.registry.Get(req.ProviderName)
	}
	return d.registry.Select(req), nil
}

// rescue runs the fallback provider once. A job that already ran on the
// fallback is not retried.
func (d *Dispatcher) rescue(ctx context.Context, req *types.GenerationRequest, failed generator.Provider, cause error) (*types.GenerationResult, error) {
	if failed.Name() == d.fallback.Name() {
		return nil, &generator.GenerationError{Provider: failed.Name(), Cause: cause}
	}

	d.logger.Warn().
		Err(cause).
		Str("provider", failed.Name()).
		Msg("provider failed, switching to fallback")
	fallbackActivations.Inc()

	result, err := d.fallback.Generate(ctx, req)
	if err != nil {
		return nil, &generator.GenerationError{Provider: d.fallback.Name(), Cause: err}
	}
	return result, nil
}

// persist writes the dataset and job record concurrently under a bounded
// timeout. Every failure is logged and counted, none is returned.
func (d *Dispatcher) persist(ctx context.Context, req *types.GenerationRequest, result *types.GenerationResult, start time.Time) {
	if d.objects == nil && d.jobs == nil {
		return
	}

	pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), persistTimeout)
	defer cancel()

	g, gctx := errgroup.WithContext(pctx)

	if d.objects != nil {
		g.Go(func() error {
			if err := d.persistDataset(gctx, req, result, start); err != nil {
				persistenceFailures.WithLabelValues("dataset").Inc()
				d.logger.Error().Err(err).
					Str("job_id", result.JobID.String()).
					Msg("dataset persistence failed")
			}
			return nil
		})
	}

	// Wait for the dataset upload before writing the record so the record
	// reflects the final storage location.
	_ = g.Wait()

	if d.jobs != nil {
		if err := d.persistRecord(pctx, req, result, start); err != nil {
			persistenceFailures.WithLabelValues("record").Inc()
			d.logger.Error().Err(err).
				Str("job_id", result.JobID.String()).
				Msg("job record persistence failed")
		}
	}
}

func (d *Dispatcher) persistDataset(ctx context.Context, req *types.GenerationRequest, result *types.GenerationResult, start time.Time) error {
	data, contentType, err := export.EncodeRows(req.OutputFormat, req.TargetColumns, result.Rows)
	if err != nil {
		return fmt.Errorf("encode dataset: %w", err)
	}

	model := req.ModelSettings.ModelName
	if model == "" {
		model = result.Provider
	}

	key := fmt.Sprintf("%s/%s/%s.%s", d.namespace, req.RequesterID, result.JobID, req.OutputFormat)
	metadata := map[string]string{
		"job_id":           result.JobID.String(),
		"requester_id":     req.RequesterID,
		"data_domain":      req.DataDomain,
		"provider":         result.Provider,
		"model":            model,
		"record_count":     fmt.Sprintf("%d", len(result.Rows)),
		"generated_at":     start.UTC().Format(time.RFC3339),
		"innovation_score": fmt.Sprintf("%.1f", result.Metrics.Provider.InnovationScore),
	}
	if err := d.objects.Upload(ctx, key, data, contentType, metadata); err != nil {
		return fmt.Errorf("upload dataset: %w", err)
	}
	result.StorageLocation = key

	url, err := d.objects.SignedURL(ctx, key, downloadTTL)
	if err != nil {
		return fmt.Errorf("sign download url: %w", err)
	}
	result.DownloadURL = url
	return nil
}

func (d *Dispatcher) persistRecord(ctx context.Context, req *types.GenerationRequest, result *types.GenerationResult, start time.Time) error {
	completed := d.now()
	rec := &types.JobRecord{
		JobID:       result.JobID,
		RequesterID: req.RequesterID,
		Status:      result.Status,
		CreatedAt:   start,
		CompletedAt: completed,
		ExpiresAt:   start.Add(jobRetention),
		Request:     req,
		Response: types.JobResponseSummary{
			RecordCount:     len(result.Rows),
			StorageLocation: result.StorageLocation,
			GenerationTime:  result.GenerationDurationSeconds,
			InnovationScore: result.Metrics.Provider.InnovationScore,
		},
	}
	return d.jobs.Put(ctx, rec)
}

// JobStatus looks up a job for a requester. Any miss or store failure
// degrades to a completed summary with a note instead of an error, so
// clients polling old jobs get a stable answer.
func (d *Dispatcher) JobStatus(ctx context.Context, jobID, requesterID string) *types.JobSummary {
	degraded := &types.JobSummary{
		JobID:       jobID,
		RequesterID: requesterID,
		Status:      types.StatusCompleted,
		Note:        "metadata not available",
	}

	if d.jobs == nil {
		return degraded
	}
	id, err := uuid.Parse(jobID)
	if err != nil {
		return degraded
	}

	rec, err := d.jobs.Get(ctx, id, requesterID)
	if err != nil {
		if !errors.Is(err, jobstore.ErrNotFound) {
			d.logger.Error().Err(err).Str("job_id", jobID).Msg("job lookup failed")
		}
		return degraded
	}

	resp := rec.Response
	return &types.JobSummary{
		JobID:       rec.JobID.String(),
		RequesterID: rec.RequesterID,
		Status:      rec.Status,
		CreatedAt:   &rec.CreatedAt,
		CompletedAt: &rec.CompletedAt,
		Response:    &resp,
	}
}
