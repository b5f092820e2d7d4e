package generator

import (
	"context"
	"math/rand/v2"
	"sort"
	"time"

	"github.com/singularsity/synthd/internal/types"
)

// Capabilities describes what a provider supports. Reported as declared by
// the provider, not verified.
type Capabilities struct {
	MaxRecords         int64    `json:"maxRecords"`
	SupportedFormats   []string `json:"supportedFormats"`
	SupportedDataTypes []string `json:"supportedDataTypes"`
}

// Provider is one named strategy for turning a generation request into
// placeholder rows plus a metrics bundle.
type Provider interface {
	Name() string
	Generate(ctx context.Context, req *types.GenerationRequest) (*types.GenerationResult, error)
	Capabilities() Capabilities
}

// Registry holds the registered providers. It is built eagerly at startup
// and injected into the dispatcher; it is read-only after construction.
type Registry struct {
	providers map[string]Provider
}

// Option configures registry construction.
type Option func(*registryOptions)

type registryOptions struct {
	seed  *uint64
	extra []Provider
}

// WithSeed pins the random source of every built-in provider, making value
// synthesis deterministic. Intended for tests.
func WithSeed(seed uint64) Option {
	return func(o *registryOptions) {
		o.seed = &seed
	}
}

// WithProvider registers an additional provider, replacing any registered
// provider with the same name.
func WithProvider(p Provider) Option {
	return func(o *registryOptions) {
		o.extra = append(o.extra, p)
	}
}

// NewRegistry builds a registry with the five built-in providers, plus any
// extras supplied through options.
func NewRegistry(opts ...Option) *Registry {
	var o registryOptions
	for _, opt := range opts {
		opt(&o)
	}

	newRand := func() *rand.Rand {
		return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if o.seed != nil {
		seed := *o.seed
		newRand = func() *rand.Rand {
			return rand.New(rand.NewPCG(seed, seed))
		}
	}

	r := &Registry{providers: make(map[string]Provider)}
	for _, p := range builtinProviders(newRand) {
		r.providers[p.Name()] = p
	}
	for _, p := range o.extra {
		r.providers[p.Name()] = p
	}
	return r
}

// Get returns the provider registered under name.
func (r *Registry) Get(name string) (Provider, error) {
	p, ok := r.providers[name]
	if !ok {
		return nil, &UnknownProviderError{Name: name}
	}
	return p, nil
}

// Names returns the registered provider names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// synthProvider is a built-in generator: the shared value engine plus a
// declared profile table. Providers differ only in their tables and value
// style, so adding one is a matter of adding a table row.
type synthProvider struct {
	name         string
	profile      profile
	style        valueStyle
	capabilities Capabilities
	newRand      func() *rand.Rand
}

func (p *synthProvider) Name() string { return p.name }

func (p *synthProvider) Capabilities() Capabilities { return p.capabilities }

// Generate produces recordCount rows keyed by the target columns, applies
// row-level post-processing, and synthesizes the metrics bundle from the
// provider's profile table. It never fails for a valid request.
func (p *synthProvider) Generate(ctx context.Context, req *types.GenerationRequest) (*types.GenerationResult, error) {
	if req.RecordCount < 1 {
		return nil, &ValidationError{Field: "recordCount", Message: "must be at least 1"}
	}
	if len(req.TargetColumns) == 0 {
		return nil, &ValidationError{Field: "targetColumns", Message: "must not be empty"}
	}

	start := time.Now()
	rng := p.newRand()
	eng := newEngine(rng, req.DataDomain, p.style)

	rows := make([]types.Record, 0, req.RecordCount)
	for i := 0; i < req.RecordCount; i++ {
		if i%4096 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		rec := make(types.Record, len(req.TargetColumns))
		for _, col := range req.TargetColumns {
			rec[col] = eng.value(col, i)
		}
		if req.AdvancedSettings.PreserveCorrelations {
			eng.applyCorrelations(rec, req.TargetColumns)
		}
		if rng.Float64() < req.AdvancedSettings.OutlierRate/100 {
			eng.applyOutlier(rec, req.TargetColumns)
		}
		if rng.Float64() < req.AdvancedSettings.MissingDataRate/100 {
			eng.applyMissingData(rec, req.TargetColumns)
		}
		rows = append(rows, rec)
	}

	duration := time.Since(start).Seconds()
	return &types.GenerationResult{
		Status:                    types.StatusCompleted,
		Provider:                  p.name,
		Rows:                      rows,
		Metrics:                   p.profile.synthesize(rng, req, duration),
		GenerationDurationSeconds: duration,
	}, nil
}
