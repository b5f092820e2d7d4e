package generator

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/singularsity/synthd/internal/types"
)

// OpenAIName identifies the GPT-backed provider. It is registered only
// when an API key is configured and is never auto-selected.
const OpenAIName = "openai"

// openAIBatchSize caps rows per completion call; larger requests are split
// into sequential batches with a pause in between to respect rate limits.
const openAIBatchSize = 100

const openAISystemPrompt = "You are a synthetic data generation expert. " +
	"Generate realistic, diverse synthetic data that preserves statistical " +
	"properties while ensuring privacy."

// chatCompleter is the slice of the OpenAI client the provider needs.
type chatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// OpenAIProvider generates rows through batched chat completions instead of
// the local heuristic engine. Metrics still come from a declared profile
// table, same as every other provider.
type OpenAIProvider struct {
	client     chatCompleter
	model      string
	batchDelay time.Duration
	profile    profile
	newRand    func() *rand.Rand
}

// NewOpenAI builds the GPT-backed provider. An empty model selects
// gpt-4-turbo-preview.
func NewOpenAI(apiKey, model string) *OpenAIProvider {
	if model == "" {
		model = openai.GPT4TurboPreview
	}
	return &OpenAIProvider{
		client:     openai.NewClient(apiKey),
		model:      model,
		batchDelay: time.Second,
		profile:    openAIProfile(),
		newRand: func() *rand.Rand {
			return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
		},
	}
}

func (p *OpenAIProvider) Name() string { return OpenAIName }

func (p *OpenAIProvider) Capabilities() Capabilities {
	return Capabilities{
		MaxRecords:         100_000, // bounded by API rate limits
		SupportedFormats:   []string{"csv", "json"},
		SupportedDataTypes: []string{"tabular", "text", "structured"},
	}
}

// Generate requests rows in batches and assembles them into one result.
// Any API or parse failure is returned to the dispatcher, which falls back.
func (p *OpenAIProvider) Generate(ctx context.Context, req *types.GenerationRequest) (*types.GenerationResult, error) {
	if req.RecordCount < 1 {
		return nil, &ValidationError{Field: "recordCount", Message: "must be at least 1"}
	}
	if len(req.TargetColumns) == 0 {
		return nil, &ValidationError{Field: "targetColumns", Message: "must not be empty"}
	}

	start := time.Now()
	rows := make([]types.Record, 0, req.RecordCount)
	for len(rows) < req.RecordCount {
		size := req.RecordCount - len(rows)
		if size > openAIBatchSize {
			size = openAIBatchSize
		}

		batch, err := p.generateBatch(ctx, req, size)
		if err != nil {
			return nil, err
		}
		rows = append(rows, batch...)

		if len(rows) < req.RecordCount {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(p.batchDelay):
			}
		}
	}
	if len(rows) > req.RecordCount {
		rows = rows[:req.RecordCount]
	}

	duration := time.Since(start).Seconds()
	return &types.GenerationResult{
		Status:                    types.StatusCompleted,
		Provider:                  OpenAIName,
		Rows:                      rows,
		Metrics:                   p.profile.synthesize(p.newRand(), req, duration),
		GenerationDurationSeconds: duration,
	}, nil
}

func (p *OpenAIProvider) generateBatch(ctx context.Context, req *types.GenerationRequest, size int) ([]types.Record, error) {
	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: openAISystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: buildBatchPrompt(req, size)},
		},
		Temperature: 0.7,
		MaxTokens:   4000,
	})
	if err != nil {
		return nil, fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return nil, fmt.Errorf("empty completion response")
	}

	rows, err := parseBatchRows(resp.Choices[0].Message.Content, req.TargetColumns)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("completion produced no rows")
	}

	// The model does not always return exactly the requested count; pad
	// short batches by cycling what we got.
	if base := len(rows); base < size {
		for len(rows) < size {
			rows = append(rows, rows[len(rows)%base])
		}
	}
	return rows[:size], nil
}

// buildBatchPrompt asks for a JSON array of records covering the target
// columns, optionally shaped by a peek at the caller's source sample.
func buildBatchPrompt(req *types.GenerationRequest, size int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Generate %d rows of synthetic %s data as a JSON array of objects.\n", size, req.DataDomain)
	fmt.Fprintf(&b, "Each object must have exactly these keys: %s.\n", strings.Join(req.TargetColumns, ", "))
	fmt.Fprintf(&b, "Privacy level: %s. Do not reproduce real personal data.\n", req.ModelSettings.PrivacyLevel)
	if len(req.SourceSample) > 0 {
		sample := req.SourceSample
		if len(sample) > 3 {
			sample = sample[:3]
		}
		if enc, err := json.Marshal(sample); err == nil {
			fmt.Fprintf(&b, "Match the shape and value style of these examples: %s\n", enc)
		}
	}
	b.WriteString("Respond with only the JSON array, no explanations.")
	return b.String()
}

// parseBatchRows decodes a completion into records, tolerating markdown
// code fences and restricting each record to the target columns. Missing
// columns come back as nil so row shape stays uniform.
func parseBatchRows(content string, columns []string) ([]types.Record, error) {
	cleaned := strings.TrimSpace(content)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	var raw []map[string]any
	if err := json.Unmarshal([]byte(cleaned), &raw); err != nil {
		return nil, fmt.Errorf("parse completion rows: %w", err)
	}

	rows := make([]types.Record, 0, len(raw))
	for _, item := range raw {
		rec := make(types.Record, len(columns))
		for _, col := range columns {
			rec[col] = item[col]
		}
		rows = append(rows, rec)
	}
	return rows, nil
}

func openAIProfile() profile {
	return profile{
		quality: qualitySpec{
			completeness: span(92, 6),
			accuracy:     span(88, 10),
			consistency:  span(85, 12),
			validity:     span(90, 8),
			fidelity:     span(86, 12),
			utility:      span(84, 14),
		},
		privacy: map[string]privacyRow{
			types.PrivacyHigh:   {kAnonymity: 10, budget: 0.2, noise: 0.05, risk: "Low"},
			types.PrivacyMedium: {kAnonymity: 5, budget: 0.5, noise: 0.1, risk: "Medium"},
			types.PrivacyLow:    {kAnonymity: 5, budget: 0.5, noise: 0.1, risk: "Medium"},
		},
		bias: biasSpec{
			overall:             span(12, 8),
			fairness:            span(82, 15),
			parity:              span(0.85, 0.1),
			odds:                span(0.82, 0.12),
			balance:             "Balanced",
			detectGated:         true,
			neutralWhenNoDetect: true,
		},
		provider: providerSpec{
			innovation: span(88, 10),
			confidence: span(85, 12),
			perColumn:  8,
			effMode:    effVolume,
		},
		dpOffAtLow: true,
	}
}
