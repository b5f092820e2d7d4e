// Package types provides type definitions for structured data used throughout the synthd system.
package types

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// Output formats accepted by the generation API.
const (
	FormatCSV  = "csv"
	FormatJSON = "json"
)

// Privacy levels accepted in model settings.
const (
	PrivacyLow    = "low"
	PrivacyMedium = "medium"
	PrivacyHigh   = "high"
)

// StatusCompleted is the terminal job status. Generation is synchronous, so
// every job the API reports on has already completed.
const StatusCompleted = "completed"

// Record is one generated row, keyed by target column name. A value may be
// nil when missing-data injection selected that column.
type Record map[string]any

// ModelSettings carries the requested model and privacy operating point.
type ModelSettings struct {
	ModelName      string  `json:"modelName"`
	AccuracyTarget float64 `json:"accuracyTarget"`
	PrivacyLevel   string  `json:"privacyLevel" validate:"omitempty,oneof=low medium high"`
}

// BiasSettings controls bias detection and which attributes it covers.
type BiasSettings struct {
	DetectBias          bool     `json:"detectBias"`
	FairnessMetrics     []string `json:"fairnessMetrics,omitempty"`
	SensitiveAttributes []string `json:"sensitiveAttributes,omitempty"`
}

// AdvancedSettings tunes row-level post-processing. Rates are percentages.
type AdvancedSettings struct {
	PreserveCorrelations bool    `json:"preserveCorrelations"`
	OutlierRate          float64 `json:"outlierRate" validate:"gte=0,lte=100"`
	Seasonality          bool    `json:"seasonality"`
	MissingDataRate      float64 `json:"missingDataRate" validate:"gte=0,lte=100"`
}

// GenerationRequest describes one generation job.
type GenerationRequest struct {
	DataDomain       string           `json:"dataDomain" validate:"required"`
	RecordCount      int              `json:"recordCount" validate:"required,min=1"`
	TargetColumns    []string         `json:"targetColumns" validate:"required,min=1,dive,required"`
	OutputFormat     string           `json:"outputFormat" validate:"omitempty,oneof=csv json"`
	ModelSettings    ModelSettings    `json:"modelSettings"`
	BiasSettings     BiasSettings     `json:"biasSettings"`
	AdvancedSettings AdvancedSettings `json:"advancedSettings"`
	SourceSample     []Record         `json:"sourceSample,omitempty"`
	RequesterID      string           `json:"requesterId" validate:"required"`
	ProviderName     string           `json:"providerName,omitempty"`
}

// Validate validates the GenerationRequest using the validator.
func (r *GenerationRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Normalize fills optional fields with their defaults: json output and
// medium privacy. Called once at dispatch time so downstream code can rely
// on both being set.
func (r *GenerationRequest) Normalize() {
	if r.OutputFormat == "" {
		r.OutputFormat = FormatJSON
	}
	if r.ModelSettings.PrivacyLevel == "" {
		r.ModelSettings.PrivacyLevel = PrivacyMedium
	}
}

// QualityMetrics are the six reported data-quality percentages.
type QualityMetrics struct {
	Completeness float64 `json:"completeness"`
	Accuracy     float64 `json:"accuracy"`
	Consistency  float64 `json:"consistency"`
	Validity     float64 `json:"validity"`
	Fidelity     float64 `json:"fidelity"`
	Utility      float64 `json:"utility"`
}

// PrivacyMetrics are the declared privacy figures for a generation run.
type PrivacyMetrics struct {
	AnonymizationLevel   string  `json:"anonymizationLevel"`
	KAnonymity           int     `json:"kAnonymity"`
	DifferentialPrivacy  bool    `json:"differentialPrivacy"`
	ReidentificationRisk string  `json:"reidentificationRisk"`
	PrivacyBudget        float64 `json:"privacyBudget"`
	NoiseLevel           float64 `json:"noiseLevel"`
}

// BiasMetrics are the declared fairness figures for a generation run.
type BiasMetrics struct {
	OverallBias        float64 `json:"overallBias"`
	FairnessScore      float64 `json:"fairnessScore"`
	BalanceDescription string  `json:"balanceDescription"`
	DemographicParity  float64 `json:"demographicParity"`
	EqualizedOdds      float64 `json:"equalizedOdds"`
}

// ProviderMetrics are the provider-specific performance figures.
type ProviderMetrics struct {
	InnovationScore float64 `json:"innovationScore"`
	DataComplexity  float64 `json:"dataComplexity"`
	ModelConfidence float64 `json:"modelConfidence"`
	Efficiency      float64 `json:"efficiency"`
}

// Metrics bundles the full metric report for one generation run.
type Metrics struct {
	Quality  QualityMetrics  `json:"quality"`
	Privacy  PrivacyMetrics  `json:"privacy"`
	Bias     BiasMetrics     `json:"bias"`
	Provider ProviderMetrics `json:"providerMetrics"`
}

// GenerationResult is the output of one job. Immutable after creation.
type GenerationResult struct {
	JobID                     uuid.UUID `json:"jobId"`
	Status                    string    `json:"status"`
	Provider                  string    `json:"provider"`
	Rows                      []Record  `json:"rows"`
	Metrics                   Metrics   `json:"metrics"`
	GenerationDurationSeconds float64   `json:"generationDurationSeconds"`
	DownloadURL               string    `json:"downloadUrl,omitempty"`
	StorageLocation           string    `json:"storageLocation,omitempty"`
}

// JobResponseSummary is the condensed result stored on a job record.
type JobResponseSummary struct {
	RecordCount     int     `json:"recordCount"`
	StorageLocation string  `json:"storageLocation,omitempty"`
	GenerationTime  float64 `json:"generationTime"`
	InnovationScore float64 `json:"innovationScore"`
}

// JobRecord is the persisted job metadata. Row data is never stored here;
// it lives in object storage.
type JobRecord struct {
	JobID       uuid.UUID          `json:"jobId"`
	RequesterID string             `json:"requesterId"`
	Status      string             `json:"status"`
	CreatedAt   time.Time          `json:"createdAt"`
	CompletedAt time.Time          `json:"completedAt"`
	Request     *GenerationRequest `json:"request"`
	Response    JobResponseSummary `json:"response"`
	ExpiresAt   time.Time          `json:"expiresAt"`
}

// JobSummary is the status-endpoint view of a job. When the job store is
// unavailable or has no record, the summary degrades to a completed status
// with an explanatory note instead of an error.
type JobSummary struct {
	JobID       string              `json:"jobId"`
	RequesterID string              `json:"requesterId"`
	Status      string              `json:"status"`
	Note        string              `json:"note,omitempty"`
	CreatedAt   *time.Time          `json:"createdAt,omitempty"`
	CompletedAt *time.Time          `json:"completedAt,omitempty"`
	Response    *JobResponseSummary `json:"response,omitempty"`
}
