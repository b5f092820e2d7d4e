package generator

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/singularsity/synthd/internal/types"
)

func baseRequest() *types.GenerationRequest {
	return &types.GenerationRequest{
		DataDomain:    "healthcare",
		RecordCount:   100,
		TargetColumns: []string{"patient_id", "name", "email", "age", "visit_date", "diagnosis"},
		RequesterID:   "req-1",
		ModelSettings: types.ModelSettings{PrivacyLevel: types.PrivacyMedium},
	}
}

func TestGenerateRowShape(t *testing.T) {
	registry := NewRegistry(WithSeed(1))

	for _, name := range registry.Names() {
		t.Run(name, func(t *testing.T) {
			p, err := registry.Get(name)
			require.NoError(t, err)

			req := baseRequest()
			result, err := p.Generate(context.Background(), req)
			require.NoError(t, err)

			assert.Equal(t, types.StatusCompleted, result.Status)
			assert.Equal(t, name, result.Provider)
			assert.Len(t, result.Rows, req.RecordCount)
			for _, row := range result.Rows {
				assert.Len(t, row, len(req.TargetColumns))
				for _, col := range req.TargetColumns {
					assert.Contains(t, row, col)
				}
			}
			// Job identity is assigned at dispatch, not by the provider.
			assert.Equal(t, uuid.Nil, result.JobID)
		})
	}
}

func TestGenerateRejectsInvalidRequests(t *testing.T) {
	registry := NewRegistry(WithSeed(1))
	p, err := registry.Get(GANName)
	require.NoError(t, err)

	req := baseRequest()
	req.RecordCount = 0
	_, err = p.Generate(context.Background(), req)
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "recordCount", validationErr.Field)

	req = baseRequest()
	req.TargetColumns = nil
	_, err = p.Generate(context.Background(), req)
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "targetColumns", validationErr.Field)
}

func TestGenerateHonorsContextCancellation(t *testing.T) {
	registry := NewRegistry(WithSeed(1))
	p, err := registry.Get(GANName)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	req := baseRequest()
	req.RecordCount = 100_000
	_, err = p.Generate(ctx, req)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestProviderValueStyles(t *testing.T) {
	tests := []struct {
		provider string
		prefix   string
	}{
		{QuantumName, "QUANTUM_diagnosis_"},
		{DiffusionName, "DIFF_diagnosis_"},
		{NeuralName, "NEURAL_diagnosis_"},
		{GANName, "HEALTHCARE_diagnosis_"},
		{TransformerName, "HEALTHCARE_diagnosis_"},
	}

	registry := NewRegistry(WithSeed(1))
	for _, tt := range tests {
		t.Run(tt.provider, func(t *testing.T) {
			p, err := registry.Get(tt.provider)
			require.NoError(t, err)

			result, err := p.Generate(context.Background(), baseRequest())
			require.NoError(t, err)

			value, ok := result.Rows[0]["diagnosis"].(string)
			require.True(t, ok)
			assert.True(t, strings.HasPrefix(value, tt.prefix), "got %q", value)
		})
	}
}

func TestPrivacyTables(t *testing.T) {
	registry := NewRegistry(WithSeed(1))

	t.Run("quantum is level independent", func(t *testing.T) {
		p, err := registry.Get(QuantumName)
		require.NoError(t, err)

		for _, level := range []string{types.PrivacyLow, types.PrivacyMedium, types.PrivacyHigh} {
			req := baseRequest()
			req.ModelSettings.PrivacyLevel = level
			result, err := p.Generate(context.Background(), req)
			require.NoError(t, err)

			assert.Equal(t, level, result.Metrics.Privacy.AnonymizationLevel)
			assert.Equal(t, 1000, result.Metrics.Privacy.KAnonymity)
			assert.Equal(t, "Impossible", result.Metrics.Privacy.ReidentificationRisk)
			assert.True(t, result.Metrics.Privacy.DifferentialPrivacy)
		}
	})

	t.Run("gan varies by level", func(t *testing.T) {
		p, err := registry.Get(GANName)
		require.NoError(t, err)

		req := baseRequest()
		req.ModelSettings.PrivacyLevel = types.PrivacyHigh
		high, err := p.Generate(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, 25, high.Metrics.Privacy.KAnonymity)
		assert.Equal(t, "Negligible", high.Metrics.Privacy.ReidentificationRisk)

		req.ModelSettings.PrivacyLevel = types.PrivacyLow
		low, err := p.Generate(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, 8, low.Metrics.Privacy.KAnonymity)
		// Built-in providers always report differential privacy on.
		assert.True(t, low.Metrics.Privacy.DifferentialPrivacy)
	})
}

func TestQualityMetricsWithinDeclaredRanges(t *testing.T) {
	registry := NewRegistry(WithSeed(5))

	p, err := registry.Get(GANName)
	require.NoError(t, err)
	result, err := p.Generate(context.Background(), baseRequest())
	require.NoError(t, err)

	q := result.Metrics.Quality
	assert.GreaterOrEqual(t, q.Completeness, 98.5)
	assert.LessOrEqual(t, q.Completeness, 100.0)
	assert.GreaterOrEqual(t, q.Accuracy, 96.2)
	assert.LessOrEqual(t, q.Accuracy, 100.0)
	assert.GreaterOrEqual(t, q.Utility, 93.2)
	assert.LessOrEqual(t, q.Utility, 100.0)

	// Diffusion declares constants.
	p, err = registry.Get(DiffusionName)
	require.NoError(t, err)
	result, err = p.Generate(context.Background(), baseRequest())
	require.NoError(t, err)
	assert.Equal(t, 99.8, result.Metrics.Quality.Completeness)
	assert.Equal(t, 97.5, result.Metrics.Quality.Utility)
}

func TestBiasMetrics(t *testing.T) {
	registry := NewRegistry(WithSeed(5))

	t.Run("gan derives overall bias from fairness metrics", func(t *testing.T) {
		p, err := registry.Get(GANName)
		require.NoError(t, err)

		req := baseRequest()
		req.BiasSettings = types.BiasSettings{
			DetectBias:      true,
			FairnessMetrics: []string{"demographic_parity"},
		}
		result, err := p.Generate(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, 3.0, result.Metrics.Bias.OverallBias)

		req.BiasSettings.FairnessMetrics = []string{"demographic_parity", "equalized_odds", "calibration"}
		result, err = p.Generate(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, 0.0, result.Metrics.Bias.OverallBias)

		req.BiasSettings.DetectBias = false
		result, err = p.Generate(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, 0.0, result.Metrics.Bias.OverallBias)
	})

	t.Run("fallback gates on detection", func(t *testing.T) {
		p := NewSeededFallback(5)

		req := baseRequest()
		req.BiasSettings.DetectBias = false
		result, err := p.Generate(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, 0.0, result.Metrics.Bias.OverallBias)
		assert.Equal(t, 100.0, result.Metrics.Bias.FairnessScore)

		req.BiasSettings.DetectBias = true
		result, err = p.Generate(context.Background(), req)
		require.NoError(t, err)
		assert.Greater(t, result.Metrics.Bias.OverallBias, 0.0)
		assert.Less(t, result.Metrics.Bias.FairnessScore, 100.0)
	})
}

func TestProviderMetricsComplexity(t *testing.T) {
	registry := NewRegistry(WithSeed(5))
	p, err := registry.Get(GANName)
	require.NoError(t, err)

	req := baseRequest() // six columns
	result, err := p.Generate(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 60.0, result.Metrics.Provider.DataComplexity)

	req.AdvancedSettings.PreserveCorrelations = true
	req.AdvancedSettings.Seasonality = true
	result, err = p.Generate(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 95.0, result.Metrics.Provider.DataComplexity)

	// Bonuses cap at 100.
	req.TargetColumns = append(req.TargetColumns, "col7", "col8", "col9")
	result, err = p.Generate(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 100.0, result.Metrics.Provider.DataComplexity)
}

func TestFallbackIsNotRegistered(t *testing.T) {
	registry := NewRegistry()
	_, err := registry.Get(FallbackName)
	assert.Error(t, err)
}
