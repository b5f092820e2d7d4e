package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validGenerationRequest() GenerationRequest {
	return GenerationRequest{
		DataDomain:    "healthcare",
		RecordCount:   100,
		TargetColumns: []string{"patient_id", "name"},
		RequesterID:   "req-1",
	}
}

func TestGenerationRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*GenerationRequest)
		wantErr bool
	}{
		{"valid", func(*GenerationRequest) {}, false},
		{"missing domain", func(r *GenerationRequest) { r.DataDomain = "" }, true},
		{"zero records", func(r *GenerationRequest) { r.RecordCount = 0 }, true},
		{"no columns", func(r *GenerationRequest) { r.TargetColumns = nil }, true},
		{"empty column", func(r *GenerationRequest) { r.TargetColumns = []string{"a", ""} }, true},
		{"missing requester", func(r *GenerationRequest) { r.RequesterID = "" }, true},
		{"bad format", func(r *GenerationRequest) { r.OutputFormat = "parquet" }, true},
		{"csv format", func(r *GenerationRequest) { r.OutputFormat = FormatCSV }, false},
		{"bad privacy level", func(r *GenerationRequest) { r.ModelSettings.PrivacyLevel = "extreme" }, true},
		{"high privacy level", func(r *GenerationRequest) { r.ModelSettings.PrivacyLevel = PrivacyHigh }, false},
		{"negative missing rate", func(r *GenerationRequest) { r.AdvancedSettings.MissingDataRate = -1 }, true},
		{"excessive outlier rate", func(r *GenerationRequest) { r.AdvancedSettings.OutlierRate = 101 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validGenerationRequest()
			tt.mutate(&req)
			err := req.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestGenerationRequestNormalize(t *testing.T) {
	req := validGenerationRequest()
	req.Normalize()
	assert.Equal(t, FormatJSON, req.OutputFormat)
	assert.Equal(t, PrivacyMedium, req.ModelSettings.PrivacyLevel)

	req.OutputFormat = FormatCSV
	req.ModelSettings.PrivacyLevel = PrivacyHigh
	req.Normalize()
	assert.Equal(t, FormatCSV, req.OutputFormat)
	assert.Equal(t, PrivacyHigh, req.ModelSettings.PrivacyLevel)
}

func TestGenerationRequestJSONKeys(t *testing.T) {
	payload := `{
		"dataDomain": "financial",
		"recordCount": 500,
		"targetColumns": ["account_id", "amount"],
		"outputFormat": "csv",
		"modelSettings": {"modelName": "tabular-v2", "accuracyTarget": 95, "privacyLevel": "high"},
		"biasSettings": {"detectBias": true, "fairnessMetrics": ["demographic_parity"]},
		"advancedSettings": {"preserveCorrelations": true, "outlierRate": 5, "missingDataRate": 2},
		"requesterId": "req-9",
		"providerName": "transformer"
	}`

	var req GenerationRequest
	require.NoError(t, json.Unmarshal([]byte(payload), &req))

	assert.Equal(t, "financial", req.DataDomain)
	assert.Equal(t, 500, req.RecordCount)
	assert.Equal(t, FormatCSV, req.OutputFormat)
	assert.Equal(t, "tabular-v2", req.ModelSettings.ModelName)
	assert.Equal(t, PrivacyHigh, req.ModelSettings.PrivacyLevel)
	assert.True(t, req.BiasSettings.DetectBias)
	assert.True(t, req.AdvancedSettings.PreserveCorrelations)
	assert.Equal(t, 5.0, req.AdvancedSettings.OutlierRate)
	assert.Equal(t, "req-9", req.RequesterID)
	assert.Equal(t, "transformer", req.ProviderName)
	assert.NoError(t, req.Validate())
}
