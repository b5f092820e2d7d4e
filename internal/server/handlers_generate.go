package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/singularsity/synthd/internal/types"
)

// previewRows caps how many generated rows ride along in the response body.
// Full datasets are fetched through the download URL.
const previewRows = 10

// GenerateMetadata is the metadata block of a generation response.
type GenerateMetadata struct {
	GenerationTime  float64               `json:"generationTime"`
	QualityMetrics  types.QualityMetrics  `json:"qualityMetrics"`
	PrivacyMetrics  types.PrivacyMetrics  `json:"privacyMetrics"`
	BiasMetrics     types.BiasMetrics     `json:"biasMetrics"`
	ProviderMetrics types.ProviderMetrics `json:"providerMetrics"`
	ModelUsed       string                `json:"modelUsed"`
	Timestamp       string                `json:"timestamp"`
	Provider        string                `json:"provider"`
}

// GenerateResponse is the response body for POST /generate.
type GenerateResponse struct {
	JobID           string           `json:"jobId"`
	Status          string           `json:"status"`
	RecordCount     int              `json:"recordCount"`
	DownloadURL     string           `json:"downloadUrl,omitempty"`
	StorageLocation string           `json:"storageLocation,omitempty"`
	Metadata        GenerateMetadata `json:"metadata"`
	Data            []types.Record   `json:"data"`
}

// ProviderInfo describes one registered provider for GET /providers.
type ProviderInfo struct {
	Name               string   `json:"name"`
	MaxRecords         int64    `json:"maxRecords"`
	SupportedFormats   []string `json:"supportedFormats"`
	SupportedDataTypes []string `json:"supportedDataTypes"`
}

// handleGenerate runs a generation job synchronously and returns the result
// envelope with a row preview.
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req types.GenerationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	result, err := s.dispatcher.Submit(r.Context(), &req)
	if err != nil {
		status := HTTPStatus(err)
		if status == http.StatusInternalServerError {
			s.logger.Error().Err(err).Msg("generation failed")
			s.jsonResponse(w, status, map[string]string{
				"error":   "generation failed",
				"details": err.Error(),
			})
			return
		}
		s.errorResponse(w, status, err.Error())
		return
	}

	modelUsed := req.ModelSettings.ModelName
	if modelUsed == "" {
		modelUsed = result.Provider
	}

	resp := GenerateResponse{
		JobID:           result.JobID.String(),
		Status:          result.Status,
		RecordCount:     len(result.Rows),
		DownloadURL:     result.DownloadURL,
		StorageLocation: result.StorageLocation,
		Metadata: GenerateMetadata{
			GenerationTime:  result.GenerationDurationSeconds,
			QualityMetrics:  result.Metrics.Quality,
			PrivacyMetrics:  result.Metrics.Privacy,
			BiasMetrics:     result.Metrics.Bias,
			ProviderMetrics: result.Metrics.Provider,
			ModelUsed:       modelUsed,
			Timestamp:       time.Now().UTC().Format(time.RFC3339),
			Provider:        result.Provider,
		},
	}

	// CSV responses carry no inline rows; JSON gets a preview.
	if req.OutputFormat == types.FormatJSON {
		preview := result.Rows
		if len(preview) > previewRows {
			preview = preview[:previewRows]
		}
		resp.Data = preview
	}

	s.jsonResponse(w, http.StatusOK, resp)
}

// handleJobStatus looks up a past job by jobId and requesterId.
func (s *Server) handleJobStatus(w http.ResponseWriter, r *http.Request) {
	jobID := r.URL.Query().Get("jobId")
	requesterID := r.URL.Query().Get("requesterId")
	if jobID == "" || requesterID == "" {
		s.errorResponse(w, http.StatusBadRequest, "jobId and requesterId query parameters are required")
		return
	}

	summary := s.dispatcher.JobStatus(r.Context(), jobID, requesterID)
	s.jsonResponse(w, http.StatusOK, summary)
}

// handleProviders lists registered providers and their capabilities.
func (s *Server) handleProviders(w http.ResponseWriter, r *http.Request) {
	names := s.registry.Names()
	providers := make([]ProviderInfo, 0, len(names))
	for _, name := range names {
		p, err := s.registry.Get(name)
		if err != nil {
			continue
		}
		caps := p.Capabilities()
		providers = append(providers, ProviderInfo{
			Name:               name,
			MaxRecords:         caps.MaxRecords,
			SupportedFormats:   caps.SupportedFormats,
			SupportedDataTypes: caps.SupportedDataTypes,
		})
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{"providers": providers})
}

// handleHealth reports liveness.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}
