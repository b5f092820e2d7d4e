package generator

import (
	"strings"

	"github.com/singularsity/synthd/internal/types"
)

// scaleThreshold is the record count above which generation is routed to
// the quantum provider regardless of other settings.
const scaleThreshold = 10_000_000

// Select returns the provider for a request with no explicit provider name.
// The rules are evaluated in a fixed priority order, so selection is a pure
// function of the request:
//
//  1. record count above the scale threshold -> quantum
//  2. high privacy level -> diffusion
//  3. correlation preservation in the financial domain -> transformer
//  4. seasonality, or a temporal data domain -> neural
//  5. otherwise -> gan
func (r *Registry) Select(req *types.GenerationRequest) Provider {
	switch {
	case req.RecordCount > scaleThreshold:
		return r.providers[QuantumName]
	case req.ModelSettings.PrivacyLevel == types.PrivacyHigh:
		return r.providers[DiffusionName]
	case req.AdvancedSettings.PreserveCorrelations && req.DataDomain == "financial":
		return r.providers[TransformerName]
	case req.AdvancedSettings.Seasonality || strings.Contains(req.DataDomain, "time"):
		return r.providers[NeuralName]
	default:
		return r.providers[GANName]
	}
}
