package generator

import (
	"math/rand/v2"

	"github.com/singularsity/synthd/internal/types"
)

// Built-in provider names. FallbackName identifies the provider-agnostic
// generator the dispatcher runs when a named provider fails; it is not part
// of the registry and cannot be selected.
const (
	GANName         = "gan"
	TransformerName = "transformer"
	DiffusionName   = "diffusion"
	QuantumName     = "quantum"
	NeuralName      = "neural"
	FallbackName    = "fallback"
)

func builtinProviders(newRand func() *rand.Rand) []Provider {
	return []Provider{
		newGAN(newRand),
		newTransformer(newRand),
		newDiffusion(newRand),
		newQuantum(newRand),
		newNeural(newRand),
	}
}

// newGAN is the default generator: full heuristic value synthesis with the
// widest declared quality spread of the adversarial family.
func newGAN(newRand func() *rand.Rand) *synthProvider {
	return &synthProvider{
		name:    GANName,
		newRand: newRand,
		style:   valueStyle{},
		capabilities: Capabilities{
			MaxRecords:         1_000_000_000,
			SupportedFormats:   []string{"csv", "json"},
			SupportedDataTypes: []string{"tabular", "time-series", "text", "multi-modal"},
		},
		profile: profile{
			quality: qualitySpec{
				completeness: span(98.5, 1.5),
				accuracy:     span(96.2, 3.8),
				consistency:  span(94.8, 5.2),
				validity:     span(97.1, 2.9),
				fidelity:     span(95.6, 4.4),
				utility:      span(93.2, 6.8),
			},
			privacy: map[string]privacyRow{
				types.PrivacyHigh:   {kAnonymity: 25, budget: 0.1, noise: 0.05, risk: "Negligible"},
				types.PrivacyMedium: {kAnonymity: 15, budget: 0.5, noise: 0.02, risk: "Very Low"},
				types.PrivacyLow:    {kAnonymity: 8, budget: 1.0, noise: 0.01, risk: "Low"},
			},
			bias: biasSpec{
				fairness:            span(92.5, 7.5),
				parity:              span(0.95, 0.05),
				odds:                span(0.93, 0.07),
				balance:             "Optimally Balanced",
				fromFairnessMetrics: true,
			},
			provider: providerSpec{
				innovation:     fixed(98.7),
				confidence:     span(96.3, 3.7),
				perColumn:      10,
				complexityCaps: true,
				effMode:        effThroughput,
			},
		},
	}
}

// newTransformer targets correlation-heavy tabular domains.
func newTransformer(newRand func() *rand.Rand) *synthProvider {
	return &synthProvider{
		name:    TransformerName,
		newRand: newRand,
		style:   valueStyle{},
		capabilities: Capabilities{
			MaxRecords:         5_000_000_000,
			SupportedFormats:   []string{"csv", "json"},
			SupportedDataTypes: []string{"tabular", "time-series", "sequential", "hierarchical", "relational"},
		},
		profile: profile{
			quality: qualitySpec{
				completeness: span(99.2, 0.8),
				accuracy:     span(97.8, 2.2),
				consistency:  span(96.5, 3.5),
				validity:     span(98.3, 1.7),
				fidelity:     span(97.1, 2.9),
				utility:      span(95.8, 4.2),
			},
			privacy: map[string]privacyRow{
				types.PrivacyHigh:   {kAnonymity: 50, budget: 0.05, noise: 0.01, risk: "Negligible"},
				types.PrivacyMedium: {kAnonymity: 30, budget: 0.2, noise: 0.05, risk: "Negligible"},
				types.PrivacyLow:    {kAnonymity: 15, budget: 0.5, noise: 0.1, risk: "Negligible"},
			},
			bias: biasSpec{
				overall:  fixed(2.1),
				fairness: span(96.8, 3.2),
				parity:   span(0.98, 0.02),
				odds:     span(0.97, 0.03),
				balance:  "Perfectly Balanced",
			},
			provider: providerSpec{
				innovation:     fixed(99.5),
				confidence:     span(98.1, 1.9),
				perColumn:      10,
				complexityCaps: true,
				effMode:        effThroughput,
			},
		},
	}
}

// newDiffusion is routed to for high-privacy requests; its declared metrics
// are level-independent constants.
func newDiffusion(newRand func() *rand.Rand) *synthProvider {
	return &synthProvider{
		name:    DiffusionName,
		newRand: newRand,
		style:   valueStyle{tag: "DIFF", pad: 8},
		capabilities: Capabilities{
			MaxRecords:         10_000_000_000,
			SupportedFormats:   []string{"csv", "json"},
			SupportedDataTypes: []string{"tabular", "time-series", "multi-modal", "streaming"},
		},
		profile: profile{
			quality: qualitySpec{
				completeness: fixed(99.8),
				accuracy:     fixed(98.5),
				consistency:  fixed(97.2),
				validity:     fixed(99.1),
				fidelity:     fixed(98.8),
				utility:      fixed(97.5),
			},
			privacy: uniformPrivacy(privacyRow{kAnonymity: 100, budget: 0.01, noise: 0.005, risk: "Negligible"}),
			bias: biasSpec{
				overall:  fixed(0.5),
				fairness: fixed(99.2),
				parity:   fixed(0.99),
				odds:     fixed(0.99),
				balance:  "Perfectly Balanced",
			},
			provider: providerSpec{
				innovation: fixed(99.9),
				confidence: fixed(99.5),
				complexity: fixed(95),
				efficiency: fixed(98.7),
			},
		},
	}
}

// newQuantum is routed to for very large record counts.
func newQuantum(newRand func() *rand.Rand) *synthProvider {
	return &synthProvider{
		name:    QuantumName,
		newRand: newRand,
		style:   valueStyle{tag: "QUANTUM", pad: 10},
		capabilities: Capabilities{
			MaxRecords:         100_000_000_000,
			SupportedFormats:   []string{"csv", "json"},
			SupportedDataTypes: []string{"tabular", "time-series", "multi-dimensional"},
		},
		profile: profile{
			quality: qualitySpec{
				completeness: fixed(99.9),
				accuracy:     fixed(99.2),
				consistency:  fixed(98.8),
				validity:     fixed(99.5),
				fidelity:     fixed(99.1),
				utility:      fixed(98.9),
			},
			privacy: uniformPrivacy(privacyRow{kAnonymity: 1000, budget: 0.001, noise: 0.001, risk: "Impossible"}),
			bias: biasSpec{
				overall:  fixed(0.1),
				fairness: fixed(99.9),
				parity:   fixed(0.999),
				odds:     fixed(0.999),
				balance:  "Quantum Balanced",
			},
			provider: providerSpec{
				innovation: fixed(100),
				confidence: fixed(99.9),
				complexity: fixed(100),
				efficiency: fixed(99.8),
			},
		},
	}
}

// newNeural is routed to for seasonal and temporal domains.
func newNeural(newRand func() *rand.Rand) *synthProvider {
	return &synthProvider{
		name:    NeuralName,
		newRand: newRand,
		style:   valueStyle{tag: "NEURAL", pad: 9},
		capabilities: Capabilities{
			MaxRecords:         2_000_000_000,
			SupportedFormats:   []string{"csv", "json"},
			SupportedDataTypes: []string{"tabular", "time-series", "temporal", "streaming"},
		},
		profile: profile{
			quality: qualitySpec{
				completeness: fixed(98.9),
				accuracy:     fixed(97.5),
				consistency:  fixed(96.8),
				validity:     fixed(98.2),
				fidelity:     fixed(97.8),
				utility:      fixed(96.5),
			},
			privacy: uniformPrivacy(privacyRow{kAnonymity: 75, budget: 0.02, noise: 0.01, risk: "Very Low"}),
			bias: biasSpec{
				overall:  fixed(1.2),
				fairness: fixed(97.8),
				parity:   fixed(0.97),
				odds:     fixed(0.96),
				balance:  "Neural Balanced",
			},
			provider: providerSpec{
				innovation: fixed(98.5),
				confidence: fixed(97.2),
				complexity: fixed(92),
				efficiency: fixed(96.8),
			},
		},
	}
}

// NewFallback builds the provider-agnostic generator the dispatcher runs
// when the selected provider fails. Same value contract, conservative
// declared metrics, and no failure modes of its own.
func NewFallback() Provider {
	return newFallback(func() *rand.Rand {
		return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	})
}

// NewSeededFallback builds the fallback generator with a pinned random
// source. Intended for tests.
func NewSeededFallback(seed uint64) Provider {
	return newFallback(func() *rand.Rand {
		return rand.New(rand.NewPCG(seed, seed))
	})
}

func newFallback(newRand func() *rand.Rand) *synthProvider {
	return &synthProvider{
		name:    FallbackName,
		newRand: newRand,
		style:   valueStyle{},
		capabilities: Capabilities{
			MaxRecords:         100_000_000,
			SupportedFormats:   []string{"csv", "json"},
			SupportedDataTypes: []string{"tabular"},
		},
		profile: profile{
			quality: qualitySpec{
				completeness: span(98, 2),
				accuracy:     span(95, 5),
				consistency:  span(92, 8),
				validity:     span(96, 4),
				fidelity:     span(94, 6),
				utility:      span(93, 7),
			},
			privacy: map[string]privacyRow{
				types.PrivacyHigh:   {kAnonymity: 25, budget: 0.1, noise: 0.05, risk: "Negligible"},
				types.PrivacyMedium: {kAnonymity: 10, budget: 0.5, noise: 0.1, risk: "Very Low"},
				types.PrivacyLow:    {kAnonymity: 10, budget: 0.5, noise: 0.1, risk: "Very Low"},
			},
			bias: biasSpec{
				overall:     span(8, 5),
				fairness:    span(88, 12),
				parity:      span(0.92, 0.08),
				odds:        span(0.90, 0.10),
				balance:     "Balanced",
				detectGated: true,
			},
			provider: providerSpec{
				innovation: span(97.5, 2.5),
				confidence: span(94, 6),
				perColumn:  10,
				effMode:    effThroughput,
			},
		},
	}
}
