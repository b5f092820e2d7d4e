package generator

import (
	"math"
	"math/rand/v2"

	"github.com/singularsity/synthd/internal/types"
)

// rangeSpec is a closed metric range sampled as min + random*(max-min).
// min == max declares a constant.
type rangeSpec struct {
	min, max float64
}

func (r rangeSpec) sample(rng *rand.Rand) float64 {
	if r.min == r.max {
		return r.min
	}
	return r.min + rng.Float64()*(r.max-r.min)
}

func span(min, width float64) rangeSpec { return rangeSpec{min, min + width} }

func fixed(v float64) rangeSpec { return rangeSpec{v, v} }

// qualitySpec declares the six quality ranges of a provider.
type qualitySpec struct {
	completeness rangeSpec
	accuracy     rangeSpec
	consistency  rangeSpec
	validity     rangeSpec
	fidelity     rangeSpec
	utility      rangeSpec
}

func (q qualitySpec) synthesize(rng *rand.Rand) types.QualityMetrics {
	return types.QualityMetrics{
		Completeness: q.completeness.sample(rng),
		Accuracy:     q.accuracy.sample(rng),
		Consistency:  q.consistency.sample(rng),
		Validity:     q.validity.sample(rng),
		Fidelity:     q.fidelity.sample(rng),
		Utility:      q.utility.sample(rng),
	}
}

// privacyRow is one privacy-level row of a provider's privacy table.
type privacyRow struct {
	kAnonymity int
	budget     float64
	noise      float64
	risk       string
}

// uniformPrivacy declares a level-independent privacy table: the same row
// for low, medium, and high.
func uniformPrivacy(row privacyRow) map[string]privacyRow {
	return map[string]privacyRow{
		types.PrivacyLow:    row,
		types.PrivacyMedium: row,
		types.PrivacyHigh:   row,
	}
}

// biasSpec declares a provider's bias table.
type biasSpec struct {
	overall  rangeSpec
	fairness rangeSpec
	parity   rangeSpec
	odds     rangeSpec
	balance  string

	// fromFairnessMetrics derives overallBias from the declared fairness
	// metric count instead of the range: max(0, 5 - 2*len(metrics)).
	fromFairnessMetrics bool
	// detectGated zeroes overallBias and reports a perfect fairness score
	// when bias detection is off.
	detectGated bool
	// neutralWhenNoDetect additionally reports parity and odds of 1.0 when
	// bias detection is off.
	neutralWhenNoDetect bool
}

func (b biasSpec) synthesize(rng *rand.Rand, set types.BiasSettings) types.BiasMetrics {
	m := types.BiasMetrics{
		OverallBias:        b.overall.sample(rng),
		FairnessScore:      b.fairness.sample(rng),
		BalanceDescription: b.balance,
		DemographicParity:  b.parity.sample(rng),
		EqualizedOdds:      b.odds.sample(rng),
	}
	if b.fromFairnessMetrics {
		m.OverallBias = 0
		if set.DetectBias {
			m.OverallBias = math.Max(0, 5-2*float64(len(set.FairnessMetrics)))
		}
	}
	if b.detectGated && !set.DetectBias {
		m.OverallBias = 0
		m.FairnessScore = 100
		if b.neutralWhenNoDetect {
			m.DemographicParity = 1.0
			m.EqualizedOdds = 1.0
		}
	}
	return m
}

// efficiencyMode selects how generation efficiency is reported.
type efficiencyMode int

const (
	// effDeclared reports the declared range.
	effDeclared efficiencyMode = iota
	// effThroughput reports min(100, records/second / 1000 * 100).
	effThroughput
	// effVolume reports min(100, records / 1000 * 80).
	effVolume
)

// providerSpec declares a provider's performance table.
type providerSpec struct {
	innovation rangeSpec
	confidence rangeSpec

	// complexity: either a declared constant range, or computed per column.
	complexity     rangeSpec
	perColumn      float64 // 0 disables computed complexity
	complexityCaps bool    // adds correlation/seasonality bonuses, capped at 100

	efficiency rangeSpec
	effMode    efficiencyMode
}

func (p providerSpec) synthesize(rng *rand.Rand, req *types.GenerationRequest, duration float64) types.ProviderMetrics {
	m := types.ProviderMetrics{
		InnovationScore: p.innovation.sample(rng),
		DataComplexity:  p.complexity.sample(rng),
		ModelConfidence: p.confidence.sample(rng),
		Efficiency:      p.efficiency.sample(rng),
	}
	if p.perColumn > 0 {
		complexity := p.perColumn * float64(len(req.TargetColumns))
		if p.complexityCaps {
			if req.AdvancedSettings.PreserveCorrelations {
				complexity += 20
			}
			if req.AdvancedSettings.Seasonality {
				complexity += 15
			}
			complexity = math.Min(100, complexity)
		}
		m.DataComplexity = complexity
	}
	switch p.effMode {
	case effThroughput:
		if duration > 0 {
			m.Efficiency = math.Min(100, float64(req.RecordCount)/duration/1000*100)
		} else {
			m.Efficiency = 100
		}
	case effVolume:
		m.Efficiency = math.Min(100, float64(req.RecordCount)/1000*80)
	}
	return m
}

// profile is the full declared metric table of one provider. Metrics are
// synthesized from the table by one shared routine so providers can be told
// apart purely by their declared rows.
type profile struct {
	quality  qualitySpec
	privacy  map[string]privacyRow
	bias     biasSpec
	provider providerSpec

	// dpOffAtLow disables the differential-privacy flag at the low privacy
	// level. Every built-in provider reports it always-on.
	dpOffAtLow bool
}

func (p profile) privacyMetrics(level string) types.PrivacyMetrics {
	row, ok := p.privacy[level]
	if !ok {
		row = p.privacy[types.PrivacyMedium]
	}
	return types.PrivacyMetrics{
		AnonymizationLevel:   level,
		KAnonymity:           row.kAnonymity,
		DifferentialPrivacy:  !(p.dpOffAtLow && level == types.PrivacyLow),
		ReidentificationRisk: row.risk,
		PrivacyBudget:        row.budget,
		NoiseLevel:           row.noise,
	}
}

func (p profile) synthesize(rng *rand.Rand, req *types.GenerationRequest, duration float64) types.Metrics {
	return types.Metrics{
		Quality:  p.quality.synthesize(rng),
		Privacy:  p.privacyMetrics(req.ModelSettings.PrivacyLevel),
		Bias:     p.bias.synthesize(rng, req.BiasSettings),
		Provider: p.provider.synthesize(rng, req, duration),
	}
}
