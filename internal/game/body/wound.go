package body

import "github.com/jruiznavarro/wargamestactics/internal/game/template"

// severityFactorKey maps a Severity to the key used in the static
// BleedFactors.SeverityFactor table.
func severityFactorKey(s Severity) string {
	switch s {
	case SeverityMinor:
		return "minor"
	case SeverityInhibited:
		return "inhibited"
	case SeverityDisabled:
		return "disabled"
	case SeverityBroken:
		return "broken"
	case SeverityMissing:
		return "missing"
	default:
		return "minor"
	}
}

// BleedingRate computes spec.md section 4.5 step 4's formula:
// rate = 0.1 * type_factor * severity_factor * artery_multiplier.
func BleedingRate(factors template.BleedFactors, kind WoundKind, severity Severity, arteryHit bool) float64 {
	typeFactor := factors.TypeFactor[string(kind)]
	severityFactor := factors.SeverityFactor[severityFactorKey(severity)]
	rate := 0.1 * typeFactor * severityFactor
	if arteryHit {
		rate *= factors.ArteryMultiplier
	}
	return rate
}

// InflictWound records a new wound on the body, advancing the struck
// tissue layer's severity one step and computing its bleeding rate. It
// returns the recorded Wound and the severity the layer reached, so the
// caller (resolution package) can decide which events to emit.
func (b *Body) InflictWound(factors template.BleedFactors, partIndex, depthIndex int, kind WoundKind) (Wound, Severity) {
	severity := b.ApplySeverityStep(partIndex, depthIndex)
	part := &b.Parts[partIndex]
	arteryHit := part.HasArtery && depthIndex == len(part.Tissue)-1

	w := Wound{
		Kind:         kind,
		PartIndex:    partIndex,
		DepthIndex:   depthIndex,
		ArteryHit:    arteryHit,
		BleedingRate: BleedingRate(factors, kind, severity, arteryHit),
	}
	b.Wounds = append(b.Wounds, w)
	return w, severity
}

// TotalBleedingRate sums the bleeding rate of every recorded wound.
func (b *Body) TotalBleedingRate() float64 {
	total := 0.0
	for _, w := range b.Wounds {
		total += w.BleedingRate
	}
	return total
}
