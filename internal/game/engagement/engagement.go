// Package engagement models the per-pair range and four advantage axes
// between two agents, plus flanking assessment. Grounded on the
// teacher's internal/game/board geometric position model, generalized
// from real coordinates to an abstract Reach enum and scalar axes
// (spec.md's explicit non-goal: no 3D geometry).
package engagement

import (
	"github.com/jruiznavarro/wargamestactics/internal/game/core"
	"github.com/jruiznavarro/wargamestactics/internal/game/template"
)

// Engagement is the mutable relationship state between two agents.
type Engagement struct {
	Range    template.Reach
	Pressure float64 // [-1,1]
	Control  float64
	Position float64
	BalanceA float64
	BalanceB float64
}

func clamp(v float64) float64 {
	if v < -1 {
		return -1
	}
	if v > 1 {
		return 1
	}
	return v
}

// Pair is a canonicalised unordered key: the lower entity index first,
// ties broken by generation, so Engagement storage never stores the
// same relationship under two different keys (spec.md section 3
// invariant: "Engagement map keys are always stored canonicalised").
type Pair struct {
	A, B core.EntityID
}

// Canonicalize orders two agent IDs so the lower one is always A.
func Canonicalize(x, y core.EntityID) Pair {
	if less(x, y) {
		return Pair{A: x, B: y}
	}
	return Pair{A: y, B: x}
}

func less(x, y core.EntityID) bool {
	if x.Index != y.Index {
		return x.Index < y.Index
	}
	return x.Generation < y.Generation
}

// Map owns every pairwise Engagement for an encounter.
type Map struct {
	pairs map[Pair]*Engagement
}

// NewMap creates an empty engagement map.
func NewMap() *Map {
	return &Map{pairs: make(map[Pair]*Engagement)}
}

// Get returns the engagement between a and b, creating it at the default
// (far, neutral) state on first access.
func (m *Map) Get(a, b core.EntityID) *Engagement {
	key := Canonicalize(a, b)
	e, ok := m.pairs[key]
	if !ok {
		e = &Engagement{Range: template.ReachFar}
		m.pairs[key] = e
	}
	return e
}

// Set replaces the engagement between a and b.
func (m *Map) Set(a, b core.EntityID, e Engagement) {
	m.pairs[Canonicalize(a, b)] = &e
}

// BalanceFor returns the correctly-oriented balance value for agent id in
// the pair (a,b): BalanceA belongs to the canonical-first agent.
func (m *Map) BalanceFor(id core.EntityID, other core.EntityID) float64 {
	key := Canonicalize(id, other)
	e := m.Get(id, other)
	if key.A == id {
		return e.BalanceA
	}
	return e.BalanceB
}

// Axis identifies one of the four scalar advantage axes, re-exported
// here for convenience alongside template.Axis.
type Axis = template.Axis

// ModifyAxis applies a delta to one axis of the engagement between a and
// b, clamped to [-1,1]. Range is adjusted via ModifyRange, not this.
func (e *Engagement) ModifyAxis(axis Axis, delta float64) {
	switch axis {
	case template.AxisPressure:
		e.Pressure = clamp(e.Pressure + delta)
	case template.AxisControl:
		e.Control = clamp(e.Control + delta)
	case template.AxisPosition:
		e.Position = clamp(e.Position + delta)
	}
}

// AxisValue reads one of the three delta-adjustable advantage axes
// (balance is per-side and read via BalanceFor instead).
func (e *Engagement) AxisValue(axis Axis) float64 {
	switch axis {
	case template.AxisPressure:
		return e.Pressure
	case template.AxisControl:
		return e.Control
	case template.AxisPosition:
		return e.Position
	default:
		return 0
	}
}

// ModifyRange steps Range by delta steps (negative = closer), clamped to
// the enum's bounds, and reports whether the change actually applied.
func (e *Engagement) ModifyRange(steps int) bool {
	next := int(e.Range) + steps
	if next < int(template.ReachClinch) {
		next = int(template.ReachClinch)
	}
	if next > int(template.ReachFar) {
		next = int(template.ReachFar)
	}
	changed := template.Reach(next) != e.Range
	e.Range = template.Reach(next)
	return changed
}
