// Package body implements the layered armour/body model: a tree of parts,
// each with a tissue-layer stack, wounds, and the capability scores
// (grasp/mobility/sensory) the resolution and condition packages read
// back. Grounded on the teacher's core.Model/Unit damage-allocation idiom
// (internal/game/core/model.go), generalized from "wounds per model" to
// "layered tissue per body part".
package body

import (
	"fmt"

	"github.com/jruiznavarro/wargamestactics/internal/game/template"
)

// Severity is the damage step a tissue layer has reached.
type Severity int

const (
	SeverityNone Severity = iota
	SeverityMinor
	SeverityInhibited
	SeverityDisabled
	SeverityBroken
	SeverityMissing
)

func (s Severity) String() string {
	switch s {
	case SeverityNone:
		return "none"
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
		return "unknown"
	}
}

// Step returns the next-worse severity, capped at SeverityMissing.
func (s Severity) Step() Severity {
	if s >= SeverityMissing {
		return SeverityMissing
	}
	return s + 1
}

// TissueLayer is one entry in a part's tissue stack.
type TissueLayer struct {
	Kind      template.TissueKind
	Integrity float64 // in [0,1], 1 = undamaged
	Severity  Severity
}

// WoundKind identifies the damage type that produced a wound.
type WoundKind string

const (
	WoundSlash    WoundKind = "slash"
	WoundPierce   WoundKind = "pierce"
	WoundBludgeon WoundKind = "bludgeon"
)

// Wound records one instance of damage to a part.
type Wound struct {
	Kind          WoundKind
	PartIndex     int
	DepthIndex    int // index into the part's Tissue slice reached by this wound
	ArteryHit     bool
	BleedingRate  float64 // litres per tick
}

// Part is one node in the body tree.
type Part struct {
	Tag         string
	Side        string
	ParentIndex int // -1 for root

	CanGrasp bool
	CanStand bool
	CanSee   bool
	CanHear  bool

	Tissue     []TissueLayer
	HasArtery  bool
	TraumaMult float64
	HitWeight  float64

	Missing bool // true once severed; orphaned by a root-relative severing
}

// DeepestSeverity returns the worst severity among the part's tissue
// layers.
func (p *Part) DeepestSeverity() Severity {
	worst := SeverityNone
	for _, l := range p.Tissue {
		if l.Severity > worst {
			worst = l.Severity
		}
	}
	return worst
}

// Body is an agent's full tree of parts, arranged so index 0 is always the
// root and every other part's ParentIndex points to an earlier index
// (keeping the tree acyclic by construction).
type Body struct {
	Parts  []Part
	Wounds []Wound
}

// NewFromPlan instantiates a fresh, undamaged Body from a static BodyPlan.
func NewFromPlan(plan template.BodyPlan) *Body {
	b := &Body{Parts: make([]Part, len(plan.Parts))}
	for i, pp := range plan.Parts {
		tissue := make([]TissueLayer, len(pp.Tissue))
		for j, kind := range pp.Tissue {
			tissue[j] = TissueLayer{Kind: kind, Integrity: 1.0}
		}
		b.Parts[i] = Part{
			Tag:         pp.Tag,
			Side:        pp.Side,
			ParentIndex: pp.ParentIndex,
			CanGrasp:    pp.CanGrasp,
			CanStand:    pp.CanStand,
			CanSee:      pp.CanSee,
			CanHear:     pp.CanHear,
			Tissue:      tissue,
			HasArtery:   pp.HasArtery,
			TraumaMult:  pp.TraumaMult,
			HitWeight:   pp.HitWeight,
		}
	}
	return b
}

// Validate checks the invariants spec.md section 3/8 require: the root is
// never missing, and every wound's deepest layer indexes into its part's
// tissue stack.
func (b *Body) Validate() error {
	if len(b.Parts) == 0 {
		return fmt.Errorf("body has no parts")
	}
	if b.Parts[0].Missing {
		return fmt.Errorf("root part must never be missing")
	}
	for i, w := range b.Wounds {
		if w.PartIndex < 0 || w.PartIndex >= len(b.Parts) {
			return fmt.Errorf("wound %d: part index %d out of range", i, w.PartIndex)
		}
		part := &b.Parts[w.PartIndex]
		if w.DepthIndex < 0 || w.DepthIndex >= len(part.Tissue) {
			return fmt.Errorf("wound %d: depth index %d out of range for part %s", i, w.DepthIndex, part.Tag)
		}
	}
	return nil
}

// Subtree returns the indices of idx and every part whose parent chain
// passes through idx (idx's descendants), used to flag orphans when a
// root-relative severing removes a subtree.
func (b *Body) Subtree(idx int) []int {
	var out []int
	var walk func(i int)
	walk = func(i int) {
		out = append(out, i)
		for j := range b.Parts {
			if b.Parts[j].ParentIndex == i {
				walk(j)
			}
		}
	}
	walk(idx)
	return out
}

// Sever marks idx and its descendants as missing. The root part (index 0)
// is never severed -- per spec.md's open-question resolution, a would-be
// root severing is clamped to SeverityBroken on the root instead (see
// ApplySeverityStep).
func (b *Body) Sever(idx int) []int {
	if idx == 0 {
		return nil
	}
	affected := b.Subtree(idx)
	for _, i := range affected {
		b.Parts[i].Missing = true
	}
	return affected
}

// ApplySeverityStep advances the tissue layer at (partIndex, depthIndex) one
// step worse, returning the severity reached. The root part is never
// allowed to reach SeverityMissing -- it clamps at SeverityBroken, per the
// "root is never missing" invariant and SPEC_FULL.md's open-question
// resolution.
func (b *Body) ApplySeverityStep(partIndex, depthIndex int) Severity {
	part := &b.Parts[partIndex]
	layer := &part.Tissue[depthIndex]
	next := layer.Severity.Step()
	if partIndex == 0 && next == SeverityMissing {
		next = SeverityBroken
	}
	layer.Severity = next
	layer.Integrity = 1.0 - float64(next)/float64(SeverityMissing)
	return next
}

// GraspStrength returns the grasp score in [0,1] of the first grasping part
// on the given side, used for weapon-hand modifiers (spec.md section 4.5).
// A missing or fully-disabled grasping part returns 0.
func (b *Body) GraspStrength(side string) float64 {
	for i := range b.Parts {
		p := &b.Parts[i]
		if !p.CanGrasp || p.Side != side || p.Missing {
			continue
		}
		return severityToScore(p.DeepestSeverity())
	}
	return 0
}

// MobilityScore aggregates the standing parts' condition into a single
// [0,1] score used for dodge modifiers.
func (b *Body) MobilityScore() float64 {
	var total, count float64
	for i := range b.Parts {
		p := &b.Parts[i]
		if !p.CanStand {
			continue
		}
		count++
		if p.Missing {
			continue
		}
		total += severityToScore(p.DeepestSeverity())
	}
	if count == 0 {
		return 1.0
	}
	return total / count
}

// VisionScore aggregates seeing parts into a [0,1] score.
func (b *Body) VisionScore() float64 {
	return capabilityScore(b, func(p *Part) bool { return p.CanSee })
}

// HearingScore aggregates hearing parts into a [0,1] score.
func (b *Body) HearingScore() float64 {
	return capabilityScore(b, func(p *Part) bool { return p.CanHear })
}

func capabilityScore(b *Body, has func(*Part) bool) float64 {
	var total, count float64
	for i := range b.Parts {
		p := &b.Parts[i]
		if !has(p) {
			continue
		}
		count++
		if p.Missing {
			continue
		}
		total += severityToScore(p.DeepestSeverity())
	}
	if count == 0 {
		return 1.0
	}
	return total / count
}

func severityToScore(s Severity) float64 {
	return 1.0 - float64(s)/float64(SeverityMissing)
}
