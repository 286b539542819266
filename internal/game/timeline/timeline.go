// Package timeline implements the per-agent per-tick slot grid: a
// fixed-granularity [0,1) second timeline where plays occupy channel
// bitmasks and must not conflict. Grounded on the teacher's board
// geometry package's overlap-checking style (internal/game/board/
// geometry.go), generalized from 2D spatial overlap to 1D time-interval
// overlap against a channel bitmask instead of a footprint.
package timeline

import (
	"github.com/jruiznavarro/wargamestactics/internal/game/core"
	"github.com/jruiznavarro/wargamestactics/internal/game/template"
)

// Granularity is the snap increment for slot start times, in fractions
// of a tick (0.1 s per spec.md section 3).
const Granularity = 0.1

// Stakes is how committed a play is, affecting modifiers and refund
// behaviour.
type Stakes string

const (
	StakesProbing   Stakes = "probing"
	StakesGuarded   Stakes = "guarded"
	StakesCommitted Stakes = "committed"
	StakesReckless  Stakes = "reckless"
)

// stakesRank orders Stakes from least to most committed, used for "worst
// of" comparisons (spec.md section 4.5: effective stakes is the worst of
// play.stakes and modifier overrides).
var stakesRank = map[Stakes]int{
	StakesProbing:   0,
	StakesGuarded:   1,
	StakesCommitted: 2,
	StakesReckless:  3,
}

// WorstStakes returns whichever of a, b ranks more committed.
func WorstStakes(a, b Stakes) Stakes {
	if stakesRank[a] >= stakesRank[b] {
		return a
	}
	return b
}

// Play is the action occupying a TimeSlot.
type Play struct {
	Action          core.EntityID   // card instance
	ModifierStack   []core.EntityID // up to 4 modifier instances
	Stakes          Stakes
	Target          *core.EntityID
	AddedInCommit   bool
	Reinforcements  []core.EntityID
	Cancelled       bool // cancel_play effect fired, or a lost manoeuvre contest

	// ModifierStakes holds the stakes requested by each card in
	// ModifierStack, parallel by index, so the lead play's effective
	// stakes can be computed as the worst of its own and every
	// modifier's override (section 4.5: "effective stakes = worst of
	// play.stakes and modifier overrides").
	ModifierStakes []Stakes

	// CostMult/DamageMult are set by modify_play/modify_overlapping_play
	// effects (internal/game/rules). Zero is the unset sentinel read as
	// 1.0 (unmodified) so a freshly-built Play never needs an explicit
	// initializer.
	CostMult   float64
	DamageMult float64
}

// EffectiveCostMult returns p.CostMult, or 1.0 if never set.
func (p Play) EffectiveCostMult() float64 {
	if p.CostMult == 0 {
		return 1
	}
	return p.CostMult
}

// EffectiveDamageMult returns p.DamageMult, or 1.0 if never set.
func (p Play) EffectiveDamageMult() float64 {
	if p.DamageMult == 0 {
		return 1
	}
	return p.DamageMult
}

// Channels returns the channel bitmask a play occupies, derived from its
// action's technique.
func (p Play) Channels(techniqueOf func(core.EntityID) template.Channel) template.Channel {
	return techniqueOf(p.Action)
}

// TimeSlot is one reservation on an agent's timeline.
type TimeSlot struct {
	Start    float64 // [0,1)
	End      float64 // (0,1]
	Play     Play
	Channels template.Channel
	Overcommitted bool // reserved past 1.0 into the next tick, with a penalty flag
}

// Timeline is one agent's per-tick slot grid. Indices are stable once
// assigned (Remove leaves gaps) so modifier stacking can reference a
// play by index.
type Timeline struct {
	Slots []*TimeSlot // nil entries are removed slots
}

// New creates an empty timeline.
func New() *Timeline {
	return &Timeline{}
}

func overlaps(aStart, aEnd, bStart, bEnd float64) bool {
	return aStart < bEnd && bStart < aEnd
}

// Overlaps reports whether two slots' [Start,End) intervals intersect,
// independent of channel. Exported for callers outside this package that
// need time-overlap without a channel conflict check (overlay bonuses,
// manoeuvre contests).
func Overlaps(a, b *TimeSlot) bool {
	return overlaps(a.Start, a.End, b.Start, b.End)
}

// CanInsert reports whether a slot of the given channels can be placed
// at [start, start+duration) without conflicting with any existing,
// time-overlapping slot's channels. It does not check the 1.0 ceiling;
// callers decide whether to reject or mark Overcommitted.
func (tl *Timeline) CanInsert(start, duration float64, channels template.Channel) bool {
	end := start + duration
	for _, s := range tl.Slots {
		if s == nil {
			continue
		}
		if overlaps(start, end, s.Start, s.End) && channels.Conflicts(s.Channels) {
			return false
		}
	}
	return true
}

// Insert appends a new slot, returning its stable index. The caller is
// responsible for having checked CanInsert (and for setting Overcommitted
// if start+duration exceeds 1.0 under an explicit overcommit).
func (tl *Timeline) Insert(slot TimeSlot) int {
	tl.Slots = append(tl.Slots, &slot)
	return len(tl.Slots) - 1
}

// Remove clears the slot at index, leaving a gap (does not re-pack
// time); repositioning is an explicit, separately-costed operation.
func (tl *Timeline) Remove(index int) bool {
	if index < 0 || index >= len(tl.Slots) || tl.Slots[index] == nil {
		return false
	}
	tl.Slots[index] = nil
	return true
}

// At returns the slot at index, or nil if removed/out of range.
func (tl *Timeline) At(index int) *TimeSlot {
	if index < 0 || index >= len(tl.Slots) {
		return nil
	}
	return tl.Slots[index]
}

// snap rounds t down to the nearest Granularity increment.
func snap(t float64) float64 {
	steps := int(t / Granularity)
	return float64(steps) * Granularity
}

// NextAvailableStart returns the earliest 0.1-snapped start time where
// CanInsert would succeed, or ok=false if none exists within [0,1).
func (tl *Timeline) NextAvailableStart(channels template.Channel, duration float64) (start float64, ok bool) {
	for t := 0.0; t < 1.0; t += Granularity {
		t = snap(t)
		if tl.CanInsert(t, duration, channels) {
			return t, true
		}
	}
	return 0, false
}

// ReservedTime sums the duration of every live slot, used to check the
// "sum of reserved time never exceeds 1.0" invariant outside of explicit
// overcommit.
func (tl *Timeline) ReservedTime() float64 {
	total := 0.0
	for _, s := range tl.Slots {
		if s == nil {
			continue
		}
		total += s.End - s.Start
	}
	return total
}

// OrderedIndices returns live slot indices sorted by ascending Start,
// ties broken by index (spec.md section 5 ordering guarantee -- when
// combined with an owner ID outside this package, that gives the full
// (time_start, owner_id, timeline_index) tie-break).
func (tl *Timeline) OrderedIndices() []int {
	var idx []int
	for i, s := range tl.Slots {
		if s != nil {
			idx = append(idx, i)
		}
	}
	for i := 1; i < len(idx); i++ {
		for j := i; j > 0 && tl.Slots[idx[j-1]].Start > tl.Slots[idx[j]].Start; j-- {
			idx[j-1], idx[j] = idx[j], idx[j-1]
		}
	}
	return idx
}
