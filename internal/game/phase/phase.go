// Package phase implements the tick scheduler FSM (spec.md section 4.3):
// draw_hand -> player_card_selection -> commit_phase -> tick_resolution
// -> apply_effects -> advance -> back to draw_hand, with a terminal
// encounter_summary state. Grounded on the teacher's
// internal/game/phase package (PhaseType enum + StandardTurnSequence),
// generalized from AoS4's fixed 6-phase battle round to the per-tick
// cycle this engine runs once per second of simulated time.
package phase

import "github.com/jruiznavarro/wargamestactics/internal/game/template"

// State identifies one step of the tick cycle.
type State string

const (
	StateDrawHand            State = "draw_hand"
	StatePlayerCardSelection State = "player_card_selection"
	StateCommitPhase         State = "commit_phase"
	StateTickResolution      State = "tick_resolution"
	StateApplyEffects        State = "apply_effects"
	StateAdvance             State = "advance"
	StateEncounterSummary    State = "encounter_summary" // terminal: victory/defeat/flee
)

// sequence is the non-terminal cycle order.
var sequence = []State{
	StateDrawHand,
	StatePlayerCardSelection,
	StateCommitPhase,
	StateTickResolution,
	StateApplyEffects,
	StateAdvance,
}

// Next returns the state that follows s in the per-tick cycle. Advance
// wraps back to draw_hand; the terminal state has no successor (ok is
// false).
func (s State) Next() (State, bool) {
	if s == StateEncounterSummary {
		return s, false
	}
	for i, st := range sequence {
		if st == s {
			if i == len(sequence)-1 {
				return StateDrawHand, true
			}
			return sequence[i+1], true
		}
	}
	return StateDrawHand, true
}

// FSM tracks the current tick-cycle state and phase-tag gating.
type FSM struct {
	Current State
}

// New creates an FSM starting at draw_hand.
func New() *FSM {
	return &FSM{Current: StateDrawHand}
}

// Advance moves to the next state in the cycle. It is a no-op once the
// encounter has reached encounter_summary.
func (f *FSM) Advance() {
	next, ok := f.Current.Next()
	if ok {
		f.Current = next
	}
}

// EndEncounter forces a transition to the terminal state, used when
// victory/defeat/flee conditions are met mid-cycle.
func (f *FSM) EndEncounter() {
	f.Current = StateEncounterSummary
}

// phaseTagFor maps a scheduler state to the template.Tag bit a card must
// carry to be playable during it. Only player_card_selection and
// commit_phase gate card plays; other states accept no new plays.
func phaseTagFor(s State) (template.Tag, bool) {
	switch s {
	case StatePlayerCardSelection:
		return template.TagPhaseSelection, true
	case StateCommitPhase:
		return template.TagPhaseCommit, true
	default:
		return 0, false
	}
}

// CanPlayInPhase reports whether a card with the given tag set may be
// played in the current scheduler state -- spec.md section 4.3's
// canPlayInPhase(tags, phase) check. A card missing the active phase
// bit (or played outside selection/commit entirely) is rejected.
func CanPlayInPhase(tags template.Tag, s State) bool {
	required, gated := phaseTagFor(s)
	if !gated {
		return false
	}
	return tags.Has(required)
}
