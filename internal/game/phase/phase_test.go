package phase

import (
	"testing"

	"github.com/jruiznavarro/wargamestactics/internal/game/template"
)

func TestCycleWrapsBackToDrawHand(t *testing.T) {
	f := New()
	states := []State{f.Current}
	for i := 0; i < len(sequence); i++ {
		f.Advance()
		states = append(states, f.Current)
	}
	if f.Current != StateDrawHand {
		t.Errorf("expected cycle to wrap back to draw_hand, got %v", f.Current)
	}
}

func TestEndEncounterIsTerminal(t *testing.T) {
	f := New()
	f.EndEncounter()
	f.Advance()
	if f.Current != StateEncounterSummary {
		t.Errorf("expected encounter_summary to be terminal, got %v", f.Current)
	}
}

func TestCanPlayInPhaseGatesBySelectionTag(t *testing.T) {
	if !CanPlayInPhase(template.TagPhaseSelection, StatePlayerCardSelection) {
		t.Error("expected phase_selection card to be playable in selection")
	}
	if CanPlayInPhase(template.TagPhaseCommit, StatePlayerCardSelection) {
		t.Error("expected phase_commit-only card to be rejected in selection")
	}
}

func TestCanPlayInPhaseRejectsOutsideSelectionOrCommit(t *testing.T) {
	if CanPlayInPhase(template.TagPhaseSelection|template.TagPhaseCommit, StateTickResolution) {
		t.Error("expected no plays to be accepted during tick_resolution")
	}
}
