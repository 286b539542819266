package engagement

import (
	"testing"

	"github.com/jruiznavarro/wargamestactics/internal/game/core"
	"github.com/jruiznavarro/wargamestactics/internal/game/template"
)

func TestCanonicalizeIsSymmetric(t *testing.T) {
	a := core.EntityID{Index: 5, Generation: 1}
	b := core.EntityID{Index: 2, Generation: 3}

	if Canonicalize(a, b) != Canonicalize(b, a) {
		t.Fatal("expected canonical pair to be order-independent")
	}
}

func TestMapGetReturnsSameEngagementRegardlessOfOrder(t *testing.T) {
	m := NewMap()
	a := core.EntityID{Index: 1, Generation: 1}
	b := core.EntityID{Index: 2, Generation: 1}

	eAB := m.Get(a, b)
	eAB.Pressure = 0.5

	eBA := m.Get(b, a)
	if eBA.Pressure != 0.5 {
		t.Errorf("expected engagement(a,b) == engagement(b,a), got %f", eBA.Pressure)
	}
}

func TestModifyRangeClampsToBounds(t *testing.T) {
	e := &Engagement{Range: template.ReachClinch}
	e.ModifyRange(-5)
	if e.Range != template.ReachClinch {
		t.Errorf("expected range clamped at clinch, got %v", e.Range)
	}

	e.Range = template.ReachFar
	e.ModifyRange(5)
	if e.Range != template.ReachFar {
		t.Errorf("expected range clamped at far, got %v", e.Range)
	}
}

func TestModifyAxisClampsToUnitRange(t *testing.T) {
	e := &Engagement{}
	e.ModifyAxis(template.AxisPressure, 10)
	if e.Pressure != 1.0 {
		t.Errorf("expected pressure clamped to 1.0, got %f", e.Pressure)
	}
	e.ModifyAxis(template.AxisPressure, -10)
	if e.Pressure != -1.0 {
		t.Errorf("expected pressure clamped to -1.0, got %f", e.Pressure)
	}
}

func TestResolveManoeuvreConflictTieIsStalemate(t *testing.T) {
	aWins, bWins := ResolveManoeuvreConflict(0.5, 0.5)
	if aWins || bWins {
		t.Error("expected neither side to win on an exact tie")
	}
}

func TestManoeuvreScoreStandingStillIsNegative(t *testing.T) {
	if s := ManoeuvreScore(0, 1, 1, 1); s >= 0 {
		t.Errorf("expected standing still to score negative, got %f", s)
	}
}

func TestAssessFlankingThresholds(t *testing.T) {
	m := NewMap()
	defender := core.EntityID{Index: 1, Generation: 1}
	opp1 := core.EntityID{Index: 2, Generation: 1}
	opp2 := core.EntityID{Index: 3, Generation: 1}

	e1 := m.Get(defender, opp1)
	e1.Position = 0.9
	e2 := m.Get(defender, opp2)
	e2.Position = 0.9

	status := AssessFlanking(m, defender, []core.EntityID{opp1, opp2})
	if status != FlankPartial {
		t.Errorf("expected flanked_partial with 2 favourable opponents, got %v", status)
	}
}
