package body

import (
	"math"
	"testing"

	"github.com/jruiznavarro/wargamestactics/internal/game/template"
)

func humanPlan() template.BodyPlan {
	return template.BodyPlan{
		ID: "human",
		Parts: []template.BodyPartPlan{
			{Tag: "torso", ParentIndex: -1, CanStand: true, Tissue: []template.TissueKind{template.TissueSkin, template.TissueMuscle, template.TissueOrgan}, HasArtery: true, TraumaMult: 1.0},
			{Tag: "head", ParentIndex: 0, CanSee: true, CanHear: true, Tissue: []template.TissueKind{template.TissueSkin, template.TissueBone}, TraumaMult: 2.0},
			{Tag: "eye", ParentIndex: 1, CanSee: true, Tissue: []template.TissueKind{template.TissueSkin, template.TissueNerve}, HasArtery: true, TraumaMult: 3.0},
			{Tag: "right_hand", Side: "right", ParentIndex: 0, CanGrasp: true, Tissue: []template.TissueKind{template.TissueSkin, template.TissueTendon}},
		},
	}
}

func TestNewFromPlanBuildsTree(t *testing.T) {
	b := NewFromPlan(humanPlan())
	if len(b.Parts) != 4 {
		t.Fatalf("expected 4 parts, got %d", len(b.Parts))
	}
	if err := b.Validate(); err != nil {
		t.Fatalf("expected valid body, got %v", err)
	}
}

func TestRootNeverMissingEvenWhenSevered(t *testing.T) {
	b := NewFromPlan(humanPlan())
	affected := b.Sever(0)
	if affected != nil {
		t.Error("expected Sever(root) to be a no-op")
	}
	if b.Parts[0].Missing {
		t.Error("root must never become missing")
	}
}

func TestSeverRemovesSubtree(t *testing.T) {
	b := NewFromPlan(humanPlan())
	affected := b.Sever(1) // head, carries eye as a child
	if len(affected) != 2 {
		t.Fatalf("expected head+eye severed, got %v", affected)
	}
	if !b.Parts[1].Missing || !b.Parts[2].Missing {
		t.Error("expected head and eye to be flagged missing")
	}
	if b.Parts[3].Missing {
		t.Error("hand should be unaffected by severing head")
	}
}

func TestApplySeverityStepClampsRootBelowMissing(t *testing.T) {
	b := NewFromPlan(humanPlan())
	for i := 0; i < 10; i++ {
		b.ApplySeverityStep(0, 0)
	}
	if b.Parts[0].DeepestSeverity() != SeverityBroken {
		t.Errorf("expected root tissue to clamp at broken, got %v", b.Parts[0].DeepestSeverity())
	}
}

func TestInflictWoundRecordsBleedingRate(t *testing.T) {
	b := NewFromPlan(humanPlan())
	factors := template.DefaultBleedFactors()

	w, severity := b.InflictWound(factors, 0, 2, WoundSlash) // organ layer, artery present
	if severity != SeverityMinor {
		t.Fatalf("expected minor severity on first hit, got %v", severity)
	}
	if !w.ArteryHit {
		t.Error("expected artery hit on deepest layer of a part with HasArtery")
	}
	expected := 0.1 * 1.0 * 0.2 * 5.0
	if math.Abs(w.BleedingRate-expected) > 1e-9 {
		t.Errorf("expected bleeding rate %f, got %f", expected, w.BleedingRate)
	}
}

func TestGraspStrengthZeroWhenHandMissing(t *testing.T) {
	b := NewFromPlan(humanPlan())
	if g := b.GraspStrength("right"); g != 1.0 {
		t.Errorf("expected fresh hand to grasp at full strength, got %f", g)
	}
	b.Sever(3)
	if g := b.GraspStrength("right"); g != 0 {
		t.Errorf("expected severed hand to grasp at 0, got %f", g)
	}
}

func TestVisionScoreDropsWithEyeDamage(t *testing.T) {
	b := NewFromPlan(humanPlan())
	before := b.VisionScore()
	b.Sever(2) // eye
	after := b.VisionScore()
	if after >= before {
		t.Errorf("expected vision score to drop after eye severed: before=%f after=%f", before, after)
	}
}
