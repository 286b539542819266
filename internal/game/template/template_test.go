package template

import "testing"

func TestBodyPlanValidateRequiresRootAtZero(t *testing.T) {
	plan := BodyPlan{
		ID: "test",
		Parts: []BodyPartPlan{
			{Tag: "torso", ParentIndex: -1},
			{Tag: "head", ParentIndex: 0},
		},
	}
	if err := plan.Validate(); err != nil {
		t.Fatalf("expected valid plan, got %v", err)
	}
}

func TestBodyPlanValidateRejectsForwardParent(t *testing.T) {
	plan := BodyPlan{
		ID: "test",
		Parts: []BodyPartPlan{
			{Tag: "torso", ParentIndex: -1},
			{Tag: "head", ParentIndex: 2}, // forward reference, invalid
			{Tag: "neck", ParentIndex: 0},
		},
	}
	if err := plan.Validate(); err == nil {
		t.Fatal("expected error for forward parent reference")
	}
}

func TestChannelConflicts(t *testing.T) {
	if (ChannelWeapon).Conflicts(0) {
		t.Error("conflicts(empty) must be false")
	}
	if !(ChannelWeapon).Conflicts(ChannelWeapon | ChannelFootwork) {
		t.Error("expected weapon channel to conflict with overlapping weapon+footwork set")
	}
	a, b := ChannelWeapon|ChannelOffHand, ChannelOffHand
	if a.Conflicts(b) != b.Conflicts(a) {
		t.Error("Conflicts must be symmetric")
	}
}

func TestReachOrdering(t *testing.T) {
	if !(ReachClinch < ReachFar) {
		t.Error("expected clinch to be nearer than far")
	}
	rr := ReachRange{Min: ReachNear, Max: ReachMedium}
	if rr.Contains(ReachFar) {
		t.Error("far should be outside near..medium range")
	}
	if !rr.Contains(ReachNear) {
		t.Error("near should be inside near..medium range")
	}
}
