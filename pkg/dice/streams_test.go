package dice

import "testing"

func TestNewStreamsAreIndependent(t *testing.T) {
	s := NewStreams(42)

	var combat, loot, bodyPart []float32
	for i := 0; i < 10; i++ {
		combat = append(combat, s.Combat.F32())
		loot = append(loot, s.Loot.F32())
		bodyPart = append(bodyPart, s.BodyPart.F32())
	}

	same := true
	for i := range combat {
		if combat[i] != loot[i] || combat[i] != bodyPart[i] {
			same = false
			break
		}
	}
	if same {
		t.Fatal("expected independent streams to diverge")
	}
}

func TestNewStreamsDeterministicForSameSeed(t *testing.T) {
	a := NewStreams(7)
	b := NewStreams(7)

	for i := 0; i < 10; i++ {
		if a.Combat.F32() != b.Combat.F32() {
			t.Fatal("expected identical seeds to reproduce identical combat stream")
		}
	}
}

func TestF32InUnitRange(t *testing.T) {
	r := NewRoller(1)
	for i := 0; i < 1000; i++ {
		v := r.F32()
		if v < 0 || v >= 1 {
			t.Fatalf("F32 out of [0,1): %f", v)
		}
	}
}

func TestWeightedIndexAlwaysConsumesAndPicksValidIndex(t *testing.T) {
	r := NewRoller(3)
	weights := []float64{1, 2, 3, 4}
	for i := 0; i < 100; i++ {
		idx := r.WeightedIndex(weights)
		if idx < 0 || idx >= len(weights) {
			t.Fatalf("weighted index out of range: %d", idx)
		}
	}

	ref := NewRoller(3)
	for i := 0; i < 100; i++ {
		ref.F32()
	}
	if r.F32() != ref.F32() {
		t.Error("expected each WeightedIndex call to consume exactly one F32 draw")
	}
}

func TestWeightedIndexEmptyReturnsNegativeOne(t *testing.T) {
	r := NewRoller(3)
	if idx := r.WeightedIndex(nil); idx != -1 {
		t.Errorf("expected -1 for empty weights, got %d", idx)
	}
}
