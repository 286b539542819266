package core

import "testing"

func TestRegistryInsertGet(t *testing.T) {
	r := NewRegistry[string]()
	id := r.Insert("sword")

	got, ok := r.Get(id)
	if !ok || got != "sword" {
		t.Fatalf("expected sword, true; got %q, %v", got, ok)
	}
}

func TestRegistryStaleIDAfterRemove(t *testing.T) {
	r := NewRegistry[int]()
	id := r.Insert(1)

	if !r.Remove(id) {
		t.Fatal("expected Remove to succeed")
	}

	if _, ok := r.Get(id); ok {
		t.Error("expected stale id to resolve absent")
	}
}

func TestRegistryReusesIndexBumpsGeneration(t *testing.T) {
	r := NewRegistry[int]()
	first := r.Insert(1)
	r.Remove(first)
	second := r.Insert(2)

	if second.Index != first.Index {
		t.Fatalf("expected index reuse, got %d vs %d", second.Index, first.Index)
	}
	if second.Generation == first.Generation {
		t.Error("expected generation to be bumped on reuse")
	}
	if _, ok := r.Get(first); ok {
		t.Error("old id must not resolve after reuse")
	}
	if v, ok := r.Get(second); !ok || v != 2 {
		t.Errorf("expected 2, true; got %d, %v", v, ok)
	}
}

func TestRegistryGetNeverPanicsOnUnknownID(t *testing.T) {
	r := NewRegistry[int]()
	if _, ok := r.Get(EntityID{Index: 99, Generation: 1}); ok {
		t.Error("expected absent for unknown index")
	}
	if _, ok := r.Get(EntityID{Index: -1, Generation: 1}); ok {
		t.Error("expected absent for negative index")
	}
}

func TestRegistryEachVisitsLiveOnly(t *testing.T) {
	r := NewRegistry[int]()
	a := r.Insert(1)
	r.Insert(2)
	r.Remove(a)

	seen := 0
	r.Each(func(id EntityID, v *int) { seen++ })
	if seen != 1 {
		t.Errorf("expected 1 live entry, got %d", seen)
	}
}
