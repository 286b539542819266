package body

import "github.com/jruiznavarro/wargamestactics/internal/game/template"

// WornLayer is the mutable per-encounter state of one static ArmourLayer:
// whether it has been destroyed by a previous hit.
type WornLayer struct {
	Destroyed bool
}

// WornArmour is an armour piece currently equipped on a body, covering one
// or more part tags. LayerState mirrors template.Armour.Layers by index.
type WornArmour struct {
	ArmourID   string
	LayerState []WornLayer
}

// NewWornArmour instantiates fresh (undestroyed) layer state for a static
// armour template.
func NewWornArmour(a template.Armour) *WornArmour {
	return &WornArmour{
		ArmourID:   a.ID,
		LayerState: make([]WornLayer, len(a.Layers)),
	}
}

// Loadout is the set of armour pieces an agent currently wears, keyed by
// the body part tag they cover.
type Loadout struct {
	ByPart map[string]*WornArmour
}

// NewLoadout creates an empty loadout.
func NewLoadout() *Loadout {
	return &Loadout{ByPart: make(map[string]*WornArmour)}
}

// Equip attaches a worn armour instance to every part tag its static
// template covers.
func (l *Loadout) Equip(a template.Armour) *WornArmour {
	worn := NewWornArmour(a)
	for _, tag := range a.Covers {
		l.ByPart[tag] = worn
	}
	return worn
}

// At returns the worn armour covering the given part tag, or nil if bare.
func (l *Loadout) At(partTag string) *WornArmour {
	return l.ByPart[partTag]
}
