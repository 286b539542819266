// Package cards owns card Instances, per-agent Zones, and the Agent/
// CombatState aggregates they live inside. Grounded on the teacher's
// army.FactionRegistry ownership idiom and internal/game/core.Unit's
// id-keyed bookkeeping, generalized from "unit owns models" to "agent
// owns card instances across zones".
package cards

import (
	"fmt"

	"github.com/jruiznavarro/wargamestactics/internal/game/body"
	"github.com/jruiznavarro/wargamestactics/internal/game/core"
	"github.com/jruiznavarro/wargamestactics/internal/game/template"
	"github.com/jruiznavarro/wargamestactics/internal/game/timeline"
)

// Zone identifies one of the transient per-encounter card collections.
type Zone string

const (
	ZoneDraw    Zone = "draw"
	ZoneHand    Zone = "hand"
	ZoneDiscard Zone = "discard"
	ZoneInPlay  Zone = "in_play"
	ZoneExhaust Zone = "exhaust"
)

// DrawStyle identifies how an agent's hand is refreshed.
type DrawStyle string

const (
	DrawShuffledDeck    DrawStyle = "shuffled_deck"
	DrawAlwaysAvailable DrawStyle = "always_available"
	DrawScripted        DrawStyle = "scripted"
)

// Instance is one concrete card, owned exclusively by a Registry.
type Instance struct {
	ID          core.EntityID
	TemplateID  string
	Owner       core.EntityID
	Upgrades    map[string]int
	Cooldown    int // ticks remaining before this instance may be played again, 0 = ready
}

// Registry owns every card Instance that exists in the encounter and the
// per-agent zone membership that tracks where each one currently lives.
// Every instance ID appears in exactly one zone, the environment, or an
// agent's persistent collections at any moment (spec.md section 3).
type Registry struct {
	instances *core.Registry[Instance]
	zones     map[core.EntityID]map[Zone][]core.EntityID // agent -> zone -> ordered instance IDs
	environment map[core.EntityID]bool                    // instance ID -> present in environment
	thrownBy    map[core.EntityID]core.EntityID            // instance ID -> original owner
}

// NewRegistry creates an empty card registry.
func NewRegistry() *Registry {
	return &Registry{
		instances:   core.NewRegistry[Instance](),
		zones:       make(map[core.EntityID]map[Zone][]core.EntityID),
		environment: make(map[core.EntityID]bool),
		thrownBy:    make(map[core.EntityID]core.EntityID),
	}
}

func (r *Registry) ensureAgent(agent core.EntityID) map[Zone][]core.EntityID {
	z, ok := r.zones[agent]
	if !ok {
		z = make(map[Zone][]core.EntityID)
		r.zones[agent] = z
	}
	return z
}

// Create allocates a fresh Instance owned by agent, placed into zone.
func (r *Registry) Create(templateID string, owner core.EntityID, zone Zone) core.EntityID {
	id := r.instances.Insert(Instance{TemplateID: templateID, Owner: owner, Upgrades: make(map[string]int)})
	inst, _ := r.instances.Get(id)
	inst.ID = id
	r.instances.Set(id, inst)
	z := r.ensureAgent(owner)
	z[zone] = append(z[zone], id)
	return id
}

// Get returns the instance for id, or false if it is stale/unknown.
func (r *Registry) Get(id core.EntityID) (Instance, bool) {
	return r.instances.Get(id)
}

// GetPtr returns a mutable pointer to the instance, or nil.
func (r *Registry) GetPtr(id core.EntityID) *Instance {
	return r.instances.GetPtr(id)
}

// locate finds which agent/zone currently holds id, or ok=false if it is
// in the environment or nowhere.
func (r *Registry) locate(id core.EntityID) (agent core.EntityID, zone Zone, idx int, ok bool) {
	for a, zones := range r.zones {
		for z, ids := range zones {
			for i, candidate := range ids {
				if candidate == id {
					return a, z, i, true
				}
			}
		}
	}
	return core.EntityID{}, "", 0, false
}

// Locate reports which agent/zone currently holds id, or ok=false if it
// is in the environment or untracked.
func (r *Registry) Locate(id core.EntityID) (agent core.EntityID, zone Zone, ok bool) {
	agent, zone, _, ok = r.locate(id)
	return agent, zone, ok
}

// Move transfers id from whatever zone currently holds it into
// (agent, toZone). Returns an error if id cannot be located.
func (r *Registry) Move(id core.EntityID, toAgent core.EntityID, toZone Zone) error {
	agent, zone, idx, ok := r.locate(id)
	if ok {
		ids := r.zones[agent][zone]
		r.zones[agent][zone] = append(ids[:idx], ids[idx+1:]...)
	} else if !r.environment[id] {
		return fmt.Errorf("card %s: not found in any zone or environment", id)
	}
	delete(r.environment, id)
	z := r.ensureAgent(toAgent)
	z[toZone] = append(z[toZone], id)
	return nil
}

// MoveToEnvironment removes id from its zone and drops it into the
// encounter environment, recording thrownBy if it was thrown by an agent.
func (r *Registry) MoveToEnvironment(id core.EntityID, thrownBy core.EntityID) error {
	agent, zone, idx, ok := r.locate(id)
	if ok {
		ids := r.zones[agent][zone]
		r.zones[agent][zone] = append(ids[:idx], ids[idx+1:]...)
	}
	r.environment[id] = true
	if !thrownBy.Zero() {
		r.thrownBy[id] = thrownBy
	}
	return nil
}

// Zone returns the ordered instance IDs currently in agent's zone.
func (r *Registry) Zone(agent core.EntityID, zone Zone) []core.EntityID {
	return r.zones[agent][zone]
}

// Audit checks the zone-membership invariant: every tracked instance
// appears in exactly one zone or the environment.
func (r *Registry) Audit() error {
	counts := make(map[core.EntityID]int)
	r.instances.Each(func(id core.EntityID, _ *Instance) {
		counts[id] = 0
	})
	for _, zones := range r.zones {
		for _, ids := range zones {
			for _, id := range ids {
				counts[id]++
			}
		}
	}
	for id := range r.environment {
		counts[id]++
	}
	for id, c := range counts {
		if c != 1 {
			return fmt.Errorf("card %s: appears in %d zones/environment slots, want 1", id, c)
		}
	}
	return nil
}

// CombatState is the per-encounter zone/resource scaffold attached to an
// Agent while it is in combat. Torn down on encounter exit: exhausted
// cards un-exhaust, transient zones are cleared (deck_cards IDs never
// leave the agent -- they are copied into draw at encounter start).
type CombatState struct {
	Registry         *Registry
	PrimaryTarget    *core.EntityID
	ReactionSlot     *core.EntityID
	ActiveConditions []template.ConditionTag
	ConditionTimers  map[template.ConditionTag]int // ticks remaining for durational stored conditions
	Timeline         *timeline.Timeline
}

// Agent is one combatant: body, resources, persistent card collections,
// and an optional in-encounter CombatState.
type Agent struct {
	ID            core.EntityID
	Name          string
	Body          *body.Body
	Stamina       core.Resource
	Focus         core.Resource
	Blood         core.Accumulator
	Pain          core.Accumulator
	Trauma        core.Accumulator
	Morale        core.Accumulator
	DominantSide  string // "left" or "right"
	DrawStyle     DrawStyle

	DeckCards       []string // template IDs, persistent across encounters
	TechniquesKnown []string
	SpellsKnown     []string
	Inventory       []string
	Loadout         *body.Loadout // worn armour, keyed by covered part tag

	Combat *CombatState
}

// EquippedWeapon resolves the agent's dominant-hand weapon: the first
// inventory template ID that names a known weapon. Returns nil if
// nothing in inventory resolves.
func (a *Agent) EquippedWeapon(weapons map[string]template.Weapon) *template.Weapon {
	for _, itemID := range a.Inventory {
		if w, ok := weapons[itemID]; ok {
			return &w
		}
	}
	return nil
}

// NewAgent builds a fresh agent over the given body, with resources at
// max, an empty loadout, and no active combat state.
func NewAgent(id core.EntityID, name string, b *body.Body, stamina, focus core.Resource, bloodMax float64) *Agent {
	return &Agent{
		ID:      id,
		Name:    name,
		Body:    b,
		Stamina: stamina,
		Focus:   focus,
		Blood:   core.Accumulator{Current: bloodMax, Max: bloodMax},
		Pain:    core.Accumulator{Current: 0, Max: 1.0},
		Trauma:  core.Accumulator{Current: 0, Max: 1.0},
		Morale:  core.Accumulator{Current: 1.0, Max: 1.0},
		Loadout: body.NewLoadout(),
	}
}

// EnterEncounter allocates a CombatState and copies DeckCards into draw.
func (a *Agent) EnterEncounter(registry *Registry, shuffle func([]core.EntityID)) {
	a.Combat = &CombatState{Registry: registry, ConditionTimers: make(map[template.ConditionTag]int), Timeline: timeline.New()}
	for _, tid := range a.DeckCards {
		registry.Create(tid, a.ID, ZoneDraw)
	}
	if shuffle != nil {
		shuffle(registry.Zone(a.ID, ZoneDraw))
	}
}

// ExitEncounter tears down the combat state. Discard and exhaust
// conceptually merge back into deck_cards, but since DeckCards IDs never
// left the agent (only copies were created in zones), nothing further is
// required beyond dropping the reference.
func (a *Agent) ExitEncounter() {
	a.Combat = nil
}
