package game

import (
	"github.com/vmihailenco/msgpack/v5"

	"github.com/jruiznavarro/wargamestactics/internal/game/cards"
	"github.com/jruiznavarro/wargamestactics/internal/game/core"
	"github.com/jruiznavarro/wargamestactics/internal/game/phase"
	"github.com/jruiznavarro/wargamestactics/internal/game/template"
)

// CardView is the query boundary's read-only view of one card instance:
// whether it can be played right now, why not if it can't, its cost, and
// whether playing it requires choosing a target.
type CardView struct {
	ID             core.EntityID `msgpack:"id"`
	TemplateID     string        `msgpack:"templateId"`
	Playable       bool          `msgpack:"playable"`
	Reason         string        `msgpack:"reason,omitempty"`
	Cost           template.Cost `msgpack:"cost"`
	RequiresTarget bool          `msgpack:"requiresTarget"`
}

// PlayView is the query boundary's read-only view of one in-play slot.
type PlayView struct {
	CardID      core.EntityID      `msgpack:"cardId"`
	Start       float64            `msgpack:"start"`
	End         float64            `msgpack:"end"`
	Channels    template.Channel   `msgpack:"channels"`
	Stakes      string             `msgpack:"stakes"`
	Attachable  map[string]bool    `msgpack:"attachable,omitempty"` // modifier card template id -> true if attaching it causes no channel conflict
}

// EnemySummary is the query boundary's read-only view of one opponent.
type EnemySummary struct {
	ID      core.EntityID `msgpack:"id"`
	Range   string        `msgpack:"range"`
	Primary bool          `msgpack:"primary"`
}

// ResourceView mirrors one agent's spendable resources at snapshot time.
type ResourceView struct {
	Stamina core.Resource    `msgpack:"stamina"`
	Focus   core.Resource    `msgpack:"focus"`
	Blood   core.Accumulator `msgpack:"blood"`
	Pain    core.Accumulator `msgpack:"pain"`
	Trauma  core.Accumulator `msgpack:"trauma"`
	Morale  core.Accumulator `msgpack:"morale"`
}

// AgentView bundles one agent's hand, in-play slots, resources, and
// enemy summaries as seen from that agent's perspective.
type AgentView struct {
	ID        core.EntityID  `msgpack:"id"`
	Hand      []CardView     `msgpack:"hand"`
	Pool      []CardView     `msgpack:"pool"` // always_available techniques_known, if any are loaded as cards
	Plays     []PlayView     `msgpack:"plays"`
	Resources ResourceView   `msgpack:"resources"`
	Enemies   []EnemySummary `msgpack:"enemies"`
}

// CombatSnapshot is the entire query boundary: an immutable, point-in-time
// copy of everything a frontend needs to render one encounter without
// reaching into the live World. Rebuilt on demand and cached until the
// next mutation (see World.snapshotDirty).
type CombatSnapshot struct {
	EncounterID string      `msgpack:"encounterId"`
	Phase       phase.State `msgpack:"phase"`
	BattleRound int         `msgpack:"battleRound"`
	Agents      []AgentView `msgpack:"agents"`
}

// Snapshot rebuilds (or returns the cached) CombatSnapshot. The cache is
// invalidated by any call that mutates World state; RunTick and AddAgent
// both set snapshotDirty.
func (w *World) Snapshot() CombatSnapshot {
	if !w.snapshotDirty && w.snapshot != nil {
		return *w.snapshot
	}
	snap := CombatSnapshot{
		EncounterID: w.EncounterID.String(),
		Phase:       w.FSM.Current,
		BattleRound: w.BattleRound,
	}
	for _, id := range w.Order {
		snap.Agents = append(snap.Agents, w.agentView(id))
	}
	w.snapshot = &snap
	w.snapshotDirty = false
	return snap
}

func (w *World) agentView(id core.EntityID) AgentView {
	agent := w.rulesWorld.Agents[id]
	view := AgentView{
		ID: id,
		Resources: ResourceView{
			Stamina: agent.Stamina, Focus: agent.Focus,
			Blood: agent.Blood, Pain: agent.Pain, Trauma: agent.Trauma, Morale: agent.Morale,
		},
	}
	if agent.Combat == nil {
		return view
	}

	for _, cardID := range w.rulesWorld.CardReg.Zone(id, cards.ZoneHand) {
		view.Hand = append(view.Hand, w.cardView(agent, cardID))
	}
	for _, idx := range agent.Combat.Timeline.OrderedIndices() {
		slot := agent.Combat.Timeline.At(idx)
		view.Plays = append(view.Plays, PlayView{
			CardID:     slot.Play.Action,
			Start:      slot.Start,
			End:        slot.End,
			Channels:   slot.Channels,
			Stakes:     string(slot.Play.Stakes),
			Attachable: w.attachability(view.Hand, slot.Channels),
		})
	}
	for _, other := range w.opponentsOf(id) {
		eng := w.rulesWorld.Engagements.Get(id, other)
		primary := agent.Combat.PrimaryTarget != nil && *agent.Combat.PrimaryTarget == other
		view.Enemies = append(view.Enemies, EnemySummary{ID: other, Range: eng.Range.String(), Primary: primary})
	}
	return view
}

// attachability reports, keyed by template ID for every modifier-tagged
// card in hand, true if attaching it to a play occupying playChannels
// would cause no channel conflict and false if it would (spec.md section
// 6's "would attaching modifier M to play P cause a height conflict"
// precomputation).
func (w *World) attachability(hand []CardView, playChannels template.Channel) map[string]bool {
	out := make(map[string]bool)
	for _, c := range hand {
		ct, ok := w.rulesWorld.Tables.Cards[c.TemplateID]
		if !ok || !ct.Tags.Has(template.TagModifier) {
			continue
		}
		var modChannels template.Channel
		if tech, ok := w.rulesWorld.Tables.Techniques[ct.TechniqueID]; ok {
			modChannels = tech.Channels
		}
		out[c.TemplateID] = !modChannels.Conflicts(playChannels)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// cardView determines playability the same way command.Dispatcher.playCard
// does, without mutating anything: phase tags, hand zone, and resource
// availability, reported as a reason string rather than an Error.
func (w *World) cardView(agent *cards.Agent, cardID core.EntityID) CardView {
	inst, ok := w.rulesWorld.CardReg.Get(cardID)
	view := CardView{ID: cardID}
	if !ok {
		view.Reason = "card instance not found"
		return view
	}
	view.TemplateID = inst.TemplateID
	ct, ok := w.rulesWorld.Tables.Cards[inst.TemplateID]
	if !ok {
		view.Reason = "unknown card template"
		return view
	}
	view.Cost = ct.Cost
	view.RequiresTarget = ct.CombatPlayable

	switch {
	case !ct.PlayableFrom.Has(template.SourceHand):
		view.Reason = "not playable from hand"
	case !phase.CanPlayInPhase(ct.Tags, w.FSM.Current):
		view.Reason = "wrong phase for this card"
	case agent.Stamina.Available() < ct.Cost.Stamina:
		view.Reason = "insufficient stamina"
	case agent.Focus.Available() < ct.Cost.Focus:
		view.Reason = "insufficient focus"
	default:
		view.Playable = true
	}
	return view
}

// MarshalSnapshot msgpack-encodes a CombatSnapshot for transport or
// fixture storage.
func MarshalSnapshot(s CombatSnapshot) ([]byte, error) {
	return msgpack.Marshal(s)
}

// UnmarshalSnapshot decodes bytes produced by MarshalSnapshot.
func UnmarshalSnapshot(data []byte) (CombatSnapshot, error) {
	var s CombatSnapshot
	err := msgpack.Unmarshal(data, &s)
	return s, err
}
