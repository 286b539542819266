// Package game is the World/query boundary spec.md section 6 names:
// the aggregate that owns every live registry for one encounter, the
// RunTick driver that walks the scheduler FSM through a full cycle, and
// the CombatSnapshot query surface external collaborators read between
// ticks. Grounded on the teacher's internal/game/game.go Game struct
// (the same "one struct owns every registry, NewGame wires them
// together" shape), generalized from AoS4's battle-round loop to
// spec.md's six-state tick cycle over cards/timeline/body instead of
// units/board.
package game

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/jruiznavarro/wargamestactics/internal/game/ai"
	"github.com/jruiznavarro/wargamestactics/internal/game/cards"
	"github.com/jruiznavarro/wargamestactics/internal/game/command"
	"github.com/jruiznavarro/wargamestactics/internal/game/condition"
	"github.com/jruiznavarro/wargamestactics/internal/game/core"
	"github.com/jruiznavarro/wargamestactics/internal/game/engagement"
	"github.com/jruiznavarro/wargamestactics/internal/game/event"
	"github.com/jruiznavarro/wargamestactics/internal/game/phase"
	"github.com/jruiznavarro/wargamestactics/internal/game/physio"
	"github.com/jruiznavarro/wargamestactics/internal/game/resolution"
	"github.com/jruiznavarro/wargamestactics/internal/game/rules"
	"github.com/jruiznavarro/wargamestactics/internal/game/template"
	"github.com/jruiznavarro/wargamestactics/internal/game/timeline"
	"github.com/jruiznavarro/wargamestactics/pkg/dice"
)

// DebugInvariants gates the checkInvariants pass at the end of every
// RunTick. Off by default (production path); set true in development
// and tests that want to catch a broken registry/body invariant the
// moment it happens rather than as a downstream symptom.
var DebugInvariants = false

// World is the entire live state of one encounter: every agent, the
// card registry, the engagement map, the static template tables, the
// event bus, the rule interpreter, the tick scheduler, and the command
// dispatcher built over all of it.
type World struct {
	EncounterID uuid.UUID
	Seed        int64

	rulesWorld *rules.World
	Streams    *dice.Streams
	Rules      *rules.Engine
	FSM        *phase.FSM
	Dispatcher *command.Dispatcher

	// Order is the fixed agent scan order used for draw/selection/
	// apply_effects passes, so iteration is deterministic independent of
	// Go's randomized map order.
	Order []core.EntityID

	Policies map[core.EntityID]*ai.Policy

	// Shuffle reshuffles a shuffled_deck agent's draw pile in place.
	// Left nil, reshuffling preserves discard order (deterministic, useful
	// for tests); callers wanting real randomization should set this to a
	// Fisher-Yates shuffle seeded from Streams.Loot.
	Shuffle func([]core.EntityID)

	BattleRound     int
	MaxBattleRounds int

	snapshotDirty bool
	snapshot      *CombatSnapshot
}

// NewWorld creates an empty encounter: template tables, an empty card
// registry and engagement map, a fresh scheduler at draw_hand, and a
// three-stream RNG derived from seed.
func NewWorld(seed int64, maxBattleRounds int) *World {
	w := &World{
		EncounterID:     uuid.New(),
		Seed:            seed,
		Streams:         dice.NewStreams(seed),
		Rules:           rules.NewEngine(),
		FSM:             phase.New(),
		Policies:        make(map[core.EntityID]*ai.Policy),
		MaxBattleRounds: maxBattleRounds,
		snapshotDirty:   true,
	}
	w.rulesWorld = &rules.World{
		Agents:      make(map[core.EntityID]*cards.Agent),
		CardReg:     cards.NewRegistry(),
		Engagements: engagement.NewMap(),
		Tables:      template.NewTables(),
		Bus:         event.NewBus(),
	}
	w.Dispatcher = command.NewDispatcher(w.rulesWorld, w.FSM, w.Rules)
	return w
}

// Tables, CardReg, Engagements, Bus, and Agents expose the underlying
// rules.World registries so callers outside this package (duelsim
// scenario setup, tests) can populate an encounter before the first tick.
func (w *World) Tables() *template.Tables               { return w.rulesWorld.Tables }
func (w *World) CardReg() *cards.Registry               { return w.rulesWorld.CardReg }
func (w *World) Engagements() *engagement.Map           { return w.rulesWorld.Engagements }
func (w *World) Bus() *event.Bus                        { return w.rulesWorld.Bus }
func (w *World) Agents() map[core.EntityID]*cards.Agent { return w.rulesWorld.Agents }

// AddAgent enrolls agent under id, enters it into the encounter (which
// allocates its CombatState and populates draw from DeckCards), and
// records it in the deterministic scan order. If agent's draw style is
// scripted, a Policy is wired for it immediately.
func (w *World) AddAgent(id core.EntityID, agent *cards.Agent, shuffle func([]core.EntityID)) {
	agent.EnterEncounter(w.rulesWorld.CardReg, shuffle)
	w.rulesWorld.Agents[id] = agent
	w.Order = append(w.Order, id)
	if agent.DrawStyle == cards.DrawScripted {
		w.Policies[id] = ai.NewPolicy(w.rulesWorld.Tables, w.rulesWorld.CardReg, w.Streams.Combat)
	}
	w.snapshotDirty = true
}

// RunTick drives the scheduler through exactly one full cycle: draw_hand
// through advance, then wraps back to draw_hand (or stops at
// encounter_summary if a victory/defeat condition fired mid-cycle). Every
// sub-stage's mutations stay inside this call, matching spec.md section
// 5's "each phase transition is the single mutation point" discipline.
func (w *World) RunTick() {
	if w.FSM.Current == phase.StateEncounterSummary {
		return
	}

	if DebugInvariants {
		defer w.recoverInvariant()
	}

	w.runDrawHand()
	w.FSM.Advance() // -> player_card_selection

	w.runSelection()
	w.FSM.Advance() // -> commit_phase

	w.runCommit()
	w.FSM.Advance() // -> tick_resolution

	woundsBefore := make(map[core.EntityID]int, len(w.Order))
	for _, id := range w.Order {
		woundsBefore[id] = len(w.rulesWorld.Agents[id].Body.Wounds)
	}
	w.runTickResolution()
	w.FSM.Advance() // -> apply_effects

	w.runApplyEffects(woundsBefore)
	w.checkEncounterEnd()
	w.FSM.Advance() // -> advance

	w.runAdvance()
	w.FSM.Advance() // -> back to draw_hand (or stays if already terminal)

	if DebugInvariants {
		w.checkInvariants()
	}

	w.snapshotDirty = true
}

// checkInvariants panics on the first broken domain invariant it finds:
// every card instance in exactly one zone or the environment, and every
// agent's body tree internally consistent. Only called when
// DebugInvariants is set; RunTick recovers the panic into a diagnostic
// event and aborts the tick rather than crashing the process.
func (w *World) checkInvariants() {
	if err := w.rulesWorld.CardReg.Audit(); err != nil {
		panic(err)
	}
	for _, id := range w.Order {
		if err := w.rulesWorld.Agents[id].Body.Validate(); err != nil {
			panic(err)
		}
	}
}

// recoverInvariant turns a checkInvariants panic into a diagnostic event
// instead of crashing the process, per spec.md section 7's release-path
// guidance.
func (w *World) recoverInvariant() {
	if r := recover(); r != nil {
		w.rulesWorld.Bus.Emit(event.Event{Tag: event.TagDiagnostic, Message: fmt.Sprint(r)})
	}
}

// runDrawHand refreshes each agent's hand according to its draw style,
// then fires on_draw rules. The Fire call lives here rather than inside
// cards.RefreshHand itself: internal/game/rules imports internal/game/
// cards for Agent/Zone, so cards cannot import rules back without a
// cycle, and this is RefreshHand's only call site.
func (w *World) runDrawHand() {
	for _, id := range w.Order {
		cards.RefreshHand(w.rulesWorld.Agents[id], w.Shuffle)
		w.Rules.Fire(w.rulesWorld, template.TriggerOnDraw, "", rules.Context{
			World: w.rulesWorld, Actor: id,
		})
	}
}

// runSelection asks every scripted agent's policy for one command and
// dispatches it. Non-scripted agents (human/UI driven) are expected to
// have already issued their commands through Dispatch before RunTick was
// called; this pass only drives the agents this package owns end-to-end.
//
// end_turn/commit_done are never dispatched here: both self-advance the
// FSM (see command.Dispatcher.endTurn/commitDone), and RunTick already
// owns every phase transition explicitly. A scripted Decide of end_turn
// is read as "nothing to play this tick", not as a request to advance.
func (w *World) runSelection() {
	for _, id := range w.Order {
		policy, ok := w.Policies[id]
		if !ok {
			continue
		}
		agent := w.rulesWorld.Agents[id]
		cmd := policy.Decide(id, agent)
		if cmd.Type == command.TypeEndTurn {
			continue
		}
		w.Dispatcher.Dispatch(id, cmd)
	}
}

// runCommit fires on_commit rules for every agent. A full reinforcement
// policy (add/withdraw/stack during commit) is out of scope for a fixed
// decision procedure, so scripted agents never dispatch commit commands
// themselves -- but cards already in play still see the commit hook.
func (w *World) runCommit() {
	for _, id := range w.Order {
		w.Rules.Fire(w.rulesWorld, template.TriggerOnCommit, "", rules.Context{
			World: w.rulesWorld, Actor: id,
		})
	}
}

// runTickResolution resolves every offensive-technique play across every
// agent's timeline, in ascending (time_start, owner_id, timeline_index)
// order per spec.md section 5.
func (w *World) runTickResolution() {
	type scheduled struct {
		owner core.EntityID
		start float64
		index int
		slot  *timeline.TimeSlot
	}
	var all []scheduled
	for _, id := range w.Order {
		agent := w.rulesWorld.Agents[id]
		if agent.Combat == nil || agent.Combat.Timeline == nil {
			continue
		}
		for _, idx := range agent.Combat.Timeline.OrderedIndices() {
			slot := agent.Combat.Timeline.At(idx)
			all = append(all, scheduled{owner: id, start: slot.Start, index: idx, slot: slot})
		}
	}
	for i := 1; i < len(all); i++ {
		for j := i; j > 0 && less(all[j], all[j-1]); j-- {
			all[j-1], all[j] = all[j], all[j-1]
		}
	}

	w.resolveManoeuvreConflicts(all)

	for _, s := range all {
		w.resolvePlay(s.owner, s.slot)
	}
}

// resolveManoeuvreConflicts settles every pair of agents with overlapping
// footwork slots that each advertise a range change (spec.md section
// 4.5): the higher-scoring agent's modify_range effect applies; the
// loser's play is cancelled outright. On a tie neither applies, so both
// are cancelled.
func (w *World) resolveManoeuvreConflicts(all []struct {
	owner core.EntityID
	start float64
	index int
	slot  *timeline.TimeSlot
}) {
	for i := range all {
		a := all[i]
		if !w.isFootworkRangeChange(a.slot) {
			continue
		}
		for j := i + 1; j < len(all); j++ {
			b := all[j]
			if b.owner == a.owner || !w.isFootworkRangeChange(b.slot) {
				continue
			}
			if !timeline.Overlaps(a.slot, b.slot) {
				continue
			}
			scoreA := w.manoeuvreScoreFor(a.owner, b.owner)
			scoreB := w.manoeuvreScoreFor(b.owner, a.owner)
			aWins, bWins := engagement.ResolveManoeuvreConflict(scoreA, scoreB)
			switch {
			case aWins:
				b.slot.Play.Cancelled = true
			case bWins:
				a.slot.Play.Cancelled = true
			default:
				a.slot.Play.Cancelled = true
				b.slot.Play.Cancelled = true
			}
		}
	}
}

// isFootworkRangeChange reports whether slot occupies the footwork
// channel and its card's rules advertise a modify_range effect.
func (w *World) isFootworkRangeChange(slot *timeline.TimeSlot) bool {
	if slot.Channels&template.ChannelFootwork == 0 {
		return false
	}
	inst, ok := w.rulesWorld.CardReg.Get(slot.Play.Action)
	if !ok {
		return false
	}
	ct, ok := w.rulesWorld.Tables.Cards[inst.TemplateID]
	if !ok {
		return false
	}
	for _, r := range ct.Rules {
		for _, expr := range r.Expressions {
			if expr.Effect.Kind == template.EffModifyRange {
				return true
			}
		}
	}
	return false
}

// manoeuvreScoreFor computes id's positioning-contest score against
// opponent: mobility as speed, the shared engagement position axis,
// id's correctly-oriented balance, and its condition-derived footwork
// multiplier.
func (w *World) manoeuvreScoreFor(id, opponent core.EntityID) float64 {
	agent := w.rulesWorld.Agents[id]
	eng := w.rulesWorld.Engagements.Get(id, opponent)
	speed := agent.Body.MobilityScore()
	balance := w.rulesWorld.Engagements.BalanceFor(id, opponent)
	mult := footworkMultFor(agent, w.rulesWorld.Tables)
	return engagement.ManoeuvreScore(speed, eng.Position, balance, mult)
}

// footworkMultFor folds condition_penalties.footwork_mult across every
// active condition, matching CombatModifiers.apply's accumulation.
func footworkMultFor(agent *cards.Agent, tables *template.Tables) float64 {
	mult := 1.0
	if agent.Combat == nil {
		return mult
	}
	for _, cond := range agent.Combat.ActiveConditions {
		if p, ok := tables.ConditionPenalties[cond]; ok {
			mult *= p.FootworkMult
		}
	}
	return mult
}

func less(a, b struct {
	owner core.EntityID
	start float64
	index int
	slot  *timeline.TimeSlot
}) bool {
	if a.start != b.start {
		return a.start < b.start
	}
	if a.owner != b.owner {
		return idLess(a.owner, b.owner)
	}
	return a.index < b.index
}

func idLess(a, b core.EntityID) bool {
	if a.Index != b.Index {
		return a.Index < b.Index
	}
	return a.Generation < b.Generation
}

// resolvePlay fires on_resolve rules for the play, then -- if it is
// still live and combat-playable -- resolves its technique against the
// play's target (falling back to the attacker's primary target) via the
// resolution engine. A play cancelled either before or during on_resolve
// (cancel_play, or a lost manoeuvre contest) resolves to nothing.
func (w *World) resolvePlay(attackerID core.EntityID, slot *timeline.TimeSlot) {
	if slot.Play.Cancelled {
		return
	}

	attacker := w.rulesWorld.Agents[attackerID]

	w.Rules.Fire(w.rulesWorld, template.TriggerOnResolve, "", rules.Context{
		World: w.rulesWorld, Actor: attackerID, CardID: slot.Play.Action, Target: slot.Play.Target,
	})

	if slot.Play.Cancelled {
		return
	}

	inst, ok := w.rulesWorld.CardReg.Get(slot.Play.Action)
	if !ok {
		return
	}
	ct, ok := w.rulesWorld.Tables.Cards[inst.TemplateID]
	if !ok || !ct.CombatPlayable {
		return
	}
	technique, ok := w.rulesWorld.Tables.Techniques[ct.TechniqueID]
	if !ok {
		return
	}

	var defenderID core.EntityID
	switch {
	case slot.Play.Target != nil:
		defenderID = *slot.Play.Target
	case attacker.Combat != nil && attacker.Combat.PrimaryTarget != nil:
		defenderID = *attacker.Combat.PrimaryTarget
	default:
		return
	}
	defender, ok := w.rulesWorld.Agents[defenderID]
	if !ok {
		return
	}

	weapon := attacker.EquippedWeapon(w.rulesWorld.Tables.Weapons)

	stakes := slot.Play.Stakes
	for _, ms := range slot.Play.ModifierStakes {
		stakes = timeline.WorstStakes(stakes, ms)
	}

	opponents := w.opponentsOf(defenderID)
	ctx := resolution.AttackContext{
		Attacker:     attacker,
		Defender:     defender,
		Engagement:   w.rulesWorld.Engagements.Get(attackerID, defenderID),
		Technique:    technique,
		Weapon:       weapon,
		Stakes:       stakes,
		OverlayBonus: w.overlayBonusFor(attacker, slot),
	}

	resolution.ResolveTechnique(
		w.Streams.Combat, w.rulesWorld.Tables, w.rulesWorld.Engagements, w.rulesWorld.Bus,
		attackerID, defenderID, attacker, defender, opponents, ctx,
	)
}

// overlayBonusFor sums Technique.OverlayBonus across every other live
// slot on attacker's own timeline that overlaps slot in time -- the
// "overlapping footwork slot" contribution to CombatModifiers.for_attacker.
func (w *World) overlayBonusFor(attacker *cards.Agent, slot *timeline.TimeSlot) float64 {
	if attacker.Combat == nil || attacker.Combat.Timeline == nil {
		return 0
	}
	bonus := 0.0
	for _, idx := range attacker.Combat.Timeline.OrderedIndices() {
		other := attacker.Combat.Timeline.At(idx)
		if other == slot || !timeline.Overlaps(slot, other) {
			continue
		}
		inst, ok := w.rulesWorld.CardReg.Get(other.Play.Action)
		if !ok {
			continue
		}
		ct, ok := w.rulesWorld.Tables.Cards[inst.TemplateID]
		if !ok || ct.TechniqueID == "" {
			continue
		}
		if tech, ok := w.rulesWorld.Tables.Techniques[ct.TechniqueID]; ok {
			bonus += tech.OverlayBonus
		}
	}
	return bonus
}

// opponentsOf returns every other enrolled agent's ID, used as the
// "opponents" list flanking assessment and the condition iterator need.
func (w *World) opponentsOf(id core.EntityID) []core.EntityID {
	var out []core.EntityID
	for _, other := range w.Order {
		if other != id {
			out = append(out, other)
		}
	}
	return out
}

// runApplyEffects is the apply_effects stage: zone-transfer effects first
// (spending the cost reserved at play time and discarding resolved
// cards -- resolution itself "mutates wounds and engagements but never
// zone lists" per spec.md section 5), then the physiology tick over the
// wounds this tick's resolution pass produced, then the condition
// iterator refresh.
func (w *World) runApplyEffects(woundsBefore map[core.EntityID]int) {
	w.finalizePlays()

	for _, id := range w.Order {
		agent := w.rulesWorld.Agents[id]
		newWounds := agent.Body.Wounds[woundsBefore[id]:]
		opponents := w.opponentsOf(id)
		physio.Tick(agent, id, newWounds, w.rulesWorld.Engagements, opponents, w.rulesWorld.Tables, w.rulesWorld.Bus, w.Rules, w.rulesWorld)
	}

	for _, id := range w.Order {
		agent := w.rulesWorld.Agents[id]
		if agent.Combat == nil {
			continue
		}
		yields := condition.Iterate(agent, w.rulesWorld.Engagements, w.opponentsOf(id), w.rulesWorld.Tables)
		for _, y := range yields {
			w.addCondition(agent, y)
		}
	}
}

// finalizePlays spends the stamina/focus reserved by every play resolved
// this tick (scaled by modify_play's cost_mult, if any) and discards the
// card that carried it. A cancelled play refunds its reservation instead
// of spending it. Modifier-stack cards follow their lead play either way.
func (w *World) finalizePlays() {
	for _, id := range w.Order {
		agent := w.rulesWorld.Agents[id]
		if agent.Combat == nil || agent.Combat.Timeline == nil {
			continue
		}
		for _, idx := range agent.Combat.Timeline.OrderedIndices() {
			slot := agent.Combat.Timeline.At(idx)
			cardIDs := append([]core.EntityID{slot.Play.Action}, slot.Play.ModifierStack...)
			for _, cardID := range cardIDs {
				inst, ok := w.rulesWorld.CardReg.Get(cardID)
				if !ok {
					continue
				}
				if ct, ok := w.rulesWorld.Tables.Cards[inst.TemplateID]; ok {
					if slot.Play.Cancelled {
						agent.Stamina.Release(ct.Cost.Stamina)
						agent.Focus.Release(ct.Cost.Focus)
					} else {
						mult := slot.Play.EffectiveCostMult()
						agent.Stamina.Spend(int(float64(ct.Cost.Stamina) * mult))
						agent.Focus.Spend(int(float64(ct.Cost.Focus) * mult))
					}
				}
				w.rulesWorld.CardReg.Move(cardID, id, cards.ZoneDiscard)
			}
		}
	}
}

func (w *World) addCondition(agent *cards.Agent, y condition.Yield) {
	for _, c := range agent.Combat.ActiveConditions {
		if c == y.Condition {
			return
		}
	}
	agent.Combat.ActiveConditions = append(agent.Combat.ActiveConditions, y.Condition)
	if !y.Expiration.Dynamic && y.Expiration.Ticks > 0 {
		agent.Combat.ConditionTimers[y.Condition] = y.Expiration.Ticks
	}
}

// checkEncounterEnd ends the encounter once at most one enrolled agent
// has blood remaining.
func (w *World) checkEncounterEnd() {
	alive := 0
	for _, id := range w.Order {
		if w.rulesWorld.Agents[id].Blood.Current > 0 {
			alive++
		}
	}
	if alive <= 1 {
		w.rulesWorld.Bus.Emit(event.Event{Tag: event.TagCombatEnded})
		w.FSM.EndEncounter()
	}
}

// runAdvance clears each agent's per-tick timeline (a fresh grid for the
// next tick's plays), refreshes per-turn resources, and bumps the battle
// round counter, ending the encounter once it reaches MaxBattleRounds
// (0 means no limit).
func (w *World) runAdvance() {
	for _, id := range w.Order {
		agent := w.rulesWorld.Agents[id]
		agent.Stamina.RefreshTurn()
		agent.Focus.RefreshTurn()
		if agent.Combat != nil {
			agent.Combat.Timeline = timeline.New()
		}
	}
	w.BattleRound++
	if w.MaxBattleRounds > 0 && w.BattleRound >= w.MaxBattleRounds {
		w.FSM.EndEncounter()
	}
}
