package command

import (
	"github.com/jruiznavarro/wargamestactics/internal/game/cards"
	"github.com/jruiznavarro/wargamestactics/internal/game/core"
	"github.com/jruiznavarro/wargamestactics/internal/game/phase"
	"github.com/jruiznavarro/wargamestactics/internal/game/rules"
	"github.com/jruiznavarro/wargamestactics/internal/game/template"
	"github.com/jruiznavarro/wargamestactics/internal/game/timeline"
)

// Command is one player-facing intent: the union of every field any
// command type might need, mirroring the superset-struct convention
// used for Predicate/Effect/Event in the template and event packages.
type Command struct {
	Type Type

	CardID     core.EntityID
	TimeStart  *float64
	Target     *core.EntityID
	ModifierOf *core.EntityID // attach as a modifier on this card's existing play
	PlayIndex  int            // for commit_withdraw/commit_stack
	Stakes     timeline.Stakes
	Overcommit bool // explicit opt-in to reserve past the tick's 1.0 ceiling
}

// Dispatcher holds everything Dispatch needs to validate and apply one
// command: the shared world (agents, card registry, templates), the
// tick scheduler, and the rule engine on_play_attempt/on_play hook.
type Dispatcher struct {
	World  *rules.World
	FSM    *phase.FSM
	Engine *rules.Engine
}

// NewDispatcher wires a Dispatcher over an existing world/scheduler.
func NewDispatcher(world *rules.World, fsm *phase.FSM, engine *rules.Engine) *Dispatcher {
	return &Dispatcher{World: world, FSM: fsm, Engine: engine}
}

// Dispatch validates and applies one command against actor's state,
// following the precondition/effect table spec.md section 6 defines.
func (d *Dispatcher) Dispatch(actor core.EntityID, cmd Command) (Result, error) {
	agent, ok := d.World.Agents[actor]
	if !ok || agent.Combat == nil {
		return Result{}, New(ErrInvalidTarget, "actor has no active combat state")
	}

	switch cmd.Type {
	case TypePlayCard:
		return d.playCard(agent, actor, cmd)
	case TypeCancelCard:
		return d.cancelCard(agent, actor, cmd)
	case TypeCommitAdd:
		return d.commitAdd(agent, actor, cmd)
	case TypeCommitWithdraw:
		return d.commitWithdraw(agent, cmd)
	case TypeCommitStack:
		return d.commitStack(agent, actor, cmd)
	case TypeCommitDone:
		return d.commitDone()
	case TypeSetPrimaryTarget:
		return d.setPrimaryTarget(agent, cmd)
	case TypeEndTurn:
		return d.endTurn()
	default:
		return Result{}, New(ErrInvalidTarget, "unrecognised command type")
	}
}

func (d *Dispatcher) cardTemplate(templateID string) (template.CardTemplate, bool) {
	ct, ok := d.World.Tables.Cards[templateID]
	return ct, ok
}

func (d *Dispatcher) playCard(agent *cards.Agent, actor core.EntityID, cmd Command) (Result, error) {
	d.Engine.Fire(d.World, template.TriggerOnPlayAttempt, "", rules.Context{
		World: d.World, Actor: actor, CardID: cmd.CardID, Target: cmd.Target,
	})

	if d.FSM.Current != phase.StatePlayerCardSelection && d.FSM.Current != phase.StateCommitPhase {
		return Result{}, New(ErrWrongPhase, "play_card requires selection or commit phase")
	}

	inst, ok := d.World.CardReg.Get(cmd.CardID)
	if !ok {
		return Result{}, New(ErrCardNotInHand, "card instance not found")
	}
	_, zone, ok := d.World.CardReg.Locate(cmd.CardID)
	if !ok || zone != cards.ZoneHand {
		return Result{}, New(ErrInvalidPlaySource, "card is not in hand")
	}

	ct, ok := d.cardTemplate(inst.TemplateID)
	if !ok {
		return Result{}, New(ErrInvalidPlaySource, "unknown card template")
	}
	if !ct.PlayableFrom.Has(template.SourceHand) {
		return Result{}, New(ErrInvalidPlaySource, "card is not playable from hand")
	}
	if !phase.CanPlayInPhase(ct.Tags, d.FSM.Current) {
		return Result{}, New(ErrWrongPhase, "card's phase tags do not match the current phase")
	}

	if agent.Stamina.Available() < ct.Cost.Stamina {
		return Result{}, New(ErrInsufficientStamina, "insufficient stamina")
	}
	if agent.Focus.Available() < ct.Cost.Focus {
		return Result{}, New(ErrInsufficientFocus, "insufficient focus")
	}

	var channels template.Channel
	var technique template.Technique
	if ct.CombatPlayable {
		if tech, ok := d.World.Tables.Techniques[ct.TechniqueID]; ok {
			channels = tech.Channels
			technique = tech
		}
		if cmd.Target != nil {
			reach := d.World.Engagements.Get(actor, *cmd.Target).Range
			if !technique.Reach.Contains(reach) {
				return Result{}, New(ErrOutOfRange, "technique's reach does not cover the current engagement range")
			}
		}
	}

	start := 0.0
	if cmd.TimeStart != nil {
		start = *cmd.TimeStart
	} else if s, ok := agent.Combat.Timeline.NextAvailableStart(channels, ct.Cost.Time); ok {
		start = s
	} else {
		return Result{}, New(ErrChannelConflict, "no available slot for this play's channels")
	}

	end := start + ct.Cost.Time
	if end > 1.0 && !cmd.Overcommit {
		return Result{}, New(ErrOverflow, "play would reserve past the tick's 1.0 ceiling without overcommit")
	}

	if !agent.Combat.Timeline.CanInsert(start, ct.Cost.Time, channels) {
		return Result{}, New(ErrChannelConflict, "play's channels conflict with an existing slot")
	}

	agent.Stamina.Reserve(ct.Cost.Stamina)
	agent.Focus.Reserve(ct.Cost.Focus)

	play := timeline.Play{Action: cmd.CardID, Stakes: cmd.Stakes, Target: cmd.Target}
	if cmd.ModifierOf != nil {
		if idx := findPlayByAction(agent.Combat.Timeline, *cmd.ModifierOf); idx >= 0 {
			slot := agent.Combat.Timeline.At(idx)
			slot.Play.ModifierStack = append(slot.Play.ModifierStack, cmd.CardID)
			slot.Play.ModifierStakes = append(slot.Play.ModifierStakes, cmd.Stakes)
		}
	} else {
		agent.Combat.Timeline.Insert(timeline.TimeSlot{
			Start: start, End: end, Play: play, Channels: channels, Overcommitted: end > 1.0,
		})
	}

	d.World.CardReg.Move(cmd.CardID, actor, cards.ZoneInPlay)

	d.Engine.Fire(d.World, template.TriggerOnPlay, "", rules.Context{
		World: d.World, Actor: actor, CardID: cmd.CardID, Target: cmd.Target,
	})

	return Result{Description: "card played", Success: true}, nil
}

func findPlayByAction(tl *timeline.Timeline, action core.EntityID) int {
	for _, i := range tl.OrderedIndices() {
		if tl.At(i).Play.Action == action {
			return i
		}
	}
	return -1
}

func (d *Dispatcher) cancelCard(agent *cards.Agent, actor core.EntityID, cmd Command) (Result, error) {
	_, zone, ok := d.World.CardReg.Locate(cmd.CardID)
	if !ok || zone != cards.ZoneInPlay {
		return Result{}, New(ErrInvalidPlaySource, "card is not in play")
	}
	inst, _ := d.World.CardReg.Get(cmd.CardID)
	ct, _ := d.cardTemplate(inst.TemplateID)

	agent.Stamina.Release(ct.Cost.Stamina)
	agent.Focus.Release(ct.Cost.Focus)

	if idx := findPlayByAction(agent.Combat.Timeline, cmd.CardID); idx >= 0 {
		agent.Combat.Timeline.Remove(idx)
	}
	d.World.CardReg.Move(cmd.CardID, actor, cards.ZoneHand)
	return Result{Description: "card cancelled", Success: true}, nil
}

func (d *Dispatcher) commitAdd(agent *cards.Agent, actor core.EntityID, cmd Command) (Result, error) {
	if d.FSM.Current != phase.StateCommitPhase {
		return Result{}, New(ErrWrongPhase, "commit_add requires commit phase")
	}
	if agent.Focus.Available() < 1 {
		return Result{}, New(ErrInsufficientFocus, "commit_add requires 1 focus")
	}
	agent.Focus.Reserve(1)

	play := timeline.Play{Action: cmd.CardID, AddedInCommit: true, Target: cmd.Target}
	start := 0.0
	if s, ok := agent.Combat.Timeline.NextAvailableStart(0, 0); ok {
		start = s
	}
	agent.Combat.Timeline.Insert(timeline.TimeSlot{Start: start, End: start, Play: play})
	d.World.CardReg.Move(cmd.CardID, actor, cards.ZoneInPlay)
	return Result{Description: "card added in commit", Success: true}, nil
}

func (d *Dispatcher) commitWithdraw(agent *cards.Agent, cmd Command) (Result, error) {
	if d.FSM.Current != phase.StateCommitPhase {
		return Result{}, New(ErrWrongPhase, "commit_withdraw requires commit phase")
	}
	if agent.Focus.Available() < 1 {
		return Result{}, New(ErrInsufficientFocus, "commit_withdraw requires 1 focus")
	}
	slot := agent.Combat.Timeline.At(cmd.PlayIndex)
	if slot == nil {
		return Result{}, New(ErrInvalidTarget, "no play at that index")
	}
	agent.Focus.Reserve(1)

	if inst, ok := d.World.CardReg.Get(slot.Play.Action); ok {
		if ct, ok := d.cardTemplate(inst.TemplateID); ok {
			agent.Stamina.Release(ct.Cost.Stamina)
		}
	}
	agent.Combat.Timeline.Remove(cmd.PlayIndex)
	return Result{Description: "play withdrawn", Success: true}, nil
}

func (d *Dispatcher) commitStack(agent *cards.Agent, actor core.EntityID, cmd Command) (Result, error) {
	if d.FSM.Current != phase.StateCommitPhase {
		return Result{}, New(ErrWrongPhase, "commit_stack requires commit phase")
	}
	slot := agent.Combat.Timeline.At(cmd.PlayIndex)
	if slot == nil {
		return Result{}, New(ErrInvalidTarget, "no play at that index")
	}

	leadInst, ok := d.World.CardReg.Get(slot.Play.Action)
	stackInst, ok2 := d.World.CardReg.Get(cmd.CardID)
	if !ok || !ok2 || leadInst.TemplateID != stackInst.TemplateID {
		return Result{}, New(ErrInvalidTarget, "stacked card must share the lead play's template")
	}

	isFirstStack := len(slot.Play.ModifierStack) == 0
	if isFirstStack {
		if agent.Focus.Available() < 1 {
			return Result{}, New(ErrInsufficientFocus, "first stack on a play costs 1 focus")
		}
		agent.Focus.Reserve(1)
	}
	slot.Play.ModifierStack = append(slot.Play.ModifierStack, cmd.CardID)
	d.World.CardReg.Move(cmd.CardID, actor, cards.ZoneInPlay)
	return Result{Description: "card stacked onto play", Success: true}, nil
}

func (d *Dispatcher) commitDone() (Result, error) {
	if d.FSM.Current != phase.StateCommitPhase {
		return Result{}, New(ErrWrongPhase, "commit_done requires commit phase")
	}
	d.FSM.Advance()
	return Result{Description: "advanced to tick_resolution", Success: true}, nil
}

func (d *Dispatcher) setPrimaryTarget(agent *cards.Agent, cmd Command) (Result, error) {
	if cmd.Target == nil {
		return Result{}, New(ErrInvalidTarget, "set_primary_target requires a target")
	}
	agent.Combat.PrimaryTarget = cmd.Target
	return Result{Description: "primary target updated", Success: true}, nil
}

func (d *Dispatcher) endTurn() (Result, error) {
	if d.FSM.Current != phase.StatePlayerCardSelection {
		return Result{}, New(ErrWrongPhase, "end_turn requires selection phase")
	}
	d.FSM.Advance()
	return Result{Description: "skipped to commit phase", Success: true}, nil
}
