package rules

import (
	"github.com/jruiznavarro/wargamestactics/internal/game/cards"
	"github.com/jruiznavarro/wargamestactics/internal/game/core"
	"github.com/jruiznavarro/wargamestactics/internal/game/template"
)

// ResolveTargets turns a declarative TargetQuery into a concrete list of
// agent IDs, capability-scoped per spec.md section 4.2: self is always
// valid; single/all_enemies/all_in_range iterate encounter participants.
func ResolveTargets(q template.TargetQuery, ctx *Context) []core.EntityID {
	switch q.Kind {
	case template.TargetSelf:
		return []core.EntityID{ctx.Actor}

	case template.TargetFocal:
		agent := ctx.Agent()
		if agent == nil || agent.Combat == nil || agent.Combat.PrimaryTarget == nil {
			return nil
		}
		return []core.EntityID{*agent.Combat.PrimaryTarget}

	case template.TargetEventSource:
		if ctx.Target == nil {
			return nil
		}
		return []core.EntityID{*ctx.Target}

	case template.TargetAllEnemies, template.TargetAllInRange:
		var out []core.EntityID
		for _, id := range sortedAgentIDs(ctx.World.Agents) {
			if id == ctx.Actor {
				continue
			}
			if q.Kind == template.TargetAllInRange && ctx.World.Engagements.Get(ctx.Actor, id).Range > template.ReachMedium {
				continue
			}
			out = append(out, id)
		}
		return out

	case template.TargetSingle:
		if q.Predicate == nil {
			return nil
		}
		var out []core.EntityID
		for _, id := range sortedAgentIDs(ctx.World.Agents) {
			if id == ctx.Actor {
				continue
			}
			candidate := *ctx
			candidate.Target = &id
			if EvalPredicate(*q.Predicate, &candidate) {
				out = append(out, id)
				break
			}
		}
		return out

	case template.TargetMyPlay:
		// Resolves to the owning agent; ApplyEffect locates the specific
		// play within that agent's timeline by matching ctx.CardID, since
		// Context carries no timeline/slot reference of its own.
		return []core.EntityID{ctx.Actor}

	case template.TargetOpponentPlay:
		agent := ctx.Agent()
		if ctx.Target != nil {
			return []core.EntityID{*ctx.Target}
		}
		if agent != nil && agent.Combat != nil && agent.Combat.PrimaryTarget != nil {
			return []core.EntityID{*agent.Combat.PrimaryTarget}
		}
		return nil

	case template.TargetEquippedItem:
		agent := ctx.Agent()
		if agent == nil {
			return nil
		}
		return matchingItems(ctx, agent, q.Filter)

	case template.TargetEngagement, template.TargetFocalEngagement:
		if ctx.Target == nil {
			return nil
		}
		return []core.EntityID{*ctx.Target}

	default:
		return nil
	}
}

// matchingItems returns agent IDs standing in for equipped-item
// references; since items are template IDs rather than entities, the
// resolution/effect layer re-looks-up the matching item by filter when
// applying the effect (throw_equipped, etc.).
func matchingItems(ctx *Context, agent *cards.Agent, filter template.EquipFilter) []core.EntityID {
	if hasEquipped(ctx, agent, filter) {
		return []core.EntityID{agent.ID}
	}
	return nil
}
