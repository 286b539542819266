package rules

import (
	"github.com/jruiznavarro/wargamestactics/internal/game/cards"
	"github.com/jruiznavarro/wargamestactics/internal/game/core"
	"github.com/jruiznavarro/wargamestactics/internal/game/event"
	"github.com/jruiznavarro/wargamestactics/internal/game/template"
)

// cardRule pairs a firing template.Rule with the card/agent it came
// from, plus its position in the deterministic scan order.
type cardRule struct {
	cardOrder int // position in the owning agent's scan order
	rule      template.Rule
	owner     core.EntityID
	cardID    core.EntityID
}

// Engine fires rules at hook points. Unlike the teacher's Engine, it
// holds no registered-rule map of its own: rules live on cards, and
// which cards are "active" (in play, in hand) changes every tick, so
// Engine derives the firing set live from the World at Fire time.
type Engine struct{}

// NewEngine creates a rule interpreter.
func NewEngine() *Engine {
	return &Engine{}
}

// collectRules scans every agent's in-play and hand cards, in agent
// scan order then card order then rule order within the card, gathering
// every rule whose Trigger matches -- spec.md section 4.2's
// deterministic ordering.
func (e *Engine) collectRules(w *World, kind template.TriggerKind, tag event.Tag) []cardRule {
	var out []cardRule
	cardOrder := 0
	for _, agentID := range sortedAgentIDs(w.Agents) {
		agent := w.Agents[agentID]
		if agent.Combat == nil {
			continue
		}
		ids := append(append([]core.EntityID{}, w.CardReg.Zone(agentID, cards.ZoneInPlay)...), w.CardReg.Zone(agentID, cards.ZoneHand)...)
		for _, cardID := range ids {
			inst, ok := w.CardReg.Get(cardID)
			if !ok {
				continue
			}
			tmpl, ok := w.Tables.Cards[inst.TemplateID]
			if !ok {
				continue
			}
			for _, r := range tmpl.Rules {
				if matches(r.Trigger, kind, tag) {
					out = append(out, cardRule{cardOrder: cardOrder, rule: r, owner: agentID, cardID: cardID})
				}
			}
			cardOrder++
		}
	}
	return out
}

func sortedAgentIDs(agents map[core.EntityID]*cards.Agent) []core.EntityID {
	var ids []core.EntityID
	for id := range agents {
		ids = append(ids, id)
	}
	for i := 1; i < len(ids); i++ {
		for j := i; j > 0 && idLess(ids[j], ids[j-1]); j-- {
			ids[j-1], ids[j] = ids[j], ids[j-1]
		}
	}
	return ids
}

func idLess(a, b core.EntityID) bool {
	if a.Index != b.Index {
		return a.Index < b.Index
	}
	return a.Generation < b.Generation
}

// Fire runs every rule matching (kind, tag) against the world. ctxBase
// supplies context fields common to the firing event (e.g. an explicit
// Target for on_event firings with a known event source); Actor and
// CardID are overwritten per matching rule with its owning card.
func (e *Engine) Fire(w *World, kind template.TriggerKind, tag event.Tag, ctxBase Context) []Failure {
	var failures []Failure
	for _, cr := range e.collectRules(w, kind, tag) {
		ctx := ctxBase
		ctx.World = w
		ctx.Actor = cr.owner
		ctx.CardID = cr.cardID
		ctx.EventTag = tag

		if !EvalPredicate(cr.rule.Predicate, &ctx) {
			continue
		}
		if f, ok := e.applyRule(w, cr.rule, &ctx); !ok {
			failures = append(failures, f)
		}
	}
	return failures
}

// applyRule resolves and runs every expression in a rule. If applying an
// effect would violate a resource invariant, the rule firing stops there
// and reports the failure; effects already applied earlier in the same
// firing are not undone. InvalidTarget only skips the offending
// expression.
func (e *Engine) applyRule(w *World, r template.Rule, ctx *Context) (Failure, bool) {
	for _, expr := range r.Expressions {
		targets := ResolveTargets(expr.Target, ctx)
		for _, t := range targets {
			if expr.Filter != nil {
				targetCtx := *ctx
				targetCtx.Target = &t
				if !EvalPredicate(*expr.Filter, &targetCtx) {
					continue
				}
			}
			if err := ApplyEffect(w, expr.Effect, ctx, t); err != nil {
				if f, ok := err.(Failure); ok && f.Kind == FailInsufficientResources {
					return f, false
				}
				continue
			}
		}
	}
	return Failure{}, true
}
