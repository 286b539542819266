package rules

import "github.com/jruiznavarro/wargamestactics/internal/game/template"

// EvalPredicate evaluates a predicate tree against ctx. Missing context
// pieces (no target/engagement) make range/advantage predicates
// evaluate false rather than erroring, per spec.md section 4.2 step 2.
func EvalPredicate(p template.Predicate, ctx *Context) bool {
	switch p.Kind {
	case template.PredAlways:
		return true

	case template.PredHasTag:
		agent := ctx.Agent()
		if agent == nil {
			return false
		}
		inst, ok := ctx.World.CardReg.Get(ctx.CardID)
		if !ok {
			return false
		}
		tmpl, ok := ctx.World.Tables.Cards[inst.TemplateID]
		return ok && tmpl.Tags.Has(p.Tag)

	case template.PredCardHasTag:
		inst, ok := ctx.World.CardReg.Get(ctx.CardID)
		if !ok {
			return false
		}
		tmpl, ok := ctx.World.Tables.Cards[inst.TemplateID]
		return ok && tmpl.Tags.Has(p.Tag)

	case template.PredWeaponCategory:
		w := dominantWeapon(ctx)
		return w != nil && w.Category == p.Category

	case template.PredWeaponReach:
		w := dominantWeapon(ctx)
		if w == nil {
			return false
		}
		return p.Op.Compare(float64(w.Reach.Max), float64(p.Reach))

	case template.PredRange:
		e := ctx.Engagement()
		if e == nil {
			return false
		}
		return p.Op.Compare(float64(e.Range), float64(p.Reach))

	case template.PredAdvantageThreshold:
		e := ctx.Engagement()
		if e == nil {
			return false
		}
		return p.Op.Compare(e.AxisValue(p.Axis), p.Threshold)

	case template.PredHasCondition:
		agent := ctx.Agent()
		if agent == nil || agent.Combat == nil {
			return false
		}
		for _, c := range agent.Combat.ActiveConditions {
			if c == p.Condition {
				return true
			}
		}
		return false

	case template.PredHasEquipped:
		agent := ctx.Agent()
		if agent == nil {
			return false
		}
		return hasEquipped(ctx, agent, p.Filter)

	case template.PredMyPlay:
		return p.Inner != nil && EvalPredicate(*p.Inner, ctx)

	case template.PredOpponentPlay:
		if ctx.Target == nil || p.Inner == nil {
			return false
		}
		opp := *ctx
		opp.Actor = *ctx.Target
		return EvalPredicate(*p.Inner, &opp)

	case template.PredEventCondition:
		agent := ctx.Agent()
		if agent == nil || agent.Combat == nil {
			return false
		}
		for _, c := range agent.Combat.ActiveConditions {
			if c == p.Condition {
				return true
			}
		}
		return false

	case template.PredNot:
		return len(p.Children) == 1 && !EvalPredicate(p.Children[0], ctx)

	case template.PredAll:
		for _, child := range p.Children {
			if !EvalPredicate(child, ctx) {
				return false
			}
		}
		return true

	case template.PredAny:
		for _, child := range p.Children {
			if EvalPredicate(child, ctx) {
				return true
			}
		}
		return false

	default:
		return false
	}
}

