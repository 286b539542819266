package rules

import (
	"github.com/jruiznavarro/wargamestactics/internal/game/cards"
	"github.com/jruiznavarro/wargamestactics/internal/game/template"
)

// dominantWeapon resolves the agent's equipped weapon via
// Agent.EquippedWeapon: the first inventory template ID that names a
// known weapon, whatever its side. Returns nil if none resolves.
func dominantWeapon(ctx *Context) *template.Weapon {
	agent := ctx.Agent()
	if agent == nil {
		return nil
	}
	return agent.EquippedWeapon(ctx.World.Tables.Weapons)
}

// hasEquipped reports whether the agent's inventory contains a weapon
// matching filter's Category (empty matches any); filter.Tags is not
// checked.
func hasEquipped(ctx *Context, agent *cards.Agent, filter template.EquipFilter) bool {
	for _, itemID := range agent.Inventory {
		w, ok := ctx.World.Tables.Weapons[itemID]
		if !ok {
			continue
		}
		if filter.Category != "" && w.Category != filter.Category {
			continue
		}
		return true
	}
	return false
}
