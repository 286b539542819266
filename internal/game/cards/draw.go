package cards

import "github.com/jruiznavarro/wargamestactics/internal/game/core"

// HandSize is the number of cards shuffled_deck agents try to keep in
// hand each tick.
const HandSize = 5

// RefreshHand implements the per-draw-style tick behaviour spec.md
// section 4.8 describes.
//
// shuffled_deck: tops the hand back up to HandSize from draw, reshuffling
// discard into draw first if draw runs dry.
// always_available: a no-op -- techniques_known cards are always
// referenceable without zone transfers.
// scripted: the caller places cards in hand itself (cmd/duelsim does);
// RefreshHand does nothing for this style.
func RefreshHand(a *Agent, shuffle func([]core.EntityID)) {
	if a.Combat == nil {
		return
	}
	switch a.DrawStyle {
	case DrawAlwaysAvailable, DrawScripted:
		return
	case DrawShuffledDeck:
		registry := a.Combat.Registry
		for len(registry.Zone(a.ID, ZoneHand)) < HandSize {
			if len(registry.Zone(a.ID, ZoneDraw)) == 0 {
				reshuffleDiscardIntoDraw(registry, a.ID, shuffle)
				if len(registry.Zone(a.ID, ZoneDraw)) == 0 {
					return // deck and discard both empty
				}
			}
			drawPile := registry.Zone(a.ID, ZoneDraw)
			top := drawPile[0]
			_ = registry.Move(top, a.ID, ZoneHand)
		}
	}
}

func reshuffleDiscardIntoDraw(registry *Registry, agent core.EntityID, shuffle func([]core.EntityID)) {
	discard := append([]core.EntityID{}, registry.Zone(agent, ZoneDiscard)...)
	for _, id := range discard {
		_ = registry.Move(id, agent, ZoneDraw)
	}
	if shuffle != nil {
		shuffle(registry.Zone(agent, ZoneDraw))
	}
}
