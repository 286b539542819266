package main

import (
	"github.com/jruiznavarro/wargamestactics/internal/game"
	"github.com/jruiznavarro/wargamestactics/internal/game/body"
	"github.com/jruiznavarro/wargamestactics/internal/game/cards"
	"github.com/jruiznavarro/wargamestactics/internal/game/core"
	"github.com/jruiznavarro/wargamestactics/internal/game/phase"
	"github.com/jruiznavarro/wargamestactics/internal/game/template"
)

// duelistPlan is the default body plan for both combatants when no --data
// directory supplies a custom one: a torso root carrying the body's one
// major artery, a head, and both arms.
func duelistPlan() template.BodyPlan {
	return template.BodyPlan{
		ID: "duelist", Name: "Duelist",
		Parts: []template.BodyPartPlan{
			{Tag: "torso", ParentIndex: -1, HitWeight: 5, HasArtery: true, CanStand: true},
			{Tag: "head", ParentIndex: 0, HitWeight: 1, CanSee: true, CanHear: true},
			{Tag: "sword_arm", ParentIndex: 0, HitWeight: 2, CanGrasp: true},
			{Tag: "off_arm", ParentIndex: 0, HitWeight: 2, CanGrasp: true},
		},
	}
}

// loadDefaultTables seeds the techniques and cards the built-in scenario
// needs when no --data directory is given.
func loadDefaultTables(tables *template.Tables) {
	tables.Techniques["tech.thrust"] = template.Technique{
		ID: "tech.thrust", Name: "Thrust", AttackMode: template.AttackThrust,
		Channels: template.ChannelWeapon, GuardHeight: template.GuardMid,
		Reach:    template.ReachRange{Min: template.ReachDagger, Max: template.ReachLongsword},
		Accuracy: 0.85,
	}
	tables.Techniques["tech.swing"] = template.Technique{
		ID: "tech.swing", Name: "Swing", AttackMode: template.AttackSwing,
		Channels: template.ChannelWeapon, GuardHeight: template.GuardHigh,
		Reach:    template.ReachRange{Min: template.ReachSabre, Max: template.ReachSpear},
		Accuracy: 0.7,
	}
	tables.Cards["card.thrust"] = template.CardTemplate{
		ID: "card.thrust", Name: "Thrust", PlayableFrom: template.SourceHand,
		CombatPlayable: true, TechniqueID: "tech.thrust",
		Tags: template.TagOffensive | template.TagPrecision | template.TagPhaseSelection | template.TagPhaseCommit,
		Cost: template.Cost{Stamina: 1, Focus: 0, Time: 0.2},
	}
	tables.Cards["card.swing"] = template.CardTemplate{
		ID: "card.swing", Name: "Swing", PlayableFrom: template.SourceHand,
		CombatPlayable: true, TechniqueID: "tech.swing",
		Tags: template.TagOffensive | template.TagPhaseSelection | template.TagPhaseCommit,
		Cost: template.Cost{Stamina: 2, Focus: 0, Time: 0.35},
	}
	tables.Weapons["weapon.sword"] = template.Weapon{
		ID: "weapon.sword", Name: "Arming Sword", Category: "sword",
		Reach: template.ReachRange{Min: template.ReachDagger, Max: template.ReachLongsword},
		Accuracy: 0.9, Damage: 1.2,
	}
}

// defaultDeck is the template IDs duelsim cycles through to keep a
// scripted agent's hand non-empty every tick. cards.RefreshHand is a
// no-op for DrawScripted agents by design (left to "the caller's
// behaviour pattern"); duelsim is that caller.
var defaultDeck = []string{"card.thrust", "card.swing"}

// handTarget is how many cards replenishHand tops a scripted agent's
// hand up to before each tick.
const handTarget = 2

// Scenario is one constructed encounter: a World with two scripted
// agents already enrolled and aimed at each other.
type Scenario struct {
	World                  *game.World
	AttackerID, DefenderID core.EntityID
	Deck                   []string
}

// buildScenario wires a fresh two-agent duel. If dataDir is non-empty,
// template tables are loaded from there instead of the built-in
// defaults (spec.md section 6's opaque content-pipeline boundary).
func buildScenario(seed int64, maxRounds int, dataDir string) (*Scenario, error) {
	w := game.NewWorld(seed, maxRounds)

	if dataDir != "" {
		if err := w.Tables().LoadDir(dataDir); err != nil {
			return nil, err
		}
		if err := w.Tables().Validate(); err != nil {
			return nil, err
		}
	} else {
		loadDefaultTables(w.Tables())
	}

	plan := duelistPlan()
	attackerID := core.EntityID{Index: 1, Generation: 1}
	defenderID := core.EntityID{Index: 2, Generation: 1}

	attacker := cards.NewAgent(attackerID, "Attacker", body.NewFromPlan(plan),
		core.Resource{Current: 6, Max: 6, PerTurn: 6}, core.Resource{Current: 3, Max: 3, PerTurn: 3}, 5.0)
	attacker.DrawStyle = cards.DrawScripted
	attacker.Inventory = []string{"weapon.sword"}

	defender := cards.NewAgent(defenderID, "Defender", body.NewFromPlan(plan),
		core.Resource{Current: 6, Max: 6, PerTurn: 6}, core.Resource{Current: 3, Max: 3, PerTurn: 3}, 5.0)
	defender.DrawStyle = cards.DrawScripted
	defender.Inventory = []string{"weapon.sword"}

	w.AddAgent(attackerID, attacker, nil)
	w.AddAgent(defenderID, defender, nil)

	attacker.Combat.PrimaryTarget = &defenderID
	defender.Combat.PrimaryTarget = &attackerID

	return &Scenario{World: w, AttackerID: attackerID, DefenderID: defenderID, Deck: defaultDeck}, nil
}

// replenishHand tops id's hand up to handTarget cards, cycling through
// deck.
func replenishHand(w *game.World, id core.EntityID, deck []string) {
	hand := w.CardReg().Zone(id, cards.ZoneHand)
	for i := len(hand); i < handTarget; i++ {
		w.CardReg().Create(deck[i%len(deck)], id, cards.ZoneHand)
	}
}

// runToEncounterSummary drives sc tick by tick until the scheduler
// reaches encounter_summary, replenishing both agents' hands before
// each tick. Returns every event emitted along the way, in tick order.
func runToEncounterSummary(sc *Scenario) []string {
	var log []string
	for sc.World.FSM.Current != phase.StateEncounterSummary {
		replenishHand(sc.World, sc.AttackerID, sc.Deck)
		replenishHand(sc.World, sc.DefenderID, sc.Deck)
		sc.World.RunTick()
		for _, e := range sc.World.Bus().Swap() {
			log = append(log, e.String())
		}
	}
	return log
}
