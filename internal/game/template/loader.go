package template

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Tables is the full set of static, read-only definitions the engine loads
// at startup. This stands in for the CUE -> static table code-gen step
// spec.md section 6 treats as opaque upstream content; Tables only needs
// stable string IDs and cross-reference validity.
type Tables struct {
	Cards      map[string]CardTemplate
	Techniques map[string]Technique
	Weapons    map[string]Weapon
	Armour     map[string]Armour
	BodyPlans  map[string]BodyPlan

	ConditionPenalties map[ConditionTag]ConditionPenalty
	BleedFactors       BleedFactors
	ResourceThresholds map[ResourceKind][]ResourceThreshold
}

// ResourceThreshold is one row of a resource-threshold table: once an
// accumulator's current/max ratio reaches MinRatio or worse, Condition is
// the candidate yield. Tables are stored worst-first so the condition
// iterator can take the first match.
type ResourceThreshold struct {
	MinRatio  float64 `json:"minRatio"`
	Condition ConditionTag `json:"condition"`
}

// DefaultResourceThresholds returns the pain/trauma ladders spec.md
// section 4.6 step 4 and section 4.7 step 7 reference, worst-first.
func DefaultResourceThresholds() map[ResourceKind][]ResourceThreshold {
	return map[ResourceKind][]ResourceThreshold{
		ResourcePain: {
			{MinRatio: 0.95, Condition: CondIncapacitated},
			{MinRatio: 0.7, Condition: CondPainFlare},
		},
		ResourceTrauma: {
			{MinRatio: 0.95, Condition: CondIncapacitated},
			{MinRatio: 0.7, Condition: CondTraumaSpiral},
		},
	}
}

// ConditionPenalty is one row of the static condition_penalties table
// spec.md section 4.5 references: per-condition multipliers applied while
// building CombatModifiers.
type ConditionPenalty struct {
	HitChanceMult float64 `json:"hitChanceMult"`
	DamageMult    float64 `json:"damageMult"`
	DefenseMult   float64 `json:"defenseMult"`
	DodgeMod      float64 `json:"dodgeMod"`
	FootworkMult  float64 `json:"footworkMult"`
}

// BleedFactors are the static coefficients of the bleeding-rate formula
// (spec.md section 4.5 step 4): rate = 0.1 * type_factor * severity_factor
// * artery_multiplier.
type BleedFactors struct {
	TypeFactor     map[string]float64 `json:"typeFactor"`     // keyed by wound kind (slash/pierce/bludgeon)
	SeverityFactor map[string]float64 `json:"severityFactor"` // keyed by severity name
	ArteryMultiplier float64          `json:"arteryMultiplier"`
}

// DefaultBleedFactors returns the coefficients spec.md section 4.5/8
// specifies literally, used when no override table is loaded.
func DefaultBleedFactors() BleedFactors {
	return BleedFactors{
		TypeFactor: map[string]float64{
			"slash":    1.0,
			"pierce":   0.6,
			"bludgeon": 0.2,
		},
		SeverityFactor: map[string]float64{
			"minor":     0.2,
			"inhibited": 0.4,
			"disabled":  0.6,
			"broken":    0.8,
			"missing":   1.0,
		},
		ArteryMultiplier: 5.0,
	}
}

// rawTables mirrors the on-disk JSON shape of one template file: a file may
// contain any subset of these collections.
type rawTables struct {
	Cards      []CardTemplate `json:"cards"`
	Techniques []Technique    `json:"techniques"`
	Weapons    []Weapon       `json:"weapons"`
	Armour     []Armour       `json:"armour"`
	BodyPlans  []BodyPlan     `json:"bodyPlans"`
}

// NewTables creates an empty table set with default bleed factors.
func NewTables() *Tables {
	return &Tables{
		Cards:              make(map[string]CardTemplate),
		Techniques:         make(map[string]Technique),
		Weapons:            make(map[string]Weapon),
		Armour:             make(map[string]Armour),
		BodyPlans:          make(map[string]BodyPlan),
		ConditionPenalties: make(map[ConditionTag]ConditionPenalty),
		BleedFactors:       DefaultBleedFactors(),
		ResourceThresholds: DefaultResourceThresholds(),
	}
}

// LoadFile reads one JSON template file and merges its contents in.
func (t *Tables) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading template file %s: %w", path, err)
	}

	var raw rawTables
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("parsing template file %s: %w", path, err)
	}

	for _, c := range raw.Cards {
		t.Cards[c.ID] = c
	}
	for _, tech := range raw.Techniques {
		t.Techniques[tech.ID] = tech
	}
	for _, w := range raw.Weapons {
		t.Weapons[w.ID] = w
	}
	for _, a := range raw.Armour {
		t.Armour[a.ID] = a
	}
	for _, b := range raw.BodyPlans {
		t.BodyPlans[b.ID] = b
	}
	return nil
}

// LoadDir loads every *.json file in dir, in lexical order.
func (t *Tables) LoadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("reading template directory %s: %w", dir, err)
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		if err := t.LoadFile(filepath.Join(dir, entry.Name())); err != nil {
			return err
		}
	}
	return nil
}

// Validate confirms every cross-referenced ID resolves, per spec.md
// section 6's initialization requirement ("the core only requires that ...
// referenced weapon/armour/technique IDs all exist in their respective
// tables at initialisation").
func (t *Tables) Validate() error {
	for id, c := range t.Cards {
		if c.TechniqueID != "" {
			if _, ok := t.Techniques[c.TechniqueID]; !ok {
				return fmt.Errorf("card %s: unknown technique %s", id, c.TechniqueID)
			}
		}
	}
	for id, plan := range t.BodyPlans {
		if err := plan.Validate(); err != nil {
			return fmt.Errorf("body plan %s: %w", id, err)
		}
	}
	for id, a := range t.Armour {
		if len(a.Layers) == 0 {
			return fmt.Errorf("armour %s: no layers", id)
		}
	}
	return nil
}
