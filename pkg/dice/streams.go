package dice

// The stream* constants give each named stream a distinct derived seed so
// consumers never share an RNG sequence with one another, per spec.md
// section 5: "a single RNG is seeded per encounter and partitioned by
// stream ... consumers never share streams; consumption is deterministic
// and replayable."
const (
	streamCombat   int64 = 0x636f6d6261740000 // "combat"
	streamLoot     int64 = 0x6c6f6f7400000000 // "loot"
	streamBodyPart int64 = 0x626f647970617274 // "bodypart"
)

// Streams partitions one encounter seed into the independent RNG streams
// the engine needs: combat rolls (hit/outcome/location), loot generation,
// and body-part selection.
type Streams struct {
	Combat   *Roller
	Loot     *Roller
	BodyPart *Roller
}

// NewStreams derives three independent streams from a single encounter
// seed, so the whole encounter remains deterministic and replayable from
// one number while no two consumers draw from the same sequence.
func NewStreams(encounterSeed int64) *Streams {
	return &Streams{
		Combat:   NewRoller(encounterSeed ^ streamCombat),
		Loot:     NewRoller(encounterSeed ^ streamLoot),
		BodyPart: NewRoller(encounterSeed ^ streamBodyPart),
	}
}

// F32 draws a uniform float32 in [0,1) -- spec.md's rng.f32(), used for
// hit-chance comparisons. Always consumes from the stream even when the
// caller discards the result, preserving determinism (spec.md section
// 4.5: "always consume RNG even if unused, to preserve stream").
func (r *Roller) F32() float32 {
	return float32(r.rng.Float64())
}

// WeightedIndex picks an index from weights proportional to their value,
// always consuming exactly one F32 draw. Used for hit-location rolls
// biased by part HitWeight. Returns -1 if weights is empty or sums to 0.
func (r *Roller) WeightedIndex(weights []float64) int {
	total := 0.0
	for _, w := range weights {
		total += w
	}
	roll := r.F32()
	if total <= 0 {
		return -1
	}
	target := float64(roll) * total
	acc := 0.0
	for i, w := range weights {
		acc += w
		if float64(target) <= acc {
			return i
		}
	}
	return len(weights) - 1
}
