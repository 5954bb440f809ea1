package services

import (
	"encoding/json"
	"math/rand"
	"strconv"
	"time"
)

// seedSource is swapped out by tests that need deterministic rounds.
var seedSource = func() int64 { return time.Now().UnixNano() }

// WeightedOutcome is one candidate in a weighted draw.
type WeightedOutcome struct {
	ID     uint
	Weight float64
}

// DrawResult captures everything needed to audit one draw after the fact.
type DrawResult struct {
	Seed       int64
	ChosenID   *uint // nil means the fail pseudo-outcome
	FailChance int
	FailWeight float64
	Snapshot   map[uint]float64
}

// DrawWeighted selects one outcome with P(i) = weight_i / ΣW. When
// failChance p > 0, a fail pseudo-outcome with weight ΣW·p/(100−p) competes in
// the same draw, so the fail outcome lands with probability p/100 overall.
// The draw is fully determined by seed.
func DrawWeighted(outcomes []WeightedOutcome, failChance int, seed int64) (*DrawResult, error) {
	if failChance < 0 || failChance >= 100 {
		return nil, ErrInvalidFailChance
	}

	total := 0.0
	for _, o := range outcomes {
		if o.Weight < 0 {
			return nil, ErrInvalidWeights
		}
		total += o.Weight
	}
	if len(outcomes) == 0 || total <= 0 {
		return nil, ErrInvalidWeights
	}

	failWeight := total * float64(failChance) / float64(100-failChance)

	snapshot := make(map[uint]float64, len(outcomes))
	for _, o := range outcomes {
		snapshot[o.ID] = o.Weight
	}

	rng := rand.New(rand.NewSource(seed))
	r := rng.Float64() * (total + failWeight)

	result := &DrawResult{
		Seed:       seed,
		FailChance: failChance,
		FailWeight: failWeight,
		Snapshot:   snapshot,
	}

	acc := 0.0
	for _, o := range outcomes {
		acc += o.Weight
		if r < acc {
			id := o.ID
			result.ChosenID = &id
			return result, nil
		}
	}

	// Landed in the fail band (or on the top edge).
	return result, nil
}

// SnapshotJSON serializes the exact weights the draw used, for the audit row.
func (r *DrawResult) SnapshotJSON() ([]byte, error) {
	weights := make(map[string]float64, len(r.Snapshot))
	for id, w := range r.Snapshot {
		weights[strconv.FormatUint(uint64(id), 10)] = w
	}
	return json.Marshal(map[string]any{
		"outcomes":    weights,
		"fail_weight": r.FailWeight,
	})
}

// PickIndex draws one index with probability proportional to weights[i].
// Used where the caller already owns a seeded rng (slot reels, box slots,
// fishing pools).
func PickIndex(rng *rand.Rand, weights []float64) (int, error) {
	total := 0.0
	for _, w := range weights {
		if w < 0 {
			return 0, ErrInvalidWeights
		}
		total += w
	}
	if len(weights) == 0 || total <= 0 {
		return 0, ErrInvalidWeights
	}

	r := rng.Float64() * total
	acc := 0.0
	for i, w := range weights {
		acc += w
		if r < acc {
			return i, nil
		}
	}
	return len(weights) - 1, nil
}

// NewSeed returns a fresh per-draw seed.
func NewSeed() int64 {
	return seedSource()
}
