package services

import (
	"encoding/json"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDrawWeightedValidation(t *testing.T) {
	outcomes := []WeightedOutcome{{ID: 1, Weight: 10}}

	_, err := DrawWeighted(nil, 0, 1)
	assert.ErrorIs(t, err, ErrInvalidWeights)

	_, err = DrawWeighted([]WeightedOutcome{{ID: 1, Weight: 0}}, 0, 1)
	assert.ErrorIs(t, err, ErrInvalidWeights)

	_, err = DrawWeighted([]WeightedOutcome{{ID: 1, Weight: -5}}, 0, 1)
	assert.ErrorIs(t, err, ErrInvalidWeights)

	_, err = DrawWeighted(outcomes, -1, 1)
	assert.ErrorIs(t, err, ErrInvalidFailChance)

	_, err = DrawWeighted(outcomes, 100, 1)
	assert.ErrorIs(t, err, ErrInvalidFailChance)

	_, err = DrawWeighted(outcomes, 99, 1)
	assert.NoError(t, err)
}

func TestDrawWeightedFailWeight(t *testing.T) {
	outcomes := []WeightedOutcome{
		{ID: 1, Weight: 60},
		{ID: 2, Weight: 25},
		{ID: 3, Weight: 10},
		{ID: 4, Weight: 5},
	}

	draw, err := DrawWeighted(outcomes, 20, 42)
	require.NoError(t, err)

	// ΣW·p/(100−p) = 100·20/80
	assert.InDelta(t, 25.0, draw.FailWeight, 1e-9)
	assert.Equal(t, 20, draw.FailChance)
	assert.Equal(t, int64(42), draw.Seed)
}

func TestDrawWeightedZeroFailNeverFails(t *testing.T) {
	outcomes := []WeightedOutcome{
		{ID: 1, Weight: 1},
		{ID: 2, Weight: 3},
	}

	for seed := int64(0); seed < 1000; seed++ {
		draw, err := DrawWeighted(outcomes, 0, seed)
		require.NoError(t, err)
		require.NotNil(t, draw.ChosenID, "seed %d produced a fail with failChance 0", seed)
	}
}

func TestDrawWeightedDeterministic(t *testing.T) {
	outcomes := []WeightedOutcome{
		{ID: 1, Weight: 60},
		{ID: 2, Weight: 40},
	}

	first, err := DrawWeighted(outcomes, 30, 12345)
	require.NoError(t, err)
	second, err := DrawWeighted(outcomes, 30, 12345)
	require.NoError(t, err)

	if first.ChosenID == nil {
		assert.Nil(t, second.ChosenID)
	} else {
		require.NotNil(t, second.ChosenID)
		assert.Equal(t, *first.ChosenID, *second.ChosenID)
	}
}

func TestDrawWeightedConvergence(t *testing.T) {
	outcomes := []WeightedOutcome{
		{ID: 1, Weight: 60},
		{ID: 2, Weight: 25},
		{ID: 3, Weight: 10},
		{ID: 4, Weight: 5},
	}

	const draws = 20000
	counts := make(map[uint]int)
	fails := 0

	for seed := int64(0); seed < draws; seed++ {
		draw, err := DrawWeighted(outcomes, 20, seed)
		require.NoError(t, err)
		if draw.ChosenID == nil {
			fails++
		} else {
			counts[*draw.ChosenID]++
		}
	}

	// Fail lands with p/100 overall; real outcomes split the remaining mass
	// proportionally to their weights.
	assert.InDelta(t, 0.20, float64(fails)/draws, 0.02)
	assert.InDelta(t, 0.80*0.60, float64(counts[1])/draws, 0.02)
	assert.InDelta(t, 0.80*0.25, float64(counts[2])/draws, 0.02)
	assert.InDelta(t, 0.80*0.10, float64(counts[3])/draws, 0.01)
	assert.InDelta(t, 0.80*0.05, float64(counts[4])/draws, 0.01)
}

func TestDrawWeightedHighFailChance(t *testing.T) {
	outcomes := []WeightedOutcome{{ID: 1, Weight: 10}}

	const draws = 5000
	fails := 0
	for seed := int64(0); seed < draws; seed++ {
		draw, err := DrawWeighted(outcomes, 95, seed)
		require.NoError(t, err)
		if draw.ChosenID == nil {
			fails++
		}
	}
	assert.InDelta(t, 0.95, float64(fails)/draws, 0.02)
}

func TestSnapshotJSON(t *testing.T) {
	outcomes := []WeightedOutcome{
		{ID: 7, Weight: 3},
		{ID: 8, Weight: 1},
	}

	draw, err := DrawWeighted(outcomes, 50, 99)
	require.NoError(t, err)

	blob, err := draw.SnapshotJSON()
	require.NoError(t, err)

	var decoded struct {
		Outcomes   map[string]float64 `json:"outcomes"`
		FailWeight float64            `json:"fail_weight"`
	}
	require.NoError(t, json.Unmarshal(blob, &decoded))
	assert.Equal(t, 3.0, decoded.Outcomes["7"])
	assert.Equal(t, 1.0, decoded.Outcomes["8"])
	assert.InDelta(t, 4.0, decoded.FailWeight, 1e-9)
}

func TestPickIndex(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	_, err := PickIndex(rng, nil)
	assert.ErrorIs(t, err, ErrInvalidWeights)

	_, err = PickIndex(rng, []float64{0, 0})
	assert.ErrorIs(t, err, ErrInvalidWeights)

	_, err = PickIndex(rng, []float64{1, -1})
	assert.ErrorIs(t, err, ErrInvalidWeights)

	counts := make([]int, 2)
	for i := 0; i < 10000; i++ {
		idx, err := PickIndex(rng, []float64{75, 25})
		require.NoError(t, err)
		counts[idx]++
	}
	assert.InDelta(t, 0.75, float64(counts[0])/10000, 0.02)
}
