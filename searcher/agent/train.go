package agent

import (
	"math"

	"tetress/experiments/metrics"
	"tetress/game"
	"tetress/searcher"

	"golang.org/x/exp/rand"
)

type trainingAgent struct {
	mcts        *searcher.MCTS
	temperature float64
	rng         *rand.Rand
}

// NewTrainingAgent returns an agent for self-play: it samples moves in
// proportion to their temperature-adjusted visit counts so the games it
// generates stay varied.
func NewTrainingAgent(mcts *searcher.MCTS, temperature float64, seed uint64) Agent {
	if temperature <= 0 {
		panic("temperature must be positive")
	}
	return &trainingAgent{
		mcts:        mcts,
		temperature: temperature,
		rng:         rand.New(rand.NewSource(seed)),
	}
}

func (a *trainingAgent) FindMove(state game.State, updates []searcher.Segment) (game.Move, metrics.SearchMetric, error) {
	policy, metric := a.mcts.Simulate(state, updates)
	if len(policy) == 0 {
		return nil, metric, searcher.ErrNoLegalMove
	}
	// TODO: apply a temperature schedule as training progresses
	probabilities := adjustTemperature(policy, a.temperature)
	return sample(policy, probabilities, a.rng), metric, nil
}

// adjustTemperature converts visit counts into move probabilities: a low
// temperature sharpens the distribution toward the most visited moves, a
// high one flattens it.
func adjustTemperature(policy []searcher.MovePolicy, temperature float64) []float64 {
	exponent := 1.0 / temperature
	sum := 0.0
	probabilities := make([]float64, len(policy))
	for i, mp := range policy {
		prob := math.Pow(mp.Visits, exponent)
		sum += prob
		probabilities[i] = prob
	}
	// Normalize
	for i := range probabilities {
		probabilities[i] /= sum
	}
	return probabilities
}

func sample(policy []searcher.MovePolicy, probabilities []float64, rng *rand.Rand) game.Move {
	sampled := rng.Float64()
	cumulative := 0.0
	for i, prob := range probabilities {
		cumulative += prob
		if sampled < cumulative {
			return policy[i].Move
		}
	}
	return policy[len(policy)-1].Move // Fallback in case of rounding errors
}
