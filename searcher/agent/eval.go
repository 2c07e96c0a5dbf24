package agent

import (
	"tetress/experiments/metrics"
	"tetress/game"
	"tetress/searcher"
)

type evaluationAgent struct {
	mcts *searcher.MCTS
}

// NewEvaluationAgent returns an agent for actual game play: it plays the
// strongest move found, most visits first with mean reward as the tie
// breaker.
func NewEvaluationAgent(mcts *searcher.MCTS) Agent {
	return evaluationAgent{mcts: mcts}
}

func (a evaluationAgent) FindMove(state game.State, updates []searcher.Segment) (game.Move, metrics.SearchMetric, error) {
	policy, metric := a.mcts.Simulate(state, updates)
	if len(policy) == 0 {
		return nil, metric, searcher.ErrNoLegalMove
	}
	return findBest(policy), metric, nil
}

func findBest(policy []searcher.MovePolicy) game.Move {
	best := policy[0]
	for _, candidate := range policy[1:] {
		if candidate.Visits > best.Visits {
			best = candidate
			continue
		}
		if candidate.Visits == best.Visits && meanReward(candidate) > meanReward(best) {
			best = candidate
		}
	}
	return best.Move
}

func meanReward(mp searcher.MovePolicy) float64 {
	if mp.Visits == 0 {
		return 0
	}
	return mp.Rewards / mp.Visits
}
