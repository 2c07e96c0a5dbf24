package engine

import (
	"net/http/httptest"
	"testing"

	"tetress/game"
	"tetress/searcher"
	"tetress/searcher/agent"

	"github.com/stretchr/testify/require"
)

func TestRemoteEngineRun(t *testing.T) {
	t.Run("plays a full game between two agent servers", func(t *testing.T) {
		newServer := func(seed uint64) *httptest.Server {
			mcts := searcher.NewMCTS(2,
				searcher.WithEpisodes(8), searcher.WithCutoff(2), searcher.WithSeed(seed))
			server := httptest.NewServer(agent.Handler(agent.NewEvaluationAgent(mcts)))
			t.Cleanup(server.Close)
			return server
		}
		red := newServer(31)
		blue := newServer(32)

		e := NewRemoteEngine(red.URL, blue.URL)
		winner, gameMetric, moveMetrics := e.Run()

		require.Contains(t, []string{game.Red.String(), game.Blue.String(), game.Draw}, winner,
			"Should finish with a result")
		require.Equal(t, winner, gameMetric.Winner)
		require.Positive(t, gameMetric.TotalMoves)
		require.Equal(t, gameMetric.TotalMoves, len(moveMetrics),
			"Should record a step for every move")
	})
}
