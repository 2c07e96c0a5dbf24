package engine

import (
	"time"

	"tetress/experiments/metrics"
	"tetress/game"
	"tetress/searcher"
	"tetress/searcher/agent"

	"github.com/rs/zerolog/log"
)

// LocalEngine runs both agents in process and relays every played move
// to each of them so their search trees can follow the game.
type LocalEngine struct {
	State  *game.BoardState
	agents map[string]agent.Agent
	// Observer, when set, is called after each applied placement.
	Observer func(state *game.BoardState, move game.PlaceAction)
}

func NewLocalEngine(red, blue agent.Agent) *LocalEngine {
	return &LocalEngine{
		State: game.NewBoardState(),
		agents: map[string]agent.Agent{
			game.Red.String():  red,
			game.Blue.String(): blue,
		},
	}
}

func (e *LocalEngine) Run() (string, metrics.GameMetric, []metrics.MoveMetric) {
	updates := map[string][]searcher.Segment{}
	for player := range e.agents {
		updates[player] = nil
	}

	startingPlayer := e.State.Player()
	startTime := time.Now()
	log.Info().Msgf("%s is starting", startingPlayer)

	step := 0
	var moveMetrics []metrics.MoveMetric
	for e.State.Winner() == "" {
		player := e.State.Player()

		// The mover's pending updates lead from its previous search root
		lineage := updates[player]
		updates[player] = nil

		move, searchMetric, err := e.agents[player].FindMove(e.State, lineage)
		if err != nil {
			log.Panic().Err(err).Msgf("agent %s failed to find a move", player)
		}
		action, ok := move.(game.PlaceAction)
		if !ok {
			log.Panic().Msgf("agent %s returned unexpected move type %T", player, move)
		}

		next, err := e.State.Apply(action)
		if err != nil {
			log.Panic().Err(err).Msgf("agent %s returned illegal move %s", player, action)
		}

		step++
		moveMetrics = append(moveMetrics, metrics.MoveMetric{
			Step:         step,
			Player:       player,
			SearchMetric: searchMetric,
		})

		segment := searcher.Segment{Move: action, StateHash: next.Hash()}
		for p := range e.agents {
			updates[p] = append(updates[p], segment)
		}

		log.Debug().Msgf("step %d: %s played %s", step, player, action)

		e.State = next
		if e.Observer != nil {
			e.Observer(e.State, action)
		}
	}

	winner := e.State.Winner()
	endTime := time.Now()
	gameMetric := metrics.GameMetric{
		StartingPlayer: startingPlayer,
		Winner:         winner,
		StartTime:      startTime,
		EndTime:        endTime,
		Duration:       endTime.Sub(startTime),
		TotalMoves:     step,
	}
	log.Info().Msgf("game over after %d moves: %s", step, winner)

	return winner, gameMetric, moveMetrics
}
