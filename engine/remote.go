package engine

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"tetress/experiments/metrics"
	"tetress/game"
	"tetress/searcher/agent"

	"github.com/rs/zerolog/log"
)

// RemoteEngine drives a game between two agent servers, posting each
// position to their /findmove endpoints and applying the answered
// placements. Search metrics stay on the server side.
type RemoteEngine struct {
	State *game.BoardState
	urls  map[string]string
}

func NewRemoteEngine(redURL, blueURL string) *RemoteEngine {
	return &RemoteEngine{
		State: game.NewBoardState(),
		urls: map[string]string{
			game.Red.String():  redURL,
			game.Blue.String(): blueURL,
		},
	}
}

func (e *RemoteEngine) Run() (string, metrics.GameMetric, []metrics.MoveMetric) {
	updates := map[string][]agent.Update{}
	for player := range e.urls {
		updates[player] = nil
	}

	startingPlayer := e.State.Player()
	startTime := time.Now()
	log.Info().Msgf("%s is starting", startingPlayer)

	step := 0
	var moveMetrics []metrics.MoveMetric
	for e.State.Winner() == "" {
		player := e.State.Player()

		lineage := updates[player]
		updates[player] = nil

		action := e.requestMove(player, lineage)

		next, err := e.State.Apply(action)
		if err != nil {
			log.Warn().Err(err).Msgf("agent %s returned illegal move %s", player, action)
			action = e.fallbackMove()
			next, err = e.State.Apply(action)
			if err != nil {
				log.Panic().Err(err).Msgf("fallback move %s is illegal", action)
			}
		}

		step++
		moveMetrics = append(moveMetrics, metrics.MoveMetric{
			Step:   step,
			Player: player,
		})

		update := agent.Update{Move: action, Hash: next.Hash()}
		for p := range e.urls {
			updates[p] = append(updates[p], update)
		}

		log.Debug().Msgf("step %d: %s played %s", step, player, action)

		e.State = next
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

// requestMove posts the current position and the mover's pending updates
// to its /findmove endpoint. Protocol failures end the match.
func (e *RemoteEngine) requestMove(player string, lineage []agent.Update) game.PlaceAction {
	payload := struct {
		State   *game.BoardState `json:"state"`
		Updates []agent.Update   `json:"updates"`
	}{
		State:   e.State,
		Updates: lineage,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		panic(err)
	}

	resp, err := http.Post(e.urls[player]+"/findmove", "application/json", bytes.NewReader(body))
	if err != nil {
		panic(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		out, _ := io.ReadAll(resp.Body)
		panic(fmt.Sprintf("agent %s returned status %d: %s", player, resp.StatusCode, out))
	}

	var response struct {
		Move        *game.PlaceAction `json:"move"`
		NoLegalMove bool              `json:"noLegalMove"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		panic(err)
	}
	if response.NoLegalMove || response.Move == nil {
		panic(fmt.Sprintf("agent %s found no move for a live position", player))
	}
	return *response.Move
}

func (e *RemoteEngine) fallbackMove() game.PlaceAction {
	moves := e.State.LegalMoves()
	if len(moves) == 0 {
		log.Panic().Msg("no legal moves at all")
	}
	return moves[0].(game.PlaceAction)
}
