package agent

import (
	"encoding/json"
	"errors"
	"net/http"

	"tetress/game"
	"tetress/searcher"

	"github.com/rs/zerolog/log"
)

type findMovePayload struct {
	State   game.BoardState `json:"state"`
	Updates []Update        `json:"updates"`
}

type findMoveResponse struct {
	Move        *game.PlaceAction `json:"move"`
	NoLegalMove bool              `json:"noLegalMove,omitempty"`
}

// Handler serves the agent over HTTP: POST /findmove with a position and
// the moves played since the previous request, answering the chosen
// placement.
func Handler(a Agent) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/findmove", func(w http.ResponseWriter, r *http.Request) {
		handleFindMove(w, r, a)
	})
	return mux
}

// StartServer serves the agent on the given port until the listener
// fails.
func StartServer(port string, a Agent) {
	log.Info().Msgf("starting agent server on :%s", port)
	log.Fatal().Err(http.ListenAndServe(":"+port, Handler(a))).Msg("agent server stopped")
}

func handleFindMove(w http.ResponseWriter, r *http.Request, a Agent) {
	var payload findMovePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "bad request: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := payload.State.Validate(); err != nil {
		http.Error(w, "bad state: "+err.Error(), http.StatusBadRequest)
		return
	}

	move, _, err := a.FindMove(&payload.State, segments(payload.Updates))

	var response findMoveResponse
	switch {
	case errors.Is(err, searcher.ErrNoLegalMove):
		response.NoLegalMove = true
	case err != nil:
		http.Error(w, "failed to find a move: "+err.Error(), http.StatusInternalServerError)
		return
	default:
		action, ok := move.(game.PlaceAction)
		if !ok {
			http.Error(w, "unexpected move type", http.StatusInternalServerError)
			return
		}
		response.Move = &action
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Error().Err(err).Msg("failed to encode move response")
	}
}

func segments(updates []Update) []searcher.Segment {
	lineage := make([]searcher.Segment, len(updates))
	for i, update := range updates {
		lineage[i] = searcher.Segment{Move: update.Move, StateHash: update.Hash}
	}
	return lineage
}
