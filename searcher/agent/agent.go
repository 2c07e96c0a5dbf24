package agent

import (
	"tetress/experiments/metrics"
	"tetress/game"
	"tetress/searcher"
)

// Agent picks a placement for the side to move.
type Agent interface {
	// FindMove searches the given position and returns the chosen move plus
	// metrics for the search. The updates relay the moves played since the
	// agent's previous search so its tree can follow the game. Returns
	// searcher.ErrNoLegalMove when the mover has no placement.
	FindMove(state game.State, updates []searcher.Segment) (game.Move, metrics.SearchMetric, error)
}

// Update is the wire form of one played move: the placement and the hash
// of the position it produced.
type Update struct {
	Move game.PlaceAction `json:"move"`
	Hash game.StateHash   `json:"hash"`
}
