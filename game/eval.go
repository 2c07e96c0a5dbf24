package game

import "fmt"

// Component weights for EvaluatePosition. Token lead dominates because the
// winner is decided by count alone.
const (
	tokenWeight      = 3.0
	threatWeight     = 2.0
	centralityWeight = 1.0
	mobilityWeight   = 1.0
)

// threatHorizon is how many missing cells still count a line as a threat.
const threatHorizon = 3

// EvaluateTokens scores the current player's token lead.
func EvaluateTokens(state State) float64 {
	return tokenScore(boardState(state))
}

// EvaluateCentrality scores how close each side's tokens sit to the board
// center. Central tokens reach more of the torus within a few placements.
func EvaluateCentrality(state State) float64 {
	return centralityScore(boardState(state))
}

// EvaluateThreats scores the nearly complete rows and columns. A line the
// opponent dominates is worth completing, one the current player dominates
// is a liability.
func EvaluateThreats(state State) float64 {
	return threatScore(boardState(state))
}

// EvaluatePosition combines token lead, line threats, centrality and
// mobility into a single score for the current player.
func EvaluatePosition(state State) float64 {
	gs := boardState(state)
	score := tokenWeight*tokenScore(gs) +
		threatWeight*threatScore(gs) +
		centralityWeight*centralityScore(gs) +
		mobilityWeight*mobilityScore(gs)
	return score / (tokenWeight + threatWeight + centralityWeight + mobilityWeight)
}

func boardState(state State) *BoardState {
	gs, ok := state.(*BoardState)
	if !ok {
		panic(fmt.Sprintf("unexpected state type %T", state))
	}
	return gs
}

func tokenScore(gs *BoardState) float64 {
	red, blue := gs.counts()
	mine, theirs := float64(red), float64(blue)
	if gs.ToMove == Blue {
		mine, theirs = theirs, mine
	}
	return normalize(mine, theirs)
}

func centralityScore(gs *BoardState) float64 {
	center := BoardSize / 2
	var mine, theirs float64
	for i, cell := range gs.Cells {
		if cell == Empty {
			continue
		}
		coord := coordAt(i)
		weight := float64(BoardSize - torusDelta(coord.Row, center) - torusDelta(coord.Col, center))
		if cell == gs.ToMove {
			mine += weight
		} else {
			theirs += weight
		}
	}
	return normalize(mine, theirs)
}

// threatScore walks every row and column with at most threatHorizon empty
// cells left. Completing such a line removes every token on it, so lines
// holding mostly opponent tokens count as gains and lines holding mostly
// own tokens count as losses, weighted by how close the line is to full.
func threatScore(gs *BoardState) float64 {
	var gains, losses float64

	score := func(mine, theirs, empty int) {
		if empty == 0 || empty > threatHorizon {
			return
		}
		gains += float64(theirs) / float64(empty)
		losses += float64(mine) / float64(empty)
	}

	for r := 0; r < BoardSize; r++ {
		var mine, theirs, empty int
		for c := 0; c < BoardSize; c++ {
			countCell(gs.Cells[r*BoardSize+c], gs.ToMove, &mine, &theirs, &empty)
		}
		score(mine, theirs, empty)
	}
	for c := 0; c < BoardSize; c++ {
		var mine, theirs, empty int
		for r := 0; r < BoardSize; r++ {
			countCell(gs.Cells[r*BoardSize+c], gs.ToMove, &mine, &theirs, &empty)
		}
		score(mine, theirs, empty)
	}
	return normalize(gains, losses)
}

func countCell(cell, toMove Cell, mine, theirs, empty *int) {
	switch cell {
	case Empty:
		*empty++
	case toMove:
		*mine++
	default:
		*theirs++
	}
}

// mobilityScore compares the empty frontier of each side: the empty cells
// touching a color are where its next placements can start.
func mobilityScore(gs *BoardState) float64 {
	var mine, theirs float64
	opponent := gs.ToMove.Opponent()
	for i, cell := range gs.Cells {
		if cell != Empty {
			continue
		}
		if gs.adjacentToColor(i, gs.ToMove) {
			mine++
		}
		if gs.adjacentToColor(i, opponent) {
			theirs++
		}
	}
	return normalize(mine, theirs)
}

// normalize maps a pair of non-negative quantities to their relative
// advantage in [-1, 1], with 0 when both are zero.
func normalize(mine, theirs float64) float64 {
	if mine+theirs == 0 {
		return 0
	}
	return (mine - theirs) / (mine + theirs)
}
