package game

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func requireAllApply(t *testing.T, gs *BoardState, moves []Move) {
	t.Helper()
	for _, move := range moves {
		_, err := gs.Apply(move.(PlaceAction))
		require.NoError(t, err, "Generated move %s should be legal", move)
	}
}

func TestLegalMoves(t *testing.T) {
	t.Run("opening offers each shape once", func(t *testing.T) {
		gs := NewBoardState()

		moves := gs.LegalMoves()

		require.Len(t, moves, len(Shapes), "Should offer one placement per orientation on the empty board")
		seen := make(map[PlaceAction]bool)
		for _, move := range moves {
			action := move.(PlaceAction)
			require.Equal(t, Red, action.Color, "Should generate moves for the side to move")
			require.False(t, seen[action], "Should not repeat %s", action)
			seen[action] = true
		}
		requireAllApply(t, gs, moves)
	})

	t.Run("tokenless side enumerates the whole board", func(t *testing.T) {
		gs := NewBoardState()
		gs, err := gs.Apply(NewPlaceAction(Red, [4]Coord{{5, 5}, {5, 6}, {5, 7}, {5, 8}}))
		require.NoError(t, err)

		moves := gs.LegalMoves()

		// 19 orientations at each of the 121 cells give 2299 placements on
		// an empty board; each occupied cell rules out at most 76 of them.
		require.Greater(t, len(moves), 1900, "Should enumerate placements everywhere, not just near the opponent")
		require.Less(t, len(moves), 2299, "Should not offer placements over occupied cells")

		far := NewPlaceAction(Blue, [4]Coord{{0, 0}, {0, 1}, {0, 2}, {0, 3}})
		require.Contains(t, moves, Move(far), "Should not require adjacency before blue has tokens")
		requireAllApply(t, gs, moves)
	})

	t.Run("established side only places against its tokens", func(t *testing.T) {
		gs := NewBoardState()
		gs, err := gs.Apply(NewPlaceAction(Red, [4]Coord{{5, 5}, {5, 6}, {5, 7}, {5, 8}}))
		require.NoError(t, err)
		gs, err = gs.Apply(NewPlaceAction(Blue, [4]Coord{{0, 0}, {0, 1}, {0, 2}, {0, 3}}))
		require.NoError(t, err)

		moves := gs.LegalMoves()

		require.NotEmpty(t, moves)
		seen := make(map[PlaceAction]bool)
		for _, move := range moves {
			action := move.(PlaceAction)
			require.False(t, seen[action], "Should not repeat %s", action)
			seen[action] = true

			touches := false
			for _, coord := range action.Coords {
				if gs.adjacentToColor(coord.index(), Red) {
					touches = true
					break
				}
			}
			require.True(t, touches, "Move %s should touch a red token", action)
		}
		requireAllApply(t, gs, moves)
	})

	t.Run("seeds placements across the wrapped edge", func(t *testing.T) {
		gs := &BoardState{ToMove: Red, Ply: 2}
		for c := 4; c <= 7; c++ {
			gs.Cells[Coord{Row: 10, Col: c}.index()] = Red
		}

		moves := gs.LegalMoves()

		crossing := NewPlaceAction(Red, [4]Coord{{0, 5}, {1, 5}, {2, 5}, {3, 5}})
		require.Contains(t, moves, Move(crossing), "Should reach row 0 through the edge below row 10")
		requireAllApply(t, gs, moves)
	})

	t.Run("enumeration order is stable", func(t *testing.T) {
		gs := NewBoardState()
		gs, err := gs.Apply(NewPlaceAction(Red, [4]Coord{{5, 5}, {5, 6}, {5, 7}, {5, 8}}))
		require.NoError(t, err)

		require.Equal(t, gs.LegalMoves(), gs.LegalMoves(), "Should enumerate the same moves in the same order")
	})

	t.Run("none at the ply cap", func(t *testing.T) {
		gs := &BoardState{ToMove: Red, Ply: MaxPly}
		require.Empty(t, gs.LegalMoves(), "Should offer no placements once the game is over")
	})

	t.Run("none when the board cannot fit a piece", func(t *testing.T) {
		gs := &BoardState{ToMove: Blue, Ply: 40}
		for i := range gs.Cells {
			gs.Cells[i] = Red
		}
		gs.Cells[Coord{Row: 5, Col: 5}.index()] = Blue
		gs.Cells[Coord{Row: 0, Col: 0}.index()] = Empty
		gs.Cells[Coord{Row: 0, Col: 1}.index()] = Empty
		gs.Cells[Coord{Row: 0, Col: 2}.index()] = Empty

		require.Empty(t, gs.LegalMoves(), "Should offer nothing with only three empty cells")
	})
}
