package game

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWrap(t *testing.T) {
	t.Run("in-range values unchanged", func(t *testing.T) {
		for v := 0; v < BoardSize; v++ {
			require.Equal(t, v, wrap(v), "Should not move values already on the board")
		}
	})

	t.Run("wraps past either edge", func(t *testing.T) {
		require.Equal(t, 0, wrap(BoardSize), "Should wrap one past the last index to zero")
		require.Equal(t, 1, wrap(BoardSize+1))
		require.Equal(t, BoardSize-1, wrap(-1), "Should wrap one before zero to the last index")
		require.Equal(t, 0, wrap(-BoardSize))
		require.Equal(t, BoardSize-2, wrap(-13))
	})
}

func TestCoordIndex(t *testing.T) {
	t.Run("round trips every cell", func(t *testing.T) {
		for i := 0; i < NumCells; i++ {
			require.Equal(t, i, coordAt(i).index(), "Should map an index back to itself")
		}
	})

	t.Run("wrapped coordinates share the cell", func(t *testing.T) {
		require.Equal(t, Coord{Row: 5, Col: 0}.index(), Coord{Row: 5, Col: BoardSize}.index(),
			"Should treat a column one past the edge as column zero")
		require.Equal(t, Coord{Row: BoardSize - 1, Col: BoardSize - 1}.index(), Coord{Row: -1, Col: -1}.index(),
			"Should treat negative coordinates as wrapped")
	})
}

func TestTorusDelta(t *testing.T) {
	t.Run("known distances", func(t *testing.T) {
		require.Equal(t, 0, torusDelta(4, 4))
		require.Equal(t, 5, torusDelta(2, 7))
		require.Equal(t, 1, torusDelta(0, BoardSize-1), "Should measure across the edge, not around the long way")
		require.Equal(t, 3, torusDelta(1, 9))
	})

	t.Run("symmetric and bounded", func(t *testing.T) {
		for a := 0; a < BoardSize; a++ {
			for b := 0; b < BoardSize; b++ {
				d := torusDelta(a, b)
				require.Equal(t, d, torusDelta(b, a), "Should not depend on argument order")
				require.LessOrEqual(t, d, BoardSize/2, "Should never exceed half the board")
			}
		}
	})
}

func TestNeighbors(t *testing.T) {
	t.Run("four distinct cells at unit distance", func(t *testing.T) {
		for i := 0; i < NumCells; i++ {
			seen := make(map[int]bool)
			for _, n := range neighbors[i] {
				require.NotEqual(t, i, n, "Should not list a cell as its own neighbor")
				require.False(t, seen[n], "Should not repeat a neighbor")
				seen[n] = true

				a, b := coordAt(i), coordAt(n)
				d := torusDelta(a.Row, b.Row) + torusDelta(a.Col, b.Col)
				require.Equal(t, 1, d, "Should only list cells one step away on the torus")
			}
		}
	})

	t.Run("wraps across the edges", func(t *testing.T) {
		bottom := Coord{Row: BoardSize - 1, Col: 5}.index()
		require.Contains(t, neighbors[bottom][:], Coord{Row: 0, Col: 5}.index(),
			"Should connect the last row back to the first")

		corner := Coord{Row: 0, Col: 0}.index()
		require.Contains(t, neighbors[corner][:], Coord{Row: BoardSize - 1, Col: 0}.index())
		require.Contains(t, neighbors[corner][:], Coord{Row: 0, Col: BoardSize - 1}.index())
	})

	t.Run("symmetric", func(t *testing.T) {
		for i := 0; i < NumCells; i++ {
			for _, n := range neighbors[i] {
				require.Contains(t, neighbors[n][:], i, "Should list adjacency in both directions")
			}
		}
	})
}

func TestCell(t *testing.T) {
	require.Equal(t, "Red", Red.String())
	require.Equal(t, "Blue", Blue.String())
	require.Equal(t, "Empty", Empty.String())
	require.Equal(t, Blue, Red.Opponent())
	require.Equal(t, Red, Blue.Opponent())
}
