package game

import "fmt"

const (
	// BoardSize is the side length of the square board. The board is a
	// torus: rows and columns wrap at the edges.
	BoardSize = 11
	NumCells  = BoardSize * BoardSize
)

type Cell uint8

const (
	Empty Cell = iota
	Red
	Blue
)

func (c Cell) String() string {
	switch c {
	case Red:
		return "Red"
	case Blue:
		return "Blue"
	default:
		return "Empty"
	}
}

// Opponent returns the other color. Empty has no opponent.
func (c Cell) Opponent() Cell {
	switch c {
	case Red:
		return Blue
	case Blue:
		return Red
	default:
		return Empty
	}
}

// Coord addresses a cell by (row, col). Values outside [0, BoardSize) are
// meaningful as intermediate arithmetic and wrap when resolved to an index.
type Coord struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d)", c.Row, c.Col)
}

func (c Coord) index() int {
	return wrap(c.Row)*BoardSize + wrap(c.Col)
}

func coordAt(index int) Coord {
	return Coord{Row: index / BoardSize, Col: index % BoardSize}
}

// wrap maps a coordinate component onto the torus.
func wrap(v int) int {
	v %= BoardSize
	if v < 0 {
		v += BoardSize
	}
	return v
}

// torusDelta is the shortest wrapped distance along one axis.
func torusDelta(a, b int) int {
	d := wrap(a) - wrap(b)
	if d < 0 {
		d = -d
	}
	if BoardSize-d < d {
		d = BoardSize - d
	}
	return d
}

// neighbors maps each cell index to its 4 toroidal neighbors (up, right,
// down, left). Built once so move generation never re-derives adjacency.
var neighbors = buildNeighbors()

func buildNeighbors() [NumCells][4]int {
	var table [NumCells][4]int
	for i := range table {
		r, c := i/BoardSize, i%BoardSize
		table[i] = [4]int{
			wrap(r-1)*BoardSize + c,
			r*BoardSize + wrap(c+1),
			wrap(r+1)*BoardSize + c,
			r*BoardSize + wrap(c-1),
		}
	}
	return table
}
