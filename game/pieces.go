package game

import (
	"fmt"
	"sort"
)

// Shape is one orientation of a tetromino, expressed as coordinate offsets
// from its row-major minimum cell. Offsets are normalized (minimum row and
// column are 0) and sorted row-major.
type Shape struct {
	Name    string
	Offsets [4]Coord
}

// The seven one-sided tetrominoes. Reflections are already present as the
// S/Z and J/L pairs; rotations are derived at startup.
var basePieces = []Shape{
	{Name: "I", Offsets: [4]Coord{{0, 0}, {0, 1}, {0, 2}, {0, 3}}},
	{Name: "O", Offsets: [4]Coord{{0, 0}, {0, 1}, {1, 0}, {1, 1}}},
	{Name: "T", Offsets: [4]Coord{{0, 0}, {0, 1}, {0, 2}, {1, 1}}},
	{Name: "S", Offsets: [4]Coord{{0, 1}, {0, 2}, {1, 0}, {1, 1}}},
	{Name: "Z", Offsets: [4]Coord{{0, 0}, {0, 1}, {1, 1}, {1, 2}}},
	{Name: "J", Offsets: [4]Coord{{0, 1}, {1, 1}, {2, 0}, {2, 1}}},
	{Name: "L", Offsets: [4]Coord{{0, 0}, {1, 0}, {2, 0}, {2, 1}}},
}

// Shapes lists the 19 distinct fixed orientations: 2 for I, 1 for O, 4 each
// for T, J and L, and 2 each for S and Z. Order is stable so that move
// enumeration is deterministic.
var Shapes = buildShapes()

func buildShapes() []Shape {
	var shapes []Shape
	seen := make(map[[4]Coord]bool)
	for _, piece := range basePieces {
		offsets := piece.Offsets
		for turn := 0; turn < 4; turn++ {
			if !seen[offsets] {
				seen[offsets] = true
				name := piece.Name
				if turn > 0 {
					name = fmt.Sprintf("%s%d", piece.Name, turn*90)
				}
				shapes = append(shapes, Shape{Name: name, Offsets: offsets})
			}
			offsets = rotateOffsets(offsets)
		}
	}
	return shapes
}

// rotateOffsets turns a shape a quarter turn clockwise and renormalizes.
func rotateOffsets(offsets [4]Coord) [4]Coord {
	var turned [4]Coord
	for i, o := range offsets {
		turned[i] = Coord{Row: o.Col, Col: -o.Row}
	}
	return normalizeOffsets(turned)
}

func normalizeOffsets(offsets [4]Coord) [4]Coord {
	minRow, minCol := offsets[0].Row, offsets[0].Col
	for _, o := range offsets[1:] {
		minRow = min(minRow, o.Row)
		minCol = min(minCol, o.Col)
	}
	for i := range offsets {
		offsets[i].Row -= minRow
		offsets[i].Col -= minCol
	}
	sortCoords(offsets[:])
	return offsets
}

func sortCoords(coords []Coord) {
	sort.Slice(coords, func(i, j int) bool {
		if coords[i].Row != coords[j].Row {
			return coords[i].Row < coords[j].Row
		}
		return coords[i].Col < coords[j].Col
	})
}
