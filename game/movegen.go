package game

// LegalMoves enumerates every legal placement for the side to move, in a
// deterministic order. After a color's first placement the search is seeded
// from the empty cells touching that color, since every legal placement
// must cover at least one of them.
func (gs *BoardState) LegalMoves() []Move {
	if gs.Ply >= MaxPly {
		return nil
	}
	if gs.colorCount(gs.ToMove) == 0 {
		return gs.openingMoves()
	}

	var moves []Move
	seen := make(map[PlaceAction]struct{})
	for i, cell := range gs.Cells {
		if cell == Empty && gs.adjacentToColor(i, gs.ToMove) {
			gs.placementsThrough(coordAt(i), &moves, seen)
		}
	}
	return moves
}

// placementsThrough appends every placement that covers the given cell and
// fits on empty cells. Each of the 19 shapes is aligned so that each of its
// four offsets in turn lands on the cell.
func (gs *BoardState) placementsThrough(seed Coord, moves *[]Move, seen map[PlaceAction]struct{}) {
	for _, shape := range Shapes {
		for _, offset := range shape.Offsets {
			base := Coord{Row: seed.Row - offset.Row, Col: seed.Col - offset.Col}
			var coords [4]Coord
			fits := true
			for j, o := range shape.Offsets {
				coord := Coord{Row: base.Row + o.Row, Col: base.Col + o.Col}
				if gs.Cells[coord.index()] != Empty {
					fits = false
					break
				}
				coords[j] = coord
			}
			if !fits {
				continue
			}
			action := NewPlaceAction(gs.ToMove, coords)
			if _, dup := seen[action]; dup {
				continue
			}
			seen[action] = struct{}{}
			*moves = append(*moves, action)
		}
	}
}

// openingMoves handles a side with no tokens on the board. On the very
// first ply every placement is equivalent up to translation on the torus,
// so only the 19 shapes anchored at the center are offered. A side wiped
// out mid-game gets the full enumeration over every empty cell.
func (gs *BoardState) openingMoves() []Move {
	var moves []Move
	if gs.Ply == 0 {
		center := Coord{Row: BoardSize / 2, Col: BoardSize / 2}
		for _, shape := range Shapes {
			var coords [4]Coord
			for j, o := range shape.Offsets {
				coords[j] = Coord{Row: center.Row + o.Row, Col: center.Col + o.Col}
			}
			moves = append(moves, NewPlaceAction(gs.ToMove, coords))
		}
		return moves
	}

	seen := make(map[PlaceAction]struct{})
	for i, cell := range gs.Cells {
		if cell == Empty {
			gs.placementsThrough(coordAt(i), &moves, seen)
		}
	}
	return moves
}
