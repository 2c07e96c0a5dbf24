package game

import "fmt"

// PlaceAction puts four tokens of one color on the board. Coordinates are
// stored sorted row-major so that equal placements compare equal no matter
// how they were derived, and the action can key a map.
type PlaceAction struct {
	Color  Cell     `json:"color"`
	Coords [4]Coord `json:"coords"`
}

func NewPlaceAction(color Cell, coords [4]Coord) PlaceAction {
	for i, c := range coords {
		coords[i] = Coord{Row: wrap(c.Row), Col: wrap(c.Col)}
	}
	sortCoords(coords[:])
	return PlaceAction{Color: color, Coords: coords}
}

func (a PlaceAction) String() string {
	return fmt.Sprintf("%s%v", a.Color, a.Coords)
}
