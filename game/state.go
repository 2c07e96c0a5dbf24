package game

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/OneOfOne/xxhash"
)

// MaxPly caps the game length: once this many placements have been made the
// game ends and the winner is decided by token count.
const MaxPly = 150

// Draw is the Winner value for a finished game with equal token counts.
const Draw = "Draw"

// ErrInvalidAction reports a placement that violates the rules. A properly
// generated action never triggers it: seeing this error during search means
// move generation and the rules disagree, which is a defect.
var ErrInvalidAction = errors.New("invalid action")

// ErrMalformedState reports a state that violates the board invariants,
// which indicates corruption upstream of the engine.
var ErrMalformedState = errors.New("malformed state")

// BoardState is a snapshot of the game between placements: cell occupancy,
// plies elapsed, and the side to move.
type BoardState struct {
	Cells  [NumCells]Cell `json:"cells"`
	Ply    int            `json:"ply"`
	ToMove Cell           `json:"toMove"`
}

// NewBoardState returns the empty starting position with Red to move.
func NewBoardState() *BoardState {
	return &BoardState{ToMove: Red}
}

func (gs *BoardState) Copy() *BoardState {
	next := *gs
	return &next
}

// Player returns the identifier of the current player.
func (gs *BoardState) Player() string {
	return gs.ToMove.String()
}

// Play applies a move and returns the successor state. It panics on an
// illegal move: inside search every move comes from LegalMoves, so an
// illegal one is a defect, not a condition to recover from.
func (gs *BoardState) Play(move Move) State {
	action, ok := move.(PlaceAction)
	if !ok {
		panic(fmt.Sprintf("unexpected move type %T", move))
	}
	next, err := gs.Apply(action)
	if err != nil {
		panic(err)
	}
	return next
}

// Apply is the checked transition used at trust boundaries: it validates
// the placement, writes the four tokens, clears any completed lines, and
// advances ply and side to move. The receiver is never mutated.
func (gs *BoardState) Apply(action PlaceAction) (*BoardState, error) {
	action = NewPlaceAction(action.Color, action.Coords)
	if err := gs.validate(action); err != nil {
		return nil, err
	}

	next := gs.Copy()
	for _, coord := range action.Coords {
		next.Cells[coord.index()] = action.Color
	}
	next.clearLines()
	next.Ply++
	next.ToMove = gs.ToMove.Opponent()
	return next, nil
}

func (gs *BoardState) validate(action PlaceAction) error {
	if gs.Ply >= MaxPly {
		return fmt.Errorf("%w: game is over", ErrInvalidAction)
	}
	if action.Color != gs.ToMove {
		return fmt.Errorf("%w: it is %s's turn", ErrInvalidAction, gs.ToMove)
	}
	for _, coord := range action.Coords {
		if gs.Cells[coord.index()] != Empty {
			return fmt.Errorf("%w: cell %s is occupied", ErrInvalidAction, coord)
		}
	}
	if !isTetromino(action.Coords) {
		return fmt.Errorf("%w: cells %v do not form a tetromino", ErrInvalidAction, action.Coords)
	}
	// Adjacency applies to every placement after a color's first: at least
	// one cell must touch an existing same-color token, wrapping included.
	if gs.colorCount(action.Color) > 0 && !gs.touchesColor(action.Coords, action.Color) {
		return fmt.Errorf("%w: placement does not touch a %s token", ErrInvalidAction, action.Color)
	}
	return nil
}

// isTetromino reports whether four wrapped cells form one of the 19 shapes.
// Each cell is tried as the image of each shape's first offset, since any
// placement contains that cell by construction.
func isTetromino(coords [4]Coord) bool {
	var target [4]int
	for i, c := range coords {
		target[i] = c.index()
	}
	sort.Ints(target[:])

	for _, shape := range Shapes {
		for _, c := range coords {
			base := Coord{Row: c.Row - shape.Offsets[0].Row, Col: c.Col - shape.Offsets[0].Col}
			var cells [4]int
			for j, offset := range shape.Offsets {
				cells[j] = Coord{Row: base.Row + offset.Row, Col: base.Col + offset.Col}.index()
			}
			sort.Ints(cells[:])
			if cells == target {
				return true
			}
		}
	}
	return false
}

func (gs *BoardState) touchesColor(coords [4]Coord, color Cell) bool {
	for _, coord := range coords {
		if gs.adjacentToColor(coord.index(), color) {
			return true
		}
	}
	return false
}

func (gs *BoardState) adjacentToColor(index int, color Cell) bool {
	for _, n := range neighbors[index] {
		if gs.Cells[n] == color {
			return true
		}
	}
	return false
}

// clearLines empties every row and column whose cells are all occupied.
// Qualifying lines are found on the post-placement board and cleared in one
// simultaneous pass: a clear never triggers further clears.
func (gs *BoardState) clearLines() {
	var full [NumCells]bool
	cleared := false

	for r := 0; r < BoardSize; r++ {
		filled := true
		for c := 0; c < BoardSize; c++ {
			if gs.Cells[r*BoardSize+c] == Empty {
				filled = false
				break
			}
		}
		if filled {
			cleared = true
			for c := 0; c < BoardSize; c++ {
				full[r*BoardSize+c] = true
			}
		}
	}

	for c := 0; c < BoardSize; c++ {
		filled := true
		for r := 0; r < BoardSize; r++ {
			if gs.Cells[r*BoardSize+c] == Empty {
				filled = false
				break
			}
		}
		if filled {
			cleared = true
			for r := 0; r < BoardSize; r++ {
				full[r*BoardSize+c] = true
			}
		}
	}

	if !cleared {
		return
	}
	for i := range gs.Cells {
		if full[i] {
			gs.Cells[i] = Empty
		}
	}
}

// Terminal reports whether play can continue: the game ends at the ply cap
// or when the side to move has no legal placement.
func (gs *BoardState) Terminal() bool {
	return gs.Ply >= MaxPly || len(gs.LegalMoves()) == 0
}

// Winner returns the color holding strictly more tokens once the game is
// over, Draw on equal counts, and "" while the game is live.
func (gs *BoardState) Winner() string {
	if !gs.Terminal() {
		return ""
	}
	red, blue := gs.counts()
	switch {
	case red > blue:
		return Red.String()
	case blue > red:
		return Blue.String()
	default:
		return Draw
	}
}

func (gs *BoardState) counts() (red, blue int) {
	for _, cell := range gs.Cells {
		switch cell {
		case Red:
			red++
		case Blue:
			blue++
		}
	}
	return red, blue
}

func (gs *BoardState) colorCount(color Cell) int {
	count := 0
	for _, cell := range gs.Cells {
		if cell == color {
			count++
		}
	}
	return count
}

func (gs *BoardState) Hash() StateHash {
	var buf [NumCells + 3]byte
	for i, cell := range gs.Cells {
		buf[i] = byte(cell)
	}
	buf[NumCells] = byte(gs.ToMove)
	binary.LittleEndian.PutUint16(buf[NumCells+1:], uint16(gs.Ply))
	return StateHash(xxhash.Checksum64(buf[:]))
}

// Validate checks the state invariants. Boundary code that receives states
// from outside the process decodes arbitrary bytes and must call this
// before trusting the result.
func (gs *BoardState) Validate() error {
	if gs.ToMove != Red && gs.ToMove != Blue {
		return fmt.Errorf("%w: side to move is %d", ErrMalformedState, gs.ToMove)
	}
	if gs.Ply < 0 || gs.Ply > MaxPly {
		return fmt.Errorf("%w: ply %d out of range", ErrMalformedState, gs.Ply)
	}
	for i, cell := range gs.Cells {
		if cell != Empty && cell != Red && cell != Blue {
			return fmt.Errorf("%w: cell %s holds %d", ErrMalformedState, coordAt(i), cell)
		}
	}
	return nil
}

func (gs *BoardState) String() string {
	var sb strings.Builder
	for r := 0; r < BoardSize; r++ {
		for c := 0; c < BoardSize; c++ {
			switch gs.Cells[r*BoardSize+c] {
			case Red:
				sb.WriteByte('r')
			case Blue:
				sb.WriteByte('b')
			default:
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
