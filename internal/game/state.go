package game

// Board dimensions for the 8-column, 4-free-cell, 4-foundation variant.
const (
	TableauColumns  = 8
	FreeCellCount   = 4
	FoundationCount = 4
)

// Game numbers outside this range are clamped before dealing.
const (
	MinGameNumber = 1
	MaxGameNumber = 1_000_000
)

// LocationKind identifies one of the three pile families on the board.
type LocationKind string

const (
	LocTableau    LocationKind = "tableau"
	LocFreeCell   LocationKind = "freecell"
	LocFoundation LocationKind = "foundation"
)

// Location addresses a single pile: a tableau column (0-7), a free cell
// slot (0-3), or a foundation pile (0-3, indexed by suit).
type Location struct {
	Kind  LocationKind `json:"kind"`
	Index int          `json:"index"`
}

// Valid reports whether the location addresses a real pile.
func (l Location) Valid() bool {
	switch l.Kind {
	case LocTableau:
		return l.Index >= 0 && l.Index < TableauColumns
	case LocFreeCell:
		return l.Index >= 0 && l.Index < FreeCellCount
	case LocFoundation:
		return l.Index >= 0 && l.Index < FoundationCount
	}
	return false
}

// Move records a single-card transition between two piles.
type Move struct {
	Card Card     `json:"card"`
	From Location `json:"from"`
	To   Location `json:"to"`
}

// GameState is one point-in-time board. States are immutable: every
// accepted move derives a brand-new value, so prior states stay valid
// snapshots for undo and for diffing by external animation layers.
//
// Foundations are indexed by suit and, when non-empty, always hold the
// contiguous run ace..N of that suit.
type GameState struct {
	Tableau     [TableauColumns][]Card  `json:"tableau"`
	FreeCells   [FreeCellCount]Card     `json:"freeCells"`
	Foundations [FoundationCount][]Card `json:"foundations"`
	GameNumber  uint32                  `json:"gameNumber"`
}

// clone returns a deep copy sharing nothing mutable with the receiver.
func (s *GameState) clone() *GameState {
	next := &GameState{
		FreeCells:  s.FreeCells,
		GameNumber: s.GameNumber,
	}
	for i, col := range s.Tableau {
		next.Tableau[i] = append([]Card(nil), col...)
	}
	for i, pile := range s.Foundations {
		next.Foundations[i] = append([]Card(nil), pile...)
	}
	return next
}

// top returns the top card of a tableau column, or an empty Card.
func (s *GameState) top(col int) Card {
	pile := s.Tableau[col]
	if len(pile) == 0 {
		return Card{}
	}
	return pile[len(pile)-1]
}

// foundationTop returns the top card of a foundation pile, or an empty Card.
func (s *GameState) foundationTop(idx int) Card {
	pile := s.Foundations[idx]
	if len(pile) == 0 {
		return Card{}
	}
	return pile[len(pile)-1]
}

// EmptyFreeCells counts vacant free cell slots.
func (s *GameState) EmptyFreeCells() int {
	n := 0
	for _, c := range s.FreeCells {
		if c.IsEmpty() {
			n++
		}
	}
	return n
}

// EmptyColumns counts empty tableau columns.
func (s *GameState) EmptyColumns() int {
	n := 0
	for _, col := range s.Tableau {
		if len(col) == 0 {
			n++
		}
	}
	return n
}

// IsWon reports whether all four foundations are complete.
func (s *GameState) IsWon() bool {
	for _, pile := range s.Foundations {
		if len(pile) != King.Value() {
			return false
		}
	}
	return true
}

// Equal reports structural equality of two states.
func (s *GameState) Equal(o *GameState) bool {
	if s.GameNumber != o.GameNumber || s.FreeCells != o.FreeCells {
		return false
	}
	for i := range s.Tableau {
		if !cardsEqual(s.Tableau[i], o.Tableau[i]) {
			return false
		}
	}
	for i := range s.Foundations {
		if !cardsEqual(s.Foundations[i], o.Foundations[i]) {
			return false
		}
	}
	return true
}

func cardsEqual(a, b []Card) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
