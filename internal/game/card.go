package game

import "fmt"

// Rank represents a card rank, ace low.
type Rank int

const (
	Ace Rank = iota + 1
	Two
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
)

// Value returns the numeric rank: A=1 ... K=13.
func (r Rank) Value() int {
	return int(r)
}

// String returns the rank as a string ("A", "2", ..., "T", "J", "Q", "K").
func (r Rank) String() string {
	ranks := []string{"", "A", "2", "3", "4", "5", "6", "7", "8", "9", "T", "J", "Q", "K"}
	if r < Ace || r > King {
		return "?"
	}
	return ranks[r]
}

// Suit represents a card suit. The declaration order (clubs, diamonds,
// hearts, spades) is load-bearing: NewDeck generates cards in this order
// and the deal shuffle indexes into the deck positionally.
type Suit int

const (
	Clubs Suit = iota
	Diamonds
	Hearts
	Spades
)

// String returns the suit as a single letter ("C", "D", "H", "S").
func (s Suit) String() string {
	suits := []string{"C", "D", "H", "S"}
	if s < Clubs || s > Spades {
		return "?"
	}
	return suits[s]
}

// Color is a derived card attribute: hearts and diamonds are red, clubs
// and spades are black.
type Color int

const (
	Black Color = iota
	Red
)

// Color returns the color of the suit.
func (s Suit) Color() Color {
	if s == Hearts || s == Diamonds {
		return Red
	}
	return Black
}

// Card is an immutable card value. Identity is the (rank, suit) pair
// itself: Card is comparable and no two distinct cards compare equal, so
// cards can be located within piles after state copies without relying on
// pointer identity.
type Card struct {
	Rank Rank `json:"rank"`
	Suit Suit `json:"suit"`
}

// IsEmpty reports whether c is the zero value, used for vacant free cells.
func (c Card) IsEmpty() bool {
	return c == Card{}
}

// Color returns the card's color.
func (c Card) Color() Color {
	return c.Suit.Color()
}

// String returns a compact card representation like "AS" or "TD".
func (c Card) String() string {
	if c.IsEmpty() {
		return "--"
	}
	return fmt.Sprintf("%s%s", c.Rank, c.Suit)
}

// ParseCard parses the compact representation produced by Card.String,
// e.g. "AS" or "td". Case-insensitive; "10" is accepted for ten.
func ParseCard(s string) (Card, error) {
	if len(s) == 3 && (s[0] == '1' && s[1] == '0') {
		s = "T" + s[2:]
	}
	if len(s) != 2 {
		return Card{}, fmt.Errorf("invalid card %q", s)
	}

	var rank Rank
	switch r := s[0]; {
	case r == 'A' || r == 'a':
		rank = Ace
	case r == 'T' || r == 't':
		rank = Ten
	case r == 'J' || r == 'j':
		rank = Jack
	case r == 'Q' || r == 'q':
		rank = Queen
	case r == 'K' || r == 'k':
		rank = King
	case r >= '2' && r <= '9':
		rank = Rank(r - '0')
	default:
		return Card{}, fmt.Errorf("invalid rank %q in card %q", string(s[0]), s)
	}

	var suit Suit
	switch s[1] {
	case 'C', 'c':
		suit = Clubs
	case 'D', 'd':
		suit = Diamonds
	case 'H', 'h':
		suit = Hearts
	case 'S', 's':
		suit = Spades
	default:
		return Card{}, fmt.Errorf("invalid suit %q in card %q", string(s[1]), s)
	}

	return Card{Rank: rank, Suit: suit}, nil
}

// NewDeck returns the full 52-card deck in canonical generation order:
// ranks outer (ace through king), suits inner (clubs, diamonds, hearts,
// spades). Card i therefore has rank i/4+1 and suit i%4, the indexing the
// Microsoft deal algorithm is defined against.
func NewDeck() []Card {
	deck := make([]Card, 0, 52)
	for rank := Ace; rank <= King; rank++ {
		for suit := Clubs; suit <= Spades; suit++ {
			deck = append(deck, Card{Rank: rank, Suit: suit})
		}
	}
	return deck
}
