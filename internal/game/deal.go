package game

import "github.com/joshuamkite/freecell-engine/internal/engine"

// Shuffle permutes deck according to the Microsoft FreeCell deal algorithm
// for the given game number. The input is not modified. Identical game
// numbers always yield identical permutations; the function is total over
// all uint32 seeds and performs no range clamping of its own.
//
// The algorithm swaps the chosen card into the tail of the shrinking range
// and finally reverses the whole sequence, so the first card dealt ends up
// at index 0.
func Shuffle(deck []Card, gameNumber uint32) []Card {
	shuffled := make([]Card, len(deck))
	copy(shuffled, deck)

	rng := engine.NewMSRand(gameNumber)
	for i := 0; i < len(shuffled); i++ {
		cardsLeft := len(shuffled) - i
		pos := rng.Intn(cardsLeft)
		shuffled[pos], shuffled[cardsLeft-1] = shuffled[cardsLeft-1], shuffled[pos]
	}

	for i, j := 0, len(shuffled)-1; i < j; i, j = i+1, j-1 {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}
	return shuffled
}

// ClampGameNumber forces n into the documented deal range [1, 1000000].
func ClampGameNumber(n uint32) uint32 {
	if n < MinGameNumber {
		return MinGameNumber
	}
	if n > MaxGameNumber {
		return MaxGameNumber
	}
	return n
}

// Deal builds the opening layout for a numbered game: the canonical deck
// is shuffled and distributed round-robin across the eight tableau
// columns, so columns 0-3 receive seven cards and columns 4-7 six. Free
// cells and foundations start empty.
//
// Out-of-range game numbers are clamped; callers are expected to
// validate user input before it gets here.
func Deal(gameNumber uint32) *GameState {
	gameNumber = ClampGameNumber(gameNumber)

	state := &GameState{GameNumber: gameNumber}
	for col := range state.Tableau {
		size := 6
		if col < 4 {
			size = 7
		}
		state.Tableau[col] = make([]Card, 0, size)
	}
	for i, c := range Shuffle(NewDeck(), gameNumber) {
		col := i % TableauColumns
		state.Tableau[col] = append(state.Tableau[col], c)
	}
	return state
}
