package metrics

import (
	"github.com/joshuamkite/freecell-engine/internal/game"
)

// BuriedAces measures how deeply the four aces are buried: the total
// number of cards lying on top of aces across the tableau. 0 means every
// ace is immediately playable; higher values correlate with harder deals.
type BuriedAces struct{}

func (m *BuriedAces) Spec() Spec {
	return Spec{ID: "buried_aces", Name: "Buried Aces", Label: "cards_on_aces"}
}

func (m *BuriedAces) Evaluate(state *game.GameState, params map[string]any) (Result, error) {
	total := 0
	positions := make(map[string]int, 4)
	for _, pile := range state.Tableau {
		for depth, c := range pile {
			if c.Rank != game.Ace {
				continue
			}
			above := len(pile) - depth - 1
			total += above
			positions[c.String()] = above
		}
	}
	return Result{
		Value:   float64(total),
		Label:   "cards_on_aces",
		Details: map[string]any{"per_ace": positions},
	}, nil
}

// AutoPromotions counts the cards the safe auto-move policy promotes from
// the opening layout before any manual move.
type AutoPromotions struct{}

func (m *AutoPromotions) Spec() Spec {
	return Spec{ID: "auto_promotions", Name: "Opening Auto Promotions", Label: "cards_promoted"}
}

func (m *AutoPromotions) Evaluate(state *game.GameState, params map[string]any) (Result, error) {
	_, moves := game.AutoPlay(state)
	cards := make([]string, len(moves))
	for i, mv := range moves {
		cards[i] = mv.Card.String()
	}
	return Result{
		Value:   float64(len(moves)),
		Label:   "cards_promoted",
		Details: map[string]any{"cards": cards},
	}, nil
}

// FreeTops counts tableau tops that are immediately legal foundation
// moves, safe or not.
type FreeTops struct{}

func (m *FreeTops) Spec() Spec {
	return Spec{ID: "free_tops", Name: "Playable Tops", Label: "playable_tops"}
}

func (m *FreeTops) Evaluate(state *game.GameState, params map[string]any) (Result, error) {
	count := 0
	for col := 0; col < game.TableauColumns; col++ {
		pile := state.Tableau[col]
		if len(pile) == 0 {
			continue
		}
		top := pile[len(pile)-1]
		if state.CanMoveToFoundation(top, int(top.Suit)) {
			count++
		}
	}
	return Result{Value: float64(count), Label: "playable_tops"}, nil
}

// LongestRun measures the longest movable run: the maximum length over all
// columns of the descending alternating-color suffix ending at the
// column's top card.
type LongestRun struct{}

func (m *LongestRun) Spec() Spec {
	return Spec{ID: "longest_run", Name: "Longest Opening Run", Label: "run_length"}
}

func (m *LongestRun) Evaluate(state *game.GameState, params map[string]any) (Result, error) {
	best := 0
	bestCol := -1
	for col, pile := range state.Tableau {
		length := runSuffixLen(pile)
		if length > best {
			best = length
			bestCol = col
		}
	}
	return Result{
		Value:   float64(best),
		Label:   "run_length",
		Details: map[string]any{"column": bestCol},
	}, nil
}

// runSuffixLen returns the length of the valid run ending at the top of
// the pile.
func runSuffixLen(pile []game.Card) int {
	if len(pile) == 0 {
		return 0
	}
	n := 1
	for i := len(pile) - 1; i > 0; i-- {
		upper := pile[i]
		lower := pile[i-1]
		if lower.Rank.Value() == upper.Rank.Value()+1 && lower.Color() != upper.Color() {
			n++
		} else {
			break
		}
	}
	return n
}
