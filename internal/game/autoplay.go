package game

// safeToAutoMove implements the standard FreeCell safe-automatic-move
// heuristic: a card is promoted only when it is the immediate next card
// its foundation needs AND both opposite-color foundations are no more
// than two ranks behind, so it can never be wanted as a tableau stacking
// target in the near term. The +2 offset is load-bearing; players rely on
// this exact behavior.
func safeToAutoMove(s *GameState, card Card) bool {
	if card.Rank.Value() != len(s.Foundations[card.Suit])+1 {
		return false
	}
	return card.Rank.Value() <= minOppositeRank(s, card.Suit)+2
}

// minOppositeRank returns the smaller foundation length among the two
// suits of the opposite color.
func minOppositeRank(s *GameState, suit Suit) int {
	var a, b int
	if suit.Color() == Red {
		a, b = len(s.Foundations[Clubs]), len(s.Foundations[Spades])
	} else {
		a, b = len(s.Foundations[Diamonds]), len(s.Foundations[Hearts])
	}
	if a < b {
		return a
	}
	return b
}

// FindAutoMove scans the board in fixed priority order (free cells first,
// then tableau columns left to right) for the first card that is both a
// legal foundation move and safe to promote. It returns the move and true,
// or a zero Move and false when nothing qualifies. The function holds no
// state and performs no I/O; pacing between successive automatic moves is
// a presentation concern.
func FindAutoMove(s *GameState) (Move, bool) {
	for i, card := range s.FreeCells {
		if card.IsEmpty() {
			continue
		}
		if s.CanMoveToFoundation(card, int(card.Suit)) && safeToAutoMove(s, card) {
			return Move{
				Card: card,
				From: Location{Kind: LocFreeCell, Index: i},
				To:   Location{Kind: LocFoundation, Index: int(card.Suit)},
			}, true
		}
	}
	for col := 0; col < TableauColumns; col++ {
		card := s.top(col)
		if card.IsEmpty() {
			continue
		}
		if s.CanMoveToFoundation(card, int(card.Suit)) && safeToAutoMove(s, card) {
			return Move{
				Card: card,
				From: Location{Kind: LocTableau, Index: col},
				To:   Location{Kind: LocFoundation, Index: int(card.Suit)},
			}, true
		}
	}
	return Move{}, false
}

// AutoPlay drives the safe-move policy to quiescence: it repeatedly finds
// and applies one automatic move, re-evaluating against the latest state
// after every application since promoting one card can make another safe.
// It returns the final state and the moves applied, in order.
func AutoPlay(s *GameState) (*GameState, []Move) {
	var applied []Move
	for {
		move, ok := FindAutoMove(s)
		if !ok {
			return s, applied
		}
		next := s.TryMove(move.Card, move.From, move.To)
		if next == s {
			// FindAutoMove only proposes legal moves; bail rather than spin.
			return s, applied
		}
		applied = append(applied, move)
		s = next
		if s.IsWon() {
			return s, applied
		}
	}
}
