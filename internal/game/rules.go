package game

// stacksOn reports whether card may be placed on top in a tableau build:
// top must be one rank higher and the opposite color.
func stacksOn(card, top Card) bool {
	return top.Rank.Value() == card.Rank.Value()+1 && top.Color() != card.Color()
}

// CanMoveToTableau reports whether card may be placed on the given tableau
// column: always true for an empty column, otherwise the column's top card
// must be one rank higher and the opposite color.
func (s *GameState) CanMoveToTableau(card Card, col int) bool {
	if col < 0 || col >= TableauColumns || card.IsEmpty() {
		return false
	}
	top := s.top(col)
	if top.IsEmpty() {
		return true
	}
	return stacksOn(card, top)
}

// CanMoveToFoundation reports whether card may be placed on the given
// foundation pile: an ace on an empty pile, otherwise the pile's top must
// be the same suit and exactly one rank lower.
func (s *GameState) CanMoveToFoundation(card Card, foundation int) bool {
	if foundation < 0 || foundation >= FoundationCount || card.IsEmpty() {
		return false
	}
	top := s.foundationTop(foundation)
	if top.IsEmpty() {
		return card.Rank == Ace && Suit(foundation) == card.Suit
	}
	return top.Suit == card.Suit && top.Rank.Value() == card.Rank.Value()-1
}

// MaxMovableCards returns the supermove capacity: each empty free cell can
// park one card and each empty column doubles the total. When the move's
// destination is itself one of the empty columns it cannot contribute,
// so one empty column is discounted.
func MaxMovableCards(emptyFreeCells, emptyColumns int, excludeTargetColumn bool) int {
	if excludeTargetColumn && emptyColumns > 0 {
		emptyColumns--
	}
	return (1 + emptyFreeCells) << emptyColumns
}

// isRun reports whether cards is a valid descending alternating-color
// sequence, reading bottom to top.
func isRun(cards []Card) bool {
	for i := 0; i+1 < len(cards); i++ {
		if !stacksOn(cards[i+1], cards[i]) {
			return false
		}
	}
	return true
}

// CanMoveSequence reports whether the cards from start to the end of the
// source column form a movable run: a valid descending alternating-color
// sequence no longer than the supermove capacity computed from the current
// state, with the destination column excluded from the empty-column count
// when it is itself empty.
func (s *GameState) CanMoveSequence(srcCol, start, dstCol int) bool {
	if srcCol < 0 || srcCol >= TableauColumns || dstCol < 0 || dstCol >= TableauColumns || srcCol == dstCol {
		return false
	}
	pile := s.Tableau[srcCol]
	if start < 0 || start >= len(pile) {
		return false
	}
	run := pile[start:]
	if !isRun(run) {
		return false
	}
	limit := MaxMovableCards(s.EmptyFreeCells(), s.EmptyColumns(), len(s.Tableau[dstCol]) == 0)
	return len(run) <= limit
}

// TryMove attempts to move a single card from one pile to another. The
// card must actually be the top card (or sole occupant) of the declared
// source and the destination must accept it. On success a brand-new state
// is returned; on any failure the receiver itself is returned unchanged,
// so callers detect a rejected move by pointer or structural equality
// rather than an error value.
func (s *GameState) TryMove(card Card, from, to Location) *GameState {
	if card.IsEmpty() || !from.Valid() || !to.Valid() {
		return s
	}
	if !s.cardAt(from, card) {
		return s
	}
	if !s.accepts(card, to) {
		return s
	}

	next := s.clone()
	next.remove(from)
	next.place(card, to)
	return next
}

// TryMoveRun attempts a supermove: the run from start to the end of the
// source column onto the destination column. The run must be movable per
// CanMoveSequence and its bottom card must be accepted by the destination.
// Returns the receiver unchanged on any failure.
func (s *GameState) TryMoveRun(srcCol, start, dstCol int) *GameState {
	if !s.CanMoveSequence(srcCol, start, dstCol) {
		return s
	}
	if !s.CanMoveToTableau(s.Tableau[srcCol][start], dstCol) {
		return s
	}

	next := s.clone()
	run := next.Tableau[srcCol][start:]
	next.Tableau[dstCol] = append(next.Tableau[dstCol], run...)
	next.Tableau[srcCol] = next.Tableau[srcCol][:start]
	return next
}

// cardAt reports whether card is the top card of the source pile.
func (s *GameState) cardAt(from Location, card Card) bool {
	switch from.Kind {
	case LocTableau:
		return s.top(from.Index) == card
	case LocFreeCell:
		return s.FreeCells[from.Index] == card && !card.IsEmpty()
	case LocFoundation:
		return s.foundationTop(from.Index) == card
	}
	return false
}

// accepts reports whether the destination pile accepts card.
func (s *GameState) accepts(card Card, to Location) bool {
	switch to.Kind {
	case LocTableau:
		return s.CanMoveToTableau(card, to.Index)
	case LocFreeCell:
		return s.FreeCells[to.Index].IsEmpty()
	case LocFoundation:
		return s.CanMoveToFoundation(card, to.Index)
	}
	return false
}

// remove pops the top card from the source pile. Only called on a clone
// after cardAt has validated the source.
func (s *GameState) remove(from Location) {
	switch from.Kind {
	case LocTableau:
		s.Tableau[from.Index] = s.Tableau[from.Index][:len(s.Tableau[from.Index])-1]
	case LocFreeCell:
		s.FreeCells[from.Index] = Card{}
	case LocFoundation:
		s.Foundations[from.Index] = s.Foundations[from.Index][:len(s.Foundations[from.Index])-1]
	}
}

// place appends card to the destination pile. Only called on a clone after
// accepts has validated the destination.
func (s *GameState) place(card Card, to Location) {
	switch to.Kind {
	case LocTableau:
		s.Tableau[to.Index] = append(s.Tableau[to.Index], card)
	case LocFreeCell:
		s.FreeCells[to.Index] = card
	case LocFoundation:
		s.Foundations[to.Index] = append(s.Foundations[to.Index], card)
	}
}
