package game

// Session wraps a current state and its linear undo history. It is the
// only mutable piece of the engine and mutates exclusively by whole-value
// replacement, so every state it has ever held remains a valid snapshot.
// Sessions are not safe for concurrent use; callers serialize access.
type Session struct {
	current *GameState
	history []*GameState
}

// NewSession deals the numbered game and starts an empty history.
func NewSession(gameNumber uint32) *Session {
	return &Session{current: Deal(gameNumber)}
}

// Current returns the current state snapshot.
func (s *Session) Current() *GameState {
	return s.current
}

// HistoryLen returns the number of undoable entries.
func (s *Session) HistoryLen() int {
	return len(s.history)
}

// TryMove attempts a single-card move followed by the automatic safe-move
// sweep. When the move is accepted the prior state is pushed onto the
// history (one undo entry per manual move, automatic promotions included)
// and the applied moves are returned with true. A rejected move changes
// nothing and returns false.
func (s *Session) TryMove(card Card, from, to Location) ([]Move, bool) {
	next := s.current.TryMove(card, from, to)
	if next == s.current {
		return nil, false
	}
	moves := []Move{{Card: card, From: from, To: to}}
	final, auto := AutoPlay(next)
	moves = append(moves, auto...)

	s.history = append(s.history, s.current)
	s.current = final
	return moves, true
}

// TryMoveRun attempts a supermove with the same history semantics as
// TryMove.
func (s *Session) TryMoveRun(srcCol, start, dstCol int) ([]Move, bool) {
	next := s.current.TryMoveRun(srcCol, start, dstCol)
	if next == s.current {
		return nil, false
	}
	final, auto := AutoPlay(next)

	s.history = append(s.history, s.current)
	s.current = final
	return auto, true
}

// AutoPlay runs the safe-move sweep on the current state, recording a
// history entry when anything moved.
func (s *Session) AutoPlay() []Move {
	final, moves := AutoPlay(s.current)
	if len(moves) == 0 {
		return nil
	}
	s.history = append(s.history, s.current)
	s.current = final
	return moves
}

// Undo pops the most recent history entry and adopts it as current.
// It reports whether anything was undone; undo on an empty history is a
// no-op. There is no redo.
func (s *Session) Undo() bool {
	if len(s.history) == 0 {
		return false
	}
	s.current = s.history[len(s.history)-1]
	s.history = s.history[:len(s.history)-1]
	return true
}

// NewGame abandons the current game, deals the numbered game, and clears
// the history.
func (s *Session) NewGame(gameNumber uint32) {
	s.current = Deal(gameNumber)
	s.history = nil
}
