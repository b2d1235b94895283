package game

import "testing"

func TestSessionMoveUndoRoundTrip(t *testing.T) {
	s := NewSession(164)
	before := s.Current()

	// Game 164: 6S (column 0 top) onto 7D (column 6 top).
	moves, ok := s.TryMove(card(t, "6S"), Location{LocTableau, 0}, Location{LocTableau, 6})
	if !ok {
		t.Fatal("legal move rejected")
	}
	if len(moves) != 1 {
		t.Fatalf("moves = %v, want single manual move", moves)
	}
	if s.Current() == before {
		t.Fatal("current state not replaced")
	}
	if s.HistoryLen() != 1 {
		t.Fatalf("history length = %d, want 1", s.HistoryLen())
	}

	if !s.Undo() {
		t.Fatal("undo failed")
	}
	if !s.Current().Equal(before) {
		t.Error("undo did not restore the prior state")
	}
	if s.Current() != before {
		t.Error("undo should restore the retained snapshot itself")
	}
	if s.HistoryLen() != 0 {
		t.Errorf("history length after undo = %d", s.HistoryLen())
	}
}

func TestSessionRejectedMoveLeavesNoTrace(t *testing.T) {
	s := NewSession(164)
	before := s.Current()

	// 6H on 7D is red on red.
	if _, ok := s.TryMove(card(t, "6H"), Location{LocTableau, 1}, Location{LocTableau, 6}); ok {
		t.Fatal("illegal move accepted")
	}
	if s.Current() != before || s.HistoryLen() != 0 {
		t.Error("rejected move altered session state")
	}
}

func TestSessionMoveTriggersAutoPlay(t *testing.T) {
	// Game 31465 deals the ace of clubs on top of column 4. Any accepted
	// manual move sweeps it to the foundation.
	s := NewSession(31465)

	moves, ok := s.TryMove(card(t, "2S"), Location{LocTableau, 5}, Location{LocTableau, 6})
	if !ok {
		t.Fatal("legal move rejected")
	}
	if len(moves) != 2 {
		t.Fatalf("moves = %v, want manual move plus one auto promotion", moves)
	}
	if moves[1].Card != card(t, "AC") {
		t.Errorf("auto move card = %s, want AC", moves[1].Card)
	}
	if len(s.Current().Foundations[Clubs]) != 1 {
		t.Error("ace of clubs not on its foundation")
	}

	// A single undo reverts the manual move and its automatic follow-ups.
	if !s.Undo() {
		t.Fatal("undo failed")
	}
	if !s.Current().Equal(Deal(31465)) {
		t.Error("undo did not restore the opening deal")
	}
}

func TestSessionAutoPlay(t *testing.T) {
	s := NewSession(31465)
	moves := s.AutoPlay()
	if len(moves) != 1 || moves[0].Card != card(t, "AC") {
		t.Fatalf("opening auto play = %v, want AC promotion", moves)
	}
	if s.HistoryLen() != 1 {
		t.Errorf("auto play not recorded in history")
	}

	// Quiescent now; a second sweep records nothing.
	if moves := s.AutoPlay(); moves != nil {
		t.Errorf("second auto play = %v, want none", moves)
	}
	if s.HistoryLen() != 1 {
		t.Errorf("quiescent auto play grew history")
	}
}

func TestSessionUndoEmptyHistory(t *testing.T) {
	s := NewSession(1)
	if s.Undo() {
		t.Error("undo on empty history reported success")
	}
}

func TestSessionNewGameClearsHistory(t *testing.T) {
	s := NewSession(1)
	s.TryMove(card(t, "2H"), Location{LocTableau, 2}, Location{LocFreeCell, 0})
	if s.HistoryLen() != 1 {
		t.Fatal("setup move not recorded")
	}

	s.NewGame(617)
	if s.HistoryLen() != 0 {
		t.Error("new game kept old history")
	}
	if !s.Current().Equal(Deal(617)) {
		t.Error("new game did not adopt the new deal")
	}
	if s.Undo() {
		t.Error("undo across games succeeded")
	}
}

func TestSessionSupermove(t *testing.T) {
	// Game 1: park 2H, build 8D onto 9C. Column 1 then ends with the run
	// 9C 8D.
	s := NewSession(1)
	s.TryMove(card(t, "2H"), Location{LocTableau, 2}, Location{LocFreeCell, 0})
	s.TryMove(card(t, "8D"), Location{LocTableau, 2}, Location{LocTableau, 1})
	if s.HistoryLen() != 2 {
		t.Fatal("setup moves not recorded")
	}

	// No tableau column tops a black ten, so the run has nowhere to land.
	if _, ok := s.TryMoveRun(1, 6, 2); ok {
		t.Error("supermove onto non-matching top accepted")
	}
	if s.HistoryLen() != 2 {
		t.Error("rejected supermove recorded in history")
	}

	// 7D TC at the end of column 7 is not a descending run.
	if _, ok := s.TryMoveRun(7, 4, 1); ok {
		t.Error("non-run sequence accepted")
	}
}
