package game

import (
	"strings"
	"testing"
)

func columnString(col []Card) string {
	parts := make([]string, len(col))
	for i, c := range col {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}

// Golden layouts for known deal numbers. Game 1 is the published Microsoft
// FreeCell opening layout, which pins the whole shuffle/deal pipeline.
func TestDealGoldenLayouts(t *testing.T) {
	golden := map[uint32][TableauColumns]string{
		1: {
			"JD KD 2S 4C 3S 6D 6S",
			"2D KC KS 5C TD 8S 9C",
			"9H 9S 9D TS 4S 8D 2H",
			"JC 5S QD QH TH QS 6H",
			"5D AD JS 4H 8H 6C",
			"7H QC AS AC 2C 3D",
			"7C KH AH 4D JH 8C",
			"5H 3H 3C 7S 7D TC",
		},
		164: {
			"AH AS 5S AD 5H 2S 6S",
			"5D TD JS 2H TC 6C 6H",
			"JH KC 7S KH 3C KD 6D",
			"AC 4H 8H KS 9C 8C QH",
			"QD TH TS 9S 7C 3H",
			"QS 8S 4C 9H 4S 3S",
			"3D 2C 9D QC 7H 7D",
			"8D 2D JC JD 4D 5C",
		},
		617: {
			"7D TD TH KD 4C 4S JD",
			"AD 7S QC 5H QS TS KS",
			"5C QD 3H 9S 9C 2H KC",
			"3S AC 9D 3C 9H 5D 4H",
			"5S 6D 6S 8S 7C JC",
			"8C 8H 8D 7H 6H 6C",
			"2D AS 3D 4D 2C JH",
			"AH KH TC JS 2S QH",
		},
		31465: {
			"4H JH 9H JD TC 6C KS",
			"QH 8C TS 4S 7S KC 3D",
			"6D AD JS 7H 6H TD QC",
			"QD AH 8S 4D 5D TH 9D",
			"3S JC KH 2D 8D AC",
			"5S 2H 2C 7D 3C 2S",
			"9C 5H 9S 4C 6S 3H",
			"5C AS 7C KD 8H QS",
		},
	}

	for gameNumber, want := range golden {
		state := Deal(gameNumber)
		for col := range want {
			if got := columnString(state.Tableau[col]); got != want[col] {
				t.Errorf("deal %d column %d:\n got  %s\n want %s", gameNumber, col, got, want[col])
			}
		}
	}
}

func TestDealDeterministic(t *testing.T) {
	for _, n := range []uint32{1, 164, 617, 500000, 1000000} {
		a := Deal(n)
		b := Deal(n)
		if !a.Equal(b) {
			t.Errorf("deal %d not deterministic", n)
		}
	}
}

func TestDealCompleteness(t *testing.T) {
	for _, n := range []uint32{1, 2, 164, 999999} {
		state := Deal(n)
		seen := make(map[Card]bool)
		total := 0
		for _, col := range state.Tableau {
			for _, c := range col {
				if seen[c] {
					t.Fatalf("deal %d: duplicate card %s", n, c)
				}
				seen[c] = true
				total++
			}
		}
		if total != 52 {
			t.Fatalf("deal %d: %d cards dealt, want 52", n, total)
		}
		for _, c := range NewDeck() {
			if !seen[c] {
				t.Fatalf("deal %d: card %s missing", n, c)
			}
		}
	}
}

func TestDealColumnSizes(t *testing.T) {
	state := Deal(1)
	for col, pile := range state.Tableau {
		want := 6
		if col < 4 {
			want = 7
		}
		if len(pile) != want {
			t.Errorf("column %d has %d cards, want %d", col, len(pile), want)
		}
	}
	if state.EmptyFreeCells() != FreeCellCount {
		t.Error("free cells not empty at deal")
	}
	for i, pile := range state.Foundations {
		if len(pile) != 0 {
			t.Errorf("foundation %d not empty at deal", i)
		}
	}
	if state.IsWon() {
		t.Error("fresh deal reports won")
	}
}

func TestShuffleDoesNotMutateInput(t *testing.T) {
	deck := NewDeck()
	orig := append([]Card(nil), deck...)
	Shuffle(deck, 617)
	for i := range deck {
		if deck[i] != orig[i] {
			t.Fatalf("Shuffle mutated input deck at %d", i)
		}
	}
}

func TestClampGameNumber(t *testing.T) {
	tests := []struct {
		in, want uint32
	}{
		{0, 1},
		{1, 1},
		{617, 617},
		{1000000, 1000000},
		{1000001, 1000000},
		{4294967295, 1000000},
	}
	for _, tt := range tests {
		if got := ClampGameNumber(tt.in); got != tt.want {
			t.Errorf("ClampGameNumber(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
