package main

import (
	"flag"
	"fmt"
	"log"
	"strconv"

	"github.com/joshuamkite/freecell-engine/internal/game"
	"github.com/joshuamkite/freecell-engine/internal/metrics"
)

func main() {
	showMetrics := flag.Bool("metrics", false, "evaluate all registered metrics against the deal")
	flag.Parse()

	if flag.NArg() != 1 {
		log.Fatal("usage: deal [-metrics] <game-number>")
	}
	n, err := strconv.ParseUint(flag.Arg(0), 10, 32)
	if err != nil || n < uint64(game.MinGameNumber) || n > uint64(game.MaxGameNumber) {
		log.Fatalf("game number must be in [%d, %d]", game.MinGameNumber, game.MaxGameNumber)
	}

	state := game.Deal(uint32(n))
	fmt.Printf("Game #%d\n\n", n)
	printTableau(state)

	if *showMetrics {
		fmt.Println()
		for _, spec := range metrics.List() {
			m, _ := metrics.Get(spec.ID)
			result, err := m.Evaluate(state, nil)
			if err != nil {
				fmt.Printf("%-16s error: %v\n", spec.ID, err)
				continue
			}
			fmt.Printf("%-16s %g\n", spec.ID, result.Value)
		}
	}
}

// printTableau renders the opening layout row by row, the way deal
// listings are conventionally published.
func printTableau(state *game.GameState) {
	rows := 0
	for _, col := range state.Tableau {
		if len(col) > rows {
			rows = len(col)
		}
	}
	for row := 0; row < rows; row++ {
		for col := 0; col < game.TableauColumns; col++ {
			if row < len(state.Tableau[col]) {
				fmt.Printf("%3s", state.Tableau[col][row])
			} else {
				fmt.Printf("   ")
			}
		}
		fmt.Println()
	}
}
