package metrics

import (
	"sort"

	"github.com/joshuamkite/freecell-engine/internal/game"
)

// Spec describes a metric for discovery by API clients.
type Spec struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Label string `json:"label"`
}

// Result is the outcome of evaluating one deal.
type Result struct {
	Value   float64 `json:"value"`
	Label   string  `json:"label"`
	Details any     `json:"details,omitempty"`
}

// Metric evaluates some numeric property of an opening layout. Evaluation
// must be pure: the same state and params always produce the same result,
// and the state is never modified.
type Metric interface {
	Spec() Spec
	Evaluate(state *game.GameState, params map[string]any) (Result, error)
}

// registry holds all available metrics, keyed by ID.
var registry = make(map[string]Metric)

// Register adds a metric to the registry.
func Register(m Metric) {
	registry[m.Spec().ID] = m
}

// Get retrieves a metric by ID.
func Get(id string) (Metric, bool) {
	m, exists := registry[id]
	return m, exists
}

// List returns the specs of all registered metrics, sorted by ID.
func List() []Spec {
	specs := make([]Spec, 0, len(registry))
	for _, m := range registry {
		specs = append(specs, m.Spec())
	}
	sort.Slice(specs, func(i, j int) bool { return specs[i].ID < specs[j].ID })
	return specs
}

func init() {
	Register(&BuriedAces{})
	Register(&AutoPromotions{})
	Register(&FreeTops{})
	Register(&LongestRun{})
}
