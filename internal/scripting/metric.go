package scripting

import (
	"encoding/json"
	"fmt"

	"github.com/joshuamkite/freecell-engine/internal/game"
	"github.com/joshuamkite/freecell-engine/internal/metrics"
)

// ScriptMetric evaluates a user-provided JavaScript metric over opening
// layouts. The script source comes in via params["source"] and must define
// evaluate(state) returning a number. The state argument mirrors the
// GameState JSON shape: tableau, freeCells, foundations, gameNumber, with
// cards as {rank, suit} objects (ace=1..king=13; clubs=0..spades=3).
//
// Each evaluation runs in a fresh sandboxed VM, so the metric is safe to
// call from parallel scan workers.
type ScriptMetric struct{}

func (m *ScriptMetric) Spec() metrics.Spec {
	return metrics.Spec{ID: "script", Name: "Scripted Metric", Label: "script_value"}
}

func (m *ScriptMetric) Evaluate(state *game.GameState, params map[string]any) (metrics.Result, error) {
	source, ok := params["source"].(string)
	if !ok || source == "" {
		return metrics.Result{}, fmt.Errorf("script metric requires a non-empty params.source string")
	}

	jsState, err := toScriptValue(state)
	if err != nil {
		return metrics.Result{}, err
	}

	vm := NewVM()
	if err := vm.Execute(source); err != nil {
		return metrics.Result{}, err
	}
	value, err := vm.CallEvaluate(jsState)
	if err != nil {
		return metrics.Result{}, err
	}
	return metrics.Result{Value: value, Label: "script_value"}, nil
}

// toScriptValue converts a state into plain maps and slices via its JSON
// form, so scripts see the documented wire shape rather than Go types.
func toScriptValue(state *game.GameState) (any, error) {
	raw, err := json.Marshal(state)
	if err != nil {
		return nil, fmt.Errorf("failed to encode state for script: %w", err)
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("failed to decode state for script: %w", err)
	}
	return out, nil
}

func init() {
	metrics.Register(&ScriptMetric{})
}
