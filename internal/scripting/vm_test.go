package scripting

import (
	"strings"
	"testing"

	"github.com/joshuamkite/freecell-engine/internal/game"
)

func TestVMEvaluate(t *testing.T) {
	vm := NewVM()
	if err := vm.Execute(`function evaluate(state) { return state.gameNumber * 2; }`); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	got, err := vm.CallEvaluate(map[string]any{"gameNumber": 21})
	if err != nil {
		t.Fatalf("CallEvaluate failed: %v", err)
	}
	if got != 42 {
		t.Errorf("evaluate returned %v, want 42", got)
	}
}

func TestVMMissingEvaluate(t *testing.T) {
	vm := NewVM()
	if err := vm.Execute(`var x = 1;`); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if _, err := vm.CallEvaluate(nil); err == nil {
		t.Error("expected error for missing evaluate()")
	}
}

func TestVMSandbox(t *testing.T) {
	for _, source := range []string{
		`function evaluate(s) { return require("fs"); }`,
		`function evaluate(s) { return eval("1"); }`,
		`function evaluate(s) { return new Function("return 1")(); }`,
	} {
		vm := NewVM()
		if err := vm.Execute(source); err != nil {
			continue // rejected at parse/run is fine too
		}
		if _, err := vm.CallEvaluate(nil); err == nil {
			t.Errorf("sandboxed global usable: %s", source)
		}
	}
}

func TestVMLogBuffer(t *testing.T) {
	vm := NewVM()
	if err := vm.Execute(`log("hello", 42); console.log("world");`); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	logs := vm.Logs()
	if len(logs) != 2 {
		t.Fatalf("got %d log entries, want 2", len(logs))
	}
	if logs[0].Message != "hello 42" || logs[1].Message != "world" {
		t.Errorf("log messages = %q, %q", logs[0].Message, logs[1].Message)
	}
}

func TestVMTimeout(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping timeout test in short mode")
	}
	vm := NewVM()
	if err := vm.Execute(`function evaluate(s) { while (true) {} }`); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	_, err := vm.CallEvaluate(nil)
	if err == nil || !strings.Contains(err.Error(), "timed out") {
		t.Errorf("runaway script error = %v, want timeout", err)
	}
}

func TestScriptMetric(t *testing.T) {
	m := &ScriptMetric{}

	source := `
function evaluate(state) {
	// Count exposed aces across the tableau.
	var n = 0;
	for (var i = 0; i < state.tableau.length; i++) {
		var col = state.tableau[i];
		if (col.length > 0 && col[col.length-1].rank === 1) n++;
	}
	return n;
}`

	// Game 31465 opens with exactly one exposed ace.
	res, err := m.Evaluate(game.Deal(31465), map[string]any{"source": source})
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if res.Value != 1 {
		t.Errorf("script metric = %v, want 1", res.Value)
	}
}

func TestScriptMetricRequiresSource(t *testing.T) {
	m := &ScriptMetric{}
	if _, err := m.Evaluate(game.Deal(1), nil); err == nil {
		t.Error("expected error for missing source")
	}
	if _, err := m.Evaluate(game.Deal(1), map[string]any{"source": ""}); err == nil {
		t.Error("expected error for empty source")
	}
}
