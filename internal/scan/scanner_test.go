package scan

import (
	"context"
	"math"
	"testing"
)

func TestTargetEvaluatorMatches(t *testing.T) {
	tests := []struct {
		name      string
		op        TargetOp
		val1      float64
		val2      float64
		tolerance float64
		value     float64
		want      bool
	}{
		{"eq exact", OpEqual, 12, 0, 0, 12, true},
		{"eq miss", OpEqual, 12, 0, 0, 12.5, false},
		{"eq within tolerance", OpEqual, 12, 0, 0.6, 12.5, true},
		{"gt above", OpGreater, 10, 0, 0, 11, true},
		{"gt equal", OpGreater, 10, 0, 0, 10, false},
		{"ge equal", OpGreaterEqual, 10, 0, 0, 10, true},
		{"ge below", OpGreaterEqual, 10, 0, 0, 9.9, false},
		{"lt below", OpLess, 10, 0, 0, 9, true},
		{"lt equal", OpLess, 10, 0, 0, 10, false},
		{"le equal", OpLessEqual, 10, 0, 0, 10, true},
		{"le above", OpLessEqual, 10, 0, 0, 10.1, false},
		{"between inside", OpBetween, 5, 15, 0, 10, true},
		{"between edge", OpBetween, 5, 15, 0, 15, true},
		{"between outside", OpBetween, 5, 15, 0, 16, false},
		{"outside below", OpOutside, 5, 15, 0, 4, true},
		{"outside inside", OpOutside, 5, 15, 0, 10, false},
		{"outside above", OpOutside, 5, 15, 0, 16, true},
		{"unknown op", TargetOp("approx"), 5, 0, 0, 5, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			te := NewTargetEvaluator(tt.op, tt.val1, tt.val2, tt.tolerance)
			if got := te.Matches(tt.value); got != tt.want {
				t.Errorf("Matches(%v) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}

func TestScanValidation(t *testing.T) {
	s := NewScanner()
	ctx := context.Background()

	if _, err := s.Scan(ctx, ScanRequest{Metric: "no_such_metric", NumberStart: 1, NumberEnd: 10}); err != ErrMetricNotFound {
		t.Errorf("unknown metric: got %v, want ErrMetricNotFound", err)
	}

	badRanges := []struct {
		name       string
		start, end uint32
	}{
		{"start below minimum", 0, 10},
		{"end above maximum", 1, 1_000_001},
		{"end before start", 100, 50},
	}
	for _, tt := range badRanges {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Scan(ctx, ScanRequest{Metric: "buried_aces", NumberStart: tt.start, NumberEnd: tt.end})
			if err != ErrInvalidRange {
				t.Errorf("got %v, want ErrInvalidRange", err)
			}
		})
	}
}

// Games 1-200 scanned for buried aces. The distribution is fixed by the
// dealing algorithm: min 2 (game 150), max 20 (game 164), sum 2213.
func TestScanBuriedAcesRange(t *testing.T) {
	s := NewScanner()

	result, err := s.Scan(context.Background(), ScanRequest{
		Metric:      "buried_aces",
		NumberStart: 1,
		NumberEnd:   200,
		TargetOp:    OpGreaterEqual,
		TargetVal:   20,
	})
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}

	if result.Summary.TotalEvaluated != 200 {
		t.Errorf("TotalEvaluated = %d, want 200", result.Summary.TotalEvaluated)
	}
	if result.Summary.MinValue != 2 {
		t.Errorf("MinValue = %v, want 2", result.Summary.MinValue)
	}
	if result.Summary.MaxValue != 20 {
		t.Errorf("MaxValue = %v, want 20", result.Summary.MaxValue)
	}
	if want := 2213.0 / 200.0; math.Abs(result.Summary.MeanValue-want) > 1e-9 {
		t.Errorf("MeanValue = %v, want %v", result.Summary.MeanValue, want)
	}
	if result.Summary.TimedOut {
		t.Error("scan reported a timeout with no deadline set")
	}

	if len(result.Hits) != 1 || result.Summary.HitsFound != 1 {
		t.Fatalf("got %d hits (%d reported), want 1", len(result.Hits), result.Summary.HitsFound)
	}
	if result.Hits[0].GameNumber != 164 || result.Hits[0].Value != 20 {
		t.Errorf("hit = game %d value %v, want game 164 value 20", result.Hits[0].GameNumber, result.Hits[0].Value)
	}
}

func TestScanHitsSortedAndLimited(t *testing.T) {
	s := NewScanner()

	// Every deal matches le 52, so the hit list is the whole range.
	req := ScanRequest{
		Metric:      "buried_aces",
		NumberStart: 1,
		NumberEnd:   100,
		TargetOp:    OpLessEqual,
		TargetVal:   52,
	}
	result, err := s.Scan(context.Background(), req)
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if len(result.Hits) != 100 {
		t.Fatalf("got %d hits, want 100", len(result.Hits))
	}
	for i, hit := range result.Hits {
		if hit.GameNumber != uint32(i+1) {
			t.Fatalf("hit %d is game %d, want game %d", i, hit.GameNumber, i+1)
		}
	}

	req.Limit = 10
	limited, err := s.Scan(context.Background(), req)
	if err != nil {
		t.Fatalf("limited Scan failed: %v", err)
	}
	if len(limited.Hits) != 10 || limited.Summary.HitsFound != 10 {
		t.Fatalf("got %d hits (%d reported), want 10", len(limited.Hits), limited.Summary.HitsFound)
	}
	// Limit trims after sorting, so the survivors are the lowest deal numbers.
	if limited.Hits[0].GameNumber != 1 || limited.Hits[9].GameNumber != 10 {
		t.Errorf("limited hits span games %d-%d, want 1-10", limited.Hits[0].GameNumber, limited.Hits[9].GameNumber)
	}
}

func TestScanDeterministic(t *testing.T) {
	s := NewScanner()
	req := ScanRequest{
		Metric:      "buried_aces",
		NumberStart: 1,
		NumberEnd:   200,
		TargetOp:    OpBetween,
		TargetVal:   8,
		TargetVal2:  12,
	}

	first, err := s.Scan(context.Background(), req)
	if err != nil {
		t.Fatalf("first Scan failed: %v", err)
	}
	second, err := s.Scan(context.Background(), req)
	if err != nil {
		t.Fatalf("second Scan failed: %v", err)
	}

	if len(first.Hits) != len(second.Hits) {
		t.Fatalf("hit counts differ: %d vs %d", len(first.Hits), len(second.Hits))
	}
	for i := range first.Hits {
		if first.Hits[i] != second.Hits[i] {
			t.Errorf("hit %d differs: %+v vs %+v", i, first.Hits[i], second.Hits[i])
		}
	}
	if first.Summary != second.Summary {
		t.Errorf("summaries differ: %+v vs %+v", first.Summary, second.Summary)
	}
}

func TestScanEchoesRequest(t *testing.T) {
	s := NewScanner()
	req := ScanRequest{
		Metric:      "free_tops",
		NumberStart: 1,
		NumberEnd:   20,
		TargetOp:    OpGreaterEqual,
		TargetVal:   1,
	}
	result, err := s.Scan(context.Background(), req)
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if result.Echo.Metric != req.Metric || result.Echo.NumberStart != req.NumberStart ||
		result.Echo.NumberEnd != req.NumberEnd || result.Echo.TargetOp != req.TargetOp {
		t.Errorf("echo does not match request: %+v", result.Echo)
	}
}
