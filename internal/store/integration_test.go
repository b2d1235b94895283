package store

import (
	"context"
	"encoding/json"
	"os"
	"testing"

	"github.com/joshuamkite/freecell-engine/internal/scan"
)

// Runs a real sweep and persists the results end to end.
func TestIntegrationWithRealDB(t *testing.T) {
	tmpFile := "test_integration.db"
	defer os.Remove(tmpFile)

	db, err := NewSQLiteDB(tmpFile)
	if err != nil {
		t.Fatalf("Failed to create database: %v", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}

	req := scan.ScanRequest{
		Metric:      "buried_aces",
		NumberStart: 1,
		NumberEnd:   200,
		TargetOp:    scan.OpGreaterEqual,
		TargetVal:   17,
	}
	result, err := scan.NewScanner().Scan(context.Background(), req)
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}

	// Eight deals in 1-200 bury 17 or more cards on top of aces
	if len(result.Hits) != 8 {
		t.Fatalf("got %d hits, want 8", len(result.Hits))
	}

	paramsJSON, _ := json.Marshal(req.Params)
	run := &Run{
		Metric:         req.Metric,
		NumberStart:    req.NumberStart,
		NumberEnd:      req.NumberEnd,
		ParamsJSON:     string(paramsJSON),
		TargetOp:       string(req.TargetOp),
		TargetVal:      req.TargetVal,
		Tolerance:      req.Tolerance,
		HitLimit:       req.Limit,
		TimedOut:       result.Summary.TimedOut,
		HitCount:       result.Summary.HitsFound,
		TotalEvaluated: result.Summary.TotalEvaluated,
		SummaryMin:     &result.Summary.MinValue,
		SummaryMax:     &result.Summary.MaxValue,
		SummaryMean:    &result.Summary.MeanValue,
		EngineVersion:  "1.0.0",
	}
	if err := db.SaveRun(run); err != nil {
		t.Fatalf("Failed to save run: %v", err)
	}

	hits := make([]Hit, len(result.Hits))
	for i, h := range result.Hits {
		hits[i] = Hit{RunID: run.ID, GameNumber: h.GameNumber, Value: h.Value}
	}
	if err := db.SaveHits(run.ID, hits); err != nil {
		t.Fatalf("Failed to save hits: %v", err)
	}

	retrievedRun, err := db.GetRun(run.ID)
	if err != nil {
		t.Fatalf("Failed to get run: %v", err)
	}
	if retrievedRun.Metric != "buried_aces" {
		t.Errorf("Metric mismatch: got %s", retrievedRun.Metric)
	}
	if retrievedRun.TotalEvaluated != 200 {
		t.Errorf("TotalEvaluated = %d, want 200", retrievedRun.TotalEvaluated)
	}
	if retrievedRun.SummaryMax == nil || *retrievedRun.SummaryMax != 20 {
		t.Errorf("SummaryMax = %v, want 20", retrievedRun.SummaryMax)
	}

	runsList, err := db.ListRuns(RunsQuery{Page: 1, PerPage: 10})
	if err != nil {
		t.Fatalf("Failed to list runs: %v", err)
	}
	if runsList.TotalCount != 1 {
		t.Errorf("Expected 1 run, got %d", runsList.TotalCount)
	}

	hitsPage, err := db.GetRunHits(run.ID, 1, 10)
	if err != nil {
		t.Fatalf("Failed to get run hits: %v", err)
	}
	if hitsPage.TotalCount != 8 {
		t.Errorf("Expected 8 hits, got %d", hitsPage.TotalCount)
	}

	// Hits come back ordered by deal number with deltas against the
	// previous hit: games 27, 36, 51, ...
	if hitsPage.Hits[0].GameNumber != 27 {
		t.Errorf("first hit is game %d, want 27", hitsPage.Hits[0].GameNumber)
	}
	if hitsPage.Hits[0].DeltaGames != nil {
		t.Error("First hit should have nil delta")
	}
	if hitsPage.Hits[1].DeltaGames == nil {
		t.Error("Second hit should have a delta")
	} else if *hitsPage.Hits[1].DeltaGames != 9 {
		t.Errorf("Expected delta 9, got %d", *hitsPage.Hits[1].DeltaGames)
	}
	if hitsPage.Hits[2].DeltaGames == nil {
		t.Error("Third hit should have a delta")
	} else if *hitsPage.Hits[2].DeltaGames != 15 {
		t.Errorf("Expected delta 15, got %d", *hitsPage.Hits[2].DeltaGames)
	}
}
