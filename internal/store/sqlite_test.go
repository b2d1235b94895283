package store

import (
	"testing"
)

func newTestDB(t *testing.T) *SQLiteDB {
	t.Helper()

	db, err := NewSQLiteDB(":memory:")
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.Migrate(); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}

	return db
}

func TestListRuns(t *testing.T) {
	db := newTestDB(t)

	runs := []*Run{
		{
			ID:             "run1",
			Metric:         "buried_aces",
			NumberStart:    1,
			NumberEnd:      1000,
			TargetOp:       "ge",
			TargetVal:      15.0,
			HitCount:       5,
			TotalEvaluated: 1000,
			EngineVersion:  "1.0.0",
		},
		{
			ID:             "run2",
			Metric:         "auto_promotions",
			NumberStart:    1,
			NumberEnd:      500,
			TargetOp:       "ge",
			TargetVal:      2.0,
			HitCount:       10,
			TotalEvaluated: 500,
			EngineVersion:  "1.0.0",
		},
		{
			ID:             "run3",
			Metric:         "buried_aces",
			NumberStart:    1,
			NumberEnd:      2000,
			TargetOp:       "le",
			TargetVal:      4.0,
			HitCount:       20,
			TotalEvaluated: 2000,
			EngineVersion:  "1.0.0",
		},
	}

	for _, run := range runs {
		if err := db.SaveRun(run); err != nil {
			t.Fatalf("Failed to save run %s: %v", run.ID, err)
		}
	}

	// List all runs
	result, err := db.ListRuns(RunsQuery{Page: 1, PerPage: 10})
	if err != nil {
		t.Fatalf("Failed to list runs: %v", err)
	}

	if result.TotalCount != 3 {
		t.Errorf("Expected 3 total runs, got %d", result.TotalCount)
	}

	if len(result.Runs) != 3 {
		t.Errorf("Expected 3 runs in result, got %d", len(result.Runs))
	}

	// Filter by metric
	result, err = db.ListRuns(RunsQuery{Metric: "buried_aces", Page: 1, PerPage: 10})
	if err != nil {
		t.Fatalf("Failed to list buried_aces runs: %v", err)
	}

	if result.TotalCount != 2 {
		t.Errorf("Expected 2 buried_aces runs, got %d", result.TotalCount)
	}

	if len(result.Runs) != 2 {
		t.Errorf("Expected 2 buried_aces runs in result, got %d", len(result.Runs))
	}

	// Pagination
	result, err = db.ListRuns(RunsQuery{Page: 1, PerPage: 2})
	if err != nil {
		t.Fatalf("Failed to list runs with pagination: %v", err)
	}

	if len(result.Runs) != 2 {
		t.Errorf("Expected 2 runs per page, got %d", len(result.Runs))
	}

	if result.TotalPages != 2 {
		t.Errorf("Expected 2 total pages, got %d", result.TotalPages)
	}
}

func TestSaveAndGetRun(t *testing.T) {
	db := newTestDB(t)

	minVal, maxVal, meanVal := 2.0, 20.0, 11.065
	run := &Run{
		Metric:         "buried_aces",
		NumberStart:    1,
		NumberEnd:      200,
		ParamsJSON:     `{}`,
		TargetOp:       "ge",
		TargetVal:      20.0,
		Tolerance:      0,
		HitLimit:       1000,
		HitCount:       1,
		TotalEvaluated: 200,
		SummaryMin:     &minVal,
		SummaryMax:     &maxVal,
		SummaryMean:    &meanVal,
		EngineVersion:  "1.0.0",
	}

	if err := db.SaveRun(run); err != nil {
		t.Fatalf("Failed to save run: %v", err)
	}
	// SaveRun assigns an ID when none is set
	if run.ID == "" {
		t.Fatal("SaveRun did not assign an ID")
	}

	retrieved, err := db.GetRun(run.ID)
	if err != nil {
		t.Fatalf("Failed to get run: %v", err)
	}

	if retrieved.Metric != "buried_aces" {
		t.Errorf("Metric = %q, want buried_aces", retrieved.Metric)
	}
	if retrieved.NumberStart != 1 || retrieved.NumberEnd != 200 {
		t.Errorf("range = [%d, %d], want [1, 200]", retrieved.NumberStart, retrieved.NumberEnd)
	}
	if retrieved.SummaryMin == nil || *retrieved.SummaryMin != 2.0 {
		t.Errorf("SummaryMin = %v, want 2.0", retrieved.SummaryMin)
	}
	if retrieved.SummaryMax == nil || *retrieved.SummaryMax != 20.0 {
		t.Errorf("SummaryMax = %v, want 20.0", retrieved.SummaryMax)
	}
	if retrieved.SummaryMean == nil || *retrieved.SummaryMean != 11.065 {
		t.Errorf("SummaryMean = %v, want 11.065", retrieved.SummaryMean)
	}
	if retrieved.TimedOut {
		t.Error("TimedOut should be false")
	}
}

func TestUpdateRun(t *testing.T) {
	db := newTestDB(t)

	run := &Run{
		ID:            "update-me",
		Metric:        "longest_run",
		NumberStart:   1,
		NumberEnd:     100,
		TargetOp:      "ge",
		TargetVal:     4,
		EngineVersion: "1.0.0",
	}
	if err := db.SaveRun(run); err != nil {
		t.Fatalf("Failed to save run: %v", err)
	}

	run.HitCount = 7
	run.TotalEvaluated = 100
	run.TimedOut = true
	if err := db.UpdateRun(run); err != nil {
		t.Fatalf("Failed to update run: %v", err)
	}

	retrieved, err := db.GetRun("update-me")
	if err != nil {
		t.Fatalf("Failed to get run: %v", err)
	}
	if retrieved.HitCount != 7 {
		t.Errorf("HitCount = %d, want 7", retrieved.HitCount)
	}
	if retrieved.TotalEvaluated != 100 {
		t.Errorf("TotalEvaluated = %d, want 100", retrieved.TotalEvaluated)
	}
	if !retrieved.TimedOut {
		t.Error("TimedOut should be true after update")
	}
}

func TestGetRunHits(t *testing.T) {
	db := newTestDB(t)

	run := &Run{
		ID:             "test-run",
		Metric:         "buried_aces",
		NumberStart:    1,
		NumberEnd:      1000,
		TargetOp:       "ge",
		TargetVal:      15.0,
		HitCount:       5,
		TotalEvaluated: 1000,
		EngineVersion:  "1.0.0",
	}

	if err := db.SaveRun(run); err != nil {
		t.Fatalf("Failed to save run: %v", err)
	}

	hits := []Hit{
		{RunID: "test-run", GameNumber: 100, Value: 15, Details: `{"per_ace": [7, 5, 3, 0]}`},
		{RunID: "test-run", GameNumber: 250, Value: 16, Details: `{"per_ace": [6, 6, 4, 0]}`},
		{RunID: "test-run", GameNumber: 500, Value: 18, Details: `{"per_ace": [6, 6, 4, 2]}`},
		{RunID: "test-run", GameNumber: 750, Value: 15, Details: `{"per_ace": [7, 4, 4, 0]}`},
		{RunID: "test-run", GameNumber: 900, Value: 17, Details: `{"per_ace": [6, 6, 5, 0]}`},
	}

	if err := db.SaveHits("test-run", hits); err != nil {
		t.Fatalf("Failed to save hits: %v", err)
	}

	result, err := db.GetRunHits("test-run", 1, 3)
	if err != nil {
		t.Fatalf("Failed to get run hits: %v", err)
	}

	if result.TotalCount != 5 {
		t.Errorf("Expected 5 total hits, got %d", result.TotalCount)
	}

	if len(result.Hits) != 3 {
		t.Errorf("Expected 3 hits in first page, got %d", len(result.Hits))
	}

	if result.TotalPages != 2 {
		t.Errorf("Expected 2 total pages, got %d", result.TotalPages)
	}

	// Delta calculation against the previous matching deal
	if result.Hits[0].DeltaGames != nil {
		t.Errorf("First hit should have nil delta, got %v", *result.Hits[0].DeltaGames)
	}

	if result.Hits[1].DeltaGames == nil {
		t.Error("Second hit should have a delta")
	} else if *result.Hits[1].DeltaGames != 150 {
		t.Errorf("Expected delta 150, got %d", *result.Hits[1].DeltaGames)
	}

	if result.Hits[2].DeltaGames == nil {
		t.Error("Third hit should have a delta")
	} else if *result.Hits[2].DeltaGames != 250 {
		t.Errorf("Expected delta 250, got %d", *result.Hits[2].DeltaGames)
	}

	// Second page
	result, err = db.GetRunHits("test-run", 2, 3)
	if err != nil {
		t.Fatalf("Failed to get run hits page 2: %v", err)
	}

	if len(result.Hits) != 2 {
		t.Errorf("Expected 2 hits in second page, got %d", len(result.Hits))
	}

	// First hit on second page carries the delta from the last hit on page 1
	if result.Hits[0].DeltaGames == nil {
		t.Error("First hit on second page should have a delta")
	} else if *result.Hits[0].DeltaGames != 250 {
		t.Errorf("Expected delta 250 for first hit on page 2, got %d", *result.Hits[0].DeltaGames)
	}
}

func TestGetHits(t *testing.T) {
	db := newTestDB(t)

	run := &Run{ID: "plain", Metric: "free_tops", NumberStart: 1, NumberEnd: 10, TargetOp: "ge", TargetVal: 3, EngineVersion: "1.0.0"}
	if err := db.SaveRun(run); err != nil {
		t.Fatalf("Failed to save run: %v", err)
	}

	hits := []Hit{
		{RunID: "plain", GameNumber: 3, Value: 3},
		{RunID: "plain", GameNumber: 7, Value: 4},
		{RunID: "plain", GameNumber: 9, Value: 3},
	}
	if err := db.SaveHits("plain", hits); err != nil {
		t.Fatalf("Failed to save hits: %v", err)
	}

	got, err := db.GetHits("plain", 2, 1)
	if err != nil {
		t.Fatalf("Failed to get hits: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Expected 2 hits, got %d", len(got))
	}
	if got[0].GameNumber != 7 || got[1].GameNumber != 9 {
		t.Errorf("offset paging returned games %d, %d; want 7, 9", got[0].GameNumber, got[1].GameNumber)
	}
}

func TestSaveHitsEmpty(t *testing.T) {
	db := newTestDB(t)

	if err := db.SaveHits("whatever", nil); err != nil {
		t.Errorf("SaveHits with no hits should be a no-op, got %v", err)
	}
}
