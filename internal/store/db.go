package store

import (
	"time"
)

// DB represents the database interface
type DB interface {
	Close() error
	Migrate() error
	SaveRun(run *Run) error
	UpdateRun(run *Run) error
	SaveHits(runID string, hits []Hit) error
	GetRun(id string) (*Run, error)
	GetHits(runID string, limit, offset int) ([]Hit, error)
	ListRuns(query RunsQuery) (*RunsList, error)
	GetRunHits(runID string, page, perPage int) (*HitsPage, error)
}

// RunsQuery represents query parameters for listing runs
type RunsQuery struct {
	Metric  string `json:"metric,omitempty"`
	Page    int    `json:"page"`
	PerPage int    `json:"perPage"`
}

// RunsList represents paginated runs response
type RunsList struct {
	Runs       []Run `json:"runs"`
	TotalCount int   `json:"totalCount"`
	Page       int   `json:"page"`
	PerPage    int   `json:"perPage"`
	TotalPages int   `json:"totalPages"`
}

// HitsPage represents paginated hits response with delta calculation
type HitsPage struct {
	Hits       []HitWithDelta `json:"hits"`
	TotalCount int            `json:"totalCount"`
	Page       int            `json:"page"`
	PerPage    int            `json:"perPage"`
	TotalPages int            `json:"totalPages"`
}

// Run represents a recorded deal-number scan
type Run struct {
	ID             string    `json:"id" db:"id"`
	Metric         string    `json:"metric" db:"metric"`
	NumberStart    uint32    `json:"number_start" db:"number_start"`
	NumberEnd      uint32    `json:"number_end" db:"number_end"`
	ParamsJSON     string    `json:"params_json" db:"params_json"`
	TargetOp       string    `json:"target_op" db:"target_op"`
	TargetVal      float64   `json:"target_val" db:"target_val"`
	TargetVal2     float64   `json:"target_val2" db:"target_val2"`
	Tolerance      float64   `json:"tolerance" db:"tolerance"`
	HitLimit       int       `json:"hit_limit" db:"hit_limit"`
	TimedOut       bool      `json:"timed_out" db:"timed_out"`
	HitCount       int       `json:"hit_count" db:"hit_count"`
	TotalEvaluated uint64    `json:"total_evaluated" db:"total_evaluated"`
	SummaryMin     *float64  `json:"summary_min" db:"summary_min"`
	SummaryMax     *float64  `json:"summary_max" db:"summary_max"`
	SummaryMean    *float64  `json:"summary_mean" db:"summary_mean"`
	EngineVersion  string    `json:"engine_version" db:"engine_version"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

// Hit represents a single matching deal
type Hit struct {
	ID         int64   `json:"id" db:"id"`
	RunID      string  `json:"run_id" db:"run_id"`
	GameNumber uint32  `json:"game_number" db:"game_number"`
	Value      float64 `json:"value" db:"value"`
	Details    string  `json:"details" db:"details"` // JSON string
}

// HitWithDelta represents a hit with the distance to the previous
// matching deal number, useful for spotting clusters in a sweep.
type HitWithDelta struct {
	Hit
	DeltaGames *uint32 `json:"delta_games,omitempty"`
}
