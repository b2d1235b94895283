package store

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// SQLiteDB implements the DB interface using SQLite
type SQLiteDB struct {
	db *sql.DB
}

// NewSQLiteDB creates a new SQLite database connection
func NewSQLiteDB(path string) (*SQLiteDB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	return &SQLiteDB{db: db}, nil
}

// Close closes the database connection
func (s *SQLiteDB) Close() error {
	return s.db.Close()
}

// Migrate runs database migrations
func (s *SQLiteDB) Migrate() error {
	// First, create base tables
	baseMigrations := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			metric TEXT NOT NULL,
			number_start INTEGER NOT NULL,
			number_end INTEGER NOT NULL,
			target_op TEXT NOT NULL,
			target_val REAL NOT NULL,
			hit_count INTEGER NOT NULL DEFAULT 0,
			total_evaluated INTEGER NOT NULL DEFAULT 0,
			engine_version TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS hits (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL,
			game_number INTEGER NOT NULL,
			value REAL NOT NULL,
			details TEXT,
			FOREIGN KEY (run_id) REFERENCES runs(id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_hits_run_id ON hits(run_id)`,
		`CREATE INDEX IF NOT EXISTS idx_hits_value ON hits(run_id, value)`,
		`CREATE INDEX IF NOT EXISTS idx_hits_game ON hits(run_id, game_number)`,
	}

	for _, migration := range baseMigrations {
		if _, err := s.db.Exec(migration); err != nil {
			return fmt.Errorf("base migration failed: %w", err)
		}
	}

	// Then, add new columns if they don't exist
	alterMigrations := []string{
		`ALTER TABLE runs ADD COLUMN params_json TEXT DEFAULT '{}'`,
		`ALTER TABLE runs ADD COLUMN target_val2 REAL DEFAULT 0.0`,
		`ALTER TABLE runs ADD COLUMN tolerance REAL DEFAULT 0.0`,
		`ALTER TABLE runs ADD COLUMN hit_limit INTEGER DEFAULT 1000`,
		`ALTER TABLE runs ADD COLUMN timed_out INTEGER DEFAULT 0`,
		`ALTER TABLE runs ADD COLUMN summary_min REAL`,
		`ALTER TABLE runs ADD COLUMN summary_max REAL`,
		`ALTER TABLE runs ADD COLUMN summary_mean REAL`,
	}

	for _, migration := range alterMigrations {
		if _, err := s.db.Exec(migration); err != nil {
			// Duplicate column errors are expected on re-migration
			if !isDuplicateColumnError(err) {
				return fmt.Errorf("alter migration failed: %w", err)
			}
		}
	}

	// Finally, create performance indexes
	indexMigrations := []string{
		`CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_metric ON runs(metric)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_metric_created ON runs(metric, created_at DESC)`,
	}

	for _, migration := range indexMigrations {
		if _, err := s.db.Exec(migration); err != nil {
			return fmt.Errorf("index migration failed: %w", err)
		}
	}

	return nil
}

// isDuplicateColumnError checks if the error is a duplicate column error
func isDuplicateColumnError(err error) bool {
	return strings.Contains(err.Error(), "duplicate column name")
}

// SaveRun saves a scan run to the database
func (s *SQLiteDB) SaveRun(run *Run) error {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}

	query := `INSERT INTO runs (
		id, metric, number_start, number_end, params_json,
		target_op, target_val, target_val2, tolerance, hit_limit, timed_out,
		hit_count, total_evaluated, summary_min, summary_max, summary_mean,
		engine_version
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	timedOutInt := 0
	if run.TimedOut {
		timedOutInt = 1
	}

	_, err := s.db.Exec(query,
		run.ID, run.Metric, run.NumberStart, run.NumberEnd, run.ParamsJSON,
		run.TargetOp, run.TargetVal, run.TargetVal2, run.Tolerance, run.HitLimit, timedOutInt,
		run.HitCount, run.TotalEvaluated, run.SummaryMin, run.SummaryMax, run.SummaryMean,
		run.EngineVersion,
	)

	return err
}

// UpdateRun updates an existing run in the database
func (s *SQLiteDB) UpdateRun(run *Run) error {
	query := `UPDATE runs SET
		metric = ?, number_start = ?, number_end = ?, params_json = ?,
		target_op = ?, target_val = ?, target_val2 = ?, tolerance = ?, hit_limit = ?, timed_out = ?,
		hit_count = ?, total_evaluated = ?, summary_min = ?, summary_max = ?, summary_mean = ?,
		engine_version = ?
		WHERE id = ?`

	timedOutInt := 0
	if run.TimedOut {
		timedOutInt = 1
	}

	_, err := s.db.Exec(query,
		run.Metric, run.NumberStart, run.NumberEnd, run.ParamsJSON,
		run.TargetOp, run.TargetVal, run.TargetVal2, run.Tolerance, run.HitLimit, timedOutInt,
		run.HitCount, run.TotalEvaluated, run.SummaryMin, run.SummaryMax, run.SummaryMean,
		run.EngineVersion, run.ID,
	)

	return err
}

// SaveHits saves multiple hits to the database
func (s *SQLiteDB) SaveHits(runID string, hits []Hit) error {
	if len(hits) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare("INSERT INTO hits (run_id, game_number, value, details) VALUES (?, ?, ?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, hit := range hits {
		if _, err := stmt.Exec(runID, hit.GameNumber, hit.Value, hit.Details); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// scanRun reads a full run row. Column order must match runColumns.
const runColumns = `id, metric, number_start, number_end, params_json,
	target_op, target_val, target_val2, tolerance, hit_limit, timed_out,
	hit_count, total_evaluated, summary_min, summary_max, summary_mean,
	engine_version, created_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRun(row rowScanner) (*Run, error) {
	var run Run
	var timedOutInt int
	var paramsJSON sql.NullString
	var summaryMin, summaryMax, summaryMean sql.NullFloat64

	err := row.Scan(
		&run.ID, &run.Metric, &run.NumberStart, &run.NumberEnd, &paramsJSON,
		&run.TargetOp, &run.TargetVal, &run.TargetVal2, &run.Tolerance, &run.HitLimit, &timedOutInt,
		&run.HitCount, &run.TotalEvaluated, &summaryMin, &summaryMax, &summaryMean,
		&run.EngineVersion, &run.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if paramsJSON.Valid {
		run.ParamsJSON = paramsJSON.String
	} else {
		run.ParamsJSON = "{}"
	}
	if summaryMin.Valid {
		run.SummaryMin = &summaryMin.Float64
	}
	if summaryMax.Valid {
		run.SummaryMax = &summaryMax.Float64
	}
	if summaryMean.Valid {
		run.SummaryMean = &summaryMean.Float64
	}
	run.TimedOut = timedOutInt == 1

	return &run, nil
}

// GetRun retrieves a run by ID
func (s *SQLiteDB) GetRun(id string) (*Run, error) {
	row := s.db.QueryRow(`SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	return scanRun(row)
}

// GetHits retrieves hits for a run with pagination
func (s *SQLiteDB) GetHits(runID string, limit, offset int) ([]Hit, error) {
	query := `SELECT id, run_id, game_number, value, details
		FROM hits WHERE run_id = ?
		ORDER BY game_number LIMIT ? OFFSET ?`

	rows, err := s.db.Query(query, runID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var hits []Hit
	for rows.Next() {
		var hit Hit
		var details sql.NullString

		if err := rows.Scan(&hit.ID, &hit.RunID, &hit.GameNumber, &hit.Value, &details); err != nil {
			return nil, err
		}
		if details.Valid {
			hit.Details = details.String
		}

		hits = append(hits, hit)
	}

	return hits, rows.Err()
}

// ListRuns retrieves runs with pagination and filtering
func (s *SQLiteDB) ListRuns(query RunsQuery) (*RunsList, error) {
	whereClause := ""
	args := []interface{}{}

	if query.Metric != "" {
		whereClause = "WHERE metric = ?"
		args = append(args, query.Metric)
	}

	countQuery := "SELECT COUNT(*) FROM runs " + whereClause
	var totalCount int
	if err := s.db.QueryRow(countQuery, args...).Scan(&totalCount); err != nil {
		return nil, fmt.Errorf("failed to get total count: %w", err)
	}

	if query.PerPage <= 0 {
		query.PerPage = 50 // Default page size
	}
	if query.Page <= 0 {
		query.Page = 1
	}

	totalPages := (totalCount + query.PerPage - 1) / query.PerPage
	offset := (query.Page - 1) * query.PerPage

	mainQuery := `SELECT ` + runColumns + ` FROM runs ` + whereClause + `
		ORDER BY created_at DESC
		LIMIT ? OFFSET ?`

	args = append(args, query.PerPage, offset)

	rows, err := s.db.Query(mainQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, *run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating runs: %w", err)
	}

	return &RunsList{
		Runs:       runs,
		TotalCount: totalCount,
		Page:       query.Page,
		PerPage:    query.PerPage,
		TotalPages: totalPages,
	}, nil
}

// GetRunHits retrieves hits for a run with server-side pagination and
// delta calculation against the previous matching deal number.
func (s *SQLiteDB) GetRunHits(runID string, page, perPage int) (*HitsPage, error) {
	var totalCount int
	err := s.db.QueryRow("SELECT COUNT(*) FROM hits WHERE run_id = ?", runID).Scan(&totalCount)
	if err != nil {
		return nil, fmt.Errorf("failed to get hits count: %w", err)
	}

	if perPage <= 0 {
		perPage = 100 // Default page size
	}
	if page <= 0 {
		page = 1
	}

	totalPages := (totalCount + perPage - 1) / perPage
	offset := (page - 1) * perPage

	query := `SELECT id, run_id, game_number, value, details
		FROM hits WHERE run_id = ?
		ORDER BY game_number
		LIMIT ? OFFSET ?`

	rows, err := s.db.Query(query, runID, perPage, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query hits: %w", err)
	}
	defer rows.Close()

	var hits []Hit
	for rows.Next() {
		var hit Hit
		var details sql.NullString

		if err := rows.Scan(&hit.ID, &hit.RunID, &hit.GameNumber, &hit.Value, &details); err != nil {
			return nil, fmt.Errorf("failed to scan hit: %w", err)
		}
		if details.Valid {
			hit.Details = details.String
		}

		hits = append(hits, hit)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating hits: %w", err)
	}

	hitsWithDelta := make([]HitWithDelta, len(hits))
	for i, hit := range hits {
		hitsWithDelta[i] = HitWithDelta{Hit: hit}

		if i > 0 {
			delta := hit.GameNumber - hits[i-1].GameNumber
			hitsWithDelta[i].DeltaGames = &delta
		} else if page > 1 {
			// For the first hit on a non-first page, look back at the
			// last hit of the previous page.
			prevHitQuery := `SELECT game_number FROM hits WHERE run_id = ? AND game_number < ? ORDER BY game_number DESC LIMIT 1`
			var prevGame uint32
			if err := s.db.QueryRow(prevHitQuery, runID, hit.GameNumber).Scan(&prevGame); err == nil {
				delta := hit.GameNumber - prevGame
				hitsWithDelta[i].DeltaGames = &delta
			}
			// No previous hit leaves the delta nil
		}
		// First hit on the first page has no delta
	}

	return &HitsPage{
		Hits:       hitsWithDelta,
		TotalCount: totalCount,
		Page:       page,
		PerPage:    perPage,
		TotalPages: totalPages,
	}, nil
}
