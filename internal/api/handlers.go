package api

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/joshuamkite/freecell-engine/internal/game"
	"github.com/joshuamkite/freecell-engine/internal/metrics"
	"github.com/joshuamkite/freecell-engine/internal/scan"
	"github.com/joshuamkite/freecell-engine/internal/store"
)

// handleDeal returns the deterministic opening layout for a game number
func (s *Server) handleDeal(w http.ResponseWriter, r *http.Request) {
	var req DealRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, ErrTypeValidation, "Invalid JSON format", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}

	if err := ValidateDealRequest(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, ErrTypeInvalidGameNumber, err.Error(), map[string]interface{}{
			"game_number": req.GameNumber,
		})
		return
	}

	state := game.Deal(req.GameNumber)

	s.logger.Printf("deal_request game_number=%d", req.GameNumber)

	s.writeJSON(w, http.StatusOK, DealResponse{
		GameNumber:    req.GameNumber,
		State:         state,
		EngineVersion: EngineVersion,
	})
}

// handleMove applies a stateless move to a caller-supplied state. The
// response always carries a state; Moved tells whether anything changed.
func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	var req MoveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, ErrTypeValidation, "Invalid JSON format", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}

	if err := ValidateMoveRequest(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, ErrTypeValidation, err.Error(), nil)
		return
	}

	var next *game.GameState
	if req.RunStart != nil {
		next = req.State.TryMoveRun(req.From.Index, *req.RunStart, req.To.Index)
	} else {
		card, err := s.resolveCard(req.State, req.Card, req.From)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, ErrTypeInvalidCard, err.Error(), nil)
			return
		}
		next = req.State.TryMove(card, req.From, req.To)
	}

	moved := next != req.State

	var autoMoves []game.Move
	if moved {
		next, autoMoves = game.AutoPlay(next)
	}

	s.logger.Printf(
		"move_request game_number=%d moved=%t auto_moves=%d",
		req.State.GameNumber, moved, len(autoMoves),
	)

	s.writeJSON(w, http.StatusOK, MoveResponse{
		State:         next,
		Moved:         moved,
		AutoMoves:     autoMoves,
		EngineVersion: EngineVersion,
	})
}

// handleAutoplay runs the safe-move sweep on a caller-supplied state
func (s *Server) handleAutoplay(w http.ResponseWriter, r *http.Request) {
	var req AutoplayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, ErrTypeValidation, "Invalid JSON format", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}
	if req.State == nil {
		s.writeError(w, http.StatusBadRequest, ErrTypeValidation, "state is required", nil)
		return
	}

	final, moves := game.AutoPlay(req.State)

	s.logger.Printf(
		"autoplay_request game_number=%d promoted=%d",
		req.State.GameNumber, len(moves),
	)

	s.writeJSON(w, http.StatusOK, AutoplayResponse{
		State:         final,
		Moves:         moves,
		EngineVersion: EngineVersion,
	})
}

// handleEvaluate evaluates one metric against one deal
func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	var req EvaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, ErrTypeValidation, "Invalid JSON format", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}

	if err := ValidateEvaluateRequest(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, ErrTypeValidation, err.Error(), map[string]interface{}{
			"field_errors": err.Error(),
		})
		return
	}

	metric, _ := metrics.Get(req.Metric)

	s.logger.Printf("evaluate_request metric=%s game_number=%d", req.Metric, req.GameNumber)

	result, err := metric.Evaluate(game.Deal(req.GameNumber), req.Params)
	if err != nil {
		s.errorHandler.HandleMetricError(w, r, req.Metric, req.GameNumber, err)
		return
	}

	s.logger.Printf(
		"evaluate_completed metric=%s game_number=%d value=%f label=%s",
		req.Metric, req.GameNumber, result.Value, result.Label,
	)

	s.writeJSON(w, http.StatusOK, EvaluateResponse{
		GameNumber:    req.GameNumber,
		Metric:        req.Metric,
		Result:        result,
		EngineVersion: EngineVersion,
		Echo:          req,
	})
}

// handleListMetrics returns the registered deal metrics
func (s *Server) handleListMetrics(w http.ResponseWriter, r *http.Request) {
	specs := metrics.List()

	s.logger.Printf("metrics_request total_metrics=%d", len(specs))

	s.writeJSON(w, http.StatusOK, MetricsListResponse{
		Metrics:       specs,
		EngineVersion: EngineVersion,
	})
}

// handleScan sweeps a deal-number range, persists the run, and returns hits
func (s *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	var req ScanRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, ErrTypeValidation, "Invalid JSON format", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}

	if err := ValidateScanRequest(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, ErrTypeValidation, err.Error(), map[string]interface{}{
			"field_errors": err.Error(),
		})
		return
	}

	// Set default timeout if not specified
	if req.TimeoutMs == 0 {
		req.TimeoutMs = 60000 // 60 seconds default
	}

	scanReq := convertToScanRequest(&req)

	requestID := middleware.GetReqID(r.Context())
	s.securityLogger.LogScanOperation(
		requestID, req.Metric, req.NumberStart, req.NumberEnd,
		req.Params, req.TargetOp, req.TargetVal, req.Limit, req.TimeoutMs,
	)

	start := time.Now()
	result, err := s.scanner.Scan(r.Context(), scanReq)
	if err != nil {
		errType := ErrTypeInternal
		status := http.StatusInternalServerError

		switch err {
		case scan.ErrMetricNotFound:
			errType = ErrTypeMetricNotFound
			status = http.StatusBadRequest
		case scan.ErrInvalidRange:
			errType = ErrTypeInvalidGameNumber
			status = http.StatusBadRequest
		}

		s.writeError(w, status, errType, err.Error(), map[string]interface{}{
			"metric":       req.Metric,
			"number_range": fmt.Sprintf("%d-%d", req.NumberStart, req.NumberEnd),
		})
		return
	}

	runID := s.persistScan(requestID, &req, result)

	s.securityLogger.LogPerformanceMetrics(
		requestID, "scan", time.Since(start),
		result.Summary.TotalEvaluated, 0, true,
	)

	s.logger.Printf(
		"scan_completed metric=%s hits_found=%d total_evaluated=%d timed_out=%t run_id=%s",
		req.Metric, result.Summary.HitsFound, result.Summary.TotalEvaluated, result.Summary.TimedOut, runID,
	)

	s.writeJSON(w, http.StatusOK, ScanResponse{
		RunID:         runID,
		Hits:          result.Hits,
		Summary:       result.Summary,
		EngineVersion: EngineVersion,
		Echo:          req,
	})
}

// persistScan records a completed sweep. Persistence failures are logged
// but never fail the request; the scan result is already in hand.
func (s *Server) persistScan(requestID string, req *ScanRequest, result *scan.ScanResult) string {
	if s.db == nil {
		return ""
	}

	paramsJSON, err := json.Marshal(req.Params)
	if err != nil {
		paramsJSON = []byte("{}")
	}

	run := &store.Run{
		Metric:         req.Metric,
		NumberStart:    req.NumberStart,
		NumberEnd:      req.NumberEnd,
		ParamsJSON:     string(paramsJSON),
		TargetOp:       req.TargetOp,
		TargetVal:      req.TargetVal,
		TargetVal2:     req.TargetVal2,
		Tolerance:      req.Tolerance,
		HitLimit:       req.Limit,
		TimedOut:       result.Summary.TimedOut,
		HitCount:       result.Summary.HitsFound,
		TotalEvaluated: result.Summary.TotalEvaluated,
		EngineVersion:  EngineVersion,
	}
	if result.Summary.TotalEvaluated > 0 {
		minVal, maxVal, meanVal := result.Summary.MinValue, result.Summary.MaxValue, result.Summary.MeanValue
		run.SummaryMin = &minVal
		run.SummaryMax = &maxVal
		run.SummaryMean = &meanVal
	}

	if err := s.db.SaveRun(run); err != nil {
		s.logger.Printf("scan_persist_failed request_id=%s error=%q", requestID, err.Error())
		return ""
	}

	hits := make([]store.Hit, len(result.Hits))
	for i, h := range result.Hits {
		hits[i] = store.Hit{RunID: run.ID, GameNumber: h.GameNumber, Value: h.Value}
	}
	if err := s.db.SaveHits(run.ID, hits); err != nil {
		s.logger.Printf("scan_hits_persist_failed request_id=%s run_id=%s error=%q", requestID, run.ID, err.Error())
	}

	return run.ID
}

// requireDB guards the run-history endpoints when no database is wired
func (s *Server) requireDB(w http.ResponseWriter) bool {
	if s.db == nil {
		s.writeError(w, http.StatusServiceUnavailable, ErrTypeServiceUnavailable, "run history is not available without a database", nil)
		return false
	}
	return true
}

// handleListRuns returns recorded scan runs with pagination
func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	if !s.requireDB(w) {
		return
	}

	query := store.RunsQuery{
		Metric:  r.URL.Query().Get("metric"),
		Page:    queryInt(r, "page", 1),
		PerPage: queryInt(r, "per_page", 50),
	}

	list, err := s.db.ListRuns(query)
	if err != nil {
		s.errorHandler.HandleError(w, r, err, http.StatusInternalServerError)
		return
	}

	s.writeJSON(w, http.StatusOK, list)
}

// handleGetRun returns one recorded run
func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	if !s.requireDB(w) {
		return
	}

	id := chi.URLParam(r, "id")

	run, err := s.db.GetRun(id)
	if err != nil {
		if err == sql.ErrNoRows {
			s.writeError(w, http.StatusNotFound, ErrTypeValidation, "run not found", map[string]interface{}{
				"run_id": id,
			})
			return
		}
		s.errorHandler.HandleError(w, r, err, http.StatusInternalServerError)
		return
	}

	s.writeJSON(w, http.StatusOK, run)
}

// handleGetRunHits returns a run's hits with pagination and deltas
func (s *Server) handleGetRunHits(w http.ResponseWriter, r *http.Request) {
	if !s.requireDB(w) {
		return
	}

	id := chi.URLParam(r, "id")

	page, err := s.db.GetRunHits(id, queryInt(r, "page", 1), queryInt(r, "per_page", 100))
	if err != nil {
		s.errorHandler.HandleError(w, r, err, http.StatusInternalServerError)
		return
	}

	s.writeJSON(w, http.StatusOK, page)
}

// queryInt parses an integer query parameter with a default
func queryInt(r *http.Request, key string, def int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}

// topOfPile returns the top card of the addressed pile, or an error when
// the pile is empty.
func topOfPile(state *game.GameState, loc game.Location) (game.Card, error) {
	switch loc.Kind {
	case game.LocTableau:
		pile := state.Tableau[loc.Index]
		if len(pile) == 0 {
			return game.Card{}, fmt.Errorf("column %d is empty", loc.Index)
		}
		return pile[len(pile)-1], nil
	case game.LocFreeCell:
		c := state.FreeCells[loc.Index]
		if c.IsEmpty() {
			return game.Card{}, fmt.Errorf("free cell %d is empty", loc.Index)
		}
		return c, nil
	case game.LocFoundation:
		pile := state.Foundations[loc.Index]
		if len(pile) == 0 {
			return game.Card{}, fmt.Errorf("foundation %d is empty", loc.Index)
		}
		return pile[len(pile)-1], nil
	}
	return game.Card{}, fmt.Errorf("invalid location kind %q", loc.Kind)
}
