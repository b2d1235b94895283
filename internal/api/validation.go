package api

import (
	"fmt"
	"strings"

	"github.com/joshuamkite/freecell-engine/internal/game"
	"github.com/joshuamkite/freecell-engine/internal/metrics"
	"github.com/joshuamkite/freecell-engine/internal/scan"
)

// ValidateDealRequest validates a deal request
func ValidateDealRequest(req *DealRequest) error {
	if req.GameNumber < game.MinGameNumber || req.GameNumber > game.MaxGameNumber {
		return fmt.Errorf("game_number must be in [%d, %d]", game.MinGameNumber, game.MaxGameNumber)
	}
	return nil
}

// ValidateMoveRequest validates the stateless move request shape. Rule
// legality is not checked here; the engine decides that.
func ValidateMoveRequest(req *MoveRequest) error {
	if req.State == nil {
		return fmt.Errorf("state is required")
	}

	if req.RunStart != nil {
		if req.From.Kind != game.LocTableau || req.To.Kind != game.LocTableau {
			return fmt.Errorf("run moves go from tableau column to tableau column")
		}
		if *req.RunStart < 0 {
			return fmt.Errorf("run_start must be >= 0")
		}
	}

	if !req.From.Valid() {
		return fmt.Errorf("from is not a valid location")
	}
	if !req.To.Valid() {
		return fmt.Errorf("to is not a valid location")
	}

	if req.Card != "" {
		if _, err := game.ParseCard(req.Card); err != nil {
			return err
		}
	}

	return nil
}

// ValidateEvaluateRequest validates a single-deal metric evaluation
func ValidateEvaluateRequest(req *EvaluateRequest) error {
	if req.Metric == "" {
		return fmt.Errorf("metric is required")
	}
	if _, exists := metrics.Get(req.Metric); !exists {
		return fmt.Errorf("metric '%s' not found", req.Metric)
	}
	if req.GameNumber < game.MinGameNumber || req.GameNumber > game.MaxGameNumber {
		return fmt.Errorf("game_number must be in [%d, %d]", game.MinGameNumber, game.MaxGameNumber)
	}
	return nil
}

// ValidateScanRequest validates a scan request and returns any validation errors
func ValidateScanRequest(req *ScanRequest) error {
	// Validate metric
	if req.Metric == "" {
		return fmt.Errorf("metric is required")
	}
	if _, exists := metrics.Get(req.Metric); !exists {
		return fmt.Errorf("metric '%s' not found", req.Metric)
	}

	// Validate number range
	if req.NumberStart < game.MinGameNumber {
		return fmt.Errorf("number_start must be >= %d", game.MinGameNumber)
	}
	if req.NumberEnd > game.MaxGameNumber {
		return fmt.Errorf("number_end must be <= %d", game.MaxGameNumber)
	}
	if req.NumberEnd < req.NumberStart {
		return fmt.Errorf("number_end (%d) must be >= number_start (%d)", req.NumberEnd, req.NumberStart)
	}

	// Validate target operation
	validOps := []string{"eq", "gt", "ge", "lt", "le", "between", "outside"}
	if req.TargetOp == "" {
		return fmt.Errorf("target_op is required")
	}

	validOp := false
	for _, op := range validOps {
		if req.TargetOp == op {
			validOp = true
			break
		}
	}
	if !validOp {
		return fmt.Errorf("target_op must be one of: %s", strings.Join(validOps, ", "))
	}

	// Validate target values for range operations
	if req.TargetOp == "between" || req.TargetOp == "outside" {
		if req.TargetVal > req.TargetVal2 {
			return fmt.Errorf("target_val must be <= target_val2 for '%s' operation", req.TargetOp)
		}
	}

	// Validate limits
	if req.Limit < 0 {
		return fmt.Errorf("limit must be >= 0")
	}
	const maxLimit = 100_000
	if req.Limit > maxLimit {
		return fmt.Errorf("limit too large (max %d)", maxLimit)
	}

	// Validate timeout
	if req.TimeoutMs < 0 {
		return fmt.Errorf("timeout_ms must be >= 0")
	}
	const maxTimeoutMs = 300_000 // 5 minutes
	if req.TimeoutMs > maxTimeoutMs {
		return fmt.Errorf("timeout_ms too large (max %d ms)", maxTimeoutMs)
	}

	// Validate tolerance
	if req.Tolerance < 0 {
		return fmt.Errorf("tolerance must be >= 0")
	}

	return nil
}

// convertToScanRequest converts API ScanRequest to internal scan.ScanRequest
func convertToScanRequest(apiReq *ScanRequest) scan.ScanRequest {
	return scan.ScanRequest{
		Metric:      apiReq.Metric,
		NumberStart: apiReq.NumberStart,
		NumberEnd:   apiReq.NumberEnd,
		Params:      apiReq.Params,
		TargetOp:    scan.TargetOp(apiReq.TargetOp),
		TargetVal:   apiReq.TargetVal,
		TargetVal2:  apiReq.TargetVal2,
		Tolerance:   apiReq.Tolerance,
		Limit:       apiReq.Limit,
		TimeoutMs:   apiReq.TimeoutMs,
	}
}
