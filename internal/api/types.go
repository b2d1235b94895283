package api

import (
	"github.com/joshuamkite/freecell-engine/internal/game"
	"github.com/joshuamkite/freecell-engine/internal/metrics"
	"github.com/joshuamkite/freecell-engine/internal/scan"
)

// EngineError represents a structured error response with context
type EngineError struct {
	Type      string                 `json:"type"`
	Message   string                 `json:"message"`
	Context   map[string]interface{} `json:"context,omitempty"`
	RequestID string                 `json:"request_id,omitempty"`
	Timestamp string                 `json:"timestamp,omitempty"`
}

// Error implements the error interface
func (e EngineError) Error() string {
	return e.Message
}

// Error types with proper categorization
const (
	// Input validation errors
	ErrTypeInvalidCard       = "invalid_card"
	ErrTypeInvalidGameNumber = "invalid_game_number"
	ErrTypeInvalidParams     = "invalid_params"
	ErrTypeValidation        = "validation_error"

	// Deal and metric errors
	ErrTypeMetricNotFound   = "metric_not_found"
	ErrTypeMetricEvaluation = "metric_evaluation_error"
	ErrTypeSessionNotFound  = "session_not_found"

	// System errors
	ErrTypeTimeout            = "timeout"
	ErrTypeInternal           = "internal_error"
	ErrTypeRateLimit          = "rate_limit_exceeded"
	ErrTypeServiceUnavailable = "service_unavailable"
)

// ErrorCategory represents error categories for monitoring
type ErrorCategory string

const (
	CategoryValidation ErrorCategory = "validation"
	CategoryMetric     ErrorCategory = "metric"
	CategorySession    ErrorCategory = "session"
	CategorySystem     ErrorCategory = "system"
	CategoryTimeout    ErrorCategory = "timeout"
)

// GetErrorCategory returns the category for an error type
func GetErrorCategory(errType string) ErrorCategory {
	switch errType {
	case ErrTypeInvalidCard, ErrTypeInvalidGameNumber, ErrTypeInvalidParams, ErrTypeValidation:
		return CategoryValidation
	case ErrTypeMetricNotFound, ErrTypeMetricEvaluation:
		return CategoryMetric
	case ErrTypeSessionNotFound:
		return CategorySession
	case ErrTypeTimeout:
		return CategoryTimeout
	default:
		return CategorySystem
	}
}

// VersionInfo contains engine version information
type VersionInfo struct {
	EngineVersion string `json:"engine_version"`
	GitCommit     string `json:"git_commit,omitempty"`
	BuildTime     string `json:"build_time,omitempty"`
}

// DealRequest asks for the opening layout of a numbered game
type DealRequest struct {
	GameNumber uint32 `json:"game_number"`
}

// DealResponse carries the deterministic opening layout
type DealResponse struct {
	GameNumber    uint32          `json:"game_number"`
	State         *game.GameState `json:"state"`
	EngineVersion string          `json:"engine_version"`
}

// MoveRequest is a stateless move attempt against a caller-supplied state.
// Card identifies the card in compact form ("AS", "TD"); when empty, the
// top card of the source pile is used. RunStart switches the request to a
// supermove: move Tableau[From.Index][RunStart:] onto column To.Index.
type MoveRequest struct {
	State    *game.GameState `json:"state"`
	Card     string          `json:"card,omitempty"`
	From     game.Location   `json:"from"`
	To       game.Location   `json:"to"`
	RunStart *int            `json:"run_start,omitempty"`
}

// MoveResponse returns the resulting state. Moved is false when the rules
// rejected the move, in which case State echoes the input unchanged.
type MoveResponse struct {
	State         *game.GameState `json:"state"`
	Moved         bool            `json:"moved"`
	AutoMoves     []game.Move     `json:"auto_moves,omitempty"`
	EngineVersion string          `json:"engine_version"`
}

// AutoplayRequest runs the safe-move sweep on a caller-supplied state
type AutoplayRequest struct {
	State *game.GameState `json:"state"`
}

// AutoplayResponse returns the quiescent state and the promotions applied
type AutoplayResponse struct {
	State         *game.GameState `json:"state"`
	Moves         []game.Move     `json:"moves"`
	EngineVersion string          `json:"engine_version"`
}

// EvaluateRequest evaluates one metric against one deal's opening layout
type EvaluateRequest struct {
	GameNumber uint32         `json:"game_number"`
	Metric     string         `json:"metric"`
	Params     map[string]any `json:"params,omitempty"`
}

// EvaluateResponse carries the metric result with debugging detail
type EvaluateResponse struct {
	GameNumber    uint32          `json:"game_number"`
	Metric        string          `json:"metric"`
	Result        metrics.Result  `json:"result"`
	EngineVersion string          `json:"engine_version"`
	Echo          EvaluateRequest `json:"echo"`
}

// MetricsListResponse lists the registered deal metrics
type MetricsListResponse struct {
	Metrics       []metrics.Spec `json:"metrics"`
	EngineVersion string         `json:"engine_version"`
}

// ScanRequest represents a scan operation request (extends scan.ScanRequest)
type ScanRequest struct {
	Metric      string         `json:"metric"`
	NumberStart uint32         `json:"number_start"`
	NumberEnd   uint32         `json:"number_end"`
	Params      map[string]any `json:"params,omitempty"`
	TargetOp    string         `json:"target_op"` // "ge", "le", "eq", "gt", "lt", "between", "outside"
	TargetVal   float64        `json:"target_val"`
	TargetVal2  float64        `json:"target_val2,omitempty"` // for "between" and "outside"
	Tolerance   float64        `json:"tolerance"`
	Limit       int            `json:"limit,omitempty"`
	TimeoutMs   int            `json:"timeout_ms,omitempty"`
}

// ScanResponse represents the complete scan response
type ScanResponse struct {
	RunID         string       `json:"run_id,omitempty"`
	Hits          []scan.Hit   `json:"hits"`
	Summary       scan.Summary `json:"summary"`
	EngineVersion string       `json:"engine_version"`
	Echo          ScanRequest  `json:"echo"`
}

// SessionCreateRequest deals a new interactive game
type SessionCreateRequest struct {
	GameNumber uint32 `json:"game_number"`
}

// SessionResponse is the snapshot returned by every session operation
type SessionResponse struct {
	SessionID     string          `json:"session_id"`
	State         *game.GameState `json:"state"`
	HistoryLen    int             `json:"history_len"`
	IsWon         bool            `json:"is_won"`
	Moves         []game.Move     `json:"moves,omitempty"`
	EngineVersion string          `json:"engine_version"`
}

// SessionMoveRequest is a move against a server-held session. The same
// card/run semantics as MoveRequest apply, minus the explicit state.
type SessionMoveRequest struct {
	Card     string        `json:"card,omitempty"`
	From     game.Location `json:"from"`
	To       game.Location `json:"to"`
	RunStart *int          `json:"run_start,omitempty"`
}

// HealthResponse represents a health check response
type HealthResponse struct {
	Status        string `json:"status"`
	EngineVersion string `json:"engine_version"`
	Timestamp     string `json:"timestamp"`
}
