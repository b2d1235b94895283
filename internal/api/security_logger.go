package api

import (
	"log"
	"os"
	"time"
)

// SecurityLogger handles security-conscious structured logging. Nothing in
// the engine is secret, but audit lines keep the same shape as the rest of
// the fleet so log pipelines need no special casing.
type SecurityLogger struct {
	logger *log.Logger
}

// NewSecurityLogger creates a new security logger
func NewSecurityLogger() *SecurityLogger {
	logger := log.New(os.Stdout, "[SECURITY] ", log.LstdFlags|log.LUTC)
	return &SecurityLogger{
		logger: logger,
	}
}

// LogScanOperation logs scan operations with their full parameter set
func (sl *SecurityLogger) LogScanOperation(
	requestID string,
	metric string,
	numberStart, numberEnd uint32,
	params map[string]any,
	targetOp string,
	targetVal float64,
	limit int,
	timeoutMs int,
) {
	sl.logger.Printf(
		"scan_operation request_id=%s metric=%s number_range=%d-%d target_op=%s target_val=%f limit=%d timeout_ms=%d params=%+v engine_version=%s timestamp=%s",
		requestID,
		metric,
		numberStart,
		numberEnd,
		targetOp,
		targetVal,
		limit,
		timeoutMs,
		sl.sanitizeContext(params),
		EngineVersion,
		time.Now().UTC().Format(time.RFC3339),
	)
}

// LogSecurityEvent logs security-related events (failed validations, suspicious activity)
func (sl *SecurityLogger) LogSecurityEvent(
	requestID string,
	eventType string,
	description string,
	context map[string]interface{},
	remoteAddr string,
) {
	sanitizedContext := sl.sanitizeContext(context)

	sl.logger.Printf(
		"security_event request_id=%s type=%s description=%q context=%+v remote_addr=%s engine_version=%s timestamp=%s",
		requestID,
		eventType,
		description,
		sanitizedContext,
		remoteAddr,
		EngineVersion,
		time.Now().UTC().Format(time.RFC3339),
	)
}

// LogPerformanceMetrics logs performance-related metrics for monitoring
func (sl *SecurityLogger) LogPerformanceMetrics(
	requestID string,
	operation string,
	duration time.Duration,
	itemsProcessed uint64,
	memoryUsed uint64,
	success bool,
) {
	status := "success"
	if !success {
		status = "failure"
	}

	sl.logger.Printf(
		"performance_metrics request_id=%s operation=%s duration=%v items_processed=%d memory_used_bytes=%d status=%s engine_version=%s timestamp=%s",
		requestID,
		operation,
		duration,
		itemsProcessed,
		memoryUsed,
		status,
		EngineVersion,
		time.Now().UTC().Format(time.RFC3339),
	)
}

// LogAuditEvent logs audit events for compliance and debugging
func (sl *SecurityLogger) LogAuditEvent(
	requestID string,
	action string,
	resource string,
	outcome string,
	details map[string]interface{},
) {
	sanitizedDetails := sl.sanitizeContext(details)

	sl.logger.Printf(
		"audit_event request_id=%s action=%s resource=%s outcome=%s details=%+v engine_version=%s timestamp=%s",
		requestID,
		action,
		resource,
		outcome,
		sanitizedDetails,
		EngineVersion,
		time.Now().UTC().Format(time.RFC3339),
	)
}

// sanitizeContext removes sensitive data from context maps. Metric params
// can carry user-supplied script source, which is logged elsewhere with
// length only.
func (sl *SecurityLogger) sanitizeContext(context map[string]interface{}) map[string]interface{} {
	if context == nil {
		return nil
	}

	sanitized := make(map[string]interface{})
	for key, value := range context {
		switch key {
		case "private_key", "secret", "password", "token", "api_key", "authorization":
			// Never log these
			sanitized[key] = "[REDACTED]"
		case "source":
			if src, ok := value.(string); ok {
				sanitized["source_len"] = len(src)
			} else {
				sanitized[key] = "[SCRIPT_SOURCE]"
			}
		default:
			// Safe to log other context
			sanitized[key] = value
		}
	}

	return sanitized
}

// LogSystemStartup logs system startup information
func (sl *SecurityLogger) LogSystemStartup(addr string, config map[string]interface{}) {
	sanitizedConfig := sl.sanitizeContext(config)

	sl.logger.Printf(
		"system_startup addr=%s config=%+v engine_version=%s git_commit=%s build_time=%s timestamp=%s",
		addr,
		sanitizedConfig,
		EngineVersion,
		GitCommit,
		BuildTime,
		time.Now().UTC().Format(time.RFC3339),
	)
}

// LogSystemShutdown logs system shutdown information
func (sl *SecurityLogger) LogSystemShutdown(reason string, uptime time.Duration) {
	sl.logger.Printf(
		"system_shutdown reason=%s uptime=%v engine_version=%s timestamp=%s",
		reason,
		uptime,
		EngineVersion,
		time.Now().UTC().Format(time.RFC3339),
	)
}
