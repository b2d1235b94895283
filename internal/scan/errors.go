package scan

import "errors"

var (
	ErrMetricNotFound = errors.New("metric not found")
	ErrInvalidRange   = errors.New("invalid game number range")
)
