package shift

import "errors"

var (
	ErrShiftPolicyNotFound = errors.New("shift policy not found")
	ErrInvalidShiftWindow  = errors.New("shift end time must be after start time")
	ErrInvalidThresholds   = errors.New("half-day hours must be lower than full-day hours")
)
