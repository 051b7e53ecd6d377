package attendance

import "errors"

// Attendance domain errors
var (
	// Clock errors
	ErrAlreadyClockedIn = errors.New("already clocked in")
	ErrNotClockedIn     = errors.New("not clocked in")

	// Query errors
	ErrInvalidDateRange = errors.New("start date must not be after end date")
	ErrRangeTooLarge    = errors.New("date range exceeds the allowed number of days")
	ErrInvalidMonth     = errors.New("month must be between 1 and 12")
)
