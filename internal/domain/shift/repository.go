package shift

import "context"

// ShiftRepository exposes the single global shift policy.
type ShiftRepository interface {
	// GetActive returns the first active shift, nil when none is configured.
	// Shifts are not resolved per employee.
	GetActive(ctx context.Context) (*Shift, error)
}
