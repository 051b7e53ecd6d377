package attendance

import (
	"context"
	"time"
)

// AttendanceService defines the clock commands and attendance queries
type AttendanceService interface {
	// ClockIn appends an IN punch; fails when the employee is already clocked in
	ClockIn(ctx context.Context, req ClockRequest) (PunchResponse, error)

	// ClockOut appends an OUT punch; fails unless the employee is clocked in
	ClockOut(ctx context.Context, req ClockRequest) (PunchResponse, error)

	GetCurrentStatus(ctx context.Context, employeeID string) (ClockStatusResponse, error)
	GetTodayAttendance(ctx context.Context, employeeID string) ([]PunchResponse, error)
	GetAttendanceLogs(ctx context.Context, employeeID string, filter LogFilter) (AttendanceLogsResponse, error)

	// GetMonthlyAttendance uses the simple per-day classification, not the reconciler
	GetMonthlyAttendance(ctx context.Context, employeeID string, year int, month int) (MonthlyAttendanceResponse, error)

	// GetAttendanceSummary reconciles the day when no usable summary is stored
	GetAttendanceSummary(ctx context.Context, employeeID string, date time.Time) (SummaryResponse, error)

	// GetAttendanceSummaryRange returns one summary per day, newest first
	GetAttendanceSummaryRange(ctx context.Context, employeeID string, req SummaryRangeRequest) ([]SummaryResponse, error)

	// ReconcileSummary recomputes the day even when a summary is stored
	ReconcileSummary(ctx context.Context, employeeID string, date time.Time) (SummaryResponse, error)
}

// PunchNotifier receives punches after they are stored.
type PunchNotifier interface {
	PunchCreated(punch Punch)
}
