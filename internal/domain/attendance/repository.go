package attendance

import (
	"context"
	"time"
)

// PunchRepository is the append-only punch store. Every read excludes
// tombstoned punches.
type PunchRepository interface {
	// Create appends a punch and returns it with storage-assigned fields
	Create(ctx context.Context, punch Punch) (Punch, error)

	// GetLatest returns the most recent punch by timestamp, nil when none exists
	GetLatest(ctx context.Context, employeeID string) (*Punch, error)

	// ListBetween returns punches with from <= timestamp < to, ascending
	ListBetween(ctx context.Context, employeeID string, from, to time.Time) ([]Punch, error)

	// ListLogs returns a page of punches, newest first, plus the total count
	ListLogs(ctx context.Context, employeeID string, filter LogFilter) ([]Punch, int64, error)

	// ListEmployeeIDsWithPunches returns employees that punched in [from, to)
	ListEmployeeIDsWithPunches(ctx context.Context, from, to time.Time) ([]string, error)
}

// SummaryRepository stores one summary per employee-day.
type SummaryRepository interface {
	// Upsert inserts or fully replaces the summary keyed by employee and date
	Upsert(ctx context.Context, summary DailySummary) (DailySummary, error)

	// GetByEmployeeAndDate returns nil when no summary exists
	GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*DailySummary, error)
}
