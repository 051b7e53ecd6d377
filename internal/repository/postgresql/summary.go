package postgresql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const summaryColumns = `id, employee_id, attendance_date, day_type, status,
	total_effective_hours, total_gross_hours, total_break_hours,
	effective_hours_text, gross_hours_text, break_duration_text,
	valid_in_out_pairs, first_in, last_out,
	is_arrived_late, late_arrival_minutes, late_arrival_difference,
	is_anomaly_detected, anomalies, is_in_missing,
	total_time_entries, time_entries, shift_id, holiday_id, system_generated,
	created_at, updated_at`

type summaryRepository struct {
	db database.Querier
}

func NewSummaryRepository(db database.Querier) attendance.SummaryRepository {
	return &summaryRepository{db: db}
}

// Upsert implements attendance.SummaryRepository. The conflict branch replaces
// every derived column and keeps id and created_at of the existing row.
func (r *summaryRepository) Upsert(ctx context.Context, s attendance.DailySummary) (attendance.DailySummary, error) {
	pairs, err := json.Marshal(nonNilSlice(s.ValidInOutPairs))
	if err != nil {
		return attendance.DailySummary{}, fmt.Errorf("failed to encode in-out pairs: %w", err)
	}
	anomalies, err := json.Marshal(nonNilSlice(s.Anomalies))
	if err != nil {
		return attendance.DailySummary{}, fmt.Errorf("failed to encode anomalies: %w", err)
	}
	entries, err := json.Marshal(nonNilSlice(s.TimeEntries))
	if err != nil {
		return attendance.DailySummary{}, fmt.Errorf("failed to encode time entries: %w", err)
	}

	query := `
		INSERT INTO daily_attendance_summaries (
			id, employee_id, attendance_date, day_type, status,
			total_effective_hours, total_gross_hours, total_break_hours,
			effective_hours_text, gross_hours_text, break_duration_text,
			valid_in_out_pairs, first_in, last_out,
			is_arrived_late, late_arrival_minutes, late_arrival_difference,
			is_anomaly_detected, anomalies, is_in_missing,
			total_time_entries, time_entries, shift_id, holiday_id, system_generated,
			created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
			$15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, NOW(), NOW()
		)
		ON CONFLICT (employee_id, attendance_date) DO UPDATE SET
			day_type = EXCLUDED.day_type,
			status = EXCLUDED.status,
			total_effective_hours = EXCLUDED.total_effective_hours,
			total_gross_hours = EXCLUDED.total_gross_hours,
			total_break_hours = EXCLUDED.total_break_hours,
			effective_hours_text = EXCLUDED.effective_hours_text,
			gross_hours_text = EXCLUDED.gross_hours_text,
			break_duration_text = EXCLUDED.break_duration_text,
			valid_in_out_pairs = EXCLUDED.valid_in_out_pairs,
			first_in = EXCLUDED.first_in,
			last_out = EXCLUDED.last_out,
			is_arrived_late = EXCLUDED.is_arrived_late,
			late_arrival_minutes = EXCLUDED.late_arrival_minutes,
			late_arrival_difference = EXCLUDED.late_arrival_difference,
			is_anomaly_detected = EXCLUDED.is_anomaly_detected,
			anomalies = EXCLUDED.anomalies,
			is_in_missing = EXCLUDED.is_in_missing,
			total_time_entries = EXCLUDED.total_time_entries,
			time_entries = EXCLUDED.time_entries,
			shift_id = EXCLUDED.shift_id,
			holiday_id = EXCLUDED.holiday_id,
			system_generated = EXCLUDED.system_generated,
			updated_at = NOW()
		RETURNING id, created_at, updated_at
	`

	err = r.db.QueryRow(ctx, query,
		s.ID, s.EmployeeID, s.AttendanceDate, s.DayType, s.Status,
		s.TotalEffectiveHours, s.TotalGrossHours, s.TotalBreakHours,
		s.EffectiveHoursText, s.GrossHoursText, s.BreakDurationText,
		pairs, s.FirstIn, s.LastOut,
		s.IsArrivedLate, s.LateArrivalMinutes, s.LateArrivalDifference,
		s.IsAnomalyDetected, anomalies, s.IsInMissing,
		s.TotalTimeEntries, entries, s.ShiftID, s.HolidayID, s.SystemGenerated,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return attendance.DailySummary{}, fmt.Errorf("failed to upsert daily summary: %w", err)
	}

	if s.TimeEntries == nil {
		s.TimeEntries = []attendance.TimeEntry{}
	}
	return s, nil
}

// GetByEmployeeAndDate implements attendance.SummaryRepository.
func (r *summaryRepository) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*attendance.DailySummary, error) {
	query := `
		SELECT ` + summaryColumns + `
		FROM daily_attendance_summaries
		WHERE employee_id = $1 AND attendance_date = $2
	`

	s, err := scanSummary(r.db.QueryRow(ctx, query, employeeID, date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get daily summary: %w", err)
	}

	return &s, nil
}

func scanSummary(row rowScanner) (attendance.DailySummary, error) {
	var (
		s                         attendance.DailySummary
		pairs, anomalies, entries []byte
	)

	err := row.Scan(
		&s.ID, &s.EmployeeID, &s.AttendanceDate, &s.DayType, &s.Status,
		&s.TotalEffectiveHours, &s.TotalGrossHours, &s.TotalBreakHours,
		&s.EffectiveHoursText, &s.GrossHoursText, &s.BreakDurationText,
		&pairs, &s.FirstIn, &s.LastOut,
		&s.IsArrivedLate, &s.LateArrivalMinutes, &s.LateArrivalDifference,
		&s.IsAnomalyDetected, &anomalies, &s.IsInMissing,
		&s.TotalTimeEntries, &entries, &s.ShiftID, &s.HolidayID, &s.SystemGenerated,
		&s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return attendance.DailySummary{}, err
	}

	if len(pairs) > 0 {
		if err := json.Unmarshal(pairs, &s.ValidInOutPairs); err != nil {
			return attendance.DailySummary{}, fmt.Errorf("failed to decode in-out pairs: %w", err)
		}
	}
	if len(anomalies) > 0 {
		if err := json.Unmarshal(anomalies, &s.Anomalies); err != nil {
			return attendance.DailySummary{}, fmt.Errorf("failed to decode anomalies: %w", err)
		}
	}
	// NULL time_entries stays nil so the summary is re-enriched on read
	if entries != nil {
		s.TimeEntries = []attendance.TimeEntry{}
		if err := json.Unmarshal(entries, &s.TimeEntries); err != nil {
			return attendance.DailySummary{}, fmt.Errorf("failed to decode time entries: %w", err)
		}
	}

	return s, nil
}

func nonNilSlice[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
