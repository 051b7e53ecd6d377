package attendance

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/holiday"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/shift"
	"github.com/google/uuid"
)

// Reconciler rebuilds the daily summary of an employee-day from its raw punches.
// Reconciling the same punches twice produces the same summary.
type Reconciler struct {
	punchRepo    attendance.PunchRepository
	summaryRepo  attendance.SummaryRepository
	employeeRepo employee.EmployeeRepository
	shiftRepo    shift.ShiftRepository
	holidayRepo  holiday.HolidayRepository
	classifier   ReconciledClassifier
	policy       Policy
}

func NewReconciler(
	punchRepo attendance.PunchRepository,
	summaryRepo attendance.SummaryRepository,
	employeeRepo employee.EmployeeRepository,
	shiftRepo shift.ShiftRepository,
	holidayRepo holiday.HolidayRepository,
	policy Policy,
) *Reconciler {
	policy = policy.withDefaults()
	return &Reconciler{
		punchRepo:    punchRepo,
		summaryRepo:  summaryRepo,
		employeeRepo: employeeRepo,
		shiftRepo:    shiftRepo,
		holidayRepo:  holidayRepo,
		classifier:   NewReconciledClassifier(policy.DefaultPresentHours, policy.DefaultHalfDayHours),
		policy:       policy,
	}
}

// Reconcile recomputes and upserts the summary for the calendar day of date.
func (r *Reconciler) Reconcile(ctx context.Context, employeeID string, date time.Time) (attendance.DailySummary, error) {
	emp, err := r.employeeRepo.GetByID(ctx, employeeID)
	if err != nil {
		return attendance.DailySummary{}, err
	}
	return r.reconcileFor(ctx, emp, date)
}

func (r *Reconciler) reconcileFor(ctx context.Context, emp employee.Employee, date time.Time) (attendance.DailySummary, error) {
	dayStart, dayEnd := DayWindow(date, r.policy.Location)

	punches, err := r.punchRepo.ListBetween(ctx, emp.ID, dayStart, dayEnd)
	if err != nil {
		return attendance.DailySummary{}, fmt.Errorf("failed to list punches: %w", err)
	}
	punches = localize(punches, r.policy.Location)

	// Shift and holiday lookups degrade to defaults; a missing policy row is not fatal.
	activeShift, err := r.shiftRepo.GetActive(ctx)
	if err != nil {
		slog.WarnContext(ctx, "Failed to load active shift, using default thresholds", "error", err)
		activeShift = nil
	}
	dayHoliday, err := r.holidayRepo.Find(ctx, dayStart, emp.LocationID())
	if err != nil {
		slog.WarnContext(ctx, "Failed to load holiday, treating day as working", "employee_id", emp.ID, "date", dayStart.Format("2006-01-02"), "error", err)
		dayHoliday = nil
	}

	pairing := PairPunches(punches)
	hours := CalculateHours(pairing, len(punches), r.policy.anomalyPolicy())
	class := r.classifier.Classify(ClassifyInput{
		Date:           dayStart,
		EffectiveHours: hours.EffectiveHours,
		Shift:          activeShift,
		Holiday:        dayHoliday,
		Punches:        punches,
	})

	id, err := uuid.NewV7()
	if err != nil {
		return attendance.DailySummary{}, fmt.Errorf("failed to generate summary ID: %w", err)
	}

	pairs := make([]attendance.InOutPair, 0, len(pairing.Valid))
	for _, pair := range pairing.Valid {
		pair.DurationHours = round2(pair.DurationHours)
		pairs = append(pairs, pair)
	}

	summary := attendance.DailySummary{
		ID:                    id.String(),
		EmployeeID:            emp.ID,
		AttendanceDate:        dayStart,
		DayType:               class.DayType,
		Status:                class.Status,
		TotalEffectiveHours:   round2(hours.EffectiveHours),
		TotalGrossHours:       round2(hours.GrossHours),
		TotalBreakHours:       round2(hours.BreakHours),
		EffectiveHoursText:    FormatHours(hours.EffectiveHours),
		GrossHoursText:        FormatHours(hours.GrossHours),
		BreakDurationText:     FormatBreak(hours.BreakHours),
		ValidInOutPairs:       pairs,
		FirstIn:               class.FirstIn,
		LastOut:               class.LastOut,
		IsArrivedLate:         class.IsArrivedLate,
		LateArrivalMinutes:    class.LateArrivalMinutes,
		LateArrivalDifference: class.LateArrivalDifference,
		IsAnomalyDetected:     hours.IsAnomalyDetected,
		Anomalies:             hours.Anomalies,
		IsInMissing:           class.IsInMissing,
		TotalTimeEntries:      len(punches),
		TimeEntries:           toTimeEntries(punches),
		SystemGenerated:       true,
	}
	if activeShift != nil {
		summary.ShiftID = &activeShift.ID
	}
	if dayHoliday != nil {
		summary.HolidayID = &dayHoliday.ID
	}

	saved, err := r.summaryRepo.Upsert(ctx, summary)
	if err != nil {
		return attendance.DailySummary{}, fmt.Errorf("failed to upsert daily summary: %w", err)
	}

	slog.DebugContext(ctx, "Daily summary reconciled",
		"employee_id", emp.ID,
		"date", dayStart.Format("2006-01-02"),
		"status", saved.Status,
		"effective_hours", saved.TotalEffectiveHours,
	)

	return saved, nil
}

// ReconcileDay reconciles every employee that punched on date. Failures for
// one employee are logged and do not stop the others.
func (r *Reconciler) ReconcileDay(ctx context.Context, date time.Time) (int, error) {
	dayStart, dayEnd := DayWindow(date, r.policy.Location)

	employeeIDs, err := r.punchRepo.ListEmployeeIDsWithPunches(ctx, dayStart, dayEnd)
	if err != nil {
		return 0, fmt.Errorf("failed to list employees with punches: %w", err)
	}

	reconciled := 0
	for _, employeeID := range employeeIDs {
		if err := ctx.Err(); err != nil {
			return reconciled, err
		}
		if _, err := r.Reconcile(ctx, employeeID, dayStart); err != nil {
			slog.ErrorContext(ctx, "Failed to reconcile daily summary",
				"employee_id", employeeID,
				"date", dayStart.Format("2006-01-02"),
				"error", err,
			)
			continue
		}
		reconciled++
	}

	return reconciled, nil
}

// Location is the attendance timezone.
func (r *Reconciler) Location() *time.Location {
	return r.policy.Location
}
