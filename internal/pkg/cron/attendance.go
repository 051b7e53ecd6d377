package cron

import (
	"context"
	"log/slog"
	"time"
)

// DayReconciler rebuilds the summaries of every employee that punched on a day.
type DayReconciler interface {
	ReconcileDay(ctx context.Context, date time.Time) (int, error)
	Location() *time.Location
}

type AttendanceJobs struct {
	reconciler DayReconciler
	interval   time.Duration
	now        func() time.Time
}

func NewAttendanceJobs(reconciler DayReconciler, interval time.Duration) *AttendanceJobs {
	return &AttendanceJobs{
		reconciler: reconciler,
		interval:   interval,
		now:        time.Now,
	}
}

// RegisterJobs adds the attendance jobs. A zero interval disables them.
func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler) {
	if j.interval <= 0 {
		slog.Info("Cron: Attendance reconciliation disabled")
		return
	}
	scheduler.AddJob("reconcile_previous_day", j.interval, j.ReconcilePreviousDay)
}

// ReconcilePreviousDay recomputes yesterday's summaries in the attendance
// timezone so late punches and corrections reach stored summaries.
func (j *AttendanceJobs) ReconcilePreviousDay(ctx context.Context) error {
	yesterday := j.now().In(j.reconciler.Location()).AddDate(0, 0, -1)

	slog.Info("Cron: Starting reconcile previous day job", "date", yesterday.Format("2006-01-02"))

	count, err := j.reconciler.ReconcileDay(ctx, yesterday)
	if err != nil {
		return err
	}

	slog.Info("Cron: Reconciled daily summaries", "date", yesterday.Format("2006-01-02"), "count", count)
	return nil
}
