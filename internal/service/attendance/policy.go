package attendance

import (
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/shift"
)

// Policy is the attendance configuration shared by the reconciler and the service.
type Policy struct {
	Location            *time.Location
	DefaultPresentHours float64
	DefaultHalfDayHours float64
	ShortPunchThreshold time.Duration
	MaxPunchesPerDay    int
	MaxRangeDays        int
}

func DefaultPolicy() Policy {
	anomaly := DefaultAnomalyPolicy()
	return Policy{
		Location:            time.UTC,
		DefaultPresentHours: shift.DefaultPresentHours,
		DefaultHalfDayHours: shift.DefaultHalfDayHours,
		ShortPunchThreshold: anomaly.ShortPunchThreshold,
		MaxPunchesPerDay:    anomaly.MaxPunchesPerDay,
		MaxRangeDays:        92,
	}
}

// withDefaults fills zero fields from DefaultPolicy.
func (p Policy) withDefaults() Policy {
	d := DefaultPolicy()
	if p.Location == nil {
		p.Location = d.Location
	}
	if p.DefaultPresentHours <= 0 {
		p.DefaultPresentHours = d.DefaultPresentHours
	}
	if p.DefaultHalfDayHours <= 0 {
		p.DefaultHalfDayHours = d.DefaultHalfDayHours
	}
	if p.ShortPunchThreshold <= 0 {
		p.ShortPunchThreshold = d.ShortPunchThreshold
	}
	if p.MaxPunchesPerDay <= 0 {
		p.MaxPunchesPerDay = d.MaxPunchesPerDay
	}
	if p.MaxRangeDays <= 0 {
		p.MaxRangeDays = d.MaxRangeDays
	}
	return p
}

func (p Policy) anomalyPolicy() AnomalyPolicy {
	return AnomalyPolicy{
		ShortPunchThreshold: p.ShortPunchThreshold,
		MaxPunchesPerDay:    p.MaxPunchesPerDay,
	}
}

// DayWindow returns the half-open window [midnight, next midnight) of date's
// calendar day in loc.
func DayWindow(date time.Time, loc *time.Location) (time.Time, time.Time) {
	start := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 0, 1)
}
