package shift

import (
	"fmt"
	"time"
)

// Fallback thresholds used when no shift is configured.
const (
	DefaultPresentHours = 8.0
	DefaultHalfDayHours = 4.0
)

type Shift struct {
	ID                 string
	Name               string
	StartTime          string // HH:mm
	EndTime            string // HH:mm
	PresentHours       float64
	HalfDayHours       float64
	BreakDuration      int // minutes
	EffectiveDuration  int // minutes
	HalfDayDuration    int // minutes
	GracePeriodMinutes int
	IsActive           bool
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// StartOn returns the shift start on the calendar day of date, in date's location.
func (s Shift) StartOn(date time.Time) (time.Time, error) {
	clock, err := time.Parse("15:04", s.StartTime)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidStartTime, s.StartTime)
	}
	return time.Date(date.Year(), date.Month(), date.Day(), clock.Hour(), clock.Minute(), 0, 0, date.Location()), nil
}
