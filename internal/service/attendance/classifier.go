package attendance

import (
	"fmt"
	"math"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/holiday"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/shift"
)

const onTimeText = "On time"

type ClassifyInput struct {
	// Date is midnight of the attendance day in the attendance timezone
	Date           time.Time
	EffectiveHours float64
	Shift          *shift.Shift
	Holiday        *holiday.Holiday
	Punches        []attendance.Punch
}

type Classification struct {
	DayType               attendance.DayType
	Status                attendance.DayStatus
	FirstIn               *time.Time
	LastOut               *time.Time
	IsArrivedLate         bool
	LateArrivalMinutes    float64
	LateArrivalDifference string
	IsInMissing           bool
}

// ReconciledClassifier assigns status, day type and lateness to a reconciled day.
type ReconciledClassifier struct {
	DefaultPresentHours float64
	DefaultHalfDayHours float64
}

func NewReconciledClassifier(presentHours, halfDayHours float64) ReconciledClassifier {
	if presentHours <= 0 {
		presentHours = shift.DefaultPresentHours
	}
	if halfDayHours <= 0 {
		halfDayHours = shift.DefaultHalfDayHours
	}
	return ReconciledClassifier{
		DefaultPresentHours: presentHours,
		DefaultHalfDayHours: halfDayHours,
	}
}

func (c ReconciledClassifier) Classify(in ClassifyInput) Classification {
	out := Classification{
		DayType:               attendance.DayTypeWorking,
		LateArrivalDifference: onTimeText,
	}
	if in.Holiday != nil {
		out.DayType = attendance.DayTypeHoliday
	}

	present, halfDay := c.thresholds(in.Shift)
	switch {
	case in.EffectiveHours >= present:
		out.Status = attendance.DayStatusPresent
	case in.EffectiveHours >= halfDay:
		out.Status = attendance.DayStatusHalfDay
	default:
		out.Status = attendance.DayStatusAbsent
	}

	var ins, outs int
	for i := range in.Punches {
		p := in.Punches[i]
		if p.IsDeleted {
			continue
		}
		switch p.EventType {
		case attendance.EventIn:
			ins++
			if out.FirstIn == nil || p.Timestamp.Before(*out.FirstIn) {
				ts := p.Timestamp
				out.FirstIn = &ts
			}
		case attendance.EventOut:
			outs++
			if out.LastOut == nil || p.Timestamp.After(*out.LastOut) {
				ts := p.Timestamp
				out.LastOut = &ts
			}
		}
	}
	out.IsInMissing = ins > outs

	if in.Shift != nil && out.FirstIn != nil {
		if start, err := in.Shift.StartOn(in.Date); err == nil {
			late := out.FirstIn.Sub(start)
			minutes := late.Minutes()
			if minutes > float64(in.Shift.GracePeriodMinutes) {
				out.IsArrivedLate = true
				out.LateArrivalMinutes = round2(minutes)
				out.LateArrivalDifference = formatLateness(late)
			}
		}
	}

	return out
}

// thresholds prefers the shift's values and falls back per field.
func (c ReconciledClassifier) thresholds(s *shift.Shift) (float64, float64) {
	present, halfDay := c.DefaultPresentHours, c.DefaultHalfDayHours
	if present <= 0 {
		present = shift.DefaultPresentHours
	}
	if halfDay <= 0 {
		halfDay = shift.DefaultHalfDayHours
	}
	if s != nil {
		if s.PresentHours > 0 {
			present = s.PresentHours
		}
		if s.HalfDayHours > 0 {
			halfDay = s.HalfDayHours
		}
	}
	return present, halfDay
}

// formatLateness renders a positive duration as "H:MM:SS late".
func formatLateness(d time.Duration) string {
	total := int64(math.Round(d.Seconds()))
	return fmt.Sprintf("%d:%02d:%02d late", total/3600, (total%3600)/60, total%60)
}
