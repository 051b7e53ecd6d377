package attendance

import (
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
)

// Monthly day statuses. Partial only exists on the monthly view.
const (
	MonthlyStatusPresent = "present"
	MonthlyStatusPartial = "partial"
	MonthlyStatusAbsent  = "absent"
)

// SimpleMonthlyClassifier looks only at whether a day has IN and OUT punches.
// It does not pair punches and ignores shifts and holidays.
type SimpleMonthlyClassifier struct{}

func (SimpleMonthlyClassifier) Classify(punches []attendance.Punch) attendance.MonthlyDayStatus {
	var firstIn, lastOut *time.Time
	count := 0

	for i := range punches {
		p := punches[i]
		if p.IsDeleted {
			continue
		}
		count++
		switch p.EventType {
		case attendance.EventIn:
			if firstIn == nil || p.Timestamp.Before(*firstIn) {
				ts := p.Timestamp
				firstIn = &ts
			}
		case attendance.EventOut:
			if lastOut == nil || p.Timestamp.After(*lastOut) {
				ts := p.Timestamp
				lastOut = &ts
			}
		}
	}

	day := attendance.MonthlyDayStatus{
		Status:     MonthlyStatusAbsent,
		PunchCount: count,
		FirstIn:    formatTimePtr(firstIn),
		LastOut:    formatTimePtr(lastOut),
	}

	switch {
	case firstIn != nil && lastOut != nil:
		day.Status = MonthlyStatusPresent
		if lastOut.After(*firstIn) {
			day.TotalHours = round2(lastOut.Sub(*firstIn).Hours())
		}
	case firstIn != nil || lastOut != nil:
		day.Status = MonthlyStatusPartial
	}

	return day
}
