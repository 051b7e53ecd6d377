package attendance

import (
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
)

func formatTime(t time.Time) string {
	return t.Format(time.RFC3339)
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := formatTime(*t)
	return &s
}

// localize converts punch timestamps into loc so that day grouping and
// rendered offsets follow the attendance timezone.
func localize(punches []attendance.Punch, loc *time.Location) []attendance.Punch {
	for i := range punches {
		punches[i].Timestamp = punches[i].Timestamp.In(loc)
	}
	return punches
}

func mapPunchToResponse(p attendance.Punch) attendance.PunchResponse {
	return attendance.PunchResponse{
		ID:              p.ID,
		EmployeeID:      p.EmployeeID,
		EventType:       string(p.EventType),
		Timestamp:       formatTime(p.Timestamp),
		Source:          string(p.Source),
		Latitude:        p.Latitude,
		Longitude:       p.Longitude,
		Address:         p.Address,
		IPAddress:       p.IPAddress,
		HasAddress:      p.HasAddress,
		IsRemoteClockIn: p.IsRemoteClockIn,
		IsManuallyAdded: p.IsManuallyAdded,
		IsAdjusted:      p.IsAdjusted(),
		Note:            p.Note,
		CreatedAt:       formatTime(p.CreatedAt),
	}
}

func mapPunchesToResponse(punches []attendance.Punch) []attendance.PunchResponse {
	responses := make([]attendance.PunchResponse, 0, len(punches))
	for _, p := range punches {
		responses = append(responses, mapPunchToResponse(p))
	}
	return responses
}

func toTimeEntries(punches []attendance.Punch) []attendance.TimeEntry {
	entries := make([]attendance.TimeEntry, 0, len(punches))
	for _, p := range punches {
		entries = append(entries, attendance.TimeEntry{
			PunchID:         p.ID,
			EventType:       p.EventType,
			Timestamp:       p.Timestamp,
			Source:          p.Source,
			IsManuallyAdded: p.IsManuallyAdded,
			IsAdjusted:      p.IsAdjusted(),
			Adjustment:      p.Adjustment,
			Latitude:        p.Latitude,
			Longitude:       p.Longitude,
			Address:         p.Address,
			IsRemoteClockIn: p.IsRemoteClockIn,
			Note:            p.Note,
		})
	}
	return entries
}

// MapSummaryToResponse renders a summary with times in loc.
func MapSummaryToResponse(s attendance.DailySummary, loc *time.Location) attendance.SummaryResponse {
	in := func(t *time.Time) *time.Time {
		if t == nil {
			return nil
		}
		local := t.In(loc)
		return &local
	}

	pairs := make([]attendance.InOutPairResponse, 0, len(s.ValidInOutPairs))
	for _, pair := range s.ValidInOutPairs {
		pairs = append(pairs, attendance.InOutPairResponse{
			InTime:        formatTime(pair.InTime.In(loc)),
			OutTime:       formatTime(pair.OutTime.In(loc)),
			DurationHours: round2(pair.DurationHours),
		})
	}

	entries := make([]attendance.TimeEntryResponse, 0, len(s.TimeEntries))
	for _, e := range s.TimeEntries {
		entries = append(entries, attendance.TimeEntryResponse{
			PunchID:         e.PunchID,
			EventType:       string(e.EventType),
			Timestamp:       formatTime(e.Timestamp.In(loc)),
			Source:          string(e.Source),
			IsManuallyAdded: e.IsManuallyAdded,
			IsAdjusted:      e.IsAdjusted,
			Latitude:        e.Latitude,
			Longitude:       e.Longitude,
			Address:         e.Address,
			IsRemoteClockIn: e.IsRemoteClockIn,
			Note:            e.Note,
		})
	}

	anomalies := s.Anomalies
	if anomalies == nil {
		anomalies = []string{}
	}

	return attendance.SummaryResponse{
		ID:                    s.ID,
		EmployeeID:            s.EmployeeID,
		AttendanceDate:        formatTime(s.AttendanceDate.In(loc)),
		DayType:               string(s.DayType),
		AttendanceDayStatus:   string(s.Status),
		TotalEffectiveHours:   s.TotalEffectiveHours,
		TotalGrossHours:       s.TotalGrossHours,
		TotalBreakHours:       s.TotalBreakHours,
		EffectiveHoursText:    s.EffectiveHoursText,
		GrossHoursText:        s.GrossHoursText,
		TotalBreakDuration:    s.BreakDurationText,
		ValidInOutPairs:       pairs,
		FirstInOfTheDay:       formatTimePtr(in(s.FirstIn)),
		LastOutOfTheDay:       formatTimePtr(in(s.LastOut)),
		IsArrivedLate:         s.IsArrivedLate,
		LateArrivalMinutes:    s.LateArrivalMinutes,
		LateArrivalDifference: s.LateArrivalDifference,
		IsAnomalyDetected:     s.IsAnomalyDetected,
		Anomalies:             anomalies,
		IsInMissing:           s.IsInMissing,
		TotalTimeEntries:      s.TotalTimeEntries,
		TimeEntries:           entries,
		ShiftID:               s.ShiftID,
		HolidayID:             s.HolidayID,
		SystemGenerated:       s.SystemGenerated,
		CreatedAt:             formatTime(s.CreatedAt.In(loc)),
		UpdatedAt:             formatTime(s.UpdatedAt.In(loc)),
	}
}
