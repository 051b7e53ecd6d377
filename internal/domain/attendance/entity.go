package attendance

import (
	"time"
)

type EventType string

const (
	EventIn  EventType = "IN"
	EventOut EventType = "OUT"
)

type PunchSource string

const (
	SourceWeb       PunchSource = "web"
	SourceGPS       PunchSource = "gps"
	SourceBiometric PunchSource = "biometric"
)

var PunchSourceValues = []string{
	string(SourceWeb),
	string(SourceGPS),
	string(SourceBiometric),
}

// Punch is a single raw clock event. Punches are append-only: corrections are
// recorded through Adjustment and removal through the IsDeleted tombstone.
type Punch struct {
	ID              string
	EmployeeID      string
	EventType       EventType
	Timestamp       time.Time
	Source          PunchSource
	Latitude        *float64
	Longitude       *float64
	Address         *string
	IPAddress       *string
	HasAddress      bool
	IsRemoteClockIn bool
	IsDeleted       bool
	IsManuallyAdded bool
	Adjustment      *AdjustmentInfo
	Note            *string
	CreatedBy       *string
	CreatedAt       time.Time
}

// AdjustmentInfo is filled by the external correction process.
type AdjustmentInfo struct {
	AdjustedBy        string    `json:"adjusted_by"`
	AdjustedAt        time.Time `json:"adjusted_at"`
	Reason            string    `json:"reason"`
	OriginalTimestamp time.Time `json:"original_timestamp"`
}

func (p Punch) IsAdjusted() bool {
	return p.Adjustment != nil
}

// ClockStatus is the event type of the latest non-deleted punch, or empty when
// the employee has never punched.
type ClockStatus string

const (
	ClockStatusIn      ClockStatus = ClockStatus(EventIn)
	ClockStatusOut     ClockStatus = ClockStatus(EventOut)
	ClockStatusUnknown ClockStatus = ""
)

type DayType string

const (
	DayTypeWorking DayType = "working"
	DayTypeHoliday DayType = "holiday"
	// DayTypeWeekend is declared for consumers; reconciliation never assigns it.
	DayTypeWeekend DayType = "weekend"
)

type DayStatus string

const (
	DayStatusPresent DayStatus = "present"
	DayStatusHalfDay DayStatus = "half-day"
	DayStatusAbsent  DayStatus = "absent"
)

// InOutPair is a matched IN/OUT span.
type InOutPair struct {
	InTime        time.Time `json:"in_time"`
	OutTime       time.Time `json:"out_time"`
	DurationHours float64   `json:"duration_hours"`
}

// TimeEntry is the verbatim copy of a raw punch stored on the summary.
type TimeEntry struct {
	PunchID         string          `json:"punch_id"`
	EventType       EventType       `json:"event_type"`
	Timestamp       time.Time       `json:"timestamp"`
	Source          PunchSource     `json:"source"`
	IsManuallyAdded bool            `json:"is_manually_added"`
	IsAdjusted      bool            `json:"is_adjusted"`
	Adjustment      *AdjustmentInfo `json:"adjustment,omitempty"`
	Latitude        *float64        `json:"latitude,omitempty"`
	Longitude       *float64        `json:"longitude,omitempty"`
	Address         *string         `json:"address,omitempty"`
	IsRemoteClockIn bool            `json:"is_remote_clock_in"`
	Note            *string         `json:"note,omitempty"`
}

// DailySummary is the derived attendance record for one employee-day.
type DailySummary struct {
	ID                    string
	EmployeeID            string
	AttendanceDate        time.Time
	DayType               DayType
	Status                DayStatus
	TotalEffectiveHours   float64
	TotalGrossHours       float64
	TotalBreakHours       float64
	EffectiveHoursText    string
	GrossHoursText        string
	BreakDurationText     string
	ValidInOutPairs       []InOutPair
	FirstIn               *time.Time
	LastOut               *time.Time
	IsArrivedLate         bool
	LateArrivalMinutes    float64
	LateArrivalDifference string
	IsAnomalyDetected     bool
	Anomalies             []string
	IsInMissing           bool
	TotalTimeEntries      int
	TimeEntries           []TimeEntry
	ShiftID               *string
	HolidayID             *string
	SystemGenerated       bool
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// NeedsEnrichment reports whether the summary predates per-punch time entries.
func (s DailySummary) NeedsEnrichment() bool {
	return s.TimeEntries == nil
}
