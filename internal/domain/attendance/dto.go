package attendance

import (
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/validator"
)

// ========================================
// CLOCK DTOs
// ========================================

type LocationAddress struct {
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
	Address   *string  `json:"address,omitempty"`
}

// ClockRequest is shared by clock-in and clock-out.
type ClockRequest struct {
	EmployeeID string           `json:"employee_id"`
	Timestamp  *time.Time       `json:"timestamp,omitempty"`
	Note       *string          `json:"note,omitempty"`
	Location   *LocationAddress `json:"location_address,omitempty"`
	IPAddress  *string          `json:"ip_address,omitempty"`
	Source     *PunchSource     `json:"source,omitempty"`

	ActingUserID *string `json:"-"`
}

func (r *ClockRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	if r.Location != nil {
		if r.Location.Latitude != nil && (*r.Location.Latitude < -90 || *r.Location.Latitude > 90) {
			errs = append(errs, validator.ValidationError{
				Field:   "location_address.latitude",
				Message: "latitude must be between -90 and 90",
			})
		}
		if r.Location.Longitude != nil && (*r.Location.Longitude < -180 || *r.Location.Longitude > 180) {
			errs = append(errs, validator.ValidationError{
				Field:   "location_address.longitude",
				Message: "longitude must be between -180 and 180",
			})
		}
	}

	if r.Source != nil && !validator.IsInSlice(string(*r.Source), PunchSourceValues) {
		errs = append(errs, validator.ValidationError{
			Field:   "source",
			Message: "source must be one of: web, gps, biometric",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type PunchResponse struct {
	ID              string   `json:"id"`
	EmployeeID      string   `json:"employee_id"`
	EventType       string   `json:"event_type"`
	Timestamp       string   `json:"timestamp"`
	Source          string   `json:"source"`
	Latitude        *float64 `json:"latitude,omitempty"`
	Longitude       *float64 `json:"longitude,omitempty"`
	Address         *string  `json:"address,omitempty"`
	IPAddress       *string  `json:"ip_address,omitempty"`
	HasAddress      bool     `json:"has_address"`
	IsRemoteClockIn bool     `json:"is_remote_clock_in"`
	IsManuallyAdded bool     `json:"is_manually_added"`
	IsAdjusted      bool     `json:"is_adjusted"`
	Note            *string  `json:"note,omitempty"`
	CreatedAt       string   `json:"created_at"`
}

// ========================================
// STATUS & LOG DTOs
// ========================================

type ClockStatusResponse struct {
	Status        *string `json:"status"`
	LastPunchTime *string `json:"last_punch_time"`
	Message       string  `json:"message"`
}

type LogFilter struct {
	StartDate *string `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate   *string `json:"end_date,omitempty"`   // YYYY-MM-DD
	Limit     int     `json:"limit"`
	Skip      int     `json:"skip"`

	// Resolved by the service from StartDate/EndDate; To is exclusive
	From *time.Time `json:"-"`
	To   *time.Time `json:"-"`
}

func (f *LogFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Limit < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must be a positive number",
		})
	}
	if f.Limit == 0 {
		f.Limit = 50 // Default limit
	}
	if f.Limit > 500 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must not exceed 500",
		})
	}

	if f.Skip < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "skip",
			Message: "skip must not be negative",
		})
	}

	if f.StartDate != nil && *f.StartDate != "" {
		if _, valid := validator.IsValidDate(*f.StartDate); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "start_date",
				Message: "start_date must be in YYYY-MM-DD format",
			})
		}
	}

	if f.EndDate != nil && *f.EndDate != "" {
		if _, valid := validator.IsValidDate(*f.EndDate); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date must be in YYYY-MM-DD format",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type AttendanceLogsResponse struct {
	Logs  []PunchResponse `json:"logs"`
	Total int64           `json:"total"`
	Limit int             `json:"limit"`
	Skip  int             `json:"skip"`
}

// ========================================
// MONTHLY DTOs
// ========================================

type MonthlyDayStatus struct {
	Status     string  `json:"status"` // present, partial, absent
	TotalHours float64 `json:"total_hours"`
	PunchCount int     `json:"punch_count"`
	FirstIn    *string `json:"first_in"`
	LastOut    *string `json:"last_out"`
}

type MonthlyAttendanceResponse struct {
	EmployeeID  string                      `json:"employee_id"`
	Year        int                         `json:"year"`
	Month       int                         `json:"month"`
	DailyStatus map[string]MonthlyDayStatus `json:"daily_status"`
}

// ========================================
// SUMMARY DTOs
// ========================================

type SummaryRangeRequest struct {
	StartDate string `json:"start_date"` // YYYY-MM-DD
	EndDate   string `json:"end_date"`   // YYYY-MM-DD
}

func (r *SummaryRangeRequest) Validate() error {
	var errs validator.ValidationErrors

	if _, valid := validator.IsValidDate(r.StartDate); !valid {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "start_date must be in YYYY-MM-DD format",
		})
	}

	if _, valid := validator.IsValidDate(r.EndDate); !valid {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must be in YYYY-MM-DD format",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type InOutPairResponse struct {
	InTime        string  `json:"in_time"`
	OutTime       string  `json:"out_time"`
	DurationHours float64 `json:"duration_hours"`
}

type TimeEntryResponse struct {
	PunchID         string   `json:"punch_id"`
	EventType       string   `json:"event_type"`
	Timestamp       string   `json:"timestamp"`
	Source          string   `json:"source"`
	IsManuallyAdded bool     `json:"is_manually_added"`
	IsAdjusted      bool     `json:"is_adjusted"`
	Latitude        *float64 `json:"latitude,omitempty"`
	Longitude       *float64 `json:"longitude,omitempty"`
	Address         *string  `json:"address,omitempty"`
	IsRemoteClockIn bool     `json:"is_remote_clock_in"`
	Note            *string  `json:"note,omitempty"`
}

type SummaryResponse struct {
	ID                    string              `json:"id"`
	EmployeeID            string              `json:"employee_id"`
	AttendanceDate        string              `json:"attendance_date"`
	DayType               string              `json:"day_type"`
	AttendanceDayStatus   string              `json:"attendance_day_status"`
	TotalEffectiveHours   float64             `json:"total_effective_hours"`
	TotalGrossHours       float64             `json:"total_gross_hours"`
	TotalBreakHours       float64             `json:"total_break_hours"`
	EffectiveHoursText    string              `json:"effective_hours_text"`
	GrossHoursText        string              `json:"gross_hours_text"`
	TotalBreakDuration    string              `json:"total_break_duration"`
	ValidInOutPairs       []InOutPairResponse `json:"valid_in_out_pairs"`
	FirstInOfTheDay       *string             `json:"first_in_of_the_day"`
	LastOutOfTheDay       *string             `json:"last_out_of_the_day"`
	IsArrivedLate         bool                `json:"is_arrived_late"`
	LateArrivalMinutes    float64             `json:"late_arrival_minutes"`
	LateArrivalDifference string              `json:"late_arrival_difference"`
	IsAnomalyDetected     bool                `json:"is_anomaly_detected"`
	Anomalies             []string            `json:"anomalies"`
	IsInMissing           bool                `json:"is_in_missing"`
	TotalTimeEntries      int                 `json:"total_time_entries"`
	TimeEntries           []TimeEntryResponse `json:"time_entries"`
	ShiftID               *string             `json:"shift_id,omitempty"`
	HolidayID             *string             `json:"holiday_id,omitempty"`
	SystemGenerated       bool                `json:"system_generated"`
	CreatedAt             string              `json:"created_at"`
	UpdatedAt             string              `json:"updated_at"`
}
