package attendance

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/validator"
	"github.com/google/uuid"
)

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

type AttendanceServiceImpl struct {
	punchRepo    attendance.PunchRepository
	summaryRepo  attendance.SummaryRepository
	employeeRepo employee.EmployeeRepository
	reconciler   *Reconciler
	notifier     attendance.PunchNotifier
	monthly      SimpleMonthlyClassifier
	policy       Policy
	clock        Clock
}

type Option func(*AttendanceServiceImpl)

// WithClock replaces the system clock.
func WithClock(c Clock) Option {
	return func(s *AttendanceServiceImpl) { s.clock = c }
}

// WithNotifier publishes stored punches to n.
func WithNotifier(n attendance.PunchNotifier) Option {
	return func(s *AttendanceServiceImpl) { s.notifier = n }
}

func NewAttendanceService(
	punchRepo attendance.PunchRepository,
	summaryRepo attendance.SummaryRepository,
	employeeRepo employee.EmployeeRepository,
	reconciler *Reconciler,
	policy Policy,
	opts ...Option,
) *AttendanceServiceImpl {
	s := &AttendanceServiceImpl{
		punchRepo:    punchRepo,
		summaryRepo:  summaryRepo,
		employeeRepo: employeeRepo,
		reconciler:   reconciler,
		policy:       policy.withDefaults(),
		clock:        systemClock{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ClockIn implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ClockIn(ctx context.Context, req attendance.ClockRequest) (attendance.PunchResponse, error) {
	return s.recordPunch(ctx, req, attendance.EventIn)
}

// ClockOut implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ClockOut(ctx context.Context, req attendance.ClockRequest) (attendance.PunchResponse, error) {
	return s.recordPunch(ctx, req, attendance.EventOut)
}

// recordPunch checks the clock state and appends the punch. The status read
// and the insert are not atomic, so two concurrent clock-ins can both pass.
func (s *AttendanceServiceImpl) recordPunch(ctx context.Context, req attendance.ClockRequest, eventType attendance.EventType) (attendance.PunchResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.PunchResponse{}, err
	}
	if err := s.ensureEmployee(ctx, req.EmployeeID); err != nil {
		return attendance.PunchResponse{}, err
	}

	latest, err := s.punchRepo.GetLatest(ctx, req.EmployeeID)
	if err != nil {
		return attendance.PunchResponse{}, fmt.Errorf("failed to get latest punch: %w", err)
	}

	status := clockStatusOf(latest)
	switch eventType {
	case attendance.EventIn:
		if status == attendance.ClockStatusIn {
			return attendance.PunchResponse{}, attendance.ErrAlreadyClockedIn
		}
	case attendance.EventOut:
		if status != attendance.ClockStatusIn {
			return attendance.PunchResponse{}, attendance.ErrNotClockedIn
		}
	}

	punch, err := s.newPunch(req, eventType)
	if err != nil {
		return attendance.PunchResponse{}, err
	}

	created, err := s.punchRepo.Create(ctx, punch)
	if err != nil {
		return attendance.PunchResponse{}, fmt.Errorf("failed to create punch: %w", err)
	}

	slog.InfoContext(ctx, "Punch recorded",
		"employee_id", created.EmployeeID,
		"event_type", created.EventType,
		"source", created.Source,
		"timestamp", created.Timestamp,
	)

	if s.notifier != nil {
		s.notifier.PunchCreated(created)
	}

	created.Timestamp = created.Timestamp.In(s.policy.Location)
	created.CreatedAt = created.CreatedAt.In(s.policy.Location)
	return mapPunchToResponse(created), nil
}

func (s *AttendanceServiceImpl) newPunch(req attendance.ClockRequest, eventType attendance.EventType) (attendance.Punch, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return attendance.Punch{}, fmt.Errorf("failed to generate punch ID: %w", err)
	}

	now := s.clock.Now()
	timestamp := now
	if req.Timestamp != nil {
		timestamp = *req.Timestamp
	}

	punch := attendance.Punch{
		ID:         id.String(),
		EmployeeID: req.EmployeeID,
		EventType:  eventType,
		Timestamp:  timestamp.UTC(),
		Source:     attendance.SourceWeb,
		IPAddress:  req.IPAddress,
		Note:       req.Note,
		CreatedBy:  req.ActingUserID,
		CreatedAt:  now.UTC(),
	}

	if loc := req.Location; loc != nil {
		punch.Latitude = loc.Latitude
		punch.Longitude = loc.Longitude
		punch.Address = loc.Address
		punch.HasAddress = loc.Latitude != nil && loc.Longitude != nil
	}
	// No coordinates means the punch is treated as remote.
	punch.IsRemoteClockIn = !punch.HasAddress
	if punch.HasAddress {
		punch.Source = attendance.SourceGPS
	}
	if req.Source != nil {
		punch.Source = *req.Source
	}

	return punch, nil
}

func clockStatusOf(latest *attendance.Punch) attendance.ClockStatus {
	if latest == nil {
		return attendance.ClockStatusUnknown
	}
	return attendance.ClockStatus(latest.EventType)
}

// GetCurrentStatus implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetCurrentStatus(ctx context.Context, employeeID string) (attendance.ClockStatusResponse, error) {
	if err := s.ensureEmployee(ctx, employeeID); err != nil {
		return attendance.ClockStatusResponse{}, err
	}

	latest, err := s.punchRepo.GetLatest(ctx, employeeID)
	if err != nil {
		return attendance.ClockStatusResponse{}, fmt.Errorf("failed to get latest punch: %w", err)
	}
	if latest == nil {
		return attendance.ClockStatusResponse{Message: "No attendance records found"}, nil
	}

	status := string(latest.EventType)
	lastPunch := formatTime(latest.Timestamp.In(s.policy.Location))
	message := "Currently clocked out"
	if latest.EventType == attendance.EventIn {
		message = "Currently clocked in"
	}

	return attendance.ClockStatusResponse{
		Status:        &status,
		LastPunchTime: &lastPunch,
		Message:       message,
	}, nil
}

// GetTodayAttendance implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetTodayAttendance(ctx context.Context, employeeID string) ([]attendance.PunchResponse, error) {
	if err := s.ensureEmployee(ctx, employeeID); err != nil {
		return nil, err
	}

	from, to := DayWindow(s.clock.Now().In(s.policy.Location), s.policy.Location)
	punches, err := s.punchRepo.ListBetween(ctx, employeeID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list today's punches: %w", err)
	}

	return mapPunchesToResponse(localize(punches, s.policy.Location)), nil
}

// GetAttendanceLogs implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetAttendanceLogs(ctx context.Context, employeeID string, filter attendance.LogFilter) (attendance.AttendanceLogsResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.AttendanceLogsResponse{}, err
	}
	if err := s.ensureEmployee(ctx, employeeID); err != nil {
		return attendance.AttendanceLogsResponse{}, err
	}

	if filter.StartDate != nil && *filter.StartDate != "" {
		day, err := validator.ParseDateIn(*filter.StartDate, s.policy.Location)
		if err != nil {
			return attendance.AttendanceLogsResponse{}, err
		}
		from, _ := DayWindow(day, s.policy.Location)
		filter.From = &from
	}
	if filter.EndDate != nil && *filter.EndDate != "" {
		day, err := validator.ParseDateIn(*filter.EndDate, s.policy.Location)
		if err != nil {
			return attendance.AttendanceLogsResponse{}, err
		}
		_, to := DayWindow(day, s.policy.Location)
		filter.To = &to
	}
	if filter.From != nil && filter.To != nil && !filter.From.Before(*filter.To) {
		return attendance.AttendanceLogsResponse{}, attendance.ErrInvalidDateRange
	}

	punches, total, err := s.punchRepo.ListLogs(ctx, employeeID, filter)
	if err != nil {
		return attendance.AttendanceLogsResponse{}, fmt.Errorf("failed to list attendance logs: %w", err)
	}

	return attendance.AttendanceLogsResponse{
		Logs:  mapPunchesToResponse(localize(punches, s.policy.Location)),
		Total: total,
		Limit: filter.Limit,
		Skip:  filter.Skip,
	}, nil
}

// GetMonthlyAttendance implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetMonthlyAttendance(ctx context.Context, employeeID string, year int, month int) (attendance.MonthlyAttendanceResponse, error) {
	if !validator.IsValidMonth(month) {
		return attendance.MonthlyAttendanceResponse{}, attendance.ErrInvalidMonth
	}
	if year < 1 {
		return attendance.MonthlyAttendanceResponse{}, validator.ValidationErrors{{
			Field:   "year",
			Message: "year must be a positive number",
		}}
	}
	if err := s.ensureEmployee(ctx, employeeID); err != nil {
		return attendance.MonthlyAttendanceResponse{}, err
	}

	loc := s.policy.Location
	monthStart := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, loc)
	monthEnd := monthStart.AddDate(0, 1, 0)

	punches, err := s.punchRepo.ListBetween(ctx, employeeID, monthStart, monthEnd)
	if err != nil {
		return attendance.MonthlyAttendanceResponse{}, fmt.Errorf("failed to list monthly punches: %w", err)
	}

	byDay := make(map[string][]attendance.Punch)
	for _, p := range localize(punches, loc) {
		key := p.Timestamp.Format("2006-01-02")
		byDay[key] = append(byDay[key], p)
	}

	daily := make(map[string]attendance.MonthlyDayStatus)
	for day := monthStart; day.Before(monthEnd); day = day.AddDate(0, 0, 1) {
		key := day.Format("2006-01-02")
		daily[key] = s.monthly.Classify(byDay[key])
	}

	return attendance.MonthlyAttendanceResponse{
		EmployeeID:  employeeID,
		Year:        year,
		Month:       month,
		DailyStatus: daily,
	}, nil
}

// GetAttendanceSummary implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetAttendanceSummary(ctx context.Context, employeeID string, date time.Time) (attendance.SummaryResponse, error) {
	emp, err := s.employeeRepo.GetByID(ctx, employeeID)
	if err != nil {
		return attendance.SummaryResponse{}, err
	}

	summary, err := s.summaryFor(ctx, emp, date)
	if err != nil {
		return attendance.SummaryResponse{}, err
	}

	return MapSummaryToResponse(summary, s.policy.Location), nil
}

// GetAttendanceSummaryRange implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetAttendanceSummaryRange(ctx context.Context, employeeID string, req attendance.SummaryRangeRequest) ([]attendance.SummaryResponse, error) {
	summaries, err := s.SummariesInRange(ctx, employeeID, req)
	if err != nil {
		return nil, err
	}

	responses := make([]attendance.SummaryResponse, 0, len(summaries))
	for _, summary := range summaries {
		responses = append(responses, MapSummaryToResponse(summary, s.policy.Location))
	}
	return responses, nil
}

// SummariesInRange returns one summary per day of the inclusive range,
// reconciling days without a usable stored summary. Newest first.
func (s *AttendanceServiceImpl) SummariesInRange(ctx context.Context, employeeID string, req attendance.SummaryRangeRequest) ([]attendance.DailySummary, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	loc := s.policy.Location
	start, err := validator.ParseDateIn(req.StartDate, loc)
	if err != nil {
		return nil, err
	}
	end, err := validator.ParseDateIn(req.EndDate, loc)
	if err != nil {
		return nil, err
	}
	if start.After(end) {
		return nil, attendance.ErrInvalidDateRange
	}

	var days []time.Time
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		days = append(days, day)
		if len(days) > s.policy.MaxRangeDays {
			return nil, attendance.ErrRangeTooLarge
		}
	}

	emp, err := s.employeeRepo.GetByID(ctx, employeeID)
	if err != nil {
		return nil, err
	}

	summaries := make([]attendance.DailySummary, 0, len(days))
	for _, day := range days {
		summary, err := s.summaryFor(ctx, emp, day)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, summary)
	}

	slices.SortStableFunc(summaries, func(a, b attendance.DailySummary) int {
		return b.AttendanceDate.Compare(a.AttendanceDate)
	})

	return summaries, nil
}

// summaryFor returns the stored summary unless it is missing or predates
// time entries, in which case the day is reconciled.
func (s *AttendanceServiceImpl) summaryFor(ctx context.Context, emp employee.Employee, date time.Time) (attendance.DailySummary, error) {
	dayStart, _ := DayWindow(date, s.policy.Location)

	stored, err := s.summaryRepo.GetByEmployeeAndDate(ctx, emp.ID, dayStart)
	if err != nil {
		return attendance.DailySummary{}, fmt.Errorf("failed to get daily summary: %w", err)
	}
	if stored != nil && !stored.NeedsEnrichment() {
		return *stored, nil
	}

	return s.reconciler.reconcileFor(ctx, emp, dayStart)
}

// ReconcileSummary implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ReconcileSummary(ctx context.Context, employeeID string, date time.Time) (attendance.SummaryResponse, error) {
	summary, err := s.reconciler.Reconcile(ctx, employeeID, date)
	if err != nil {
		return attendance.SummaryResponse{}, err
	}
	return MapSummaryToResponse(summary, s.policy.Location), nil
}

func (s *AttendanceServiceImpl) ensureEmployee(ctx context.Context, employeeID string) error {
	exists, err := s.employeeRepo.Exists(ctx, employeeID)
	if err != nil {
		return fmt.Errorf("failed to check employee: %w", err)
	}
	if !exists {
		return employee.ErrEmployeeNotFound
	}
	return nil
}

var _ attendance.AttendanceService = (*AttendanceServiceImpl)(nil)
