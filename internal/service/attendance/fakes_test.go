package attendance

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/holiday"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/shift"
)

type fakePunchRepo struct {
	mu      sync.Mutex
	punches []attendance.Punch
	err     error
}

func (f *fakePunchRepo) Create(_ context.Context, p attendance.Punch) (attendance.Punch, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return attendance.Punch{}, f.err
	}
	f.punches = append(f.punches, p)
	return p, nil
}

func (f *fakePunchRepo) GetLatest(_ context.Context, employeeID string) (*attendance.Punch, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	var latest *attendance.Punch
	for i := range f.punches {
		p := f.punches[i]
		if p.EmployeeID != employeeID || p.IsDeleted {
			continue
		}
		if latest == nil || p.Timestamp.After(latest.Timestamp) ||
			(p.Timestamp.Equal(latest.Timestamp) && p.CreatedAt.After(latest.CreatedAt)) {
			latest = &p
		}
	}
	return latest, nil
}

func (f *fakePunchRepo) ListBetween(_ context.Context, employeeID string, from, to time.Time) ([]attendance.Punch, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	var out []attendance.Punch
	for _, p := range f.punches {
		if p.EmployeeID != employeeID || p.IsDeleted {
			continue
		}
		if p.Timestamp.Before(from) || !p.Timestamp.Before(to) {
			continue
		}
		out = append(out, p)
	}
	slices.SortStableFunc(out, func(a, b attendance.Punch) int { return a.Timestamp.Compare(b.Timestamp) })
	return out, nil
}

func (f *fakePunchRepo) ListLogs(_ context.Context, employeeID string, filter attendance.LogFilter) ([]attendance.Punch, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, 0, f.err
	}
	var matched []attendance.Punch
	for _, p := range f.punches {
		if p.EmployeeID != employeeID || p.IsDeleted {
			continue
		}
		if filter.From != nil && p.Timestamp.Before(*filter.From) {
			continue
		}
		if filter.To != nil && !p.Timestamp.Before(*filter.To) {
			continue
		}
		matched = append(matched, p)
	}
	slices.SortStableFunc(matched, func(a, b attendance.Punch) int { return b.Timestamp.Compare(a.Timestamp) })

	total := int64(len(matched))
	start := min(filter.Skip, len(matched))
	end := min(start+filter.Limit, len(matched))
	return matched[start:end], total, nil
}

func (f *fakePunchRepo) ListEmployeeIDsWithPunches(_ context.Context, from, to time.Time) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	var ids []string
	for _, p := range f.punches {
		if p.IsDeleted || p.Timestamp.Before(from) || !p.Timestamp.Before(to) {
			continue
		}
		if !slices.Contains(ids, p.EmployeeID) {
			ids = append(ids, p.EmployeeID)
		}
	}
	return ids, nil
}

type fakeSummaryRepo struct {
	mu        sync.Mutex
	summaries map[string]attendance.DailySummary
	upserts   int
	now       func() time.Time
}

func newFakeSummaryRepo() *fakeSummaryRepo {
	return &fakeSummaryRepo{
		summaries: make(map[string]attendance.DailySummary),
		now:       time.Now,
	}
}

func summaryKey(employeeID string, date time.Time) string {
	return employeeID + "|" + date.Format("2006-01-02")
}

// Upsert mirrors ON CONFLICT DO UPDATE: the stored id and created_at survive.
func (f *fakeSummaryRepo) Upsert(_ context.Context, s attendance.DailySummary) (attendance.DailySummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.upserts++

	key := summaryKey(s.EmployeeID, s.AttendanceDate)
	now := f.now()
	if existing, ok := f.summaries[key]; ok {
		s.ID = existing.ID
		s.CreatedAt = existing.CreatedAt
	} else {
		s.CreatedAt = now
	}
	s.UpdatedAt = now
	f.summaries[key] = s
	return s, nil
}

func (f *fakeSummaryRepo) GetByEmployeeAndDate(_ context.Context, employeeID string, date time.Time) (*attendance.DailySummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.summaries[summaryKey(employeeID, date)]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

type fakeEmployeeRepo struct {
	employees map[string]employee.Employee
}

func newFakeEmployeeRepo(emps ...employee.Employee) *fakeEmployeeRepo {
	repo := &fakeEmployeeRepo{employees: make(map[string]employee.Employee)}
	for _, e := range emps {
		repo.employees[e.ID] = e
	}
	return repo
}

func (f *fakeEmployeeRepo) GetByID(_ context.Context, id string) (employee.Employee, error) {
	e, ok := f.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return e, nil
}

func (f *fakeEmployeeRepo) Exists(_ context.Context, id string) (bool, error) {
	_, ok := f.employees[id]
	return ok, nil
}

type fakeShiftRepo struct {
	shift *shift.Shift
	err   error
}

func (f *fakeShiftRepo) GetActive(context.Context) (*shift.Shift, error) {
	return f.shift, f.err
}

type fakeHolidayRepo struct {
	holidays []holiday.Holiday
	err      error
}

func (f *fakeHolidayRepo) Find(_ context.Context, date time.Time, locationID *string) (*holiday.Holiday, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, h := range f.holidays {
		if !h.IsActive || h.Date.Format("2006-01-02") != date.Format("2006-01-02") {
			continue
		}
		if h.IsGlobal() || (locationID != nil && *h.LocationID == *locationID) {
			found := h
			return &found, nil
		}
	}
	return nil, nil
}

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type recordingNotifier struct {
	punches []attendance.Punch
}

func (n *recordingNotifier) PunchCreated(p attendance.Punch) {
	n.punches = append(n.punches, p)
}

func punchAt(id string, eventType attendance.EventType, ts string) attendance.Punch {
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		panic(err)
	}
	return attendance.Punch{
		ID:         id,
		EmployeeID: "emp-1",
		EventType:  eventType,
		Timestamp:  t,
		Source:     attendance.SourceWeb,
		CreatedAt:  t,
	}
}

func defaultShift() *shift.Shift {
	return &shift.Shift{
		ID:           "shift-1",
		Name:         "General",
		StartTime:    "09:00",
		EndTime:      "18:00",
		PresentHours: 8,
		HalfDayHours: 4,
		IsActive:     true,
	}
}

func strPtr(s string) *string { return &s }
