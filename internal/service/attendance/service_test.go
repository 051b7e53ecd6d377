package attendance

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type serviceFixture struct {
	*reconcilerFixture
	notifier *recordingNotifier
	clock    *fixedClock
	svc      *AttendanceServiceImpl
}

func newServiceFixture(now time.Time) *serviceFixture {
	rf := newReconcilerFixture(DefaultPolicy())
	f := &serviceFixture{
		reconcilerFixture: rf,
		notifier:          &recordingNotifier{},
		clock:             &fixedClock{now: now},
	}
	f.svc = NewAttendanceService(rf.punches, rf.summaries, rf.employees, rf.rec, DefaultPolicy(),
		WithClock(f.clock),
		WithNotifier(f.notifier),
	)
	return f
}

func TestClockIn_ThenClockOut(t *testing.T) {
	f := newServiceFixture(time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC))
	ctx := context.Background()

	in, err := f.svc.ClockIn(ctx, attendance.ClockRequest{EmployeeID: "emp-1"})
	require.NoError(t, err)
	assert.Equal(t, "IN", in.EventType)
	assert.Equal(t, "2024-01-10T09:00:00Z", in.Timestamp)
	assert.Equal(t, "web", in.Source)
	assert.True(t, in.IsRemoteClockIn)
	assert.False(t, in.HasAddress)

	f.clock.now = f.clock.now.Add(8 * time.Hour)
	out, err := f.svc.ClockOut(ctx, attendance.ClockRequest{EmployeeID: "emp-1"})
	require.NoError(t, err)
	assert.Equal(t, "OUT", out.EventType)

	assert.Len(t, f.punches.punches, 2)
	assert.Len(t, f.notifier.punches, 2)
}

func TestClockIn_AlreadyClockedIn(t *testing.T) {
	f := newServiceFixture(time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC))
	ctx := context.Background()

	_, err := f.svc.ClockIn(ctx, attendance.ClockRequest{EmployeeID: "emp-1"})
	require.NoError(t, err)

	_, err = f.svc.ClockIn(ctx, attendance.ClockRequest{EmployeeID: "emp-1"})
	assert.ErrorIs(t, err, attendance.ErrAlreadyClockedIn)
	assert.Len(t, f.punches.punches, 1)
}

func TestClockOut_NotClockedIn(t *testing.T) {
	f := newServiceFixture(time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC))
	ctx := context.Background()

	_, err := f.svc.ClockOut(ctx, attendance.ClockRequest{EmployeeID: "emp-1"})
	assert.ErrorIs(t, err, attendance.ErrNotClockedIn)

	_, err = f.svc.ClockIn(ctx, attendance.ClockRequest{EmployeeID: "emp-1"})
	require.NoError(t, err)
	f.clock.now = f.clock.now.Add(time.Hour)
	_, err = f.svc.ClockOut(ctx, attendance.ClockRequest{EmployeeID: "emp-1"})
	require.NoError(t, err)

	f.clock.now = f.clock.now.Add(time.Hour)
	_, err = f.svc.ClockOut(ctx, attendance.ClockRequest{EmployeeID: "emp-1"})
	assert.ErrorIs(t, err, attendance.ErrNotClockedIn)
	assert.Empty(t, f.notifier.punches[2:])
}

func TestClockIn_Validation(t *testing.T) {
	f := newServiceFixture(time.Now())

	_, err := f.svc.ClockIn(context.Background(), attendance.ClockRequest{})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "employee_id is required", verrs.ToMap()["employee_id"])

	_, err = f.svc.ClockIn(context.Background(), attendance.ClockRequest{EmployeeID: "ghost"})
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestClockIn_CallerTimestampAndLocation(t *testing.T) {
	f := newServiceFixture(time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC))
	backdated := time.Date(2024, 1, 10, 8, 30, 0, 0, time.UTC)
	lat, lng := -6.2, 106.8

	resp, err := f.svc.ClockIn(context.Background(), attendance.ClockRequest{
		EmployeeID:   "emp-1",
		Timestamp:    &backdated,
		Note:         strPtr("offline punch"),
		Location:     &attendance.LocationAddress{Latitude: &lat, Longitude: &lng, Address: strPtr("Jl. Sudirman")},
		ActingUserID: strPtr("user-9"),
	})
	require.NoError(t, err)

	assert.Equal(t, "2024-01-10T08:30:00Z", resp.Timestamp)
	assert.Equal(t, "2024-01-10T12:00:00Z", resp.CreatedAt)
	assert.Equal(t, "gps", resp.Source)
	assert.True(t, resp.HasAddress)
	assert.False(t, resp.IsRemoteClockIn)

	stored := f.punches.punches[0]
	require.NotNil(t, stored.CreatedBy)
	assert.Equal(t, "user-9", *stored.CreatedBy)
	assert.NotEmpty(t, stored.ID)
}

func TestClockIn_LatitudeOnlyIsRemote(t *testing.T) {
	f := newServiceFixture(time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC))
	lat := -6.2

	resp, err := f.svc.ClockIn(context.Background(), attendance.ClockRequest{
		EmployeeID: "emp-1",
		Location:   &attendance.LocationAddress{Latitude: &lat},
	})
	require.NoError(t, err)
	assert.False(t, resp.HasAddress)
	assert.True(t, resp.IsRemoteClockIn)
	assert.Equal(t, "web", resp.Source)
}

func TestGetCurrentStatus(t *testing.T) {
	f := newServiceFixture(time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC))
	ctx := context.Background()

	status, err := f.svc.GetCurrentStatus(ctx, "emp-1")
	require.NoError(t, err)
	assert.Nil(t, status.Status)
	assert.Nil(t, status.LastPunchTime)

	_, err = f.svc.ClockIn(ctx, attendance.ClockRequest{EmployeeID: "emp-1"})
	require.NoError(t, err)

	status, err = f.svc.GetCurrentStatus(ctx, "emp-1")
	require.NoError(t, err)
	require.NotNil(t, status.Status)
	assert.Equal(t, "IN", *status.Status)
	assert.Equal(t, "2024-01-10T09:00:00Z", *status.LastPunchTime)
	assert.Equal(t, "Currently clocked in", status.Message)

	_, err = f.svc.GetCurrentStatus(ctx, "ghost")
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestGetCurrentStatus_IgnoresTombstoned(t *testing.T) {
	f := newServiceFixture(time.Now())
	out := punchAt("p2", attendance.EventOut, "2024-01-10T17:00:00Z")
	out.IsDeleted = true
	f.punches.punches = []attendance.Punch{
		punchAt("p1", attendance.EventIn, "2024-01-10T09:00:00Z"),
		out,
	}

	status, err := f.svc.GetCurrentStatus(context.Background(), "emp-1")
	require.NoError(t, err)
	require.NotNil(t, status.Status)
	assert.Equal(t, "IN", *status.Status)
}

func TestGetTodayAttendance(t *testing.T) {
	f := newServiceFixture(time.Date(2024, 1, 10, 20, 0, 0, 0, time.UTC))
	f.punches.punches = append(scenarioPunches(), punchAt("old", attendance.EventIn, "2024-01-09T09:00:00Z"))

	today, err := f.svc.GetTodayAttendance(context.Background(), "emp-1")
	require.NoError(t, err)
	require.Len(t, today, 4)
	assert.Equal(t, "p1", today[0].ID)
	assert.Equal(t, "p4", today[3].ID)
}

func TestGetAttendanceLogs(t *testing.T) {
	f := newServiceFixture(time.Now())
	f.punches.punches = append(scenarioPunches(), punchAt("old", attendance.EventIn, "2024-01-09T09:00:00Z"))
	ctx := context.Background()

	logs, err := f.svc.GetAttendanceLogs(ctx, "emp-1", attendance.LogFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(5), logs.Total)
	assert.Equal(t, 50, logs.Limit)
	assert.Equal(t, "p4", logs.Logs[0].ID)

	start, end := "2024-01-10", "2024-01-10"
	logs, err = f.svc.GetAttendanceLogs(ctx, "emp-1", attendance.LogFilter{StartDate: &start, EndDate: &end, Limit: 2, Skip: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(4), logs.Total)
	require.Len(t, logs.Logs, 2)
	assert.Equal(t, "p3", logs.Logs[0].ID)
	assert.Equal(t, 1, logs.Skip)

	badEnd := "2024-01-01"
	_, err = f.svc.GetAttendanceLogs(ctx, "emp-1", attendance.LogFilter{StartDate: &start, EndDate: &badEnd})
	assert.ErrorIs(t, err, attendance.ErrInvalidDateRange)
}

func TestGetAttendanceLogs_DateFilterCoversWholeDay(t *testing.T) {
	f := newServiceFixture(time.Now())
	f.punches.punches = []attendance.Punch{
		punchAt("late", attendance.EventOut, "2024-01-10T23:59:59.9995Z"),
		punchAt("next", attendance.EventIn, "2024-01-11T00:00:00Z"),
	}
	ctx := context.Background()

	day := "2024-01-10"
	logs, err := f.svc.GetAttendanceLogs(ctx, "emp-1", attendance.LogFilter{StartDate: &day, EndDate: &day})
	require.NoError(t, err)
	assert.Equal(t, int64(1), logs.Total)
	require.Len(t, logs.Logs, 1)
	assert.Equal(t, "late", logs.Logs[0].ID)

	nextDay := "2024-01-11"
	_, err = f.svc.GetAttendanceLogs(ctx, "emp-1", attendance.LogFilter{StartDate: &nextDay, EndDate: &day})
	assert.ErrorIs(t, err, attendance.ErrInvalidDateRange)
}

func TestGetMonthlyAttendance_IncludesLastMicrosecondOfMonth(t *testing.T) {
	f := newServiceFixture(time.Now())
	f.punches.punches = []attendance.Punch{
		punchAt("p1", attendance.EventIn, "2024-01-31T23:59:59.9995Z"),
	}

	resp, err := f.svc.GetMonthlyAttendance(context.Background(), "emp-1", 2024, 1)
	require.NoError(t, err)
	assert.Len(t, resp.DailyStatus, 31)
	assert.Equal(t, 1, resp.DailyStatus["2024-01-31"].PunchCount)
}

func TestGetMonthlyAttendance(t *testing.T) {
	f := newServiceFixture(time.Now())
	f.punches.punches = append(scenarioPunches(),
		punchAt("x1", attendance.EventIn, "2024-01-11T09:00:00Z"),
		punchAt("y1", attendance.EventIn, "2024-02-01T09:00:00Z"),
	)
	ctx := context.Background()

	resp, err := f.svc.GetMonthlyAttendance(ctx, "emp-1", 2024, 1)
	require.NoError(t, err)
	assert.Len(t, resp.DailyStatus, 31)
	assert.Equal(t, MonthlyStatusPresent, resp.DailyStatus["2024-01-10"].Status)
	assert.Equal(t, 4, resp.DailyStatus["2024-01-10"].PunchCount)
	assert.Equal(t, 8.83, resp.DailyStatus["2024-01-10"].TotalHours)
	assert.Equal(t, MonthlyStatusPartial, resp.DailyStatus["2024-01-11"].Status)
	assert.Equal(t, MonthlyStatusAbsent, resp.DailyStatus["2024-01-12"].Status)
	assert.NotContains(t, resp.DailyStatus, "2024-02-01")

	// monthly view never writes summaries
	assert.Zero(t, f.summaries.upserts)

	_, err = f.svc.GetMonthlyAttendance(ctx, "emp-1", 2024, 13)
	assert.ErrorIs(t, err, attendance.ErrInvalidMonth)
}

func TestGetAttendanceSummary_ReconcilesOnMissAndReusesStored(t *testing.T) {
	f := newServiceFixture(time.Now())
	f.punches.punches = scenarioPunches()
	ctx := context.Background()
	date := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)

	first, err := f.svc.GetAttendanceSummary(ctx, "emp-1", date)
	require.NoError(t, err)
	assert.Equal(t, "half-day", first.AttendanceDayStatus)
	assert.Equal(t, "2024-01-10T00:00:00Z", first.AttendanceDate)
	assert.Equal(t, 1, f.summaries.upserts)

	second, err := f.svc.GetAttendanceSummary(ctx, "emp-1", date)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 1, f.summaries.upserts)

	_, err = f.svc.GetAttendanceSummary(ctx, "ghost", date)
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestGetAttendanceSummary_EnrichesLegacySummary(t *testing.T) {
	f := newServiceFixture(time.Now())
	f.punches.punches = scenarioPunches()
	date := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	f.summaries.summaries[summaryKey("emp-1", date)] = attendance.DailySummary{
		ID:             "legacy",
		EmployeeID:     "emp-1",
		AttendanceDate: date,
		Status:         attendance.DayStatusAbsent,
	}

	resp, err := f.svc.GetAttendanceSummary(context.Background(), "emp-1", date)
	require.NoError(t, err)
	assert.Equal(t, "legacy", resp.ID)
	assert.Equal(t, "half-day", resp.AttendanceDayStatus)
	assert.Len(t, resp.TimeEntries, 4)
	assert.Equal(t, 1, f.summaries.upserts)
}

func TestGetAttendanceSummaryRange_NewestFirst(t *testing.T) {
	f := newServiceFixture(time.Now())
	f.punches.punches = scenarioPunches()
	ctx := context.Background()

	// pre-store the middle day so days are computed out of order
	_, err := f.svc.GetAttendanceSummary(ctx, "emp-1", time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	resp, err := f.svc.GetAttendanceSummaryRange(ctx, "emp-1", attendance.SummaryRangeRequest{
		StartDate: "2024-01-09",
		EndDate:   "2024-01-11",
	})
	require.NoError(t, err)
	require.Len(t, resp, 3)
	assert.Equal(t, "2024-01-11T00:00:00Z", resp[0].AttendanceDate)
	assert.Equal(t, "2024-01-10T00:00:00Z", resp[1].AttendanceDate)
	assert.Equal(t, "2024-01-09T00:00:00Z", resp[2].AttendanceDate)
	assert.Equal(t, "absent", resp[0].AttendanceDayStatus)
	assert.Equal(t, "half-day", resp[1].AttendanceDayStatus)
	assert.NotNil(t, resp[0].TimeEntries)
	assert.Equal(t, 3, f.summaries.upserts)
}

func TestGetAttendanceSummaryRange_Errors(t *testing.T) {
	f := newServiceFixture(time.Now())
	ctx := context.Background()

	_, err := f.svc.GetAttendanceSummaryRange(ctx, "emp-1", attendance.SummaryRangeRequest{StartDate: "2024-01-11", EndDate: "2024-01-09"})
	assert.ErrorIs(t, err, attendance.ErrInvalidDateRange)

	_, err = f.svc.GetAttendanceSummaryRange(ctx, "emp-1", attendance.SummaryRangeRequest{StartDate: "2024-01-01", EndDate: "2024-12-31"})
	assert.ErrorIs(t, err, attendance.ErrRangeTooLarge)

	_, err = f.svc.GetAttendanceSummaryRange(ctx, "emp-1", attendance.SummaryRangeRequest{StartDate: "01/01/2024", EndDate: "2024-01-02"})
	var verrs validator.ValidationErrors
	assert.ErrorAs(t, err, &verrs)

	_, err = f.svc.GetAttendanceSummaryRange(ctx, "ghost", attendance.SummaryRangeRequest{StartDate: "2024-01-01", EndDate: "2024-01-02"})
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestReconcileSummary_ForcesRecompute(t *testing.T) {
	f := newServiceFixture(time.Now())
	f.punches.punches = scenarioPunches()
	ctx := context.Background()
	date := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)

	_, err := f.svc.GetAttendanceSummary(ctx, "emp-1", date)
	require.NoError(t, err)

	f.punches.punches = append(f.punches.punches, punchAt("p5", attendance.EventIn, "2024-01-10T19:00:00Z"))
	resp, err := f.svc.ReconcileSummary(ctx, "emp-1", date)
	require.NoError(t, err)
	assert.Equal(t, 5, resp.TotalTimeEntries)
	assert.True(t, resp.IsInMissing)
	assert.Equal(t, 2, f.summaries.upserts)
}
