package report

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/report"
	"github.com/xuri/excelize/v2"
)

const summarySheet = "Daily Summary"

var summaryHeaders = []string{
	"Date", "Day Type", "Status", "First In", "Last Out",
	"Effective Hours", "Gross Hours", "Break", "Late", "Anomalies", "Time Entries",
}

type ReportServiceImpl struct {
	attendanceService attendance.AttendanceService
}

func NewReportService(attendanceService attendance.AttendanceService) report.ReportService {
	return &ReportServiceImpl{
		attendanceService: attendanceService,
	}
}

// ExportSummaryRange implements report.ReportService.
func (s *ReportServiceImpl) ExportSummaryRange(ctx context.Context, employeeID string, req attendance.SummaryRangeRequest) (report.Workbook, error) {
	summaries, err := s.attendanceService.GetAttendanceSummaryRange(ctx, employeeID, req)
	if err != nil {
		return report.Workbook{}, err
	}

	content, err := RenderSummaryWorkbook(employeeID, req, summaries)
	if err != nil {
		return report.Workbook{}, fmt.Errorf("failed to render summary workbook: %w", err)
	}

	return report.Workbook{
		Filename:    fmt.Sprintf("attendance_%s_%s_%s.xlsx", employeeID, req.StartDate, req.EndDate),
		ContentType: report.ContentTypeXLSX,
		Content:     content,
	}, nil
}

// RenderSummaryWorkbook writes the summaries in the given order to an xlsx file.
func RenderSummaryWorkbook(employeeID string, req attendance.SummaryRangeRequest, summaries []attendance.SummaryResponse) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(summarySheet)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, err
	}

	lastCol, _ := excelize.ColumnNumberToName(len(summaryHeaders))

	f.SetCellValue(summarySheet, "A1", "ATTENDANCE SUMMARY")
	f.MergeCell(summarySheet, "A1", lastCol+"1")
	f.SetCellStyle(summarySheet, "A1", lastCol+"1", headerStyle)
	f.SetCellValue(summarySheet, "A2", fmt.Sprintf("Employee: %s", employeeID))
	f.SetCellValue(summarySheet, "A3", fmt.Sprintf("Period: %s to %s", req.StartDate, req.EndDate))

	for i, h := range summaryHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 5)
		f.SetCellValue(summarySheet, cell, h)
		f.SetCellStyle(summarySheet, cell, cell, headerStyle)
	}

	row := 6
	for _, s := range summaries {
		values := []interface{}{
			dateOnly(s.AttendanceDate),
			s.DayType,
			s.AttendanceDayStatus,
			clockTime(s.FirstInOfTheDay),
			clockTime(s.LastOutOfTheDay),
			s.TotalEffectiveHours,
			s.TotalGrossHours,
			s.TotalBreakDuration,
			s.LateArrivalDifference,
			strings.Join(s.Anomalies, ", "),
			s.TotalTimeEntries,
		}
		for i, v := range values {
			cell, _ := excelize.CoordinatesToCellName(i+1, row)
			f.SetCellValue(summarySheet, cell, v)
		}
		row++
	}

	f.SetColWidth(summarySheet, "A", "A", 12)
	f.SetColWidth(summarySheet, "B", "C", 10)
	f.SetColWidth(summarySheet, "D", "E", 10)
	f.SetColWidth(summarySheet, "F", "H", 14)
	f.SetColWidth(summarySheet, "I", "I", 14)
	f.SetColWidth(summarySheet, "J", "J", 40)
	f.SetColWidth(summarySheet, "K", "K", 12)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// dateOnly trims an RFC 3339 timestamp to its date.
func dateOnly(ts string) string {
	if len(ts) >= 10 {
		return ts[:10]
	}
	return ts
}

// clockTime extracts HH:MM:SS from an RFC 3339 timestamp.
func clockTime(ts *string) string {
	if ts == nil || len(*ts) < 19 {
		return ""
	}
	return (*ts)[11:19]
}
