package report

import (
	"context"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
)

const ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Workbook is a rendered spreadsheet ready to be written to a response.
type Workbook struct {
	Filename    string
	ContentType string
	Content     []byte
}

// ReportService renders attendance data into downloadable files
type ReportService interface {
	// ExportSummaryRange renders one row per day of the range, newest first
	ExportSummaryRange(ctx context.Context, employeeID string, req attendance.SummaryRangeRequest) (Workbook, error)
}
