// Package export builds downloadable spreadsheet reports.
package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/campus-hub/course-service/internal/models"
)

const rosterSheet = "Roster"

// BuildRosterWorkbook renders a course's enrollments as an xlsx
// workbook: one row per enrolled student with progress and enrollment
// date. Enrollments must be preloaded with their Student.
func BuildRosterWorkbook(course *models.Course, enrollments []*models.Enrollment) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName(f.GetSheetName(0), rosterSheet); err != nil {
		return nil, fmt.Errorf("failed to name roster sheet: %w", err)
	}

	headers := []string{"Student", "Email", "Progress (%)", "Enrolled At"}
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(rosterSheet, cell, h); err != nil {
			return nil, fmt.Errorf("failed to write roster header: %w", err)
		}
	}

	for row, enrollment := range enrollments {
		values := []interface{}{
			enrollment.Student.Username,
			enrollment.Student.Email,
			enrollment.Progress,
			enrollment.EnrolledAt.Format("2006-01-02 15:04:05"),
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(rosterSheet, cell, v); err != nil {
				return nil, fmt.Errorf("failed to write roster row: %w", err)
			}
		}
	}

	return f, nil
}

// RosterFilename names the download after the course.
func RosterFilename(course *models.Course) string {
	return fmt.Sprintf("course-%d-roster.xlsx", course.ID)
}
