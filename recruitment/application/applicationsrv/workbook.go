package applicationsrv

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/Abraxas-365/hirehub/recruitment/application"
	"github.com/xuri/excelize/v2"
)

const (
	summarySheet    = "Summary"
	deliveriesSheet = "Deliveries"
)

var deliveryHeaders = []string{
	"Application ID", "Submitted At", "Status",
	"Job Title", "Job Type", "Salary Range", "Job Status",
	"Candidate", "Phone", "Gender", "Age", "Education",
	"School", "Major", "Graduation", "Region", "Full Time", "Résumé",
}

// ExportWorkbook renders Export(filter) as an .xlsx file
func (s *DeliveryService) ExportWorkbook(ctx context.Context, filter application.ExportFilter) ([]byte, error) {
	filter, err := s.normalize(filter)
	if err != nil {
		return nil, err
	}

	rows, err := s.query.Export(ctx, filter)
	if err != nil {
		return nil, err
	}

	data, err := renderWorkbook(rows, filter, time.Now())
	if err != nil {
		return nil, application.ErrExportFailed(err)
	}
	return data, nil
}

func renderWorkbook(rows []application.ExportRow, filter application.ExportFilter, generatedAt time.Time) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(deliveriesSheet); err != nil {
		return nil, err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "left", Vertical: "center"},
	})
	if err != nil {
		return nil, err
	}

	if err := writeSummary(f, rows, filter, generatedAt, headerStyle); err != nil {
		return nil, fmt.Errorf("summary sheet: %w", err)
	}
	if err := writeDeliveries(f, rows, headerStyle); err != nil {
		return nil, fmt.Errorf("deliveries sheet: %w", err)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeSummary(f *excelize.File, rows []application.ExportRow, filter application.ExportFilter, generatedAt time.Time, headerStyle int) error {
	f.SetColWidth(summarySheet, "A", "A", 24)
	f.SetColWidth(summarySheet, "B", "B", 40)

	rangeText := func(t time.Time, ok bool) string {
		if !ok {
			return "-"
		}
		return t.Format("2006-01-02 15:04:05")
	}
	start, hasStart := filter.StartTime()
	end, hasEnd := filter.EndTime()

	missing := 0
	byStatus := make(map[application.ApplicationStatus]int)
	for i := range rows {
		if rows[i].Candidate == nil {
			missing++
		}
		byStatus[rows[i].Status]++
	}

	lines := [][2]any{
		{"Application Export", ""},
		{"Generated:", generatedAt.Format("2006-01-02 15:04:05")},
		{"From:", rangeText(start, hasStart)},
		{"To:", rangeText(end, hasEnd)},
		{"Job Type:", orDash(filter.JobType)},
		{"Job Title:", orDash(filter.JobTitle)},
		{"Rows:", len(rows)},
		{"Missing Candidates:", missing},
	}
	for _, st := range []application.ApplicationStatus{
		application.ApplicationStatusSubmitted,
		application.ApplicationStatusReviewed,
		application.ApplicationStatusInterviewing,
		application.ApplicationStatusRejected,
		application.ApplicationStatusHired,
	} {
		if n := byStatus[st]; n > 0 {
			lines = append(lines, [2]any{string(st) + ":", n})
		}
	}

	for i, line := range lines {
		row := i + 1
		if err := f.SetCellValue(summarySheet, fmt.Sprintf("A%d", row), line[0]); err != nil {
			return err
		}
		if err := f.SetCellValue(summarySheet, fmt.Sprintf("B%d", row), line[1]); err != nil {
			return err
		}
	}
	return f.SetCellStyle(summarySheet, "A1", "B1", headerStyle)
}

func writeDeliveries(f *excelize.File, rows []application.ExportRow, headerStyle int) error {
	for col, h := range deliveryHeaders {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(deliveriesSheet, cell, h); err != nil {
			return err
		}
	}
	lastHeader, _ := excelize.CoordinatesToCellName(len(deliveryHeaders), 1)
	if err := f.SetCellStyle(deliveriesSheet, "A1", lastHeader, headerStyle); err != nil {
		return err
	}

	for i := range rows {
		r := &rows[i]
		values := []any{
			r.ApplicationID.String(),
			r.CreatedAt.Format("2006-01-02 15:04:05"),
			string(r.Status),
			string(r.JobTitle),
			string(r.JobType),
			string(r.SalaryRange),
			r.JobStatus,
		}
		if c := r.Candidate; c != nil {
			values = append(values,
				c.Name, string(c.Phone), string(c.Gender), c.Age,
				c.Education.GetDisplayName(), c.SchoolName, c.Major,
				c.GraduationDate, c.Region, yesNo(c.IsFullTime), c.ResumeFileID.String(),
			)
		}

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(deliveriesSheet, cell, &values); err != nil {
			return err
		}
	}

	return f.SetColWidth(deliveriesSheet, "A", "A", 38)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
