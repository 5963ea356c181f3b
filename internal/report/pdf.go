package report

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/pegasus-health/hospital-booking/internal/appointment"
)

// MonthlyStats aggregates one month of appointments for the report.
type MonthlyStats struct {
	Month        time.Time
	Total        int
	ByStatus     map[appointment.Status]int
	ByDepartment map[string]int
}

func BuildMonthlyStats(month time.Time, appts []appointment.Appointment) MonthlyStats {
	stats := MonthlyStats{
		Month:        month,
		ByStatus:     make(map[appointment.Status]int),
		ByDepartment: make(map[string]int),
	}
	for _, a := range appts {
		stats.Total++
		stats.ByStatus[a.Status]++
		dept := "Unassigned"
		if a.DeptName != nil && *a.DeptName != "" {
			dept = *a.DeptName
		}
		stats.ByDepartment[dept]++
	}
	return stats
}

// WriteMonthlyReportPDF renders the admin monthly appointment report.
func WriteMonthlyReportPDF(w io.Writer, stats MonthlyStats) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 12, fmt.Sprintf("Appointment Report - %s", stats.Month.Format("January 2006")))
	pdf.Ln(16)

	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 8, fmt.Sprintf("Total appointments: %d", stats.Total))
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "By status")
	pdf.Ln(10)
	pdf.SetFont("Helvetica", "", 11)
	for _, status := range []appointment.Status{appointment.StatusBooked, appointment.StatusCompleted, appointment.StatusCancelled} {
		pdf.Cell(60, 7, string(status))
		pdf.Cell(0, 7, fmt.Sprintf("%d", stats.ByStatus[status]))
		pdf.Ln(7)
	}
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "By department")
	pdf.Ln(10)
	pdf.SetFont("Helvetica", "", 11)

	depts := make([]string, 0, len(stats.ByDepartment))
	for d := range stats.ByDepartment {
		depts = append(depts, d)
	}
	sort.Strings(depts)
	for _, d := range depts {
		pdf.Cell(60, 7, d)
		pdf.Cell(0, 7, fmt.Sprintf("%d", stats.ByDepartment[d]))
		pdf.Ln(7)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render monthly report: %w", err)
	}
	return nil
}
