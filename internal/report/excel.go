package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/pegasus-health/hospital-booking/internal/appointment"
	"github.com/pegasus-health/hospital-booking/internal/directory"
	"github.com/pegasus-health/hospital-booking/internal/schedule"
)

const sheetName = "Sheet1"

var appointmentHeaders = []string{
	"Appt No", "Patient ID", "Patient Name", "Doctor ID", "Doctor Name",
	"Department", "Appointment Time", "Status", "Cancel Reason", "Created At",
}

// WriteAppointmentsXLSX streams an appointment export workbook.
func WriteAppointmentsXLSX(w io.Writer, appts []appointment.Appointment) error {
	f := excelize.NewFile()
	defer f.Close()

	for i, h := range appointmentHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}

	for row, a := range appts {
		values := []any{
			a.ApptID,
			a.PatientID,
			deref(a.PatientName),
			a.DoctorID,
			deref(a.DoctorName),
			deref(a.DeptName),
			a.ApptDatetime.Format("2006-01-02 15:04"),
			string(a.Status),
			deref(a.CancelReason),
			a.CreatedAt.Format("2006-01-02 15:04"),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			if err := f.SetCellValue(sheetName, cell, v); err != nil {
				return fmt.Errorf("write row %d: %w", row+2, err)
			}
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

var doctorTemplateHeaders = []string{"Name", "Department", "Specialty", "Password"}

// WriteDoctorTemplateXLSX emits the import template admins fill in.
func WriteDoctorTemplateXLSX(w io.Writer) error {
	return writeTemplate(w, doctorTemplateHeaders, []any{"Jane Doe", "Cardiology", "Arrhythmia", "123456"})
}

var scheduleTemplateHeaders = []string{"Doctor ID", "Work Date", "Start Time", "End Time", "Max Patients"}

func WriteScheduleTemplateXLSX(w io.Writer) error {
	example := []any{"10000001", time.Now().AddDate(0, 0, 7).Format("2006-01-02"), "09:00", "12:00", 20}
	return writeTemplate(w, scheduleTemplateHeaders, example)
}

func writeTemplate(w io.Writer, headers []string, example []any) error {
	f := excelize.NewFile()
	defer f.Close()

	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}
	for i, v := range example {
		cell, _ := excelize.CoordinatesToCellName(i+1, 2)
		if err := f.SetCellValue(sheetName, cell, v); err != nil {
			return fmt.Errorf("write example row: %w", err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// ParseDoctorsXLSX reads rows of the doctor template. The header row is
// skipped; blank rows are ignored.
func ParseDoctorsXLSX(r io.Reader) ([]directory.DoctorInput, error) {
	rows, err := readRows(r)
	if err != nil {
		return nil, err
	}

	var inputs []directory.DoctorInput
	for i, row := range rows {
		if i == 0 || blankRow(row) {
			continue
		}
		in := directory.DoctorInput{
			Name:     cellAt(row, 0),
			DeptName: cellAt(row, 1),
			Password: cellAt(row, 3),
		}
		if spec := cellAt(row, 2); spec != "" {
			in.Specialty = &spec
		}
		inputs = append(inputs, in)
	}
	return inputs, nil
}

func ParseSchedulesXLSX(r io.Reader) ([]schedule.ScheduleInput, error) {
	rows, err := readRows(r)
	if err != nil {
		return nil, err
	}

	var inputs []schedule.ScheduleInput
	for i, row := range rows {
		if i == 0 || blankRow(row) {
			continue
		}

		workDate, err := time.Parse("2006-01-02", cellAt(row, 1))
		if err != nil {
			return nil, fmt.Errorf("row %d: bad work date %q", i+1, cellAt(row, 1))
		}

		in := schedule.ScheduleInput{
			DoctorID:  cellAt(row, 0),
			WorkDate:  workDate,
			StartTime: cellAt(row, 2),
			EndTime:   cellAt(row, 3),
		}
		if raw := cellAt(row, 4); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil {
				return nil, fmt.Errorf("row %d: bad max patients %q", i+1, raw)
			}
			in.MaxPatients = &n
		}
		inputs = append(inputs, in)
	}
	return inputs, nil
}

func readRows(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheet, err)
	}
	return rows, nil
}

func cellAt(row []string, idx int) string {
	if idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func blankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
