package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/pegasus-health/hospital-booking/internal/appointment"
)

func strptr(s string) *string { return &s }

func TestWriteAppointmentsXLSX(t *testing.T) {
	appts := []appointment.Appointment{
		{
			ApptID:       "202609020001",
			PatientID:    "1000000001",
			PatientName:  strptr("Alice"),
			DoctorID:     "10000001",
			DoctorName:   strptr("Dr Jane"),
			DeptName:     strptr("Cardiology"),
			ApptDatetime: time.Date(2026, 9, 2, 9, 0, 0, 0, time.UTC),
			Status:       appointment.StatusBooked,
			CreatedAt:    time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC),
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteAppointmentsXLSX(&buf, appts))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, appointmentHeaders, rows[0])
	assert.Equal(t, "202609020001", rows[1][0])
	assert.Equal(t, "Alice", rows[1][2])
	assert.Equal(t, "booked", rows[1][7])
}

func TestParseDoctorsXLSXRoundtrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteDoctorTemplateXLSX(&buf))

	inputs, err := ParseDoctorsXLSX(&buf)
	require.NoError(t, err)
	require.Len(t, inputs, 1) // the example row

	assert.Equal(t, "Jane Doe", inputs[0].Name)
	assert.Equal(t, "Cardiology", inputs[0].DeptName)
	require.NotNil(t, inputs[0].Specialty)
	assert.Equal(t, "Arrhythmia", *inputs[0].Specialty)
	assert.Equal(t, "123456", inputs[0].Password)
}

func TestParseSchedulesXLSX(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	for i, h := range scheduleTemplateHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		require.NoError(t, f.SetCellValue(sheet, cell, h))
	}
	row := []any{"10000001", "2026-09-10", "09:00", "12:00", "15"}
	for i, v := range row {
		cell, _ := excelize.CoordinatesToCellName(i+1, 2)
		require.NoError(t, f.SetCellValue(sheet, cell, v))
	}

	var buf bytes.Buffer
	_, err := f.WriteTo(&buf)
	require.NoError(t, err)
	require.NoError(t, f.Close())

	inputs, err := ParseSchedulesXLSX(&buf)
	require.NoError(t, err)
	require.Len(t, inputs, 1)

	assert.Equal(t, "10000001", inputs[0].DoctorID)
	assert.Equal(t, time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC), inputs[0].WorkDate)
	assert.Equal(t, "09:00", inputs[0].StartTime)
	assert.Equal(t, "12:00", inputs[0].EndTime)
	require.NotNil(t, inputs[0].MaxPatients)
	assert.Equal(t, 15, *inputs[0].MaxPatients)
}

func TestParseSchedulesXLSXRejectsBadDate(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetCellValue(sheet, "A1", "Doctor ID"))
	require.NoError(t, f.SetCellValue(sheet, "A2", "10000001"))
	require.NoError(t, f.SetCellValue(sheet, "B2", "next tuesday"))

	var buf bytes.Buffer
	_, err := f.WriteTo(&buf)
	require.NoError(t, err)
	require.NoError(t, f.Close())

	_, err = ParseSchedulesXLSX(&buf)
	assert.Error(t, err)
}

func TestBuildMonthlyStats(t *testing.T) {
	month := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	appts := []appointment.Appointment{
		{Status: appointment.StatusBooked, DeptName: strptr("Cardiology")},
		{Status: appointment.StatusCompleted, DeptName: strptr("Cardiology")},
		{Status: appointment.StatusCancelled, DeptName: strptr("Dermatology")},
		{Status: appointment.StatusBooked},
	}

	stats := BuildMonthlyStats(month, appts)
	assert.Equal(t, 4, stats.Total)
	assert.Equal(t, 2, stats.ByStatus[appointment.StatusBooked])
	assert.Equal(t, 1, stats.ByStatus[appointment.StatusCompleted])
	assert.Equal(t, 1, stats.ByStatus[appointment.StatusCancelled])
	assert.Equal(t, 2, stats.ByDepartment["Cardiology"])
	assert.Equal(t, 1, stats.ByDepartment["Unassigned"])
}

func TestWriteMonthlyReportPDF(t *testing.T) {
	stats := BuildMonthlyStats(time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), []appointment.Appointment{
		{Status: appointment.StatusBooked, DeptName: strptr("Cardiology")},
	})

	var buf bytes.Buffer
	require.NoError(t, WriteMonthlyReportPDF(&buf, stats))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
}
