package api

import (
	"fmt"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/pegasus-health/hospital-booking/internal/appointment"
	"github.com/pegasus-health/hospital-booking/internal/directory"
	"github.com/pegasus-health/hospital-booking/internal/report"
	"github.com/pegasus-health/hospital-booking/internal/schedule"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// maxImportSize bounds uploaded workbooks to 8 MiB.
const maxImportSize = 8 << 20

func exportAppointmentsHandler(appts *appointment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start, ok := dateQuery(w, r, "startDate")
		if !ok {
			return
		}
		end, ok := dateQuery(w, r, "endDate")
		if !ok {
			return
		}

		// Default to the current month when no range is given.
		now := time.Now().UTC()
		if start == nil {
			s := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
			start = &s
		}
		if end == nil {
			e := start.AddDate(0, 1, 0)
			end = &e
		}

		list, err := appts.ListForExport(r.Context(), *start, *end)
		if err != nil {
			handleDomainError(w, err)
			return
		}

		w.Header().Set("Content-Type", xlsxContentType)
		w.Header().Set("Content-Disposition",
			fmt.Sprintf(`attachment; filename="appointments_%s.xlsx"`, start.Format("20060102")))
		if err := report.WriteAppointmentsXLSX(w, list); err != nil {
			writeError(w, http.StatusInternalServerError, "export_failed", "could not build workbook")
		}
	}
}

func monthlyReportHandler(appts *appointment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		month := time.Now().UTC()
		if raw := r.URL.Query().Get("month"); raw != "" {
			m, err := time.Parse("2006-01", raw)
			if err != nil {
				writeError(w, http.StatusBadRequest, "validation_error", "month must be YYYY-MM")
				return
			}
			month = m
		}

		start := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, time.UTC)
		end := start.AddDate(0, 1, 0)

		list, err := appts.ListForExport(r.Context(), start, end)
		if err != nil {
			handleDomainError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition",
			fmt.Sprintf(`attachment; filename="report_%s.pdf"`, start.Format("2006-01")))
		if err := report.WriteMonthlyReportPDF(w, report.BuildMonthlyStats(start, list)); err != nil {
			writeError(w, http.StatusInternalServerError, "report_failed", "could not build report")
		}
	}
}

func doctorTemplateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", xlsxContentType)
		w.Header().Set("Content-Disposition", `attachment; filename="doctor_import_template.xlsx"`)
		if err := report.WriteDoctorTemplateXLSX(w); err != nil {
			writeError(w, http.StatusInternalServerError, "template_failed", "could not build template")
		}
	}
}

func scheduleTemplateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", xlsxContentType)
		w.Header().Set("Content-Disposition", `attachment; filename="schedule_import_template.xlsx"`)
		if err := report.WriteScheduleTemplateXLSX(w); err != nil {
			writeError(w, http.StatusInternalServerError, "template_failed", "could not build template")
		}
	}
}

type ImportResult struct {
	Succeeded int      `json:"succeeded"`
	Failed    int      `json:"failed"`
	Failures  []string `json:"failures,omitempty"`
}

func importDoctorsHandler(dir *directory.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		file, ok := importFile(w, r)
		if !ok {
			return
		}
		defer file.Close()

		inputs, err := report.ParseDoctorsXLSX(file)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_workbook", err.Error())
			return
		}

		succeeded, failures := dir.BatchImportDoctors(r.Context(), inputs)
		writeData(w, http.StatusOK, "import finished", ImportResult{
			Succeeded: succeeded,
			Failed:    len(failures),
			Failures:  failures,
		})
	}
}

func importSchedulesHandler(schedules *schedule.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		file, ok := importFile(w, r)
		if !ok {
			return
		}
		defer file.Close()

		inputs, err := report.ParseSchedulesXLSX(file)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_workbook", err.Error())
			return
		}

		succeeded, failures := schedules.BatchImport(r.Context(), inputs)
		writeData(w, http.StatusOK, "import finished", ImportResult{
			Succeeded: succeeded,
			Failed:    len(failures),
			Failures:  failures,
		})
	}
}

func importFile(w http.ResponseWriter, r *http.Request) (multipart.File, bool) {
	if err := r.ParseMultipartForm(maxImportSize); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request_body", "expected multipart form with a file field")
		return nil, false
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request_body", "file field is required")
		return nil, false
	}
	return file, true
}
