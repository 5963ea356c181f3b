package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pegasus-health/hospital-booking/internal/directory"
	"github.com/pegasus-health/hospital-booking/internal/schedule"
)

func listDepartmentsHandler(dir *directory.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		departments, err := dir.ListDepartments(r.Context())
		if err != nil {
			handleDomainError(w, err)
			return
		}

		out := make([]DepartmentResponse, 0, len(departments))
		for i := range departments {
			out = append(out, toDepartmentResponse(&departments[i]))
		}
		writeData(w, http.StatusOK, "", out)
	}
}

func getDepartmentHandler(dir *directory.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "validation_error", "department id must be numeric")
			return
		}

		dept, err := dir.GetDepartment(r.Context(), id)
		if err != nil {
			handleDomainError(w, err)
			return
		}
		writeData(w, http.StatusOK, "", toDepartmentResponse(dept))
	}
}

func addDepartmentHandler(dir *directory.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req DepartmentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		dept, err := dir.AddDepartment(r.Context(), req.DeptName, req.Description)
		if err != nil {
			handleDomainError(w, err)
			return
		}
		writeData(w, http.StatusCreated, "department created", toDepartmentResponse(dept))
	}
}

func listDoctorsHandler(dir *directory.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		deptID, ok := optionalInt64Param(w, r, "deptId")
		if !ok {
			return
		}

		doctors, err := dir.ListDoctors(r.Context(), deptID)
		if err != nil {
			handleDomainError(w, err)
			return
		}
		writeData(w, http.StatusOK, "", toDoctorResponses(doctors))
	}
}

func pageDoctorsHandler(dir *directory.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		deptID, ok := optionalInt64Param(w, r, "deptId")
		if !ok {
			return
		}
		pageNum := intQuery(r, "pageNum", 1)
		pageSize := intQuery(r, "pageSize", 10)

		page, err := dir.PageDoctors(r.Context(), deptID, r.URL.Query().Get("name"), pageNum, pageSize)
		if err != nil {
			handleDomainError(w, err)
			return
		}

		writeData(w, http.StatusOK, "", PageResponse{
			Records:  toDoctorResponses(page.Records),
			Total:    page.Total,
			PageNum:  page.PageNum,
			PageSize: page.PageSize,
		})
	}
}

func getDoctorHandler(dir *directory.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doctor, err := dir.GetDoctor(r.Context(), chi.URLParam(r, "doctorId"))
		if err != nil {
			handleDomainError(w, err)
			return
		}
		writeData(w, http.StatusOK, "", toDoctorResponse(doctor))
	}
}

func doctorScheduleHandler(schedules *schedule.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doctorID := chi.URLParam(r, "doctorId")

		var workDate *time.Time
		if raw := r.URL.Query().Get("date"); raw != "" {
			d, err := time.Parse("2006-01-02", raw)
			if err != nil {
				writeError(w, http.StatusBadRequest, "validation_error", "date must be YYYY-MM-DD")
				return
			}
			workDate = &d
		}

		slots, err := schedules.ListAvailable(r.Context(), doctorID, workDate)
		if err != nil {
			handleDomainError(w, err)
			return
		}
		writeData(w, http.StatusOK, "", toScheduleResponses(slots))
	}
}

func addDoctorHandler(dir *directory.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req DoctorRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		doctor, err := dir.AddDoctor(r.Context(), doctorInputFromRequest(req))
		if err != nil {
			handleDomainError(w, err)
			return
		}
		writeData(w, http.StatusCreated, "doctor created", toDoctorResponse(doctor))
	}
}

func updateDoctorHandler(dir *directory.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req DoctorRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		doctor, err := dir.UpdateDoctor(r.Context(), chi.URLParam(r, "doctorId"), doctorInputFromRequest(req))
		if err != nil {
			handleDomainError(w, err)
			return
		}
		writeData(w, http.StatusOK, "doctor updated", toDoctorResponse(doctor))
	}
}

func doctorInputFromRequest(req DoctorRequest) directory.DoctorInput {
	return directory.DoctorInput{
		DoctorID:  req.DoctorID,
		Name:      req.Name,
		Password:  req.Password,
		DeptID:    req.DeptID,
		DeptName:  req.DeptName,
		Specialty: req.Specialty,
		Status:    req.Status,
	}
}

func optionalInt64Param(w http.ResponseWriter, r *http.Request, key string) (*int64, bool) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return nil, true
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", key+" must be numeric")
		return nil, false
	}
	return &n, true
}

func intQuery(r *http.Request, key string, def int) int {
	if raw := r.URL.Query().Get(key); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			return n
		}
	}
	return def
}
