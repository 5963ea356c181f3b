package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pegasus-health/hospital-booking/internal/schedule"
)

func listSchedulesHandler(schedules *schedule.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var workDate *time.Time
		if raw := r.URL.Query().Get("date"); raw != "" {
			d, err := time.Parse("2006-01-02", raw)
			if err != nil {
				writeError(w, http.StatusBadRequest, "validation_error", "date must be YYYY-MM-DD")
				return
			}
			workDate = &d
		}

		slots, err := schedules.ListAvailable(r.Context(), r.URL.Query().Get("doctorId"), workDate)
		if err != nil {
			handleDomainError(w, err)
			return
		}
		writeData(w, http.StatusOK, "", toScheduleResponses(slots))
	}
}

func getScheduleHandler(schedules *schedule.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "validation_error", "schedule id must be numeric")
			return
		}

		sched, err := schedules.Get(r.Context(), id)
		if err != nil {
			handleDomainError(w, err)
			return
		}
		writeData(w, http.StatusOK, "", toScheduleResponse(sched))
	}
}

func createScheduleHandler(schedules *schedule.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ScheduleRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		in, err := scheduleInputFromRequest(req)
		if err != nil {
			writeError(w, http.StatusBadRequest, "validation_error", "workDate must be YYYY-MM-DD")
			return
		}

		created, err := schedules.Create(r.Context(), in)
		if err != nil {
			handleDomainError(w, err)
			return
		}
		writeData(w, http.StatusCreated, "schedule created", toScheduleResponse(created))
	}
}

func updateScheduleHandler(schedules *schedule.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "validation_error", "schedule id must be numeric")
			return
		}

		var req ScheduleRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		in, err := scheduleInputFromRequest(req)
		if err != nil {
			writeError(w, http.StatusBadRequest, "validation_error", "workDate must be YYYY-MM-DD")
			return
		}

		updated, err := schedules.Update(r.Context(), id, in)
		if err != nil {
			handleDomainError(w, err)
			return
		}
		writeData(w, http.StatusOK, "schedule updated", toScheduleResponse(updated))
	}
}

func deleteScheduleHandler(schedules *schedule.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "validation_error", "schedule id must be numeric")
			return
		}

		if err := schedules.Delete(r.Context(), id); err != nil {
			handleDomainError(w, err)
			return
		}
		writeData(w, http.StatusOK, "schedule deleted", nil)
	}
}

func scheduleInputFromRequest(req ScheduleRequest) (schedule.ScheduleInput, error) {
	in := schedule.ScheduleInput{
		DoctorID:    req.DoctorID,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		MaxPatients: req.MaxPatients,
	}
	if req.WorkDate != "" {
		d, err := time.Parse("2006-01-02", req.WorkDate)
		if err != nil {
			return in, err
		}
		in.WorkDate = d
	}
	return in, nil
}
