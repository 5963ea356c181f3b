package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pegasus-health/hospital-booking/internal/appointment"
	"github.com/pegasus-health/hospital-booking/internal/auth"
)

func actorFromClaims(claims *auth.Claims) appointment.Actor {
	if claims == nil {
		return appointment.Actor{}
	}
	return appointment.Actor{ID: claims.UserID, Role: claims.UserType}
}

func bookAppointmentHandler(appts *appointment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req BookAppointmentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}
		if req.ScheduleID == 0 {
			writeError(w, http.StatusBadRequest, "validation_error", "scheduleId is required")
			return
		}

		// Patients can only book for themselves; admins may book on a
		// patient's behalf.
		claims := GetClaims(r.Context())
		switch claims.UserType {
		case auth.RolePatient:
			if req.PatientID == "" {
				req.PatientID = claims.UserID
			}
			if req.PatientID != claims.UserID {
				writeError(w, http.StatusForbidden, "forbidden", "cannot book for another patient")
				return
			}
		case auth.RoleAdmin:
			if req.PatientID == "" {
				writeError(w, http.StatusBadRequest, "validation_error", "patientId is required")
				return
			}
		default:
			writeError(w, http.StatusForbidden, "forbidden", "insufficient role")
			return
		}

		created, err := appts.Book(r.Context(), appointment.BookRequest{
			PatientID:  req.PatientID,
			DoctorID:   req.DoctorID,
			ScheduleID: req.ScheduleID,
		})
		if err != nil {
			handleDomainError(w, err)
			return
		}
		writeData(w, http.StatusCreated, "appointment booked", toAppointmentResponse(created))
	}
}

func cancelAppointmentHandler(appts *appointment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cancelled, err := appts.Cancel(
			r.Context(),
			chi.URLParam(r, "apptId"),
			r.URL.Query().Get("reason"),
			actorFromClaims(GetClaims(r.Context())),
		)
		if err != nil {
			handleDomainError(w, err)
			return
		}
		writeData(w, http.StatusOK, "appointment cancelled", toAppointmentResponse(cancelled))
	}
}

func completeAppointmentHandler(appts *appointment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		completed, err := appts.Complete(r.Context(), chi.URLParam(r, "apptId"), actorFromClaims(GetClaims(r.Context())))
		if err != nil {
			handleDomainError(w, err)
			return
		}
		writeData(w, http.StatusOK, "appointment completed", toAppointmentResponse(completed))
	}
}

func getAppointmentHandler(appts *appointment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		appt, err := appts.Get(r.Context(), chi.URLParam(r, "apptId"))
		if err != nil {
			handleDomainError(w, err)
			return
		}

		claims := GetClaims(r.Context())
		switch claims.UserType {
		case auth.RoleAdmin:
		case auth.RolePatient:
			if appt.PatientID != claims.UserID {
				writeError(w, http.StatusForbidden, "forbidden", "cannot view another patient's appointment")
				return
			}
		case auth.RoleDoctor:
			if appt.DoctorID != claims.UserID {
				writeError(w, http.StatusForbidden, "forbidden", "cannot view another doctor's appointment")
				return
			}
		}
		writeData(w, http.StatusOK, "", toAppointmentResponse(appt))
	}
}

func myAppointmentsHandler(appts *appointment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := GetClaims(r.Context())
		list, err := appts.ListByPatient(r.Context(), claims.UserID)
		if err != nil {
			handleDomainError(w, err)
			return
		}
		writeData(w, http.StatusOK, "", toAppointmentResponses(list))
	}
}

func doctorAppointmentsHandler(appts *appointment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := GetClaims(r.Context())

		doctorID := claims.UserID
		if claims.UserType == auth.RoleAdmin {
			if q := r.URL.Query().Get("doctorId"); q != "" {
				doctorID = q
			}
		}

		start, ok := dateQuery(w, r, "startDate")
		if !ok {
			return
		}
		end, ok := dateQuery(w, r, "endDate")
		if !ok {
			return
		}

		list, err := appts.ListByDoctor(r.Context(), doctorID, start, end)
		if err != nil {
			handleDomainError(w, err)
			return
		}
		writeData(w, http.StatusOK, "", toAppointmentResponses(list))
	}
}

func pageAppointmentsHandler(appts *appointment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter := appointment.PageFilter{
			Status:   appointment.Status(r.URL.Query().Get("status")),
			PageNum:  intQuery(r, "pageNum", 1),
			PageSize: intQuery(r, "pageSize", 10),
		}
		if raw := r.URL.Query().Get("deptId"); raw != "" {
			n, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				writeError(w, http.StatusBadRequest, "validation_error", "deptId must be numeric")
				return
			}
			filter.DeptID = &n
		}
		var ok bool
		if filter.StartDate, ok = dateQuery(w, r, "startDate"); !ok {
			return
		}
		if filter.EndDate, ok = dateQuery(w, r, "endDate"); !ok {
			return
		}

		page, err := appts.GetPage(r.Context(), filter)
		if err != nil {
			handleDomainError(w, err)
			return
		}
		writeData(w, http.StatusOK, "", PageResponse{
			Records:  toAppointmentResponses(page.Records),
			Total:    page.Total,
			PageNum:  page.PageNum,
			PageSize: page.PageSize,
		})
	}
}

func dateQuery(w http.ResponseWriter, r *http.Request, key string) (*time.Time, bool) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return nil, true
	}
	d, err := time.Parse("2006-01-02", raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", key+" must be YYYY-MM-DD")
		return nil, false
	}
	return &d, true
}
