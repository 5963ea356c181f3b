package api

import (
	"errors"
	"net/http"

	"github.com/pegasus-health/hospital-booking/internal/appointment"
	"github.com/pegasus-health/hospital-booking/internal/directory"
	"github.com/pegasus-health/hospital-booking/internal/patient"
	redisclient "github.com/pegasus-health/hospital-booking/internal/redis"
	"github.com/pegasus-health/hospital-booking/internal/schedule"
)

// handleDomainError maps sentinel errors from the domain packages onto the
// taxonomy clients rely on. slot_full gets its own slug so the client can
// prompt "please pick another time" instead of a generic failure.
func handleDomainError(w http.ResponseWriter, err error) {
	switch {
	// 400 validation
	case errors.Is(err, patient.ErrValidation),
		errors.Is(err, directory.ErrValidation),
		errors.Is(err, schedule.ErrValidation):
		writeError(w, http.StatusBadRequest, "validation_error", err.Error())
	case errors.Is(err, appointment.ErrSlotInPast):
		writeError(w, http.StatusBadRequest, "slot_in_past", err.Error())

	// 401 / 403 auth
	case errors.Is(err, patient.ErrBadCredentials),
		errors.Is(err, directory.ErrBadCredentials):
		writeError(w, http.StatusUnauthorized, "bad_credentials", err.Error())
	case errors.Is(err, patient.ErrAccountDeactivated),
		errors.Is(err, directory.ErrDoctorInactive):
		writeError(w, http.StatusUnauthorized, "account_disabled", err.Error())
	case errors.Is(err, appointment.ErrForbidden):
		writeError(w, http.StatusForbidden, "forbidden", err.Error())

	// 404
	case errors.Is(err, patient.ErrPatientNotFound):
		writeError(w, http.StatusNotFound, "patient_not_found", err.Error())
	case errors.Is(err, directory.ErrDoctorNotFound):
		writeError(w, http.StatusNotFound, "doctor_not_found", err.Error())
	case errors.Is(err, directory.ErrDepartmentNotFound):
		writeError(w, http.StatusNotFound, "department_not_found", err.Error())
	case errors.Is(err, schedule.ErrScheduleNotFound):
		writeError(w, http.StatusNotFound, "schedule_not_found", err.Error())
	case errors.Is(err, appointment.ErrApptNotFound):
		writeError(w, http.StatusNotFound, "appointment_not_found", err.Error())

	// 409 conflicts
	case errors.Is(err, appointment.ErrSlotFull):
		writeError(w, http.StatusConflict, "slot_full", "the slot is fully booked, please pick another time")
	case errors.Is(err, appointment.ErrSlotContended),
		errors.Is(err, redisclient.ErrLockNotAcquired):
		writeError(w, http.StatusConflict, "slot_being_booked", "slot is currently being booked, please retry shortly")
	case errors.Is(err, appointment.ErrDuplicateBooking):
		writeError(w, http.StatusConflict, "duplicate_booking", err.Error())
	case errors.Is(err, appointment.ErrInvalidTransition):
		writeError(w, http.StatusConflict, "invalid_status_transition", err.Error())
	case errors.Is(err, appointment.ErrCancelWindowClosed):
		writeError(w, http.StatusConflict, "cancel_window_closed", err.Error())
	case errors.Is(err, appointment.ErrPatientInactive),
		errors.Is(err, appointment.ErrDoctorInactive):
		writeError(w, http.StatusConflict, "account_inactive", err.Error())
	case errors.Is(err, schedule.ErrOverlap):
		writeError(w, http.StatusConflict, "schedule_overlap", err.Error())
	case errors.Is(err, schedule.ErrHasBookings):
		writeError(w, http.StatusConflict, "schedule_has_bookings", "cannot modify or delete a schedule with existing bookings")
	case errors.Is(err, directory.ErrDoctorExists):
		writeError(w, http.StatusConflict, "doctor_exists", err.Error())
	case errors.Is(err, directory.ErrDepartmentExists):
		writeError(w, http.StatusConflict, "department_exists", err.Error())
	case errors.Is(err, patient.ErrIdentityTaken):
		writeError(w, http.StatusConflict, "identity_taken", err.Error())

	default:
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
	}
}
