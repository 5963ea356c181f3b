package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pegasus-health/hospital-booking/internal/auth"
	"github.com/pegasus-health/hospital-booking/internal/patient"
)

func registerPatientHandler(patients *patient.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RegisterPatientRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		created, err := patients.Register(r.Context(), patient.RegisterInput{
			Name:       req.Name,
			IdentityID: req.IdentityID,
			Password:   req.Password,
			Phone:      req.Phone,
			Gender:     req.Gender,
		})
		if err != nil {
			handleDomainError(w, err)
			return
		}

		writeData(w, http.StatusCreated, "registration successful", toPatientResponse(created))
	}
}

// canActOnPatient allows patients to touch only their own record; admins
// may touch any.
func canActOnPatient(claims *auth.Claims, patientID string) bool {
	if claims == nil {
		return false
	}
	if claims.UserType == auth.RoleAdmin {
		return true
	}
	return claims.UserType == auth.RolePatient && claims.UserID == patientID
}

func getPatientHandler(patients *patient.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		patientID := chi.URLParam(r, "patientId")
		if !canActOnPatient(GetClaims(r.Context()), patientID) {
			writeError(w, http.StatusForbidden, "forbidden", "cannot access another patient's profile")
			return
		}

		p, err := patients.Get(r.Context(), patientID)
		if err != nil {
			handleDomainError(w, err)
			return
		}
		writeData(w, http.StatusOK, "", toPatientResponse(p))
	}
}

func updatePatientHandler(patients *patient.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		patientID := chi.URLParam(r, "patientId")
		if !canActOnPatient(GetClaims(r.Context()), patientID) {
			writeError(w, http.StatusForbidden, "forbidden", "cannot modify another patient's profile")
			return
		}

		var req UpdatePatientRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		updated, err := patients.UpdateInfo(r.Context(), patientID, patient.UpdateInput{
			Name:     req.Name,
			Password: req.Password,
			Phone:    req.Phone,
			Gender:   req.Gender,
		})
		if err != nil {
			handleDomainError(w, err)
			return
		}
		writeData(w, http.StatusOK, "profile updated", toPatientResponse(updated))
	}
}

func deactivatePatientHandler(patients *patient.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		patientID := chi.URLParam(r, "patientId")
		if !canActOnPatient(GetClaims(r.Context()), patientID) {
			writeError(w, http.StatusForbidden, "forbidden", "cannot deactivate another patient's account")
			return
		}

		if err := patients.Deactivate(r.Context(), patientID); err != nil {
			handleDomainError(w, err)
			return
		}
		writeData(w, http.StatusOK, "account deactivated", nil)
	}
}
