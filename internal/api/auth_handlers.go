package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/pegasus-health/hospital-booking/internal/auth"
	"github.com/pegasus-health/hospital-booking/internal/directory"
	"github.com/pegasus-health/hospital-booking/internal/patient"
)

func loginHandler(patients *patient.Service, dir *directory.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}
		if req.UserID == "" || req.Password == "" {
			writeError(w, http.StatusBadRequest, "validation_error", "userId and password are required")
			return
		}

		switch strings.ToLower(req.UserType) {
		case auth.RolePatient:
			token, p, err := patients.Login(r.Context(), req.UserID, req.Password)
			if err != nil {
				handleDomainError(w, err)
				return
			}
			writeData(w, http.StatusOK, "login successful", LoginResponse{
				Token: token, UserID: p.PatientID, Name: p.Name, UserType: auth.RolePatient,
			})

		case auth.RoleDoctor:
			res, err := dir.DoctorLogin(r.Context(), req.UserID, req.Password)
			if err != nil {
				handleDomainError(w, err)
				return
			}
			writeData(w, http.StatusOK, "login successful", LoginResponse{
				Token: res.Token, UserID: res.UserID, Name: res.Name, UserType: res.UserType,
			})

		case auth.RoleAdmin:
			res, err := dir.AdminLogin(r.Context(), req.UserID, req.Password)
			if err != nil {
				handleDomainError(w, err)
				return
			}
			writeData(w, http.StatusOK, "login successful", LoginResponse{
				Token: res.Token, UserID: res.UserID, Name: res.Name, UserType: res.UserType,
			})

		default:
			writeError(w, http.StatusBadRequest, "validation_error", "userType must be patient, doctor or admin")
		}
	}
}
