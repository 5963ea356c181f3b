package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/pegasus-health/hospital-booking/internal/appointment"
	"github.com/pegasus-health/hospital-booking/internal/directory"
	"github.com/pegasus-health/hospital-booking/internal/patient"
	"github.com/pegasus-health/hospital-booking/internal/schedule"
)

// Result is the envelope every endpoint answers with. Code mirrors the
// HTTP status; Error carries a stable slug for failures clients branch on
// (notably slot_full).
type Result struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
	Data    any    `json:"data"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeData(w http.ResponseWriter, status int, message string, data any) {
	writeJSON(w, status, Result{Code: status, Message: message, Data: data})
}

func writeError(w http.ResponseWriter, status int, slug, message string) {
	writeJSON(w, status, Result{Code: status, Message: message, Error: slug})
}

// Requests

type LoginRequest struct {
	UserID   string `json:"userId"`
	Password string `json:"password"`
	UserType string `json:"userType"`
}

type RegisterPatientRequest struct {
	Name       string `json:"name"`
	IdentityID string `json:"identityId"`
	Password   string `json:"password"`
	Phone      string `json:"phone"`
	Gender     string `json:"gender"`
}

type UpdatePatientRequest struct {
	Name     string  `json:"name"`
	Password string  `json:"password"`
	Phone    *string `json:"phone"`
	Gender   *string `json:"gender"`
}

type DoctorRequest struct {
	DoctorID  string  `json:"doctorId"`
	Name      string  `json:"name"`
	Password  string  `json:"password"`
	DeptID    *int64  `json:"deptId"`
	DeptName  string  `json:"deptName"`
	Specialty *string `json:"specialty"`
	Status    *int    `json:"status"`
}

type DepartmentRequest struct {
	DeptName    string  `json:"deptName"`
	Description *string `json:"description"`
}

type ScheduleRequest struct {
	DoctorID    string `json:"doctorId"`
	WorkDate    string `json:"workDate"` // 2006-01-02
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
	MaxPatients *int   `json:"maxPatients"`
}

type BookAppointmentRequest struct {
	PatientID  string `json:"patientId"`
	DoctorID   string `json:"doctorId"`
	ScheduleID int64  `json:"scheduleId"`
}

// Responses

type LoginResponse struct {
	Token    string `json:"token"`
	UserID   string `json:"userId"`
	Name     string `json:"name"`
	UserType string `json:"userType"`
}

type PatientResponse struct {
	PatientID  string  `json:"patientId"`
	Name       string  `json:"name"`
	IdentityID string  `json:"identityId"`
	Phone      *string `json:"phone"`
	Gender     *string `json:"gender"`
	BirthDate  string  `json:"birthDate,omitempty"`
	Status     int     `json:"status"`
}

func toPatientResponse(p *patient.Patient) PatientResponse {
	resp := PatientResponse{
		PatientID:  p.PatientID,
		Name:       p.Name,
		IdentityID: p.IdentityID,
		Phone:      p.Phone,
		Gender:     p.Gender,
		Status:     p.Status,
	}
	if p.BirthDate != nil {
		resp.BirthDate = p.BirthDate.Format("2006-01-02")
	}
	return resp
}

type DepartmentResponse struct {
	ID          int64   `json:"id"`
	DeptName    string  `json:"deptName"`
	Description *string `json:"description"`
}

func toDepartmentResponse(d *directory.Department) DepartmentResponse {
	return DepartmentResponse{ID: d.ID, DeptName: d.DeptName, Description: d.Description}
}

type DoctorResponse struct {
	DoctorID  string  `json:"doctorId"`
	Name      string  `json:"name"`
	DeptID    *int64  `json:"deptId"`
	DeptName  *string `json:"deptName"`
	Specialty *string `json:"specialty"`
	Status    int     `json:"status"`
}

func toDoctorResponse(d *directory.Doctor) DoctorResponse {
	return DoctorResponse{
		DoctorID:  d.DoctorID,
		Name:      d.Name,
		DeptID:    d.DeptID,
		DeptName:  d.DeptName,
		Specialty: d.Specialty,
		Status:    d.Status,
	}
}

func toDoctorResponses(doctors []directory.Doctor) []DoctorResponse {
	out := make([]DoctorResponse, 0, len(doctors))
	for i := range doctors {
		out = append(out, toDoctorResponse(&doctors[i]))
	}
	return out
}

type ScheduleResponse struct {
	ID          int64   `json:"id"`
	DoctorID    string  `json:"doctorId"`
	DoctorName  *string `json:"doctorName"`
	DeptName    *string `json:"deptName"`
	WorkDate    string  `json:"workDate"`
	StartTime   string  `json:"startTime"`
	EndTime     string  `json:"endTime"`
	MaxPatients int     `json:"maxPatients"`
	BookedCount int     `json:"bookedCount"`
	Available   int     `json:"available"`
}

func toScheduleResponse(s *schedule.Schedule) ScheduleResponse {
	return ScheduleResponse{
		ID:          s.ID,
		DoctorID:    s.DoctorID,
		DoctorName:  s.DoctorName,
		DeptName:    s.DeptName,
		WorkDate:    s.WorkDate.Format("2006-01-02"),
		StartTime:   s.StartTime,
		EndTime:     s.EndTime,
		MaxPatients: s.MaxPatients,
		BookedCount: s.BookedCount,
		Available:   s.Available(),
	}
}

func toScheduleResponses(schedules []schedule.Schedule) []ScheduleResponse {
	out := make([]ScheduleResponse, 0, len(schedules))
	for i := range schedules {
		out = append(out, toScheduleResponse(&schedules[i]))
	}
	return out
}

type AppointmentResponse struct {
	ApptID       string    `json:"apptId"`
	PatientID    string    `json:"patientId"`
	PatientName  *string   `json:"patientName"`
	DoctorID     string    `json:"doctorId"`
	DoctorName   *string   `json:"doctorName"`
	DeptName     *string   `json:"deptName"`
	ScheduleID   *int64    `json:"scheduleId"`
	ApptDatetime time.Time `json:"apptDatetime"`
	Status       string    `json:"status"`
	CancelReason *string   `json:"cancelReason"`
	CreatedAt    time.Time `json:"createdAt"`
}

func toAppointmentResponse(a *appointment.Appointment) AppointmentResponse {
	return AppointmentResponse{
		ApptID:       a.ApptID,
		PatientID:    a.PatientID,
		PatientName:  a.PatientName,
		DoctorID:     a.DoctorID,
		DoctorName:   a.DoctorName,
		DeptName:     a.DeptName,
		ScheduleID:   a.ScheduleID,
		ApptDatetime: a.ApptDatetime,
		Status:       string(a.Status),
		CancelReason: a.CancelReason,
		CreatedAt:    a.CreatedAt,
	}
}

func toAppointmentResponses(appts []appointment.Appointment) []AppointmentResponse {
	out := make([]AppointmentResponse, 0, len(appts))
	for i := range appts {
		out = append(out, toAppointmentResponse(&appts[i]))
	}
	return out
}

type PageResponse struct {
	Records  any   `json:"records"`
	Total    int64 `json:"total"`
	PageNum  int   `json:"pageNum"`
	PageSize int   `json:"pageSize"`
}
