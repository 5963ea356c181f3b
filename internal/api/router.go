package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/pegasus-health/hospital-booking/internal/appointment"
	"github.com/pegasus-health/hospital-booking/internal/auth"
	"github.com/pegasus-health/hospital-booking/internal/directory"
	"github.com/pegasus-health/hospital-booking/internal/patient"
	"github.com/pegasus-health/hospital-booking/internal/schedule"
)

type RouterConfig struct {
	Patients     *patient.Service
	Directory    *directory.Service
	Schedules    *schedule.Service
	Appointments *appointment.Service
	Tokens       *auth.TokenManager
	PgPool       *pgxpool.Pool
	Redis        *redis.Client
	Logger       zerolog.Logger
	CORSOrigins  []string
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware(cfg.Logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"Content-Disposition", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Health endpoints
	r.Get("/health/live", livenessHandler())
	r.Get("/health/ready", readinessHandler(cfg.PgPool, cfg.Redis))

	// Public surface
	r.Post("/auth/login", loginHandler(cfg.Patients, cfg.Directory))
	r.Post("/patient/register", registerPatientHandler(cfg.Patients))
	r.Get("/department/list", listDepartmentsHandler(cfg.Directory))
	r.Get("/department/{id}", getDepartmentHandler(cfg.Directory))
	r.Get("/doctor/list", listDoctorsHandler(cfg.Directory))
	r.Get("/doctor/page", pageDoctorsHandler(cfg.Directory))
	r.Get("/doctor/{doctorId}", getDoctorHandler(cfg.Directory))
	r.Get("/doctor/{doctorId}/schedule", doctorScheduleHandler(cfg.Schedules))
	r.Get("/schedule/available", listSchedulesHandler(cfg.Schedules))
	r.Get("/schedule/{id}", getScheduleHandler(cfg.Schedules))

	// Authenticated surface
	r.Group(func(r chi.Router) {
		r.Use(Authenticator(cfg.Tokens))

		r.Get("/patient/{patientId}", getPatientHandler(cfg.Patients))
		r.Put("/patient/{patientId}", updatePatientHandler(cfg.Patients))
		r.Delete("/patient/{patientId}", deactivatePatientHandler(cfg.Patients))

		r.Post("/appointment/book", bookAppointmentHandler(cfg.Appointments))
		r.Get("/appointment/my", myAppointmentsHandler(cfg.Appointments))
		r.With(RequireRoles(auth.RoleDoctor, auth.RoleAdmin)).
			Get("/appointment/doctor", doctorAppointmentsHandler(cfg.Appointments))
		r.With(RequireRoles(auth.RoleAdmin)).
			Get("/appointment/page", pageAppointmentsHandler(cfg.Appointments))
		r.Get("/appointment/{apptId}", getAppointmentHandler(cfg.Appointments))
		r.Put("/appointment/{apptId}/cancel", cancelAppointmentHandler(cfg.Appointments))
		r.With(RequireRoles(auth.RoleDoctor, auth.RoleAdmin)).
			Put("/appointment/{apptId}/complete", completeAppointmentHandler(cfg.Appointments))
	})

	// Admin surface
	r.Group(func(r chi.Router) {
		r.Use(Authenticator(cfg.Tokens))
		r.Use(RequireRoles(auth.RoleAdmin))

		r.Post("/department", addDepartmentHandler(cfg.Directory))
		r.Post("/doctor", addDoctorHandler(cfg.Directory))
		r.Put("/doctor/{doctorId}", updateDoctorHandler(cfg.Directory))

		r.Post("/schedule", createScheduleHandler(cfg.Schedules))
		r.Put("/schedule/{id}", updateScheduleHandler(cfg.Schedules))
		r.Delete("/schedule/{id}", deleteScheduleHandler(cfg.Schedules))

		r.Get("/admin/appointment/export", exportAppointmentsHandler(cfg.Appointments))
		r.Get("/admin/report/monthly", monthlyReportHandler(cfg.Appointments))
		r.Get("/admin/template/doctor", doctorTemplateHandler())
		r.Get("/admin/template/schedule", scheduleTemplateHandler())
		r.Post("/admin/doctor/import", importDoctorsHandler(cfg.Directory))
		r.Post("/admin/schedule/import", importSchedulesHandler(cfg.Schedules))
	})

	return r
}
