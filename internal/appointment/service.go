package appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/pegasus-health/hospital-booking/internal/auth"
	"github.com/pegasus-health/hospital-booking/internal/config"
	"github.com/pegasus-health/hospital-booking/internal/directory"
	"github.com/pegasus-health/hospital-booking/internal/patient"
	redisclient "github.com/pegasus-health/hospital-booking/internal/redis"
	"github.com/pegasus-health/hospital-booking/internal/schedule"
)

const (
	EventBooked    = "APPOINTMENT_BOOKED"
	EventCancelled = "APPOINTMENT_CANCELLED"
	EventCompleted = "APPOINTMENT_COMPLETED"
)

var (
	ErrSlotInPast         = errors.New("schedule slot is in the past")
	ErrSlotContended      = errors.New("slot is currently being booked, please retry")
	ErrCancelWindowClosed = errors.New("too close to the appointment time to cancel")
	ErrForbidden          = errors.New("not allowed to act on this appointment")
	ErrPatientInactive    = errors.New("patient account is deactivated")
	ErrDoctorInactive     = errors.New("doctor is not accepting bookings")
)

// PatientDirectory and DoctorDirectory are the read-only lookups the
// coordinator needs from the other domains.
type PatientDirectory interface {
	GetByPatientID(ctx context.Context, patientID string) (*patient.Patient, error)
}

type DoctorDirectory interface {
	GetDoctorByDoctorID(ctx context.Context, doctorID string) (*directory.Doctor, error)
}

// Actor is the authenticated caller, as established by the token middleware.
type Actor struct {
	ID   string
	Role string
}

// Service is the booking coordinator plus the appointment ledger queries.
type Service struct {
	repo      Repository
	schedules schedule.Repository
	patients  PatientDirectory
	doctors   DoctorDirectory
	locker    redisclient.Locker
	cfg       config.Config
	log       zerolog.Logger
	now       func() time.Time
}

func NewService(
	repo Repository,
	schedules schedule.Repository,
	patients PatientDirectory,
	doctors DoctorDirectory,
	locker redisclient.Locker,
	cfg config.Config,
	log zerolog.Logger,
) *Service {
	return &Service{
		repo:      repo,
		schedules: schedules,
		patients:  patients,
		doctors:   doctors,
		locker:    locker,
		cfg:       cfg,
		log:       log.With().Str("component", "booking").Logger(),
		now:       time.Now,
	}
}

// Book reserves a seat on a schedule slot for a patient. The critical
// section runs under a per-slot Redis lock to take contention off the row,
// but correctness rests on the conditional UPDATE inside BookAtomic: under
// any interleaving at most max_patients bookings land.
func (s *Service) Book(ctx context.Context, req BookRequest) (*Appointment, error) {
	p, err := s.patients.GetByPatientID(ctx, req.PatientID)
	if err != nil {
		return nil, err
	}
	if p.Status != patient.StatusActive {
		return nil, ErrPatientInactive
	}

	sched, err := s.schedules.GetByID(ctx, req.ScheduleID)
	if err != nil {
		return nil, err
	}
	if req.DoctorID != "" && req.DoctorID != sched.DoctorID {
		return nil, fmt.Errorf("%w: schedule belongs to a different doctor", schedule.ErrScheduleNotFound)
	}

	doc, err := s.doctors.GetDoctorByDoctorID(ctx, sched.DoctorID)
	if err != nil {
		return nil, err
	}
	if doc.Status != directory.EmploymentActive {
		return nil, ErrDoctorInactive
	}

	apptAt := slotStart(sched)
	if apptAt.Before(s.now()) {
		return nil, ErrSlotInPast
	}

	// The duplicate check runs inside the slot lock so two requests by the
	// same patient cannot both observe zero. The partial unique index on
	// booked appointments is the backstop if the lock is unavailable.
	var created *Appointment
	err = s.locker.WithScheduleLock(ctx, req.ScheduleID, func(lockCtx context.Context) error {
		dup, err := s.repo.CountActiveByPatientAndSchedule(lockCtx, req.PatientID, req.ScheduleID)
		if err != nil {
			return fmt.Errorf("check duplicate booking: %w", err)
		}
		if dup > 0 {
			return ErrDuplicateBooking
		}

		var bookErr error
		created, bookErr = s.bookWithRetries(lockCtx, req, apptAt)
		return bookErr
	})
	if err != nil {
		if errors.Is(err, redisclient.ErrLockNotAcquired) {
			return nil, ErrSlotContended
		}
		return nil, err
	}

	s.log.Info().
		Str("appt_id", created.ApptID).
		Str("patient_id", created.PatientID).
		Int64("schedule_id", req.ScheduleID).
		Msg("appointment booked")
	return created, nil
}

// bookWithRetries re-reads the slot and retries the compare-and-swap when
// a concurrent writer moved the version. A full slot is never retried.
func (s *Service) bookWithRetries(ctx context.Context, req BookRequest, apptAt time.Time) (*Appointment, error) {
	var lastErr error

	for attempt := 0; attempt < s.cfg.CASRetries; attempt++ {
		sched, err := s.schedules.GetByID(ctx, req.ScheduleID)
		if err != nil {
			return nil, err
		}
		if sched.Full() {
			return nil, ErrSlotFull
		}

		created, err := s.repo.BookAtomic(ctx, BookingRecord{
			PatientID:       req.PatientID,
			DoctorID:        sched.DoctorID,
			ScheduleID:      sched.ID,
			ScheduleVersion: sched.Version,
			ApptDatetime:    apptAt,
		})
		if err == nil {
			return created, nil
		}
		if errors.Is(err, ErrSlotFull) {
			return nil, ErrSlotFull
		}
		if errors.Is(err, ErrVersionConflict) || errors.Is(err, ErrApptIDTaken) {
			lastErr = err
			continue
		}
		return nil, err
	}

	return nil, fmt.Errorf("booking did not land after %d attempts: %w", s.cfg.CASRetries, lastErr)
}

// Cancel releases a booked appointment. Patients may only cancel their own
// and only outside the configured cutoff window; admins may cancel any at
// any time.
func (s *Service) Cancel(ctx context.Context, apptID string, reason string, actor Actor) (*Appointment, error) {
	appt, err := s.repo.GetByApptID(ctx, apptID)
	if err != nil {
		return nil, err
	}

	switch actor.Role {
	case auth.RoleAdmin:
		// unrestricted
	case auth.RolePatient:
		if appt.PatientID != actor.ID {
			return nil, ErrForbidden
		}
		if s.cfg.CancelCutoff > 0 && s.now().After(appt.ApptDatetime.Add(-s.cfg.CancelCutoff)) {
			return nil, ErrCancelWindowClosed
		}
	default:
		return nil, ErrForbidden
	}

	if !CanTransition(appt.Status, StatusCancelled) {
		return nil, ErrInvalidTransition
	}

	var reasonPtr *string
	if reason != "" {
		reasonPtr = &reason
	}

	cancelled, err := s.repo.CancelAtomic(ctx, apptID, reasonPtr)
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("appt_id", apptID).
		Str("cancelled_by", actor.Role).
		Msg("appointment cancelled")
	return cancelled, nil
}

// Complete marks the visit as done. Only the doctor on the appointment or
// an admin may do it; slot capacity is unaffected.
func (s *Service) Complete(ctx context.Context, apptID string, actor Actor) (*Appointment, error) {
	appt, err := s.repo.GetByApptID(ctx, apptID)
	if err != nil {
		return nil, err
	}

	switch actor.Role {
	case auth.RoleAdmin:
		// unrestricted
	case auth.RoleDoctor:
		if appt.DoctorID != actor.ID {
			return nil, ErrForbidden
		}
	default:
		return nil, ErrForbidden
	}

	if !CanTransition(appt.Status, StatusCompleted) {
		return nil, ErrInvalidTransition
	}

	completed, err := s.repo.Complete(ctx, apptID)
	if err != nil {
		return nil, err
	}

	s.logEvent(ctx, completed.ApptID, EventCompleted)
	return completed, nil
}

func (s *Service) Get(ctx context.Context, apptID string) (*Appointment, error) {
	return s.repo.GetByApptID(ctx, apptID)
}

func (s *Service) ListByPatient(ctx context.Context, patientID string) ([]Appointment, error) {
	return s.repo.ListByPatient(ctx, patientID)
}

func (s *Service) ListByDoctor(ctx context.Context, doctorID string, start, end *time.Time) ([]Appointment, error) {
	return s.repo.ListByDoctor(ctx, doctorID, start, end)
}

func (s *Service) GetPage(ctx context.Context, f PageFilter) (*Page, error) {
	if f.PageNum < 1 {
		f.PageNum = 1
	}
	if f.PageSize < 1 {
		f.PageSize = 10
	}
	if f.PageSize > 100 {
		f.PageSize = 100
	}

	records, total, err := s.repo.Page(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("page appointments: %w", err)
	}
	return &Page{Records: records, Total: total, PageNum: f.PageNum, PageSize: f.PageSize}, nil
}

func (s *Service) ListForExport(ctx context.Context, start, end time.Time) ([]Appointment, error) {
	return s.repo.ListForExport(ctx, start, end)
}

func (s *Service) logEvent(ctx context.Context, apptID, eventType string) {
	ev := EventLog{
		EventType: eventType,
		ApptID:    &apptID,
		CreatedAt: s.now(),
	}
	if err := s.repo.InsertEvent(ctx, ev); err != nil {
		s.log.Warn().Err(err).Str("appt_id", apptID).Str("event", eventType).Msg("event log insert failed")
	}
}

// slotStart is the slot's date combined with its start time; the booked
// appointment's datetime is fixed to this at creation.
func slotStart(s *schedule.Schedule) time.Time {
	t, err := time.Parse("15:04", s.StartTime)
	if err != nil {
		return s.WorkDate
	}
	d := s.WorkDate
	return time.Date(d.Year(), d.Month(), d.Day(), t.Hour(), t.Minute(), 0, 0, time.UTC)
}
