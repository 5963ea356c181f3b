package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

var ErrValidation = errors.New("invalid input")

const defaultMaxPatients = 20

type Service struct {
	repo Repository
	log  zerolog.Logger
	now  func() time.Time
}

func NewService(repo Repository, log zerolog.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log.With().Str("component", "schedule").Logger(),
		now:  time.Now,
	}
}

func (s *Service) Get(ctx context.Context, id int64) (*Schedule, error) {
	return s.repo.GetByID(ctx, id)
}

// ListAvailable returns slots for a date and/or doctor, full slots included
// so clients can render them as "fully booked" rather than hiding them.
func (s *Service) ListAvailable(ctx context.Context, doctorID string, workDate *time.Time) ([]Schedule, error) {
	switch {
	case doctorID != "" && workDate != nil:
		return s.repo.ListByDoctorAndDate(ctx, doctorID, truncateDate(*workDate))
	case doctorID != "":
		return s.repo.ListAvailableByDoctor(ctx, doctorID, truncateDate(s.now()))
	case workDate != nil:
		return s.repo.ListAvailableByDate(ctx, truncateDate(*workDate))
	default:
		return nil, fmt.Errorf("%w: doctorId or date is required", ErrValidation)
	}
}

func (s *Service) Create(ctx context.Context, in ScheduleInput) (*Schedule, error) {
	if err := s.validate(in); err != nil {
		return nil, err
	}

	maxPatients := defaultMaxPatients
	if in.MaxPatients != nil {
		maxPatients = *in.MaxPatients
	}

	workDate := truncateDate(in.WorkDate)

	existing, err := s.repo.ListByDoctorAndDate(ctx, in.DoctorID, workDate)
	if err != nil {
		return nil, fmt.Errorf("check overlap: %w", err)
	}
	for i := range existing {
		if overlaps(in.StartTime, in.EndTime, existing[i].StartTime, existing[i].EndTime) {
			return nil, ErrOverlap
		}
	}

	created, err := s.repo.Create(ctx, &Schedule{
		DoctorID:    in.DoctorID,
		WorkDate:    workDate,
		StartTime:   in.StartTime,
		EndTime:     in.EndTime,
		MaxPatients: maxPatients,
	})
	if err != nil {
		return nil, fmt.Errorf("create schedule: %w", err)
	}

	s.log.Info().
		Int64("schedule_id", created.ID).
		Str("doctor_id", created.DoctorID).
		Str("work_date", workDate.Format("2006-01-02")).
		Msg("schedule created")
	return created, nil
}

// Update changes a slot's window or capacity. Times are frozen once the
// slot has bookings, and capacity can never drop below the booked count.
func (s *Service) Update(ctx context.Context, id int64, in ScheduleInput) (*Schedule, error) {
	sched, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	newDate := sched.WorkDate
	if !in.WorkDate.IsZero() {
		newDate = truncateDate(in.WorkDate)
	}
	newStart := sched.StartTime
	if in.StartTime != "" {
		newStart = in.StartTime
	}
	newEnd := sched.EndTime
	if in.EndTime != "" {
		newEnd = in.EndTime
	}

	if sched.BookedCount > 0 {
		if !newDate.Equal(sched.WorkDate) || newStart != sched.StartTime || newEnd != sched.EndTime {
			return nil, ErrHasBookings
		}
	}
	if !validTime(newStart) || !validTime(newEnd) || newStart >= newEnd {
		return nil, fmt.Errorf("%w: start time must be before end time", ErrValidation)
	}

	if in.MaxPatients != nil {
		if *in.MaxPatients < sched.BookedCount {
			return nil, fmt.Errorf("%w: max patients cannot be below the booked count", ErrValidation)
		}
		sched.MaxPatients = *in.MaxPatients
	}
	sched.WorkDate = newDate
	sched.StartTime = newStart
	sched.EndTime = newEnd

	if err := s.repo.Update(ctx, sched); err != nil {
		return nil, fmt.Errorf("update schedule: %w", err)
	}
	return sched, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// BatchImport creates each entry independently, skipping failures.
func (s *Service) BatchImport(ctx context.Context, inputs []ScheduleInput) (succeeded int, failures []string) {
	for _, in := range inputs {
		if _, err := s.Create(ctx, in); err != nil {
			s.log.Warn().Err(err).
				Str("doctor_id", in.DoctorID).
				Str("work_date", in.WorkDate.Format("2006-01-02")).
				Msg("schedule import row failed")
			failures = append(failures, fmt.Sprintf("%s %s: %v", in.DoctorID, in.WorkDate.Format("2006-01-02"), err))
			continue
		}
		succeeded++
	}
	return succeeded, failures
}

func (s *Service) validate(in ScheduleInput) error {
	if in.DoctorID == "" {
		return fmt.Errorf("%w: doctorId is required", ErrValidation)
	}
	if !validTime(in.StartTime) || !validTime(in.EndTime) {
		return fmt.Errorf("%w: times must be HH:MM", ErrValidation)
	}
	if in.StartTime >= in.EndTime {
		return fmt.Errorf("%w: start time must be before end time", ErrValidation)
	}
	if in.MaxPatients != nil && *in.MaxPatients <= 0 {
		return fmt.Errorf("%w: max patients must be positive", ErrValidation)
	}
	if !truncateDate(in.WorkDate).After(truncateDate(s.now())) {
		return fmt.Errorf("%w: work date must be in the future", ErrValidation)
	}
	return nil
}

func validTime(t string) bool {
	if _, err := time.Parse("15:04", t); err != nil {
		return false
	}
	return true
}

// overlaps treats zero-padded HH:MM strings as ordered values.
func overlaps(aStart, aEnd, bStart, bEnd string) bool {
	return aStart < bEnd && bStart < aEnd
}

func truncateDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
