package schedule

import (
	"context"
	"errors"
	"time"
)

var (
	ErrScheduleNotFound = errors.New("schedule not found")
	ErrOverlap          = errors.New("doctor already has an overlapping schedule")
	ErrHasBookings      = errors.New("schedule has existing bookings")
)

// Repository contains all DB interactions needed by the schedule service.
// booked_count is deliberately absent from the write surface here: the only
// code allowed to move it is the booking coordinator's transactional path
// in the appointment package.
type Repository interface {
	GetByID(ctx context.Context, id int64) (*Schedule, error)
	ListByDoctorAndDate(ctx context.Context, doctorID string, workDate time.Time) ([]Schedule, error)
	ListAvailableByDoctor(ctx context.Context, doctorID string, from time.Time) ([]Schedule, error)
	ListAvailableByDate(ctx context.Context, workDate time.Time) ([]Schedule, error)
	Create(ctx context.Context, s *Schedule) (*Schedule, error)
	Update(ctx context.Context, s *Schedule) error
	Delete(ctx context.Context, id int64) error
}
