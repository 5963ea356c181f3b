package schedule

import "time"

// Schedule is one bookable block of doctor time. booked_count is guarded
// by the version column: it is only ever changed through conditional
// updates that carry the version observed at read time.
type Schedule struct {
	ID          int64
	DoctorID    string
	WorkDate    time.Time // calendar date, midnight UTC
	StartTime   string    // HH:MM
	EndTime     string    // HH:MM
	MaxPatients int
	BookedCount int
	Version     int
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// Joined for display, not schedule columns.
	DoctorName *string
	DeptName   *string
}

// Available is the remaining bookable capacity.
func (s *Schedule) Available() int {
	return s.MaxPatients - s.BookedCount
}

func (s *Schedule) Full() bool {
	return s.BookedCount >= s.MaxPatients
}

type ScheduleInput struct {
	DoctorID    string
	WorkDate    time.Time
	StartTime   string
	EndTime     string
	MaxPatients *int
}
