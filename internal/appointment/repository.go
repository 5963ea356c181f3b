package appointment

import (
	"context"
	"errors"
	"time"
)

var (
	ErrApptNotFound = errors.New("appointment not found")

	// ErrSlotFull means the capacity check failed: the slot had no free
	// seats at the atomic check. Recoverable by picking another slot.
	ErrSlotFull = errors.New("schedule slot is fully booked")

	// ErrVersionConflict means the optimistic version moved between the
	// read and the conditional update. The caller retries with a fresh read.
	ErrVersionConflict = errors.New("schedule version conflict")

	// ErrApptIDTaken means the generated appointment number collided with
	// a concurrent insert. The caller retries the whole transaction.
	ErrApptIDTaken = errors.New("appointment number already taken")

	// ErrDuplicateBooking means the patient already holds a booked
	// appointment on the slot. A partial unique index on
	// (patient_id, schedule_id) WHERE status = 'booked' enforces it
	// inside the booking transaction, so it holds under any interleaving.
	ErrDuplicateBooking = errors.New("patient already has a booking on this slot")

	ErrInvalidTransition = errors.New("invalid appointment status transition")
)

// BookingRecord is everything the atomic booking transaction needs.
type BookingRecord struct {
	PatientID       string
	DoctorID        string
	ScheduleID      int64
	ScheduleVersion int
	ApptDatetime    time.Time
}

// Repository contains all DB interactions needed by the booking coordinator
// and ledger queries. BookAtomic and CancelAtomic are the only two code
// paths in the system that may change schedules.booked_count, and each does
// so inside a single transaction together with the ledger write.
type Repository interface {
	// BookAtomic increments the slot's booked_count (conditional on the
	// observed version and remaining capacity), allocates the day's next
	// appointment number and inserts the Booked appointment, all in one
	// transaction. Fails with ErrSlotFull, ErrVersionConflict,
	// ErrDuplicateBooking or ErrApptIDTaken without any partial effect.
	BookAtomic(ctx context.Context, rec BookingRecord) (*Appointment, error)

	// CancelAtomic flips a Booked appointment to Cancelled and decrements
	// the slot's booked_count in one transaction. ErrInvalidTransition if
	// the appointment is not currently Booked.
	CancelAtomic(ctx context.Context, apptID string, reason *string) (*Appointment, error)

	// Complete flips Booked to Completed. booked_count is untouched:
	// capacity tracks commitments, not attendance.
	Complete(ctx context.Context, apptID string) (*Appointment, error)

	GetByApptID(ctx context.Context, apptID string) (*Appointment, error)
	CountActiveByPatientAndSchedule(ctx context.Context, patientID string, scheduleID int64) (int, error)
	ListByPatient(ctx context.Context, patientID string) ([]Appointment, error)
	ListByDoctor(ctx context.Context, doctorID string, start, end *time.Time) ([]Appointment, error)
	Page(ctx context.Context, f PageFilter) ([]Appointment, int64, error)
	ListForExport(ctx context.Context, start, end time.Time) ([]Appointment, error)

	InsertEvent(ctx context.Context, ev EventLog) error
}
