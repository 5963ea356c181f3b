package appointment

import "time"

type Status string

// The appointment lifecycle is strictly one-way: Booked can move to
// Completed or Cancelled, both of which are terminal.
const (
	StatusBooked    Status = "booked"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// CanTransition reports whether from -> to is a legal edge.
func CanTransition(from, to Status) bool {
	return from == StatusBooked && (to == StatusCompleted || to == StatusCancelled)
}

type Appointment struct {
	ID           int64
	ApptID       string // 12 digit number: YYYYMMDD + daily sequence
	PatientID    string
	DoctorID     string
	ScheduleID   *int64    // nil once the slot is deleted; the ledger row outlives it
	ApptDatetime time.Time // slot date + start time, fixed at booking
	Status       Status
	CancelReason *string
	CreatedAt    time.Time
	UpdatedAt    time.Time

	// Joined for display, not appointment columns.
	PatientName *string
	DoctorName  *string
	DeptName    *string
}

type EventLog struct {
	ID        int64
	EventType string
	ApptID    *string
	Payload   []byte
	CreatedAt time.Time
}

type BookRequest struct {
	PatientID  string
	DoctorID   string
	ScheduleID int64
}

// PageFilter narrows the admin/doctor appointment listing.
type PageFilter struct {
	Status    Status
	DeptID    *int64
	StartDate *time.Time
	EndDate   *time.Time
	PageNum   int
	PageSize  int
}

type Page struct {
	Records  []Appointment
	Total    int64
	PageNum  int
	PageSize int
}
