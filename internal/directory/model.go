package directory

import "time"

// Doctor employment status. Inactive doctors cannot log in and cannot
// receive new bookings.
const (
	EmploymentInactive = 0
	EmploymentActive   = 1
)

type Department struct {
	ID          int64
	DeptName    string
	Description *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Doctor struct {
	ID        int64
	DoctorID  string // 8 digit public identifier
	Name      string
	Password  string // bcrypt hash, never serialized
	DeptID    *int64
	Specialty *string
	Status    int
	CreatedAt time.Time
	UpdatedAt time.Time

	// Joined for display, not a doctors column.
	DeptName *string
}

type Admin struct {
	ID        int64
	Username  string
	Password  string
	Name      string
	CreatedAt time.Time
}

// DoctorInput carries admin-supplied doctor fields for create/update.
type DoctorInput struct {
	DoctorID  string // optional on create, generated when empty
	Name      string
	Password  string // optional, defaulted on create
	DeptID    *int64
	DeptName  string // fallback department lookup by name
	Specialty *string
	Status    *int
}

type DoctorPage struct {
	Records  []Doctor
	Total    int64
	PageNum  int
	PageSize int
}
