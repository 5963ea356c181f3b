package patient

import "time"

const (
	StatusDeactivated = 0
	StatusActive      = 1
)

type Patient struct {
	ID         int64
	PatientID  string // 10 digit public identifier, immutable
	Name       string
	Password   string // bcrypt hash, never serialized
	IdentityID string // 18 char identity number, immutable
	Phone      *string
	Gender     *string // M or F
	BirthDate  *time.Time
	Status     int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type RegisterInput struct {
	Name       string
	IdentityID string
	Password   string
	Phone      string
	Gender     string // optional, derived from the identity number when empty
}

type UpdateInput struct {
	Name     string
	Password string
	Phone    *string
	Gender   *string
}
