package directory

import (
	"context"
	"errors"
)

var (
	ErrDepartmentNotFound = errors.New("department not found")
	ErrDepartmentExists   = errors.New("department already exists")
	ErrDoctorNotFound     = errors.New("doctor not found")
	ErrDoctorExists       = errors.New("doctor id already exists")
	ErrAdminNotFound      = errors.New("admin not found")
)

// Repository contains all DB interactions needed by the directory service.
type Repository interface {
	ListDepartments(ctx context.Context) ([]Department, error)
	GetDepartmentByID(ctx context.Context, id int64) (*Department, error)
	GetDepartmentByName(ctx context.Context, name string) (*Department, error)
	CreateDepartment(ctx context.Context, name string, description *string) (*Department, error)

	ListDoctors(ctx context.Context, deptID *int64) ([]Doctor, error)
	PageDoctors(ctx context.Context, deptID *int64, name string, limit, offset int) ([]Doctor, int64, error)
	GetDoctorByDoctorID(ctx context.Context, doctorID string) (*Doctor, error)
	MaxDoctorID(ctx context.Context) (string, error)
	CreateDoctor(ctx context.Context, d *Doctor) (*Doctor, error)
	UpdateDoctor(ctx context.Context, d *Doctor) error

	GetAdminByUsername(ctx context.Context, username string) (*Admin, error)
}
