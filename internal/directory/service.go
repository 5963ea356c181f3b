package directory

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/pegasus-health/hospital-booking/internal/auth"
)

var (
	ErrBadCredentials = errors.New("wrong user id or password")
	ErrDoctorInactive = errors.New("doctor account is inactive")
	ErrValidation     = errors.New("invalid input")
)

const defaultDoctorPassword = "123456"

type Service struct {
	repo       Repository
	tokens     *auth.TokenManager
	bcryptCost int
	log        zerolog.Logger
}

func NewService(repo Repository, tokens *auth.TokenManager, bcryptCost int, log zerolog.Logger) *Service {
	return &Service{
		repo:       repo,
		tokens:     tokens,
		bcryptCost: bcryptCost,
		log:        log.With().Str("component", "directory").Logger(),
	}
}

// LoginResult is shared by doctor and admin logins.
type LoginResult struct {
	Token    string
	UserID   string
	Name     string
	UserType string
}

func (s *Service) DoctorLogin(ctx context.Context, doctorID, password string) (*LoginResult, error) {
	doctor, err := s.repo.GetDoctorByDoctorID(ctx, doctorID)
	if err != nil {
		if errors.Is(err, ErrDoctorNotFound) {
			return nil, ErrBadCredentials
		}
		return nil, fmt.Errorf("load doctor: %w", err)
	}

	if doctor.Status != EmploymentActive {
		return nil, ErrDoctorInactive
	}
	if !auth.CheckPassword(password, doctor.Password) {
		return nil, ErrBadCredentials
	}

	token, err := s.tokens.Issue(doctor.DoctorID, auth.RoleDoctor, doctor.Name)
	if err != nil {
		return nil, err
	}
	return &LoginResult{Token: token, UserID: doctor.DoctorID, Name: doctor.Name, UserType: auth.RoleDoctor}, nil
}

func (s *Service) AdminLogin(ctx context.Context, username, password string) (*LoginResult, error) {
	admin, err := s.repo.GetAdminByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrAdminNotFound) {
			return nil, ErrBadCredentials
		}
		return nil, fmt.Errorf("load admin: %w", err)
	}

	if !auth.CheckPassword(password, admin.Password) {
		return nil, ErrBadCredentials
	}

	token, err := s.tokens.Issue(admin.Username, auth.RoleAdmin, admin.Name)
	if err != nil {
		return nil, err
	}
	return &LoginResult{Token: token, UserID: admin.Username, Name: admin.Name, UserType: auth.RoleAdmin}, nil
}

func (s *Service) ListDepartments(ctx context.Context) ([]Department, error) {
	return s.repo.ListDepartments(ctx)
}

func (s *Service) GetDepartment(ctx context.Context, id int64) (*Department, error) {
	return s.repo.GetDepartmentByID(ctx, id)
}

func (s *Service) AddDepartment(ctx context.Context, name string, description *string) (*Department, error) {
	if name == "" || len([]rune(name)) > 30 {
		return nil, fmt.Errorf("%w: department name must be 1-30 characters", ErrValidation)
	}
	existing, err := s.repo.GetDepartmentByName(ctx, name)
	if err != nil && !errors.Is(err, ErrDepartmentNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, ErrDepartmentExists
	}
	return s.repo.CreateDepartment(ctx, name, description)
}

func (s *Service) ListDoctors(ctx context.Context, deptID *int64) ([]Doctor, error) {
	doctors, err := s.repo.ListDoctors(ctx, deptID)
	if err != nil {
		return nil, err
	}
	stripPasswords(doctors)
	return doctors, nil
}

func (s *Service) PageDoctors(ctx context.Context, deptID *int64, name string, pageNum, pageSize int) (*DoctorPage, error) {
	if pageNum < 1 {
		pageNum = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}
	if pageSize > 100 {
		pageSize = 100
	}

	records, total, err := s.repo.PageDoctors(ctx, deptID, name, pageSize, (pageNum-1)*pageSize)
	if err != nil {
		return nil, err
	}
	stripPasswords(records)

	return &DoctorPage{Records: records, Total: total, PageNum: pageNum, PageSize: pageSize}, nil
}

func (s *Service) GetDoctor(ctx context.Context, doctorID string) (*Doctor, error) {
	doctor, err := s.repo.GetDoctorByDoctorID(ctx, doctorID)
	if err != nil {
		return nil, err
	}
	doctor.Password = ""
	return doctor, nil
}

func (s *Service) AddDoctor(ctx context.Context, in DoctorInput) (*Doctor, error) {
	if err := validateDoctorInput(in); err != nil {
		return nil, err
	}

	deptID, err := s.resolveDept(ctx, in)
	if err != nil {
		return nil, err
	}

	doctorID := in.DoctorID
	if doctorID == "" {
		maxID, err := s.repo.MaxDoctorID(ctx)
		if err != nil {
			return nil, fmt.Errorf("max doctor id: %w", err)
		}
		doctorID = NextDoctorID(maxID)
	} else {
		if !auth.IsValidDoctorID(doctorID) {
			return nil, fmt.Errorf("%w: doctor id must be 8 digits", ErrValidation)
		}
		if _, err := s.repo.GetDoctorByDoctorID(ctx, doctorID); err == nil {
			return nil, ErrDoctorExists
		} else if !errors.Is(err, ErrDoctorNotFound) {
			return nil, err
		}
	}

	password := in.Password
	if password == "" {
		password = defaultDoctorPassword
	}
	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	doctor := &Doctor{
		DoctorID:  doctorID,
		Name:      in.Name,
		Password:  hash,
		DeptID:    deptID,
		Specialty: in.Specialty,
		Status:    EmploymentActive,
	}

	created, err := s.repo.CreateDoctor(ctx, doctor)
	if err != nil {
		return nil, fmt.Errorf("create doctor: %w", err)
	}

	s.log.Info().Str("doctor_id", created.DoctorID).Msg("doctor created")
	created.Password = ""
	return created, nil
}

func (s *Service) UpdateDoctor(ctx context.Context, doctorID string, in DoctorInput) (*Doctor, error) {
	doctor, err := s.repo.GetDoctorByDoctorID(ctx, doctorID)
	if err != nil {
		return nil, err
	}

	if in.Name != "" {
		if len([]rune(in.Name)) > 20 {
			return nil, fmt.Errorf("%w: name must be at most 20 characters", ErrValidation)
		}
		doctor.Name = in.Name
	}
	if in.Password != "" {
		hash, err := auth.HashPassword(in.Password, s.bcryptCost)
		if err != nil {
			return nil, err
		}
		doctor.Password = hash
	}
	if in.DeptID != nil {
		doctor.DeptID = in.DeptID
	} else if in.DeptName != "" {
		dept, err := s.repo.GetDepartmentByName(ctx, in.DeptName)
		if err != nil && !errors.Is(err, ErrDepartmentNotFound) {
			return nil, err
		}
		if dept != nil {
			doctor.DeptID = &dept.ID
		}
	}
	if in.Specialty != nil {
		if len([]rune(*in.Specialty)) > 200 {
			return nil, fmt.Errorf("%w: specialty must be at most 200 characters", ErrValidation)
		}
		doctor.Specialty = in.Specialty
	}
	if in.Status != nil {
		if *in.Status != EmploymentActive && *in.Status != EmploymentInactive {
			return nil, fmt.Errorf("%w: status must be 0 or 1", ErrValidation)
		}
		doctor.Status = *in.Status
	}

	if err := s.repo.UpdateDoctor(ctx, doctor); err != nil {
		return nil, fmt.Errorf("update doctor: %w", err)
	}

	doctor.Password = ""
	return doctor, nil
}

// BatchImportDoctors creates each entry independently, skipping failures so
// one bad row does not sink the whole import.
func (s *Service) BatchImportDoctors(ctx context.Context, inputs []DoctorInput) (succeeded int, failures []string) {
	for _, in := range inputs {
		if _, err := s.AddDoctor(ctx, in); err != nil {
			s.log.Warn().Err(err).Str("name", in.Name).Msg("doctor import row failed")
			failures = append(failures, fmt.Sprintf("%s: %v", in.Name, err))
			continue
		}
		succeeded++
	}
	return succeeded, failures
}

func (s *Service) resolveDept(ctx context.Context, in DoctorInput) (*int64, error) {
	if in.DeptID != nil {
		return in.DeptID, nil
	}
	if in.DeptName == "" {
		return nil, nil
	}
	dept, err := s.repo.GetDepartmentByName(ctx, in.DeptName)
	if err != nil {
		if errors.Is(err, ErrDepartmentNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &dept.ID, nil
}

func validateDoctorInput(in DoctorInput) error {
	if in.Name == "" || len([]rune(in.Name)) > 20 {
		return fmt.Errorf("%w: name must be 1-20 characters", ErrValidation)
	}
	if in.Password != "" && len(in.Password) < 4 {
		return fmt.Errorf("%w: password must be at least 4 characters", ErrValidation)
	}
	if in.Specialty != nil && len([]rune(*in.Specialty)) > 200 {
		return fmt.Errorf("%w: specialty must be at most 200 characters", ErrValidation)
	}
	return nil
}

// NextDoctorID produces the next 8 digit doctor identifier.
func NextDoctorID(maxID string) string {
	if maxID == "" {
		return "10000001"
	}
	n, err := strconv.ParseInt(maxID, 10, 64)
	if err != nil {
		return "10000001"
	}
	return fmt.Sprintf("%08d", n+1)
}

func stripPasswords(doctors []Doctor) {
	for i := range doctors {
		doctors[i].Password = ""
	}
}
