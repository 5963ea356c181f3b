package patient

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/pegasus-health/hospital-booking/internal/auth"
)

var (
	ErrBadCredentials     = errors.New("wrong patient id or password")
	ErrAccountDeactivated = errors.New("patient account is deactivated")
	ErrValidation         = errors.New("invalid input")
)

// Registration requires the patient to be at least this old, derived from
// the identity number's embedded birth date.
const minRegistrationAge = 10

type Service struct {
	repo       Repository
	tokens     *auth.TokenManager
	bcryptCost int
	log        zerolog.Logger
	now        func() time.Time
}

func NewService(repo Repository, tokens *auth.TokenManager, bcryptCost int, log zerolog.Logger) *Service {
	return &Service{
		repo:       repo,
		tokens:     tokens,
		bcryptCost: bcryptCost,
		log:        log.With().Str("component", "patient").Logger(),
		now:        time.Now,
	}
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (*Patient, error) {
	identityID := auth.NormalizeIdentityID(in.IdentityID)

	if in.Name == "" || len([]rune(in.Name)) > 20 {
		return nil, fmt.Errorf("%w: name must be 1-20 characters", ErrValidation)
	}
	if len(in.Password) < 4 {
		return nil, fmt.Errorf("%w: password must be at least 4 characters", ErrValidation)
	}
	if !auth.IsValidIdentityID(identityID) {
		return nil, fmt.Errorf("%w: malformed identity id", ErrValidation)
	}
	if !auth.IsValidPhone(in.Phone) {
		return nil, fmt.Errorf("%w: malformed phone number", ErrValidation)
	}
	if age := auth.AgeFromIdentity(identityID, s.now()); age < minRegistrationAge {
		return nil, fmt.Errorf("%w: must be at least %d years old to register", ErrValidation, minRegistrationAge)
	}

	existing, err := s.repo.GetByIdentityID(ctx, identityID)
	if err != nil && !errors.Is(err, ErrPatientNotFound) {
		return nil, fmt.Errorf("check identity: %w", err)
	}
	if existing != nil {
		return nil, ErrIdentityTaken
	}

	maxID, err := s.repo.MaxPatientID(ctx)
	if err != nil {
		return nil, fmt.Errorf("max patient id: %w", err)
	}
	patientID := NextPatientID(maxID)

	hash, err := auth.HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	gender := in.Gender
	if gender == "" {
		gender = auth.GenderFromIdentity(identityID)
	}
	if gender != "M" && gender != "F" {
		return nil, fmt.Errorf("%w: gender must be M or F", ErrValidation)
	}
	birthDate := auth.BirthDateFromIdentity(identityID)

	p := &Patient{
		PatientID:  patientID,
		Name:       in.Name,
		Password:   hash,
		IdentityID: identityID,
		Gender:     &gender,
		BirthDate:  &birthDate,
		Status:     StatusActive,
	}
	if in.Phone != "" {
		p.Phone = &in.Phone
	}

	created, err := s.repo.Create(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("create patient: %w", err)
	}

	s.log.Info().Str("patient_id", created.PatientID).Msg("patient registered")
	created.Password = ""
	return created, nil
}

func (s *Service) Login(ctx context.Context, patientID, password string) (token string, p *Patient, err error) {
	p, err = s.repo.GetByPatientID(ctx, patientID)
	if err != nil {
		if errors.Is(err, ErrPatientNotFound) {
			return "", nil, ErrBadCredentials
		}
		return "", nil, fmt.Errorf("load patient: %w", err)
	}

	if p.Status != StatusActive {
		return "", nil, ErrAccountDeactivated
	}
	if !auth.CheckPassword(password, p.Password) {
		return "", nil, ErrBadCredentials
	}

	token, err = s.tokens.Issue(p.PatientID, auth.RolePatient, p.Name)
	if err != nil {
		return "", nil, err
	}
	p.Password = ""
	return token, p, nil
}

func (s *Service) Get(ctx context.Context, patientID string) (*Patient, error) {
	p, err := s.repo.GetByPatientID(ctx, patientID)
	if err != nil {
		return nil, err
	}
	p.Password = ""
	return p, nil
}

// UpdateInfo changes the mutable profile fields. Patient ID and identity
// number can never change.
func (s *Service) UpdateInfo(ctx context.Context, patientID string, in UpdateInput) (*Patient, error) {
	p, err := s.repo.GetByPatientID(ctx, patientID)
	if err != nil {
		return nil, err
	}

	if in.Name != "" {
		if len([]rune(in.Name)) > 20 {
			return nil, fmt.Errorf("%w: name must be at most 20 characters", ErrValidation)
		}
		p.Name = in.Name
	}
	if in.Password != "" {
		if len(in.Password) < 4 {
			return nil, fmt.Errorf("%w: password must be at least 4 characters", ErrValidation)
		}
		hash, err := auth.HashPassword(in.Password, s.bcryptCost)
		if err != nil {
			return nil, err
		}
		p.Password = hash
	}
	if in.Phone != nil {
		if !auth.IsValidPhone(*in.Phone) {
			return nil, fmt.Errorf("%w: malformed phone number", ErrValidation)
		}
		p.Phone = in.Phone
	}
	if in.Gender != nil {
		if *in.Gender != "M" && *in.Gender != "F" {
			return nil, fmt.Errorf("%w: gender must be M or F", ErrValidation)
		}
		p.Gender = in.Gender
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("update patient: %w", err)
	}

	p.Password = ""
	return p, nil
}

func (s *Service) Deactivate(ctx context.Context, patientID string) error {
	p, err := s.repo.GetByPatientID(ctx, patientID)
	if err != nil {
		return err
	}

	p.Status = StatusDeactivated
	if err := s.repo.Update(ctx, p); err != nil {
		return fmt.Errorf("deactivate patient: %w", err)
	}

	s.log.Info().Str("patient_id", patientID).Msg("patient deactivated")
	return nil
}

// NextPatientID produces the next 10 digit patient identifier.
func NextPatientID(maxID string) string {
	if maxID == "" {
		return "1000000001"
	}
	n, err := strconv.ParseInt(maxID, 10, 64)
	if err != nil {
		return "1000000001"
	}
	return fmt.Sprintf("%010d", n+1)
}
