package patient

import (
	"context"
	"errors"
)

var (
	ErrPatientNotFound = errors.New("patient not found")
	ErrIdentityTaken   = errors.New("identity id already registered")
)

// Repository contains all DB interactions needed by the patient service.
type Repository interface {
	GetByPatientID(ctx context.Context, patientID string) (*Patient, error)
	GetByIdentityID(ctx context.Context, identityID string) (*Patient, error)
	MaxPatientID(ctx context.Context) (string, error)
	Create(ctx context.Context, p *Patient) (*Patient, error)
	Update(ctx context.Context, p *Patient) error
}
