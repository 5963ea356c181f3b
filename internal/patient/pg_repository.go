package patient

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

const patientColumns = `
	id, patient_id, name, password, identity_id, phone, gender, birth_date,
	status, created_at, updated_at
`

func scanPatient(row pgx.Row) (*Patient, error) {
	var p Patient
	err := row.Scan(
		&p.ID,
		&p.PatientID,
		&p.Name,
		&p.Password,
		&p.IdentityID,
		&p.Phone,
		&p.Gender,
		&p.BirthDate,
		&p.Status,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPatientNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *PgRepository) GetByPatientID(ctx context.Context, patientID string) (*Patient, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+patientColumns+`
		FROM patients
		WHERE patient_id = $1
	`, patientID)
	return scanPatient(row)
}

func (r *PgRepository) GetByIdentityID(ctx context.Context, identityID string) (*Patient, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+patientColumns+`
		FROM patients
		WHERE identity_id = $1
	`, identityID)
	return scanPatient(row)
}

func (r *PgRepository) MaxPatientID(ctx context.Context) (string, error) {
	var max *string
	err := r.pool.QueryRow(ctx, `SELECT max(patient_id) FROM patients`).Scan(&max)
	if err != nil {
		return "", err
	}
	if max == nil {
		return "", nil
	}
	return *max, nil
}

func (r *PgRepository) Create(ctx context.Context, p *Patient) (*Patient, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO patients (patient_id, name, password, identity_id, phone, gender, birth_date, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now(), now())
		RETURNING id, created_at, updated_at
	`, p.PatientID, p.Name, p.Password, p.IdentityID, p.Phone, p.Gender, p.BirthDate, p.Status)

	created := *p
	if err := row.Scan(&created.ID, &created.CreatedAt, &created.UpdatedAt); err != nil {
		return nil, err
	}
	return &created, nil
}

func (r *PgRepository) Update(ctx context.Context, p *Patient) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE patients
		SET name = $2, password = $3, phone = $4, gender = $5, status = $6, updated_at = now()
		WHERE patient_id = $1
	`, p.PatientID, p.Name, p.Password, p.Phone, p.Gender, p.Status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrPatientNotFound
	}
	return nil
}
