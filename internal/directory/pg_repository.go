package directory

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

// Helpers

func scanDepartment(row pgx.Row) (*Department, error) {
	var d Department
	err := row.Scan(
		&d.ID,
		&d.DeptName,
		&d.Description,
		&d.CreatedAt,
		&d.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrDepartmentNotFound
		}
		return nil, err
	}
	return &d, nil
}

func scanDoctor(row pgx.Row) (*Doctor, error) {
	var d Doctor
	err := row.Scan(
		&d.ID,
		&d.DoctorID,
		&d.Name,
		&d.Password,
		&d.DeptID,
		&d.Specialty,
		&d.Status,
		&d.CreatedAt,
		&d.UpdatedAt,
		&d.DeptName,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrDoctorNotFound
		}
		return nil, err
	}
	return &d, nil
}

const doctorColumns = `
	d.id, d.doctor_id, d.name, d.password, d.dept_id, d.specialty, d.status,
	d.created_at, d.updated_at, dep.dept_name
`

// Interface methods

func (r *PgRepository) ListDepartments(ctx context.Context) ([]Department, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, dept_name, description, created_at, updated_at
		FROM departments
		ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Department
	for rows.Next() {
		d, err := scanDepartment(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *d)
	}
	return result, rows.Err()
}

func (r *PgRepository) GetDepartmentByID(ctx context.Context, id int64) (*Department, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, dept_name, description, created_at, updated_at
		FROM departments
		WHERE id = $1
	`, id)
	return scanDepartment(row)
}

func (r *PgRepository) GetDepartmentByName(ctx context.Context, name string) (*Department, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, dept_name, description, created_at, updated_at
		FROM departments
		WHERE dept_name = $1
	`, name)
	return scanDepartment(row)
}

func (r *PgRepository) CreateDepartment(ctx context.Context, name string, description *string) (*Department, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO departments (dept_name, description, created_at, updated_at)
		VALUES ($1, $2, now(), now())
		RETURNING id, dept_name, description, created_at, updated_at
	`, name, description)
	return scanDepartment(row)
}

func (r *PgRepository) ListDoctors(ctx context.Context, deptID *int64) ([]Doctor, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+doctorColumns+`
		FROM doctors d
		LEFT JOIN departments dep ON dep.id = d.dept_id
		WHERE ($1::bigint IS NULL OR d.dept_id = $1)
		ORDER BY d.doctor_id
	`, deptID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Doctor
	for rows.Next() {
		d, err := scanDoctor(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *d)
	}
	return result, rows.Err()
}

func (r *PgRepository) PageDoctors(ctx context.Context, deptID *int64, name string, limit, offset int) ([]Doctor, int64, error) {
	var total int64
	err := r.pool.QueryRow(ctx, `
		SELECT count(*)
		FROM doctors d
		WHERE ($1::bigint IS NULL OR d.dept_id = $1)
		  AND ($2 = '' OR d.name ILIKE '%' || $2 || '%')
	`, deptID, name).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count doctors: %w", err)
	}

	rows, err := r.pool.Query(ctx, `
		SELECT `+doctorColumns+`
		FROM doctors d
		LEFT JOIN departments dep ON dep.id = d.dept_id
		WHERE ($1::bigint IS NULL OR d.dept_id = $1)
		  AND ($2 = '' OR d.name ILIKE '%' || $2 || '%')
		ORDER BY d.doctor_id
		LIMIT $3 OFFSET $4
	`, deptID, name, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []Doctor
	for rows.Next() {
		d, err := scanDoctor(rows)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, *d)
	}
	return result, total, rows.Err()
}

func (r *PgRepository) GetDoctorByDoctorID(ctx context.Context, doctorID string) (*Doctor, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+doctorColumns+`
		FROM doctors d
		LEFT JOIN departments dep ON dep.id = d.dept_id
		WHERE d.doctor_id = $1
	`, doctorID)
	return scanDoctor(row)
}

func (r *PgRepository) MaxDoctorID(ctx context.Context) (string, error) {
	var max *string
	err := r.pool.QueryRow(ctx, `SELECT max(doctor_id) FROM doctors`).Scan(&max)
	if err != nil {
		return "", err
	}
	if max == nil {
		return "", nil
	}
	return *max, nil
}

func (r *PgRepository) CreateDoctor(ctx context.Context, d *Doctor) (*Doctor, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO doctors (doctor_id, name, password, dept_id, specialty, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, now(), now())
		RETURNING id, created_at, updated_at
	`, d.DoctorID, d.Name, d.Password, d.DeptID, d.Specialty, d.Status)

	created := *d
	if err := row.Scan(&created.ID, &created.CreatedAt, &created.UpdatedAt); err != nil {
		return nil, err
	}
	return &created, nil
}

func (r *PgRepository) UpdateDoctor(ctx context.Context, d *Doctor) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE doctors
		SET name = $2, password = $3, dept_id = $4, specialty = $5, status = $6, updated_at = now()
		WHERE doctor_id = $1
	`, d.DoctorID, d.Name, d.Password, d.DeptID, d.Specialty, d.Status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrDoctorNotFound
	}
	return nil
}

func (r *PgRepository) GetAdminByUsername(ctx context.Context, username string) (*Admin, error) {
	var a Admin
	err := r.pool.QueryRow(ctx, `
		SELECT id, username, password, name, created_at
		FROM admins
		WHERE username = $1
	`, username).Scan(&a.ID, &a.Username, &a.Password, &a.Name, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAdminNotFound
		}
		return nil, err
	}
	return &a, nil
}
