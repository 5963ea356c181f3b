package schedule

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

const scheduleColumns = `
	s.id, s.doctor_id, s.work_date, s.start_time, s.end_time,
	s.max_patients, s.booked_count, s.version, s.created_at, s.updated_at,
	d.name, dep.dept_name
`

const scheduleJoins = `
	FROM schedules s
	LEFT JOIN doctors d ON d.doctor_id = s.doctor_id
	LEFT JOIN departments dep ON dep.id = d.dept_id
`

func scanSchedule(row pgx.Row) (*Schedule, error) {
	var s Schedule
	err := row.Scan(
		&s.ID,
		&s.DoctorID,
		&s.WorkDate,
		&s.StartTime,
		&s.EndTime,
		&s.MaxPatients,
		&s.BookedCount,
		&s.Version,
		&s.CreatedAt,
		&s.UpdatedAt,
		&s.DoctorName,
		&s.DeptName,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrScheduleNotFound
		}
		return nil, err
	}
	return &s, nil
}

func collectSchedules(rows pgx.Rows) ([]Schedule, error) {
	defer rows.Close()

	var result []Schedule
	for rows.Next() {
		s, err := scanSchedule(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *s)
	}
	return result, rows.Err()
}

func (r *PgRepository) GetByID(ctx context.Context, id int64) (*Schedule, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+scheduleColumns+scheduleJoins+`
		WHERE s.id = $1
	`, id)
	return scanSchedule(row)
}

func (r *PgRepository) ListByDoctorAndDate(ctx context.Context, doctorID string, workDate time.Time) ([]Schedule, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+scheduleColumns+scheduleJoins+`
		WHERE s.doctor_id = $1 AND s.work_date = $2
		ORDER BY s.work_date, s.start_time
	`, doctorID, workDate)
	if err != nil {
		return nil, err
	}
	return collectSchedules(rows)
}

func (r *PgRepository) ListAvailableByDoctor(ctx context.Context, doctorID string, from time.Time) ([]Schedule, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+scheduleColumns+scheduleJoins+`
		WHERE s.doctor_id = $1 AND s.work_date >= $2
		ORDER BY s.work_date, s.start_time
	`, doctorID, from)
	if err != nil {
		return nil, err
	}
	return collectSchedules(rows)
}

func (r *PgRepository) ListAvailableByDate(ctx context.Context, workDate time.Time) ([]Schedule, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+scheduleColumns+scheduleJoins+`
		WHERE s.work_date = $1
		ORDER BY s.work_date, s.start_time
	`, workDate)
	if err != nil {
		return nil, err
	}
	return collectSchedules(rows)
}

func (r *PgRepository) Create(ctx context.Context, s *Schedule) (*Schedule, error) {
	created := *s
	err := r.pool.QueryRow(ctx, `
		INSERT INTO schedules (doctor_id, work_date, start_time, end_time, max_patients, booked_count, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, 0, 0, now(), now())
		RETURNING id, booked_count, version, created_at, updated_at
	`, s.DoctorID, s.WorkDate, s.StartTime, s.EndTime, s.MaxPatients).Scan(
		&created.ID, &created.BookedCount, &created.Version, &created.CreatedAt, &created.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (r *PgRepository) Update(ctx context.Context, s *Schedule) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE schedules
		SET work_date = $2, start_time = $3, end_time = $4, max_patients = $5, updated_at = now()
		WHERE id = $1
	`, s.ID, s.WorkDate, s.StartTime, s.EndTime, s.MaxPatients)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrScheduleNotFound
	}
	return nil
}

// Delete refuses rows with live bookings at the SQL level as well, so a
// booking racing the delete cannot orphan an appointment.
func (r *PgRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM schedules
		WHERE id = $1 AND booked_count = 0
	`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
		return ErrHasBookings
	}
	return nil
}
