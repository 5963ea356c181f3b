package appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const pgUniqueViolation = "23505"

type PgRepository struct {
	pool *pgxpool.Pool
	now  func() time.Time
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool, now: time.Now}
}

const apptColumns = `
	a.id, a.appt_id, a.patient_id, a.doctor_id, a.schedule_id, a.appt_datetime,
	a.status, a.cancel_reason, a.created_at, a.updated_at,
	p.name, d.name, dep.dept_name
`

const apptJoins = `
	FROM appointments a
	LEFT JOIN patients p ON p.patient_id = a.patient_id
	LEFT JOIN doctors d ON d.doctor_id = a.doctor_id
	LEFT JOIN departments dep ON dep.id = d.dept_id
`

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var a Appointment
	err := row.Scan(
		&a.ID,
		&a.ApptID,
		&a.PatientID,
		&a.DoctorID,
		&a.ScheduleID,
		&a.ApptDatetime,
		&a.Status,
		&a.CancelReason,
		&a.CreatedAt,
		&a.UpdatedAt,
		&a.PatientName,
		&a.DoctorName,
		&a.DeptName,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrApptNotFound
		}
		return nil, err
	}
	return &a, nil
}

func collectAppointments(rows pgx.Rows) ([]Appointment, error) {
	defer rows.Close()

	var result []Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *a)
	}
	return result, rows.Err()
}

// BookAtomic is the single write path that spans schedules and appointments.
// The conditional UPDATE closes the booking race: it only lands when the
// version still matches the caller's read and a seat remains.
func (r *PgRepository) BookAtomic(ctx context.Context, rec BookingRecord) (*Appointment, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin booking tx: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		UPDATE schedules
		SET booked_count = booked_count + 1,
		    version = version + 1,
		    updated_at = now()
		WHERE id = $1
		  AND version = $2
		  AND booked_count < max_patients
	`, rec.ScheduleID, rec.ScheduleVersion)
	if err != nil {
		return nil, fmt.Errorf("increment booked count: %w", err)
	}
	if tag.RowsAffected() == 0 {
		// Lost the conditional update. Re-read inside the transaction to
		// tell exhaustion apart from a concurrent writer.
		var booked, max int
		err := tx.QueryRow(ctx, `
			SELECT booked_count, max_patients FROM schedules WHERE id = $1
		`, rec.ScheduleID).Scan(&booked, &max)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, fmt.Errorf("schedule %d vanished during booking", rec.ScheduleID)
			}
			return nil, err
		}
		if booked >= max {
			return nil, ErrSlotFull
		}
		return nil, ErrVersionConflict
	}

	apptID, err := nextApptID(ctx, tx, r.now())
	if err != nil {
		return nil, err
	}

	row := tx.QueryRow(ctx, `
		INSERT INTO appointments (appt_id, patient_id, doctor_id, schedule_id, appt_datetime, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, 'booked', now(), now())
		RETURNING id, appt_id, patient_id, doctor_id, schedule_id, appt_datetime, status, cancel_reason, created_at, updated_at
	`, apptID, rec.PatientID, rec.DoctorID, rec.ScheduleID, rec.ApptDatetime)

	var a Appointment
	err = row.Scan(&a.ID, &a.ApptID, &a.PatientID, &a.DoctorID, &a.ScheduleID,
		&a.ApptDatetime, &a.Status, &a.CancelReason, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			if pgErr.ConstraintName == "uq_appointments_active_booking" {
				return nil, ErrDuplicateBooking
			}
			return nil, ErrApptIDTaken
		}
		return nil, fmt.Errorf("insert appointment: %w", err)
	}

	if err := insertEventTx(ctx, tx, EventLog{
		EventType: EventBooked,
		ApptID:    &a.ApptID,
		CreatedAt: r.now(),
	}); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit booking tx: %w", err)
	}
	return &a, nil
}

// CancelAtomic is the compensating transaction: status flip and seat
// release land together or not at all. The status predicate makes repeat
// cancellation fail instead of double-decrementing.
func (r *PgRepository) CancelAtomic(ctx context.Context, apptID string, reason *string) (*Appointment, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin cancel tx: %w", err)
	}
	defer tx.Rollback(ctx)

	row := tx.QueryRow(ctx, `
		UPDATE appointments
		SET status = 'cancelled',
		    cancel_reason = $2,
		    updated_at = now()
		WHERE appt_id = $1
		  AND status = 'booked'
		RETURNING id, appt_id, patient_id, doctor_id, schedule_id, appt_datetime, status, cancel_reason, created_at, updated_at
	`, apptID, reason)

	var a Appointment
	err = row.Scan(&a.ID, &a.ApptID, &a.PatientID, &a.DoctorID, &a.ScheduleID,
		&a.ApptDatetime, &a.Status, &a.CancelReason, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, r.classifyMissedUpdate(ctx, apptID)
		}
		return nil, fmt.Errorf("cancel appointment: %w", err)
	}

	// A booked appointment always has a live slot: slots with seats taken
	// cannot be deleted.
	if a.ScheduleID == nil {
		return nil, fmt.Errorf("appointment %s is booked but has no schedule to release", apptID)
	}

	tag, err := tx.Exec(ctx, `
		UPDATE schedules
		SET booked_count = booked_count - 1,
		    version = version + 1,
		    updated_at = now()
		WHERE id = $1
		  AND booked_count > 0
	`, *a.ScheduleID)
	if err != nil {
		return nil, fmt.Errorf("decrement booked count: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, fmt.Errorf("schedule %d booked count underflow for appointment %s", *a.ScheduleID, apptID)
	}

	if err := insertEventTx(ctx, tx, EventLog{
		EventType: EventCancelled,
		ApptID:    &a.ApptID,
		CreatedAt: r.now(),
	}); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit cancel tx: %w", err)
	}
	return &a, nil
}

func (r *PgRepository) Complete(ctx context.Context, apptID string) (*Appointment, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE appointments
		SET status = 'completed',
		    updated_at = now()
		WHERE appt_id = $1
		  AND status = 'booked'
		RETURNING id, appt_id, patient_id, doctor_id, schedule_id, appt_datetime, status, cancel_reason, created_at, updated_at
	`, apptID)

	var a Appointment
	err := row.Scan(&a.ID, &a.ApptID, &a.PatientID, &a.DoctorID, &a.ScheduleID,
		&a.ApptDatetime, &a.Status, &a.CancelReason, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, r.classifyMissedUpdate(ctx, apptID)
		}
		return nil, fmt.Errorf("complete appointment: %w", err)
	}
	return &a, nil
}

// classifyMissedUpdate distinguishes "no such appointment" from "exists but
// not in a cancellable/completable state".
func (r *PgRepository) classifyMissedUpdate(ctx context.Context, apptID string) error {
	var status Status
	err := r.pool.QueryRow(ctx, `
		SELECT status FROM appointments WHERE appt_id = $1
	`, apptID).Scan(&status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrApptNotFound
		}
		return err
	}
	return ErrInvalidTransition
}

func (r *PgRepository) GetByApptID(ctx context.Context, apptID string) (*Appointment, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+apptColumns+apptJoins+`
		WHERE a.appt_id = $1
	`, apptID)
	return scanAppointment(row)
}

func (r *PgRepository) CountActiveByPatientAndSchedule(ctx context.Context, patientID string, scheduleID int64) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `
		SELECT count(*)
		FROM appointments
		WHERE patient_id = $1 AND schedule_id = $2 AND status = 'booked'
	`, patientID, scheduleID).Scan(&count)
	return count, err
}

func (r *PgRepository) ListByPatient(ctx context.Context, patientID string) ([]Appointment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+apptColumns+apptJoins+`
		WHERE a.patient_id = $1
		ORDER BY a.appt_datetime DESC
	`, patientID)
	if err != nil {
		return nil, err
	}
	return collectAppointments(rows)
}

func (r *PgRepository) ListByDoctor(ctx context.Context, doctorID string, start, end *time.Time) ([]Appointment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+apptColumns+apptJoins+`
		WHERE a.doctor_id = $1
		  AND ($2::timestamptz IS NULL OR a.appt_datetime >= $2)
		  AND ($3::timestamptz IS NULL OR a.appt_datetime < $3)
		ORDER BY a.appt_datetime
	`, doctorID, start, end)
	if err != nil {
		return nil, err
	}
	return collectAppointments(rows)
}

func (r *PgRepository) Page(ctx context.Context, f PageFilter) ([]Appointment, int64, error) {
	const filter = `
		WHERE ($1 = '' OR a.status = $1::text)
		  AND ($2::bigint IS NULL OR dep.id = $2)
		  AND ($3::timestamptz IS NULL OR a.appt_datetime >= $3)
		  AND ($4::timestamptz IS NULL OR a.appt_datetime < $4)
	`

	var total int64
	err := r.pool.QueryRow(ctx, `
		SELECT count(*) `+apptJoins+filter,
		string(f.Status), f.DeptID, f.StartDate, f.EndDate,
	).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count appointments: %w", err)
	}

	rows, err := r.pool.Query(ctx, `
		SELECT `+apptColumns+apptJoins+filter+`
		ORDER BY a.appt_datetime DESC, a.appt_id DESC
		LIMIT $5 OFFSET $6
	`, string(f.Status), f.DeptID, f.StartDate, f.EndDate, f.PageSize, (f.PageNum-1)*f.PageSize)
	if err != nil {
		return nil, 0, err
	}

	records, err := collectAppointments(rows)
	if err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

func (r *PgRepository) ListForExport(ctx context.Context, start, end time.Time) ([]Appointment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+apptColumns+apptJoins+`
		WHERE a.appt_datetime >= $1 AND a.appt_datetime < $2
		ORDER BY a.appt_datetime
	`, start, end)
	if err != nil {
		return nil, err
	}
	return collectAppointments(rows)
}

func (r *PgRepository) InsertEvent(ctx context.Context, ev EventLog) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO event_logs (event_type, appt_id, payload, created_at)
		VALUES ($1, $2, $3, COALESCE($4, now()))
	`, ev.EventType, ev.ApptID, ev.Payload, nullableTime(ev.CreatedAt))
	if err != nil {
		return fmt.Errorf("insert event log: %w", err)
	}
	return nil
}

func insertEventTx(ctx context.Context, tx pgx.Tx, ev EventLog) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO event_logs (event_type, appt_id, payload, created_at)
		VALUES ($1, $2, $3, COALESCE($4, now()))
	`, ev.EventType, ev.ApptID, ev.Payload, nullableTime(ev.CreatedAt))
	if err != nil {
		return fmt.Errorf("insert event log: %w", err)
	}
	return nil
}

// nextApptID allocates the next 12 digit appointment number for the day.
// A unique index backs it up; collisions surface as ErrApptIDTaken and the
// caller retries.
func nextApptID(ctx context.Context, tx pgx.Tx, now time.Time) (string, error) {
	prefix := now.UTC().Format("20060102")

	var maxSeq int
	err := tx.QueryRow(ctx, `
		SELECT COALESCE(MAX(CAST(RIGHT(appt_id, 4) AS int)), 0)
		FROM appointments
		WHERE appt_id LIKE $1 || '%'
	`, prefix).Scan(&maxSeq)
	if err != nil {
		return "", fmt.Errorf("next appointment number: %w", err)
	}

	return fmt.Sprintf("%s%04d", prefix, maxSeq+1), nil
}

func nullableTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
