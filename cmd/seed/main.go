package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"

	"github.com/pegasus-health/hospital-booking/internal/db"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("seed starting")

	dsn := os.Getenv("POSTGRES_DSN")
	if dsn == "" {
		log.Fatal("POSTGRES_DSN is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := db.ConnectPostgres(ctx, dsn, 4)
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	if err := applyMigrations(context.Background(), pool); err != nil {
		log.Fatalf("apply migrations: %v", err)
	}

	gofakeit.Seed(time.Now().UnixNano())

	deptIDs, err := seedDepartments(context.Background(), pool)
	if err != nil {
		log.Fatalf("seed departments: %v", err)
	}
	doctorIDs, err := seedDoctors(context.Background(), pool, deptIDs, 40)
	if err != nil {
		log.Fatalf("seed doctors: %v", err)
	}
	if err := seedAdmin(context.Background(), pool); err != nil {
		log.Fatalf("seed admin: %v", err)
	}
	if err := seedPatients(context.Background(), pool, 500); err != nil {
		log.Fatalf("seed patients: %v", err)
	}
	if err := seedSchedules(context.Background(), pool, doctorIDs); err != nil {
		log.Fatalf("seed schedules: %v", err)
	}

	log.Println("seed complete")
}

func applyMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	sql, err := os.ReadFile("migrations/0001_init.sql")
	if err != nil {
		return err
	}
	_, err = pool.Exec(ctx, string(sql))
	return err
}

var departments = []struct {
	name        string
	description string
}{
	{"Cardiology", "Heart and vascular care"},
	{"Dermatology", "Skin conditions"},
	{"Orthopedics", "Bones and joints"},
	{"Pediatrics", "Care for children"},
	{"Neurology", "Nervous system"},
	{"General Practice", "Primary care"},
}

func seedDepartments(ctx context.Context, pool *pgxpool.Pool) (map[string]int64, error) {
	log.Printf("seeding %d departments", len(departments))

	ids := make(map[string]int64, len(departments))
	for _, d := range departments {
		var id int64
		err := pool.QueryRow(ctx, `
			INSERT INTO departments (dept_name, description, created_at, updated_at)
			VALUES ($1, $2, now(), now())
			ON CONFLICT (dept_name) DO UPDATE SET updated_at = now()
			RETURNING id
		`, d.name, d.description).Scan(&id)
		if err != nil {
			return nil, err
		}
		ids[d.name] = id
	}
	return ids, nil
}

func seedDoctors(ctx context.Context, pool *pgxpool.Pool, deptIDs map[string]int64, count int) ([]string, error) {
	log.Printf("seeding %d doctors", count)

	password, err := bcrypt.GenerateFromPassword([]byte("123456"), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	deptNames := make([]string, 0, len(deptIDs))
	for name := range deptIDs {
		deptNames = append(deptNames, name)
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	doctorIDs := make([]string, 0, count)
	for i := 0; i < count; i++ {
		doctorID := fmt.Sprintf("%08d", 10000001+i)
		dept := deptNames[gofakeit.Number(0, len(deptNames)-1)]
		specialty := gofakeit.JobTitle()

		_, err := tx.Exec(ctx, `
			INSERT INTO doctors (doctor_id, name, password, dept_id, specialty, status, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, 1, now(), now())
			ON CONFLICT (doctor_id) DO NOTHING
		`, doctorID, gofakeit.Name(), string(password), deptIDs[dept], specialty)
		if err != nil {
			return nil, err
		}
		doctorIDs = append(doctorIDs, doctorID)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	log.Println("doctors seeded")
	return doctorIDs, nil
}

func seedAdmin(ctx context.Context, pool *pgxpool.Pool) error {
	password, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	_, err = pool.Exec(ctx, `
		INSERT INTO admins (username, password, name, created_at)
		VALUES ('admin', $1, 'System Administrator', now())
		ON CONFLICT (username) DO NOTHING
	`, string(password))
	return err
}

func seedPatients(ctx context.Context, pool *pgxpool.Pool, count int) error {
	log.Printf("seeding %d patients", count)

	password, err := bcrypt.GenerateFromPassword([]byte("123456"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	const batchSize = 100

	for offset := 0; offset < count; offset += batchSize {
		end := offset + batchSize
		if end > count {
			end = count
		}

		tx, err := pool.Begin(ctx)
		if err != nil {
			return err
		}

		for i := offset; i < end; i++ {
			patientID := fmt.Sprintf("%010d", 1000000001+i)
			identityID, birthDate, gender := fakeIdentity(i)
			phone := fmt.Sprintf("1%d%08d", gofakeit.Number(3, 9), gofakeit.Number(0, 99999999))

			_, err := tx.Exec(ctx, `
				INSERT INTO patients (patient_id, name, password, identity_id, phone, gender, birth_date, status, created_at, updated_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7, 1, now(), now())
				ON CONFLICT (patient_id) DO NOTHING
			`, patientID, gofakeit.Name(), string(password), identityID, phone, gender, birthDate)
			if err != nil {
				_ = tx.Rollback(ctx)
				return err
			}
		}

		if err := tx.Commit(ctx); err != nil {
			return err
		}
		log.Printf("patients seeded: %d/%d", end, count)
	}
	return nil
}

// fakeIdentity builds a syntactically valid 18 character identity number;
// the sequence index keeps them unique across the run. Gender follows the
// parity of the 17th digit, matching how registration derives it.
func fakeIdentity(seq int) (id string, birthDate time.Time, gender string) {
	birthDate = gofakeit.DateRange(
		time.Date(1950, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2005, 12, 31, 0, 0, 0, 0, time.UTC),
	)
	seqDigits := seq % 1000
	gender = "F"
	if seqDigits%2 == 1 {
		gender = "M"
	}
	id = fmt.Sprintf("110101%s%03d%d",
		birthDate.Format("20060102"), seqDigits, gofakeit.Number(0, 9))
	return id, birthDate, gender
}

func seedSchedules(ctx context.Context, pool *pgxpool.Pool, doctorIDs []string) error {
	log.Printf("seeding schedules for %d doctors", len(doctorIDs))

	windows := []struct{ start, end string }{
		{"09:00", "12:00"},
		{"14:00", "17:00"},
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, doctorID := range doctorIDs {
		for day := 1; day <= 14; day++ {
			workDate := time.Now().UTC().AddDate(0, 0, day)
			for _, w := range windows {
				_, err := tx.Exec(ctx, `
					INSERT INTO schedules (doctor_id, work_date, start_time, end_time, max_patients, booked_count, version, created_at, updated_at)
					VALUES ($1, $2, $3, $4, $5, 0, 0, now(), now())
				`, doctorID, workDate, w.start, w.end, gofakeit.Number(10, 30))
				if err != nil {
					return err
				}
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}
	log.Println("schedules seeded")
	return nil
}
