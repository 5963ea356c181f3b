package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"os"
	"sort"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pegasus-health/hospital-booking/internal/auth"
	"github.com/pegasus-health/hospital-booking/internal/config"
	"github.com/pegasus-health/hospital-booking/internal/db"
)

// book-race hammers a handful of hot slots with concurrent booking requests
// and then checks the capacity invariant directly against Postgres: no slot
// may end up with more active appointments than seats.

type RaceConfig struct {
	APIBaseURL   string
	Workers      int
	Requests     int
	HotSlots     int
	PatientLimit int
}

type Metrics struct {
	Booked    int64
	Conflict  int64
	Rejected  int64
	Error     int64
	mu        sync.Mutex
	latencies []time.Duration
}

func (m *Metrics) Record(latency time.Duration, status int, err error) {
	switch {
	case err != nil:
		atomic.AddInt64(&m.Error, 1)
	case status == http.StatusCreated:
		atomic.AddInt64(&m.Booked, 1)
	case status == http.StatusConflict:
		atomic.AddInt64(&m.Conflict, 1)
	case status >= 400 && status < 500:
		atomic.AddInt64(&m.Rejected, 1)
	default:
		atomic.AddInt64(&m.Error, 1)
	}

	m.mu.Lock()
	m.latencies = append(m.latencies, latency)
	m.mu.Unlock()
}

func (m *Metrics) Percentile(p int) time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.latencies) == 0 {
		return 0
	}
	sorted := make([]time.Duration, len(m.latencies))
	copy(sorted, m.latencies)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	idx := len(sorted) * p / 100
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("book-race starting")

	baseCfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	cfg := RaceConfig{
		APIBaseURL:   getEnv("RACE_API_BASE_URL", "http://localhost:8080"),
		Workers:      getInt("RACE_WORKERS", 50),
		Requests:     getInt("RACE_REQUESTS", 2000),
		HotSlots:     getInt("RACE_HOT_SLOTS", 3),
		PatientLimit: getInt("RACE_PATIENT_LIMIT", 500),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := db.ConnectPostgres(ctx, baseCfg.PostgresDSN, baseCfg.PGMaxConns)
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	patients, err := loadPatients(ctx, pool, cfg.PatientLimit)
	if err != nil {
		log.Fatalf("load patients: %v", err)
	}
	slots, err := loadHotSlots(ctx, pool, cfg.HotSlots)
	if err != nil {
		log.Fatalf("load slots: %v", err)
	}
	log.Printf("loaded %d patients, racing on %d slots", len(patients), len(slots))

	tokens := auth.NewTokenManager(baseCfg.JWTSecret, baseCfg.TokenTTL)
	client := &http.Client{Timeout: 10 * time.Second}
	metrics := &Metrics{}

	run(cfg, client, tokens, patients, slots, metrics)

	fmt.Printf("\nrequests=%d booked=%d conflict=%d rejected=%d error=%d\n",
		cfg.Requests, metrics.Booked, metrics.Conflict, metrics.Rejected, metrics.Error)
	fmt.Printf("latency p50=%s p95=%s p99=%s\n",
		metrics.Percentile(50).Round(time.Millisecond),
		metrics.Percentile(95).Round(time.Millisecond),
		metrics.Percentile(99).Round(time.Millisecond))

	if err := verifyCapacity(context.Background(), pool, slots); err != nil {
		log.Fatalf("INVARIANT VIOLATED: %v", err)
	}
	log.Println("capacity invariant holds on all raced slots")
}

func run(cfg RaceConfig, client *http.Client, tokens *auth.TokenManager, patients []string, slots []int64, metrics *Metrics) {
	jobs := make(chan int)
	var wg sync.WaitGroup

	for w := 0; w < cfg.Workers; w++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(time.Now().UnixNano() + int64(workerID)))

			for range jobs {
				patientID := patients[rng.Intn(len(patients))]
				scheduleID := slots[rng.Intn(len(slots))]
				book(client, tokens, cfg.APIBaseURL, patientID, scheduleID, metrics)
			}
		}(w)
	}

	start := time.Now()
	for i := 0; i < cfg.Requests; i++ {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
	log.Printf("fired %d requests in %s", cfg.Requests, time.Since(start).Round(time.Millisecond))
}

func book(client *http.Client, tokens *auth.TokenManager, baseURL, patientID string, scheduleID int64, metrics *Metrics) {
	token, err := tokens.Issue(patientID, auth.RolePatient, "")
	if err != nil {
		metrics.Record(0, 0, err)
		return
	}

	body, _ := json.Marshal(map[string]any{
		"patientId":  patientID,
		"scheduleId": scheduleID,
	})

	req, err := http.NewRequest("POST", baseURL+"/appointment/book", bytes.NewReader(body))
	if err != nil {
		metrics.Record(0, 0, err)
		return
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	start := time.Now()
	resp, err := client.Do(req)
	latency := time.Since(start)
	if err != nil {
		metrics.Record(latency, 0, err)
		return
	}
	defer resp.Body.Close()

	metrics.Record(latency, resp.StatusCode, nil)
}

func loadPatients(ctx context.Context, pool *pgxpool.Pool, limit int) ([]string, error) {
	rows, err := pool.Query(ctx, `
		SELECT patient_id FROM patients WHERE status = 1 LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("no active patients, run the seed first")
	}
	return ids, rows.Err()
}

func loadHotSlots(ctx context.Context, pool *pgxpool.Pool, limit int) ([]int64, error) {
	rows, err := pool.Query(ctx, `
		SELECT id FROM schedules
		WHERE work_date > now() AND booked_count < max_patients
		ORDER BY work_date
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("no open future slots, run the seed first")
	}
	return ids, rows.Err()
}

// verifyCapacity cross-checks booked_count against the live appointment rows
// for every raced slot.
func verifyCapacity(ctx context.Context, pool *pgxpool.Pool, slots []int64) error {
	for _, id := range slots {
		var booked, max, active int
		err := pool.QueryRow(ctx, `
			SELECT s.booked_count, s.max_patients,
			       (SELECT count(*) FROM appointments a WHERE a.schedule_id = s.id AND a.status = 'booked')
			FROM schedules s WHERE s.id = $1
		`, id).Scan(&booked, &max, &active)
		if err != nil {
			return err
		}
		if booked > max {
			return fmt.Errorf("schedule %d: booked_count %d exceeds max_patients %d", id, booked, max)
		}
		if booked != active {
			return fmt.Errorf("schedule %d: booked_count %d != active appointments %d", id, booked, active)
		}
		log.Printf("schedule %d: booked=%d max=%d active=%d", id, booked, max, active)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
