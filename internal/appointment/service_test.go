package appointment

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pegasus-health/hospital-booking/internal/auth"
	"github.com/pegasus-health/hospital-booking/internal/config"
	"github.com/pegasus-health/hospital-booking/internal/directory"
	"github.com/pegasus-health/hospital-booking/internal/patient"
	redisclient "github.com/pegasus-health/hospital-booking/internal/redis"
	"github.com/pegasus-health/hospital-booking/internal/schedule"
)

// fakeStore backs both the appointment and schedule repositories with the
// same transactional semantics as the Postgres implementation: the booking
// write is conditional on the observed version and remaining capacity, and
// both sides of a booking or cancellation commit together under one lock.
type fakeStore struct {
	mu        sync.Mutex
	schedules map[int64]*schedule.Schedule
	appts     map[string]*Appointment
	events    []EventLog
	seq       int
	nextID    int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		schedules: make(map[int64]*schedule.Schedule),
		appts:     make(map[string]*Appointment),
	}
}

func (f *fakeStore) addSchedule(s schedule.Schedule) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := s
	f.schedules[s.ID] = &cp
}

func (f *fakeStore) scheduleState(id int64) schedule.Schedule {
	f.mu.Lock()
	defer f.mu.Unlock()
	return *f.schedules[id]
}

// appointment.Repository

func (f *fakeStore) BookAtomic(_ context.Context, rec BookingRecord) (*Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	s, ok := f.schedules[rec.ScheduleID]
	if !ok {
		return nil, schedule.ErrScheduleNotFound
	}
	if s.Version != rec.ScheduleVersion || s.Full() {
		if s.Full() {
			return nil, ErrSlotFull
		}
		return nil, ErrVersionConflict
	}

	// Mirrors the partial unique index on booked (patient_id, schedule_id).
	for _, a := range f.appts {
		if a.Status == StatusBooked && a.PatientID == rec.PatientID &&
			a.ScheduleID != nil && *a.ScheduleID == rec.ScheduleID {
			return nil, ErrDuplicateBooking
		}
	}

	s.BookedCount++
	s.Version++
	f.seq++
	f.nextID++

	scheduleID := rec.ScheduleID
	a := &Appointment{
		ID:           f.nextID,
		ApptID:       fmt.Sprintf("%s%04d", rec.ApptDatetime.Format("20060102"), f.seq),
		PatientID:    rec.PatientID,
		DoctorID:     rec.DoctorID,
		ScheduleID:   &scheduleID,
		ApptDatetime: rec.ApptDatetime,
		Status:       StatusBooked,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	f.appts[a.ApptID] = a
	f.events = append(f.events, EventLog{EventType: EventBooked, ApptID: &a.ApptID})

	cp := *a
	return &cp, nil
}

func (f *fakeStore) CancelAtomic(_ context.Context, apptID string, reason *string) (*Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	a, ok := f.appts[apptID]
	if !ok {
		return nil, ErrApptNotFound
	}
	if a.Status != StatusBooked {
		return nil, ErrInvalidTransition
	}

	if a.ScheduleID == nil {
		return nil, fmt.Errorf("appointment %s is booked but has no schedule to release", apptID)
	}
	s := f.schedules[*a.ScheduleID]
	if s == nil || s.BookedCount == 0 {
		return nil, fmt.Errorf("booked count underflow on schedule %d", *a.ScheduleID)
	}

	a.Status = StatusCancelled
	a.CancelReason = reason
	s.BookedCount--
	s.Version++
	f.events = append(f.events, EventLog{EventType: EventCancelled, ApptID: &a.ApptID})

	cp := *a
	return &cp, nil
}

func (f *fakeStore) Complete(_ context.Context, apptID string) (*Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	a, ok := f.appts[apptID]
	if !ok {
		return nil, ErrApptNotFound
	}
	if a.Status != StatusBooked {
		return nil, ErrInvalidTransition
	}
	a.Status = StatusCompleted

	cp := *a
	return &cp, nil
}

func (f *fakeStore) GetByApptID(_ context.Context, apptID string) (*Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.appts[apptID]
	if !ok {
		return nil, ErrApptNotFound
	}
	cp := *a
	return &cp, nil
}

func (f *fakeStore) CountActiveByPatientAndSchedule(_ context.Context, patientID string, scheduleID int64) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	count := 0
	for _, a := range f.appts {
		if a.PatientID == patientID && a.ScheduleID != nil && *a.ScheduleID == scheduleID && a.Status == StatusBooked {
			count++
		}
	}
	return count, nil
}

func (f *fakeStore) ListByPatient(_ context.Context, patientID string) ([]Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []Appointment
	for _, a := range f.appts {
		if a.PatientID == patientID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (f *fakeStore) ListByDoctor(_ context.Context, doctorID string, start, end *time.Time) ([]Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []Appointment
	for _, a := range f.appts {
		if a.DoctorID != doctorID {
			continue
		}
		if start != nil && a.ApptDatetime.Before(*start) {
			continue
		}
		if end != nil && !a.ApptDatetime.Before(*end) {
			continue
		}
		out = append(out, *a)
	}
	return out, nil
}

func (f *fakeStore) Page(_ context.Context, filter PageFilter) ([]Appointment, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var matched []Appointment
	for _, a := range f.appts {
		if filter.Status != "" && a.Status != filter.Status {
			continue
		}
		matched = append(matched, *a)
	}
	total := int64(len(matched))
	offset := (filter.PageNum - 1) * filter.PageSize
	if offset >= len(matched) {
		return nil, total, nil
	}
	limit := offset + filter.PageSize
	if limit > len(matched) {
		limit = len(matched)
	}
	return matched[offset:limit], total, nil
}

func (f *fakeStore) ListForExport(_ context.Context, start, end time.Time) ([]Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []Appointment
	for _, a := range f.appts {
		if !a.ApptDatetime.Before(start) && a.ApptDatetime.Before(end) {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (f *fakeStore) InsertEvent(_ context.Context, ev EventLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, ev)
	return nil
}

// schedule.Repository

func (f *fakeStore) GetByID(_ context.Context, id int64) (*schedule.Schedule, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.schedules[id]
	if !ok {
		return nil, schedule.ErrScheduleNotFound
	}
	cp := *s
	return &cp, nil
}

func (f *fakeStore) ListByDoctorAndDate(_ context.Context, doctorID string, workDate time.Time) ([]schedule.Schedule, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []schedule.Schedule
	for _, s := range f.schedules {
		if s.DoctorID == doctorID && s.WorkDate.Equal(workDate) {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (f *fakeStore) ListAvailableByDoctor(_ context.Context, doctorID string, from time.Time) ([]schedule.Schedule, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []schedule.Schedule
	for _, s := range f.schedules {
		if s.DoctorID == doctorID && !s.WorkDate.Before(from) {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (f *fakeStore) ListAvailableByDate(_ context.Context, workDate time.Time) ([]schedule.Schedule, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []schedule.Schedule
	for _, s := range f.schedules {
		if s.WorkDate.Equal(workDate) {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (f *fakeStore) Create(_ context.Context, s *schedule.Schedule) (*schedule.Schedule, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	cp := *s
	cp.ID = f.nextID
	f.schedules[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (f *fakeStore) Update(_ context.Context, s *schedule.Schedule) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	existing, ok := f.schedules[s.ID]
	if !ok {
		return schedule.ErrScheduleNotFound
	}
	existing.WorkDate = s.WorkDate
	existing.StartTime = s.StartTime
	existing.EndTime = s.EndTime
	existing.MaxPatients = s.MaxPatients
	return nil
}

func (f *fakeStore) Delete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.schedules[id]
	if !ok {
		return schedule.ErrScheduleNotFound
	}
	if s.BookedCount > 0 {
		return schedule.ErrHasBookings
	}
	delete(f.schedules, id)
	// ON DELETE SET NULL: ledger rows survive the slot.
	for _, a := range f.appts {
		if a.ScheduleID != nil && *a.ScheduleID == id {
			a.ScheduleID = nil
		}
	}
	return nil
}

// Directory fakes

type fakePatients struct {
	mu       sync.Mutex
	patients map[string]*patient.Patient
}

func (f *fakePatients) GetByPatientID(_ context.Context, patientID string) (*patient.Patient, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.patients[patientID]
	if !ok {
		return nil, patient.ErrPatientNotFound
	}
	cp := *p
	return &cp, nil
}

type fakeDoctors struct {
	doctors map[string]*directory.Doctor
}

func (f *fakeDoctors) GetDoctorByDoctorID(_ context.Context, doctorID string) (*directory.Doctor, error) {
	d, ok := f.doctors[doctorID]
	if !ok {
		return nil, directory.ErrDoctorNotFound
	}
	cp := *d
	return &cp, nil
}

// Fixture

var testNow = time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)

const (
	testDoctorID   = "10000001"
	testScheduleID = int64(42)
)

type fixture struct {
	store    *fakeStore
	patients *fakePatients
	doctors  *fakeDoctors
	svc      *Service
}

func newFixture(t *testing.T, maxPatients int) *fixture {
	t.Helper()

	store := newFakeStore()
	store.addSchedule(schedule.Schedule{
		ID:          testScheduleID,
		DoctorID:    testDoctorID,
		WorkDate:    time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC),
		StartTime:   "09:00",
		EndTime:     "12:00",
		MaxPatients: maxPatients,
	})

	patients := &fakePatients{patients: map[string]*patient.Patient{}}
	for i := 0; i < 50; i++ {
		id := fmt.Sprintf("%010d", 1000000001+i)
		patients.patients[id] = &patient.Patient{PatientID: id, Name: "Patient", Status: patient.StatusActive}
	}

	doctors := &fakeDoctors{doctors: map[string]*directory.Doctor{
		testDoctorID: {DoctorID: testDoctorID, Name: "Dr Test", Status: directory.EmploymentActive},
	}}

	cfg := config.Config{CASRetries: 10, CancelCutoff: 2 * time.Hour}
	svc := NewService(store, store, patients, doctors, redisclient.NoopLocker{}, cfg, zerolog.Nop())
	svc.now = func() time.Time { return testNow }

	return &fixture{store: store, patients: patients, doctors: doctors, svc: svc}
}

func patientID(i int) string {
	return fmt.Sprintf("%010d", 1000000001+i)
}

func TestBookSucceeds(t *testing.T) {
	fx := newFixture(t, 5)

	appt, err := fx.svc.Book(context.Background(), BookRequest{
		PatientID:  patientID(0),
		ScheduleID: testScheduleID,
	})
	require.NoError(t, err)

	assert.Equal(t, StatusBooked, appt.Status)
	assert.Len(t, appt.ApptID, 12)
	assert.Equal(t, time.Date(2026, 9, 2, 9, 0, 0, 0, time.UTC), appt.ApptDatetime)

	state := fx.store.scheduleState(testScheduleID)
	assert.Equal(t, 1, state.BookedCount)
	assert.Equal(t, 1, state.Version)
}

func TestBookRejectsDuplicate(t *testing.T) {
	fx := newFixture(t, 5)

	_, err := fx.svc.Book(context.Background(), BookRequest{PatientID: patientID(0), ScheduleID: testScheduleID})
	require.NoError(t, err)

	_, err = fx.svc.Book(context.Background(), BookRequest{PatientID: patientID(0), ScheduleID: testScheduleID})
	assert.ErrorIs(t, err, ErrDuplicateBooking)

	assert.Equal(t, 1, fx.store.scheduleState(testScheduleID).BookedCount)
}

func TestBookRejectsPastSlot(t *testing.T) {
	fx := newFixture(t, 5)
	fx.store.addSchedule(schedule.Schedule{
		ID:          7,
		DoctorID:    testDoctorID,
		WorkDate:    time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC),
		StartTime:   "09:00",
		EndTime:     "12:00",
		MaxPatients: 5,
	})

	_, err := fx.svc.Book(context.Background(), BookRequest{PatientID: patientID(0), ScheduleID: 7})
	assert.ErrorIs(t, err, ErrSlotInPast)
}

func TestBookRejectsInactiveAccounts(t *testing.T) {
	fx := newFixture(t, 5)

	fx.patients.patients["0000000099"] = &patient.Patient{
		PatientID: "0000000099", Status: patient.StatusDeactivated,
	}
	_, err := fx.svc.Book(context.Background(), BookRequest{PatientID: "0000000099", ScheduleID: testScheduleID})
	assert.ErrorIs(t, err, ErrPatientInactive)

	fx.doctors.doctors[testDoctorID].Status = directory.EmploymentInactive
	_, err = fx.svc.Book(context.Background(), BookRequest{PatientID: patientID(0), ScheduleID: testScheduleID})
	assert.ErrorIs(t, err, ErrDoctorInactive)
}

func TestBookRejectsDoctorMismatch(t *testing.T) {
	fx := newFixture(t, 5)

	_, err := fx.svc.Book(context.Background(), BookRequest{
		PatientID:  patientID(0),
		DoctorID:   "99999999",
		ScheduleID: testScheduleID,
	})
	assert.ErrorIs(t, err, schedule.ErrScheduleNotFound)
}

// TestBookConcurrentNeverOverbooks races many patients at one slot. Whatever
// the interleaving, exactly max_patients bookings land and everyone else
// gets the slot-full answer.
func TestBookConcurrentNeverOverbooks(t *testing.T) {
	const capacity = 5
	const contenders = 25

	fx := newFixture(t, capacity)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		booked   int
		slotFull int
		others   []error
	)

	for i := 0; i < contenders; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := fx.svc.Book(context.Background(), BookRequest{
				PatientID:  patientID(i),
				ScheduleID: testScheduleID,
			})

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				booked++
			case errors.Is(err, ErrSlotFull):
				slotFull++
			default:
				others = append(others, err)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, capacity, booked)
	assert.Equal(t, contenders-capacity, slotFull)
	assert.Empty(t, others)

	state := fx.store.scheduleState(testScheduleID)
	assert.Equal(t, capacity, state.BookedCount)

	active, err := fx.store.CountActiveByPatientAndSchedule(context.Background(), patientID(0), testScheduleID)
	require.NoError(t, err)
	assert.Equal(t, 1, active)
}

// TestBookConcurrentSamePatientBooksOnce races one patient against itself.
// The duplicate guard inside the booking write must let exactly one through
// even when every request observes zero existing bookings.
func TestBookConcurrentSamePatientBooksOnce(t *testing.T) {
	const attempts = 8

	fx := newFixture(t, 5)

	var (
		wg         sync.WaitGroup
		mu         sync.Mutex
		booked     int
		duplicates int
		others     []error
	)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := fx.svc.Book(context.Background(), BookRequest{
				PatientID:  patientID(0),
				ScheduleID: testScheduleID,
			})

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				booked++
			case errors.Is(err, ErrDuplicateBooking):
				duplicates++
			default:
				others = append(others, err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, booked)
	assert.Equal(t, attempts-1, duplicates)
	assert.Empty(t, others)
	assert.Equal(t, 1, fx.store.scheduleState(testScheduleID).BookedCount)

	active, err := fx.store.CountActiveByPatientAndSchedule(context.Background(), patientID(0), testScheduleID)
	require.NoError(t, err)
	assert.Equal(t, 1, active)
}

func TestCanTransition(t *testing.T) {
	assert.True(t, CanTransition(StatusBooked, StatusCancelled))
	assert.True(t, CanTransition(StatusBooked, StatusCompleted))

	assert.False(t, CanTransition(StatusCancelled, StatusBooked))
	assert.False(t, CanTransition(StatusCancelled, StatusCompleted))
	assert.False(t, CanTransition(StatusCompleted, StatusCancelled))
}

func TestCancelReleasesSeatOnce(t *testing.T) {
	fx := newFixture(t, 5)

	appt, err := fx.svc.Book(context.Background(), BookRequest{PatientID: patientID(0), ScheduleID: testScheduleID})
	require.NoError(t, err)
	require.Equal(t, 1, fx.store.scheduleState(testScheduleID).BookedCount)

	actor := Actor{ID: patientID(0), Role: auth.RolePatient}
	cancelled, err := fx.svc.Cancel(context.Background(), appt.ApptID, "schedule conflict", actor)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, cancelled.Status)
	require.NotNil(t, cancelled.CancelReason)
	assert.Equal(t, "schedule conflict", *cancelled.CancelReason)
	assert.Equal(t, 0, fx.store.scheduleState(testScheduleID).BookedCount)

	// A second cancel must not decrement again.
	_, err = fx.svc.Cancel(context.Background(), appt.ApptID, "", actor)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, 0, fx.store.scheduleState(testScheduleID).BookedCount)
}

func TestCancelEnforcesOwnershipAndCutoff(t *testing.T) {
	fx := newFixture(t, 5)

	appt, err := fx.svc.Book(context.Background(), BookRequest{PatientID: patientID(0), ScheduleID: testScheduleID})
	require.NoError(t, err)

	// Another patient cannot touch it.
	_, err = fx.svc.Cancel(context.Background(), appt.ApptID, "", Actor{ID: patientID(1), Role: auth.RolePatient})
	assert.ErrorIs(t, err, ErrForbidden)

	// Inside the cutoff the patient is refused, the admin is not.
	fx.svc.now = func() time.Time { return appt.ApptDatetime.Add(-30 * time.Minute) }
	_, err = fx.svc.Cancel(context.Background(), appt.ApptID, "", Actor{ID: patientID(0), Role: auth.RolePatient})
	assert.ErrorIs(t, err, ErrCancelWindowClosed)

	_, err = fx.svc.Cancel(context.Background(), appt.ApptID, "clinic closure", Actor{ID: "admin", Role: auth.RoleAdmin})
	assert.NoError(t, err)
}

func TestCompleteKeepsSeatCommitted(t *testing.T) {
	fx := newFixture(t, 5)

	appt, err := fx.svc.Book(context.Background(), BookRequest{PatientID: patientID(0), ScheduleID: testScheduleID})
	require.NoError(t, err)

	// Only the doctor on the appointment (or an admin) may complete.
	_, err = fx.svc.Complete(context.Background(), appt.ApptID, Actor{ID: "99999999", Role: auth.RoleDoctor})
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = fx.svc.Complete(context.Background(), appt.ApptID, Actor{ID: patientID(0), Role: auth.RolePatient})
	assert.ErrorIs(t, err, ErrForbidden)

	completed, err := fx.svc.Complete(context.Background(), appt.ApptID, Actor{ID: testDoctorID, Role: auth.RoleDoctor})
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, completed.Status)

	// Capacity tracks commitments, not attendance.
	assert.Equal(t, 1, fx.store.scheduleState(testScheduleID).BookedCount)

	_, err = fx.svc.Cancel(context.Background(), appt.ApptID, "", Actor{ID: "admin", Role: auth.RoleAdmin})
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

// TestFullSlotReopensAfterCancel walks the lifecycle on a single-seat slot:
// book, fail, cancel, rebook.
func TestFullSlotReopensAfterCancel(t *testing.T) {
	fx := newFixture(t, 1)
	ctx := context.Background()

	first, err := fx.svc.Book(ctx, BookRequest{PatientID: patientID(0), ScheduleID: testScheduleID})
	require.NoError(t, err)

	_, err = fx.svc.Book(ctx, BookRequest{PatientID: patientID(1), ScheduleID: testScheduleID})
	assert.ErrorIs(t, err, ErrSlotFull)

	_, err = fx.svc.Cancel(ctx, first.ApptID, "", Actor{ID: patientID(0), Role: auth.RolePatient})
	require.NoError(t, err)

	second, err := fx.svc.Book(ctx, BookRequest{PatientID: patientID(1), ScheduleID: testScheduleID})
	require.NoError(t, err)
	assert.Equal(t, StatusBooked, second.Status)
	assert.NotEqual(t, first.ApptID, second.ApptID)
	assert.Equal(t, 1, fx.store.scheduleState(testScheduleID).BookedCount)
}

// TestDeleteEmptiedSlotKeepsLedger covers the book, cancel, delete sequence:
// the emptied slot goes away while the cancelled appointment stays on record,
// detached from it.
func TestDeleteEmptiedSlotKeepsLedger(t *testing.T) {
	fx := newFixture(t, 5)
	ctx := context.Background()

	appt, err := fx.svc.Book(ctx, BookRequest{PatientID: patientID(0), ScheduleID: testScheduleID})
	require.NoError(t, err)

	// Seat taken, the slot is anchored.
	err = fx.store.Delete(ctx, testScheduleID)
	assert.ErrorIs(t, err, schedule.ErrHasBookings)

	_, err = fx.svc.Cancel(ctx, appt.ApptID, "", Actor{ID: patientID(0), Role: auth.RolePatient})
	require.NoError(t, err)

	require.NoError(t, fx.store.Delete(ctx, testScheduleID))

	kept, err := fx.svc.Get(ctx, appt.ApptID)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, kept.Status)
	assert.Nil(t, kept.ScheduleID)
}

func TestGetPageClampsInput(t *testing.T) {
	fx := newFixture(t, 10)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := fx.svc.Book(ctx, BookRequest{PatientID: patientID(i), ScheduleID: testScheduleID})
		require.NoError(t, err)
	}

	page, err := fx.svc.GetPage(ctx, PageFilter{PageNum: -3, PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, 1, page.PageNum)
	assert.Equal(t, int64(3), page.Total)
	assert.Len(t, page.Records, 2)

	page, err = fx.svc.GetPage(ctx, PageFilter{PageNum: 1, PageSize: 1000, Status: StatusBooked})
	require.NoError(t, err)
	assert.Equal(t, 100, page.PageSize)
	assert.Len(t, page.Records, 3)
}
