package schedule

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	mu        sync.Mutex
	schedules map[int64]*Schedule
	nextID    int64
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{schedules: make(map[int64]*Schedule)}
}

func (f *fakeRepo) GetByID(_ context.Context, id int64) (*Schedule, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.schedules[id]
	if !ok {
		return nil, ErrScheduleNotFound
	}
	cp := *s
	return &cp, nil
}

func (f *fakeRepo) ListByDoctorAndDate(_ context.Context, doctorID string, workDate time.Time) ([]Schedule, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []Schedule
	for _, s := range f.schedules {
		if s.DoctorID == doctorID && s.WorkDate.Equal(workDate) {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (f *fakeRepo) ListAvailableByDoctor(_ context.Context, doctorID string, from time.Time) ([]Schedule, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []Schedule
	for _, s := range f.schedules {
		if s.DoctorID == doctorID && !s.WorkDate.Before(from) {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (f *fakeRepo) ListAvailableByDate(_ context.Context, workDate time.Time) ([]Schedule, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []Schedule
	for _, s := range f.schedules {
		if s.WorkDate.Equal(workDate) {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (f *fakeRepo) Create(_ context.Context, s *Schedule) (*Schedule, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	cp := *s
	cp.ID = f.nextID
	f.schedules[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (f *fakeRepo) Update(_ context.Context, s *Schedule) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	existing, ok := f.schedules[s.ID]
	if !ok {
		return ErrScheduleNotFound
	}
	*existing = *s
	return nil
}

func (f *fakeRepo) Delete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.schedules[id]
	if !ok {
		return ErrScheduleNotFound
	}
	if s.BookedCount > 0 {
		return ErrHasBookings
	}
	delete(f.schedules, id)
	return nil
}

var fixedNow = time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)

func newTestService(repo *fakeRepo) *Service {
	svc := NewService(repo, zerolog.Nop())
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func validInput() ScheduleInput {
	return ScheduleInput{
		DoctorID:  "10000001",
		WorkDate:  time.Date(2026, 9, 3, 0, 0, 0, 0, time.UTC),
		StartTime: "09:00",
		EndTime:   "12:00",
	}
}

func TestCreateDefaultsCapacity(t *testing.T) {
	svc := newTestService(newFakeRepo())

	created, err := svc.Create(context.Background(), validInput())
	require.NoError(t, err)
	assert.Equal(t, 20, created.MaxPatients)
	assert.Equal(t, 0, created.BookedCount)
	assert.Equal(t, 0, created.Version)
}

func TestCreateValidation(t *testing.T) {
	svc := newTestService(newFakeRepo())
	ctx := context.Background()

	cases := map[string]func(*ScheduleInput){
		"missing doctor":  func(in *ScheduleInput) { in.DoctorID = "" },
		"bad start time":  func(in *ScheduleInput) { in.StartTime = "9am" },
		"bad end time":    func(in *ScheduleInput) { in.EndTime = "25:00" },
		"inverted window": func(in *ScheduleInput) { in.StartTime, in.EndTime = "14:00", "09:00" },
		"zero capacity":   func(in *ScheduleInput) { zero := 0; in.MaxPatients = &zero },
		"past date":       func(in *ScheduleInput) { in.WorkDate = fixedNow.AddDate(0, 0, -1) },
		"same day":        func(in *ScheduleInput) { in.WorkDate = fixedNow },
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			in := validInput()
			mutate(&in)
			_, err := svc.Create(ctx, in)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestCreateRejectsOverlap(t *testing.T) {
	svc := newTestService(newFakeRepo())
	ctx := context.Background()

	_, err := svc.Create(ctx, validInput())
	require.NoError(t, err)

	overlapping := validInput()
	overlapping.StartTime = "11:00"
	overlapping.EndTime = "14:00"
	_, err = svc.Create(ctx, overlapping)
	assert.ErrorIs(t, err, ErrOverlap)

	// Touching windows do not overlap.
	adjacent := validInput()
	adjacent.StartTime = "12:00"
	adjacent.EndTime = "15:00"
	_, err = svc.Create(ctx, adjacent)
	assert.NoError(t, err)

	// Neither do same windows for another doctor.
	otherDoctor := validInput()
	otherDoctor.DoctorID = "10000002"
	_, err = svc.Create(ctx, otherDoctor)
	assert.NoError(t, err)
}

func TestUpdateFreezesTimesOnceBooked(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	created, err := svc.Create(ctx, validInput())
	require.NoError(t, err)

	repo.schedules[created.ID].BookedCount = 3

	_, err = svc.Update(ctx, created.ID, ScheduleInput{StartTime: "10:00"})
	assert.ErrorIs(t, err, ErrHasBookings)

	// Capacity can grow but never drop below the booked count.
	two := 2
	_, err = svc.Update(ctx, created.ID, ScheduleInput{MaxPatients: &two})
	assert.ErrorIs(t, err, ErrValidation)

	thirty := 30
	updated, err := svc.Update(ctx, created.ID, ScheduleInput{MaxPatients: &thirty})
	require.NoError(t, err)
	assert.Equal(t, 30, updated.MaxPatients)
}

func TestUpdateMovesEmptySlot(t *testing.T) {
	svc := newTestService(newFakeRepo())
	ctx := context.Background()

	created, err := svc.Create(ctx, validInput())
	require.NoError(t, err)

	updated, err := svc.Update(ctx, created.ID, ScheduleInput{StartTime: "13:00", EndTime: "16:00"})
	require.NoError(t, err)
	assert.Equal(t, "13:00", updated.StartTime)
	assert.Equal(t, "16:00", updated.EndTime)
}

func TestDeleteRefusesBookedSlot(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	created, err := svc.Create(ctx, validInput())
	require.NoError(t, err)

	repo.schedules[created.ID].BookedCount = 1
	assert.ErrorIs(t, svc.Delete(ctx, created.ID), ErrHasBookings)

	repo.schedules[created.ID].BookedCount = 0
	assert.NoError(t, svc.Delete(ctx, created.ID))
	assert.ErrorIs(t, svc.Delete(ctx, created.ID), ErrScheduleNotFound)
}

func TestListAvailableRequiresFilter(t *testing.T) {
	svc := newTestService(newFakeRepo())

	_, err := svc.ListAvailable(context.Background(), "", nil)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestBatchImportSkipsBadRows(t *testing.T) {
	svc := newTestService(newFakeRepo())

	good := validInput()
	bad := validInput()
	bad.StartTime = "nope"

	succeeded, failures := svc.BatchImport(context.Background(), []ScheduleInput{good, bad})
	assert.Equal(t, 1, succeeded)
	assert.Len(t, failures, 1)
}
