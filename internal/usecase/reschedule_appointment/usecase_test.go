package reschedule_appointment

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/infra/locker"
	appointmentRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/appointment"
	catalogRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/catalog"
	"github.com/m04kA/SMC-SchedulingService/pkg/clock"
	"github.com/m04kA/SMC-SchedulingService/pkg/logger"
)

// 2026-03-02 - понедельник
var monday = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

func at(h, m int) time.Time {
	return monday.Add(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute)
}

func iv(h1, m1, h2, m2 int) domain.TimeInterval {
	return domain.TimeInterval{Start: at(h1, m1), End: at(h2, m2)}
}

type racingStore struct {
	*appointmentRepo.MemoryRepository
	failures int
	calls    int
}

func (s *racingStore) Commit(ctx context.Context, appt *domain.Appointment, expected int64) (*domain.Appointment, error) {
	s.calls++
	if s.calls <= s.failures {
		return nil, fmt.Errorf("%w: simulated race", appointmentRepo.ErrVersionConflict)
	}
	return s.MemoryRepository.Commit(ctx, appt, expected)
}

type fixture struct {
	uc       *UseCase
	store    *racingStore
	resource domain.Resource
}

func newFixture(t *testing.T, bufferMinutes, failures int, appointments ...*domain.Appointment) *fixture {
	t.Helper()
	availability, err := domain.NewWeeklyAvailability(map[time.Weekday]domain.DaySchedule{
		time.Monday: domain.OpenDay("09:00", "17:00"),
	})
	require.NoError(t, err)
	resource := domain.Resource{ID: uuid.New(), Name: "Salon", Kind: domain.ResourceKindSalon, Availability: availability, BufferMinutes: bufferMinutes}

	for _, a := range appointments {
		a.ResourceID = resource.ID
	}
	store := &racingStore{MemoryRepository: appointmentRepo.NewMemoryRepository(appointments...), failures: failures}

	uc := NewUseCase(
		store,
		catalogRepo.NewMemoryRepository([]domain.Resource{resource}, nil),
		locker.NewLocal(),
		nil,
		&clock.Fixed{At: monday.Add(-time.Hour)},
		logger.NewNop(),
		Options{CommitRetries: 2},
	)
	return &fixture{uc: uc, store: store, resource: resource}
}

func booked(interval domain.TimeInterval, status domain.AppointmentStatus) *domain.Appointment {
	return &domain.Appointment{
		ID:              uuid.New(),
		ServiceID:       uuid.New(),
		ClientName:      "Client",
		Interval:        interval,
		Status:          status,
		DurationMinutes: int(interval.Duration() / time.Minute),
	}
}

func TestUseCase_Execute_RoundTrip(t *testing.T) {
	original := iv(10, 0, 11, 0)
	appt := booked(original, domain.StatusAccepted)
	f := newFixture(t, 0, 0, appt)
	ctx := context.Background()

	moved, err := f.uc.Execute(ctx, &Request{AppointmentID: appt.ID, Interval: iv(13, 0, 14, 0)})
	require.NoError(t, err)
	assert.True(t, moved.Interval.Equal(iv(13, 0, 14, 0)))
	assert.Equal(t, domain.StatusAccepted, moved.Status)

	back, err := f.uc.Execute(ctx, &Request{AppointmentID: appt.ID, Interval: original})
	require.NoError(t, err)
	assert.True(t, back.Interval.Equal(original))
	assert.Equal(t, domain.StatusAccepted, back.Status)
	assert.Equal(t, int64(3), back.Version)
}

func TestUseCase_Execute_OverlapWithItselfAllowed(t *testing.T) {
	appt := booked(iv(10, 0, 11, 0), domain.StatusPending)
	f := newFixture(t, 10, 0, appt)

	moved, err := f.uc.Execute(context.Background(), &Request{AppointmentID: appt.ID, Interval: iv(10, 30, 11, 30)})
	require.NoError(t, err)
	assert.True(t, moved.Interval.Equal(iv(10, 30, 11, 30)))
	assert.Equal(t, domain.StatusPending, moved.Status)
}

func TestUseCase_Execute_ConflictWithOther(t *testing.T) {
	appt := booked(iv(10, 0, 11, 0), domain.StatusPending)
	other := booked(iv(12, 0, 13, 0), domain.StatusAccepted)
	f := newFixture(t, 0, 0, appt, other)

	_, err := f.uc.Execute(context.Background(), &Request{AppointmentID: appt.ID, Interval: iv(12, 30, 13, 30)})
	assert.True(t, errors.Is(err, ErrSlotNotAvailable))
	assert.True(t, errors.Is(err, domain.ErrNotBookable))

	// Стык без пересечения допустим
	_, err = f.uc.Execute(context.Background(), &Request{AppointmentID: appt.ID, Interval: iv(13, 0, 14, 0)})
	assert.NoError(t, err)
}

func TestUseCase_Execute_Rejections(t *testing.T) {
	active := booked(iv(10, 0, 11, 0), domain.StatusAccepted)
	done := booked(iv(9, 0, 10, 0), domain.StatusCompleted)
	f := newFixture(t, 0, 0, active, done)

	tests := []struct {
		name    string
		req     *Request
		wantErr error
	}{
		{name: "unknown appointment", req: &Request{AppointmentID: uuid.New(), Interval: iv(12, 0, 13, 0)}, wantErr: domain.ErrNotFound},
		{name: "inactive appointment", req: &Request{AppointmentID: done.ID, Interval: iv(12, 0, 13, 0)}, wantErr: domain.ErrInvalidTransition},
		{name: "duration changed", req: &Request{AppointmentID: active.ID, Interval: iv(12, 0, 13, 30)}, wantErr: domain.ErrInvalidInterval},
		{name: "inverted interval", req: &Request{AppointmentID: active.ID, Interval: iv(13, 0, 12, 0)}, wantErr: domain.ErrInvalidInterval},
		{name: "outside working hours", req: &Request{AppointmentID: active.ID, Interval: iv(16, 30, 17, 30)}, wantErr: ErrOutsideWorkingHours},
		{name: "in the past", req: &Request{AppointmentID: active.ID, Interval: domain.TimeInterval{Start: at(-24, 0), End: at(-23, 0)}}, wantErr: ErrStartInPast},
		{name: "missing id", req: &Request{Interval: iv(12, 0, 13, 0)}, wantErr: ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.uc.Execute(context.Background(), tt.req)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}

	stored, err := f.store.GetByID(context.Background(), active.ID)
	require.NoError(t, err)
	assert.True(t, stored.Interval.Equal(iv(10, 0, 11, 0)), "failed calls must not change state")
}

func TestUseCase_Execute_RetriesThenSucceeds(t *testing.T) {
	appt := booked(iv(10, 0, 11, 0), domain.StatusPending)
	f := newFixture(t, 0, 2, appt)

	_, err := f.uc.Execute(context.Background(), &Request{AppointmentID: appt.ID, Interval: iv(14, 0, 15, 0)})
	require.NoError(t, err)
	assert.Equal(t, 3, f.store.calls)
}

func TestUseCase_Execute_RetriesExhausted(t *testing.T) {
	appt := booked(iv(10, 0, 11, 0), domain.StatusPending)
	f := newFixture(t, 0, 5, appt)

	_, err := f.uc.Execute(context.Background(), &Request{AppointmentID: appt.ID, Interval: iv(14, 0, 15, 0)})
	assert.True(t, errors.Is(err, domain.ErrConflict))
}
