package appointments

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/infra/locker"
	appointmentRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-SchedulingService/internal/service/appointments/models"
	"github.com/m04kA/SMC-SchedulingService/pkg/clock"
	"github.com/m04kA/SMC-SchedulingService/pkg/logger"
	"github.com/m04kA/SMC-SchedulingService/pkg/ptr"
)

// 2026-03-02 - понедельник
var monday = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

type recordingPublisher struct {
	events []domain.StatusChangedEvent
}

func (p *recordingPublisher) Publish(_ context.Context, event domain.StatusChangedEvent) {
	p.events = append(p.events, event)
}

type fixture struct {
	svc    *Service
	store  *appointmentRepo.MemoryRepository
	events *recordingPublisher
	clock  *clock.Fixed
}

func newFixture(t *testing.T, opts Options, appointments ...*domain.Appointment) *fixture {
	t.Helper()
	store := appointmentRepo.NewMemoryRepository(appointments...)
	events := &recordingPublisher{}
	clk := &clock.Fixed{At: monday.Add(8 * time.Hour)}
	svc := NewService(store, locker.NewLocal(), events, nil, clk, logger.NewNop(), opts)
	return &fixture{svc: svc, store: store, events: events, clock: clk}
}

func appointment(status domain.AppointmentStatus, startHour int) *domain.Appointment {
	start := monday.Add(time.Duration(startHour) * time.Hour)
	return &domain.Appointment{
		ID:              uuid.New(),
		ResourceID:      uuid.MustParse("0b6a3c55-7f0e-4f9c-8a77-4e2b9d1c3f10"),
		ServiceID:       uuid.New(),
		ClientName:      "Anna",
		Interval:        domain.TimeInterval{Start: start, End: start.Add(time.Hour)},
		Status:          status,
		DurationMinutes: 60,
	}
}

func TestService_Accept(t *testing.T) {
	appt := appointment(domain.StatusPending, 10)
	f := newFixture(t, Options{CommitRetries: 3}, appt)

	resp, err := f.svc.Accept(context.Background(), appt.ID)
	require.NoError(t, err)
	assert.Equal(t, "accepted", resp.Status)
	assert.Equal(t, int64(2), resp.Version)

	require.Len(t, f.events.events, 1)
	assert.Equal(t, domain.StatusPending, f.events.events[0].OldStatus)
	assert.Equal(t, domain.StatusAccepted, f.events.events[0].NewStatus)
}

func TestService_Accept_Twice(t *testing.T) {
	appt := appointment(domain.StatusPending, 10)
	f := newFixture(t, Options{CommitRetries: 3}, appt)

	_, err := f.svc.Accept(context.Background(), appt.ID)
	require.NoError(t, err)

	_, err = f.svc.Accept(context.Background(), appt.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidTransition))
	assert.Len(t, f.events.events, 1, "failed transition must not emit events")
}

func TestService_Complete_Pending(t *testing.T) {
	appt := appointment(domain.StatusPending, 10)
	f := newFixture(t, Options{AllowEarlyCompletion: true}, appt)

	_, err := f.svc.Complete(context.Background(), appt.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidTransition))

	stored, err := f.store.GetByID(context.Background(), appt.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, stored.Status)
	assert.Equal(t, int64(1), stored.Version)
}

func TestService_Complete_EarlyCompletion(t *testing.T) {
	tests := []struct {
		name       string
		allowEarly bool
		now        time.Time
		wantErr    error
	}{
		{name: "early allowed", allowEarly: true, now: monday.Add(9 * time.Hour)},
		{name: "early rejected", allowEarly: false, now: monday.Add(9 * time.Hour), wantErr: ErrNotFinished},
		{name: "after end", allowEarly: false, now: monday.Add(12 * time.Hour)},
		{name: "exactly at end", allowEarly: false, now: monday.Add(11 * time.Hour)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			appt := appointment(domain.StatusAccepted, 10)
			f := newFixture(t, Options{AllowEarlyCompletion: tt.allowEarly}, appt)
			f.clock.At = tt.now

			resp, err := f.svc.Complete(context.Background(), appt.ID)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr))
				assert.True(t, errors.Is(err, domain.ErrInvalidTransition))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "completed", resp.Status)
		})
	}
}

func TestService_Cancel(t *testing.T) {
	appt := appointment(domain.StatusAccepted, 10)
	f := newFixture(t, Options{}, appt)

	resp, err := f.svc.Cancel(context.Background(), appt.ID, &models.CancelRequest{Reason: ptr.Ptr("  client is ill ")})
	require.NoError(t, err)
	assert.Equal(t, "cancelled", resp.Status)
	require.NotNil(t, resp.CancellationReason)
	assert.Equal(t, "client is ill", *resp.CancellationReason)
	assert.NotNil(t, resp.CancelledAt)

	_, err = f.svc.Cancel(context.Background(), appt.ID, nil)
	assert.True(t, errors.Is(err, domain.ErrInvalidTransition), "cancelled is terminal")
}

func TestService_Purge(t *testing.T) {
	cancelled := appointment(domain.StatusCancelled, 10)
	active := appointment(domain.StatusPending, 12)
	f := newFixture(t, Options{}, cancelled, active)
	ctx := context.Background()

	require.NoError(t, f.svc.Purge(ctx, cancelled.ID))
	_, err := f.svc.GetByID(ctx, cancelled.ID)
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	err = f.svc.Purge(ctx, active.ID)
	assert.True(t, errors.Is(err, ErrNotCancelled))
	assert.True(t, errors.Is(err, domain.ErrInvalidTransition))
}

func TestService_NotFound(t *testing.T) {
	f := newFixture(t, Options{})
	ctx := context.Background()
	id := uuid.New()

	_, err := f.svc.GetByID(ctx, id)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	_, err = f.svc.Accept(ctx, id)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	_, err = f.svc.Cancel(ctx, id, nil)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	_, err = f.svc.Complete(ctx, id)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	assert.True(t, errors.Is(f.svc.Purge(ctx, id), domain.ErrNotFound))
}

func TestService_List(t *testing.T) {
	a := appointment(domain.StatusPending, 12)
	b := appointment(domain.StatusCancelled, 10)
	c := appointment(domain.StatusAccepted, 9)
	f := newFixture(t, Options{}, a, b, c)
	ctx := context.Background()

	resp, err := f.svc.List(ctx, &models.ListRequest{ResourceID: a.ResourceID})
	require.NoError(t, err)
	require.Len(t, resp.Appointments, 2)
	assert.Equal(t, c.ID.String(), resp.Appointments[0].ID)
	assert.Equal(t, a.ID.String(), resp.Appointments[1].ID)

	resp, err = f.svc.List(ctx, &models.ListRequest{ResourceID: a.ResourceID, IncludeInactive: true})
	require.NoError(t, err)
	assert.Len(t, resp.Appointments, 3)

	resp, err = f.svc.List(ctx, &models.ListRequest{ResourceID: a.ResourceID, Status: ptr.Ptr("cancelled")})
	require.NoError(t, err)
	require.Len(t, resp.Appointments, 1)
	assert.Equal(t, b.ID.String(), resp.Appointments[0].ID)

	_, err = f.svc.List(ctx, &models.ListRequest{ResourceID: a.ResourceID, Status: ptr.Ptr("done")})
	assert.True(t, errors.Is(err, ErrInvalidInput))

	from, to := monday.Add(13*time.Hour), monday.Add(12*time.Hour)
	_, err = f.svc.List(ctx, &models.ListRequest{ResourceID: a.ResourceID, From: &from, To: &to})
	assert.True(t, errors.Is(err, ErrInvalidInput))
}
