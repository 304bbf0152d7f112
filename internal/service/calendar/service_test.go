package calendar

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/appointment"
	catalogRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/catalog"
	"github.com/m04kA/SMC-SchedulingService/internal/service/calendar/models"
	"github.com/m04kA/SMC-SchedulingService/pkg/logger"
)

func newCalendar(t *testing.T, appointments ...*domain.Appointment) (*Service, uuid.UUID) {
	t.Helper()
	resourceID := uuid.New()
	for _, a := range appointments {
		a.ResourceID = resourceID
	}
	catalog := catalogRepo.NewMemoryRepository([]domain.Resource{{ID: resourceID, Name: "Maria"}}, nil)
	store := appointmentRepo.NewMemoryRepository(appointments...)
	return NewService(store, catalog, logger.NewNop(), Options{DayStartHour: 8, PixelsPerHour: 60}), resourceID
}

func TestService_Week(t *testing.T) {
	morning := appt(at(3, 10, 0), 60)
	cancelled := appt(at(3, 12, 0), 60)
	cancelled.Status = domain.StatusCancelled
	svc, resourceID := newCalendar(t, morning, cancelled)
	ctx := context.Background()

	resp, err := svc.Week(ctx, &models.WeekRequest{ResourceID: resourceID, Start: at(5, 0, 0)})
	require.NoError(t, err)
	assert.Equal(t, "2026-03-02", resp.WeekStart)
	require.Len(t, resp.Days, 7)
	assert.Equal(t, "tuesday", resp.Days[1].Weekday)
	require.Len(t, resp.Days[1].Appointments, 1)
	assert.Equal(t, morning.ID.String(), resp.Days[1].Appointments[0].ID)
	assert.InDelta(t, 120, resp.Days[1].Appointments[0].Top, 1e-9)
	assert.InDelta(t, 60, resp.Days[1].Appointments[0].Height, 1e-9)

	resp, err = svc.Week(ctx, &models.WeekRequest{ResourceID: resourceID, Start: at(5, 0, 0), IncludeInactive: true})
	require.NoError(t, err)
	assert.Len(t, resp.Days[1].Appointments, 2)
}

func TestService_Month(t *testing.T) {
	svc, resourceID := newCalendar(t, appt(at(31, 16, 0), 60))

	resp, err := svc.Month(context.Background(), &models.MonthRequest{ResourceID: resourceID, Month: at(10, 0, 0)})
	require.NoError(t, err)
	assert.Equal(t, "2026-03", resp.Month)
	require.Len(t, resp.Weeks, 6)
	// 31 марта - вторник последней строки
	cell := resp.Weeks[5][1]
	assert.Equal(t, "2026-03-31", cell.Date)
	assert.True(t, cell.InMonth)
	assert.Len(t, cell.Appointments, 1)
	assert.False(t, resp.Weeks[5][6].InMonth)
}

func TestService_List(t *testing.T) {
	svc, resourceID := newCalendar(t, appt(at(2, 9, 0), 60), appt(at(4, 9, 0), 60), appt(at(20, 9, 0), 60))
	ctx := context.Background()

	resp, err := svc.List(ctx, &models.ListRequest{ResourceID: resourceID, From: at(1, 0, 0), To: at(8, 0, 0)})
	require.NoError(t, err)
	require.Len(t, resp.Groups, 2)
	assert.Equal(t, "2026-03-02", resp.Groups[0].Date)
	assert.Equal(t, "2026-03-04", resp.Groups[1].Date)

	_, err = svc.List(ctx, &models.ListRequest{ResourceID: resourceID, From: at(8, 0, 0), To: at(1, 0, 0)})
	assert.True(t, errors.Is(err, ErrInvalidInput))
}

func TestService_UnknownResource(t *testing.T) {
	svc, _ := newCalendar(t)

	_, err := svc.Week(context.Background(), &models.WeekRequest{ResourceID: uuid.New(), Start: time.Now()})
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}
