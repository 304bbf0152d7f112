package availability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	catalogRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/catalog"
	"github.com/m04kA/SMC-SchedulingService/internal/service/availability/models"
	"github.com/m04kA/SMC-SchedulingService/pkg/logger"
	"github.com/m04kA/SMC-SchedulingService/pkg/ptr"
)

func newService(t *testing.T) (*Service, domain.Resource) {
	t.Helper()
	availability, err := domain.NewWeeklyAvailability(map[time.Weekday]domain.DaySchedule{
		time.Monday: domain.OpenDay("09:00", "17:00"),
	})
	require.NoError(t, err)
	resource := domain.Resource{ID: uuid.New(), Name: "Maria", Availability: availability}
	catalog := catalogRepo.NewMemoryRepository([]domain.Resource{resource}, nil)
	return NewService(catalog, logger.NewNop()), resource
}

func TestService_GetWeekly(t *testing.T) {
	svc, resource := newService(t)

	resp, err := svc.GetWeekly(context.Background(), resource.ID)
	require.NoError(t, err)
	require.Len(t, resp.Days, 7)
	assert.Equal(t, "monday", resp.Days[0].Weekday)
	assert.True(t, resp.Days[0].IsOpen)
	assert.Equal(t, "09:00", *resp.Days[0].Open)
	assert.Equal(t, "sunday", resp.Days[6].Weekday)
	assert.False(t, resp.Days[6].IsOpen)
	assert.Nil(t, resp.Days[6].Open)
}

func TestService_SetDay(t *testing.T) {
	svc, resource := newService(t)
	ctx := context.Background()

	resp, err := svc.SetDay(ctx, &models.SetDayRequest{
		ResourceID: resource.ID,
		Weekday:    time.Saturday,
		IsOpen:     true,
		Open:       ptr.Ptr("10:00"),
		Close:      ptr.Ptr("14:00"),
	})
	require.NoError(t, err)
	assert.True(t, resp.Days[5].IsOpen)

	saturday := time.Date(2026, 3, 7, 0, 0, 0, 0, time.Local)
	windows, err := svc.WindowsFor(ctx, resource.ID, saturday)
	require.NoError(t, err)
	assert.Equal(t, "2026-03-07", windows.Date)
	require.Len(t, windows.Windows, 1)
	assert.Equal(t, "2026-03-07T10:00", windows.Windows[0].Start)
	assert.Equal(t, "2026-03-07T14:00", windows.Windows[0].End)

	// Закрываем понедельник
	_, err = svc.SetDay(ctx, &models.SetDayRequest{ResourceID: resource.ID, Weekday: time.Monday, IsOpen: false})
	require.NoError(t, err)
	windows, err = svc.WindowsFor(ctx, resource.ID, time.Date(2026, 3, 2, 0, 0, 0, 0, time.Local))
	require.NoError(t, err)
	assert.NotNil(t, windows.Windows)
	assert.Empty(t, windows.Windows)
}

func TestService_ListResources(t *testing.T) {
	catalog := catalogRepo.NewMemoryRepository([]domain.Resource{
		{ID: uuid.New(), Name: "Olga", Kind: domain.ResourceKindStaff, BufferMinutes: 10},
		{ID: uuid.New(), Name: "Anna", Kind: domain.ResourceKindArtist},
	}, nil)
	svc := NewService(catalog, logger.NewNop())

	resources, err := svc.ListResources(context.Background())
	require.NoError(t, err)
	require.Len(t, resources, 2)
	assert.Equal(t, "Anna", resources[0].Name)
	assert.Equal(t, "artist", resources[0].Kind)
	assert.Equal(t, "Olga", resources[1].Name)
	assert.Equal(t, 10, resources[1].BufferMinutes)
}

func TestService_SetDay_InvalidWindow(t *testing.T) {
	svc, resource := newService(t)
	ctx := context.Background()

	tests := []struct {
		name string
		req  *models.SetDayRequest
	}{
		{name: "open after close", req: &models.SetDayRequest{ResourceID: resource.ID, Weekday: time.Monday, IsOpen: true, Open: ptr.Ptr("18:00"), Close: ptr.Ptr("09:00")}},
		{name: "open equals close", req: &models.SetDayRequest{ResourceID: resource.ID, Weekday: time.Monday, IsOpen: true, Open: ptr.Ptr("09:00"), Close: ptr.Ptr("09:00")}},
		{name: "missing close", req: &models.SetDayRequest{ResourceID: resource.ID, Weekday: time.Monday, IsOpen: true, Open: ptr.Ptr("09:00")}},
		{name: "malformed", req: &models.SetDayRequest{ResourceID: resource.ID, Weekday: time.Monday, IsOpen: true, Open: ptr.Ptr("9am"), Close: ptr.Ptr("17:00")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.SetDay(ctx, tt.req)
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrInvalidWindow))
		})
	}

	// Неудачные попытки не меняют расписание
	resp, err := svc.GetWeekly(ctx, resource.ID)
	require.NoError(t, err)
	assert.Equal(t, "09:00", *resp.Days[0].Open)
	assert.Equal(t, "17:00", *resp.Days[0].Close)
}

func TestService_UnknownResource(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	_, err := svc.GetWeekly(ctx, uuid.New())
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	_, err = svc.SetDay(ctx, &models.SetDayRequest{ResourceID: uuid.New(), Weekday: time.Monday})
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	_, err = svc.WindowsFor(ctx, uuid.New(), time.Now())
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}
