package calendar

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	catalogRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/catalog"
	"github.com/m04kA/SMC-SchedulingService/internal/service/calendar/models"
)

// Options параметры отображения сетки дня
type Options struct {
	DayStartHour  int
	PixelsPerHour float64
}

// Service сервис календарных представлений: загружает записи периода и проецирует их
type Service struct {
	store   AppointmentStore
	catalog CatalogRepository
	logger  Logger
	opts    Options
}

// NewService создает новый экземпляр сервиса календаря
func NewService(store AppointmentStore, catalog CatalogRepository, logger Logger, opts Options) *Service {
	if opts.PixelsPerHour <= 0 {
		opts.PixelsPerHour = domain.DefaultPixelsPerHour
	}
	return &Service{store: store, catalog: catalog, logger: logger, opts: opts}
}

// Week возвращает недельный календарь ресурса с позициями записей
func (s *Service) Week(ctx context.Context, req *models.WeekRequest) (*models.WeekResponse, error) {
	monday := domain.StartOfWeek(req.Start)
	s.logger.Info("Week: resource=%s, weekStart=%s", req.ResourceID, monday.Format(domain.DateFormat))

	list, err := s.load(ctx, "Week", req.ResourceID, monday, monday.AddDate(0, 0, 7), req.IncludeInactive)
	if err != nil {
		return nil, err
	}

	buckets := WeekBuckets(list, monday)
	resp := &models.WeekResponse{
		ResourceID:   req.ResourceID.String(),
		WeekStart:    monday.Format(domain.DateFormat),
		DayStartHour: s.opts.DayStartHour,
		Days:         make([]models.DayResponse, 0, len(buckets)),
	}
	for i, bucket := range buckets {
		date := monday.AddDate(0, 0, i)
		day := models.DayResponse{
			Date:         date.Format(domain.DateFormat),
			Weekday:      strings.ToLower(date.Weekday().String()),
			Appointments: make([]models.CalendarAppointment, 0, len(bucket)),
		}
		for _, a := range bucket {
			pos := GridOffset(a, s.opts.DayStartHour, s.opts.PixelsPerHour)
			day.Appointments = append(day.Appointments, models.FromDomainCalendarAppointment(a, pos.Top, pos.Height))
		}
		resp.Days = append(resp.Days, day)
	}

	return resp, nil
}

// Month возвращает месячную сетку ресурса
func (s *Service) Month(ctx context.Context, req *models.MonthRequest) (*models.MonthResponse, error) {
	s.logger.Info("Month: resource=%s, month=%s", req.ResourceID, req.Month.Format(domain.MonthFormat))

	first := time.Date(req.Month.Year(), req.Month.Month(), 1, 0, 0, 0, 0, req.Month.Location())
	from := domain.StartOfWeek(first)
	to := domain.EndOfWeek(first.AddDate(0, 1, -1)).AddDate(0, 0, 1)

	list, err := s.load(ctx, "Month", req.ResourceID, from, to, req.IncludeInactive)
	if err != nil {
		return nil, err
	}

	grid := MonthGrid(list, first)
	resp := &models.MonthResponse{
		ResourceID: req.ResourceID.String(),
		Month:      first.Format(domain.MonthFormat),
		Weeks:      make([][]models.MonthCellResponse, 0, len(grid)),
	}
	for _, row := range grid {
		week := make([]models.MonthCellResponse, 0, len(row))
		for _, cell := range row {
			week = append(week, models.MonthCellResponse{
				Date:         cell.Date.Format(domain.DateFormat),
				InMonth:      cell.InMonth,
				Appointments: models.FromDomainAppointments(cell.Appointments),
			})
		}
		resp.Weeks = append(resp.Weeks, week)
	}

	return resp, nil
}

// List возвращает записи периода [From, To), сгруппированные по датам
func (s *Service) List(ctx context.Context, req *models.ListRequest) (*models.ListResponse, error) {
	s.logger.Info("List: resource=%s, from=%s, to=%s", req.ResourceID,
		req.From.Format(domain.DateTimeFormat), req.To.Format(domain.DateTimeFormat))

	if !req.From.Before(req.To) {
		s.logger.Warn("List: empty period for resource=%s", req.ResourceID)
		return nil, fmt.Errorf("%w: from must be before to", ErrInvalidInput)
	}

	list, err := s.load(ctx, "List", req.ResourceID, req.From, req.To, req.IncludeInactive)
	if err != nil {
		return nil, err
	}

	groups := ListGroups(list)
	resp := &models.ListResponse{
		ResourceID: req.ResourceID.String(),
		From:       req.From.Format(domain.DateTimeFormat),
		To:         req.To.Format(domain.DateTimeFormat),
		Groups:     make([]models.GroupResponse, 0, len(groups)),
	}
	for _, g := range groups {
		resp.Groups = append(resp.Groups, models.GroupResponse{
			Date:         g.Date.Format(domain.DateFormat),
			Appointments: models.FromDomainAppointments(g.Appointments),
		})
	}

	return resp, nil
}

func (s *Service) load(
	ctx context.Context,
	op string,
	resourceID uuid.UUID,
	from, to time.Time,
	includeInactive bool,
) ([]*domain.Appointment, error) {
	if _, err := s.catalog.GetResource(ctx, resourceID); err != nil {
		if errors.Is(err, catalogRepo.ErrResourceNotFound) {
			s.logger.Warn("%s: resource id=%s not found", op, resourceID)
			return nil, ErrResourceNotFound
		}
		s.logger.Error("%s: catalog error for resource=%s: %v", op, resourceID, err)
		return nil, fmt.Errorf("%w: %s - catalog error: %v", ErrInternal, op, err)
	}

	list, err := s.store.List(ctx, domain.AppointmentFilter{
		ResourceID:      resourceID,
		From:            &from,
		To:              &to,
		IncludeInactive: includeInactive,
	})
	if err != nil {
		s.logger.Error("%s: repository error for resource=%s: %v", op, resourceID, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}

	s.logger.Info("%s: loaded %d appointments for resource=%s", op, len(list), resourceID)
	return list, nil
}
