package availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	catalogRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/catalog"
	"github.com/m04kA/SMC-SchedulingService/internal/service/availability/models"
)

// Service сервис недельного расписания ресурсов
type Service struct {
	catalog CatalogRepository
	logger  Logger
}

// NewService создает новый экземпляр сервиса расписания
func NewService(catalog CatalogRepository, logger Logger) *Service {
	return &Service{catalog: catalog, logger: logger}
}

// GetWeekly возвращает недельное расписание ресурса
func (s *Service) GetWeekly(ctx context.Context, resourceID uuid.UUID) (*models.WeeklyResponse, error) {
	resource, err := s.getResource(ctx, "GetWeekly", resourceID)
	if err != nil {
		return nil, err
	}
	return models.FromDomainResource(resource), nil
}

// SetDay атомарно заменяет расписание одного дня недели.
// Открытый день с open >= close отклоняется с domain.ErrInvalidWindow, расписание не меняется.
func (s *Service) SetDay(ctx context.Context, req *models.SetDayRequest) (*models.WeeklyResponse, error) {
	s.logger.Info("SetDay: resource=%s, weekday=%s, isOpen=%t", req.ResourceID, req.Weekday, req.IsOpen)

	day := req.ToDomainDay()
	if err := day.Validate(); err != nil {
		s.logger.Warn("SetDay: invalid window for resource=%s: %v", req.ResourceID, err)
		return nil, err
	}

	if err := s.catalog.SaveDaySchedule(ctx, req.ResourceID, req.Weekday, day); err != nil {
		switch {
		case errors.Is(err, catalogRepo.ErrResourceNotFound):
			s.logger.Warn("SetDay: resource id=%s not found", req.ResourceID)
			return nil, ErrResourceNotFound
		case errors.Is(err, domain.ErrInvalidWindow):
			s.logger.Warn("SetDay: invalid window for resource=%s: %v", req.ResourceID, err)
			return nil, err
		default:
			s.logger.Error("SetDay: repository error for resource=%s: %v", req.ResourceID, err)
			return nil, fmt.Errorf("%w: SetDay - repository error: %v", ErrInternal, err)
		}
	}

	s.logger.Info("SetDay: schedule of resource=%s for %s updated", req.ResourceID, req.Weekday)
	return s.GetWeekly(ctx, req.ResourceID)
}

// WindowsFor возвращает рабочие окна ресурса на дату: пусто в выходной, иначе одно окно
func (s *Service) WindowsFor(ctx context.Context, resourceID uuid.UUID, date time.Time) (*models.WindowsResponse, error) {
	resource, err := s.getResource(ctx, "WindowsFor", resourceID)
	if err != nil {
		return nil, err
	}
	return models.FromDomainWindows(resourceID, date, resource.WindowsFor(date)), nil
}

// ListResources возвращает все ресурсы каталога, отсортированные по имени
func (s *Service) ListResources(ctx context.Context) ([]models.ResourceResponse, error) {
	resources, err := s.catalog.ListResources(ctx)
	if err != nil {
		s.logger.Error("ListResources: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListResources - repository error: %v", ErrInternal, err)
	}
	return models.FromDomainResources(resources), nil
}

func (s *Service) getResource(ctx context.Context, op string, id uuid.UUID) (*domain.Resource, error) {
	resource, err := s.catalog.GetResource(ctx, id)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrResourceNotFound) {
			s.logger.Warn("%s: resource id=%s not found", op, id)
			return nil, ErrResourceNotFound
		}
		s.logger.Error("%s: repository error for resource=%s: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return resource, nil
}
