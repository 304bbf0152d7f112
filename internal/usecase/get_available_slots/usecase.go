package get_available_slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	catalogRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/catalog"
)

// UseCase use case для получения доступных слотов для записи
type UseCase struct {
	appointments AppointmentStore
	catalog      CatalogRepository
	timeProvider TimeProvider
	metrics      SlotsObserver
	logger       Logger
	granularity  time.Duration
}

// NewUseCase создает новый экземпляр use case.
// granularityMinutes <= 0 означает шаг по умолчанию; metrics может быть nil.
func NewUseCase(
	appointments AppointmentStore,
	catalog CatalogRepository,
	timeProvider TimeProvider,
	metrics SlotsObserver,
	logger Logger,
	granularityMinutes int,
) *UseCase {
	if granularityMinutes <= 0 {
		granularityMinutes = domain.DefaultSlotGranularityMinutes
	}
	return &UseCase{
		appointments: appointments,
		catalog:      catalog,
		timeProvider: timeProvider,
		metrics:      metrics,
		logger:       logger,
		granularity:  time.Duration(granularityMinutes) * time.Minute,
	}
}

// Execute выполняет use case получения доступных слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	uc.logger.Info("GetAvailableSlots: resource=%s, service=%s, date=%s",
		req.ResourceID, req.ServiceID, req.Date.Format(domain.DateFormat))

	date := domain.DateOf(req.Date)

	// 2. Получаем ресурс и услугу
	resource, err := uc.catalog.GetResource(ctx, req.ResourceID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrResourceNotFound) {
			uc.logger.Warn("GetAvailableSlots: resource id=%s not found", req.ResourceID)
			return nil, ErrResourceNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get resource id=%s: %v", req.ResourceID, err)
		return nil, fmt.Errorf("%w: failed to get resource: %v", ErrInternal, err)
	}

	service, err := uc.catalog.GetService(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			uc.logger.Warn("GetAvailableSlots: service id=%s not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get service id=%s: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	response := &Response{
		Date:            date,
		ResourceID:      resource.ID,
		ServiceID:       service.ID,
		DurationMinutes: service.DurationMinutes,
		Slots:           []domain.AvailableSlot{},
	}

	// 3. Ресурс не работает в этот день
	if !resource.IsOpenOn(date) {
		uc.logger.Info("GetAvailableSlots: resource %s is closed on %s", resource.ID, date.Format(domain.DateFormat))
		uc.observe(0)
		return response, nil
	}

	// 4. Активные записи за день, расширенный на буфер с обеих сторон
	day := domain.DayRange(date)
	from := day.Start.Add(-resource.Buffer())
	to := day.End.Add(resource.Buffer())
	existing, err := uc.appointments.LoadActive(ctx, resource.ID, from, to)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to load appointments: %v", err)
		return nil, fmt.Errorf("%w: failed to load appointments: %v", ErrInternal, err)
	}

	// 5. Генерируем слоты
	seq := GenerateSlots(resource, date, service.Duration(), uc.granularity, uc.timeProvider.Now(), existing)
	response.Slots = collectSlots(seq, service.Duration())

	uc.logger.Info("GetAvailableSlots: generated %d slots for resource=%s, service=%s, date=%s",
		len(response.Slots), resource.ID, service.ID, date.Format(domain.DateFormat))
	uc.observe(len(response.Slots))

	return response, nil
}

func (uc *UseCase) observe(n int) {
	if uc.metrics != nil {
		uc.metrics.ObserveSlots(n)
	}
}
