package create_appointment

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/appointment"
	catalogRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/catalog"
)

const operationName = "create"

// UseCase use case для создания записи
type UseCase struct {
	store        AppointmentStore
	catalog      CatalogRepository
	locker       Locker
	events       EventPublisher
	conflicts    ConflictObserver
	timeProvider TimeProvider
	logger       Logger
	retries      int
}

// NewUseCase создает новый экземпляр use case. conflicts может быть nil.
func NewUseCase(
	store AppointmentStore,
	catalog CatalogRepository,
	locker Locker,
	events EventPublisher,
	conflicts ConflictObserver,
	timeProvider TimeProvider,
	logger Logger,
	opts Options,
) *UseCase {
	if opts.CommitRetries < 0 {
		opts.CommitRetries = 0
	}
	return &UseCase{
		store:        store,
		catalog:      catalog,
		locker:       locker,
		events:       events,
		conflicts:    conflicts,
		timeProvider: timeProvider,
		logger:       logger,
		retries:      opts.CommitRetries,
	}
}

// Execute выполняет use case создания записи.
// Проверка свободного интервала и фиксация выполняются под блокировкой ресурса;
// проигранная гонка фиксации повторяется не более retries раз на свежем состоянии.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*domain.Appointment, error) {
	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateAppointment: validation failed: %v", err)
		return nil, err
	}

	uc.logger.Info("CreateAppointment: resource=%s, service=%s, date=%s, time=%s, autoAccept=%t",
		req.ResourceID, req.ServiceID, req.Date.Format(domain.DateFormat), req.StartTime, req.AutoAccept)

	// 2. Получаем ресурс и услугу
	resource, err := uc.catalog.GetResource(ctx, req.ResourceID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrResourceNotFound) {
			uc.logger.Warn("CreateAppointment: resource id=%s not found", req.ResourceID)
			return nil, ErrResourceNotFound
		}
		uc.logger.Error("CreateAppointment: failed to get resource id=%s: %v", req.ResourceID, err)
		return nil, fmt.Errorf("%w: failed to get resource: %v", ErrInternal, err)
	}

	service, err := uc.catalog.GetService(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			uc.logger.Warn("CreateAppointment: service id=%s not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("CreateAppointment: failed to get service id=%s: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	// 3. Интервал записи: длительность берётся из услуги на момент создания
	start := req.StartTime.On(domain.DateOf(req.Date))
	candidate, err := domain.NewTimeInterval(start, start.Add(service.Duration()))
	if err != nil {
		uc.logger.Warn("CreateAppointment: invalid interval: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()
	if !candidate.Start.After(now) {
		uc.logger.Warn("CreateAppointment: start %s is not in the future", candidate.Start.Format(domain.DateTimeFormat))
		return nil, ErrStartInPast
	}

	if !resource.FitsAvailability(candidate) {
		uc.logger.Warn("CreateAppointment: interval %s is outside working hours of resource %s", candidate, resource.ID)
		return nil, ErrOutsideWorkingHours
	}

	status := domain.StatusPending
	if req.AutoAccept {
		status = domain.StatusAccepted
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to generate id: %v", ErrInternal, err)
	}

	appt := &domain.Appointment{
		ID:         id,
		ResourceID: resource.ID,
		ServiceID:  service.ID,
		ClientName: strings.TrimSpace(req.ClientName),
		Contact:    req.Contact,
		Interval:   candidate,
		Status:     status,
		Notes:      req.Notes,
		// Снимок услуги
		ServiceName:     service.Name,
		DurationMinutes: service.DurationMinutes,
		Price:           service.Price,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	// 4. Единственная точка записи: блокировка ресурса + проверка на свежем состоянии
	unlock, err := uc.locker.Lock(ctx, resource.ID.String())
	if err != nil {
		uc.logger.Warn("CreateAppointment: failed to lock resource %s: %v", resource.ID, err)
		return nil, fmt.Errorf("%w: %v", ErrConcurrentUpdate, err)
	}
	defer unlock()

	var created *domain.Appointment
	for attempt := 0; attempt <= uc.retries; attempt++ {
		created, err = uc.tryCommit(ctx, resource, appt)
		if err == nil {
			break
		}
		if !errors.Is(err, appointmentRepo.ErrVersionConflict) {
			return nil, err
		}

		uc.logger.Warn("CreateAppointment: commit conflict on attempt %d/%d: %v", attempt+1, uc.retries+1, err)
		if uc.conflicts != nil {
			uc.conflicts.ObserveCommitConflict(operationName)
		}
	}
	if created == nil {
		uc.logger.Warn("CreateAppointment: giving up after %d attempts for resource %s", uc.retries+1, resource.ID)
		return nil, ErrConcurrentUpdate
	}

	uc.logger.Info("CreateAppointment: created appointment id=%s, %s, status=%s", created.ID, created.Interval, created.Status)

	uc.events.Publish(ctx, domain.StatusChangedEvent{
		ResourceID:    created.ResourceID,
		AppointmentID: created.ID,
		OldStatus:     "",
		NewStatus:     created.Status,
		OccurredAt:    now,
	})

	return created, nil
}

// tryCommit перечитывает активные записи, проверяет пересечения и фиксирует запись
func (uc *UseCase) tryCommit(ctx context.Context, resource *domain.Resource, appt *domain.Appointment) (*domain.Appointment, error) {
	buffer := resource.Buffer()
	existing, err := uc.store.LoadActive(ctx, resource.ID, appt.Interval.Start.Add(-buffer), appt.Interval.End.Add(buffer))
	if err != nil {
		uc.logger.Error("CreateAppointment: failed to load appointments: %v", err)
		return nil, fmt.Errorf("%w: failed to load appointments: %v", ErrInternal, err)
	}

	if conflict := domain.FindConflict(resource, appt.Interval, existing); conflict != nil {
		uc.logger.Warn("CreateAppointment: interval %s conflicts with appointment id=%s %s",
			appt.Interval, conflict.ID, conflict.Interval)
		return nil, ErrSlotNotAvailable
	}

	created, err := uc.store.Commit(ctx, appt, 0)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrVersionConflict) {
			return nil, err
		}
		uc.logger.Error("CreateAppointment: failed to commit appointment: %v", err)
		return nil, fmt.Errorf("%w: failed to commit appointment: %v", ErrInternal, err)
	}

	return created, nil
}
