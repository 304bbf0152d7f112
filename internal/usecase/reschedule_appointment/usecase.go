package reschedule_appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/appointment"
	catalogRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/catalog"
)

const operationName = "reschedule"

// UseCase use case для переноса записи на другой интервал
type UseCase struct {
	store        AppointmentStore
	catalog      CatalogRepository
	locker       Locker
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
		conflicts:    conflicts,
		timeProvider: timeProvider,
		logger:       logger,
		retries:      opts.CommitRetries,
	}
}

// Execute заменяет интервал записи, не меняя её статус.
// Сама запись исключается из проверки пересечений.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*domain.Appointment, error) {
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("RescheduleAppointment: validation failed: %v", err)
		return nil, err
	}

	uc.logger.Info("RescheduleAppointment: appointment=%s, interval=%s", req.AppointmentID, req.Interval)

	// Ресурс нужен до блокировки, чтобы знать её ключ
	current, err := uc.load(ctx, req)
	if err != nil {
		return nil, err
	}

	resource, err := uc.catalog.GetResource(ctx, current.ResourceID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrResourceNotFound) {
			uc.logger.Warn("RescheduleAppointment: resource id=%s not found", current.ResourceID)
			return nil, ErrResourceNotFound
		}
		uc.logger.Error("RescheduleAppointment: failed to get resource id=%s: %v", current.ResourceID, err)
		return nil, fmt.Errorf("%w: failed to get resource: %v", ErrInternal, err)
	}

	now := uc.timeProvider.Now()
	if !req.Interval.Start.After(now) {
		uc.logger.Warn("RescheduleAppointment: start %s is not in the future", req.Interval.Start.Format(domain.DateTimeFormat))
		return nil, ErrStartInPast
	}

	if !resource.FitsAvailability(req.Interval) {
		uc.logger.Warn("RescheduleAppointment: interval %s is outside working hours of resource %s", req.Interval, resource.ID)
		return nil, ErrOutsideWorkingHours
	}

	unlock, err := uc.locker.Lock(ctx, resource.ID.String())
	if err != nil {
		uc.logger.Warn("RescheduleAppointment: failed to lock resource %s: %v", resource.ID, err)
		return nil, fmt.Errorf("%w: %v", ErrConcurrentUpdate, err)
	}
	defer unlock()

	for attempt := 0; attempt <= uc.retries; attempt++ {
		updated, err := uc.tryCommit(ctx, req, resource, now)
		if err == nil {
			uc.logger.Info("RescheduleAppointment: appointment id=%s moved to %s", updated.ID, updated.Interval)
			return updated, nil
		}
		if !errors.Is(err, appointmentRepo.ErrVersionConflict) {
			return nil, err
		}

		uc.logger.Warn("RescheduleAppointment: commit conflict on attempt %d/%d: %v", attempt+1, uc.retries+1, err)
		if uc.conflicts != nil {
			uc.conflicts.ObserveCommitConflict(operationName)
		}
	}

	uc.logger.Warn("RescheduleAppointment: giving up after %d attempts for appointment %s", uc.retries+1, req.AppointmentID)
	return nil, ErrConcurrentUpdate
}

// load получает запись и проверяет, что её можно переносить на req.Interval
func (uc *UseCase) load(ctx context.Context, req *Request) (*domain.Appointment, error) {
	appt, err := uc.store.GetByID(ctx, req.AppointmentID)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			uc.logger.Warn("RescheduleAppointment: appointment id=%s not found", req.AppointmentID)
			return nil, ErrAppointmentNotFound
		}
		uc.logger.Error("RescheduleAppointment: failed to get appointment id=%s: %v", req.AppointmentID, err)
		return nil, fmt.Errorf("%w: failed to get appointment: %v", ErrInternal, err)
	}

	if !appt.IsActive() {
		uc.logger.Warn("RescheduleAppointment: appointment id=%s is %s", appt.ID, appt.Status)
		return nil, ErrNotActive
	}

	if req.Interval.Duration() != appt.Duration() {
		uc.logger.Warn("RescheduleAppointment: duration %s does not match booked %s", req.Interval.Duration(), appt.Duration())
		return nil, ErrDurationChanged
	}

	return appt, nil
}

// tryCommit перечитывает запись и соседей под блокировкой и фиксирует новый интервал
func (uc *UseCase) tryCommit(ctx context.Context, req *Request, resource *domain.Resource, now time.Time) (*domain.Appointment, error) {
	current, err := uc.load(ctx, req)
	if err != nil {
		return nil, err
	}

	buffer := resource.Buffer()
	existing, err := uc.store.LoadActive(ctx, resource.ID, req.Interval.Start.Add(-buffer), req.Interval.End.Add(buffer))
	if err != nil {
		uc.logger.Error("RescheduleAppointment: failed to load appointments: %v", err)
		return nil, fmt.Errorf("%w: failed to load appointments: %v", ErrInternal, err)
	}

	others := domain.ExcludeAppointment(existing, current.ID)
	if conflict := domain.FindConflict(resource, req.Interval, others); conflict != nil {
		uc.logger.Warn("RescheduleAppointment: interval %s conflicts with appointment id=%s %s",
			req.Interval, conflict.ID, conflict.Interval)
		return nil, ErrSlotNotAvailable
	}

	moved := current.Clone()
	moved.Interval = req.Interval
	moved.UpdatedAt = now

	updated, err := uc.store.Commit(ctx, moved, current.Version)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrVersionConflict) {
			return nil, err
		}
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			return nil, ErrAppointmentNotFound
		}
		uc.logger.Error("RescheduleAppointment: failed to commit appointment: %v", err)
		return nil, fmt.Errorf("%w: failed to commit appointment: %v", ErrInternal, err)
	}

	return updated, nil
}
