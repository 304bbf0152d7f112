package appointments

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-SchedulingService/internal/service/appointments/models"
)

// Options параметры сервиса
type Options struct {
	CommitRetries        int  // повторы фиксации после проигранной гонки
	AllowEarlyCompletion bool // разрешить завершать запись до её окончания
}

// Service сервис жизненного цикла записей: просмотр, подтверждение, отмена, завершение, удаление
type Service struct {
	store        AppointmentStore
	locker       Locker
	events       EventPublisher
	conflicts    ConflictObserver
	timeProvider TimeProvider
	logger       Logger
	opts         Options
}

// NewService создает новый экземпляр сервиса записей. conflicts может быть nil.
func NewService(
	store AppointmentStore,
	locker Locker,
	events EventPublisher,
	conflicts ConflictObserver,
	timeProvider TimeProvider,
	logger Logger,
	opts Options,
) *Service {
	if opts.CommitRetries < 0 {
		opts.CommitRetries = 0
	}
	return &Service{
		store:        store,
		locker:       locker,
		events:       events,
		conflicts:    conflicts,
		timeProvider: timeProvider,
		logger:       logger,
		opts:         opts,
	}
}

// GetByID получает запись по ID
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*models.AppointmentResponse, error) {
	appt, err := s.get(ctx, "GetByID", id)
	if err != nil {
		return nil, err
	}
	return models.FromDomainAppointment(appt), nil
}

// List получает записи ресурса, пересекающиеся с периодом, по возрастанию времени начала
func (s *Service) List(ctx context.Context, req *models.ListRequest) (*models.AppointmentListResponse, error) {
	s.logger.Info("List: fetching appointments for resource=%s, includeInactive=%t", req.ResourceID, req.IncludeInactive)

	if req.From != nil && req.To != nil && !req.From.Before(*req.To) {
		s.logger.Warn("List: empty period %s - %s", req.From.Format(domain.DateTimeFormat), req.To.Format(domain.DateTimeFormat))
		return nil, fmt.Errorf("%w: from must be before to", ErrInvalidInput)
	}

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("List: invalid filter for resource=%s: %v", req.ResourceID, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	list, err := s.store.List(ctx, filter)
	if err != nil {
		s.logger.Error("List: repository error for resource=%s: %v", req.ResourceID, err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("List: fetched %d appointments for resource=%s", len(list), req.ResourceID)
	return models.FromDomainAppointmentList(list), nil
}

// Accept переводит запись pending -> accepted
func (s *Service) Accept(ctx context.Context, id uuid.UUID) (*models.AppointmentResponse, error) {
	appt, err := s.transition(ctx, "Accept", id, func(a *domain.Appointment, now time.Time) error {
		return a.TransitionTo(domain.StatusAccepted, now)
	})
	if err != nil {
		return nil, err
	}
	return models.FromDomainAppointment(appt), nil
}

// Cancel отменяет активную запись. Отменённая запись перестаёт занимать ресурс.
func (s *Service) Cancel(ctx context.Context, id uuid.UUID, req *models.CancelRequest) (*models.AppointmentResponse, error) {
	var reason *string
	if req != nil && req.Reason != nil {
		trimmed := strings.TrimSpace(*req.Reason)
		if utf8.RuneCountInString(trimmed) > domain.MaxCancellationReasonLength {
			s.logger.Warn("Cancel: reason for appointment id=%s is too long", id)
			return nil, fmt.Errorf("%w: reason is longer than %d characters", ErrInvalidInput, domain.MaxCancellationReasonLength)
		}
		if trimmed != "" {
			reason = &trimmed
		}
	}

	appt, err := s.transition(ctx, "Cancel", id, func(a *domain.Appointment, now time.Time) error {
		if err := a.TransitionTo(domain.StatusCancelled, now); err != nil {
			return err
		}
		a.CancellationReason = reason
		return nil
	})
	if err != nil {
		return nil, err
	}
	return models.FromDomainAppointment(appt), nil
}

// Complete переводит запись accepted -> completed.
// Без AllowEarlyCompletion запись должна уже закончиться.
func (s *Service) Complete(ctx context.Context, id uuid.UUID) (*models.AppointmentResponse, error) {
	appt, err := s.transition(ctx, "Complete", id, func(a *domain.Appointment, now time.Time) error {
		early := a.Interval.End.After(now)
		if a.Status.CanTransitionTo(domain.StatusCompleted) && early && !s.opts.AllowEarlyCompletion {
			return fmt.Errorf("%w: ends at %s", ErrNotFinished, a.Interval.End.Format(domain.DateTimeFormat))
		}
		return a.TransitionTo(domain.StatusCompleted, now)
	})
	if err != nil {
		return nil, err
	}
	return models.FromDomainAppointment(appt), nil
}

// Purge физически удаляет отменённую запись. Предназначено для хранилища/аудита.
func (s *Service) Purge(ctx context.Context, id uuid.UUID) error {
	s.logger.Info("Purge: purging appointment id=%s", id)

	appt, err := s.get(ctx, "Purge", id)
	if err != nil {
		return err
	}

	unlock, err := s.lock(ctx, "Purge", appt.ResourceID)
	if err != nil {
		return err
	}
	defer unlock()

	for attempt := 0; attempt <= s.opts.CommitRetries; attempt++ {
		current, err := s.get(ctx, "Purge", id)
		if err != nil {
			return err
		}
		if current.Status != domain.StatusCancelled {
			s.logger.Warn("Purge: appointment id=%s is %s", id, current.Status)
			return ErrNotCancelled
		}

		err = s.store.Delete(ctx, id, current.Version)
		if err == nil {
			s.logger.Info("Purge: appointment id=%s purged", id)
			return nil
		}
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			return ErrAppointmentNotFound
		}
		if !errors.Is(err, appointmentRepo.ErrVersionConflict) {
			s.logger.Error("Purge: repository error for appointment id=%s: %v", id, err)
			return fmt.Errorf("%w: Purge - repository error: %v", ErrInternal, err)
		}
		s.observeConflict("Purge", attempt, err)
	}

	return ErrConcurrentUpdate
}

// Вспомогательные методы

// transition применяет apply к свежей копии записи под блокировкой её ресурса и фиксирует результат.
// При проигранной гонке запись перечитывается и apply применяется заново.
func (s *Service) transition(
	ctx context.Context,
	op string,
	id uuid.UUID,
	apply func(a *domain.Appointment, now time.Time) error,
) (*domain.Appointment, error) {
	s.logger.Info("%s: appointment id=%s", op, id)

	appt, err := s.get(ctx, op, id)
	if err != nil {
		return nil, err
	}

	unlock, err := s.lock(ctx, op, appt.ResourceID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	for attempt := 0; attempt <= s.opts.CommitRetries; attempt++ {
		current, err := s.get(ctx, op, id)
		if err != nil {
			return nil, err
		}

		now := s.timeProvider.Now()
		oldStatus := current.Status
		next := current.Clone()
		if err := apply(next, now); err != nil {
			s.logger.Warn("%s: appointment id=%s: %v", op, id, err)
			if errors.Is(err, domain.ErrInvalidTransition) && !errors.Is(err, ErrNotFinished) {
				return nil, fmt.Errorf("%w: %v", ErrTransitionNotAllowed, err)
			}
			return nil, err
		}

		updated, err := s.store.Commit(ctx, next, current.Version)
		if err == nil {
			s.logger.Info("%s: appointment id=%s %s -> %s", op, id, oldStatus, updated.Status)
			s.events.Publish(ctx, domain.StatusChangedEvent{
				ResourceID:    updated.ResourceID,
				AppointmentID: updated.ID,
				OldStatus:     oldStatus,
				NewStatus:     updated.Status,
				OccurredAt:    now,
			})
			return updated, nil
		}
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			return nil, ErrAppointmentNotFound
		}
		if !errors.Is(err, appointmentRepo.ErrVersionConflict) {
			s.logger.Error("%s: repository error for appointment id=%s: %v", op, id, err)
			return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
		}
		s.observeConflict(op, attempt, err)
	}

	s.logger.Warn("%s: giving up after %d attempts for appointment id=%s", op, s.opts.CommitRetries+1, id)
	return nil, ErrConcurrentUpdate
}

func (s *Service) get(ctx context.Context, op string, id uuid.UUID) (*domain.Appointment, error) {
	appt, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("%s: appointment id=%s not found", op, id)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("%s: repository error for appointment id=%s: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return appt, nil
}

func (s *Service) lock(ctx context.Context, op string, resourceID uuid.UUID) (func(), error) {
	unlock, err := s.locker.Lock(ctx, resourceID.String())
	if err != nil {
		s.logger.Warn("%s: failed to lock resource %s: %v", op, resourceID, err)
		return nil, fmt.Errorf("%w: %v", ErrConcurrentUpdate, err)
	}
	return unlock, nil
}

func (s *Service) observeConflict(op string, attempt int, err error) {
	s.logger.Warn("%s: commit conflict on attempt %d/%d: %v", op, attempt+1, s.opts.CommitRetries+1, err)
	if s.conflicts != nil {
		s.conflicts.ObserveCommitConflict(strings.ToLower(op))
	}
}
