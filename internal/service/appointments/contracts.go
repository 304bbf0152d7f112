package appointments

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// AppointmentStore хранилище записей с оптимистичной фиксацией
type AppointmentStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Appointment, error)
	List(ctx context.Context, filter domain.AppointmentFilter) ([]*domain.Appointment, error)
	Commit(ctx context.Context, appt *domain.Appointment, expectedVersion int64) (*domain.Appointment, error)
	Delete(ctx context.Context, id uuid.UUID, expectedVersion int64) error
}

// Locker сериализует запись в расписание одного ресурса
type Locker interface {
	Lock(ctx context.Context, key string) (unlock func(), err error)
}

// EventPublisher получатель событий смены статуса
type EventPublisher interface {
	Publish(ctx context.Context, event domain.StatusChangedEvent)
}

// ConflictObserver метрика проигранных гонок фиксации
type ConflictObserver interface {
	ObserveCommitConflict(operation string)
}

// TimeProvider интерфейс для получения текущего времени
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
