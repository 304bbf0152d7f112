package reschedule_appointment

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// AppointmentStore хранилище записей с оптимистичной фиксацией
type AppointmentStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Appointment, error)
	LoadActive(ctx context.Context, resourceID uuid.UUID, from, to time.Time) ([]*domain.Appointment, error)
	Commit(ctx context.Context, appt *domain.Appointment, expectedVersion int64) (*domain.Appointment, error)
}

// CatalogRepository интерфейс каталога ресурсов
type CatalogRepository interface {
	GetResource(ctx context.Context, id uuid.UUID) (*domain.Resource, error)
}

// Locker сериализует запись в расписание одного ресурса
type Locker interface {
	Lock(ctx context.Context, key string) (unlock func(), err error)
}

// ConflictObserver метрика проигранных гонок фиксации
type ConflictObserver interface {
	ObserveCommitConflict(operation string)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
