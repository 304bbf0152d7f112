package create_appointment

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// AppointmentStore хранилище записей с оптимистичной фиксацией
type AppointmentStore interface {
	// LoadActive получает активные записи ресурса, пересекающиеся с [from, to)
	LoadActive(ctx context.Context, resourceID uuid.UUID, from, to time.Time) ([]*domain.Appointment, error)
	// Commit сохраняет запись, если сохранённая версия равна expectedVersion (0 - новая запись)
	Commit(ctx context.Context, appt *domain.Appointment, expectedVersion int64) (*domain.Appointment, error)
}

// CatalogRepository интерфейс каталога ресурсов и услуг
type CatalogRepository interface {
	GetResource(ctx context.Context, id uuid.UUID) (*domain.Resource, error)
	GetService(ctx context.Context, id uuid.UUID) (*domain.Service, error)
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
