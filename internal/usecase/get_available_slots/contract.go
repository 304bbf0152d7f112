package get_available_slots

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// AppointmentStore источник активных записей ресурса
type AppointmentStore interface {
	// LoadActive получает активные записи ресурса, пересекающиеся с [from, to)
	LoadActive(ctx context.Context, resourceID uuid.UUID, from, to time.Time) ([]*domain.Appointment, error)
}

// CatalogRepository интерфейс каталога ресурсов и услуг
type CatalogRepository interface {
	GetResource(ctx context.Context, id uuid.UUID) (*domain.Resource, error)
	GetService(ctx context.Context, id uuid.UUID) (*domain.Service, error)
}

// SlotsObserver метрика количества выданных слотов
type SlotsObserver interface {
	ObserveSlots(n int)
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
