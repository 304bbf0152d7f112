package availability

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// CatalogRepository интерфейс каталога ресурсов
type CatalogRepository interface {
	GetResource(ctx context.Context, id uuid.UUID) (*domain.Resource, error)
	ListResources(ctx context.Context) ([]*domain.Resource, error)
	SaveDaySchedule(ctx context.Context, resourceID uuid.UUID, weekday time.Weekday, day domain.DaySchedule) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
