package reschedule_appointment

import (
	"github.com/google/uuid"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// Request модель запроса на перенос записи
type Request struct {
	AppointmentID uuid.UUID
	Interval      domain.TimeInterval // новый интервал, длительность должна совпадать с исходной
}

// Options параметры usecase
type Options struct {
	CommitRetries int // повторы фиксации после проигранной гонки
}
