package get_available_slots

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// Request модель запроса на получение доступных слотов
type Request struct {
	ResourceID uuid.UUID // ID ресурса (мастер или салон)
	ServiceID  uuid.UUID // ID услуги, определяет длительность слота
	Date       time.Time // Дата (время суток игнорируется)
}

// Response модель ответа со списком доступных слотов
type Response struct {
	Date            time.Time
	ResourceID      uuid.UUID
	ServiceID       uuid.UUID
	DurationMinutes int
	Slots           []domain.AvailableSlot // по возрастанию времени начала
}
