package create_appointment

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// Request модель запроса на создание записи
type Request struct {
	ResourceID uuid.UUID        // ID ресурса (мастер или салон)
	ServiceID  uuid.UUID        // ID услуги
	Date       time.Time        // Дата записи (без времени)
	StartTime  types.TimeString // Время начала, например "10:00"
	ClientName string
	Contact    *string // Телефон или email клиента (опционально)
	Notes      *string // Дополнительные заметки (опционально)
	AutoAccept bool    // Создать сразу в статусе accepted, минуя pending
}

// Options параметры usecase
type Options struct {
	CommitRetries int // повторы фиксации после проигранной гонки
}
