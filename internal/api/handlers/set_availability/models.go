package set_availability

import (
	"github.com/google/uuid"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/service/availability/models"
)

// SetDayRequest HTTP request model
type SetDayRequest struct {
	IsOpen bool    `json:"isOpen"`
	Open   *string `json:"open,omitempty"`  // "09:00"
	Close  *string `json:"close,omitempty"` // "17:00"
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
func (r *SetDayRequest) ToServiceRequest(resourceID uuid.UUID, weekdayStr string) (*models.SetDayRequest, error) {
	weekday, err := domain.ParseWeekday(weekdayStr)
	if err != nil {
		return nil, err
	}

	return &models.SetDayRequest{
		ResourceID: resourceID,
		Weekday:    weekday,
		IsOpen:     r.IsOpen,
		Open:       r.Open,
		Close:      r.Close,
	}, nil
}
