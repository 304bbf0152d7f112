package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Service услуга салона. Запись хранит снимок названия, длительности и цены,
// поэтому изменение услуги не затрагивает уже созданные записи.
type Service struct {
	ID              uuid.UUID
	Name            string
	DurationMinutes int
	Price           decimal.Decimal
}

// Duration возвращает длительность услуги
func (s *Service) Duration() time.Duration {
	return time.Duration(s.DurationMinutes) * time.Minute
}

// Validate проверяет длительность в 1..MaxServiceDurationMinutes и неотрицательную цену
func (s *Service) Validate() error {
	if s.DurationMinutes <= 0 || s.DurationMinutes > MaxServiceDurationMinutes {
		return fmt.Errorf("%w: service duration must be in 1..%d minutes, got %d",
			ErrInvalidInterval, MaxServiceDurationMinutes, s.DurationMinutes)
	}
	if s.Price.IsNegative() {
		return fmt.Errorf("%w: service price must not be negative", ErrInvalidInterval)
	}
	return nil
}
