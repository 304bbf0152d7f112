package reschedule_appointment

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req == nil {
		return fmt.Errorf("%w: request is required", ErrInvalidInput)
	}

	if req.AppointmentID == uuid.Nil {
		return fmt.Errorf("%w: appointmentID is required", ErrInvalidInput)
	}

	if !req.Interval.IsValid() {
		return fmt.Errorf("%w: %s", domain.ErrInvalidInterval, req.Interval)
	}

	return nil
}
