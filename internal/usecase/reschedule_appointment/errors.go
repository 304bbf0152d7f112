package reschedule_appointment

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

var (
	// ErrAppointmentNotFound возвращается, когда запись не найдена
	ErrAppointmentNotFound = fmt.Errorf("%w: appointment", domain.ErrNotFound)

	// ErrResourceNotFound возвращается, когда ресурс записи не найден
	ErrResourceNotFound = fmt.Errorf("%w: resource", domain.ErrNotFound)

	// ErrNotActive возвращается при попытке перенести завершённую или отменённую запись
	ErrNotActive = fmt.Errorf("%w: only pending or accepted appointments can be rescheduled", domain.ErrInvalidTransition)

	// ErrDurationChanged возвращается, когда новый интервал не совпадает по длительности со снимком услуги
	ErrDurationChanged = fmt.Errorf("%w: interval duration must match the booked service duration", domain.ErrInvalidInterval)

	// ErrSlotNotAvailable возвращается, когда новый интервал пересекается с другой активной записью
	ErrSlotNotAvailable = fmt.Errorf("%w: slot is already taken", domain.ErrNotBookable)

	// ErrOutsideWorkingHours возвращается, когда интервал не помещается в рабочее окно ресурса
	ErrOutsideWorkingHours = fmt.Errorf("%w: outside working hours", domain.ErrNotBookable)

	// ErrStartInPast возвращается, когда новое время начала не в будущем
	ErrStartInPast = fmt.Errorf("%w: start is not in the future", domain.ErrNotBookable)

	// ErrConcurrentUpdate возвращается, когда все попытки фиксации проиграли гонку
	ErrConcurrentUpdate = fmt.Errorf("%w: concurrent update, retry later", domain.ErrConflict)

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("usecase: internal error")
)
