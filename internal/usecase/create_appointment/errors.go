package create_appointment

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

var (
	// ErrResourceNotFound возвращается, когда ресурс не найден
	ErrResourceNotFound = fmt.Errorf("%w: resource", domain.ErrNotFound)

	// ErrServiceNotFound возвращается, когда услуга не найдена
	ErrServiceNotFound = fmt.Errorf("%w: service", domain.ErrNotFound)

	// ErrSlotNotAvailable возвращается, когда интервал пересекается с активной записью
	ErrSlotNotAvailable = fmt.Errorf("%w: slot is already taken", domain.ErrNotBookable)

	// ErrOutsideWorkingHours возвращается, когда интервал не помещается в рабочее окно ресурса
	ErrOutsideWorkingHours = fmt.Errorf("%w: outside working hours", domain.ErrNotBookable)

	// ErrStartInPast возвращается, когда время начала не в будущем
	ErrStartInPast = fmt.Errorf("%w: start is not in the future", domain.ErrNotBookable)

	// ErrConcurrentUpdate возвращается, когда все попытки фиксации проиграли гонку
	ErrConcurrentUpdate = fmt.Errorf("%w: concurrent update, retry later", domain.ErrConflict)

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("usecase: internal error")
)
