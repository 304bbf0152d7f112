package appointments

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

var (
	// ErrAppointmentNotFound возвращается, когда запись не найдена
	ErrAppointmentNotFound = fmt.Errorf("%w: appointment", domain.ErrNotFound)

	// ErrTransitionNotAllowed возвращается при нарушении жизненного цикла записи
	ErrTransitionNotAllowed = fmt.Errorf("%w: transition not allowed", domain.ErrInvalidTransition)

	// ErrNotFinished возвращается при попытке завершить запись до её окончания
	ErrNotFinished = fmt.Errorf("%w: appointment has not ended yet", domain.ErrInvalidTransition)

	// ErrNotCancelled возвращается при попытке удалить неотменённую запись
	ErrNotCancelled = fmt.Errorf("%w: only cancelled appointments can be purged", domain.ErrInvalidTransition)

	// ErrConcurrentUpdate возвращается, когда все попытки фиксации проиграли гонку
	ErrConcurrentUpdate = fmt.Errorf("%w: concurrent update, retry later", domain.ErrConflict)

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
