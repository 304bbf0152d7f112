package domain

import "errors"

// Виды ошибок движка расписания. Каждая операция оборачивает ровно одну из них,
// вызывающий различает их через errors.Is.
var (
	// ErrInvalidWindow некорректное рабочее окно (open >= close)
	ErrInvalidWindow = errors.New("invalid availability window")

	// ErrNotFound неизвестный ресурс, услуга или запись
	ErrNotFound = errors.New("not found")

	// ErrNotBookable интервал нельзя забронировать
	ErrNotBookable = errors.New("interval is not bookable")

	// ErrInvalidTransition недопустимый переход статуса
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrConflict оптимистичное сохранение проиграло гонку, нужно перепроверить и повторить
	ErrConflict = errors.New("concurrent modification conflict")

	// ErrInvalidInterval некорректный интервал (start >= end)
	ErrInvalidInterval = errors.New("invalid time interval")
)
