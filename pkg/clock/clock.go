package clock

import "time"

// Real реальный провайдер времени для production
type Real struct{}

// Now возвращает текущее локальное время
func (Real) Now() time.Time {
	return time.Now()
}

// Fixed провайдер, всегда возвращающий одно и то же время. Используется в тестах и при отладке.
type Fixed struct {
	At time.Time
}

// Now возвращает зафиксированное время
func (f *Fixed) Now() time.Time {
	return f.At
}

// Advance сдвигает зафиксированное время на d
func (f *Fixed) Advance(d time.Duration) {
	f.At = f.At.Add(d)
}
