package domain

import "time"

// DateOf обрезает t до полуночи его дня, зона t сохраняется
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// IsSameDay возвращает true, если a и b в одном календарном дне
func IsSameDay(a, b time.Time) bool {
	y1, m1, d1 := a.Date()
	y2, m2, d2 := b.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// StartOfWeek возвращает понедельник недели t, полночь
func StartOfWeek(t time.Time) time.Time {
	d := DateOf(t)
	// time.Sunday == 0, Monday == 1
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDate(0, 0, -offset)
}

// EndOfWeek возвращает воскресенье недели t, полночь
func EndOfWeek(t time.Time) time.Time {
	return StartOfWeek(t).AddDate(0, 0, 6)
}

// DayRange возвращает интервал на весь календарный день t
func DayRange(t time.Time) TimeInterval {
	start := DateOf(t)
	return TimeInterval{Start: start, End: start.AddDate(0, 0, 1)}
}
