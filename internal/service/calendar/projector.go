package calendar

import (
	"sort"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// Проекции календаря: чистые функции над набором записей, без ввода-вывода.
// Отсечение "+N ещё" остаётся заботой отображения, каждая ячейка содержит все записи.

// MaxMonthRows максимальное число недель в сетке месяца
const MaxMonthRows = 6

// GridPosition вертикальное смещение и высота записи в сетке дня, в пикселях
type GridPosition struct {
	Top    float64
	Height float64
}

// DateGroup записи одного календарного дня
type DateGroup struct {
	Date         time.Time
	Appointments []*domain.Appointment
}

// MonthCell ячейка сетки месяца
type MonthCell struct {
	Date         time.Time
	InMonth      bool
	Appointments []*domain.Appointment
}

// WeekBuckets раскладывает записи по 7 дням недели, начинающейся с понедельника weekStart.
// Если weekStart не понедельник, берётся понедельник этой недели. Запись попадает в день своего начала.
func WeekBuckets(appointments []*domain.Appointment, weekStart time.Time) [7][]*domain.Appointment {
	monday := domain.StartOfWeek(weekStart)

	var buckets [7][]*domain.Appointment
	for i := range buckets {
		buckets[i] = make([]*domain.Appointment, 0)
	}

	for _, a := range appointments {
		if idx, ok := dayIndex(monday, a.Interval.Start, 7); ok {
			buckets[idx] = append(buckets[idx], a)
		}
	}

	for i := range buckets {
		sortByStart(buckets[i])
	}
	return buckets
}

// MonthGrid строит сетку месяца monthAnchor: от понедельника до 1-го числа
// до воскресенья после последнего дня, не более MaxMonthRows строк.
func MonthGrid(appointments []*domain.Appointment, monthAnchor time.Time) [][7]MonthCell {
	first := time.Date(monthAnchor.Year(), monthAnchor.Month(), 1, 0, 0, 0, 0, monthAnchor.Location())
	last := first.AddDate(0, 1, -1)

	gridStart := domain.StartOfWeek(first)
	gridEnd := domain.EndOfWeek(last)

	days := 0
	for d := gridStart; !d.After(gridEnd); d = d.AddDate(0, 0, 1) {
		days++
	}
	rows := days / 7

	grid := make([][7]MonthCell, rows)
	for row := range grid {
		weekStart := gridStart.AddDate(0, 0, row*7)
		buckets := WeekBuckets(appointments, weekStart)
		for col := range grid[row] {
			date := weekStart.AddDate(0, 0, col)
			grid[row][col] = MonthCell{
				Date:         date,
				InMonth:      date.Month() == first.Month(),
				Appointments: buckets[col],
			}
		}
	}
	return grid
}

// GridOffset переводит интервал записи в смещение от dayStartHour и высоту.
// Значения не обрезаются: запись раньше начала сетки получает отрицательный Top.
func GridOffset(a *domain.Appointment, dayStartHour int, pixelsPerHour float64) GridPosition {
	start := a.Interval.Start
	midnight := domain.DateOf(start)

	hoursFromStart := start.Sub(midnight).Hours() - float64(dayStartHour)
	return GridPosition{
		Top:    hoursFromStart * pixelsPerHour,
		Height: a.Interval.Duration().Hours() * pixelsPerHour,
	}
}

// ListGroups группирует записи по дате начала: даты по возрастанию,
// внутри даты по времени начала, при равенстве по ID.
func ListGroups(appointments []*domain.Appointment) []DateGroup {
	sorted := make([]*domain.Appointment, len(appointments))
	copy(sorted, appointments)
	sortByStart(sorted)

	groups := make([]DateGroup, 0)
	for _, a := range sorted {
		date := domain.DateOf(a.Interval.Start)
		if n := len(groups); n > 0 && groups[n-1].Date.Equal(date) {
			groups[n-1].Appointments = append(groups[n-1].Appointments, a)
			continue
		}
		groups = append(groups, DateGroup{Date: date, Appointments: []*domain.Appointment{a}})
	}
	return groups
}

func dayIndex(from, t time.Time, days int) (int, bool) {
	for i := 0; i < days; i++ {
		if domain.IsSameDay(from.AddDate(0, 0, i), t) {
			return i, true
		}
	}
	return 0, false
}

func sortByStart(list []*domain.Appointment) {
	sort.SliceStable(list, func(i, j int) bool {
		if !list[i].Interval.Start.Equal(list[j].Interval.Start) {
			return list[i].Interval.Start.Before(list[j].Interval.Start)
		}
		return list[i].ID.String() < list[j].ID.String()
	})
}
