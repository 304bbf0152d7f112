package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// DaySchedule рабочее окно одного дня недели. Open и Close имеют смысл только при IsOpen.
type DaySchedule struct {
	IsOpen bool
	Open   types.TimeString
	Close  types.TimeString
}

// ClosedDay возвращает выходной день
func ClosedDay() DaySchedule {
	return DaySchedule{IsOpen: false}
}

// OpenDay возвращает рабочий день с open до close
func OpenDay(open, close types.TimeString) DaySchedule {
	return DaySchedule{IsOpen: true, Open: open, Close: close}
}

// Validate отклоняет рабочий день с некорректным или пустым окном
func (d DaySchedule) Validate() error {
	if !d.IsOpen {
		return nil
	}
	if err := d.Open.Validate(); err != nil {
		return fmt.Errorf("%w: open: %v", ErrInvalidWindow, err)
	}
	if err := d.Close.Validate(); err != nil {
		return fmt.Errorf("%w: close: %v", ErrInvalidWindow, err)
	}
	if !d.Open.IsBefore(d.Close) {
		return fmt.Errorf("%w: open %s is not before close %s", ErrInvalidWindow, d.Open, d.Close)
	}
	return nil
}

// WindowOn привязывает окно дня к календарной дате date
func (d DaySchedule) WindowOn(date time.Time) (TimeInterval, bool) {
	if !d.IsOpen {
		return TimeInterval{}, false
	}
	return TimeInterval{Start: d.Open.On(date), End: d.Close.On(date)}, true
}

// WeeklyAvailability рабочие окна по дням недели, индекс - time.Weekday.
// День заменяется только целиком.
type WeeklyAvailability struct {
	days [7]DaySchedule
}

// NewWeeklyAvailability строит проверенное недельное расписание. Дни, которых нет в map, выходные.
func NewWeeklyAvailability(days map[time.Weekday]DaySchedule) (WeeklyAvailability, error) {
	var w WeeklyAvailability
	for wd, d := range days {
		if err := w.Set(wd, d); err != nil {
			return WeeklyAvailability{}, err
		}
	}
	return w, nil
}

// Day возвращает расписание дня недели
func (w WeeklyAvailability) Day(weekday time.Weekday) DaySchedule {
	if weekday < time.Sunday || weekday > time.Saturday {
		return ClosedDay()
	}
	return w.days[weekday]
}

// Set атомарно заменяет расписание дня недели.
// Некорректное окно возвращает ErrInvalidWindow, расписание не меняется.
func (w *WeeklyAvailability) Set(weekday time.Weekday, d DaySchedule) error {
	if weekday < time.Sunday || weekday > time.Saturday {
		return fmt.Errorf("%w: unknown weekday %d", ErrInvalidWindow, weekday)
	}
	if err := d.Validate(); err != nil {
		return err
	}
	if !d.IsOpen {
		d = ClosedDay()
	}
	w.days[weekday] = d
	return nil
}

// WindowsFor возвращает рабочие окна на дату: пусто в выходной, иначе одно окно.
// Разрывы внутри дня не поддерживаются.
func (w WeeklyAvailability) WindowsFor(date time.Time) []TimeInterval {
	window, ok := w.Day(date.Weekday()).WindowOn(date)
	if !ok {
		return nil
	}
	return []TimeInterval{window}
}

// Days возвращает расписание с понедельника
func (w WeeklyAvailability) Days() []WeekdaySchedule {
	result := make([]WeekdaySchedule, 0, 7)
	for _, wd := range WeekdaysFromMonday() {
		result = append(result, WeekdaySchedule{Weekday: wd, DaySchedule: w.days[wd]})
	}
	return result
}

// WeekdaySchedule день недели и его расписание
type WeekdaySchedule struct {
	Weekday time.Weekday
	DaySchedule
}

// WeekdaysFromMonday дни недели с понедельника по воскресенье
func WeekdaysFromMonday() []time.Weekday {
	return []time.Weekday{
		time.Monday, time.Tuesday, time.Wednesday, time.Thursday,
		time.Friday, time.Saturday, time.Sunday,
	}
}

// ParseWeekday разбирает английское название дня ("monday", "Mon") без учёта регистра
func ParseWeekday(s string) (time.Weekday, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		full := strings.ToLower(wd.String())
		if name == full || (len(name) == 3 && name == full[:3]) {
			return wd, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown weekday %q", ErrInvalidWindow, s)
}
