package get_available_slots

import (
	"iter"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// GenerateSlots возвращает ленивую последовательность времён начала, доступных для записи
// на услугу длительностью duration в день date.
//
// Кандидаты идут с шагом granularity от начала каждого рабочего окна; интервал
// [t, t+duration) обязан целиком помещаться в окно, поэтому неполный последний шаг
// отбрасывается. Отсекаются кандидаты, начинающиеся не строго позже now, и те, что
// пересекаются (с учётом буфера ресурса) с активными записями из existing.
//
// Последовательность можно обходить повторно, она не имеет побочных эффектов.
func GenerateSlots(
	resource *domain.Resource,
	date time.Time,
	duration time.Duration,
	granularity time.Duration,
	now time.Time,
	existing []*domain.Appointment,
) iter.Seq[time.Time] {
	if granularity <= 0 {
		granularity = domain.DefaultSlotGranularityMinutes * time.Minute
	}

	return func(yield func(time.Time) bool) {
		if resource == nil || duration <= 0 {
			return
		}

		for _, window := range resource.WindowsFor(date) {
			// duration больше окна - цикл не выполнится ни разу
			for t := window.Start; !t.Add(duration).After(window.End); t = t.Add(granularity) {
				candidate := domain.TimeInterval{Start: t, End: t.Add(duration)}
				if !domain.Contains(window, candidate) {
					continue
				}
				if !t.After(now) {
					continue
				}
				if !domain.IsBookable(resource, candidate, existing) {
					continue
				}
				if !yield(t) {
					return
				}
			}
		}
	}
}

// collectSlots материализует последовательность в модели слотов
func collectSlots(seq iter.Seq[time.Time], duration time.Duration) []domain.AvailableSlot {
	minutes := int(duration / time.Minute)
	result := make([]domain.AvailableSlot, 0)
	for start := range seq {
		result = append(result, domain.AvailableSlot{
			StartTime:       types.NewTimeString(start),
			Start:           start,
			End:             start.Add(duration),
			DurationMinutes: minutes,
		})
	}
	return result
}
