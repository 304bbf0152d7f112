package domain

import (
	"fmt"
	"time"
)

// TimeInterval полуоткрытый интервал [Start, End), Start всегда раньше End
type TimeInterval struct {
	Start time.Time
	End   time.Time
}

// NewTimeInterval создает интервал, start >= end отклоняется с ErrInvalidInterval
func NewTimeInterval(start, end time.Time) (TimeInterval, error) {
	if !start.Before(end) {
		return TimeInterval{}, fmt.Errorf("%w: start %s is not before end %s",
			ErrInvalidInterval, start.Format(DateTimeFormat), end.Format(DateTimeFormat))
	}
	return TimeInterval{Start: start, End: end}, nil
}

// Duration возвращает End - Start
func (i TimeInterval) Duration() time.Duration {
	return i.End.Sub(i.Start)
}

// IsValid возвращает true, если Start раньше End
func (i TimeInterval) IsValid() bool {
	return i.Start.Before(i.End)
}

// Equal сравнивает обе границы как моменты времени
func (i TimeInterval) Equal(other TimeInterval) bool {
	return i.Start.Equal(other.Start) && i.End.Equal(other.End)
}

func (i TimeInterval) String() string {
	return fmt.Sprintf("[%s, %s)", i.Start.Format(DateTimeFormat), i.End.Format(DateTimeFormat))
}

// Overlaps возвращает true, если у a и b есть общий момент. Касание границами не пересечение.
func Overlaps(a, b TimeInterval) bool {
	return a.Start.Before(b.End) && b.Start.Before(a.End)
}

// OverlapsWithBuffer возвращает true, если a и b ближе друг к другу, чем buffer.
// Расширяется только b, на buffer с каждой стороны, поэтому минимальный зазор между
// записями равен одному buffer, а не двум. Интервалы ровно через buffer не пересекаются.
func OverlapsWithBuffer(a, b TimeInterval, buffer time.Duration) bool {
	if buffer <= 0 {
		return Overlaps(a, b)
	}
	widened := TimeInterval{Start: b.Start.Add(-buffer), End: b.End.Add(buffer)}
	return Overlaps(a, widened)
}

// Contains возвращает true, если inner целиком внутри outer
func Contains(outer, inner TimeInterval) bool {
	return !inner.Start.Before(outer.Start) && !inner.End.After(outer.End)
}
