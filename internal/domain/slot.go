package domain

import (
	"time"

	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// AvailableSlot свободное время начала для записи
type AvailableSlot struct {
	StartTime       types.TimeString
	Start           time.Time
	End             time.Time
	DurationMinutes int
}

// Interval возвращает слот как интервал
func (s *AvailableSlot) Interval() TimeInterval {
	return TimeInterval{Start: s.Start, End: s.End}
}
