package domain

// Значения конфигурации по умолчанию
const (
	DefaultSlotGranularityMinutes = 30
	DefaultCommitRetries          = 3
	DefaultDayStartHour           = 8
	DefaultPixelsPerHour          = 60
)

// Ограничения бизнес-валидации
const (
	MinSlotGranularityMinutes   = 5
	MaxSlotGranularityMinutes   = 240
	MaxBufferMinutes            = 240
	MaxServiceDurationMinutes   = 720 // 12 часов
	MaxClientNameLength         = 200
	MaxNotesLength              = 500
	MaxCancellationReasonLength = 500
)

// Форматы времени
const (
	TimeFormat     = "15:04"            // HH:MM
	DateFormat     = "2006-01-02"       // YYYY-MM-DD
	MonthFormat    = "2006-01"          // YYYY-MM
	DateTimeFormat = "2006-01-02T15:04" // локальное, без зоны
)
