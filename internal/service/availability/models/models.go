package models

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/ptr"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// Request модели

// SetDayRequest запрос на замену расписания одного дня недели
type SetDayRequest struct {
	ResourceID uuid.UUID    `json:"-"`
	Weekday    time.Weekday `json:"-"`
	IsOpen     bool         `json:"isOpen"`
	Open       *string      `json:"open,omitempty"`  // "09:00", обязательно при isOpen
	Close      *string      `json:"close,omitempty"` // "17:00", обязательно при isOpen
}

// ToDomainDay конвертирует запрос в domain модель. Формат и порядок времени проверяет domain.
func (r *SetDayRequest) ToDomainDay() domain.DaySchedule {
	if !r.IsOpen {
		return domain.ClosedDay()
	}
	return domain.OpenDay(
		types.TimeString(strings.TrimSpace(ptr.Deref(r.Open, ""))),
		types.TimeString(strings.TrimSpace(ptr.Deref(r.Close, ""))),
	)
}

// Response модели

// DayResponse расписание одного дня недели
type DayResponse struct {
	Weekday string  `json:"weekday"` // "monday"
	IsOpen  bool    `json:"isOpen"`
	Open    *string `json:"open,omitempty"`
	Close   *string `json:"close,omitempty"`
}

// WeeklyResponse недельное расписание ресурса, с понедельника
type WeeklyResponse struct {
	ResourceID    string        `json:"resourceId"`
	ResourceName  string        `json:"resourceName"`
	BufferMinutes int           `json:"bufferMinutes"`
	Days          []DayResponse `json:"days"`
}

// WindowResponse рабочее окно на конкретную дату
type WindowResponse struct {
	Start string `json:"start"` // "2026-03-02T09:00"
	End   string `json:"end"`
}

// WindowsResponse рабочие окна ресурса на дату, пусто в выходной
type WindowsResponse struct {
	ResourceID string           `json:"resourceId"`
	Date       string           `json:"date"` // "2026-03-02"
	Windows    []WindowResponse `json:"windows"`
}

// ResourceResponse краткое описание ресурса
type ResourceResponse struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Kind          string `json:"kind"`
	BufferMinutes int    `json:"bufferMinutes"`
}

// Методы конвертации

// FromDomainDay конвертирует расписание дня в DTO
func FromDomainDay(weekday time.Weekday, d domain.DaySchedule) DayResponse {
	resp := DayResponse{
		Weekday: strings.ToLower(weekday.String()),
		IsOpen:  d.IsOpen,
	}
	if d.IsOpen {
		resp.Open = ptr.Ptr(d.Open.String())
		resp.Close = ptr.Ptr(d.Close.String())
	}
	return resp
}

// FromDomainResource конвертирует расписание ресурса в DTO
func FromDomainResource(r *domain.Resource) *WeeklyResponse {
	resp := &WeeklyResponse{
		ResourceID:    r.ID.String(),
		ResourceName:  r.Name,
		BufferMinutes: r.BufferMinutes,
		Days:          make([]DayResponse, 0, 7),
	}
	for _, d := range r.Availability.Days() {
		resp.Days = append(resp.Days, FromDomainDay(d.Weekday, d.DaySchedule))
	}
	return resp
}

// FromDomainWindows конвертирует окна ресурса на дату в DTO
func FromDomainWindows(resourceID uuid.UUID, date time.Time, windows []domain.TimeInterval) *WindowsResponse {
	resp := &WindowsResponse{
		ResourceID: resourceID.String(),
		Date:       date.Format(domain.DateFormat),
		Windows:    make([]WindowResponse, 0, len(windows)),
	}
	for _, w := range windows {
		resp.Windows = append(resp.Windows, WindowResponse{
			Start: w.Start.Format(domain.DateTimeFormat),
			End:   w.End.Format(domain.DateTimeFormat),
		})
	}
	return resp
}

// FromDomainResources конвертирует список ресурсов в DTO
func FromDomainResources(resources []*domain.Resource) []ResourceResponse {
	result := make([]ResourceResponse, 0, len(resources))
	for _, r := range resources {
		result = append(result, ResourceResponse{
			ID:            r.ID.String(),
			Name:          r.Name,
			Kind:          string(r.Kind),
			BufferMinutes: r.BufferMinutes,
		})
	}
	return result
}
