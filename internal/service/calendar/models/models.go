package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	apptModels "github.com/m04kA/SMC-SchedulingService/internal/service/appointments/models"
)

// Request модели

// WeekRequest запрос недельного календаря
type WeekRequest struct {
	ResourceID      uuid.UUID
	Start           time.Time // любой день недели, нормализуется к понедельнику
	IncludeInactive bool
}

// MonthRequest запрос месячной сетки
type MonthRequest struct {
	ResourceID      uuid.UUID
	Month           time.Time // любой день месяца
	IncludeInactive bool
}

// ListRequest запрос списка записей, сгруппированных по датам
type ListRequest struct {
	ResourceID      uuid.UUID
	From            time.Time
	To              time.Time // не включительно
	IncludeInactive bool
}

// Response модели

// CalendarAppointment запись с позицией в сетке дня
type CalendarAppointment struct {
	apptModels.AppointmentResponse
	Top    float64 `json:"top"`
	Height float64 `json:"height"`
}

// DayResponse записи одного дня недели
type DayResponse struct {
	Date         string                `json:"date"`
	Weekday      string                `json:"weekday"`
	Appointments []CalendarAppointment `json:"appointments"`
}

// WeekResponse недельный календарь ресурса
type WeekResponse struct {
	ResourceID   string        `json:"resourceId"`
	WeekStart    string        `json:"weekStart"`
	DayStartHour int           `json:"dayStartHour"`
	Days         []DayResponse `json:"days"`
}

// MonthCellResponse ячейка месячной сетки
type MonthCellResponse struct {
	Date         string                           `json:"date"`
	InMonth      bool                             `json:"inMonth"`
	Appointments []apptModels.AppointmentResponse `json:"appointments"`
}

// MonthResponse месячная сетка ресурса
type MonthResponse struct {
	ResourceID string                `json:"resourceId"`
	Month      string                `json:"month"` // "2026-03"
	Weeks      [][]MonthCellResponse `json:"weeks"`
}

// GroupResponse записи одной даты
type GroupResponse struct {
	Date         string                           `json:"date"`
	Appointments []apptModels.AppointmentResponse `json:"appointments"`
}

// ListResponse записи периода, сгруппированные по датам
type ListResponse struct {
	ResourceID string          `json:"resourceId"`
	From       string          `json:"from"`
	To         string          `json:"to"`
	Groups     []GroupResponse `json:"groups"`
}

// Методы конвертации

// FromDomainCalendarAppointment конвертирует запись вместе с её позицией
func FromDomainCalendarAppointment(a *domain.Appointment, top, height float64) CalendarAppointment {
	return CalendarAppointment{
		AppointmentResponse: *apptModels.FromDomainAppointment(a),
		Top:                 top,
		Height:              height,
	}
}

// FromDomainAppointments конвертирует список записей
func FromDomainAppointments(list []*domain.Appointment) []apptModels.AppointmentResponse {
	return apptModels.FromDomainAppointmentList(list).Appointments
}
