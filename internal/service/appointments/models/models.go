package models

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid appointment status")
)

// Request модели

// CancelRequest запрос на отмену записи
type CancelRequest struct {
	Reason *string `json:"reason,omitempty"`
}

// ListRequest запрос на получение записей ресурса
type ListRequest struct {
	ResourceID      uuid.UUID
	From            *time.Time // начало периода (включительно)
	To              *time.Time // конец периода (не включительно)
	Status          *string
	IncludeInactive bool // включить завершённые и отменённые
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *ListRequest) ToDomainFilter() (domain.AppointmentFilter, error) {
	filter := domain.AppointmentFilter{
		ResourceID:      r.ResourceID,
		From:            r.From,
		To:              r.To,
		IncludeInactive: r.IncludeInactive,
	}

	if r.Status != nil {
		status, err := ToDomainStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}

	return filter, nil
}

// Response модели

// AppointmentResponse ответ с данными записи
type AppointmentResponse struct {
	ID              string  `json:"id"`
	ResourceID      string  `json:"resourceId"`
	ServiceID       string  `json:"serviceId"`
	ClientName      string  `json:"clientName"`
	Contact         *string `json:"contact,omitempty"`
	Date            string  `json:"date"`      // "2026-03-02"
	StartTime       string  `json:"startTime"` // "14:00"
	EndTime         string  `json:"endTime"`   // "15:00"
	Start           string  `json:"start"`     // "2026-03-02T14:00"
	End             string  `json:"end"`
	DurationMinutes int     `json:"durationMinutes"`
	Status          string  `json:"status"`
	Notes           *string `json:"notes,omitempty"`

	// Снимок услуги на момент записи
	ServiceName string `json:"serviceName"`
	Price       string `json:"price"`

	CancellationReason *string `json:"cancellationReason,omitempty"`
	CancelledAt        *string `json:"cancelledAt,omitempty"`

	Version   int64  `json:"version"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// AppointmentListResponse ответ со списком записей
type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
}

// Методы конвертации

// FromDomainAppointment конвертирует domain модель в DTO
func FromDomainAppointment(a *domain.Appointment) *AppointmentResponse {
	if a == nil {
		return nil
	}

	resp := &AppointmentResponse{
		ID:                 a.ID.String(),
		ResourceID:         a.ResourceID.String(),
		ServiceID:          a.ServiceID.String(),
		ClientName:         a.ClientName,
		Contact:            a.Contact,
		Date:               a.Interval.Start.Format(domain.DateFormat),
		StartTime:          a.Interval.Start.Format(domain.TimeFormat),
		EndTime:            a.Interval.End.Format(domain.TimeFormat),
		Start:              a.Interval.Start.Format(domain.DateTimeFormat),
		End:                a.Interval.End.Format(domain.DateTimeFormat),
		DurationMinutes:    a.DurationMinutes,
		Status:             string(a.Status),
		Notes:              a.Notes,
		ServiceName:        a.ServiceName,
		Price:              a.Price.StringFixed(2),
		CancellationReason: a.CancellationReason,
		Version:            a.Version,
		CreatedAt:          a.CreatedAt.Format(time.RFC3339),
		UpdatedAt:          a.UpdatedAt.Format(time.RFC3339),
	}

	if a.CancelledAt != nil {
		cancelledStr := a.CancelledAt.Format(time.RFC3339)
		resp.CancelledAt = &cancelledStr
	}

	return resp
}

// FromDomainAppointmentList конвертирует список domain моделей в DTO
func FromDomainAppointmentList(appointments []*domain.Appointment) *AppointmentListResponse {
	resp := &AppointmentListResponse{
		Appointments: make([]AppointmentResponse, 0, len(appointments)),
	}

	for _, a := range appointments {
		if r := FromDomainAppointment(a); r != nil {
			resp.Appointments = append(resp.Appointments, *r)
		}
	}

	return resp
}

// ToDomainStatus конвертирует строку в domain.AppointmentStatus с валидацией
func ToDomainStatus(status string) (domain.AppointmentStatus, error) {
	s, err := domain.ParseStatus(status)
	if err != nil {
		return "", ErrInvalidStatus
	}
	return s, nil
}
