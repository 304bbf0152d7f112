package reschedule_appointment

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	apptModels "github.com/m04kA/SMC-SchedulingService/internal/service/appointments/models"
	rescheduleAppointment "github.com/m04kA/SMC-SchedulingService/internal/usecase/reschedule_appointment"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

var errInvalidMoment = errors.New("invalid date or time")

// RescheduleAppointmentRequest HTTP request model.
// Новый интервал задаётся либо парой start/end, либо date+startTime (конец по длительности записи).
type RescheduleAppointmentRequest struct {
	Start     *string `json:"start,omitempty"` // "2026-03-02T15:00"
	End       *string `json:"end,omitempty"`
	Date      *string `json:"date,omitempty"`      // "2026-03-02"
	StartTime *string `json:"startTime,omitempty"` // "15:00"
}

// HasExplicitEnd true, если конец интервала передан явно
func (r *RescheduleAppointmentRequest) HasExplicitEnd() bool {
	return r.End != nil
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case.
// durationMinutes используется, только если конец не передан явно.
func (r *RescheduleAppointmentRequest) ToUseCaseRequest(id uuid.UUID, durationMinutes int) (*rescheduleAppointment.Request, error) {
	start, err := r.start()
	if err != nil {
		return nil, err
	}

	end := start.Add(time.Duration(durationMinutes) * time.Minute)
	if r.End != nil {
		end, err = time.ParseInLocation(domain.DateTimeFormat, *r.End, time.Local)
		if err != nil {
			return nil, fmt.Errorf("%w: end: %v", errInvalidMoment, err)
		}
	}

	return &rescheduleAppointment.Request{
		AppointmentID: id,
		Interval:      domain.TimeInterval{Start: start, End: end},
	}, nil
}

func (r *RescheduleAppointmentRequest) start() (time.Time, error) {
	if r.Start != nil {
		start, err := time.ParseInLocation(domain.DateTimeFormat, *r.Start, time.Local)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: start: %v", errInvalidMoment, err)
		}
		return start, nil
	}

	if r.Date == nil || r.StartTime == nil {
		return time.Time{}, fmt.Errorf("%w: either start or date with startTime is required", errInvalidMoment)
	}

	date, err := time.ParseInLocation(domain.DateFormat, *r.Date, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date: %v", errInvalidMoment, err)
	}
	startTime, err := types.NewTimeStringFromString(*r.StartTime)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: startTime: %v", errInvalidMoment, err)
	}
	return startTime.On(date), nil
}

// FromUseCaseResponse конвертирует перенесённую запись в HTTP response
func FromUseCaseResponse(appt *domain.Appointment) *apptModels.AppointmentResponse {
	return apptModels.FromDomainAppointment(appt)
}
