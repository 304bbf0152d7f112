package create_appointment

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	apptModels "github.com/m04kA/SMC-SchedulingService/internal/service/appointments/models"
	createAppointment "github.com/m04kA/SMC-SchedulingService/internal/usecase/create_appointment"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

var (
	errInvalidID   = errors.New("invalid id")
	errInvalidDate = errors.New("invalid date")
	errInvalidTime = errors.New("invalid start time")
)

// CreateAppointmentRequest HTTP request model
type CreateAppointmentRequest struct {
	ResourceID string  `json:"resourceId"`
	ServiceID  string  `json:"serviceId"`
	Date       string  `json:"date"`      // "2026-03-02"
	StartTime  string  `json:"startTime"` // "14:00"
	ClientName string  `json:"clientName"`
	Contact    *string `json:"contact,omitempty"`
	Notes      *string `json:"notes,omitempty"`
	AutoAccept bool    `json:"autoAccept"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateAppointmentRequest) ToUseCaseRequest() (*createAppointment.Request, error) {
	resourceID, err := uuid.Parse(r.ResourceID)
	if err != nil {
		return nil, fmt.Errorf("%w: resourceId: %v", errInvalidID, err)
	}

	serviceID, err := uuid.Parse(r.ServiceID)
	if err != nil {
		return nil, fmt.Errorf("%w: serviceId: %v", errInvalidID, err)
	}

	date, err := time.ParseInLocation(domain.DateFormat, r.Date, time.Local)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidDate, err)
	}

	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidTime, err)
	}

	return &createAppointment.Request{
		ResourceID: resourceID,
		ServiceID:  serviceID,
		Date:       date,
		StartTime:  startTime,
		ClientName: r.ClientName,
		Contact:    r.Contact,
		Notes:      r.Notes,
		AutoAccept: r.AutoAccept,
	}, nil
}

// FromUseCaseResponse конвертирует созданную запись в HTTP response
func FromUseCaseResponse(appt *domain.Appointment) *apptModels.AppointmentResponse {
	return apptModels.FromDomainAppointment(appt)
}
