package update_appointment_status

import (
	"github.com/m04kA/SMC-SchedulingService/internal/service/appointments/models"
)

// Действия над статусом записи
const (
	ActionAccept   = "accept"
	ActionCancel   = "cancel"
	ActionComplete = "complete"
)

// ActionPattern шаблон переменной {action} для маршрутизатора
const ActionPattern = ActionAccept + "|" + ActionCancel + "|" + ActionComplete

// CancelAppointmentRequest HTTP request model, тело необязательно
type CancelAppointmentRequest struct {
	Reason *string `json:"reason,omitempty"`
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
func (r *CancelAppointmentRequest) ToServiceRequest() *models.CancelRequest {
	return &models.CancelRequest{Reason: r.Reason}
}
