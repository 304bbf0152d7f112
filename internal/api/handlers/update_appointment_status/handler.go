package update_appointment_status

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/service/appointments"
	"github.com/m04kA/SMC-SchedulingService/internal/service/appointments/models"
)

const (
	msgInvalidAppointmentID = "некорректный ID записи"
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgUnknownAction        = "неизвестное действие"
	msgNotFound             = "запись не найдена"
	msgNotFinished          = "запись ещё не закончилась"
	msgTransitionNotAllowed = "переход статуса недопустим"
	msgConcurrentUpdate     = "запись изменилась, повторите попытку"
	msgInvalidData          = "некорректные данные запроса"
)

type Handler struct {
	service AppointmentService
	logger  Logger
}

func NewHandler(service AppointmentService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/appointments/{appointmentId}/{action}
// action: accept | cancel | complete
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	action := vars["action"]

	appointmentID, err := uuid.Parse(vars["appointmentId"])
	if err != nil {
		h.logger.Warn("PATCH /appointments/{id}/%s - Invalid appointment ID: %v", action, err)
		handlers.RespondBadRequest(w, msgInvalidAppointmentID)
		return
	}

	var result *models.AppointmentResponse
	switch action {
	case ActionAccept:
		result, err = h.service.Accept(r.Context(), appointmentID)

	case ActionComplete:
		result, err = h.service.Complete(r.Context(), appointmentID)

	case ActionCancel:
		var req CancelAppointmentRequest
		if r.ContentLength != 0 {
			if decodeErr := handlers.DecodeJSON(r, &req); decodeErr != nil && !errors.Is(decodeErr, handlers.ErrEmptyBody) {
				h.logger.Warn("PATCH /appointments/{id}/cancel - Invalid request body: %v", decodeErr)
				handlers.RespondBadRequest(w, msgInvalidRequestBody)
				return
			}
		}
		result, err = h.service.Cancel(r.Context(), appointmentID, req.ToServiceRequest())

	default:
		h.logger.Warn("PATCH /appointments/{id}/%s - Unknown action", action)
		handlers.RespondNotFound(w, msgUnknownAction)
		return
	}

	if err != nil {
		switch {
		case errors.Is(err, appointments.ErrAppointmentNotFound):
			h.logger.Warn("PATCH /appointments/{id}/%s - Appointment not found: appointment_id=%s", action, appointmentID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, appointments.ErrNotFinished):
			h.logger.Warn("PATCH /appointments/{id}/%s - Appointment not finished: appointment_id=%s", action, appointmentID)
			handlers.RespondUnprocessable(w, msgNotFinished)

		case errors.Is(err, domain.ErrInvalidTransition):
			h.logger.Warn("PATCH /appointments/{id}/%s - Transition not allowed: appointment_id=%s, error=%v", action, appointmentID, err)
			handlers.RespondUnprocessable(w, msgTransitionNotAllowed)

		case errors.Is(err, appointments.ErrConcurrentUpdate):
			h.logger.Warn("PATCH /appointments/{id}/%s - Concurrent update: appointment_id=%s", action, appointmentID)
			handlers.RespondConflict(w, msgConcurrentUpdate)

		case errors.Is(err, appointments.ErrInvalidInput):
			h.logger.Warn("PATCH /appointments/{id}/%s - Invalid data: %v", action, err)
			handlers.RespondBadRequest(w, msgInvalidData)

		default:
			h.logger.Error("PATCH /appointments/{id}/%s - Failed to update status: appointment_id=%s, error=%v", action, appointmentID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /appointments/{id}/%s - Status updated successfully: appointment_id=%s, status=%s",
		action, appointmentID, result.Status)
	handlers.RespondJSON(w, http.StatusOK, result)
}
