package reschedule_appointment

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	rescheduleAppointment "github.com/m04kA/SMC-SchedulingService/internal/usecase/reschedule_appointment"
)

const (
	msgInvalidAppointmentID = "некорректный ID записи"
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgInvalidMoment        = "некорректные дата или время, ожидается YYYY-MM-DDTHH:MM или date+startTime"
	msgNotFound             = "запись не найдена"
	msgNotActive            = "перенести можно только активную запись"
	msgDurationChanged      = "длительность записи не может меняться при переносе"
	msgInvalidInterval      = "некорректный интервал"
	msgSlotNotAvailable     = "выбранный временной слот недоступен"
	msgOutsideHours         = "выбранное время вне рабочего графика"
	msgStartInPast          = "нельзя перенести запись на прошедшее время"
	msgConcurrentUpdate     = "расписание изменилось, повторите попытку"
)

type Handler struct {
	useCase      RescheduleAppointmentUseCase
	appointments AppointmentReader
	logger       Logger
}

func NewHandler(useCase RescheduleAppointmentUseCase, appointments AppointmentReader, logger Logger) *Handler {
	return &Handler{
		useCase:      useCase,
		appointments: appointments,
		logger:       logger,
	}
}

// Handle PATCH /api/v1/appointments/{appointmentId}/reschedule
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	appointmentID, err := uuid.Parse(vars["appointmentId"])
	if err != nil {
		h.logger.Warn("PATCH /appointments/{id}/reschedule - Invalid appointment ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAppointmentID)
		return
	}

	var req RescheduleAppointmentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /appointments/{id}/reschedule - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// Без явного конца длительность берём из записи
	durationMinutes := 0
	if !req.HasExplicitEnd() {
		current, err := h.appointments.GetByID(r.Context(), appointmentID)
		if err != nil {
			h.respondError(w, appointmentID, err)
			return
		}
		durationMinutes = current.DurationMinutes
	}

	useCaseReq, err := req.ToUseCaseRequest(appointmentID, durationMinutes)
	if err != nil {
		h.logger.Warn("PATCH /appointments/{id}/reschedule - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidMoment)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		h.respondError(w, appointmentID, err)
		return
	}

	h.logger.Info("PATCH /appointments/{id}/reschedule - Appointment rescheduled successfully: appointment_id=%s, interval=%s",
		appointmentID, result.Interval)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}

func (h *Handler) respondError(w http.ResponseWriter, appointmentID uuid.UUID, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		h.logger.Warn("PATCH /appointments/{id}/reschedule - Not found: appointment_id=%s, error=%v", appointmentID, err)
		handlers.RespondNotFound(w, msgNotFound)

	case errors.Is(err, rescheduleAppointment.ErrNotActive):
		h.logger.Warn("PATCH /appointments/{id}/reschedule - Appointment not active: appointment_id=%s", appointmentID)
		handlers.RespondUnprocessable(w, msgNotActive)

	case errors.Is(err, rescheduleAppointment.ErrDurationChanged):
		h.logger.Warn("PATCH /appointments/{id}/reschedule - Duration changed: appointment_id=%s", appointmentID)
		handlers.RespondBadRequest(w, msgDurationChanged)

	case errors.Is(err, rescheduleAppointment.ErrInvalidInput), errors.Is(err, domain.ErrInvalidInterval):
		h.logger.Warn("PATCH /appointments/{id}/reschedule - Invalid interval: appointment_id=%s, error=%v", appointmentID, err)
		handlers.RespondBadRequest(w, msgInvalidInterval)

	case errors.Is(err, rescheduleAppointment.ErrSlotNotAvailable):
		h.logger.Warn("PATCH /appointments/{id}/reschedule - Slot not available: appointment_id=%s", appointmentID)
		handlers.RespondConflict(w, msgSlotNotAvailable)

	case errors.Is(err, rescheduleAppointment.ErrOutsideWorkingHours):
		h.logger.Warn("PATCH /appointments/{id}/reschedule - Outside working hours: appointment_id=%s", appointmentID)
		handlers.RespondConflict(w, msgOutsideHours)

	case errors.Is(err, rescheduleAppointment.ErrStartInPast):
		h.logger.Warn("PATCH /appointments/{id}/reschedule - Start in past: appointment_id=%s", appointmentID)
		handlers.RespondConflict(w, msgStartInPast)

	case errors.Is(err, domain.ErrConflict):
		h.logger.Warn("PATCH /appointments/{id}/reschedule - Concurrent update: appointment_id=%s", appointmentID)
		handlers.RespondConflict(w, msgConcurrentUpdate)

	default:
		h.logger.Error("PATCH /appointments/{id}/reschedule - Failed to reschedule appointment: appointment_id=%s, error=%v",
			appointmentID, err)
		handlers.RespondInternalError(w)
	}
}
