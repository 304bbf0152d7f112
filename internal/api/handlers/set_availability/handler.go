package set_availability

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/service/availability"
)

const (
	msgInvalidResourceID  = "некорректный ID ресурса"
	msgInvalidWeekday     = "некорректный день недели"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidWindow      = "некорректное рабочее окно: время открытия должно быть раньше закрытия, формат HH:MM"
	msgResourceNotFound   = "ресурс не найден"
)

type Handler struct {
	service AvailabilityService
	logger  Logger
}

func NewHandler(service AvailabilityService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PUT /api/v1/resources/{resourceId}/availability/{weekday}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	resourceID, err := uuid.Parse(vars["resourceId"])
	if err != nil {
		h.logger.Warn("PUT /resources/{id}/availability/{weekday} - Invalid resource ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidResourceID)
		return
	}

	var req SetDayRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /resources/{id}/availability/{weekday} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	serviceReq, err := req.ToServiceRequest(resourceID, vars["weekday"])
	if err != nil {
		h.logger.Warn("PUT /resources/{id}/availability/{weekday} - Invalid weekday: %v", err)
		handlers.RespondBadRequest(w, msgInvalidWeekday)
		return
	}

	result, err := h.service.SetDay(r.Context(), serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, availability.ErrResourceNotFound):
			h.logger.Warn("PUT /resources/{id}/availability/{weekday} - Resource not found: resource_id=%s", resourceID)
			handlers.RespondNotFound(w, msgResourceNotFound)

		case errors.Is(err, domain.ErrInvalidWindow):
			h.logger.Warn("PUT /resources/{id}/availability/{weekday} - Invalid window: resource_id=%s, error=%v", resourceID, err)
			handlers.RespondBadRequest(w, msgInvalidWindow)

		default:
			h.logger.Error("PUT /resources/{id}/availability/{weekday} - Failed to set availability: resource_id=%s, error=%v",
				resourceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /resources/{id}/availability/{weekday} - Availability updated successfully: resource_id=%s, weekday=%s",
		resourceID, serviceReq.Weekday)
	handlers.RespondJSON(w, http.StatusOK, result)
}
