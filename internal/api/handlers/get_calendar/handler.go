package get_calendar

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/service/calendar"
)

const (
	msgInvalidResourceID = "некорректный ID ресурса"
	msgInvalidParams     = "некорректные параметры запроса"
	msgResourceNotFound  = "ресурс не найден"
	msgUnknownView       = "неизвестное представление календаря"
)

type Handler struct {
	service CalendarService
	logger  Logger
}

func NewHandler(service CalendarService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/resources/{resourceId}/calendar/{view}
// view: week (?start=) | month (?month=) | list (?from=&to=); includeInactive опционально
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	view := vars["view"]

	resourceID, err := uuid.Parse(vars["resourceId"])
	if err != nil {
		h.logger.Warn("GET /resources/{id}/calendar/%s - Invalid resource ID: %v", view, err)
		handlers.RespondBadRequest(w, msgInvalidResourceID)
		return
	}

	query := r.URL.Query()
	var result interface{}

	switch view {
	case ViewWeek:
		req, parseErr := ToWeekRequest(resourceID, query)
		if parseErr != nil {
			h.respondInvalidParams(w, view, parseErr)
			return
		}
		result, err = h.service.Week(r.Context(), req)

	case ViewMonth:
		req, parseErr := ToMonthRequest(resourceID, query)
		if parseErr != nil {
			h.respondInvalidParams(w, view, parseErr)
			return
		}
		result, err = h.service.Month(r.Context(), req)

	case ViewList:
		req, parseErr := ToListRequest(resourceID, query)
		if parseErr != nil {
			h.respondInvalidParams(w, view, parseErr)
			return
		}
		result, err = h.service.List(r.Context(), req)

	default:
		h.logger.Warn("GET /resources/{id}/calendar/%s - Unknown view", view)
		handlers.RespondNotFound(w, msgUnknownView)
		return
	}

	if err != nil {
		switch {
		case errors.Is(err, calendar.ErrResourceNotFound):
			h.logger.Warn("GET /resources/{id}/calendar/%s - Resource not found: resource_id=%s", view, resourceID)
			handlers.RespondNotFound(w, msgResourceNotFound)

		case errors.Is(err, calendar.ErrInvalidInput):
			h.respondInvalidParams(w, view, err)

		default:
			h.logger.Error("GET /resources/{id}/calendar/%s - Failed to build calendar: resource_id=%s, error=%v", view, resourceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /resources/{id}/calendar/%s - Calendar built successfully: resource_id=%s", view, resourceID)
	handlers.RespondJSON(w, http.StatusOK, result)
}

func (h *Handler) respondInvalidParams(w http.ResponseWriter, view string, err error) {
	h.logger.Warn("GET /resources/{id}/calendar/%s - Invalid parameters: %v", view, err)
	handlers.RespondBadRequest(w, msgInvalidParams)
}
