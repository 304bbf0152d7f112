package list_appointments

import (
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/service/appointments/models"
)

// ToServiceRequest создает запрос сервиса из query параметров.
// from и to принимают дату (YYYY-MM-DD) или дату со временем (YYYY-MM-DDTHH:MM).
func ToServiceRequest(resourceID uuid.UUID, fromStr, toStr, statusStr, includeInactiveStr string) (*models.ListRequest, error) {
	req := &models.ListRequest{ResourceID: resourceID}

	if fromStr != "" {
		from, err := parseMoment(fromStr)
		if err != nil {
			return nil, err
		}
		req.From = &from
	}

	if toStr != "" {
		to, err := parseMoment(toStr)
		if err != nil {
			return nil, err
		}
		req.To = &to
	}

	if statusStr != "" {
		if _, err := models.ToDomainStatus(statusStr); err != nil {
			return nil, err
		}
		req.Status = &statusStr
	}

	if includeInactiveStr != "" {
		includeInactive, err := strconv.ParseBool(includeInactiveStr)
		if err != nil {
			return nil, err
		}
		req.IncludeInactive = includeInactive
	}

	return req, nil
}

func parseMoment(s string) (time.Time, error) {
	if t, err := time.ParseInLocation(domain.DateTimeFormat, s, time.Local); err == nil {
		return t, nil
	}
	return time.ParseInLocation(domain.DateFormat, s, time.Local)
}
