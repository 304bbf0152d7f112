package get_calendar

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/service/calendar/models"
)

// Представления календаря
const (
	ViewWeek  = "week"
	ViewMonth = "month"
	ViewList  = "list"
)

// ViewPattern шаблон переменной {view} для маршрутизатора
const ViewPattern = ViewWeek + "|" + ViewMonth + "|" + ViewList

var errMissingParam = errors.New("missing query parameter")

// ToWeekRequest query: start=YYYY-MM-DD (любой день недели), includeInactive
func ToWeekRequest(resourceID uuid.UUID, query url.Values) (*models.WeekRequest, error) {
	start, err := parseRequired(query, "start", domain.DateFormat)
	if err != nil {
		return nil, err
	}
	includeInactive, err := parseIncludeInactive(query)
	if err != nil {
		return nil, err
	}
	return &models.WeekRequest{ResourceID: resourceID, Start: start, IncludeInactive: includeInactive}, nil
}

// ToMonthRequest query: month=YYYY-MM, includeInactive
func ToMonthRequest(resourceID uuid.UUID, query url.Values) (*models.MonthRequest, error) {
	month, err := parseRequired(query, "month", domain.MonthFormat)
	if err != nil {
		return nil, err
	}
	includeInactive, err := parseIncludeInactive(query)
	if err != nil {
		return nil, err
	}
	return &models.MonthRequest{ResourceID: resourceID, Month: month, IncludeInactive: includeInactive}, nil
}

// ToListRequest query: from=YYYY-MM-DD, to=YYYY-MM-DD (включительно), includeInactive
func ToListRequest(resourceID uuid.UUID, query url.Values) (*models.ListRequest, error) {
	from, err := parseRequired(query, "from", domain.DateFormat)
	if err != nil {
		return nil, err
	}
	to, err := parseRequired(query, "to", domain.DateFormat)
	if err != nil {
		return nil, err
	}
	includeInactive, err := parseIncludeInactive(query)
	if err != nil {
		return nil, err
	}
	return &models.ListRequest{
		ResourceID:      resourceID,
		From:            from,
		To:              to.AddDate(0, 0, 1),
		IncludeInactive: includeInactive,
	}, nil
}

func parseRequired(query url.Values, name, layout string) (time.Time, error) {
	value := query.Get(name)
	if value == "" {
		return time.Time{}, fmt.Errorf("%w: %s", errMissingParam, name)
	}
	t, err := time.ParseInLocation(layout, value, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s: %w", name, err)
	}
	return t, nil
}

func parseIncludeInactive(query url.Values) (bool, error) {
	value := query.Get("includeInactive")
	if value == "" {
		return false, nil
	}
	return strconv.ParseBool(value)
}
