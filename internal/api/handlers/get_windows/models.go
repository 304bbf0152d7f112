package get_windows

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

var errMissingDate = errors.New("missing query parameter date")

// ParseDate query: date=YYYY-MM-DD, локальное время
func ParseDate(query url.Values) (time.Time, error) {
	raw := query.Get("date")
	if raw == "" {
		return time.Time{}, errMissingDate
	}
	date, err := time.ParseInLocation(domain.DateFormat, raw, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", raw, err)
	}
	return date, nil
}
