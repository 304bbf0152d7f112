package get_calendar

import (
	"context"

	"github.com/m04kA/SMC-SchedulingService/internal/service/calendar/models"
)

type CalendarService interface {
	Week(ctx context.Context, req *models.WeekRequest) (*models.WeekResponse, error)
	Month(ctx context.Context, req *models.MonthRequest) (*models.MonthResponse, error)
	List(ctx context.Context, req *models.ListRequest) (*models.ListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
