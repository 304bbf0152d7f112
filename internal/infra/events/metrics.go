package events

import (
	"context"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// TransitionObserver счётчик переходов статусов
type TransitionObserver interface {
	ObserveTransition(from, to string)
}

// MetricsHandler подписчик, считающий переходы статусов в prometheus
func MetricsHandler(observer TransitionObserver) Handler {
	return func(_ context.Context, event domain.StatusChangedEvent) error {
		observer.ObserveTransition(string(event.OldStatus), string(event.NewStatus))
		return nil
	}
}

// LogHandler подписчик, пишущий переходы в лог
func LogHandler(logger Logger) Handler {
	return func(_ context.Context, event domain.StatusChangedEvent) error {
		logger.Info("Appointment status changed: resource=%s, appointment=%s, %s -> %s",
			event.ResourceID, event.AppointmentID, statusOrNone(event.OldStatus), event.NewStatus)
		return nil
	}
}

func statusOrNone(s domain.AppointmentStatus) string {
	if s == "" {
		return "none"
	}
	return string(s)
}
