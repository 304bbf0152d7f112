package events

import (
	"context"
	"sync"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Handler подписчик на смену статуса записи
type Handler func(ctx context.Context, event domain.StatusChangedEvent) error

// Bus синхронно раздаёт события подписчикам в порядке подписки.
// Ошибка подписчика логируется и не влияет на остальных и на уже зафиксированную операцию.
type Bus struct {
	mu       sync.RWMutex
	handlers []namedHandler
	logger   Logger
}

type namedHandler struct {
	name string
	fn   Handler
}

// NewBus создает пустую шину событий
func NewBus(logger Logger) *Bus {
	return &Bus{logger: logger}
}

// Subscribe регистрирует подписчика
func (b *Bus) Subscribe(name string, fn Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = append(b.handlers, namedHandler{name: name, fn: fn})
}

// Publish отправляет событие всем подписчикам
func (b *Bus) Publish(ctx context.Context, event domain.StatusChangedEvent) {
	b.mu.RLock()
	handlers := make([]namedHandler, len(b.handlers))
	copy(handlers, b.handlers)
	b.mu.RUnlock()

	for _, h := range handlers {
		if err := h.fn(ctx, event); err != nil {
			b.logger.Warn("Event handler %s failed: appointment=%s, %s -> %s, error=%v",
				h.name, event.AppointmentID, event.OldStatus, event.NewStatus, err)
		}
	}
}
