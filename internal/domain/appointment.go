package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AppointmentStatus статус записи в её жизненном цикле
type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusAccepted  AppointmentStatus = "accepted"
	StatusCompleted AppointmentStatus = "completed"
	StatusCancelled AppointmentStatus = "cancelled"
)

// transitions допустимые переходы из каждого статуса. completed и cancelled конечные.
var transitions = map[AppointmentStatus][]AppointmentStatus{
	StatusPending:   {StatusAccepted, StatusCancelled},
	StatusAccepted:  {StatusCancelled, StatusCompleted},
	StatusCompleted: nil,
	StatusCancelled: nil,
}

// ActiveStatuses статусы, которые занимают ресурс и не могут пересекаться
var ActiveStatuses = []AppointmentStatus{StatusPending, StatusAccepted}

// ParseStatus проверяет строку статуса
func ParseStatus(s string) (AppointmentStatus, error) {
	status := AppointmentStatus(s)
	if _, ok := transitions[status]; !ok {
		return "", fmt.Errorf("%w: unknown status %q", ErrInvalidTransition, s)
	}
	return status, nil
}

// IsActive возвращает true, если статус участвует в проверке пересечений
func (s AppointmentStatus) IsActive() bool {
	return s == StatusPending || s == StatusAccepted
}

// IsTerminal возвращает true, если из статуса нет переходов
func (s AppointmentStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// CanTransitionTo возвращает true, если переход s -> to допустим
func (s AppointmentStatus) CanTransitionTo(to AppointmentStatus) bool {
	for _, allowed := range transitions[s] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Appointment запись клиента на одну услугу к одному ресурсу
type Appointment struct {
	ID         uuid.UUID
	ResourceID uuid.UUID
	ServiceID  uuid.UUID
	ClientName string
	Contact    *string
	Interval   TimeInterval
	Status     AppointmentStatus
	Notes      *string

	// Снимок услуги на момент записи
	ServiceName     string
	DurationMinutes int
	Price           decimal.Decimal

	CancellationReason *string
	CancelledAt        *time.Time

	// Version растёт при каждом сохранении, 0 - запись ещё не сохранена
	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive возвращает true, если запись занимает ресурс
func (a *Appointment) IsActive() bool {
	return a.Status.IsActive()
}

// Duration возвращает длительность из снимка услуги
func (a *Appointment) Duration() time.Duration {
	return time.Duration(a.DurationMinutes) * time.Minute
}

// Date возвращает календарный день начала записи
func (a *Appointment) Date() time.Time {
	return DateOf(a.Interval.Start)
}

// TransitionTo переводит запись в статус to или возвращает ErrInvalidTransition.
// При ошибке запись не меняется.
func (a *Appointment) TransitionTo(to AppointmentStatus, now time.Time) error {
	if a.Status.IsTerminal() {
		return fmt.Errorf("%w: %s is terminal, cannot move to %s", ErrInvalidTransition, a.Status, to)
	}
	if !a.Status.CanTransitionTo(to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, a.Status, to)
	}
	a.Status = to
	a.UpdatedAt = now
	if to == StatusCancelled {
		at := now
		a.CancelledAt = &at
	}
	return nil
}

// Clone возвращает глубокую копию: хранилище и вызывающий не делят изменяемые поля
func (a *Appointment) Clone() *Appointment {
	if a == nil {
		return nil
	}
	c := *a
	c.Contact = cloneString(a.Contact)
	c.Notes = cloneString(a.Notes)
	c.CancellationReason = cloneString(a.CancellationReason)
	if a.CancelledAt != nil {
		t := *a.CancelledAt
		c.CancelledAt = &t
	}
	return &c
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

// StatusChangedEvent публикуется после каждого сохранённого изменения статуса.
// При создании записи OldStatus пустой.
type StatusChangedEvent struct {
	ResourceID    uuid.UUID
	AppointmentID uuid.UUID
	OldStatus     AppointmentStatus
	NewStatus     AppointmentStatus
	OccurredAt    time.Time
}

// AppointmentFilter отбирает записи ресурса, пересекающиеся с [From, To)
type AppointmentFilter struct {
	ResourceID      uuid.UUID
	From            *time.Time
	To              *time.Time
	Status          *AppointmentStatus
	IncludeInactive bool // включать completed и cancelled
}

// Matches применяет фильтр к одной записи
func (f AppointmentFilter) Matches(a *Appointment) bool {
	if a.ResourceID != f.ResourceID {
		return false
	}
	if f.From != nil && !a.Interval.End.After(*f.From) {
		return false
	}
	if f.To != nil && !a.Interval.Start.Before(*f.To) {
		return false
	}
	if f.Status != nil {
		return a.Status == *f.Status
	}
	return f.IncludeInactive || a.IsActive()
}
