package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ResourceKind отличает мастеров салона от салона с одним исполнителем
type ResourceKind string

const (
	ResourceKindStaff  ResourceKind = "staff"
	ResourceKindArtist ResourceKind = "artist"
	ResourceKindSalon  ResourceKind = "salon"
)

// Resource ресурс записи со своим расписанием и набором записей
type Resource struct {
	ID            uuid.UUID
	Name          string
	Kind          ResourceKind
	Availability  WeeklyAvailability
	BufferMinutes int // зазор между соседними записями
}

// Validate проверяет тип ресурса и буфер в пределах 0..MaxBufferMinutes
func (r *Resource) Validate() error {
	switch r.Kind {
	case ResourceKindStaff, ResourceKindArtist, ResourceKindSalon:
	default:
		return fmt.Errorf("%w: unknown resource kind %q", ErrInvalidWindow, r.Kind)
	}
	if r.BufferMinutes < 0 || r.BufferMinutes > MaxBufferMinutes {
		return fmt.Errorf("%w: buffer must be in 0..%d minutes, got %d",
			ErrInvalidWindow, MaxBufferMinutes, r.BufferMinutes)
	}
	return nil
}

// Buffer возвращает зазор между записями
func (r *Resource) Buffer() time.Duration {
	if r.BufferMinutes <= 0 {
		return 0
	}
	return time.Duration(r.BufferMinutes) * time.Minute
}

// WindowsFor возвращает рабочие окна ресурса на дату
func (r *Resource) WindowsFor(date time.Time) []TimeInterval {
	return r.Availability.WindowsFor(date)
}

// IsOpenOn возвращает true, если ресурс работает в этот день
func (r *Resource) IsOpenOn(date time.Time) bool {
	return len(r.WindowsFor(date)) > 0
}

// FitsAvailability возвращает true, если candidate целиком внутри окна своего дня
func (r *Resource) FitsAvailability(candidate TimeInterval) bool {
	for _, w := range r.WindowsFor(candidate.Start) {
		if Contains(w, candidate) {
			return true
		}
	}
	return false
}
