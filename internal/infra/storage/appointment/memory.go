package appointment

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// MemoryRepository хранилище записей в памяти процесса.
// Фиксация проверяет версию и отсутствие пересечений активных записей ресурса
// атомарно под одной блокировкой, поэтому ведёт себя как postgres-реализация
// с exclusion constraint.
type MemoryRepository struct {
	mu           sync.RWMutex
	appointments map[uuid.UUID]*domain.Appointment
	now          func() time.Time
}

// NewMemoryRepository создает пустое хранилище. initial - начальные записи (например, для тестов).
func NewMemoryRepository(initial ...*domain.Appointment) *MemoryRepository {
	r := &MemoryRepository{
		appointments: make(map[uuid.UUID]*domain.Appointment, len(initial)),
		now:          time.Now,
	}
	for _, a := range initial {
		c := a.Clone()
		if c.Version == 0 {
			c.Version = 1
		}
		r.appointments[c.ID] = c
	}
	return r
}

// GetByID получает запись по ID
func (r *MemoryRepository) GetByID(_ context.Context, id uuid.UUID) (*domain.Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.appointments[id]
	if !ok {
		return nil, ErrAppointmentNotFound
	}
	return a.Clone(), nil
}

// LoadActive получает активные записи ресурса, пересекающиеся с [from, to)
func (r *MemoryRepository) LoadActive(ctx context.Context, resourceID uuid.UUID, from, to time.Time) ([]*domain.Appointment, error) {
	return r.List(ctx, domain.AppointmentFilter{
		ResourceID: resourceID,
		From:       &from,
		To:         &to,
	})
}

// List получает записи ресурса по фильтру, отсортированные по времени начала
func (r *MemoryRepository) List(_ context.Context, filter domain.AppointmentFilter) ([]*domain.Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*domain.Appointment, 0)
	for _, a := range r.appointments {
		if filter.Matches(a) {
			result = append(result, a.Clone())
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].Interval.Start.Equal(result[j].Interval.Start) {
			return result[i].Interval.Start.Before(result[j].Interval.Start)
		}
		return result[i].ID.String() < result[j].ID.String()
	})

	return result, nil
}

// Commit сохраняет запись, если сохранённая версия равна expectedVersion
// (0 - записи ещё не существует). При успехе возвращает запись с Version = expectedVersion+1.
func (r *MemoryRepository) Commit(_ context.Context, appt *domain.Appointment, expectedVersion int64) (*domain.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, exists := r.appointments[appt.ID]
	switch {
	case expectedVersion == 0 && exists:
		return nil, fmt.Errorf("%w: appointment %s already exists", ErrVersionConflict, appt.ID)
	case expectedVersion != 0 && !exists:
		return nil, ErrAppointmentNotFound
	case exists && current.Version != expectedVersion:
		return nil, fmt.Errorf("%w: appointment %s has version %d, expected %d",
			ErrVersionConflict, appt.ID, current.Version, expectedVersion)
	}

	if appt.IsActive() {
		for _, other := range r.appointments {
			if other.ID == appt.ID || other.ResourceID != appt.ResourceID || !other.IsActive() {
				continue
			}
			if domain.Overlaps(appt.Interval, other.Interval) {
				return nil, fmt.Errorf("%w: interval %s overlaps appointment %s",
					ErrVersionConflict, appt.Interval, other.ID)
			}
		}
	}

	stored := appt.Clone()
	now := r.now()
	stored.Version = expectedVersion + 1
	if !exists {
		if stored.CreatedAt.IsZero() {
			stored.CreatedAt = now
		}
	} else {
		stored.CreatedAt = current.CreatedAt
	}
	stored.UpdatedAt = now
	r.appointments[stored.ID] = stored

	return stored.Clone(), nil
}

// Delete физически удаляет запись, если версия совпадает
func (r *MemoryRepository) Delete(_ context.Context, id uuid.UUID, expectedVersion int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.appointments[id]
	if !ok {
		return ErrAppointmentNotFound
	}
	if current.Version != expectedVersion {
		return fmt.Errorf("%w: appointment %s has version %d, expected %d",
			ErrVersionConflict, id, current.Version, expectedVersion)
	}

	delete(r.appointments, id)
	return nil
}
