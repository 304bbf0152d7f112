package domain

import "github.com/google/uuid"

// IsBookable возвращает true, если candidate можно записать на ресурс.
// Блокируют только активные записи этого же ресурса с учётом его буфера.
func IsBookable(resource *Resource, candidate TimeInterval, existing []*Appointment) bool {
	return FindConflict(resource, candidate, existing) == nil
}

// FindConflict возвращает первую активную запись, блокирующую candidate, или nil
func FindConflict(resource *Resource, candidate TimeInterval, existing []*Appointment) *Appointment {
	buffer := resource.Buffer()
	for _, a := range existing {
		if a == nil || a.ResourceID != resource.ID || !a.IsActive() {
			continue
		}
		if OverlapsWithBuffer(candidate, a.Interval, buffer) {
			return a
		}
	}
	return nil
}

// ExcludeAppointment возвращает записи без записи с id.
// Переносимая запись не должна конфликтовать сама с собой.
func ExcludeAppointment(appointments []*Appointment, id uuid.UUID) []*Appointment {
	result := make([]*Appointment, 0, len(appointments))
	for _, a := range appointments {
		if a.ID != id {
			result = append(result, a)
		}
	}
	return result
}
