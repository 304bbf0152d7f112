package catalog

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// MemoryRepository каталог ресурсов и услуг в памяти процесса
type MemoryRepository struct {
	mu        sync.RWMutex
	resources map[uuid.UUID]domain.Resource
	services  map[uuid.UUID]domain.Service
}

// NewMemoryRepository создает каталог с начальными данными
func NewMemoryRepository(resources []domain.Resource, services []domain.Service) *MemoryRepository {
	r := &MemoryRepository{
		resources: make(map[uuid.UUID]domain.Resource, len(resources)),
		services:  make(map[uuid.UUID]domain.Service, len(services)),
	}
	for _, res := range resources {
		r.resources[res.ID] = res
	}
	for _, svc := range services {
		r.services[svc.ID] = svc
	}
	return r
}

// GetResource получает ресурс вместе с недельным расписанием
func (r *MemoryRepository) GetResource(_ context.Context, id uuid.UUID) (*domain.Resource, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	res, ok := r.resources[id]
	if !ok {
		return nil, ErrResourceNotFound
	}
	return &res, nil
}

// ListResources возвращает все ресурсы, отсортированные по имени
func (r *MemoryRepository) ListResources(_ context.Context) ([]*domain.Resource, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*domain.Resource, 0, len(r.resources))
	for _, res := range r.resources {
		res := res
		result = append(result, &res)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

// GetService получает услугу по ID
func (r *MemoryRepository) GetService(_ context.Context, id uuid.UUID) (*domain.Service, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	svc, ok := r.services[id]
	if !ok {
		return nil, ErrServiceNotFound
	}
	return &svc, nil
}

// SaveDaySchedule атомарно заменяет расписание ресурса на один день недели
func (r *MemoryRepository) SaveDaySchedule(_ context.Context, resourceID uuid.UUID, weekday time.Weekday, day domain.DaySchedule) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	res, ok := r.resources[resourceID]
	if !ok {
		return ErrResourceNotFound
	}
	if err := res.Availability.Set(weekday, day); err != nil {
		return err
	}
	r.resources[resourceID] = res
	return nil
}
