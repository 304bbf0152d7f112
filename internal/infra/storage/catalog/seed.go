package catalog

import (
	"fmt"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// Seed формат TOML-файла каталога для memory-драйвера
type Seed struct {
	Services  []ServiceSeed  `toml:"services"`
	Resources []ResourceSeed `toml:"resources"`
}

type ServiceSeed struct {
	ID              string `toml:"id"`
	Name            string `toml:"name"`
	DurationMinutes int    `toml:"duration_minutes"`
	Price           string `toml:"price"`
}

type ResourceSeed struct {
	ID            string    `toml:"id"`
	Name          string    `toml:"name"`
	Kind          string    `toml:"kind"`
	BufferMinutes int       `toml:"buffer_minutes"`
	Days          []DaySeed `toml:"days"`
}

type DaySeed struct {
	Weekday string `toml:"weekday"`
	Open    string `toml:"open"`
	Close   string `toml:"close"`
}

// LoadSeedFile читает каталог из TOML-файла и создает MemoryRepository
func LoadSeedFile(path string) (*MemoryRepository, error) {
	var seed Seed
	if _, err := toml.DecodeFile(path, &seed); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", ErrInvalidSeed, path, err)
	}
	return seed.Build()
}

// Build валидирует seed и строит каталог
func (s Seed) Build() (*MemoryRepository, error) {
	services := make([]domain.Service, 0, len(s.Services))
	for _, ss := range s.Services {
		id, err := uuid.Parse(ss.ID)
		if err != nil {
			return nil, fmt.Errorf("%w: service %q: invalid id: %v", ErrInvalidSeed, ss.Name, err)
		}
		price := decimal.Zero
		if ss.Price != "" {
			price, err = decimal.NewFromString(ss.Price)
			if err != nil {
				return nil, fmt.Errorf("%w: service %q: invalid price: %v", ErrInvalidSeed, ss.Name, err)
			}
		}
		svc := domain.Service{ID: id, Name: ss.Name, DurationMinutes: ss.DurationMinutes, Price: price}
		if err := svc.Validate(); err != nil {
			return nil, fmt.Errorf("%w: service %q: %v", ErrInvalidSeed, ss.Name, err)
		}
		services = append(services, svc)
	}

	resources := make([]domain.Resource, 0, len(s.Resources))
	for _, rs := range s.Resources {
		id, err := uuid.Parse(rs.ID)
		if err != nil {
			return nil, fmt.Errorf("%w: resource %q: invalid id: %v", ErrInvalidSeed, rs.Name, err)
		}
		days := make(map[time.Weekday]domain.DaySchedule, len(rs.Days))
		for _, ds := range rs.Days {
			wd, err := domain.ParseWeekday(ds.Weekday)
			if err != nil {
				return nil, fmt.Errorf("%w: resource %q: %v", ErrInvalidSeed, rs.Name, err)
			}
			days[wd] = domain.OpenDay(types.TimeString(ds.Open), types.TimeString(ds.Close))
		}
		availability, err := domain.NewWeeklyAvailability(days)
		if err != nil {
			return nil, fmt.Errorf("%w: resource %q: %v", ErrInvalidSeed, rs.Name, err)
		}
		kind := domain.ResourceKind(rs.Kind)
		if kind == "" {
			kind = domain.ResourceKindStaff
		}
		resource := domain.Resource{
			ID:            id,
			Name:          rs.Name,
			Kind:          kind,
			Availability:  availability,
			BufferMinutes: rs.BufferMinutes,
		}
		if err := resource.Validate(); err != nil {
			return nil, fmt.Errorf("%w: resource %q: %v", ErrInvalidSeed, rs.Name, err)
		}
		resources = append(resources, resource)
	}

	return NewMemoryRepository(resources, services), nil
}
