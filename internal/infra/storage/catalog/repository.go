package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/psqlbuilder"
	"github.com/m04kA/SMC-SchedulingService/pkg/txmanager"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

const pgForeignKeyViolation = "23503"

// Repository каталог ресурсов и услуг в PostgreSQL
type Repository struct {
	db        DBExecutor
	txManager TransactionManager
}

// NewRepository создает новый экземпляр репозитория каталога
func NewRepository(db DBExecutor, txManager TransactionManager) *Repository {
	return &Repository{db: db, txManager: txManager}
}

// GetResource получает ресурс вместе с недельным расписанием.
// Ресурс и расписание читаются в одной read-only транзакции.
func (r *Repository) GetResource(ctx context.Context, id uuid.UUID) (*domain.Resource, error) {
	var res *domain.Resource
	err := r.txManager.DoReadOnly(ctx, func(txCtx context.Context) error {
		var err error
		res, err = r.getResource(txCtx, id)
		return err
	})
	if err != nil {
		return nil, mapReadError(err)
	}
	return res, nil
}

func (r *Repository) getResource(ctx context.Context, id uuid.UUID) (*domain.Resource, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "name", "kind", "buffer_minutes").
		From("resources").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetResource - build select query: %v", ErrBuildQuery, err)
	}

	var (
		res  domain.Resource
		kind string
	)
	err = executor.QueryRowContext(ctx, query, args...).Scan(&res.ID, &res.Name, &kind, &res.BufferMinutes)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrResourceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetResource - scan resource: %v", ErrScanRow, err)
	}
	res.Kind = domain.ResourceKind(kind)

	availability, err := r.loadAvailability(ctx, id)
	if err != nil {
		return nil, err
	}
	res.Availability = availability

	return &res, nil
}

func (r *Repository) loadAvailability(ctx context.Context, resourceID uuid.UUID) (domain.WeeklyAvailability, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("weekday", "is_open", "open_time", "close_time").
		From("resource_availability").
		Where(squirrel.Eq{"resource_id": resourceID}).
		OrderBy("weekday ASC").
		ToSql()
	if err != nil {
		return domain.WeeklyAvailability{}, fmt.Errorf("%w: loadAvailability - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return domain.WeeklyAvailability{}, fmt.Errorf("%w: loadAvailability - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	var availability domain.WeeklyAvailability
	for rows.Next() {
		var (
			weekday int
			day     domain.DaySchedule
		)
		if err := rows.Scan(&weekday, &day.IsOpen, &day.Open, &day.Close); err != nil {
			return domain.WeeklyAvailability{}, fmt.Errorf("%w: loadAvailability - scan row: %v", ErrScanRow, err)
		}
		// Строки, нарушающие инвариант окна, считаем выходным днём
		if err := availability.Set(time.Weekday(weekday), day); err != nil {
			_ = availability.Set(time.Weekday(weekday), domain.ClosedDay())
		}
	}
	if err := rows.Err(); err != nil {
		return domain.WeeklyAvailability{}, fmt.Errorf("%w: loadAvailability - rows error: %v", ErrScanRow, err)
	}

	return availability, nil
}

// ListResources возвращает все ресурсы, отсортированные по имени
func (r *Repository) ListResources(ctx context.Context) ([]*domain.Resource, error) {
	var result []*domain.Resource
	err := r.txManager.DoReadOnly(ctx, func(txCtx context.Context) error {
		var err error
		result, err = r.listResources(txCtx)
		return err
	})
	if err != nil {
		return nil, mapReadError(err)
	}
	return result, nil
}

func (r *Repository) listResources(ctx context.Context) ([]*domain.Resource, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "name", "kind", "buffer_minutes").
		From("resources").
		OrderBy("name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListResources - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListResources - execute query: %v", ErrExecQuery, err)
	}

	result := make([]*domain.Resource, 0)
	for rows.Next() {
		var (
			res  domain.Resource
			kind string
		)
		if err := rows.Scan(&res.ID, &res.Name, &kind, &res.BufferMinutes); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("%w: ListResources - scan row: %v", ErrScanRow, err)
		}
		res.Kind = domain.ResourceKind(kind)
		result = append(result, &res)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, fmt.Errorf("%w: ListResources - rows error: %v", ErrScanRow, err)
	}
	_ = rows.Close()

	// Расписание догружаем после закрытия курсора
	for _, res := range result {
		availability, err := r.loadAvailability(ctx, res.ID)
		if err != nil {
			return nil, err
		}
		res.Availability = availability
	}

	return result, nil
}

// GetService получает услугу по ID
func (r *Repository) GetService(ctx context.Context, id uuid.UUID) (*domain.Service, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "name", "duration_minutes", "price").
		From("services").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetService - build select query: %v", ErrBuildQuery, err)
	}

	var svc domain.Service
	err = executor.QueryRowContext(ctx, query, args...).Scan(&svc.ID, &svc.Name, &svc.DurationMinutes, &svc.Price)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrServiceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetService - scan service: %v", ErrScanRow, err)
	}

	return &svc, nil
}

// SaveDaySchedule атомарно заменяет расписание ресурса на один день недели (upsert одной строки)
func (r *Repository) SaveDaySchedule(ctx context.Context, resourceID uuid.UUID, weekday time.Weekday, day domain.DaySchedule) error {
	if err := day.Validate(); err != nil {
		return err
	}

	executor := txmanager.GetExecutor(ctx, r.db)

	var open, close types.TimeString
	if day.IsOpen {
		open, close = day.Open, day.Close
	}

	query, args, err := psqlbuilder.Insert("resource_availability").
		Columns("resource_id", "weekday", "is_open", "open_time", "close_time").
		Values(resourceID, int(weekday), day.IsOpen, open, close).
		Suffix("ON CONFLICT (resource_id, weekday) DO UPDATE SET " +
			"is_open = EXCLUDED.is_open, open_time = EXCLUDED.open_time, close_time = EXCLUDED.close_time").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: SaveDaySchedule - build upsert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pgForeignKeyViolation {
			return ErrResourceNotFound
		}
		return fmt.Errorf("%w: SaveDaySchedule - execute upsert: %v", ErrExecQuery, err)
	}

	return nil
}

// mapReadError оставляет ошибки репозитория как есть, ошибки транзакции оборачивает в ErrTransaction
func mapReadError(err error) error {
	if errors.Is(err, txmanager.ErrBeginTx) || errors.Is(err, txmanager.ErrCommitTx) {
		return fmt.Errorf("%w: read: %v", ErrTransaction, err)
	}
	return err
}
