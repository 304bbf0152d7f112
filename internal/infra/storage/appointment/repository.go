package appointment

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
)

const tableAppointments = "appointments"

// SQLSTATE коды, означающие проигранную гонку
const (
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
	pgExclusionViolation   = "23P01"
	pgUniqueViolation      = "23505"
)

var appointmentColumns = []string{
	"id",
	"resource_id",
	"service_id",
	"client_name",
	"contact",
	"start_at",
	"end_at",
	"status",
	"notes",
	"service_name",
	"duration_minutes",
	"price",
	"cancellation_reason",
	"cancelled_at",
	"version",
	"created_at",
	"updated_at",
}

// Repository репозиторий записей в PostgreSQL.
// Инвариант непересечения активных записей дополнительно защищён exclusion constraint
// (см. migrations), нарушение которого превращается в ErrVersionConflict.
type Repository struct {
	db        DBExecutor
	txManager TransactionManager
}

// NewRepository создает новый экземпляр репозитория записей
func NewRepository(db DBExecutor, txManager TransactionManager) *Repository {
	return &Repository{db: db, txManager: txManager}
}

// GetByID получает запись по ID
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Appointment, error) {
	var appt *domain.Appointment
	err := r.txManager.DoReadOnly(ctx, func(txCtx context.Context) error {
		var err error
		appt, err = r.getByID(txCtx, id)
		return err
	})
	if err != nil {
		return nil, mapReadError(err)
	}
	return appt, nil
}

func (r *Repository) getByID(ctx context.Context, id uuid.UUID) (*domain.Appointment, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(appointmentColumns...).
		From(tableAppointments).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	appt, err := scanAppointment(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAppointmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan appointment: %v", ErrScanRow, err)
	}

	return appt, nil
}

// LoadActive получает активные записи ресурса, пересекающиеся с [from, to)
func (r *Repository) LoadActive(ctx context.Context, resourceID uuid.UUID, from, to time.Time) ([]*domain.Appointment, error) {
	return r.List(ctx, domain.AppointmentFilter{
		ResourceID: resourceID,
		From:       &from,
		To:         &to,
	})
}

// List получает записи ресурса с фильтрацией по периоду и статусу.
// Результат отсортирован по времени начала, затем по ID.
func (r *Repository) List(ctx context.Context, filter domain.AppointmentFilter) ([]*domain.Appointment, error) {
	var result []*domain.Appointment
	err := r.txManager.DoReadOnly(ctx, func(txCtx context.Context) error {
		var err error
		result, err = r.list(txCtx, filter)
		return err
	})
	if err != nil {
		return nil, mapReadError(err)
	}
	return result, nil
}

func (r *Repository) list(ctx context.Context, filter domain.AppointmentFilter) ([]*domain.Appointment, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(appointmentColumns...).
		From(tableAppointments).
		Where(squirrel.Eq{"resource_id": filter.ResourceID})

	// Пересечение с периодом [From, To)
	if filter.From != nil {
		selectBuilder = selectBuilder.Where(squirrel.Gt{"end_at": *filter.From})
	}
	if filter.To != nil {
		selectBuilder = selectBuilder.Where(squirrel.Lt{"start_at": *filter.To})
	}

	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": string(*filter.Status)})
	} else if !filter.IncludeInactive {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": statusStrings(domain.ActiveStatuses)})
	}

	query, args, err := selectBuilder.OrderBy("start_at ASC", "id ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	result := make([]*domain.Appointment, 0)
	for rows.Next() {
		appt, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: List - scan row: %v", ErrScanRow, err)
		}
		result = append(result, appt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - rows error: %v", ErrScanRow, err)
	}

	return result, nil
}

// Commit сохраняет запись в сериализуемой транзакции.
// expectedVersion = 0 - вставка новой записи, иначе обновление при совпадении версии.
func (r *Repository) Commit(ctx context.Context, appt *domain.Appointment, expectedVersion int64) (*domain.Appointment, error) {
	stored := appt.Clone()

	err := r.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		if expectedVersion == 0 {
			return r.insert(txCtx, stored)
		}
		return r.update(txCtx, stored, expectedVersion)
	})
	if err != nil {
		return nil, mapCommitError(err)
	}

	return stored, nil
}

func (r *Repository) insert(ctx context.Context, appt *domain.Appointment) error {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(tableAppointments).
		Columns(
			"id",
			"resource_id",
			"service_id",
			"client_name",
			"contact",
			"start_at",
			"end_at",
			"status",
			"notes",
			"service_name",
			"duration_minutes",
			"price",
			"cancellation_reason",
			"cancelled_at",
			"version",
		).
		Values(
			appt.ID,
			appt.ResourceID,
			appt.ServiceID,
			appt.ClientName,
			appt.Contact,
			appt.Interval.Start,
			appt.Interval.End,
			string(appt.Status),
			appt.Notes,
			appt.ServiceName,
			appt.DurationMinutes,
			appt.Price,
			appt.CancellationReason,
			appt.CancelledAt,
			1,
		).
		Suffix("RETURNING version, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Commit - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&appt.Version, &appt.CreatedAt, &appt.UpdatedAt); err != nil {
		return err
	}
	appt.CreatedAt = localWallClock(appt.CreatedAt)
	appt.UpdatedAt = localWallClock(appt.UpdatedAt)
	return nil
}

func (r *Repository) update(ctx context.Context, appt *domain.Appointment, expectedVersion int64) error {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(tableAppointments).
		Set("start_at", appt.Interval.Start).
		Set("end_at", appt.Interval.End).
		Set("status", string(appt.Status)).
		Set("notes", appt.Notes).
		Set("contact", appt.Contact).
		Set("cancellation_reason", appt.CancellationReason).
		Set("cancelled_at", appt.CancelledAt).
		Set("version", squirrel.Expr("version + 1")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": appt.ID, "version": expectedVersion}).
		Suffix("RETURNING version, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Commit - build update query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&appt.Version, &appt.CreatedAt, &appt.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		// Либо записи нет, либо версия уже другая
		if _, getErr := r.GetByID(ctx, appt.ID); errors.Is(getErr, ErrAppointmentNotFound) {
			return ErrAppointmentNotFound
		}
		return fmt.Errorf("%w: appointment %s is no longer at version %d", ErrVersionConflict, appt.ID, expectedVersion)
	}
	if err != nil {
		return err
	}
	appt.CreatedAt = localWallClock(appt.CreatedAt)
	appt.UpdatedAt = localWallClock(appt.UpdatedAt)
	return nil
}

// Delete физически удаляет запись при совпадении версии
func (r *Repository) Delete(ctx context.Context, id uuid.UUID, expectedVersion int64) error {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete(tableAppointments).
		Where(squirrel.Eq{"id": id, "version": expectedVersion}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Delete - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		if _, getErr := r.GetByID(ctx, id); errors.Is(getErr, ErrAppointmentNotFound) {
			return ErrAppointmentNotFound
		}
		return fmt.Errorf("%w: appointment %s is no longer at version %d", ErrVersionConflict, id, expectedVersion)
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAppointment(row rowScanner) (*domain.Appointment, error) {
	var (
		appt   domain.Appointment
		status string
	)

	err := row.Scan(
		&appt.ID,
		&appt.ResourceID,
		&appt.ServiceID,
		&appt.ClientName,
		&appt.Contact,
		&appt.Interval.Start,
		&appt.Interval.End,
		&status,
		&appt.Notes,
		&appt.ServiceName,
		&appt.DurationMinutes,
		&appt.Price,
		&appt.CancellationReason,
		&appt.CancelledAt,
		&appt.Version,
		&appt.CreatedAt,
		&appt.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	appt.Status = domain.AppointmentStatus(status)
	appt.Interval.Start = localWallClock(appt.Interval.Start)
	appt.Interval.End = localWallClock(appt.Interval.End)
	appt.CreatedAt = localWallClock(appt.CreatedAt)
	appt.UpdatedAt = localWallClock(appt.UpdatedAt)
	if appt.CancelledAt != nil {
		cancelledAt := localWallClock(*appt.CancelledAt)
		appt.CancelledAt = &cancelledAt
	}
	return &appt, nil
}

// localWallClock переносит показания часов в time.Local.
// Колонки TIMESTAMP хранят локальное время без зоны, а lib/pq возвращает его со смещением +00:00.
func localWallClock(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.Local)
}

// mapReadError оставляет ошибки репозитория как есть, ошибки транзакции оборачивает в ErrTransaction
func mapReadError(err error) error {
	if errors.Is(err, txmanager.ErrBeginTx) || errors.Is(err, txmanager.ErrCommitTx) {
		return fmt.Errorf("%w: read: %v", ErrTransaction, err)
	}
	return err
}

// mapCommitError превращает ошибки сериализации и exclusion constraint в ErrVersionConflict
func mapCommitError(err error) error {
	if errors.Is(err, ErrVersionConflict) || errors.Is(err, ErrAppointmentNotFound) || errors.Is(err, ErrBuildQuery) {
		return err
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case pgSerializationFailure, pgDeadlockDetected, pgExclusionViolation, pgUniqueViolation:
			return fmt.Errorf("%w: %s (%s)", ErrVersionConflict, pqErr.Message, pqErr.Code)
		}
	}

	if errors.Is(err, txmanager.ErrBeginTx) || errors.Is(err, txmanager.ErrCommitTx) {
		return fmt.Errorf("%w: Commit: %v", ErrTransaction, err)
	}
	return fmt.Errorf("%w: Commit: %v", ErrExecQuery, err)
}

func statusStrings(statuses []domain.AppointmentStatus) []string {
	result := make([]string, len(statuses))
	for i, s := range statuses {
		result[i] = string(s)
	}
	return result
}
