package appointment

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/txmanager"
)

func newMockRepository(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewRepository(db, txmanager.NewTransactionManager(db)), mock
}

func appointmentRow(a *domain.Appointment) *sqlmock.Rows {
	return sqlmock.NewRows(appointmentColumns).AddRow(
		a.ID.String(),
		a.ResourceID.String(),
		a.ServiceID.String(),
		a.ClientName,
		nil,
		a.Interval.Start,
		a.Interval.End,
		string(a.Status),
		nil,
		a.ServiceName,
		a.DurationMinutes,
		a.Price.String(),
		nil,
		nil,
		a.Version,
		a.CreatedAt,
		a.UpdatedAt,
	)
}

func sampleAppointment() *domain.Appointment {
	start := time.Date(2026, 3, 2, 14, 0, 0, 0, time.UTC)
	return &domain.Appointment{
		ID:              uuid.New(),
		ResourceID:      uuid.New(),
		ServiceID:       uuid.New(),
		ClientName:      "Anna",
		Interval:        domain.TimeInterval{Start: start, End: start.Add(time.Hour)},
		Status:          domain.StatusPending,
		ServiceName:     "Haircut",
		DurationMinutes: 60,
		Price:           decimal.RequireFromString("25.50"),
		Version:         1,
		CreatedAt:       start.Add(-24 * time.Hour),
		UpdatedAt:       start.Add(-24 * time.Hour),
	}
}

func TestRepository_GetByID(t *testing.T) {
	repo, mock := newMockRepository(t)
	appt := sampleAppointment()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, resource_id, service_id")).
		WithArgs(appt.ID).
		WillReturnRows(appointmentRow(appt))
	mock.ExpectCommit()

	got, err := repo.GetByID(context.Background(), appt.ID)
	require.NoError(t, err)
	assert.Equal(t, appt.ID, got.ID)
	assert.Equal(t, domain.StatusPending, got.Status)
	assert.True(t, appt.Price.Equal(got.Price))
	assert.Nil(t, got.Contact)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetByIDNotFound(t *testing.T) {
	repo, mock := newMockRepository(t)
	id := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FROM appointments")).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows(appointmentColumns))
	mock.ExpectRollback()

	_, err := repo.GetByID(context.Background(), id)
	assert.True(t, errors.Is(err, ErrAppointmentNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_CommitInsert(t *testing.T) {
	repo, mock := newMockRepository(t)
	appt := sampleAppointment()
	appt.Version = 0
	createdAt := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO appointments")).
		WillReturnRows(sqlmock.NewRows([]string{"version", "created_at", "updated_at"}).
			AddRow(1, createdAt, createdAt))
	mock.ExpectCommit()

	stored, err := repo.Commit(context.Background(), appt, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stored.Version)
	assert.True(t, time.Date(2026, 3, 1, 10, 0, 0, 0, time.Local).Equal(stored.CreatedAt))
	assert.Equal(t, time.Local, stored.CreatedAt.Location())
	assert.Equal(t, int64(0), appt.Version, "input must not be mutated")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_CommitExclusionViolationIsConflict(t *testing.T) {
	repo, mock := newMockRepository(t)
	appt := sampleAppointment()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO appointments")).
		WillReturnError(&pq.Error{Code: pgExclusionViolation, Message: "conflicting key value violates exclusion constraint"})
	mock.ExpectRollback()

	_, err := repo.Commit(context.Background(), appt, 0)
	assert.True(t, errors.Is(err, ErrVersionConflict))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_CommitSerializationFailureOnCommit(t *testing.T) {
	repo, mock := newMockRepository(t)
	appt := sampleAppointment()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("UPDATE appointments")).
		WillReturnRows(sqlmock.NewRows([]string{"version", "created_at", "updated_at"}).
			AddRow(2, appt.CreatedAt, appt.UpdatedAt))
	mock.ExpectCommit().WillReturnError(&pq.Error{Code: pgSerializationFailure})

	_, err := repo.Commit(context.Background(), appt, 1)
	assert.True(t, errors.Is(err, ErrVersionConflict))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_CommitStaleVersion(t *testing.T) {
	repo, mock := newMockRepository(t)
	appt := sampleAppointment()
	appt.Version = 3

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("UPDATE appointments")).
		WillReturnRows(sqlmock.NewRows([]string{"version", "created_at", "updated_at"}))
	mock.ExpectQuery(regexp.QuoteMeta("FROM appointments")).
		WithArgs(appt.ID).
		WillReturnRows(appointmentRow(appt))
	mock.ExpectRollback()

	_, err := repo.Commit(context.Background(), appt, 2)
	assert.True(t, errors.Is(err, ErrVersionConflict))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_List(t *testing.T) {
	repo, mock := newMockRepository(t)
	appt := sampleAppointment()
	from := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 1)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("WHERE resource_id = $1 AND end_at > $2 AND start_at < $3 AND status IN ($4,$5) ORDER BY start_at ASC, id ASC")).
		WithArgs(appt.ResourceID, from, to, "pending", "accepted").
		WillReturnRows(appointmentRow(appt))
	mock.ExpectCommit()

	got, err := repo.LoadActive(context.Background(), appt.ResourceID, from, to)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, appt.ID, got[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Delete(t *testing.T) {
	repo, mock := newMockRepository(t)
	id := uuid.New()

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM appointments")).
		WithArgs(id, int64(4)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), id, 4))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_DeleteStaleVersion(t *testing.T) {
	repo, mock := newMockRepository(t)
	appt := sampleAppointment()

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM appointments")).
		WithArgs(appt.ID, int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FROM appointments")).
		WithArgs(appt.ID).
		WillReturnRows(appointmentRow(appt))
	mock.ExpectCommit()

	err := repo.Delete(context.Background(), appt.ID, 1)
	assert.True(t, errors.Is(err, ErrVersionConflict))
	assert.NoError(t, mock.ExpectationsWereMet())
}

// useMoscowLocal переключает time.Local на UTC+3 на время теста
func useMoscowLocal(t *testing.T) {
	t.Helper()
	previous := time.Local
	time.Local = time.FixedZone("MSK", 3*60*60)
	t.Cleanup(func() { time.Local = previous })
}

// timestampColumn возвращает значение TIMESTAMP так, как его отдаёт lib/pq
func timestampColumn(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := pq.ParseTimestamp(nil, value)
	require.NoError(t, err)
	return parsed
}

func TestRepository_GetByIDKeepsLocalWallClock(t *testing.T) {
	useMoscowLocal(t)
	repo, mock := newMockRepository(t)

	appt := sampleAppointment()
	appt.Interval = domain.TimeInterval{
		Start: timestampColumn(t, "2026-03-02 10:00:00"),
		End:   timestampColumn(t, "2026-03-02 11:00:00"),
	}
	appt.CreatedAt = timestampColumn(t, "2026-03-01 09:30:00")
	appt.UpdatedAt = appt.CreatedAt

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FROM appointments")).
		WithArgs(appt.ID).
		WillReturnRows(appointmentRow(appt))
	mock.ExpectCommit()

	got, err := repo.GetByID(context.Background(), appt.ID)
	require.NoError(t, err)

	wantStart := time.Date(2026, 3, 2, 10, 0, 0, 0, time.Local)
	assert.True(t, wantStart.Equal(got.Interval.Start), "got %s", got.Interval.Start)
	assert.True(t, wantStart.Add(time.Hour).Equal(got.Interval.End), "got %s", got.Interval.End)
	assert.True(t, time.Date(2026, 3, 1, 9, 30, 0, 0, time.Local).Equal(got.CreatedAt))
	assert.Equal(t, time.Local, got.Interval.Start.Location())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_LoadActiveBufferConflictInLocalZone(t *testing.T) {
	useMoscowLocal(t)
	repo, mock := newMockRepository(t)

	stored := sampleAppointment()
	stored.Status = domain.StatusAccepted
	stored.Interval = domain.TimeInterval{
		Start: timestampColumn(t, "2026-03-02 10:00:00"),
		End:   timestampColumn(t, "2026-03-02 11:00:00"),
	}

	from := time.Date(2026, 3, 2, 0, 0, 0, 0, time.Local)
	to := from.AddDate(0, 0, 1)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FROM appointments")).
		WithArgs(stored.ResourceID, from, to, "pending", "accepted").
		WillReturnRows(appointmentRow(stored))
	mock.ExpectCommit()

	active, err := repo.LoadActive(context.Background(), stored.ResourceID, from, to)
	require.NoError(t, err)
	require.Len(t, active, 1)

	resource := &domain.Resource{ID: stored.ResourceID, BufferMinutes: 15}

	// 11:00 по местному времени вплотную к записи 10:00-11:00, буфер 15 минут
	candidate := domain.TimeInterval{
		Start: time.Date(2026, 3, 2, 11, 0, 0, 0, time.Local),
		End:   time.Date(2026, 3, 2, 12, 0, 0, 0, time.Local),
	}
	conflict := domain.FindConflict(resource, candidate, active)
	require.NotNil(t, conflict)
	assert.Equal(t, stored.ID, conflict.ID)

	// Через 15 минут после окончания слот свободен
	candidate = domain.TimeInterval{
		Start: time.Date(2026, 3, 2, 11, 15, 0, 0, time.Local),
		End:   time.Date(2026, 3, 2, 12, 15, 0, 0, time.Local),
	}
	assert.Nil(t, domain.FindConflict(resource, candidate, active))
	assert.NoError(t, mock.ExpectationsWereMet())
}
