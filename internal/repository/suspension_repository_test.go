package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/pitch-booking/internal/model"
)

var suspensionCols = []string{"id", "user_id", "reservation_id", "days", "reason", "issued_by", "issued_at", "expires_at"}

func newSuspensionMock(t *testing.T) (*SuspensionRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewSuspensionRepo(db), mock
}

func TestSuspensionRepo_Create(t *testing.T) {
	repo, mock := newSuspensionMock(t)
	s := model.Suspension{ID: "s-1", UserID: 7, ReservationID: 42, Days: 3, Reason: "late", IssuedBy: 1,
		IssuedAt: stamp, ExpiresAt: stamp.AddDate(0, 0, 3)}

	mock.ExpectExec(`INSERT INTO suspensions`).
		WithArgs("s-1", uint64(7), uint64(42), 3, "late", uint64(1), stamp, stamp.AddDate(0, 0, 3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.Create(context.Background(), s))

	mock.ExpectExec(`INSERT INTO suspensions`).
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry 's-1'"})
	assert.ErrorIs(t, repo.Create(context.Background(), s), ErrConflict)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSuspensionRepo_ActiveForUser(t *testing.T) {
	repo, mock := newSuspensionMock(t)

	mock.ExpectQuery(`FROM suspensions WHERE user_id = \? AND expires_at > \?`).
		WithArgs(uint64(7), stamp).
		WillReturnRows(sqlmock.NewRows(suspensionCols).
			AddRow("s-1", int64(7), int64(42), int64(3), "late", int64(1), stamp, stamp.AddDate(0, 0, 3)))
	s, err := repo.ActiveForUser(context.Background(), 7, stamp)
	require.NoError(t, err)
	assert.Equal(t, "s-1", s.ID)
	assert.Equal(t, 3, s.Days)

	mock.ExpectQuery(`FROM suspensions`).
		WithArgs(uint64(8), stamp).
		WillReturnRows(sqlmock.NewRows(suspensionCols))
	_, err = repo.ActiveForUser(context.Background(), 8, stamp)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSuspensionRepo_ListByUser(t *testing.T) {
	repo, mock := newSuspensionMock(t)

	mock.ExpectQuery(`ORDER BY issued_at DESC`).
		WithArgs(uint64(7)).
		WillReturnRows(sqlmock.NewRows(suspensionCols).
			AddRow("s-2", int64(7), int64(43), int64(1), "abuse", int64(1), stamp, stamp.AddDate(0, 0, 1)).
			AddRow("s-1", int64(7), int64(42), int64(3), "late", int64(1), stamp, stamp.AddDate(0, 0, 3)))

	items, err := repo.ListByUser(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "s-2", items[0].ID)

	mock.ExpectQuery(`FROM suspensions`).WithArgs(uint64(9)).WillReturnRows(sqlmock.NewRows(suspensionCols))
	items, err = repo.ListByUser(context.Background(), 9)
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestIsDuplicate(t *testing.T) {
	assert.True(t, isDuplicate(&mysql.MySQLError{Number: 1062}))
	assert.False(t, isDuplicate(&mysql.MySQLError{Number: 1452}))
	assert.True(t, isDuplicate(errors.New("Error 1062 (23000): Duplicate entry")))
	assert.False(t, isDuplicate(errors.New("connection refused")))
	assert.False(t, isDuplicate(nil))
}
