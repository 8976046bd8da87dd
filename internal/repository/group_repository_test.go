package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

func newGroupRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestGroupRepositoryList(t *testing.T) {
	db, mock, cleanup := newGroupRepoMock(t)
	defer cleanup()
	repo := NewGroupRepository(db)

	rows := sqlmock.NewRows([]string{"id", "course_name", "start_date", "schedule_label", "seat_capacity", "seats_occupied"}).
		AddRow("ucr_una_1_3", "Admisión UCR–UNA", "2026-02-14", "1:00 p.m. – 3:00 p.m.", 6, 2).
		AddRow("ucr_una_tec_10_12", "Admisión UCR–UNA–TEC", "2026-02-14", "10:00 a.m. – 12:00 m.d.", 6, 6)
	mock.ExpectQuery(`SELECT id, course_name, start_date, schedule_label, seat_capacity, seats_occupied\s+FROM groups ORDER BY sort_order, id`).
		WillReturnRows(rows)

	groups, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, groups, 2)
	require.Equal(t, 4, groups[0].SeatsAvailable())
	require.Equal(t, 0, groups[1].SeatsAvailable())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGroupRepositoryReserveSeatTaken(t *testing.T) {
	db, mock, cleanup := newGroupRepoMock(t)
	defer cleanup()
	repo := NewGroupRepository(db)

	mock.ExpectExec(`UPDATE groups SET seats_occupied = seats_occupied \+ 1\s+WHERE id = \$1 AND seats_occupied < seat_capacity`).
		WithArgs("ucr_una_1_3").
		WillReturnResult(sqlmock.NewResult(0, 1))

	reserved, err := repo.ReserveSeat(context.Background(), "ucr_una_1_3")
	require.NoError(t, err)
	require.True(t, reserved)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGroupRepositoryReserveSeatFull(t *testing.T) {
	db, mock, cleanup := newGroupRepoMock(t)
	defer cleanup()
	repo := NewGroupRepository(db)

	mock.ExpectExec(`UPDATE groups SET seats_occupied = seats_occupied \+ 1`).
		WithArgs("ucr_una_1_3").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM groups WHERE id = $1")).
		WithArgs("ucr_una_1_3").
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))

	reserved, err := repo.ReserveSeat(context.Background(), "ucr_una_1_3")
	require.NoError(t, err)
	require.False(t, reserved)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGroupRepositoryReserveSeatUnknownGroup(t *testing.T) {
	db, mock, cleanup := newGroupRepoMock(t)
	defer cleanup()
	repo := NewGroupRepository(db)

	mock.ExpectExec(`UPDATE groups SET seats_occupied = seats_occupied \+ 1`).
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM groups WHERE id = $1")).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.ReserveSeat(context.Background(), "missing")
	require.ErrorIs(t, err, sql.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGroupRepositoryReleaseSeat(t *testing.T) {
	db, mock, cleanup := newGroupRepoMock(t)
	defer cleanup()
	repo := NewGroupRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE groups SET seats_occupied = GREATEST(seats_occupied - 1, 0) WHERE id = $1")).
		WithArgs("ucr_una_1_3").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.ReleaseSeat(context.Background(), "ucr_una_1_3"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGroupRepositoryReleaseSeatUnknownGroup(t *testing.T) {
	db, mock, cleanup := newGroupRepoMock(t)
	defer cleanup()
	repo := NewGroupRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE groups SET seats_occupied = GREATEST(seats_occupied - 1, 0) WHERE id = $1")).
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.ReleaseSeat(context.Background(), "missing")
	require.ErrorIs(t, err, sql.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}
