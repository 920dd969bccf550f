package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sudoeste-fight/academy-api/internal/models"
)

const insertCheckIn = "INSERT INTO checkins (aluno_id, aula_id, data_checkin) VALUES ($1, $2, $3)\nON CONFLICT (aluno_id, aula_id, data_checkin) DO NOTHING"

func TestCheckInRepositoryListByClassDate(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewCheckInRepository(db)

	rows := sqlmock.NewRows([]string{"id", "aluno_id", "nome"}).
		AddRow(int64(1), int64(42), "Maria").
		AddRow(int64(2), int64(43), "João")
	mock.ExpectQuery(regexp.QuoteMeta("WHERE c.aula_id = $1 AND c.data_checkin = $2\nORDER BY c.id ASC")).
		WithArgs(int64(7), "2024-06-03").
		WillReturnRows(rows)

	entries, err := repo.ListByClassDate(context.Background(), 7, "2024-06-03")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, int64(42), entries[0].StudentID)
	assert.Equal(t, "Maria", entries[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckInRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewCheckInRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(insertCheckIn)).
		WithArgs(int64(42), int64(7), "2024-06-03").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(11), time.Now()))

	record := &models.CheckInRecord{StudentID: 42, ClassID: 7, Date: "2024-06-03"}
	require.NoError(t, repo.Create(context.Background(), record))
	assert.Equal(t, int64(11), record.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckInRepositoryCreateConflictReturnsNoRow(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewCheckInRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(insertCheckIn)).
		WithArgs(int64(42), int64(7), "2024-06-03").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}))

	err := repo.Create(context.Background(), &models.CheckInRecord{StudentID: 42, ClassID: 7, Date: "2024-06-03"})
	assert.ErrorIs(t, err, ErrCheckInExists)
}

func TestCheckInRepositoryCreateMapsPostgresCodes(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want error
	}{
		{name: "unique violation", err: &pq.Error{Code: pqUniqueViolation}, want: ErrCheckInExists},
		{name: "foreign key violation", err: &pq.Error{Code: pqForeignKeyViolation}, want: ErrUnknownStudent},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			db, mock, cleanup := newMock(t)
			defer cleanup()
			repo := NewCheckInRepository(db)

			mock.ExpectQuery(regexp.QuoteMeta(insertCheckIn)).WillReturnError(tc.err)
			err := repo.Create(context.Background(), &models.CheckInRecord{StudentID: 1, ClassID: 1, Date: "2024-06-03"})
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestCheckInRepositoryCreateWrapsOtherErrors(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewCheckInRepository(db)

	boom := errors.New("connection reset")
	mock.ExpectQuery(regexp.QuoteMeta(insertCheckIn)).WillReturnError(boom)
	err := repo.Create(context.Background(), &models.CheckInRecord{StudentID: 1, ClassID: 1, Date: "2024-06-03"})
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrCheckInExists)
}

func TestCheckInRepositoryDelete(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewCheckInRepository(db)

	query := regexp.QuoteMeta("DELETE FROM checkins WHERE aluno_id = $1 AND aula_id = $2 AND data_checkin = $3")
	mock.ExpectExec(query).WithArgs(int64(42), int64(7), "2024-06-03").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(query).WithArgs(int64(42), int64(7), "2024-06-03").WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.Delete(context.Background(), 42, 7, "2024-06-03"))
	assert.ErrorIs(t, repo.Delete(context.Background(), 42, 7, "2024-06-03"), ErrCheckInNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckInRepositoryListRangeKeepsOrphans(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewCheckInRepository(db)

	rows := sqlmock.NewRows([]string{"id", "data_checkin", "aula_id", "dia_semana", "horario", "modalidade", "aluno_id", "nome", "matricula"}).
		AddRow(int64(1), "2024-06-03", int64(7), "Seg", "19:00", "Jiu-Jitsu", int64(42), "Maria", "A042").
		AddRow(int64(2), "2024-06-04", int64(9), nil, nil, nil, int64(42), "Maria", "A042")
	mock.ExpectQuery(regexp.QuoteMeta("WHERE c.data_checkin BETWEEN $1 AND $2")).
		WithArgs("2024-06-01", "2024-06-30").
		WillReturnRows(rows)

	out, err := repo.ListRange(context.Background(), "2024-06-01", "2024-06-30")
	require.NoError(t, err)
	require.Len(t, out, 2)
	require.NotNil(t, out[0].Activity)
	assert.Equal(t, "Jiu-Jitsu", *out[0].Activity)
	assert.Nil(t, out[1].DayOfWeek)
	assert.Nil(t, out[1].Activity)
}
