package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sudoeste-fight/academy-api/internal/models"
)

func TestAnnouncementRepositoryList(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAnnouncementRepository(db)

	rows := sqlmock.NewRows([]string{"id", "titulo", "mensagem", "midia_url", "data_postagem", "autor_id"}).
		AddRow(int64(2), "Feriado", "Sem aulas", nil, time.Now(), int64(1))
	mock.ExpectQuery(regexp.QuoteMeta("FROM avisos ORDER BY data_postagem DESC, id DESC LIMIT 10 OFFSET 10")).WillReturnRows(rows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM avisos")).WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(11))

	items, total, err := repo.List(context.Background(), models.AnnouncementFilter{Page: 2, PageSize: 10})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Feriado", items[0].Title)
	assert.Equal(t, 11, total)
}

func TestAnnouncementRepositoryLatestPostedAt(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAnnouncementRepository(db)

	ts := time.Date(2024, 6, 3, 12, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT MAX(data_postagem) FROM avisos")).WillReturnRows(sqlmock.NewRows([]string{"max"}).AddRow(ts))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT MAX(data_postagem) FROM avisos")).WillReturnRows(sqlmock.NewRows([]string{"max"}).AddRow(nil))

	latest, err := repo.LatestPostedAt(context.Background())
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.True(t, latest.Equal(ts))

	latest, err = repo.LatestPostedAt(context.Background())
	require.NoError(t, err)
	assert.Nil(t, latest)
}

func TestAnnouncementRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAnnouncementRepository(db)

	author := int64(1)
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO avisos (titulo, mensagem, midia_url, data_postagem, autor_id)")).
		WithArgs("Feriado", "Sem aulas", sqlmock.AnyArg(), sqlmock.AnyArg(), author).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(5)))

	item := &models.Announcement{Title: "Feriado", Message: "Sem aulas", AuthorID: &author}
	require.NoError(t, repo.Create(context.Background(), item))
	assert.Equal(t, int64(5), item.ID)
	assert.False(t, item.PostedAt.IsZero())
}

func TestAnnouncementRepositoryUpdateAndDeleteMissing(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAnnouncementRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("UPDATE avisos SET titulo = $2, mensagem = $3, midia_url = $4 WHERE id = $1")).
		WillReturnRows(sqlmock.NewRows([]string{"data_postagem", "autor_id"}))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM avisos WHERE id = $1")).
		WithArgs(int64(9)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, repo.Update(context.Background(), &models.Announcement{ID: 9, Title: "x", Message: "y"}), sql.ErrNoRows)
	assert.ErrorIs(t, repo.Delete(context.Background(), 9), sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}
