package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/sudoeste-fight/academy-api/internal/models"
)

const announcementColumns = "id, titulo, mensagem, midia_url, data_postagem, autor_id"

// AnnouncementRepository provides persistence for announcements (avisos).
type AnnouncementRepository struct {
	db *sqlx.DB
}

// NewAnnouncementRepository creates the repository.
func NewAnnouncementRepository(db *sqlx.DB) *AnnouncementRepository {
	return &AnnouncementRepository{db: db}
}

// List returns announcements newest first.
func (r *AnnouncementRepository) List(ctx context.Context, filter models.AnnouncementFilter) ([]models.Announcement, int, error) {
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT %s FROM avisos ORDER BY data_postagem DESC, id DESC LIMIT %d OFFSET %d", announcementColumns, size, offset)
	announcements := []models.Announcement{}
	if err := r.db.SelectContext(ctx, &announcements, query); err != nil {
		return nil, 0, fmt.Errorf("list announcements: %w", err)
	}
	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM avisos"); err != nil {
		return nil, 0, fmt.Errorf("count announcements: %w", err)
	}
	return announcements, total, nil
}

// GetByID returns an announcement by identifier or sql.ErrNoRows.
func (r *AnnouncementRepository) GetByID(ctx context.Context, id int64) (*models.Announcement, error) {
	var announcement models.Announcement
	if err := r.db.GetContext(ctx, &announcement, "SELECT "+announcementColumns+" FROM avisos WHERE id = $1", id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("get announcement: %w", err)
	}
	return &announcement, nil
}

// LatestPostedAt returns the newest posting time, nil when there are no announcements.
func (r *AnnouncementRepository) LatestPostedAt(ctx context.Context) (*time.Time, error) {
	var latest sql.NullTime
	if err := r.db.GetContext(ctx, &latest, "SELECT MAX(data_postagem) FROM avisos"); err != nil {
		return nil, fmt.Errorf("latest announcement: %w", err)
	}
	if !latest.Valid {
		return nil, nil
	}
	return &latest.Time, nil
}

// Create inserts a new announcement.
func (r *AnnouncementRepository) Create(ctx context.Context, announcement *models.Announcement) error {
	if announcement.PostedAt.IsZero() {
		announcement.PostedAt = time.Now().UTC()
	}
	const query = `INSERT INTO avisos (titulo, mensagem, midia_url, data_postagem, autor_id)
VALUES ($1, $2, $3, $4, $5) RETURNING id`
	row := r.db.QueryRowxContext(ctx, query, announcement.Title, announcement.Message, announcement.MediaURL, announcement.PostedAt, announcement.AuthorID)
	if err := row.Scan(&announcement.ID); err != nil {
		return fmt.Errorf("create announcement: %w", err)
	}
	return nil
}

// Update modifies title, message and media of an announcement. Returns sql.ErrNoRows when missing.
func (r *AnnouncementRepository) Update(ctx context.Context, announcement *models.Announcement) error {
	const query = `UPDATE avisos SET titulo = $2, mensagem = $3, midia_url = $4 WHERE id = $1
RETURNING data_postagem, autor_id`
	row := r.db.QueryRowxContext(ctx, query, announcement.ID, announcement.Title, announcement.Message, announcement.MediaURL)
	if err := row.Scan(&announcement.PostedAt, &announcement.AuthorID); err != nil {
		if err == sql.ErrNoRows {
			return err
		}
		return fmt.Errorf("update announcement: %w", err)
	}
	return nil
}

// Delete removes an announcement. Returns sql.ErrNoRows when missing.
func (r *AnnouncementRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM avisos WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete announcement: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete announcement rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
