package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/sudoeste-fight/academy-api/internal/models"
)

const classColumns = "id, dia_semana, horario, modalidade, created_at, updated_at"

// ClassRepository persists weekly class templates (aulas).
type ClassRepository struct {
	db *sqlx.DB
}

// NewClassRepository constructs a ClassRepository.
func NewClassRepository(db *sqlx.DB) *ClassRepository {
	return &ClassRepository{db: db}
}

// List returns templates ordered by time of day, optionally restricted to one weekday.
func (r *ClassRepository) List(ctx context.Context, filter models.ClassFilter) ([]models.ClassTemplate, error) {
	query := "SELECT " + classColumns + " FROM aulas"
	args := []interface{}{}
	if filter.DayOfWeek != "" {
		query += " WHERE dia_semana = $1"
		args = append(args, filter.DayOfWeek)
	}
	query += " ORDER BY horario ASC, id ASC"

	classes := []models.ClassTemplate{}
	if err := r.db.SelectContext(ctx, &classes, query, args...); err != nil {
		return nil, fmt.Errorf("list classes: %w", err)
	}
	return classes, nil
}

// FindByID returns a template or sql.ErrNoRows.
func (r *ClassRepository) FindByID(ctx context.Context, id int64) (*models.ClassTemplate, error) {
	query := "SELECT " + classColumns + " FROM aulas WHERE id = $1"
	var class models.ClassTemplate
	if err := r.db.GetContext(ctx, &class, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find class: %w", err)
	}
	return &class, nil
}

// Create inserts a template and fills its generated fields.
func (r *ClassRepository) Create(ctx context.Context, class *models.ClassTemplate) error {
	const query = `INSERT INTO aulas (dia_semana, horario, modalidade) VALUES ($1, $2, $3)
RETURNING id, created_at, updated_at`
	row := r.db.QueryRowxContext(ctx, query, class.DayOfWeek, class.Time, class.Activity)
	if err := row.Scan(&class.ID, &class.CreatedAt, &class.UpdatedAt); err != nil {
		return fmt.Errorf("create class: %w", err)
	}
	return nil
}

// Update replaces day, time and activity. Returns sql.ErrNoRows when the id is unknown.
func (r *ClassRepository) Update(ctx context.Context, class *models.ClassTemplate) error {
	const query = `UPDATE aulas SET dia_semana = $2, horario = $3, modalidade = $4, updated_at = NOW()
WHERE id = $1 RETURNING created_at, updated_at`
	row := r.db.QueryRowxContext(ctx, query, class.ID, class.DayOfWeek, class.Time, class.Activity)
	if err := row.Scan(&class.CreatedAt, &class.UpdatedAt); err != nil {
		if err == sql.ErrNoRows {
			return err
		}
		return fmt.Errorf("update class: %w", err)
	}
	return nil
}

// Delete removes a template and leaves its check-ins in place.
func (r *ClassRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM aulas WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete class: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete class rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// DeleteWithCheckIns removes a template and every check-in recorded against it in one transaction.
// It returns the number of check-ins removed.
func (r *ClassRepository) DeleteWithCheckIns(ctx context.Context, id int64) (removed int64, err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin class delete transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx, "DELETE FROM checkins WHERE aula_id = $1", id)
	if err != nil {
		return 0, fmt.Errorf("delete class checkins: %w", err)
	}
	if removed, err = res.RowsAffected(); err != nil {
		return 0, fmt.Errorf("delete class checkins rows affected: %w", err)
	}

	res, err = tx.ExecContext(ctx, "DELETE FROM aulas WHERE id = $1", id)
	if err != nil {
		return 0, fmt.Errorf("delete class: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete class rows affected: %w", err)
	}
	if affected == 0 {
		err = sql.ErrNoRows
		return 0, err
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit class delete: %w", err)
	}
	return removed, nil
}
