package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/sudoeste-fight/academy-api/internal/models"
)

var (
	// ErrCheckInExists reports that the (student, class, date) triple is already recorded.
	ErrCheckInExists = errors.New("checkin already exists")
	// ErrCheckInNotFound reports that no record matched the triple.
	ErrCheckInNotFound = errors.New("checkin not found")
	// ErrUnknownStudent reports a foreign key violation on aluno_id.
	ErrUnknownStudent = errors.New("unknown student")
)

const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
)

// CheckInRepository is the attendance ledger.
type CheckInRepository struct {
	db *sqlx.DB
}

// NewCheckInRepository constructs a CheckInRepository.
func NewCheckInRepository(db *sqlx.DB) *CheckInRepository {
	return &CheckInRepository{db: db}
}

// ListByClassDate returns the roster of one occurrence in insertion order.
// Records of deleted classes are still returned.
func (r *CheckInRepository) ListByClassDate(ctx context.Context, classID int64, date string) ([]models.RosterEntry, error) {
	const query = `SELECT c.id, c.aluno_id, a.nome
FROM checkins c
JOIN alunos a ON a.id = c.aluno_id
WHERE c.aula_id = $1 AND c.data_checkin = $2
ORDER BY c.id ASC`
	entries := []models.RosterEntry{}
	if err := r.db.SelectContext(ctx, &entries, query, classID, date); err != nil {
		return nil, fmt.Errorf("list checkins: %w", err)
	}
	return entries, nil
}

// Create records a check-in. Concurrent duplicates resolve in the database: exactly one
// insert returns a row, the others get ErrCheckInExists.
func (r *CheckInRepository) Create(ctx context.Context, record *models.CheckInRecord) error {
	const query = `INSERT INTO checkins (aluno_id, aula_id, data_checkin) VALUES ($1, $2, $3)
ON CONFLICT (aluno_id, aula_id, data_checkin) DO NOTHING
RETURNING id, created_at`
	row := r.db.QueryRowxContext(ctx, query, record.StudentID, record.ClassID, record.Date)
	if err := row.Scan(&record.ID, &record.CreatedAt); err != nil {
		return translateCheckInError(err)
	}
	return nil
}

// Delete removes the record for the triple, or returns ErrCheckInNotFound.
func (r *CheckInRepository) Delete(ctx context.Context, studentID, classID int64, date string) error {
	const query = `DELETE FROM checkins WHERE aluno_id = $1 AND aula_id = $2 AND data_checkin = $3`
	res, err := r.db.ExecContext(ctx, query, studentID, classID, date)
	if err != nil {
		return fmt.Errorf("delete checkin: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete checkin rows affected: %w", err)
	}
	if affected == 0 {
		return ErrCheckInNotFound
	}
	return nil
}

// ListRange returns attendance between two dates inclusive, for reporting.
func (r *CheckInRepository) ListRange(ctx context.Context, from, to string) ([]models.AttendanceRow, error) {
	const query = `SELECT c.id, to_char(c.data_checkin, 'YYYY-MM-DD') AS data_checkin, c.aula_id,
au.dia_semana, au.horario, au.modalidade, c.aluno_id, a.nome, a.matricula
FROM checkins c
JOIN alunos a ON a.id = c.aluno_id
LEFT JOIN aulas au ON au.id = c.aula_id
WHERE c.data_checkin BETWEEN $1 AND $2
ORDER BY c.data_checkin ASC, au.horario ASC NULLS LAST, c.id ASC`
	rows := []models.AttendanceRow{}
	if err := r.db.SelectContext(ctx, &rows, query, from, to); err != nil {
		return nil, fmt.Errorf("list checkins range: %w", err)
	}
	return rows, nil
}

func translateCheckInError(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrCheckInExists
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case pqUniqueViolation:
			return ErrCheckInExists
		case pqForeignKeyViolation:
			return ErrUnknownStudent
		}
	}
	return fmt.Errorf("create checkin: %w", err)
}
