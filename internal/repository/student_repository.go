package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/sudoeste-fight/academy-api/internal/models"
)

// ErrMatriculaTaken reports a duplicate registration number.
var ErrMatriculaTaken = errors.New("matricula already registered")

const studentColumns = "id, matricula, nome, cpf, senha_hash, role, foto_url, created_at"

// StudentRepository manages persistence for academy members.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs a StudentRepository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// List returns members matching the provided filters.
func (r *StudentRepository) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error) {
	base := "FROM alunos"
	args := []interface{}{}
	conditions := []string{"1=1"}

	if filter.Role != "" {
		conditions = append(conditions, fmt.Sprintf("role = $%d", len(args)+1))
		args = append(args, filter.Role)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(LOWER(nome) LIKE $%d OR LOWER(matricula) LIKE $%d)", len(args)+1, len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}
	base = fmt.Sprintf("%s WHERE %s", base, strings.Join(conditions, " AND "))

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT %s %s ORDER BY nome ASC, id ASC LIMIT %d OFFSET %d", studentColumns, base, size, offset)
	students := []models.Student{}
	if err := r.db.SelectContext(ctx, &students, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list students: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) "+base, args...); err != nil {
		return nil, 0, fmt.Errorf("count students: %w", err)
	}
	return students, total, nil
}

// FindByID returns a member or sql.ErrNoRows.
func (r *StudentRepository) FindByID(ctx context.Context, id int64) (*models.Student, error) {
	var student models.Student
	if err := r.db.GetContext(ctx, &student, "SELECT "+studentColumns+" FROM alunos WHERE id = $1", id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find student by id: %w", err)
	}
	return &student, nil
}

// FindByMatricula returns a member by registration number or sql.ErrNoRows.
func (r *StudentRepository) FindByMatricula(ctx context.Context, matricula string) (*models.Student, error) {
	var student models.Student
	if err := r.db.GetContext(ctx, &student, "SELECT "+studentColumns+" FROM alunos WHERE matricula = $1 LIMIT 1", matricula); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find student by matricula: %w", err)
	}
	return &student, nil
}

// Create inserts a member and fills its generated fields.
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	const query = `INSERT INTO alunos (matricula, nome, cpf, senha_hash, role, foto_url)
VALUES ($1, $2, $3, $4, $5, $6) RETURNING id, created_at`
	row := r.db.QueryRowxContext(ctx, query, student.Matricula, student.Name, student.CPF, student.PasswordHash, student.Role, student.PhotoURL)
	if err := row.Scan(&student.ID, &student.CreatedAt); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
			return ErrMatriculaTaken
		}
		return fmt.Errorf("create student: %w", err)
	}
	return nil
}
