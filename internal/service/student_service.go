package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/sudoeste-fight/academy-api/internal/dto"
	"github.com/sudoeste-fight/academy-api/internal/models"
	"github.com/sudoeste-fight/academy-api/internal/repository"
	appErrors "github.com/sudoeste-fight/academy-api/pkg/errors"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type studentRepository interface {
	List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error)
	FindByID(ctx context.Context, id int64) (*models.Student, error)
	Create(ctx context.Context, student *models.Student) error
}

// StudentService handles member registration and lookup.
type StudentService struct {
	repo       studentRepository
	validator  *validator.Validate
	audit      *AuditService
	logger     *zap.Logger
	bcryptCost int
}

// NewStudentService constructs the student service.
func NewStudentService(repo studentRepository, validate *validator.Validate, audit *AuditService, logger *zap.Logger) *StudentService {
	if validate == nil {
		validate = NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{repo: repo, validator: validate, audit: audit, logger: logger, bcryptCost: bcrypt.DefaultCost}
}

// List returns members and pagination metadata.
func (s *StudentService) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, *models.Pagination, error) {
	if filter.Role != "" && !filter.Role.Valid() {
		return nil, nil, appErrors.Clone(appErrors.ErrValidation, "role must be student or teacher")
	}
	filter.Page, filter.PageSize = normalisePage(filter.Page, filter.PageSize)
	students, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Internal(err, "failed to list students")
	}
	return students, &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total}, nil
}

// Get returns a single member.
func (s *StudentService) Get(ctx context.Context, id int64) (*models.Student, error) {
	student, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Internal(err, "failed to load student")
	}
	return student, nil
}

// Me returns the profile of the session's member.
func (s *StudentService) Me(ctx context.Context, sess Session) (*models.Student, error) {
	if sess.StudentID <= 0 {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "missing student identity")
	}
	return s.Get(ctx, sess.StudentID)
}

// Create registers a member, hashing the password. Role defaults to student.
func (s *StudentService) Create(ctx context.Context, sess Session, req dto.CreateStudentRequest) (*models.Student, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Matricula = strings.TrimSpace(req.Matricula)
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid student payload")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to hash password")
	}

	role := models.RoleStudent
	if req.Role != "" {
		role = models.Role(req.Role)
	}
	student := &models.Student{
		Matricula:    req.Matricula,
		Name:         req.Name,
		CPF:          trimOptional(req.CPF),
		PasswordHash: string(hash),
		Role:         role,
		PhotoURL:     trimOptional(req.PhotoURL),
	}
	if err := s.repo.Create(ctx, student); err != nil {
		if errors.Is(err, repository.ErrMatriculaTaken) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "matricula already registered")
		}
		return nil, appErrors.Internal(err, "failed to create student")
	}

	s.audit.Record(sess, AuditEntry{
		Action:     models.AuditActionStudentCreate,
		Resource:   "aluno",
		ResourceID: student.ID,
		Payload:    map[string]interface{}{"matricula": student.Matricula, "role": student.Role},
	})
	return student, nil
}

func normalisePage(page, size int) (int, int) {
	if page < 1 {
		page = 1
	}
	if size <= 0 || size > maxPageSize {
		size = defaultPageSize
	}
	return page, size
}

func trimOptional(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
