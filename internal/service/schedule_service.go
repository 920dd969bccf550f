package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/sudoeste-fight/academy-api/internal/dto"
	"github.com/sudoeste-fight/academy-api/internal/models"
	"github.com/sudoeste-fight/academy-api/pkg/config"
	appErrors "github.com/sudoeste-fight/academy-api/pkg/errors"
)

const agendaCacheKey = "agenda:all"

type classRepository interface {
	List(ctx context.Context, filter models.ClassFilter) ([]models.ClassTemplate, error)
	FindByID(ctx context.Context, id int64) (*models.ClassTemplate, error)
	Create(ctx context.Context, class *models.ClassTemplate) error
	Update(ctx context.Context, class *models.ClassTemplate) error
	Delete(ctx context.Context, id int64) error
	DeleteWithCheckIns(ctx context.Context, id int64) (int64, error)
}

// ScheduleService manages the weekly class templates.
type ScheduleService struct {
	repo         classRepository
	cache        *CacheService
	audit        *AuditService
	validator    *validator.Validate
	logger       *zap.Logger
	orphanPolicy string
}

// NewScheduleService constructs the service. orphanPolicy is one of the config.OrphanPolicy* values.
func NewScheduleService(repo classRepository, cache *CacheService, audit *AuditService, validate *validator.Validate, logger *zap.Logger, orphanPolicy string) *ScheduleService {
	if validate == nil {
		validate = NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if orphanPolicy != config.OrphanPolicyCascade {
		orphanPolicy = config.OrphanPolicyPreserve
	}
	return &ScheduleService{repo: repo, cache: cache, audit: audit, validator: validate, logger: logger, orphanPolicy: orphanPolicy}
}

// OrphanPolicy returns the configured treatment of check-ins when a class is deleted.
func (s *ScheduleService) OrphanPolicy() string {
	return s.orphanPolicy
}

// ListClasses returns the agenda ordered by time, optionally restricted to one day code.
// The boolean reports whether the listing was served from cache.
func (s *ScheduleService) ListClasses(ctx context.Context, day string) ([]models.ClassTemplate, bool, error) {
	var filter models.DayOfWeek
	if strings.TrimSpace(day) != "" {
		parsed, ok := models.ParseDayOfWeek(day)
		if !ok {
			return nil, false, appErrors.Clone(appErrors.ErrValidation, "dia must be one of Seg, Ter, Qua, Qui, Sex, Sab")
		}
		filter = parsed
	}

	classes, hit, err := s.allClasses(ctx)
	if err != nil {
		return nil, false, err
	}
	if filter == "" {
		return classes, hit, nil
	}
	out := make([]models.ClassTemplate, 0, len(classes))
	for _, class := range classes {
		if class.DayOfWeek == filter {
			out = append(out, class)
		}
	}
	return out, hit, nil
}

func (s *ScheduleService) allClasses(ctx context.Context) ([]models.ClassTemplate, bool, error) {
	classes, hit, err := Remember(ctx, s.cache, agendaCacheKey, func(ctx context.Context) ([]models.ClassTemplate, error) {
		return s.repo.List(ctx, models.ClassFilter{})
	})
	if err != nil {
		return nil, false, appErrors.Internal(err, "failed to list classes")
	}
	return classes, hit, nil
}

// GetClass returns a single template.
func (s *ScheduleService) GetClass(ctx context.Context, id int64) (*models.ClassTemplate, error) {
	class, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
		}
		return nil, appErrors.Internal(err, "failed to load class")
	}
	return class, nil
}

// CreateClass validates and stores a new template.
func (s *ScheduleService) CreateClass(ctx context.Context, sess Session, req dto.ClassRequest) (*models.ClassTemplate, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid class payload")
	}
	class := &models.ClassTemplate{
		DayOfWeek: models.DayOfWeek(req.DayOfWeek),
		Time:      req.Time,
		Activity:  strings.TrimSpace(req.Activity),
	}
	if err := s.repo.Create(ctx, class); err != nil {
		return nil, appErrors.Internal(err, "failed to create class")
	}
	s.invalidate(ctx)
	s.audit.Record(sess, AuditEntry{Action: models.AuditActionClassCreate, Resource: "aula", ResourceID: class.ID, Payload: class})
	return class, nil
}

// UpdateClass replaces day, time and activity of an existing template.
func (s *ScheduleService) UpdateClass(ctx context.Context, sess Session, id int64, req dto.ClassRequest) (*models.ClassTemplate, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid class payload")
	}
	class := &models.ClassTemplate{
		ID:        id,
		DayOfWeek: models.DayOfWeek(req.DayOfWeek),
		Time:      req.Time,
		Activity:  strings.TrimSpace(req.Activity),
	}
	if err := s.repo.Update(ctx, class); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
		}
		return nil, appErrors.Internal(err, "failed to update class")
	}
	s.invalidate(ctx)
	s.audit.Record(sess, AuditEntry{Action: models.AuditActionClassUpdate, Resource: "aula", ResourceID: class.ID, Payload: class})
	return class, nil
}

// DeleteClass removes a template, applying the orphan policy to its check-ins.
func (s *ScheduleService) DeleteClass(ctx context.Context, sess Session, id int64) (*dto.ClassDeleteResult, error) {
	result := &dto.ClassDeleteResult{Deleted: true, OrphanPolicy: s.orphanPolicy}

	var err error
	if s.orphanPolicy == config.OrphanPolicyCascade {
		result.RemovedCheckIns, err = s.repo.DeleteWithCheckIns(ctx, id)
	} else {
		err = s.repo.Delete(ctx, id)
	}
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
		}
		return nil, appErrors.Internal(err, "failed to delete class")
	}

	s.invalidate(ctx)
	s.logger.Info("class deleted", zap.Int64("aula_id", id), zap.String("orphan_policy", s.orphanPolicy), zap.Int64("removed_checkins", result.RemovedCheckIns))
	s.audit.Record(sess, AuditEntry{Action: models.AuditActionClassDelete, Resource: "aula", ResourceID: id, Payload: result})
	return result, nil
}

func (s *ScheduleService) invalidate(ctx context.Context) {
	s.cache.Invalidate(ctx, "agenda:*")
}
