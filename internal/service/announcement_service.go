package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/sudoeste-fight/academy-api/internal/dto"
	"github.com/sudoeste-fight/academy-api/internal/models"
	appErrors "github.com/sudoeste-fight/academy-api/pkg/errors"
)

type announcementRepository interface {
	List(ctx context.Context, filter models.AnnouncementFilter) ([]models.Announcement, int, error)
	GetByID(ctx context.Context, id int64) (*models.Announcement, error)
	LatestPostedAt(ctx context.Context) (*time.Time, error)
	Create(ctx context.Context, announcement *models.Announcement) error
	Update(ctx context.Context, announcement *models.Announcement) error
	Delete(ctx context.Context, id int64) error
}

// AnnouncementService manages the academy notice board.
type AnnouncementService struct {
	repo      announcementRepository
	validator *validator.Validate
	audit     *AuditService
	logger    *zap.Logger
}

// NewAnnouncementService constructs the service.
func NewAnnouncementService(repo announcementRepository, validate *validator.Validate, audit *AuditService, logger *zap.Logger) *AnnouncementService {
	if validate == nil {
		validate = NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnnouncementService{repo: repo, validator: validate, audit: audit, logger: logger}
}

// List returns announcements newest first.
func (s *AnnouncementService) List(ctx context.Context, filter models.AnnouncementFilter) ([]models.Announcement, *models.Pagination, error) {
	filter.Page, filter.PageSize = normalisePage(filter.Page, filter.PageSize)
	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Internal(err, "failed to list announcements")
	}
	return items, &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total}, nil
}

// Get returns one announcement.
func (s *AnnouncementService) Get(ctx context.Context, id int64) (*models.Announcement, error) {
	announcement, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, s.translate(err, "failed to load announcement")
	}
	return announcement, nil
}

// Updates reports whether anything was posted after since. With no since, any announcement counts.
func (s *AnnouncementService) Updates(ctx context.Context, since *time.Time) (*dto.AnnouncementUpdates, error) {
	latest, err := s.repo.LatestPostedAt(ctx)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to check announcements")
	}
	result := &dto.AnnouncementUpdates{LatestPostagem: latest}
	if latest != nil {
		result.HasNewUpdate = since == nil || latest.After(*since)
	}
	return result, nil
}

// Create posts an announcement authored by the session's member.
func (s *AnnouncementService) Create(ctx context.Context, sess Session, req dto.AnnouncementRequest) (*models.Announcement, error) {
	announcement, err := s.build(req)
	if err != nil {
		return nil, err
	}
	announcement.AuthorID = sess.actor()
	if !sess.Now.IsZero() {
		announcement.PostedAt = sess.Now.UTC()
	}
	if err := s.repo.Create(ctx, announcement); err != nil {
		return nil, appErrors.Internal(err, "failed to create announcement")
	}
	s.audit.Record(sess, AuditEntry{Action: models.AuditActionAnnouncementCreate, Resource: "aviso", ResourceID: announcement.ID, Payload: announcement})
	return announcement, nil
}

// Update edits title, message and media. The posting time is kept.
func (s *AnnouncementService) Update(ctx context.Context, sess Session, id int64, req dto.AnnouncementRequest) (*models.Announcement, error) {
	announcement, err := s.build(req)
	if err != nil {
		return nil, err
	}
	announcement.ID = id
	if err := s.repo.Update(ctx, announcement); err != nil {
		return nil, s.translate(err, "failed to update announcement")
	}
	s.audit.Record(sess, AuditEntry{Action: models.AuditActionAnnouncementUpdate, Resource: "aviso", ResourceID: id, Payload: announcement})
	return announcement, nil
}

// Delete removes an announcement.
func (s *AnnouncementService) Delete(ctx context.Context, sess Session, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return s.translate(err, "failed to delete announcement")
	}
	s.audit.Record(sess, AuditEntry{Action: models.AuditActionAnnouncementDelete, Resource: "aviso", ResourceID: id})
	return nil
}

func (s *AnnouncementService) build(req dto.AnnouncementRequest) (*models.Announcement, error) {
	req.Title = strings.TrimSpace(req.Title)
	req.MediaURL = trimOptional(req.MediaURL)
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid announcement payload")
	}
	return &models.Announcement{Title: req.Title, Message: req.Message, MediaURL: req.MediaURL}, nil
}

func (s *AnnouncementService) translate(err error, message string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return appErrors.Clone(appErrors.ErrNotFound, "announcement not found")
	}
	return appErrors.Internal(err, message)
}
