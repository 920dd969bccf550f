package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/sudoeste-fight/academy-api/internal/dto"
	"github.com/sudoeste-fight/academy-api/internal/models"
	"github.com/sudoeste-fight/academy-api/internal/repository"
	appErrors "github.com/sudoeste-fight/academy-api/pkg/errors"
)

// Operation results recorded in checkin_operations_total.
const (
	resultSuccess  = "success"
	resultConflict = "conflict"
	resultNotFound = "not_found"
	resultRejected = "rejected"
	resultError    = "error"
)

type checkInLedger interface {
	ListByClassDate(ctx context.Context, classID int64, date string) ([]models.RosterEntry, error)
	Create(ctx context.Context, record *models.CheckInRecord) error
	Delete(ctx context.Context, studentID, classID int64, date string) error
}

type classFinder interface {
	FindByID(ctx context.Context, id int64) (*models.ClassTemplate, error)
}

// CheckInService coordinates the ledger, the schedule and the class-time policy.
type CheckInService struct {
	ledger    checkInLedger
	classes   classFinder
	validator *validator.Validate
	metrics   *MetricsService
	audit     *AuditService
	logger    *zap.Logger
	location  *time.Location
}

// NewCheckInService constructs the service. location is the academy timezone used for
// "today" and for the class-time policy.
func NewCheckInService(ledger checkInLedger, classes classFinder, validate *validator.Validate, metrics *MetricsService, audit *AuditService, logger *zap.Logger, location *time.Location) *CheckInService {
	if validate == nil {
		validate = NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if location == nil {
		location = time.UTC
	}
	return &CheckInService{ledger: ledger, classes: classes, validator: validate, metrics: metrics, audit: audit, logger: logger, location: location}
}

// GetRoster lists the check-ins of one occurrence and tells the requester what they may do.
// It performs no class existence check; for a deleted class class_finished is false.
func (s *CheckInService) GetRoster(ctx context.Context, sess Session, classID int64, date string) (*dto.Roster, error) {
	if classID <= 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "class id must be a positive integer")
	}
	if _, err := time.Parse(models.DateLayout, date); err != nil {
		return nil, appErrors.Validation(err, "date must be formatted YYYY-MM-DD")
	}

	records, err := s.ledger.ListByClassDate(ctx, classID, date)
	if err != nil {
		s.metrics.RecordCheckInOperation(OperationRoster, resultError)
		return nil, appErrors.Internal(err, "failed to list check-ins")
	}

	roster := &dto.Roster{ClassID: classID, Date: date, Records: records, Count: len(records)}
	for _, record := range records {
		if record.StudentID == sess.StudentID {
			roster.RequesterHasCheckedIn = true
			break
		}
	}

	class, err := s.classes.FindByID(ctx, classID)
	switch {
	case err == nil:
		roster.ClassFinished = IsOccurrenceFinished(class.Time, class.DayOfWeek, s.now(sess))
	case errors.Is(err, sql.ErrNoRows):
	default:
		s.metrics.RecordCheckInOperation(OperationRoster, resultError)
		return nil, appErrors.Internal(err, "failed to load class")
	}
	roster.CanCancel = roster.RequesterHasCheckedIn && !roster.ClassFinished
	s.metrics.RecordCheckInOperation(OperationRoster, resultSuccess)
	return roster, nil
}

// RequestCheckIn records attendance. Duplicates surface as ALREADY_CHECKED_IN.
func (s *CheckInService) RequestCheckIn(ctx context.Context, sess Session, req dto.CheckInRequest) (*models.CheckInRecord, error) {
	studentID, date, err := s.resolve(sess, req)
	if err != nil {
		return nil, err
	}
	if _, err := s.loadClass(ctx, req.ClassID); err != nil {
		s.metrics.RecordCheckInOperation(OperationCheckIn, resultNotFound)
		return nil, err
	}

	record := &models.CheckInRecord{StudentID: studentID, ClassID: req.ClassID, Date: date}
	if err := s.ledger.Create(ctx, record); err != nil {
		switch {
		case errors.Is(err, repository.ErrCheckInExists):
			s.metrics.RecordCheckInOperation(OperationCheckIn, resultConflict)
			return nil, appErrors.Clone(appErrors.ErrAlreadyCheckedIn, "already checked in")
		case errors.Is(err, repository.ErrUnknownStudent):
			s.metrics.RecordCheckInOperation(OperationCheckIn, resultNotFound)
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		default:
			s.metrics.RecordCheckInOperation(OperationCheckIn, resultError)
			return nil, appErrors.Internal(err, "failed to record check-in")
		}
	}

	s.metrics.RecordCheckInOperation(OperationCheckIn, resultSuccess)
	s.audit.Record(sess, AuditEntry{Action: models.AuditActionCheckIn, Resource: "checkin", ResourceID: record.ID, Payload: record})
	s.logger.Debug("check-in recorded", zap.Int64("aluno_id", studentID), zap.Int64("aula_id", req.ClassID), zap.String("data", date))
	return record, nil
}

// RequestCancel removes attendance unless today's occurrence has already started.
func (s *CheckInService) RequestCancel(ctx context.Context, sess Session, req dto.CheckInRequest) error {
	studentID, date, err := s.resolve(sess, req)
	if err != nil {
		return err
	}
	class, err := s.loadClass(ctx, req.ClassID)
	if err != nil {
		s.metrics.RecordCheckInOperation(OperationCancel, resultNotFound)
		return err
	}

	if IsOccurrenceFinished(class.Time, class.DayOfWeek, s.now(sess)) {
		s.metrics.RecordCheckInOperation(OperationCancel, resultRejected)
		return appErrors.Clone(appErrors.ErrClassFinished, "")
	}

	if err := s.ledger.Delete(ctx, studentID, req.ClassID, date); err != nil {
		if errors.Is(err, repository.ErrCheckInNotFound) {
			s.metrics.RecordCheckInOperation(OperationCancel, resultNotFound)
			return appErrors.Clone(appErrors.ErrNotFound, "check-in not found")
		}
		s.metrics.RecordCheckInOperation(OperationCancel, resultError)
		return appErrors.Internal(err, "failed to cancel check-in")
	}

	s.metrics.RecordCheckInOperation(OperationCancel, resultSuccess)
	s.audit.Record(sess, AuditEntry{
		Action:     models.AuditActionCheckInCancel,
		Resource:   "checkin",
		ResourceID: req.ClassID,
		Payload:    map[string]interface{}{"aluno_id": studentID, "aula_id": req.ClassID, "data_checkin": date},
	})
	return nil
}

// Today returns the current date in the academy timezone.
func (s *CheckInService) Today(sess Session) string {
	return s.now(sess).Format(models.DateLayout)
}

func (s *CheckInService) now(sess Session) time.Time {
	now := sess.Now
	if now.IsZero() {
		now = time.Now()
	}
	return now.In(s.location)
}

// resolve validates the request and applies identity and date defaults.
// Students act only for themselves; teachers may act for anyone.
func (s *CheckInService) resolve(sess Session, req dto.CheckInRequest) (int64, string, error) {
	if err := s.validator.Struct(req); err != nil {
		return 0, "", validationError(err, "invalid check-in payload")
	}

	studentID := sess.StudentID
	if req.StudentID != nil && *req.StudentID != sess.StudentID {
		if !sess.IsTeacher() {
			return 0, "", appErrors.Clone(appErrors.ErrForbidden, "students may only check in themselves")
		}
		studentID = *req.StudentID
	}
	if studentID <= 0 {
		return 0, "", appErrors.Clone(appErrors.ErrUnauthorized, "missing student identity")
	}

	date := req.Date
	if date == "" {
		date = s.Today(sess)
	}
	return studentID, date, nil
}

func (s *CheckInService) loadClass(ctx context.Context, id int64) (*models.ClassTemplate, error) {
	class, err := s.classes.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
		}
		return nil, appErrors.Internal(err, "failed to load class")
	}
	return class, nil
}
