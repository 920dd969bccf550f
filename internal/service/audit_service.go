package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/sudoeste-fight/academy-api/internal/models"
	"github.com/sudoeste-fight/academy-api/pkg/jobs"
)

const auditJobType = "audit_log"

type auditRepository interface {
	Create(ctx context.Context, log *models.AuditLog) error
}

// AuditConfig sizes the background writer.
type AuditConfig struct {
	Enabled    bool
	Workers    int
	BufferSize int
	MaxRetries int
	RetryDelay time.Duration
}

// AuditEntry describes one audited mutation.
type AuditEntry struct {
	Action     string
	Resource   string
	ResourceID int64
	Payload    interface{}
}

// AuditService writes audit entries asynchronously so request latency never depends on them.
// A nil *AuditService is a valid no-op recorder.
type AuditService struct {
	repo   auditRepository
	queue  *jobs.Queue
	logger *zap.Logger
}

// NewAuditService constructs the service; it returns nil when auditing is disabled.
func NewAuditService(repo auditRepository, cfg AuditConfig, logger *zap.Logger) *AuditService {
	if !cfg.Enabled || repo == nil {
		return nil
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	svc := &AuditService{repo: repo, logger: logger}
	svc.queue = jobs.NewQueue("audit", svc.handle, jobs.QueueConfig{
		Workers:    cfg.Workers,
		BufferSize: cfg.BufferSize,
		MaxRetries: cfg.MaxRetries,
		RetryDelay: cfg.RetryDelay,
		Logger:     logger,
	})
	return svc
}

// Start launches the workers.
func (s *AuditService) Start(ctx context.Context) {
	if s == nil {
		return
	}
	s.queue.Start(ctx)
}

// Stop flushes pending entries and stops the workers.
func (s *AuditService) Stop() {
	if s == nil {
		return
	}
	s.queue.Stop()
}

// Record enqueues an entry attributed to the session. Failures are logged, never returned.
func (s *AuditService) Record(sess Session, entry AuditEntry) {
	if s == nil {
		return
	}
	log := models.AuditLog{
		StudentID: sess.actor(),
		Action:    entry.Action,
		Resource:  entry.Resource,
		IPAddress: sess.IP,
		UserAgent: sess.UserAgent,
		CreatedAt: sess.Now.UTC(),
	}
	if entry.ResourceID != 0 {
		id := strconv.FormatInt(entry.ResourceID, 10)
		log.ResourceID = &id
	}
	if entry.Payload != nil {
		raw, err := json.Marshal(entry.Payload)
		if err != nil {
			s.logger.Warn("audit payload not serialisable", zap.String("action", entry.Action), zap.Error(err))
		} else {
			log.Payload = raw
		}
	}
	if err := s.queue.Enqueue(jobs.Job{Type: auditJobType, Payload: log}); err != nil {
		s.logger.Warn("audit entry dropped", zap.String("action", entry.Action), zap.Error(err))
	}
}

func (s *AuditService) handle(ctx context.Context, job jobs.Job) error {
	log, ok := job.Payload.(models.AuditLog)
	if !ok {
		return fmt.Errorf("unexpected audit payload %T", job.Payload)
	}
	return s.repo.Create(ctx, &log)
}
