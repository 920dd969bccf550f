package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sudoeste-fight/academy-api/internal/models"
)

type auditRepoStub struct {
	mu       sync.Mutex
	logs     []models.AuditLog
	failures int
}

func (s *auditRepoStub) Create(ctx context.Context, log *models.AuditLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failures > 0 {
		s.failures--
		return errors.New("db unavailable")
	}
	s.logs = append(s.logs, *log)
	return nil
}

func (s *auditRepoStub) entries() []models.AuditLog {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.AuditLog(nil), s.logs...)
}

func TestAuditServiceRecordsAsynchronously(t *testing.T) {
	repo := &auditRepoStub{failures: 1}
	svc := NewAuditService(repo, AuditConfig{Enabled: true, MaxRetries: 2, RetryDelay: time.Millisecond}, zap.NewNop())
	require.NotNil(t, svc)
	svc.Start(context.Background())

	sess := Session{StudentID: 42, Role: models.RoleStudent, Now: time.Now(), IP: "10.0.0.1"}
	svc.Record(sess, AuditEntry{Action: models.AuditActionCheckIn, Resource: "checkin", ResourceID: 11, Payload: map[string]interface{}{"aula_id": 7}})
	svc.Stop()

	logs := repo.entries()
	require.Len(t, logs, 1)
	assert.Equal(t, models.AuditActionCheckIn, logs[0].Action)
	require.NotNil(t, logs[0].StudentID)
	assert.Equal(t, int64(42), *logs[0].StudentID)
	require.NotNil(t, logs[0].ResourceID)
	assert.Equal(t, "11", *logs[0].ResourceID)
	assert.JSONEq(t, `{"aula_id":7}`, string(logs[0].Payload))
}

func TestAuditServiceDisabledIsNoop(t *testing.T) {
	svc := NewAuditService(&auditRepoStub{}, AuditConfig{Enabled: false}, nil)
	assert.Nil(t, svc)
	svc.Start(context.Background())
	svc.Record(Session{}, AuditEntry{Action: "X"})
	svc.Stop()
}
