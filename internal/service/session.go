package service

import (
	"time"

	"github.com/sudoeste-fight/academy-api/internal/models"
)

// Session is the caller context of one request: who is acting and when.
// It is built from verified token claims and the server clock.
type Session struct {
	StudentID int64
	Role      models.Role
	Now       time.Time
	IP        string
	UserAgent string
}

// NewSession builds a Session from access token claims.
func NewSession(claims *models.JWTClaims, now time.Time) Session {
	if claims == nil {
		return Session{Now: now}
	}
	return Session{StudentID: claims.StudentID, Role: claims.Role, Now: now}
}

// IsTeacher reports whether the caller holds the teacher role.
func (s Session) IsTeacher() bool {
	return s.Role == models.RoleTeacher
}

func (s Session) actor() *int64 {
	if s.StudentID == 0 {
		return nil
	}
	id := s.StudentID
	return &id
}
