package models

import "time"

// AuditAction constants represent actions to be logged.
const (
	AuditActionLogin              = "LOGIN"
	AuditActionCheckIn            = "CHECKIN_CREATE"
	AuditActionCheckInCancel      = "CHECKIN_CANCEL"
	AuditActionClassCreate        = "CLASS_CREATE"
	AuditActionClassUpdate        = "CLASS_UPDATE"
	AuditActionClassDelete        = "CLASS_DELETE"
	AuditActionStudentCreate      = "STUDENT_CREATE"
	AuditActionAnnouncementCreate = "ANNOUNCEMENT_CREATE"
	AuditActionAnnouncementUpdate = "ANNOUNCEMENT_UPDATE"
	AuditActionAnnouncementDelete = "ANNOUNCEMENT_DELETE"
)

// AuditLog represents an audit trail record.
type AuditLog struct {
	ID         string    `db:"id" json:"id"`
	StudentID  *int64    `db:"aluno_id" json:"aluno_id,omitempty"`
	Action     string    `db:"action" json:"action"`
	Resource   string    `db:"resource" json:"resource"`
	ResourceID *string   `db:"resource_id" json:"resource_id,omitempty"`
	Payload    []byte    `db:"payload" json:"payload,omitempty"`
	IPAddress  string    `db:"ip_address" json:"ip_address"`
	UserAgent  string    `db:"user_agent" json:"user_agent"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}
