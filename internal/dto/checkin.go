package dto

import "github.com/sudoeste-fight/academy-api/internal/models"

// CheckInRequest identifies an occurrence to check into or out of.
// StudentID defaults to the caller; Date defaults to today in the academy timezone.
type CheckInRequest struct {
	StudentID *int64 `json:"aluno_id" validate:"omitempty,gt=0"`
	ClassID   int64  `json:"aula_id" validate:"required,gt=0"`
	Date      string `json:"data_checkin" validate:"omitempty,datetime=2006-01-02"`
}

// Roster is the check-in list of one class occurrence as seen by the requester.
type Roster struct {
	ClassID               int64                `json:"class_id"`
	Date                  string               `json:"date"`
	Records               []models.RosterEntry `json:"records"`
	Count                 int                  `json:"count"`
	RequesterHasCheckedIn bool                 `json:"requester_has_checked_in"`
	ClassFinished         bool                 `json:"class_finished"`
	CanCancel             bool                 `json:"can_cancel"`
}
