package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sudoeste-fight/academy-api/internal/dto"
	"github.com/sudoeste-fight/academy-api/internal/models"
	"github.com/sudoeste-fight/academy-api/internal/service"
	"github.com/sudoeste-fight/academy-api/pkg/response"
)

type checkInService interface {
	GetRoster(ctx context.Context, sess service.Session, classID int64, date string) (*dto.Roster, error)
	RequestCheckIn(ctx context.Context, sess service.Session, req dto.CheckInRequest) (*models.CheckInRecord, error)
	RequestCancel(ctx context.Context, sess service.Session, req dto.CheckInRequest) error
}

type reportService interface {
	Attendance(ctx context.Context, query dto.AttendanceReportQuery) (*service.AttendanceReport, error)
}

// CheckInHandler exposes the attendance ledger.
type CheckInHandler struct {
	service checkInService
	reports reportService
}

// NewCheckInHandler constructs the handler.
func NewCheckInHandler(svc checkInService, reports reportService) *CheckInHandler {
	return &CheckInHandler{service: svc, reports: reports}
}

// Roster godoc
// @Summary List check-ins of a class occurrence
// @Tags Check-ins
// @Produce json
// @Param classId path int true "Class ID"
// @Param date path string true "Date (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /checkins/aula/{classId}/data/{date} [get]
func (h *CheckInHandler) Roster(c *gin.Context) {
	sess, err := sessionFromContext(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	classID, err := int64Param(c, "classId")
	if err != nil {
		response.Error(c, err)
		return
	}
	roster, err := h.service.GetRoster(c.Request.Context(), sess, classID, c.Param("date"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, roster, nil)
}

// CheckIn godoc
// @Summary Check in to a class occurrence
// @Description aluno_id defaults to the caller; only teachers may check in someone else. data_checkin defaults to today.
// @Tags Check-ins
// @Accept json
// @Produce json
// @Param payload body dto.CheckInRequest true "Check-in payload"
// @Success 201 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /checkins [post]
func (h *CheckInHandler) CheckIn(c *gin.Context) {
	sess, err := sessionFromContext(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.CheckInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err, "invalid check-in payload"))
		return
	}
	record, err := h.service.RequestCheckIn(c.Request.Context(), sess, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, record)
}

// Cancel godoc
// @Summary Cancel a check-in
// @Description Rejected with 422 once the class occurrence has started.
// @Tags Check-ins
// @Accept json
// @Produce json
// @Param payload body dto.CheckInRequest true "Check-in payload"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /checkins [delete]
func (h *CheckInHandler) Cancel(c *gin.Context) {
	sess, err := sessionFromContext(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.CheckInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err, "invalid check-in payload"))
		return
	}
	if err := h.service.RequestCancel(c.Request.Context(), sess, req); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, "Check-in cancelado com sucesso.", nil)
}

// Report godoc
// @Summary Attendance report
// @Tags Check-ins
// @Produce json,text/csv,application/pdf
// @Param inicio query string true "Start date (YYYY-MM-DD)"
// @Param fim query string true "End date (YYYY-MM-DD)"
// @Param formato query string false "json, csv or pdf"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /checkins/relatorio [get]
func (h *CheckInHandler) Report(c *gin.Context) {
	var query dto.AttendanceReportQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, bindError(err, "invalid report query"))
		return
	}
	report, err := h.reports.Attendance(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	if report.Format == dto.ReportFormatJSON {
		response.JSON(c, http.StatusOK, report.Rows, nil, map[string]interface{}{"inicio": query.From, "fim": query.To, "count": len(report.Rows)})
		return
	}
	response.Attachment(c, report.Filename, report.ContentType, report.Body)
}
