package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sudoeste-fight/academy-api/internal/dto"
	"github.com/sudoeste-fight/academy-api/internal/models"
	"github.com/sudoeste-fight/academy-api/internal/service"
	appErrors "github.com/sudoeste-fight/academy-api/pkg/errors"
	"github.com/sudoeste-fight/academy-api/pkg/response"
)

type announcementService interface {
	List(ctx context.Context, filter models.AnnouncementFilter) ([]models.Announcement, *models.Pagination, error)
	Get(ctx context.Context, id int64) (*models.Announcement, error)
	Updates(ctx context.Context, since *time.Time) (*dto.AnnouncementUpdates, error)
	Create(ctx context.Context, sess service.Session, req dto.AnnouncementRequest) (*models.Announcement, error)
	Update(ctx context.Context, sess service.Session, id int64, req dto.AnnouncementRequest) (*models.Announcement, error)
	Delete(ctx context.Context, sess service.Session, id int64) error
}

// AnnouncementHandler exposes the notice board.
type AnnouncementHandler struct {
	service announcementService
}

// NewAnnouncementHandler constructs the handler.
func NewAnnouncementHandler(svc announcementService) *AnnouncementHandler {
	return &AnnouncementHandler{service: svc}
}

// List godoc
// @Summary List announcements
// @Tags Announcements
// @Produce json
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /avisos [get]
func (h *AnnouncementHandler) List(c *gin.Context) {
	items, pagination, err := h.service.List(c.Request.Context(), models.AnnouncementFilter{
		Page:     intQuery(c, "page", 1),
		PageSize: intQuery(c, "limit", 20),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, pagination)
}

// Get godoc
// @Summary Get announcement
// @Tags Announcements
// @Produce json
// @Param id path int true "Announcement ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /avisos/{id} [get]
func (h *AnnouncementHandler) Get(c *gin.Context) {
	id, err := int64Param(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	item, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item, nil)
}

// Updates godoc
// @Summary Check for new announcements
// @Tags Announcements
// @Produce json
// @Param desde query string false "Last seen posting time (RFC3339)"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /avisos/novidades [get]
func (h *AnnouncementHandler) Updates(c *gin.Context) {
	var since *time.Time
	if raw := c.Query("desde"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			response.Error(c, appErrors.Validation(err, "desde must be an RFC3339 timestamp"))
			return
		}
		since = &parsed
	}
	updates, err := h.service.Updates(c.Request.Context(), since)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, updates, nil)
}

// Create godoc
// @Summary Post announcement
// @Tags Announcements
// @Accept json
// @Produce json
// @Param payload body dto.AnnouncementRequest true "Announcement payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /avisos [post]
func (h *AnnouncementHandler) Create(c *gin.Context) {
	sess, err := sessionFromContext(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.AnnouncementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err, "invalid announcement payload"))
		return
	}
	item, err := h.service.Create(c.Request.Context(), sess, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, item)
}

// Update godoc
// @Summary Edit announcement
// @Tags Announcements
// @Accept json
// @Produce json
// @Param id path int true "Announcement ID"
// @Param payload body dto.AnnouncementRequest true "Announcement payload"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /avisos/{id} [put]
func (h *AnnouncementHandler) Update(c *gin.Context) {
	sess, err := sessionFromContext(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	id, err := int64Param(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.AnnouncementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err, "invalid announcement payload"))
		return
	}
	item, err := h.service.Update(c.Request.Context(), sess, id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item, nil)
}

// Delete godoc
// @Summary Delete announcement
// @Tags Announcements
// @Param id path int true "Announcement ID"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Router /avisos/{id} [delete]
func (h *AnnouncementHandler) Delete(c *gin.Context) {
	sess, err := sessionFromContext(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	id, err := int64Param(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.service.Delete(c.Request.Context(), sess, id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
