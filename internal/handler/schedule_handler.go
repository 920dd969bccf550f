package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sudoeste-fight/academy-api/internal/dto"
	"github.com/sudoeste-fight/academy-api/internal/middleware"
	"github.com/sudoeste-fight/academy-api/internal/models"
	"github.com/sudoeste-fight/academy-api/internal/service"
	"github.com/sudoeste-fight/academy-api/pkg/response"
)

type scheduleService interface {
	ListClasses(ctx context.Context, day string) ([]models.ClassTemplate, bool, error)
	GetClass(ctx context.Context, id int64) (*models.ClassTemplate, error)
	CreateClass(ctx context.Context, sess service.Session, req dto.ClassRequest) (*models.ClassTemplate, error)
	UpdateClass(ctx context.Context, sess service.Session, id int64, req dto.ClassRequest) (*models.ClassTemplate, error)
	DeleteClass(ctx context.Context, sess service.Session, id int64) (*dto.ClassDeleteResult, error)
}

// ScheduleHandler exposes the weekly agenda and class template management.
type ScheduleHandler struct {
	service scheduleService
}

// NewScheduleHandler constructs the handler.
func NewScheduleHandler(svc scheduleService) *ScheduleHandler {
	return &ScheduleHandler{service: svc}
}

// Agenda godoc
// @Summary List weekly classes
// @Tags Schedule
// @Produce json
// @Param dia query string false "Day code (Seg, Ter, Qua, Qui, Sex, Sab)"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /agenda [get]
func (h *ScheduleHandler) Agenda(c *gin.Context) {
	classes, hit, err := h.service.ListClasses(c.Request.Context(), c.Query("dia"))
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, hit)
	response.JSON(c, http.StatusOK, classes, nil, middleware.ExtractMeta(c))
}

// Get godoc
// @Summary Get class template
// @Tags Schedule
// @Produce json
// @Param id path int true "Class ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /aulas/{id} [get]
func (h *ScheduleHandler) Get(c *gin.Context) {
	id, err := int64Param(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	class, err := h.service.GetClass(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, class, nil)
}

// Create godoc
// @Summary Create class template
// @Tags Schedule
// @Accept json
// @Produce json
// @Param payload body dto.ClassRequest true "Class payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /aulas [post]
func (h *ScheduleHandler) Create(c *gin.Context) {
	sess, err := sessionFromContext(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.ClassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err, "invalid class payload"))
		return
	}
	class, err := h.service.CreateClass(c.Request.Context(), sess, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, class)
}

// Update godoc
// @Summary Update class template
// @Tags Schedule
// @Accept json
// @Produce json
// @Param id path int true "Class ID"
// @Param payload body dto.ClassRequest true "Class payload"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /aulas/{id} [put]
func (h *ScheduleHandler) Update(c *gin.Context) {
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
	var req dto.ClassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err, "invalid class payload"))
		return
	}
	class, err := h.service.UpdateClass(c.Request.Context(), sess, id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, class, nil)
}

// Delete godoc
// @Summary Delete class template
// @Description Existing check-ins are kept or removed according to the configured orphan policy
// @Tags Schedule
// @Produce json
// @Param id path int true "Class ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /aulas/{id} [delete]
func (h *ScheduleHandler) Delete(c *gin.Context) {
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
	result, err := h.service.DeleteClass(c.Request.Context(), sess, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, "Aula apagada com sucesso.", result)
}
