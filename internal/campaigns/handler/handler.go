package handler

import (
	"net/http"

	"github.com/covenantOS/serviceline-dashboard/internal/campaigns/domain"
	"github.com/covenantOS/serviceline-dashboard/internal/campaigns/management"
	"github.com/covenantOS/serviceline-dashboard/internal/campaigns/transport"
	"github.com/covenantOS/serviceline-dashboard/platform/httpkit"
	"github.com/covenantOS/serviceline-dashboard/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Handler struct {
	svc *management.Service
	val *validator.Validator
}

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

func New(svc *management.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.POST("", h.Create)
	rg.GET("/:id", h.GetByID)
	rg.PATCH("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)
	rg.POST("/:id/schedule", h.Schedule)
	rg.POST("/:id/launch", h.action(domain.ActionLaunch))
	rg.POST("/:id/pause", h.action(domain.ActionPause))
	rg.POST("/:id/resume", h.action(domain.ActionResume))
	rg.POST("/:id/complete", h.action(domain.ActionComplete))
	rg.POST("/:id/archive", h.action(domain.ActionArchive))
	rg.POST("/:id/duplicate", h.Duplicate)
	rg.POST("/:id/performance", h.RecordPerformance)
	rg.GET("/:id/audience", h.Audience)
	rg.GET("/:id/template/variables", h.TemplateVariables)
	rg.POST("/:id/test-email", h.SendTestEmail)
	rg.POST("/:id/report", h.Report)
}

func (h *Handler) bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return false
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.FieldErrors(err))
		return false
	}
	return true
}

func (h *Handler) bindQuery(c *gin.Context, req any) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return false
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.FieldErrors(err))
		return false
	}
	return true
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return uuid.UUID{}, false
	}
	return id, true
}

func (h *Handler) Create(c *gin.Context) {
	var req transport.CreateCampaignRequest
	if !h.bindJSON(c, &req) {
		return
	}

	campaign, err := h.svc.Create(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.JSON(c, http.StatusCreated, campaign)
}

func (h *Handler) GetByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	campaign, err := h.svc.GetByID(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, campaign)
}

func (h *Handler) List(c *gin.Context) {
	var req transport.ListCampaignsRequest
	if !h.bindQuery(c, &req) {
		return
	}

	result, err := h.svc.List(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

func (h *Handler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req transport.UpdateCampaignRequest
	if !h.bindJSON(c, &req) {
		return
	}

	campaign, err := h.svc.Update(c.Request.Context(), id, req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, campaign)
}

func (h *Handler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), id); httpkit.HandleError(c, err) {
		return
	}

	httpkit.NoContent(c)
}

func (h *Handler) Schedule(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req transport.ScheduleCampaignRequest
	if !h.bindJSON(c, &req) {
		return
	}

	campaign, err := h.svc.Schedule(c.Request.Context(), id, req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, campaign)
}

func (h *Handler) action(action domain.Action) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			return
		}

		campaign, err := h.svc.ApplyAction(c.Request.Context(), id, action)
		if httpkit.HandleError(c, err) {
			return
		}

		httpkit.OK(c, campaign)
	}
}

func (h *Handler) Duplicate(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	campaign, err := h.svc.Duplicate(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.JSON(c, http.StatusCreated, campaign)
}

func (h *Handler) RecordPerformance(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req transport.RecordPerformanceRequest
	if !h.bindJSON(c, &req) {
		return
	}

	campaign, err := h.svc.RecordPerformance(c.Request.Context(), id, req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, campaign)
}

func (h *Handler) Audience(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req transport.AudienceRequest
	if !h.bindQuery(c, &req) {
		return
	}

	result, err := h.svc.Audience(c.Request.Context(), id, req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

func (h *Handler) TemplateVariables(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	result, err := h.svc.TemplateVariables(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

func (h *Handler) SendTestEmail(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req transport.SendTestEmailRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.svc.SendTestEmail(c.Request.Context(), id, req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

func (h *Handler) Report(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	result, err := h.svc.GenerateReport(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.JSON(c, http.StatusCreated, result)
}
