package handler

import (
	"net/http"

	"github.com/covenantOS/serviceline-dashboard/internal/dashboard/service"
	"github.com/covenantOS/serviceline-dashboard/internal/dashboard/transport"
	"github.com/covenantOS/serviceline-dashboard/platform/httpkit"
	"github.com/covenantOS/serviceline-dashboard/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Handler struct {
	svc *service.Service
	val *validator.Validator
}

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/dashboard", h.Dashboard)
	rg.GET("/overview", h.Overview)
	rg.GET("/daily", h.Daily)
	rg.GET("/status", h.Status)
	rg.GET("/sources", h.Sources)
	rg.GET("/industries", h.Industries)
	rg.GET("/revenue", h.Revenue)
	rg.GET("/scores", h.Scores)
	rg.GET("/campaigns", h.Campaigns)
	rg.GET("/campaigns/:id", h.Campaign)
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

func (h *Handler) Dashboard(c *gin.Context) {
	result, err := h.svc.Dashboard(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

func (h *Handler) Overview(c *gin.Context) {
	result, err := h.svc.Overview(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

func (h *Handler) Daily(c *gin.Context) {
	var req transport.DailySeriesRequest
	if !h.bindQuery(c, &req) {
		return
	}

	result, err := h.svc.DailySeries(c.Request.Context(), req.Days)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

func (h *Handler) Status(c *gin.Context) {
	result, err := h.svc.StatusDistribution(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

func (h *Handler) Sources(c *gin.Context) {
	var req transport.LimitRequest
	if !h.bindQuery(c, &req) {
		return
	}

	result, err := h.svc.TopSources(c.Request.Context(), req.Limit)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

func (h *Handler) Industries(c *gin.Context) {
	var req transport.LimitRequest
	if !h.bindQuery(c, &req) {
		return
	}

	result, err := h.svc.Industries(c.Request.Context(), req.Limit)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

func (h *Handler) Revenue(c *gin.Context) {
	result, err := h.svc.Revenue(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

func (h *Handler) Scores(c *gin.Context) {
	result, err := h.svc.Scores(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

func (h *Handler) Campaigns(c *gin.Context) {
	result, err := h.svc.Campaigns(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

func (h *Handler) Campaign(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	result, err := h.svc.Campaign(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}
