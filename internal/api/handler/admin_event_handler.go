package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/AzuraDhar/goldPanicles-sub000/internal/dto"
	"github.com/AzuraDhar/goldPanicles-sub000/internal/service"
	"github.com/AzuraDhar/goldPanicles-sub000/pkg/response"
)

// AdminEventHandler 管理员日历模块 HTTP 处理器
type AdminEventHandler struct {
	adminEventSvc service.AdminEventService
}

// NewAdminEventHandler 创建 AdminEventHandler
func NewAdminEventHandler(adminEventSvc service.AdminEventService) *AdminEventHandler {
	return &AdminEventHandler{adminEventSvc: adminEventSvc}
}

// Create 创建日历占用块
// POST /api/v1/admin/events
func (h *AdminEventHandler) Create(c *gin.Context) {
	var req dto.CreateAdminEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	adminID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.adminEventSvc.Create(c.Request.Context(), adminID, &req)
	if err != nil {
		h.handleEventError(c, err)
		return
	}

	response.Created(c, result)
}

// List 按日期范围列出占用块（所有登录用户可见）
// GET /api/v1/events?from=2026-10-01&to=2026-10-31
func (h *AdminEventHandler) List(c *gin.Context) {
	from := c.Query("from")
	to := c.Query("to")
	if from == "" || to == "" {
		response.BadRequest(c, 10001, "from/to 不能为空")
		return
	}

	events, err := h.adminEventSvc.ListByDateRange(c.Request.Context(), from, to)
	if err != nil {
		h.handleEventError(c, err)
		return
	}

	response.OK(c, gin.H{"list": events})
}

// Delete 删除占用块
// DELETE /api/v1/admin/events/:id
func (h *AdminEventHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "占用ID不能为空")
		return
	}

	adminID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.adminEventSvc.Delete(c.Request.Context(), id, adminID); err != nil {
		h.handleEventError(c, err)
		return
	}

	response.OK(c, nil)
}

// handleEventError 统一处理日历模块业务错误
func (h *AdminEventHandler) handleEventError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrEventNotFound):
		response.NotFound(c, 15001, "日历占用不存在")
	case errors.Is(err, service.ErrEventDateInvalid):
		response.BadRequest(c, 15002, "日历占用日期或时间无效")
	default:
		response.InternalError(c)
	}
}
