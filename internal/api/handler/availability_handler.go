package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/AzuraDhar/goldPanicles-sub000/internal/dto"
	"github.com/AzuraDhar/goldPanicles-sub000/internal/service"
	"github.com/AzuraDhar/goldPanicles-sub000/pkg/response"
)

// AvailabilityHandler 空闲时间表模块 HTTP 处理器
type AvailabilityHandler struct {
	availabilitySvc service.AvailabilityService
}

// NewAvailabilityHandler 创建 AvailabilityHandler
func NewAvailabilityHandler(availabilitySvc service.AvailabilityService) *AvailabilityHandler {
	return &AvailabilityHandler{availabilitySvc: availabilitySvc}
}

// GetWeek 读取本人整周时间表
// GET /api/v1/availability
func (h *AvailabilityHandler) GetWeek(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.availabilitySvc.LoadWeek(c.Request.Context(), userID)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}

// SaveWeek 整周覆盖保存本人时间表
// PUT /api/v1/availability
func (h *AvailabilityHandler) SaveWeek(c *gin.Context) {
	var req dto.SaveWeekRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.availabilitySvc.SaveWeek(c.Request.Context(), userID, &req)
	if err != nil {
		if errors.Is(err, service.ErrGridInvalid) {
			response.BadRequest(c, 14001, "时间表格式不正确")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}

// GetUserWeek 管理员查看指定成员的整周时间表
// GET /api/v1/admin/availability/:userId
func (h *AvailabilityHandler) GetUserWeek(c *gin.Context) {
	userID := c.Param("userId")
	if userID == "" {
		response.BadRequest(c, 10001, "用户ID不能为空")
		return
	}

	result, err := h.availabilitySvc.LoadWeek(c.Request.Context(), userID)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}
