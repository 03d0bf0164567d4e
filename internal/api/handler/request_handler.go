package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/AzuraDhar/goldPanicles-sub000/internal/dto"
	"github.com/AzuraDhar/goldPanicles-sub000/internal/model"
	"github.com/AzuraDhar/goldPanicles-sub000/internal/service"
	pkgerrors "github.com/AzuraDhar/goldPanicles-sub000/pkg/errors"
	"github.com/AzuraDhar/goldPanicles-sub000/pkg/response"
)

// RequestHandler 活动申请模块 HTTP 处理器
type RequestHandler struct {
	requestSvc service.RequestService
}

// NewRequestHandler 创建 RequestHandler
func NewRequestHandler(requestSvc service.RequestService) *RequestHandler {
	return &RequestHandler{requestSvc: requestSvc}
}

// Submit 提交活动申请
// POST /api/v1/requests
func (h *RequestHandler) Submit(c *gin.Context) {
	var req dto.SubmitRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	ownerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.requestSvc.Submit(c.Request.Context(), &req, ownerID)
	if err != nil {
		h.handleRequestError(c, err)
		return
	}

	response.Created(c, result)
}

// GetRequest 获取申请详情
// GET /api/v1/requests/:id
func (h *RequestHandler) GetRequest(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "申请ID不能为空")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	callerRole, ok := MustGetRole(c)
	if !ok {
		return
	}

	result, err := h.requestSvc.GetDetail(c.Request.Context(), id, callerID, callerRole)
	if err != nil {
		h.handleRequestError(c, err)
		return
	}

	response.OK(c, result)
}

// ListMine 列出本人申请
// GET /api/v1/requests/mine
func (h *RequestHandler) ListMine(c *gin.Context) {
	ownerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var page dto.PaginationRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		response.BadRequest(c, 10001, "分页参数无效")
		return
	}

	list, total, err := h.requestSvc.ListMine(c.Request.Context(), ownerID, page.GetPage(), page.GetPageSize())
	if err != nil {
		h.handleRequestError(c, err)
		return
	}

	response.OK(c, gin.H{"list": list, "total": total})
}

// ListAll 管理端按状态列出申请
// GET /api/v1/admin/requests?status=pending
func (h *RequestHandler) ListAll(c *gin.Context) {
	status := c.Query("status")

	var page dto.PaginationRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		response.BadRequest(c, 10001, "分页参数无效")
		return
	}

	list, total, err := h.requestSvc.ListAll(c.Request.Context(), status, page.GetPage(), page.GetPageSize())
	if err != nil {
		if errors.Is(err, service.ErrInvalidTransition) {
			response.BadRequest(c, 12001, "无效的状态筛选")
			return
		}
		h.handleRequestError(c, err)
		return
	}

	response.OK(c, gin.H{"list": list, "total": total})
}

// Counts 管理端看板状态计数
// GET /api/v1/admin/requests/counts
func (h *RequestHandler) Counts(c *gin.Context) {
	result, err := h.requestSvc.Counts(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}

// Approve 批准申请
// PUT /api/v1/admin/requests/:id/approve
func (h *RequestHandler) Approve(c *gin.Context) {
	h.decide(c, model.AuditActionApproved)
}

// Deny 拒绝申请（原因可选）
// PUT /api/v1/admin/requests/:id/deny
func (h *RequestHandler) Deny(c *gin.Context) {
	h.decide(c, model.AuditActionDenied)
}

func (h *RequestHandler) decide(c *gin.Context, action string) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "申请ID不能为空")
		return
	}

	actorID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	actorRole, ok := MustGetRole(c)
	if !ok {
		return
	}

	var result *dto.RequestResponse
	var err error
	if action == model.AuditActionApproved {
		result, err = h.requestSvc.Approve(c.Request.Context(), id, actorID, actorRole)
	} else {
		var req dto.DenyRequestRequest
		// 拒绝原因可选，请求体可以为空
		_ = c.ShouldBindJSON(&req)
		result, err = h.requestSvc.Deny(c.Request.Context(), id, actorID, actorRole, req.Reason)
	}
	if err != nil {
		h.handleRequestError(c, err)
		return
	}

	response.OK(c, result)
}

// Update 修改待审申请
// PUT /api/v1/requests/:id
func (h *RequestHandler) Update(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "申请ID不能为空")
		return
	}

	var req dto.UpdateRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.requestSvc.Update(c.Request.Context(), id, &req, callerID)
	if err != nil {
		h.handleRequestError(c, err)
		return
	}

	response.OK(c, result)
}

// Delete 删除本人申请
// DELETE /api/v1/requests/:id
func (h *RequestHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "申请ID不能为空")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.requestSvc.Delete(c.Request.Context(), id, callerID); err != nil {
		h.handleRequestError(c, err)
		return
	}

	response.OK(c, nil)
}

// handleRequestError 统一处理申请模块业务错误
func (h *RequestHandler) handleRequestError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrRequestNotFound):
		response.NotFound(c, 12002, "申请不存在")
	case errors.Is(err, service.ErrRequestFieldMissing):
		response.BadRequest(c, 12003, "申请必填字段不能为空")
	case errors.Is(err, service.ErrRequestDateInvalid):
		response.BadRequest(c, 12004, "申请日期或时间无效")
	case errors.Is(err, service.ErrNotRequestOwner):
		response.Forbidden(c, 12005, "只有申请人本人可以操作该申请")
	case errors.Is(err, service.ErrInvalidTransition):
		response.Conflict(c, 12006, "当前状态不允许该操作")
	case errors.Is(err, service.ErrRequestHasAssignment):
		response.Conflict(c, 12007, "申请已被分派，无法删除")
	case errors.Is(err, service.ErrRequestNotViewable):
		response.Forbidden(c, 12008, "无权查看该申请")
	case errors.Is(err, pkgerrors.ErrOptimisticLock):
		response.Conflict(c, 12009, "申请已被其他操作修改，请刷新后重试")
	default:
		response.InternalError(c)
	}
}
