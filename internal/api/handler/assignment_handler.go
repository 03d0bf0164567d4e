package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/AzuraDhar/goldPanicles-sub000/internal/dto"
	"github.com/AzuraDhar/goldPanicles-sub000/internal/model"
	"github.com/AzuraDhar/goldPanicles-sub000/internal/service"
	"github.com/AzuraDhar/goldPanicles-sub000/pkg/response"
)

// AssignmentHandler 分派/邀请模块 HTTP 处理器
type AssignmentHandler struct {
	assignSvc service.AssignmentService
	userSvc   service.UserService
}

// NewAssignmentHandler 创建 AssignmentHandler
func NewAssignmentHandler(assignSvc service.AssignmentService, userSvc service.UserService) *AssignmentHandler {
	return &AssignmentHandler{assignSvc: assignSvc, userSvc: userSvc}
}

// Assign 管理员将已批准申请分派给组长
// POST /api/v1/admin/requests/:id/assign
func (h *AssignmentHandler) Assign(c *gin.Context) {
	requestID := c.Param("id")
	if requestID == "" {
		response.BadRequest(c, 10001, "申请ID不能为空")
		return
	}

	var req dto.AssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	adminID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.assignSvc.AssignToSectionHead(c.Request.Context(), requestID, req.HeadID, adminID)
	if err != nil {
		h.handleAssignmentError(c, err)
		return
	}

	response.Created(c, result)
}

// ListSectionHeads 可分派的组长名单
// GET /api/v1/admin/section-heads
func (h *AssignmentHandler) ListSectionHeads(c *gin.Context) {
	heads, err := h.userSvc.ListByRole(c.Request.Context(), model.RoleSectionHead)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": heads})
}

// ListHeadTasks 组长名下的已分派任务
// GET /api/v1/head/tasks
func (h *AssignmentHandler) ListHeadTasks(c *gin.Context) {
	headID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	tasks, err := h.assignSvc.ListHeadTasks(c.Request.Context(), headID)
	if err != nil {
		h.handleAssignmentError(c, err)
		return
	}

	response.OK(c, gin.H{"list": tasks})
}

// HeadDecision 组长接单/拒单
// PUT /api/v1/head/tasks/:id/decision
func (h *AssignmentHandler) HeadDecision(c *gin.Context) {
	requestID := c.Param("id")
	if requestID == "" {
		response.BadRequest(c, 10001, "申请ID不能为空")
		return
	}

	var req dto.HeadDecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	headID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.assignSvc.RecordHeadDecision(c.Request.Context(), requestID, headID, req.Decision)
	if err != nil {
		h.handleAssignmentError(c, err)
		return
	}

	response.Created(c, result)
}

// ListStaff 可邀请的部员名单
// GET /api/v1/head/staff
func (h *AssignmentHandler) ListStaff(c *gin.Context) {
	staff, err := h.userSvc.ListByRole(c.Request.Context(), model.RoleStaff)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": staff})
}

// Invite 组长邀请部员
// POST /api/v1/head/tasks/:id/invitations
func (h *AssignmentHandler) Invite(c *gin.Context) {
	requestID := c.Param("id")
	if requestID == "" {
		response.BadRequest(c, 10001, "申请ID不能为空")
		return
	}

	var req dto.InviteStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	headID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.assignSvc.InviteStaff(c.Request.Context(), requestID, req.StaffID, headID)
	if err != nil {
		h.handleAssignmentError(c, err)
		return
	}

	response.Created(c, result)
}

// ListRequestInvitations 查看某申请的全部邀请
// GET /api/v1/requests/:id/invitations
func (h *AssignmentHandler) ListRequestInvitations(c *gin.Context) {
	requestID := c.Param("id")
	if requestID == "" {
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

	list, err := h.assignSvc.ListRequestInvitations(c.Request.Context(), requestID, callerID, callerRole)
	if err != nil {
		h.handleAssignmentError(c, err)
		return
	}

	response.OK(c, gin.H{"list": list})
}

// AcceptedByPosition 某申请按职位统计的已接受人数
// GET /api/v1/requests/:id/accepted-positions
func (h *AssignmentHandler) AcceptedByPosition(c *gin.Context) {
	requestID := c.Param("id")
	if requestID == "" {
		response.BadRequest(c, 10001, "申请ID不能为空")
		return
	}

	counts, err := h.assignSvc.AcceptedByPosition(c.Request.Context(), requestID)
	if err != nil {
		h.handleAssignmentError(c, err)
		return
	}

	response.OK(c, gin.H{"list": counts})
}

// ListMyInvitations 部员本人的邀请列表
// GET /api/v1/staff/invitations
func (h *AssignmentHandler) ListMyInvitations(c *gin.Context) {
	staffID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	list, err := h.assignSvc.ListStaffInvitations(c.Request.Context(), staffID)
	if err != nil {
		h.handleAssignmentError(c, err)
		return
	}

	response.OK(c, gin.H{"list": list})
}

// Respond 部员应答邀请
// PUT /api/v1/staff/invitations/:id
func (h *AssignmentHandler) Respond(c *gin.Context) {
	invitationID := c.Param("id")
	if invitationID == "" {
		response.BadRequest(c, 10001, "邀请ID不能为空")
		return
	}

	var req dto.RespondInvitationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	staffID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.assignSvc.RespondInvitation(c.Request.Context(), invitationID, staffID, req.Decision)
	if err != nil {
		h.handleAssignmentError(c, err)
		return
	}

	response.OK(c, result)
}

// Cancel 组长撤销邀请
// DELETE /api/v1/head/invitations/:id
func (h *AssignmentHandler) Cancel(c *gin.Context) {
	invitationID := c.Param("id")
	if invitationID == "" {
		response.BadRequest(c, 10001, "邀请ID不能为空")
		return
	}

	headID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.assignSvc.CancelInvitation(c.Request.Context(), invitationID, headID)
	if err != nil {
		h.handleAssignmentError(c, err)
		return
	}

	response.OK(c, result)
}

// handleAssignmentError 统一处理分派/邀请模块业务错误
func (h *AssignmentHandler) handleAssignmentError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrRequestNotFound):
		response.NotFound(c, 12002, "申请不存在")
	case errors.Is(err, service.ErrRequestNotApproved):
		response.Conflict(c, 13001, "只有已批准的申请可以分派")
	case errors.Is(err, service.ErrAlreadyAssigned):
		response.Conflict(c, 13002, "申请已分派给其他组长")
	case errors.Is(err, service.ErrHeadNotFound):
		response.BadRequest(c, 13003, "组长不存在或角色不符")
	case errors.Is(err, service.ErrStaffNotFound):
		response.BadRequest(c, 13004, "部员不存在或角色不符")
	case errors.Is(err, service.ErrNotAssignedHead):
		response.Forbidden(c, 13005, "只有被分派的组长可以操作")
	case errors.Is(err, service.ErrInvitationNotFound):
		response.NotFound(c, 13006, "邀请不存在")
	case errors.Is(err, service.ErrDuplicateInvitation):
		response.Conflict(c, 13007, "该部员已被邀请")
	case errors.Is(err, service.ErrNotInvitee):
		response.Forbidden(c, 13008, "只有被邀请的部员可以应答")
	case errors.Is(err, service.ErrInvitationClosed):
		response.Conflict(c, 13009, "邀请已关闭，无法应答")
	case errors.Is(err, service.ErrDecisionInvalid):
		response.BadRequest(c, 13010, "无效的决定")
	case errors.Is(err, service.ErrDecisionAlreadyMade):
		response.Conflict(c, 13011, "接单决定已记录")
	default:
		response.InternalError(c)
	}
}
