package dto

// ── 分派/邀请模块 DTO ──

// AssignRequest 管理员将申请分派给组长
type AssignRequest struct {
	HeadID string `json:"head_id" binding:"required,uuid"`
}

// InviteStaffRequest 组长邀请部员
type InviteStaffRequest struct {
	StaffID string `json:"staff_id" binding:"required,uuid"`
}

// RespondInvitationRequest 部员应答邀请
type RespondInvitationRequest struct {
	Decision string `json:"decision" binding:"required,oneof=accepted rejected"`
}

// HeadDecisionRequest 组长接单决定
type HeadDecisionRequest struct {
	Decision string `json:"decision" binding:"required,oneof=pending declined"`
}

// AssignmentResponse 分派记录响应
type AssignmentResponse struct {
	ID         string        `json:"id"`
	RequestID  string        `json:"request_id"`
	AssignedBy string        `json:"assigned_by"`
	HeadID     string        `json:"head_id"`
	Head       *UserResponse `json:"head,omitempty"`
	CreatedAt  string        `json:"created_at"`
}

// InvitationRequestBrief 邀请所属活动的摘要
// 部员应答前需要知道被邀请去支援的是哪场活动
type InvitationRequestBrief struct {
	EventTitle string `json:"event_title"`
	EventDate  string `json:"event_date"`
	TimeFrom   string `json:"time_from"`
	TimeTo     string `json:"time_to"`
	Location   string `json:"location"`
	Status     string `json:"status"`
}

// InvitationResponse 邀请响应
type InvitationResponse struct {
	ID        string                  `json:"id"`
	RequestID string                  `json:"request_id"`
	StaffID   string                  `json:"staff_id"`
	Staff     *UserResponse           `json:"staff,omitempty"`
	Request   *InvitationRequestBrief `json:"request,omitempty"`
	Status    string                  `json:"status"`
	CreatedAt string                  `json:"created_at"`
}

// AcceptanceResponse 组长接单记录响应
type AcceptanceResponse struct {
	ID        string `json:"id"`
	RequestID string `json:"request_id"`
	HeadID    string `json:"head_id"`
	Decision  string `json:"decision"`
	EventDate string `json:"event_date"`
	CreatedAt string `json:"created_at"`
}

// PositionCountResponse 按职位统计的已接受人数（读侧聚合）
type PositionCountResponse struct {
	Position string `json:"position"`
	Count    int64  `json:"count"`
}
