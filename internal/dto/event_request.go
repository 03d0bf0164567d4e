package dto

// ── 活动申请模块 DTO ──

// SubmitRequestRequest 提交活动申请
type SubmitRequestRequest struct {
	EventTitle    string `json:"event_title"    binding:"required,max=200"`
	Description   string `json:"description"    binding:"required"`
	EventDate     string `json:"event_date"     binding:"required"` // "2026-10-05"
	TimeFrom      string `json:"time_from"      binding:"required"` // "13:00"
	TimeTo        string `json:"time_to"        binding:"required"`
	Location      string `json:"location"       binding:"required,max=200"`
	ContactPerson string `json:"contact_person" binding:"required,max=100"`
	ContactInfo   string `json:"contact_info"   binding:"required,max=100"`
	AttachmentURL string `json:"attachment_url" binding:"omitempty,max=500"`
}

// UpdateRequestRequest 修改待审申请（仅所有者、仅 pending）
type UpdateRequestRequest struct {
	EventTitle    *string `json:"event_title"    binding:"omitempty,max=200"`
	Description   *string `json:"description"`
	EventDate     *string `json:"event_date"`
	TimeFrom      *string `json:"time_from"`
	TimeTo        *string `json:"time_to"`
	Location      *string `json:"location"       binding:"omitempty,max=200"`
	ContactPerson *string `json:"contact_person" binding:"omitempty,max=100"`
	ContactInfo   *string `json:"contact_info"   binding:"omitempty,max=100"`
	AttachmentURL *string `json:"attachment_url" binding:"omitempty,max=500"`
}

// DenyRequestRequest 拒绝申请（原因可选）
type DenyRequestRequest struct {
	Reason string `json:"reason" binding:"omitempty,max=500"`
}

// RequestResponse 活动申请响应
type RequestResponse struct {
	ID             string  `json:"id"`
	OwnerID        string  `json:"owner_id"`
	EventTitle     string  `json:"event_title"`
	Description    string  `json:"description"`
	EventDate      string  `json:"event_date"`
	TimeFrom       string  `json:"time_from"`
	TimeTo         string  `json:"time_to"`
	Location       string  `json:"location"`
	ContactPerson  string  `json:"contact_person"`
	ContactInfo    string  `json:"contact_info"`
	AttachmentURL  string  `json:"attachment_url,omitempty"`
	Status         string  `json:"status"`
	AssignedHeadID *string `json:"assigned_head_id,omitempty"`
	CreatedAt      string  `json:"created_at"`
	UpdatedAt      string  `json:"updated_at"`
}

// RequestDetailResponse 申请详情（读侧投影）
// 一次查询带出审批人、拒绝原因、分派与邀请，替代原系统里每个页面各自拼 join
type RequestDetailResponse struct {
	RequestResponse
	DecidedBy    *UserResponse        `json:"decided_by,omitempty"`
	DecidedAt    string               `json:"decided_at,omitempty"`
	DenialReason string               `json:"denial_reason,omitempty"`
	Assignment   *AssignmentResponse  `json:"assignment,omitempty"`
	Invitations  []InvitationResponse `json:"invitations,omitempty"`
}

// RequestCountsResponse 管理端看板各状态计数
type RequestCountsResponse struct {
	Pending  int64 `json:"pending"`
	Approved int64 `json:"approved"`
	Denied   int64 `json:"denied"`
	Assigned int64 `json:"assigned"`
}
