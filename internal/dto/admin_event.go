package dto

// ── 管理员日历模块 DTO ──

// CreateAdminEventRequest 创建日历占用块
type CreateAdminEventRequest struct {
	Title       string `json:"title"       binding:"required,max=200"`
	Description string `json:"description" binding:"omitempty"`
	EventDate   string `json:"event_date"  binding:"required"` // "2026-10-05"
	TimeFrom    string `json:"time_from"   binding:"omitempty"`
	TimeTo      string `json:"time_to"     binding:"omitempty"`
}

// AdminEventResponse 日历占用块响应
type AdminEventResponse struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	EventDate   string `json:"event_date"`
	TimeFrom    string `json:"time_from,omitempty"`
	TimeTo      string `json:"time_to,omitempty"`
	CreatedAt   string `json:"created_at"`
}

// AttachmentResponse 附件上传响应
type AttachmentResponse struct {
	URL string `json:"url"`
}
