package model

import "time"

// ── 申请状态机 ──
// pending → {approved, denied}; approved → assigned
// denied 与 assigned 为本状态机的终态

const (
	RequestStatusPending  = "pending"
	RequestStatusApproved = "approved"
	RequestStatusDenied   = "denied"
	RequestStatusAssigned = "assigned"
)

// ValidRequestStatus 校验申请状态取值
func ValidRequestStatus(status string) bool {
	switch status {
	case RequestStatusPending, RequestStatusApproved, RequestStatusDenied, RequestStatusAssigned:
		return true
	}
	return false
}

// EventRequest 活动申请表 — 对应 event_requests
type EventRequest struct {
	RequestID      string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"request_id"`
	OwnerID        string    `gorm:"type:uuid;not null"                             json:"owner_id"`
	EventTitle     string    `gorm:"type:varchar(200);not null"                     json:"event_title"`
	Description    string    `gorm:"type:text;not null"                             json:"description"`
	EventDate      time.Time `gorm:"type:date;not null"                             json:"event_date"`
	TimeFrom       string    `gorm:"type:time;not null"                             json:"time_from"`
	TimeTo         string    `gorm:"type:time;not null"                             json:"time_to"`
	Location       string    `gorm:"type:varchar(200);not null"                     json:"location"`
	ContactPerson  string    `gorm:"type:varchar(100);not null"                     json:"contact_person"`
	ContactInfo    string    `gorm:"type:varchar(100);not null"                     json:"contact_info"`
	AttachmentURL  string    `gorm:"type:varchar(500)"                              json:"attachment_url,omitempty"`
	Status         string    `gorm:"type:varchar(20);not null;default:'pending'"    json:"status"`
	AssignedHeadID *string   `gorm:"type:uuid"                                      json:"assigned_head_id,omitempty"`
	VersionedModel

	// 关联
	Owner        *User         `gorm:"foreignKey:OwnerID;references:UserID"        json:"owner,omitempty"`
	AssignedHead *User         `gorm:"foreignKey:AssignedHeadID;references:UserID" json:"assigned_head,omitempty"`
	AuditRecord  *AuditRecord  `gorm:"foreignKey:RequestID;references:RequestID"   json:"audit_record,omitempty"`
	DenialReason *DenialReason `gorm:"foreignKey:RequestID;references:RequestID"   json:"denial_reason,omitempty"`
	Assignment   *AssignmentRecord `gorm:"foreignKey:RequestID;references:RequestID" json:"assignment,omitempty"`
	Invitations  []StaffInvitation `gorm:"foreignKey:RequestID;references:RequestID" json:"invitations,omitempty"`
}

// TableName 指定表名
func (EventRequest) TableName() string { return "event_requests" }
