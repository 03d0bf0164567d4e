package model

import "time"

// ── 邀请状态机 ──
// pending → {accepted, rejected}（部员应答，终态）
// pending | accepted → cancelled（组长撤销）

const (
	InvitationStatusPending   = "pending"
	InvitationStatusAccepted  = "accepted"
	InvitationStatusRejected  = "rejected"
	InvitationStatusCancelled = "cancelled"
)

// StaffInvitation 部员邀请 — 对应 staff_invitations
// 同一申请可向多名部员发出邀请，各自独立流转；
// (request_id, staff_id) 唯一约束挡住重复邀请
type StaffInvitation struct {
	InvitationID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"invitation_id"`
	RequestID    string `gorm:"type:uuid;not null;uniqueIndex:uq_staff_invitations_request_staff,priority:1" json:"request_id"`
	StaffID      string `gorm:"type:uuid;not null;uniqueIndex:uq_staff_invitations_request_staff,priority:2" json:"staff_id"`
	Status       string `gorm:"type:varchar(20);not null;default:'pending'"    json:"status"`
	BaseModel
	Version int `gorm:"not null;default:1" json:"version"`

	// 关联
	Staff   *User         `gorm:"foreignKey:StaffID;references:UserID"      json:"staff,omitempty"`
	Request *EventRequest `gorm:"foreignKey:RequestID;references:RequestID" json:"request,omitempty"`
}

// TableName 指定表名
func (StaffInvitation) TableName() string { return "staff_invitations" }

// AcceptanceRecord 组长接单记录 — 对应 acceptance_records
// 组长对分派到自己名下任务的接受/拒绝，独立于其向部员发出的邀请；
// 每个 (request, head) 只追加一条
type AcceptanceRecord struct {
	RecordID  string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"record_id"`
	RequestID string    `gorm:"type:uuid;not null;uniqueIndex:uq_acceptance_records_request_head,priority:1" json:"request_id"`
	HeadID    string    `gorm:"type:uuid;not null;uniqueIndex:uq_acceptance_records_request_head,priority:2" json:"head_id"`
	Decision  string    `gorm:"type:varchar(20);not null"          json:"decision"` // pending | declined
	EventDate time.Time `gorm:"type:date;not null"                 json:"event_date"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName 指定表名
func (AcceptanceRecord) TableName() string { return "acceptance_records" }

// ── 接单决定 ──

const (
	HeadDecisionPending  = "pending" // 接受并待执行
	HeadDecisionDeclined = "declined"
)
