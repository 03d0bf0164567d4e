package model

import "time"

// ── 审批动作 ──

const (
	AuditActionApproved = "approved"
	AuditActionDenied   = "denied"
)

// AuditRecord 管理员审批记录 — 对应 audit_records
// 只追加；每个申请至多一条（决定一经记录即为最终），由数据库唯一约束保证
type AuditRecord struct {
	RecordID  string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"record_id"`
	RequestID string    `gorm:"type:uuid;not null;uniqueIndex:uq_audit_records_request" json:"request_id"`
	ActorID   string    `gorm:"type:uuid;not null"                             json:"actor_id"`
	ActorRole string    `gorm:"type:varchar(20);not null"                      json:"actor_role"`
	Action    string    `gorm:"type:varchar(20);not null"                      json:"action"` // approved | denied
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`

	// 关联
	Actor *User `gorm:"foreignKey:ActorID;references:UserID" json:"actor,omitempty"`
}

// TableName 指定表名
func (AuditRecord) TableName() string { return "audit_records" }

// DenialReason 拒绝原因 — 对应 denial_reasons
// 与审批记录分开存放的自由文本，按申请 ID 唯一
type DenialReason struct {
	DenialID  string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"denial_id"`
	RequestID string    `gorm:"type:uuid;not null;uniqueIndex:uq_denial_reasons_request" json:"request_id"`
	Reason    string    `gorm:"type:text;not null"                             json:"reason"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
}

// TableName 指定表名
func (DenialReason) TableName() string { return "denial_reasons" }
