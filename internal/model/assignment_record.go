package model

import "time"

// AssignmentRecord 任务分派记录 — 对应 assignment_records
// 管理员将已批准申请分派给组长时写入；request_id 上的唯一约束
// 使并发重复分派在数据库层被拒绝，而不是依赖先查后写
type AssignmentRecord struct {
	AssignmentID string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"assignment_id"`
	RequestID    string    `gorm:"type:uuid;not null;uniqueIndex:uq_assignment_records_request" json:"request_id"`
	AssignedBy   string    `gorm:"type:uuid;not null"                             json:"assigned_by"`
	HeadID       string    `gorm:"type:uuid;not null"                             json:"head_id"`
	CreatedAt    time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`

	// 关联
	Head    *User         `gorm:"foreignKey:HeadID;references:UserID"       json:"head,omitempty"`
	Request *EventRequest `gorm:"foreignKey:RequestID;references:RequestID" json:"request,omitempty"`
}

// TableName 指定表名
func (AssignmentRecord) TableName() string { return "assignment_records" }
