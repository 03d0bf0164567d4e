package model

import "time"

// AdminEvent 管理员日历占用 — 对应 admin_events
// 管理员在日历上创建的占用块，申请方提交申请时可见
type AdminEvent struct {
	EventID     string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"event_id"`
	Title       string    `gorm:"type:varchar(200);not null"                     json:"title"`
	Description string    `gorm:"type:text"                                      json:"description,omitempty"`
	EventDate   time.Time `gorm:"type:date;not null"                             json:"event_date"`
	TimeFrom    string    `gorm:"type:time"                                      json:"time_from,omitempty"`
	TimeTo      string    `gorm:"type:time"                                      json:"time_to,omitempty"`
	SoftDeleteModel
}

// TableName 指定表名
func (AdminEvent) TableName() string { return "admin_events" }
