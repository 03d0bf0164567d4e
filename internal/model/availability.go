package model

import "time"

// SlotsPerDay 每天的半小时格数（07:00–19:30）
const SlotsPerDay = 25

// DaysPerWeek 每周天数（1=周一 … 7=周日）
const DaysPerWeek = 7

// AvailabilitySchedule 每周空闲时间表 — 对应 availability_schedules
// 每人每天一行，slots 固定 25 格；整行覆盖写入，后写覆盖先写
type AvailabilitySchedule struct {
	ScheduleID string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"schedule_id"`
	UserID     string    `gorm:"type:uuid;not null;uniqueIndex:uq_availability_user_day,priority:1" json:"user_id"`
	DayOfWeek  int       `gorm:"type:smallint;not null;uniqueIndex:uq_availability_user_day,priority:2" json:"day_of_week"` // 1-7
	Slots      TextArray `gorm:"type:text[];not null"                           json:"slots"`
	CreatedAt  time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
	UpdatedAt  time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"updated_at"`
}

// TableName 指定表名
func (AvailabilitySchedule) TableName() string { return "availability_schedules" }
