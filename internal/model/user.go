package model

// ── 角色常量 ──

const (
	RoleClient      = "client"       // 申请方
	RoleAdmin       = "admin"        // 管理员
	RoleSectionHead = "section_head" // 组长
	RoleStaff       = "staff"        // 部员
)

// ValidRole 校验角色取值
func ValidRole(role string) bool {
	switch role {
	case RoleClient, RoleAdmin, RoleSectionHead, RoleStaff:
		return true
	}
	return false
}

// User 用户表 — 对应 users
type User struct {
	UserID       string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"user_id"`
	Name         string `gorm:"type:varchar(100);not null"                     json:"name"`
	Email        string `gorm:"type:varchar(255);not null"                     json:"email"`
	PasswordHash string `gorm:"type:varchar(255);not null"                     json:"-"`
	Role         string `gorm:"type:varchar(20);not null;default:'client'"     json:"role"`
	Position     string `gorm:"type:varchar(50)"                               json:"position,omitempty"` // 仅部员/组长
	Segment      string `gorm:"type:varchar(50)"                               json:"segment,omitempty"`  // 所属分组
	VersionedModel
}

// TableName 指定表名
func (User) TableName() string { return "users" }
