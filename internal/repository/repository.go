package repository

import (
	"context"

	"gorm.io/gorm"
)

// Transactor 事务边界抽象
// 多表写入（审批 + 审批记录、分派记录 + 状态推进）必须经由 Transaction
// 在单个数据库事务内完成；单元测试注入直通实现
type Transactor interface {
	Transaction(ctx context.Context, fn func(*Repository) error) error
}

// Repository 所有 Repository 的聚合入口
type Repository struct {
	User         UserRepository
	Request      EventRequestRepository
	Audit        AuditRecordRepository
	Denial       DenialReasonRepository
	Assignment   AssignmentRecordRepository
	Invitation   StaffInvitationRepository
	Acceptance   AcceptanceRecordRepository
	AdminEvent   AdminEventRepository
	Availability AvailabilityRepository

	Tx Transactor
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		User:         NewUserRepo(db),
		Request:      NewEventRequestRepo(db),
		Audit:        NewAuditRecordRepo(db),
		Denial:       NewDenialReasonRepo(db),
		Assignment:   NewAssignmentRecordRepo(db),
		Invitation:   NewStaffInvitationRepo(db),
		Acceptance:   NewAcceptanceRecordRepo(db),
		AdminEvent:   NewAdminEventRepo(db),
		Availability: NewAvailabilityRepo(db),
		Tx:           &gormTransactor{db: db},
	}
}

type gormTransactor struct {
	db *gorm.DB
}

// Transaction 执行 fn，fn 返回错误或 panic 时整体回滚
func (t *gormTransactor) Transaction(ctx context.Context, fn func(*Repository) error) error {
	return t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepository(tx))
	})
}
