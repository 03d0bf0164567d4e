package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/AzuraDhar/goldPanicles-sub000/internal/model"
)

// PositionCount 按职位统计的已接受邀请数（读侧聚合）
type PositionCount struct {
	Position string
	Count    int64
}

// StaffInvitationRepository 部员邀请数据访问接口
type StaffInvitationRepository interface {
	Create(ctx context.Context, inv *model.StaffInvitation) error
	GetByID(ctx context.Context, id string) (*model.StaffInvitation, error)
	ListByRequest(ctx context.Context, requestID string) ([]model.StaffInvitation, error)
	ListByStaff(ctx context.Context, staffID string) ([]model.StaffInvitation, error)
	UpdateStatusCAS(ctx context.Context, id string, fromStatuses []string, toStatus, actorID string) (bool, error)
	CountAcceptedByPosition(ctx context.Context, requestID string) ([]PositionCount, error)
}

type staffInvitationRepo struct {
	db *gorm.DB
}

// NewStaffInvitationRepo 创建 StaffInvitationRepository 实例
func NewStaffInvitationRepo(db *gorm.DB) StaffInvitationRepository {
	return &staffInvitationRepo{db: db}
}

func (r *staffInvitationRepo) Create(ctx context.Context, inv *model.StaffInvitation) error {
	return r.db.WithContext(ctx).Create(inv).Error
}

func (r *staffInvitationRepo) GetByID(ctx context.Context, id string) (*model.StaffInvitation, error) {
	var inv model.StaffInvitation
	err := r.db.WithContext(ctx).
		Preload("Staff").
		Where("invitation_id = ?", id).
		First(&inv).Error
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *staffInvitationRepo) ListByRequest(ctx context.Context, requestID string) ([]model.StaffInvitation, error) {
	var invs []model.StaffInvitation
	err := r.db.WithContext(ctx).
		Preload("Staff").
		Where("request_id = ?", requestID).
		Order("created_at ASC").
		Find(&invs).Error
	return invs, err
}

func (r *staffInvitationRepo) ListByStaff(ctx context.Context, staffID string) ([]model.StaffInvitation, error) {
	var invs []model.StaffInvitation
	err := r.db.WithContext(ctx).
		Preload("Request").
		Where("staff_id = ?", staffID).
		Order("created_at DESC").
		Find(&invs).Error
	return invs, err
}

// UpdateStatusCAS 邀请状态的比较并交换：仅当当前状态在 fromStatuses 中时更新。
// 并发的两次应答只有一次能生效，另一次返回 false。
func (r *staffInvitationRepo) UpdateStatusCAS(ctx context.Context, id string, fromStatuses []string, toStatus, actorID string) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&model.StaffInvitation{}).
		Where("invitation_id = ? AND status IN ?", id, fromStatuses).
		Updates(map[string]interface{}{
			"status":     toStatus,
			"updated_by": actorID,
			"version":    gorm.Expr("version + 1"),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *staffInvitationRepo) CountAcceptedByPosition(ctx context.Context, requestID string) ([]PositionCount, error) {
	var rows []PositionCount
	err := r.db.WithContext(ctx).
		Model(&model.StaffInvitation{}).
		Select("users.position AS position, COUNT(*) AS count").
		Joins("JOIN users ON users.user_id = staff_invitations.staff_id").
		Where("staff_invitations.request_id = ? AND staff_invitations.status = ?", requestID, model.InvitationStatusAccepted).
		Group("users.position").
		Scan(&rows).Error
	return rows, err
}
