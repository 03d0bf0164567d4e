package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/AzuraDhar/goldPanicles-sub000/internal/model"
)

// AdminEventRepository 管理员日历占用数据访问接口
type AdminEventRepository interface {
	Create(ctx context.Context, event *model.AdminEvent) error
	GetByID(ctx context.Context, id string) (*model.AdminEvent, error)
	ListByDateRange(ctx context.Context, from, to time.Time) ([]model.AdminEvent, error)
	Delete(ctx context.Context, id string, deletedBy string) error
}

type adminEventRepo struct {
	db *gorm.DB
}

// NewAdminEventRepo 创建 AdminEventRepository 实例
func NewAdminEventRepo(db *gorm.DB) AdminEventRepository {
	return &adminEventRepo{db: db}
}

func (r *adminEventRepo) Create(ctx context.Context, event *model.AdminEvent) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *adminEventRepo) GetByID(ctx context.Context, id string) (*model.AdminEvent, error) {
	var event model.AdminEvent
	err := r.db.WithContext(ctx).
		Where("event_id = ?", id).
		First(&event).Error
	if err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *adminEventRepo) ListByDateRange(ctx context.Context, from, to time.Time) ([]model.AdminEvent, error) {
	var events []model.AdminEvent
	err := r.db.WithContext(ctx).
		Where("event_date BETWEEN ? AND ?", from, to).
		Order("event_date ASC, time_from ASC").
		Find(&events).Error
	return events, err
}

func (r *adminEventRepo) Delete(ctx context.Context, id string, deletedBy string) error {
	return r.db.WithContext(ctx).
		Model(&model.AdminEvent{}).
		Where("event_id = ?", id).
		Updates(map[string]interface{}{
			"deleted_by": deletedBy,
			"deleted_at": gorm.Expr("NOW()"),
		}).Error
}
