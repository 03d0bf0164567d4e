package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/AzuraDhar/goldPanicles-sub000/internal/model"
)

// AvailabilityRepository 空闲时间表数据访问接口
// 每人每天一行；UpsertDay 以 (user_id, day_of_week) 为冲突键整行覆盖，后写覆盖先写
type AvailabilityRepository interface {
	ListByUser(ctx context.Context, userID string) ([]model.AvailabilitySchedule, error)
	GetDay(ctx context.Context, userID string, dayOfWeek int) (*model.AvailabilitySchedule, error)
	UpsertDay(ctx context.Context, sched *model.AvailabilitySchedule) error
}

type availabilityRepo struct {
	db *gorm.DB
}

// NewAvailabilityRepo 创建 AvailabilityRepository 实例
func NewAvailabilityRepo(db *gorm.DB) AvailabilityRepository {
	return &availabilityRepo{db: db}
}

func (r *availabilityRepo) ListByUser(ctx context.Context, userID string) ([]model.AvailabilitySchedule, error) {
	var schedules []model.AvailabilitySchedule
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("day_of_week ASC").
		Find(&schedules).Error
	return schedules, err
}

func (r *availabilityRepo) GetDay(ctx context.Context, userID string, dayOfWeek int) (*model.AvailabilitySchedule, error) {
	var sched model.AvailabilitySchedule
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND day_of_week = ?", userID, dayOfWeek).
		First(&sched).Error
	if err != nil {
		return nil, err
	}
	return &sched, nil
}

func (r *availabilityRepo) UpsertDay(ctx context.Context, sched *model.AvailabilitySchedule) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "day_of_week"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"slots":      sched.Slots,
				"updated_at": gorm.Expr("NOW()"),
			}),
		}).
		Create(sched).Error
}
