package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/AzuraDhar/goldPanicles-sub000/internal/model"
)

// AssignmentRecordRepository 任务分派记录数据访问接口
// 插入依赖 request_id 唯一约束拦截并发重复分派（gorm.ErrDuplicatedKey）
type AssignmentRecordRepository interface {
	Create(ctx context.Context, record *model.AssignmentRecord) error
	GetByRequest(ctx context.Context, requestID string) (*model.AssignmentRecord, error)
	ListByHead(ctx context.Context, headID string) ([]model.AssignmentRecord, error)
}

type assignmentRecordRepo struct {
	db *gorm.DB
}

// NewAssignmentRecordRepo 创建 AssignmentRecordRepository 实例
func NewAssignmentRecordRepo(db *gorm.DB) AssignmentRecordRepository {
	return &assignmentRecordRepo{db: db}
}

func (r *assignmentRecordRepo) Create(ctx context.Context, record *model.AssignmentRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *assignmentRecordRepo) GetByRequest(ctx context.Context, requestID string) (*model.AssignmentRecord, error) {
	var record model.AssignmentRecord
	err := r.db.WithContext(ctx).
		Preload("Head").
		Where("request_id = ?", requestID).
		First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *assignmentRecordRepo) ListByHead(ctx context.Context, headID string) ([]model.AssignmentRecord, error) {
	var records []model.AssignmentRecord
	err := r.db.WithContext(ctx).
		Preload("Request").
		Where("head_id = ?", headID).
		Order("created_at DESC").
		Find(&records).Error
	return records, err
}
