package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/AzuraDhar/goldPanicles-sub000/internal/model"
)

// AcceptanceRecordRepository 组长接单记录数据访问接口
// 只追加；(request_id, head_id) 唯一约束保证每个组长每单只记一次
type AcceptanceRecordRepository interface {
	Create(ctx context.Context, record *model.AcceptanceRecord) error
	GetByRequestAndHead(ctx context.Context, requestID, headID string) (*model.AcceptanceRecord, error)
	ListByHead(ctx context.Context, headID string) ([]model.AcceptanceRecord, error)
}

type acceptanceRecordRepo struct {
	db *gorm.DB
}

// NewAcceptanceRecordRepo 创建 AcceptanceRecordRepository 实例
func NewAcceptanceRecordRepo(db *gorm.DB) AcceptanceRecordRepository {
	return &acceptanceRecordRepo{db: db}
}

func (r *acceptanceRecordRepo) Create(ctx context.Context, record *model.AcceptanceRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *acceptanceRecordRepo) GetByRequestAndHead(ctx context.Context, requestID, headID string) (*model.AcceptanceRecord, error) {
	var record model.AcceptanceRecord
	err := r.db.WithContext(ctx).
		Where("request_id = ? AND head_id = ?", requestID, headID).
		First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *acceptanceRecordRepo) ListByHead(ctx context.Context, headID string) ([]model.AcceptanceRecord, error) {
	var records []model.AcceptanceRecord
	err := r.db.WithContext(ctx).
		Where("head_id = ?", headID).
		Order("created_at DESC").
		Find(&records).Error
	return records, err
}
