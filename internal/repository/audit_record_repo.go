package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/AzuraDhar/goldPanicles-sub000/internal/model"
)

// AuditRecordRepository 审批记录数据访问接口
// 只追加；request_id 上的唯一约束保证每个申请至多一条最终决定
type AuditRecordRepository interface {
	Create(ctx context.Context, record *model.AuditRecord) error
	GetByRequest(ctx context.Context, requestID string) (*model.AuditRecord, error)
	ListByActor(ctx context.Context, actorID string, offset, limit int) ([]model.AuditRecord, int64, error)
}

type auditRecordRepo struct {
	db *gorm.DB
}

// NewAuditRecordRepo 创建 AuditRecordRepository 实例
func NewAuditRecordRepo(db *gorm.DB) AuditRecordRepository {
	return &auditRecordRepo{db: db}
}

func (r *auditRecordRepo) Create(ctx context.Context, record *model.AuditRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *auditRecordRepo) GetByRequest(ctx context.Context, requestID string) (*model.AuditRecord, error) {
	var record model.AuditRecord
	err := r.db.WithContext(ctx).
		Preload("Actor").
		Where("request_id = ?", requestID).
		First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *auditRecordRepo) ListByActor(ctx context.Context, actorID string, offset, limit int) ([]model.AuditRecord, int64, error) {
	var records []model.AuditRecord
	var total int64

	db := r.db.WithContext(ctx).Model(&model.AuditRecord{}).Where("actor_id = ?", actorID)

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Offset(offset).Limit(limit).
		Order("created_at DESC").
		Find(&records).Error; err != nil {
		return nil, 0, err
	}

	return records, total, nil
}

// ── DenialReason Repository ──

// DenialReasonRepository 拒绝原因数据访问接口
type DenialReasonRepository interface {
	Create(ctx context.Context, reason *model.DenialReason) error
	GetByRequest(ctx context.Context, requestID string) (*model.DenialReason, error)
}

type denialReasonRepo struct {
	db *gorm.DB
}

// NewDenialReasonRepo 创建 DenialReasonRepository 实例
func NewDenialReasonRepo(db *gorm.DB) DenialReasonRepository {
	return &denialReasonRepo{db: db}
}

func (r *denialReasonRepo) Create(ctx context.Context, reason *model.DenialReason) error {
	return r.db.WithContext(ctx).Create(reason).Error
}

func (r *denialReasonRepo) GetByRequest(ctx context.Context, requestID string) (*model.DenialReason, error) {
	var reason model.DenialReason
	err := r.db.WithContext(ctx).
		Where("request_id = ?", requestID).
		First(&reason).Error
	if err != nil {
		return nil, err
	}
	return &reason, nil
}
