package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/AzuraDhar/goldPanicles-sub000/internal/model"
	pkgerrors "github.com/AzuraDhar/goldPanicles-sub000/pkg/errors"
)

// EventRequestRepository 活动申请数据访问接口
type EventRequestRepository interface {
	Create(ctx context.Context, req *model.EventRequest) error
	GetByID(ctx context.Context, id string) (*model.EventRequest, error)
	GetDetail(ctx context.Context, id string) (*model.EventRequest, error)
	ListByOwner(ctx context.Context, ownerID string, offset, limit int) ([]model.EventRequest, int64, error)
	ListByStatus(ctx context.Context, status string, offset, limit int) ([]model.EventRequest, int64, error)
	ListAssignedToHead(ctx context.Context, headID string) ([]model.EventRequest, error)
	ListByStatuses(ctx context.Context, statuses []string) ([]model.EventRequest, error)
	CountByStatus(ctx context.Context) (map[string]int64, error)
	Update(ctx context.Context, req *model.EventRequest) error
	UpdateStatusCAS(ctx context.Context, id, fromStatus, toStatus string, actorID string, headID *string) (bool, error)
	Delete(ctx context.Context, id string, deletedBy string) error
}

// eventRequestRepo EventRequestRepository 的 GORM 实现
type eventRequestRepo struct {
	db *gorm.DB
}

// NewEventRequestRepo 创建 EventRequestRepository 实例
func NewEventRequestRepo(db *gorm.DB) EventRequestRepository {
	return &eventRequestRepo{db: db}
}

func (r *eventRequestRepo) Create(ctx context.Context, req *model.EventRequest) error {
	return r.db.WithContext(ctx).Create(req).Error
}

func (r *eventRequestRepo) GetByID(ctx context.Context, id string) (*model.EventRequest, error) {
	var req model.EventRequest
	err := r.db.WithContext(ctx).
		Where("request_id = ?", id).
		First(&req).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

// GetDetail 申请详情投影：一次查询带出审批记录、拒绝原因、分派与邀请
func (r *eventRequestRepo) GetDetail(ctx context.Context, id string) (*model.EventRequest, error) {
	var req model.EventRequest
	err := r.db.WithContext(ctx).
		Preload("AuditRecord").
		Preload("AuditRecord.Actor").
		Preload("DenialReason").
		Preload("Assignment").
		Preload("Assignment.Head").
		Preload("Invitations").
		Preload("Invitations.Staff").
		Where("request_id = ?", id).
		First(&req).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *eventRequestRepo) ListByOwner(ctx context.Context, ownerID string, offset, limit int) ([]model.EventRequest, int64, error) {
	return r.list(ctx, r.db.WithContext(ctx).Model(&model.EventRequest{}).Where("owner_id = ?", ownerID), offset, limit)
}

func (r *eventRequestRepo) ListByStatus(ctx context.Context, status string, offset, limit int) ([]model.EventRequest, int64, error) {
	db := r.db.WithContext(ctx).Model(&model.EventRequest{})
	if status != "" {
		db = db.Where("status = ?", status)
	}
	return r.list(ctx, db, offset, limit)
}

func (r *eventRequestRepo) list(_ context.Context, db *gorm.DB, offset, limit int) ([]model.EventRequest, int64, error) {
	var reqs []model.EventRequest
	var total int64

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Offset(offset).Limit(limit).
		Order("created_at DESC").
		Find(&reqs).Error; err != nil {
		return nil, 0, err
	}

	return reqs, total, nil
}

func (r *eventRequestRepo) ListAssignedToHead(ctx context.Context, headID string) ([]model.EventRequest, error) {
	var reqs []model.EventRequest
	err := r.db.WithContext(ctx).
		Where("assigned_head_id = ? AND status = ?", headID, model.RequestStatusAssigned).
		Order("event_date ASC").
		Find(&reqs).Error
	return reqs, err
}

func (r *eventRequestRepo) ListByStatuses(ctx context.Context, statuses []string) ([]model.EventRequest, error) {
	var reqs []model.EventRequest
	err := r.db.WithContext(ctx).
		Where("status IN ?", statuses).
		Order("event_date ASC").
		Find(&reqs).Error
	return reqs, err
}

func (r *eventRequestRepo) CountByStatus(ctx context.Context) (map[string]int64, error) {
	type row struct {
		Status string
		Count  int64
	}
	var rows []row
	err := r.db.WithContext(ctx).
		Model(&model.EventRequest{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, rw := range rows {
		counts[rw.Status] = rw.Count
	}
	return counts, nil
}

// Update 乐观锁更新（version 比对），冲突时返回 ErrOptimisticLock
func (r *eventRequestRepo) Update(ctx context.Context, req *model.EventRequest) error {
	oldVersion := req.Version
	result := r.db.WithContext(ctx).
		Model(req).
		Where("request_id = ? AND version = ?", req.RequestID, oldVersion).
		Updates(map[string]interface{}{
			"event_title":    req.EventTitle,
			"description":    req.Description,
			"event_date":     req.EventDate,
			"time_from":      req.TimeFrom,
			"time_to":        req.TimeTo,
			"location":       req.Location,
			"contact_person": req.ContactPerson,
			"contact_info":   req.ContactInfo,
			"attachment_url": req.AttachmentURL,
			"updated_by":     req.UpdatedBy,
			"version":        oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	req.Version = oldVersion + 1
	return nil
}

// UpdateStatusCAS 状态的比较并交换：仅当当前状态为 fromStatus 时推进到 toStatus。
// 返回 false 表示前置状态不满足（已被并发操作抢先），调用方据此判定非法流转。
func (r *eventRequestRepo) UpdateStatusCAS(ctx context.Context, id, fromStatus, toStatus string, actorID string, headID *string) (bool, error) {
	updates := map[string]interface{}{
		"status":     toStatus,
		"updated_by": actorID,
		"version":    gorm.Expr("version + 1"),
	}
	if headID != nil {
		updates["assigned_head_id"] = *headID
	}

	result := r.db.WithContext(ctx).
		Model(&model.EventRequest{}).
		Where("request_id = ? AND status = ?", id, fromStatus).
		Updates(updates)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *eventRequestRepo) Delete(ctx context.Context, id string, deletedBy string) error {
	return r.db.WithContext(ctx).
		Model(&model.EventRequest{}).
		Where("request_id = ?", id).
		Updates(map[string]interface{}{
			"deleted_by": deletedBy,
			"deleted_at": gorm.Expr("NOW()"),
		}).Error
}
