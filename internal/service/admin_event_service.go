package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/AzuraDhar/goldPanicles-sub000/internal/dto"
	"github.com/AzuraDhar/goldPanicles-sub000/internal/model"
	"github.com/AzuraDhar/goldPanicles-sub000/internal/repository"
)

// ── 管理员日历模块业务错误 ──

var (
	ErrEventNotFound    = errors.New("日历占用不存在")
	ErrEventDateInvalid = errors.New("日历占用日期或时间无效")
)

// AdminEventService 管理员日历占用业务接口
// 占用块对所有登录用户可见，申请方提交前可据此避开冲突日期
type AdminEventService interface {
	Create(ctx context.Context, adminID string, req *dto.CreateAdminEventRequest) (*dto.AdminEventResponse, error)
	ListByDateRange(ctx context.Context, from, to string) ([]dto.AdminEventResponse, error)
	Delete(ctx context.Context, eventID, adminID string) error
}

type adminEventService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewAdminEventService 创建 AdminEventService 实例
func NewAdminEventService(repo *repository.Repository, logger *zap.Logger) AdminEventService {
	return &adminEventService{repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *adminEventService) Create(ctx context.Context, adminID string, req *dto.CreateAdminEventRequest) (*dto.AdminEventResponse, error) {
	eventDate, err := time.Parse("2006-01-02", req.EventDate)
	if err != nil {
		return nil, ErrEventDateInvalid
	}
	if req.TimeFrom != "" || req.TimeTo != "" {
		if err := validateTimeRange(req.TimeFrom, req.TimeTo); err != nil {
			return nil, ErrEventDateInvalid
		}
	}

	event := &model.AdminEvent{
		Title:       req.Title,
		Description: req.Description,
		EventDate:   eventDate,
		TimeFrom:    req.TimeFrom,
		TimeTo:      req.TimeTo,
	}
	event.CreatedBy = &adminID
	event.UpdatedBy = &adminID

	if err := s.repo.AdminEvent.Create(ctx, event); err != nil {
		s.logger.Error("创建日历占用失败", zap.Error(err))
		return nil, err
	}

	return toAdminEventResponse(event), nil
}

// ────────────────────── ListByDateRange ──────────────────────

func (s *adminEventService) ListByDateRange(ctx context.Context, from, to string) ([]dto.AdminEventResponse, error) {
	fromDate, err := time.Parse("2006-01-02", from)
	if err != nil {
		return nil, ErrEventDateInvalid
	}
	toDate, err := time.Parse("2006-01-02", to)
	if err != nil || toDate.Before(fromDate) {
		return nil, ErrEventDateInvalid
	}

	events, err := s.repo.AdminEvent.ListByDateRange(ctx, fromDate, toDate)
	if err != nil {
		s.logger.Error("查询日历占用失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.AdminEventResponse, 0, len(events))
	for i := range events {
		result = append(result, *toAdminEventResponse(&events[i]))
	}
	return result, nil
}

// ────────────────────── Delete ──────────────────────

func (s *adminEventService) Delete(ctx context.Context, eventID, adminID string) error {
	if _, err := s.repo.AdminEvent.GetByID(ctx, eventID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEventNotFound
		}
		s.logger.Error("查询日历占用失败", zap.String("id", eventID), zap.Error(err))
		return err
	}

	if err := s.repo.AdminEvent.Delete(ctx, eventID, adminID); err != nil {
		s.logger.Error("删除日历占用失败", zap.String("id", eventID), zap.Error(err))
		return err
	}
	return nil
}

func toAdminEventResponse(event *model.AdminEvent) *dto.AdminEventResponse {
	return &dto.AdminEventResponse{
		ID:          event.EventID,
		Title:       event.Title,
		Description: event.Description,
		EventDate:   event.EventDate.Format("2006-01-02"),
		TimeFrom:    normalizeTime(event.TimeFrom),
		TimeTo:      normalizeTime(event.TimeTo),
		CreatedAt:   event.CreatedAt.Format(time.RFC3339),
	}
}
