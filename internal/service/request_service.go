package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/AzuraDhar/goldPanicles-sub000/internal/dto"
	"github.com/AzuraDhar/goldPanicles-sub000/internal/model"
	"github.com/AzuraDhar/goldPanicles-sub000/internal/repository"
)

// ── 活动申请模块业务错误 ──

var (
	ErrRequestNotFound      = errors.New("申请不存在")
	ErrRequestFieldMissing  = errors.New("申请必填字段不能为空")
	ErrRequestDateInvalid   = errors.New("申请日期或时间无效")
	ErrNotRequestOwner      = errors.New("只有申请人本人可以操作该申请")
	ErrInvalidTransition    = errors.New("当前状态不允许该操作")
	ErrRequestHasAssignment = errors.New("申请已被分派，无法删除")
	ErrRequestNotViewable   = errors.New("无权查看该申请")
)

// RequestService 活动申请生命周期业务接口
//
// 状态机: pending → {approved, denied}; approved → assigned
// denied 与 assigned 为终态（assigned 之后由分派子系统接管）。
// approve/deny 在单个事务内完成状态 CAS 与审批记录写入，
// 重复审批返回 ErrInvalidTransition，绝不产生重复审批记录。
type RequestService interface {
	Submit(ctx context.Context, req *dto.SubmitRequestRequest, ownerID string) (*dto.RequestResponse, error)
	GetByID(ctx context.Context, id string, callerID, callerRole string) (*dto.RequestResponse, error)
	GetDetail(ctx context.Context, id string, callerID, callerRole string) (*dto.RequestDetailResponse, error)
	ListMine(ctx context.Context, ownerID string, page, pageSize int) ([]dto.RequestResponse, int64, error)
	ListAll(ctx context.Context, status string, page, pageSize int) ([]dto.RequestResponse, int64, error)
	Counts(ctx context.Context) (*dto.RequestCountsResponse, error)
	Approve(ctx context.Context, id string, actorID, actorRole string) (*dto.RequestResponse, error)
	Deny(ctx context.Context, id string, actorID, actorRole, reason string) (*dto.RequestResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateRequestRequest, callerID string) (*dto.RequestResponse, error)
	Delete(ctx context.Context, id string, callerID string) error
}

type requestService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewRequestService 创建 RequestService 实例
func NewRequestService(repo *repository.Repository, logger *zap.Logger) RequestService {
	return &requestService{repo: repo, logger: logger}
}

// ────────────────────── Submit ──────────────────────

func (s *requestService) Submit(ctx context.Context, req *dto.SubmitRequestRequest, ownerID string) (*dto.RequestResponse, error) {
	// 必填字段校验：任何写入前先全部拒绝
	required := []string{
		req.EventTitle, req.Description, req.EventDate, req.TimeFrom,
		req.TimeTo, req.Location, req.ContactPerson, req.ContactInfo,
	}
	for _, f := range required {
		if strings.TrimSpace(f) == "" {
			return nil, ErrRequestFieldMissing
		}
	}

	eventDate, err := time.Parse("2006-01-02", req.EventDate)
	if err != nil {
		return nil, ErrRequestDateInvalid
	}
	if err := validateTimeRange(req.TimeFrom, req.TimeTo); err != nil {
		return nil, err
	}

	request := &model.EventRequest{
		OwnerID:       ownerID,
		EventTitle:    req.EventTitle,
		Description:   req.Description,
		EventDate:     eventDate,
		TimeFrom:      req.TimeFrom,
		TimeTo:        req.TimeTo,
		Location:      req.Location,
		ContactPerson: req.ContactPerson,
		ContactInfo:   req.ContactInfo,
		AttachmentURL: req.AttachmentURL,
		Status:        model.RequestStatusPending,
	}
	request.CreatedBy = &ownerID
	request.UpdatedBy = &ownerID

	if err := s.repo.Request.Create(ctx, request); err != nil {
		s.logger.Error("创建申请失败", zap.Error(err))
		return nil, err
	}

	return toRequestResponse(request), nil
}

// ────────────────────── GetByID / GetDetail ──────────────────────

func (s *requestService) GetByID(ctx context.Context, id string, callerID, callerRole string) (*dto.RequestResponse, error) {
	request, err := s.loadRequest(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canView(request, callerID, callerRole) {
		return nil, ErrRequestNotViewable
	}
	return toRequestResponse(request), nil
}

func (s *requestService) GetDetail(ctx context.Context, id string, callerID, callerRole string) (*dto.RequestDetailResponse, error) {
	request, err := s.repo.Request.GetDetail(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRequestNotFound
		}
		s.logger.Error("查询申请详情失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	if !canView(request, callerID, callerRole) {
		return nil, ErrRequestNotViewable
	}

	detail := &dto.RequestDetailResponse{RequestResponse: *toRequestResponse(request)}

	if request.AuditRecord != nil {
		if request.AuditRecord.Actor != nil {
			detail.DecidedBy = toUserResponse(request.AuditRecord.Actor)
		}
		detail.DecidedAt = request.AuditRecord.CreatedAt.Format(time.RFC3339)
	}
	if request.DenialReason != nil {
		detail.DenialReason = request.DenialReason.Reason
	}
	if request.Assignment != nil {
		detail.Assignment = toAssignmentResponse(request.Assignment)
	}
	for i := range request.Invitations {
		detail.Invitations = append(detail.Invitations, *toInvitationResponse(&request.Invitations[i]))
	}

	return detail, nil
}

// ────────────────────── List / Counts ──────────────────────

func (s *requestService) ListMine(ctx context.Context, ownerID string, page, pageSize int) ([]dto.RequestResponse, int64, error) {
	requests, total, err := s.repo.Request.ListByOwner(ctx, ownerID, (page-1)*pageSize, pageSize)
	if err != nil {
		s.logger.Error("列出本人申请失败", zap.Error(err))
		return nil, 0, err
	}
	return toRequestResponses(requests), total, nil
}

func (s *requestService) ListAll(ctx context.Context, status string, page, pageSize int) ([]dto.RequestResponse, int64, error) {
	if status != "" && !model.ValidRequestStatus(status) {
		return nil, 0, ErrInvalidTransition
	}
	requests, total, err := s.repo.Request.ListByStatus(ctx, status, (page-1)*pageSize, pageSize)
	if err != nil {
		s.logger.Error("列出申请失败", zap.Error(err))
		return nil, 0, err
	}
	return toRequestResponses(requests), total, nil
}

func (s *requestService) Counts(ctx context.Context) (*dto.RequestCountsResponse, error) {
	counts, err := s.repo.Request.CountByStatus(ctx)
	if err != nil {
		s.logger.Error("统计申请状态失败", zap.Error(err))
		return nil, err
	}
	return &dto.RequestCountsResponse{
		Pending:  counts[model.RequestStatusPending],
		Approved: counts[model.RequestStatusApproved],
		Denied:   counts[model.RequestStatusDenied],
		Assigned: counts[model.RequestStatusAssigned],
	}, nil
}

// ────────────────────── Approve / Deny ──────────────────────

func (s *requestService) Approve(ctx context.Context, id string, actorID, actorRole string) (*dto.RequestResponse, error) {
	return s.decide(ctx, id, actorID, actorRole, model.AuditActionApproved, "")
}

func (s *requestService) Deny(ctx context.Context, id string, actorID, actorRole, reason string) (*dto.RequestResponse, error) {
	return s.decide(ctx, id, actorID, actorRole, model.AuditActionDenied, reason)
}

// decide 在单个事务内完成：pending 状态 CAS + 审批记录插入。
// CAS 失效（并发审批抢先）与审批记录唯一约束冲突都视为非法流转，
// 整个事务回滚，申请状态保持不变。
func (s *requestService) decide(ctx context.Context, id, actorID, actorRole, action, reason string) (*dto.RequestResponse, error) {
	request, err := s.loadRequest(ctx, id)
	if err != nil {
		return nil, err
	}
	if request.Status != model.RequestStatusPending {
		return nil, ErrInvalidTransition
	}

	toStatus := model.RequestStatusApproved
	if action == model.AuditActionDenied {
		toStatus = model.RequestStatusDenied
	}

	err = s.repo.Tx.Transaction(ctx, func(txRepo *repository.Repository) error {
		ok, err := txRepo.Request.UpdateStatusCAS(ctx, id, model.RequestStatusPending, toStatus, actorID, nil)
		if err != nil {
			s.logger.Error("推进申请状态失败", zap.String("id", id), zap.Error(err))
			return err
		}
		if !ok {
			return ErrInvalidTransition
		}

		record := &model.AuditRecord{
			RequestID: id,
			ActorID:   actorID,
			ActorRole: actorRole,
			Action:    action,
		}
		if err := txRepo.Audit.Create(ctx, record); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrInvalidTransition
			}
			s.logger.Error("写入审批记录失败", zap.String("id", id), zap.Error(err))
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// 拒绝原因是可选副作用：主流转已提交，写入失败仅告警不回滚
	if action == model.AuditActionDenied && strings.TrimSpace(reason) != "" {
		if err := s.repo.Denial.Create(ctx, &model.DenialReason{
			RequestID: id,
			Reason:    reason,
		}); err != nil {
			s.logger.Warn("写入拒绝原因失败", zap.String("id", id), zap.Error(err))
		}
	}

	request.Status = toStatus
	return toRequestResponse(request), nil
}

// ────────────────────── Update ──────────────────────

func (s *requestService) Update(ctx context.Context, id string, req *dto.UpdateRequestRequest, callerID string) (*dto.RequestResponse, error) {
	request, err := s.loadRequest(ctx, id)
	if err != nil {
		return nil, err
	}
	if request.OwnerID != callerID {
		return nil, ErrNotRequestOwner
	}
	if request.Status != model.RequestStatusPending {
		return nil, ErrInvalidTransition
	}

	if req.EventTitle != nil {
		request.EventTitle = *req.EventTitle
	}
	if req.Description != nil {
		request.Description = *req.Description
	}
	if req.EventDate != nil {
		eventDate, err := time.Parse("2006-01-02", *req.EventDate)
		if err != nil {
			return nil, ErrRequestDateInvalid
		}
		request.EventDate = eventDate
	}
	if req.TimeFrom != nil {
		request.TimeFrom = *req.TimeFrom
	}
	if req.TimeTo != nil {
		request.TimeTo = *req.TimeTo
	}
	if err := validateTimeRange(request.TimeFrom, request.TimeTo); err != nil {
		return nil, err
	}
	if req.Location != nil {
		request.Location = *req.Location
	}
	if req.ContactPerson != nil {
		request.ContactPerson = *req.ContactPerson
	}
	if req.ContactInfo != nil {
		request.ContactInfo = *req.ContactInfo
	}
	if req.AttachmentURL != nil {
		request.AttachmentURL = *req.AttachmentURL
	}

	// 修改后必填字段仍不得为空
	required := []string{
		request.EventTitle, request.Description, request.Location,
		request.ContactPerson, request.ContactInfo,
	}
	for _, f := range required {
		if strings.TrimSpace(f) == "" {
			return nil, ErrRequestFieldMissing
		}
	}

	request.UpdatedBy = &callerID

	if err := s.repo.Request.Update(ctx, request); err != nil {
		s.logger.Error("更新申请失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	return toRequestResponse(request), nil
}

// ────────────────────── Delete ──────────────────────

func (s *requestService) Delete(ctx context.Context, id string, callerID string) error {
	request, err := s.loadRequest(ctx, id)
	if err != nil {
		return err
	}
	if request.OwnerID != callerID {
		return ErrNotRequestOwner
	}

	// 已分派的申请不可删除
	if _, err := s.repo.Assignment.GetByRequest(ctx, id); err == nil {
		return ErrRequestHasAssignment
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询分派记录失败", zap.String("id", id), zap.Error(err))
		return err
	}

	if err := s.repo.Request.Delete(ctx, id, callerID); err != nil {
		s.logger.Error("删除申请失败", zap.String("id", id), zap.Error(err))
		return err
	}

	return nil
}

// ── 内部辅助方法 ──

func (s *requestService) loadRequest(ctx context.Context, id string) (*model.EventRequest, error) {
	request, err := s.repo.Request.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRequestNotFound
		}
		s.logger.Error("查询申请失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return request, nil
}

// canView 申请可见性：本人、管理员、被分派的组长
func canView(request *model.EventRequest, callerID, callerRole string) bool {
	if callerRole == model.RoleAdmin {
		return true
	}
	if request.OwnerID == callerID {
		return true
	}
	if request.AssignedHeadID != nil && *request.AssignedHeadID == callerID {
		return true
	}
	return false
}

// validateTimeRange 校验 "HH:MM" 起止时间，结束必须晚于开始
func validateTimeRange(from, to string) error {
	tf, err := time.Parse("15:04", normalizeTime(from))
	if err != nil {
		return ErrRequestDateInvalid
	}
	tt, err := time.Parse("15:04", normalizeTime(to))
	if err != nil {
		return ErrRequestDateInvalid
	}
	if !tt.After(tf) {
		return ErrRequestDateInvalid
	}
	return nil
}

// normalizeTime 数据库 time 列会读回 "HH:MM:SS"，统一裁剪到 "HH:MM"
func normalizeTime(s string) string {
	if len(s) > 5 {
		return s[:5]
	}
	return s
}

func toRequestResponse(request *model.EventRequest) *dto.RequestResponse {
	return &dto.RequestResponse{
		ID:             request.RequestID,
		OwnerID:        request.OwnerID,
		EventTitle:     request.EventTitle,
		Description:    request.Description,
		EventDate:      request.EventDate.Format("2006-01-02"),
		TimeFrom:       normalizeTime(request.TimeFrom),
		TimeTo:         normalizeTime(request.TimeTo),
		Location:       request.Location,
		ContactPerson:  request.ContactPerson,
		ContactInfo:    request.ContactInfo,
		AttachmentURL:  request.AttachmentURL,
		Status:         request.Status,
		AssignedHeadID: request.AssignedHeadID,
		CreatedAt:      request.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      request.UpdatedAt.Format(time.RFC3339),
	}
}

func toRequestResponses(requests []model.EventRequest) []dto.RequestResponse {
	result := make([]dto.RequestResponse, 0, len(requests))
	for i := range requests {
		result = append(result, *toRequestResponse(&requests[i]))
	}
	return result
}
