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

// ── 分派/邀请模块业务错误 ──

var (
	ErrRequestNotApproved  = errors.New("只有已批准的申请可以分派")
	ErrAlreadyAssigned     = errors.New("申请已分派给其他组长")
	ErrHeadNotFound        = errors.New("组长不存在或角色不符")
	ErrStaffNotFound       = errors.New("部员不存在或角色不符")
	ErrNotAssignedHead     = errors.New("只有被分派的组长可以操作")
	ErrInvitationNotFound  = errors.New("邀请不存在")
	ErrDuplicateInvitation = errors.New("该部员已被邀请")
	ErrNotInvitee          = errors.New("只有被邀请的部员可以应答")
	ErrInvitationClosed    = errors.New("邀请已关闭，无法应答")
	ErrDecisionInvalid     = errors.New("无效的决定")
	ErrDecisionAlreadyMade = errors.New("接单决定已记录")
)

// AssignmentService 两级分派业务接口：管理员 → 组长 → 部员
//
// 分派在单个事务内完成 approved → assigned 的状态 CAS 与分派记录插入；
// assignment_records.request_id 的唯一约束把并发重复分派压到数据库层，
// 两个并发分派恰好一个成功，另一个得到 ErrAlreadyAssigned。
type AssignmentService interface {
	AssignToSectionHead(ctx context.Context, requestID, headID, adminID string) (*dto.AssignmentResponse, error)
	InviteStaff(ctx context.Context, requestID, staffID, headID string) (*dto.InvitationResponse, error)
	RespondInvitation(ctx context.Context, invitationID, staffID, decision string) (*dto.InvitationResponse, error)
	CancelInvitation(ctx context.Context, invitationID, headID string) (*dto.InvitationResponse, error)
	RecordHeadDecision(ctx context.Context, requestID, headID, decision string) (*dto.AcceptanceResponse, error)
	ListHeadTasks(ctx context.Context, headID string) ([]dto.RequestResponse, error)
	ListStaffInvitations(ctx context.Context, staffID string) ([]dto.InvitationResponse, error)
	ListRequestInvitations(ctx context.Context, requestID, callerID, callerRole string) ([]dto.InvitationResponse, error)
	AcceptedByPosition(ctx context.Context, requestID string) ([]dto.PositionCountResponse, error)
}

type assignmentService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewAssignmentService 创建 AssignmentService 实例
func NewAssignmentService(repo *repository.Repository, logger *zap.Logger) AssignmentService {
	return &assignmentService{repo: repo, logger: logger}
}

// ────────────────────── AssignToSectionHead ──────────────────────

func (s *assignmentService) AssignToSectionHead(ctx context.Context, requestID, headID, adminID string) (*dto.AssignmentResponse, error) {
	request, err := s.repo.Request.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRequestNotFound
		}
		s.logger.Error("查询申请失败", zap.String("id", requestID), zap.Error(err))
		return nil, err
	}
	if request.Status == model.RequestStatusAssigned {
		return nil, ErrAlreadyAssigned
	}
	if request.Status != model.RequestStatusApproved {
		return nil, ErrRequestNotApproved
	}

	head, err := s.repo.User.GetByID(ctx, headID)
	if err != nil || head.Role != model.RoleSectionHead {
		return nil, ErrHeadNotFound
	}

	record := &model.AssignmentRecord{
		RequestID:  requestID,
		AssignedBy: adminID,
		HeadID:     headID,
	}
	err = s.repo.Tx.Transaction(ctx, func(txRepo *repository.Repository) error {
		ok, err := txRepo.Request.UpdateStatusCAS(ctx, requestID,
			model.RequestStatusApproved, model.RequestStatusAssigned, adminID, &headID)
		if err != nil {
			s.logger.Error("推进申请状态失败", zap.String("id", requestID), zap.Error(err))
			return err
		}
		if !ok {
			// 前置状态被并发操作抢先改掉
			return ErrAlreadyAssigned
		}

		if err := txRepo.Assignment.Create(ctx, record); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrAlreadyAssigned
			}
			s.logger.Error("写入分派记录失败", zap.String("id", requestID), zap.Error(err))
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	record.Head = head
	return toAssignmentResponse(record), nil
}

// ────────────────────── InviteStaff ──────────────────────

func (s *assignmentService) InviteStaff(ctx context.Context, requestID, staffID, headID string) (*dto.InvitationResponse, error) {
	if err := s.requireAssignedHead(ctx, requestID, headID); err != nil {
		return nil, err
	}

	staff, err := s.repo.User.GetByID(ctx, staffID)
	if err != nil || staff.Role != model.RoleStaff {
		return nil, ErrStaffNotFound
	}

	inv := &model.StaffInvitation{
		RequestID: requestID,
		StaffID:   staffID,
		Status:    model.InvitationStatusPending,
	}
	inv.CreatedBy = &headID
	inv.UpdatedBy = &headID

	if err := s.repo.Invitation.Create(ctx, inv); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateInvitation
		}
		s.logger.Error("创建邀请失败", zap.String("request_id", requestID), zap.Error(err))
		return nil, err
	}

	inv.Staff = staff
	return toInvitationResponse(inv), nil
}

// ────────────────────── RespondInvitation ──────────────────────

func (s *assignmentService) RespondInvitation(ctx context.Context, invitationID, staffID, decision string) (*dto.InvitationResponse, error) {
	if decision != model.InvitationStatusAccepted && decision != model.InvitationStatusRejected {
		return nil, ErrDecisionInvalid
	}

	inv, err := s.loadInvitation(ctx, invitationID)
	if err != nil {
		return nil, err
	}
	if inv.StaffID != staffID {
		return nil, ErrNotInvitee
	}

	// 仅允许从 pending 应答；并发的两次应答只有一次生效
	ok, err := s.repo.Invitation.UpdateStatusCAS(ctx, invitationID,
		[]string{model.InvitationStatusPending}, decision, staffID)
	if err != nil {
		s.logger.Error("应答邀请失败", zap.String("id", invitationID), zap.Error(err))
		return nil, err
	}
	if !ok {
		return nil, ErrInvitationClosed
	}

	inv.Status = decision
	return toInvitationResponse(inv), nil
}

// ────────────────────── CancelInvitation ──────────────────────

func (s *assignmentService) CancelInvitation(ctx context.Context, invitationID, headID string) (*dto.InvitationResponse, error) {
	inv, err := s.loadInvitation(ctx, invitationID)
	if err != nil {
		return nil, err
	}
	if err := s.requireAssignedHead(ctx, inv.RequestID, headID); err != nil {
		return nil, err
	}

	// 组长可从 pending 或 accepted 撤销
	ok, err := s.repo.Invitation.UpdateStatusCAS(ctx, invitationID,
		[]string{model.InvitationStatusPending, model.InvitationStatusAccepted},
		model.InvitationStatusCancelled, headID)
	if err != nil {
		s.logger.Error("撤销邀请失败", zap.String("id", invitationID), zap.Error(err))
		return nil, err
	}
	if !ok {
		return nil, ErrInvitationClosed
	}

	inv.Status = model.InvitationStatusCancelled
	return toInvitationResponse(inv), nil
}

// ────────────────────── RecordHeadDecision ──────────────────────

func (s *assignmentService) RecordHeadDecision(ctx context.Context, requestID, headID, decision string) (*dto.AcceptanceResponse, error) {
	if decision != model.HeadDecisionPending && decision != model.HeadDecisionDeclined {
		return nil, ErrDecisionInvalid
	}

	if err := s.requireAssignedHead(ctx, requestID, headID); err != nil {
		return nil, err
	}

	request, err := s.repo.Request.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, err
	}

	record := &model.AcceptanceRecord{
		RequestID: requestID,
		HeadID:    headID,
		Decision:  decision,
		EventDate: request.EventDate,
	}
	if err := s.repo.Acceptance.Create(ctx, record); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDecisionAlreadyMade
		}
		s.logger.Error("写入接单记录失败", zap.String("request_id", requestID), zap.Error(err))
		return nil, err
	}

	return toAcceptanceResponse(record), nil
}

// ────────────────────── 读侧查询 ──────────────────────

func (s *assignmentService) ListHeadTasks(ctx context.Context, headID string) ([]dto.RequestResponse, error) {
	requests, err := s.repo.Request.ListAssignedToHead(ctx, headID)
	if err != nil {
		s.logger.Error("列出组长任务失败", zap.String("head_id", headID), zap.Error(err))
		return nil, err
	}
	return toRequestResponses(requests), nil
}

func (s *assignmentService) ListStaffInvitations(ctx context.Context, staffID string) ([]dto.InvitationResponse, error) {
	invs, err := s.repo.Invitation.ListByStaff(ctx, staffID)
	if err != nil {
		s.logger.Error("列出部员邀请失败", zap.String("staff_id", staffID), zap.Error(err))
		return nil, err
	}
	return toInvitationResponses(invs), nil
}

func (s *assignmentService) ListRequestInvitations(ctx context.Context, requestID, callerID, callerRole string) ([]dto.InvitationResponse, error) {
	if callerRole != model.RoleAdmin {
		if err := s.requireAssignedHead(ctx, requestID, callerID); err != nil {
			return nil, err
		}
	}

	invs, err := s.repo.Invitation.ListByRequest(ctx, requestID)
	if err != nil {
		s.logger.Error("列出申请邀请失败", zap.String("request_id", requestID), zap.Error(err))
		return nil, err
	}
	return toInvitationResponses(invs), nil
}

// AcceptedByPosition 看板聚合：按职位统计已接受邀请人数（只读投影）
func (s *assignmentService) AcceptedByPosition(ctx context.Context, requestID string) ([]dto.PositionCountResponse, error) {
	rows, err := s.repo.Invitation.CountAcceptedByPosition(ctx, requestID)
	if err != nil {
		s.logger.Error("统计已接受邀请失败", zap.String("request_id", requestID), zap.Error(err))
		return nil, err
	}

	result := make([]dto.PositionCountResponse, 0, len(rows))
	for _, row := range rows {
		result = append(result, dto.PositionCountResponse{
			Position: row.Position,
			Count:    row.Count,
		})
	}
	return result, nil
}

// ── 内部辅助方法 ──

// requireAssignedHead 校验 headID 持有该申请的分派记录
func (s *assignmentService) requireAssignedHead(ctx context.Context, requestID, headID string) error {
	record, err := s.repo.Assignment.GetByRequest(ctx, requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotAssignedHead
		}
		s.logger.Error("查询分派记录失败", zap.String("request_id", requestID), zap.Error(err))
		return err
	}
	if record.HeadID != headID {
		return ErrNotAssignedHead
	}
	return nil
}

func (s *assignmentService) loadInvitation(ctx context.Context, id string) (*model.StaffInvitation, error) {
	inv, err := s.repo.Invitation.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvitationNotFound
		}
		s.logger.Error("查询邀请失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return inv, nil
}

func toAssignmentResponse(record *model.AssignmentRecord) *dto.AssignmentResponse {
	resp := &dto.AssignmentResponse{
		ID:         record.AssignmentID,
		RequestID:  record.RequestID,
		AssignedBy: record.AssignedBy,
		HeadID:     record.HeadID,
		CreatedAt:  record.CreatedAt.Format(time.RFC3339),
	}
	if record.Head != nil {
		resp.Head = toUserResponse(record.Head)
	}
	return resp
}

func toInvitationResponse(inv *model.StaffInvitation) *dto.InvitationResponse {
	resp := &dto.InvitationResponse{
		ID:        inv.InvitationID,
		RequestID: inv.RequestID,
		StaffID:   inv.StaffID,
		Status:    inv.Status,
		CreatedAt: inv.CreatedAt.Format(time.RFC3339),
	}
	if inv.Staff != nil {
		resp.Staff = toUserResponse(inv.Staff)
	}
	if inv.Request != nil {
		resp.Request = &dto.InvitationRequestBrief{
			EventTitle: inv.Request.EventTitle,
			EventDate:  inv.Request.EventDate.Format("2006-01-02"),
			TimeFrom:   normalizeTime(inv.Request.TimeFrom),
			TimeTo:     normalizeTime(inv.Request.TimeTo),
			Location:   inv.Request.Location,
			Status:     inv.Request.Status,
		}
	}
	return resp
}

func toInvitationResponses(invs []model.StaffInvitation) []dto.InvitationResponse {
	result := make([]dto.InvitationResponse, 0, len(invs))
	for i := range invs {
		result = append(result, *toInvitationResponse(&invs[i]))
	}
	return result
}

func toAcceptanceResponse(record *model.AcceptanceRecord) *dto.AcceptanceResponse {
	return &dto.AcceptanceResponse{
		ID:        record.RecordID,
		RequestID: record.RequestID,
		HeadID:    record.HeadID,
		Decision:  record.Decision,
		EventDate: record.EventDate.Format("2006-01-02"),
		CreatedAt: record.CreatedAt.Format(time.RFC3339),
	}
}
