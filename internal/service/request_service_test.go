package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/AzuraDhar/goldPanicles-sub000/internal/dto"
	"github.com/AzuraDhar/goldPanicles-sub000/internal/model"
)

// ── 测试辅助 ──

func setupTestRequestService() (RequestService, *testRepos) {
	repo, mocks := newTestRepository()
	svc := NewRequestService(repo, zap.NewNop())
	return svc, mocks
}

func validSubmitRequest() *dto.SubmitRequestRequest {
	return &dto.SubmitRequestRequest{
		EventTitle:    "校庆晚会",
		Description:   "需要舞台与音响支持",
		EventDate:     "2026-10-05",
		TimeFrom:      "18:00",
		TimeTo:        "21:00",
		Location:      "大礼堂",
		ContactPerson: "张三",
		ContactInfo:   "13800000000",
	}
}

func seedPendingRequest(mocks *testRepos, id, ownerID string) *model.EventRequest {
	req := &model.EventRequest{
		RequestID:     id,
		OwnerID:       ownerID,
		EventTitle:    "校庆晚会",
		Description:   "需要舞台与音响支持",
		EventDate:     time.Date(2026, 10, 5, 0, 0, 0, 0, time.UTC),
		TimeFrom:      "18:00",
		TimeTo:        "21:00",
		Location:      "大礼堂",
		ContactPerson: "张三",
		ContactInfo:   "13800000000",
		Status:        model.RequestStatusPending,
	}
	req.Version = 1
	mocks.request.requests[id] = req
	return req
}

// ── Submit 测试 ──

func TestRequestService_Submit_Success(t *testing.T) {
	svc, mocks := setupTestRequestService()

	result, err := svc.Submit(context.Background(), validSubmitRequest(), "client-001")
	if err != nil {
		t.Fatalf("Submit 应成功: %v", err)
	}
	if result.Status != model.RequestStatusPending {
		t.Errorf("新申请期望状态 pending，实际=%s", result.Status)
	}
	if result.OwnerID != "client-001" {
		t.Errorf("期望 OwnerID=client-001，实际=%s", result.OwnerID)
	}
	if len(mocks.request.requests) != 1 {
		t.Errorf("期望写入 1 条申请，实际=%d", len(mocks.request.requests))
	}
}

func TestRequestService_Submit_MissingField(t *testing.T) {
	svc, mocks := setupTestRequestService()

	req := validSubmitRequest()
	req.Location = "   "

	_, err := svc.Submit(context.Background(), req, "client-001")
	if !errors.Is(err, ErrRequestFieldMissing) {
		t.Errorf("期望 ErrRequestFieldMissing，实际: %v", err)
	}
	if len(mocks.request.requests) != 0 {
		t.Error("校验失败不应写入任何申请")
	}
}

func TestRequestService_Submit_BadDate(t *testing.T) {
	svc, _ := setupTestRequestService()

	req := validSubmitRequest()
	req.EventDate = "2026/10/05"

	_, err := svc.Submit(context.Background(), req, "client-001")
	if !errors.Is(err, ErrRequestDateInvalid) {
		t.Errorf("期望 ErrRequestDateInvalid，实际: %v", err)
	}
}

func TestRequestService_Submit_TimeToBeforeTimeFrom(t *testing.T) {
	svc, _ := setupTestRequestService()

	req := validSubmitRequest()
	req.TimeFrom = "21:00"
	req.TimeTo = "18:00"

	_, err := svc.Submit(context.Background(), req, "client-001")
	if !errors.Is(err, ErrRequestDateInvalid) {
		t.Errorf("期望 ErrRequestDateInvalid，实际: %v", err)
	}
}

// ── Approve / Deny 测试 ──

func TestRequestService_Approve_Success(t *testing.T) {
	svc, mocks := setupTestRequestService()
	seedPendingRequest(mocks, "req-100", "client-001")

	result, err := svc.Approve(context.Background(), "req-100", "admin-001", model.RoleAdmin)
	if err != nil {
		t.Fatalf("Approve 应成功: %v", err)
	}
	if result.Status != model.RequestStatusApproved {
		t.Errorf("期望状态 approved，实际=%s", result.Status)
	}
	if mocks.request.requests["req-100"].Status != model.RequestStatusApproved {
		t.Error("存储中的申请状态应已推进到 approved")
	}

	record, ok := mocks.audit.records["req-100"]
	if !ok {
		t.Fatal("审批后应存在审批记录")
	}
	if record.Action != model.AuditActionApproved {
		t.Errorf("期望审批动作 approved，实际=%s", record.Action)
	}
	if record.ActorID != "admin-001" {
		t.Errorf("期望审批人 admin-001，实际=%s", record.ActorID)
	}
}

func TestRequestService_Approve_Twice(t *testing.T) {
	svc, mocks := setupTestRequestService()
	seedPendingRequest(mocks, "req-100", "client-001")

	if _, err := svc.Approve(context.Background(), "req-100", "admin-001", model.RoleAdmin); err != nil {
		t.Fatalf("首次 Approve 应成功: %v", err)
	}

	_, err := svc.Approve(context.Background(), "req-100", "admin-002", model.RoleAdmin)
	if !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("重复审批期望 ErrInvalidTransition，实际: %v", err)
	}
	if len(mocks.audit.records) != 1 {
		t.Errorf("重复审批不应产生第二条审批记录，实际=%d 条", len(mocks.audit.records))
	}
	if mocks.audit.records["req-100"].ActorID != "admin-001" {
		t.Error("审批记录应保持首次审批人不变")
	}
}

func TestRequestService_Deny_WithReason(t *testing.T) {
	svc, mocks := setupTestRequestService()
	seedPendingRequest(mocks, "req-100", "client-001")

	result, err := svc.Deny(context.Background(), "req-100", "admin-001", model.RoleAdmin, "场地当日已有安排")
	if err != nil {
		t.Fatalf("Deny 应成功: %v", err)
	}
	if result.Status != model.RequestStatusDenied {
		t.Errorf("期望状态 denied，实际=%s", result.Status)
	}

	reason, ok := mocks.denial.reasons["req-100"]
	if !ok {
		t.Fatal("拒绝后应存在拒绝原因")
	}
	if reason.Reason != "场地当日已有安排" {
		t.Errorf("拒绝原因不符，实际=%s", reason.Reason)
	}
}

func TestRequestService_Deny_ReasonWriteFailureDoesNotRollback(t *testing.T) {
	svc, mocks := setupTestRequestService()
	seedPendingRequest(mocks, "req-100", "client-001")
	mocks.denial.failAll = true

	result, err := svc.Deny(context.Background(), "req-100", "admin-001", model.RoleAdmin, "场地冲突")
	if err != nil {
		t.Fatalf("拒绝原因写入失败不应导致 Deny 失败: %v", err)
	}
	if result.Status != model.RequestStatusDenied {
		t.Errorf("期望状态 denied，实际=%s", result.Status)
	}
	if _, ok := mocks.audit.records["req-100"]; !ok {
		t.Error("审批记录应已写入")
	}
}

func TestRequestService_Deny_Terminal(t *testing.T) {
	svc, mocks := setupTestRequestService()
	seedPendingRequest(mocks, "req-100", "client-001")

	if _, err := svc.Deny(context.Background(), "req-100", "admin-001", model.RoleAdmin, ""); err != nil {
		t.Fatalf("Deny 应成功: %v", err)
	}

	// denied 是终态，再审批、再拒绝都不允许
	if _, err := svc.Approve(context.Background(), "req-100", "admin-001", model.RoleAdmin); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("denied 后 Approve 期望 ErrInvalidTransition，实际: %v", err)
	}
	if _, err := svc.Deny(context.Background(), "req-100", "admin-001", model.RoleAdmin, ""); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("denied 后 Deny 期望 ErrInvalidTransition，实际: %v", err)
	}
}

func TestRequestService_Approve_NotFound(t *testing.T) {
	svc, _ := setupTestRequestService()

	_, err := svc.Approve(context.Background(), "req-missing", "admin-001", model.RoleAdmin)
	if !errors.Is(err, ErrRequestNotFound) {
		t.Errorf("期望 ErrRequestNotFound，实际: %v", err)
	}
}

// ── Update 测试 ──

func TestRequestService_Update_Success(t *testing.T) {
	svc, mocks := setupTestRequestService()
	seedPendingRequest(mocks, "req-100", "client-001")

	newTitle := "校庆晚会（改期）"
	newDate := "2026-10-12"
	result, err := svc.Update(context.Background(), "req-100", &dto.UpdateRequestRequest{
		EventTitle: &newTitle,
		EventDate:  &newDate,
	}, "client-001")
	if err != nil {
		t.Fatalf("Update 应成功: %v", err)
	}
	if result.EventTitle != newTitle {
		t.Errorf("期望标题=%s，实际=%s", newTitle, result.EventTitle)
	}
	if result.EventDate != newDate {
		t.Errorf("期望日期=%s，实际=%s", newDate, result.EventDate)
	}
	// 未修改的字段保持原值
	if result.Location != "大礼堂" {
		t.Errorf("未修改字段应保持原值，实际 Location=%s", result.Location)
	}
}

func TestRequestService_Update_NotOwner(t *testing.T) {
	svc, mocks := setupTestRequestService()
	seedPendingRequest(mocks, "req-100", "client-001")

	newTitle := "篡改标题"
	_, err := svc.Update(context.Background(), "req-100", &dto.UpdateRequestRequest{
		EventTitle: &newTitle,
	}, "client-002")
	if !errors.Is(err, ErrNotRequestOwner) {
		t.Errorf("期望 ErrNotRequestOwner，实际: %v", err)
	}
	if mocks.request.requests["req-100"].EventTitle != "校庆晚会" {
		t.Error("非本人修改被拒绝后申请内容不应改变")
	}
}

func TestRequestService_Update_AfterDecision(t *testing.T) {
	svc, mocks := setupTestRequestService()
	seedPendingRequest(mocks, "req-100", "client-001")

	if _, err := svc.Approve(context.Background(), "req-100", "admin-001", model.RoleAdmin); err != nil {
		t.Fatalf("Approve 应成功: %v", err)
	}

	newTitle := "改标题"
	_, err := svc.Update(context.Background(), "req-100", &dto.UpdateRequestRequest{
		EventTitle: &newTitle,
	}, "client-001")
	if !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("审批后修改期望 ErrInvalidTransition，实际: %v", err)
	}
}

func TestRequestService_Update_ClearRequiredField(t *testing.T) {
	svc, mocks := setupTestRequestService()
	seedPendingRequest(mocks, "req-100", "client-001")

	empty := ""
	_, err := svc.Update(context.Background(), "req-100", &dto.UpdateRequestRequest{
		ContactPerson: &empty,
	}, "client-001")
	if !errors.Is(err, ErrRequestFieldMissing) {
		t.Errorf("期望 ErrRequestFieldMissing，实际: %v", err)
	}
}

// ── Delete 测试 ──

func TestRequestService_Delete_Success(t *testing.T) {
	svc, mocks := setupTestRequestService()
	seedPendingRequest(mocks, "req-100", "client-001")

	if err := svc.Delete(context.Background(), "req-100", "client-001"); err != nil {
		t.Fatalf("Delete 应成功: %v", err)
	}
	if _, ok := mocks.request.requests["req-100"]; ok {
		t.Error("删除后申请不应再存在")
	}
}

func TestRequestService_Delete_NotOwner(t *testing.T) {
	svc, mocks := setupTestRequestService()
	seedPendingRequest(mocks, "req-100", "client-001")

	err := svc.Delete(context.Background(), "req-100", "client-002")
	if !errors.Is(err, ErrNotRequestOwner) {
		t.Errorf("期望 ErrNotRequestOwner，实际: %v", err)
	}
}

func TestRequestService_Delete_HasAssignment(t *testing.T) {
	svc, mocks := setupTestRequestService()
	seedPendingRequest(mocks, "req-100", "client-001")
	mocks.assignment.records["req-100"] = &model.AssignmentRecord{
		AssignmentID: "assign-1",
		RequestID:    "req-100",
		AssignedBy:   "admin-001",
		HeadID:       "head-001",
	}

	err := svc.Delete(context.Background(), "req-100", "client-001")
	if !errors.Is(err, ErrRequestHasAssignment) {
		t.Errorf("期望 ErrRequestHasAssignment，实际: %v", err)
	}
	if _, ok := mocks.request.requests["req-100"]; !ok {
		t.Error("删除被拒后申请应保留")
	}
}

// ── 可见性 / 查询测试 ──

func TestRequestService_GetByID_Visibility(t *testing.T) {
	svc, mocks := setupTestRequestService()
	req := seedPendingRequest(mocks, "req-100", "client-001")
	headID := "head-001"
	req.AssignedHeadID = &headID

	cases := []struct {
		name     string
		callerID string
		role     string
		wantErr  error
	}{
		{"本人可见", "client-001", model.RoleClient, nil},
		{"管理员可见", "admin-001", model.RoleAdmin, nil},
		{"被分派组长可见", "head-001", model.RoleSectionHead, nil},
		{"其他申请方不可见", "client-002", model.RoleClient, ErrRequestNotViewable},
		{"未分派部员不可见", "staff-001", model.RoleStaff, ErrRequestNotViewable},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.GetByID(context.Background(), "req-100", tc.callerID, tc.role)
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("期望 %v，实际: %v", tc.wantErr, err)
			}
		})
	}
}

func TestRequestService_Counts(t *testing.T) {
	svc, mocks := setupTestRequestService()
	seedPendingRequest(mocks, "req-1", "client-001")
	seedPendingRequest(mocks, "req-2", "client-001")
	seedPendingRequest(mocks, "req-3", "client-002")
	mocks.request.requests["req-2"].Status = model.RequestStatusApproved
	mocks.request.requests["req-3"].Status = model.RequestStatusDenied

	counts, err := svc.Counts(context.Background())
	if err != nil {
		t.Fatalf("Counts 应成功: %v", err)
	}
	if counts.Pending != 1 || counts.Approved != 1 || counts.Denied != 1 || counts.Assigned != 0 {
		t.Errorf("统计不符: %+v", counts)
	}
}

func TestRequestService_ListAll_BadStatus(t *testing.T) {
	svc, _ := setupTestRequestService()

	_, _, err := svc.ListAll(context.Background(), "archived", 1, 10)
	if !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("非法状态筛选期望 ErrInvalidTransition，实际: %v", err)
	}
}
