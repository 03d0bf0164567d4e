package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/AzuraDhar/goldPanicles-sub000/internal/model"
)

func setupTestUserService() (UserService, *testRepos) {
	repo, mocks := newTestRepository()
	return NewUserService(repo, zap.NewNop()), mocks
}

func TestUserService_GetByID(t *testing.T) {
	svc, mocks := setupTestUserService()
	ctx := context.Background()

	mocks.user.users["u-1"] = &model.User{
		UserID: "u-1",
		Name:   "张三",
		Email:  "zhangsan@example.com",
		Role:   model.RoleClient,
	}

	got, err := svc.GetByID(ctx, "u-1")
	if err != nil {
		t.Fatalf("GetByID 失败: %v", err)
	}
	if got.Name != "张三" || got.Role != model.RoleClient {
		t.Errorf("用户信息不匹配: %+v", got)
	}
}

func TestUserService_GetByID_NotFound(t *testing.T) {
	svc, _ := setupTestUserService()

	_, err := svc.GetByID(context.Background(), "nonexistent")
	if !errors.Is(err, ErrUserNotFound) {
		t.Errorf("期望 ErrUserNotFound，得到: %v", err)
	}
}

func TestUserService_ListByRole(t *testing.T) {
	svc, mocks := setupTestUserService()
	ctx := context.Background()

	mocks.user.users["h-1"] = &model.User{UserID: "h-1", Name: "王组长", Role: model.RoleSectionHead}
	mocks.user.users["h-2"] = &model.User{UserID: "h-2", Name: "李组长", Role: model.RoleSectionHead}
	mocks.user.users["s-1"] = &model.User{UserID: "s-1", Name: "小部员", Role: model.RoleStaff}

	heads, err := svc.ListByRole(ctx, model.RoleSectionHead)
	if err != nil {
		t.Fatalf("ListByRole 失败: %v", err)
	}
	if len(heads) != 2 {
		t.Errorf("期望 2 名组长，得到 %d 名", len(heads))
	}
	for _, h := range heads {
		if h.Role != model.RoleSectionHead {
			t.Errorf("角色不匹配: %s", h.Role)
		}
	}
}

func TestUserService_ListByRole_Empty(t *testing.T) {
	svc, _ := setupTestUserService()

	staff, err := svc.ListByRole(context.Background(), model.RoleStaff)
	if err != nil {
		t.Fatalf("ListByRole 失败: %v", err)
	}
	if len(staff) != 0 {
		t.Errorf("期望空列表，得到 %d 名", len(staff))
	}
}
