package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/AzuraDhar/goldPanicles-sub000/config"
	"github.com/AzuraDhar/goldPanicles-sub000/internal/dto"
	"github.com/AzuraDhar/goldPanicles-sub000/internal/model"
	"github.com/AzuraDhar/goldPanicles-sub000/pkg/jwt"
)

// ── 测试辅助 ──

func setupTestAuthService() (AuthService, *testRepos) {
	repo, mocks := newTestRepository()
	cfg := &config.Config{}
	cfg.Auth.JWTSecret = "unit-test-secret-0123456789"
	cfg.Auth.AccessTokenTTL = 2 * time.Hour
	cfg.Auth.RefreshTokenTTLDefault = 24 * time.Hour
	jwtMgr := jwt.NewManager(&cfg.Auth)
	svc := NewAuthService(cfg, repo, jwtMgr, zap.NewNop())
	return svc, mocks
}

// ── Register 测试 ──

func TestAuthService_Register_Success(t *testing.T) {
	svc, mocks := setupTestAuthService()

	result, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Name:     "李四",
		Email:    "lisi@example.com",
		Password: "secret123",
	})
	if err != nil {
		t.Fatalf("Register 应成功: %v", err)
	}
	if result.Role != model.RoleClient {
		t.Errorf("未指定角色时期望默认 client，实际=%s", result.Role)
	}

	stored, err := mocks.user.GetByEmail(context.Background(), "lisi@example.com")
	if err != nil {
		t.Fatal("注册后用户应可查到")
	}
	if stored.PasswordHash == "secret123" {
		t.Error("密码不应明文存储")
	}
}

func TestAuthService_Register_EmailTaken(t *testing.T) {
	svc, _ := setupTestAuthService()
	ctx := context.Background()

	req := &dto.RegisterRequest{Name: "李四", Email: "lisi@example.com", Password: "secret123"}
	if _, err := svc.Register(ctx, req); err != nil {
		t.Fatalf("首次注册应成功: %v", err)
	}

	_, err := svc.Register(ctx, req)
	if !errors.Is(err, ErrEmailTaken) {
		t.Errorf("重复邮箱期望 ErrEmailTaken，实际: %v", err)
	}
}

func TestAuthService_Register_BadRole(t *testing.T) {
	svc, _ := setupTestAuthService()

	_, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Name:     "李四",
		Email:    "lisi@example.com",
		Password: "secret123",
		Role:     "superuser",
	})
	if !errors.Is(err, ErrInvalidRole) {
		t.Errorf("期望 ErrInvalidRole，实际: %v", err)
	}
}

// ── Login 测试 ──

func TestAuthService_Login_Success(t *testing.T) {
	svc, _ := setupTestAuthService()
	ctx := context.Background()

	if _, err := svc.Register(ctx, &dto.RegisterRequest{
		Name: "李四", Email: "lisi@example.com", Password: "secret123", Role: model.RoleSectionHead,
	}); err != nil {
		t.Fatalf("注册应成功: %v", err)
	}

	tokens, err := svc.Login(ctx, &dto.LoginRequest{Email: "lisi@example.com", Password: "secret123"})
	if err != nil {
		t.Fatalf("Login 应成功: %v", err)
	}
	if tokens.AccessToken == "" || tokens.RefreshToken == "" {
		t.Error("登录应返回访问令牌与刷新令牌")
	}
	if tokens.User.Role != model.RoleSectionHead {
		t.Errorf("期望角色 section_head，实际=%s", tokens.User.Role)
	}
	if tokens.ExpiresIn != int((2 * time.Hour).Seconds()) {
		t.Errorf("ExpiresIn 不符，实际=%d", tokens.ExpiresIn)
	}
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	svc, _ := setupTestAuthService()
	ctx := context.Background()

	if _, err := svc.Register(ctx, &dto.RegisterRequest{
		Name: "李四", Email: "lisi@example.com", Password: "secret123",
	}); err != nil {
		t.Fatalf("注册应成功: %v", err)
	}

	_, err := svc.Login(ctx, &dto.LoginRequest{Email: "lisi@example.com", Password: "wrong"})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("期望 ErrInvalidCredentials，实际: %v", err)
	}
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	svc, _ := setupTestAuthService()

	_, err := svc.Login(context.Background(), &dto.LoginRequest{Email: "nobody@example.com", Password: "x"})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("期望 ErrInvalidCredentials，实际: %v", err)
	}
}

// ── RefreshToken 测试 ──

func TestAuthService_RefreshToken_Success(t *testing.T) {
	svc, _ := setupTestAuthService()
	ctx := context.Background()

	if _, err := svc.Register(ctx, &dto.RegisterRequest{
		Name: "李四", Email: "lisi@example.com", Password: "secret123",
	}); err != nil {
		t.Fatalf("注册应成功: %v", err)
	}
	tokens, err := svc.Login(ctx, &dto.LoginRequest{Email: "lisi@example.com", Password: "secret123"})
	if err != nil {
		t.Fatalf("Login 应成功: %v", err)
	}

	refreshed, err := svc.RefreshToken(ctx, tokens.RefreshToken)
	if err != nil {
		t.Fatalf("RefreshToken 应成功: %v", err)
	}
	if refreshed.AccessToken == "" {
		t.Error("刷新应返回新的访问令牌")
	}
}

func TestAuthService_RefreshToken_AccessTokenRejected(t *testing.T) {
	svc, _ := setupTestAuthService()
	ctx := context.Background()

	if _, err := svc.Register(ctx, &dto.RegisterRequest{
		Name: "李四", Email: "lisi@example.com", Password: "secret123",
	}); err != nil {
		t.Fatalf("注册应成功: %v", err)
	}
	tokens, _ := svc.Login(ctx, &dto.LoginRequest{Email: "lisi@example.com", Password: "secret123"})

	// 用访问令牌冒充刷新令牌
	_, err := svc.RefreshToken(ctx, tokens.AccessToken)
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("期望 ErrInvalidCredentials，实际: %v", err)
	}
}
