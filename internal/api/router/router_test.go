package router_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/AzuraDhar/goldPanicles-sub000/config"
	"github.com/AzuraDhar/goldPanicles-sub000/internal/api/handler"
	"github.com/AzuraDhar/goldPanicles-sub000/internal/api/router"
	"github.com/AzuraDhar/goldPanicles-sub000/internal/dto"
	"github.com/AzuraDhar/goldPanicles-sub000/pkg/jwt"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubAvailabilityService struct{}

func (s *stubAvailabilityService) LoadWeek(_ context.Context, userID string) (*dto.WeekResponse, error) {
	return &dto.WeekResponse{UserID: userID, Week: dto.WeekGrid{}}, nil
}

func (s *stubAvailabilityService) SaveWeek(_ context.Context, _ string, _ *dto.SaveWeekRequest) (*dto.SaveWeekResponse, error) {
	return &dto.SaveWeekResponse{SavedDays: []int{1}}, nil
}

func setupAvailabilityRouter(t *testing.T) (*gin.Engine, *jwt.Manager) {
	t.Helper()

	cfg := &config.Config{}
	cfg.Storage.RootDir = t.TempDir()
	cfg.Storage.MaxUploadMB = 8

	jwtMgr := jwt.NewManager(&config.AuthConfig{
		JWTSecret:              "router-test-secret-0123456789",
		AccessTokenTTL:         time.Hour,
		RefreshTokenTTLDefault: time.Hour,
	})

	h := &handler.Handler{Availability: handler.NewAvailabilityHandler(&stubAvailabilityService{})}
	return router.Setup(cfg, h, jwtMgr, nil, zap.NewNop()), jwtMgr
}

// 空闲时间表是本人维度的资源，四种角色都可以读写自己的整周
func TestRouter_AvailabilityOpenToAllRoles(t *testing.T) {
	r, jwtMgr := setupAvailabilityRouter(t)

	roles := []string{"client", "admin", "section_head", "staff"}
	for _, role := range roles {
		token, err := jwtMgr.GenerateAccessToken("user-"+role, role)
		if err != nil {
			t.Fatalf("生成 Token 失败: %v", err)
		}

		req := httptest.NewRequest(http.MethodGet, "/api/v1/availability", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Errorf("角色 %s 读取时间表: 期望 200，得到 %d", role, w.Code)
		}

		body := strings.NewReader(`{"week":{"1":["值班"]}}`)
		req = httptest.NewRequest(http.MethodPut, "/api/v1/availability", body)
		req.Header.Set("Authorization", "Bearer "+token)
		req.Header.Set("Content-Type", "application/json")
		w = httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Errorf("角色 %s 保存时间表: 期望 200，得到 %d", role, w.Code)
		}
	}
}

func TestRouter_AvailabilityRequiresAuth(t *testing.T) {
	r, _ := setupAvailabilityRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/availability", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("未认证访问: 期望 401，得到 %d", w.Code)
	}
}
