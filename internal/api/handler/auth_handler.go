package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/AzuraDhar/goldPanicles-sub000/internal/dto"
	"github.com/AzuraDhar/goldPanicles-sub000/internal/service"
	"github.com/AzuraDhar/goldPanicles-sub000/pkg/jwt"
	"github.com/AzuraDhar/goldPanicles-sub000/pkg/redis"
	"github.com/AzuraDhar/goldPanicles-sub000/pkg/response"
)

// AuthHandler 认证模块 HTTP 处理器
type AuthHandler struct {
	authSvc service.AuthService
	userSvc service.UserService
	jwtMgr  *jwt.Manager
	rdb     *redis.Client
}

// NewAuthHandler 创建 AuthHandler
func NewAuthHandler(authSvc service.AuthService, userSvc service.UserService, jwtMgr *jwt.Manager, rdb *redis.Client) *AuthHandler {
	return &AuthHandler{authSvc: authSvc, userSvc: userSvc, jwtMgr: jwtMgr, rdb: rdb}
}

// Register 注册账号
// POST /api/v1/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	// 自助注册只能创建申请方账号；其余角色由管理员建号接口分配
	req.Role = ""

	result, err := h.authSvc.Register(c.Request.Context(), &req)
	if err != nil {
		h.handleAuthError(c, err)
		return
	}

	response.Created(c, result)
}

// Login 用户登录
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.authSvc.Login(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			response.Error(c, http.StatusUnauthorized, 11001, "邮箱或密码错误")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}

// Logout 用户登出
// POST /api/v1/auth/logout
// 将当前 Access Token 加入 Redis 黑名单直至其自然过期；
// Redis 不可用时静默放行（Token 到期后自行失效）。
func (h *AuthHandler) Logout(c *gin.Context) {
	if h.rdb == nil {
		response.OK(c, nil)
		return
	}

	authHeader := c.GetHeader("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 {
		response.OK(c, nil)
		return
	}
	token := parts[1]

	claims, err := h.jwtMgr.ParseToken(token)
	if err != nil {
		response.OK(c, nil)
		return
	}

	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl > 0 {
		_ = h.rdb.BlacklistToken(c.Request.Context(), token, ttl)
	}

	response.OK(c, nil)
}

// RefreshToken 刷新 Token
// POST /api/v1/auth/refresh
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req dto.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.authSvc.RefreshToken(c.Request.Context(), req.RefreshToken)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) || errors.Is(err, service.ErrUserNotFound) {
			response.Error(c, http.StatusUnauthorized, 11002, "刷新令牌无效或已过期")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}

// Me 当前登录用户信息
// GET /api/v1/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	user, err := h.userSvc.GetByID(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.NotFound(c, 11003, "用户不存在")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, user)
}

// CreateAccount 管理员建号（可指定任意角色）
// POST /api/v1/admin/accounts
func (h *AuthHandler) CreateAccount(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.authSvc.Register(c.Request.Context(), &req)
	if err != nil {
		h.handleAuthError(c, err)
		return
	}

	response.Created(c, result)
}

// handleAuthError 统一处理认证模块业务错误
func (h *AuthHandler) handleAuthError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrEmailTaken):
		response.Conflict(c, 11004, "邮箱已被注册")
	case errors.Is(err, service.ErrInvalidRole):
		response.BadRequest(c, 11005, "无效的角色")
	default:
		response.InternalError(c)
	}
}
