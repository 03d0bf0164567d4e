package service

import (
	"go.uber.org/zap"

	"github.com/AzuraDhar/goldPanicles-sub000/config"
	"github.com/AzuraDhar/goldPanicles-sub000/internal/repository"
	"github.com/AzuraDhar/goldPanicles-sub000/pkg/jwt"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Auth         AuthService
	User         UserService
	Request      RequestService
	Assignment   AssignmentService
	Availability AvailabilityService
	AdminEvent   AdminEventService
	Export       ExportService
}

// NewService 创建 Service 聚合
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	logger *zap.Logger,
) *Service {
	return &Service{
		Auth:         NewAuthService(cfg, repo, jwtMgr, logger),
		User:         NewUserService(repo, logger),
		Request:      NewRequestService(repo, logger),
		Assignment:   NewAssignmentService(repo, logger),
		Availability: NewAvailabilityService(repo, logger),
		AdminEvent:   NewAdminEventService(repo, logger),
		Export:       NewExportService(repo, logger),
	}
}
