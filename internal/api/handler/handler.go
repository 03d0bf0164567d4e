package handler

import (
	"github.com/AzuraDhar/goldPanicles-sub000/internal/service"
	"github.com/AzuraDhar/goldPanicles-sub000/pkg/jwt"
	"github.com/AzuraDhar/goldPanicles-sub000/pkg/redis"
	"github.com/AzuraDhar/goldPanicles-sub000/pkg/storage"
)

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth         *AuthHandler
	Request      *RequestHandler
	Assignment   *AssignmentHandler
	Availability *AvailabilityHandler
	AdminEvent   *AdminEventHandler
	Attachment   *AttachmentHandler
	Export       *ExportHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service, jwtMgr *jwt.Manager, rdb *redis.Client, store *storage.Store) *Handler {
	return &Handler{
		Auth:         NewAuthHandler(svc.Auth, svc.User, jwtMgr, rdb),
		Request:      NewRequestHandler(svc.Request),
		Assignment:   NewAssignmentHandler(svc.Assignment, svc.User),
		Availability: NewAvailabilityHandler(svc.Availability),
		AdminEvent:   NewAdminEventHandler(svc.AdminEvent),
		Attachment:   NewAttachmentHandler(store),
		Export:       NewExportHandler(svc.Export),
	}
}
