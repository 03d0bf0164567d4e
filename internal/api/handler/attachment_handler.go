package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/AzuraDhar/goldPanicles-sub000/internal/dto"
	"github.com/AzuraDhar/goldPanicles-sub000/pkg/response"
	"github.com/AzuraDhar/goldPanicles-sub000/pkg/storage"
)

// AttachmentHandler 申请附件上传 HTTP 处理器
// 上传先于申请提交：前端先传附件拿到 URL，再随申请一并提交
type AttachmentHandler struct {
	store *storage.Store
}

// NewAttachmentHandler 创建 AttachmentHandler
func NewAttachmentHandler(store *storage.Store) *AttachmentHandler {
	return &AttachmentHandler{store: store}
}

// Upload 上传附件
// POST /api/v1/attachments
func (h *AttachmentHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, 10001, "缺少上传文件")
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		response.BadRequest(c, 10001, "无法读取上传文件")
		return
	}
	defer f.Close()

	url, err := h.store.Save(fileHeader.Filename, f)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.Created(c, dto.AttachmentResponse{URL: url})
}
