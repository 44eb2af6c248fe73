package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"shiftpass/backend/internal/dto"
	"shiftpass/backend/internal/service"
	"shiftpass/backend/pkg/response"
)

// ExportHandler 导出模块 HTTP 处理器（管理端）
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler 创建 ExportHandler
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// ExportCheckIns 导出签到记录
// GET /api/v1/export/check-ins?location_id=xxx&month=2026-03
func (h *ExportHandler) ExportCheckIns(c *gin.Context) {
	var req dto.ExportCheckInsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	buf, filename, err := h.exportSvc.ExportCheckIns(c.Request.Context(), &req)
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	// 设置下载响应头
	encodedFilename := url.QueryEscape(filename)
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+encodedFilename)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

func (h *ExportHandler) handleExportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrLocationNotFound):
		response.NotFound(c, 16001, "地点不存在")
	case errors.Is(err, service.ErrCheckInValidation):
		response.BadRequest(c, 10001, "参数校验失败")
	case errors.Is(err, service.ErrExportNoRecords):
		response.NotFound(c, 21001, "该地点当月无签到记录")
	default:
		response.InternalError(c)
	}
}
