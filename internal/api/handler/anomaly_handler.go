package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"shiftpass/backend/internal/dto"
	"shiftpass/backend/internal/service"
	"shiftpass/backend/pkg/response"
)

// AnomalyHandler 签到异常复核 HTTP 处理器（管理端）
type AnomalyHandler struct {
	anomalySvc service.AnomalyService
}

// NewAnomalyHandler 创建 AnomalyHandler
func NewAnomalyHandler(anomalySvc service.AnomalyService) *AnomalyHandler {
	return &AnomalyHandler{anomalySvc: anomalySvc}
}

// ListAnomalies 查询异常记录
// GET /api/v1/anomalies
func (h *AnomalyHandler) ListAnomalies(c *gin.Context) {
	var req dto.AnomalyListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	anomalies, err := h.anomalySvc.List(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": anomalies})
}

// ResolveAnomaly 标记异常已复核
// PUT /api/v1/anomalies/:id/resolve
func (h *AnomalyHandler) ResolveAnomaly(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "异常ID不能为空")
		return
	}

	callerID, ok := MustGetWorkerID(c)
	if !ok {
		return
	}

	if err := h.anomalySvc.Resolve(c.Request.Context(), id, callerID); err != nil {
		if errors.Is(err, service.ErrAnomalyNotFound) {
			response.NotFound(c, 20001, "异常记录不存在或已处理")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, nil)
}
