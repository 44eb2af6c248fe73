package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"shiftpass/backend/internal/dto"
	"shiftpass/backend/internal/service"
	"shiftpass/backend/pkg/response"
)

// WorkerHandler 员工目录 HTTP 处理器（管理端）
type WorkerHandler struct {
	workerSvc service.WorkerService
}

// NewWorkerHandler 创建 WorkerHandler
func NewWorkerHandler(workerSvc service.WorkerService) *WorkerHandler {
	return &WorkerHandler{workerSvc: workerSvc}
}

// ListWorkers 查询员工列表，可按地点过滤
// GET /api/v1/workers?location_id=xxx
func (h *WorkerHandler) ListWorkers(c *gin.Context) {
	workers, err := h.workerSvc.List(c.Request.Context(), c.Query("location_id"))
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": workers})
}

// AssignLocation 设置员工归属地点
// PUT /api/v1/workers/:id/location
func (h *WorkerHandler) AssignLocation(c *gin.Context) {
	workerID := c.Param("id")
	if workerID == "" {
		response.BadRequest(c, 10001, "员工ID不能为空")
		return
	}

	var req dto.AssignLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetWorkerID(c)
	if !ok {
		return
	}

	if err := h.workerSvc.AssignLocation(c.Request.Context(), workerID, req.LocationID, callerID); err != nil {
		switch {
		case errors.Is(err, service.ErrWorkerNotFound):
			response.NotFound(c, 18003, "员工不存在")
		case errors.Is(err, service.ErrLocationNotFound):
			response.NotFound(c, 16001, "地点不存在")
		default:
			response.InternalError(c)
		}
		return
	}

	response.OK(c, nil)
}
