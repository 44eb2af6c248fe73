package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"shiftpass/backend/internal/dto"
	"shiftpass/backend/internal/service"
	"shiftpass/backend/pkg/response"
)

// ShiftHandler 排班模块 HTTP 处理器
type ShiftHandler struct {
	shiftSvc service.ShiftService
}

// NewShiftHandler 创建 ShiftHandler
func NewShiftHandler(shiftSvc service.ShiftService) *ShiftHandler {
	return &ShiftHandler{shiftSvc: shiftSvc}
}

// UpsertShift 创建/覆盖排班（管理端）
// POST /api/v1/shifts
func (h *ShiftHandler) UpsertShift(c *gin.Context) {
	var req dto.UpsertShiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.shiftSvc.Upsert(c.Request.Context(), &req)
	if err != nil {
		h.handleShiftError(c, err)
		return
	}

	response.Created(c, result)
}

// ImportShiftsICS 从 ICS 日历导入排班（管理端）
// POST /api/v1/shifts/import-ics
func (h *ShiftHandler) ImportShiftsICS(c *gin.Context) {
	var req dto.ImportShiftsICSRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.shiftSvc.ImportICS(c.Request.Context(), &req)
	if err != nil {
		h.handleShiftError(c, err)
		return
	}

	response.OK(c, result)
}

// ListMyShifts 查询本人排班
// GET /api/v1/shifts/my
func (h *ShiftHandler) ListMyShifts(c *gin.Context) {
	var req dto.ShiftListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	workerID, ok := MustGetWorkerID(c)
	if !ok {
		return
	}

	shifts, err := h.shiftSvc.ListByWorker(c.Request.Context(), workerID, &req)
	if err != nil {
		h.handleShiftError(c, err)
		return
	}

	response.OK(c, gin.H{"list": shifts})
}

// handleShiftError 统一处理排班模块业务错误
func (h *ShiftHandler) handleShiftError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrShiftValidation):
		response.BadRequest(c, 19001, "排班参数不合法")
	case errors.Is(err, service.ErrICSSourceEmpty):
		response.BadRequest(c, 19002, "url 与 content 必须提供其一")
	case errors.Is(err, service.ErrWorkerNotFound):
		response.NotFound(c, 18003, "员工不存在")
	default:
		response.InternalError(c)
	}
}
