package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"shiftpass/backend/internal/dto"
	"shiftpass/backend/internal/service"
	"shiftpass/backend/pkg/response"
)

// CheckInHandler 签到模块 HTTP 处理器
type CheckInHandler struct {
	checkInSvc service.CheckInService
}

// NewCheckInHandler 创建 CheckInHandler
func NewCheckInHandler(checkInSvc service.CheckInService) *CheckInHandler {
	return &CheckInHandler{checkInSvc: checkInSvc}
}

// RecordCheckIn 员工签到
// POST /api/v1/check-ins
func (h *CheckInHandler) RecordCheckIn(c *gin.Context) {
	var req dto.RecordCheckInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	workerID, ok := MustGetWorkerID(c)
	if !ok {
		return
	}

	result, err := h.checkInSvc.Record(c.Request.Context(), workerID, &req)
	if err != nil {
		h.handleCheckInError(c, err)
		return
	}

	response.Created(c, result)
}

// GetTodayCheckIn 查询本人当日签到
// GET /api/v1/check-ins/today
func (h *CheckInHandler) GetTodayCheckIn(c *gin.Context) {
	workerID, ok := MustGetWorkerID(c)
	if !ok {
		return
	}

	result, err := h.checkInSvc.GetToday(c.Request.Context(), workerID)
	if err != nil {
		h.handleCheckInError(c, err)
		return
	}

	response.OK(c, result)
}

// ListCheckIns 按地点与日期区间查询签到记录（管理端）
// GET /api/v1/check-ins
func (h *CheckInHandler) ListCheckIns(c *gin.Context) {
	var req dto.CheckInListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	records, err := h.checkInSvc.ListByLocation(c.Request.Context(), &req)
	if err != nil {
		h.handleCheckInError(c, err)
		return
	}

	response.OK(c, gin.H{"list": records})
}

// handleCheckInError 统一处理签到模块业务错误
// Token 验证失败映射为 401 + 机器可读子原因，客户端据此提示重新扫码
func (h *CheckInHandler) handleCheckInError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrCheckInValidation):
		response.BadRequest(c, 18001, "参数校验失败")
	case errors.Is(err, service.ErrTokenSignatureInvalid):
		response.ErrorWithReason(c, 401, 18002, "签到凭证无效", "SIGNATURE_INVALID")
	case errors.Is(err, service.ErrTokenTypeMismatch):
		response.ErrorWithReason(c, 401, 18002, "签到凭证无效", "TYPE_MISMATCH")
	case errors.Is(err, service.ErrTokenExpired):
		response.ErrorWithReason(c, 401, 18002, "签到凭证已过期", "EXPIRED")
	case errors.Is(err, service.ErrTokenUsageExceeded):
		response.ErrorWithReason(c, 401, 18002, "签到凭证使用次数已达上限", "USAGE_EXCEEDED")
	case errors.Is(err, service.ErrTokenRevoked):
		response.ErrorWithReason(c, 401, 18002, "签到凭证已被撤销", "REVOKED")
	case errors.Is(err, service.ErrWorkerNotFound):
		response.NotFound(c, 18003, "员工不存在")
	case errors.Is(err, service.ErrNoAssignedLocation):
		response.BadRequest(c, 18004, "员工未分配归属地点，请使用扫码签到")
	case errors.Is(err, service.ErrLocationNotFound):
		response.NotFound(c, 16001, "地点不存在")
	case errors.Is(err, service.ErrDuplicateCheckIn):
		response.Conflict(c, 18005, "今日已签到")
	case errors.Is(err, service.ErrCheckInNotFound):
		response.NotFound(c, 18006, "今日尚未签到")
	default:
		response.InternalError(c)
	}
}
