package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"shiftpass/backend/internal/dto"
	"shiftpass/backend/internal/service"
	"shiftpass/backend/pkg/response"
)

// TokenHandler 签到 Token 模块 HTTP 处理器（管理端）
type TokenHandler struct {
	tokenSvc service.TokenService
}

// NewTokenHandler 创建 TokenHandler
func NewTokenHandler(tokenSvc service.TokenService) *TokenHandler {
	return &TokenHandler{tokenSvc: tokenSvc}
}

// IssueToken 为地点发放签到 Token
// POST /api/v1/locations/:id/tokens
func (h *TokenHandler) IssueToken(c *gin.Context) {
	locationID := c.Param("id")
	if locationID == "" {
		response.BadRequest(c, 10001, "地点ID不能为空")
		return
	}

	var req dto.IssueTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetWorkerID(c)
	if !ok {
		return
	}

	result, err := h.tokenSvc.Issue(c.Request.Context(), locationID, &req, callerID)
	if err != nil {
		h.handleTokenError(c, err)
		return
	}

	response.Created(c, result)
}

// RevokeToken 撤销签到 Token
// DELETE /api/v1/tokens/:id
func (h *TokenHandler) RevokeToken(c *gin.Context) {
	tokenID := c.Param("id")
	if tokenID == "" {
		response.BadRequest(c, 10001, "TokenID不能为空")
		return
	}

	callerID, ok := MustGetWorkerID(c)
	if !ok {
		return
	}

	if err := h.tokenSvc.Revoke(c.Request.Context(), tokenID, callerID); err != nil {
		h.handleTokenError(c, err)
		return
	}

	response.OK(c, nil)
}

// ListTokens 查询地点的 Token 台账
// GET /api/v1/locations/:id/tokens
func (h *TokenHandler) ListTokens(c *gin.Context) {
	locationID := c.Param("id")
	if locationID == "" {
		response.BadRequest(c, 10001, "地点ID不能为空")
		return
	}

	tokens, err := h.tokenSvc.ListByLocation(c.Request.Context(), locationID)
	if err != nil {
		h.handleTokenError(c, err)
		return
	}

	response.OK(c, gin.H{"list": tokens})
}

// handleTokenError 统一处理 Token 模块业务错误
func (h *TokenHandler) handleTokenError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrLocationNotFound):
		response.NotFound(c, 16001, "地点不存在")
	case errors.Is(err, service.ErrTokenNotFound):
		response.NotFound(c, 17001, "Token 不存在或已非活跃")
	case errors.Is(err, service.ErrTokenMaxUsesRequired):
		response.BadRequest(c, 17002, "bounded 模式必须指定 max_uses")
	default:
		response.InternalError(c)
	}
}
