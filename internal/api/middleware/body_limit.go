package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"shiftpass/backend/pkg/response"
)

// BodyLimit 全局请求体大小限制中间件
// 本服务最大的请求体是内联 ICS 排班导入，其余接口均为小 JSON
// maxBytes: 允许的最大请求体字节数（如 1<<20 = 1MB）
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}

		c.Next()

		if c.IsAborted() {
			return
		}
		var maxErr *http.MaxBytesError
		for _, ginErr := range c.Errors {
			if errors.As(ginErr.Err, &maxErr) {
				response.Error(c, http.StatusRequestEntityTooLarge, 10005, "请求体过大")
				return
			}
		}
	}
}
