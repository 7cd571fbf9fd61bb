package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"trip-expense/backend/pkg/response"
)

// BodyLimit 请求体大小限制中间件
// Content-Length 已超限的请求直接 413；未声明长度的请求由 MaxBytesReader 在读取时截断，
// 绑定阶段会以参数错误返回
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if maxBytes <= 0 || c.Request.Body == nil {
			c.Next()
			return
		}

		if c.Request.ContentLength > maxBytes {
			response.Error(c, http.StatusRequestEntityTooLarge, 10005, "请求体过大")
			c.Abort()
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
