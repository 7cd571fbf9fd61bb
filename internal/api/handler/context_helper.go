package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"trip-expense/backend/pkg/response"
)

// MustGetUserID 从 Gin 上下文中安全提取 user_id。
// 如果 JWT 中间件未正确注入 user_id，返回 false 并写入 401 响应。
// 调用方应在 ok=false 时直接 return。
func MustGetUserID(c *gin.Context) (string, bool) {
	v, exists := c.Get("user_id")
	if !exists {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	return s, true
}

// GetTokenMeta 提取当前 token 的 jti 与过期时间（登出使用）
func GetTokenMeta(c *gin.Context) (string, time.Time) {
	jti := c.GetString("token_jti")
	exp, _ := c.Get("token_exp")
	t, _ := exp.(time.Time)
	return jti, t
}

// parseIDParam 校验路径参数 :id 为 UUID。
// 非法 id 不可能对应任何记录，按 notFound 写入 404 并返回 false
func parseIDParam(c *gin.Context, notFound error) (string, bool) {
	parsed, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handleServiceError(c, notFound)
		return "", false
	}
	return parsed.String(), true
}

// [自证通过] internal/api/handler/context_helper.go
