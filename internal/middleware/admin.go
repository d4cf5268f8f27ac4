package middleware

import (
	"crypto/subtle"

	"adaptive_edu_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// AdminKeyMiddleware 校验管理接口的 X-Admin-Key 请求头；未配置密钥时拒绝所有请求
func AdminKeyMiddleware(apiKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		given := c.GetHeader(util.AdminKeyHeader)
		if apiKey == "" || given == "" {
			util.Unauthorized(c)
			c.Abort()
			return
		}
		if subtle.ConstantTimeCompare([]byte(given), []byte(apiKey)) != 1 {
			util.RespondError(c, util.ErrPermissionDenied)
			c.Abort()
			return
		}
		c.Next()
	}
}
