package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"schedule-maker/pkg/response"
)

// BodyLimit 全局请求体大小限制中间件
// maxBytes: 允许的最大请求体字节数（课表上传受 server.max_upload_mb 约束）
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body != nil && maxBytes > 0 {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}

		c.Next()

		if c.IsAborted() || c.Writer.Written() {
			return
		}
		for _, err := range c.Errors {
			var mbe *http.MaxBytesError
			if errors.As(err.Err, &mbe) {
				response.EntityTooLarge(c, 10005, "请求体过大")
				return
			}
		}
	}
}
