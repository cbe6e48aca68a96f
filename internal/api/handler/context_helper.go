package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"schedule-maker/internal/service"
	pkgerrors "schedule-maker/pkg/errors"
	"schedule-maker/pkg/response"
)

// MustGetSessionID 从 Gin 上下文中安全提取 session_id。
// 如果会话中间件未正确注入 session_id，返回 false 并写入 401 响应。
// 调用方应在 ok=false 时直接 return。
func MustGetSessionID(c *gin.Context) (string, bool) {
	v, exists := c.Get("session_id")
	if !exists {
		response.Unauthorized(c, 10002, "未建立会话")
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.Unauthorized(c, 10002, "未建立会话")
		return "", false
	}
	return s, true
}

// handleCommonError 处理各模块共有的错误，已写入响应时返回 true
func handleCommonError(c *gin.Context, err error) bool {
	switch {
	case errors.Is(err, pkgerrors.ErrSessionNotFound):
		response.Unauthorized(c, 19001, "会话不存在或已过期")
	case errors.Is(err, pkgerrors.ErrConcurrentUpdate):
		response.Conflict(c, 19002, "会话正被其他请求修改，请重试")
	case errors.Is(err, service.ErrWeekOutOfRange):
		response.BadRequest(c, 10006, err.Error())
	default:
		return false
	}
	return true
}

// isBodyTooLarge 请求体超过 BodyLimit 限制
func isBodyTooLarge(err error) bool {
	var mbe *http.MaxBytesError
	return errors.As(err, &mbe)
}
