package handler

import (
	"github.com/gin-gonic/gin"

	"schedule-maker/internal/service"
	"schedule-maker/pkg/response"
)

// SessionHandler 会话模块 HTTP 处理器
type SessionHandler struct {
	sessionSvc service.SessionService
}

// NewSessionHandler 创建 SessionHandler
func NewSessionHandler(sessionSvc service.SessionService) *SessionHandler {
	return &SessionHandler{sessionSvc: sessionSvc}
}

// CreateSession 开始新会话
// POST /api/v1/sessions
func (h *SessionHandler) CreateSession(c *gin.Context) {
	tok, err := h.sessionSvc.Create(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.Created(c, tok)
}

// GetCurrentSession 当前会话概况
// GET /api/v1/sessions/current
func (h *SessionHandler) GetCurrentSession(c *gin.Context) {
	sessionID, ok := MustGetSessionID(c)
	if !ok {
		return
	}

	summary, err := h.sessionSvc.Summary(c.Request.Context(), sessionID)
	if err != nil {
		if !handleCommonError(c, err) {
			response.InternalError(c)
		}
		return
	}
	response.OK(c, summary)
}

// EndSession 结束会话并清空状态
// DELETE /api/v1/sessions/current
func (h *SessionHandler) EndSession(c *gin.Context) {
	sessionID, ok := MustGetSessionID(c)
	if !ok {
		return
	}

	if err := h.sessionSvc.End(c.Request.Context(), sessionID); err != nil {
		if !handleCommonError(c, err) {
			response.InternalError(c)
		}
		return
	}
	response.OK(c, nil)
}
