package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"schedule-maker/internal/dto"
	"schedule-maker/internal/service"
	"schedule-maker/pkg/response"
)

// ReminderHandler 提醒邮件模块 HTTP 处理器
type ReminderHandler struct {
	reminderSvc service.ReminderService
}

// NewReminderHandler 创建 ReminderHandler
func NewReminderHandler(reminderSvc service.ReminderService) *ReminderHandler {
	return &ReminderHandler{reminderSvc: reminderSvc}
}

// SendReminder 发送本周未完成事项提醒
// POST /api/v1/reminders
//
// 邮件发送失败时仍返回 200，结果见 data.success / data.message
func (h *ReminderHandler) SendReminder(c *gin.Context) {
	sessionID, ok := MustGetSessionID(c)
	if !ok {
		return
	}

	var req dto.SendReminderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	res, err := h.reminderSvc.Send(c.Request.Context(), sessionID, &req)
	if err != nil {
		if handleCommonError(c, err) {
			return
		}
		if errors.Is(err, service.ErrInvalidRecipient) {
			response.BadRequest(c, 17001, "收件人邮箱格式无效")
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, res)
}

// ListHistory 当前会话的发送记录
// GET /api/v1/reminders/history?page=1&page_size=20
func (h *ReminderHandler) ListHistory(c *gin.Context) {
	sessionID, ok := MustGetSessionID(c)
	if !ok {
		return
	}

	var page dto.PaginationRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	res, err := h.reminderSvc.History(c.Request.Context(), sessionID, &page)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, res)
}
