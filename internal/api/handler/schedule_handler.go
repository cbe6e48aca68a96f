package handler

import (
	"github.com/gin-gonic/gin"

	"schedule-maker/internal/dto"
	"schedule-maker/internal/service"
	"schedule-maker/pkg/response"
)

// ScheduleHandler 周视图模块 Handler
type ScheduleHandler struct {
	svc service.ScheduleService
}

// NewScheduleHandler 创建 ScheduleHandler
func NewScheduleHandler(svc service.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{svc: svc}
}

// GetWeeklyView 指定周的课表视图
// GET /api/v1/schedule?week=N
func (h *ScheduleHandler) GetWeeklyView(c *gin.Context) {
	sessionID, ok := MustGetSessionID(c)
	if !ok {
		return
	}

	var q dto.WeekQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	view, err := h.svc.WeeklyView(c.Request.Context(), sessionID, q.Week)
	if err != nil {
		handleTimetableError(c, err)
		return
	}
	response.OK(c, view)
}

// UpdateChecklist 勾选/取消勾选周视图中的一行
// PUT /api/v1/schedule/checklist
func (h *ScheduleHandler) UpdateChecklist(c *gin.Context) {
	sessionID, ok := MustGetSessionID(c)
	if !ok {
		return
	}

	var req dto.UpdateChecklistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	view, err := h.svc.SetChecklist(c.Request.Context(), sessionID, &req)
	if err != nil {
		handleTimetableError(c, err)
		return
	}
	response.OK(c, view)
}
