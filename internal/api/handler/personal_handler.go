package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"schedule-maker/internal/dto"
	"schedule-maker/internal/service"
	"schedule-maker/pkg/response"
)

// PersonalHandler 个人安排模块 HTTP 处理器
type PersonalHandler struct {
	personalSvc service.PersonalService
}

// NewPersonalHandler 创建 PersonalHandler
func NewPersonalHandler(personalSvc service.PersonalService) *PersonalHandler {
	return &PersonalHandler{personalSvc: personalSvc}
}

// ListEntries 指定周的个人安排
// GET /api/v1/personal?week=N
func (h *PersonalHandler) ListEntries(c *gin.Context) {
	sessionID, ok := MustGetSessionID(c)
	if !ok {
		return
	}

	var q dto.WeekQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	entries, err := h.personalSvc.List(c.Request.Context(), sessionID, q.Week)
	if err != nil {
		h.handlePersonalError(c, err)
		return
	}
	response.OK(c, gin.H{"list": entries})
}

// CreateEntry 添加个人安排
// POST /api/v1/personal
func (h *PersonalHandler) CreateEntry(c *gin.Context) {
	sessionID, ok := MustGetSessionID(c)
	if !ok {
		return
	}

	var req dto.CreatePersonalEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	entry, err := h.personalSvc.Add(c.Request.Context(), sessionID, &req)
	if err != nil {
		h.handlePersonalError(c, err)
		return
	}
	response.Created(c, entry)
}

// DeleteEntry 删除个人安排
// DELETE /api/v1/personal/:id
func (h *PersonalHandler) DeleteEntry(c *gin.Context) {
	sessionID, ok := MustGetSessionID(c)
	if !ok {
		return
	}
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "个人安排ID不能为空")
		return
	}

	if err := h.personalSvc.Delete(c.Request.Context(), sessionID, id); err != nil {
		h.handlePersonalError(c, err)
		return
	}
	response.OK(c, nil)
}

func (h *PersonalHandler) handlePersonalError(c *gin.Context, err error) {
	if handleCommonError(c, err) {
		return
	}
	switch {
	case errors.Is(err, service.ErrPersonalEntryFormat):
		response.BadRequest(c, 18001, "格式应为：星期, 时间, 内容")
	case errors.Is(err, service.ErrPersonalEntryNotFound):
		response.NotFound(c, 18002, "个人安排不存在")
	default:
		response.InternalError(c)
	}
}
