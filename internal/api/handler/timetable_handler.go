package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"schedule-maker/internal/dto"
	"schedule-maker/internal/service"
	"schedule-maker/pkg/response"
)

// TimetableHandler 课表模块 Handler
type TimetableHandler struct {
	svc service.TimetableService
}

// NewTimetableHandler 创建 TimetableHandler 实例
func NewTimetableHandler(svc service.TimetableService) *TimetableHandler {
	return &TimetableHandler{svc: svc}
}

// UploadTimetable 上传学校课表
// POST /api/v1/timetable  (multipart/form-data, field="file")
func (h *TimetableHandler) UploadTimetable(c *gin.Context) {
	sessionID, ok := MustGetSessionID(c)
	if !ok {
		return
	}

	file, _, err := c.Request.FormFile("file")
	if err != nil {
		if isBodyTooLarge(err) {
			response.EntityTooLarge(c, 10005, "请求体过大")
			return
		}
		response.BadRequest(c, 15000, "请上传课表文件（字段 file）")
		return
	}
	defer file.Close()

	resp, err := h.svc.Upload(c.Request.Context(), sessionID, file)
	if err != nil {
		handleTimetableError(c, err)
		return
	}
	response.Created(c, resp)
}

// ListSections 教学班标签列表
// GET /api/v1/timetable/sections
func (h *TimetableHandler) ListSections(c *gin.Context) {
	sessionID, ok := MustGetSessionID(c)
	if !ok {
		return
	}

	resp, err := h.svc.Sections(c.Request.Context(), sessionID)
	if err != nil {
		handleTimetableError(c, err)
		return
	}
	response.OK(c, resp)
}

// UpdateSelection 替换已选教学班
// PUT /api/v1/selection
func (h *TimetableHandler) UpdateSelection(c *gin.Context) {
	sessionID, ok := MustGetSessionID(c)
	if !ok {
		return
	}

	var req dto.UpdateSelectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	resp, err := h.svc.UpdateSelection(c.Request.Context(), sessionID, &req)
	if err != nil {
		handleTimetableError(c, err)
		return
	}
	response.OK(c, resp)
}

func handleTimetableError(c *gin.Context, err error) {
	if handleCommonError(c, err) {
		return
	}
	switch {
	case errors.Is(err, service.ErrTimetableMissingColumns):
		response.ErrorWithDetails(c, http.StatusBadRequest, 15002, "课表文件缺少必需的列", err.Error())
	case errors.Is(err, service.ErrTimetableTooLarge):
		response.EntityTooLarge(c, 15003, "课表文件过大")
	case errors.Is(err, service.ErrTimetableLoadFailed):
		response.ErrorWithDetails(c, http.StatusBadRequest, 15001, "无法读取课表文件", err.Error())
	case errors.Is(err, service.ErrTimetableNotLoaded):
		response.BadRequest(c, 15004, "尚未上传课表")
	case errors.Is(err, service.ErrSectionUnknown):
		response.ErrorWithDetails(c, http.StatusBadRequest, 15005, "课表中不存在该教学班", err.Error())
	case errors.Is(err, service.ErrChecklistKeyUnknown):
		response.BadRequest(c, 15006, "该行不在本周视图中")
	default:
		response.InternalError(c)
	}
}
