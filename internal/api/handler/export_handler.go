package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"schedule-maker/internal/dto"
	"schedule-maker/internal/service"
	"schedule-maker/pkg/response"
)

// ExportHandler 导出模块 HTTP 处理器
type ExportHandler struct {
	exportSvc service.ScheduleService
}

// NewExportHandler 创建 ExportHandler
func NewExportHandler(exportSvc service.ScheduleService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// ExportXLSX 导出指定周的 Excel（学校课表 + 个人安排）
// GET /api/v1/export/xlsx?week=N&columns=Tên_HP,Phòng
func (h *ExportHandler) ExportXLSX(c *gin.Context) {
	sessionID, ok := MustGetSessionID(c)
	if !ok {
		return
	}

	var q dto.ExportQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	file, err := h.exportSvc.ExportXLSX(c.Request.Context(), sessionID, q.Week, service.ParseColumns(q.Columns))
	if err != nil {
		h.handleExportError(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Data)
}

// ExportICS 导出指定周的 iCalendar 文件
// GET /api/v1/export/ics?week=N
func (h *ExportHandler) ExportICS(c *gin.Context) {
	sessionID, ok := MustGetSessionID(c)
	if !ok {
		return
	}

	var q dto.WeekQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	file, err := h.exportSvc.ExportICS(c.Request.Context(), sessionID, q.Week)
	if err != nil {
		h.handleExportError(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Data)
}

func (h *ExportHandler) handleExportError(c *gin.Context, err error) {
	if handleCommonError(c, err) {
		return
	}
	switch {
	case errors.Is(err, service.ErrExportColumnUnknown):
		response.ErrorWithDetails(c, http.StatusBadRequest, 16101, "未知的导出列", err.Error())
	case errors.Is(err, service.ErrCalendarNotConfigured):
		response.BadRequest(c, 16103, "未配置学期开始日期，无法导出日历")
	case errors.Is(err, service.ErrExportGenerateFail):
		response.InternalError(c)
	default:
		response.InternalError(c)
	}
}
