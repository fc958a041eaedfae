package handler

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/MohamedBENIAICH/Exam-Planning-backend-sub000/internal/service"
	"github.com/MohamedBENIAICH/Exam-Planning-backend-sub000/pkg/response"
)

const (
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	icsContentType  = "text/calendar; charset=utf-8"
)

// ExportHandler 座位表与日历导出 HTTP 处理器
type ExportHandler struct {
	exportSvc   service.ExportService
	calendarSvc service.CalendarService
}

// NewExportHandler 创建 ExportHandler
func NewExportHandler(exportSvc service.ExportService, calendarSvc service.CalendarService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc, calendarSvc: calendarSvc}
}

// ExamSeating 导出考试座位表
// GET /api/v1/exams/:id/seating/export
func (h *ExportHandler) ExamSeating(c *gin.Context) {
	h.sheet(c, h.exportSvc.ExportExamSeating)
}

// ConcoursSeating 导出竞赛座位表
// GET /api/v1/concours/:id/seating/export
func (h *ExportHandler) ConcoursSeating(c *gin.Context) {
	h.sheet(c, h.exportSvc.ExportConcoursSeating)
}

// ExamCalendar 导出考试日历
// GET /api/v1/exams/:id/calendar.ics
func (h *ExportHandler) ExamCalendar(c *gin.Context) {
	h.calendar(c, h.calendarSvc.ExamCalendar)
}

// ConcoursCalendar 导出竞赛日历
// GET /api/v1/concours/:id/calendar.ics
func (h *ExportHandler) ConcoursCalendar(c *gin.Context) {
	h.calendar(c, h.calendarSvc.ConcoursCalendar)
}

func (h *ExportHandler) sheet(c *gin.Context, export func(context.Context, int64) (*bytes.Buffer, string, error)) {
	id, ok := MustGetIDParam(c)
	if !ok {
		return
	}

	buf, filename, err := export(c.Request.Context(), id)
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	setAttachment(c, filename)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

func (h *ExportHandler) calendar(c *gin.Context, export func(context.Context, int64) (string, string, error)) {
	id, ok := MustGetIDParam(c)
	if !ok {
		return
	}

	body, filename, err := export(c.Request.Context(), id)
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	setAttachment(c, filename)
	c.Data(http.StatusOK, icsContentType, []byte(body))
}

// setAttachment 设置下载响应头（RFC 5987 编码文件名）
func setAttachment(c *gin.Context, filename string) {
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+url.PathEscape(filename))
}

func (h *ExportHandler) handleExportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrExamNotFound):
		response.NotFound(c, 30001, "考试不存在")
	case errors.Is(err, service.ErrConcoursNotFound):
		response.NotFound(c, 30101, "竞赛不存在")
	case errors.Is(err, service.ErrExportNoSeats):
		response.NotFound(c, 40005, "尚未分配座位，无法导出")
	default:
		response.InternalError(c)
	}
}
