package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MohamedBENIAICH/Exam-Planning-backend-sub000/internal/dto"
	"github.com/MohamedBENIAICH/Exam-Planning-backend-sub000/internal/service"
	pkgerrors "github.com/MohamedBENIAICH/Exam-Planning-backend-sub000/pkg/errors"
	"github.com/MohamedBENIAICH/Exam-Planning-backend-sub000/pkg/response"
)

// ExamHandler 考试模块 HTTP 处理器
type ExamHandler struct {
	examSvc service.ExamService
}

// NewExamHandler 创建 ExamHandler
func NewExamHandler(examSvc service.ExamService) *ExamHandler {
	return &ExamHandler{examSvc: examSvc}
}

// List 获取考试列表
// GET /api/v1/exams
func (h *ExamHandler) List(c *gin.Context) {
	var req dto.EventListRequest
	if !bindQuery(c, &req) {
		return
	}

	list, total, err := h.examSvc.List(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// Get 获取考试详情
// GET /api/v1/exams/:id
func (h *ExamHandler) Get(c *gin.Context) {
	id, ok := MustGetIDParam(c)
	if !ok {
		return
	}

	exam, err := h.examSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		handleEventError(c, err)
		return
	}

	response.OK(c, exam)
}

// Create 创建考试
// POST /api/v1/exams
func (h *ExamHandler) Create(c *gin.Context) {
	var req dto.CreateExamRequest
	if !bindJSON(c, &req) {
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	exam, err := h.examSvc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		handleEventError(c, err)
		return
	}

	response.Created(c, exam)
}

// Update 更新考试（乐观锁）
// PUT /api/v1/exams/:id
func (h *ExamHandler) Update(c *gin.Context) {
	id, ok := MustGetIDParam(c)
	if !ok {
		return
	}

	var req dto.UpdateExamRequest
	if !bindJSON(c, &req) {
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	exam, err := h.examSvc.Update(c.Request.Context(), id, &req, callerID)
	if err != nil {
		handleEventError(c, err)
		return
	}

	response.OK(c, exam)
}

// Delete 删除考试及其座位分配
// DELETE /api/v1/exams/:id
func (h *ExamHandler) Delete(c *gin.Context) {
	id, ok := MustGetIDParam(c)
	if !ok {
		return
	}

	if err := h.examSvc.Delete(c.Request.Context(), id); err != nil {
		handleEventError(c, err)
		return
	}

	response.OK(c, nil)
}

// handleEventError 考试与竞赛共用的业务错误映射
func handleEventError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrExamNotFound):
		response.NotFound(c, 30001, "考试不存在")
	case errors.Is(err, service.ErrConcoursNotFound):
		response.NotFound(c, 30101, "竞赛不存在")
	case errors.Is(err, service.ErrInvalidTimeRange):
		response.Error(c, http.StatusUnprocessableEntity, 30002, "结束时间必须晚于开始时间")
	case errors.Is(err, pkgerrors.ErrOptimisticLock):
		response.Conflict(c, response.CodeVersionConflict, "数据已被修改，请刷新后重试")
	default:
		response.InternalError(c)
	}
}
