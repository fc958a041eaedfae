package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MohamedBENIAICH/Exam-Planning-backend-sub000/internal/dto"
	"github.com/MohamedBENIAICH/Exam-Planning-backend-sub000/internal/seating"
	"github.com/MohamedBENIAICH/Exam-Planning-backend-sub000/internal/service"
	"github.com/MohamedBENIAICH/Exam-Planning-backend-sub000/pkg/response"
)

// SeatingHandler 座位分配 HTTP 处理器（考试与竞赛共用）
type SeatingHandler struct {
	seatingSvc service.SeatingService
}

// NewSeatingHandler 创建 SeatingHandler
func NewSeatingHandler(seatingSvc service.SeatingService) *SeatingHandler {
	return &SeatingHandler{seatingSvc: seatingSvc}
}

// ── 考试 ──

// AssignExam 为考试分配座位（整体替换）
// POST /api/v1/exams/:id/seating
func (h *SeatingHandler) AssignExam(c *gin.Context) {
	examID, ok := MustGetIDParam(c)
	if !ok {
		return
	}

	var req dto.AssignExamSeatingRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.seatingSvc.AssignExam(c.Request.Context(), examID, &req)
	if err != nil {
		h.handleSeatingError(c, err)
		return
	}

	response.OK(c, result)
}

// GetExam 获取考试当前座位分配
// GET /api/v1/exams/:id/seating
func (h *SeatingHandler) GetExam(c *gin.Context) {
	examID, ok := MustGetIDParam(c)
	if !ok {
		return
	}

	result, err := h.seatingSvc.GetExamSeating(c.Request.Context(), examID)
	if err != nil {
		h.handleSeatingError(c, err)
		return
	}

	response.OK(c, result)
}

// ClearExam 清空考试座位分配
// DELETE /api/v1/exams/:id/seating
func (h *SeatingHandler) ClearExam(c *gin.Context) {
	examID, ok := MustGetIDParam(c)
	if !ok {
		return
	}

	deleted, err := h.seatingSvc.ClearExamSeating(c.Request.Context(), examID)
	if err != nil {
		h.handleSeatingError(c, err)
		return
	}

	response.OK(c, dto.ClearSeatingResponse{Deleted: deleted})
}

// ── 竞赛 ──

// AssignConcours 为竞赛分配座位（整体替换）
// POST /api/v1/concours/:id/seating
func (h *SeatingHandler) AssignConcours(c *gin.Context) {
	concoursID, ok := MustGetIDParam(c)
	if !ok {
		return
	}

	var req dto.AssignConcoursSeatingRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.seatingSvc.AssignConcours(c.Request.Context(), concoursID, &req)
	if err != nil {
		h.handleSeatingError(c, err)
		return
	}

	response.OK(c, result)
}

// GetConcours 获取竞赛当前座位分配
// GET /api/v1/concours/:id/seating
func (h *SeatingHandler) GetConcours(c *gin.Context) {
	concoursID, ok := MustGetIDParam(c)
	if !ok {
		return
	}

	result, err := h.seatingSvc.GetConcoursSeating(c.Request.Context(), concoursID)
	if err != nil {
		h.handleSeatingError(c, err)
		return
	}

	response.OK(c, result)
}

// ClearConcours 清空竞赛座位分配
// DELETE /api/v1/concours/:id/seating
func (h *SeatingHandler) ClearConcours(c *gin.Context) {
	concoursID, ok := MustGetIDParam(c)
	if !ok {
		return
	}

	deleted, err := h.seatingSvc.ClearConcoursSeating(c.Request.Context(), concoursID)
	if err != nil {
		h.handleSeatingError(c, err)
		return
	}

	response.OK(c, dto.ClearSeatingResponse{Deleted: deleted})
}

// handleSeatingError 统一处理座位分配业务错误
func (h *SeatingHandler) handleSeatingError(c *gin.Context, err error) {
	var (
		invalid  *seating.InvalidInputError
		notFound *seating.NotFoundError
		capErr   *seating.InsufficientCapacityError
		txErr    *seating.TransactionError
	)

	switch {
	case errors.Is(err, service.ErrExamNotFound):
		response.NotFound(c, 30001, "考试不存在")
	case errors.Is(err, service.ErrConcoursNotFound):
		response.NotFound(c, 30101, "竞赛不存在")
	case errors.As(err, &invalid):
		response.UnprocessableEntity(c, 40001, "座位分配输入无效", gin.H{"problems": invalid.Problems})
	case errors.As(err, &notFound):
		response.UnprocessableEntity(c, 40002, "引用的教室或人员不存在", notFound)
	case errors.As(err, &capErr):
		response.ErrorWithData(c, http.StatusBadRequest, 40003, "教室容量不足", capErr)
	case errors.As(err, &txErr), errors.Is(err, context.DeadlineExceeded):
		response.ServiceUnavailable(c, 40004, "座位分配暂时失败，请重试")
	default:
		// 含 seating.ErrAssignmentOverflow
		response.InternalError(c)
	}
}
