package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/MohamedBENIAICH/Exam-Planning-backend-sub000/internal/dto"
	"github.com/MohamedBENIAICH/Exam-Planning-backend-sub000/internal/service"
	"github.com/MohamedBENIAICH/Exam-Planning-backend-sub000/pkg/response"
)

// ── 学生 ──

// StudentHandler 学生模块 HTTP 处理器
type StudentHandler struct {
	studentSvc service.StudentService
}

// NewStudentHandler 创建 StudentHandler
func NewStudentHandler(studentSvc service.StudentService) *StudentHandler {
	return &StudentHandler{studentSvc: studentSvc}
}

// List GET /api/v1/students
func (h *StudentHandler) List(c *gin.Context) {
	var req dto.PersonListRequest
	if !bindQuery(c, &req) {
		return
	}

	list, total, err := h.studentSvc.List(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// Get GET /api/v1/students/:id
func (h *StudentHandler) Get(c *gin.Context) {
	id, ok := MustGetIDParam(c)
	if !ok {
		return
	}

	st, err := h.studentSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		handlePersonError(c, err)
		return
	}

	response.OK(c, st)
}

// Create POST /api/v1/students
func (h *StudentHandler) Create(c *gin.Context) {
	var req dto.CreateStudentRequest
	if !bindJSON(c, &req) {
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	st, err := h.studentSvc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		handlePersonError(c, err)
		return
	}

	response.Created(c, st)
}

// ── 竞赛考生 ──

// CandidateHandler 竞赛考生模块 HTTP 处理器
type CandidateHandler struct {
	candidateSvc service.CandidateService
}

// NewCandidateHandler 创建 CandidateHandler
func NewCandidateHandler(candidateSvc service.CandidateService) *CandidateHandler {
	return &CandidateHandler{candidateSvc: candidateSvc}
}

// List GET /api/v1/candidates
func (h *CandidateHandler) List(c *gin.Context) {
	var req dto.PersonListRequest
	if !bindQuery(c, &req) {
		return
	}

	list, total, err := h.candidateSvc.List(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// Get GET /api/v1/candidates/:id
func (h *CandidateHandler) Get(c *gin.Context) {
	id, ok := MustGetIDParam(c)
	if !ok {
		return
	}

	cand, err := h.candidateSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		handlePersonError(c, err)
		return
	}

	response.OK(c, cand)
}

// Create POST /api/v1/candidates
func (h *CandidateHandler) Create(c *gin.Context) {
	var req dto.CreateCandidateRequest
	if !bindJSON(c, &req) {
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	cand, err := h.candidateSvc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		handlePersonError(c, err)
		return
	}

	response.Created(c, cand)
}

func handlePersonError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrStudentNotFound):
		response.NotFound(c, 20101, "学生不存在")
	case errors.Is(err, service.ErrStudentNumberTaken):
		response.Conflict(c, 20102, "学号已存在")
	case errors.Is(err, service.ErrCandidateNotFound):
		response.NotFound(c, 20201, "竞赛考生不存在")
	case errors.Is(err, service.ErrCandidateCINTaken):
		response.Conflict(c, 20202, "身份证号已存在")
	default:
		response.InternalError(c)
	}
}
