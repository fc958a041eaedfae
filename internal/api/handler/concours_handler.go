package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/MohamedBENIAICH/Exam-Planning-backend-sub000/internal/dto"
	"github.com/MohamedBENIAICH/Exam-Planning-backend-sub000/internal/service"
	"github.com/MohamedBENIAICH/Exam-Planning-backend-sub000/pkg/response"
)

// ConcoursHandler 入学竞赛模块 HTTP 处理器
type ConcoursHandler struct {
	concoursSvc service.ConcoursService
}

// NewConcoursHandler 创建 ConcoursHandler
func NewConcoursHandler(concoursSvc service.ConcoursService) *ConcoursHandler {
	return &ConcoursHandler{concoursSvc: concoursSvc}
}

// List 获取竞赛列表
// GET /api/v1/concours
func (h *ConcoursHandler) List(c *gin.Context) {
	var req dto.EventListRequest
	if !bindQuery(c, &req) {
		return
	}

	list, total, err := h.concoursSvc.List(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// Get 获取竞赛详情
// GET /api/v1/concours/:id
func (h *ConcoursHandler) Get(c *gin.Context) {
	id, ok := MustGetIDParam(c)
	if !ok {
		return
	}

	result, err := h.concoursSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		handleEventError(c, err)
		return
	}

	response.OK(c, result)
}

// Create 创建竞赛
// POST /api/v1/concours
func (h *ConcoursHandler) Create(c *gin.Context) {
	var req dto.CreateConcoursRequest
	if !bindJSON(c, &req) {
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.concoursSvc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		handleEventError(c, err)
		return
	}

	response.Created(c, result)
}

// Update 更新竞赛（乐观锁）
// PUT /api/v1/concours/:id
func (h *ConcoursHandler) Update(c *gin.Context) {
	id, ok := MustGetIDParam(c)
	if !ok {
		return
	}

	var req dto.UpdateConcoursRequest
	if !bindJSON(c, &req) {
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.concoursSvc.Update(c.Request.Context(), id, &req, callerID)
	if err != nil {
		handleEventError(c, err)
		return
	}

	response.OK(c, result)
}

// Delete 删除竞赛及其座位分配
// DELETE /api/v1/concours/:id
func (h *ConcoursHandler) Delete(c *gin.Context) {
	id, ok := MustGetIDParam(c)
	if !ok {
		return
	}

	if err := h.concoursSvc.Delete(c.Request.Context(), id); err != nil {
		handleEventError(c, err)
		return
	}

	response.OK(c, nil)
}
