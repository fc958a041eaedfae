package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/MohamedBENIAICH/Exam-Planning-backend-sub000/internal/dto"
	"github.com/MohamedBENIAICH/Exam-Planning-backend-sub000/internal/service"
	pkgerrors "github.com/MohamedBENIAICH/Exam-Planning-backend-sub000/pkg/errors"
	"github.com/MohamedBENIAICH/Exam-Planning-backend-sub000/pkg/response"
)

// ClassroomHandler 教室模块 HTTP 处理器
type ClassroomHandler struct {
	classroomSvc service.ClassroomService
}

// NewClassroomHandler 创建 ClassroomHandler
func NewClassroomHandler(classroomSvc service.ClassroomService) *ClassroomHandler {
	return &ClassroomHandler{classroomSvc: classroomSvc}
}

// List 获取教室列表
// GET /api/v1/classrooms
func (h *ClassroomHandler) List(c *gin.Context) {
	var req dto.ClassroomListRequest
	if !bindQuery(c, &req) {
		return
	}

	list, total, err := h.classroomSvc.List(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// Get 获取教室详情
// GET /api/v1/classrooms/:id
func (h *ClassroomHandler) Get(c *gin.Context) {
	id, ok := MustGetIDParam(c)
	if !ok {
		return
	}

	room, err := h.classroomSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleClassroomError(c, err)
		return
	}

	response.OK(c, room)
}

// Create 创建教室
// POST /api/v1/classrooms
func (h *ClassroomHandler) Create(c *gin.Context) {
	var req dto.CreateClassroomRequest
	if !bindJSON(c, &req) {
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	room, err := h.classroomSvc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleClassroomError(c, err)
		return
	}

	response.Created(c, room)
}

// Update 更新教室（乐观锁）
// PUT /api/v1/classrooms/:id
func (h *ClassroomHandler) Update(c *gin.Context) {
	id, ok := MustGetIDParam(c)
	if !ok {
		return
	}

	var req dto.UpdateClassroomRequest
	if !bindJSON(c, &req) {
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	room, err := h.classroomSvc.Update(c.Request.Context(), id, &req, callerID)
	if err != nil {
		h.handleClassroomError(c, err)
		return
	}

	response.OK(c, room)
}

// Delete 删除教室；被座位分配引用时拒绝
// DELETE /api/v1/classrooms/:id
func (h *ClassroomHandler) Delete(c *gin.Context) {
	id, ok := MustGetIDParam(c)
	if !ok {
		return
	}

	if err := h.classroomSvc.Delete(c.Request.Context(), id); err != nil {
		h.handleClassroomError(c, err)
		return
	}

	response.OK(c, nil)
}

// handleClassroomError 统一处理教室模块业务错误
func (h *ClassroomHandler) handleClassroomError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrClassroomNotFound):
		response.NotFound(c, 20001, "教室不存在")
	case errors.Is(err, service.ErrClassroomNameTaken):
		response.Conflict(c, 20002, "教室名称已存在")
	case errors.Is(err, service.ErrClassroomInUse):
		response.Conflict(c, 20003, "教室已被座位分配引用，无法删除")
	case errors.Is(err, service.ErrClassroomCapacityInUse):
		response.Conflict(c, 20004, "新容量小于已分配的座位号")
	case errors.Is(err, pkgerrors.ErrOptimisticLock):
		response.Conflict(c, response.CodeVersionConflict, "数据已被修改，请刷新后重试")
	default:
		response.InternalError(c)
	}
}
