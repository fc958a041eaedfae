package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/MohamedBENIAICH/Exam-Planning-backend-sub000/internal/api/middleware"
	"github.com/MohamedBENIAICH/Exam-Planning-backend-sub000/pkg/response"
)

// MustGetUserID 从 Gin 上下文中安全提取 user_id。
// 如果 JWT 中间件未正确注入 user_id，返回 false 并写入 401 响应。
// 调用方应在 ok=false 时直接 return。
func MustGetUserID(c *gin.Context) (string, bool) {
	v, exists := c.Get(middleware.ContextUserID)
	if !exists {
		response.Unauthorized(c, response.CodeUnauthorized, "未认证")
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.Unauthorized(c, response.CodeUnauthorized, "未认证")
		return "", false
	}
	return s, true
}

// MustGetIDParam 解析路径参数 :id 为正整数，失败时写入 400
func MustGetIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(c, response.CodeBadRequest, "ID 必须为正整数")
		return 0, false
	}
	return id, true
}
