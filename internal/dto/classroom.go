package dto

// ── 教室模块 DTO ──

// CreateClassroomRequest 创建教室请求
type CreateClassroomRequest struct {
	Name     string `json:"name"     binding:"required,min=1,max=100"`
	Building string `json:"building" binding:"omitempty,max=100"`
	Capacity int    `json:"capacity" binding:"required,min=1,max=10000"`
}

// UpdateClassroomRequest 更新教室请求
type UpdateClassroomRequest struct {
	Name     *string `json:"name"     binding:"omitempty,min=1,max=100"`
	Building *string `json:"building" binding:"omitempty,max=100"`
	Capacity *int    `json:"capacity" binding:"omitempty,min=1,max=10000"`
	Version  int     `json:"version"  binding:"required,min=1"`
}

// ClassroomListRequest 教室列表查询参数
type ClassroomListRequest struct {
	PaginationRequest
	Building string `form:"building" binding:"omitempty,max=100"`
}

// ClassroomResponse 教室信息响应
type ClassroomResponse struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Building  string `json:"building,omitempty"`
	Capacity  int    `json:"capacity"`
	Version   int    `json:"version"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}
