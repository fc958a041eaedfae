package dto

import "time"

// ── 考试 / 竞赛模块 DTO ──

// CreateExamRequest 创建考试请求
type CreateExamRequest struct {
	Title      string    `json:"title"       binding:"required,min=1,max=200"`
	ModuleName string    `json:"module_name" binding:"omitempty,max=200"`
	StartsAt   time.Time `json:"starts_at"   binding:"required"`
	EndsAt     time.Time `json:"ends_at"     binding:"required,gtfield=StartsAt"`
}

// UpdateExamRequest 更新考试请求
type UpdateExamRequest struct {
	Title      *string    `json:"title"       binding:"omitempty,min=1,max=200"`
	ModuleName *string    `json:"module_name" binding:"omitempty,max=200"`
	StartsAt   *time.Time `json:"starts_at"`
	EndsAt     *time.Time `json:"ends_at"`
	Status     *string    `json:"status"      binding:"omitempty,oneof=scheduled cancelled done"`
	Version    int        `json:"version"     binding:"required,min=1"`
}

// ExamResponse 考试信息响应
type ExamResponse struct {
	ID         int64  `json:"id"`
	Title      string `json:"title"`
	ModuleName string `json:"module_name,omitempty"`
	StartsAt   string `json:"starts_at"`
	EndsAt     string `json:"ends_at"`
	Status     string `json:"status"`
	Version    int    `json:"version"`
}

// CreateConcoursRequest 创建竞赛请求
type CreateConcoursRequest struct {
	Title       string    `json:"title"       binding:"required,min=1,max=200"`
	Description string    `json:"description" binding:"omitempty,max=2000"`
	Location    string    `json:"location"    binding:"omitempty,max=200"`
	StartsAt    time.Time `json:"starts_at"   binding:"required"`
	EndsAt      time.Time `json:"ends_at"     binding:"required,gtfield=StartsAt"`
}

// UpdateConcoursRequest 更新竞赛请求
type UpdateConcoursRequest struct {
	Title       *string    `json:"title"       binding:"omitempty,min=1,max=200"`
	Description *string    `json:"description" binding:"omitempty,max=2000"`
	Location    *string    `json:"location"    binding:"omitempty,max=200"`
	StartsAt    *time.Time `json:"starts_at"`
	EndsAt      *time.Time `json:"ends_at"`
	Status      *string    `json:"status"      binding:"omitempty,oneof=scheduled cancelled done"`
	Version     int        `json:"version"     binding:"required,min=1"`
}

// ConcoursResponse 竞赛信息响应
type ConcoursResponse struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Location    string `json:"location,omitempty"`
	StartsAt    string `json:"starts_at"`
	EndsAt      string `json:"ends_at"`
	Status      string `json:"status"`
	Version     int    `json:"version"`
}

// EventListRequest 考试 / 竞赛列表查询参数
type EventListRequest struct {
	PaginationRequest
	Status string `form:"status" binding:"omitempty,oneof=scheduled cancelled done"`
}
