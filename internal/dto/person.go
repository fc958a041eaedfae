package dto

// ── 学生 / 竞赛考生模块 DTO ──

// CreateStudentRequest 创建学生请求
type CreateStudentRequest struct {
	StudentNumber string `json:"student_number" binding:"required,min=1,max=30"`
	FirstName     string `json:"first_name"     binding:"required,min=1,max=100"`
	LastName      string `json:"last_name"      binding:"required,min=1,max=100"`
	Email         string `json:"email"          binding:"omitempty,email,max=255"`
}

// StudentResponse 学生信息响应
type StudentResponse struct {
	ID            int64  `json:"id"`
	StudentNumber string `json:"student_number"`
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	Email         string `json:"email,omitempty"`
}

// CreateCandidateRequest 创建竞赛考生请求
type CreateCandidateRequest struct {
	CIN       string `json:"cin"        binding:"required,min=1,max=30"`
	FirstName string `json:"first_name" binding:"required,min=1,max=100"`
	LastName  string `json:"last_name"  binding:"required,min=1,max=100"`
	Email     string `json:"email"      binding:"omitempty,email,max=255"`
}

// CandidateResponse 竞赛考生信息响应
type CandidateResponse struct {
	ID        int64  `json:"id"`
	CIN       string `json:"cin"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email,omitempty"`
}

// PersonListRequest 人员列表查询参数
type PersonListRequest struct {
	PaginationRequest
	Keyword string `form:"keyword" binding:"omitempty,max=100"`
}
