package dto

// ── 座位分配模块 DTO ──

// AssignExamSeatingRequest 考试座位分配请求
// student_numbers 为空数组时清空该考试的分配
type AssignExamSeatingRequest struct {
	ClassroomIDs   []int64  `json:"classroom_ids"   binding:"required,min=1,dive,gt=0"`
	StudentNumbers []string `json:"student_numbers" binding:"required,dive,required,max=30"`
}

// AssignConcoursSeatingRequest 竞赛座位分配请求
type AssignConcoursSeatingRequest struct {
	ClassroomIDs []int64 `json:"classroom_ids" binding:"required,min=1,dive,gt=0"`
	CandidateIDs []int64 `json:"candidate_ids" binding:"required,dive,gt=0"`
}

// SeatingResponse 归属方当前的完整座位分配，按教室分组
type SeatingResponse struct {
	OwnerType string                `json:"owner_type"`
	OwnerID   int64                 `json:"owner_id"`
	Headcount int                   `json:"headcount"`
	Rooms     []SeatingRoomResponse `json:"rooms"`
}

// SeatingRoomResponse 单间教室的分配
type SeatingRoomResponse struct {
	Classroom ClassroomBrief `json:"classroom"`
	Assigned  int            `json:"assigned"`
	Available int            `json:"available"`
	Seats     []SeatResponse `json:"seats"`
}

// ClassroomBrief 教室简要信息
type ClassroomBrief struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Building string `json:"building,omitempty"`
	Capacity int    `json:"capacity"`
}

// SeatResponse 单个座位
type SeatResponse struct {
	SeatNumber int         `json:"seat_number"`
	Person     PersonBrief `json:"person"`
}

// PersonBrief 人员简要信息；Number 为学号或身份证号
type PersonBrief struct {
	ID        int64  `json:"id"`
	Number    string `json:"number"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// ClearSeatingResponse 清空分配响应
type ClearSeatingResponse struct {
	Deleted int64 `json:"deleted"`
}
