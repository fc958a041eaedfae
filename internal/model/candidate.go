package model

// Candidate 竞赛考生表，对应 candidates
type Candidate struct {
	CandidateID int64  `gorm:"column:id;primaryKey;autoIncrement"     json:"id"`
	CIN         string `gorm:"type:varchar(30);not null;uniqueIndex" json:"cin"` // 身份证号
	FirstName   string `gorm:"type:varchar(100);not null"            json:"first_name"`
	LastName    string `gorm:"type:varchar(100);not null"            json:"last_name"`
	Email       string `gorm:"type:varchar(255)"                     json:"email,omitempty"`
	BaseModel
}

// TableName 指定表名
func (Candidate) TableName() string { return "candidates" }

// PersonID 实现 seating.Person
func (c Candidate) PersonID() int64 { return c.CandidateID }
