package model

// Student 学生表，对应 students
type Student struct {
	StudentID     int64  `gorm:"column:id;primaryKey;autoIncrement"     json:"id"`
	StudentNumber string `gorm:"type:varchar(30);not null;uniqueIndex" json:"student_number"` // 学号（自然键）
	FirstName     string `gorm:"type:varchar(100);not null"            json:"first_name"`
	LastName      string `gorm:"type:varchar(100);not null"            json:"last_name"`
	Email         string `gorm:"type:varchar(255)"                     json:"email,omitempty"`
	BaseModel
}

// TableName 指定表名
func (Student) TableName() string { return "students" }

// PersonID 实现 seating.Person
func (s Student) PersonID() int64 { return s.StudentID }
