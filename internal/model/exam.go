package model

import "time"

// Exam 考试表，对应 exams
type Exam struct {
	ExamID     int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Title      string    `gorm:"type:varchar(200);not null"        json:"title"`
	ModuleName string    `gorm:"type:varchar(200)"                 json:"module_name,omitempty"`
	StartsAt   time.Time `gorm:"not null"                          json:"starts_at"`
	EndsAt     time.Time `gorm:"not null"                          json:"ends_at"`
	Status     string    `gorm:"type:varchar(20);not null;default:'scheduled'" json:"status"` // scheduled | cancelled | done
	VersionedModel
}

// TableName 指定表名
func (Exam) TableName() string { return "exams" }
