package model

import (
	"fmt"
	"time"
)

// 座位分配归属方类型
const (
	OwnerExam     = "exam"
	OwnerConcours = "concours"
)

// SeatOwner 座位分配的归属方（考试或竞赛）
type SeatOwner struct {
	Type string
	ID   int64
}

// Key 归属方唯一键，如 "exam:12"，用于锁与缓存
func (o SeatOwner) Key() string {
	return fmt.Sprintf("%s:%d", o.Type, o.ID)
}

// SeatAssignment 座位分配表，对应 seat_assignments
// 唯一约束: (owner_type, owner_id, person_id) 与 (owner_type, owner_id, classroom_id, seat_number)
type SeatAssignment struct {
	SeatAssignmentID int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	OwnerType        string    `gorm:"type:varchar(20);not null"         json:"owner_type"` // exam | concours
	OwnerID          int64     `gorm:"not null"                          json:"owner_id"`
	ClassroomID      int64     `gorm:"not null"                          json:"classroom_id"`
	PersonID         int64     `gorm:"not null"                          json:"person_id"`
	SeatNumber       int       `gorm:"not null"                          json:"seat_number"`
	CreatedAt        time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt        time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`

	// 关联
	Classroom *Classroom `gorm:"foreignKey:ClassroomID;references:ClassroomID" json:"classroom,omitempty"`
}

// TableName 指定表名
func (SeatAssignment) TableName() string { return "seat_assignments" }
