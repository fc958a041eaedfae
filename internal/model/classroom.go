package model

// Classroom 教室表，对应 classrooms
type Classroom struct {
	ClassroomID int64  `gorm:"column:id;primaryKey;autoIncrement"      json:"id"`
	Name        string `gorm:"type:varchar(100);not null;uniqueIndex" json:"name"`
	Building    string `gorm:"type:varchar(100)"                      json:"building,omitempty"`
	Capacity    int    `gorm:"not null"                               json:"capacity"`
	VersionedModel
}

// TableName 指定表名
func (Classroom) TableName() string { return "classrooms" }

// RoomID 实现 seating.Room
func (c Classroom) RoomID() int64 { return c.ClassroomID }

// RoomCapacity 实现 seating.Room
func (c Classroom) RoomCapacity() int { return c.Capacity }
