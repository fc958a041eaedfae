package model

import "time"

// Concours 入学竞赛表，对应 concours
type Concours struct {
	ConcoursID  int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Title       string    `gorm:"type:varchar(200);not null"        json:"title"`
	Description string    `gorm:"type:text"                         json:"description,omitempty"`
	Location    string    `gorm:"type:varchar(200)"                 json:"location,omitempty"`
	StartsAt    time.Time `gorm:"not null"                          json:"starts_at"`
	EndsAt      time.Time `gorm:"not null"                          json:"ends_at"`
	Status      string    `gorm:"type:varchar(20);not null;default:'scheduled'" json:"status"` // scheduled | cancelled | done
	VersionedModel
}

// TableName 指定表名
func (Concours) TableName() string { return "concours" }
