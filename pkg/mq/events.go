package mq

import "time"

// 路由键
const (
	RoutingSeatingAssigned = "seating.assigned"
	RoutingSeatingCleared  = "seating.cleared"
)

// SeatingEvent 座位分配变更事件，下游据此生成召集单或发送通知
type SeatingEvent struct {
	EventID    string    `json:"event_id"`
	OwnerType  string    `json:"owner_type"` // exam | concours
	OwnerID    int64     `json:"owner_id"`
	Headcount  int       `json:"headcount"`
	RoomCount  int       `json:"room_count"`
	OccurredAt time.Time `json:"occurred_at"`
}
