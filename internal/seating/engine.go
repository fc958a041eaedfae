// Package seating 实现考场座位分配引擎。
//
// 引擎是纯函数：给定教室与有序人员列表，按容量降序装填教室，
// 每间教室内座位号从 1 连续递增。持久化（整体替换事务）由 repository 层负责。
package seating

import (
	"fmt"
	"sort"
)

// Room 可被分配座位的教室
type Room interface {
	RoomID() int64
	RoomCapacity() int
}

// Person 需要安排座位的人员（学生或考生）
type Person interface {
	PersonID() int64
}

// Seat 一条分配记录：人员 → 教室/座位号
type Seat[R Room, P Person] struct {
	Room   R
	Person P
	Number int
}

// RoomLoad 单间教室的分配汇总，Seats 按座位号升序
type RoomLoad[R Room, P Person] struct {
	Room      R
	Assigned  int
	Available int
	Seats     []Seat[R, P]
}

// Plan 一个归属方（考试或竞赛）的完整分配结果
type Plan[R Room, P Person] struct {
	OwnerID int64
	Seats   []Seat[R, P]
	// Rooms 仅包含至少分配了一人的教室，顺序与装填顺序一致
	Rooms []RoomLoad[R, P]
}

// Assign 计算座位分配。
//
// 校验失败返回 *InvalidInputError，容量不足返回 *InsufficientCapacityError，
// 两者都不会产生任何部分结果。相同输入总是得到相同输出。
func Assign[R Room, P Person](ownerID int64, rooms []R, people []P) (*Plan[R, P], error) {
	if err := validate(rooms, people); err != nil {
		return nil, err
	}

	total := TotalCapacity(rooms)
	if len(people) > total {
		return nil, &InsufficientCapacityError{
			Headcount:     len(people),
			TotalCapacity: total,
			Shortfall:     len(people) - total,
		}
	}

	return place(ownerID, SortRooms(rooms), people)
}

// TotalCapacity 教室总容量
func TotalCapacity[R Room](rooms []R) int {
	total := 0
	for _, r := range rooms {
		total += r.RoomCapacity()
	}
	return total
}

// SortRooms 返回按容量降序排列的副本；容量相同按教室 ID 升序
func SortRooms[R Room](rooms []R) []R {
	sorted := make([]R, len(rooms))
	copy(sorted, rooms)
	sort.SliceStable(sorted, func(i, j int) bool {
		ci, cj := sorted[i].RoomCapacity(), sorted[j].RoomCapacity()
		if ci != cj {
			return ci > cj
		}
		return sorted[i].RoomID() < sorted[j].RoomID()
	})
	return sorted
}

func validate[R Room, P Person](rooms []R, people []P) error {
	var problems []string

	if len(rooms) == 0 {
		problems = append(problems, "至少需要一间教室")
	}

	seenRooms := make(map[int64]bool, len(rooms))
	for _, r := range rooms {
		if r.RoomCapacity() <= 0 {
			problems = append(problems, fmt.Sprintf("教室 %d 容量必须大于 0（当前 %d）", r.RoomID(), r.RoomCapacity()))
		}
		if seenRooms[r.RoomID()] {
			problems = append(problems, fmt.Sprintf("教室 %d 重复", r.RoomID()))
		}
		seenRooms[r.RoomID()] = true
	}

	seenPeople := make(map[int64]bool, len(people))
	for _, p := range people {
		if seenPeople[p.PersonID()] {
			problems = append(problems, fmt.Sprintf("人员 %d 重复", p.PersonID()))
		}
		seenPeople[p.PersonID()] = true
	}

	if len(problems) > 0 {
		return &InvalidInputError{Problems: problems}
	}
	return nil
}

// place 在已排序的教室上顺序装填人员。调用方须保证容量足够。
func place[R Room, P Person](ownerID int64, sorted []R, people []P) (*Plan[R, P], error) {
	plan := &Plan[R, P]{
		OwnerID: ownerID,
		Seats:   make([]Seat[R, P], 0, len(people)),
	}
	if len(people) == 0 {
		return plan, nil
	}

	roomIdx, seatNo := 0, 1
	loadIdx := -1
	for _, p := range people {
		for roomIdx < len(sorted) && seatNo > sorted[roomIdx].RoomCapacity() {
			roomIdx++
			seatNo = 1
		}
		if roomIdx >= len(sorted) {
			return nil, fmt.Errorf("%w: 人员 %d 无座位可分配", ErrAssignmentOverflow, p.PersonID())
		}

		room := sorted[roomIdx]
		if loadIdx < 0 || plan.Rooms[loadIdx].Room.RoomID() != room.RoomID() {
			plan.Rooms = append(plan.Rooms, RoomLoad[R, P]{Room: room})
			loadIdx = len(plan.Rooms) - 1
		}

		seat := Seat[R, P]{Room: room, Person: p, Number: seatNo}
		plan.Seats = append(plan.Seats, seat)
		plan.Rooms[loadIdx].Seats = append(plan.Rooms[loadIdx].Seats, seat)
		seatNo++
	}

	for i := range plan.Rooms {
		load := &plan.Rooms[i]
		load.Assigned = len(load.Seats)
		load.Available = load.Room.RoomCapacity() - load.Assigned
	}

	return plan, nil
}
