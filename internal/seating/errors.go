package seating

import (
	"errors"
	"fmt"
	"strings"
)

// ErrAssignmentOverflow 内部不变量被破坏：容量预检通过但座位游标越过了最后一间教室。
// 出现即说明算法有缺陷，不应重试。
var ErrAssignmentOverflow = errors.New("座位分配溢出：游标越过最后一间教室")

// InvalidInputError 输入形状非法（教室为空、容量非正、ID 重复等），在任何写入前返回
type InvalidInputError struct {
	Problems []string
}

func (e *InvalidInputError) Error() string {
	return "座位分配输入无效: " + strings.Join(e.Problems, "; ")
}

// InsufficientCapacityError 人数超过教室总容量
type InsufficientCapacityError struct {
	Headcount     int `json:"headcount"`
	TotalCapacity int `json:"total_capacity"`
	Shortfall     int `json:"shortfall"`
}

func (e *InsufficientCapacityError) Error() string {
	return fmt.Sprintf("教室容量不足: 人数 %d，总容量 %d，缺少 %d 个座位",
		e.Headcount, e.TotalCapacity, e.Shortfall)
}

// NotFoundError 引用的教室或人员不存在，逐一列出缺失项
type NotFoundError struct {
	MissingRoomIDs []int64  `json:"missing_classroom_ids,omitempty"`
	MissingPeople  []string `json:"missing_people,omitempty"`
}

func (e *NotFoundError) Error() string {
	parts := make([]string, 0, 2)
	if len(e.MissingRoomIDs) > 0 {
		parts = append(parts, fmt.Sprintf("教室 %v", e.MissingRoomIDs))
	}
	if len(e.MissingPeople) > 0 {
		parts = append(parts, fmt.Sprintf("人员 %v", e.MissingPeople))
	}
	return "引用不存在: " + strings.Join(parts, ", ")
}

// Empty 没有任何缺失项时返回 true
func (e *NotFoundError) Empty() bool {
	return len(e.MissingRoomIDs) == 0 && len(e.MissingPeople) == 0
}

// TransactionError 替换事务失败（约束冲突、死锁、超时），事务已整体回滚，可安全重试
type TransactionError struct {
	Op  string
	Err error
}

func (e *TransactionError) Error() string {
	return fmt.Sprintf("座位分配事务失败(%s): %v", e.Op, e.Err)
}

func (e *TransactionError) Unwrap() error { return e.Err }
