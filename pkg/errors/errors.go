package errors

import "errors"

// ErrOptimisticLock 乐观锁冲突：记录已被其他操作修改
var ErrOptimisticLock = errors.New("数据已被其他操作修改，请刷新后重试")

// ErrCacheMiss 缓存未命中（包括缓存未启用）
var ErrCacheMiss = errors.New("缓存未命中")

// ErrCapacityBelowAssigned 教室新容量小于该教室已分配的最大座位号
var ErrCapacityBelowAssigned = errors.New("教室容量小于已分配的座位号")

// ErrSeatBeyondCapacity 写入时座位号超出教室当前容量（容量在计算后被修改）
var ErrSeatBeyondCapacity = errors.New("座位号超出教室当前容量")
