package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/MohamedBENIAICH/Exam-Planning-backend-sub000/internal/model"
	pkgerrors "github.com/MohamedBENIAICH/Exam-Planning-backend-sub000/pkg/errors"
)

// seatInsertBatchSize 批量插入分批大小
const seatInsertBatchSize = 500

// SeatAssignmentRepository 座位分配数据访问接口
type SeatAssignmentRepository interface {
	// ReplaceForOwner 在单个事务内删除归属方的旧分配并写入新分配；任一步失败整体回滚。
	// 归属方已被删除时返回 gorm.ErrRecordNotFound；座位号超出教室当前容量时返回
	// pkgerrors.ErrSeatBeyondCapacity
	ReplaceForOwner(ctx context.Context, owner model.SeatOwner, rows []model.SeatAssignment) error
	// ListByOwner 按教室名称、座位号升序返回分配，预加载教室
	ListByOwner(ctx context.Context, owner model.SeatOwner) ([]model.SeatAssignment, error)
	// DeleteByOwner 删除归属方全部分配，返回删除行数
	DeleteByOwner(ctx context.Context, owner model.SeatOwner) (int64, error)
	CountByClassroom(ctx context.Context, classroomID int64) (int64, error)
	// OwnersByClassroom 引用该教室的全部归属方
	OwnersByClassroom(ctx context.Context, classroomID int64) ([]model.SeatOwner, error)
}

type seatAssignmentRepo struct {
	db *gorm.DB
}

// NewSeatAssignmentRepo 创建 SeatAssignmentRepository 实例
func NewSeatAssignmentRepo(db *gorm.DB) SeatAssignmentRepository {
	return &seatAssignmentRepo{db: db}
}

// lockOwner 获取事务级 advisory lock，跨进程串行化同一归属方的替换
func lockOwner(tx *gorm.DB, owner model.SeatOwner) error {
	return tx.Exec("SELECT pg_advisory_xact_lock(hashtextextended(?, 0))", owner.Key()).Error
}

// ownerTable 归属方所在的表
func ownerTable(owner model.SeatOwner) (string, error) {
	switch owner.Type {
	case model.OwnerExam:
		return "exams", nil
	case model.OwnerConcours:
		return "concours", nil
	default:
		return "", fmt.Errorf("未知的归属方类型: %s", owner.Type)
	}
}

// ensureOwnerRow 在持有 advisory lock 后复查归属方仍存在，并以 FOR SHARE 阻止并发删除
func ensureOwnerRow(tx *gorm.DB, owner model.SeatOwner) error {
	table, err := ownerTable(owner)
	if err != nil {
		return err
	}
	var exists int
	if err := tx.Raw("SELECT 1 FROM "+table+" WHERE id = ? FOR SHARE", owner.ID).Scan(&exists).Error; err != nil {
		return err
	}
	if exists == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// checkCapacity 以 FOR SHARE 锁住涉及的教室并按当前容量复核座位号
// 与教室缩容（FOR UPDATE）互斥
func checkCapacity(tx *gorm.DB, rows []model.SeatAssignment) error {
	maxSeat := make(map[int64]int)
	for _, row := range rows {
		if row.SeatNumber > maxSeat[row.ClassroomID] {
			maxSeat[row.ClassroomID] = row.SeatNumber
		}
	}
	ids := make([]int64, 0, len(maxSeat))
	for id := range maxSeat {
		ids = append(ids, id)
	}

	var rooms []model.Classroom
	if err := tx.Clauses(clause.Locking{Strength: "SHARE"}).
		Select("id", "capacity").
		Where("id IN ?", ids).
		Order("id ASC").
		Find(&rooms).Error; err != nil {
		return err
	}
	for _, room := range rooms {
		if maxSeat[room.ClassroomID] > room.Capacity {
			return fmt.Errorf("%w: 教室 %d 容量 %d，座位号 %d",
				pkgerrors.ErrSeatBeyondCapacity, room.ClassroomID, room.Capacity, maxSeat[room.ClassroomID])
		}
	}
	return nil
}

func deleteOwnerSeats(tx *gorm.DB, owner model.SeatOwner) error {
	return tx.Where("owner_type = ? AND owner_id = ?", owner.Type, owner.ID).
		Delete(&model.SeatAssignment{}).Error
}

func (r *seatAssignmentRepo) ReplaceForOwner(ctx context.Context, owner model.SeatOwner, rows []model.SeatAssignment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockOwner(tx, owner); err != nil {
			return err
		}
		if err := ensureOwnerRow(tx, owner); err != nil {
			return err
		}
		if err := deleteOwnerSeats(tx, owner); err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		if err := checkCapacity(tx, rows); err != nil {
			return err
		}
		for i := range rows {
			rows[i].OwnerType = owner.Type
			rows[i].OwnerID = owner.ID
		}
		return tx.Omit("Classroom").CreateInBatches(&rows, seatInsertBatchSize).Error
	})
}

func (r *seatAssignmentRepo) ListByOwner(ctx context.Context, owner model.SeatOwner) ([]model.SeatAssignment, error) {
	var rows []model.SeatAssignment
	err := r.db.WithContext(ctx).
		Preload("Classroom").
		Joins("JOIN classrooms ON classrooms.id = seat_assignments.classroom_id").
		Where("seat_assignments.owner_type = ? AND seat_assignments.owner_id = ?", owner.Type, owner.ID).
		Order("classrooms.name ASC, seat_assignments.seat_number ASC").
		Find(&rows).Error
	return rows, err
}

func (r *seatAssignmentRepo) DeleteByOwner(ctx context.Context, owner model.SeatOwner) (int64, error) {
	var deleted int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockOwner(tx, owner); err != nil {
			return err
		}
		result := tx.Where("owner_type = ? AND owner_id = ?", owner.Type, owner.ID).
			Delete(&model.SeatAssignment{})
		deleted = result.RowsAffected
		return result.Error
	})
	return deleted, err
}

func (r *seatAssignmentRepo) CountByClassroom(ctx context.Context, classroomID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.SeatAssignment{}).
		Where("classroom_id = ?", classroomID).
		Count(&count).Error
	return count, err
}

func (r *seatAssignmentRepo) OwnersByClassroom(ctx context.Context, classroomID int64) ([]model.SeatOwner, error) {
	var owners []struct {
		OwnerType string
		OwnerID   int64
	}
	err := r.db.WithContext(ctx).
		Model(&model.SeatAssignment{}).
		Distinct("owner_type", "owner_id").
		Where("classroom_id = ?", classroomID).
		Scan(&owners).Error
	if err != nil {
		return nil, err
	}

	result := make([]model.SeatOwner, len(owners))
	for i, o := range owners {
		result[i] = model.SeatOwner{Type: o.OwnerType, ID: o.OwnerID}
	}
	return result, nil
}
