package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/MohamedBENIAICH/Exam-Planning-backend-sub000/internal/model"
	pkgerrors "github.com/MohamedBENIAICH/Exam-Planning-backend-sub000/pkg/errors"
)

// ClassroomRepository 教室数据访问接口
type ClassroomRepository interface {
	Create(ctx context.Context, room *model.Classroom) error
	GetByID(ctx context.Context, id int64) (*model.Classroom, error)
	GetByIDs(ctx context.Context, ids []int64) ([]model.Classroom, error)
	List(ctx context.Context, building string, offset, limit int) ([]model.Classroom, int64, error)
	Update(ctx context.Context, room *model.Classroom) error
	Delete(ctx context.Context, id int64) error
}

type classroomRepo struct {
	db *gorm.DB
}

// NewClassroomRepo 创建 ClassroomRepository 实例
func NewClassroomRepo(db *gorm.DB) ClassroomRepository {
	return &classroomRepo{db: db}
}

func (r *classroomRepo) Create(ctx context.Context, room *model.Classroom) error {
	return r.db.WithContext(ctx).Create(room).Error
}

func (r *classroomRepo) GetByID(ctx context.Context, id int64) (*model.Classroom, error) {
	var room model.Classroom
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&room).Error
	if err != nil {
		return nil, err
	}
	return &room, nil
}

// GetByIDs 批量查询，不存在的 ID 不会出现在结果中
func (r *classroomRepo) GetByIDs(ctx context.Context, ids []int64) ([]model.Classroom, error) {
	var rooms []model.Classroom
	if len(ids) == 0 {
		return rooms, nil
	}
	err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Order("id ASC").
		Find(&rooms).Error
	return rooms, err
}

func (r *classroomRepo) List(ctx context.Context, building string, offset, limit int) ([]model.Classroom, int64, error) {
	var rooms []model.Classroom
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Classroom{})
	if building != "" {
		db = db.Where("building = ?", building)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.Order("name ASC").
		Offset(offset).Limit(limit).
		Find(&rooms).Error
	return rooms, total, err
}

// Update 乐观锁更新
// 缩容时在同一事务内以 FOR UPDATE 锁住教室行并复核已用最大座位号，
// 新容量小于该座位号时返回 pkgerrors.ErrCapacityBelowAssigned
func (r *classroomRepo) Update(ctx context.Context, room *model.Classroom) error {
	oldVersion := room.Version
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current model.Classroom
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id", "capacity").
			Where("id = ?", room.ClassroomID).
			Take(&current).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.ErrOptimisticLock
		}
		if err != nil {
			return err
		}

		if room.Capacity < current.Capacity {
			var maxSeat int
			if err := tx.Model(&model.SeatAssignment{}).
				Where("classroom_id = ?", room.ClassroomID).
				Select("COALESCE(MAX(seat_number), 0)").
				Scan(&maxSeat).Error; err != nil {
				return err
			}
			if room.Capacity < maxSeat {
				return pkgerrors.ErrCapacityBelowAssigned
			}
		}

		result := tx.Model(room).
			Where("id = ? AND version = ?", room.ClassroomID, oldVersion).
			Updates(map[string]interface{}{
				"name":       room.Name,
				"building":   room.Building,
				"capacity":   room.Capacity,
				"updated_by": room.UpdatedBy,
				"updated_at": gorm.Expr("NOW()"),
				"version":    oldVersion + 1,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return pkgerrors.ErrOptimisticLock
		}
		return nil
	})
	if err != nil {
		return err
	}
	room.Version = oldVersion + 1
	return nil
}

// Delete 硬删除；仍被座位分配引用时数据库返回外键冲突（gorm.ErrForeignKeyViolated）
func (r *classroomRepo) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.Classroom{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
