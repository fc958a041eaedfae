package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/MohamedBENIAICH/Exam-Planning-backend-sub000/internal/model"
	pkgerrors "github.com/MohamedBENIAICH/Exam-Planning-backend-sub000/pkg/errors"
)

// ConcoursRepository 竞赛数据访问接口
type ConcoursRepository interface {
	Create(ctx context.Context, c *model.Concours) error
	GetByID(ctx context.Context, id int64) (*model.Concours, error)
	List(ctx context.Context, status string, offset, limit int) ([]model.Concours, int64, error)
	Update(ctx context.Context, c *model.Concours) error
	// Delete 在同一事务内先删除该竞赛的座位分配再删除竞赛
	Delete(ctx context.Context, id int64) error
}

type concoursRepo struct {
	db *gorm.DB
}

// NewConcoursRepo 创建 ConcoursRepository 实例
func NewConcoursRepo(db *gorm.DB) ConcoursRepository {
	return &concoursRepo{db: db}
}

func (r *concoursRepo) Create(ctx context.Context, c *model.Concours) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *concoursRepo) GetByID(ctx context.Context, id int64) (*model.Concours, error) {
	var c model.Concours
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *concoursRepo) List(ctx context.Context, status string, offset, limit int) ([]model.Concours, int64, error) {
	var list []model.Concours
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Concours{})
	if status != "" {
		db = db.Where("status = ?", status)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.Order("starts_at DESC, id DESC").
		Offset(offset).Limit(limit).
		Find(&list).Error
	return list, total, err
}

// Update 乐观锁更新
func (r *concoursRepo) Update(ctx context.Context, c *model.Concours) error {
	oldVersion := c.Version
	result := r.db.WithContext(ctx).
		Model(c).
		Where("id = ? AND version = ?", c.ConcoursID, oldVersion).
		Updates(map[string]interface{}{
			"title":       c.Title,
			"description": c.Description,
			"location":    c.Location,
			"starts_at":   c.StartsAt,
			"ends_at":     c.EndsAt,
			"status":      c.Status,
			"updated_by":  c.UpdatedBy,
			"updated_at":  gorm.Expr("NOW()"),
			"version":     oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	c.Version = oldVersion + 1
	return nil
}

func (r *concoursRepo) Delete(ctx context.Context, id int64) error {
	owner := model.SeatOwner{Type: model.OwnerConcours, ID: id}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 与 ReplaceForOwner 使用同一把锁，进行中的分配提交后才删除
		if err := lockOwner(tx, owner); err != nil {
			return err
		}
		if err := deleteOwnerSeats(tx, owner); err != nil {
			return err
		}
		result := tx.Where("id = ?", id).Delete(&model.Concours{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
