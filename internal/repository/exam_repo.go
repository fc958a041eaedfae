package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/MohamedBENIAICH/Exam-Planning-backend-sub000/internal/model"
	pkgerrors "github.com/MohamedBENIAICH/Exam-Planning-backend-sub000/pkg/errors"
)

// ExamRepository 考试数据访问接口
type ExamRepository interface {
	Create(ctx context.Context, exam *model.Exam) error
	GetByID(ctx context.Context, id int64) (*model.Exam, error)
	List(ctx context.Context, status string, offset, limit int) ([]model.Exam, int64, error)
	Update(ctx context.Context, exam *model.Exam) error
	// Delete 在同一事务内先删除该考试的座位分配再删除考试
	Delete(ctx context.Context, id int64) error
}

type examRepo struct {
	db *gorm.DB
}

// NewExamRepo 创建 ExamRepository 实例
func NewExamRepo(db *gorm.DB) ExamRepository {
	return &examRepo{db: db}
}

func (r *examRepo) Create(ctx context.Context, exam *model.Exam) error {
	return r.db.WithContext(ctx).Create(exam).Error
}

func (r *examRepo) GetByID(ctx context.Context, id int64) (*model.Exam, error) {
	var exam model.Exam
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&exam).Error
	if err != nil {
		return nil, err
	}
	return &exam, nil
}

func (r *examRepo) List(ctx context.Context, status string, offset, limit int) ([]model.Exam, int64, error) {
	var exams []model.Exam
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Exam{})
	if status != "" {
		db = db.Where("status = ?", status)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.Order("starts_at DESC, id DESC").
		Offset(offset).Limit(limit).
		Find(&exams).Error
	return exams, total, err
}

// Update 乐观锁更新
func (r *examRepo) Update(ctx context.Context, exam *model.Exam) error {
	oldVersion := exam.Version
	result := r.db.WithContext(ctx).
		Model(exam).
		Where("id = ? AND version = ?", exam.ExamID, oldVersion).
		Updates(map[string]interface{}{
			"title":       exam.Title,
			"module_name": exam.ModuleName,
			"starts_at":   exam.StartsAt,
			"ends_at":     exam.EndsAt,
			"status":      exam.Status,
			"updated_by":  exam.UpdatedBy,
			"updated_at":  gorm.Expr("NOW()"),
			"version":     oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	exam.Version = oldVersion + 1
	return nil
}

func (r *examRepo) Delete(ctx context.Context, id int64) error {
	owner := model.SeatOwner{Type: model.OwnerExam, ID: id}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 与 ReplaceForOwner 使用同一把锁，进行中的分配提交后才删除
		if err := lockOwner(tx, owner); err != nil {
			return err
		}
		if err := deleteOwnerSeats(tx, owner); err != nil {
			return err
		}
		result := tx.Where("id = ?", id).Delete(&model.Exam{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
