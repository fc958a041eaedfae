package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/MohamedBENIAICH/Exam-Planning-backend-sub000/internal/model"
)

// StudentRepository 学生数据访问接口
type StudentRepository interface {
	Create(ctx context.Context, student *model.Student) error
	GetByID(ctx context.Context, id int64) (*model.Student, error)
	GetByIDs(ctx context.Context, ids []int64) ([]model.Student, error)
	GetByNumbers(ctx context.Context, numbers []string) ([]model.Student, error)
	List(ctx context.Context, keyword string, offset, limit int) ([]model.Student, int64, error)
}

type studentRepo struct {
	db *gorm.DB
}

// NewStudentRepo 创建 StudentRepository 实例
func NewStudentRepo(db *gorm.DB) StudentRepository {
	return &studentRepo{db: db}
}

func (r *studentRepo) Create(ctx context.Context, student *model.Student) error {
	return r.db.WithContext(ctx).Create(student).Error
}

func (r *studentRepo) GetByID(ctx context.Context, id int64) (*model.Student, error) {
	var student model.Student
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&student).Error
	if err != nil {
		return nil, err
	}
	return &student, nil
}

func (r *studentRepo) GetByIDs(ctx context.Context, ids []int64) ([]model.Student, error) {
	var students []model.Student
	if len(ids) == 0 {
		return students, nil
	}
	err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&students).Error
	return students, err
}

// GetByNumbers 按学号批量查询，结果顺序不保证与入参一致
func (r *studentRepo) GetByNumbers(ctx context.Context, numbers []string) ([]model.Student, error) {
	var students []model.Student
	if len(numbers) == 0 {
		return students, nil
	}
	err := r.db.WithContext(ctx).
		Where("student_number IN ?", numbers).
		Find(&students).Error
	return students, err
}

func (r *studentRepo) List(ctx context.Context, keyword string, offset, limit int) ([]model.Student, int64, error) {
	var students []model.Student
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Student{})
	if keyword != "" {
		like := "%" + keyword + "%"
		db = db.Where("student_number ILIKE ? OR last_name ILIKE ? OR first_name ILIKE ?", like, like, like)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.Order("last_name ASC, first_name ASC, id ASC").
		Offset(offset).Limit(limit).
		Find(&students).Error
	return students, total, err
}
