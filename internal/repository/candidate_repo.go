package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/MohamedBENIAICH/Exam-Planning-backend-sub000/internal/model"
)

// CandidateRepository 竞赛考生数据访问接口
type CandidateRepository interface {
	Create(ctx context.Context, candidate *model.Candidate) error
	GetByID(ctx context.Context, id int64) (*model.Candidate, error)
	GetByIDs(ctx context.Context, ids []int64) ([]model.Candidate, error)
	List(ctx context.Context, keyword string, offset, limit int) ([]model.Candidate, int64, error)
}

type candidateRepo struct {
	db *gorm.DB
}

// NewCandidateRepo 创建 CandidateRepository 实例
func NewCandidateRepo(db *gorm.DB) CandidateRepository {
	return &candidateRepo{db: db}
}

func (r *candidateRepo) Create(ctx context.Context, candidate *model.Candidate) error {
	return r.db.WithContext(ctx).Create(candidate).Error
}

func (r *candidateRepo) GetByID(ctx context.Context, id int64) (*model.Candidate, error) {
	var candidate model.Candidate
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&candidate).Error
	if err != nil {
		return nil, err
	}
	return &candidate, nil
}

func (r *candidateRepo) GetByIDs(ctx context.Context, ids []int64) ([]model.Candidate, error) {
	var candidates []model.Candidate
	if len(ids) == 0 {
		return candidates, nil
	}
	err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&candidates).Error
	return candidates, err
}

func (r *candidateRepo) List(ctx context.Context, keyword string, offset, limit int) ([]model.Candidate, int64, error) {
	var candidates []model.Candidate
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Candidate{})
	if keyword != "" {
		like := "%" + keyword + "%"
		db = db.Where("cin ILIKE ? OR last_name ILIKE ? OR first_name ILIKE ?", like, like, like)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.Order("last_name ASC, first_name ASC, id ASC").
		Offset(offset).Limit(limit).
		Find(&candidates).Error
	return candidates, total, err
}
