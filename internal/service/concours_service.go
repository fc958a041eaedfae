package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/MohamedBENIAICH/Exam-Planning-backend-sub000/internal/dto"
	"github.com/MohamedBENIAICH/Exam-Planning-backend-sub000/internal/model"
	"github.com/MohamedBENIAICH/Exam-Planning-backend-sub000/internal/repository"
	pkgerrors "github.com/MohamedBENIAICH/Exam-Planning-backend-sub000/pkg/errors"
)

// ConcoursService 入学竞赛业务接口
type ConcoursService interface {
	Create(ctx context.Context, req *dto.CreateConcoursRequest, callerID string) (*dto.ConcoursResponse, error)
	GetByID(ctx context.Context, id int64) (*dto.ConcoursResponse, error)
	List(ctx context.Context, req *dto.EventListRequest) ([]dto.ConcoursResponse, int64, error)
	Update(ctx context.Context, id int64, req *dto.UpdateConcoursRequest, callerID string) (*dto.ConcoursResponse, error)
	// Delete 删除竞赛及其全部座位分配
	Delete(ctx context.Context, id int64) error
}

type concoursService struct {
	repo   *repository.Repository
	cache  *SeatingCache
	logger *zap.Logger
}

// NewConcoursService 创建 ConcoursService 实例
func NewConcoursService(repo *repository.Repository, cache *SeatingCache, logger *zap.Logger) ConcoursService {
	return &concoursService{repo: repo, cache: cache, logger: logger}
}

func (s *concoursService) Create(ctx context.Context, req *dto.CreateConcoursRequest, callerID string) (*dto.ConcoursResponse, error) {
	if !req.EndsAt.After(req.StartsAt) {
		return nil, ErrInvalidTimeRange
	}

	c := &model.Concours{
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		StartsAt:    req.StartsAt,
		EndsAt:      req.EndsAt,
		Status:      "scheduled",
	}
	c.CreatedBy = &callerID
	c.UpdatedBy = &callerID

	if err := s.repo.Concours.Create(ctx, c); err != nil {
		s.logger.Error("创建竞赛失败", zap.Error(err))
		return nil, err
	}

	return toConcoursResponse(c), nil
}

func (s *concoursService) GetByID(ctx context.Context, id int64) (*dto.ConcoursResponse, error) {
	c, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return toConcoursResponse(c), nil
}

func (s *concoursService) List(ctx context.Context, req *dto.EventListRequest) ([]dto.ConcoursResponse, int64, error) {
	list, total, err := s.repo.Concours.List(ctx, req.Status, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("列出竞赛失败", zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.ConcoursResponse, 0, len(list))
	for i := range list {
		result = append(result, *toConcoursResponse(&list[i]))
	}
	return result, total, nil
}

func (s *concoursService) Update(ctx context.Context, id int64, req *dto.UpdateConcoursRequest, callerID string) (*dto.ConcoursResponse, error) {
	c, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.Version != req.Version {
		return nil, pkgerrors.ErrOptimisticLock
	}

	if req.Title != nil {
		c.Title = *req.Title
	}
	if req.Description != nil {
		c.Description = *req.Description
	}
	if req.Location != nil {
		c.Location = *req.Location
	}
	if req.StartsAt != nil {
		c.StartsAt = *req.StartsAt
	}
	if req.EndsAt != nil {
		c.EndsAt = *req.EndsAt
	}
	if req.Status != nil {
		c.Status = *req.Status
	}
	if !c.EndsAt.After(c.StartsAt) {
		return nil, ErrInvalidTimeRange
	}
	c.UpdatedBy = &callerID

	if err := s.repo.Concours.Update(ctx, c); err != nil {
		if !errors.Is(err, pkgerrors.ErrOptimisticLock) {
			s.logger.Error("更新竞赛失败", zap.Int64("id", id), zap.Error(err))
		}
		return nil, err
	}

	return toConcoursResponse(c), nil
}

func (s *concoursService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Concours.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrConcoursNotFound
		}
		s.logger.Error("删除竞赛失败", zap.Int64("id", id), zap.Error(err))
		return err
	}

	s.cache.Invalidate(ctx, model.SeatOwner{Type: model.OwnerConcours, ID: id})
	return nil
}

func (s *concoursService) get(ctx context.Context, id int64) (*model.Concours, error) {
	c, err := s.repo.Concours.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrConcoursNotFound
		}
		s.logger.Error("查询竞赛失败", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}
	return c, nil
}

func toConcoursResponse(c *model.Concours) *dto.ConcoursResponse {
	return &dto.ConcoursResponse{
		ID:          c.ConcoursID,
		Title:       c.Title,
		Description: c.Description,
		Location:    c.Location,
		StartsAt:    c.StartsAt.Format(time.RFC3339),
		EndsAt:      c.EndsAt.Format(time.RFC3339),
		Status:      c.Status,
		Version:     c.Version,
	}
}
