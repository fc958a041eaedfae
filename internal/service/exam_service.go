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

// ErrInvalidTimeRange 结束时间不晚于开始时间（考试与竞赛共用）
var ErrInvalidTimeRange = errors.New("结束时间必须晚于开始时间")

// ExamService 考试业务接口
type ExamService interface {
	Create(ctx context.Context, req *dto.CreateExamRequest, callerID string) (*dto.ExamResponse, error)
	GetByID(ctx context.Context, id int64) (*dto.ExamResponse, error)
	List(ctx context.Context, req *dto.EventListRequest) ([]dto.ExamResponse, int64, error)
	Update(ctx context.Context, id int64, req *dto.UpdateExamRequest, callerID string) (*dto.ExamResponse, error)
	// Delete 删除考试及其全部座位分配
	Delete(ctx context.Context, id int64) error
}

type examService struct {
	repo   *repository.Repository
	cache  *SeatingCache
	logger *zap.Logger
}

// NewExamService 创建 ExamService 实例
func NewExamService(repo *repository.Repository, cache *SeatingCache, logger *zap.Logger) ExamService {
	return &examService{repo: repo, cache: cache, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *examService) Create(ctx context.Context, req *dto.CreateExamRequest, callerID string) (*dto.ExamResponse, error) {
	if !req.EndsAt.After(req.StartsAt) {
		return nil, ErrInvalidTimeRange
	}

	exam := &model.Exam{
		Title:      req.Title,
		ModuleName: req.ModuleName,
		StartsAt:   req.StartsAt,
		EndsAt:     req.EndsAt,
		Status:     "scheduled",
	}
	exam.CreatedBy = &callerID
	exam.UpdatedBy = &callerID

	if err := s.repo.Exam.Create(ctx, exam); err != nil {
		s.logger.Error("创建考试失败", zap.Error(err))
		return nil, err
	}

	return toExamResponse(exam), nil
}

// ────────────────────── GetByID ──────────────────────

func (s *examService) GetByID(ctx context.Context, id int64) (*dto.ExamResponse, error) {
	exam, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return toExamResponse(exam), nil
}

// ────────────────────── List ──────────────────────

func (s *examService) List(ctx context.Context, req *dto.EventListRequest) ([]dto.ExamResponse, int64, error) {
	exams, total, err := s.repo.Exam.List(ctx, req.Status, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("列出考试失败", zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.ExamResponse, 0, len(exams))
	for i := range exams {
		result = append(result, *toExamResponse(&exams[i]))
	}
	return result, total, nil
}

// ────────────────────── Update ──────────────────────

func (s *examService) Update(ctx context.Context, id int64, req *dto.UpdateExamRequest, callerID string) (*dto.ExamResponse, error) {
	exam, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if exam.Version != req.Version {
		return nil, pkgerrors.ErrOptimisticLock
	}

	if req.Title != nil {
		exam.Title = *req.Title
	}
	if req.ModuleName != nil {
		exam.ModuleName = *req.ModuleName
	}
	if req.StartsAt != nil {
		exam.StartsAt = *req.StartsAt
	}
	if req.EndsAt != nil {
		exam.EndsAt = *req.EndsAt
	}
	if req.Status != nil {
		exam.Status = *req.Status
	}
	if !exam.EndsAt.After(exam.StartsAt) {
		return nil, ErrInvalidTimeRange
	}
	exam.UpdatedBy = &callerID

	if err := s.repo.Exam.Update(ctx, exam); err != nil {
		if !errors.Is(err, pkgerrors.ErrOptimisticLock) {
			s.logger.Error("更新考试失败", zap.Int64("id", id), zap.Error(err))
		}
		return nil, err
	}

	return toExamResponse(exam), nil
}

// ────────────────────── Delete ──────────────────────

func (s *examService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Exam.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrExamNotFound
		}
		s.logger.Error("删除考试失败", zap.Int64("id", id), zap.Error(err))
		return err
	}

	s.cache.Invalidate(ctx, model.SeatOwner{Type: model.OwnerExam, ID: id})
	return nil
}

// ── 内部辅助方法 ──

func (s *examService) get(ctx context.Context, id int64) (*model.Exam, error) {
	exam, err := s.repo.Exam.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrExamNotFound
		}
		s.logger.Error("查询考试失败", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}
	return exam, nil
}

func toExamResponse(exam *model.Exam) *dto.ExamResponse {
	return &dto.ExamResponse{
		ID:         exam.ExamID,
		Title:      exam.Title,
		ModuleName: exam.ModuleName,
		StartsAt:   exam.StartsAt.Format(time.RFC3339),
		EndsAt:     exam.EndsAt.Format(time.RFC3339),
		Status:     exam.Status,
		Version:    exam.Version,
	}
}
