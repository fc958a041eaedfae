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

// ── 教室模块业务错误 ──

var (
	ErrClassroomNotFound      = errors.New("教室不存在")
	ErrClassroomNameTaken     = errors.New("教室名称已存在")
	ErrClassroomInUse         = errors.New("教室已被座位分配引用，无法删除")
	ErrClassroomCapacityInUse = errors.New("新容量小于教室已分配的最大座位号")
)

// ClassroomService 教室业务接口
type ClassroomService interface {
	Create(ctx context.Context, req *dto.CreateClassroomRequest, callerID string) (*dto.ClassroomResponse, error)
	GetByID(ctx context.Context, id int64) (*dto.ClassroomResponse, error)
	List(ctx context.Context, req *dto.ClassroomListRequest) ([]dto.ClassroomResponse, int64, error)
	Update(ctx context.Context, id int64, req *dto.UpdateClassroomRequest, callerID string) (*dto.ClassroomResponse, error)
	Delete(ctx context.Context, id int64) error
}

type classroomService struct {
	repo   *repository.Repository
	cache  *SeatingCache
	logger *zap.Logger
}

// NewClassroomService 创建 ClassroomService 实例
// 教室改名或改容量后，引用它的座位分配缓存随之失效
func NewClassroomService(repo *repository.Repository, cache *SeatingCache, logger *zap.Logger) ClassroomService {
	return &classroomService{repo: repo, cache: cache, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *classroomService) Create(ctx context.Context, req *dto.CreateClassroomRequest, callerID string) (*dto.ClassroomResponse, error) {
	room := &model.Classroom{
		Name:     req.Name,
		Building: req.Building,
		Capacity: req.Capacity,
	}
	room.CreatedBy = &callerID
	room.UpdatedBy = &callerID

	if err := s.repo.Classroom.Create(ctx, room); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrClassroomNameTaken
		}
		s.logger.Error("创建教室失败", zap.Error(err))
		return nil, err
	}

	return toClassroomResponse(room), nil
}

// ────────────────────── GetByID ──────────────────────

func (s *classroomService) GetByID(ctx context.Context, id int64) (*dto.ClassroomResponse, error) {
	room, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return toClassroomResponse(room), nil
}

// ────────────────────── List ──────────────────────

func (s *classroomService) List(ctx context.Context, req *dto.ClassroomListRequest) ([]dto.ClassroomResponse, int64, error) {
	rooms, total, err := s.repo.Classroom.List(ctx, req.Building, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("列出教室失败", zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.ClassroomResponse, 0, len(rooms))
	for i := range rooms {
		result = append(result, *toClassroomResponse(&rooms[i]))
	}
	return result, total, nil
}

// ────────────────────── Update ──────────────────────

func (s *classroomService) Update(ctx context.Context, id int64, req *dto.UpdateClassroomRequest, callerID string) (*dto.ClassroomResponse, error) {
	room, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if room.Version != req.Version {
		return nil, pkgerrors.ErrOptimisticLock
	}

	if req.Name != nil {
		room.Name = *req.Name
	}
	if req.Building != nil {
		room.Building = *req.Building
	}
	if req.Capacity != nil {
		room.Capacity = *req.Capacity
	}
	room.UpdatedBy = &callerID

	if err := s.repo.Classroom.Update(ctx, room); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrClassroomNameTaken
		}
		if errors.Is(err, pkgerrors.ErrOptimisticLock) {
			return nil, err
		}
		if errors.Is(err, pkgerrors.ErrCapacityBelowAssigned) {
			// 缩容检查与更新在同一事务内，锁住教室行
			return nil, ErrClassroomCapacityInUse
		}
		s.logger.Error("更新教室失败", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}

	s.invalidateSeating(ctx, id)
	return toClassroomResponse(room), nil
}

// ────────────────────── Delete ──────────────────────

func (s *classroomService) Delete(ctx context.Context, id int64) error {
	if _, err := s.get(ctx, id); err != nil {
		return err
	}

	inUse, err := s.repo.SeatAssignment.CountByClassroom(ctx, id)
	if err != nil {
		s.logger.Error("查询教室引用失败", zap.Int64("id", id), zap.Error(err))
		return err
	}
	if inUse > 0 {
		return ErrClassroomInUse
	}

	if err := s.repo.Classroom.Delete(ctx, id); err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return ErrClassroomNotFound
		case errors.Is(err, gorm.ErrForeignKeyViolated):
			// 检查与删除之间有新分配写入
			return ErrClassroomInUse
		}
		s.logger.Error("删除教室失败", zap.Int64("id", id), zap.Error(err))
		return err
	}

	return nil
}

// ── 内部辅助方法 ──

func (s *classroomService) get(ctx context.Context, id int64) (*model.Classroom, error) {
	room, err := s.repo.Classroom.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClassroomNotFound
		}
		s.logger.Error("查询教室失败", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}
	return room, nil
}

// invalidateSeating 使引用该教室的座位分配缓存失效，失败仅记录日志
func (s *classroomService) invalidateSeating(ctx context.Context, classroomID int64) {
	owners, err := s.repo.SeatAssignment.OwnersByClassroom(ctx, classroomID)
	if err != nil {
		s.logger.Warn("查询教室关联的座位分配失败", zap.Int64("id", classroomID), zap.Error(err))
		return
	}
	for _, owner := range owners {
		s.cache.Invalidate(ctx, owner)
	}
}

func toClassroomResponse(room *model.Classroom) *dto.ClassroomResponse {
	return &dto.ClassroomResponse{
		ID:        room.ClassroomID,
		Name:      room.Name,
		Building:  room.Building,
		Capacity:  room.Capacity,
		Version:   room.Version,
		CreatedAt: room.CreatedAt.Format(time.RFC3339),
		UpdatedAt: room.UpdatedAt.Format(time.RFC3339),
	}
}
