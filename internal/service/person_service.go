package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/MohamedBENIAICH/Exam-Planning-backend-sub000/internal/dto"
	"github.com/MohamedBENIAICH/Exam-Planning-backend-sub000/internal/model"
	"github.com/MohamedBENIAICH/Exam-Planning-backend-sub000/internal/repository"
)

// ── 学生 / 竞赛考生模块业务错误 ──

var (
	ErrStudentNotFound    = errors.New("学生不存在")
	ErrStudentNumberTaken = errors.New("学号已存在")
	ErrCandidateNotFound  = errors.New("竞赛考生不存在")
	ErrCandidateCINTaken  = errors.New("身份证号已存在")
)

// StudentService 学生业务接口
type StudentService interface {
	Create(ctx context.Context, req *dto.CreateStudentRequest, callerID string) (*dto.StudentResponse, error)
	GetByID(ctx context.Context, id int64) (*dto.StudentResponse, error)
	List(ctx context.Context, req *dto.PersonListRequest) ([]dto.StudentResponse, int64, error)
}

type studentService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewStudentService 创建 StudentService 实例
func NewStudentService(repo *repository.Repository, logger *zap.Logger) StudentService {
	return &studentService{repo: repo, logger: logger}
}

func (s *studentService) Create(ctx context.Context, req *dto.CreateStudentRequest, callerID string) (*dto.StudentResponse, error) {
	student := &model.Student{
		StudentNumber: req.StudentNumber,
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		Email:         req.Email,
	}
	student.CreatedBy = &callerID
	student.UpdatedBy = &callerID

	if err := s.repo.Student.Create(ctx, student); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrStudentNumberTaken
		}
		s.logger.Error("创建学生失败", zap.Error(err))
		return nil, err
	}
	return toStudentResponse(student), nil
}

func (s *studentService) GetByID(ctx context.Context, id int64) (*dto.StudentResponse, error) {
	student, err := s.repo.Student.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStudentNotFound
		}
		s.logger.Error("查询学生失败", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}
	return toStudentResponse(student), nil
}

func (s *studentService) List(ctx context.Context, req *dto.PersonListRequest) ([]dto.StudentResponse, int64, error) {
	students, total, err := s.repo.Student.List(ctx, req.Keyword, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("列出学生失败", zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.StudentResponse, 0, len(students))
	for i := range students {
		result = append(result, *toStudentResponse(&students[i]))
	}
	return result, total, nil
}

func toStudentResponse(st *model.Student) *dto.StudentResponse {
	return &dto.StudentResponse{
		ID:            st.StudentID,
		StudentNumber: st.StudentNumber,
		FirstName:     st.FirstName,
		LastName:      st.LastName,
		Email:         st.Email,
	}
}

// CandidateService 竞赛考生业务接口
type CandidateService interface {
	Create(ctx context.Context, req *dto.CreateCandidateRequest, callerID string) (*dto.CandidateResponse, error)
	GetByID(ctx context.Context, id int64) (*dto.CandidateResponse, error)
	List(ctx context.Context, req *dto.PersonListRequest) ([]dto.CandidateResponse, int64, error)
}

type candidateService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewCandidateService 创建 CandidateService 实例
func NewCandidateService(repo *repository.Repository, logger *zap.Logger) CandidateService {
	return &candidateService{repo: repo, logger: logger}
}

func (s *candidateService) Create(ctx context.Context, req *dto.CreateCandidateRequest, callerID string) (*dto.CandidateResponse, error) {
	candidate := &model.Candidate{
		CIN:       req.CIN,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
	}
	candidate.CreatedBy = &callerID
	candidate.UpdatedBy = &callerID

	if err := s.repo.Candidate.Create(ctx, candidate); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrCandidateCINTaken
		}
		s.logger.Error("创建竞赛考生失败", zap.Error(err))
		return nil, err
	}
	return toCandidateResponse(candidate), nil
}

func (s *candidateService) GetByID(ctx context.Context, id int64) (*dto.CandidateResponse, error) {
	candidate, err := s.repo.Candidate.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCandidateNotFound
		}
		s.logger.Error("查询竞赛考生失败", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}
	return toCandidateResponse(candidate), nil
}

func (s *candidateService) List(ctx context.Context, req *dto.PersonListRequest) ([]dto.CandidateResponse, int64, error) {
	candidates, total, err := s.repo.Candidate.List(ctx, req.Keyword, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("列出竞赛考生失败", zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.CandidateResponse, 0, len(candidates))
	for i := range candidates {
		result = append(result, *toCandidateResponse(&candidates[i]))
	}
	return result, total, nil
}

func toCandidateResponse(c *model.Candidate) *dto.CandidateResponse {
	return &dto.CandidateResponse{
		ID:        c.CandidateID,
		CIN:       c.CIN,
		FirstName: c.FirstName,
		LastName:  c.LastName,
		Email:     c.Email,
	}
}
