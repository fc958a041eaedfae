package service

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/puzpuzpuz/xsync/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/MohamedBENIAICH/Exam-Planning-backend-sub000/internal/dto"
	"github.com/MohamedBENIAICH/Exam-Planning-backend-sub000/internal/model"
	"github.com/MohamedBENIAICH/Exam-Planning-backend-sub000/internal/repository"
	"github.com/MohamedBENIAICH/Exam-Planning-backend-sub000/internal/seating"
	"github.com/MohamedBENIAICH/Exam-Planning-backend-sub000/pkg/metrics"
	"github.com/MohamedBENIAICH/Exam-Planning-backend-sub000/pkg/mq"
)

// ── 座位分配模块业务错误 ──

var (
	ErrExamNotFound     = errors.New("考试不存在")
	ErrConcoursNotFound = errors.New("竞赛不存在")
)

// SeatingService 座位分配业务接口
//
// 写操作（分配 / 清空）对同一归属方串行执行：进程内使用按归属方划分的信号量，
// 跨实例依赖 repository 层事务内的 advisory lock。不同归属方之间互不阻塞。
type SeatingService interface {
	AssignExam(ctx context.Context, examID int64, req *dto.AssignExamSeatingRequest) (*dto.SeatingResponse, error)
	AssignConcours(ctx context.Context, concoursID int64, req *dto.AssignConcoursSeatingRequest) (*dto.SeatingResponse, error)
	GetExamSeating(ctx context.Context, examID int64) (*dto.SeatingResponse, error)
	GetConcoursSeating(ctx context.Context, concoursID int64) (*dto.SeatingResponse, error)
	ClearExamSeating(ctx context.Context, examID int64) (int64, error)
	ClearConcoursSeating(ctx context.Context, concoursID int64) (int64, error)
}

type seatingService struct {
	repo      *repository.Repository
	cache     *SeatingCache
	publisher mq.Publisher
	metrics   metrics.Collector
	locks     *xsync.Map[string, *ownerLock]
	timeout   time.Duration
	logger    *zap.Logger
}

// NewSeatingService 创建 SeatingService 实例
// timeout 为单次写操作（校验 → 计算 → 事务）的总期限
func NewSeatingService(
	repo *repository.Repository,
	cache *SeatingCache,
	publisher mq.Publisher,
	collector metrics.Collector,
	timeout time.Duration,
	logger *zap.Logger,
) SeatingService {
	return &seatingService{
		repo:      repo,
		cache:     cache,
		publisher: publisher,
		metrics:   collector,
		locks:     xsync.NewMap[string, *ownerLock](),
		timeout:   timeout,
		logger:    logger,
	}
}

// ownerLock 单个归属方的写锁；refs 为持有者与等待者数量，归零时从 map 中移除
type ownerLock struct {
	sem  chan struct{}
	refs int
}

// seatView 渲染用的单个座位
type seatView struct {
	room   model.Classroom
	person dto.PersonBrief
	number int
}

// ────────────────────── Assign ──────────────────────

func (s *seatingService) AssignExam(ctx context.Context, examID int64, req *dto.AssignExamSeatingRequest) (*dto.SeatingResponse, error) {
	owner := model.SeatOwner{Type: model.OwnerExam, ID: examID}
	start := time.Now()

	resp, err := s.assignExam(ctx, owner, req)
	s.metrics.ObserveAssignment(owner.Type, assignmentResult(err), time.Since(start))
	return resp, err
}

func (s *seatingService) assignExam(ctx context.Context, owner model.SeatOwner, req *dto.AssignExamSeatingRequest) (*dto.SeatingResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.ensureOwner(ctx, owner); err != nil {
		return nil, err
	}

	rooms, missingRooms, err := s.resolveClassrooms(ctx, req.ClassroomIDs)
	if err != nil {
		return nil, err
	}

	// 按学号解析学生，保持请求中的顺序；重复学号原样保留交由引擎报告
	found, err := s.repo.Student.GetByNumbers(ctx, uniqueStrings(req.StudentNumbers))
	if err != nil {
		s.logger.Error("查询学生失败", zap.Error(err))
		return nil, err
	}
	byNumber := make(map[string]model.Student, len(found))
	for _, st := range found {
		byNumber[st.StudentNumber] = st
	}

	people := make([]model.Student, 0, len(req.StudentNumbers))
	var missingPeople []string
	reported := make(map[string]bool)
	for _, number := range req.StudentNumbers {
		st, ok := byNumber[number]
		if !ok {
			if !reported[number] {
				reported[number] = true
				missingPeople = append(missingPeople, number)
			}
			continue
		}
		people = append(people, st)
	}

	if nf := (&seating.NotFoundError{MissingRoomIDs: missingRooms, MissingPeople: missingPeople}); !nf.Empty() {
		return nil, nf
	}

	return assignAndStore(ctx, s, owner, rooms, people, studentBrief)
}

func (s *seatingService) AssignConcours(ctx context.Context, concoursID int64, req *dto.AssignConcoursSeatingRequest) (*dto.SeatingResponse, error) {
	owner := model.SeatOwner{Type: model.OwnerConcours, ID: concoursID}
	start := time.Now()

	resp, err := s.assignConcours(ctx, owner, req)
	s.metrics.ObserveAssignment(owner.Type, assignmentResult(err), time.Since(start))
	return resp, err
}

func (s *seatingService) assignConcours(ctx context.Context, owner model.SeatOwner, req *dto.AssignConcoursSeatingRequest) (*dto.SeatingResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.ensureOwner(ctx, owner); err != nil {
		return nil, err
	}

	rooms, missingRooms, err := s.resolveClassrooms(ctx, req.ClassroomIDs)
	if err != nil {
		return nil, err
	}

	found, err := s.repo.Candidate.GetByIDs(ctx, uniqueIDs(req.CandidateIDs))
	if err != nil {
		s.logger.Error("查询竞赛考生失败", zap.Error(err))
		return nil, err
	}
	byID := make(map[int64]model.Candidate, len(found))
	for _, c := range found {
		byID[c.CandidateID] = c
	}

	people := make([]model.Candidate, 0, len(req.CandidateIDs))
	var missingPeople []string
	reported := make(map[int64]bool)
	for _, id := range req.CandidateIDs {
		c, ok := byID[id]
		if !ok {
			if !reported[id] {
				reported[id] = true
				missingPeople = append(missingPeople, strconv.FormatInt(id, 10))
			}
			continue
		}
		people = append(people, c)
	}

	if nf := (&seating.NotFoundError{MissingRoomIDs: missingRooms, MissingPeople: missingPeople}); !nf.Empty() {
		return nil, nf
	}

	return assignAndStore(ctx, s, owner, rooms, people, candidateBrief)
}

// assignAndStore 串行化 → 计算 → 整体替换 → 失效缓存 → 发布事件
func assignAndStore[P seating.Person](
	ctx context.Context,
	s *seatingService,
	owner model.SeatOwner,
	rooms []model.Classroom,
	people []P,
	brief func(P) dto.PersonBrief,
) (*dto.SeatingResponse, error) {
	unlock, err := s.lockOwner(ctx, owner)
	if err != nil {
		return nil, err
	}
	defer unlock()

	plan, err := seating.Assign(owner.ID, rooms, people)
	if err != nil {
		if errors.Is(err, seating.ErrAssignmentOverflow) {
			s.logger.Error("座位分配内部错误", zap.String("owner", owner.Key()), zap.Error(err))
		}
		return nil, err
	}

	rows := make([]model.SeatAssignment, 0, len(plan.Seats))
	views := make([]seatView, 0, len(plan.Seats))
	for _, seat := range plan.Seats {
		rows = append(rows, model.SeatAssignment{
			ClassroomID: seat.Room.ClassroomID,
			PersonID:    seat.Person.PersonID(),
			SeatNumber:  seat.Number,
		})
		views = append(views, seatView{room: seat.Room, person: brief(seat.Person), number: seat.Number})
	}

	if err := s.repo.SeatAssignment.ReplaceForOwner(ctx, owner, rows); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// 校验之后归属方被删除
			return nil, ownerNotFound(owner)
		}
		s.logger.Error("座位分配事务失败", zap.String("owner", owner.Key()), zap.Error(err))
		return nil, &seating.TransactionError{Op: "replace", Err: err}
	}

	s.cache.Invalidate(ctx, owner)
	s.metrics.ObserveSeats(owner.Type, len(rows))

	resp := groupSeats(owner, views)
	s.publish(ctx, mq.RoutingSeatingAssigned, owner, resp.Headcount, len(resp.Rooms))

	s.logger.Info("座位分配完成",
		zap.String("owner", owner.Key()),
		zap.Int("headcount", resp.Headcount),
		zap.Int("rooms", len(resp.Rooms)),
	)
	return resp, nil
}

// ────────────────────── Get ──────────────────────

func (s *seatingService) GetExamSeating(ctx context.Context, examID int64) (*dto.SeatingResponse, error) {
	owner := model.SeatOwner{Type: model.OwnerExam, ID: examID}
	return s.readSeating(ctx, owner, func(ctx context.Context, ids []int64) (map[int64]dto.PersonBrief, error) {
		students, err := s.repo.Student.GetByIDs(ctx, ids)
		if err != nil {
			return nil, err
		}
		out := make(map[int64]dto.PersonBrief, len(students))
		for _, st := range students {
			out[st.StudentID] = studentBrief(st)
		}
		return out, nil
	})
}

func (s *seatingService) GetConcoursSeating(ctx context.Context, concoursID int64) (*dto.SeatingResponse, error) {
	owner := model.SeatOwner{Type: model.OwnerConcours, ID: concoursID}
	return s.readSeating(ctx, owner, func(ctx context.Context, ids []int64) (map[int64]dto.PersonBrief, error) {
		candidates, err := s.repo.Candidate.GetByIDs(ctx, ids)
		if err != nil {
			return nil, err
		}
		out := make(map[int64]dto.PersonBrief, len(candidates))
		for _, c := range candidates {
			out[c.CandidateID] = candidateBrief(c)
		}
		return out, nil
	})
}

func (s *seatingService) readSeating(
	ctx context.Context,
	owner model.SeatOwner,
	loadPeople func(ctx context.Context, ids []int64) (map[int64]dto.PersonBrief, error),
) (*dto.SeatingResponse, error) {
	if err := s.ensureOwner(ctx, owner); err != nil {
		return nil, err
	}

	// 先取代次再查库：查库期间发生的写入会自增代次，本次结果不会被后续读取命中
	gen, cacheable := s.cache.Generation(ctx, owner)
	var cached dto.SeatingResponse
	if cacheable && s.cache.Get(ctx, owner, gen, &cached) {
		return &cached, nil
	}

	rows, err := s.repo.SeatAssignment.ListByOwner(ctx, owner)
	if err != nil {
		s.logger.Error("查询座位分配失败", zap.String("owner", owner.Key()), zap.Error(err))
		return nil, err
	}

	ids := make([]int64, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.PersonID)
	}
	people, err := loadPeople(ctx, ids)
	if err != nil {
		s.logger.Error("查询座位分配人员失败", zap.String("owner", owner.Key()), zap.Error(err))
		return nil, err
	}

	views := make([]seatView, 0, len(rows))
	for _, row := range rows {
		room := model.Classroom{ClassroomID: row.ClassroomID}
		if row.Classroom != nil {
			room = *row.Classroom
		}
		person, ok := people[row.PersonID]
		if !ok {
			person = dto.PersonBrief{ID: row.PersonID}
		}
		views = append(views, seatView{room: room, person: person, number: row.SeatNumber})
	}

	resp := groupSeats(owner, views)
	if cacheable {
		s.cache.Set(ctx, owner, gen, resp)
	}
	return resp, nil
}

// ────────────────────── Clear ──────────────────────

func (s *seatingService) ClearExamSeating(ctx context.Context, examID int64) (int64, error) {
	return s.clear(ctx, model.SeatOwner{Type: model.OwnerExam, ID: examID})
}

func (s *seatingService) ClearConcoursSeating(ctx context.Context, concoursID int64) (int64, error) {
	return s.clear(ctx, model.SeatOwner{Type: model.OwnerConcours, ID: concoursID})
}

func (s *seatingService) clear(ctx context.Context, owner model.SeatOwner) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.ensureOwner(ctx, owner); err != nil {
		return 0, err
	}

	unlock, err := s.lockOwner(ctx, owner)
	if err != nil {
		return 0, err
	}
	defer unlock()

	deleted, err := s.repo.SeatAssignment.DeleteByOwner(ctx, owner)
	if err != nil {
		s.logger.Error("清空座位分配失败", zap.String("owner", owner.Key()), zap.Error(err))
		return 0, &seating.TransactionError{Op: "clear", Err: err}
	}

	s.cache.Invalidate(ctx, owner)
	if deleted > 0 {
		s.publish(ctx, mq.RoutingSeatingCleared, owner, 0, 0)
	}

	s.logger.Info("座位分配已清空", zap.String("owner", owner.Key()), zap.Int64("deleted", deleted))
	return deleted, nil
}

// ── 内部辅助方法 ──

// lockOwner 获取归属方信号量，等待期间遵守 ctx 期限
func (s *seatingService) lockOwner(ctx context.Context, owner model.SeatOwner) (func(), error) {
	key := owner.Key()
	lock, _ := s.locks.Compute(key, func(l *ownerLock, loaded bool) (*ownerLock, xsync.ComputeOp) {
		if !loaded {
			l = &ownerLock{sem: make(chan struct{}, 1)}
		}
		l.refs++
		return l, xsync.UpdateOp
	})

	select {
	case lock.sem <- struct{}{}:
		return func() {
			<-lock.sem
			s.releaseOwner(key)
		}, nil
	case <-ctx.Done():
		s.releaseOwner(key)
		return nil, &seating.TransactionError{Op: "lock", Err: ctx.Err()}
	}
}

func (s *seatingService) releaseOwner(key string) {
	s.locks.Compute(key, func(l *ownerLock, loaded bool) (*ownerLock, xsync.ComputeOp) {
		if !loaded {
			return l, xsync.CancelOp
		}
		l.refs--
		if l.refs == 0 {
			return l, xsync.DeleteOp
		}
		return l, xsync.UpdateOp
	})
}

func ownerNotFound(owner model.SeatOwner) error {
	if owner.Type == model.OwnerConcours {
		return ErrConcoursNotFound
	}
	return ErrExamNotFound
}

func (s *seatingService) ensureOwner(ctx context.Context, owner model.SeatOwner) error {
	var err error
	switch owner.Type {
	case model.OwnerExam:
		_, err = s.repo.Exam.GetByID(ctx, owner.ID)
	case model.OwnerConcours:
		_, err = s.repo.Concours.GetByID(ctx, owner.ID)
	default:
		return &seating.InvalidInputError{Problems: []string{"未知的归属方类型: " + owner.Type}}
	}

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ownerNotFound(owner)
		}
		s.logger.Error("查询归属方失败", zap.String("owner", owner.Key()), zap.Error(err))
		return err
	}
	return nil
}

// resolveClassrooms 按请求顺序返回教室（重复 ID 原样保留），并列出不存在的 ID
func (s *seatingService) resolveClassrooms(ctx context.Context, ids []int64) ([]model.Classroom, []int64, error) {
	found, err := s.repo.Classroom.GetByIDs(ctx, uniqueIDs(ids))
	if err != nil {
		s.logger.Error("查询教室失败", zap.Error(err))
		return nil, nil, err
	}

	byID := make(map[int64]model.Classroom, len(found))
	for _, room := range found {
		byID[room.ClassroomID] = room
	}

	rooms := make([]model.Classroom, 0, len(ids))
	var missing []int64
	reported := make(map[int64]bool)
	for _, id := range ids {
		room, ok := byID[id]
		if !ok {
			if !reported[id] {
				reported[id] = true
				missing = append(missing, id)
			}
			continue
		}
		rooms = append(rooms, room)
	}
	return rooms, missing, nil
}

func (s *seatingService) publish(ctx context.Context, routingKey string, owner model.SeatOwner, headcount, roomCount int) {
	event := mq.SeatingEvent{
		EventID:    uuid.NewString(),
		OwnerType:  owner.Type,
		OwnerID:    owner.ID,
		Headcount:  headcount,
		RoomCount:  roomCount,
		OccurredAt: time.Now().UTC(),
	}
	if err := s.publisher.Publish(ctx, routingKey, event); err != nil {
		s.logger.Warn("发布座位分配事件失败",
			zap.String("owner", owner.Key()),
			zap.String("routing_key", routingKey),
			zap.Error(err),
		)
	}
}

// groupSeats 按教室分组：教室按名称升序（同名按 ID），座位按座位号升序
func groupSeats(owner model.SeatOwner, views []seatView) *dto.SeatingResponse {
	byRoom := make(map[int64]*dto.SeatingRoomResponse)
	for _, v := range views {
		room, ok := byRoom[v.room.ClassroomID]
		if !ok {
			room = &dto.SeatingRoomResponse{
				Classroom: classroomBrief(v.room),
				Seats:     make([]dto.SeatResponse, 0),
			}
			byRoom[v.room.ClassroomID] = room
		}
		room.Seats = append(room.Seats, dto.SeatResponse{SeatNumber: v.number, Person: v.person})
	}

	rooms := make([]dto.SeatingRoomResponse, 0, len(byRoom))
	for _, room := range byRoom {
		sort.Slice(room.Seats, func(i, j int) bool {
			return room.Seats[i].SeatNumber < room.Seats[j].SeatNumber
		})
		room.Assigned = len(room.Seats)
		room.Available = room.Classroom.Capacity - room.Assigned
		rooms = append(rooms, *room)
	}
	sort.Slice(rooms, func(i, j int) bool {
		if rooms[i].Classroom.Name != rooms[j].Classroom.Name {
			return rooms[i].Classroom.Name < rooms[j].Classroom.Name
		}
		return rooms[i].Classroom.ID < rooms[j].Classroom.ID
	})

	return &dto.SeatingResponse{
		OwnerType: owner.Type,
		OwnerID:   owner.ID,
		Headcount: len(views),
		Rooms:     rooms,
	}
}

// assignmentResult 指标标签
func assignmentResult(err error) string {
	var (
		invalid  *seating.InvalidInputError
		notFound *seating.NotFoundError
		capErr   *seating.InsufficientCapacityError
		txErr    *seating.TransactionError
	)
	switch {
	case err == nil:
		return "success"
	case errors.As(err, &invalid):
		return "invalid"
	case errors.As(err, &notFound), errors.Is(err, ErrExamNotFound), errors.Is(err, ErrConcoursNotFound):
		return "not_found"
	case errors.As(err, &capErr):
		return "capacity"
	case errors.As(err, &txErr):
		return "transaction"
	default:
		return "internal"
	}
}

func classroomBrief(c model.Classroom) dto.ClassroomBrief {
	return dto.ClassroomBrief{ID: c.ClassroomID, Name: c.Name, Building: c.Building, Capacity: c.Capacity}
}

func studentBrief(st model.Student) dto.PersonBrief {
	return dto.PersonBrief{ID: st.StudentID, Number: st.StudentNumber, FirstName: st.FirstName, LastName: st.LastName}
}

func candidateBrief(c model.Candidate) dto.PersonBrief {
	return dto.PersonBrief{ID: c.CandidateID, Number: c.CIN, FirstName: c.FirstName, LastName: c.LastName}
}

func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]bool, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

func uniqueStrings(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}
