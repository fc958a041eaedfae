package service

import (
	"context"
	"sort"
	"sync"

	"gorm.io/gorm"

	"github.com/MohamedBENIAICH/Exam-Planning-backend-sub000/internal/model"
	"github.com/MohamedBENIAICH/Exam-Planning-backend-sub000/internal/repository"
	pkgerrors "github.com/MohamedBENIAICH/Exam-Planning-backend-sub000/pkg/errors"
)

// ── Mock ClassroomRepository ──

type mockClassroomRepo struct {
	rooms  map[int64]*model.Classroom
	seats  *mockSeatRepo
	nextID int64
}

func newMockClassroomRepo() *mockClassroomRepo {
	return &mockClassroomRepo{rooms: make(map[int64]*model.Classroom)}
}

func (m *mockClassroomRepo) Create(_ context.Context, room *model.Classroom) error {
	for _, r := range m.rooms {
		if r.Name == room.Name {
			return gorm.ErrDuplicatedKey
		}
	}
	m.nextID++
	room.ClassroomID = m.nextID
	room.Version = 1
	cp := *room
	m.rooms[room.ClassroomID] = &cp
	return nil
}

func (m *mockClassroomRepo) GetByID(_ context.Context, id int64) (*model.Classroom, error) {
	if r, ok := m.rooms[id]; ok {
		cp := *r
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockClassroomRepo) GetByIDs(_ context.Context, ids []int64) ([]model.Classroom, error) {
	var result []model.Classroom
	for _, id := range ids {
		if r, ok := m.rooms[id]; ok {
			result = append(result, *r)
		}
	}
	return result, nil
}

func (m *mockClassroomRepo) List(_ context.Context, building string, offset, limit int) ([]model.Classroom, int64, error) {
	var result []model.Classroom
	for _, r := range m.rooms {
		if building == "" || r.Building == building {
			result = append(result, *r)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	total := int64(len(result))
	if offset >= len(result) {
		return []model.Classroom{}, total, nil
	}
	end := offset + limit
	if end > len(result) {
		end = len(result)
	}
	return result[offset:end], total, nil
}

func (m *mockClassroomRepo) Update(_ context.Context, room *model.Classroom) error {
	cur, ok := m.rooms[room.ClassroomID]
	if !ok || cur.Version != room.Version {
		return pkgerrors.ErrOptimisticLock
	}
	if m.seats != nil && room.Capacity < cur.Capacity && room.Capacity < m.seats.maxSeatNumber(room.ClassroomID) {
		return pkgerrors.ErrCapacityBelowAssigned
	}
	room.Version++
	cp := *room
	m.rooms[room.ClassroomID] = &cp
	return nil
}

func (m *mockClassroomRepo) Delete(_ context.Context, id int64) error {
	if _, ok := m.rooms[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.rooms, id)
	return nil
}

// ── Mock StudentRepository ──

type mockStudentRepo struct {
	students map[int64]*model.Student
	nextID   int64
}

func newMockStudentRepo() *mockStudentRepo {
	return &mockStudentRepo{students: make(map[int64]*model.Student)}
}

func (m *mockStudentRepo) Create(_ context.Context, st *model.Student) error {
	for _, s := range m.students {
		if s.StudentNumber == st.StudentNumber {
			return gorm.ErrDuplicatedKey
		}
	}
	m.nextID++
	st.StudentID = m.nextID
	cp := *st
	m.students[st.StudentID] = &cp
	return nil
}

func (m *mockStudentRepo) GetByID(_ context.Context, id int64) (*model.Student, error) {
	if s, ok := m.students[id]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockStudentRepo) GetByIDs(_ context.Context, ids []int64) ([]model.Student, error) {
	var result []model.Student
	for _, id := range ids {
		if s, ok := m.students[id]; ok {
			result = append(result, *s)
		}
	}
	return result, nil
}

func (m *mockStudentRepo) GetByNumbers(_ context.Context, numbers []string) ([]model.Student, error) {
	want := make(map[string]bool, len(numbers))
	for _, n := range numbers {
		want[n] = true
	}
	var result []model.Student
	for _, s := range m.students {
		if want[s.StudentNumber] {
			result = append(result, *s)
		}
	}
	return result, nil
}

func (m *mockStudentRepo) List(_ context.Context, _ string, _, _ int) ([]model.Student, int64, error) {
	var result []model.Student
	for _, s := range m.students {
		result = append(result, *s)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].StudentID < result[j].StudentID })
	return result, int64(len(result)), nil
}

// ── Mock CandidateRepository ──

type mockCandidateRepo struct {
	candidates map[int64]*model.Candidate
	nextID     int64
}

func newMockCandidateRepo() *mockCandidateRepo {
	return &mockCandidateRepo{candidates: make(map[int64]*model.Candidate)}
}

func (m *mockCandidateRepo) Create(_ context.Context, c *model.Candidate) error {
	for _, existing := range m.candidates {
		if existing.CIN == c.CIN {
			return gorm.ErrDuplicatedKey
		}
	}
	m.nextID++
	c.CandidateID = m.nextID
	cp := *c
	m.candidates[c.CandidateID] = &cp
	return nil
}

func (m *mockCandidateRepo) GetByID(_ context.Context, id int64) (*model.Candidate, error) {
	if c, ok := m.candidates[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCandidateRepo) GetByIDs(_ context.Context, ids []int64) ([]model.Candidate, error) {
	var result []model.Candidate
	for _, id := range ids {
		if c, ok := m.candidates[id]; ok {
			result = append(result, *c)
		}
	}
	return result, nil
}

func (m *mockCandidateRepo) List(_ context.Context, _ string, _, _ int) ([]model.Candidate, int64, error) {
	var result []model.Candidate
	for _, c := range m.candidates {
		result = append(result, *c)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CandidateID < result[j].CandidateID })
	return result, int64(len(result)), nil
}

// ── Mock ExamRepository ──

type mockExamRepo struct {
	exams  map[int64]*model.Exam
	seats  *mockSeatRepo
	nextID int64
}

func newMockExamRepo(seats *mockSeatRepo) *mockExamRepo {
	return &mockExamRepo{exams: make(map[int64]*model.Exam), seats: seats}
}

func (m *mockExamRepo) Create(_ context.Context, exam *model.Exam) error {
	m.nextID++
	exam.ExamID = m.nextID
	exam.Version = 1
	cp := *exam
	m.exams[exam.ExamID] = &cp
	return nil
}

func (m *mockExamRepo) GetByID(_ context.Context, id int64) (*model.Exam, error) {
	if e, ok := m.exams[id]; ok {
		cp := *e
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockExamRepo) List(_ context.Context, status string, _, _ int) ([]model.Exam, int64, error) {
	var result []model.Exam
	for _, e := range m.exams {
		if status == "" || e.Status == status {
			result = append(result, *e)
		}
	}
	return result, int64(len(result)), nil
}

func (m *mockExamRepo) Update(_ context.Context, exam *model.Exam) error {
	cur, ok := m.exams[exam.ExamID]
	if !ok || cur.Version != exam.Version {
		return pkgerrors.ErrOptimisticLock
	}
	exam.Version++
	cp := *exam
	m.exams[exam.ExamID] = &cp
	return nil
}

func (m *mockExamRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := m.exams[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	_, _ = m.seats.DeleteByOwner(ctx, model.SeatOwner{Type: model.OwnerExam, ID: id})
	delete(m.exams, id)
	return nil
}

// ── Mock ConcoursRepository ──

type mockConcoursRepo struct {
	list   map[int64]*model.Concours
	seats  *mockSeatRepo
	nextID int64
}

func newMockConcoursRepo(seats *mockSeatRepo) *mockConcoursRepo {
	return &mockConcoursRepo{list: make(map[int64]*model.Concours), seats: seats}
}

func (m *mockConcoursRepo) Create(_ context.Context, c *model.Concours) error {
	m.nextID++
	c.ConcoursID = m.nextID
	c.Version = 1
	cp := *c
	m.list[c.ConcoursID] = &cp
	return nil
}

func (m *mockConcoursRepo) GetByID(_ context.Context, id int64) (*model.Concours, error) {
	if c, ok := m.list[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockConcoursRepo) List(_ context.Context, status string, _, _ int) ([]model.Concours, int64, error) {
	var result []model.Concours
	for _, c := range m.list {
		if status == "" || c.Status == status {
			result = append(result, *c)
		}
	}
	return result, int64(len(result)), nil
}

func (m *mockConcoursRepo) Update(_ context.Context, c *model.Concours) error {
	cur, ok := m.list[c.ConcoursID]
	if !ok || cur.Version != c.Version {
		return pkgerrors.ErrOptimisticLock
	}
	c.Version++
	cp := *c
	m.list[c.ConcoursID] = &cp
	return nil
}

func (m *mockConcoursRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := m.list[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	_, _ = m.seats.DeleteByOwner(ctx, model.SeatOwner{Type: model.OwnerConcours, ID: id})
	delete(m.list, id)
	return nil
}

// ── Mock SeatAssignmentRepository ──

// mockSeatRepo 按归属方整体存取；replaceErr 非空时模拟事务失败且不修改已有数据
type mockSeatRepo struct {
	mu           sync.Mutex
	rows         map[string][]model.SeatAssignment
	rooms        *mockClassroomRepo
	replaceErr   error
	replaceCalls int
	// onReplace 在写入前调用，用于并发测试观察临界区
	onReplace func(owner model.SeatOwner)
	// onList 在读出结果之后调用，模拟读取与返回之间发生的写入
	onList func(owner model.SeatOwner)
	// ownerExists 非空时在写入前复查归属方，对应仓储层的 FOR SHARE 复查
	ownerExists func(owner model.SeatOwner) bool
}

func newMockSeatRepo(rooms *mockClassroomRepo) *mockSeatRepo {
	return &mockSeatRepo{rows: make(map[string][]model.SeatAssignment), rooms: rooms}
}

func (m *mockSeatRepo) ReplaceForOwner(_ context.Context, owner model.SeatOwner, rows []model.SeatAssignment) error {
	if m.onReplace != nil {
		m.onReplace(owner)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.replaceCalls++
	if m.replaceErr != nil {
		return m.replaceErr
	}
	if m.ownerExists != nil && !m.ownerExists(owner) {
		return gorm.ErrRecordNotFound
	}
	for _, row := range rows {
		if r, ok := m.rooms.rooms[row.ClassroomID]; ok && row.SeatNumber > r.Capacity {
			return pkgerrors.ErrSeatBeyondCapacity
		}
	}

	stored := make([]model.SeatAssignment, len(rows))
	for i, row := range rows {
		row.SeatAssignmentID = int64(i + 1)
		row.OwnerType = owner.Type
		row.OwnerID = owner.ID
		stored[i] = row
	}
	m.rows[owner.Key()] = stored
	return nil
}

func (m *mockSeatRepo) ListByOwner(_ context.Context, owner model.SeatOwner) ([]model.SeatAssignment, error) {
	result := m.listByOwner(owner)
	if m.onList != nil {
		m.onList(owner)
	}
	return result, nil
}

func (m *mockSeatRepo) listByOwner(owner model.SeatOwner) []model.SeatAssignment {
	m.mu.Lock()
	defer m.mu.Unlock()

	result := make([]model.SeatAssignment, 0, len(m.rows[owner.Key()]))
	for _, row := range m.rows[owner.Key()] {
		if r, ok := m.rooms.rooms[row.ClassroomID]; ok {
			cp := *r
			row.Classroom = &cp
		}
		result = append(result, row)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Classroom.Name != result[j].Classroom.Name {
			return result[i].Classroom.Name < result[j].Classroom.Name
		}
		return result[i].SeatNumber < result[j].SeatNumber
	})
	return result
}

func (m *mockSeatRepo) DeleteByOwner(_ context.Context, owner model.SeatOwner) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := int64(len(m.rows[owner.Key()]))
	delete(m.rows, owner.Key())
	return n, nil
}

func (m *mockSeatRepo) CountByClassroom(_ context.Context, classroomID int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var n int64
	for _, rows := range m.rows {
		for _, row := range rows {
			if row.ClassroomID == classroomID {
				n++
			}
		}
	}
	return n, nil
}

func (m *mockSeatRepo) OwnersByClassroom(_ context.Context, classroomID int64) ([]model.SeatOwner, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var owners []model.SeatOwner
	for _, rows := range m.rows {
		for _, row := range rows {
			if row.ClassroomID == classroomID {
				owners = append(owners, model.SeatOwner{Type: row.OwnerType, ID: row.OwnerID})
				break
			}
		}
	}
	return owners, nil
}

func (m *mockSeatRepo) maxSeatNumber(classroomID int64) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	maxSeat := 0
	for _, rows := range m.rows {
		for _, row := range rows {
			if row.ClassroomID == classroomID && row.SeatNumber > maxSeat {
				maxSeat = row.SeatNumber
			}
		}
	}
	return maxSeat
}

// ── 聚合 ──

type mockRepos struct {
	classrooms *mockClassroomRepo
	students   *mockStudentRepo
	candidates *mockCandidateRepo
	exams      *mockExamRepo
	concours   *mockConcoursRepo
	seats      *mockSeatRepo
}

func newMockRepos() (*repository.Repository, *mockRepos) {
	rooms := newMockClassroomRepo()
	seats := newMockSeatRepo(rooms)
	rooms.seats = seats
	m := &mockRepos{
		classrooms: rooms,
		students:   newMockStudentRepo(),
		candidates: newMockCandidateRepo(),
		exams:      newMockExamRepo(seats),
		concours:   newMockConcoursRepo(seats),
		seats:      seats,
	}
	repo := &repository.Repository{
		Classroom:      m.classrooms,
		Student:        m.students,
		Candidate:      m.candidates,
		Exam:           m.exams,
		Concours:       m.concours,
		SeatAssignment: m.seats,
	}
	return repo, m
}

// ownerExists 归属方是否仍存在，供 mockSeatRepo.ownerExists 使用
func (m *mockRepos) ownerExists(owner model.SeatOwner) bool {
	switch owner.Type {
	case model.OwnerExam:
		_, ok := m.exams.exams[owner.ID]
		return ok
	case model.OwnerConcours:
		_, ok := m.concours.list[owner.ID]
		return ok
	}
	return false
}
