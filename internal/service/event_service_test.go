package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/MohamedBENIAICH/Exam-Planning-backend-sub000/internal/dto"
	"github.com/MohamedBENIAICH/Exam-Planning-backend-sub000/internal/model"
	pkgerrors "github.com/MohamedBENIAICH/Exam-Planning-backend-sub000/pkg/errors"
)

// ── 测试辅助 ──

func setupTestEventServices() (ExamService, ConcoursService, *mockRepos) {
	repo, mocks := newMockRepos()
	logger := zap.NewNop()
	cache := NewSeatingCache(nil, 0, nil, logger)
	return NewExamService(repo, cache, logger), NewConcoursService(repo, cache, logger), mocks
}

var (
	testStart = time.Date(2026, 6, 15, 9, 0, 0, 0, time.UTC)
	testEnd   = testStart.Add(2 * time.Hour)
)

// ── Exam 测试 ──

func TestExamService_Create_Success(t *testing.T) {
	exams, _, _ := setupTestEventServices()

	result, err := exams.Create(context.Background(), &dto.CreateExamRequest{
		Title: "数据库原理", ModuleName: "INF301", StartsAt: testStart, EndsAt: testEnd,
	}, "admin-001")
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}
	if result.Status != "scheduled" {
		t.Errorf("期望 Status=scheduled，实际=%s", result.Status)
	}
	if result.StartsAt != "2026-06-15T09:00:00Z" {
		t.Errorf("期望 RFC3339 开始时间，实际=%s", result.StartsAt)
	}
}

func TestExamService_Create_InvalidTimeRange(t *testing.T) {
	exams, _, _ := setupTestEventServices()

	_, err := exams.Create(context.Background(), &dto.CreateExamRequest{
		Title: "数据库原理", StartsAt: testEnd, EndsAt: testStart,
	}, "admin-001")
	if !errors.Is(err, ErrInvalidTimeRange) {
		t.Errorf("期望 ErrInvalidTimeRange，实际: %v", err)
	}
}

func TestExamService_Update_ValidatesMergedRange(t *testing.T) {
	exams, _, _ := setupTestEventServices()
	ctx := context.Background()
	created, _ := exams.Create(ctx, &dto.CreateExamRequest{Title: "数据库原理", StartsAt: testStart, EndsAt: testEnd}, "admin-001")

	// 只改结束时间，合并后早于开始时间
	early := testStart.Add(-time.Hour)
	_, err := exams.Update(ctx, created.ID, &dto.UpdateExamRequest{EndsAt: &early, Version: created.Version}, "admin-001")
	if !errors.Is(err, ErrInvalidTimeRange) {
		t.Errorf("期望 ErrInvalidTimeRange，实际: %v", err)
	}

	status := "done"
	result, err := exams.Update(ctx, created.ID, &dto.UpdateExamRequest{Status: &status, Version: created.Version}, "admin-001")
	if err != nil {
		t.Fatalf("Update 应成功: %v", err)
	}
	if result.Status != "done" || result.Version != 2 {
		t.Errorf("期望 Status=done Version=2，实际=%s/%d", result.Status, result.Version)
	}

	if _, err := exams.Update(ctx, created.ID, &dto.UpdateExamRequest{Status: &status, Version: 1}, "admin-001"); !errors.Is(err, pkgerrors.ErrOptimisticLock) {
		t.Errorf("期望 ErrOptimisticLock，实际: %v", err)
	}
}

func TestExamService_Delete_RemovesSeats(t *testing.T) {
	exams, _, mocks := setupTestEventServices()
	ctx := context.Background()
	created, _ := exams.Create(ctx, &dto.CreateExamRequest{Title: "数据库原理", StartsAt: testStart, EndsAt: testEnd}, "admin-001")
	owner := model.SeatOwner{Type: model.OwnerExam, ID: created.ID}
	_ = mocks.seats.ReplaceForOwner(ctx, owner, []model.SeatAssignment{{ClassroomID: 1, PersonID: 1, SeatNumber: 1}})

	if err := exams.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete 应成功: %v", err)
	}
	if _, ok := mocks.seats.rows[owner.Key()]; ok {
		t.Error("删除考试应一并删除座位分配")
	}
	if err := exams.Delete(ctx, created.ID); !errors.Is(err, ErrExamNotFound) {
		t.Errorf("重复删除期望 ErrExamNotFound，实际: %v", err)
	}
}

// ── Concours 测试 ──

func TestConcoursService_CRUD(t *testing.T) {
	_, concours, _ := setupTestEventServices()
	ctx := context.Background()

	created, err := concours.Create(ctx, &dto.CreateConcoursRequest{
		Title: "工程师入学竞赛", Location: "主校区", StartsAt: testStart, EndsAt: testEnd,
	}, "admin-001")
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}

	loc := "分校区"
	updated, err := concours.Update(ctx, created.ID, &dto.UpdateConcoursRequest{Location: &loc, Version: created.Version}, "admin-001")
	if err != nil {
		t.Fatalf("Update 应成功: %v", err)
	}
	if updated.Location != "分校区" {
		t.Errorf("期望 Location=分校区，实际=%s", updated.Location)
	}

	list, total, err := concours.List(ctx, &dto.EventListRequest{Status: "scheduled"})
	if err != nil || total != 1 || len(list) != 1 {
		t.Errorf("期望列出 1 个竞赛，实际 total=%d err=%v", total, err)
	}

	if err := concours.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete 应成功: %v", err)
	}
	if _, err := concours.GetByID(ctx, created.ID); !errors.Is(err, ErrConcoursNotFound) {
		t.Errorf("期望 ErrConcoursNotFound，实际: %v", err)
	}
}
