package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"go.uber.org/zap"

	"github.com/MohamedBENIAICH/Exam-Planning-backend-sub000/internal/dto"
)

// calendarProductID iCalendar PRODID
const calendarProductID = "-//exam-planning//seating//ZH"

// CalendarService 考试 / 竞赛日历导出接口（RFC 5545）
//
// 每个文件含一个 VEVENT：时间取自考试 / 竞赛，LOCATION 为已分配教室列表，
// 供召集单邮件附带或导入个人日历。
type CalendarService interface {
	ExamCalendar(ctx context.Context, examID int64) (string, string, error)
	ConcoursCalendar(ctx context.Context, concoursID int64) (string, string, error)
}

type calendarService struct {
	seating  SeatingService
	exam     ExamService
	concours ConcoursService
	host     string
	logger   *zap.Logger
}

// NewCalendarService 创建 CalendarService 实例；host 用于生成全局唯一的 UID
func NewCalendarService(seating SeatingService, exam ExamService, concours ConcoursService, host string, logger *zap.Logger) CalendarService {
	if host == "" {
		host = "exam-planning"
	}
	return &calendarService{seating: seating, exam: exam, concours: concours, host: host, logger: logger}
}

// calendarEntry 生成日历所需的最小信息
type calendarEntry struct {
	uid         string
	title       string
	description string
	location    string
	startsAt    time.Time
	endsAt      time.Time
}

func (s *calendarService) ExamCalendar(ctx context.Context, examID int64) (string, string, error) {
	exam, err := s.exam.GetByID(ctx, examID)
	if err != nil {
		return "", "", err
	}
	plan, err := s.seating.GetExamSeating(ctx, examID)
	if err != nil {
		return "", "", err
	}

	entry, err := newCalendarEntry(fmt.Sprintf("exam-%d@%s", examID, s.host), exam.Title, exam.ModuleName, "", exam.StartsAt, exam.EndsAt, plan)
	if err != nil {
		s.logger.Error("考试时间格式异常", zap.Int64("id", examID), zap.Error(err))
		return "", "", err
	}
	return serializeCalendar(entry), fmt.Sprintf("exam-%d.ics", examID), nil
}

func (s *calendarService) ConcoursCalendar(ctx context.Context, concoursID int64) (string, string, error) {
	c, err := s.concours.GetByID(ctx, concoursID)
	if err != nil {
		return "", "", err
	}
	plan, err := s.seating.GetConcoursSeating(ctx, concoursID)
	if err != nil {
		return "", "", err
	}

	entry, err := newCalendarEntry(fmt.Sprintf("concours-%d@%s", concoursID, s.host), c.Title, c.Description, c.Location, c.StartsAt, c.EndsAt, plan)
	if err != nil {
		s.logger.Error("竞赛时间格式异常", zap.Int64("id", concoursID), zap.Error(err))
		return "", "", err
	}
	return serializeCalendar(entry), fmt.Sprintf("concours-%d.ics", concoursID), nil
}

// newCalendarEntry startsAt / endsAt 为 RFC3339 字符串（来自响应 DTO）
func newCalendarEntry(uid, title, description, site, startsAt, endsAt string, plan *dto.SeatingResponse) (*calendarEntry, error) {
	start, err := time.Parse(time.RFC3339, startsAt)
	if err != nil {
		return nil, err
	}
	end, err := time.Parse(time.RFC3339, endsAt)
	if err != nil {
		return nil, err
	}

	rooms := make([]string, 0, len(plan.Rooms))
	for _, room := range plan.Rooms {
		rooms = append(rooms, room.Classroom.Name)
	}
	location := strings.Join(rooms, ", ")
	if site != "" {
		if location != "" {
			location = site + " / " + location
		} else {
			location = site
		}
	}

	desc := fmt.Sprintf("已分配座位: %d", plan.Headcount)
	if description != "" {
		desc = description + "\n" + desc
	}

	return &calendarEntry{
		uid:         uid,
		title:       title,
		description: desc,
		location:    location,
		startsAt:    start,
		endsAt:      end,
	}, nil
}

func serializeCalendar(entry *calendarEntry) string {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(calendarProductID)

	now := time.Now().UTC()
	event := cal.AddEvent(entry.uid)
	event.SetCreatedTime(now)
	event.SetDtStampTime(now)
	event.SetStartAt(entry.startsAt.UTC())
	event.SetEndAt(entry.endsAt.UTC())
	event.SetSummary(entry.title)
	event.SetDescription(entry.description)
	if entry.location != "" {
		event.SetLocation(entry.location)
	}

	return cal.Serialize()
}
