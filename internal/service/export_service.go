package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/MohamedBENIAICH/Exam-Planning-backend-sub000/internal/dto"
)

// ── 导出模块业务错误 ──

var (
	ErrExportNoSeats      = errors.New("尚未分配座位，无法导出")
	ErrExportGenerateFail = errors.New("生成 Excel 文件失败")
)

// ExportService 座位表导出接口
//
// 导出以 bytes.Buffer 返回，由 Handler 层设置 HTTP 响应头后写入 Response。
// Excel 格式：每间教室一个 Sheet，行为座位，列为 座位号 / 编号 / 姓 / 名。
type ExportService interface {
	ExportExamSeating(ctx context.Context, examID int64) (*bytes.Buffer, string, error)
	ExportConcoursSeating(ctx context.Context, concoursID int64) (*bytes.Buffer, string, error)
}

type exportService struct {
	seating  SeatingService
	exam     ExamService
	concours ConcoursService
	logger   *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(seating SeatingService, exam ExamService, concours ConcoursService, logger *zap.Logger) ExportService {
	return &exportService{seating: seating, exam: exam, concours: concours, logger: logger}
}

func (s *exportService) ExportExamSeating(ctx context.Context, examID int64) (*bytes.Buffer, string, error) {
	exam, err := s.exam.GetByID(ctx, examID)
	if err != nil {
		return nil, "", err
	}
	plan, err := s.seating.GetExamSeating(ctx, examID)
	if err != nil {
		return nil, "", err
	}

	buf, err := s.render(exam.Title, "学号", plan)
	if err != nil {
		return nil, "", err
	}
	return buf, fmt.Sprintf("座位表_考试_%d.xlsx", examID), nil
}

func (s *exportService) ExportConcoursSeating(ctx context.Context, concoursID int64) (*bytes.Buffer, string, error) {
	c, err := s.concours.GetByID(ctx, concoursID)
	if err != nil {
		return nil, "", err
	}
	plan, err := s.seating.GetConcoursSeating(ctx, concoursID)
	if err != nil {
		return nil, "", err
	}

	buf, err := s.render(c.Title, "身份证号", plan)
	if err != nil {
		return nil, "", err
	}
	return buf, fmt.Sprintf("座位表_竞赛_%d.xlsx", concoursID), nil
}

// ═══════════════════════════════════════════════════════════
// render: 生成 Excel
// ═══════════════════════════════════════════════════════════
//
// Sheet 布局：
//   - 第 1 行：标题「<名称> - <教室>（已分配 n / 容量 c）」
//   - 第 2 行：表头
//   - 第 3 行起：按座位号升序

func (s *exportService) render(title, numberHeader string, plan *dto.SeatingResponse) (*bytes.Buffer, error) {
	if plan.Headcount == 0 {
		return nil, ErrExportNoSeats
	}

	f := excelize.NewFile()
	defer f.Close()

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	used := make(map[string]bool)
	for i, room := range plan.Rooms {
		sheet := sheetName(room.Classroom.Name, used)
		if i == 0 {
			// 复用默认 Sheet1，保证至少一个 Sheet
			if err := f.SetSheetName("Sheet1", sheet); err != nil {
				s.logger.Error("重命名 Sheet 失败", zap.Error(err))
				return nil, ErrExportGenerateFail
			}
		} else if _, err := f.NewSheet(sheet); err != nil {
			s.logger.Error("创建 Sheet 失败", zap.String("sheet", sheet), zap.Error(err))
			return nil, ErrExportGenerateFail
		}

		f.SetColWidth(sheet, "A", "A", 10)
		f.SetColWidth(sheet, "B", "B", 18)
		f.SetColWidth(sheet, "C", "D", 20)

		f.SetCellValue(sheet, "A1", fmt.Sprintf("%s - %s（已分配 %d / 容量 %d）",
			title, room.Classroom.Name, room.Assigned, room.Classroom.Capacity))
		f.MergeCell(sheet, "A1", "D1")
		f.SetCellStyle(sheet, "A1", "A1", headerStyle)

		f.SetCellValue(sheet, "A2", "座位号")
		f.SetCellValue(sheet, "B2", numberHeader)
		f.SetCellValue(sheet, "C2", "姓")
		f.SetCellValue(sheet, "D2", "名")
		f.SetCellStyle(sheet, "A2", "D2", headerStyle)

		for j, seat := range room.Seats {
			row := j + 3
			f.SetCellValue(sheet, cell("A", row), seat.SeatNumber)
			f.SetCellValue(sheet, cell("B", row), seat.Person.Number)
			f.SetCellValue(sheet, cell("C", row), seat.Person.LastName)
			f.SetCellValue(sheet, cell("D", row), seat.Person.FirstName)
		}
	}
	f.SetActiveSheet(0)

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, ErrExportGenerateFail
	}
	return buf, nil
}

// ── 辅助函数 ──

// sheetName Excel 限制 Sheet 名 31 字符且不能含 : \ / ? * [ ]，重名时追加序号
func sheetName(name string, used map[string]bool) string {
	cleaned := strings.Map(func(r rune) rune {
		if strings.ContainsRune(":\\/?*[]", r) {
			return '_'
		}
		return r
	}, name)
	if strings.TrimSpace(cleaned) == "" {
		cleaned = "教室"
	}

	base := truncateRunes(cleaned, 31)
	candidate := base
	for n := 2; used[candidate]; n++ {
		suffix := fmt.Sprintf("(%d)", n)
		candidate = truncateRunes(cleaned, 31-len([]rune(suffix))) + suffix
	}
	used[candidate] = true
	return candidate
}

func truncateRunes(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
