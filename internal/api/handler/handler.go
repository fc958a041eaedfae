package handler

import "github.com/MohamedBENIAICH/Exam-Planning-backend-sub000/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Seating   *SeatingHandler
	Classroom *ClassroomHandler
	Exam      *ExamHandler
	Concours  *ConcoursHandler
	Student   *StudentHandler
	Candidate *CandidateHandler
	Export    *ExportHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Seating:   NewSeatingHandler(svc.Seating),
		Classroom: NewClassroomHandler(svc.Classroom),
		Exam:      NewExamHandler(svc.Exam),
		Concours:  NewConcoursHandler(svc.Concours),
		Student:   NewStudentHandler(svc.Student),
		Candidate: NewCandidateHandler(svc.Candidate),
		Export:    NewExportHandler(svc.Export, svc.Calendar),
	}
}
