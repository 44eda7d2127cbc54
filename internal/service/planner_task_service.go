package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"planeador/backend/internal/dto"
	"planeador/backend/internal/model"
	"planeador/backend/internal/repository"
)

var (
	ErrPlannerTaskNotFound   = errors.New("规划任务不存在")
	ErrPlannerTaskTitleEmpty = errors.New("规划任务标题不能为空")
)

// PlannerTaskService 规划任务业务接口
// 链接与联系人在更新时整体替换，不做增量比较
type PlannerTaskService interface {
	List(ctx context.Context, userID uint, req *dto.PlannerTaskListRequest) ([]dto.PlannerTaskResponse, error)
	Get(ctx context.Context, id, userID uint) (*dto.PlannerTaskResponse, error)
	Create(ctx context.Context, userID uint, req *dto.PlannerTaskRequest) (*dto.PlannerTaskResponse, error)
	Update(ctx context.Context, id, userID uint, req *dto.PlannerTaskRequest) (*dto.PlannerTaskResponse, error)
	Delete(ctx context.Context, id, userID uint) error
}

type plannerTaskService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewPlannerTaskService 创建 PlannerTaskService 实例
func NewPlannerTaskService(repo *repository.Repository, logger *zap.Logger) PlannerTaskService {
	return &plannerTaskService{repo: repo, logger: logger}
}

func (s *plannerTaskService) List(ctx context.Context, userID uint, req *dto.PlannerTaskListRequest) ([]dto.PlannerTaskResponse, error) {
	if req.Date != "" {
		if _, err := time.Parse(dateLayout, req.Date); err != nil {
			return nil, ErrInvalidDate
		}
	}
	tasks, err := s.repo.PlannerTask.List(ctx, userID, req.Date)
	if err != nil {
		return nil, err
	}
	list := make([]dto.PlannerTaskResponse, 0, len(tasks))
	for i := range tasks {
		list = append(list, toPlannerTaskResponse(&tasks[i]))
	}
	return list, nil
}

func (s *plannerTaskService) Get(ctx context.Context, id, userID uint) (*dto.PlannerTaskResponse, error) {
	task, err := s.repo.PlannerTask.GetByID(ctx, id, userID)
	if err != nil {
		return nil, notFoundAs(err, ErrPlannerTaskNotFound)
	}
	resp := toPlannerTaskResponse(task)
	return &resp, nil
}

func (s *plannerTaskService) Create(ctx context.Context, userID uint, req *dto.PlannerTaskRequest) (*dto.PlannerTaskResponse, error) {
	task, err := plannerTaskFromRequest(req)
	if err != nil {
		return nil, err
	}
	task.UserID = userID

	if err := s.repo.PlannerTask.Create(ctx, task); err != nil {
		s.logger.Error("创建规划任务失败", zap.Uint("user_id", userID), zap.Error(err))
		return nil, err
	}
	return s.Get(ctx, task.ID, userID)
}

func (s *plannerTaskService) Update(ctx context.Context, id, userID uint, req *dto.PlannerTaskRequest) (*dto.PlannerTaskResponse, error) {
	task, err := plannerTaskFromRequest(req)
	if err != nil {
		return nil, err
	}
	task.ID = id
	task.UserID = userID

	if err := s.repo.PlannerTask.Update(ctx, task); err != nil {
		return nil, notFoundAs(err, ErrPlannerTaskNotFound)
	}
	return s.Get(ctx, id, userID)
}

func (s *plannerTaskService) Delete(ctx context.Context, id, userID uint) error {
	return notFoundAs(s.repo.PlannerTask.Delete(ctx, id, userID), ErrPlannerTaskNotFound)
}

func plannerTaskFromRequest(req *dto.PlannerTaskRequest) (*model.PlannerTask, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, ErrPlannerTaskTitleEmpty
	}
	importance, err := normalizeImportance(req.Importance)
	if err != nil {
		return nil, err
	}

	task := &model.PlannerTask{
		Title:       title,
		Description: strings.TrimSpace(req.Description),
		Importance:  importance,
		Topic:       optionalText(req.Topic),
	}
	if date := strings.TrimSpace(req.Date); date != "" {
		if _, err := time.Parse(dateLayout, date); err != nil {
			return nil, ErrInvalidDate
		}
		task.Date = &date
	}

	for _, u := range req.Links {
		if u = strings.TrimSpace(u); u != "" {
			task.Links = append(task.Links, model.PlannerTaskLink{URL: u})
		}
	}
	for _, c := range req.Contacts {
		if c = strings.TrimSpace(c); c != "" {
			task.Contacts = append(task.Contacts, model.PlannerTaskContact{Name: c})
		}
	}
	return task, nil
}

// optionalText 去除空白后为空返回 nil
func optionalText(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func toPlannerTaskResponse(t *model.PlannerTask) dto.PlannerTaskResponse {
	resp := dto.PlannerTaskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Date:        t.Date,
		Importance:  t.Importance,
		Topic:       t.Topic,
		Links:       make([]string, 0, len(t.Links)),
		Contacts:    make([]string, 0, len(t.Contacts)),
		CreatedAt:   t.CreatedAt.Format(dateTimeLayout),
	}
	for _, l := range t.Links {
		resp.Links = append(resp.Links, l.URL)
	}
	for _, c := range t.Contacts {
		resp.Contacts = append(resp.Contacts, c.Name)
	}
	return resp
}
