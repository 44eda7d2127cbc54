package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"planeador/backend/internal/dto"
	"planeador/backend/internal/model"
	"planeador/backend/internal/repository"
)

var (
	ErrTaskNotFound         = errors.New("任务不存在")
	ErrTaskDescriptionEmpty = errors.New("任务描述不能为空")
)

// TaskService 科目任务业务接口
type TaskService interface {
	Create(ctx context.Context, subjectID, userID uint, req *dto.CreateTaskRequest) (*dto.TaskResponse, error)
	UpdateDescription(ctx context.Context, id, userID uint, req *dto.UpdateTaskRequest) error
	SetCompleted(ctx context.Context, id, userID uint, completed bool) error
	Delete(ctx context.Context, id, userID uint) error
}

type taskService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewTaskService 创建 TaskService 实例
func NewTaskService(repo *repository.Repository, logger *zap.Logger) TaskService {
	return &taskService{repo: repo, logger: logger}
}

func (s *taskService) Create(ctx context.Context, subjectID, userID uint, req *dto.CreateTaskRequest) (*dto.TaskResponse, error) {
	description := strings.TrimSpace(req.Description)
	if description == "" {
		return nil, ErrTaskDescriptionEmpty
	}
	dueDate, err := parseDate(req.DueDate)
	if err != nil {
		return nil, err
	}

	if err := requireSubject(ctx, s.repo, subjectID, userID); err != nil {
		return nil, err
	}

	task := &model.Task{
		SubjectID:   subjectID,
		UserID:      userID,
		Description: description,
		DueDate:     dueDate,
	}
	if err := s.repo.Task.Create(ctx, task); err != nil {
		s.logger.Error("创建任务失败", zap.Uint("subject_id", subjectID), zap.Error(err))
		return nil, err
	}

	resp := toTaskResponse(task)
	return &resp, nil
}

func (s *taskService) UpdateDescription(ctx context.Context, id, userID uint, req *dto.UpdateTaskRequest) error {
	description := strings.TrimSpace(req.Description)
	if description == "" {
		return ErrTaskDescriptionEmpty
	}
	return notFoundAs(s.repo.Task.UpdateDescription(ctx, id, userID, description), ErrTaskNotFound)
}

func (s *taskService) SetCompleted(ctx context.Context, id, userID uint, completed bool) error {
	return notFoundAs(s.repo.Task.SetCompleted(ctx, id, userID, completed), ErrTaskNotFound)
}

func (s *taskService) Delete(ctx context.Context, id, userID uint) error {
	return notFoundAs(s.repo.Task.Delete(ctx, id, userID), ErrTaskNotFound)
}

func toTaskResponse(t *model.Task) dto.TaskResponse {
	return dto.TaskResponse{
		ID:          t.ID,
		SubjectID:   t.SubjectID,
		Description: t.Description,
		DueDate:     formatDate(t.DueDate),
		Completed:   t.Completed,
	}
}
