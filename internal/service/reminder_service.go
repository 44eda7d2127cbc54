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
	ErrReminderNotFound   = errors.New("提醒不存在")
	ErrReminderTitleEmpty = errors.New("提醒标题不能为空")
	ErrInvalidImportance  = errors.New("重要程度只能是 baja、media 或 alta")
	ErrInvalidMonth       = errors.New("月份格式应为 YYYY-MM")
)

// ReminderService 日历提醒业务接口
type ReminderService interface {
	// List date 非空按天查询，否则 month 非空按月查询，都为空返回全部
	List(ctx context.Context, userID uint, req *dto.ReminderListRequest) ([]dto.ReminderResponse, error)
	Create(ctx context.Context, userID uint, req *dto.ReminderRequest) (*dto.ReminderResponse, error)
	Update(ctx context.Context, id, userID uint, req *dto.ReminderRequest) (*dto.ReminderResponse, error)
	Delete(ctx context.Context, id, userID uint) error
}

type reminderService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewReminderService 创建 ReminderService 实例
func NewReminderService(repo *repository.Repository, logger *zap.Logger) ReminderService {
	return &reminderService{repo: repo, logger: logger}
}

func (s *reminderService) List(ctx context.Context, userID uint, req *dto.ReminderListRequest) ([]dto.ReminderResponse, error) {
	var (
		reminders []model.Reminder
		err       error
	)
	switch {
	case req.Date != "":
		if _, perr := time.Parse(dateLayout, req.Date); perr != nil {
			return nil, ErrInvalidDate
		}
		reminders, err = s.repo.Reminder.ListByDate(ctx, userID, req.Date)
	case req.Month != "":
		if _, perr := time.Parse(monthLayout, req.Month); perr != nil {
			return nil, ErrInvalidMonth
		}
		reminders, err = s.repo.Reminder.ListByMonth(ctx, userID, req.Month)
	default:
		reminders, err = s.repo.Reminder.ListByUser(ctx, userID)
	}
	if err != nil {
		return nil, err
	}

	list := make([]dto.ReminderResponse, 0, len(reminders))
	for i := range reminders {
		list = append(list, toReminderResponse(&reminders[i]))
	}
	return list, nil
}

func (s *reminderService) Create(ctx context.Context, userID uint, req *dto.ReminderRequest) (*dto.ReminderResponse, error) {
	reminder, err := reminderFromRequest(req)
	if err != nil {
		return nil, err
	}
	reminder.UserID = userID

	if err := s.repo.Reminder.Create(ctx, reminder); err != nil {
		s.logger.Error("创建提醒失败", zap.Uint("user_id", userID), zap.Error(err))
		return nil, err
	}
	resp := toReminderResponse(reminder)
	return &resp, nil
}

func (s *reminderService) Update(ctx context.Context, id, userID uint, req *dto.ReminderRequest) (*dto.ReminderResponse, error) {
	reminder, err := reminderFromRequest(req)
	if err != nil {
		return nil, err
	}
	reminder.ID = id
	reminder.UserID = userID

	if err := s.repo.Reminder.Update(ctx, reminder); err != nil {
		return nil, notFoundAs(err, ErrReminderNotFound)
	}
	resp := toReminderResponse(reminder)
	return &resp, nil
}

func (s *reminderService) Delete(ctx context.Context, id, userID uint) error {
	return notFoundAs(s.repo.Reminder.Delete(ctx, id, userID), ErrReminderNotFound)
}

func reminderFromRequest(req *dto.ReminderRequest) (*model.Reminder, error) {
	if _, err := time.Parse(dateLayout, req.Date); err != nil {
		return nil, ErrInvalidDate
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, ErrReminderTitleEmpty
	}
	importance, err := normalizeImportance(req.Importance)
	if err != nil {
		return nil, err
	}
	return &model.Reminder{
		Date:        req.Date,
		Title:       title,
		Description: strings.TrimSpace(req.Description),
		Importance:  importance,
	}, nil
}

// normalizeImportance 空值默认为 baja
func normalizeImportance(v string) (string, error) {
	v = strings.ToLower(strings.TrimSpace(v))
	if v == "" {
		return model.ImportanceLow, nil
	}
	if !model.ValidImportance(v) {
		return "", ErrInvalidImportance
	}
	return v, nil
}

func toReminderResponse(r *model.Reminder) dto.ReminderResponse {
	return dto.ReminderResponse{
		ID:          r.ID,
		Date:        r.Date,
		Title:       r.Title,
		Description: r.Description,
		Importance:  r.Importance,
	}
}
