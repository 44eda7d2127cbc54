package service

import (
	"context"
	"errors"
	"sort"
	"strings"

	"go.uber.org/zap"

	"planeador/backend/internal/dto"
	"planeador/backend/internal/repository"
)

// ── 课表模块业务错误 ──

var ErrSlotFieldEmpty = errors.New("day、time、subject 均不能为空")

// ScheduleService 每周课表业务接口
// day 与 time 作为不透明标签处理，不做时间重叠校验
type ScheduleService interface {
	// LoadSchedule 按 day 分组，组内按 time 字典序升序
	LoadSchedule(ctx context.Context, userID uint) (dto.ScheduleResponse, error)
	// SaveSlot 同一 (day, time) 已存在时原地更新
	SaveSlot(ctx context.Context, userID uint, req *dto.SaveSlotRequest) error
	DeleteSlot(ctx context.Context, userID uint, req *dto.DeleteSlotRequest) (bool, error)
}

type scheduleService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewScheduleService 创建 ScheduleService 实例
func NewScheduleService(repo *repository.Repository, logger *zap.Logger) ScheduleService {
	return &scheduleService{repo: repo, logger: logger}
}

func (s *scheduleService) LoadSchedule(ctx context.Context, userID uint) (dto.ScheduleResponse, error) {
	slots, err := s.repo.Schedule.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := make(dto.ScheduleResponse)
	for _, slot := range slots {
		resp[slot.Day] = append(resp[slot.Day], dto.ScheduleEntry{Time: slot.Time, Subject: slot.Subject})
	}
	// 存储层已排序，这里再按 time 排一次，不依赖数据库排序规则
	for day := range resp {
		entries := resp[day]
		sort.SliceStable(entries, func(i, j int) bool { return entries[i].Time < entries[j].Time })
	}
	return resp, nil
}

func (s *scheduleService) SaveSlot(ctx context.Context, userID uint, req *dto.SaveSlotRequest) error {
	day := strings.TrimSpace(req.Day)
	tm := strings.TrimSpace(req.Time)
	subject := strings.TrimSpace(req.Subject)
	if day == "" || tm == "" || subject == "" {
		return ErrSlotFieldEmpty
	}

	if err := s.repo.Schedule.Save(ctx, userID, day, tm, subject); err != nil {
		s.logger.Error("保存课表失败",
			zap.Uint("user_id", userID),
			zap.String("day", day),
			zap.String("time", tm),
			zap.Error(err),
		)
		return err
	}
	return nil
}

func (s *scheduleService) DeleteSlot(ctx context.Context, userID uint, req *dto.DeleteSlotRequest) (bool, error) {
	return s.repo.Schedule.Delete(ctx, userID, strings.TrimSpace(req.Day), strings.TrimSpace(req.Time))
}
