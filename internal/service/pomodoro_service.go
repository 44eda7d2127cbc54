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
	// ErrPresetLimitReached 已有 model.MaxPomodoroPresets 个预设
	ErrPresetLimitReached = repository.ErrPresetLimit
	ErrPresetNotFound     = errors.New("番茄钟预设不存在")
	ErrPresetNameEmpty    = errors.New("预设名称不能为空")
	ErrPresetDuration     = errors.New("时长必须为正整数分钟")
)

// PomodoroService 番茄钟预设业务接口
type PomodoroService interface {
	List(ctx context.Context, userID uint) ([]dto.PresetResponse, error)
	Create(ctx context.Context, userID uint, req *dto.PresetRequest) (*dto.PresetResponse, error)
	Update(ctx context.Context, id, userID uint, req *dto.PresetRequest) (*dto.PresetResponse, error)
	Delete(ctx context.Context, id, userID uint) error
}

type pomodoroService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewPomodoroService 创建 PomodoroService 实例
func NewPomodoroService(repo *repository.Repository, logger *zap.Logger) PomodoroService {
	return &pomodoroService{repo: repo, logger: logger}
}

func (s *pomodoroService) List(ctx context.Context, userID uint) ([]dto.PresetResponse, error) {
	presets, err := s.repo.Pomodoro.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	list := make([]dto.PresetResponse, 0, len(presets))
	for i := range presets {
		list = append(list, toPresetResponse(&presets[i]))
	}
	return list, nil
}

func (s *pomodoroService) Create(ctx context.Context, userID uint, req *dto.PresetRequest) (*dto.PresetResponse, error) {
	preset, err := presetFromRequest(req)
	if err != nil {
		return nil, err
	}
	preset.UserID = userID

	if err := s.repo.Pomodoro.Create(ctx, preset); err != nil {
		if errors.Is(err, ErrPresetLimitReached) {
			s.logger.Info("番茄钟预设已达上限", zap.Uint("user_id", userID))
			return nil, err
		}
		s.logger.Error("创建番茄钟预设失败", zap.Uint("user_id", userID), zap.Error(err))
		return nil, err
	}

	resp := toPresetResponse(preset)
	return &resp, nil
}

func (s *pomodoroService) Update(ctx context.Context, id, userID uint, req *dto.PresetRequest) (*dto.PresetResponse, error) {
	preset, err := presetFromRequest(req)
	if err != nil {
		return nil, err
	}
	preset.ID = id
	preset.UserID = userID

	if err := s.repo.Pomodoro.Update(ctx, preset); err != nil {
		return nil, notFoundAs(err, ErrPresetNotFound)
	}

	saved, err := s.repo.Pomodoro.GetByID(ctx, id, userID)
	if err != nil {
		return nil, notFoundAs(err, ErrPresetNotFound)
	}
	resp := toPresetResponse(saved)
	return &resp, nil
}

func (s *pomodoroService) Delete(ctx context.Context, id, userID uint) error {
	return notFoundAs(s.repo.Pomodoro.Delete(ctx, id, userID), ErrPresetNotFound)
}

func presetFromRequest(req *dto.PresetRequest) (*model.PomodoroPreset, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrPresetNameEmpty
	}
	if req.Work <= 0 || req.Short <= 0 || req.Long <= 0 {
		return nil, ErrPresetDuration
	}
	return &model.PomodoroPreset{
		Name:       name,
		Work:       req.Work,
		ShortBreak: req.Short,
		LongBreak:  req.Long,
		ColorWork:  colorPtr(req.Colors.Work),
		ColorShort: colorPtr(req.Colors.Short),
		ColorLong:  colorPtr(req.Colors.Long),
	}, nil
}

// colorPtr 空串存为 NULL
func colorPtr(c string) *string {
	c = strings.TrimSpace(c)
	if c == "" {
		return nil
	}
	c = strings.ToLower(c)
	return &c
}

func colorValue(c *string) string {
	if c == nil {
		return ""
	}
	return *c
}

func toPresetResponse(p *model.PomodoroPreset) dto.PresetResponse {
	return dto.PresetResponse{
		ID:    p.ID,
		Slot:  p.Slot,
		Name:  p.Name,
		Work:  p.Work,
		Short: p.ShortBreak,
		Long:  p.LongBreak,
		Colors: dto.PresetColors{
			Work:  colorValue(p.ColorWork),
			Short: colorValue(p.ColorShort),
			Long:  colorValue(p.ColorLong),
		},
	}
}
