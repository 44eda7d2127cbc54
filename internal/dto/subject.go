package dto

import (
	"github.com/shopspring/decimal"

	"planeador/backend/pkg/optional"
)

// ── 科目模块 DTO ──

// SubjectNameRequest 创建 / 重命名科目请求
type SubjectNameRequest struct {
	Name string `json:"name" binding:"required,min=1,max=100"`
}

// SubjectResponse 科目信息
type SubjectResponse struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at"`
}

// SubjectDetailResponse 科目详情：科目本身及其任务、考试、笔记
type SubjectDetailResponse struct {
	SubjectResponse
	Tasks []TaskResponse `json:"tasks"`
	Exams []ExamResponse `json:"exams"`
	Notes []NoteResponse `json:"notes"`
}

// DeleteSubjectResponse 级联删除的行数
type DeleteSubjectResponse struct {
	Tasks int64 `json:"tasks"`
	Exams int64 `json:"exams"`
	Notes int64 `json:"notes"`
}

// ── 任务 ──

// CreateTaskRequest 创建任务请求，due_date 为 YYYY-MM-DD
type CreateTaskRequest struct {
	Description string `json:"description" binding:"required,max=2000"`
	DueDate     string `json:"due_date"    binding:"omitempty,datetime=2006-01-02"`
}

// UpdateTaskRequest 更新任务描述请求
type UpdateTaskRequest struct {
	Description string `json:"description" binding:"required,max=2000"`
}

// SetTaskCompletedRequest 标记任务完成状态
type SetTaskCompletedRequest struct {
	Completed *bool `json:"completed" binding:"required"`
}

// TaskResponse 任务信息
type TaskResponse struct {
	ID          uint    `json:"id"`
	SubjectID   uint    `json:"subject_id"`
	Description string  `json:"description"`
	DueDate     *string `json:"due_date"`
	Completed   bool    `json:"completed"`
}

// ── 考试 ──

// CreateExamRequest 创建考试请求
type CreateExamRequest struct {
	Topic    string           `json:"topic"     binding:"required,max=255"`
	ExamDate string           `json:"exam_date" binding:"omitempty,datetime=2006-01-02"`
	Grade    *decimal.Decimal `json:"grade"`
}

// UpdateExamRequest 考试稀疏更新：只修改请求中出现的字段
//
//	topic      出现时不得为空
//	exam_date  "" 表示清空日期，YYYY-MM-DD 表示设置
//	grade      null 表示清空成绩，数字表示设置（保留两位小数）
type UpdateExamRequest struct {
	Topic    optional.Value[string]          `json:"topic"`
	ExamDate optional.Value[string]          `json:"exam_date"`
	Grade    optional.Value[decimal.Decimal] `json:"grade"`
}

// Empty 请求中没有任何可更新字段
func (r *UpdateExamRequest) Empty() bool {
	return !r.Topic.Set && !r.ExamDate.Set && !r.Grade.Set
}

// ExamResponse 考试信息，grade 为两位小数字符串
type ExamResponse struct {
	ID        uint    `json:"id"`
	SubjectID uint    `json:"subject_id"`
	Topic     string  `json:"topic"`
	ExamDate  *string `json:"exam_date"`
	Grade     *string `json:"grade"`
}

// ── 笔记 ──

// NoteRequest 创建 / 更新笔记请求
type NoteRequest struct {
	Content string `json:"content" binding:"required,max=10000"`
}

// NoteResponse 笔记信息
type NoteResponse struct {
	ID        uint   `json:"id"`
	SubjectID uint   `json:"subject_id"`
	Content   string `json:"content"`
	CreatedAt string `json:"created_at"`
}

// [自证通过] internal/dto/subject.go
