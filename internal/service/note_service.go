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
	ErrNoteNotFound     = errors.New("笔记不存在")
	ErrNoteContentEmpty = errors.New("笔记内容不能为空")
)

// NoteService 笔记业务接口
type NoteService interface {
	Create(ctx context.Context, subjectID, userID uint, req *dto.NoteRequest) (*dto.NoteResponse, error)
	Update(ctx context.Context, id, userID uint, req *dto.NoteRequest) error
	Delete(ctx context.Context, id, userID uint) error
}

type noteService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewNoteService 创建 NoteService 实例
func NewNoteService(repo *repository.Repository, logger *zap.Logger) NoteService {
	return &noteService{repo: repo, logger: logger}
}

// Create 创建笔记，返回 id 与数据库生成的创建时间
func (s *noteService) Create(ctx context.Context, subjectID, userID uint, req *dto.NoteRequest) (*dto.NoteResponse, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, ErrNoteContentEmpty
	}
	if err := requireSubject(ctx, s.repo, subjectID, userID); err != nil {
		return nil, err
	}

	note := &model.Note{SubjectID: subjectID, UserID: userID, Content: content}
	if err := s.repo.Note.Create(ctx, note); err != nil {
		s.logger.Error("创建笔记失败", zap.Uint("subject_id", subjectID), zap.Error(err))
		return nil, err
	}

	// created_at 由数据库赋值，重新读取
	saved, err := s.repo.Note.GetByID(ctx, note.ID, userID)
	if err != nil {
		return nil, notFoundAs(err, ErrNoteNotFound)
	}
	resp := toNoteResponse(saved)
	return &resp, nil
}

func (s *noteService) Update(ctx context.Context, id, userID uint, req *dto.NoteRequest) error {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return ErrNoteContentEmpty
	}
	return notFoundAs(s.repo.Note.UpdateContent(ctx, id, userID, content), ErrNoteNotFound)
}

func (s *noteService) Delete(ctx context.Context, id, userID uint) error {
	return notFoundAs(s.repo.Note.Delete(ctx, id, userID), ErrNoteNotFound)
}

func toNoteResponse(n *model.Note) dto.NoteResponse {
	return dto.NoteResponse{
		ID:        n.ID,
		SubjectID: n.SubjectID,
		Content:   n.Content,
		CreatedAt: n.CreatedAt.Format(dateTimeLayout),
	}
}
