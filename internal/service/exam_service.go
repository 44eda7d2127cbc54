package service

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"planeador/backend/internal/dto"
	"planeador/backend/internal/model"
	"planeador/backend/internal/repository"
	"planeador/backend/pkg/optional"
)

var (
	ErrExamNotFound   = errors.New("考试不存在")
	ErrExamTopicEmpty = errors.New("考试主题不能为空")
	ErrInvalidGrade   = errors.New("成绩应在 0 到 999.99 之间")
	// ErrEmptyPatch 更新请求中没有任何字段
	ErrEmptyPatch = repository.ErrEmptyPatch
)

var maxGrade = decimal.RequireFromString("999.99")

// ExamService 考试业务接口
type ExamService interface {
	Create(ctx context.Context, subjectID, userID uint, req *dto.CreateExamRequest) (*dto.ExamResponse, error)
	// Update 稀疏更新，只修改请求中出现的字段
	Update(ctx context.Context, id, userID uint, req *dto.UpdateExamRequest) (*dto.ExamResponse, error)
	Delete(ctx context.Context, id, userID uint) error
}

type examService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewExamService 创建 ExamService 实例
func NewExamService(repo *repository.Repository, logger *zap.Logger) ExamService {
	return &examService{repo: repo, logger: logger}
}

func (s *examService) Create(ctx context.Context, subjectID, userID uint, req *dto.CreateExamRequest) (*dto.ExamResponse, error) {
	topic := strings.TrimSpace(req.Topic)
	if topic == "" {
		return nil, ErrExamTopicEmpty
	}
	examDate, err := parseDate(req.ExamDate)
	if err != nil {
		return nil, err
	}
	var grade decimal.NullDecimal
	if req.Grade != nil {
		g, err := normalizeGrade(*req.Grade)
		if err != nil {
			return nil, err
		}
		grade = decimal.NewNullDecimal(g)
	}

	if err := requireSubject(ctx, s.repo, subjectID, userID); err != nil {
		return nil, err
	}

	exam := &model.Exam{
		SubjectID: subjectID,
		UserID:    userID,
		Topic:     topic,
		ExamDate:  examDate,
		Grade:     grade,
	}
	if err := s.repo.Exam.Create(ctx, exam); err != nil {
		s.logger.Error("创建考试失败", zap.Uint("subject_id", subjectID), zap.Error(err))
		return nil, err
	}

	resp := toExamResponse(exam)
	return &resp, nil
}

func (s *examService) Update(ctx context.Context, id, userID uint, req *dto.UpdateExamRequest) (*dto.ExamResponse, error) {
	patch, err := buildExamPatch(req)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Exam.Patch(ctx, id, userID, patch); err != nil {
		return nil, notFoundAs(err, ErrExamNotFound)
	}

	exam, err := s.repo.Exam.GetByID(ctx, id, userID)
	if err != nil {
		return nil, notFoundAs(err, ErrExamNotFound)
	}
	resp := toExamResponse(exam)
	return &resp, nil
}

func (s *examService) Delete(ctx context.Context, id, userID uint) error {
	return notFoundAs(s.repo.Exam.Delete(ctx, id, userID), ErrExamNotFound)
}

// buildExamPatch 在访问存储前完成全部校验
//
//	topic      出现时必须非空
//	exam_date  "" 或 null 清空，其余必须是 YYYY-MM-DD
//	grade      null 清空，数字四舍五入到两位小数
func buildExamPatch(req *dto.UpdateExamRequest) (repository.ExamPatch, error) {
	var patch repository.ExamPatch
	if req.Empty() {
		return patch, ErrEmptyPatch
	}

	if req.Topic.Set {
		topic := strings.TrimSpace(req.Topic.V)
		if req.Topic.Null || topic == "" {
			return patch, ErrExamTopicEmpty
		}
		patch.Topic = optional.Of(topic)
	}

	if req.ExamDate.Set {
		date, err := parseDate(req.ExamDate.V)
		if err != nil {
			return patch, err
		}
		if date == nil {
			patch.ExamDate = optional.Null[datatypes.Date]()
		} else {
			patch.ExamDate = optional.Of(*date)
		}
	}

	if req.Grade.Set {
		if req.Grade.Null {
			patch.Grade = optional.Null[decimal.Decimal]()
		} else {
			g, err := normalizeGrade(req.Grade.V)
			if err != nil {
				return patch, err
			}
			patch.Grade = optional.Of(g)
		}
	}

	return patch, nil
}

func normalizeGrade(g decimal.Decimal) (decimal.Decimal, error) {
	g = g.Round(2)
	if g.IsNegative() || g.GreaterThan(maxGrade) {
		return decimal.Decimal{}, ErrInvalidGrade
	}
	return g, nil
}

func toExamResponse(e *model.Exam) dto.ExamResponse {
	resp := dto.ExamResponse{
		ID:        e.ID,
		SubjectID: e.SubjectID,
		Topic:     e.Topic,
		ExamDate:  formatDate(e.ExamDate),
	}
	if e.Grade.Valid {
		g := e.Grade.Decimal.StringFixed(2)
		resp.Grade = &g
	}
	return resp
}
